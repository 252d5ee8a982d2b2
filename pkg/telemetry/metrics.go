package telemetry

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	TransitionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "workflow_transitions_total", Help: "Committed stage transitions by target stage"},
		[]string{"to_stage"},
	)
	InvalidTransitions = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "workflow_invalid_transitions_total", Help: "Transition requests rejected by the stage registry"},
	)
	NotifyFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "workflow_notify_failures_total", Help: "Notification dispatches that failed and were dropped"},
	)
	TasksCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "tasks_created_total", Help: "Tasks created in draft"},
	)
)

// Handler exposes the /metrics HTTP handler with a singleton registry.
func Handler() http.Handler {
	once.Do(func() {
		prometheus.MustRegister(
			TransitionCounter,
			InvalidTransitions,
			NotifyFailures,
			TasksCreated,
		)
	})
	return promhttp.Handler()
}
