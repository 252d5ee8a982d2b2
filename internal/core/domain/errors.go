package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTaskNotFound                 = errors.New("task not found")
	ErrApplicationNotFound          = errors.New("application not found")
	ErrAssetNotFound                = errors.New("work asset not found")
	ErrInvalidTransition            = errors.New("invalid stage transition")
	ErrNotAuthorized                = errors.New("actor not authorized for task")
	ErrDuplicateApplication         = errors.New("application already submitted")
	ErrDuplicateRating              = errors.New("rating already submitted")
	ErrTaskNotAcceptingApplications = errors.New("task not accepting applications")
	ErrTaskNotCompleted             = errors.New("task not completed")
	ErrInvalidRating                = errors.New("rating score out of range")
	ErrConcurrentModification       = errors.New("task modified concurrently")
)

// ValidationError carries every violated field constraint at once so callers
// can surface them in a single response.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// TransitionError reports a rejected stage change. It unwraps to
// ErrInvalidTransition so callers can branch with errors.Is.
type TransitionError struct {
	From TaskStage
	To   TaskStage
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid stage transition from %q to %q", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
