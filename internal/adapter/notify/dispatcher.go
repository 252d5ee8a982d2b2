package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"tripmatch/internal/core/domain"
	"tripmatch/internal/core/ports"
)

const insertNotificationQuery = `
INSERT INTO notifications (user_id, notification_type, title, message, data, created_at)
VALUES (?, ?, ?, ?, ?, ?);
`

const pushChannel = "notifications"

// pushEvent is the payload published for realtime delivery.
type pushEvent struct {
	UserID  uint64         `json:"user_id"`
	Type    string         `json:"type"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// Dispatcher stores per-user notification rows and publishes a push event on
// Redis. It deliberately holds its own database handle rather than joining
// the caller's transaction: a failed delivery must never roll back the
// operation that produced it.
type Dispatcher struct {
	db    *sqlx.DB
	redis *redis.Client
}

var _ ports.NotificationDispatcher = (*Dispatcher)(nil)

// NewDispatcher creates a dispatcher. Either handle may be nil: without
// redis only notification rows are written, without a database only the push
// event goes out.
func NewDispatcher(db *sqlx.DB, redisClient *redis.Client) *Dispatcher {
	return &Dispatcher{db: db, redis: redisClient}
}

func (d *Dispatcher) Notify(
	ctx context.Context,
	userID uint64,
	notificationType domain.NotificationType,
	title, message string,
	data map[string]any,
) error {
	var encodedData *string
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return err
		}
		s := string(encoded)
		encodedData = &s
	}

	if d.db != nil {
		if _, err := d.db.ExecContext(ctx, insertNotificationQuery,
			userID, string(notificationType), title, message, encodedData, time.Now().UTC(),
		); err != nil {
			return err
		}
	}

	d.publish(ctx, pushEvent{
		UserID:  userID,
		Type:    string(notificationType),
		Title:   title,
		Message: message,
		Data:    data,
	})
	return nil
}

// publish is best effort on top of best effort: the row is already stored,
// the push only wakes connected clients early.
func (d *Dispatcher) publish(ctx context.Context, event pushEvent) {
	if d.redis == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		zap.L().Warn("failed to encode push event", zap.Error(err))
		return
	}

	if err := d.redis.Publish(ctx, pushChannel, payload).Err(); err != nil {
		zap.L().Warn("failed to publish push event",
			zap.Uint64("user_id", event.UserID),
			zap.Error(err))
	}
}
