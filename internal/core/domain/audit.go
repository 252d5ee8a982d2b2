package domain

import "time"

// AuditEntry is one immutable compliance record of a state mutation. It is
// written in the same transaction as the mutation it describes.
type AuditEntry struct {
	ID        uint64
	ActorID   uint64
	Action    string
	TableName string
	RecordID  uint64
	OldValues map[string]any
	NewValues map[string]any
	CreatedAt time.Time
}

type NotificationType string

const (
	NotificationTaskAvailable     NotificationType = "task_available"
	NotificationProposalsReady    NotificationType = "proposals_ready"
	NotificationProposalSelected  NotificationType = "proposal_selected"
	NotificationProposalRejected  NotificationType = "proposal_rejected"
	NotificationContentForReview  NotificationType = "content_for_review"
	NotificationRevisionRequested NotificationType = "revision_requested"
	NotificationReadyToPublish    NotificationType = "ready_to_publish"
	NotificationTaskCompleted     NotificationType = "task_completed"
	NotificationRatingReceived    NotificationType = "rating_received"
)

// Notification is one per-user message record. Delivery is best effort and
// never blocks the operation that produced it.
type Notification struct {
	ID        uint64
	UserID    uint64
	Type      NotificationType
	Title     string
	Message   string
	Data      map[string]any
	ReadAt    *time.Time
	CreatedAt time.Time
}
