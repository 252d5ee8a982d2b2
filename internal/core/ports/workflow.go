package ports

import (
	"context"

	"tripmatch/internal/core/domain"
)

// WorkflowStore is the persistence gateway for the workflow engine. Reads run
// outside a transaction; every mutation goes through InTx so that a stage
// change and its side effects commit or roll back as one unit.
type WorkflowStore interface {
	GetTask(ctx context.Context, taskID uint64) (domain.Task, error)
	ListStageHistory(ctx context.Context, taskID uint64) ([]domain.StageHistoryEntry, error)
	DashboardCounts(ctx context.Context, userID uint64, role domain.Role) (domain.DashboardCounts, error)
	StageBreakdown(ctx context.Context, userID uint64, role domain.Role) (map[domain.TaskStage]int, error)
	RecentActivities(ctx context.Context, userID uint64, limit int) ([]domain.TaskActivity, error)

	InTx(ctx context.Context, fn func(tx WorkflowTx) error) error
}

// WorkflowTx is the transactional surface of the store. GetTaskForUpdate
// takes a row lock on the task so concurrent transitions on the same task
// serialize; UpdateTaskStatus is additionally guarded on the expected current
// status and returns domain.ErrConcurrentModification when the guard misses.
type WorkflowTx interface {
	GetTaskForUpdate(ctx context.Context, taskID uint64) (domain.Task, error)
	UpdateTaskStatus(ctx context.Context, taskID uint64, from, to domain.TaskStage) error
	SetAssignedCreator(ctx context.Context, taskID uint64, creatorID *uint64) error
	InsertTask(ctx context.Context, task domain.Task) (uint64, error)

	InsertStageHistory(ctx context.Context, entry domain.StageHistoryEntry) error
	UpsertStageProgress(ctx context.Context, taskID uint64, stage domain.TaskStage, percent float64) error
	SeedStageProgress(ctx context.Context, taskID uint64, rows []domain.StageProgress) error
	InsertActivity(ctx context.Context, activity domain.TaskActivity) error
	AppendAudit(ctx context.Context, entry domain.AuditEntry) error

	InsertApplication(ctx context.Context, app domain.TaskApplication) (uint64, error)
	GetApplicationForUpdate(ctx context.Context, applicationID uint64) (domain.TaskApplication, error)
	HasApplication(ctx context.Context, taskID, creatorID uint64) (bool, error)
	UpdateApplicationStatus(ctx context.Context, applicationID uint64, status domain.ApplicationStatus, notes *string) error
	RejectPendingApplications(ctx context.Context, taskID, exceptID uint64, note string) ([]domain.TaskApplication, error)
	IncrementApplicationCount(ctx context.Context, taskID uint64) error

	InsertAsset(ctx context.Context, asset domain.WorkAsset) (uint64, error)
	GetAssetForUpdate(ctx context.Context, assetID uint64) (domain.WorkAsset, error)
	UpdateAssetStatus(ctx context.Context, assetID uint64, status domain.AssetStatus, feedback *string) error

	InsertRating(ctx context.Context, rating domain.Rating) (uint64, error)
	HasRating(ctx context.Context, taskID, fromUserID, toUserID uint64, ratingType domain.RatingType) (bool, error)
	AverageRating(ctx context.Context, userID uint64) (float64, int, error)
	UpdateUserRating(ctx context.Context, userID uint64, average float64, count int) error
	IncrementCompletedCount(ctx context.Context, userID uint64) error
}

// NotificationDispatcher delivers one per-user notification. Implementations
// are fire-and-forget; the workflow engine logs and swallows their errors.
type NotificationDispatcher interface {
	Notify(ctx context.Context, userID uint64, notificationType domain.NotificationType, title, message string, data map[string]any) error
}

// UserDirectory resolves notification audiences from the identity store.
type UserDirectory interface {
	ActiveCreatorIDs(ctx context.Context, task domain.Task) ([]uint64, error)
	ActiveMediaIDs(ctx context.Context) ([]uint64, error)
}

type WorkflowService interface {
	Transition(ctx context.Context, taskID uint64, to domain.TaskStage, actorID uint64, reason *string) (domain.TransitionResult, error)
	GetProgress(ctx context.Context, taskID uint64) (domain.ProgressView, error)
	GetDashboard(ctx context.Context, userID uint64, role domain.Role) (domain.DashboardView, error)
	CheckDeadline(ctx context.Context, taskID uint64) (domain.DeadlineCheck, error)
}
