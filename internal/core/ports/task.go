package ports

import (
	"context"

	"tripmatch/internal/core/domain"
)

// TaskFlowService covers the business actions around a task's lifecycle.
// Every status change it performs goes through the workflow engine; the flow
// layer never writes task.status itself.
type TaskFlowService interface {
	CreateTask(ctx context.Context, supplierID uint64, input domain.CreateTaskInput) (domain.Task, error)
	PublishTask(ctx context.Context, taskID, supplierID uint64) (domain.TransitionResult, error)
	CancelTask(ctx context.Context, taskID, supplierID uint64, reason *string) (domain.TransitionResult, error)
	SubmitApplication(ctx context.Context, taskID, creatorID uint64, input domain.SubmitApplicationInput) (domain.TaskApplication, error)
	ReviewApplication(ctx context.Context, applicationID, supplierID uint64, decision domain.ReviewDecision, notes *string) error
	SubmitWork(ctx context.Context, taskID, creatorID uint64, input domain.SubmitWorkInput) (domain.WorkAsset, error)
	ReviewWork(ctx context.Context, taskID, supplierID, assetID uint64, decision domain.ReviewDecision, feedback *string) error
	CompleteTask(ctx context.Context, taskID, actorID uint64) (domain.TransitionResult, error)
	SubmitRating(ctx context.Context, taskID, fromUserID, toUserID uint64, score int, comment *string) (domain.Rating, error)
}
