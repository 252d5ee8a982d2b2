package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"tripmatch/internal/core/domain"
	"tripmatch/internal/core/ports"
	"tripmatch/pkg/telemetry"
)

const dashboardActivityLimit = 10

// WorkflowService is the single choke point for task status changes. A
// transition updates the status, appends stage history, writes the audit
// record and recomputes stage progress inside one transaction; notification
// fan-out rides along best-effort and never rolls the transaction back.
type WorkflowService struct {
	store      ports.WorkflowStore
	dispatcher ports.NotificationDispatcher
	directory  ports.UserDirectory
	now        func() time.Time
}

func NewWorkflowService(
	store ports.WorkflowStore,
	dispatcher ports.NotificationDispatcher,
	directory ports.UserDirectory,
) *WorkflowService {
	return &WorkflowService{
		store:      store,
		dispatcher: dispatcher,
		directory:  directory,
		now:        time.Now,
	}
}

var _ ports.WorkflowService = (*WorkflowService)(nil)

func (s *WorkflowService) Transition(
	ctx context.Context,
	taskID uint64,
	to domain.TaskStage,
	actorID uint64,
	reason *string,
) (domain.TransitionResult, error) {
	var result domain.TransitionResult
	err := s.store.InTx(ctx, func(tx ports.WorkflowTx) error {
		task, err := tx.GetTaskForUpdate(ctx, taskID)
		if err != nil {
			return err
		}

		transitioned, err := s.transitionLocked(ctx, tx, task, to, actorID, reason)
		if err != nil {
			return err
		}
		result = transitioned
		return nil
	})
	if err != nil {
		return domain.TransitionResult{}, err
	}
	return result, nil
}

// transitionLocked runs the five transition steps in their fixed order. The
// caller holds the task's row lock and passes the task as last read under
// that lock, so the status guard in UpdateTaskStatus only fires if another
// writer slipped in between lock release and retry.
func (s *WorkflowService) transitionLocked(
	ctx context.Context,
	tx ports.WorkflowTx,
	task domain.Task,
	to domain.TaskStage,
	actorID uint64,
	reason *string,
) (domain.TransitionResult, error) {
	from := task.Status
	if !domain.CanTransition(from, to) {
		telemetry.InvalidTransitions.Inc()
		return domain.TransitionResult{}, &domain.TransitionError{From: from, To: to}
	}

	now := s.now()

	if err := tx.UpdateTaskStatus(ctx, task.ID, from, to); err != nil {
		return domain.TransitionResult{}, err
	}

	oldValues := map[string]any{"status": string(from)}
	newValues := map[string]any{"status": string(to)}

	// A cancelled task has no assignee; drop the assignment together with
	// the status change so the two never disagree.
	if to == domain.StageCancelled && task.AssignedCreator != nil {
		if err := tx.SetAssignedCreator(ctx, task.ID, nil); err != nil {
			return domain.TransitionResult{}, err
		}
		oldValues["assigned_creator"] = *task.AssignedCreator
		newValues["assigned_creator"] = nil
	}

	if err := tx.InsertStageHistory(ctx, domain.StageHistoryEntry{
		TaskID:    task.ID,
		FromStage: from,
		ToStage:   to,
		ActorID:   actorID,
		Reason:    reason,
		CreatedAt: now,
	}); err != nil {
		return domain.TransitionResult{}, err
	}

	if err := tx.AppendAudit(ctx, domain.AuditEntry{
		ActorID:   actorID,
		Action:    "stage_transition",
		TableName: "tasks",
		RecordID:  task.ID,
		OldValues: oldValues,
		NewValues: newValues,
		CreatedAt: now,
	}); err != nil {
		return domain.TransitionResult{}, err
	}

	s.notifyStage(ctx, task, from, to)

	percent := domain.ProgressPercent(to)
	if err := tx.UpsertStageProgress(ctx, task.ID, to, percent); err != nil {
		return domain.TransitionResult{}, err
	}

	if err := tx.InsertActivity(ctx, domain.TaskActivity{
		TaskID:      task.ID,
		ActorID:     actorID,
		Type:        domain.ActivityStageChanged,
		Description: fmt.Sprintf("stage changed from %s to %s", from, to),
		CreatedAt:   now,
	}); err != nil {
		return domain.TransitionResult{}, err
	}

	telemetry.TransitionCounter.WithLabelValues(string(to)).Inc()

	return domain.TransitionResult{
		TaskID:          task.ID,
		FromStage:       from,
		ToStage:         to,
		ProgressPercent: percent,
		TransitionedAt:  now,
	}, nil
}

// notifyStage performs the stage-specific fan-out. Delivery is best effort:
// failures are counted and logged, never surfaced to the caller.
func (s *WorkflowService) notifyStage(ctx context.Context, task domain.Task, from, to domain.TaskStage) {
	switch to {
	case domain.StageCollecting:
		creatorIDs, err := s.directory.ActiveCreatorIDs(ctx, task)
		if err != nil {
			s.logNotifyFailure(task.ID, to, err)
			return
		}
		for _, creatorID := range creatorIDs {
			s.notify(ctx, creatorID, domain.NotificationTaskAvailable,
				"New task available",
				fmt.Sprintf("A new task %q is open for applications.", task.Title),
				task)
		}
	case domain.StageEvaluating:
		s.notify(ctx, task.SupplierID, domain.NotificationProposalsReady,
			"Proposals ready for review",
			fmt.Sprintf("Proposals for %q are ready for your review.", task.Title),
			task)
	case domain.StageInProgress:
		// The selection notice only makes sense on the forward path; the
		// revision loop back to in_progress carries its own feedback notice.
		if from != domain.StageCollecting && from != domain.StageEvaluating {
			return
		}
		if task.AssignedCreator == nil {
			zap.L().Warn("in_progress transition without assigned creator",
				zap.Uint64("task_id", task.ID))
			return
		}
		s.notify(ctx, *task.AssignedCreator, domain.NotificationProposalSelected,
			"Your proposal was selected",
			fmt.Sprintf("Your proposal for %q was selected. You can start working.", task.Title),
			task)
	case domain.StageReviewing:
		s.notify(ctx, task.SupplierID, domain.NotificationContentForReview,
			"Content ready for review",
			fmt.Sprintf("Content for %q is ready for review. It auto-approves in 3 days if untouched.", task.Title),
			task)
	case domain.StagePublishing:
		mediaIDs, err := s.directory.ActiveMediaIDs(ctx)
		if err != nil {
			s.logNotifyFailure(task.ID, to, err)
			return
		}
		for _, mediaID := range mediaIDs {
			s.notify(ctx, mediaID, domain.NotificationReadyToPublish,
				"Content ready to publish",
				fmt.Sprintf("Approved content for %q is ready to publish.", task.Title),
				task)
		}
	}
}

func (s *WorkflowService) notify(
	ctx context.Context,
	userID uint64,
	notificationType domain.NotificationType,
	title, message string,
	task domain.Task,
) {
	data := map[string]any{"task_id": task.ID}
	if err := s.dispatcher.Notify(ctx, userID, notificationType, title, message, data); err != nil {
		s.logNotifyFailure(task.ID, task.Status, err)
	}
}

func (s *WorkflowService) logNotifyFailure(taskID uint64, stage domain.TaskStage, err error) {
	telemetry.NotifyFailures.Inc()
	zap.L().Warn("notification dispatch failed",
		zap.Uint64("task_id", taskID),
		zap.String("stage", string(stage)),
		zap.Error(err))
}

func (s *WorkflowService) GetProgress(ctx context.Context, taskID uint64) (domain.ProgressView, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return domain.ProgressView{}, err
	}

	history, err := s.store.ListStageHistory(ctx, taskID)
	if err != nil {
		return domain.ProgressView{}, err
	}

	return domain.ProgressView{
		TaskID:          task.ID,
		CurrentStage:    task.Status,
		ProgressPercent: domain.ProgressPercent(task.Status),
		History:         history,
		NextStages:      domain.NextStages(task.Status),
	}, nil
}

// GetDashboard is computed from current data on every call; there is no
// cache in front of it.
func (s *WorkflowService) GetDashboard(ctx context.Context, userID uint64, role domain.Role) (domain.DashboardView, error) {
	counts, err := s.store.DashboardCounts(ctx, userID, role)
	if err != nil {
		return domain.DashboardView{}, err
	}

	breakdown, err := s.store.StageBreakdown(ctx, userID, role)
	if err != nil {
		return domain.DashboardView{}, err
	}

	activities, err := s.store.RecentActivities(ctx, userID, dashboardActivityLimit)
	if err != nil {
		return domain.DashboardView{}, err
	}

	return domain.DashboardView{
		UserID:         userID,
		Role:           role,
		TotalTasks:     counts.TotalTasks,
		ActiveTasks:    counts.ActiveTasks,
		CompletedTasks: counts.CompletedTasks,
		PendingActions: counts.PendingActions,
		StageBreakdown: breakdown,
		RecentActivity: activities,
	}, nil
}

func (s *WorkflowService) CheckDeadline(ctx context.Context, taskID uint64) (domain.DeadlineCheck, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return domain.DeadlineCheck{}, err
	}

	check := domain.DeadlineCheck{TaskID: task.ID, Deadline: task.Deadline}
	if task.Deadline == nil {
		return check, nil
	}

	remaining := task.Deadline.Sub(s.now())
	if remaining < 0 {
		check.IsOverdue = true
		return check, nil
	}

	check.DaysRemaining = int(math.Ceil(remaining.Hours() / 24))
	return check, nil
}
