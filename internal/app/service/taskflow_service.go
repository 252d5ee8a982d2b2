package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"tripmatch/internal/core/domain"
	"tripmatch/internal/core/ports"
	"tripmatch/pkg/telemetry"
)

const siblingRejectionNote = "Another proposal was selected for this task."

// TaskFlowService orchestrates the business actions around a task. Each
// action records its own domain rows and delegates the status change to the
// workflow engine inside the same transaction, so an accepted application,
// the sibling rejections and the in_progress transition commit as one unit.
type TaskFlowService struct {
	store      ports.WorkflowStore
	workflow   *WorkflowService
	dispatcher ports.NotificationDispatcher
	now        func() time.Time
}

func NewTaskFlowService(
	store ports.WorkflowStore,
	workflow *WorkflowService,
	dispatcher ports.NotificationDispatcher,
) *TaskFlowService {
	return &TaskFlowService{
		store:      store,
		workflow:   workflow,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

var _ ports.TaskFlowService = (*TaskFlowService)(nil)

func (s *TaskFlowService) CreateTask(ctx context.Context, supplierID uint64, input domain.CreateTaskInput) (domain.Task, error) {
	if err := validateCreateTask(input, s.now()); err != nil {
		return domain.Task{}, err
	}

	now := s.now()
	task := domain.Task{
		SupplierID:   supplierID,
		Title:        input.Title,
		Description:  input.Description,
		Requirements: input.Requirements,
		Budget:       input.Budget,
		Deadline:     input.Deadline,
		Tags:         input.Tags,
		ContentTypes: input.ContentTypes,
		Location:     input.Location,
		Status:       domain.StageDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.store.InTx(ctx, func(tx ports.WorkflowTx) error {
		taskID, err := tx.InsertTask(ctx, task)
		if err != nil {
			return err
		}
		task.ID = taskID

		if err := tx.SeedStageProgress(ctx, taskID, seedProgressRows(taskID, now)); err != nil {
			return err
		}

		if err := tx.InsertActivity(ctx, domain.TaskActivity{
			TaskID:      taskID,
			ActorID:     supplierID,
			Type:        domain.ActivityTaskCreated,
			Description: fmt.Sprintf("task %q created", task.Title),
			CreatedAt:   now,
		}); err != nil {
			return err
		}

		return tx.AppendAudit(ctx, domain.AuditEntry{
			ActorID:   supplierID,
			Action:    "task_created",
			TableName: "tasks",
			RecordID:  taskID,
			NewValues: map[string]any{"status": string(domain.StageDraft), "title": task.Title},
			CreatedAt: now,
		})
	})
	if err != nil {
		return domain.Task{}, err
	}

	telemetry.TasksCreated.Inc()
	return task, nil
}

// seedProgressRows creates one progress row per forward stage, so dashboards
// can render the full pipeline before any transition happened.
func seedProgressRows(taskID uint64, now time.Time) []domain.StageProgress {
	var rows []domain.StageProgress
	for _, def := range domain.AllStages() {
		if def.Order == 0 {
			continue
		}
		row := domain.StageProgress{
			TaskID: taskID,
			Stage:  def.Stage,
		}
		if def.Stage == domain.StageDraft {
			row.ProgressPercent = domain.ProgressPercent(def.Stage)
			row.StageStartedAt = now
		}
		rows = append(rows, row)
	}
	return rows
}

func validateCreateTask(input domain.CreateTaskInput, now time.Time) error {
	var violations []string
	if input.Title == "" {
		violations = append(violations, "title is required")
	}
	if input.Description == "" {
		violations = append(violations, "description is required")
	}
	if input.Budget.Min != nil && *input.Budget.Min <= 0 {
		violations = append(violations, "budget minimum must be positive")
	}
	if input.Budget.Max != nil && *input.Budget.Max <= 0 {
		violations = append(violations, "budget maximum must be positive")
	}
	if input.Budget.Min != nil && input.Budget.Max != nil && *input.Budget.Min > *input.Budget.Max {
		violations = append(violations, "budget minimum exceeds maximum")
	}
	if input.Deadline != nil && !input.Deadline.After(now) {
		violations = append(violations, "deadline must be in the future")
	}
	if len(violations) > 0 {
		return &domain.ValidationError{Violations: violations}
	}
	return nil
}

func (s *TaskFlowService) PublishTask(ctx context.Context, taskID, supplierID uint64) (domain.TransitionResult, error) {
	var result domain.TransitionResult
	err := s.store.InTx(ctx, func(tx ports.WorkflowTx) error {
		task, err := tx.GetTaskForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if task.SupplierID != supplierID {
			return domain.ErrNotAuthorized
		}

		transitioned, err := s.workflow.transitionLocked(ctx, tx, task, domain.StagePublished, supplierID, nil)
		if err != nil {
			return err
		}
		result = transitioned

		return tx.InsertActivity(ctx, domain.TaskActivity{
			TaskID:      taskID,
			ActorID:     supplierID,
			Type:        domain.ActivityTaskPublished,
			Description: fmt.Sprintf("task %q published", task.Title),
			CreatedAt:   result.TransitionedAt,
		})
	})
	if err != nil {
		return domain.TransitionResult{}, err
	}
	return result, nil
}

// CancelTask moves a task to the terminal cancelled stage. The registry
// limits which stages can be cancelled; the row is never deleted.
func (s *TaskFlowService) CancelTask(ctx context.Context, taskID, supplierID uint64, reason *string) (domain.TransitionResult, error) {
	var result domain.TransitionResult
	err := s.store.InTx(ctx, func(tx ports.WorkflowTx) error {
		task, err := tx.GetTaskForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if task.SupplierID != supplierID {
			return domain.ErrNotAuthorized
		}

		transitioned, err := s.workflow.transitionLocked(ctx, tx, task, domain.StageCancelled, supplierID, reason)
		if err != nil {
			return err
		}
		result = transitioned

		return tx.InsertActivity(ctx, domain.TaskActivity{
			TaskID:      taskID,
			ActorID:     supplierID,
			Type:        domain.ActivityTaskCancelled,
			Description: fmt.Sprintf("task %q cancelled", task.Title),
			CreatedAt:   result.TransitionedAt,
		})
	})
	if err != nil {
		return domain.TransitionResult{}, err
	}
	return result, nil
}

func (s *TaskFlowService) SubmitApplication(
	ctx context.Context,
	taskID, creatorID uint64,
	input domain.SubmitApplicationInput,
) (domain.TaskApplication, error) {
	if input.Proposal == "" {
		return domain.TaskApplication{}, &domain.ValidationError{Violations: []string{"proposal is required"}}
	}
	if input.ProposedBudget != nil && *input.ProposedBudget <= 0 {
		return domain.TaskApplication{}, &domain.ValidationError{Violations: []string{"proposed budget must be positive"}}
	}

	now := s.now()
	application := domain.TaskApplication{
		TaskID:         taskID,
		CreatorID:      creatorID,
		Proposal:       input.Proposal,
		ProposedBudget: input.ProposedBudget,
		Status:         domain.ApplicationPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := s.store.InTx(ctx, func(tx ports.WorkflowTx) error {
		task, err := tx.GetTaskForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if task.Status != domain.StagePublished && task.Status != domain.StageCollecting {
			return domain.ErrTaskNotAcceptingApplications
		}

		exists, err := tx.HasApplication(ctx, taskID, creatorID)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateApplication
		}

		applicationID, err := tx.InsertApplication(ctx, application)
		if err != nil {
			return err
		}
		application.ID = applicationID

		if err := tx.IncrementApplicationCount(ctx, taskID); err != nil {
			return err
		}

		if err := tx.InsertActivity(ctx, domain.TaskActivity{
			TaskID:      taskID,
			ActorID:     creatorID,
			Type:        domain.ActivityApplicationReceived,
			Description: fmt.Sprintf("application received for %q", task.Title),
			CreatedAt:   now,
		}); err != nil {
			return err
		}

		if err := tx.AppendAudit(ctx, domain.AuditEntry{
			ActorID:   creatorID,
			Action:    "application_submitted",
			TableName: "task_applications",
			RecordID:  applicationID,
			NewValues: map[string]any{"status": string(domain.ApplicationPending)},
			CreatedAt: now,
		}); err != nil {
			return err
		}

		// The first application moves the task into collecting.
		if task.Status == domain.StagePublished {
			if _, err := s.workflow.transitionLocked(ctx, tx, task, domain.StageCollecting, creatorID, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.TaskApplication{}, err
	}
	return application, nil
}

func (s *TaskFlowService) ReviewApplication(
	ctx context.Context,
	applicationID, supplierID uint64,
	decision domain.ReviewDecision,
	notes *string,
) error {
	if decision != domain.DecisionAccepted && decision != domain.DecisionRejected {
		return &domain.ValidationError{Violations: []string{"decision must be accepted or rejected"}}
	}

	return s.store.InTx(ctx, func(tx ports.WorkflowTx) error {
		application, err := tx.GetApplicationForUpdate(ctx, applicationID)
		if err != nil {
			return err
		}

		task, err := tx.GetTaskForUpdate(ctx, application.TaskID)
		if err != nil {
			return err
		}
		if task.SupplierID != supplierID {
			return domain.ErrNotAuthorized
		}
		// The task row lock serializes reviews; a non-pending application
		// here means a concurrent review already decided this task.
		if application.Status != domain.ApplicationPending {
			return domain.ErrConcurrentModification
		}

		now := s.now()

		if decision == domain.DecisionRejected {
			if err := tx.UpdateApplicationStatus(ctx, applicationID, domain.ApplicationRejected, notes); err != nil {
				return err
			}
			if err := s.auditApplicationReview(ctx, tx, application, domain.ApplicationRejected, supplierID, now); err != nil {
				return err
			}
			s.notifyApplicant(ctx, application.CreatorID, domain.NotificationProposalRejected,
				"Proposal not selected",
				fmt.Sprintf("Your proposal for %q was not selected.", task.Title), task)
			return nil
		}

		if err := tx.UpdateApplicationStatus(ctx, applicationID, domain.ApplicationAccepted, notes); err != nil {
			return err
		}

		rejected, err := tx.RejectPendingApplications(ctx, task.ID, applicationID, siblingRejectionNote)
		if err != nil {
			return err
		}

		if err := tx.SetAssignedCreator(ctx, task.ID, &application.CreatorID); err != nil {
			return err
		}
		task.AssignedCreator = &application.CreatorID

		if err := s.auditApplicationReview(ctx, tx, application, domain.ApplicationAccepted, supplierID, now); err != nil {
			return err
		}

		if _, err := s.workflow.transitionLocked(ctx, tx, task, domain.StageInProgress, supplierID, nil); err != nil {
			return err
		}

		if err := tx.InsertActivity(ctx, domain.TaskActivity{
			TaskID:      task.ID,
			ActorID:     supplierID,
			Type:        domain.ActivityApplicationReviewed,
			Description: fmt.Sprintf("application accepted for %q", task.Title),
			CreatedAt:   now,
		}); err != nil {
			return err
		}

		for _, sibling := range rejected {
			s.notifyApplicant(ctx, sibling.CreatorID, domain.NotificationProposalRejected,
				"Proposal not selected", siblingRejectionNote, task)
		}
		return nil
	})
}

func (s *TaskFlowService) auditApplicationReview(
	ctx context.Context,
	tx ports.WorkflowTx,
	application domain.TaskApplication,
	status domain.ApplicationStatus,
	supplierID uint64,
	now time.Time,
) error {
	return tx.AppendAudit(ctx, domain.AuditEntry{
		ActorID:   supplierID,
		Action:    "application_reviewed",
		TableName: "task_applications",
		RecordID:  application.ID,
		OldValues: map[string]any{"status": string(application.Status)},
		NewValues: map[string]any{"status": string(status)},
		CreatedAt: now,
	})
}

func (s *TaskFlowService) notifyApplicant(
	ctx context.Context,
	creatorID uint64,
	notificationType domain.NotificationType,
	title, message string,
	task domain.Task,
) {
	if err := s.dispatcher.Notify(ctx, creatorID, notificationType, title, message, map[string]any{"task_id": task.ID}); err != nil {
		telemetry.NotifyFailures.Inc()
		zap.L().Warn("notification dispatch failed",
			zap.Uint64("task_id", task.ID),
			zap.Uint64("user_id", creatorID),
			zap.Error(err))
	}
}

func (s *TaskFlowService) SubmitWork(
	ctx context.Context,
	taskID, creatorID uint64,
	input domain.SubmitWorkInput,
) (domain.WorkAsset, error) {
	if input.Title == "" {
		return domain.WorkAsset{}, &domain.ValidationError{Violations: []string{"title is required"}}
	}

	now := s.now()
	asset := domain.WorkAsset{
		TaskID:      taskID,
		CreatorID:   creatorID,
		Title:       input.Title,
		Description: input.Description,
		FileURL:     input.FileURL,
		Status:      domain.AssetPendingReview,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.store.InTx(ctx, func(tx ports.WorkflowTx) error {
		task, err := tx.GetTaskForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if task.AssignedCreator == nil || *task.AssignedCreator != creatorID {
			return domain.ErrNotAuthorized
		}

		assetID, err := tx.InsertAsset(ctx, asset)
		if err != nil {
			return err
		}
		asset.ID = assetID

		if err := tx.InsertActivity(ctx, domain.TaskActivity{
			TaskID:      taskID,
			ActorID:     creatorID,
			Type:        domain.ActivityWorkSubmitted,
			Description: fmt.Sprintf("work submitted for %q", task.Title),
			CreatedAt:   now,
		}); err != nil {
			return err
		}

		// The registry only allows in_progress -> reviewing, so a task in
		// any other stage fails here with an invalid transition.
		_, err = s.workflow.transitionLocked(ctx, tx, task, domain.StageReviewing, creatorID, nil)
		return err
	})
	if err != nil {
		return domain.WorkAsset{}, err
	}
	return asset, nil
}

func (s *TaskFlowService) ReviewWork(
	ctx context.Context,
	taskID, supplierID, assetID uint64,
	decision domain.ReviewDecision,
	feedback *string,
) error {
	return s.store.InTx(ctx, func(tx ports.WorkflowTx) error {
		task, err := tx.GetTaskForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if task.SupplierID != supplierID {
			return domain.ErrNotAuthorized
		}

		asset, err := tx.GetAssetForUpdate(ctx, assetID)
		if err != nil {
			return err
		}
		if asset.TaskID != taskID {
			return domain.ErrAssetNotFound
		}

		now := s.now()

		if decision == domain.DecisionApproved {
			if err := tx.UpdateAssetStatus(ctx, assetID, domain.AssetApproved, feedback); err != nil {
				return err
			}
			if _, err := s.workflow.transitionLocked(ctx, tx, task, domain.StagePublishing, supplierID, nil); err != nil {
				return err
			}
			return tx.InsertActivity(ctx, domain.TaskActivity{
				TaskID:      taskID,
				ActorID:     supplierID,
				Type:        domain.ActivityWorkReviewed,
				Description: fmt.Sprintf("work approved for %q", task.Title),
				CreatedAt:   now,
			})
		}

		// Anything but approval loops the task back for rework.
		if err := tx.UpdateAssetStatus(ctx, assetID, domain.AssetRevisionRequired, feedback); err != nil {
			return err
		}
		if _, err := s.workflow.transitionLocked(ctx, tx, task, domain.StageInProgress, supplierID, feedback); err != nil {
			return err
		}
		if err := tx.InsertActivity(ctx, domain.TaskActivity{
			TaskID:      taskID,
			ActorID:     supplierID,
			Type:        domain.ActivityWorkReviewed,
			Description: fmt.Sprintf("revision requested for %q", task.Title),
			CreatedAt:   now,
		}); err != nil {
			return err
		}

		message := fmt.Sprintf("Revision requested for %q.", task.Title)
		if feedback != nil && *feedback != "" {
			message = fmt.Sprintf("Revision requested for %q: %s", task.Title, *feedback)
		}
		s.notifyApplicant(ctx, asset.CreatorID, domain.NotificationRevisionRequested,
			"Revision requested", message, task)
		return nil
	})
}

func (s *TaskFlowService) CompleteTask(ctx context.Context, taskID, actorID uint64) (domain.TransitionResult, error) {
	var result domain.TransitionResult
	err := s.store.InTx(ctx, func(tx ports.WorkflowTx) error {
		task, err := tx.GetTaskForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		assigned := task.AssignedCreator != nil && *task.AssignedCreator == actorID
		if task.SupplierID != actorID && !assigned {
			return domain.ErrNotAuthorized
		}

		transitioned, err := s.workflow.transitionLocked(ctx, tx, task, domain.StageCompleted, actorID, nil)
		if err != nil {
			return err
		}
		result = transitioned

		if err := tx.IncrementCompletedCount(ctx, task.SupplierID); err != nil {
			return err
		}
		if task.AssignedCreator != nil {
			if err := tx.IncrementCompletedCount(ctx, *task.AssignedCreator); err != nil {
				return err
			}
		}

		return tx.InsertActivity(ctx, domain.TaskActivity{
			TaskID:      taskID,
			ActorID:     actorID,
			Type:        domain.ActivityTaskCompleted,
			Description: fmt.Sprintf("task %q completed", task.Title),
			CreatedAt:   result.TransitionedAt,
		})
	})
	if err != nil {
		return domain.TransitionResult{}, err
	}
	return result, nil
}

func (s *TaskFlowService) SubmitRating(
	ctx context.Context,
	taskID, fromUserID, toUserID uint64,
	score int,
	comment *string,
) (domain.Rating, error) {
	if score < domain.RatingScoreMin || score > domain.RatingScoreMax {
		return domain.Rating{}, domain.ErrInvalidRating
	}

	now := s.now()
	rating := domain.Rating{
		TaskID:     taskID,
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Score:      score,
		Comment:    comment,
		CreatedAt:  now,
	}

	err := s.store.InTx(ctx, func(tx ports.WorkflowTx) error {
		task, err := tx.GetTaskForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if task.Status != domain.StageCompleted {
			return domain.ErrTaskNotCompleted
		}

		ratingType, err := ratingTypeFor(task, fromUserID, toUserID)
		if err != nil {
			return err
		}
		rating.Type = ratingType

		exists, err := tx.HasRating(ctx, taskID, fromUserID, toUserID, ratingType)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateRating
		}

		ratingID, err := tx.InsertRating(ctx, rating)
		if err != nil {
			return err
		}
		rating.ID = ratingID

		average, count, err := tx.AverageRating(ctx, toUserID)
		if err != nil {
			return err
		}
		if err := tx.UpdateUserRating(ctx, toUserID, average, count); err != nil {
			return err
		}

		if err := tx.InsertActivity(ctx, domain.TaskActivity{
			TaskID:      taskID,
			ActorID:     fromUserID,
			Type:        domain.ActivityRatingSubmitted,
			Description: fmt.Sprintf("rating submitted for %q", task.Title),
			CreatedAt:   now,
		}); err != nil {
			return err
		}

		if err := tx.AppendAudit(ctx, domain.AuditEntry{
			ActorID:   fromUserID,
			Action:    "rating_submitted",
			TableName: "ratings",
			RecordID:  ratingID,
			NewValues: map[string]any{"score": score, "to_user_id": toUserID},
			CreatedAt: now,
		}); err != nil {
			return err
		}

		s.notifyApplicant(ctx, toUserID, domain.NotificationRatingReceived,
			"New rating received",
			fmt.Sprintf("You received a %d-star rating for %q.", score, task.Title), task)
		return nil
	})
	if err != nil {
		return domain.Rating{}, err
	}
	return rating, nil
}

// ratingTypeFor derives the rating direction from the rater's relationship
// to the task; anyone outside the pair is rejected.
func ratingTypeFor(task domain.Task, fromUserID, toUserID uint64) (domain.RatingType, error) {
	assigned := uint64(0)
	if task.AssignedCreator != nil {
		assigned = *task.AssignedCreator
	}
	switch {
	case fromUserID == task.SupplierID && toUserID == assigned && assigned != 0:
		return domain.RatingSupplierToCreator, nil
	case fromUserID == assigned && assigned != 0 && toUserID == task.SupplierID:
		return domain.RatingCreatorToSupplier, nil
	}
	return "", domain.ErrNotAuthorized
}
