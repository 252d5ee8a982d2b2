package mapper

import (
	"time"

	"tripmatch/internal/adapter/http/dto"
	"tripmatch/internal/core/domain"
)

func ToTaskItem(task domain.Task) dto.TaskItem {
	item := dto.TaskItem{
		ID:               task.ID,
		SupplierID:       task.SupplierID,
		AssignedCreator:  task.AssignedCreator,
		Title:            task.Title,
		Description:      task.Description,
		Requirements:     task.Requirements,
		BudgetMin:        task.Budget.Min,
		BudgetMax:        task.Budget.Max,
		BudgetType:       string(task.Budget.Type),
		Tags:             task.Tags,
		ContentTypes:     task.ContentTypes,
		Status:           string(task.Status),
		ViewCount:        task.ViewCount,
		ApplicationCount: task.ApplicationCount,
		ShareCount:       task.ShareCount,
		CreatedAt:        task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        task.UpdatedAt.Format(time.RFC3339),
	}

	if task.Deadline != nil {
		value := task.Deadline.Format("2006-01-02")
		item.Deadline = &value
	}

	if task.Location != nil {
		item.Location = &dto.Geolocation{
			Latitude:  task.Location.Latitude,
			Longitude: task.Location.Longitude,
		}
	}

	return item
}

func ToTransitionResultItem(result domain.TransitionResult) dto.TransitionResultItem {
	return dto.TransitionResultItem{
		TaskID:          result.TaskID,
		FromStage:       string(result.FromStage),
		ToStage:         string(result.ToStage),
		ProgressPercent: result.ProgressPercent,
		TransitionedAt:  result.TransitionedAt.Format(time.RFC3339),
	}
}

func ToProgressItem(view domain.ProgressView) dto.ProgressItem {
	history := make([]dto.StageHistoryItem, 0, len(view.History))
	for _, entry := range view.History {
		history = append(history, dto.StageHistoryItem{
			FromStage: string(entry.FromStage),
			ToStage:   string(entry.ToStage),
			ActorID:   entry.ActorID,
			Reason:    entry.Reason,
			CreatedAt: entry.CreatedAt.Format(time.RFC3339),
		})
	}

	next := make([]string, 0, len(view.NextStages))
	for _, stage := range view.NextStages {
		next = append(next, string(stage))
	}

	return dto.ProgressItem{
		TaskID:          view.TaskID,
		CurrentStage:    string(view.CurrentStage),
		ProgressPercent: view.ProgressPercent,
		History:         history,
		NextStages:      next,
	}
}

func ToDeadlineItem(check domain.DeadlineCheck) dto.DeadlineItem {
	item := dto.DeadlineItem{
		TaskID:        check.TaskID,
		IsOverdue:     check.IsOverdue,
		DaysRemaining: check.DaysRemaining,
	}
	if check.Deadline != nil {
		value := check.Deadline.Format("2006-01-02")
		item.Deadline = &value
	}
	return item
}

func ToDashboardItem(view domain.DashboardView) dto.DashboardItem {
	breakdown := make(map[string]int, len(view.StageBreakdown))
	for stage, count := range view.StageBreakdown {
		breakdown[string(stage)] = count
	}

	activities := make([]dto.ActivityItem, 0, len(view.RecentActivity))
	for _, activity := range view.RecentActivity {
		activities = append(activities, dto.ActivityItem{
			TaskID:      activity.TaskID,
			ActorID:     activity.ActorID,
			Type:        string(activity.Type),
			Description: activity.Description,
			CreatedAt:   activity.CreatedAt.Format(time.RFC3339),
		})
	}

	return dto.DashboardItem{
		UserID:         view.UserID,
		Role:           string(view.Role),
		TotalTasks:     view.TotalTasks,
		ActiveTasks:    view.ActiveTasks,
		CompletedTasks: view.CompletedTasks,
		PendingActions: view.PendingActions,
		StageBreakdown: breakdown,
		RecentActivity: activities,
	}
}

func ToApplicationItem(app domain.TaskApplication) dto.ApplicationItem {
	return dto.ApplicationItem{
		ID:             app.ID,
		TaskID:         app.TaskID,
		CreatorID:      app.CreatorID,
		Proposal:       app.Proposal,
		ProposedBudget: app.ProposedBudget,
		Status:         string(app.Status),
		SupplierNotes:  app.SupplierNotes,
		CreatedAt:      app.CreatedAt.Format(time.RFC3339),
	}
}

func ToWorkAssetItem(asset domain.WorkAsset) dto.WorkAssetItem {
	return dto.WorkAssetItem{
		ID:          asset.ID,
		TaskID:      asset.TaskID,
		CreatorID:   asset.CreatorID,
		Title:       asset.Title,
		Description: asset.Description,
		FileURL:     asset.FileURL,
		Status:      string(asset.Status),
		Feedback:    asset.Feedback,
		CreatedAt:   asset.CreatedAt.Format(time.RFC3339),
	}
}

func ToRatingItem(rating domain.Rating) dto.RatingItem {
	return dto.RatingItem{
		ID:         rating.ID,
		TaskID:     rating.TaskID,
		FromUserID: rating.FromUserID,
		ToUserID:   rating.ToUserID,
		Score:      rating.Score,
		Comment:    rating.Comment,
		Type:       string(rating.Type),
		CreatedAt:  rating.CreatedAt.Format(time.RFC3339),
	}
}
