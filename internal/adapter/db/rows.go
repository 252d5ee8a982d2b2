package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"tripmatch/internal/core/domain"
)

type taskRow struct {
	ID                uint64          `db:"id"`
	SupplierID        uint64          `db:"supplier_id"`
	AssignedCreatorID sql.NullInt64   `db:"assigned_creator_id"`
	Title             string          `db:"title"`
	Description       string          `db:"description"`
	Requirements      sql.NullString  `db:"requirements"`
	BudgetMin         sql.NullFloat64 `db:"budget_min"`
	BudgetMax         sql.NullFloat64 `db:"budget_max"`
	BudgetType        string          `db:"budget_type"`
	Deadline          sql.NullTime    `db:"deadline"`
	Tags              []byte          `db:"tags"`
	ContentTypes      []byte          `db:"content_types"`
	Latitude          sql.NullFloat64 `db:"latitude"`
	Longitude         sql.NullFloat64 `db:"longitude"`
	Status            string          `db:"status"`
	ViewCount         int             `db:"view_count"`
	ApplicationCount  int             `db:"application_count"`
	ShareCount        int             `db:"share_count"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

func mapTaskRow(row taskRow) (domain.Task, error) {
	task := domain.Task{
		ID:          row.ID,
		SupplierID:  row.SupplierID,
		Title:       row.Title,
		Description: row.Description,
		Budget: domain.BudgetRange{
			Type: domain.BudgetType(row.BudgetType),
		},
		Status:           domain.TaskStage(row.Status),
		ViewCount:        row.ViewCount,
		ApplicationCount: row.ApplicationCount,
		ShareCount:       row.ShareCount,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}

	if row.AssignedCreatorID.Valid {
		value := uint64(row.AssignedCreatorID.Int64)
		task.AssignedCreator = &value
	}
	if row.Requirements.Valid {
		value := row.Requirements.String
		task.Requirements = &value
	}
	if row.BudgetMin.Valid {
		value := row.BudgetMin.Float64
		task.Budget.Min = &value
	}
	if row.BudgetMax.Valid {
		value := row.BudgetMax.Float64
		task.Budget.Max = &value
	}
	if row.Deadline.Valid {
		value := row.Deadline.Time
		task.Deadline = &value
	}
	if row.Latitude.Valid && row.Longitude.Valid {
		task.Location = &domain.Geolocation{
			Latitude:  row.Latitude.Float64,
			Longitude: row.Longitude.Float64,
		}
	}

	if len(row.Tags) > 0 {
		if err := json.Unmarshal(row.Tags, &task.Tags); err != nil {
			return domain.Task{}, err
		}
	}
	if len(row.ContentTypes) > 0 {
		if err := json.Unmarshal(row.ContentTypes, &task.ContentTypes); err != nil {
			return domain.Task{}, err
		}
	}

	return task, nil
}

type stageHistoryRow struct {
	ID        uint64         `db:"id"`
	TaskID    uint64         `db:"task_id"`
	FromStage string         `db:"from_stage"`
	ToStage   string         `db:"to_stage"`
	ActorID   uint64         `db:"actor_id"`
	Reason    sql.NullString `db:"reason"`
	CreatedAt time.Time      `db:"created_at"`
}

func mapStageHistoryRow(row stageHistoryRow) domain.StageHistoryEntry {
	entry := domain.StageHistoryEntry{
		ID:        row.ID,
		TaskID:    row.TaskID,
		FromStage: domain.TaskStage(row.FromStage),
		ToStage:   domain.TaskStage(row.ToStage),
		ActorID:   row.ActorID,
		CreatedAt: row.CreatedAt,
	}
	if row.Reason.Valid {
		value := row.Reason.String
		entry.Reason = &value
	}
	return entry
}

type applicationRow struct {
	ID             uint64          `db:"id"`
	TaskID         uint64          `db:"task_id"`
	CreatorID      uint64          `db:"creator_id"`
	Proposal       string          `db:"proposal"`
	ProposedBudget sql.NullFloat64 `db:"proposed_budget"`
	Status         string          `db:"status"`
	SupplierNotes  sql.NullString  `db:"supplier_notes"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

func mapApplicationRow(row applicationRow) domain.TaskApplication {
	app := domain.TaskApplication{
		ID:        row.ID,
		TaskID:    row.TaskID,
		CreatorID: row.CreatorID,
		Proposal:  row.Proposal,
		Status:    domain.ApplicationStatus(row.Status),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.ProposedBudget.Valid {
		value := row.ProposedBudget.Float64
		app.ProposedBudget = &value
	}
	if row.SupplierNotes.Valid {
		value := row.SupplierNotes.String
		app.SupplierNotes = &value
	}
	return app
}

type assetRow struct {
	ID          uint64         `db:"id"`
	TaskID      uint64         `db:"task_id"`
	CreatorID   uint64         `db:"creator_id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	FileURL     sql.NullString `db:"file_url"`
	Status      string         `db:"status"`
	Feedback    sql.NullString `db:"feedback"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func mapAssetRow(row assetRow) domain.WorkAsset {
	asset := domain.WorkAsset{
		ID:        row.ID,
		TaskID:    row.TaskID,
		CreatorID: row.CreatorID,
		Title:     row.Title,
		Status:    domain.AssetStatus(row.Status),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.Description.Valid {
		value := row.Description.String
		asset.Description = &value
	}
	if row.FileURL.Valid {
		value := row.FileURL.String
		asset.FileURL = &value
	}
	if row.Feedback.Valid {
		value := row.Feedback.String
		asset.Feedback = &value
	}
	return asset
}

type activityRow struct {
	ID           uint64    `db:"id"`
	TaskID       uint64    `db:"task_id"`
	ActorID      uint64    `db:"actor_id"`
	ActivityType string    `db:"activity_type"`
	Description  string    `db:"description"`
	CreatedAt    time.Time `db:"created_at"`
}

func mapActivityRow(row activityRow) domain.TaskActivity {
	return domain.TaskActivity{
		ID:          row.ID,
		TaskID:      row.TaskID,
		ActorID:     row.ActorID,
		Type:        domain.ActivityType(row.ActivityType),
		Description: row.Description,
		CreatedAt:   row.CreatedAt,
	}
}
