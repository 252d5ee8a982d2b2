package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"tripmatch/internal/core/domain"
	"tripmatch/internal/core/ports"
)

const getTaskQuery = `
SELECT * FROM tasks WHERE id = ?;
`

const getTaskForUpdateQuery = `
SELECT * FROM tasks WHERE id = ? FOR UPDATE;
`

const updateTaskStatusQuery = `
UPDATE tasks SET status = ?, updated_at = ? WHERE id = ? AND status = ?;
`

const setAssignedCreatorQuery = `
UPDATE tasks SET assigned_creator_id = ?, updated_at = ? WHERE id = ?;
`

const insertTaskQuery = `
INSERT INTO tasks (
  supplier_id, assigned_creator_id, title, description, requirements,
  budget_min, budget_max, budget_type, deadline, tags, content_types,
  latitude, longitude, status, view_count, application_count, share_count,
  created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, 0, ?, ?);
`

const insertStageHistoryQuery = `
INSERT INTO task_stage_history (task_id, from_stage, to_stage, actor_id, reason, created_at)
VALUES (?, ?, ?, ?, ?, ?);
`

const listStageHistoryQuery = `
SELECT * FROM task_stage_history WHERE task_id = ? ORDER BY created_at, id;
`

const seedStageProgressQuery = `
INSERT INTO task_stage_progress (task_id, stage, progress_percent, stage_started_at, stage_completed_at)
VALUES (?, ?, ?, ?, NULL);
`

const closeOpenStagesQuery = `
UPDATE task_stage_progress
SET stage_completed_at = ?
WHERE task_id = ? AND stage <> ? AND stage_started_at IS NOT NULL AND stage_completed_at IS NULL;
`

// GREATEST keeps the recorded percentage monotone even when a revision loops
// a task back to an earlier stage.
const upsertStageProgressQuery = `
INSERT INTO task_stage_progress (task_id, stage, progress_percent, stage_started_at)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  progress_percent = GREATEST(progress_percent, VALUES(progress_percent)),
  stage_started_at = COALESCE(stage_started_at, VALUES(stage_started_at)),
  stage_completed_at = NULL;
`

const insertActivityQuery = `
INSERT INTO task_activities (task_id, actor_id, activity_type, description, created_at)
VALUES (?, ?, ?, ?, ?);
`

const appendAuditQuery = `
INSERT INTO audit_logs (actor_id, action, table_name, record_id, old_values, new_values, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?);
`

// Store is the MySQL-backed workflow persistence gateway.
type Store struct {
	db *sqlx.DB
}

var _ ports.WorkflowStore = (*Store)(nil)

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// InTx runs fn inside one transaction; any error rolls the whole unit back.
func (s *Store) InTx(ctx context.Context, fn func(tx ports.WorkflowTx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(&workflowTx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

func (s *Store) GetTask(ctx context.Context, taskID uint64) (domain.Task, error) {
	var row taskRow
	if err := s.db.GetContext(ctx, &row, getTaskQuery, taskID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, err
	}
	return mapTaskRow(row)
}

func (s *Store) ListStageHistory(ctx context.Context, taskID uint64) ([]domain.StageHistoryEntry, error) {
	var rows []stageHistoryRow
	if err := s.db.SelectContext(ctx, &rows, listStageHistoryQuery, taskID); err != nil {
		return nil, err
	}

	entries := make([]domain.StageHistoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, mapStageHistoryRow(row))
	}
	return entries, nil
}

// workflowTx wraps one open transaction. All writes the workflow engine and
// the flow layer perform go through it.
type workflowTx struct {
	tx *sqlx.Tx
}

var _ ports.WorkflowTx = (*workflowTx)(nil)

func (t *workflowTx) GetTaskForUpdate(ctx context.Context, taskID uint64) (domain.Task, error) {
	var row taskRow
	if err := t.tx.GetContext(ctx, &row, getTaskForUpdateQuery, taskID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, err
	}
	return mapTaskRow(row)
}

func (t *workflowTx) UpdateTaskStatus(ctx context.Context, taskID uint64, from, to domain.TaskStage) error {
	res, err := t.tx.ExecContext(ctx, updateTaskStatusQuery, string(to), time.Now().UTC(), taskID, string(from))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrConcurrentModification
	}
	return nil
}

func (t *workflowTx) SetAssignedCreator(ctx context.Context, taskID uint64, creatorID *uint64) error {
	_, err := t.tx.ExecContext(ctx, setAssignedCreatorQuery, creatorID, time.Now().UTC(), taskID)
	return err
}

func (t *workflowTx) InsertTask(ctx context.Context, task domain.Task) (uint64, error) {
	tags, err := json.Marshal(task.Tags)
	if err != nil {
		return 0, err
	}
	contentTypes, err := json.Marshal(task.ContentTypes)
	if err != nil {
		return 0, err
	}

	var latitude, longitude *float64
	if task.Location != nil {
		latitude = &task.Location.Latitude
		longitude = &task.Location.Longitude
	}

	res, err := t.tx.ExecContext(ctx, insertTaskQuery,
		task.SupplierID,
		task.AssignedCreator,
		task.Title,
		task.Description,
		task.Requirements,
		task.Budget.Min,
		task.Budget.Max,
		string(task.Budget.Type),
		task.Deadline,
		tags,
		contentTypes,
		latitude,
		longitude,
		string(task.Status),
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (t *workflowTx) InsertStageHistory(ctx context.Context, entry domain.StageHistoryEntry) error {
	_, err := t.tx.ExecContext(ctx, insertStageHistoryQuery,
		entry.TaskID,
		string(entry.FromStage),
		string(entry.ToStage),
		entry.ActorID,
		entry.Reason,
		entry.CreatedAt,
	)
	return err
}

func (t *workflowTx) SeedStageProgress(ctx context.Context, taskID uint64, rows []domain.StageProgress) error {
	for _, row := range rows {
		var startedAt *time.Time
		if !row.StageStartedAt.IsZero() {
			startedAt = &row.StageStartedAt
		}
		if _, err := t.tx.ExecContext(ctx, seedStageProgressQuery,
			taskID, string(row.Stage), row.ProgressPercent, startedAt,
		); err != nil {
			return err
		}
	}
	return nil
}

func (t *workflowTx) UpsertStageProgress(ctx context.Context, taskID uint64, stage domain.TaskStage, percent float64) error {
	now := time.Now().UTC()
	if _, err := t.tx.ExecContext(ctx, closeOpenStagesQuery, now, taskID, string(stage)); err != nil {
		return err
	}
	_, err := t.tx.ExecContext(ctx, upsertStageProgressQuery, taskID, string(stage), percent, now)
	return err
}

func (t *workflowTx) InsertActivity(ctx context.Context, activity domain.TaskActivity) error {
	_, err := t.tx.ExecContext(ctx, insertActivityQuery,
		activity.TaskID,
		activity.ActorID,
		string(activity.Type),
		activity.Description,
		activity.CreatedAt,
	)
	return err
}

func (t *workflowTx) AppendAudit(ctx context.Context, entry domain.AuditEntry) error {
	oldValues, err := marshalAuditValues(entry.OldValues)
	if err != nil {
		return err
	}
	newValues, err := marshalAuditValues(entry.NewValues)
	if err != nil {
		return err
	}

	_, err = t.tx.ExecContext(ctx, appendAuditQuery,
		entry.ActorID,
		entry.Action,
		entry.TableName,
		entry.RecordID,
		oldValues,
		newValues,
		entry.CreatedAt,
	)
	return err
}

func marshalAuditValues(values map[string]any) (*string, error) {
	if values == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	s := string(encoded)
	return &s, nil
}
