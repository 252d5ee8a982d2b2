package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tripmatch/internal/core/domain"
)

const insertApplicationQuery = `
INSERT INTO task_applications (task_id, creator_id, proposal, proposed_budget, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?);
`

const getApplicationForUpdateQuery = `
SELECT * FROM task_applications WHERE id = ? FOR UPDATE;
`

const hasApplicationQuery = `
SELECT COUNT(*) FROM task_applications WHERE task_id = ? AND creator_id = ?;
`

const updateApplicationStatusQuery = `
UPDATE task_applications SET status = ?, supplier_notes = COALESCE(?, supplier_notes), updated_at = ?
WHERE id = ?;
`

const listPendingSiblingsQuery = `
SELECT * FROM task_applications
WHERE task_id = ? AND id <> ? AND status = 'pending'
FOR UPDATE;
`

const rejectPendingSiblingsQuery = `
UPDATE task_applications SET status = 'rejected', supplier_notes = ?, updated_at = ?
WHERE task_id = ? AND id <> ? AND status = 'pending';
`

const incrementApplicationCountQuery = `
UPDATE tasks SET application_count = application_count + 1 WHERE id = ?;
`

const insertAssetQuery = `
INSERT INTO work_assets (task_id, creator_id, title, description, file_url, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);
`

const getAssetForUpdateQuery = `
SELECT * FROM work_assets WHERE id = ? FOR UPDATE;
`

const updateAssetStatusQuery = `
UPDATE work_assets SET status = ?, feedback = COALESCE(?, feedback), updated_at = ?
WHERE id = ?;
`

func (t *workflowTx) InsertApplication(ctx context.Context, app domain.TaskApplication) (uint64, error) {
	res, err := t.tx.ExecContext(ctx, insertApplicationQuery,
		app.TaskID,
		app.CreatorID,
		app.Proposal,
		app.ProposedBudget,
		string(app.Status),
		app.CreatedAt,
		app.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKeyErr(err) {
			return 0, domain.ErrDuplicateApplication
		}
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (t *workflowTx) GetApplicationForUpdate(ctx context.Context, applicationID uint64) (domain.TaskApplication, error) {
	var row applicationRow
	if err := t.tx.GetContext(ctx, &row, getApplicationForUpdateQuery, applicationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TaskApplication{}, domain.ErrApplicationNotFound
		}
		return domain.TaskApplication{}, err
	}
	return mapApplicationRow(row), nil
}

func (t *workflowTx) HasApplication(ctx context.Context, taskID, creatorID uint64) (bool, error) {
	var count int
	if err := t.tx.GetContext(ctx, &count, hasApplicationQuery, taskID, creatorID); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (t *workflowTx) UpdateApplicationStatus(ctx context.Context, applicationID uint64, status domain.ApplicationStatus, notes *string) error {
	_, err := t.tx.ExecContext(ctx, updateApplicationStatusQuery,
		string(status), notes, time.Now().UTC(), applicationID)
	return err
}

// RejectPendingApplications bulk-rejects every other pending application on
// the task and returns them so the caller can notify their creators.
func (t *workflowTx) RejectPendingApplications(ctx context.Context, taskID, exceptID uint64, note string) ([]domain.TaskApplication, error) {
	var rows []applicationRow
	if err := t.tx.SelectContext(ctx, &rows, listPendingSiblingsQuery, taskID, exceptID); err != nil {
		return nil, err
	}

	if _, err := t.tx.ExecContext(ctx, rejectPendingSiblingsQuery, note, time.Now().UTC(), taskID, exceptID); err != nil {
		return nil, err
	}

	rejected := make([]domain.TaskApplication, 0, len(rows))
	for _, row := range rows {
		rejected = append(rejected, mapApplicationRow(row))
	}
	return rejected, nil
}

func (t *workflowTx) IncrementApplicationCount(ctx context.Context, taskID uint64) error {
	_, err := t.tx.ExecContext(ctx, incrementApplicationCountQuery, taskID)
	return err
}

func (t *workflowTx) InsertAsset(ctx context.Context, asset domain.WorkAsset) (uint64, error) {
	res, err := t.tx.ExecContext(ctx, insertAssetQuery,
		asset.TaskID,
		asset.CreatorID,
		asset.Title,
		asset.Description,
		asset.FileURL,
		string(asset.Status),
		asset.CreatedAt,
		asset.UpdatedAt,
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

func (t *workflowTx) GetAssetForUpdate(ctx context.Context, assetID uint64) (domain.WorkAsset, error) {
	var row assetRow
	if err := t.tx.GetContext(ctx, &row, getAssetForUpdateQuery, assetID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.WorkAsset{}, domain.ErrAssetNotFound
		}
		return domain.WorkAsset{}, err
	}
	return mapAssetRow(row), nil
}

func (t *workflowTx) UpdateAssetStatus(ctx context.Context, assetID uint64, status domain.AssetStatus, feedback *string) error {
	_, err := t.tx.ExecContext(ctx, updateAssetStatusQuery,
		string(status), feedback, time.Now().UTC(), assetID)
	return err
}
