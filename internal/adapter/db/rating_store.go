package db

import (
	"context"

	"tripmatch/internal/core/domain"
)

const insertRatingQuery = `
INSERT INTO ratings (task_id, from_user_id, to_user_id, score, comment, rating_type, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?);
`

const hasRatingQuery = `
SELECT COUNT(*) FROM ratings
WHERE task_id = ? AND from_user_id = ? AND to_user_id = ? AND rating_type = ?;
`

const averageRatingQuery = `
SELECT COALESCE(AVG(score), 0), COUNT(*) FROM ratings WHERE to_user_id = ?;
`

const updateUserRatingQuery = `
UPDATE users SET rating_average = ?, rating_count = ? WHERE id = ?;
`

const incrementCompletedCountQuery = `
UPDATE users SET completed_tasks = completed_tasks + 1 WHERE id = ?;
`

func (t *workflowTx) InsertRating(ctx context.Context, rating domain.Rating) (uint64, error) {
	res, err := t.tx.ExecContext(ctx, insertRatingQuery,
		rating.TaskID,
		rating.FromUserID,
		rating.ToUserID,
		rating.Score,
		rating.Comment,
		string(rating.Type),
		rating.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyErr(err) {
			return 0, domain.ErrDuplicateRating
		}
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (t *workflowTx) HasRating(ctx context.Context, taskID, fromUserID, toUserID uint64, ratingType domain.RatingType) (bool, error) {
	var count int
	if err := t.tx.GetContext(ctx, &count, hasRatingQuery, taskID, fromUserID, toUserID, string(ratingType)); err != nil {
		return false, err
	}
	return count > 0, nil
}

// AverageRating recomputes the recipient's aggregate from all stored rows
// rather than incrementally, so the stored mean can never drift.
func (t *workflowTx) AverageRating(ctx context.Context, userID uint64) (float64, int, error) {
	row := t.tx.QueryRowContext(ctx, averageRatingQuery, userID)

	var average float64
	var count int
	if err := row.Scan(&average, &count); err != nil {
		return 0, 0, err
	}
	return average, count, nil
}

func (t *workflowTx) UpdateUserRating(ctx context.Context, userID uint64, average float64, count int) error {
	_, err := t.tx.ExecContext(ctx, updateUserRatingQuery, average, count, userID)
	return err
}

func (t *workflowTx) IncrementCompletedCount(ctx context.Context, userID uint64) error {
	_, err := t.tx.ExecContext(ctx, incrementCompletedCountQuery, userID)
	return err
}
