package db

import (
	"context"

	"github.com/jmoiron/sqlx"

	"tripmatch/internal/core/domain"
	"tripmatch/internal/core/ports"
)

// Creators who already applied are excluded; they know about the task.
const activeCreatorIDsQuery = `
SELECT u.id
FROM users u
WHERE u.role = 'creator' AND u.is_active = 1
  AND u.id NOT IN (SELECT creator_id FROM task_applications WHERE task_id = ?)
ORDER BY u.id;
`

const activeMediaIDsQuery = `
SELECT id FROM users WHERE role = 'media' AND is_active = 1 ORDER BY id;
`

// UserDirectory resolves notification audiences from the users table. Task
// criteria matching (tags, location) is a search concern handled upstream;
// the directory only filters on role and active flag.
type UserDirectory struct {
	db *sqlx.DB
}

var _ ports.UserDirectory = (*UserDirectory)(nil)

func NewUserDirectory(db *sqlx.DB) *UserDirectory {
	return &UserDirectory{db: db}
}

func (d *UserDirectory) ActiveCreatorIDs(ctx context.Context, task domain.Task) ([]uint64, error) {
	var ids []uint64
	if err := d.db.SelectContext(ctx, &ids, activeCreatorIDsQuery, task.ID); err != nil {
		return nil, err
	}
	return ids, nil
}

func (d *UserDirectory) ActiveMediaIDs(ctx context.Context) ([]uint64, error) {
	var ids []uint64
	if err := d.db.SelectContext(ctx, &ids, activeMediaIDsQuery); err != nil {
		return nil, err
	}
	return ids, nil
}
