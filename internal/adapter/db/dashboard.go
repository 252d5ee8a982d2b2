package db

import (
	"context"

	"tripmatch/internal/core/domain"
)

const supplierCountsQuery = `
SELECT
  COUNT(*)                                                        AS total,
  COALESCE(SUM(status NOT IN ('draft', 'completed', 'cancelled')), 0) AS active,
  COALESCE(SUM(status = 'completed'), 0)                          AS completed,
  COALESCE(SUM(status IN ('evaluating', 'reviewing')), 0)         AS pending
FROM tasks WHERE supplier_id = ?;
`

const creatorCountsQuery = `
SELECT
  COUNT(*)                                                        AS total,
  COALESCE(SUM(status NOT IN ('completed', 'cancelled')), 0)      AS active,
  COALESCE(SUM(status = 'completed'), 0)                          AS completed,
  COALESCE(SUM(status IN ('in_progress', 'revision_required')), 0) AS pending
FROM tasks WHERE assigned_creator_id = ?;
`

const mediaCountsQuery = `
SELECT
  COUNT(*) AS total,
  COUNT(*) AS active,
  0        AS completed,
  COUNT(*) AS pending
FROM tasks WHERE status = 'publishing';
`

const supplierBreakdownQuery = `
SELECT status, COUNT(*) AS n FROM tasks WHERE supplier_id = ? GROUP BY status;
`

const creatorBreakdownQuery = `
SELECT status, COUNT(*) AS n FROM tasks WHERE assigned_creator_id = ? GROUP BY status;
`

const mediaBreakdownQuery = `
SELECT status, COUNT(*) AS n FROM tasks WHERE status = 'publishing' GROUP BY status;
`

const recentActivitiesQuery = `
SELECT a.*
FROM task_activities a
JOIN tasks t ON t.id = a.task_id
WHERE t.supplier_id = ? OR t.assigned_creator_id = ? OR a.actor_id = ?
ORDER BY a.created_at DESC, a.id DESC
LIMIT ?;
`

type countsRow struct {
	Total     int `db:"total"`
	Active    int `db:"active"`
	Completed int `db:"completed"`
	Pending   int `db:"pending"`
}

func (s *Store) DashboardCounts(ctx context.Context, userID uint64, role domain.Role) (domain.DashboardCounts, error) {
	query, args := dashboardQueryFor(role, userID, supplierCountsQuery, creatorCountsQuery, mediaCountsQuery)

	var row countsRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		return domain.DashboardCounts{}, err
	}

	return domain.DashboardCounts{
		TotalTasks:     row.Total,
		ActiveTasks:    row.Active,
		CompletedTasks: row.Completed,
		PendingActions: row.Pending,
	}, nil
}

func (s *Store) StageBreakdown(ctx context.Context, userID uint64, role domain.Role) (map[domain.TaskStage]int, error) {
	query, args := dashboardQueryFor(role, userID, supplierBreakdownQuery, creatorBreakdownQuery, mediaBreakdownQuery)

	var rows []struct {
		Status string `db:"status"`
		N      int    `db:"n"`
	}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	breakdown := make(map[domain.TaskStage]int, len(rows))
	for _, row := range rows {
		breakdown[domain.TaskStage(row.Status)] = row.N
	}
	return breakdown, nil
}

func dashboardQueryFor(role domain.Role, userID uint64, supplierQuery, creatorQuery, mediaQuery string) (string, []any) {
	switch role {
	case domain.RoleCreator:
		return creatorQuery, []any{userID}
	case domain.RoleMedia:
		return mediaQuery, nil
	default:
		return supplierQuery, []any{userID}
	}
}

func (s *Store) RecentActivities(ctx context.Context, userID uint64, limit int) ([]domain.TaskActivity, error) {
	var rows []activityRow
	if err := s.db.SelectContext(ctx, &rows, recentActivitiesQuery, userID, userID, userID, limit); err != nil {
		return nil, err
	}

	activities := make([]domain.TaskActivity, 0, len(rows))
	for _, row := range rows {
		activities = append(activities, mapActivityRow(row))
	}
	return activities, nil
}
