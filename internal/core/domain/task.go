package domain

import "time"

type BudgetType string

const (
	BudgetTypeFixed      BudgetType = "fixed"
	BudgetTypeNegotiable BudgetType = "negotiable"
	BudgetTypeCommission BudgetType = "commission"
)

type BudgetRange struct {
	Min  *float64
	Max  *float64
	Type BudgetType
}

type Geolocation struct {
	Latitude  float64
	Longitude float64
}

type Task struct {
	ID               uint64
	SupplierID       uint64
	AssignedCreator  *uint64
	Title            string
	Description      string
	Requirements     *string
	Budget           BudgetRange
	Deadline         *time.Time
	Tags             []string
	ContentTypes     []string
	Location         *Geolocation
	Status           TaskStage
	ViewCount        int
	ApplicationCount int
	ShareCount       int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type CreateTaskInput struct {
	Title        string
	Description  string
	Requirements *string
	Budget       BudgetRange
	Deadline     *time.Time
	Tags         []string
	ContentTypes []string
	Location     *Geolocation
}

// StageHistoryEntry is one immutable record of a stage transition. The
// ordered sequence by CreatedAt reconstructs the task's full stage path.
type StageHistoryEntry struct {
	ID        uint64
	TaskID    uint64
	FromStage TaskStage
	ToStage   TaskStage
	ActorID   uint64
	Reason    *string
	CreatedAt time.Time
}

// StageProgress is the denormalized current-stage percentage for dashboards.
type StageProgress struct {
	TaskID           uint64
	Stage            TaskStage
	ProgressPercent  float64
	StageStartedAt   time.Time
	StageCompletedAt *time.Time
}

type ActivityType string

const (
	ActivityTaskCreated         ActivityType = "task_created"
	ActivityTaskPublished       ActivityType = "task_published"
	ActivityStageChanged        ActivityType = "stage_changed"
	ActivityApplicationReceived ActivityType = "application_received"
	ActivityApplicationReviewed ActivityType = "application_reviewed"
	ActivityWorkSubmitted       ActivityType = "work_submitted"
	ActivityWorkReviewed        ActivityType = "work_reviewed"
	ActivityTaskCompleted       ActivityType = "task_completed"
	ActivityTaskCancelled       ActivityType = "task_cancelled"
	ActivityRatingSubmitted     ActivityType = "rating_submitted"
)

// TaskActivity is the user-visible trail entry, distinct from the audit log.
type TaskActivity struct {
	ID          uint64
	TaskID      uint64
	ActorID     uint64
	Type        ActivityType
	Description string
	CreatedAt   time.Time
}

// TransitionResult reports a committed stage change.
type TransitionResult struct {
	TaskID          uint64
	FromStage       TaskStage
	ToStage         TaskStage
	ProgressPercent float64
	TransitionedAt  time.Time
}

// ProgressView is the read model returned by GetProgress.
type ProgressView struct {
	TaskID          uint64
	CurrentStage    TaskStage
	ProgressPercent float64
	History         []StageHistoryEntry
	NextStages      []TaskStage
}

// DashboardCounts are the role-scoped aggregate counters backing a dashboard.
type DashboardCounts struct {
	TotalTasks     int
	ActiveTasks    int
	CompletedTasks int
	PendingActions int
}

// DashboardView aggregates a user's task workload for one role.
type DashboardView struct {
	UserID         uint64
	Role           Role
	TotalTasks     int
	ActiveTasks    int
	CompletedTasks int
	PendingActions int
	StageBreakdown map[TaskStage]int
	RecentActivity []TaskActivity
}

// DeadlineCheck reports how a task stands against its deadline. Expiry is a
// reporting concern only; no automatic transition follows from it.
type DeadlineCheck struct {
	TaskID        uint64
	Deadline      *time.Time
	IsOverdue     bool
	DaysRemaining int
}
