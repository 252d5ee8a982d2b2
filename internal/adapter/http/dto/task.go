package dto

type TaskItem struct {
	ID               uint64       `json:"id"`
	SupplierID       uint64       `json:"supplier_id"`
	AssignedCreator  *uint64      `json:"assigned_creator_id,omitempty"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Requirements     *string      `json:"requirements,omitempty"`
	BudgetMin        *float64     `json:"budget_min,omitempty"`
	BudgetMax        *float64     `json:"budget_max,omitempty"`
	BudgetType       string       `json:"budget_type"`
	Deadline         *string      `json:"deadline,omitempty"`
	Tags             []string     `json:"tags,omitempty"`
	ContentTypes     []string     `json:"content_types,omitempty"`
	Location         *Geolocation `json:"location,omitempty"`
	Status           string       `json:"status"`
	ViewCount        int          `json:"view_count"`
	ApplicationCount int          `json:"application_count"`
	ShareCount       int          `json:"share_count"`
	CreatedAt        string       `json:"created_at"`
	UpdatedAt        string       `json:"updated_at"`
}

type Geolocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type CreateTaskRequest struct {
	Title        string       `json:"title" binding:"omitempty,max=255"`
	Description  string       `json:"description" binding:"omitempty,max=65535"`
	Requirements *string      `json:"requirements" binding:"omitempty,max=65535"`
	BudgetMin    *float64     `json:"budget_min"`
	BudgetMax    *float64     `json:"budget_max"`
	BudgetType   *string      `json:"budget_type" binding:"omitempty,oneof=fixed negotiable commission"`
	Deadline     *string      `json:"deadline" binding:"omitempty,datetime=2006-01-02"`
	Tags         []string     `json:"tags"`
	ContentTypes []string     `json:"content_types"`
	Location     *Geolocation `json:"location"`
}

type TransitionRequest struct {
	Stage  string  `json:"stage" binding:"required"`
	Reason *string `json:"reason" binding:"omitempty,max=1000"`
}

type CancelTaskRequest struct {
	Reason *string `json:"reason" binding:"omitempty,max=1000"`
}

type TransitionResultItem struct {
	TaskID          uint64  `json:"task_id"`
	FromStage       string  `json:"from_stage"`
	ToStage         string  `json:"to_stage"`
	ProgressPercent float64 `json:"progress_percent"`
	TransitionedAt  string  `json:"transitioned_at"`
}

type StageHistoryItem struct {
	FromStage string  `json:"from_stage"`
	ToStage   string  `json:"to_stage"`
	ActorID   uint64  `json:"actor_id"`
	Reason    *string `json:"reason,omitempty"`
	CreatedAt string  `json:"created_at"`
}

type ProgressItem struct {
	TaskID          uint64             `json:"task_id"`
	CurrentStage    string             `json:"current_stage"`
	ProgressPercent float64            `json:"progress_percent"`
	History         []StageHistoryItem `json:"history"`
	NextStages      []string           `json:"next_stages"`
}

type DeadlineItem struct {
	TaskID        uint64  `json:"task_id"`
	Deadline      *string `json:"deadline,omitempty"`
	IsOverdue     bool    `json:"is_overdue"`
	DaysRemaining int     `json:"days_remaining"`
}

type ActivityItem struct {
	TaskID      uint64 `json:"task_id"`
	ActorID     uint64 `json:"actor_id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

type DashboardItem struct {
	UserID         uint64         `json:"user_id"`
	Role           string         `json:"role"`
	TotalTasks     int            `json:"total_tasks"`
	ActiveTasks    int            `json:"active_tasks"`
	CompletedTasks int            `json:"completed_tasks"`
	PendingActions int            `json:"pending_actions"`
	StageBreakdown map[string]int `json:"stage_breakdown"`
	RecentActivity []ActivityItem `json:"recent_activity"`
}

type SubmitApplicationRequest struct {
	Proposal       string   `json:"proposal" binding:"omitempty,max=65535"`
	ProposedBudget *float64 `json:"proposed_budget"`
}

type ApplicationItem struct {
	ID             uint64   `json:"id"`
	TaskID         uint64   `json:"task_id"`
	CreatorID      uint64   `json:"creator_id"`
	Proposal       string   `json:"proposal"`
	ProposedBudget *float64 `json:"proposed_budget,omitempty"`
	Status         string   `json:"status"`
	SupplierNotes  *string  `json:"supplier_notes,omitempty"`
	CreatedAt      string   `json:"created_at"`
}

type ReviewApplicationRequest struct {
	Decision string  `json:"decision" binding:"required,oneof=accepted rejected"`
	Notes    *string `json:"notes" binding:"omitempty,max=65535"`
}

type SubmitWorkRequest struct {
	Title       string  `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty,max=65535"`
	FileURL     *string `json:"file_url" binding:"omitempty,max=2048"`
}

type WorkAssetItem struct {
	ID          uint64  `json:"id"`
	TaskID      uint64  `json:"task_id"`
	CreatorID   uint64  `json:"creator_id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	FileURL     *string `json:"file_url,omitempty"`
	Status      string  `json:"status"`
	Feedback    *string `json:"feedback,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

type ReviewWorkRequest struct {
	AssetID  uint64  `json:"asset_id" binding:"required"`
	Decision string  `json:"decision" binding:"required,oneof=approved revision_required"`
	Feedback *string `json:"feedback" binding:"omitempty,max=65535"`
}

type SubmitRatingRequest struct {
	ToUserID uint64  `json:"to_user_id" binding:"required"`
	Score    int     `json:"score" binding:"required"`
	Comment  *string `json:"comment" binding:"omitempty,max=65535"`
}

type RatingItem struct {
	ID         uint64  `json:"id"`
	TaskID     uint64  `json:"task_id"`
	FromUserID uint64  `json:"from_user_id"`
	ToUserID   uint64  `json:"to_user_id"`
	Score      int     `json:"score"`
	Comment    *string `json:"comment,omitempty"`
	Type       string  `json:"rating_type"`
	CreatedAt  string  `json:"created_at"`
}
