package domain

import "time"

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// TaskApplication is a creator's bid on a task. At most one application may
// exist per (task, creator) pair.
type TaskApplication struct {
	ID             uint64
	TaskID         uint64
	CreatorID      uint64
	Proposal       string
	ProposedBudget *float64
	Status         ApplicationStatus
	SupplierNotes  *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type SubmitApplicationInput struct {
	Proposal       string
	ProposedBudget *float64
}

type ReviewDecision string

const (
	DecisionAccepted ReviewDecision = "accepted"
	DecisionRejected ReviewDecision = "rejected"
	DecisionApproved ReviewDecision = "approved"
	DecisionRevision ReviewDecision = "revision_required"
)

type AssetStatus string

const (
	AssetPendingReview    AssetStatus = "pending_review"
	AssetApproved         AssetStatus = "approved"
	AssetRevisionRequired AssetStatus = "revision_required"
)

// WorkAsset is the deliverable a creator submits for supplier review.
type WorkAsset struct {
	ID          uint64
	TaskID      uint64
	CreatorID   uint64
	Title       string
	Description *string
	FileURL     *string
	Status      AssetStatus
	Feedback    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type SubmitWorkInput struct {
	Title       string
	Description *string
	FileURL     *string
}
