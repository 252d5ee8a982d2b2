package domain

import "time"

type RatingType string

const (
	RatingSupplierToCreator RatingType = "supplier_to_creator"
	RatingCreatorToSupplier RatingType = "creator_to_supplier"
)

const (
	RatingScoreMin = 1
	RatingScoreMax = 5
)

// Rating is post-completion feedback between the two task participants. At
// most one rating may exist per (task, from, to, type) tuple.
type Rating struct {
	ID         uint64
	TaskID     uint64
	FromUserID uint64
	ToUserID   uint64
	Score      int
	Comment    *string
	Type       RatingType
	CreatedAt  time.Time
}
