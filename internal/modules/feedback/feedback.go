package feedback

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is a consumer's rating of a delivered order. There is at most one
// per order.
type Feedback struct {
	ID         uuid.UUID `json:"id"`
	OrderID    uuid.UUID `json:"order_id"`
	PumpID     uuid.UUID `json:"pump_id"`
	ConsumerID uuid.UUID `json:"consumer_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

type SubmitRequest struct {
	OrderID string `json:"order_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Sort orders a feedback listing.
type Sort string

const (
	SortNewest  Sort = "newest"
	SortOldest  Sort = "oldest"
	SortHighest Sort = "highest"
	SortLowest  Sort = "lowest"
)

// Filter narrows ListForPump.
type Filter struct {
	MinRating int
	Sort      Sort
}

type Summary struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}
