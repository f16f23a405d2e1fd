package order

import (
	"time"

	"github.com/georgemunganga/fuelnow-backend/internal/modules/auth"
	"github.com/georgemunganga/fuelnow-backend/internal/modules/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusEnRoute   Status = "en_route"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusDeclined || s == StatusDelivered || s == StatusCancelled
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDeclined, StatusEnRoute, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Action names a lifecycle operation.
type Action string

const (
	ActionAccept   Action = "accept"
	ActionDecline  Action = "decline"
	ActionDispatch Action = "dispatch"
	ActionDeliver  Action = "deliver"
	ActionCancel   Action = "cancel"
)

type transition struct {
	from  Status
	to    Status
	actor auth.Role
}

// transitions is the whole state machine. Anything not listed is illegal.
var transitions = map[Action]transition{
	ActionAccept:   {StatusPending, StatusAccepted, auth.RolePumpAdmin},
	ActionDecline:  {StatusPending, StatusDeclined, auth.RolePumpAdmin},
	ActionCancel:   {StatusPending, StatusCancelled, auth.RoleConsumer},
	ActionDispatch: {StatusAccepted, StatusEnRoute, auth.RolePumpAdmin},
	ActionDeliver:  {StatusEnRoute, StatusDelivered, auth.RolePumpAdmin},
}

// actionFor maps a requested target status to the action that reaches it.
func actionFor(target Status) (Action, bool) {
	for a, t := range transitions {
		if t.to == target {
			return a, true
		}
	}
	return "", false
}

// Order is a single fuel delivery request. UnitPrice and TotalAmount are
// captured when the order is placed and never change afterwards.
type Order struct {
	ID              uuid.UUID        `json:"id"`
	ConsumerID      uuid.UUID        `json:"consumer_id"`
	PumpID          uuid.UUID        `json:"pump_id"`
	FuelType        pricing.FuelType `json:"fuel_type"`
	QuantityLiters  decimal.Decimal  `json:"quantity_liters"`
	UnitPrice       decimal.Decimal  `json:"unit_price"`
	TotalAmount     decimal.Decimal  `json:"total_amount"`
	Status          Status           `json:"status"`
	DeliveryAddress string           `json:"delivery_address"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// PlaceOrderRequest is the payload for creating a new order.
type PlaceOrderRequest struct {
	PumpID          string         `json:"pump_id"`
	FuelType        string         `json:"fuel_type"`
	QuantityLiters  pricing.Amount `json:"quantity_liters"`
	DeliveryAddress string         `json:"delivery_address"`

	// IdempotencyKey comes from the Idempotency-Key header.
	IdempotencyKey string `json:"-"`
}

// UpdateStatusRequest is the payload for advancing an order's status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Stats summarises a pump's order book.
type Stats struct {
	Total     int             `json:"total"`
	Pending   int             `json:"pending"`
	Active    int             `json:"active"`
	Delivered int             `json:"delivered"`
	Closed    int             `json:"closed"` // declined or cancelled
	Revenue   decimal.Decimal `json:"revenue"`
}

// CustomerCount is one consumer's activity at a pump.
type CustomerCount struct {
	ConsumerID  uuid.UUID
	Orders      int
	LastOrderAt time.Time
}

// Customer is a consumer as seen by the admin of a pump they ordered from.
type Customer struct {
	ConsumerID  uuid.UUID `json:"consumer_id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Orders      int       `json:"orders"`
	LastOrderAt time.Time `json:"last_order_at"`
	IsBanned    bool      `json:"is_banned"`
}
