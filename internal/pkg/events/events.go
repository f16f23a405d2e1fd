// Package events publishes order status changes to interested parties.
// Delivery is best-effort: callers log a failed publish and carry on.
package events

import (
	"context"
	"log/slog"
	"time"
)

// OrderEvent is emitted after every committed order creation or transition.
// Both the consumer's order list and the pump's request list are
// interested in it.
type OrderEvent struct {
	OrderID    string    `json:"order_id"`
	ConsumerID string    `json:"consumer_id"`
	PumpID     string    `json:"pump_id"`
	From       string    `json:"from,omitempty"`
	To         string    `json:"to"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RoutingKey is order.<status>, e.g. order.en_route.
func (e OrderEvent) RoutingKey() string { return "order." + e.To }

type Publisher interface {
	Publish(ctx context.Context, e OrderEvent) error
}

type logPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher returns a Publisher that only writes the event to the log.
// It is used when no broker is configured.
func NewLogPublisher(logger *slog.Logger) Publisher {
	return &logPublisher{logger: logger}
}

func (p *logPublisher) Publish(ctx context.Context, e OrderEvent) error {
	p.logger.InfoContext(ctx, "order event",
		"routing_key", e.RoutingKey(),
		"order_id", e.OrderID,
		"from", e.From,
		"to", e.To,
	)
	return nil
}
