package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/georgemunganga/fuelnow-backend/internal/apperr"
	"github.com/georgemunganga/fuelnow-backend/internal/modules/auth"
	"github.com/georgemunganga/fuelnow-backend/internal/modules/history"
	"github.com/georgemunganga/fuelnow-backend/internal/modules/pricing"
	"github.com/georgemunganga/fuelnow-backend/internal/modules/pump"
	"github.com/georgemunganga/fuelnow-backend/internal/modules/user"
	"github.com/georgemunganga/fuelnow-backend/internal/pkg/cache"
	"github.com/georgemunganga/fuelnow-backend/internal/pkg/events"
	"github.com/google/uuid"
)

// Service defines the order lifecycle. Every operation takes the caller's
// session explicitly.
type Service interface {
	// Place prices and stores a new pending order for a consumer.
	Place(ctx context.Context, sess auth.Session, req PlaceOrderRequest) (*Order, error)

	Accept(ctx context.Context, sess auth.Session, id uuid.UUID) (*Order, error)
	Decline(ctx context.Context, sess auth.Session, id uuid.UUID) (*Order, error)
	Dispatch(ctx context.Context, sess auth.Session, id uuid.UUID) (*Order, error)
	Deliver(ctx context.Context, sess auth.Session, id uuid.UUID) (*Order, error)
	Cancel(ctx context.Context, sess auth.Session, id uuid.UUID) (*Order, error)

	// UpdateStatus applies the transition that leads to req.Status.
	UpdateStatus(ctx context.Context, sess auth.Session, id uuid.UUID, req UpdateStatusRequest) (*Order, error)

	Get(ctx context.Context, sess auth.Session, id uuid.UUID) (*Order, error)
	History(ctx context.Context, sess auth.Session, id uuid.UUID) ([]history.Entry, error)
	ListMine(ctx context.Context, sess auth.Session) ([]*Order, error)
	ListForPump(ctx context.Context, sess auth.Session, status string) ([]*Order, error)
	Stats(ctx context.Context, sess auth.Session) (*Stats, error)
	Customers(ctx context.Context, sess auth.Session) ([]*Customer, error)
}

// PumpLookup is the part of the pump service orders depend on.
type PumpLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*pump.Pump, error)
	GetMine(ctx context.Context, sess auth.Session) (*pump.Pump, error)
}

// UserLookup is the part of the user service orders depend on.
type UserLookup interface {
	Lookup(ctx context.Context, id uuid.UUID) (*user.User, error)
}

const (
	minAddressLen  = 5
	idempotencyTTL = 24 * time.Hour
)

type Option func(*service)

// WithIdempotency rejects a repeated Idempotency-Key per consumer.
func WithIdempotency(c cache.Cache) Option { return func(s *service) { s.idem = c } }

func WithJournal(j history.Journal) Option { return func(s *service) { s.journal = j } }

func WithPublisher(p events.Publisher) Option { return func(s *service) { s.events = p } }

type service struct {
	repo    Repository
	pumps   PumpLookup
	users   UserLookup
	idem    cache.Cache
	journal history.Journal
	events  events.Publisher
	now     func() time.Time
}

// NewService creates a new order service.
func NewService(repo Repository, pumps PumpLookup, users UserLookup, opts ...Option) Service {
	s := &service{repo: repo, pumps: pumps, users: users, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Place(ctx context.Context, sess auth.Session, req PlaceOrderRequest) (*Order, error) {
	if !sess.IsConsumer() {
		return nil, fmt.Errorf("%w: only consumers place orders", apperr.ErrNotAuthorized)
	}
	consumer, err := s.users.Lookup(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if consumer.IsBanned {
		return nil, fmt.Errorf("%w: account is banned from ordering", apperr.ErrNotAuthorized)
	}

	fuel, err := pricing.ParseFuelType(req.FuelType)
	if err != nil {
		return nil, err
	}
	quantity, err := pricing.ParseQuantity(req.QuantityLiters)
	if err != nil {
		return nil, err
	}
	address := strings.TrimSpace(req.DeliveryAddress)
	if len([]rune(address)) < minAddressLen {
		return nil, fmt.Errorf("%w: delivery address must be at least %d characters", apperr.ErrInvalidAddress, minAddressLen)
	}

	pumpID, err := uuid.Parse(req.PumpID)
	if err != nil {
		return nil, fmt.Errorf("pump %w", apperr.ErrNotFound)
	}
	p, err := s.pumps.Get(ctx, pumpID)
	if err != nil {
		return nil, err
	}

	quote, err := pricing.Resolve(p.Board(), fuel, quantity)
	if err != nil {
		return nil, err
	}

	idemKey, err := s.claimIdempotencyKey(ctx, sess, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	o := &Order{
		ID:              uuid.New(),
		ConsumerID:      sess.UserID,
		PumpID:          p.ID,
		FuelType:        quote.FuelType,
		QuantityLiters:  quote.QuantityLiters,
		UnitPrice:       quote.UnitPrice,
		TotalAmount:     quote.Total,
		Status:          StatusPending,
		DeliveryAddress: address,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.CreateOrder(ctx, o); err != nil {
		if idemKey != "" {
			// Let the client retry with the same key.
			if derr := s.idem.Delete(ctx, idemKey); derr != nil {
				slog.WarnContext(ctx, "idempotency key release failed", "key", idemKey, "error", derr)
			}
		}
		return nil, err
	}

	slog.InfoContext(ctx, "order placed", "order_id", o.ID, "pump_id", o.PumpID, "total", o.TotalAmount)
	s.record(ctx, sess, o, "")
	return o, nil
}

func (s *service) claimIdempotencyKey(ctx context.Context, sess auth.Session, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || s.idem == nil {
		return "", nil
	}
	k := s.idem.Key("idem", "order", sess.UserID.String(), key)
	ok, err := s.idem.SetNX(ctx, k, idempotencyTTL)
	if err != nil {
		return "", fmt.Errorf("%w: idempotency check: %v", apperr.ErrBackendUnavailable, err)
	}
	if !ok {
		return "", fmt.Errorf("%w: an order was already submitted with this idempotency key", apperr.ErrConflict)
	}
	return k, nil
}

func (s *service) Accept(ctx context.Context, sess auth.Session, id uuid.UUID) (*Order, error) {
	return s.transition(ctx, sess, id, ActionAccept)
}

func (s *service) Decline(ctx context.Context, sess auth.Session, id uuid.UUID) (*Order, error) {
	return s.transition(ctx, sess, id, ActionDecline)
}

func (s *service) Dispatch(ctx context.Context, sess auth.Session, id uuid.UUID) (*Order, error) {
	return s.transition(ctx, sess, id, ActionDispatch)
}

func (s *service) Deliver(ctx context.Context, sess auth.Session, id uuid.UUID) (*Order, error) {
	return s.transition(ctx, sess, id, ActionDeliver)
}

func (s *service) Cancel(ctx context.Context, sess auth.Session, id uuid.UUID) (*Order, error) {
	return s.transition(ctx, sess, id, ActionCancel)
}

func (s *service) UpdateStatus(ctx context.Context, sess auth.Session, id uuid.UUID, req UpdateStatusRequest) (*Order, error) {
	target := Status(strings.ToLower(strings.TrimSpace(req.Status)))
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperr.ErrInvalidInput, req.Status)
	}
	action, ok := actionFor(target)
	if !ok {
		return nil, fmt.Errorf("%w: no transition leads to %s", apperr.ErrIllegalTransition, target)
	}
	return s.transition(ctx, sess, id, action)
}

// transition runs the guard in a fixed order: existence, involvement in the
// order, terminal state, actor role and ownership, predecessor state, and
// finally the conditional write.
func (s *service) transition(ctx context.Context, sess auth.Session, id uuid.UUID, action Action) (*Order, error) {
	t, ok := transitions[action]
	if !ok {
		return nil, fmt.Errorf("%w: unknown action %q", apperr.ErrInvalidInput, action)
	}

	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeView(ctx, sess, o); err != nil {
		return nil, err
	}
	if o.Status.Terminal() {
		return nil, fmt.Errorf("%w: order is already %s", apperr.ErrIllegalTransition, o.Status)
	}
	if sess.Role != t.actor {
		return nil, fmt.Errorf("%w: a %s cannot %s an order", apperr.ErrNotAuthorized, sess.Role, action)
	}
	if o.Status != t.from {
		return nil, fmt.Errorf("%w: cannot %s an order that is %s", apperr.ErrIllegalTransition, action, o.Status)
	}

	updated, err := s.repo.UpdateStatus(ctx, id, t.from, t.to)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "order transitioned", "order_id", id, "action", action, "from", t.from, "to", t.to)
	s.record(ctx, sess, updated, t.from)
	return updated, nil
}

// authorizeView passes for the owning consumer and the admin of the order's
// pump.
func (s *service) authorizeView(ctx context.Context, sess auth.Session, o *Order) error {
	switch sess.Role {
	case auth.RoleConsumer:
		if o.ConsumerID == sess.UserID {
			return nil
		}
	case auth.RolePumpAdmin:
		p, err := s.pumps.Get(ctx, o.PumpID)
		if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return err
		}
		if err == nil && p.OwnerID == sess.UserID {
			return nil
		}
	}
	return fmt.Errorf("%w: not your order", apperr.ErrNotAuthorized)
}

// record appends to the journal and notifies listeners. Both are best
// effort: the state change is already committed.
func (s *service) record(ctx context.Context, sess auth.Session, o *Order, from Status) {
	at := o.UpdatedAt
	if s.journal != nil {
		err := s.journal.Append(ctx, history.Entry{
			OrderID:   o.ID.String(),
			From:      string(from),
			To:        string(o.Status),
			ActorID:   sess.UserID.String(),
			ActorRole: string(sess.Role),
			At:        at,
		})
		if err != nil {
			slog.WarnContext(ctx, "order history append failed", "order_id", o.ID, "error", err)
		}
	}
	if s.events != nil {
		err := s.events.Publish(ctx, events.OrderEvent{
			OrderID:    o.ID.String(),
			ConsumerID: o.ConsumerID.String(),
			PumpID:     o.PumpID.String(),
			From:       string(from),
			To:         string(o.Status),
			ActorID:    sess.UserID.String(),
			OccurredAt: at,
		})
		if err != nil {
			slog.WarnContext(ctx, "order event publish failed", "order_id", o.ID, "error", err)
		}
	}
}

func (s *service) Get(ctx context.Context, sess auth.Session, id uuid.UUID) (*Order, error) {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeView(ctx, sess, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) History(ctx context.Context, sess auth.Session, id uuid.UUID) ([]history.Entry, error) {
	if _, err := s.Get(ctx, sess, id); err != nil {
		return nil, err
	}
	if s.journal == nil {
		return []history.Entry{}, nil
	}
	entries, err := s.journal.List(ctx, id.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrBackendUnavailable, err)
	}
	return entries, nil
}

func (s *service) ListMine(ctx context.Context, sess auth.Session) ([]*Order, error) {
	if !sess.IsConsumer() {
		return nil, fmt.Errorf("%w: only consumers have orders", apperr.ErrNotAuthorized)
	}
	return s.repo.ListOrdersByConsumer(ctx, sess.UserID)
}

func (s *service) ListForPump(ctx context.Context, sess auth.Session, status string) ([]*Order, error) {
	filter := Status(strings.ToLower(strings.TrimSpace(status)))
	if filter != "" && !filter.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperr.ErrInvalidInput, status)
	}
	p, err := s.pumps.GetMine(ctx, sess)
	if err != nil {
		return nil, err
	}
	return s.repo.ListOrdersByPump(ctx, p.ID, filter)
}

func (s *service) Stats(ctx context.Context, sess auth.Session) (*Stats, error) {
	p, err := s.pumps.GetMine(ctx, sess)
	if err != nil {
		return nil, err
	}
	return s.repo.PumpStats(ctx, p.ID)
}

func (s *service) Customers(ctx context.Context, sess auth.Session) ([]*Customer, error) {
	p, err := s.pumps.GetMine(ctx, sess)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.CustomersOfPump(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	out := make([]*Customer, 0, len(counts))
	for _, c := range counts {
		cust := &Customer{ConsumerID: c.ConsumerID, Orders: c.Orders, LastOrderAt: c.LastOrderAt}
		u, err := s.users.Lookup(ctx, c.ConsumerID)
		switch {
		case err == nil:
			cust.Name, cust.Phone, cust.IsBanned = u.Name, u.Phone, u.IsBanned
		case !errors.Is(err, apperr.ErrNotFound):
			return nil, err
		}
		out = append(out, cust)
	}
	return out, nil
}

// OwnerLookup finds the pump an admin runs.
type OwnerLookup interface {
	GetPumpByOwnerID(ctx context.Context, ownerID uuid.UUID) (*pump.Pump, error)
}

// CustomerCheck implements user.OrderHistory on top of the order store.
type CustomerCheck struct {
	Orders Repository
	Pumps  OwnerLookup
}

func (c CustomerCheck) HasOrderedFrom(ctx context.Context, consumerID, pumpAdminID uuid.UUID) (bool, error) {
	p, err := c.Pumps.GetPumpByOwnerID(ctx, pumpAdminID)
	if errors.Is(err, apperr.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return c.Orders.HasOrdered(ctx, consumerID, p.ID)
}
