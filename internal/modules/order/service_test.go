package order

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
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
	"github.com/shopspring/decimal"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.RoutingKey())
	}
	return out
}

type env struct {
	svc     Service
	orders  Repository
	pumps   pump.Repository
	pumpSvc pump.Service
	users   user.Repository
	journal history.Journal
	pub     *recordingPublisher

	consumer, otherConsumer auth.Session
	admin, otherAdmin       auth.Session
	pump, otherPump         *pump.Pump
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	e := &env{
		orders:        NewMemoryRepository(),
		pumps:         pump.NewMemoryRepository(),
		users:         user.NewMemoryRepository(),
		journal:       history.NewMemory(),
		pub:           &recordingPublisher{},
		consumer:      auth.Session{UserID: uuid.New(), Role: auth.RoleConsumer},
		otherConsumer: auth.Session{UserID: uuid.New(), Role: auth.RoleConsumer},
		admin:         auth.Session{UserID: uuid.New(), Role: auth.RolePumpAdmin},
		otherAdmin:    auth.Session{UserID: uuid.New(), Role: auth.RolePumpAdmin},
	}
	for i, s := range []auth.Session{e.consumer, e.otherConsumer} {
		err := e.users.CreateUser(ctx, &user.User{
			ID:    s.UserID,
			Email: []string{"mwila@example.com", "bwalya@example.com"}[i],
			Role:  auth.RoleConsumer,
			Name:  []string{"Mwila", "Bwalya"}[i],
			Phone: "0971234567",
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	e.pump = e.addPump(t, e.admin, "Lusaka Fuels", "lusaka_fuels", "102.5", "89.3")
	e.otherPump = e.addPump(t, e.otherAdmin, "Kitwe Fuels", "kitwe_fuels", "100", "90")

	userSvc := user.NewService(e.users, CustomerCheck{Orders: e.orders, Pumps: e.pumps})
	e.pumpSvc = pump.NewService(e.pumps, userSvc, cache.NewMemory(), time.Minute)
	e.svc = NewService(e.orders, e.pumpSvc, userSvc,
		WithIdempotency(cache.NewMemory()),
		WithJournal(e.journal),
		WithPublisher(e.pub),
	)
	return e
}

func (e *env) addPump(t *testing.T, owner auth.Session, name, handle, petrol, diesel string) *pump.Pump {
	t.Helper()
	p := &pump.Pump{
		ID:          uuid.New(),
		OwnerID:     owner.UserID,
		Name:        name,
		AdminHandle: handle,
		Address:     "Great East Road",
		PetrolPrice: decimal.RequireFromString(petrol),
		DieselPrice: decimal.RequireFromString(diesel),
	}
	if err := e.pumps.CreatePump(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	return p
}

func (e *env) place(t *testing.T, quantity string) *Order {
	t.Helper()
	o, err := e.svc.Place(context.Background(), e.consumer, PlaceOrderRequest{
		PumpID:          e.pump.ID.String(),
		FuelType:        "petrol",
		QuantityLiters:  pricing.Amount(quantity),
		DeliveryAddress: "Plot 7, Kabulonga Road",
	})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	return o
}

func mustStatus(t *testing.T, o *Order, err error, want Status) {
	t.Helper()
	if err != nil {
		t.Fatalf("transition to %s: %v", want, err)
	}
	if o.Status != want {
		t.Fatalf("status = %s, want %s", o.Status, want)
	}
}

func TestHappyPathToDelivered(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	o := e.place(t, "10")
	if o.Status != StatusPending {
		t.Fatalf("status = %s", o.Status)
	}
	if o.TotalAmount.StringFixed(2) != "1025.00" || !o.UnitPrice.Equal(decimal.RequireFromString("102.5")) {
		t.Fatalf("total = %s, unit = %s", o.TotalAmount, o.UnitPrice)
	}

	o, err := e.svc.Accept(ctx, e.admin, o.ID)
	mustStatus(t, o, err, StatusAccepted)
	o, err = e.svc.Dispatch(ctx, e.admin, o.ID)
	mustStatus(t, o, err, StatusEnRoute)
	o, err = e.svc.Deliver(ctx, e.admin, o.ID)
	mustStatus(t, o, err, StatusDelivered)

	if _, err := e.svc.Deliver(ctx, e.admin, o.ID); !errors.Is(err, apperr.ErrIllegalTransition) {
		t.Fatalf("second deliver: %v", err)
	}

	entries, err := e.svc.History(ctx, e.consumer, o.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	var path []string
	for _, en := range entries {
		path = append(path, en.From+">"+en.To)
	}
	want := []string{">pending", "pending>accepted", "accepted>en_route", "en_route>delivered"}
	if len(path) != len(want) {
		t.Fatalf("history = %v", path)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("history = %v, want %v", path, want)
		}
	}

	keys := e.pub.keys()
	if len(keys) != 4 || keys[0] != "order.pending" || keys[3] != "order.delivered" {
		t.Fatalf("events = %v", keys)
	}
}

func TestDeclineThenCancel(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.place(t, "5")

	o, err := e.svc.Decline(ctx, e.admin, o.ID)
	mustStatus(t, o, err, StatusDeclined)

	if _, err := e.svc.Cancel(ctx, e.consumer, o.ID); !errors.Is(err, apperr.ErrIllegalTransition) {
		t.Fatalf("cancel after decline: %v", err)
	}
}

func TestCancelAuthorization(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.place(t, "5")

	for name, sess := range map[string]auth.Session{
		"owning admin":   e.admin,
		"other admin":    e.otherAdmin,
		"other consumer": e.otherConsumer,
	} {
		if _, err := e.svc.Cancel(ctx, sess, o.ID); !errors.Is(err, apperr.ErrNotAuthorized) {
			t.Errorf("%s cancel: %v", name, err)
		}
	}

	got, err := e.svc.Cancel(ctx, e.consumer, o.ID)
	mustStatus(t, got, err, StatusCancelled)
}

func TestCancelRequiresPending(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.place(t, "5")
	if _, err := e.svc.Accept(ctx, e.admin, o.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := e.svc.Cancel(ctx, e.consumer, o.ID); !errors.Is(err, apperr.ErrIllegalTransition) {
		t.Fatalf("cancel accepted order: %v", err)
	}
}

func TestVendorActionsRequireOwningAdmin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.place(t, "5")

	if _, err := e.svc.Accept(ctx, e.otherAdmin, o.ID); !errors.Is(err, apperr.ErrNotAuthorized) {
		t.Fatalf("other admin accept: %v", err)
	}
	if _, err := e.svc.Accept(ctx, e.consumer, o.ID); !errors.Is(err, apperr.ErrNotAuthorized) {
		t.Fatalf("consumer accept: %v", err)
	}
	if _, err := e.svc.Deliver(ctx, e.admin, o.ID); !errors.Is(err, apperr.ErrIllegalTransition) {
		t.Fatalf("deliver from pending: %v", err)
	}
	if _, err := e.svc.Dispatch(ctx, e.admin, o.ID); !errors.Is(err, apperr.ErrIllegalTransition) {
		t.Fatalf("dispatch from pending: %v", err)
	}
}

func TestTerminalStatesRejectEveryTransition(t *testing.T) {
	ctx := context.Background()
	reach := map[Status]func(e *env, id uuid.UUID){
		StatusDelivered: func(e *env, id uuid.UUID) {
			e.svc.Accept(ctx, e.admin, id)
			e.svc.Dispatch(ctx, e.admin, id)
			e.svc.Deliver(ctx, e.admin, id)
		},
		StatusDeclined:  func(e *env, id uuid.UUID) { e.svc.Decline(ctx, e.admin, id) },
		StatusCancelled: func(e *env, id uuid.UUID) { e.svc.Cancel(ctx, e.consumer, id) },
	}
	for terminal, drive := range reach {
		t.Run(string(terminal), func(t *testing.T) {
			e := newEnv(t)
			o := e.place(t, "5")
			drive(e, o.ID)
			got, _ := e.svc.Get(ctx, e.consumer, o.ID)
			if got.Status != terminal {
				t.Fatalf("status = %s, want %s", got.Status, terminal)
			}
			for action := range transitions {
				for _, sess := range []auth.Session{e.consumer, e.admin} {
					_, err := e.svc.(*service).transition(ctx, sess, o.ID, action)
					if !errors.Is(err, apperr.ErrIllegalTransition) {
						t.Errorf("%s by %s: %v", action, sess.Role, err)
					}
				}
			}
		})
	}
}

func TestDoubleAccept(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.place(t, "5")
	if _, err := e.svc.Accept(ctx, e.admin, o.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := e.svc.Accept(ctx, e.admin, o.ID); !errors.Is(err, apperr.ErrIllegalTransition) {
		t.Fatalf("second accept: %v", err)
	}
}

func TestTotalFrozenAcrossPriceChange(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	if _, err := e.pumpSvc.UpdatePrices(ctx, e.admin, pump.UpdatePricesRequest{PetrolPrice: "100", DieselPrice: "90"}); err != nil {
		t.Fatal(err)
	}
	o := e.place(t, "10")
	if !o.TotalAmount.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("total = %s", o.TotalAmount)
	}

	if _, err := e.pumpSvc.UpdatePrices(ctx, e.admin, pump.UpdatePricesRequest{PetrolPrice: "150", DieselPrice: "90"}); err != nil {
		t.Fatal(err)
	}
	got, err := e.svc.Get(ctx, e.consumer, o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.TotalAmount.Equal(decimal.NewFromInt(1000)) || !got.UnitPrice.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("after price change: total = %s, unit = %s", got.TotalAmount, got.UnitPrice)
	}
	got, _ = e.svc.Accept(ctx, e.admin, o.ID)
	if !got.TotalAmount.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("after accept: total = %s", got.TotalAmount)
	}
}

func TestPlaceQuantityBoundaries(t *testing.T) {
	e := newEnv(t)
	for _, tt := range []struct {
		quantity string
		ok       bool
	}{{"0", false}, {"1", true}, {"100", true}, {"101", false}, {"10.125", true}, {"10.5000", true}, {"10.0005", false}} {
		_, err := e.svc.Place(context.Background(), e.consumer, PlaceOrderRequest{
			PumpID:          e.pump.ID.String(),
			FuelType:        "diesel",
			QuantityLiters:  pricing.Amount(tt.quantity),
			DeliveryAddress: "Plot 7, Kabulonga Road",
		})
		if tt.ok && err != nil {
			t.Errorf("quantity %s: %v", tt.quantity, err)
		}
		if !tt.ok && !errors.Is(err, apperr.ErrInvalidQuantity) {
			t.Errorf("quantity %s: err = %v, want ErrInvalidQuantity", tt.quantity, err)
		}
	}
}

func TestPlaceRejects(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	valid := PlaceOrderRequest{
		PumpID:          e.pump.ID.String(),
		FuelType:        "petrol",
		QuantityLiters:  "10",
		DeliveryAddress: "Plot 7, Kabulonga Road",
	}

	tests := []struct {
		name   string
		sess   auth.Session
		mutate func(*PlaceOrderRequest)
		want   error
	}{
		{"admin", e.admin, nil, apperr.ErrNotAuthorized},
		{"fuel", e.consumer, func(r *PlaceOrderRequest) { r.FuelType = "kerosene" }, apperr.ErrInvalidFuelType},
		{"quantity text", e.consumer, func(r *PlaceOrderRequest) { r.QuantityLiters = "ten" }, apperr.ErrInvalidQuantity},
		{"address", e.consumer, func(r *PlaceOrderRequest) { r.DeliveryAddress = "  X  " }, apperr.ErrInvalidAddress},
		{"unknown pump", e.consumer, func(r *PlaceOrderRequest) { r.PumpID = uuid.NewString() }, apperr.ErrNotFound},
		{"bad pump id", e.consumer, func(r *PlaceOrderRequest) { r.PumpID = "pump-1" }, apperr.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			if tt.mutate != nil {
				tt.mutate(&req)
			}
			if _, err := e.svc.Place(ctx, tt.sess, req); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	orders, _ := e.orders.ListOrdersByConsumer(ctx, e.consumer.UserID)
	if len(orders) != 0 {
		t.Fatalf("rejected requests persisted %d orders", len(orders))
	}
}

func TestBannedConsumerCannotPlace(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.place(t, "5")

	if err := e.users.SetBanned(ctx, e.consumer.UserID, true); err != nil {
		t.Fatal(err)
	}
	_, err := e.svc.Place(ctx, e.consumer, PlaceOrderRequest{
		PumpID:          e.pump.ID.String(),
		FuelType:        "petrol",
		QuantityLiters:  "5",
		DeliveryAddress: "Plot 7, Kabulonga Road",
	})
	if !errors.Is(err, apperr.ErrNotAuthorized) {
		t.Fatalf("banned place: %v", err)
	}
}

func TestIdempotencyKey(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	req := PlaceOrderRequest{
		PumpID:          e.pump.ID.String(),
		FuelType:        "petrol",
		QuantityLiters:  "5",
		DeliveryAddress: "Plot 7, Kabulonga Road",
		IdempotencyKey:  "tap-1",
	}
	if _, err := e.svc.Place(ctx, e.consumer, req); err != nil {
		t.Fatal(err)
	}
	if _, err := e.svc.Place(ctx, e.consumer, req); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("replayed key: %v", err)
	}
	// Keys are scoped per consumer.
	if _, err := e.svc.Place(ctx, e.otherConsumer, req); err != nil {
		t.Fatalf("other consumer same key: %v", err)
	}
}

// flakyInsertRepo fails CreateOrder while fail is set.
type flakyInsertRepo struct {
	Repository
	fail bool
}

func (r *flakyInsertRepo) CreateOrder(ctx context.Context, o *Order) error {
	if r.fail {
		return fmt.Errorf("%w: connection reset", apperr.ErrBackendUnavailable)
	}
	return r.Repository.CreateOrder(ctx, o)
}

type stuckDeleteCache struct{ cache.Cache }

func (stuckDeleteCache) Delete(context.Context, ...string) error { return errors.New("redis: connection refused") }

func TestIdempotencyKeyReleasedWhenInsertFails(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	repo := &flakyInsertRepo{Repository: e.orders, fail: true}
	svc := NewService(repo, e.pumpSvc, user.NewService(e.users, nil), WithIdempotency(cache.NewMemory()))
	req := PlaceOrderRequest{
		PumpID:          e.pump.ID.String(),
		FuelType:        "petrol",
		QuantityLiters:  "5",
		DeliveryAddress: "Plot 7, Kabulonga Road",
		IdempotencyKey:  "tap-2",
	}
	if _, err := svc.Place(ctx, e.consumer, req); !errors.Is(err, apperr.ErrBackendUnavailable) {
		t.Fatalf("failed insert: %v", err)
	}
	repo.fail = false
	if _, err := svc.Place(ctx, e.consumer, req); err != nil {
		t.Fatalf("retry with the same key: %v", err)
	}

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	repo.fail = true
	svc = NewService(repo, e.pumpSvc, user.NewService(e.users, nil), WithIdempotency(stuckDeleteCache{cache.NewMemory()}))
	req.IdempotencyKey = "tap-3"
	if _, err := svc.Place(ctx, e.consumer, req); !errors.Is(err, apperr.ErrBackendUnavailable) {
		t.Fatalf("failed insert: %v", err)
	}
	if !strings.Contains(buf.String(), "idempotency key release failed") {
		t.Fatalf("release failure not logged: %s", buf.String())
	}
}

// staleRepo serves a snapshot taken before a concurrent write landed.
type staleRepo struct {
	Repository
	snapshot *Order
}

func (r staleRepo) GetOrderByID(context.Context, uuid.UUID) (*Order, error) {
	o := *r.snapshot
	return &o, nil
}

func TestStaleStateOnLostRace(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.place(t, "5")

	// The admin reads the order while it is pending ...
	snapshot, _ := e.orders.GetOrderByID(ctx, o.ID)
	// ... then the consumer cancels before the admin's write.
	if _, err := e.svc.Cancel(ctx, e.consumer, o.ID); err != nil {
		t.Fatal(err)
	}

	svc := NewService(staleRepo{Repository: e.orders, snapshot: snapshot}, e.pumpSvc, user.NewService(e.users, nil))
	if _, err := svc.Decline(ctx, e.admin, o.ID); !errors.Is(err, apperr.ErrStaleState) {
		t.Fatalf("decline on stale read: %v", err)
	}
	got, _ := e.orders.GetOrderByID(ctx, o.ID)
	if got.Status != StatusCancelled {
		t.Fatalf("status = %s, the losing write must not land", got.Status)
	}
}

func TestRacingTransitionsOneWinner(t *testing.T) {
	for i := 0; i < 50; i++ {
		e := newEnv(t)
		ctx := context.Background()
		o := e.place(t, "5")

		var wg sync.WaitGroup
		errs := make([]error, 2)
		wg.Add(2)
		go func() { defer wg.Done(); _, errs[0] = e.svc.Cancel(ctx, e.consumer, o.ID) }()
		go func() { defer wg.Done(); _, errs[1] = e.svc.Decline(ctx, e.admin, o.ID) }()
		wg.Wait()

		wins := 0
		for _, err := range errs {
			switch {
			case err == nil:
				wins++
			case errors.Is(err, apperr.ErrStaleState), errors.Is(err, apperr.ErrIllegalTransition):
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if wins != 1 {
			t.Fatalf("run %d: %d winners (%v)", i, wins, errs)
		}
	}
}

func TestPublishFailureDoesNotFailTransition(t *testing.T) {
	e := newEnv(t)
	e.pub.err = errors.New("broker down")
	o := e.place(t, "5")
	got, err := e.svc.Accept(context.Background(), e.admin, o.ID)
	mustStatus(t, got, err, StatusAccepted)
}

func TestListsAndVisibility(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	first := e.place(t, "5")
	second := e.place(t, "6")
	if _, err := e.svc.Accept(ctx, e.admin, first.ID); err != nil {
		t.Fatal(err)
	}

	mine, err := e.svc.ListMine(ctx, e.consumer)
	if err != nil || len(mine) != 2 || mine[0].ID != second.ID {
		t.Fatalf("ListMine = %v, %v", mine, err)
	}
	pending, err := e.svc.ListForPump(ctx, e.admin, "pending")
	if err != nil || len(pending) != 1 || pending[0].ID != second.ID {
		t.Fatalf("ListForPump(pending) = %v, %v", pending, err)
	}
	if _, err := e.svc.ListForPump(ctx, e.admin, "shipped"); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("bad filter: %v", err)
	}
	if others, _ := e.svc.ListForPump(ctx, e.otherAdmin, ""); len(others) != 0 {
		t.Fatalf("other pump sees %d orders", len(others))
	}
	if _, err := e.svc.ListForPump(ctx, e.consumer, ""); !errors.Is(err, apperr.ErrNotAuthorized) {
		t.Fatalf("consumer ListForPump: %v", err)
	}

	if _, err := e.svc.Get(ctx, e.otherConsumer, first.ID); !errors.Is(err, apperr.ErrNotAuthorized) {
		t.Fatalf("other consumer Get: %v", err)
	}
	if _, err := e.svc.Get(ctx, e.otherAdmin, first.ID); !errors.Is(err, apperr.ErrNotAuthorized) {
		t.Fatalf("other admin Get: %v", err)
	}
	if _, err := e.svc.Get(ctx, e.admin, uuid.New()); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("missing Get: %v", err)
	}
}

func TestStatsAndCustomers(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	delivered := e.place(t, "10")
	e.svc.Accept(ctx, e.admin, delivered.ID)
	e.svc.Dispatch(ctx, e.admin, delivered.ID)
	e.svc.Deliver(ctx, e.admin, delivered.ID)
	active := e.place(t, "2")
	e.svc.Accept(ctx, e.admin, active.ID)
	declined := e.place(t, "3")
	e.svc.Decline(ctx, e.admin, declined.ID)
	e.place(t, "4")

	stats, err := e.svc.Stats(ctx, e.admin)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 4 || stats.Pending != 1 || stats.Active != 1 || stats.Delivered != 1 || stats.Closed != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.Revenue.StringFixed(2) != "1025.00" {
		t.Fatalf("revenue = %s", stats.Revenue)
	}

	customers, err := e.svc.Customers(ctx, e.admin)
	if err != nil {
		t.Fatal(err)
	}
	if len(customers) != 1 || customers[0].Orders != 4 || customers[0].Name != "Mwila" {
		t.Fatalf("customers = %+v", customers)
	}

	check := CustomerCheck{Orders: e.orders, Pumps: e.pumps}
	if ok, _ := check.HasOrderedFrom(ctx, e.consumer.UserID, e.admin.UserID); !ok {
		t.Fatal("HasOrderedFrom(owning admin) = false")
	}
	if ok, _ := check.HasOrderedFrom(ctx, e.consumer.UserID, e.otherAdmin.UserID); ok {
		t.Fatal("HasOrderedFrom(other admin) = true")
	}
	if ok, err := check.HasOrderedFrom(ctx, e.consumer.UserID, uuid.New()); ok || err != nil {
		t.Fatalf("HasOrderedFrom(no pump) = %v, %v", ok, err)
	}
}

func TestUpdateStatusByTarget(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.place(t, "5")

	got, err := e.svc.UpdateStatus(ctx, e.admin, o.ID, UpdateStatusRequest{Status: "ACCEPTED"})
	mustStatus(t, got, err, StatusAccepted)
	if _, err := e.svc.UpdateStatus(ctx, e.admin, o.ID, UpdateStatusRequest{Status: "pending"}); !errors.Is(err, apperr.ErrIllegalTransition) {
		t.Fatalf("back to pending: %v", err)
	}
	if _, err := e.svc.UpdateStatus(ctx, e.admin, o.ID, UpdateStatusRequest{Status: "lost"}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("unknown status: %v", err)
	}
}
