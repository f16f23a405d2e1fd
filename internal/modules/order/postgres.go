package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/georgemunganga/fuelnow-backend/internal/apperr"
	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const orderColumns = `id, consumer_id, pump_id, fuel_type, quantity_liters, unit_price,
	total_amount, status, delivery_address, created_at, updated_at`

func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO orders
		  (id, consumer_id, pump_id, fuel_type, quantity_liters, unit_price,
		   total_amount, status, delivery_address, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		o.ID, o.ConsumerID, o.PumpID, o.FuelType, o.QuantityLiters, o.UnitPrice,
		o.TotalAmount, o.Status, o.DeliveryAddress, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return apperr.FromStore("order", fmt.Errorf("insert order: %w", err))
	}
	return nil
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	return r.scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
}

func (r *postgresRepo) ListOrdersByPump(ctx context.Context, pumpID uuid.UUID, status Status) ([]*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE pump_id=$1`
	args := []interface{}{pumpID}
	if status != "" {
		query += ` AND status=$2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`
	return r.queryOrders(ctx, query, args...)
}

func (r *postgresRepo) ListOrdersByConsumer(ctx context.Context, consumerID uuid.UUID) ([]*Order, error) {
	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE consumer_id=$1 ORDER BY created_at DESC`, consumerID)
}

// UpdateStatus is a compare-and-swap on the status column. Row-level locking
// in PostgreSQL serialises concurrent writers; the loser re-evaluates the
// WHERE clause against the committed row and matches nothing.
func (r *postgresRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (*Order, error) {
	o, err := r.scanOrder(r.db.QueryRowContext(ctx, `
		UPDATE orders SET status=$1, updated_at=$2
		WHERE id=$3 AND status=$4
		RETURNING `+orderColumns,
		to, time.Now().UTC(), id, from))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("%w: order %s is no longer %s", apperr.ErrStaleState, id, from)
	}
	return o, err
}

func (r *postgresRepo) PumpStats(ctx context.Context, pumpID uuid.UUID) (*Stats, error) {
	s := &Stats{}
	err := r.db.QueryRowContext(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE status = 'pending'),
		       count(*) FILTER (WHERE status IN ('accepted', 'en_route')),
		       count(*) FILTER (WHERE status = 'delivered'),
		       count(*) FILTER (WHERE status IN ('declined', 'cancelled')),
		       COALESCE(sum(total_amount) FILTER (WHERE status = 'delivered'), 0)
		FROM orders WHERE pump_id=$1`, pumpID).
		Scan(&s.Total, &s.Pending, &s.Active, &s.Delivered, &s.Closed, &s.Revenue)
	if err != nil {
		return nil, apperr.FromStore("order", err)
	}
	return s, nil
}

func (r *postgresRepo) CustomersOfPump(ctx context.Context, pumpID uuid.UUID) ([]CustomerCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT consumer_id, count(*), max(created_at)
		FROM orders WHERE pump_id=$1
		GROUP BY consumer_id
		ORDER BY max(created_at) DESC`, pumpID)
	if err != nil {
		return nil, apperr.FromStore("order", err)
	}
	defer rows.Close()
	var out []CustomerCount
	for rows.Next() {
		var c CustomerCount
		if err := rows.Scan(&c.ConsumerID, &c.Orders, &c.LastOrderAt); err != nil {
			return nil, apperr.FromStore("order", err)
		}
		out = append(out, c)
	}
	return out, apperr.FromStore("order", rows.Err())
}

func (r *postgresRepo) HasOrdered(ctx context.Context, consumerID, pumpID uuid.UUID) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE consumer_id=$1 AND pump_id=$2)`,
		consumerID, pumpID).Scan(&ok)
	if err != nil {
		return false, apperr.FromStore("order", err)
	}
	return ok, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanInto(row scanner, o *Order) error {
	return row.Scan(
		&o.ID, &o.ConsumerID, &o.PumpID, &o.FuelType, &o.QuantityLiters, &o.UnitPrice,
		&o.TotalAmount, &o.Status, &o.DeliveryAddress, &o.CreatedAt, &o.UpdatedAt)
}

func (r *postgresRepo) scanOrder(row *sql.Row) (*Order, error) {
	o := &Order{}
	if err := scanInto(row, o); err != nil {
		return nil, apperr.FromStore("order", err)
	}
	return o, nil
}

func (r *postgresRepo) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.FromStore("order", err)
	}
	defer rows.Close()
	var orders []*Order
	for rows.Next() {
		o := &Order{}
		if err := scanInto(rows, o); err != nil {
			return nil, apperr.FromStore("order", err)
		}
		orders = append(orders, o)
	}
	return orders, apperr.FromStore("order", rows.Err())
}

