package pump

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/georgemunganga/fuelnow-backend/internal/apperr"
	"github.com/georgemunganga/fuelnow-backend/internal/modules/pricing"
	"github.com/google/uuid"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

const pumpColumns = `id, owner_id, name, admin_handle, address, petrol_price, diesel_price, created_at, updated_at`

func (r *postgresRepository) CreatePump(ctx context.Context, p *Pump) error {
	query := `
		INSERT INTO pumps (id, owner_id, name, admin_handle, address, petrol_price, diesel_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.OwnerID, p.Name, p.AdminHandle, p.Address, p.PetrolPrice, p.DieselPrice,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if apperr.IsUniqueViolation(err) {
		return conflictFor(apperr.Constraint(err))
	}
	return apperr.FromStore("pump", err)
}

// conflictFor names the field behind a violated unique index.
func conflictFor(constraint string) error {
	switch {
	case strings.Contains(constraint, "handle"):
		return fmt.Errorf("%w: admin handle is already taken", apperr.ErrConflict)
	case strings.Contains(constraint, "owner"):
		return fmt.Errorf("%w: this admin already runs a pump", apperr.ErrConflict)
	default:
		return fmt.Errorf("%w: pump name is already taken", apperr.ErrConflict)
	}
}

func (r *postgresRepository) GetPumpByID(ctx context.Context, id uuid.UUID) (*Pump, error) {
	return r.scanPump(r.db.QueryRowContext(ctx, `SELECT `+pumpColumns+` FROM pumps WHERE id = $1`, id))
}

func (r *postgresRepository) GetPumpByOwnerID(ctx context.Context, ownerID uuid.UUID) (*Pump, error) {
	return r.scanPump(r.db.QueryRowContext(ctx, `SELECT `+pumpColumns+` FROM pumps WHERE owner_id = $1`, ownerID))
}

func (r *postgresRepository) ListPumps(ctx context.Context) ([]*Pump, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+pumpColumns+` FROM pumps ORDER BY name ASC`)
	if err != nil {
		return nil, apperr.FromStore("pump", err)
	}
	defer rows.Close()

	var pumps []*Pump
	for rows.Next() {
		p := &Pump{}
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.AdminHandle, &p.Address,
			&p.PetrolPrice, &p.DieselPrice, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, apperr.FromStore("pump", err)
		}
		pumps = append(pumps, p)
	}
	return pumps, apperr.FromStore("pump", rows.Err())
}

func (r *postgresRepository) NameTaken(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM pumps WHERE lower(name) = lower($1))`, name)
}

func (r *postgresRepository) HandleTaken(ctx context.Context, handle string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM pumps WHERE admin_handle = $1)`, handle)
}

func (r *postgresRepository) exists(ctx context.Context, query string, arg string) (bool, error) {
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&ok); err != nil {
		return false, apperr.FromStore("pump", err)
	}
	return ok, nil
}

func (r *postgresRepository) UpdatePrices(ctx context.Context, id uuid.UUID, board pricing.PriceBoard) (*Pump, error) {
	return r.scanPump(r.db.QueryRowContext(ctx, `
		UPDATE pumps SET petrol_price = $1, diesel_price = $2, updated_at = $3
		WHERE id = $4
		RETURNING `+pumpColumns,
		board.Petrol, board.Diesel, time.Now().UTC(), id))
}

func (r *postgresRepository) scanPump(row *sql.Row) (*Pump, error) {
	p := &Pump{}
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.AdminHandle,
		&p.Address,
		&p.PetrolPrice,
		&p.DieselPrice,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, apperr.FromStore("pump", err)
	}
	return p, nil
}
