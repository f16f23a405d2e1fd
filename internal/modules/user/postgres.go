package user

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/georgemunganga/fuelnow-backend/internal/apperr"
	"github.com/google/uuid"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL user repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

const userColumns = `id, email, password_hash, role, name, phone, address, is_banned, created_at, updated_at`

func (r *postgresRepository) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, password_hash, role, name, phone, address, is_banned)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Role,
		user.Name, user.Phone, user.Address, user.IsBanned,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if apperr.IsUniqueViolation(err) {
		return fmt.Errorf("%w: email %s is already registered", apperr.ErrConflict, user.Email)
	}
	return apperr.FromStore("user", err)
}

func (r *postgresRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *postgresRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresRepository) SetBanned(ctx context.Context, id uuid.UUID, banned bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_banned = $1, updated_at = $2 WHERE id = $3`,
		banned, time.Now().UTC(), id)
	if err != nil {
		return apperr.FromStore("user", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %w", apperr.ErrNotFound)
	}
	return nil
}

func (r *postgresRepository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return apperr.FromStore("user", err)
}

func (r *postgresRepository) scanUser(row *sql.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Name,
		&user.Phone,
		&user.Address,
		&user.IsBanned,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, apperr.FromStore("user", err)
	}
	return user, nil
}
