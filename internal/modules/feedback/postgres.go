package feedback

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/georgemunganga/fuelnow-backend/internal/apperr"
	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

var orderBy = map[Sort]string{
	SortNewest:  "created_at DESC",
	SortOldest:  "created_at ASC",
	SortHighest: "rating DESC, created_at DESC",
	SortLowest:  "rating ASC, created_at DESC",
}

func (r *postgresRepo) Create(ctx context.Context, f *Feedback) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO feedback (id, order_id, pump_id, consumer_id, rating, comment)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at`,
		f.ID, f.OrderID, f.PumpID, f.ConsumerID, f.Rating, f.Comment).Scan(&f.CreatedAt)
	if apperr.IsUniqueViolation(err) {
		return fmt.Errorf("%w: feedback was already submitted for this order", apperr.ErrConflict)
	}
	return apperr.FromStore("feedback", err)
}

func (r *postgresRepo) ListByPump(ctx context.Context, pumpID uuid.UUID, filter Filter) ([]*Feedback, error) {
	order, ok := orderBy[filter.Sort]
	if !ok {
		order = orderBy[SortNewest]
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, pump_id, consumer_id, rating, comment, created_at
		FROM feedback WHERE pump_id=$1 AND rating >= $2
		ORDER BY `+order, pumpID, filter.MinRating)
	if err != nil {
		return nil, apperr.FromStore("feedback", err)
	}
	defer rows.Close()
	var out []*Feedback
	for rows.Next() {
		f := &Feedback{}
		if err := rows.Scan(&f.ID, &f.OrderID, &f.PumpID, &f.ConsumerID, &f.Rating, &f.Comment, &f.CreatedAt); err != nil {
			return nil, apperr.FromStore("feedback", err)
		}
		out = append(out, f)
	}
	return out, apperr.FromStore("feedback", rows.Err())
}

func (r *postgresRepo) Summary(ctx context.Context, pumpID uuid.UUID) (*Summary, error) {
	s := &Summary{}
	var avg sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*), avg(rating)::float8 FROM feedback WHERE pump_id=$1`, pumpID).Scan(&s.Count, &avg)
	if err != nil {
		return nil, apperr.FromStore("feedback", err)
	}
	if avg.Valid {
		s.Average = math.Round(avg.Float64*100) / 100
	}
	return s, nil
}
