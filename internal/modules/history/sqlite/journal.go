// Package sqlite stores the order history journal in an embedded SQLite
// database. WAL mode lets the history endpoint read while transitions write.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/georgemunganga/fuelnow-backend/internal/modules/history"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS order_history (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id    TEXT NOT NULL,
    from_status TEXT NOT NULL DEFAULT '',
    to_status   TEXT NOT NULL,
    actor_id    TEXT NOT NULL,
    actor_role  TEXT NOT NULL,
    at          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_history_order_id ON order_history(order_id, id);
`

// Fixed width so stored values compare in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Journal is the SQLite implementation of history.Journal.
type Journal struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*Journal, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) Append(ctx context.Context, e history.Entry) error {
	const q = `
		INSERT INTO order_history (order_id, from_status, to_status, actor_id, actor_role, at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := j.db.ExecContext(ctx, q,
		e.OrderID, e.From, e.To, e.ActorID, e.ActorRole,
		e.At.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("sqlite: append history for %q: %w", e.OrderID, err)
	}
	return nil
}

func (j *Journal) List(ctx context.Context, orderID string) ([]history.Entry, error) {
	const q = `
		SELECT order_id, from_status, to_status, actor_id, actor_role, at
		FROM   order_history
		WHERE  order_id = ?
		ORDER  BY id ASC`
	rows, err := j.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list history for %q: %w", orderID, err)
	}
	defer rows.Close()

	var out []history.Entry
	for rows.Next() {
		var e history.Entry
		var at string
		if err := rows.Scan(&e.OrderID, &e.From, &e.To, &e.ActorID, &e.ActorRole, &at); err != nil {
			return nil, fmt.Errorf("sqlite: scan history: %w", err)
		}
		e.At, err = time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("sqlite: parse time %q: %w", at, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
