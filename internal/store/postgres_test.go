package store

import (
	"context"
	"os"
	"testing"
)

func TestMigrateIdempotent(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}
	ctx := context.Background()
	db, err := Open(ctx, url)
	if err != nil {
		t.Skipf("PostgreSQL not available: %v", err)
	}
	defer db.Close()

	for i := 0; i < 2; i++ {
		if err := Migrate(ctx, db); err != nil {
			t.Fatalf("Migrate #%d: %v", i+1, err)
		}
	}
	var n int
	err = db.QueryRowContext(ctx,
		`SELECT count(*) FROM information_schema.tables WHERE table_name IN ('users','pumps','orders','feedback')`).Scan(&n)
	if err != nil || n != 4 {
		t.Fatalf("tables = %d, %v", n, err)
	}
}
