package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/georgemunganga/fuelnow-backend/internal/modules/history"
)

func TestJournalAppendList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ctx := context.Background()
	t0 := time.Date(2025, 3, 1, 8, 0, 0, 123456789, time.UTC)

	steps := []history.Entry{
		{OrderID: "o1", To: "pending", ActorID: "c1", ActorRole: "consumer", At: t0},
		{OrderID: "o1", From: "pending", To: "accepted", ActorID: "a1", ActorRole: "pump_admin", At: t0.Add(time.Minute)},
		{OrderID: "o2", To: "pending", ActorID: "c2", ActorRole: "consumer", At: t0},
	}
	for _, e := range steps {
		if err := j.Append(ctx, e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := j.List(ctx, "o1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries", len(got))
	}
	if got[0] != steps[0] || got[1] != steps[1] {
		t.Fatalf("List = %+v", got)
	}
	j.Close()

	// Entries survive a reopen.
	j, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer j.Close()
	got, _ = j.List(ctx, "o2")
	if len(got) != 1 || got[0].ActorID != "c2" {
		t.Fatalf("after reopen = %+v", got)
	}
}

func TestJournalKeepsAppendOrderWithinOneSecond(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer j.Close()
	ctx := context.Background()
	sec := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	steps := []history.Entry{
		{OrderID: "o1", To: "pending", ActorID: "c1", ActorRole: "consumer", At: sec.Add(100 * time.Millisecond)},
		{OrderID: "o1", From: "pending", To: "accepted", ActorID: "a1", ActorRole: "pump_admin", At: sec.Add(120 * time.Millisecond)},
		{OrderID: "o1", From: "accepted", To: "en_route", ActorID: "a1", ActorRole: "pump_admin", At: sec.Add(123456781)},
		{OrderID: "o1", From: "en_route", To: "delivered", ActorID: "a1", ActorRole: "pump_admin", At: sec.Add(123456790)},
	}
	for _, e := range steps {
		if err := j.Append(ctx, e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := j.List(ctx, "o1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != len(steps) {
		t.Fatalf("got %d entries", len(got))
	}
	for i := range steps {
		if got[i] != steps[i] {
			t.Fatalf("entry %d = %+v, want %+v", i, got[i], steps[i])
		}
	}
}
