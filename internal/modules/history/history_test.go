package history

import (
	"context"
	"testing"
	"time"
)

func TestMemoryJournal(t *testing.T) {
	ctx := context.Background()
	j := NewMemory()
	t0 := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	j.Append(ctx, Entry{OrderID: "o1", From: "pending", To: "accepted", At: t0.Add(time.Minute)})
	j.Append(ctx, Entry{OrderID: "o1", To: "pending", At: t0})
	j.Append(ctx, Entry{OrderID: "o2", To: "pending", At: t0})

	got, err := j.List(ctx, "o1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].To != "pending" || got[1].To != "accepted" {
		t.Fatalf("List = %+v", got)
	}
	if got, _ := j.List(ctx, "missing"); len(got) != 0 {
		t.Fatalf("List(missing) = %+v", got)
	}
}
