package presence

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreTouchAndLastSeen(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.Now = func() time.Time { return now }

	if _, seen, _ := store.LastSeen(context.Background(), 5); seen {
		t.Error("user reported seen before any touch")
	}

	if err := store.Touch(context.Background(), 5); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	at, seen, err := store.LastSeen(context.Background(), 5)
	if err != nil {
		t.Fatalf("LastSeen: %v", err)
	}
	if !seen || !at.Equal(now) {
		t.Errorf("LastSeen = (%v, %v), want (%v, true)", at, seen, now)
	}
}

func TestMemoryStoreTracksUsersIndependently(t *testing.T) {
	store := NewMemoryStore()
	store.SetLastSeen(5, time.Now())

	if _, seen, _ := store.LastSeen(context.Background(), 9); seen {
		t.Error("touching one user marked another as seen")
	}
}
