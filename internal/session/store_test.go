package session

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	got, err := store.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Fatal("missing session should be nil, not an error")
	}

	s := New("sess-1")
	s.Append(RoleUser, "aloha")
	s.RecordScore(40)
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err = store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil || got.LeadScore != 40 || len(got.Messages) != 1 {
		t.Fatalf("unexpected session: %+v", got)
	}

	// Mutating the returned copy must not leak into the store.
	got.LeadScore = 99
	again, _ := store.Get(ctx, "sess-1")
	if again.LeadScore != 40 {
		t.Error("store returned a shared mutable session")
	}

	if err := store.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got, _ := store.Get(ctx, "sess-1"); got != nil {
		t.Error("session should be gone after delete")
	}
}

func TestMemoryStoreCap(t *testing.T) {
	store := NewMemoryStore(2)
	ctx := context.Background()

	if err := store.Save(ctx, New("a")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, New("b")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, New("c")); err != ErrStoreFull {
		t.Fatalf("expected ErrStoreFull, got %v", err)
	}

	// Updating an existing session is allowed at capacity.
	existing, _ := store.Get(ctx, "a")
	existing.RecordScore(10)
	if err := store.Save(ctx, existing); err != nil {
		t.Fatalf("update at capacity failed: %v", err)
	}
}

func TestMemoryStoreSweep(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	stale := New("stale")
	stale.LastActivity = time.Now().UTC().Add(-48 * time.Hour)
	fresh := New("fresh")

	if err := store.Save(ctx, stale); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, fresh); err != nil {
		t.Fatal(err)
	}

	evicted, err := store.Sweep(ctx, time.Now().UTC().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if evicted != 1 {
		t.Fatalf("expected 1 eviction, got %d", evicted)
	}
	if got, _ := store.Get(ctx, "fresh"); got == nil {
		t.Error("fresh session should survive the sweep")
	}
	if got, _ := store.Get(ctx, "stale"); got != nil {
		t.Error("stale session should be evicted")
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, time.Hour, 0)
	ctx := context.Background()

	got, err := store.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Fatal("missing session should be nil")
	}

	s := New("sess-r")
	s.Append(RoleUser, "howzit")
	s.EscalationRequested = true
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err = store.Get(ctx, "sess-r")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil || !got.EscalationRequested || len(got.Messages) != 1 {
		t.Fatalf("unexpected session: %+v", got)
	}

	n, err := store.Len(ctx)
	if err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 tracked session, got %d", n)
	}

	if mr.TTL(sessionKey("sess-r")) <= 0 {
		t.Error("expected a TTL on the session key")
	}

	if err := store.Delete(ctx, "sess-r"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got, _ := store.Get(ctx, "sess-r"); got != nil {
		t.Error("session should be gone after delete")
	}
}

func TestRedisStoreCap(t *testing.T) {
	mr := miniredis.RunT(t)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, time.Hour, 2)
	ctx := context.Background()

	if err := store.Save(ctx, New("a")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, New("b")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, New("c")); err != ErrStoreFull {
		t.Fatalf("expected ErrStoreFull, got %v", err)
	}

	// Updating an existing session is allowed at capacity.
	existing, _ := store.Get(ctx, "a")
	existing.RecordScore(10)
	if err := store.Save(ctx, existing); err != nil {
		t.Fatalf("update at capacity failed: %v", err)
	}

	// Expired sessions free their slots.
	mr.FastForward(2 * time.Hour)
	if err := store.Save(ctx, New("d")); err != nil {
		t.Fatalf("save after expiry failed: %v", err)
	}
}

func TestRedisStoreTTLEviction(t *testing.T) {
	mr := miniredis.RunT(t)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, time.Minute, 0)
	ctx := context.Background()

	if err := store.Save(ctx, New("ttl-test")); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(2 * time.Minute)

	got, err := store.Get(ctx, "ttl-test")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Error("session should have expired")
	}
}
