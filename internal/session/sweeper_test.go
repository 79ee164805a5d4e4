package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSweeperEvictsIdleSessions(t *testing.T) {
	store := NewMemoryStore(10)
	ctx := context.Background()

	stale := New("stale")
	stale.LastActivity = time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, store.Save(ctx, stale))

	fresh := New("fresh")
	require.NoError(t, store.Save(ctx, fresh))

	sw := NewSweeper(store, 24*time.Hour, 10*time.Millisecond, nil)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go sw.Run(runCtx)

	require.Eventually(t, func() bool {
		s, err := store.Get(ctx, "stale")
		return err == nil && s == nil
	}, time.Second, 10*time.Millisecond, "stale session should be evicted")

	s, err := store.Get(ctx, "fresh")
	require.NoError(t, err)
	require.NotNil(t, s, "active session must survive the sweep")
}

func TestSweeperDefaults(t *testing.T) {
	sw := NewSweeper(NewMemoryStore(1), 0, 0, nil)
	require.Equal(t, 24*time.Hour, sw.ttl)
	require.Equal(t, time.Hour, sw.interval)
}
