package session

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrStoreFull is returned when creating a session would exceed the
	// configured cap on concurrently tracked sessions.
	ErrStoreFull = errors.New("session: store is at capacity")
)

// Store persists session state. Implementations must treat a missing
// session as (nil, nil), not an error, so handlers can fall through to
// creating a fresh session.
type Store interface {
	// Get retrieves a session by ID. Returns nil when absent.
	Get(ctx context.Context, id string) (*Session, error)

	// Save persists the session. New sessions count against the store
	// cap; ErrStoreFull is returned once the cap is reached.
	Save(ctx context.Context, s *Session) error

	// Delete removes a session. Deleting an absent session is not an
	// error.
	Delete(ctx context.Context, id string) error

	// Len reports how many sessions are currently tracked.
	Len(ctx context.Context) (int, error)

	// Sweep evicts sessions idle since before the cutoff and returns
	// how many were removed.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
}
