// Package session stores per-visitor conversation state.
package session

import (
	"context"
	"time"

	"github.com/taherahmed/portfolio-api/internal/domain"
)

// Store defines the interface for persisting visitor sessions.
//
// Implementations must be safe for concurrent use. The read-evaluate-write
// cycle of a conversational turn is not serialized across requests: two
// simultaneous turns for the same session key are last-write-wins on the
// record. This is an accepted limitation, not a guarantee.
type Store interface {
	// Get retrieves a session by its ID. Returns (nil, nil) when the
	// session does not exist.
	Get(ctx context.Context, sessionID string) (*domain.Session, error)

	// Put creates or replaces a session record.
	Put(ctx context.Context, sess *domain.Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// DeleteExpired removes sessions that have been idle longer than ttl
	// and returns the number removed.
	DeleteExpired(ctx context.Context, ttl time.Duration) (int64, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases store resources.
	Close() error
}
