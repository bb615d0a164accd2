package ports

import (
	"context"
	"time"

	"github.com/aretw0/redline/pkg/domain"
)

// SessionStore holds at most one session in pending state at a time. It owns
// the session exclusively; transport adapters only hold its ID for the
// duration of the active review.
//
// Mutations (Create, Submit, Resolve, Release) are serialized by the
// implementation; reads may proceed concurrently with each other.
type SessionStore interface {
	// Create registers a new pending session. Callers serialize admission
	// through the session gate, so Create never observes a pending session.
	Create(ctx context.Context, title string, items []domain.Item, deadline time.Time) (*domain.Session, error)

	// Get returns a snapshot copy of the session.
	// Returns domain.ErrUnknownSession if the session does not exist.
	Get(sessionID string) (*domain.Session, error)

	// Submit applies the reviewer's decision. The submitted items must
	// enumerate exactly the IDs of the original session; validation is
	// atomic (fully accepted or fully rejected). At most one Submit
	// succeeds per session; later attempts return domain.ErrStaleSession.
	Submit(sessionID string, items []domain.Item) error

	// Resolve marks a still-pending session as Cancelled or TimedOut and
	// fires its completion signal. Resolving an already-terminal session is
	// a no-op so timeout and cancellation cannot race into a double signal.
	Resolve(sessionID string, status domain.SessionStatus) error

	// Done returns the one-shot completion signal for the session. The
	// channel is closed exactly once, by Submit or Resolve.
	Done(sessionID string) (<-chan struct{}, error)

	// Release destroys a terminal session. Unknown IDs are ignored.
	Release(sessionID string)
}
