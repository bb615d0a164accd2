package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/redline/pkg/domain"
)

// entry pairs a session with its one-shot completion signal.
type entry struct {
	session *domain.Session
	done    chan struct{}
}

// Store implements ports.SessionStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*entry
	mu   sync.RWMutex
}

// NewStore creates a new in-memory session store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*entry),
	}
}

// Create registers a new pending session. The admission gate serializes
// callers, so a pending session here means the invariant was broken
// upstream; refuse rather than shadow the active review.
func (s *Store) Create(ctx context.Context, title string, items []domain.Item, deadline time.Time) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.data {
		if e.session.Status == domain.StatusPending {
			return nil, domain.ErrSessionInProgress
		}
	}

	sess := &domain.Session{
		ID:        uuid.NewString(),
		Title:     title,
		Items:     domain.CopyItems(items),
		Status:    domain.StatusPending,
		CreatedAt: time.Now(),
		Deadline:  deadline,
	}
	s.data[sess.ID] = &entry{
		session: sess,
		done:    make(chan struct{}),
	}

	return snapshot(sess), nil
}

// Get retrieves a snapshot of the session so callers cannot mutate store
// state through the returned pointer.
func (s *Store) Get(sessionID string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrUnknownSession
	}
	return snapshot(e.session), nil
}

// Submit applies the reviewer's decision. Validation is atomic: the item ID
// set is checked in full before any field is written, so a rejected
// submission leaves the session untouched. Only checked and comment are
// taken from the client; text and structure stay server-owned.
func (s *Store) Submit(sessionID string, items []domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[sessionID]
	if !ok {
		return domain.ErrUnknownSession
	}
	if e.session.Status.Terminal() {
		return domain.ErrStaleSession
	}

	decisions, err := matchItems(e.session.Items, items)
	if err != nil {
		return err
	}

	for i := range e.session.Items {
		d := decisions[e.session.Items[i].ID]
		e.session.Items[i].Checked = d.Checked
		e.session.Items[i].Comment = d.Comment
	}
	e.session.Status = domain.StatusSubmitted
	close(e.done)
	return nil
}

// Resolve marks a still-pending session as cancelled or timed out and fires
// its completion signal. Resolving an already-terminal session is a no-op
// so a timeout and a late cancel cannot race into a double close.
func (s *Store) Resolve(sessionID string, status domain.SessionStatus) error {
	if !status.Terminal() || status == domain.StatusSubmitted {
		return domain.ErrStaleSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[sessionID]
	if !ok {
		return domain.ErrUnknownSession
	}
	if e.session.Status.Terminal() {
		return nil
	}

	e.session.Status = status
	close(e.done)
	return nil
}

// Done returns the completion signal for the session.
func (s *Store) Done(sessionID string) (<-chan struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrUnknownSession
	}
	return e.done, nil
}

// Release destroys the session. Unknown IDs are ignored.
func (s *Store) Release(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
}

func snapshot(sess *domain.Session) *domain.Session {
	cp := *sess
	cp.Items = domain.CopyItems(sess.Items)
	return &cp
}

// matchItems validates that submitted items enumerate exactly the session's
// ID set and returns the decisions keyed by ID.
func matchItems(current, submitted []domain.Item) (map[int]domain.Item, error) {
	if len(submitted) != len(current) {
		return nil, domain.ErrItemMismatch
	}

	decisions := make(map[int]domain.Item, len(submitted))
	for _, it := range submitted {
		if _, dup := decisions[it.ID]; dup {
			return nil, domain.ErrItemMismatch
		}
		decisions[it.ID] = it
	}
	for _, it := range current {
		if _, ok := decisions[it.ID]; !ok {
			return nil, domain.ErrItemMismatch
		}
	}
	return decisions, nil
}
