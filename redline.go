package redline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	httpAdapter "github.com/aretw0/redline/internal/adapters/http"
	"github.com/aretw0/redline/pkg/adapters/memory"
	"github.com/aretw0/redline/pkg/domain"
	"github.com/aretw0/redline/pkg/markdown"
	"github.com/aretw0/redline/pkg/observability"
	"github.com/aretw0/redline/pkg/ports"
	"github.com/aretw0/redline/pkg/session"
)

// releaseLinger is how long a terminal session stays addressable after the
// coordinator returns, so late POSTs get a 409 instead of a confusing 404.
const releaseLinger = time.Minute

// Coordinator is the high-level entry point for the Redline library.
// It orchestrates the parser, session store, and transport endpoint, and
// implements the blocking start/await/complete protocol.
type Coordinator struct {
	store      ports.SessionStore
	presenter  ports.Presenter
	gate       *session.Gate
	logger     *slog.Logger
	metrics    *observability.Metrics
	listenAddr string
	timeout    time.Duration

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
}

// Option defines a functional option for configuring the Coordinator.
type Option func(*Coordinator)

// WithStore injects a custom session store, bypassing the default in-memory one.
func WithStore(store ports.SessionStore) Option {
	return func(c *Coordinator) {
		c.store = store
	}
}

// WithPresenter sets the surface that receives the review URL (e.g., a
// browser opener). Without one, callers are expected to reach the URL on
// their own.
func WithPresenter(p ports.Presenter) Option {
	return func(c *Coordinator) {
		c.presenter = p
	}
}

// WithLogger sets a custom structured logger for the coordinator.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithListenAddr sets the transport bind address (default "127.0.0.1:0").
func WithListenAddr(addr string) Option {
	return func(c *Coordinator) {
		c.listenAddr = addr
	}
}

// WithTimeout sets the default review deadline applied when a call does not
// carry its own. Zero means reviews wait indefinitely.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		c.timeout = d
	}
}

// WithMetrics injects a metrics set (useful to share one registry across
// instances). Without it a fresh registry is created.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

// New initializes a new Coordinator.
func New(opts ...Option) (*Coordinator, error) {
	c := &Coordinator{
		gate:       session.NewGate(),
		listenAddr: "127.0.0.1:0",
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.store == nil {
		c.store = memory.NewStore()
	}
	if c.metrics == nil {
		c.metrics = observability.NewMetrics()
	}
	// Ensure logger is initialized so adapters never receive nil.
	if c.logger == nil {
		c.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	return c, nil
}

// reviewCall carries per-call settings for Review.
type reviewCall struct {
	timeout    time.Duration
	hasTimeout bool
}

// ReviewOption configures a single Review call.
type ReviewOption func(*reviewCall)

// WithReviewTimeout bounds this review. The deadline is measured from
// session creation; zero expires immediately (useful for dry runs).
func WithReviewTimeout(d time.Duration) ReviewOption {
	return func(rc *reviewCall) {
		rc.timeout = d
		rc.hasTimeout = true
	}
}

// Review parses the document, presents it for human review, and blocks
// until the reviewer submits, the deadline elapses, or ctx is cancelled.
//
// While a review is pending, further Review calls queue in FIFO order; no
// caller ever observes a "busy" error. The terminal outcome is exactly one
// of: a result (submitted), domain.ErrReviewTimeout, or
// domain.ErrReviewCancelled.
func Review(ctx context.Context, content, title string) (*domain.ReviewResult, error) {
	c, err := New()
	if err != nil {
		return nil, err
	}
	defer c.Close(context.Background())
	return c.Review(ctx, content, title)
}

// Review implements the blocking review operation. See the package-level
// Review for semantics.
func (c *Coordinator) Review(ctx context.Context, content, title string, opts ...ReviewOption) (*domain.ReviewResult, error) {
	call := reviewCall{timeout: c.timeout, hasTimeout: c.timeout > 0}
	for _, opt := range opts {
		opt(&call)
	}

	items, err := markdown.Segment(content)
	if err != nil {
		return nil, err
	}

	// One review at a time: queue, don't reject.
	if err := c.gate.Acquire(ctx); err != nil {
		return nil, err
	}
	defer c.gate.Release()

	var deadline time.Time
	if call.hasTimeout {
		deadline = time.Now().Add(call.timeout)
	}

	sess, err := c.store.Create(ctx, title, items, deadline)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	// Keep the terminal session addressable briefly so late submissions
	// receive a proper conflict answer before the session disappears.
	defer time.AfterFunc(releaseLinger, func() { c.store.Release(sess.ID) })

	done, err := c.store.Done(sess.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to session: %w", err)
	}

	addr, err := c.ensureTransport()
	if err != nil {
		c.resolve(sess.ID, domain.StatusCancelled)
		return nil, err
	}

	url := fmt.Sprintf("http://%s/review/%s", addr, sess.ID)
	c.metrics.SessionsStarted.Inc()
	c.logger.Info("review session started",
		"session_id", sess.ID,
		"title", title,
		"items", len(items),
		"url", url,
	)

	if c.presenter != nil {
		if err := c.presenter.Present(ctx, url); err != nil {
			// The URL stays reachable; a human can still visit it by hand.
			c.logger.Warn("failed to present review page", "error", err, "url", url)
		}
	}

	var timerC <-chan time.Time
	if call.hasTimeout {
		timer := time.NewTimer(time.Until(deadline))
		defer timer.Stop()
		timerC = timer.C
	}

	select {
	case <-done:
	case <-timerC:
		c.resolve(sess.ID, domain.StatusTimedOut)
		<-done
	case <-ctx.Done():
		c.resolve(sess.ID, domain.StatusCancelled)
		<-done
	}

	final, err := c.store.Get(sess.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read session outcome: %w", err)
	}

	c.metrics.ObserveOutcome(final.Status)
	c.metrics.ReviewDuration.Observe(time.Since(final.CreatedAt).Seconds())
	c.logger.Info("review session resolved", "session_id", sess.ID, "status", final.Status)

	switch final.Status {
	case domain.StatusSubmitted:
		return domain.NewResult(final.Status, final.Items), nil
	case domain.StatusTimedOut:
		return nil, domain.ErrReviewTimeout
	case domain.StatusCancelled:
		return nil, domain.ErrReviewCancelled
	default:
		return nil, fmt.Errorf("session resolved in unexpected state %q", final.Status)
	}
}

// resolve marks the session terminal. A submission racing ahead of us wins;
// that is fine, the outcome is read back afterwards.
func (c *Coordinator) resolve(sessionID string, status domain.SessionStatus) {
	if err := c.store.Resolve(sessionID, status); err != nil && !errors.Is(err, domain.ErrUnknownSession) {
		c.logger.Warn("failed to resolve session", "session_id", sessionID, "status", status, "error", err)
	}
}

// ensureTransport lazily starts the loopback listener shared by all reviews
// of this coordinator.
func (c *Coordinator) ensureTransport() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.listener != nil {
		return c.listener.Addr().String(), nil
	}

	ln, err := net.Listen("tcp", c.listenAddr)
	if err != nil {
		return "", fmt.Errorf("failed to bind review endpoint: %w", err)
	}

	c.listener = ln
	c.server = &http.Server{
		Handler: httpAdapter.NewHandler(c.store, c.logger, c.metrics),
	}

	go func() {
		if err := c.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.logger.Error("review endpoint failed", "error", err)
		}
	}()

	c.logger.Debug("review endpoint listening", "addr", ln.Addr().String())
	return ln.Addr().String(), nil
}

// Addr returns the transport address, starting the listener if needed.
// Useful for wiring external presenters or health checks.
func (c *Coordinator) Addr() (string, error) {
	return c.ensureTransport()
}

// Close shuts the transport down gracefully.
func (c *Coordinator) Close(ctx context.Context) error {
	c.mu.Lock()
	server := c.server
	c.server = nil
	c.listener = nil
	c.mu.Unlock()

	if server == nil {
		return nil
	}
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("could not stop review endpoint gracefully: %w", err)
	}
	return nil
}
