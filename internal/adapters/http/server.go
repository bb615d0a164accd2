package http

import (
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/redline/internal/logging"
	"github.com/aretw0/redline/pkg/domain"
	"github.com/aretw0/redline/pkg/observability"
	"github.com/aretw0/redline/pkg/ports"
)

// Server exposes the active review session to the local review page.
// It holds only the store reference; session lifetime stays with the
// coordinator.
type Server struct {
	store   ports.SessionStore
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewHandler creates the HTTP handler for the review endpoint.
// Logger and metrics may be nil.
func NewHandler(store ports.SessionStore, logger *slog.Logger, metrics *observability.Metrics) http.Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{store: store, logger: logger, metrics: metrics}

	r := chi.NewRouter()
	r.Get("/health", s.health)
	r.Get("/review/{sessionID}", s.reviewPage)
	r.Get("/api/session/{sessionID}", s.getSession)
	r.Post("/api/session/{sessionID}/submit", s.submit)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	}
	return r
}

// sessionView is the payload served to the review page.
type sessionView struct {
	SessionID string         `json:"sessionId"`
	Title     string         `json:"title"`
	Status    string         `json:"status"`
	Items     []viewItem     `json:"items"`
	Summary   domain.Summary `json:"summary"`
}

// viewItem decorates a domain item with its rendered HTML.
type viewItem struct {
	domain.Item
	HTML string `json:"html,omitempty"`
}

// submission is the payload received from the review page. Status
// "cancelled" aborts the review; otherwise items must enumerate every ID of
// the session view.
type submission struct {
	Status string        `json:"status,omitempty"`
	Items  []domain.Item `json:"items"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(sess))
}

func (s *Server) reviewPage(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	bootstrap, err := json.Marshal(newSessionView(sess))
	if err != nil {
		http.Error(w, "failed to encode session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := pageData{
		Title:     sess.Title,
		Bootstrap: template.JS(bootstrap),
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("failed to render review page", "error", err)
	}
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var body submission
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.reject("malformed")
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if body.Status == string(domain.StatusCancelled) {
		if err := s.store.Resolve(sessionID, domain.StatusCancelled); err != nil {
			s.writeStoreError(w, err)
			return
		}
		s.logger.Info("review cancelled from page", "session_id", sessionID)
		writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
		return
	}

	if err := s.store.Submit(sessionID, body.Items); err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.logger.Info("review submitted", "session_id", sessionID, "items", len(body.Items))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeStoreError maps store sentinels onto HTTP status codes. Validation
// failures are recovered here; the endpoint keeps running.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownSession):
		s.reject("unknown_session")
		writeError(w, http.StatusNotFound, "unknown or expired session")
	case errors.Is(err, domain.ErrStaleSession):
		s.reject("stale_session")
		writeError(w, http.StatusConflict, "session already resolved")
	case errors.Is(err, domain.ErrItemMismatch):
		s.reject("item_mismatch")
		writeError(w, http.StatusBadRequest, "submitted items do not match session items")
	default:
		s.logger.Error("unexpected store error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) reject(reason string) {
	if s.metrics != nil {
		s.metrics.SubmitRejections.WithLabelValues(reason).Inc()
	}
}

func newSessionView(sess *domain.Session) sessionView {
	items := make([]viewItem, len(sess.Items))
	for i, it := range sess.Items {
		items[i] = viewItem{Item: it, HTML: renderItemHTML(it)}
	}
	return sessionView{
		SessionID: sess.ID,
		Title:     sess.Title,
		Status:    string(sess.Status),
		Items:     items,
		Summary:   domain.Summarize(sess.Items),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
