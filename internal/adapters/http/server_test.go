package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpAdapter "github.com/aretw0/redline/internal/adapters/http"
	"github.com/aretw0/redline/pkg/adapters/memory"
	"github.com/aretw0/redline/pkg/domain"
	"github.com/aretw0/redline/pkg/observability"
)

func newFixture(t *testing.T) (http.Handler, *memory.Store, *domain.Session) {
	t.Helper()
	store := memory.NewStore()
	sess, err := store.Create(context.Background(), "Plan", []domain.Item{
		{ID: 0, Kind: domain.KindListItem, Text: "Step 1", Checked: true},
		{ID: 1, Kind: domain.KindListItem, Text: "Step 2", Checked: true},
	}, time.Time{})
	require.NoError(t, err)

	handler := httpAdapter.NewHandler(store, nil, observability.NewMetrics())
	return handler, store, sess
}

func postJSON(t *testing.T, handler http.Handler, url string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestGetHealth(t *testing.T) {
	handler, _, _ := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, "ok", resp["status"])
}

func TestGetSessionView(t *testing.T) {
	handler, _, sess := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/session/"+sess.ID, nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var view struct {
		SessionID string `json:"sessionId"`
		Title     string `json:"title"`
		Items     []struct {
			ID      int    `json:"id"`
			Text    string `json:"text"`
			Checked bool   `json:"checked"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, sess.ID, view.SessionID)
	assert.Equal(t, "Plan", view.Title)
	require.Len(t, view.Items, 2)
	assert.Equal(t, 0, view.Items[0].ID)
	assert.True(t, view.Items[0].Checked)
}

func TestGetSessionUnknownID(t *testing.T) {
	handler, _, _ := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/session/missing", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestReviewPageRenders(t *testing.T) {
	handler, _, sess := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/review/"+sess.ID, nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), "Plan")
	assert.Contains(t, rr.Body.String(), sess.ID)
}

func TestSubmitAcceptedOnce(t *testing.T) {
	handler, store, sess := newFixture(t)

	payload := map[string]any{
		"items": []map[string]any{
			{"id": 0, "checked": true, "comment": ""},
			{"id": 1, "checked": false, "comment": "use X instead"},
		},
	}
	url := fmt.Sprintf("/api/session/%s/submit", sess.ID)

	rr := postJSON(t, handler, url, payload)
	assert.Equal(t, http.StatusOK, rr.Code)

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSubmitted, got.Status)
	assert.Equal(t, "use X instead", got.Items[1].Comment)

	// A second POST for the same session is rejected, not overwritten.
	rr = postJSON(t, handler, url, payload)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestSubmitValidation(t *testing.T) {
	handler, _, sess := newFixture(t)
	url := fmt.Sprintf("/api/session/%s/submit", sess.ID)

	// Missing an ID.
	rr := postJSON(t, handler, url, map[string]any{
		"items": []map[string]any{{"id": 0, "checked": false}},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Malformed body.
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown session.
	rr = postJSON(t, handler, "/api/session/missing/submit", map[string]any{
		"items": []map[string]any{},
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSubmitCancelledFromPage(t *testing.T) {
	handler, store, sess := newFixture(t)

	rr := postJSON(t, handler, fmt.Sprintf("/api/session/%s/submit", sess.ID), map[string]any{
		"status": "cancelled",
		"items":  []map[string]any{},
	})
	assert.Equal(t, http.StatusOK, rr.Code)

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
}

func TestSubmitAfterTimeoutIsConflict(t *testing.T) {
	handler, store, sess := newFixture(t)

	require.NoError(t, store.Resolve(sess.ID, domain.StatusTimedOut))

	rr := postJSON(t, handler, fmt.Sprintf("/api/session/%s/submit", sess.ID), map[string]any{
		"items": []map[string]any{
			{"id": 0, "checked": true},
			{"id": 1, "checked": true},
		},
	})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	handler, _, _ := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
