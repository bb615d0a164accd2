package redline_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/redline"
	"github.com/aretw0/redline/pkg/domain"
	"github.com/aretw0/redline/pkg/ports"
)

// urlCapture is a Presenter that hands review URLs to the test.
type urlCapture struct {
	urls chan string
}

func newURLCapture() *urlCapture {
	return &urlCapture{urls: make(chan string, 8)}
}

func (u *urlCapture) Present(ctx context.Context, url string) error {
	u.urls <- url
	return nil
}

func waitURL(t *testing.T, u *urlCapture) string {
	t.Helper()
	select {
	case url := <-u.urls:
		return url
	case <-time.After(5 * time.Second):
		t.Fatal("review URL was never presented")
		return ""
	}
}

func fetchView(t *testing.T, pageURL string) (submitURL string, items []domain.Item) {
	t.Helper()

	u, err := url.Parse(pageURL)
	require.NoError(t, err)
	sessionID := path.Base(u.Path)
	base := u.Scheme + "://" + u.Host

	resp, err := http.Get(base + "/api/session/" + sessionID)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view struct {
		SessionID string        `json:"sessionId"`
		Items     []domain.Item `json:"items"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	return base + "/api/session/" + view.SessionID + "/submit", view.Items
}

func submit(t *testing.T, submitURL string, payload any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := http.Post(submitURL, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func TestReviewSubmittedEndToEnd(t *testing.T) {
	capture := newURLCapture()
	coord, err := redline.New(redline.WithPresenter(capture))
	require.NoError(t, err)
	defer coord.Close(context.Background())

	type outcome struct {
		result *domain.ReviewResult
		err    error
	}
	results := make(chan outcome, 1)
	go func() {
		res, err := coord.Review(context.Background(), "- Step 1\n- Step 2", "Plan")
		results <- outcome{res, err}
	}()

	pageURL := waitURL(t, capture)
	submitURL, items := fetchView(t, pageURL)
	require.Len(t, items, 2)

	resp := submit(t, submitURL, map[string]any{
		"items": []map[string]any{
			{"id": 0, "checked": true, "comment": ""},
			{"id": 1, "checked": false, "comment": "use X instead"},
		},
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out outcome
	select {
	case out = <-results:
	case <-time.After(5 * time.Second):
		t.Fatal("Review never returned")
	}
	require.NoError(t, out.err)

	assert.Equal(t, domain.StatusSubmitted, out.result.Status)
	assert.Equal(t, domain.Summary{Total: 2, Approved: 1, Rejected: 1, Commented: 1}, out.result.Summary)
	require.Len(t, out.result.Items, 2)
	assert.Equal(t, "Step 1", out.result.Items[0].Text)
	assert.False(t, out.result.Items[1].Checked)

	// A second submission for the released review is rejected.
	resp = submit(t, submitURL, map[string]any{
		"items": []map[string]any{
			{"id": 0, "checked": true},
			{"id": 1, "checked": true},
		},
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestReviewTimesOutImmediately(t *testing.T) {
	capture := newURLCapture()
	coord, err := redline.New(redline.WithPresenter(capture))
	require.NoError(t, err)
	defer coord.Close(context.Background())

	_, err = coord.Review(context.Background(), "- only item", "Plan",
		redline.WithReviewTimeout(0))
	assert.ErrorIs(t, err, domain.ErrReviewTimeout)

	// The timed-out session answers late POSTs with a terminal-state error.
	pageURL := waitURL(t, capture)
	submitURL, _ := fetchView(t, pageURL)
	resp := submit(t, submitURL, map[string]any{
		"items": []map[string]any{{"id": 0, "checked": true}},
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestReviewCancelledByCaller(t *testing.T) {
	coord, err := redline.New()
	require.NoError(t, err)
	defer coord.Close(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := coord.Review(ctx, "- pending item", "Plan")
		errCh <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, domain.ErrReviewCancelled)
	case <-time.After(5 * time.Second):
		t.Fatal("Review did not observe cancellation")
	}
}

func TestReviewEmptyDocument(t *testing.T) {
	coord, err := redline.New()
	require.NoError(t, err)
	defer coord.Close(context.Background())

	_, err = coord.Review(context.Background(), "   \n\n", "Plan")
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}

func TestConcurrentReviewsQueueFIFO(t *testing.T) {
	capture := newURLCapture()
	coord, err := redline.New(redline.WithPresenter(capture))
	require.NoError(t, err)
	defer coord.Close(context.Background())

	var mu sync.Mutex
	var finished []string

	run := func(title string, started chan<- struct{}) <-chan error {
		errCh := make(chan error, 1)
		go func() {
			close(started)
			_, err := coord.Review(context.Background(), "- item for "+title, title)
			mu.Lock()
			finished = append(finished, title)
			mu.Unlock()
			errCh <- err
		}()
		return errCh
	}

	firstStarted := make(chan struct{})
	firstErr := run("first", firstStarted)
	<-firstStarted
	firstURL := waitURL(t, capture)

	secondStarted := make(chan struct{})
	secondErr := run("second", secondStarted)
	<-secondStarted

	// The second caller must be queued, not failed, while the first is pending.
	select {
	case err := <-secondErr:
		t.Fatalf("second review resolved early: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	submitAll := func(pageURL string) {
		submitURL, items := fetchView(t, pageURL)
		payload := make([]map[string]any, len(items))
		for i, it := range items {
			payload[i] = map[string]any{"id": it.ID, "checked": true}
		}
		resp := submit(t, submitURL, map[string]any{"items": payload})
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	submitAll(firstURL)
	require.NoError(t, <-firstErr)

	secondURL := waitURL(t, capture)
	submitAll(secondURL)
	require.NoError(t, <-secondErr)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"first", "second"}, finished)
}

var _ ports.Presenter = (*urlCapture)(nil)
