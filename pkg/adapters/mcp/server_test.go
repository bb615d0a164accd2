package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/redline"
	"github.com/aretw0/redline/pkg/domain"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	coord, err := redline.New()
	require.NoError(t, err)
	t.Cleanup(func() { coord.Close(context.Background()) })
	return NewServer(coord)
}

func TestStartReviewFoldsTimeoutIntoResult(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleStartReview(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"content":         "- item one\n- item two",
		"title":           "Plan",
		"timeout_seconds": 0,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusTimedOut, result.Status)
	assert.Empty(t, result.Items)
}

func TestStartReviewRejectsEmptyContent(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleStartReview(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"content": "   \n",
		"title":   "Plan",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}

func TestStartReviewRecordsLastResult(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleStartReview(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"content":         "- item",
		"title":           "Plan",
		"timeout_seconds": 0,
	})
	require.NoError(t, err)

	s.mu.Lock()
	last := s.lastResult
	s.mu.Unlock()
	require.NotNil(t, last)
	assert.Equal(t, domain.StatusTimedOut, last.Status)
}
