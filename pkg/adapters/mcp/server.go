package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/redline"
	"github.com/aretw0/redline/pkg/domain"
)

// Server wraps the Redline coordinator and exposes it as an MCP Server.
// The start_review tool is synchronous from the agent's perspective: the
// call returns only once the human has decided (or the review expired).
type Server struct {
	coordinator *redline.Coordinator
	mcpServer   *server.MCPServer

	mu         sync.Mutex
	lastResult *domain.ReviewResult
}

// NewServer creates a new MCP Server instance.
func NewServer(coordinator *redline.Coordinator) *Server {
	s := &Server{
		coordinator: coordinator,
		mcpServer:   server.NewMCPServer("redline-mcp", strings.TrimSpace(redline.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		// Create a timeout context for the graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		fmt.Println("\nShutdown signal received, shutting down server...")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// reviewArgs are the start_review tool arguments.
type reviewArgs struct {
	Content        string  `mapstructure:"content"`
	Title          string  `mapstructure:"title"`
	TimeoutSeconds float64 `mapstructure:"timeout_seconds"`
}

func (s *Server) registerTools() {
	// TOOL: start_review
	reviewTool := mcp.NewTool("start_review",
		mcp.WithDescription("Present markdown content for human line-item review. Blocks until the reviewer submits, cancels, or the timeout elapses, then returns the decisions."),
		mcp.WithString("content", mcp.Required(), mcp.Description("The markdown document to review")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Short label shown on the review page")),
		mcp.WithNumber("timeout_seconds", mcp.Description("Optional review deadline in seconds. Zero expires immediately; omit to wait indefinitely.")),
		mcp.WithOutputSchema[domain.ReviewResult](),
	)
	s.mcpServer.AddTool(reviewTool, mcp.NewStructuredToolHandler(s.handleStartReview))
}

// handleStartReview runs the blocking review and folds lifecycle errors
// into the structured result, so the agent always receives a status payload.
func (s *Server) handleStartReview(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.ReviewResult, error) {
	var in reviewArgs
	if err := mapstructure.WeakDecode(args, &in); err != nil {
		return domain.ReviewResult{}, fmt.Errorf("invalid arguments: %w", err)
	}

	var opts []redline.ReviewOption
	if _, ok := args["timeout_seconds"]; ok {
		opts = append(opts, redline.WithReviewTimeout(time.Duration(in.TimeoutSeconds*float64(time.Second))))
	}

	result, err := s.coordinator.Review(ctx, in.Content, in.Title, opts...)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrReviewTimeout):
		result = domain.NewResult(domain.StatusTimedOut, nil)
	case errors.Is(err, domain.ErrReviewCancelled):
		result = domain.NewResult(domain.StatusCancelled, nil)
	case errors.Is(err, domain.ErrEmptyDocument):
		return domain.ReviewResult{}, fmt.Errorf("content rejected: %w", err)
	default:
		return domain.ReviewResult{}, fmt.Errorf("review failed: %w", err)
	}

	s.mu.Lock()
	s.lastResult = result
	s.mu.Unlock()

	return *result, nil
}

func (s *Server) registerResources() {
	// EXPOSE: redline://last-result
	s.mcpServer.AddResource(mcp.NewResource("redline://last-result", "Most Recent Review Result",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		s.mu.Lock()
		result := s.lastResult
		s.mu.Unlock()

		if result == nil {
			return nil, fmt.Errorf("no review has completed yet")
		}
		jsonBytes, _ := json.Marshal(result)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "redline://last-result",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
