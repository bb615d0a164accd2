package redline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/redline/pkg/domain"
)

// Runner handles a one-shot review flow using provided IO.
// This allows for easy testing and integration with different frontends
// (CLI, scripts, etc).
type Runner struct {
	Output      io.Writer
	Coordinator *Coordinator

	// Renderer transforms the document before previewing it.
	// This allows for TUI rendering (markdown to ANSI) without coupling the
	// core package. Nil skips the preview entirely.
	Renderer ContentRenderer

	// Timeout bounds the review when positive.
	Timeout ReviewOption
}

// ContentRenderer is a function that transforms content before outputting it.
type ContentRenderer func(string) (string, error)

// NewRunner creates a Runner writing to Stdout.
func NewRunner(c *Coordinator) *Runner {
	return &Runner{
		Output:      os.Stdout,
		Coordinator: c,
	}
}

// Run previews the document, blocks on the review, and writes the final
// result as JSON. Timeout and cancellation outcomes are reported as errors
// after the corresponding result payload is written.
func (r *Runner) Run(ctx context.Context, content, title string) error {
	if r.Renderer != nil {
		preview, err := r.Renderer(content)
		if err != nil {
			// Preview is cosmetic; fall back to the raw document.
			preview = content
		}
		fmt.Fprintln(r.Output, preview)
	}

	var opts []ReviewOption
	if r.Timeout != nil {
		opts = append(opts, r.Timeout)
	}

	result, err := r.Coordinator.Review(ctx, content, title, opts...)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrReviewTimeout):
		result = domain.NewResult(domain.StatusTimedOut, nil)
	case errors.Is(err, domain.ErrReviewCancelled):
		result = domain.NewResult(domain.StatusCancelled, nil)
	default:
		return err
	}

	enc := json.NewEncoder(r.Output)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(result); encErr != nil {
		return encErr
	}
	return err
}
