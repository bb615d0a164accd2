// Package browser implements the Presenter port by opening the review page
// in the local default browser.
package browser

import (
	"context"
	"fmt"

	"github.com/cli/browser"
)

// Presenter opens review URLs in the system browser.
type Presenter struct{}

// New creates a browser Presenter.
func New() *Presenter {
	return &Presenter{}
}

// Present opens the review URL. Failures are returned, not fatal: the
// coordinator keeps waiting and the URL stays reachable for a manual visit.
func (p *Presenter) Present(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
