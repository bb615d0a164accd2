package ports

import "context"

// Presenter surfaces a review session to a human. It receives only the
// session URL; the coordinator does not depend on whether or how the page
// is displayed.
type Presenter interface {
	Present(ctx context.Context, url string) error
}

// PresenterFunc adapts a plain function to the Presenter interface.
type PresenterFunc func(ctx context.Context, url string) error

// Present implements Presenter.
func (f PresenterFunc) Present(ctx context.Context, url string) error {
	return f(ctx, url)
}
