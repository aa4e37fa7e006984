package scrape

import (
	"context"
	"time"
)

// Page is a live, scrollable document.
type Page interface {
	// URL returns the current document URL.
	URL() string

	// QueryAll returns every element matching a CSS selector, in document order.
	QueryAll(ctx context.Context, selector string) ([]Element, error)

	// ScrollBy scrolls the viewport down by a fraction of its height.
	ScrollBy(ctx context.Context, viewportFraction float64) error

	// Press sends a key press to the focused document.
	Press(ctx context.Context, key string) error

	// ScrollHeight returns the current document height, used as a growth proxy.
	ScrollHeight(ctx context.Context) (int, error)

	// WaitFor polls cond until it reports true or timeout elapses.
	// Returns ErrWaitTimeout when the condition never held.
	WaitFor(ctx context.Context, cond func(context.Context) (bool, error), timeout time.Duration) error

	// Reload reloads the current document.
	Reload(ctx context.Context) error
}

// Element is a node of a Page.
type Element interface {
	// Attr returns the value of an attribute and whether it is present.
	Attr(name string) (string, bool)

	// Text returns the element's text content.
	Text() string

	// Visible reports whether the element is rendered.
	Visible() bool

	// Find returns the descendants matching a CSS selector, in document order.
	Find(selector string) []Element

	// Click activates the element.
	Click(ctx context.Context) error
}

// Sleeper pauses for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// ContextSleep is the default Sleeper.
func ContextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func first(elems []Element) Element {
	if len(elems) == 0 {
		return nil
	}
	return elems[0]
}
