package htmlpage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gocolly/colly/v2"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

type fetchOptions struct {
	userAgent string
	timeout   time.Duration
	logger    *slog.Logger
}

// FetchOption configures Fetch.
type FetchOption func(*fetchOptions)

// WithUserAgent overrides the browser user agent sent with requests.
func WithUserAgent(ua string) FetchOption {
	return func(o *fetchOptions) { o.userAgent = ua }
}

// WithRequestTimeout bounds each request.
func WithRequestTimeout(d time.Duration) FetchOption {
	return func(o *fetchOptions) { o.timeout = d }
}

// WithFetchLogger sets the logger. A nil logger selects slog.Default().
func WithFetchLogger(logger *slog.Logger) FetchOption {
	return func(o *fetchOptions) { o.logger = logger }
}

// Fetch downloads each URL in order and returns a Page whose frames are the
// responses. The first URL is the page URL; later URLs stand in for the
// content revealed by successive scrolls.
func Fetch(ctx context.Context, urls []string, opts ...FetchOption) (*Page, error) {
	if len(urls) == 0 {
		return nil, ErrNoFrames
	}
	o := fetchOptions{
		userAgent: defaultUserAgent,
		timeout:   60 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	logger := o.logger.With("component", "fetch")

	c := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.UserAgent(o.userAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(o.timeout)

	frames := make([]string, 0, len(urls))
	var fetchErr error
	c.OnResponse(func(r *colly.Response) {
		logger.Debug("fetched page", "url", r.Request.URL.String(), "status", r.StatusCode, "bytes", len(r.Body))
		frames = append(frames, string(r.Body))
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("fetch %s: status %d: %w", r.Request.URL, r.StatusCode, err)
	})

	for _, u := range urls {
		if err := c.Visit(u); err != nil {
			return nil, fmt.Errorf("fetch %s: %w", u, err)
		}
		c.Wait()
		if fetchErr != nil {
			return nil, fetchErr
		}
	}
	return New(urls[0], frames...)
}
