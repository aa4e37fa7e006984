package htmlpage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/poiesic/tradescout/scrape"
)

// SelectedClass is added to an element when it is clicked.
const SelectedClass = "item-selected"

// nodeHeight is the pixel height assumed per element for ScrollHeight.
const nodeHeight = 24

var ErrNoFrames = errors.New("htmlpage: at least one frame is required")

// Page is a scrape.Page backed by goquery documents.
// It is safe for concurrent use, though the extractor drives it from one goroutine.
type Page struct {
	mu           sync.Mutex
	url          string
	frames       []string
	frame        int
	doc          *goquery.Document
	keys         []string
	pollInterval time.Duration
}

var _ scrape.Page = (*Page)(nil)

// New parses the first frame and returns a Page positioned on it.
func New(pageURL string, frames ...string) (*Page, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	p := &Page{
		url:          pageURL,
		frames:       frames,
		pollInterval: 50 * time.Millisecond,
	}
	if err := p.load(0); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Page) load(frame int) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.frames[frame]))
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}
	p.doc = doc
	p.frame = frame
	return nil
}

// URL implements scrape.Page.
func (p *Page) URL() string {
	return p.url
}

// Frame returns the index of the current frame.
func (p *Page) Frame() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frame
}

// Keys returns the key presses received so far.
func (p *Page) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

// QueryAll implements scrape.Page.
func (p *Page) QueryAll(ctx context.Context, selector string) ([]scrape.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return wrap(p.doc.Find(selector)), nil
}

// ScrollBy implements scrape.Page. Any positive scroll reveals the next frame.
func (p *Page) ScrollBy(ctx context.Context, viewportFraction float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if viewportFraction <= 0 || p.frame >= len(p.frames)-1 {
		return nil
	}
	return p.load(p.frame + 1)
}

// Press implements scrape.Page. Keys are recorded and otherwise ignored.
func (p *Page) Press(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return nil
}

// ScrollHeight implements scrape.Page using the element count of the body.
func (p *Page) ScrollHeight(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.Find("body *").Length() * nodeHeight, nil
}

// WaitFor implements scrape.Page.
func (p *Page) WaitFor(ctx context.Context, cond func(context.Context) (bool, error), timeout time.Duration) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(p.pollInterval)
	defer tick.Stop()

	for {
		ok, err := cond(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return scrape.ErrWaitTimeout
		case <-tick.C:
		}
	}
}

// Reload implements scrape.Page. It returns to the first frame and discards clicks.
func (p *Page) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.load(0)
}
