package scrape

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeElement is a scripted Element. children maps a selector to its matches.
type fakeElement struct {
	attrs    map[string]string
	text     string
	hidden   bool
	children map[string][]*fakeElement
	onClick  func(*fakeElement)
	clickErr error
}

func (f *fakeElement) Attr(name string) (string, bool) {
	v, ok := f.attrs[name]
	return v, ok
}

func (f *fakeElement) Text() string { return f.text }

func (f *fakeElement) Visible() bool { return !f.hidden }

func (f *fakeElement) Find(selector string) []Element {
	var out []Element
	for _, c := range f.children[selector] {
		out = append(out, c)
	}
	return out
}

func (f *fakeElement) Click(ctx context.Context) error {
	if f.clickErr != nil {
		return f.clickErr
	}
	if f.onClick != nil {
		f.onClick(f)
	}
	return nil
}

// productCard builds a container the default selectors can read.
func productCard(href, title, price, img string) *fakeElement {
	link := &fakeElement{attrs: map[string]string{"href": href, "title": title}, text: title}
	children := map[string][]*fakeElement{
		"a[href]": {link},
	}
	if strings.Contains(href, "/product-detail/") {
		children["a[href*='/product-detail/']"] = []*fakeElement{link}
	}
	if img != "" {
		children["img[data-src], img[src]"] = []*fakeElement{{attrs: map[string]string{"src": img}}}
	}
	if price != "" {
		children[".price"] = []*fakeElement{{text: price}}
	}
	return &fakeElement{children: children}
}

func item(n int) *fakeElement {
	return productCard(
		fmt.Sprintf("https://www.alibaba.com/product-detail/item_%d.html", n),
		fmt.Sprintf("Portable Bluetooth Speaker Model %d", n),
		"$12.50",
		fmt.Sprintf("//s.alicdn.com/img_%d.jpg", n),
	)
}

// fakePage serves frames of containers; every ScrollBy moves to the next frame
// until the last one.
type fakePage struct {
	url       string
	container string
	frames    [][]*fakeElement
	frame     int
	// extraHeight is added to the height proxy per frame index when set.
	extraHeight []int

	selectors map[string][]*fakeElement

	scrolls  int
	presses  int
	reloads  int
	onReload func(*fakePage)
	onScroll func(*fakePage)
	queryErr error
}

func newFakePage(frames ...[]*fakeElement) *fakePage {
	return &fakePage{
		url:       "https://www.alibaba.com/new-arrivals",
		container: DefaultExtractorConfig().ContainerSelector,
		frames:    frames,
		selectors: map[string][]*fakeElement{},
	}
}

func (p *fakePage) URL() string { return p.url }

func (p *fakePage) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.queryErr != nil {
		return nil, p.queryErr
	}
	var src []*fakeElement
	if selector == p.container {
		if len(p.frames) > 0 {
			src = p.frames[p.frame]
		}
	} else {
		src = p.selectors[selector]
	}
	out := make([]Element, 0, len(src))
	for _, e := range src {
		out = append(out, e)
	}
	return out, nil
}

func (p *fakePage) ScrollBy(ctx context.Context, fraction float64) error {
	p.scrolls++
	if p.onScroll != nil {
		p.onScroll(p)
	}
	if p.frame < len(p.frames)-1 {
		p.frame++
	}
	return nil
}

func (p *fakePage) Press(ctx context.Context, key string) error {
	p.presses++
	return nil
}

func (p *fakePage) ScrollHeight(ctx context.Context) (int, error) {
	h := 0
	if len(p.frames) > 0 {
		h = 300 * len(p.frames[p.frame])
	}
	if p.frame < len(p.extraHeight) {
		h += p.extraHeight[p.frame]
	}
	return h, nil
}

func (p *fakePage) WaitFor(ctx context.Context, cond func(context.Context) (bool, error), timeout time.Duration) error {
	ok, err := cond(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ErrWaitTimeout
	}
	return nil
}

func (p *fakePage) Reload(ctx context.Context) error {
	p.reloads++
	p.frame = 0
	if p.onReload != nil {
		p.onReload(p)
	}
	return nil
}

var errBoom = errors.New("boom")

func noSleep(context.Context, time.Duration) error { return nil }

func testExtractor(t *testing.T, cfg *ExtractorConfig) *Extractor {
	t.Helper()
	e, err := NewExtractor(cfg, WithSleeper(noSleep))
	require.NoError(t, err)
	return e
}
