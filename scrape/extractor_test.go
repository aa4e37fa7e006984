package scrape

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/tradescout/core"
)

func urlsOf(records []core.ProductRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ProductURL
	}
	return out
}

func TestNewExtractor(t *testing.T) {
	e, err := NewExtractor(nil)
	require.NoError(t, err)
	assert.Equal(t, 30, e.cfg.MaxPasses)

	cfg := DefaultExtractorConfig()
	cfg.ContainerSelector = ""
	_, err = NewExtractor(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewExtractor(nil, WithSleeper(nil))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestExtract_FirstPassRecords(t *testing.T) {
	page := newFakePage([]*fakeElement{item(1), item(2)})
	e := testExtractor(t, nil)
	known := core.NewKnownURLSet()

	records, err := e.Extract(context.Background(), page, "Consumer Electronics", known, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)

	r := records[0]
	assert.Equal(t, "Portable Bluetooth Speaker Model 1", r.Name)
	assert.Equal(t, "https://www.alibaba.com/product-detail/item_1.html", r.ProductURL)
	assert.Equal(t, "https://s.alicdn.com/img_1.jpg", r.ImageURL)
	assert.Equal(t, "$12.50", r.Price)
	assert.Equal(t, "Consumer Electronics", r.Category)

	assert.Equal(t, 2, known.Len())
	assert.True(t, known.Has(r.ProductURL))
}

func TestExtract_TerminatesOnStablePage(t *testing.T) {
	page := newFakePage([]*fakeElement{item(1), item(2)})
	e := testExtractor(t, nil)

	_, err := e.Extract(context.Background(), page, "All", core.NewKnownURLSet(), 0)
	require.NoError(t, err)

	// One productive pass, then three stalled passes.
	assert.Equal(t, 3, page.scrolls)
	assert.Greater(t, page.presses, 0)
}

func TestExtract_EmptyPageStopsAtStallLimit(t *testing.T) {
	page := newFakePage([]*fakeElement{})
	cfg := DefaultExtractorConfig()
	cfg.MaxStalledPasses = 2
	e := testExtractor(t, cfg)

	records, err := e.Extract(context.Background(), page, "All", core.NewKnownURLSet(), 0)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 1, page.scrolls)
}

func TestExtract_HardPassCap(t *testing.T) {
	// Every scroll reveals one more product, forever.
	var frames [][]*fakeElement
	for i := 1; i <= 40; i++ {
		var frame []*fakeElement
		for j := 1; j <= i; j++ {
			frame = append(frame, item(j))
		}
		frames = append(frames, frame)
	}
	page := newFakePage(frames...)
	e := testExtractor(t, nil)

	records, err := e.Extract(context.Background(), page, "All", core.NewKnownURLSet(), 0)
	require.NoError(t, err)
	assert.Len(t, records, 30)
	assert.Equal(t, 29, page.scrolls)
}

func TestExtract_MaxRecordsTruncates(t *testing.T) {
	page := newFakePage([]*fakeElement{item(1), item(2), item(3)})
	e := testExtractor(t, nil)
	known := core.NewKnownURLSet()

	records, err := e.Extract(context.Background(), page, "All", known, 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 2, known.Len())
	assert.False(t, known.Has(item(3).children["a[href]"][0].attrs["href"]))
	assert.Zero(t, page.scrolls, "cap reached on the first pass")
}

func TestExtract_SkipsKnownAndDuplicates(t *testing.T) {
	page := newFakePage([]*fakeElement{item(1), item(2), item(2), item(3)})
	e := testExtractor(t, nil)
	known := core.NewKnownURLSet("https://www.alibaba.com/product-detail/item_1.html")

	records, err := e.Extract(context.Background(), page, "All", known, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://www.alibaba.com/product-detail/item_2.html",
		"https://www.alibaba.com/product-detail/item_3.html",
	}, urlsOf(records))
}

func TestExtract_NoDuplicatesAcrossPasses(t *testing.T) {
	page := newFakePage(
		[]*fakeElement{item(1), item(2)},
		[]*fakeElement{item(1), item(2), item(3), item(4)},
		[]*fakeElement{item(1), item(2), item(3), item(4), item(5)},
	)
	e := testExtractor(t, nil)
	start := core.NewKnownURLSet("https://www.alibaba.com/product-detail/item_4.html")
	initial := map[string]bool{"https://www.alibaba.com/product-detail/item_4.html": true}

	records, err := e.Extract(context.Background(), page, "All", start, 0)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, u := range urlsOf(records) {
		assert.False(t, seen[u], "duplicate %s", u)
		assert.False(t, initial[u], "known url %s re-emitted", u)
		seen[u] = true
	}
	assert.Len(t, records, 4)
}

func TestExtract_RejectsUnusableContainers(t *testing.T) {
	js := productCard("javascript:void(0)", "Portable Bluetooth Speaker", "$12.50", "//s.alicdn.com/a.jpg")
	promo := productCard("https://www.alibaba.com/promotion/summer", "Summer Promotion Campaign Deals", "$1.00", "//s.alicdn.com/b.jpg")
	noPrice := productCard("https://www.alibaba.com/product-detail/np.html", "Portable Bluetooth Speaker", "", "//s.alicdn.com/c.jpg")
	noImage := productCard("https://www.alibaba.com/product-detail/ni.html", "Portable Bluetooth Speaker", "$3.00", "")
	tile := productCard("https://www.alibaba.com/product-detail/tile.html", "Trade Assurance", "$3.00", "//s.alicdn.com/d.jpg")
	hidden := item(9)
	hidden.hidden = true
	noLink := &fakeElement{}

	page := newFakePage([]*fakeElement{js, promo, noPrice, noImage, tile, hidden, noLink})
	e := testExtractor(t, nil)

	records, err := e.Extract(context.Background(), page, "All", core.NewKnownURLSet(), 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestExtract_NameFallbackSelectors(t *testing.T) {
	card := productCard("https://www.alibaba.com/product-detail/x.html", "", "$4.00", "//s.alicdn.com/x.jpg")
	card.children["h2"] = []*fakeElement{{text: "Short"}}
	card.children[".product-title"] = []*fakeElement{{text: "Min. order: 10 pieces Foldable Phone Stand"}}

	page := newFakePage([]*fakeElement{card})
	e := testExtractor(t, nil)

	records, err := e.Extract(context.Background(), page, "All", core.NewKnownURLSet(), 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Foldable Phone Stand", records[0].Name)
}

func TestExtract_PrefersDataSrc(t *testing.T) {
	card := item(1)
	card.children["img[data-src], img[src]"] = []*fakeElement{{attrs: map[string]string{
		"data-src": "//s.alicdn.com/lazy.jpg",
		"src":      "data:image/gif;base64,R0lG",
	}}}
	page := newFakePage([]*fakeElement{card})

	records, err := testExtractor(t, nil).Extract(context.Background(), page, "All", core.NewKnownURLSet(), 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "https://s.alicdn.com/lazy.jpg", records[0].ImageURL)
}

func TestExtract_ContextCanceled(t *testing.T) {
	page := newFakePage([]*fakeElement{item(1)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records, err := testExtractor(t, nil).Extract(ctx, page, "All", core.NewKnownURLSet(), 0)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, records)
}

func TestExtract_QueryFailure(t *testing.T) {
	page := newFakePage([]*fakeElement{item(1)})
	page.queryErr = errBoom

	_, err := testExtractor(t, nil).Extract(context.Background(), page, "All", core.NewKnownURLSet(), 0)
	assert.ErrorIs(t, err, errBoom)
}

func TestExtract_PanicKeepsAcceptedRecords(t *testing.T) {
	page := newFakePage([]*fakeElement{item(1), item(2), item(3)})
	page.onScroll = func(*fakePage) { panic("driver crashed mid-scroll") }
	known := core.NewKnownURLSet()

	records, err := testExtractor(t, nil).Extract(context.Background(), page, "All", known, 0)
	assert.ErrorIs(t, err, ErrExtractPanic)
	require.Len(t, records, 3)
	assert.Equal(t, 3, known.Len())
	for _, r := range records {
		assert.True(t, known.Has(r.ProductURL))
	}
}
