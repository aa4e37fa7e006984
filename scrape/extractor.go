package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/poiesic/tradescout/core"
)

// Extractor harvests product records from one category of a scrolling grid.
// An Extractor is not safe for concurrent use; give each session its own.
type Extractor struct {
	cfg    *ExtractorConfig
	logger *slog.Logger
	sleep  Sleeper
	rng    *rand.Rand
}

// Option configures an Extractor.
type Option func(*Extractor) error

// WithLogger sets the logger. A nil logger selects slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger.With("component", "extractor")
		return nil
	}
}

// WithSleeper replaces the pause function. Tests pass a no-op.
func WithSleeper(sleep Sleeper) Option {
	return func(e *Extractor) error {
		if sleep == nil {
			return fmt.Errorf("%w: sleeper is nil", ErrInvalidConfig)
		}
		e.sleep = sleep
		return nil
	}
}

// WithRand sets the source for pacing jitter.
func WithRand(rng *rand.Rand) Option {
	return func(e *Extractor) error {
		if rng == nil {
			return fmt.Errorf("%w: rand is nil", ErrInvalidConfig)
		}
		e.rng = rng
		return nil
	}
}

// NewExtractor creates an Extractor. A nil cfg selects DefaultExtractorConfig.
func NewExtractor(cfg *ExtractorConfig, opts ...Option) (*Extractor, error) {
	if cfg == nil {
		cfg = DefaultExtractorConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Extractor{
		cfg:    cfg,
		logger: slog.Default().With("component", "extractor"),
		sleep:  ContextSleep,
		rng:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Extract runs the pass loop for category on page and returns the records it
// accepted, in acceptance order. Every accepted URL is added to known.
//
// maxRecords > 0 caps the records returned for this call; records beyond the
// cap are dropped and stay out of known so a later run can pick them up.
//
// The records gathered so far are returned together with any error, which is
// a context error, a failure to query the page, or ErrExtractPanic when the
// page panicked. Every returned record's URL is in known and no other is.
func (e *Extractor) Extract(ctx context.Context, page Page, category string, known core.KnownURLSet, maxRecords int) (records []core.ProductRecord, err error) {
	logger := e.logger.With("category", category)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("extraction panicked", "panic", r, "records", len(records))
			err = fmt.Errorf("%w: %v", ErrExtractPanic, r)
		}
	}()

	origin := Origin(page.URL())
	stalled := 0

	for pass := 1; pass <= e.cfg.MaxPasses; pass++ {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		before, err := e.countContainers(ctx, page)
		if err != nil {
			return records, err
		}
		heightBefore, err := page.ScrollHeight(ctx)
		if err != nil {
			return records, fmt.Errorf("read scroll height: %w", err)
		}

		if pass > 1 {
			if err := e.advance(ctx, page); err != nil {
				return records, err
			}
		}
		if err := e.pause(ctx, e.cfg.SettleDelay, e.cfg.SettleJitter); err != nil {
			return records, err
		}

		grew := false
		if pass > 1 {
			err := page.WaitFor(ctx, func(ctx context.Context) (bool, error) {
				n, err := e.countContainers(ctx, page)
				return n > before, err
			}, e.cfg.GrowthTimeout)
			switch {
			case err == nil:
				grew = true
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				if ctx.Err() != nil {
					return records, ctx.Err()
				}
			case !errors.Is(err, ErrWaitTimeout):
				logger.Warn("waiting for new containers failed", "pass", pass, "err", err)
			}
		}

		containers, err := page.QueryAll(ctx, e.cfg.ContainerSelector)
		if err != nil {
			return records, fmt.Errorf("query containers: %w", err)
		}

		batch := e.extractPass(containers, category, origin, known)
		if maxRecords > 0 && len(records)+len(batch) > maxRecords {
			batch = batch[:maxRecords-len(records)]
		}
		for _, r := range batch {
			known.Add(r.ProductURL)
		}
		records = append(records, batch...)

		logger.Debug("extraction pass complete",
			"pass", pass,
			"containers", len(containers),
			"accepted", len(batch),
			"total", len(records))

		if maxRecords > 0 && len(records) >= maxRecords {
			logger.Info("reached record cap", "max", maxRecords)
			break
		}

		if len(batch) > 0 {
			stalled = 0
			continue
		}

		heightAfter, err := page.ScrollHeight(ctx)
		if err != nil {
			return records, fmt.Errorf("read scroll height: %w", err)
		}
		reason := classifyPass(passObservation{
			pass:            pass,
			containers:      len(containers),
			containersGrew:  grew,
			heightBefore:    heightBefore,
			heightAfter:     heightAfter,
			heightTolerance: e.cfg.HeightTolerance,
		})
		stalled++
		logger.Debug("pass accepted nothing",
			"pass", pass,
			"reason", reason.String(),
			"stalled", stalled,
			"limit", e.cfg.MaxStalledPasses)
		if stalled >= e.cfg.MaxStalledPasses {
			break
		}
	}

	logger.Info("category complete", "records", len(records))
	return records, nil
}

func (e *Extractor) countContainers(ctx context.Context, page Page) (int, error) {
	elems, err := page.QueryAll(ctx, e.cfg.ContainerSelector)
	if err != nil {
		return 0, fmt.Errorf("query containers: %w", err)
	}
	return len(elems), nil
}

// advance scrolls and pages down. Interaction failures are logged and the pass
// carries on; only context errors stop it.
func (e *Extractor) advance(ctx context.Context, page Page) error {
	if err := page.ScrollBy(ctx, e.cfg.ScrollFraction); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		e.logger.Debug("scroll failed", "err", err)
	}
	if err := e.pause(ctx, 0, e.cfg.ScrollPause); err != nil {
		return err
	}

	presses := e.between(e.cfg.KeyPressesMin, e.cfg.KeyPressesMax)
	for range presses {
		if err := page.Press(ctx, "PageDown"); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			e.logger.Debug("key press failed", "err", err)
		}
		if err := e.pause(ctx, 0, e.cfg.KeyPause); err != nil {
			return err
		}
	}
	return e.pause(ctx, 0, e.cfg.KeysPause)
}

func (e *Extractor) pause(ctx context.Context, base time.Duration, jitter DelayRange) error {
	d := base + jitter.Min
	if span := jitter.Max - jitter.Min; span > 0 {
		d += time.Duration(e.rng.Int64N(int64(span) + 1))
	}
	return e.sleep(ctx, d)
}

func (e *Extractor) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + e.rng.IntN(hi-lo+1)
}

// extractPass turns the visible containers into records that are new to both
// known and this batch.
func (e *Extractor) extractPass(containers []Element, category, origin string, known core.KnownURLSet) []core.ProductRecord {
	var batch []core.ProductRecord
	seen := make(map[string]struct{})

	for _, c := range containers {
		if !c.Visible() {
			continue
		}
		rec, ok := e.extractOne(c, category, origin)
		if !ok {
			continue
		}
		if known.Has(rec.ProductURL) {
			continue
		}
		if _, dup := seen[rec.ProductURL]; dup {
			continue
		}
		seen[rec.ProductURL] = struct{}{}
		batch = append(batch, rec)
	}
	return batch
}

func (e *Extractor) extractOne(container Element, category, origin string) (core.ProductRecord, bool) {
	rec := core.ProductRecord{Category: category}

	var link Element
	for _, sel := range e.cfg.LinkSelectors {
		if link = first(container.Find(sel)); link != nil {
			break
		}
	}
	if link == nil {
		return rec, false
	}

	href, _ := link.Attr("href")
	productURL, ok := NormalizeURL(href, origin)
	if !ok || !LooksLikeDetailPage(productURL) {
		return rec, false
	}
	rec.ProductURL = productURL

	if img := first(container.Find(e.cfg.ImageSelector)); img != nil {
		src, _ := img.Attr("data-src")
		if strings.TrimSpace(src) == "" {
			src, _ = img.Attr("src")
		}
		rec.ImageURL = NormalizeImageURL(src, origin)
	}

	name, ok := AcceptName(e.rawName(container, link))
	if !ok {
		return rec, false
	}
	rec.Name = name

	rec.Price = e.price(container)

	if core.ValidateProductRecord(&rec) != nil {
		return rec, false
	}
	return rec, true
}

// rawName prefers the link's title, then its text, then the longest of the
// fallback title selectors.
func (e *Extractor) rawName(container, link Element) string {
	name, _ := link.Attr("title")
	if len(strings.TrimSpace(name)) < 5 {
		name = link.Text()
	}
	name = strings.TrimSpace(name)
	if len(name) >= core.MinNameLength {
		return name
	}

	for _, sel := range e.cfg.TitleSelectors {
		el := first(container.Find(sel))
		if el == nil {
			continue
		}
		candidate, _ := el.Attr("title")
		if strings.TrimSpace(candidate) == "" {
			candidate = el.Text()
		}
		candidate = strings.TrimSpace(candidate)
		floor := len(name)
		if floor == 0 {
			floor = 5
		}
		if len(candidate) > floor {
			name = candidate
			if len(name) > core.MinNameLength {
				break
			}
		}
	}
	return name
}

func (e *Extractor) price(container Element) string {
	for _, sel := range e.cfg.PriceSelectors {
		el := first(container.Find(sel))
		if el == nil {
			continue
		}
		if text := el.Text(); HasCurrency(text) {
			return ExtractPrice(text)
		}
	}
	return ""
}
