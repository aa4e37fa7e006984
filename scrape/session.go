package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/poiesic/tradescout/core"
)

var tabOrdinalRe = regexp.MustCompile(`^\d+\s*-\s*`)

// Tab label length bounds, exclusive.
const (
	minTabLabel = 1
	maxTabLabel = 50
)

// Session drives an Extractor over every enabled category tab of a page.
type Session struct {
	extractor *Extractor
	toggles   core.CategoryToggles
	cfg       *SessionConfig
	logger    *slog.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session) error

// WithSessionConfig replaces the default tab configuration.
func WithSessionConfig(cfg *SessionConfig) SessionOption {
	return func(s *Session) error {
		if cfg == nil {
			return fmt.Errorf("%w: session config is nil", ErrInvalidConfig)
		}
		s.cfg = cfg
		return nil
	}
}

// WithSessionLogger sets the logger. A nil logger selects slog.Default().
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "session")
		return nil
	}
}

// NewSession creates a Session. toggles is read, never written.
func NewSession(extractor *Extractor, toggles core.CategoryToggles, opts ...SessionOption) (*Session, error) {
	if extractor == nil {
		return nil, ErrNilExtractor
	}
	s := &Session{
		extractor: extractor,
		toggles:   toggles,
		cfg:       DefaultSessionConfig(),
		logger:    slog.Default().With("component", "session"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// categoryTab is a discovered tab. toggleName is the cleaned label used for
// toggle lookup; pageName is unique within the page and labels the records.
type categoryTab struct {
	toggleName string
	pageName   string
	index      int
}

// Run scrapes every enabled category on page. known is shared across all
// categories and grows as records are accepted; a nil known starts empty.
//
// Run never panics. On an unexpected failure it stops and returns the records
// accumulated so far together with an error wrapping ErrSessionAborted.
func (s *Session) Run(ctx context.Context, page Page, known core.KnownURLSet) (records []core.ProductRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("session aborted", "panic", r, "records", len(records))
			err = fmt.Errorf("%w: %v", ErrSessionAborted, r)
		}
	}()

	if known == nil {
		known = core.NewKnownURLSet()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrSessionAborted, ctxErr)
	}

	selector, tabs := s.discoverTabs(ctx, page)
	if len(tabs) == 0 {
		if !s.toggles.Enabled(core.CategoryAll) {
			s.logger.Info("no category tabs found and All is disabled")
			return nil, nil
		}
		s.logger.Info("no category tabs found, scraping the page as All")
		records, err = s.extractor.Extract(ctx, page, core.CategoryAll, known, s.cfg.MaxRecordsPerCategory)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrSessionAborted, err)
		}
		return records, err
	}

	for _, tab := range tabs {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return records, fmt.Errorf("%w: %w", ErrSessionAborted, ctxErr)
		}

		logger := s.logger.With("category", tab.pageName)
		if !s.toggles.Enabled(tab.toggleName) {
			logger.Debug("category disabled")
			continue
		}

		if err := s.activate(ctx, page, selector, tab); err != nil {
			if ctx.Err() != nil {
				return records, fmt.Errorf("%w: %w", ErrSessionAborted, ctx.Err())
			}
			logger.Warn("skipping category", "err", err)
			continue
		}

		found, err := s.extractor.Extract(ctx, page, tab.pageName, known, s.cfg.MaxRecordsPerCategory)
		records = append(records, found...)
		if err != nil {
			if ctx.Err() != nil {
				return records, fmt.Errorf("%w: %w", ErrSessionAborted, ctx.Err())
			}
			if errors.Is(err, ErrExtractPanic) {
				s.logger.Error("session aborted", "category", tab.pageName, "records", len(records))
				return records, fmt.Errorf("%w: %w", ErrSessionAborted, err)
			}
			logger.Warn("category extraction failed", "err", err, "records", len(found))
			continue
		}
	}

	s.logger.Info("session complete", "records", len(records), "known", known.Len())
	return records, nil
}

// discoverTabs returns the selector that matched and the tabs it found.
// The primary selector is used when it matches anything; otherwise the first
// alternate with a visible, plausibly labelled tab wins.
func (s *Session) discoverTabs(ctx context.Context, page Page) (string, []categoryTab) {
	elems, err := page.QueryAll(ctx, s.cfg.TabSelector)
	if err != nil {
		s.logger.Debug("tab query failed", "selector", s.cfg.TabSelector, "err", err)
	}
	if len(elems) > 0 {
		return s.cfg.TabSelector, s.nameTabs(elems)
	}

	for _, sel := range s.cfg.AltTabSelectors {
		elems, err := page.QueryAll(ctx, sel)
		if err != nil || len(elems) == 0 {
			continue
		}
		plausible := false
		for _, el := range elems {
			if !el.Visible() {
				continue
			}
			if n := len(strings.TrimSpace(el.Text())); n > minTabLabel && n < maxTabLabel {
				plausible = true
				break
			}
		}
		if plausible {
			return sel, s.nameTabs(elems)
		}
	}
	return "", nil
}

// nameTabs cleans tab labels and suffixes repeated names with _2, _3 and so on.
// Tabs without a usable label are dropped but keep their index.
func (s *Session) nameTabs(elems []Element) []categoryTab {
	var tabs []categoryTab
	used := make(map[string]bool)
	for i, el := range elems {
		if !el.Visible() {
			continue
		}
		name := CleanTabLabel(s.tabLabel(el))
		if n := len(name); n <= minTabLabel || n >= maxTabLabel {
			continue
		}
		pageName := name
		for occurrence := 2; used[pageName]; occurrence++ {
			pageName = name + "_" + strconv.Itoa(occurrence)
		}
		used[pageName] = true
		tabs = append(tabs, categoryTab{toggleName: name, pageName: pageName, index: i})
	}
	return tabs
}

func (s *Session) tabLabel(tab Element) string {
	for _, sel := range s.cfg.TabLabelSelectors {
		if label := first(tab.Find(sel)); label != nil {
			return label.Text()
		}
	}
	return tab.Text()
}

// CleanTabLabel strips a leading "N - " ordinal and collapses whitespace.
func CleanTabLabel(label string) string {
	label = tabOrdinalRe.ReplaceAllString(strings.TrimSpace(label), "")
	return strings.Join(strings.Fields(label), " ")
}

// activate selects tab. A tab that is already selected is not clicked. A tab
// that does not become selected is retried after a page reload.
func (s *Session) activate(ctx context.Context, page Page, selector string, tab categoryTab) error {
	return RetryWithBackoff(ctx, func(attempt int) error {
		if attempt > 1 {
			s.logger.Info("reloading page to retry tab", "category", tab.pageName, "attempt", attempt)
			if err := page.Reload(ctx); err != nil {
				return fmt.Errorf("reload: %w", err)
			}
		}

		el, err := s.lookupTab(ctx, page, selector, tab)
		if err != nil {
			return err
		}
		if s.isSelected(el) {
			return s.extractor.pause(ctx, 0, s.cfg.SwitchPause)
		}

		if err := el.Click(ctx); err != nil {
			return fmt.Errorf("click: %w", err)
		}
		err = page.WaitFor(ctx, func(ctx context.Context) (bool, error) {
			el, err := s.lookupTab(ctx, page, selector, tab)
			if err != nil {
				if errors.Is(err, ErrTabGone) {
					return false, nil
				}
				return false, err
			}
			return s.isSelected(el), nil
		}, s.cfg.TabTimeout)
		if err != nil {
			if errors.Is(err, ErrWaitTimeout) {
				return ErrTabNotActivated
			}
			return err
		}
		return s.extractor.pause(ctx, 0, s.cfg.SwitchPause)
	}, s.cfg.ActivationAttempts, s.cfg.RetryDelay)
}

// lookupTab re-queries the tab bar; element handles do not survive a reload.
func (s *Session) lookupTab(ctx context.Context, page Page, selector string, tab categoryTab) (Element, error) {
	elems, err := page.QueryAll(ctx, selector)
	if err != nil {
		return nil, err
	}
	if tab.index >= len(elems) {
		return nil, ErrTabGone
	}
	return elems[tab.index], nil
}

func (s *Session) isSelected(tab Element) bool {
	if v, ok := tab.Attr("aria-selected"); ok && strings.EqualFold(strings.TrimSpace(v), "true") {
		return true
	}
	class, _ := tab.Attr("class")
	class = strings.ToLower(class)
	for _, c := range s.cfg.SelectedClasses {
		if strings.Contains(class, c) {
			return true
		}
	}
	return false
}
