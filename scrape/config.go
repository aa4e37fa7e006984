package scrape

import (
	"fmt"
	"time"
)

// DelayRange is an inclusive range a random pause is drawn from.
type DelayRange struct {
	Min time.Duration
	Max time.Duration
}

// ExtractorConfig holds the selectors and pacing used by an Extractor.
type ExtractorConfig struct {
	// ContainerSelector matches one product card.
	ContainerSelector string

	// LinkSelectors are tried in order inside a container to find the detail link.
	LinkSelectors []string

	// ImageSelector matches the product image inside a container.
	ImageSelector string

	// TitleSelectors are fallbacks inside a container when the link carries no usable name.
	TitleSelectors []string

	// PriceSelectors are tried in order inside a container for price text.
	PriceSelectors []string

	// MaxPasses is the hard cap on extraction passes per category.
	// Default: 30
	MaxPasses int

	// MaxStalledPasses ends the category after this many consecutive passes
	// that accepted nothing.
	// Default: 3
	MaxStalledPasses int

	// SettleDelay is waited after every pass's scroll actions, plus SettleJitter.
	// Default: 6s + 1..4s
	SettleDelay  time.Duration
	SettleJitter DelayRange

	// ScrollFraction is the share of the viewport scrolled at the start of a pass.
	// Default: 0.85
	ScrollFraction float64

	// ScrollPause follows the programmatic scroll.
	ScrollPause DelayRange

	// KeyPressesMin and KeyPressesMax bound the PageDown presses that follow the scroll.
	// Default: 8..15
	KeyPressesMin int
	KeyPressesMax int

	// KeyPause follows each key press; KeysPause follows the whole burst.
	KeyPause  DelayRange
	KeysPause DelayRange

	// GrowthTimeout bounds the wait for new containers after scrolling.
	// Default: 10s
	GrowthTimeout time.Duration

	// HeightTolerance is the height growth, in pixels, still treated as no growth.
	// Default: 20
	HeightTolerance int
}

// DefaultExtractorConfig returns the configuration for the marketplace's
// new-arrivals grid.
func DefaultExtractorConfig() *ExtractorConfig {
	return &ExtractorConfig{
		ContainerSelector: "div.hugo4-pc-grid-item",
		LinkSelectors:     []string{"a[href*='/product-detail/']", "a[href]"},
		ImageSelector:     "img[data-src], img[src]",
		TitleSelectors: []string{
			"h2", "h3", ".product-title", ".item-title", ".title", ".name",
			"div[class*='title'] span", "div[class*='subject'] span", "a[title]",
		},
		PriceSelectors: []string{
			".price", ".product-price", ".item-price",
			"div[class*='price']", "span[class*='price']",
		},
		MaxPasses:        30,
		MaxStalledPasses: 3,
		SettleDelay:      6 * time.Second,
		SettleJitter:     DelayRange{Min: time.Second, Max: 4 * time.Second},
		ScrollFraction:   0.85,
		ScrollPause:      DelayRange{Min: 400 * time.Millisecond, Max: 700 * time.Millisecond},
		KeyPressesMin:    8,
		KeyPressesMax:    15,
		KeyPause:         DelayRange{Min: 250 * time.Millisecond, Max: 450 * time.Millisecond},
		KeysPause:        DelayRange{Min: 1200 * time.Millisecond, Max: 2000 * time.Millisecond},
		GrowthTimeout:    10 * time.Second,
		HeightTolerance:  20,
	}
}

// Validate checks that the configuration is usable.
func (c *ExtractorConfig) Validate() error {
	switch {
	case c.ContainerSelector == "":
		return fmt.Errorf("%w: ContainerSelector is required", ErrInvalidConfig)
	case len(c.LinkSelectors) == 0:
		return fmt.Errorf("%w: at least one link selector is required", ErrInvalidConfig)
	case c.MaxPasses < 1:
		return fmt.Errorf("%w: MaxPasses must be positive", ErrInvalidConfig)
	case c.MaxStalledPasses < 1:
		return fmt.Errorf("%w: MaxStalledPasses must be positive", ErrInvalidConfig)
	case c.KeyPressesMin < 0 || c.KeyPressesMax < c.KeyPressesMin:
		return fmt.Errorf("%w: invalid key press range", ErrInvalidConfig)
	case c.ScrollFraction <= 0:
		return fmt.Errorf("%w: ScrollFraction must be positive", ErrInvalidConfig)
	case c.HeightTolerance < 0:
		return fmt.Errorf("%w: HeightTolerance cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// SessionConfig holds the tab handling used by a Session.
type SessionConfig struct {
	// TabSelector matches category tabs. AltTabSelectors are tried in order
	// when it matches nothing visible.
	TabSelector     string
	AltTabSelectors []string

	// TabLabelSelectors locate the label inside a tab; the tab's own text is
	// used when none match.
	TabLabelSelectors []string

	// SelectedClasses mark a tab as selected. aria-selected="true" always does.
	SelectedClasses []string

	// MaxRecordsPerCategory caps records per category. Zero means no cap.
	MaxRecordsPerCategory int

	// TabTimeout bounds the wait for a clicked tab to become selected.
	// Default: 20s
	TabTimeout time.Duration

	// ActivationAttempts is how many times a tab is activated, with a page
	// reload before every retry.
	// Default: 2
	ActivationAttempts int

	// RetryDelay is the base backoff between activation attempts.
	// Default: 2s
	RetryDelay time.Duration

	// SwitchPause is waited after a tab switch for the grid to repopulate.
	SwitchPause DelayRange
}

// DefaultSessionConfig returns the configuration for the new-arrivals tab bar.
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		TabSelector: "div.hugo-dotelement.tab-item",
		AltTabSelectors: []string{
			"div[role='tab']", "li[role='tab']", "a[role='tab']",
			"div[class*='tab-item']", "div[class*='category-tab']",
			".scc-tab-item", ".rax-scrollview-horizontal > div > div",
		},
		TabLabelSelectors:  []string{".text", "span"},
		SelectedClasses:    []string{"item-selected", "active", "current", "is-active", "is-selected", "tab-active"},
		TabTimeout:         20 * time.Second,
		ActivationAttempts: 2,
		RetryDelay:         2 * time.Second,
		SwitchPause:        DelayRange{Min: 4 * time.Second, Max: 7 * time.Second},
	}
}

// Validate checks that the configuration is usable.
func (c *SessionConfig) Validate() error {
	switch {
	case c.TabSelector == "":
		return fmt.Errorf("%w: TabSelector is required", ErrInvalidConfig)
	case c.MaxRecordsPerCategory < 0:
		return fmt.Errorf("%w: MaxRecordsPerCategory cannot be negative", ErrInvalidConfig)
	case c.ActivationAttempts < 1:
		return fmt.Errorf("%w: ActivationAttempts must be positive", ErrInvalidConfig)
	case c.TabTimeout <= 0:
		return fmt.Errorf("%w: TabTimeout must be positive", ErrInvalidConfig)
	}
	return nil
}
