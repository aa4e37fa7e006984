package scrape

import "errors"

var (
	// ErrWaitTimeout is returned by Page.WaitFor when the condition did not hold in time.
	ErrWaitTimeout = errors.New("scrape: wait timed out")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("scrape: maxAttempts must be greater than 0")

	ErrNilExtractor    = errors.New("scrape: extractor is required")
	ErrInvalidConfig   = errors.New("scrape: invalid configuration")
	ErrTabNotActivated = errors.New("scrape: category tab did not become selected")
	ErrTabGone         = errors.New("scrape: category tab no longer present")
	ErrSessionAborted  = errors.New("scrape: session aborted")
	ErrExtractPanic    = errors.New("scrape: extraction panicked")
)
