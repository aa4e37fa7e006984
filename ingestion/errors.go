package ingestion

import "errors"

var (
	// ErrCatalogRequired is returned when a catalog repository is not provided.
	ErrCatalogRequired = errors.New("catalog repository required")

	// ErrLoaderRequired is returned when a scheduler is created without a loader.
	ErrLoaderRequired = errors.New("loader required")

	// ErrInvalidSchedule is returned for a cron spec that does not parse.
	ErrInvalidSchedule = errors.New("invalid schedule")

	// ErrInvalidRetention is returned for a non-positive retention window.
	ErrInvalidRetention = errors.New("retention must be positive")

	// ErrLoadInProgress is returned by Scheduler.Trigger while a load is running.
	ErrLoadInProgress = errors.New("load already in progress")

	// ErrSchedulerStopped is returned when a stopped scheduler is used.
	ErrSchedulerStopped = errors.New("scheduler stopped")
)
