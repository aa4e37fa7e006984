package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs a load at the top of every hour.
const DefaultSchedule = "@hourly"

const stopTimeout = 30 * time.Second

// cronParser accepts standard five-field specs and descriptors like @hourly.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// cronLogger adapts slog.Logger to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

var _ cron.Logger = (*cronLogger)(nil)

func (c *cronLogger) Info(msg string, keysAndValues ...any) {
	c.logger.Debug(msg, keysAndValues...)
}

func (c *cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.logger.Error(msg, append(keysAndValues, "err", err)...)
}

// Scheduler runs a Loader on a cron schedule.
type Scheduler struct {
	loader *Loader
	spec   string
	cron   *cron.Cron
	// pool holds a single non-blocking worker so overlapping ticks are dropped.
	pool   *ants.Pool
	logger *slog.Logger

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	stopped bool
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler) error

// WithSchedulerLogger sets a custom logger.
// Default is slog.Default().
func WithSchedulerLogger(logger *slog.Logger) SchedulerOption {
	return func(s *Scheduler) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "scheduler")
		return nil
	}
}

// NewScheduler creates a Scheduler running loader on spec.
// An empty spec selects DefaultSchedule.
func NewScheduler(loader *Loader, spec string, opts ...SchedulerOption) (*Scheduler, error) {
	if loader == nil {
		return nil, ErrLoaderRequired
	}
	if spec == "" {
		spec = DefaultSchedule
	}
	if _, err := cronParser.Parse(spec); err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidSchedule, spec, err)
	}

	s := &Scheduler{
		loader: loader,
		spec:   spec,
		logger: slog.Default().With("component", "scheduler"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	pool, err := ants.NewPool(1, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}
	s.pool = pool

	logger := &cronLogger{logger: s.logger}
	s.cron = cron.New(
		cron.WithParser(cronParser),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger)),
	)
	return s, nil
}

// Start schedules the load job and starts the cron runner. Jobs run with a
// context derived from ctx that is canceled by Stop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrSchedulerStopped
	}
	if s.cancel != nil {
		return nil
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	if _, err := s.cron.AddFunc(s.spec, s.tick); err != nil {
		s.cancel()
		s.cancel = nil
		return fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
	}
	s.cron.Start()
	s.logger.Info("scheduler started", "schedule", s.spec, "path", s.loader.Path())
	return nil
}

func (s *Scheduler) tick() {
	if err := s.Trigger(); err != nil {
		if errors.Is(err, ErrLoadInProgress) {
			s.logger.Warn("skipping scheduled load, previous load still running")
			return
		}
		s.logger.Error("scheduled load not started", "err", err)
	}
}

// Trigger starts a load in the background unless one is already running.
func (s *Scheduler) Trigger() error {
	s.mu.Lock()
	ctx := s.ctx
	stopped := s.stopped
	s.mu.Unlock()
	if stopped || ctx == nil {
		return ErrSchedulerStopped
	}

	err := s.pool.Submit(func() {
		if _, err := s.loader.Load(ctx); err != nil {
			s.logger.Error("scheduled load failed", "err", err)
		}
	})
	if errors.Is(err, ants.ErrPoolOverload) {
		return ErrLoadInProgress
	}
	return err
}

// Stop halts the schedule, cancels a running load and waits for it to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	cancel := s.cancel
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	if cancel != nil {
		cancel()
	}
	if err := s.pool.ReleaseTimeout(stopTimeout); err != nil {
		s.logger.Warn("load did not finish before shutdown", "err", err)
	}
	s.logger.Info("scheduler stopped")
}
