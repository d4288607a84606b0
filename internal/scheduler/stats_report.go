package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/bookreviews/internal/config"
	"github.com/mrlokans/bookreviews/internal/logger"
)

// StatsSource reports catalog totals.
type StatsSource interface {
	Stats(ctx context.Context) (totalBooks int64, totalReviews int64, err error)
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks a five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// StatsReporter periodically logs how many books and reviews the catalog holds
type StatsReporter struct {
	source StatsSource
	cfg    config.StatsReport
	log    *logger.Logger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewStatsReporter creates a new scheduler instance
func NewStatsReporter(source StatsSource, cfg config.StatsReport, log *logger.Logger) *StatsReporter {
	if log == nil {
		log = logger.Nop()
	}
	return &StatsReporter{
		source: source,
		cfg:    cfg,
		log:    log,
		cron:   cron.New(cron.WithParser(cronParser)),
	}
}

// Start begins the scheduler if reporting is enabled
func (s *StatsReporter) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.Enabled {
		s.log.Info("stats report scheduler: disabled")
		return nil
	}

	if err := ValidateCronSchedule(s.cfg.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.cfg.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		s.RunNow(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule stats report: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	s.log.Info("stats report scheduler: started",
		"schedule", s.cfg.Schedule,
		"next_run", s.cron.Entry(entryID).Next,
	)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running report to finish and stops the scheduler
func (s *StatsReporter) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil

	s.log.Info("stats report scheduler: stopped")
}

// IsRunning returns whether the scheduler is active
func (s *StatsReporter) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next report will be written, or nil when stopped
func (s *StatsReporter) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	next := s.cron.Entry(s.entryID).Next
	return &next
}

// RunNow logs the current totals once.
func (s *StatsReporter) RunNow(ctx context.Context) {
	books, reviews, err := s.source.Stats(ctx)
	if err != nil {
		s.log.Error("stats report failed", "error", err)
		return
	}
	s.log.Info("catalog stats", "books", books, "reviews", reviews)
}
