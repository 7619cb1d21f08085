package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/amirhossein-jamali/credit-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/credit-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/credit-ledger/internal/domain/port/usecase"
)

// DefaultSpec fires at 00:00 every day
const DefaultSpec = "0 0 * * *"

const defaultRunTimeout = 5 * time.Minute

var (
	// ErrRunInProgress is returned when a firing overlaps the previous run
	ErrRunInProgress = errors.New("daily bonus run already in progress")

	// ErrWindowTaken is returned when another instance claimed the window
	ErrWindowTaken = errors.New("daily bonus window already claimed")
)

// Config configures the daily bonus job
type Config struct {
	Spec        string // standard 5-field cron expression, evaluated in UTC
	BonusAmount int64
	RunTimeout  time.Duration
}

// DailyBonusScheduler grants the daily bonus on a UTC cron schedule.
// Firings never overlap: a firing that finds a run in flight is skipped.
type DailyBonusScheduler struct {
	config       Config
	schedule     cron.Schedule
	credits      usecase.CreditUseCase
	locker       RunLocker
	timeProvider core.TimeProvider
	logger       core.Logger
	metrics      core.Metrics

	mu       sync.Mutex
	cron     *cron.Cron
	inFlight atomic.Bool
}

// NewDailyBonusScheduler validates config and returns a stopped scheduler.
// A nil locker runs every window locally.
func NewDailyBonusScheduler(
	config Config,
	credits usecase.CreditUseCase,
	locker RunLocker,
	timeProvider core.TimeProvider,
	logger core.Logger,
	metrics core.Metrics,
) (*DailyBonusScheduler, error) {
	if config.Spec == "" {
		config.Spec = DefaultSpec
	}
	if config.BonusAmount == 0 {
		config.BonusAmount = entity.DailyBonusAmount
	}
	if config.RunTimeout <= 0 {
		config.RunTimeout = defaultRunTimeout
	}
	if err := entity.ValidateAmount(config.BonusAmount); err != nil {
		return nil, fmt.Errorf("invalid bonus amount %d: %w", config.BonusAmount, err)
	}

	schedule, err := cron.ParseStandard(config.Spec)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", config.Spec, err)
	}

	if locker == nil {
		locker = NewNoopLocker()
	}

	return &DailyBonusScheduler{
		config:       config,
		schedule:     schedule,
		credits:      credits,
		locker:       locker,
		timeProvider: timeProvider,
		logger:       logger,
		metrics:      metrics,
	}, nil
}

// Start arms the cron entry. Calling Start on a running scheduler is a no-op.
func (s *DailyBonusScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return nil
	}

	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc(s.config.Spec, s.fire); err != nil {
		return fmt.Errorf("failed to register daily bonus job: %w", err)
	}
	c.Start()
	s.cron = c

	s.logger.Info("Daily bonus scheduler started", map[string]any{
		"spec":     s.config.Spec,
		"amount":   s.config.BonusAmount,
		"next_run": s.NextRun().Format(time.RFC3339),
	})
	return nil
}

// Stop disarms the schedule without waiting for an in-flight run.
// Calling Stop on a stopped scheduler is a no-op.
func (s *DailyBonusScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return
	}

	s.cron.Stop()
	s.cron = nil

	s.logger.Info("Daily bonus scheduler stopped", map[string]any{
		"run_in_flight": s.inFlight.Load(),
	})
}

// IsRunning reports whether the schedule is armed
func (s *DailyBonusScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cron != nil
}

// NextRun returns the next firing time strictly after now, in UTC
func (s *DailyBonusScheduler) NextRun() time.Time {
	return s.schedule.Next(s.timeProvider.Now().UTC())
}

func (s *DailyBonusScheduler) fire() {
	err := s.RunOnce(context.Background())
	if err != nil && !errors.Is(err, ErrRunInProgress) && !errors.Is(err, ErrWindowTaken) {
		s.logger.Error("Scheduled daily bonus failed", map[string]any{
			"error": err.Error(),
		})
	}
}

// RunOnce performs one sweep for the current UTC day, bounded by the
// configured run timeout
func (s *DailyBonusScheduler) RunOnce(ctx context.Context) error {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.metrics.ObserveSchedulerCollision()
		s.logger.Warn("Daily bonus firing skipped, previous run still in flight", nil)
		return ErrRunInProgress
	}
	defer s.inFlight.Store(false)

	ctx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	window := s.timeProvider.Now().UTC().Format(time.DateOnly)
	acquired, err := s.locker.TryLock(ctx, window)
	if err != nil {
		return fmt.Errorf("failed to claim daily bonus window %s: %w", window, err)
	}
	if !acquired {
		s.logger.Info("Daily bonus window claimed by another instance", map[string]any{
			"window": window,
		})
		return ErrWindowTaken
	}

	rows, err := s.credits.RunDailyBonus(ctx, s.config.BonusAmount)
	if err != nil {
		return err
	}

	s.logger.Debug("Daily bonus run finished", map[string]any{
		"window": window,
		"rows":   rows,
	})
	return nil
}
