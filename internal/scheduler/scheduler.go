package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"stock_harvester/internal/config"
	"stock_harvester/internal/domain"
)

var ErrNotRunning = errors.New("scheduler is not running")

// Runner executes one harvest cycle.
type Runner interface {
	Run(ctx context.Context) (*domain.CycleReport, error)
}

type TriggerResult string

const (
	TriggerStarted TriggerResult = "started"
	TriggerQueued  TriggerResult = "queued"
)

var parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Scheduler fires cycles from a cron expression or a fixed interval and from
// manual triggers. At most one cycle runs at a time.
type Scheduler struct {
	runner   Runner
	spec     string
	overlap  string
	runFirst bool
	logger   *slog.Logger

	mu      sync.Mutex
	ctx     context.Context
	running bool
	queued  bool
	last    *Outcome
	wg      sync.WaitGroup
}

// Outcome is the result of a finished cycle. Report is nil when the cycle
// failed before it could start.
type Outcome struct {
	Reason  string
	Report  *domain.CycleReport
	Err     error
	EndedAt time.Time
}

func NewScheduler(runner Runner, cfg config.ScheduleConfig, logger *slog.Logger) (*Scheduler, error) {
	spec := cfg.Cron
	if spec == "" {
		if cfg.Interval <= 0 {
			return nil, fmt.Errorf("schedule needs a cron expression or a positive interval")
		}
		spec = "@every " + cfg.Interval.String()
	}
	if _, err := parser.Parse(spec); err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}

	overlap := cfg.OverlapPolicy
	if overlap == "" {
		overlap = config.OverlapSkip
	}

	return &Scheduler{
		runner:   runner,
		spec:     spec,
		overlap:  overlap,
		runFirst: cfg.RunOnStart,
		logger:   logger.With("component", "scheduler"),
	}, nil
}

// Start runs the schedule until ctx is done, then cancels the running cycle
// and waits for it to wind down.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	c := cron.New(cron.WithParser(parser))
	if _, err := c.AddFunc(s.spec, func() { s.fire("schedule") }); err != nil {
		return fmt.Errorf("register schedule: %w", err)
	}

	s.logger.Info("scheduler started", "schedule", s.spec, "overlap_policy", s.overlap)
	c.Start()

	if s.runFirst {
		s.fire("startup")
	}

	<-ctx.Done()

	<-c.Stop().Done()
	s.wg.Wait()

	s.mu.Lock()
	s.ctx = nil
	s.mu.Unlock()

	s.logger.Info("scheduler stopped")
	return ctx.Err()
}

func (s *Scheduler) fire(reason string) {
	if _, err := s.Trigger(reason); err != nil && !errors.Is(err, domain.ErrCycleInProgress) {
		s.logger.Error("trigger failed", "reason", reason, "error", err)
	}
}

// Trigger starts a cycle now. If one is already running the overlap policy
// decides: skip returns ErrCycleInProgress, queue defers a single run until
// the current cycle ends.
func (s *Scheduler) Trigger(reason string) (TriggerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx == nil || s.ctx.Err() != nil {
		return "", ErrNotRunning
	}

	if s.running {
		if s.overlap == config.OverlapQueue {
			if !s.queued {
				s.logger.Info("cycle in progress, queueing trigger", "reason", reason)
			}
			s.queued = true
			return TriggerQueued, nil
		}
		s.logger.Warn("cycle in progress, skipping trigger", "reason", reason)
		return "", domain.ErrCycleInProgress
	}

	s.running = true
	s.wg.Add(1)
	go s.loop(s.ctx, reason)

	return TriggerStarted, nil
}

func (s *Scheduler) loop(ctx context.Context, reason string) {
	defer s.wg.Done()

	for {
		s.runCycle(ctx, reason)

		s.mu.Lock()
		if !s.queued || ctx.Err() != nil {
			s.running = false
			s.queued = false
			s.mu.Unlock()
			return
		}
		s.queued = false
		s.mu.Unlock()

		reason = "queued"
	}
}

func (s *Scheduler) runCycle(ctx context.Context, reason string) {
	s.logger.Info("cycle triggered", "reason", reason)

	report, err := s.runner.Run(ctx)
	if err != nil {
		s.logger.Error("cycle failed", "reason", reason, "error", err)
	}

	s.mu.Lock()
	s.last = &Outcome{Reason: reason, Report: report, Err: err, EndedAt: time.Now()}
	s.mu.Unlock()
}

// LastOutcome returns the most recent finished cycle, if any.
func (s *Scheduler) LastOutcome() (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return Outcome{}, false
	}
	return *s.last, true
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
