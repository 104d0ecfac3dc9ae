package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_harvester/internal/config"
	"stock_harvester/internal/domain"
)

// blockingRunner holds every cycle open until release is closed and records
// how many cycles ran concurrently.
type blockingRunner struct {
	release chan struct{}
	started chan struct{}

	runs      atomic.Int32
	active    atomic.Int32
	maxActive atomic.Int32
}

func newBlockingRunner() *blockingRunner {
	return &blockingRunner{
		release: make(chan struct{}),
		started: make(chan struct{}, 16),
	}
}

func (r *blockingRunner) Run(ctx context.Context) (*domain.CycleReport, error) {
	n := r.active.Add(1)
	defer r.active.Add(-1)
	if n > r.maxActive.Load() {
		r.maxActive.Store(n)
	}
	id := r.runs.Add(1)
	r.started <- struct{}{}

	select {
	case <-r.release:
	case <-ctx.Done():
		return domain.NewCycleReport("interrupted", false, nil), ctx.Err()
	}
	return domain.NewCycleReport(string(rune('0'+id)), false, nil), nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func startScheduler(t *testing.T, runner Runner, cfg config.ScheduleConfig) (*Scheduler, context.CancelFunc, <-chan error) {
	t.Helper()

	s, err := NewScheduler(runner, cfg, testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.ctx != nil
	}, time.Second, 5*time.Millisecond)

	return s, cancel, done
}

func waitStarted(t *testing.T, r *blockingRunner) {
	t.Helper()
	select {
	case <-r.started:
	case <-time.After(2 * time.Second):
		t.Fatal("cycle did not start")
	}
}

func TestNewScheduler_Validation(t *testing.T) {
	_, err := NewScheduler(newBlockingRunner(), config.ScheduleConfig{}, testLogger())
	assert.Error(t, err)

	_, err = NewScheduler(newBlockingRunner(), config.ScheduleConfig{Cron: "not a cron"}, testLogger())
	assert.Error(t, err)

	s, err := NewScheduler(newBlockingRunner(), config.ScheduleConfig{Cron: "0 30 9 * * 1-5"}, testLogger())
	require.NoError(t, err)
	assert.Equal(t, config.OverlapSkip, s.overlap)

	s, err = NewScheduler(newBlockingRunner(), config.ScheduleConfig{Interval: time.Hour}, testLogger())
	require.NoError(t, err)
	assert.Equal(t, "@every 1h0m0s", s.spec)
}

func TestScheduler_TriggerBeforeStart(t *testing.T) {
	s, err := NewScheduler(newBlockingRunner(), config.ScheduleConfig{Interval: time.Hour}, testLogger())
	require.NoError(t, err)

	_, err = s.Trigger("manual")
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestScheduler_SkipPolicy(t *testing.T) {
	runner := newBlockingRunner()
	s, cancel, done := startScheduler(t, runner, config.ScheduleConfig{
		Interval:      time.Hour,
		OverlapPolicy: config.OverlapSkip,
	})
	defer cancel()

	res, err := s.Trigger("manual")
	require.NoError(t, err)
	assert.Equal(t, TriggerStarted, res)
	waitStarted(t, runner)

	_, err = s.Trigger("manual")
	assert.ErrorIs(t, err, domain.ErrCycleInProgress)
	assert.True(t, s.Running())

	close(runner.release)
	require.Eventually(t, func() bool { return !s.Running() }, time.Second, 5*time.Millisecond)

	outcome, ok := s.LastOutcome()
	require.True(t, ok)
	assert.NoError(t, outcome.Err)
	assert.Equal(t, "manual", outcome.Reason)
	assert.Equal(t, int32(1), runner.runs.Load())

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestScheduler_QueuePolicy(t *testing.T) {
	runner := newBlockingRunner()
	s, cancel, done := startScheduler(t, runner, config.ScheduleConfig{
		Interval:      time.Hour,
		OverlapPolicy: config.OverlapQueue,
	})
	defer cancel()

	_, err := s.Trigger("manual")
	require.NoError(t, err)
	waitStarted(t, runner)

	res, err := s.Trigger("manual")
	require.NoError(t, err)
	assert.Equal(t, TriggerQueued, res)

	res, err = s.Trigger("manual")
	require.NoError(t, err)
	assert.Equal(t, TriggerQueued, res)

	close(runner.release)
	waitStarted(t, runner)
	require.Eventually(t, func() bool { return !s.Running() }, time.Second, 5*time.Millisecond)

	assert.Equal(t, int32(2), runner.runs.Load())
	assert.Equal(t, int32(1), runner.maxActive.Load())

	outcome, ok := s.LastOutcome()
	require.True(t, ok)
	assert.Equal(t, "queued", outcome.Reason)

	cancel()
	<-done
}

func TestScheduler_StopCancelsRunningCycle(t *testing.T) {
	runner := newBlockingRunner()
	s, cancel, done := startScheduler(t, runner, config.ScheduleConfig{
		Interval:   time.Hour,
		RunOnStart: true,
	})

	waitStarted(t, runner)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}

	outcome, ok := s.LastOutcome()
	require.True(t, ok)
	assert.True(t, errors.Is(outcome.Err, context.Canceled))
	assert.Equal(t, "startup", outcome.Reason)

	_, err := s.Trigger("manual")
	assert.ErrorIs(t, err, ErrNotRunning)
}

type countingRunner struct {
	mu     sync.Mutex
	active int
	max    int
	runs   int
}

func (r *countingRunner) Run(context.Context) (*domain.CycleReport, error) {
	r.mu.Lock()
	r.active++
	r.runs++
	if r.active > r.max {
		r.max = r.active
	}
	r.mu.Unlock()

	time.Sleep(1500 * time.Millisecond)

	r.mu.Lock()
	r.active--
	r.mu.Unlock()
	return domain.NewCycleReport("tick", false, nil), nil
}

func TestScheduler_TimerNeverOverlaps(t *testing.T) {
	if testing.Short() {
		t.Skip("waits on real cron ticks")
	}

	runner := &countingRunner{}
	_, cancel, done := startScheduler(t, runner, config.ScheduleConfig{
		Cron:          "@every 1s",
		OverlapPolicy: config.OverlapSkip,
	})

	time.Sleep(3500 * time.Millisecond)
	cancel()
	<-done

	runner.mu.Lock()
	defer runner.mu.Unlock()
	assert.Equal(t, 1, runner.max)
	assert.GreaterOrEqual(t, runner.runs, 1)
}
