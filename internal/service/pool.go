package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"stock_harvester/internal/config"
	"stock_harvester/internal/domain"
)

const (
	SourceList   = "list"
	SourceDetail = "detail"
	SourceNews   = "news"
)

// Limiters gate outgoing requests by a global ceiling and an optional
// ceiling per source. A nil limiter means unlimited.
type Limiters struct {
	global    *rate.Limiter
	perSource map[string]*rate.Limiter
}

func NewLimiters(cfg config.RateLimitConfig) *Limiters {
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	l := &Limiters{perSource: make(map[string]*rate.Limiter)}
	if cfg.GlobalRPS > 0 {
		l.global = rate.NewLimiter(rate.Limit(cfg.GlobalRPS), burst)
	}
	for source, rps := range cfg.PerSource {
		if rps > 0 {
			l.perSource[source] = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
	return l
}

// Wait blocks until both the global and the source limiter grant a token.
// It only fails once ctx is done, even when the next token falls after the
// ctx deadline.
func (l *Limiters) Wait(ctx context.Context, source string) error {
	if l == nil {
		return nil
	}
	if lim, ok := l.perSource[source]; ok {
		if err := waitToken(ctx, lim); err != nil {
			return err
		}
	}
	if l.global != nil {
		if err := waitToken(ctx, l.global); err != nil {
			return err
		}
	}
	return nil
}

func waitToken(ctx context.Context, lim *rate.Limiter) error {
	if err := ctx.Err(); err != nil {
		return context.Cause(ctx)
	}

	r := lim.Reserve()
	if !r.OK() {
		return fmt.Errorf("rate limiter cannot grant a token (burst %d)", lim.Burst())
	}
	delay := r.Delay()
	if delay == 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return context.Cause(ctx)
	}
}

type FetchResult struct {
	Detail *domain.DetailRecord
	News   []domain.NewsItem
}

// TaskHandler supplies the work the pool runs for each task.
type TaskHandler interface {
	Fetch(ctx context.Context, task *domain.Task) (*FetchResult, error)
	Store(ctx context.Context, task *domain.Task, res *FetchResult) error
	Finish(ctx context.Context, task *domain.Task, err error)
}

type Pool struct {
	workers  int
	timeout  time.Duration
	limiters *Limiters
	logger   *slog.Logger
}

func NewPool(workers int, timeout time.Duration, limiters *Limiters, logger *slog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		workers:  workers,
		timeout:  timeout,
		limiters: limiters,
		logger:   logger,
	}
}

// Run drains the queue with the configured number of workers and returns once
// the queue is closed or ctx is done. A task taken from the queue after ctx
// ends is dropped; a task whose fetch already started runs to completion or
// to its timeout.
func (p *Pool) Run(ctx context.Context, queue *TaskQueue, handler TaskHandler) {
	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			p.work(ctx, worker, queue, handler)
		}(i)
	}
	wg.Wait()
}

func (p *Pool) work(ctx context.Context, worker int, queue *TaskQueue, handler TaskHandler) {
	for {
		task, ok := queue.Dequeue(ctx)
		if !ok {
			return
		}
		if ctx.Err() != nil {
			p.logger.Debug("dropping task on shutdown", "worker", worker, "task", task.String())
			return
		}

		limitErr := p.limiters.Wait(ctx, string(task.Kind))
		if limitErr != nil && ctx.Err() != nil {
			p.logger.Debug("dropping task on shutdown", "worker", worker, "task", task.String())
			return
		}

		if err := task.Transition(domain.StatusInFlight); err != nil {
			p.logger.Error("dispatch rejected", "task", task.String(), "error", err)
			continue
		}

		// A limiter refusal with ctx still live counts as a failed attempt.
		if limitErr != nil {
			handler.Finish(ctx, task, fmt.Errorf("rate limit: %w", limitErr))
			continue
		}

		// In-flight work is not cut short by a stop request.
		runCtx := context.WithoutCancel(ctx)

		res, err := p.fetch(runCtx, task, handler)
		if err == nil {
			err = handler.Store(runCtx, task, res)
		}
		handler.Finish(ctx, task, err)
	}
}

type fetchOutcome struct {
	res *FetchResult
	err error
}

// fetch runs one fetch under the task timeout. The fetch goroutine is left to
// finish on its own if the adapter ignores cancellation.
func (p *Pool) fetch(ctx context.Context, task *domain.Task, handler TaskHandler) (*FetchResult, error) {
	if p.timeout <= 0 {
		return handler.Fetch(ctx, task)
	}

	taskCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	out := make(chan fetchOutcome, 1)
	go func() {
		res, err := handler.Fetch(taskCtx, task)
		out <- fetchOutcome{res: res, err: err}
	}()

	select {
	case o := <-out:
		if o.err != nil && errors.Is(taskCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s: %v", domain.ErrTaskTimeout, p.timeout, o.err)
		}
		return o.res, o.err
	case <-taskCtx.Done():
		return nil, fmt.Errorf("%w after %s", domain.ErrTaskTimeout, p.timeout)
	}
}
