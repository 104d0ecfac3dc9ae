package service

import (
	"context"
	"sync"
	"time"

	"stock_harvester/internal/config"
	"stock_harvester/internal/domain"
)

type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

func NewRetryPolicy(cfg config.RetryConfig) RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    cfg.MaxAttempts,
		InitialBackoff: cfg.InitialBackoff,
		MaxBackoff:     cfg.MaxBackoff,
	}
}

// Backoff returns the delay before the attempt that follows attempt number
// attempt (1-based): initial * 2^(attempt-1), capped at MaxBackoff. Attempts
// count from 1, so the first retry waits exactly InitialBackoff; this matches
// base * 2^n with n counted from the first retry (n = attempt-1).
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	backoff := p.InitialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
		if p.MaxBackoff > 0 && backoff >= p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	if p.MaxBackoff > 0 && backoff > p.MaxBackoff {
		backoff = p.MaxBackoff
	}
	return backoff
}

func (p RetryPolicy) Exhausted(attempts int) bool {
	return attempts >= p.MaxAttempts
}

// retrier re-enqueues failed tasks once their backoff elapses.
type retrier struct {
	policy RetryPolicy
	queue  *TaskQueue
	wg     sync.WaitGroup
}

func newRetrier(policy RetryPolicy, queue *TaskQueue) *retrier {
	return &retrier{policy: policy, queue: queue}
}

// schedule moves a Failed task back to Pending after its backoff. If ctx ends
// first the task is abandoned in the Failed state.
func (r *retrier) schedule(ctx context.Context, task *domain.Task) time.Duration {
	delay := r.policy.Backoff(task.Attempts)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if err := task.Transition(domain.StatusPending); err != nil {
			return
		}
		r.queue.Enqueue(task)
	}()

	return delay
}

func (r *retrier) wait() {
	r.wg.Wait()
}
