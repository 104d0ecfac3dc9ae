package service

import (
	"context"
	"sync"

	"stock_harvester/internal/domain"
)

// TaskQueue is an unbounded FIFO of pending tasks shared by producers and
// pool workers.
type TaskQueue struct {
	mu     sync.Mutex
	items  []*domain.Task
	closed bool
	ready  chan struct{}
	done   chan struct{}
}

func NewTaskQueue() *TaskQueue {
	return &TaskQueue{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Enqueue appends a task. It returns false if the queue has been closed.
func (q *TaskQueue) Enqueue(task *domain.Task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.items = append(q.items, task)
	q.signal()
	return true
}

// Dequeue blocks until a task is available, the queue is closed or ctx is done.
func (q *TaskQueue) Dequeue(ctx context.Context) (*domain.Task, bool) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			task := q.items[0]
			q.items[0] = nil
			q.items = q.items[1:]
			if len(q.items) > 0 {
				q.signal()
			}
			q.mu.Unlock()
			return task, true
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			return nil, false
		}

		select {
		case <-ctx.Done():
			return nil, false
		case <-q.done:
		case <-q.ready:
		}
	}
}

// Close stops the queue. Tasks still queued are dropped.
func (q *TaskQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.items = nil
	close(q.done)
}

func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *TaskQueue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
