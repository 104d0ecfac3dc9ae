package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_harvester/internal/domain"
)

func TestTaskQueue_FIFO(t *testing.T) {
	q := NewTaskQueue()
	ctx := context.Background()

	first := domain.NewTask(pufa, domain.TaskDetail)
	second := domain.NewTask(pufa, domain.TaskNews)
	require.True(t, q.Enqueue(first))
	require.True(t, q.Enqueue(second))
	assert.Equal(t, 2, q.Len())

	got, ok := q.Dequeue(ctx)
	require.True(t, ok)
	assert.Same(t, first, got)

	got, ok = q.Dequeue(ctx)
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 0, q.Len())
}

func TestTaskQueue_DequeueBlocksUntilEnqueue(t *testing.T) {
	q := NewTaskQueue()
	task := domain.NewTask(tencent, domain.TaskDetail)

	result := make(chan *domain.Task, 1)
	go func() {
		got, _ := q.Dequeue(context.Background())
		result <- got
	}()

	time.Sleep(10 * time.Millisecond)
	q.Enqueue(task)

	select {
	case got := <-result:
		assert.Same(t, task, got)
	case <-time.After(time.Second):
		t.Fatal("dequeue did not wake up")
	}
}

func TestTaskQueue_CloseReleasesConsumers(t *testing.T) {
	q := NewTaskQueue()
	q.Enqueue(domain.NewTask(pufa, domain.TaskDetail))
	q.Close()

	_, ok := q.Dequeue(context.Background())
	assert.False(t, ok)
	assert.False(t, q.Enqueue(domain.NewTask(pufa, domain.TaskNews)))
	assert.Equal(t, 0, q.Len())

	q.Close()
}

func TestTaskQueue_DequeueHonoursContext(t *testing.T) {
	q := NewTaskQueue()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, ok := q.Dequeue(ctx)
	assert.False(t, ok)
}

func TestTaskQueue_ConcurrentProducersConsumers(t *testing.T) {
	const producers, perProducer = 4, 250
	q := NewTaskQueue()
	ctx := context.Background()

	var produced sync.WaitGroup
	for p := 0; p < producers; p++ {
		produced.Add(1)
		go func() {
			defer produced.Done()
			for i := 0; i < perProducer; i++ {
				q.Enqueue(domain.NewTask(pufa, domain.TaskDetail))
			}
		}()
	}

	var mu sync.Mutex
	seen := make(map[*domain.Task]struct{})
	var consumed sync.WaitGroup
	for c := 0; c < 3; c++ {
		consumed.Add(1)
		go func() {
			defer consumed.Done()
			for {
				task, ok := q.Dequeue(ctx)
				if !ok {
					return
				}
				mu.Lock()
				seen[task] = struct{}{}
				done := len(seen) == producers*perProducer
				mu.Unlock()
				if done {
					q.Close()
				}
			}
		}()
	}

	produced.Wait()
	consumed.Wait()
	assert.Len(t, seen, producers*perProducer)
}
