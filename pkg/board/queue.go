package board

import (
	"context"
	"sync"
)

// Queue defers notification callbacks so they never run inside the board mutation that
// produced them. Tasks run in FIFO order on whichever goroutine drains the queue; a task
// that mutates the board only enqueues more tasks, which run after it returns.
type Queue struct {
	mu    sync.Mutex
	tasks []func()
	ready chan struct{}
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Push adds a task without running it.
func (q *Queue) Push(task func()) {
	if task == nil {
		return
	}
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Ready is signaled when tasks are pending.
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

func (q *Queue) pop() (func(), bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 {
		return nil, false
	}
	task := q.tasks[0]
	q.tasks[0] = nil
	q.tasks = q.tasks[1:]
	return task, true
}

// Drain runs pending tasks, including tasks pushed while draining, until none are left.
// It returns the number of tasks run.
func (q *Queue) Drain() int {
	n := 0
	for {
		task, ok := q.pop()
		if !ok {
			return n
		}
		task()
		n++
	}
}

// Run drains the queue whenever it is signaled until the context is done.
func (q *Queue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.ready:
			q.Drain()
		}
	}
}
