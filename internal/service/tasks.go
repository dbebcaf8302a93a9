package service

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// TaskState is the lifecycle of a background task.
type TaskState string

const (
	TaskRunning   TaskState = "running"
	TaskDone      TaskState = "done"
	TaskFailed    TaskState = "failed"
	TaskCancelled TaskState = "cancelled"
)

// Task is a snapshot of a background task.
type Task struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"`
	State      TaskState  `json:"state"`
	Result     any        `json:"result,omitempty"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// DefaultTaskTTL is how long a finished task stays pollable.
const DefaultTaskTTL = time.Hour

// TaskTracker runs work in the background and keeps its outcome for polling
// until it is older than the TTL. Ids are ULIDs so they sort by start time.
type TaskTracker struct {
	mu      sync.Mutex
	tasks   map[string]*Task
	ttl     time.Duration
	now     func() time.Time
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	entropy *ulid.MonotonicEntropy
}

// TaskOption configures a TaskTracker.
type TaskOption func(*TaskTracker)

// WithTaskTTL sets how long finished tasks are kept. Non-positive values keep
// the default.
func WithTaskTTL(d time.Duration) TaskOption {
	return func(t *TaskTracker) {
		if d > 0 {
			t.ttl = d
		}
	}
}

func NewTaskTracker(opts ...TaskOption) *TaskTracker {
	ctx, cancel := context.WithCancel(context.Background())
	t := &TaskTracker{
		tasks:   map[string]*Task{},
		ttl:     DefaultTaskTTL,
		now:     func() time.Time { return time.Now().UTC() },
		ctx:     ctx,
		cancel:  cancel,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// evictLocked drops finished tasks older than the TTL. Callers hold mu.
func (t *TaskTracker) evictLocked(now time.Time) {
	for id, task := range t.tasks {
		if task.FinishedAt != nil && now.Sub(*task.FinishedAt) > t.ttl {
			delete(t.tasks, id)
		}
	}
}

// Len is the number of tasks currently kept.
func (t *TaskTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.evictLocked(t.now())
	return len(t.tasks)
}

// Start runs fn in its own goroutine and returns the task id at once.
func (t *TaskTracker) Start(kind string, fn func(ctx context.Context) (any, error)) string {
	t.mu.Lock()
	now := t.now()
	t.evictLocked(now)
	id := ulid.MustNew(ulid.Timestamp(now), t.entropy).String()
	t.tasks[id] = &Task{ID: id, Kind: kind, State: TaskRunning, StartedAt: now}
	t.mu.Unlock()

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		res, err := fn(t.ctx)
		t.finish(id, res, err)
	}()
	return id
}

func (t *TaskTracker) finish(id string, res any, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	task := t.tasks[id]
	task.FinishedAt = &now
	switch {
	case err == nil:
		task.State = TaskDone
		task.Result = res
	case t.ctx.Err() != nil:
		task.State = TaskCancelled
		task.Error = err.Error()
	default:
		task.State = TaskFailed
		task.Error = err.Error()
	}
}

// Get returns a snapshot of the task.
func (t *TaskTracker) Get(id string) (Task, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.evictLocked(t.now())
	task, ok := t.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *task, true
}

// Close cancels running tasks and waits for them to return.
func (t *TaskTracker) Close() {
	t.cancel()
	t.wg.Wait()
}
