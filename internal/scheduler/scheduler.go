// Package scheduler runs delayed per-game tasks, such as the opponent's move,
// tagged with the game generation they were scheduled for.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Task is one pending delayed call. Its context is the cancellation token.
type Task struct {
	Key        string
	Generation uint64

	ctx    context.Context
	cancel context.CancelFunc
	timer  *time.Timer
}

// Done is closed once the task is cancelled or has run.
func (that *Task) Done() <-chan struct{} {
	return that.ctx.Done()
}

func (that *Task) stop() {
	that.timer.Stop()
	that.cancel()
}

type Scheduler struct {
	logger *slog.Logger

	mu    sync.Mutex
	tasks map[string]*Task
}

func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		logger: logger.With("component", "scheduler"),
		tasks:  make(map[string]*Task),
	}
}

// Schedule runs fn(generation) after delay. A task already pending for key is
// cancelled first. fn runs on its own goroutine and must still check that the
// generation is current, since cancellation can race the timer.
func (that *Scheduler) Schedule(key string, generation uint64, delay time.Duration, fn func(ctx context.Context, generation uint64)) *Task {
	ctx, cancel := context.WithCancel(context.Background())
	task := &Task{
		Key:        key,
		Generation: generation,
		ctx:        ctx,
		cancel:     cancel,
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if prev, ok := that.tasks[key]; ok {
		prev.stop()
	}

	task.timer = time.AfterFunc(delay, func() {
		defer that.finish(task)

		if ctx.Err() != nil {
			return
		}

		fn(ctx, generation)
	})
	that.tasks[key] = task

	that.logger.Debug("task scheduled", "key", key, "generation", generation, "delay", delay)

	return task
}

// Cancel drops the pending task for key, if any.
func (that *Scheduler) Cancel(key string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if task, ok := that.tasks[key]; ok {
		task.stop()
		delete(that.tasks, key)
		that.logger.Debug("task cancelled", "key", key, "generation", task.Generation)
	}
}

// Pending reports whether a task is waiting for key.
func (that *Scheduler) Pending(key string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	_, ok := that.tasks[key]
	return ok
}

// Stop cancels every pending task.
func (that *Scheduler) Stop() {
	that.mu.Lock()
	defer that.mu.Unlock()

	for key, task := range that.tasks {
		task.stop()
		delete(that.tasks, key)
	}
}

func (that *Scheduler) finish(task *Task) {
	task.cancel()

	that.mu.Lock()
	defer that.mu.Unlock()

	if current, ok := that.tasks[task.Key]; ok && current == task {
		delete(that.tasks, task.Key)
	}
}
