package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/careerplus/careerplus-api/internal/redact"
)

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int

	// TaskTimeout bounds each task's execution
	TaskTimeout time.Duration
}

// DefaultTaskRunnerConfig returns a TaskRunnerConfig with reasonable defaults
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount: 4,
		QueueSize:   100,
		TaskTimeout: time.Minute,
	}
}

// TaskRunner owns a queue and the worker pool draining it.
type TaskRunner struct {
	queue  *TaskQueue
	pool   *WorkerPool
	logger *slog.Logger
}

// NewTaskRunner creates a TaskRunner. Call Start before submitting.
func NewTaskRunner(config TaskRunnerConfig, logger *slog.Logger) *TaskRunner {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "task_runner")

	queue := NewTaskQueue(config.QueueSize, logger)
	pool := NewWorkerPool(queue, WorkerPoolConfig{
		WorkerCount: config.WorkerCount,
		TaskTimeout: config.TaskTimeout,
	}, logger)

	return &TaskRunner{queue: queue, pool: pool, logger: logger}
}

// SetErrorHandler allows setting a custom error handler function
func (r *TaskRunner) SetErrorHandler(handler func(task Task, err error)) {
	r.pool.SetErrorHandler(handler)
}

// Start launches the workers.
func (r *TaskRunner) Start() {
	r.pool.Start()
}

// Submit queues task without blocking. It returns ErrQueueFull when the
// queue is at capacity and ErrQueueClosed after Shutdown.
func (r *TaskRunner) Submit(task Task) error {
	if err := r.queue.Enqueue(task); err != nil {
		r.logger.Warn("task rejected",
			"task_type", task.Type(),
			"error", redact.Error(err))
		return fmt.Errorf("failed to submit %s task: %w", task.Type(), err)
	}
	return nil
}

// Pending returns the number of queued tasks not yet picked up.
func (r *TaskRunner) Pending() int {
	return r.queue.Len()
}

// Shutdown stops accepting tasks and waits for queued ones to finish, up to
// ctx's deadline.
func (r *TaskRunner) Shutdown(ctx context.Context) error {
	r.queue.Close()
	return r.pool.Stop(ctx)
}
