package task

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRunner_SubmitAndShutdown(t *testing.T) {
	runner := NewTaskRunner(TaskRunnerConfig{WorkerCount: 2, QueueSize: 10}, setupTestLogger())
	runner.Start()

	var mu sync.Mutex
	seen := 0
	for i := 0; i < 5; i++ {
		require.NoError(t, runner.Submit(NewFuncTask(TaskTypeTelegramUpdate, func(ctx context.Context) error {
			mu.Lock()
			seen++
			mu.Unlock()
			return nil
		})))
	}

	require.NoError(t, runner.Shutdown(context.Background()))
	assert.Equal(t, 5, seen)

	err := runner.Submit(NewFuncTask(TaskTypeTelegramUpdate, func(context.Context) error { return nil }))
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestTaskRunner_QueueFull(t *testing.T) {
	runner := NewTaskRunner(TaskRunnerConfig{WorkerCount: 1, QueueSize: 1}, setupTestLogger())
	runner.Start()

	release := make(chan struct{})
	started := make(chan struct{})
	blocking := NewFuncTask(TaskTypeTelegramUpdate, func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	})
	noop := func(context.Context) error { return nil }

	require.NoError(t, runner.Submit(blocking))
	<-started
	require.NoError(t, runner.Submit(NewFuncTask(TaskTypeTelegramUpdate, noop)))
	assert.Equal(t, 1, runner.Pending())

	err := runner.Submit(NewFuncTask(TaskTypeTelegramUpdate, noop))
	assert.ErrorIs(t, err, ErrQueueFull)

	close(release)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, runner.Shutdown(ctx))
}

func TestNewFuncTask(t *testing.T) {
	a := NewFuncTask("x", func(context.Context) error { return nil })
	b := NewFuncTask("x", func(context.Context) error { return nil })

	assert.Equal(t, "x", a.Type())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.NoError(t, a.Execute(context.Background()))
}
