package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerManager_ProcessesJobs(t *testing.T) {
	w := NewWorkerManager(10, 3)
	var sum atomic.Int64
	w.SetWorker(func(_ int, job interface{}) {
		sum.Add(int64(job.(int)))
	})

	done := make(chan error, 1)
	go func() { done <- w.Start() }()

	ctx := context.Background()
	for i := 1; i <= 10; i++ {
		require.NoError(t, w.Enqueue(ctx, i))
	}

	assert.Eventually(t, func() bool { return sum.Load() == 55 }, time.Second, 5*time.Millisecond)

	w.Exit()
	w.Exit()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("workers did not stop")
	}
}

func TestWorkerManager_EnqueueHonoursContext(t *testing.T) {
	w := NewWorkerManager(0, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, w.Enqueue(ctx, 1), context.DeadlineExceeded)

	w.Exit()
	assert.ErrorIs(t, w.Enqueue(context.Background(), 1), context.Canceled)
}
