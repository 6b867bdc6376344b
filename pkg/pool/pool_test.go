package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolSubmit(t *testing.T) {
	p, err := NewPool("test", IngestPool, &Config{
		Capacity:       4,
		ExpiryDuration: time.Second,
	})
	require.NoError(t, err)
	defer p.Release()

	var counter atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		require.NoError(t, p.Submit(func() {
			defer wg.Done()
			counter.Add(1)
		}))
	}
	wg.Wait()

	assert.Equal(t, int64(20), counter.Load())

	stats := p.Stats()
	assert.Equal(t, int64(20), stats.SubmittedTasks)
	assert.Equal(t, int64(20), stats.CompletedTasks)
	assert.Equal(t, int64(0), stats.FailedTasks)
}

func TestPoolSubmitAfterRelease(t *testing.T) {
	p, err := NewPool("test", IngestPool, nil)
	require.NoError(t, err)

	p.Release()
	assert.ErrorIs(t, p.Submit(func() {}), ErrPoolClosed)
}

func TestPoolNonblockingOverload(t *testing.T) {
	p, err := NewPool("test", BackgroundPool, &Config{
		Capacity:       1,
		ExpiryDuration: time.Second,
		Nonblocking:    true,
	})
	require.NoError(t, err)
	defer p.Release()

	block := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	require.NoError(t, p.Submit(func() {
		defer wg.Done()
		<-block
	}))

	// worker is occupied, nonblocking pool must reject
	err = p.Submit(func() {})
	assert.ErrorIs(t, err, ErrPoolOverload)
	assert.Equal(t, int64(1), p.Stats().RejectedTasks)

	close(block)
	wg.Wait()
}

func TestPoolSubmitWithContextCancelled(t *testing.T) {
	p, err := NewPool("test", IngestPool, nil)
	require.NoError(t, err)
	defer p.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = p.SubmitWithContext(ctx, func() {
		t.Fatal("task must not run")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPoolPanicRecovery(t *testing.T) {
	recovered := make(chan interface{}, 1)
	p, err := NewPool("test", IngestPool, &Config{
		Capacity:       2,
		ExpiryDuration: time.Second,
		PanicHandler: func(v interface{}) {
			recovered <- v
		},
	})
	require.NoError(t, err)
	defer p.Release()

	require.NoError(t, p.Submit(func() {
		panic("boom")
	}))

	select {
	case v := <-recovered:
		assert.Equal(t, "boom", v)
	case <-time.After(2 * time.Second):
		t.Fatal("panic handler not invoked")
	}

	assert.Eventually(t, func() bool {
		return p.Stats().PanicRecovered == 1
	}, time.Second, 10*time.Millisecond)
}

func TestPoolTune(t *testing.T) {
	p, err := NewPool("test", IngestPool, &Config{
		Capacity:       2,
		ExpiryDuration: time.Second,
	})
	require.NoError(t, err)
	defer p.Release()

	p.Tune(8)
	assert.Equal(t, 8, p.Cap())
}
