package workpool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolBoundsConcurrency(t *testing.T) {
	p := New(3)

	var inFlight, peak int64
	var done int64
	for i := 0; i < 30; i++ {
		err := p.Go(context.Background(), func() {
			cur := atomic.AddInt64(&inFlight, 1)
			for {
				old := atomic.LoadInt64(&peak)
				if cur <= old || atomic.CompareAndSwapInt64(&peak, old, cur) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt64(&inFlight, -1)
			atomic.AddInt64(&done, 1)
		})
		require.NoError(t, err)
	}
	p.Wait()

	assert.Equal(t, int64(30), done)
	assert.LessOrEqual(t, peak, int64(3))
}

func TestPoolDoSharesCapacity(t *testing.T) {
	p := New(1)
	release := make(chan struct{})
	started := make(chan struct{})

	require.NoError(t, p.Go(context.Background(), func() {
		close(started)
		<-release
	}))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := p.Do(ctx, func() { t.Error("task ran while pool was full") })
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	p.Wait()
}

func TestPoolGoAfterWait(t *testing.T) {
	p := New(2)
	p.Wait()
	assert.ErrorIs(t, p.Go(context.Background(), func() {}), ErrClosed)
}

func TestPoolDoRunsInline(t *testing.T) {
	p := New(2)
	var mu sync.Mutex
	ran := false
	require.NoError(t, p.Do(context.Background(), func() {
		mu.Lock()
		ran = true
		mu.Unlock()
	}))
	assert.True(t, ran)
	assert.Equal(t, 2, p.Size())
}
