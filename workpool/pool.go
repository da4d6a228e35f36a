// Package workpool bounds the number of in-flight operations of a run.
package workpool

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/semaphore"
)

// ErrClosed is returned when work is submitted after Wait has started.
var ErrClosed = errors.New("workpool: closed")

// Pool is a fixed-capacity pool shared by every unit of work in a run.
type Pool struct {
	sem  *semaphore.Weighted
	size int64
	wg   sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// New returns a pool that runs at most size operations at once.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{
		sem:  semaphore.NewWeighted(int64(size)),
		size: int64(size),
	}
}

// Size returns the pool capacity.
func (p *Pool) Size() int {
	return int(p.size)
}

// Do waits for a free slot and runs task in the calling goroutine.
func (p *Pool) Do(ctx context.Context, task func()) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)
	task()
	return nil
}

// Go waits for a free slot and runs task in a new goroutine. It blocks the
// caller while the pool is full. Tasks must not call Go or Do themselves.
func (p *Pool) Go(ctx context.Context, task func()) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.wg.Add(1)
	p.mu.Unlock()

	if err := p.sem.Acquire(ctx, 1); err != nil {
		p.wg.Done()
		return err
	}
	go func() {
		defer p.wg.Done()
		defer p.sem.Release(1)
		task()
	}()
	return nil
}

// Wait blocks until every task started with Go has returned. Later calls to Go fail.
func (p *Pool) Wait() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.wg.Wait()
}
