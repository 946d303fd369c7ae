// Package syncutil provides concurrency utilities.
package syncutil

import (
	"context"
	"errors"
	"sync"
)

// ErrStopped is returned by Do once the group has been stopped.
var ErrStopped = errors.New("syncutil: group stopped")

// Group tracks in-flight calls that should be cancelled and awaited together.
type Group struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	wg      sync.WaitGroup
	stopped bool
}

// NewGroup creates a new Group.
func NewGroup() *Group {
	ctx, cancel := context.WithCancel(context.Background())
	return &Group{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Do runs fn on the calling goroutine. The context passed to fn is done when
// either ctx is done or the group is stopped.
func (g *Group) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	g.mu.Lock()
	if g.stopped {
		g.mu.Unlock()
		return ErrStopped
	}
	g.wg.Add(1)
	g.mu.Unlock()
	defer g.wg.Done()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(g.ctx, cancel)
	defer stop()

	return fn(ctx)
}

// Stop cancels all in-flight calls and waits for them to return, or for ctx
// to be done. Calls started afterwards fail with ErrStopped.
func (g *Group) Stop(ctx context.Context) error {
	g.mu.Lock()
	g.stopped = true
	g.mu.Unlock()
	g.cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		g.wg.Wait()
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stopped reports whether Stop has been called.
func (g *Group) Stopped() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stopped
}
