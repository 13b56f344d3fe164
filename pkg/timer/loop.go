package timer

import (
	"context"
	"errors"
	"sync"
)

// ErrLoopClosed is returned when work is handed to a loop that has stopped.
var ErrLoopClosed = errors.New("timer: loop closed")

// Loop is a single-goroutine dispatch queue.
type Loop struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once
}

// NewLoop creates a loop whose queue holds up to buffer closures before
// Post blocks.
func NewLoop(buffer int) *Loop {
	return &Loop{
		queue: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Run executes queued closures until ctx is cancelled. It returns ctx.Err().
// Closures still queued when the loop stops are dropped.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-l.queue:
			f()
		}
	}
}

// Post queues f. It reports false when the loop has stopped.
func (l *Loop) Post(f func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- f:
		return true
	case <-l.done:
		return false
	}
}

// Do runs f on the loop and waits for its result.
func (l *Loop) Do(ctx context.Context, f func() error) error {
	result := make(chan error, 1)
	if !l.Post(func() { result <- f() }) {
		return ErrLoopClosed
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		// f may have run just before the loop stopped.
		select {
		case err := <-result:
			return err
		default:
			return ErrLoopClosed
		}
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
