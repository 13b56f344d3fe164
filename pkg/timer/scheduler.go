package timer

import (
	"errors"
	"time"

	"github.com/matzehuels/dockworks/pkg/observability"
)

// ErrStaleToken is returned when cancelling a token whose action already
// fired, was already cancelled, or was never issued by this scheduler.
var ErrStaleToken = errors.New("timer: stale token")

// Token identifies one scheduled action. The zero Token refers to nothing.
type Token struct {
	id uint64
}

// IsZero reports whether t is the zero Token.
func (t Token) IsZero() bool { return t.id == 0 }

type pending struct {
	name string
	stop Stopper
}

// Scheduler issues one-shot actions and their cancellation tokens.
//
// Schedule, Cancel and Pending must be called from the dispatch goroutine;
// the zero value is not usable, use [NewScheduler].
type Scheduler struct {
	clock    Clock
	dispatch func(func()) bool
	next     uint64
	live     map[uint64]pending
}

// NewScheduler creates a scheduler on clock. Expired callbacks are handed
// to dispatch, which must run them on the scheduler's goroutine. A nil
// dispatch runs callbacks directly from the clock, which is only correct
// for [Manual] clocks.
func NewScheduler(clock Clock, dispatch func(func()) bool) *Scheduler {
	if clock == nil {
		clock = Real
	}
	if dispatch == nil {
		dispatch = func(f func()) bool {
			f()
			return true
		}
	}
	return &Scheduler{
		clock:    clock,
		dispatch: dispatch,
		live:     make(map[uint64]pending),
	}
}

// Schedule runs fn once after d and returns its token. name labels the
// action for observability hooks.
func (s *Scheduler) Schedule(name string, d time.Duration, fn func()) Token {
	s.next++
	id := s.next
	stop := s.clock.AfterFunc(d, func() {
		s.dispatch(func() { s.fire(id, fn) })
	})
	s.live[id] = pending{name: name, stop: stop}
	observability.Timers().OnSchedule(name, d)
	return Token{id: id}
}

func (s *Scheduler) fire(id uint64, fn func()) {
	p, ok := s.live[id]
	if !ok {
		// Cancelled after the clock expired but before dispatch.
		return
	}
	delete(s.live, id)
	observability.Timers().OnFire(p.name)
	fn()
}

// Cancel stops the action behind t. It returns [ErrStaleToken] when the
// action is no longer pending.
func (s *Scheduler) Cancel(t Token) error {
	p, ok := s.live[t.id]
	if !ok {
		return ErrStaleToken
	}
	delete(s.live, t.id)
	p.stop.Stop()
	observability.Timers().OnCancel(p.name)
	return nil
}

// Pending reports whether the action behind t has neither fired nor been
// cancelled.
func (s *Scheduler) Pending(t Token) bool {
	_, ok := s.live[t.id]
	return ok
}

// Len returns the number of pending actions.
func (s *Scheduler) Len() int {
	return len(s.live)
}

// CancelAll cancels every pending action.
func (s *Scheduler) CancelAll() {
	for id := range s.live {
		_ = s.Cancel(Token{id: id})
	}
}
