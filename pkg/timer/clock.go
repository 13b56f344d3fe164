package timer

import (
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Stopper cancels a pending clock callback.
type Stopper interface {
	// Stop prevents the callback from running. It reports false when the
	// callback already ran or was already stopped.
	Stop() bool
}

// Clock schedules callbacks after a delay.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Stopper
}

type clockworkClock struct {
	c clockwork.Clock
}

func (w clockworkClock) AfterFunc(d time.Duration, f func()) Stopper {
	return w.c.AfterFunc(d, f)
}

// FromClockwork adapts a clockwork clock. Callbacks run on their own
// goroutines, so the scheduler needs a dispatch function such as
// [Loop.Post].
func FromClockwork(c clockwork.Clock) Clock {
	return clockworkClock{c: c}
}

// Real is the wall clock. Callbacks run on runtime timer goroutines.
var Real = FromClockwork(clockwork.NewRealClock())

// Manual is a [Clock] that only advances when told to. It is safe for
// concurrent use, but callbacks always run on the goroutine calling Advance,
// in deadline order, before Advance returns. A clockwork fake clock starts a
// goroutine per callback instead; use it through [FromClockwork] with a
// dispatch loop.
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*manualTimer
}

type manualTimer struct {
	m   *Manual
	at  time.Duration
	seq int
	f   func()
}

// NewManual returns a manual clock at time zero.
func NewManual() *Manual {
	return &Manual{}
}

// AfterFunc registers f to run once the clock has advanced by d.
func (m *Manual) AfterFunc(d time.Duration, f func()) Stopper {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{m: m, at: m.now + d, seq: m.seq, f: f}
	m.pending = append(m.pending, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	for i, p := range t.m.pending {
		if p == t {
			t.m.pending = append(t.m.pending[:i], t.m.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Advance moves the clock forward by d, running every callback that comes
// due in deadline order. Callbacks scheduled while advancing run too when
// their deadline falls inside the window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	for {
		next := m.popDue(target)
		if next == nil {
			break
		}
		m.now = next.at
		m.mu.Unlock()
		next.f()
		m.mu.Lock()
	}
	m.now = target
	m.mu.Unlock()
}

// popDue removes and returns the earliest timer due at or before target.
// The caller holds m.mu.
func (m *Manual) popDue(target time.Duration) *manualTimer {
	if len(m.pending) == 0 {
		return nil
	}
	sort.Slice(m.pending, func(i, j int) bool {
		if m.pending[i].at != m.pending[j].at {
			return m.pending[i].at < m.pending[j].at
		}
		return m.pending[i].seq < m.pending[j].seq
	})
	if m.pending[0].at > target {
		return nil
	}
	t := m.pending[0]
	m.pending = m.pending[1:]
	return t
}

// Now returns the elapsed manual time.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of callbacks not yet run or stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

var (
	_ Clock = clockworkClock{}
	_ Clock = (*Manual)(nil)
)
