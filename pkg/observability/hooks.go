// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about dock mutations, timers, and state storage.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Dock and timer hooks are called from the dispatch goroutine and must not
// block. Store hooks may be called from any goroutine.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetDockHooks(&myDockHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Dock().OnAttach(dockID, iconID, x, y)
//	observability.Store().OnSave(ctx, "redis", key, len(data), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Dock Hooks
// =============================================================================

// DockHooks receives events from the attach/detach manager.
type DockHooks interface {
	// OnAttach records an icon docked at slot (x, y).
	OnAttach(dockID, iconID string, x, y int)

	// OnDetach records an icon leaving a dock.
	OnDetach(dockID, iconID string)

	// OnMove records an icon moving between two docks.
	OnMove(srcID, destID, iconID string, x, y int)

	// OnReject records a refused placement.
	OnReject(dockID, iconID string, err error)
}

// =============================================================================
// Timer Hooks
// =============================================================================

// TimerHooks receives events from auto-behavior timers.
type TimerHooks interface {
	// OnSchedule records a one-shot action scheduled after d.
	OnSchedule(name string, d time.Duration)

	// OnFire records a pending action running.
	OnFire(name string)

	// OnCancel records a pending action cancelled before it ran.
	OnCancel(name string)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from dock state storage.
type StoreHooks interface {
	// OnLoad records a state document read.
	OnLoad(ctx context.Context, backend, key string, duration time.Duration, err error)

	// OnSave records a state document write of size bytes.
	OnSave(ctx context.Context, backend, key string, size int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDockHooks is a no-op implementation of DockHooks.
type NoopDockHooks struct{}

func (NoopDockHooks) OnAttach(string, string, int, int)       {}
func (NoopDockHooks) OnDetach(string, string)                 {}
func (NoopDockHooks) OnMove(string, string, string, int, int) {}
func (NoopDockHooks) OnReject(string, string, error)          {}

// NoopTimerHooks is a no-op implementation of TimerHooks.
type NoopTimerHooks struct{}

func (NoopTimerHooks) OnSchedule(string, time.Duration) {}
func (NoopTimerHooks) OnFire(string)                    {}
func (NoopTimerHooks) OnCancel(string)                  {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnLoad(context.Context, string, string, time.Duration, error)      {}
func (NoopStoreHooks) OnSave(context.Context, string, string, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	dockHooks  DockHooks  = NoopDockHooks{}
	timerHooks TimerHooks = NoopTimerHooks{}
	storeHooks StoreHooks = NoopStoreHooks{}
	hooksMu    sync.RWMutex
)

// SetDockHooks registers custom dock hooks.
// This should be called once at application startup before any dock operations.
func SetDockHooks(h DockHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		dockHooks = h
	}
}

// SetTimerHooks registers custom timer hooks.
func SetTimerHooks(h TimerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		timerHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Dock returns the registered dock hooks.
func Dock() DockHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return dockHooks
}

// Timers returns the registered timer hooks.
func Timers() TimerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return timerHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	dockHooks = NoopDockHooks{}
	timerHooks = NoopTimerHooks{}
	storeHooks = NoopStoreHooks{}
}
