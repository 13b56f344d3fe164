// Package timer provides the single dispatch loop and the token-based
// one-shot scheduler that drive every dock mutation.
//
// # Dispatch Loop
//
// A [Loop] runs queued closures one at a time on the goroutine that called
// [Loop.Run]. Every other goroutine (timer expirations, HTTP handlers,
// terminal input) hands work to the loop with [Loop.Post] or [Loop.Do], so
// dock state is only ever touched by one goroutine and needs no locks.
//
// # Scheduler
//
// A [Scheduler] runs a callback once after a delay. Scheduling returns a
// [Token]; the token is the only handle to the pending action. Cancelling
// a token whose action already fired or was already cancelled returns
// [ErrStaleToken], and a callback whose token was cancelled never runs,
// even if its timer expired while the cancellation was in flight.
//
// Expirations are delivered through the dispatch function given to
// [NewScheduler], normally [Loop.Post]:
//
//	loop := timer.NewLoop(64)
//	sched := timer.NewScheduler(timer.Real, loop.Post)
//	tok := sched.Schedule("raise", 600*time.Millisecond, raise)
//	...
//	_ = sched.Cancel(tok)
//
// # Testing
//
// [Manual] is a deterministic [Clock]. With a nil dispatch function the
// scheduler fires callbacks inline from [Manual.Advance]:
//
//	clock := timer.NewManual()
//	sched := timer.NewScheduler(clock, nil)
//	sched.Schedule("collapse", time.Second, collapse)
//	clock.Advance(time.Second) // collapse runs here
package timer
