// Package dock implements the docking engine of a desktop shell: the Main
// dock, one Clip per workspace and the Drawers hanging off the Main dock.
//
// # Model
//
// A [Desktop] owns every [Dock] and every [AppIcon] of one screen. Icons
// live in an arena keyed by [IconID]; docks reference them through a fixed
// slot table whose first entry is the dock's own anchor icon. Positions
// are [Slot] values in icon-size units relative to the anchor:
//
//   - the Main dock is a single column (X is always 0)
//   - a Clip grows in both directions around its anchor
//   - a Drawer is a row growing away from the screen edge the Main dock
//     sits on, with indices kept dense (1, 2, ... n)
//
// # Operations
//
// [Desktop.FindFreeSlot] picks a slot for a new icon, [Desktop.Resolve]
// maps a dragged icon's pixel position to a slot, and [Desktop.Attach],
// [Desktop.Reattach], [Desktop.Detach] and [Desktop.MoveBetween] commit
// the result. [Desktop.BeginDrag], [Desktop.DragMotion] and
// [Desktop.EndDrag] tie them together into a drag gesture.
//
// Omnipresent Clip icons ([Desktop.SetOmnipresent]) follow the current
// workspace; every other Clip keeps a free slot for each of them.
//
// # Concurrency
//
// A Desktop is not safe for concurrent use. All calls, including the
// auto raise/lower and expand/collapse timers, are expected to run on a
// single dispatch goroutine such as [timer.Loop]:
//
//	loop := timer.NewLoop(64)
//	sched := timer.NewScheduler(timer.Real, loop.Post)
//	desk, err := dock.NewDesktop(dock.Options{
//	    Geometry:  geometry.NewStatic(1920, 1080, 64),
//	    Scheduler: sched,
//	})
//	go loop.Run(ctx)
//	loop.Do(ctx, func() error { return desk.Enter(desk.MainDock()) })
package dock
