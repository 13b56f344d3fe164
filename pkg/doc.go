// Package pkg holds the dockworks libraries.
//
// # Overview
//
// Dockworks keeps application launcher icons in three kinds of dock: the
// screen-edge Main dock, one Clip per workspace and any number of Drawers
// sliding out of the Main dock. The packages are layered:
//
//  1. [geometry], [timer], [errors] - screen model, dispatch loop and
//     one-shot timers, the error taxonomy
//  2. [dock] - the engine: slots, snapping, drag sessions, drawer
//     compaction, omnipresent icons, auto raise and collapse
//  3. [winsys], [launcher] - what the engine drives: icon surfaces and
//     application processes
//  4. [plist], [io], [state], [store] - the persisted session document and
//     the file, redis and mongo backends that keep it
//  5. [config], [render], [observability] - TOML configuration, DOT and SVG
//     topology renderings, instrumentation hooks
//
// # Data Flow
//
//	config.toml ──► dock.Desktop ◄── pointer, workspace and process events
//	                    │
//	        ┌───────────┼───────────────┐
//	        ▼           ▼               ▼
//	  winsys.Ops   launcher.Launcher   state.SaveSession ──► store.Store
//
// Every engine call runs on one dispatch goroutine ([timer.Loop]); timers
// and process exits are posted back onto it.
//
// # Quick Start
//
//	geo := geometry.NewStatic(1280, 1024, 64)
//	d, _ := dock.NewDesktop(dock.Options{Geometry: geo, Workspaces: 4})
//	defer d.Close()
//
//	id := d.NewIcon("xterm", "XTerm", "xterm", 0)
//	slot, _ := d.DockIcon(d.MainDock(), id) // first free Main slot, 0,1
//
//	doc, _ := state.SaveSession(d)
//	_ = dio.ExportDocument(doc, "state.json")
package pkg
