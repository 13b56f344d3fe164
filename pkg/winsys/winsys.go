// Package winsys defines the window-system operations the dock engine
// performs on icon surfaces.
//
// The engine never talks to a display server directly. It calls [Ops] with
// the opaque id of an icon and the pixel position or stacking change it
// wants; an implementation maps ids to real windows. [Recorder] keeps the
// resulting state in memory for tests, the simulator and the HTTP API,
// and package x11 drives an X server through xgbutil.
package winsys

import "github.com/matzehuels/dockworks/pkg/geometry"

// Ops performs window-system changes on icon surfaces. Implementations
// log their own failures; the engine treats every call as fire-and-forget.
type Ops interface {
	// MoveIcon places the surface of id with its top-left corner at pos,
	// creating the surface on first use.
	MoveIcon(id string, pos geometry.Point)

	// Map shows the surface of id.
	Map(id string)

	// Unmap hides the surface of id.
	Unmap(id string)

	// Raise puts the surfaces above normal windows, in the given order.
	Raise(ids ...string)

	// Lower puts the surfaces at the normal window level.
	Lower(ids ...string)

	// Restack orders the surfaces top to bottom.
	Restack(ids []string)

	// Destroy releases the surface of id.
	Destroy(id string)
}

// Nop discards every operation.
type Nop struct{}

func (Nop) MoveIcon(string, geometry.Point) {}
func (Nop) Map(string)                      {}
func (Nop) Unmap(string)                    {}
func (Nop) Raise(...string)                 {}
func (Nop) Lower(...string)                 {}
func (Nop) Restack([]string)                {}
func (Nop) Destroy(string)                  {}

var _ Ops = Nop{}
