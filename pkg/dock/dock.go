package dock

import "github.com/matzehuels/dockworks/pkg/geometry"

// Dock is a fixed-capacity container of icon slots. Index 0 of the slot
// table always holds the anchor icon.
//
// Docks are created and mutated only through their [Desktop].
type Dock struct {
	ID   DockID
	Kind Kind
	// Name labels drawers; Main and Clip docks leave it empty.
	Name string
	// Origin is the pixel position of the anchor slot.
	Origin geometry.Point
	Side   Side
	// Workspace is the owning workspace of a Clip.
	Workspace int
	Flags

	// PasteCommand and DropCommand are the drawer-level templates.
	PasteCommand string
	DropCommand  string

	slots  []IconID
	count  int
	hidden bool
}

// Capacity returns the fixed slot count, anchor included.
func (d *Dock) Capacity() int { return len(d.slots) }

// Count returns the number of occupied slots, anchor included.
func (d *Dock) Count() int { return d.count }

// Anchor returns the dock's own icon.
func (d *Dock) Anchor() IconID { return d.slots[0] }

// Hidden reports whether every surface of the dock is unmapped, as for
// the Clip of a workspace that is not shown.
func (d *Dock) Hidden() bool { return d.hidden }

// Full reports whether no slot is free.
func (d *Dock) Full() bool { return d.count >= len(d.slots) }

// Icons returns the occupied slot entries in slot-table order, anchor first.
func (d *Dock) Icons() []IconID {
	out := make([]IconID, 0, d.count)
	for _, id := range d.slots {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

// Members returns the non-anchor icons in slot-table order.
func (d *Dock) Members() []IconID {
	all := d.Icons()
	if len(all) > 0 && all[0] == d.slots[0] {
		return all[1:]
	}
	return all
}

// SlotPixel returns the top-left pixel of slot s.
func (d *Dock) SlotPixel(s Slot, iconSize int) geometry.Point {
	return geometry.Point{
		X: d.Origin.X + s.X*iconSize,
		Y: d.Origin.Y + s.Y*iconSize,
	}
}

func (d *Dock) put(id IconID) {
	for i := 1; i < len(d.slots); i++ {
		if d.slots[i] == "" {
			d.slots[i] = id
			d.count++
			return
		}
	}
}

func (d *Dock) remove(id IconID) bool {
	for i := 1; i < len(d.slots); i++ {
		if d.slots[i] == id {
			d.slots[i] = ""
			d.count--
			return true
		}
	}
	return false
}

func (d *Dock) holds(id IconID) bool {
	for _, s := range d.slots {
		if s == id {
			return true
		}
	}
	return false
}
