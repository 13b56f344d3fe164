package dock

import (
	"math"

	"github.com/matzehuels/dockworks/pkg/errors"
	"github.com/matzehuels/dockworks/pkg/geometry"
)

// FindFreeSlot returns an unoccupied, on-screen slot of a dock without
// changing anything.
//
// Drawers append after their last icon. A Clip sitting in a screen corner
// only searches the screen-edge row and column through that corner. Every
// other dock searches rings of growing radius around the anchor: top row,
// bottom row, left column, right column. The Main dock only accepts
// column 0.
func (d *Desktop) FindFreeSlot(id DockID) (Slot, error) {
	dk, err := d.dock(id)
	if err != nil {
		return Slot{}, err
	}
	if dk.Kind == Drawer {
		if dk.Full() {
			return Slot{}, errors.New(errors.ErrCodeDockFull, "drawer %q is full", dk.Name)
		}
		return Slot{X: dk.count * dk.Side.Sign()}, nil
	}

	reserved := 0
	switch {
	case dk.Kind == Clip && dk.ID != d.CurrentClip():
		reserved = len(d.omni)
	case dk.Kind == Main:
		// Drawer anchors sit on dock rows.
		reserved = len(d.drawers)
	}
	if dk.count+reserved >= dk.Capacity() {
		return Slot{}, errors.New(errors.ErrCodeDockFull, "%s holds %d of %d icons (%d reserved)",
			dk.Kind, dk.count, dk.Capacity(), reserved)
	}

	used := d.usedSlots(dk)
	if dk.Kind == Clip {
		if c, ok := d.clipCorner(dk); ok {
			return d.cornerSearch(dk, c, used)
		}
	}
	if dk.Kind == Main {
		return d.columnSearch(dk, used)
	}
	return d.ringSearch(dk, used)
}

// usedSlots collects the slots a new icon may not take: local icons, the
// omnipresent chain on clips, and drawer rows on the Main dock.
func (d *Desktop) usedSlots(dk *Dock) map[Slot]bool {
	used := make(map[Slot]bool, dk.count+len(d.omni))
	for _, id := range dk.Icons() {
		used[d.icons[id].Slot] = true
	}
	switch dk.Kind {
	case Clip:
		for _, id := range d.omni {
			used[d.icons[id].Slot] = true
		}
	case Main:
		for _, dr := range d.drawers {
			used[Slot{Y: d.drawerRow(d.docks[dr])}] = true
		}
	}
	return used
}

func (d *Desktop) slotOnScreen(dk *Dock, s Slot) bool {
	return geometry.OnScreen(d.geo, dk.SlotPixel(s, d.iconSize()))
}

func ringRadius(capacity int) int {
	return int(math.Ceil(math.Sqrt(float64(capacity))))
}

func (d *Desktop) ringSearch(dk *Dock, used map[Slot]bool) (Slot, error) {
	try := func(s Slot) bool {
		return !used[s] && d.slotOnScreen(dk, s)
	}
	r := ringRadius(dk.Capacity())
	for i := 1; i <= r; i++ {
		for x := -i; x <= i; x++ {
			if s := (Slot{x, -i}); try(s) {
				return s, nil
			}
		}
		for x := -i; x <= i; x++ {
			if s := (Slot{x, i}); try(s) {
				return s, nil
			}
		}
		for y := -i + 1; y < i; y++ {
			if s := (Slot{-i, y}); try(s) {
				return s, nil
			}
		}
		for y := -i + 1; y < i; y++ {
			if s := (Slot{i, y}); try(s) {
				return s, nil
			}
		}
	}
	return Slot{}, errors.New(errors.ErrCodeNoOnScreenSlot, "no on-screen slot within %d rings of %s", r, dk.Kind)
}

// columnSearch is the ring search restricted to column 0: each ring only
// contributes its top-row and bottom-row center slots.
func (d *Desktop) columnSearch(dk *Dock, used map[Slot]bool) (Slot, error) {
	for i := 1; i < dk.Capacity(); i++ {
		for _, s := range []Slot{{0, -i}, {0, i}} {
			if !used[s] && d.slotOnScreen(dk, s) {
				return s, nil
			}
		}
	}
	return Slot{}, errors.New(errors.ErrCodeNoOnScreenSlot, "no on-screen slot in the dock column")
}

// corner describes the growth directions of a Clip in a screen corner.
type corner struct {
	hx, vy int
}

func (d *Desktop) clipCorner(dk *Dock) (corner, bool) {
	b := d.geo.ScreenBounds()
	s := d.iconSize()

	ex := b.Right()
	if main, ok := d.docks[d.main]; ok && main.Side == Right {
		ex -= s + ExtraSpace
	}
	if ex < dk.Origin.X {
		ex = dk.Origin.X
	}
	ey := b.Bottom()

	left := dk.Origin.X-b.X < 1
	top := dk.Origin.Y-b.Y < 1
	right := dk.Origin.X >= ex-s
	bottom := dk.Origin.Y >= ey-s

	switch {
	case left && top:
		return corner{hx: 1, vy: 1}, true
	case right && top:
		return corner{hx: -1, vy: 1}, true
	case left && bottom:
		return corner{hx: 1, vy: -1}, true
	case right && bottom:
		return corner{hx: -1, vy: -1}, true
	}
	return corner{}, false
}

func (d *Desktop) cornerSearch(dk *Dock, c corner, used map[Slot]bool) (Slot, error) {
	b := d.geo.ScreenBounds()
	s := d.iconSize()
	hcount := min(dk.Capacity(), b.W/s)
	vcount := min(dk.Capacity(), b.H/s)

	hused := make([]bool, hcount)
	vused := make([]bool, vcount)
	for sl := range used {
		switch {
		case sl.X == 0 && sl.Y*c.vy > 0 && abs(sl.Y) < vcount:
			vused[abs(sl.Y)] = true
		case sl.Y == 0 && sl.X*c.hx > 0 && abs(sl.X) < hcount:
			hused[abs(sl.X)] = true
		}
	}

	for i := 1; i < max(hcount, vcount); i++ {
		if i < hcount && !hused[i] {
			return Slot{X: i * c.hx}, nil
		}
		if i < vcount && !vused[i] {
			return Slot{Y: i * c.vy}, nil
		}
	}
	return Slot{}, errors.New(errors.ErrCodeNoOnScreenSlot, "screen edges of the clip corner are full")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
