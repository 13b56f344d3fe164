package dock

import (
	"sort"

	"github.com/matzehuels/dockworks/pkg/errors"
	"github.com/matzehuels/dockworks/pkg/geometry"
)

// Shift moves one drawer icon by one slot to open or close a hole.
type Shift struct {
	Icon IconID
	From Slot
	To   Slot
}

// Resolution is an accepted drop target.
type Resolution struct {
	Dock DockID
	Slot Slot
	// Shifts lists drawer icons that must slide to make room, in slot order.
	Shifts []Shift
}

// Resolve maps the prospective top-left pixel pos of a dragged icon to a
// slot of dock id. redocking is true when the icon is being dragged within
// the dock that already owns it. Resolve never mutates state; a refusal
// is a placement error (see [errors.IsPlacement]).
func (d *Desktop) Resolve(id DockID, iconID IconID, pos geometry.Point, redocking bool) (Resolution, error) {
	dk, err := d.dock(id)
	if err != nil {
		return Resolution{}, err
	}
	ic, err := d.icon(iconID)
	if err != nil {
		return Resolution{}, err
	}

	if !redocking && dk.Full() {
		return Resolution{}, errors.New(errors.ErrCodeDockFull, "%s is full", dk.Kind)
	}

	ex := d.exactSlot(dk, pos)
	if !d.slotOnScreen(dk, ex) {
		return Resolution{}, errors.New(errors.ErrCodeNoOnScreenSlot, "slot %s is off screen", ex)
	}

	var res Resolution
	switch dk.Kind {
	case Main:
		res, err = d.resolveMain(dk, ic, ex, pos, redocking)
	case Clip:
		res, err = d.resolveClip(dk, ic, ex, redocking)
	case Drawer:
		res, err = d.resolveDrawer(dk, ic, ex, redocking)
	}
	res.Dock = dk.ID
	return res, err
}

// exactSlot rounds pos to the nearest slot, half an icon toward the origin.
func (d *Desktop) exactSlot(dk *Dock, pos geometry.Point) Slot {
	s := d.iconSize()
	off := s / 2
	round := func(p, o int) int {
		if p < o {
			return (p - off - o) / s
		}
		return (p + off - o) / s
	}
	return Slot{X: round(pos.X, dk.Origin.X), Y: round(pos.Y, dk.Origin.Y)}
}

func (d *Desktop) resolveMain(dk *Dock, ic *AppIcon, ex Slot, pos geometry.Point, redocking bool) (Resolution, error) {
	if ic.Dock != dk.ID && ex.X != 0 {
		return Resolution{}, errors.New(errors.ErrCodeOutOfReach, "pointer is off the dock column")
	}
	if !redocking && ex.X != 0 {
		return Resolution{}, errors.New(errors.ErrCodeOutOfReach, "pointer is off the dock column")
	}
	if d.drawerAt(ex.Y) != nil {
		// The drawer on that row takes the drop instead.
		return Resolution{}, errors.New(errors.ErrCodeSlotCollision, "row %d belongs to a drawer", ex.Y)
	}

	occupant := d.iconAt(dk, Slot{Y: ex.Y})
	if !redocking {
		if occupant != "" {
			return Resolution{}, errors.New(errors.ErrCodeSlotCollision, "slot %s is occupied", Slot{Y: ex.Y})
		}
		return Resolution{Slot: Slot{Y: ex.Y}}, nil
	}

	if abs(ex.X) > d.threshold {
		return Resolution{}, errors.New(errors.ErrCodeOutOfReach, "icon dragged %d slots off the column", abs(ex.X))
	}
	if occupant == "" || occupant == ic.ID {
		return Resolution{Slot: Slot{Y: ex.Y}}, nil
	}

	// Look for the nearest usable row, alternating directions and starting
	// on the side the pointer leans toward.
	s := d.iconSize()
	dir := -1
	if ex.Y*s < pos.Y+s/2-dk.Origin.Y {
		dir = 1
	}
	found := false
	closest := ex.Y
	for i := 0; i < (d.threshold+1)*2 && !found; i++ {
		closest = dir*(i/2) + ex.Y
		found = d.mainRowFree(dk, ic.ID, closest)
		dir = -dir
	}
	if found && ((ex.Y >= closest && ex.Y-closest < d.threshold+1) ||
		(ex.Y < closest && closest-ex.Y <= d.threshold+1)) {
		return Resolution{Slot: Slot{Y: closest}}, nil
	}
	return Resolution{}, errors.New(errors.ErrCodeSlotCollision, "no free row near %d", ex.Y)
}

// mainRowFree reports whether row y of the Main dock is on screen, free of
// other icons and free of drawers.
func (d *Desktop) mainRowFree(dk *Dock, self IconID, y int) bool {
	if !d.slotOnScreen(dk, Slot{Y: y}) {
		return false
	}
	if occ := d.iconAt(dk, Slot{Y: y}); occ != "" && occ != self {
		return false
	}
	return d.drawerAt(y) == nil
}

func (d *Desktop) resolveClip(dk *Dock, ic *AppIcon, ex Slot, redocking bool) (Resolution, error) {
	clips := []*Dock{dk}
	if ic.Omnipresent {
		clips = clips[:0]
		d.EachClip(func(c *Dock) { clips = append(clips, c) })
	}

	var occupant IconID
	neighbours := false
	for _, c := range clips {
		for _, id := range c.Icons() {
			other := d.icons[id]
			if occupant == "" && other.Slot == ex {
				occupant = id
			}
			if id != ic.ID && abs(other.Slot.X-ex.X) <= ClipAttachVicinity &&
				abs(other.Slot.Y-ex.Y) <= ClipAttachVicinity {
				neighbours = true
			}
		}
	}

	if !neighbours {
		return Resolution{}, errors.New(errors.ErrCodeOutOfReach, "slot %s has no neighbouring icon", ex)
	}
	if occupant != "" && !(redocking && occupant == ic.ID) {
		return Resolution{}, errors.New(errors.ErrCodeSlotCollision, "slot %s is occupied", ex)
	}
	return Resolution{Slot: ex}, nil
}

func (d *Desktop) resolveDrawer(dk *Dock, ic *AppIcon, ex Slot, redocking bool) (Resolution, error) {
	sgn := dk.Side.Sign()
	if ex.Y != 0 || abs(ex.X)-dk.count > d.threshold ||
		(ex.X < 0 && sgn > 0) || (ex.X > 0 && sgn < 0) {
		return Resolution{}, errors.New(errors.ErrCodeOutOfReach, "slot %s is outside the drawer row", ex)
	}

	x := ex.X
	if x == 0 {
		x = sgn
	}
	limit := dk.count
	if redocking {
		limit--
	}
	if abs(x) > limit {
		x = sign(x) * limit
	}

	hole := d.holeIndex(dk, ic.ID, redocking)
	var shifts []Shift
	for _, id := range dk.Members() {
		if id == ic.ID {
			continue
		}
		cur := d.icons[id].Slot
		switch {
		case x <= cur.X && cur.X < hole:
			shifts = append(shifts, Shift{Icon: id, From: cur, To: cur.Add(1, 0)})
		case hole < cur.X && cur.X <= x:
			shifts = append(shifts, Shift{Icon: id, From: cur, To: cur.Add(-1, 0)})
		}
	}
	sortShifts(shifts)
	return Resolution{Slot: Slot{X: x}, Shifts: shifts}, nil
}

func sortShifts(shifts []Shift) {
	sort.Slice(shifts, func(i, j int) bool {
		return abs(shifts[i].From.X) < abs(shifts[j].From.X)
	})
}
