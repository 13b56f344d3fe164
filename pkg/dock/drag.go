package dock

import (
	"github.com/matzehuels/dockworks/pkg/errors"
	"github.com/matzehuels/dockworks/pkg/geometry"
	"github.com/matzehuels/dockworks/pkg/observability"
)

// DragResult is what releasing a dragged icon did.
type DragResult int

const (
	// DragAttached docked a previously undocked icon.
	DragAttached DragResult = iota
	// DragReattached moved the icon within its own dock.
	DragReattached
	// DragMoved moved the icon to another dock.
	DragMoved
	// DragDetached removed the icon from its dock.
	DragDetached
	// DragReturned left the icon where it started.
	DragReturned
)

func (r DragResult) String() string {
	switch r {
	case DragAttached:
		return "attached"
	case DragReattached:
		return "reattached"
	case DragMoved:
		return "moved"
	case DragDetached:
		return "detached"
	case DragReturned:
		return "returned"
	}
	return "unknown"
}

// DragOutcome reports the final state of a drag.
type DragOutcome struct {
	Result DragResult
	Dock   DockID
	Slot   Slot
}

// dragSession is the Dragging state. Desktop.drag is nil while idle.
type dragSession struct {
	icon IconID
	// origin is the dock the icon was dragged out of, "" for an undocked icon.
	origin DockID
	// last is the dock currently holding the prospective slot.
	last DockID
	res  Resolution
	ok   bool
	err  error
	// pinned icons are locked or launching and cannot leave origin.
	pinned bool
}

// BeginDrag starts dragging an icon. Docked anchors cannot be dragged.
func (d *Desktop) BeginDrag(iconID IconID) error {
	if d.drag != nil {
		return errors.New(errors.ErrCodeNotApplicable, "a drag is already in progress")
	}
	ic, err := d.icon(iconID)
	if err != nil {
		return err
	}
	if d.isAnchor(ic) {
		return errors.New(errors.ErrCodeNotApplicable, "dock anchors cannot be dragged")
	}
	d.drag = &dragSession{
		icon:   ic.ID,
		origin: ic.Dock,
		last:   ic.Dock,
		pinned: ic.Dock != "" && (ic.Lock || ic.Launching),
	}
	if ic.Dock != "" {
		d.drag.res = Resolution{Dock: ic.Dock, Slot: ic.Slot}
		d.drag.ok = true
	}
	return nil
}

// Dragging returns the icon being dragged.
func (d *Desktop) Dragging() (IconID, bool) {
	if d.drag == nil {
		return "", false
	}
	return d.drag.icon, true
}

// candidates lists drop targets in the order they are tried: the source
// dock, the drawers, the Main dock, then the current Clip.
func (d *Desktop) candidates() []DockID {
	s := d.drag
	if s.pinned {
		return []DockID{s.origin}
	}
	seen := make(map[DockID]bool)
	var out []DockID
	add := func(id DockID) {
		if id != "" && !seen[id] {
			if _, ok := d.docks[id]; ok {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	add(s.origin)
	for _, id := range d.drawers {
		add(id)
	}
	add(d.main)
	add(d.CurrentClip())
	return out
}

// DragMotion feeds a pointer sample: pos is the prospective top-left pixel
// of the dragged icon. Occupancy is re-read on every sample because timers
// may change docks between samples. The returned resolution is the slot
// the icon would take if released now; ok is false when it would detach.
func (d *Desktop) DragMotion(pos geometry.Point) (Resolution, bool, error) {
	s := d.drag
	if s == nil {
		return Resolution{}, false, errors.New(errors.ErrCodeNotApplicable, "no drag in progress")
	}
	ic, ok := d.icons[s.icon]
	if !ok {
		d.drag = nil
		return Resolution{}, false, errors.New(errors.ErrCodeIconNotFound, "dragged icon vanished")
	}

	var (
		res   Resolution
		found bool
		last  error
	)
	for _, id := range d.candidates() {
		r, err := d.Resolve(id, ic.ID, pos, ic.Dock == id)
		if err == nil {
			res, found = r, true
			break
		}
		if !errors.IsPlacement(err) {
			d.logger.Debug("drop target refused", "dock", id, "err", err)
		}
		last = err
	}

	if s.last != "" && (!found || res.Dock != s.last) && !s.pinned {
		if prev := d.docks[s.last]; prev != nil && prev.Kind == Drawer {
			d.fillGap(prev, ic.ID, prev.ID == ic.Dock)
		}
		s.last = ""
	}
	if !found {
		if !s.pinned {
			s.ok = false
		}
		s.err = last
		d.ops.MoveIcon(string(ic.ID), pos)
		return s.res, s.ok, nil
	}

	if dk := d.docks[res.Dock]; dk.Kind == Drawer {
		d.applyShifts(dk, res.Shifts)
	}
	s.last = res.Dock
	s.res = res
	s.ok = true
	s.err = nil
	d.ops.MoveIcon(string(ic.ID), pos)
	return res, true, nil
}

// EndDrag releases the dragged icon at pos and commits the outcome.
func (d *Desktop) EndDrag(pos geometry.Point) (DragOutcome, error) {
	if d.drag == nil {
		return DragOutcome{}, errors.New(errors.ErrCodeNotApplicable, "no drag in progress")
	}
	if _, _, err := d.DragMotion(pos); err != nil {
		return DragOutcome{}, err
	}
	s := d.drag
	d.drag = nil
	ic := d.icons[s.icon]

	if !s.ok || s.last == "" {
		if s.err != nil {
			observability.Dock().OnReject("", string(ic.ID), s.err)
		}
		if ic.Dock == "" {
			return DragOutcome{Result: DragReturned}, nil
		}
		src := ic.Dock
		if err := d.Detach(src, ic.ID); err != nil {
			return DragOutcome{}, err
		}
		return DragOutcome{Result: DragDetached, Dock: src}, nil
	}

	res := s.res
	var (
		result DragResult
		err    error
	)
	switch {
	case ic.Dock == "":
		result, err = DragAttached, d.Attach(res.Dock, ic.ID, res.Slot)
	case ic.Dock == res.Dock:
		result, err = DragReattached, d.Reattach(res.Dock, ic.ID, res.Slot)
	default:
		result, err = DragMoved, d.MoveBetween(ic.Dock, res.Dock, ic.ID, res.Slot)
	}
	if err == nil {
		return DragOutcome{Result: result, Dock: res.Dock, Slot: res.Slot}, nil
	}

	d.logger.Debug("drop refused", "dock", res.Dock, "icon", ic.Name(), "err", err)
	if dk := d.docks[res.Dock]; dk.Kind == Drawer && ic.Dock != res.Dock {
		d.fillGap(dk, ic.ID, false)
	}
	if ic.Dock == "" {
		return DragOutcome{Result: DragReturned}, err
	}
	src := d.docks[ic.Dock]
	if src.Kind == Drawer && ic.Dock != res.Dock {
		// The source drawer closed its gap when the icon left it.
		back := Slot{X: d.holeIndex(src, ic.ID, true)}
		if rerr := d.Reattach(src.ID, ic.ID, back); rerr != nil {
			d.logger.Warn("could not return icon to drawer", "icon", ic.Name(), "err", rerr)
		}
	} else {
		d.setSlot(src, ic, ic.Slot)
	}
	return DragOutcome{Result: DragReturned, Dock: src.ID, Slot: ic.Slot}, err
}

// DragTo drags an icon straight to pos and releases it there.
func (d *Desktop) DragTo(iconID IconID, pos geometry.Point) (DragOutcome, error) {
	if err := d.BeginDrag(iconID); err != nil {
		return DragOutcome{}, err
	}
	return d.EndDrag(pos)
}
