package dock

import (
	"github.com/matzehuels/dockworks/pkg/errors"
	"github.com/matzehuels/dockworks/pkg/geometry"
)

// visible reports whether the surface of ic should be mapped.
func (d *Desktop) visible(dk *Dock, ic *AppIcon) bool {
	if dk.hidden {
		return false
	}
	if dk.Kind == Drawer {
		if main, ok := d.docks[d.main]; ok && main.hidden {
			return false
		}
	}
	return d.isAnchor(ic) || !dk.Collapsed
}

func (d *Desktop) syncVisibility(dk *Dock, ic *AppIcon) {
	if d.visible(dk, ic) {
		d.ops.Map(string(ic.ID))
	} else {
		d.ops.Unmap(string(ic.ID))
	}
}

func (d *Desktop) syncDock(dk *Dock) {
	for _, id := range dk.Icons() {
		d.syncVisibility(dk, d.icons[id])
	}
}

func (d *Desktop) hideAll(dk *Dock) {
	dk.hidden = true
	d.syncDock(dk)
}

func (d *Desktop) showAll(dk *Dock) {
	dk.hidden = false
	d.syncDock(dk)
}

// surfaces lists the icon surfaces that stack together with dk: the Main
// dock carries its drawers along.
func (d *Desktop) surfaces(dk *Dock) []string {
	var ids []string
	for _, id := range dk.Icons() {
		ids = append(ids, string(id))
	}
	if dk.Kind == Main {
		for _, dr := range d.drawers {
			for _, id := range d.docks[dr].Icons() {
				ids = append(ids, string(id))
			}
		}
	}
	return ids
}

func (d *Desktop) raise(id DockID) {
	dk, ok := d.docks[id]
	if !ok {
		return
	}
	dk.Lowered = false
	d.ops.Raise(d.surfaces(dk)...)
}

func (d *Desktop) lower(id DockID) {
	dk, ok := d.docks[id]
	if !ok {
		return
	}
	dk.Lowered = true
	d.ops.Lower(d.surfaces(dk)...)
}

func (d *Desktop) expand(id DockID) {
	dk, ok := d.docks[id]
	if !ok {
		return
	}
	dk.Collapsed = false
	d.syncDock(dk)
}

func (d *Desktop) collapse(id DockID) {
	dk, ok := d.docks[id]
	if !ok {
		return
	}
	dk.Collapsed = true
	d.syncDock(dk)
}

// SetLowered raises or lowers a dock. Drawers stack with the Main dock.
func (d *Desktop) SetLowered(id DockID, lowered bool) error {
	dk, err := d.dock(id)
	if err != nil {
		return err
	}
	dk = d.raiseTarget(dk)
	st := d.autoFor(dk.ID)
	d.cancelToken(&st.raise)
	d.cancelToken(&st.lower)
	if lowered {
		d.lower(dk.ID)
	} else {
		d.raise(dk.ID)
	}
	return nil
}

// SetCollapsed collapses or expands a Clip or drawer.
func (d *Desktop) SetCollapsed(id DockID, collapsed bool) error {
	dk, err := d.dock(id)
	if err != nil {
		return err
	}
	if dk.Kind == Main {
		return errors.New(errors.ErrCodeNotApplicable, "the dock does not collapse")
	}
	st := d.autoFor(dk.ID)
	d.cancelToken(&st.expand)
	d.cancelToken(&st.collapse)
	if collapsed {
		d.collapse(dk.ID)
	} else {
		d.expand(dk.ID)
	}
	return nil
}

// SetHidden hides or shows the Main dock together with its drawers.
func (d *Desktop) SetHidden(id DockID, hidden bool) error {
	dk, err := d.dock(id)
	if err != nil {
		return err
	}
	if dk.Kind != Main {
		return errors.New(errors.ErrCodeNotApplicable, "%s visibility follows the workspace", dk.Kind)
	}
	if hidden {
		d.cancelAuto(dk.ID)
		d.hideAll(dk)
	} else {
		d.showAll(dk)
	}
	for _, dr := range d.drawers {
		d.syncDock(d.docks[dr])
	}
	return nil
}

// KeepIconsInside pulls docks back onto the screen after the screen
// shrank. Icons whose slot is now off screen are moved to a free slot, or
// detached when there is none. It returns how many icons moved and how
// many were detached.
func (d *Desktop) KeepIconsInside() (moved, detached int) {
	if main, ok := d.docks[d.main]; ok {
		b := d.geo.ScreenBounds()
		s := d.iconSize()
		x := b.X + ExtraSpace
		if main.Side == Right {
			x = b.Right() - s - ExtraSpace
		}
		p := geometry.KeepInside(d.geo, geometry.Point{X: x, Y: main.Origin.Y})
		if err := d.MoveDock(main.ID, geometry.Point{X: main.Origin.X, Y: p.Y}); err != nil {
			d.logger.Warn("could not move dock on screen", "err", err)
		}
		main.Origin.X = x
		d.relayout(main)
		for _, dr := range d.drawers {
			drawer := d.docks[dr]
			drawer.Origin.X = x
			d.relayout(drawer)
		}
	}
	if len(d.clips) > 0 {
		c := d.docks[d.clips[0]]
		if err := d.MoveDock(c.ID, c.Origin); err != nil {
			d.logger.Warn("could not move clip on screen", "err", err)
		}
	}

	var docks []*Dock
	if main, ok := d.docks[d.main]; ok {
		docks = append(docks, main)
	}
	d.EachClip(func(c *Dock) { docks = append(docks, c) })

	for _, dk := range docks {
		for _, id := range dk.Members() {
			ic := d.icons[id]
			if d.slotOnScreen(dk, ic.Slot) {
				continue
			}
			s, err := d.FindFreeSlot(dk.ID)
			if err != nil {
				d.logger.Warn("no room for off-screen icon", "dock", dk.Kind, "icon", ic.Name(), "err", err)
				if err := d.RemoveIcon(id); err == nil {
					detached++
				}
				continue
			}
			d.setSlot(dk, ic, s)
			moved++
		}
	}
	return moved, detached
}
