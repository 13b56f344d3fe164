package dock

import (
	stderrors "errors"
	"fmt"

	"github.com/matzehuels/dockworks/pkg/errors"
)

// CheckInvariants verifies the structural rules every dock must satisfy
// between mutations: slot ownership, counts, drawer rows and the
// omnipresent chain. The icon of an active drag is exempt from slot rules
// because it may hover over a slot another icon slid into. Drawer density
// is checked separately by [Desktop.CheckDensity].
func (d *Desktop) CheckInvariants() error {
	var skip IconID
	if d.drag != nil {
		skip = d.drag.icon
	}

	var errs []error
	for _, id := range d.Docks() {
		dk := d.docks[id]
		errs = append(errs, d.checkDock(dk, skip)...)
	}

	rows := make(map[int]bool)
	for _, id := range d.drawers {
		row := d.drawerRow(d.docks[id])
		if row == 0 || rows[row] {
			errs = append(errs, fmt.Errorf("drawer %q sits on taken dock row %d", d.docks[id].Name, row))
		}
		rows[row] = true
		if main, ok := d.docks[d.main]; ok && d.iconAt(main, Slot{Y: row}) != "" {
			errs = append(errs, fmt.Errorf("drawer %q shares dock row %d with an icon", d.docks[id].Name, row))
		}
	}

	for _, id := range d.omni {
		ic, ok := d.icons[id]
		if !ok || !ic.Omnipresent {
			errs = append(errs, fmt.Errorf("omnipresent chain holds stale icon %s", id))
			continue
		}
		if ic.Dock != d.CurrentClip() {
			errs = append(errs, fmt.Errorf("omnipresent icon %s is not in the current clip", ic.Name()))
		}
		for _, cid := range d.clips {
			c := d.docks[cid]
			if occ := d.iconAt(c, ic.Slot); occ != "" && occ != ic.ID {
				errs = append(errs, fmt.Errorf("omnipresent icon %s collides in workspace %d", ic.Name(), c.Workspace+1))
			}
			if cid != d.CurrentClip() && c.count+len(d.omni) > c.Capacity() {
				errs = append(errs, fmt.Errorf("clip of workspace %d cannot take the omnipresent icons", c.Workspace+1))
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Wrap(errors.ErrCodeInternal, stderrors.Join(errs...), "%d invariant violations", len(errs))
}

func (d *Desktop) checkDock(dk *Dock, skip IconID) []error {
	var errs []error
	if dk.slots[0] == "" {
		errs = append(errs, fmt.Errorf("%s %s lost its anchor", dk.Kind, dk.ID))
	}
	n := 0
	seen := make(map[Slot]IconID)
	for _, id := range dk.slots {
		if id == "" {
			continue
		}
		n++
		ic, ok := d.icons[id]
		if !ok {
			errs = append(errs, fmt.Errorf("%s %s holds unknown icon %s", dk.Kind, dk.ID, id))
			continue
		}
		if ic.Dock != dk.ID {
			errs = append(errs, fmt.Errorf("icon %s is in %s %s but points at %q", ic.Name(), dk.Kind, dk.ID, ic.Dock))
		}
		if id == skip {
			continue
		}
		if other, dup := seen[ic.Slot]; dup {
			errs = append(errs, fmt.Errorf("%s %s: icons %s and %s share slot %s", dk.Kind, dk.ID, other, id, ic.Slot))
		}
		seen[ic.Slot] = id
		if dk.Kind == Main && ic.Slot.X != 0 {
			errs = append(errs, fmt.Errorf("dock icon %s is off the column at %s", ic.Name(), ic.Slot))
		}
	}
	if n != dk.count {
		errs = append(errs, fmt.Errorf("%s %s counts %d icons but holds %d", dk.Kind, dk.ID, dk.count, n))
	}
	return errs
}

// CheckDensity reports drawers whose icons leave gaps. A sparse drawer
// still works; [Desktop.Consolidate] closes the gaps.
func (d *Desktop) CheckDensity() error {
	var errs []error
	for _, id := range d.drawers {
		dk := d.docks[id]
		if d.dragTouches(dk) {
			continue
		}
		if err := d.denseErr(dk, ""); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// dragTouches reports whether an active drag has opened or closed a hole
// in dk, which leaves it non-dense until release.
func (d *Desktop) dragTouches(dk *Dock) bool {
	return d.drag != nil && (dk.ID == d.drag.origin || dk.ID == d.drag.last)
}
