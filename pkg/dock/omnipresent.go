package dock

import "github.com/matzehuels/dockworks/pkg/errors"

// SetOmnipresent makes an icon of the current Clip appear on every
// workspace, or takes it back to its own workspace. Turning it on fails
// without changing anything when another workspace's Clip is out of room
// or already uses the slot.
func (d *Desktop) SetOmnipresent(iconID IconID, on bool) error {
	ic, err := d.icon(iconID)
	if err != nil {
		return err
	}
	dk, ok := d.docks[ic.Dock]
	if !ok || dk.Kind != Clip {
		return errors.New(errors.ErrCodeNotApplicable, "only Clip icons can be omnipresent")
	}
	if d.isAnchor(ic) {
		return errors.New(errors.ErrCodeNotApplicable, "the Clip anchor cannot be omnipresent")
	}
	if ic.Omnipresent == on {
		return nil
	}
	if !on {
		d.clearOmnipresent(ic)
		return nil
	}
	if dk.ID != d.CurrentClip() {
		return errors.New(errors.ErrCodeNotApplicable, "only icons of the current Clip can be omnipresent")
	}
	if oerr := d.canBeOmnipresent(ic); oerr != nil {
		return errors.Wrap(errors.ErrCodeOmnipresentCollision, oerr, "cannot make %s omnipresent", ic.Name())
	}
	ic.Omnipresent = true
	d.omni = append([]IconID{ic.ID}, d.omni...)
	d.logger.Debug("icon is omnipresent", "icon", ic.Name(), "slot", ic.Slot, "chain", len(d.omni))
	return nil
}

// canBeOmnipresent checks every other Clip for room and for the slot.
func (d *Desktop) canBeOmnipresent(ic *AppIcon) *errors.OmnipresentError {
	cur := d.CurrentClip()
	for _, id := range d.clips {
		c := d.docks[id]
		if c.ID == cur {
			continue
		}
		if c.count+len(d.omni) >= c.Capacity() {
			return &errors.OmnipresentError{Cause: errors.CauseCapacity, Workspace: c.Workspace}
		}
		if d.iconAt(c, ic.Slot) != "" {
			return &errors.OmnipresentError{Cause: errors.CauseCollision, Workspace: c.Workspace}
		}
	}
	return nil
}

func (d *Desktop) clearOmnipresent(ic *AppIcon) {
	ic.Omnipresent = false
	for i, id := range d.omni {
		if id == ic.ID {
			d.omni = append(d.omni[:i], d.omni[i+1:]...)
			return
		}
	}
}
