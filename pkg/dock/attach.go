package dock

import (
	"strings"

	"github.com/matzehuels/dockworks/pkg/errors"
	"github.com/matzehuels/dockworks/pkg/observability"
)

// Attach docks an icon at slot s. An icon without a command goes through
// the [CommandResolver] first: inference, then a prompt. Declining the
// prompt or answering with no command fails with UNRESOLVED_COMMAND,
// except on a Clip where the icon is kept as an attracted icon.
func (d *Desktop) Attach(id DockID, iconID IconID, s Slot) error {
	dk, err := d.dock(id)
	if err != nil {
		return err
	}
	ic, err := d.icon(iconID)
	if err != nil {
		return err
	}
	if ic.Dock != "" {
		return errors.New(errors.ErrCodeNotApplicable, "icon %s is already docked", ic.Name())
	}
	if err := d.admit(dk, ic, s); err != nil {
		observability.Dock().OnReject(string(dk.ID), string(ic.ID), err)
		return err
	}
	if err := d.resolveCommand(dk, ic); err != nil {
		observability.Dock().OnReject(string(dk.ID), string(ic.ID), err)
		return err
	}

	if ic.Omnipresent {
		d.clearOmnipresent(ic)
	}
	d.place(dk, ic, s)
	ic.Running = true
	ic.Launching = false
	ic.fillDefaultCommands()
	observability.Dock().OnAttach(string(dk.ID), string(ic.ID), s.X, s.Y)
	d.logger.Debug("icon attached", "dock", dk.Kind, "icon", ic.Name(), "slot", s)
	return nil
}

// Reattach moves an icon to another slot of the dock that owns it.
func (d *Desktop) Reattach(id DockID, iconID IconID, s Slot) error {
	dk, err := d.dock(id)
	if err != nil {
		return err
	}
	ic, err := d.icon(iconID)
	if err != nil {
		return err
	}
	if ic.Dock != dk.ID {
		return errors.New(errors.ErrCodeIconNotFound, "icon %s is not in this %s", ic.Name(), dk.Kind)
	}
	if d.isAnchor(ic) {
		return errors.New(errors.ErrCodeNotApplicable, "the %s anchor cannot move", dk.Kind)
	}
	if err := d.checkSlot(dk, ic, s); err != nil {
		observability.Dock().OnReject(string(dk.ID), string(ic.ID), err)
		return err
	}
	d.setSlot(dk, ic, s)
	observability.Dock().OnMove(string(dk.ID), string(dk.ID), string(ic.ID), s.X, s.Y)
	return nil
}

// Detach removes an icon from its dock. Unless the application behind it
// is still running the icon is destroyed.
func (d *Desktop) Detach(id DockID, iconID IconID) error {
	dk, err := d.dock(id)
	if err != nil {
		return err
	}
	ic, err := d.icon(iconID)
	if err != nil {
		return err
	}
	if ic.Dock != dk.ID {
		return errors.New(errors.ErrCodeIconNotFound, "icon %s is not in this %s", ic.Name(), dk.Kind)
	}
	if d.isAnchor(ic) {
		return errors.New(errors.ErrCodeNotApplicable, "the %s anchor cannot be detached", dk.Kind)
	}

	// Must run while the icon still knows its dock.
	if ic.Omnipresent {
		d.clearOmnipresent(ic)
	}
	dk.remove(ic.ID)
	ic.Dock = ""
	ic.Slot = Slot{}
	ic.Docked = false
	ic.Attracted = false
	ic.AutoLaunch = false
	ic.Lock = false
	ic.Forced = false
	ic.Command = ""
	ic.PasteCommand = ""
	ic.DropCommand = ""
	observability.Dock().OnDetach(string(dk.ID), string(ic.ID))
	d.logger.Debug("icon detached", "dock", dk.Kind, "icon", ic.Name())

	if !ic.Running || ic.Window == 0 {
		d.destroyIcon(ic.ID)
	}
	if dk.AutoCollapse || dk.AutoRaiseLower {
		d.Leave(dk.ID, "")
	}
	return nil
}

// MoveBetween moves a docked icon from src to slot s of dest. Every check
// runs before anything changes.
func (d *Desktop) MoveBetween(src, dest DockID, iconID IconID, s Slot) error {
	if src == dest {
		return d.Reattach(dest, iconID, s)
	}
	from, err := d.dock(src)
	if err != nil {
		return err
	}
	to, err := d.dock(dest)
	if err != nil {
		return err
	}
	ic, err := d.icon(iconID)
	if err != nil {
		return err
	}
	if ic.Dock != from.ID {
		return errors.New(errors.ErrCodeIconNotFound, "icon %s is not in this %s", ic.Name(), from.Kind)
	}
	if d.isAnchor(ic) {
		return errors.New(errors.ErrCodeNotApplicable, "the %s anchor cannot move", from.Kind)
	}
	if err := d.admit(to, ic, s); err != nil {
		observability.Dock().OnReject(string(to.ID), string(ic.ID), err)
		return err
	}
	if to.Kind != Clip && (!ic.HasCommand() || ic.Attracted) {
		if err := d.requireCommand(ic); err != nil {
			observability.Dock().OnReject(string(to.ID), string(ic.ID), err)
			return err
		}
	}

	from.remove(ic.ID)
	if to.Kind != Clip && ic.HasCommand() {
		ic.Attracted = false
	}
	if ic.Omnipresent && to.ID != d.CurrentClip() {
		d.clearOmnipresent(ic)
	}
	d.place(to, ic, s)
	ic.fillDefaultCommands()
	observability.Dock().OnMove(string(from.ID), string(to.ID), string(ic.ID), s.X, s.Y)
	d.logger.Debug("icon moved", "from", from.Kind, "to", to.Kind, "icon", ic.Name(), "slot", s)
	return nil
}

// DockIcon attaches an undocked icon at the first free slot of a dock.
func (d *Desktop) DockIcon(id DockID, iconID IconID) (Slot, error) {
	s, err := d.FindFreeSlot(id)
	if err != nil {
		return Slot{}, err
	}
	if err := d.Attach(id, iconID, s); err != nil {
		return Slot{}, err
	}
	return s, nil
}

// RemoveIcon detaches an icon from whatever dock holds it, closing the gap
// it leaves in a drawer.
func (d *Desktop) RemoveIcon(iconID IconID) error {
	ic, err := d.icon(iconID)
	if err != nil {
		return err
	}
	if ic.Dock == "" {
		return errors.New(errors.ErrCodeNotApplicable, "icon %s is not docked", ic.Name())
	}
	dk := d.docks[ic.Dock]
	if dk.Kind == Drawer && !d.isAnchor(ic) {
		d.fillGap(dk, ic.ID, true)
	}
	return d.Detach(dk.ID, ic.ID)
}

// admit checks capacity and slot availability for an icon entering dk.
// The Clips of other workspaces keep room for every omnipresent icon.
func (d *Desktop) admit(dk *Dock, ic *AppIcon, s Slot) error {
	reserved := 0
	if dk.Kind == Clip && dk.ID != d.CurrentClip() {
		reserved = len(d.omni)
		if ic.Omnipresent {
			reserved--
		}
	}
	if dk.count+reserved >= dk.Capacity() {
		return errors.New(errors.ErrCodeDockFull, "%s holds %d of %d icons (%d reserved)",
			dk.Kind, dk.count, dk.Capacity(), reserved)
	}
	return d.checkSlot(dk, ic, s)
}

// checkSlot reports whether slot s of dk can hold ic.
func (d *Desktop) checkSlot(dk *Dock, ic *AppIcon, s Slot) error {
	switch dk.Kind {
	case Main:
		if s.X != 0 {
			return errors.New(errors.ErrCodeInvalidInput, "dock slot %s is off the column", s)
		}
		if d.drawerAt(s.Y) != nil {
			return errors.New(errors.ErrCodeSlotCollision, "dock row %d belongs to a drawer", s.Y)
		}
	case Drawer:
		if s.Y != 0 || s.X == 0 || sign(s.X) != dk.Side.Sign() {
			return errors.New(errors.ErrCodeInvalidInput, "drawer slot %s is outside the row", s)
		}
	case Clip:
		for _, id := range d.omni {
			if id != ic.ID && d.icons[id].Slot == s {
				return errors.New(errors.ErrCodeSlotCollision, "slot %s is reserved by an omnipresent icon", s)
			}
		}
	}
	if s == AnchorSlot {
		return errors.New(errors.ErrCodeSlotCollision, "slot %s is the anchor", s)
	}
	if occ := d.iconAt(dk, s); occ != "" && occ != ic.ID {
		return errors.New(errors.ErrCodeSlotCollision, "slot %s is occupied", s)
	}
	return nil
}

// resolveCommand makes sure ic has a command before it joins dk.
func (d *Desktop) resolveCommand(dk *Dock, ic *AppIcon) error {
	if ic.HasCommand() || (ic.Attracted && dk.Kind == Clip) {
		return nil
	}
	if cmd, ok := d.resolver.Infer(ic); ok && strings.TrimSpace(cmd) != "" {
		ic.Command = strings.TrimSpace(cmd)
		return nil
	}
	cmd, ok := d.resolver.Prompt(ic)
	cmd = strings.TrimSpace(cmd)
	if !ok || cmd == "" || cmd == "-" {
		if dk.Kind == Clip {
			ic.Command = ""
			ic.Attracted = true
			return nil
		}
		return errors.New(errors.ErrCodeUnresolvedCommand, "no command for %s", ic.Name())
	}
	if err := errors.ValidateCommand(cmd); err != nil {
		return err
	}
	ic.Command = cmd
	ic.Attracted = false
	return nil
}

// requireCommand is resolveCommand for docks that never keep command-less
// icons.
func (d *Desktop) requireCommand(ic *AppIcon) error {
	if ic.HasCommand() {
		return nil
	}
	cmd, ok := d.resolver.Infer(ic)
	if !ok || strings.TrimSpace(cmd) == "" {
		cmd, ok = d.resolver.Prompt(ic)
	}
	cmd = strings.TrimSpace(cmd)
	if !ok || cmd == "" || cmd == "-" {
		return errors.New(errors.ErrCodeUnresolvedCommand, "no command for %s", ic.Name())
	}
	if err := errors.ValidateCommand(cmd); err != nil {
		return err
	}
	ic.Command = cmd
	return nil
}

// place records ic in dk at slot s and shows its surface.
func (d *Desktop) place(dk *Dock, ic *AppIcon, s Slot) {
	dk.put(ic.ID)
	ic.Dock = dk.ID
	ic.Docked = true
	d.setSlot(dk, ic, s)
	d.syncVisibility(dk, ic)
}

func (d *Desktop) setSlot(dk *Dock, ic *AppIcon, s Slot) {
	ic.Slot = s
	ic.Pos = dk.SlotPixel(s, d.iconSize())
	d.ops.MoveIcon(string(ic.ID), ic.Pos)
}
