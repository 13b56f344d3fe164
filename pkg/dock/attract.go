package dock

import "github.com/matzehuels/dockworks/pkg/errors"

// AttractIcon pulls the icon of a freshly started application into the
// current Clip, when that Clip attracts icons. The icon keeps no command.
func (d *Desktop) AttractIcon(iconID IconID) (Slot, error) {
	ic, err := d.icon(iconID)
	if err != nil {
		return Slot{}, err
	}
	clip, ok := d.docks[d.CurrentClip()]
	if !ok || !clip.AttractIcons {
		return Slot{}, errors.New(errors.ErrCodeNotApplicable, "the current clip does not attract icons")
	}
	if ic.Dock != "" {
		return Slot{}, errors.New(errors.ErrCodeNotApplicable, "icon %s is already docked", ic.Name())
	}
	s, err := d.FindFreeSlot(clip.ID)
	if err != nil {
		return Slot{}, err
	}
	ic.Attracted = true
	ic.Command = ""
	d.place(clip, ic, s)
	ic.Running = true
	d.logger.Debug("icon attracted", "icon", ic.Name(), "slot", s)
	return s, nil
}
