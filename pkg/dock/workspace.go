package dock

import (
	"strconv"

	"github.com/matzehuels/dockworks/pkg/errors"
)

// ChangeWorkspace makes workspace n current. Omnipresent icons travel from
// the old Clip to the new one at the same slot; the old Clip is hidden and
// collapses if it auto-collapses.
func (d *Desktop) ChangeWorkspace(n int) error {
	if n < 0 || n >= len(d.clips) {
		return errors.New(errors.ErrCodeInvalidInput, "workspace %d out of range [1,%d]", n+1, len(d.clips))
	}
	if n == d.current {
		return nil
	}
	old := d.docks[d.clips[d.current]]
	next := d.docks[d.clips[n]]

	for _, id := range d.omni {
		ic := d.icons[id]
		if ic.Dock != old.ID {
			continue
		}
		if occ := d.iconAt(next, ic.Slot); occ != "" || next.Full() {
			// Guarded by SetOmnipresent and the allocator reservation.
			d.logger.Error("omnipresent icon cannot follow workspace", "icon", ic.Name(), "slot", ic.Slot, "workspace", n+1)
			continue
		}
		old.remove(id)
		next.put(id)
		ic.Dock = next.ID
		d.setSlot(next, ic, ic.Slot)
	}

	st := d.autoFor(old.ID)
	d.cancelToken(&st.raise)
	d.cancelToken(&st.expand)
	if old.AutoCollapse {
		d.cancelToken(&st.collapse)
		old.Collapsed = true
	}
	d.hideAll(old)

	d.current = n
	d.showAll(next)
	d.logger.Debug("workspace changed", "workspace", n+1, "omnipresent", len(d.omni))
	return nil
}

// AddWorkspace appends a workspace with an empty Clip at the shared Clip
// position and returns its index.
func (d *Desktop) AddWorkspace() (int, error) {
	if len(d.clips) == 0 {
		return 0, errors.New(errors.ErrCodeNotApplicable, "the desktop runs without clips")
	}
	first := d.docks[d.clips[0]]
	ws := len(d.clips)
	if 1+len(d.omni) >= ClipMaxIcons {
		return 0, errors.New(errors.ErrCodeDockFull, "omnipresent icons do not fit a new clip")
	}
	c := d.newClip(ws, first.Origin)
	c.Flags = first.Flags
	d.clips = append(d.clips, c.ID)
	d.hideAll(c)
	return ws, nil
}

// WorkspaceName returns the label of workspace ws.
func (d *Desktop) WorkspaceName(ws int) string {
	if name := d.names[ws]; name != "" {
		return name
	}
	return "Workspace " + strconv.Itoa(ws+1)
}

// SetWorkspaceName labels workspace ws. An empty name restores the default.
func (d *Desktop) SetWorkspaceName(ws int, name string) error {
	if ws < 0 || ws >= len(d.clips) {
		return errors.New(errors.ErrCodeInvalidInput, "workspace %d out of range [1,%d]", ws+1, len(d.clips))
	}
	if name == "" {
		delete(d.names, ws)
		return nil
	}
	if err := errors.ValidateName(name); err != nil {
		return err
	}
	d.names[ws] = name
	return nil
}
