package dock

import (
	"context"

	"github.com/matzehuels/dockworks/pkg/errors"
	"github.com/matzehuels/dockworks/pkg/launcher"
)

// Launch starts the command of a docked icon. An icon whose application is
// already running is relaunched, starting another instance.
func (d *Desktop) Launch(ctx context.Context, iconID IconID) error {
	ic, err := d.icon(iconID)
	if err != nil {
		return err
	}
	if !ic.Docked || d.isAnchor(ic) {
		return errors.New(errors.ErrCodeNotApplicable, "icon %s is not a docked application", ic.Name())
	}
	if !ic.HasCommand() {
		return errors.New(errors.ErrCodeUnresolvedCommand, "icon %s has no command", ic.Name())
	}
	if ic.Launching {
		return nil
	}
	return d.start(ctx, ic, ic.Command)
}

func (d *Desktop) start(ctx context.Context, ic *AppIcon, command string) error {
	state := &launcher.SavedState{Workspace: d.current}
	relaunch := ic.Window != 0
	h, err := d.launcher.Launch(ctx, command, state)
	if err != nil {
		return errors.Wrap(errors.ErrCodeLaunch, err, "launch %s", ic.Name())
	}
	if relaunch {
		ic.Relaunching = true
	} else {
		ic.Launching = true
	}
	ic.handle = h
	d.handles[h] = ic.ID
	d.logger.Info("launched", "icon", ic.Name(), "command", command, "relaunch", relaunch)
	return nil
}

// AutoLaunchAll launches every docked icon marked AutoLaunch whose
// application is not running. It returns how many were started; failures
// are logged and do not stop the others.
func (d *Desktop) AutoLaunchAll(ctx context.Context) int {
	n := 0
	for _, id := range d.Docks() {
		for _, m := range d.docks[id].Members() {
			ic := d.icons[m]
			if !ic.AutoLaunch || ic.Window != 0 || ic.Launching || !ic.HasCommand() {
				continue
			}
			if err := d.start(ctx, ic, ic.Command); err != nil {
				d.logger.Warn("autolaunch failed", "icon", ic.Name(), "err", err)
				continue
			}
			n++
		}
	}
	return n
}

// ProcessExited records the exit of a launched process. A status of
// [launcher.StatusExecFailed] means the command could not be executed and
// is returned as a LAUNCH_FAILED error. Attracted icons without a command
// leave the Clip with their application.
func (d *Desktop) ProcessExited(h launcher.Handle, status int) error {
	id, ok := d.handles[h]
	if !ok {
		return nil
	}
	delete(d.handles, h)
	ic, ok := d.icons[id]
	if !ok {
		return nil
	}
	ic.Launching = false
	ic.Relaunching = false
	ic.Window = 0
	ic.Running = ic.Docked
	ic.handle = 0

	var err error
	if launcher.ExecFailed(status) {
		d.logger.Error("could not execute command", "icon", ic.Name(), "command", ic.Command, "status", status)
		err = errors.New(errors.ErrCodeLaunch, "could not execute command %q", ic.Command)
	}

	switch {
	case !ic.Docked:
		d.destroyIcon(ic.ID)
	case ic.Attracted && !ic.HasCommand():
		if derr := d.RemoveIcon(ic.ID); derr != nil {
			d.logger.Warn("remove attracted icon", "icon", ic.Name(), "err", derr)
		}
	}
	return err
}

// Paste runs the paste command of an icon with text substituted for %s.
// Drawer anchors use the drawer's template.
func (d *Desktop) Paste(ctx context.Context, iconID IconID, text string) error {
	ic, tmpl, err := d.template(iconID, func(ic *AppIcon) string { return ic.PasteCommand },
		func(dk *Dock) string { return dk.PasteCommand })
	if err != nil {
		return err
	}
	return d.start(ctx, ic, launcher.Expand(tmpl, text, nil))
}

// DropFiles runs the drop command of an icon with paths substituted for %d.
func (d *Desktop) DropFiles(ctx context.Context, iconID IconID, paths []string) error {
	ic, tmpl, err := d.template(iconID, func(ic *AppIcon) string { return ic.DropCommand },
		func(dk *Dock) string { return dk.DropCommand })
	if err != nil {
		return err
	}
	return d.start(ctx, ic, launcher.Expand(tmpl, "", paths))
}

func (d *Desktop) template(iconID IconID, ofIcon func(*AppIcon) string, ofDrawer func(*Dock) string) (*AppIcon, string, error) {
	ic, err := d.icon(iconID)
	if err != nil {
		return nil, "", err
	}
	tmpl := ofIcon(ic)
	if dk, ok := d.docks[ic.Dock]; ok && dk.Kind == Drawer && d.isAnchor(ic) {
		tmpl = ofDrawer(dk)
	}
	if tmpl == "" {
		return nil, "", errors.New(errors.ErrCodeUnresolvedCommand, "icon %s has no command template", ic.Name())
	}
	return ic, tmpl, nil
}

// SetDrawerCommands sets the paste and drop templates of a drawer.
func (d *Desktop) SetDrawerCommands(id DockID, paste, drop string) error {
	dk, err := d.dock(id)
	if err != nil {
		return err
	}
	if dk.Kind != Drawer {
		return errors.New(errors.ErrCodeNotApplicable, "%s has no drawer commands", dk.Kind)
	}
	dk.PasteCommand = paste
	dk.DropCommand = drop
	return nil
}
