package state

import (
	"strconv"
	"strings"

	"github.com/matzehuels/dockworks/pkg/dock"
	"github.com/matzehuels/dockworks/pkg/errors"
	"github.com/matzehuels/dockworks/pkg/geometry"
	"github.com/matzehuels/dockworks/pkg/plist"
)

// Document keys.
const (
	KeyApplications     = "Applications"
	KeyPosition         = "Position"
	KeyLowered          = "Lowered"
	KeyAutoRaiseLower   = "AutoRaiseLower"
	KeyCollapsed        = "Collapsed"
	KeyAutoCollapse     = "AutoCollapse"
	KeyAutoAttractIcons = "AutoAttractIcons"

	KeyName         = "Name"
	KeyCommand      = "Command"
	KeyAutoLaunch   = "AutoLaunch"
	KeyLock         = "Lock"
	KeyForced       = "Forced"
	KeyBuggy        = "BuggyApplication"
	KeyOmnipresent  = "Omnipresent"
	KeyPasteCommand = "PasteCommand"
	KeyDropCommand  = "DropCommand"
)

// applicationsKey is the screen-height specific record list of the Main dock.
func applicationsKey(height int) string {
	return KeyApplications + strconv.Itoa(height)
}

// SaveDock encodes dock id of d.
func SaveDock(d *dock.Desktop, id dock.DockID) (*plist.Dict, error) {
	dk, ok := d.Dock(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeDockNotFound, "no dock %q", id)
	}

	apps := plist.NewArray()
	for _, m := range dk.Members() {
		ic, _ := d.Icon(m)
		if ic.Attracted {
			continue
		}
		apps.Append(saveIcon(dk, ic))
	}

	doc := plist.NewDict()
	doc.Put(KeyLowered, plist.Bool(dk.Lowered))
	doc.Put(KeyAutoRaiseLower, plist.Bool(dk.AutoRaiseLower))
	doc.Put(KeyCollapsed, plist.Bool(dk.Collapsed))
	doc.Put(KeyAutoCollapse, plist.Bool(dk.AutoCollapse))
	doc.Put(KeyAutoAttractIcons, plist.Bool(dk.AttractIcons))
	doc.Put(KeyPosition, plist.Pair(dk.Origin.X, dk.Origin.Y))
	doc.Put(KeyApplications, apps)
	if dk.Kind == dock.Main {
		doc.Put(applicationsKey(d.Geometry().ScreenBounds().H), apps)
	}
	return doc, nil
}

func saveIcon(dk *dock.Dock, ic *dock.AppIcon) *plist.Dict {
	rec := plist.NewDict()
	rec.Put(KeyName, plist.String(dock.EscapeName(ic.Instance, ic.Class)))
	cmd := ic.Command
	if cmd == "" {
		cmd = "-"
	}
	rec.Put(KeyCommand, plist.String(cmd))
	rec.Put(KeyAutoLaunch, plist.Bool(ic.AutoLaunch))
	rec.Put(KeyLock, plist.Bool(ic.Lock))
	rec.Put(KeyForced, plist.Bool(ic.Forced))
	rec.Put(KeyBuggy, plist.Bool(ic.Buggy))

	x := ic.Slot.X
	if dk.Kind == dock.Main {
		x = 0
	}
	rec.Put(KeyPosition, plist.Pair(x, ic.Slot.Y))
	if dk.Kind == dock.Clip {
		rec.Put(KeyOmnipresent, plist.Bool(ic.Omnipresent))
	}
	if ic.PasteCommand != "" {
		rec.Put(KeyPasteCommand, plist.String(ic.PasteCommand))
	}
	if ic.DropCommand != "" {
		rec.Put(KeyDropCommand, plist.String(ic.DropCommand))
	}
	return rec
}

// RestoreDock replays doc into dock id of d, which must hold only its
// anchor. A nil doc leaves the dock empty.
func RestoreDock(d *dock.Desktop, id dock.DockID, doc *plist.Dict) (*Report, error) {
	dk, ok := d.Dock(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeDockNotFound, "no dock %q", id)
	}
	if dk.Count() != 1 {
		return nil, errors.New(errors.ErrCodeNotApplicable, "%s already holds %d icons", dk.Kind, dk.Count()-1)
	}
	rep := &Report{}
	if doc == nil {
		return rep, nil
	}
	logger := d.Logger()

	if dk.Kind != dock.Drawer {
		restorePosition(d, dk, doc)
	}
	restoreFlags(d, dk, doc)

	apps, err := applications(d, dk, doc)
	if err != nil {
		logger.Warn("ignoring dock records", "dock", dk.Kind, "err", err)
		rep.Skipped = append(rep.Skipped, Skip{Dock: id, Kind: dk.Kind, Index: -1, Err: err})
		return rep, nil
	}
	for i, v := range apps.Items() {
		if err := restoreIcon(d, dk, v); err != nil {
			logger.Warn("skipping dock record", "dock", dk.Kind, "index", i, "err", err)
			rep.Skipped = append(rep.Skipped, Skip{Dock: id, Kind: dk.Kind, Index: i, Err: err})
			continue
		}
		rep.Restored++
	}
	return rep, nil
}

// applications returns the record array of doc. The Main dock prefers the
// records saved for the current screen height.
func applications(d *dock.Desktop, dk *dock.Dock, doc *plist.Dict) (*plist.Array, error) {
	key := KeyApplications
	if dk.Kind == dock.Main {
		if hk := applicationsKey(d.Geometry().ScreenBounds().H); hasKey(doc, hk) {
			key = hk
		}
	}
	v, ok := doc.Get(key)
	if !ok {
		return plist.NewArray(), nil
	}
	apps, ok := v.(*plist.Array)
	if !ok {
		return nil, errors.New(errors.ErrCodeCorruptRecord, "%s is not an array", key)
	}
	return apps, nil
}

func hasKey(doc *plist.Dict, key string) bool {
	_, ok := doc.Get(key)
	return ok
}

func restorePosition(d *dock.Desktop, dk *dock.Dock, doc *plist.Dict) {
	s, ok := doc.String(KeyPosition)
	if !ok {
		return
	}
	x, y, ok := plist.ParsePair(s)
	if !ok {
		d.Logger().Warn("ignoring dock position", "dock", dk.Kind, "position", s)
		return
	}
	if dk.Kind == dock.Main {
		side := dock.Left
		b := d.Geometry().ScreenBounds()
		if x > b.X+b.W/2 {
			side = dock.Right
		}
		if err := d.SetDockSide(side); err != nil {
			d.Logger().Warn("could not restore dock side", "err", err)
		}
	}
	if err := d.MoveDock(dk.ID, geometry.Point{X: x, Y: y}); err != nil {
		d.Logger().Warn("could not restore dock position", "dock", dk.Kind, "err", err)
	}
}

// restoreFlags applies the flags present in doc that apply to dk's kind.
func restoreFlags(d *dock.Desktop, dk *dock.Dock, doc *plist.Dict) {
	type flag struct {
		key   string
		apply func(dock.DockID, bool) error
		skip  bool
	}
	flags := []flag{
		{KeyAutoRaiseLower, d.SetAutoRaiseLower, dk.Kind == dock.Drawer},
		{KeyLowered, d.SetLowered, dk.Kind == dock.Drawer},
		{KeyAutoCollapse, d.SetAutoCollapse, dk.Kind == dock.Main},
		{KeyCollapsed, d.SetCollapsed, dk.Kind == dock.Main},
		{KeyAutoAttractIcons, d.SetAttractIcons, dk.Kind != dock.Clip},
	}
	for _, f := range flags {
		if f.skip || !hasKey(doc, f.key) {
			continue
		}
		if err := f.apply(dk.ID, doc.Bool(f.key)); err != nil {
			d.Logger().Warn("could not restore dock flag", "dock", dk.Kind, "flag", f.key, "err", err)
		}
	}
}

func corrupt(format string, args ...any) error {
	return errors.New(errors.ErrCodeCorruptRecord, format, args...)
}

// restoreIcon attaches the application described by v to dk at its saved
// slot.
func restoreIcon(d *dock.Desktop, dk *dock.Dock, v plist.Value) error {
	rec, ok := v.(*plist.Dict)
	if !ok {
		return corrupt("record is not a dictionary")
	}

	name, _ := rec.String(KeyName)
	instance, class := dock.ParseName(name)
	if instance == "" && class == "" {
		return corrupt("record has no application name")
	}
	cmd, _ := rec.String(KeyCommand)
	cmd = strings.TrimSpace(cmd)
	if cmd == "" || cmd == "-" {
		return corrupt("%s has no command", name)
	}
	pos, _ := rec.String(KeyPosition)
	x, y, ok := plist.ParsePair(pos)
	if !ok {
		return corrupt("%s has unreadable position %q", name, pos)
	}
	if dk.Kind == dock.Main && x != 0 {
		d.Logger().Warn("dock icon saved off the column", "icon", name, "x", x)
		x = 0
	}
	if dk.Full() {
		return errors.New(errors.ErrCodeDockFull, "%s is full, dropping %s", dk.Kind, name)
	}

	id := d.NewIcon(instance, class, cmd, 0)
	paste, _ := rec.String(KeyPasteCommand)
	drop, _ := rec.String(KeyDropCommand)
	if err := d.SetCommands(id, cmd, paste, drop); err != nil {
		discard(d, id)
		return errors.Wrap(errors.ErrCodeCorruptRecord, err, "%s", name)
	}
	if err := d.SetIconFlags(id, rec.Bool(KeyAutoLaunch), rec.Bool(KeyLock), rec.Bool(KeyForced), rec.Bool(KeyBuggy)); err != nil {
		d.Logger().Warn("ignoring icon flags", "icon", name, "err", err)
	}

	slot := dock.Slot{X: x, Y: y}
	if err := d.Attach(dk.ID, id, slot); err != nil {
		discard(d, id)
		return err
	}
	if dk.Kind == dock.Clip && rec.Bool(KeyOmnipresent) {
		restoreOmnipresent(d, dk, id, slot)
	}
	return nil
}

func discard(d *dock.Desktop, id dock.IconID) {
	if err := d.DiscardIcon(id); err != nil {
		d.Logger().Error("could not discard icon", "icon", id, "err", err)
	}
}

// restoreOmnipresent marks a restored Clip icon omnipresent. Omnipresent
// icons live in the current Clip, so an icon restored into another
// workspace moves there first.
func restoreOmnipresent(d *dock.Desktop, dk *dock.Dock, id dock.IconID, slot dock.Slot) {
	logger := d.Logger()
	if cur := d.CurrentClip(); cur != dk.ID {
		if err := d.MoveBetween(dk.ID, cur, id, slot); err != nil {
			logger.Warn("omnipresent icon stays in its workspace", "slot", slot, "err", err)
			return
		}
	}
	if err := d.SetOmnipresent(id, true); err != nil {
		logger.Warn("icon is no longer omnipresent", "slot", slot, "err", err)
	}
}
