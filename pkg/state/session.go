package state

import (
	"github.com/matzehuels/dockworks/pkg/dock"
	"github.com/matzehuels/dockworks/pkg/errors"
	"github.com/matzehuels/dockworks/pkg/plist"
)

// Session document keys.
const (
	KeyDock       = "Dock"
	KeyDrawers    = "Drawers"
	KeyWorkspaces = "Workspaces"
	KeyClip       = "Clip"
)

// SaveSession encodes the Main dock, its drawers and every Clip of d.
func SaveSession(d *dock.Desktop) (*plist.Dict, error) {
	doc := plist.NewDict()
	if main := d.MainDock(); main != "" {
		dd, err := SaveDock(d, main)
		if err != nil {
			return nil, err
		}
		doc.Put(KeyDock, dd)
	}

	drawers := plist.NewArray()
	for _, id := range d.Drawers() {
		dk, _ := d.Dock(id)
		dd, err := SaveDock(d, id)
		if err != nil {
			return nil, err
		}
		rec := plist.NewDict()
		rec.Put(KeyName, plist.String(dk.Name))
		rec.Put(KeyPosition, plist.Pair(dk.Origin.X, dk.Origin.Y))
		if dk.PasteCommand != "" {
			rec.Put(KeyPasteCommand, plist.String(dk.PasteCommand))
		}
		if dk.DropCommand != "" {
			rec.Put(KeyDropCommand, plist.String(dk.DropCommand))
		}
		rec.Put(KeyDock, dd)
		drawers.Append(rec)
	}
	doc.Put(KeyDrawers, drawers)

	workspaces := plist.NewArray()
	for ws := 0; ws < d.Workspaces(); ws++ {
		cd, err := SaveDock(d, d.Clip(ws))
		if err != nil {
			return nil, err
		}
		rec := plist.NewDict()
		rec.Put(KeyName, plist.String(d.WorkspaceName(ws)))
		rec.Put(KeyClip, cd)
		workspaces.Append(rec)
	}
	doc.Put(KeyWorkspaces, workspaces)
	return doc, nil
}

// RestoreSession replays a session document into a fresh desktop. Missing
// workspaces are added. A nil doc restores nothing.
func RestoreSession(d *dock.Desktop, doc *plist.Dict) (*Report, error) {
	rep := &Report{}
	if doc == nil {
		return rep, nil
	}
	logger := d.Logger()

	if main := d.MainDock(); main != "" {
		mainDoc, _ := doc.Dict(KeyDock)
		r, err := RestoreDock(d, main, mainDoc)
		if err != nil {
			return rep, err
		}
		rep.merge(r)
		if err := restoreDrawers(d, doc, mainDoc, rep); err != nil {
			return rep, err
		}
	}

	wsArr, _ := doc.Array(KeyWorkspaces)
	if d.Workspaces() > 0 {
		for d.Workspaces() < wsArr.Len() {
			if _, err := d.AddWorkspace(); err != nil {
				logger.Warn("could not add workspace", "err", err)
				break
			}
		}
	}
	for ws, v := range wsArr.Items() {
		rec, ok := v.(*plist.Dict)
		if !ok || ws >= d.Workspaces() {
			err := errors.New(errors.ErrCodeCorruptRecord, "workspace %d cannot be restored", ws+1)
			logger.Warn("skipping workspace", "err", err)
			rep.Skipped = append(rep.Skipped, Skip{Kind: dock.Clip, Index: -1, Err: err})
			continue
		}
		if name, ok := rec.String(KeyName); ok {
			if err := d.SetWorkspaceName(ws, name); err != nil {
				logger.Warn("ignoring workspace name", "workspace", ws+1, "err", err)
			}
		}
		clipDoc, _ := rec.Dict(KeyClip)
		r, err := RestoreDock(d, d.Clip(ws), clipDoc)
		if err != nil {
			return rep, err
		}
		rep.merge(r)
	}
	return rep, nil
}

// restoreDrawers recreates the drawers of doc on the Main dock rows they
// occupied relative to the saved Main dock position.
func restoreDrawers(d *dock.Desktop, doc, mainDoc *plist.Dict, rep *Report) error {
	arr, _ := doc.Array(KeyDrawers)
	if arr.Len() == 0 {
		return nil
	}
	main, _ := d.Dock(d.MainDock())
	size := d.Geometry().IconSize()
	mainY := main.Origin.Y
	if s, ok := mainDoc.String(KeyPosition); ok {
		if _, y, ok := plist.ParsePair(s); ok {
			mainY = y
		}
	}

	for i, v := range arr.Items() {
		id, err := restoreDrawer(d, v, mainY, size)
		if err != nil {
			d.Logger().Warn("skipping drawer", "index", i, "err", err)
			rep.Skipped = append(rep.Skipped, Skip{Kind: dock.Drawer, Index: -1, Err: err})
			continue
		}
		rec := v.(*plist.Dict)
		dockDoc, _ := rec.Dict(KeyDock)
		r, err := RestoreDock(d, id, dockDoc)
		if err != nil {
			return err
		}
		rep.merge(r)
	}
	return nil
}

func restoreDrawer(d *dock.Desktop, v plist.Value, mainY, size int) (dock.DockID, error) {
	rec, ok := v.(*plist.Dict)
	if !ok {
		return "", corrupt("drawer record is not a dictionary")
	}
	pos, _ := rec.String(KeyPosition)
	_, y, ok := plist.ParsePair(pos)
	if !ok {
		return "", corrupt("drawer has unreadable position %q", pos)
	}
	dy := y - mainY
	if dy%size != 0 {
		return "", corrupt("drawer position %q is not on a dock row", pos)
	}
	name, _ := rec.String(KeyName)
	id, err := d.AddDrawerAt(name, dy/size)
	if err != nil {
		return "", err
	}
	paste, _ := rec.String(KeyPasteCommand)
	drop, _ := rec.String(KeyDropCommand)
	if paste != "" || drop != "" {
		if err := d.SetDrawerCommands(id, paste, drop); err != nil {
			return "", err
		}
	}
	return id, nil
}
