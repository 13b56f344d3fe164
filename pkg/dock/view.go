package dock

import "github.com/matzehuels/dockworks/pkg/geometry"

// IconView is a read-only copy of an icon for presentation layers.
type IconView struct {
	ID          IconID         `json:"id"`
	Name        string         `json:"name"`
	Instance    string         `json:"instance,omitempty"`
	Class       string         `json:"class,omitempty"`
	Command     string         `json:"command,omitempty"`
	Slot        Slot           `json:"slot"`
	Pos         geometry.Point `json:"pos"`
	Anchor      bool           `json:"anchor,omitempty"`
	Running     bool           `json:"running,omitempty"`
	Launching   bool           `json:"launching,omitempty"`
	Omnipresent bool           `json:"omnipresent,omitempty"`
	Attracted   bool           `json:"attracted,omitempty"`
	AutoLaunch  bool           `json:"auto_launch,omitempty"`
	Lock        bool           `json:"lock,omitempty"`
}

// DockView is a read-only copy of a dock and its icons in slot-table order.
type DockView struct {
	ID        DockID         `json:"id"`
	Kind      string         `json:"kind"`
	Name      string         `json:"name,omitempty"`
	Workspace int            `json:"workspace"`
	Origin    geometry.Point `json:"origin"`
	Side      string         `json:"side"`
	Capacity  int            `json:"capacity"`
	Count     int            `json:"count"`
	Hidden    bool           `json:"hidden,omitempty"`
	Flags     Flags          `json:"flags"`
	Icons     []IconView     `json:"icons"`
}

// View is a snapshot of the whole desktop.
type View struct {
	Workspace   int           `json:"workspace"`
	Workspaces  int           `json:"workspaces"`
	IconSize    int           `json:"icon_size"`
	Screen      geometry.Rect `json:"screen"`
	Docks       []DockView    `json:"docks"`
	Omnipresent []IconID      `json:"omnipresent,omitempty"`
}

// Snapshot copies the current desktop state.
func (d *Desktop) Snapshot() View {
	v := View{
		Workspace:   d.current,
		Workspaces:  len(d.clips),
		IconSize:    d.iconSize(),
		Screen:      d.geo.ScreenBounds(),
		Omnipresent: d.Omnipresent(),
	}
	for _, id := range d.Docks() {
		v.Docks = append(v.Docks, d.viewDock(d.docks[id]))
	}
	return v
}

// DockView returns the snapshot of a single dock.
func (d *Desktop) DockView(id DockID) (DockView, error) {
	dk, err := d.dock(id)
	if err != nil {
		return DockView{}, err
	}
	return d.viewDock(dk), nil
}

func (d *Desktop) viewDock(dk *Dock) DockView {
	dv := DockView{
		ID:        dk.ID,
		Kind:      dk.Kind.String(),
		Name:      dk.Name,
		Workspace: dk.Workspace,
		Origin:    dk.Origin,
		Side:      dk.Side.String(),
		Capacity:  dk.Capacity(),
		Count:     dk.count,
		Hidden:    dk.hidden,
		Flags:     dk.Flags,
	}
	for _, id := range dk.Icons() {
		ic := d.icons[id]
		dv.Icons = append(dv.Icons, IconView{
			ID:          ic.ID,
			Name:        ic.Name(),
			Instance:    ic.Instance,
			Class:       ic.Class,
			Command:     ic.Command,
			Slot:        ic.Slot,
			Pos:         ic.Pos,
			Anchor:      id == dk.slots[0],
			Running:     ic.Running,
			Launching:   ic.Launching,
			Omnipresent: ic.Omnipresent,
			Attracted:   ic.Attracted,
			AutoLaunch:  ic.AutoLaunch,
			Lock:        ic.Lock,
		})
	}
	return dv
}
