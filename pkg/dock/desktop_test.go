package dock

import (
	"testing"

	"github.com/matzehuels/dockworks/pkg/errors"
	"github.com/matzehuels/dockworks/pkg/geometry"
	"github.com/matzehuels/dockworks/pkg/launcher"
	"github.com/matzehuels/dockworks/pkg/timer"
	"github.com/matzehuels/dockworks/pkg/winsys"
)

// fixture is a desktop on a 1280x1024 screen with 64px icons, a recording
// window system, a fake launcher and a manual clock.
type fixture struct {
	d     *Desktop
	rec   *winsys.Recorder
	clock *timer.Manual
	geo   *geometry.Static
	lnch  *launcher.Fake
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	f := &fixture{
		rec:   winsys.NewRecorder(),
		clock: timer.NewManual(),
		lnch:  &launcher.Fake{},
	}
	if opts.Geometry == nil {
		opts.Geometry = geometry.NewStatic(1280, 1024, 64)
	}
	if g, ok := opts.Geometry.(*geometry.Static); ok {
		f.geo = g
	}
	opts.Ops = f.rec
	if opts.Launcher == nil {
		opts.Launcher = f.lnch
	}
	opts.Scheduler = timer.NewScheduler(f.clock, nil)

	d, err := NewDesktop(opts)
	if err != nil {
		t.Fatalf("NewDesktop: %v", err)
	}
	f.d = d
	t.Cleanup(func() {
		if err := d.CheckInvariants(); err != nil {
			t.Errorf("CheckInvariants: %v", err)
		}
		if err := d.CheckDensity(); err != nil {
			t.Errorf("CheckDensity: %v", err)
		}
		d.Close()
	})
	return f
}

// icon creates an undocked icon whose command is the instance name.
func (f *fixture) icon(name string) IconID {
	return f.d.NewIcon(name, "Test", name, 0)
}

// attach docks a fresh icon at s and fails the test on error.
func (f *fixture) attach(t *testing.T, dock DockID, name string, s Slot) IconID {
	t.Helper()
	id := f.icon(name)
	if err := f.d.Attach(dock, id, s); err != nil {
		t.Fatalf("Attach(%s, %v): %v", name, s, err)
	}
	return id
}

func (f *fixture) slot(t *testing.T, id IconID) Slot {
	t.Helper()
	ic, ok := f.d.Icon(id)
	if !ok {
		t.Fatalf("icon %s vanished", id)
	}
	return ic.Slot
}

func (f *fixture) dock(t *testing.T, id DockID) *Dock {
	t.Helper()
	dk, ok := f.d.Dock(id)
	if !ok {
		t.Fatalf("dock %s vanished", id)
	}
	return dk
}

func (f *fixture) drawer(t *testing.T) DockID {
	t.Helper()
	id, err := f.d.AddDrawer()
	if err != nil {
		t.Fatalf("AddDrawer: %v", err)
	}
	return id
}

func TestNewDesktopDefaults(t *testing.T) {
	f := newFixture(t, Options{Workspaces: 2})
	d := f.d

	main := f.dock(t, d.MainDock())
	if main.Origin != (geometry.Point{X: ExtraSpace, Y: 0}) {
		t.Errorf("main origin = %v, want (%d,0)", main.Origin, ExtraSpace)
	}
	if main.Capacity() != 16 {
		t.Errorf("main capacity = %d, want 16", main.Capacity())
	}
	if !main.Lowered {
		t.Error("new dock should start lowered")
	}
	if main.Count() != 1 {
		t.Errorf("main count = %d, want 1", main.Count())
	}

	if d.Workspaces() != 2 {
		t.Fatalf("Workspaces() = %d, want 2", d.Workspaces())
	}
	for ws := 0; ws < 2; ws++ {
		c := f.dock(t, d.Clip(ws))
		if c.Origin != (geometry.Point{X: 1216, Y: 0}) {
			t.Errorf("clip %d origin = %v, want (1216,0)", ws, c.Origin)
		}
		if c.Capacity() != ClipMaxIcons {
			t.Errorf("clip %d capacity = %d, want %d", ws, c.Capacity(), ClipMaxIcons)
		}
		if c.Hidden() != (ws != 0) {
			t.Errorf("clip %d hidden = %v", ws, c.Hidden())
		}
	}
	anchor := f.dock(t, d.Clip(1)).Anchor()
	if f.rec.Surfaces[string(anchor)].Mapped {
		t.Error("anchor of a hidden clip is mapped")
	}
}

func TestNewDesktopRightSide(t *testing.T) {
	f := newFixture(t, Options{DockSide: Right})

	main := f.dock(t, f.d.MainDock())
	if want := 1280 - 64 - ExtraSpace; main.Origin.X != want {
		t.Errorf("main origin x = %d, want %d", main.Origin.X, want)
	}
	if c := f.dock(t, f.d.CurrentClip()); c.Origin != (geometry.Point{}) {
		t.Errorf("clip origin = %v, want (0,0)", c.Origin)
	}
}

func TestNewDesktopRequiresGeometry(t *testing.T) {
	_, err := NewDesktop(Options{})
	if !errors.Is(err, errors.ErrCodeConfig) {
		t.Errorf("NewDesktop() error = %v, want %s", err, errors.ErrCodeConfig)
	}
}

func TestCheckInvariantsDetectsCorruption(t *testing.T) {
	f := newFixture(t, Options{})
	main := f.dock(t, f.d.MainDock())

	main.count++
	err := f.d.CheckInvariants()
	main.count--
	if !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("CheckInvariants() = %v, want %s", err, errors.ErrCodeInternal)
	}
}

func TestCheckDensityIsSeparate(t *testing.T) {
	f := newFixture(t, Options{})
	dr := f.drawer(t)
	f.attach(t, dr, "gimp", Slot{X: 1})
	f.attach(t, dr, "inkscape", Slot{X: 3})

	if err := f.d.CheckInvariants(); err != nil {
		t.Errorf("CheckInvariants() = %v, want nil for a sparse drawer", err)
	}
	if err := f.d.CheckDensity(); err == nil {
		t.Error("CheckDensity() = nil, want a gap report")
	}
	if _, err := f.d.Consolidate(dr); err != nil {
		t.Fatalf("Consolidate: %v", err)
	}
	if err := f.d.CheckDensity(); err != nil {
		t.Errorf("CheckDensity() after Consolidate = %v", err)
	}
}

func TestEscapeName(t *testing.T) {
	tests := []struct {
		instance, class, want string
	}{
		{"xterm", "XTerm", "xterm.XTerm"},
		{"GNUstep.app", "Tool", `GNUstep\.app.Tool`},
		{"solo", "", "solo"},
		{"", "Only", ".Only"},
	}
	for _, tt := range tests {
		got := EscapeName(tt.instance, tt.class)
		if got != tt.want {
			t.Errorf("EscapeName(%q, %q) = %q, want %q", tt.instance, tt.class, got, tt.want)
		}
		inst, class := ParseName(got)
		if inst != tt.instance || class != tt.class {
			t.Errorf("ParseName(%q) = (%q, %q), want (%q, %q)", got, inst, class, tt.instance, tt.class)
		}
	}
}
