package dock

import (
	"testing"
	"time"

	"github.com/matzehuels/dockworks/pkg/errors"
	"github.com/matzehuels/dockworks/pkg/geometry"
)

func TestAutoRaiseLower(t *testing.T) {
	f := newFixture(t, Options{})
	main := f.d.MainDock()
	if err := f.d.SetAutoRaiseLower(main, true); err != nil {
		t.Fatalf("SetAutoRaiseLower: %v", err)
	}
	dk := f.dock(t, main)
	anchor := string(dk.Anchor())

	if err := f.d.Enter(main); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	f.clock.Advance(599 * time.Millisecond)
	if !dk.Lowered {
		t.Fatal("raised before the raise delay")
	}
	f.clock.Advance(time.Millisecond)
	if dk.Lowered {
		t.Fatal("not raised after the raise delay")
	}
	if !f.rec.Surfaces[anchor].Raised {
		t.Error("anchor surface not raised")
	}

	// Re-entering before the lower delay cancels the lower.
	_ = f.d.Leave(main, "")
	f.clock.Advance(500 * time.Millisecond)
	_ = f.d.Enter(main)
	f.clock.Advance(2 * time.Second)
	if dk.Lowered {
		t.Error("lowered although the pointer came back")
	}

	_ = f.d.Leave(main, "")
	f.clock.Advance(time.Second)
	if !dk.Lowered {
		t.Error("not lowered after the lower delay")
	}
	if f.rec.Surfaces[anchor].Raised {
		t.Error("anchor surface still raised")
	}
}

func TestLeaveOntoOwnIcon(t *testing.T) {
	f := newFixture(t, Options{})
	main := f.d.MainDock()
	_ = f.d.SetAutoRaiseLower(main, true)
	own := f.attach(t, main, "xterm", Slot{Y: 2})

	if err := f.d.Leave(main, own); err != nil {
		t.Fatalf("Leave: %v", err)
	}
	if _, lower, _, _ := f.d.PendingAuto(main); lower {
		t.Error("moving onto an icon of the same dock scheduled a lower")
	}
	if err := f.d.Leave(main, f.dock(t, f.d.CurrentClip()).Anchor()); err != nil {
		t.Fatalf("Leave: %v", err)
	}
	if _, lower, _, _ := f.d.PendingAuto(main); !lower {
		t.Error("leaving for another dock did not schedule a lower")
	}
}

func TestAutoCollapseExpand(t *testing.T) {
	f := newFixture(t, Options{ClipOrigin: &geometry.Point{X: 600, Y: 400}})
	clip := f.d.CurrentClip()
	if err := f.d.SetAutoCollapse(clip, true); err != nil {
		t.Fatalf("SetAutoCollapse: %v", err)
	}
	dk := f.dock(t, clip)
	member := string(f.attach(t, clip, "xterm", Slot{X: 1}))
	anchor := string(dk.Anchor())

	_ = f.d.Leave(clip, "")
	f.clock.Advance(999 * time.Millisecond)
	if dk.Collapsed {
		t.Fatal("collapsed before the collapse delay")
	}
	f.clock.Advance(time.Millisecond)
	if !dk.Collapsed {
		t.Fatal("not collapsed after the collapse delay")
	}
	if f.rec.Surfaces[member].Mapped {
		t.Error("member still mapped in a collapsed clip")
	}
	if !f.rec.Surfaces[anchor].Mapped {
		t.Error("anchor unmapped in a collapsed clip")
	}

	_ = f.d.Enter(clip)
	if _, _, expand, _ := f.d.PendingAuto(clip); !expand {
		t.Fatal("Enter did not schedule an expand")
	}
	f.clock.Advance(600 * time.Millisecond)
	if dk.Collapsed || !f.rec.Surfaces[member].Mapped {
		t.Error("clip not expanded after the expand delay")
	}
}

func TestSetAutoCollapseOffCancels(t *testing.T) {
	f := newFixture(t, Options{})
	clip := f.d.CurrentClip()
	_ = f.d.SetAutoCollapse(clip, true)
	_ = f.d.Leave(clip, "")
	if f.clock.Pending() != 1 {
		t.Fatalf("pending timers = %d, want 1", f.clock.Pending())
	}
	_ = f.d.SetAutoCollapse(clip, false)
	if f.clock.Pending() != 0 {
		t.Errorf("pending timers = %d after disabling, want 0", f.clock.Pending())
	}
	f.clock.Advance(time.Minute)
	if f.dock(t, clip).Collapsed {
		t.Error("collapsed after auto-collapse was disabled")
	}
}

func TestDrawerRaisesWithDock(t *testing.T) {
	f := newFixture(t, Options{})
	main := f.d.MainDock()
	dr := f.drawer(t)
	_ = f.d.SetAutoRaiseLower(main, true)

	if err := f.d.SetAutoRaiseLower(dr, true); !errors.Is(err, errors.ErrCodeNotApplicable) {
		t.Errorf("SetAutoRaiseLower(drawer) error = %v, want %s", err, errors.ErrCodeNotApplicable)
	}
	if err := f.d.SetAutoCollapse(main, true); !errors.Is(err, errors.ErrCodeNotApplicable) {
		t.Errorf("SetAutoCollapse(main) error = %v, want %s", err, errors.ErrCodeNotApplicable)
	}

	_ = f.d.Enter(dr)
	raise, _, _, _ := f.d.PendingAuto(main)
	if !raise {
		t.Fatal("entering a drawer did not schedule a dock raise")
	}
	_, _, expand, _ := f.d.PendingAuto(dr)
	if !expand {
		t.Error("entering a collapsed drawer did not schedule an expand")
	}
	f.clock.Advance(time.Second)
	if f.dock(t, main).Lowered || f.dock(t, dr).Collapsed {
		t.Error("dock not raised or drawer not expanded")
	}
}

func TestManualToggles(t *testing.T) {
	f := newFixture(t, Options{})
	main := f.d.MainDock()
	clip := f.d.CurrentClip()

	if err := f.d.SetLowered(main, false); err != nil {
		t.Fatalf("SetLowered: %v", err)
	}
	if f.dock(t, main).Lowered {
		t.Error("dock still lowered")
	}
	if err := f.d.SetCollapsed(clip, true); err != nil {
		t.Fatalf("SetCollapsed: %v", err)
	}
	if !f.dock(t, clip).Collapsed {
		t.Error("clip not collapsed")
	}
	if err := f.d.SetCollapsed(main, true); !errors.Is(err, errors.ErrCodeNotApplicable) {
		t.Errorf("SetCollapsed(main) error = %v, want %s", err, errors.ErrCodeNotApplicable)
	}

	id := f.attach(t, main, "xterm", Slot{Y: 1})
	if err := f.d.SetHidden(main, true); err != nil {
		t.Fatalf("SetHidden: %v", err)
	}
	if f.rec.Surfaces[string(id)].Mapped {
		t.Error("icon of a hidden dock is mapped")
	}
	_ = f.d.SetHidden(main, false)
	if !f.rec.Surfaces[string(id)].Mapped {
		t.Error("icon of a shown dock is unmapped")
	}
}

func TestDefaultSchedulerNeverFiresOffThread(t *testing.T) {
	d, err := NewDesktop(Options{
		Geometry: geometry.NewStatic(1280, 1024, 64),
		Timing:   Timing{AutoRaise: time.Millisecond, AutoLower: time.Millisecond, AutoExpand: time.Millisecond, AutoCollapse: time.Millisecond},
	})
	if err != nil {
		t.Fatalf("NewDesktop: %v", err)
	}
	defer d.Close()
	main := d.MainDock()
	if err := d.SetAutoRaiseLower(main, true); err != nil {
		t.Fatalf("SetAutoRaiseLower: %v", err)
	}

	for i := 0; i < 50; i++ {
		if err := d.Enter(main); err != nil {
			t.Fatalf("Enter: %v", err)
		}
		time.Sleep(100 * time.Microsecond)
		if raise, _, _, _ := d.PendingAuto(main); !raise {
			t.Fatal("raise fired without a clock advance")
		}
		if err := d.Leave(main, ""); err != nil {
			t.Fatalf("Leave: %v", err)
		}
	}
	if dk, _ := d.Dock(main); !dk.Lowered {
		t.Error("dock raised by a timer nobody drives")
	}
}
