package dock

import (
	"fmt"
	"testing"

	"github.com/matzehuels/dockworks/pkg/errors"
	"github.com/matzehuels/dockworks/pkg/geometry"
)

// drawerWith returns a drawer holding icons at indices 1..n.
func drawerWith(t *testing.T, f *fixture, n int) (DockID, []IconID) {
	t.Helper()
	dr := f.drawer(t)
	ids := make([]IconID, n)
	for i := range ids {
		ids[i] = f.attach(t, dr, fmt.Sprintf("tool%d", i+1), Slot{X: i + 1})
	}
	return dr, ids
}

func TestHoleIndex(t *testing.T) {
	f := newFixture(t, Options{})
	dr, ids := drawerWith(t, f, 2)

	got, err := f.d.HoleIndex(dr, f.icon("incoming"), false)
	if err != nil {
		t.Fatalf("HoleIndex: %v", err)
	}
	if got != 3 {
		t.Errorf("HoleIndex() = %d, want 3", got)
	}

	got, _ = f.d.HoleIndex(dr, ids[0], true)
	if got != 1 {
		t.Errorf("HoleIndex(redocking first icon) = %d, want 1", got)
	}
}

func TestHoleIndexRightSide(t *testing.T) {
	f := newFixture(t, Options{DockSide: Right})
	dr := f.drawer(t)
	f.attach(t, dr, "a", Slot{X: -1})
	f.attach(t, dr, "b", Slot{X: -2})

	if got, _ := f.d.HoleIndex(dr, f.icon("incoming"), false); got != -3 {
		t.Errorf("HoleIndex() = %d, want -3", got)
	}
}

func TestFillGapDensity(t *testing.T) {
	for removed := 1; removed <= 4; removed++ {
		t.Run(fmt.Sprintf("remove %d", removed), func(t *testing.T) {
			f := newFixture(t, Options{})
			dr, ids := drawerWith(t, f, 4)

			if err := f.d.RemoveIcon(ids[removed-1]); err != nil {
				t.Fatalf("RemoveIcon: %v", err)
			}
			if !f.d.DrawerDense(dr, "") {
				t.Fatal("drawer not dense after removal")
			}
			// Icons keep their order.
			want := 1
			for i, id := range ids {
				if i == removed-1 {
					continue
				}
				if got := f.slot(t, id); got != (Slot{X: want}) {
					t.Errorf("icon %d at %v, want (%d,0)", i+1, got, want)
				}
				want++
			}
			if n := f.dock(t, dr).Count(); n != 4 {
				t.Errorf("count = %d, want 4", n)
			}
		})
	}
}

func TestFillGapReturnsShifts(t *testing.T) {
	f := newFixture(t, Options{})
	dr, ids := drawerWith(t, f, 3)

	shifts, err := f.d.FillGap(dr, ids[0], true)
	if err != nil {
		t.Fatalf("FillGap: %v", err)
	}
	if len(shifts) != 2 || shifts[0].Icon != ids[1] || shifts[1].Icon != ids[2] {
		t.Fatalf("FillGap() = %+v, want shifts of icons 2 and 3", shifts)
	}
	if shifts[0].To != (Slot{X: 1}) || shifts[1].To != (Slot{X: 2}) {
		t.Errorf("FillGap() targets = %v, %v", shifts[0].To, shifts[1].To)
	}
	// Put the moving icon back at the far end so the drawer is whole again.
	if err := f.d.Reattach(dr, ids[0], Slot{X: 3}); err != nil {
		t.Fatalf("Reattach: %v", err)
	}
}

func TestConsolidate(t *testing.T) {
	f := newFixture(t, Options{})
	dr := f.drawer(t)
	a := f.attach(t, dr, "a", Slot{X: 1})
	b := f.attach(t, dr, "b", Slot{X: 3})
	c := f.attach(t, dr, "c", Slot{X: 6})

	if _, err := f.d.Consolidate(dr); err != nil {
		t.Fatalf("Consolidate: %v", err)
	}
	for id, want := range map[IconID]Slot{a: {X: 1}, b: {X: 2}, c: {X: 3}} {
		if got := f.slot(t, id); got != want {
			t.Errorf("slot of %s = %v, want %v", id, got, want)
		}
	}
}

func TestCompactorNotApplicable(t *testing.T) {
	f := newFixture(t, Options{})
	main := f.d.MainDock()
	if _, err := f.d.FillGap(main, "", false); !errors.Is(err, errors.ErrCodeNotApplicable) {
		t.Errorf("FillGap(main) error = %v, want %s", err, errors.ErrCodeNotApplicable)
	}
	if _, err := f.d.Consolidate(main); !errors.Is(err, errors.ErrCodeNotApplicable) {
		t.Errorf("Consolidate(main) error = %v, want %s", err, errors.ErrCodeNotApplicable)
	}
}

func TestAddDrawerRows(t *testing.T) {
	f := newFixture(t, Options{Geometry: geometry.NewStatic(1280, 256, 64)})
	main := f.d.MainDock()
	f.attach(t, main, "xterm", Slot{Y: 1})

	first := f.drawer(t)
	if row, _ := f.d.DrawerRow(first); row != 2 {
		t.Errorf("first drawer row = %d, want 2", row)
	}
	second := f.drawer(t)
	if row, _ := f.d.DrawerRow(second); row != 3 {
		t.Errorf("second drawer row = %d, want 3", row)
	}
	if a, b := f.dock(t, first).Name, f.dock(t, second).Name; a != "Drawer 1" || b != "Drawer 2" {
		t.Errorf("drawer names = %q, %q", a, b)
	}

	// Rows 1-3 are used and negative rows are off screen.
	if _, err := f.d.AddDrawer(); !errors.Is(err, errors.ErrCodeDockFull) {
		t.Errorf("AddDrawer() on a full column error = %v, want %s", err, errors.ErrCodeDockFull)
	}
}

func TestAddDrawerAt(t *testing.T) {
	f := newFixture(t, Options{})
	main := f.d.MainDock()
	f.attach(t, main, "xterm", Slot{Y: 2})

	tests := []struct {
		name string
		row  int
		code errors.Code
	}{
		{"dev", 3, ""},
		{"dev", 4, errors.ErrCodeInvalidName},
		{"busy", 2, errors.ErrCodeSlotCollision},
		{"anchor", 0, errors.ErrCodeSlotCollision},
		{"sky", -1, errors.ErrCodeNoOnScreenSlot},
		{"bad/name", 5, errors.ErrCodeInvalidName},
	}
	for _, tt := range tests {
		_, err := f.d.AddDrawerAt(tt.name, tt.row)
		if tt.code == "" {
			if err != nil {
				t.Errorf("AddDrawerAt(%q, %d) error = %v", tt.name, tt.row, err)
			}
			continue
		}
		if !errors.Is(err, tt.code) {
			t.Errorf("AddDrawerAt(%q, %d) error = %v, want %s", tt.name, tt.row, err, tt.code)
		}
	}
}

func TestRemoveDrawerKeepsSingleIcon(t *testing.T) {
	f := newFixture(t, Options{})
	dr, ids := drawerWith(t, f, 1)
	row, _ := f.d.DrawerRow(dr)

	if err := f.d.RemoveDrawer(dr); err != nil {
		t.Fatalf("RemoveDrawer: %v", err)
	}
	if _, ok := f.d.Dock(dr); ok {
		t.Error("drawer still exists")
	}
	ic, ok := f.d.Icon(ids[0])
	if !ok {
		t.Fatal("last drawer icon was destroyed")
	}
	if ic.Dock != f.d.MainDock() || ic.Slot != (Slot{Y: row}) {
		t.Errorf("icon in %s at %v, want dock row %d", ic.Dock, ic.Slot, row)
	}
}

func TestRemoveDrawerDetachesMany(t *testing.T) {
	f := newFixture(t, Options{})
	dr, ids := drawerWith(t, f, 3)
	anchor := f.dock(t, dr).Anchor()

	if err := f.d.RemoveDrawer(dr); err != nil {
		t.Fatalf("RemoveDrawer: %v", err)
	}
	for _, id := range append(ids, anchor) {
		if _, ok := f.d.Icon(id); ok {
			t.Errorf("icon %s survived drawer removal", id)
		}
	}
	if f.clock.Pending() != 0 {
		t.Errorf("%d timers pending after drawer removal", f.clock.Pending())
	}
}

func TestSetDockSideMirrorsDrawers(t *testing.T) {
	f := newFixture(t, Options{})
	dr, ids := drawerWith(t, f, 2)

	if err := f.d.SetDockSide(Right); err != nil {
		t.Fatalf("SetDockSide: %v", err)
	}
	main := f.dock(t, f.d.MainDock())
	if want := 1280 - 64 - ExtraSpace; main.Origin.X != want {
		t.Errorf("dock x = %d, want %d", main.Origin.X, want)
	}
	drawer := f.dock(t, dr)
	if drawer.Side != Right || drawer.Origin.X != main.Origin.X {
		t.Errorf("drawer side %v at x=%d", drawer.Side, drawer.Origin.X)
	}
	for i, id := range ids {
		if got := f.slot(t, id); got != (Slot{X: -(i + 1)}) {
			t.Errorf("icon %d at %v, want (%d,0)", i+1, got, -(i + 1))
		}
	}
}

func TestMoveDockCarriesDrawers(t *testing.T) {
	f := newFixture(t, Options{})
	dr, ids := drawerWith(t, f, 1)
	main := f.d.MainDock()

	if err := f.d.MoveDock(main, geometry.Point{X: 0, Y: 128}); err != nil {
		t.Fatalf("MoveDock: %v", err)
	}
	if got := f.dock(t, main).Origin; got != (geometry.Point{X: ExtraSpace, Y: 128}) {
		t.Errorf("dock origin = %v", got)
	}
	if row, _ := f.d.DrawerRow(dr); row != 1 {
		t.Errorf("drawer row = %d after moving the dock, want 1", row)
	}
	ic, _ := f.d.Icon(ids[0])
	if want := (geometry.Point{X: ExtraSpace + 64, Y: 192}); ic.Pos != want {
		t.Errorf("drawer icon at %v, want %v", ic.Pos, want)
	}
}
