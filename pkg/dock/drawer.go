package dock

import (
	"fmt"
	"sort"

	"github.com/matzehuels/dockworks/pkg/errors"
	"github.com/matzehuels/dockworks/pkg/geometry"
)

// HoleIndex returns the signed drawer index where the moving icon's hole
// sits. Non-anchor icons of a drawer always occupy a dense run 1..n, so
// the hole is the arithmetic difference between 1+2+...+n and the indices
// actually present.
func (d *Desktop) HoleIndex(id DockID, moving IconID, redocking bool) (int, error) {
	dk, err := d.dock(id)
	if err != nil {
		return 0, err
	}
	if dk.Kind != Drawer {
		return 0, errors.New(errors.ErrCodeNotApplicable, "%s has no hole index", dk.Kind)
	}
	return d.holeIndex(dk, moving, redocking), nil
}

func (d *Desktop) holeIndex(dk *Dock, moving IconID, redocking bool) int {
	n := dk.count
	if redocking {
		n--
	}
	hole := dk.Side.Sign() * n * (n + 1) / 2
	for _, id := range dk.Members() {
		if id != moving {
			hole -= d.icons[id].Slot.X
		}
	}
	if hole == 0 {
		d.logger.Warn("drawer hole index is zero", "drawer", dk.Name, "redocking", redocking, "count", dk.count)
	}
	return hole
}

// FillGap closes the hole left by moving: every other icon beyond the
// hole slides one slot toward the anchor. The applied shifts are returned
// in slot order for the caller to animate.
func (d *Desktop) FillGap(id DockID, moving IconID, redocking bool) ([]Shift, error) {
	dk, err := d.dock(id)
	if err != nil {
		return nil, err
	}
	if dk.Kind != Drawer {
		return nil, errors.New(errors.ErrCodeNotApplicable, "%s cannot fill gaps", dk.Kind)
	}
	return d.fillGap(dk, moving, redocking), nil
}

func (d *Desktop) fillGap(dk *Dock, moving IconID, redocking bool) []Shift {
	hole := d.holeIndex(dk, moving, redocking)
	toward := -dk.Side.Sign()

	var shifts []Shift
	for _, id := range dk.Members() {
		if id == moving {
			continue
		}
		cur := d.icons[id].Slot
		if abs(cur.X) > abs(hole) {
			shifts = append(shifts, Shift{Icon: id, From: cur, To: cur.Add(toward, 0)})
		}
	}
	want := dk.count - abs(hole)
	if redocking {
		want--
	}
	if len(shifts) != want {
		d.logger.Warn("unexpected shift count while filling drawer gap",
			"drawer", dk.Name, "hole", hole, "shifted", len(shifts), "want", want)
	}
	sortShifts(shifts)
	d.applyShifts(dk, shifts)
	if !redocking {
		d.checkDensity(dk, "")
	} else {
		d.checkDensity(dk, moving)
	}
	return shifts
}

// Consolidate repairs a drawer whose indices are no longer dense, for
// example after several icons were removed at once.
func (d *Desktop) Consolidate(id DockID) ([]Shift, error) {
	dk, err := d.dock(id)
	if err != nil {
		return nil, err
	}
	if dk.Kind != Drawer {
		return nil, errors.New(errors.ErrCodeNotApplicable, "%s cannot be consolidated", dk.Kind)
	}
	return d.consolidate(dk), nil
}

func (d *Desktop) consolidate(dk *Dock) []Shift {
	present := make(map[int]bool)
	maxIdx, sum := 0, 0
	for _, id := range dk.Members() {
		x := abs(d.icons[id].Slot.X)
		present[x] = true
		sum += x
		maxIdx = max(maxIdx, x)
	}

	toward := -dk.Side.Sign()
	var all []Shift
	for sum != maxIdx*(maxIdx+1)/2 {
		gap := maxIdx - 1
		for gap > 0 && present[gap] {
			gap--
		}
		if gap <= 0 {
			d.logger.Error("drawer indices are not consolidatable", "drawer", dk.Name)
			break
		}
		var shifts []Shift
		for _, id := range dk.Members() {
			cur := d.icons[id].Slot
			if abs(cur.X) > gap {
				shifts = append(shifts, Shift{Icon: id, From: cur, To: cur.Add(toward, 0)})
			}
		}
		sortShifts(shifts)
		d.applyShifts(dk, shifts)
		for _, s := range shifts {
			delete(present, abs(s.From.X))
		}
		for _, s := range shifts {
			present[abs(s.To.X)] = true
		}
		maxIdx--
		sum -= len(shifts)
		all = append(all, shifts...)
	}
	return all
}

// ApplyShifts applies shifts negotiated by [Desktop.Resolve] to a drawer.
// Shifts whose icon moved since they were computed are skipped.
func (d *Desktop) ApplyShifts(id DockID, shifts []Shift) error {
	dk, err := d.dock(id)
	if err != nil {
		return err
	}
	d.applyShifts(dk, shifts)
	return nil
}

func (d *Desktop) applyShifts(dk *Dock, shifts []Shift) {
	s := d.iconSize()
	for _, sh := range shifts {
		ic, ok := d.icons[sh.Icon]
		if !ok || ic.Dock != dk.ID || ic.Slot != sh.From {
			continue
		}
		ic.Slot = sh.To
		ic.Pos = dk.SlotPixel(sh.To, s)
		d.ops.MoveIcon(string(ic.ID), ic.Pos)
	}
}

// DrawerDense reports whether the non-anchor indices of a drawer, ignoring
// skip, are exactly 1..n.
func (d *Desktop) DrawerDense(id DockID, skip IconID) bool {
	dk, ok := d.docks[id]
	if !ok || dk.Kind != Drawer {
		return false
	}
	return d.denseErr(dk, skip) == nil
}

func (d *Desktop) denseErr(dk *Dock, skip IconID) error {
	var idx []int
	for _, id := range dk.Members() {
		if id != skip {
			idx = append(idx, abs(d.icons[id].Slot.X))
		}
	}
	sort.Ints(idx)
	for i, x := range idx {
		if x != i+1 {
			return fmt.Errorf("drawer %q indices %v are not dense", dk.Name, idx)
		}
	}
	return nil
}

func (d *Desktop) checkDensity(dk *Dock, skip IconID) {
	if err := d.denseErr(dk, skip); err != nil {
		d.logger.Warn("drawer density check failed", "err", err)
	}
}

// =============================================================================
// Drawer set
// =============================================================================

func (d *Desktop) drawerRow(dk *Dock) int {
	main := d.docks[d.main]
	if main == nil {
		return 0
	}
	return (dk.Origin.Y - main.Origin.Y) / d.iconSize()
}

func (d *Desktop) drawerAt(row int) *Dock {
	for _, id := range d.drawers {
		dk := d.docks[id]
		if d.drawerRow(dk) == row {
			return dk
		}
	}
	return nil
}

// DrawerAt returns the drawer on Main dock row y.
func (d *Desktop) DrawerAt(y int) (DockID, bool) {
	if dk := d.drawerAt(y); dk != nil {
		return dk.ID, true
	}
	return "", false
}

// DrawerRow returns the Main dock row a drawer hangs from.
func (d *Desktop) DrawerRow(id DockID) (int, error) {
	dk, err := d.dock(id)
	if err != nil {
		return 0, err
	}
	if dk.Kind != Drawer {
		return 0, errors.New(errors.ErrCodeNotApplicable, "%s is not a drawer", dk.Kind)
	}
	return d.drawerRow(dk), nil
}

func (d *Desktop) uniqueDrawerName() string {
	taken := make(map[string]bool, len(d.drawers))
	for _, id := range d.drawers {
		taken[d.docks[id].Name] = true
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("Drawer %d", i)
		if !taken[name] {
			return name
		}
	}
}

// AddDrawer creates a drawer on the first free Main dock row, scanning
// downward from the anchor and then upward.
func (d *Desktop) AddDrawer() (DockID, error) {
	main, err := d.dock(d.main)
	if err != nil {
		return "", errors.New(errors.ErrCodeNotApplicable, "drawers need a Main dock")
	}
	used := d.usedSlots(main)
	for _, dir := range []int{1, -1} {
		for y := dir; abs(y) < main.Capacity(); y += dir {
			s := Slot{Y: y}
			if !d.slotOnScreen(main, s) {
				break
			}
			if !used[s] {
				return d.AddDrawerAt(d.uniqueDrawerName(), y)
			}
		}
	}
	return "", errors.New(errors.ErrCodeDockFull, "no free dock row for a drawer")
}

// AddDrawerAt creates an empty drawer named name on Main dock row y.
func (d *Desktop) AddDrawerAt(name string, y int) (DockID, error) {
	main, err := d.dock(d.main)
	if err != nil {
		return "", errors.New(errors.ErrCodeNotApplicable, "drawers need a Main dock")
	}
	if err := errors.ValidateDrawerName(name); err != nil {
		return "", err
	}
	for _, id := range d.drawers {
		if d.docks[id].Name == name {
			return "", errors.New(errors.ErrCodeInvalidName, "drawer %q already exists", name)
		}
	}
	s := Slot{Y: y}
	if y == 0 || d.usedSlots(main)[s] {
		return "", errors.New(errors.ErrCodeSlotCollision, "dock row %d is occupied", y)
	}
	if !d.slotOnScreen(main, s) {
		return "", errors.New(errors.ErrCodeNoOnScreenSlot, "dock row %d is off screen", y)
	}

	b := d.geo.ScreenBounds()
	dk := d.newDock(Drawer, main.SlotPixel(s, d.iconSize()), b.W/d.iconSize())
	dk.Name = name
	dk.Side = main.Side
	dk.AutoCollapse = true
	dk.Collapsed = true
	d.newAnchor(dk, name, "WMDrawer")
	d.drawers = append(d.drawers, dk.ID)
	d.logger.Debug("drawer added", "name", name, "row", y)
	return dk.ID, nil
}

// RemoveDrawer destroys a drawer. A drawer holding exactly one icon hands
// it to the Main dock on the drawer's row; any other content is detached.
func (d *Desktop) RemoveDrawer(id DockID) error {
	dk, err := d.dock(id)
	if err != nil {
		return err
	}
	if dk.Kind != Drawer {
		return errors.New(errors.ErrCodeNotApplicable, "%s is not a drawer", dk.Kind)
	}
	row := d.drawerRow(dk)
	members := dk.Members()

	d.drawers = removeDockID(d.drawers, dk.ID)

	if len(members) == 1 {
		if err := d.MoveBetween(dk.ID, d.main, members[0], Slot{Y: row}); err != nil {
			d.logger.Warn("could not keep last drawer icon", "drawer", dk.Name, "err", err)
			if err := d.Detach(dk.ID, members[0]); err != nil {
				d.logger.Error("could not detach drawer icon", "drawer", dk.Name, "err", err)
			}
		}
	} else {
		for _, m := range members {
			if err := d.Detach(dk.ID, m); err != nil {
				d.logger.Error("could not detach drawer icon", "drawer", dk.Name, "err", err)
			}
		}
	}

	// Detaching may have scheduled a collapse.
	d.cancelAuto(dk.ID)
	d.destroyIcon(dk.Anchor())
	delete(d.docks, dk.ID)
	delete(d.auto, dk.ID)
	d.logger.Debug("drawer removed", "name", dk.Name, "kept", len(members) == 1)
	return nil
}

func removeDockID(ids []DockID, id DockID) []DockID {
	out := ids[:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

// =============================================================================
// Main dock moves
// =============================================================================

// SetDockSide moves the Main dock to the other screen edge. Drawers follow
// and mirror their icons so they keep growing away from the edge.
func (d *Desktop) SetDockSide(side Side) error {
	main, err := d.dock(d.main)
	if err != nil {
		return err
	}
	if main.Side == side {
		return nil
	}
	b := d.geo.ScreenBounds()
	s := d.iconSize()
	main.Side = side
	if side == Right {
		main.Origin.X = b.Right() - s - ExtraSpace
	} else {
		main.Origin.X = b.X + ExtraSpace
	}
	d.relayout(main)
	for _, id := range d.drawers {
		dr := d.docks[id]
		dr.Side = side
		dr.Origin.X = main.Origin.X
		for _, m := range dr.Members() {
			ic := d.icons[m]
			ic.Slot.X = -ic.Slot.X
		}
		d.relayout(dr)
	}
	return nil
}

// MoveDock moves the Main dock vertically, or a Clip anywhere, keeping it
// on screen. Drawers follow the Main dock.
func (d *Desktop) MoveDock(id DockID, pos geometry.Point) error {
	dk, err := d.dock(id)
	if err != nil {
		return err
	}
	pos = geometry.KeepInside(d.geo, pos)
	switch dk.Kind {
	case Main:
		dy := pos.Y - dk.Origin.Y
		dk.Origin.Y = pos.Y
		d.relayout(dk)
		for _, dr := range d.drawers {
			drawer := d.docks[dr]
			drawer.Origin.Y += dy
			d.relayout(drawer)
		}
	case Clip:
		// Clips share one screen position across workspaces.
		d.EachClip(func(c *Dock) {
			c.Origin = pos
			d.relayout(c)
		})
	case Drawer:
		return errors.New(errors.ErrCodeNotApplicable, "drawers move with the dock")
	}
	return nil
}

// relayout moves every icon surface of dk to its slot position.
func (d *Desktop) relayout(dk *Dock) {
	s := d.iconSize()
	for _, id := range dk.Icons() {
		ic := d.icons[id]
		ic.Pos = dk.SlotPixel(ic.Slot, s)
		d.ops.MoveIcon(string(ic.ID), ic.Pos)
	}
}
