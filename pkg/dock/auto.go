package dock

import (
	stderrors "errors"

	"github.com/matzehuels/dockworks/pkg/errors"
	"github.com/matzehuels/dockworks/pkg/timer"
)

// autoState holds the pending auto-behavior tokens of one dock.
type autoState struct {
	raise, lower, expand, collapse timer.Token
}

func (d *Desktop) autoFor(id DockID) *autoState {
	st, ok := d.auto[id]
	if !ok {
		st = &autoState{}
		d.auto[id] = st
	}
	return st
}

// cancelToken cancels *t and zeroes it. Stale tokens are expected here: the
// action may have fired between scheduling and this call.
func (d *Desktop) cancelToken(t *timer.Token) {
	if t.IsZero() {
		return
	}
	if err := d.sched.Cancel(*t); err != nil && !stderrors.Is(err, timer.ErrStaleToken) {
		d.logger.Warn("cancel timer", "err", err)
	}
	*t = timer.Token{}
}

func (d *Desktop) cancelAuto(id DockID) {
	st, ok := d.auto[id]
	if !ok {
		return
	}
	d.cancelToken(&st.raise)
	d.cancelToken(&st.lower)
	d.cancelToken(&st.expand)
	d.cancelToken(&st.collapse)
}

// raiseTarget is the dock whose stacking a pointer over dk controls:
// drawers raise and lower with the Main dock.
func (d *Desktop) raiseTarget(dk *Dock) *Dock {
	if dk.Kind == Drawer {
		if main, ok := d.docks[d.main]; ok {
			return main
		}
	}
	return dk
}

// Enter is the pointer entering a dock. It cancels a pending lower or
// collapse and schedules a raise or expand when the dock is set up to do so.
func (d *Desktop) Enter(id DockID) error {
	dk, err := d.dock(id)
	if err != nil {
		return err
	}
	rt := d.raiseTarget(dk)
	rst := d.autoFor(rt.ID)
	d.cancelToken(&rst.lower)
	if rt.AutoRaiseLower && rt.Lowered && !d.sched.Pending(rst.raise) {
		target := rt.ID
		rst.raise = d.sched.Schedule("raise", d.timing.AutoRaise, func() {
			d.autoFor(target).raise = timer.Token{}
			d.raise(target)
		})
	}

	if dk.Kind == Main {
		return nil
	}
	st := d.autoFor(dk.ID)
	d.cancelToken(&st.collapse)
	if dk.AutoCollapse && dk.Collapsed && !d.sched.Pending(st.expand) {
		st.expand = d.sched.Schedule("expand", d.timing.AutoExpand, func() {
			d.autoFor(id).expand = timer.Token{}
			d.expand(id)
		})
	}
	return nil
}

// Leave is the pointer leaving a dock for next, which may be empty. Moving
// onto another icon of the same dock is not a leave.
func (d *Desktop) Leave(id DockID, next IconID) error {
	dk, err := d.dock(id)
	if err != nil {
		return err
	}
	if next != "" {
		if ic, ok := d.icons[next]; ok && ic.Dock == dk.ID {
			return nil
		}
	}

	rt := d.raiseTarget(dk)
	rst := d.autoFor(rt.ID)
	d.cancelToken(&rst.raise)
	if rt.AutoRaiseLower && !d.sched.Pending(rst.lower) {
		target := rt.ID
		rst.lower = d.sched.Schedule("lower", d.timing.AutoLower, func() {
			d.autoFor(target).lower = timer.Token{}
			d.lower(target)
		})
	}

	if dk.Kind == Main {
		return nil
	}
	st := d.autoFor(dk.ID)
	d.cancelToken(&st.expand)
	if dk.AutoCollapse && !d.sched.Pending(st.collapse) {
		st.collapse = d.sched.Schedule("collapse", d.timing.AutoCollapse, func() {
			d.autoFor(id).collapse = timer.Token{}
			d.collapse(id)
		})
	}
	return nil
}

// PendingAuto reports which auto actions are scheduled for a dock.
func (d *Desktop) PendingAuto(id DockID) (raise, lower, expand, collapse bool) {
	st, ok := d.auto[id]
	if !ok {
		return false, false, false, false
	}
	return d.sched.Pending(st.raise), d.sched.Pending(st.lower),
		d.sched.Pending(st.expand), d.sched.Pending(st.collapse)
}

// SetAutoCollapse toggles automatic expand and collapse of a Clip or drawer.
func (d *Desktop) SetAutoCollapse(id DockID, on bool) error {
	dk, err := d.dock(id)
	if err != nil {
		return err
	}
	if dk.Kind == Main {
		return errors.New(errors.ErrCodeNotApplicable, "the dock does not collapse")
	}
	dk.AutoCollapse = on
	if !on {
		st := d.autoFor(id)
		d.cancelToken(&st.expand)
		d.cancelToken(&st.collapse)
	}
	return nil
}

// SetAutoRaiseLower toggles automatic raising and lowering. Drawers follow
// the Main dock and cannot be set on their own.
func (d *Desktop) SetAutoRaiseLower(id DockID, on bool) error {
	dk, err := d.dock(id)
	if err != nil {
		return err
	}
	if dk.Kind == Drawer {
		return errors.New(errors.ErrCodeNotApplicable, "drawers raise with the dock")
	}
	dk.AutoRaiseLower = on
	if !on {
		st := d.autoFor(id)
		d.cancelToken(&st.raise)
		d.cancelToken(&st.lower)
	}
	return nil
}

// SetAttractIcons toggles icon attraction on a Clip.
func (d *Desktop) SetAttractIcons(id DockID, on bool) error {
	dk, err := d.dock(id)
	if err != nil {
		return err
	}
	if dk.Kind != Clip {
		return errors.New(errors.ErrCodeNotApplicable, "only the clip attracts icons")
	}
	dk.AttractIcons = on
	return nil
}
