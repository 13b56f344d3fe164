package dock

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dockworks/pkg/errors"
	"github.com/matzehuels/dockworks/pkg/geometry"
	"github.com/matzehuels/dockworks/pkg/launcher"
	"github.com/matzehuels/dockworks/pkg/timer"
	"github.com/matzehuels/dockworks/pkg/winsys"
)

// CommandResolver supplies a launch command for an icon docked without one.
type CommandResolver interface {
	// Infer returns the command line of the application behind icon, if known.
	Infer(icon *AppIcon) (string, bool)
	// Prompt asks the user for a command. ok is false when the user declined.
	Prompt(icon *AppIcon) (cmd string, ok bool)
}

// ResolverFuncs adapts plain functions to [CommandResolver]. A nil
// function declines.
type ResolverFuncs struct {
	InferFunc  func(*AppIcon) (string, bool)
	PromptFunc func(*AppIcon) (string, bool)
}

func (r ResolverFuncs) Infer(icon *AppIcon) (string, bool) {
	if r.InferFunc == nil {
		return "", false
	}
	return r.InferFunc(icon)
}

func (r ResolverFuncs) Prompt(icon *AppIcon) (string, bool) {
	if r.PromptFunc == nil {
		return "", false
	}
	return r.PromptFunc(icon)
}

// Options configures a [Desktop].
type Options struct {
	// Geometry is required.
	Geometry geometry.Provider
	// Ops receives surface changes. Defaults to [winsys.Nop].
	Ops winsys.Ops
	// Launcher starts docked commands. Defaults to a [launcher.Fake] that
	// records launches without starting anything.
	Launcher launcher.Launcher
	// Resolver supplies missing commands. Defaults to declining.
	Resolver CommandResolver
	// Scheduler drives auto-behavior timers. Defaults to a manual clock
	// nobody advances, so auto actions stay pending until cancelled.
	Scheduler *timer.Scheduler
	Logger    *log.Logger
	Timing    Timing

	// Workspaces is the number of workspaces, at least 1.
	Workspaces int
	// WorkspaceNames labels the first workspaces.
	WorkspaceNames []string
	// DockSide and DockY place the Main dock.
	DockSide Side
	DockY    int
	// ClipOrigin places every Clip; nil picks the corner opposite the dock.
	ClipOrigin *geometry.Point
	NoDock     bool
	NoClip     bool

	// DetachThreshold defaults to [DefaultDetachThreshold].
	DetachThreshold int
}

// Desktop owns every dock, every icon and the omnipresent registry of one
// screen. All methods must be called from the dispatch goroutine.
//
// The zero value is not usable; create desktops with [NewDesktop].
type Desktop struct {
	geo       geometry.Provider
	ops       winsys.Ops
	launcher  launcher.Launcher
	resolver  CommandResolver
	sched     *timer.Scheduler
	logger    *log.Logger
	timing    Timing
	threshold int

	icons   map[IconID]*AppIcon
	docks   map[DockID]*Dock
	main    DockID
	clips   []DockID
	drawers []DockID
	current int

	// omni is the omnipresent chain, most recent first.
	omni []IconID

	auto    map[DockID]*autoState
	drag    *dragSession
	handles map[launcher.Handle]IconID
	names   map[int]string
}

// NewDesktop creates the Main dock and one Clip per workspace, each holding
// only its anchor.
func NewDesktop(opts Options) (*Desktop, error) {
	if opts.Geometry == nil {
		return nil, errors.New(errors.ErrCodeConfig, "geometry provider is required")
	}
	if opts.Geometry.IconSize() <= 0 {
		return nil, errors.New(errors.ErrCodeConfig, "icon size must be positive, got %d", opts.Geometry.IconSize())
	}
	if opts.Workspaces < 1 {
		opts.Workspaces = 1
	}

	d := &Desktop{
		geo:       opts.Geometry,
		ops:       opts.Ops,
		launcher:  opts.Launcher,
		resolver:  opts.Resolver,
		sched:     opts.Scheduler,
		logger:    opts.Logger,
		timing:    opts.Timing,
		threshold: opts.DetachThreshold,
		icons:     make(map[IconID]*AppIcon),
		docks:     make(map[DockID]*Dock),
		auto:      make(map[DockID]*autoState),
		handles:   make(map[launcher.Handle]IconID),
		names:     make(map[int]string),
	}
	if d.ops == nil {
		d.ops = winsys.Nop{}
	}
	if d.launcher == nil {
		d.launcher = &launcher.Fake{Refuse: map[string]bool{}}
	}
	if d.resolver == nil {
		d.resolver = ResolverFuncs{}
	}
	if d.sched == nil {
		d.sched = timer.NewScheduler(timer.NewManual(), nil)
	}
	if d.logger == nil {
		d.logger = log.New(io.Discard)
	}
	if d.timing == (Timing{}) {
		d.timing = DefaultTiming
	}
	if d.threshold <= 0 {
		d.threshold = DefaultDetachThreshold
	}

	for i, name := range opts.WorkspaceNames {
		d.names[i] = name
	}
	if !opts.NoDock {
		d.main = d.newMainDock(opts.DockSide, opts.DockY).ID
	}
	if !opts.NoClip {
		origin := d.defaultClipOrigin(opts.DockSide)
		if opts.ClipOrigin != nil {
			origin = geometry.KeepInside(d.geo, *opts.ClipOrigin)
		}
		for ws := 0; ws < opts.Workspaces; ws++ {
			clip := d.newClip(ws, origin)
			d.clips = append(d.clips, clip.ID)
			if ws != d.current {
				d.hideAll(clip)
			}
		}
	}
	return d, nil
}

func (d *Desktop) iconSize() int { return d.geo.IconSize() }

// Geometry returns the desktop's geometry provider.
func (d *Desktop) Geometry() geometry.Provider { return d.geo }

// Logger returns the desktop logger.
func (d *Desktop) Logger() *log.Logger { return d.logger }

// SetTiming replaces the auto-behavior delays. Pending timers keep their
// original deadline.
func (d *Desktop) SetTiming(t Timing) {
	if t != (Timing{}) {
		d.timing = t
	}
}

// Timing returns the auto-behavior delays.
func (d *Desktop) Timing() Timing { return d.timing }

func (d *Desktop) newDock(kind Kind, origin geometry.Point, capacity int) *Dock {
	if capacity < 1 {
		capacity = 1
	}
	dk := &Dock{
		ID:     newDockID(),
		Kind:   kind,
		Origin: origin,
		slots:  make([]IconID, capacity),
	}
	dk.Lowered = true
	d.docks[dk.ID] = dk
	return dk
}

func (d *Desktop) newAnchor(dk *Dock, instance, class string) *AppIcon {
	a := &AppIcon{
		ID:       newIconID(),
		Instance: instance,
		Class:    class,
		Docked:   true,
		Slot:     AnchorSlot,
		Dock:     dk.ID,
		Pos:      dk.Origin,
	}
	d.icons[a.ID] = a
	dk.slots[0] = a.ID
	dk.count = 1
	d.ops.MoveIcon(string(a.ID), a.Pos)
	return a
}

func (d *Desktop) newMainDock(side Side, y int) *Dock {
	b := d.geo.ScreenBounds()
	s := d.iconSize()
	x := b.X + ExtraSpace
	if side == Right {
		x = b.Right() - s - ExtraSpace
	}
	origin := geometry.KeepInside(d.geo, geometry.Point{X: x, Y: b.Y + y})
	origin.X = x
	dk := d.newDock(Main, origin, b.H/s)
	dk.Side = side
	d.newAnchor(dk, "Logo", "WMDock")
	return dk
}

func (d *Desktop) defaultClipOrigin(dockSide Side) geometry.Point {
	b := d.geo.ScreenBounds()
	if dockSide == Left && d.main != "" {
		return geometry.Point{X: b.Right() - d.iconSize(), Y: b.Y}
	}
	return geometry.Point{X: b.X, Y: b.Y}
}

func (d *Desktop) newClip(ws int, origin geometry.Point) *Dock {
	dk := d.newDock(Clip, origin, ClipMaxIcons)
	dk.Workspace = ws
	d.newAnchor(dk, "Logo", "WMClip")
	return dk
}

// =============================================================================
// Lookup
// =============================================================================

func (d *Desktop) dock(id DockID) (*Dock, error) {
	dk, ok := d.docks[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeDockNotFound, "no dock %q", id)
	}
	return dk, nil
}

func (d *Desktop) icon(id IconID) (*AppIcon, error) {
	ic, ok := d.icons[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeIconNotFound, "no icon %q", id)
	}
	return ic, nil
}

// Dock returns the dock with the given id.
func (d *Desktop) Dock(id DockID) (*Dock, bool) {
	dk, ok := d.docks[id]
	return dk, ok
}

// Icon returns the icon with the given id.
func (d *Desktop) Icon(id IconID) (*AppIcon, bool) {
	ic, ok := d.icons[id]
	return ic, ok
}

// MainDock returns the Main dock id, or "" when the desktop has none.
func (d *Desktop) MainDock() DockID { return d.main }

// Workspaces returns the number of workspaces.
func (d *Desktop) Workspaces() int { return len(d.clips) }

// CurrentWorkspace returns the index of the visible workspace.
func (d *Desktop) CurrentWorkspace() int { return d.current }

// CurrentClip returns the Clip of the visible workspace, or "" without clips.
func (d *Desktop) CurrentClip() DockID {
	return d.Clip(d.current)
}

// Clip returns the Clip of workspace ws, or "" when out of range.
func (d *Desktop) Clip(ws int) DockID {
	if ws < 0 || ws >= len(d.clips) {
		return ""
	}
	return d.clips[ws]
}

// EachClip calls fn for every workspace Clip in workspace order.
func (d *Desktop) EachClip(fn func(*Dock)) {
	for _, id := range d.clips {
		fn(d.docks[id])
	}
}

// Drawers returns the drawer ids in creation order.
func (d *Desktop) Drawers() []DockID {
	return append([]DockID(nil), d.drawers...)
}

// Docks returns every dock id: Main, then drawers, then clips.
func (d *Desktop) Docks() []DockID {
	var out []DockID
	if d.main != "" {
		out = append(out, d.main)
	}
	out = append(out, d.drawers...)
	out = append(out, d.clips...)
	return out
}

// Omnipresent returns the omnipresent chain, most recently added first.
func (d *Desktop) Omnipresent() []IconID {
	return append([]IconID(nil), d.omni...)
}

// IconAt returns the icon occupying slot s of dock id.
func (d *Desktop) IconAt(id DockID, s Slot) (IconID, bool) {
	dk, ok := d.docks[id]
	if !ok {
		return "", false
	}
	ic := d.iconAt(dk, s)
	return ic, ic != ""
}

func (d *Desktop) iconAt(dk *Dock, s Slot) IconID {
	for _, id := range dk.slots {
		if id != "" && d.icons[id].Slot == s {
			return id
		}
	}
	return ""
}

func (d *Desktop) isAnchor(ic *AppIcon) bool {
	if ic.Dock == "" {
		return false
	}
	dk, ok := d.docks[ic.Dock]
	return ok && dk.slots[0] == ic.ID
}

// NewIcon adds an undocked application icon to the arena. window is the
// application's main window, 0 when the application is not running.
func (d *Desktop) NewIcon(instance, class, command string, window uint32) IconID {
	ic := &AppIcon{
		ID:       newIconID(),
		Instance: instance,
		Class:    class,
		Command:  command,
		Window:   window,
		Running:  window != 0,
	}
	d.icons[ic.ID] = ic
	return ic.ID
}

// SetWindow records the main window of the application behind an icon.
func (d *Desktop) SetWindow(id IconID, window uint32) error {
	ic, err := d.icon(id)
	if err != nil {
		return err
	}
	ic.Window = window
	ic.Running = window != 0 || ic.Docked
	if window != 0 {
		ic.Launching = false
		ic.Relaunching = false
	}
	return nil
}

// SetIconFlags updates the user-controlled flags of a docked icon.
func (d *Desktop) SetIconFlags(id IconID, autoLaunch, lock, forced, buggy bool) error {
	ic, err := d.icon(id)
	if err != nil {
		return err
	}
	ic.AutoLaunch = autoLaunch
	ic.Lock = lock
	ic.Forced = forced
	ic.Buggy = buggy
	return nil
}

// SetCommands replaces the launch, paste and drop commands of an icon.
func (d *Desktop) SetCommands(id IconID, command, paste, drop string) error {
	ic, err := d.icon(id)
	if err != nil {
		return err
	}
	if command != "" && command != "-" {
		if err := errors.ValidateCommand(command); err != nil {
			return err
		}
	}
	ic.Command = command
	ic.PasteCommand = paste
	ic.DropCommand = drop
	if ic.HasCommand() {
		ic.Attracted = false
	}
	return nil
}

// DiscardIcon removes an undocked icon from the arena.
func (d *Desktop) DiscardIcon(id IconID) error {
	ic, err := d.icon(id)
	if err != nil {
		return err
	}
	if ic.Dock != "" {
		return errors.New(errors.ErrCodeNotApplicable, "icon %s is docked", ic.Name())
	}
	d.destroyIcon(id)
	return nil
}

func (d *Desktop) destroyIcon(id IconID) {
	for h, ic := range d.handles {
		if ic == id {
			delete(d.handles, h)
		}
	}
	delete(d.icons, id)
	d.ops.Destroy(string(id))
}

// Close cancels every pending timer and releases every icon surface.
func (d *Desktop) Close() {
	for id := range d.auto {
		d.cancelAuto(id)
	}
	for id := range d.icons {
		d.ops.Destroy(string(id))
	}
}
