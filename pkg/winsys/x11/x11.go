// Package x11 implements window-system operations and screen geometry on
// an X server through xgbutil.
//
// Each icon id gets an override-redirect window the size of one icon tile,
// created on first move. Head geometry comes from Xinerama when the
// extension is present and falls back to the root window otherwise.
package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	xheads "github.com/BurntSushi/xgbutil/xinerama"
	"github.com/BurntSushi/xgbutil/xrect"
	"github.com/BurntSushi/xgbutil/xwindow"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/dockworks/pkg/geometry"
	"github.com/matzehuels/dockworks/pkg/winsys"
)

const tileBackground = 0xcccccc

// Display is an X connection serving as both [winsys.Ops] and
// [geometry.Provider].
type Display struct {
	X        *xgbutil.XUtil
	iconSize int
	heads    []geometry.Rect
	windows  map[string]*xwindow.Window
	logger   *log.Logger
}

// Connect opens the named display ("" for $DISPLAY).
func Connect(display string, iconSize int, logger *log.Logger) (*Display, error) {
	X, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("connect to X display %q: %w", display, err)
	}
	if logger == nil {
		logger = log.Default()
	}
	d := &Display{
		X:        X,
		iconSize: iconSize,
		windows:  make(map[string]*xwindow.Window),
		logger:   logger,
	}
	d.heads = d.queryHeads()
	return d, nil
}

func (d *Display) queryHeads() []geometry.Rect {
	root := toRect(xwindow.RootGeometry(d.X))
	if err := xinerama.Init(d.X.Conn()); err != nil {
		d.logger.Debug("xinerama unavailable, using root geometry", "err", err)
		return []geometry.Rect{root}
	}
	heads, err := xheads.PhysicalHeads(d.X)
	if err != nil || len(heads) == 0 {
		return []geometry.Rect{root}
	}
	out := make([]geometry.Rect, 0, len(heads))
	for _, h := range heads {
		out = append(out, toRect(h))
	}
	return out
}

func toRect(r xrect.Rect) geometry.Rect {
	return geometry.Rect{X: r.X(), Y: r.Y(), W: r.Width(), H: r.Height()}
}

// Close releases every icon window and the connection.
func (d *Display) Close() {
	for id := range d.windows {
		d.Destroy(id)
	}
	d.X.Conn().Close()
}

// =============================================================================
// geometry.Provider
// =============================================================================

func (d *Display) ScreenBounds() geometry.Rect {
	return toRect(xwindow.RootGeometry(d.X))
}

func (d *Display) IconSize() int { return d.iconSize }

func (d *Display) Heads() []geometry.Rect { return d.heads }

func (d *Display) HeadForPoint(p geometry.Point) geometry.HeadID {
	for i, h := range d.heads {
		if h.Contains(p) {
			return geometry.HeadID(i)
		}
	}
	return 0
}

// =============================================================================
// winsys.Ops
// =============================================================================

func (d *Display) window(id string, pos geometry.Point) *xwindow.Window {
	if w, ok := d.windows[id]; ok {
		return w
	}
	w, err := xwindow.Generate(d.X)
	if err != nil {
		d.logger.Error("allocate icon window", "icon", id, "err", err)
		return nil
	}
	err = w.CreateChecked(d.X.RootWin(), pos.X, pos.Y, d.iconSize, d.iconSize,
		xproto.CwBackPixel|xproto.CwOverrideRedirect, tileBackground, 1)
	if err != nil {
		d.logger.Error("create icon window", "icon", id, "err", err)
		return nil
	}
	w.Map()
	d.windows[id] = w
	return w
}

func (d *Display) MoveIcon(id string, pos geometry.Point) {
	if w := d.window(id, pos); w != nil {
		w.Move(pos.X, pos.Y)
	}
}

func (d *Display) Map(id string) {
	if w, ok := d.windows[id]; ok {
		w.Map()
	}
}

func (d *Display) Unmap(id string) {
	if w, ok := d.windows[id]; ok {
		w.Unmap()
	}
}

func (d *Display) Raise(ids ...string) {
	for _, id := range ids {
		if w, ok := d.windows[id]; ok {
			w.Stack(xproto.StackModeAbove)
		}
	}
}

func (d *Display) Lower(ids ...string) {
	for _, id := range ids {
		if w, ok := d.windows[id]; ok {
			w.Stack(xproto.StackModeBelow)
		}
	}
}

func (d *Display) Restack(ids []string) {
	var prev *xwindow.Window
	for _, id := range ids {
		w, ok := d.windows[id]
		if !ok {
			continue
		}
		if prev == nil {
			w.Stack(xproto.StackModeAbove)
		} else {
			w.StackSibling(prev.Id, xproto.StackModeBelow)
		}
		prev = w
	}
}

func (d *Display) Destroy(id string) {
	if w, ok := d.windows[id]; ok {
		w.Destroy()
		delete(d.windows, id)
	}
}

var (
	_ winsys.Ops        = (*Display)(nil)
	_ geometry.Provider = (*Display)(nil)
)
