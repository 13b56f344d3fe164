package dock

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes the three dock variants.
type Kind int

const (
	// Main is the screen's application dock, a single column of slots.
	Main Kind = iota
	// Clip is the per-workspace dock that grows in two dimensions.
	Clip
	// Drawer is a horizontal row of slots hanging off a Main dock slot.
	Drawer
)

func (k Kind) String() string {
	switch k {
	case Main:
		return "dock"
	case Clip:
		return "clip"
	case Drawer:
		return "drawer"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind is the inverse of [Kind.String].
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "dock", "main":
		return Main, true
	case "clip":
		return Clip, true
	case "drawer":
		return Drawer, true
	}
	return 0, false
}

// Side is the screen side the Main dock sits on. Drawers grow away from it.
type Side int

const (
	Left Side = iota
	Right
)

// Sign returns the direction drawer slots grow in: +1 on the left side, -1 on the right.
func (s Side) Sign() int {
	if s == Right {
		return -1
	}
	return 1
}

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// Slot is a position relative to a dock's anchor, in icon-size units.
// Drawers only use X.
type Slot struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String encodes the slot the way persisted positions are written.
func (s Slot) String() string { return fmt.Sprintf("%d,%d", s.X, s.Y) }

// Add returns the slot offset by (dx, dy).
func (s Slot) Add(dx, dy int) Slot { return Slot{s.X + dx, s.Y + dy} }

// AnchorSlot is the slot of every dock's own icon.
var AnchorSlot = Slot{}

// Engine constants.
const (
	// DefaultDetachThreshold is how many slots an icon may be dragged away
	// from its dock column before it detaches.
	DefaultDetachThreshold = 2
	// ClipAttachVicinity is how close, in slots, an icon dropped on a Clip
	// must be to an existing icon.
	ClipAttachVicinity = 1
	// ClipMaxIcons is the capacity of every Clip.
	ClipMaxIcons = 32
	// ExtraSpace is the pixel gap between the Main dock and the screen edge.
	ExtraSpace = 3
)

// Flags holds the per-dock behavior switches.
type Flags struct {
	Collapsed      bool `json:"collapsed"`
	AutoCollapse   bool `json:"auto_collapse"`
	AutoRaiseLower bool `json:"auto_raise_lower"`
	AttractIcons   bool `json:"attract_icons"`
	Lowered        bool `json:"lowered"`
}

// Timing configures the auto-behavior delays.
type Timing struct {
	AutoRaise    time.Duration
	AutoLower    time.Duration
	AutoExpand   time.Duration
	AutoCollapse time.Duration
}

// DefaultTiming matches the classic clip delays.
var DefaultTiming = Timing{
	AutoRaise:    600 * time.Millisecond,
	AutoLower:    1000 * time.Millisecond,
	AutoExpand:   600 * time.Millisecond,
	AutoCollapse: 1000 * time.Millisecond,
}

// IconID is the opaque arena key of an [AppIcon].
type IconID string

// DockID is the opaque key of a [Dock].
type DockID string

func newIconID() IconID { return IconID(uuid.NewString()) }

func newDockID() DockID { return DockID(uuid.NewString()) }
