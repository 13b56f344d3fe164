package geometry

// Static is a fixed-size [Provider], used for configured screens, tests
// and the simulator.
type Static struct {
	Screen Rect
	Icon   int
	// HeadRects lists the physical heads. Empty means one head covering Screen.
	HeadRects []Rect
}

// NewStatic returns a single-head screen of the given size.
func NewStatic(width, height, iconSize int) *Static {
	return &Static{
		Screen: Rect{W: width, H: height},
		Icon:   iconSize,
	}
}

// WithHeads returns a copy of s reporting the given head rectangles.
func (s *Static) WithHeads(heads ...Rect) *Static {
	cp := *s
	cp.HeadRects = append([]Rect(nil), heads...)
	return &cp
}

func (s *Static) ScreenBounds() Rect { return s.Screen }

func (s *Static) IconSize() int { return s.Icon }

func (s *Static) Heads() []Rect {
	if len(s.HeadRects) == 0 {
		return []Rect{s.Screen}
	}
	return s.HeadRects
}

func (s *Static) HeadForPoint(p Point) HeadID {
	for i, h := range s.Heads() {
		if h.Contains(p) {
			return HeadID(i)
		}
	}
	return 0
}

var _ Provider = (*Static)(nil)

// Unbounded is a [Provider] whose single head is large enough that every
// slot a dock can address is on screen. Used by allocator tests that
// care only about occupancy.
func Unbounded(iconSize int) *Static {
	const half = 1 << 20
	return &Static{
		Screen: Rect{X: -half, Y: -half, W: 2 * half, H: 2 * half},
		Icon:   iconSize,
	}
}
