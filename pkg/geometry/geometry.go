// Package geometry provides screen and icon geometry for dock placement.
//
// All coordinates are root-window pixels with the origin at the top-left
// corner of the screen and y growing downwards. A [Provider] answers the
// three questions the dock engine asks: how big is the screen, how big is
// an icon, and which head (monitor) contains a point.
package geometry

// Point is a pixel position.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Rect is an axis-aligned pixel rectangle. Right and Bottom are exclusive.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Right returns the first column past the rectangle.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the first row past the rectangle.
func (r Rect) Bottom() int { return r.Y + r.H }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{r.X, r.Y} }

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return r.X <= p.X && p.X < r.Right() &&
		r.Y <= p.Y && p.Y < r.Bottom()
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return r.X <= o.X && o.Right() <= r.Right() &&
		r.Y <= o.Y && o.Bottom() <= r.Bottom()
}

// Intersects reports whether r and o share any pixel.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() &&
		r.Y < o.Bottom() && o.Y < r.Bottom()
}

// HeadID identifies one physical head of a multi-head screen.
// Head 0 is the primary head.
type HeadID int

// Provider supplies the screen geometry the dock engine depends on.
type Provider interface {
	// ScreenBounds returns the bounds of the whole root window.
	ScreenBounds() Rect

	// IconSize returns the side length of a square icon tile in pixels.
	IconSize() int

	// HeadForPoint returns the head containing p, or the primary head
	// when no head does.
	HeadForPoint(p Point) HeadID

	// Heads returns the head rectangles. A screen without multi-head
	// information reports a single head equal to ScreenBounds.
	Heads() []Rect
}

// IconRect returns the tile rectangle of an icon whose top-left corner is at pos.
func IconRect(p Provider, pos Point) Rect {
	s := p.IconSize()
	return Rect{X: pos.X, Y: pos.Y, W: s, H: s}
}

// OnScreen reports whether an icon tile at pos lies entirely inside one
// head. Tiles straddling two heads or the screen edge are not on screen.
func OnScreen(p Provider, pos Point) bool {
	tile := IconRect(p, pos)
	for _, h := range p.Heads() {
		if h.ContainsRect(tile) {
			return true
		}
	}
	return false
}

// KeepInside clamps pos so an icon tile stays inside the screen bounds.
func KeepInside(p Provider, pos Point) Point {
	b := p.ScreenBounds()
	s := p.IconSize()
	pos.X = clamp(pos.X, b.X, b.Right()-s)
	pos.Y = clamp(pos.Y, b.Y, b.Bottom()-s)
	return pos
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
