package geometry

import "testing"

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 30, H: 40}
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"top-left corner", Point{10, 20}, true},
		{"inside", Point{25, 50}, true},
		{"right edge exclusive", Point{40, 30}, false},
		{"bottom edge exclusive", Point{15, 60}, false},
		{"left of", Point{9, 30}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{W: 10, H: 10}
	if !a.Intersects(Rect{X: 9, Y: 9, W: 5, H: 5}) {
		t.Error("Intersects() = false for overlapping corner, want true")
	}
	if a.Intersects(Rect{X: 10, W: 5, H: 5}) {
		t.Error("Intersects() = true for touching edge, want false")
	}
}

func TestOnScreen(t *testing.T) {
	single := NewStatic(1024, 768, 64)
	dual := NewStatic(2048, 768, 64).WithHeads(
		Rect{W: 1024, H: 768},
		Rect{X: 1024, W: 1024, H: 768},
	)

	tests := []struct {
		name string
		p    Provider
		pos  Point
		want bool
	}{
		{"origin", single, Point{0, 0}, true},
		{"bottom-right tile", single, Point{960, 704}, true},
		{"partially right", single, Point{961, 0}, false},
		{"negative", single, Point{-1, 0}, false},
		{"first head", dual, Point{960, 0}, true},
		{"straddles heads", dual, Point{1000, 0}, false},
		{"second head", dual, Point{1024, 100}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OnScreen(tt.p, tt.pos); got != tt.want {
				t.Errorf("OnScreen(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestKeepInside(t *testing.T) {
	p := NewStatic(1024, 768, 64)
	tests := []struct {
		in, want Point
	}{
		{Point{-30, -5}, Point{0, 0}},
		{Point{2000, 900}, Point{960, 704}},
		{Point{100, 200}, Point{100, 200}},
	}
	for _, tt := range tests {
		if got := KeepInside(p, tt.in); got != tt.want {
			t.Errorf("KeepInside(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHeadForPoint(t *testing.T) {
	dual := NewStatic(2048, 768, 64).WithHeads(
		Rect{W: 1024, H: 768},
		Rect{X: 1024, W: 1024, H: 768},
	)
	if got := dual.HeadForPoint(Point{1500, 10}); got != 1 {
		t.Errorf("HeadForPoint() = %v, want 1", got)
	}
	if got := dual.HeadForPoint(Point{-5, -5}); got != 0 {
		t.Errorf("HeadForPoint() off screen = %v, want 0", got)
	}
}

func TestUnbounded(t *testing.T) {
	p := Unbounded(64)
	for _, pos := range []Point{{-6400, -6400}, {0, 0}, {6400, 6400}} {
		if !OnScreen(p, pos) {
			t.Errorf("OnScreen(%v) = false, want true", pos)
		}
	}
}
