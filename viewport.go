package main

// Point is a coordinate pair, in either screen or logical units depending
// on context.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in logical units, top-left anchored.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Center() Point {
	return Point{r.X + r.W/2, r.Y + r.H/2}
}

// Viewport maps the infinite logical canvas onto the finite screen. The pan
// offset is applied after scaling, so screen = logical*scale + pan.
type Viewport struct {
	Scale float64
	Pan   Point
}

func NewViewport() *Viewport {
	return &Viewport{Scale: 1}
}

func (v *Viewport) ToLogical(s Point) Point {
	return Point{
		X: (s.X - v.Pan.X) / v.Scale,
		Y: (s.Y - v.Pan.Y) / v.Scale,
	}
}

func (v *Viewport) ToScreen(l Point) Point {
	return Point{
		X: l.X*v.Scale + v.Pan.X,
		Y: l.Y*v.Scale + v.Pan.Y,
	}
}

// ZoomAt changes the scale by delta steps and recenters the pan so the
// logical point under the given screen point stays put.
func (v *Viewport) ZoomAt(s Point, delta float64) {
	anchor := v.ToLogical(s)

	scale := v.Scale * (1 + delta*zoomIntensity)
	if scale < minScale {
		scale = minScale
	}
	if scale > maxScale {
		scale = maxScale
	}
	v.Scale = scale

	v.Pan.X = s.X - anchor.X*scale
	v.Pan.Y = s.Y - anchor.Y*scale
}

// PanBy translates the view. The canvas is unbounded, so no clamping.
func (v *Viewport) PanBy(dx, dy float64) {
	v.Pan.X += dx
	v.Pan.Y += dy
}

// Reset returns the view to the origin at 1:1 scale.
func (v *Viewport) Reset() {
	v.Scale = 1
	v.Pan = Point{}
}
