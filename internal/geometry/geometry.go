package geometry

import (
	"image"
	"math"
)

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// PointF is a sub-pixel coordinate, as produced by detector mask outputs.
type PointF struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Round converts p to the nearest integer pixel.
func (p PointF) Round() Point {
	return Point{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

// Box is an axis-aligned detection box.
//
// A well-formed box has X1 < X2 and Y1 < Y2. Degenerate boxes are tolerated
// everywhere in the pipeline; they simply produce degenerate outlines.
type Box struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Width returns X2 - X1.
func (b Box) Width() int { return b.X2 - b.X1 }

// Height returns Y2 - Y1.
func (b Box) Height() int { return b.Y2 - b.Y1 }

// Valid reports whether the box has positive area.
func (b Box) Valid() bool { return b.X1 < b.X2 && b.Y1 < b.Y2 }

// Rect converts the box to an image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

// Expand grows the box by pad pixels on every side and clips it to limit.
func (b Box) Expand(pad int, limit image.Rectangle) image.Rectangle {
	r := image.Rect(b.X1-pad, b.Y1-pad, b.X2+pad, b.Y2+pad)
	return r.Intersect(limit)
}

// Polygon is an ordered, implicitly closed sequence of points.
type Polygon []Point

// Translate returns a copy of the polygon shifted by (dx, dy).
func (p Polygon) Translate(dx, dy int) Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[i] = Point{X: pt.X + dx, Y: pt.Y + dy}
	}
	return out
}

// Area returns the absolute enclosed area using the shoelace formula.
func (p Polygon) Area() float64 {
	if len(p) < 3 {
		return 0
	}
	var sum int
	for i := range p {
		j := (i + 1) % len(p)
		sum += p[i].X*p[j].Y - p[j].X*p[i].Y
	}
	return math.Abs(float64(sum)) / 2
}

// Perimeter returns the closed arc length of the polygon.
func (p Polygon) Perimeter() float64 {
	if len(p) < 2 {
		return 0
	}
	var total float64
	for i := range p {
		j := (i + 1) % len(p)
		total += math.Hypot(float64(p[j].X-p[i].X), float64(p[j].Y-p[i].Y))
	}
	return total
}

// Bounds returns the smallest box containing every vertex.
func (p Polygon) Bounds() Box {
	if len(p) == 0 {
		return Box{}
	}
	b := Box{X1: p[0].X, Y1: p[0].Y, X2: p[0].X, Y2: p[0].Y}
	for _, pt := range p[1:] {
		b.X1 = min(b.X1, pt.X)
		b.Y1 = min(b.Y1, pt.Y)
		b.X2 = max(b.X2, pt.X)
		b.Y2 = max(b.Y2, pt.Y)
	}
	return b
}

// Pairs flattens the polygon to [x, y] pairs for serialization.
func (p Polygon) Pairs() [][2]int {
	out := make([][2]int, len(p))
	for i, pt := range p {
		out[i] = [2]int{pt.X, pt.Y}
	}
	return out
}

// Rect is a screen-space rectangle given by its top-left corner and size.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Overlaps reports whether r and o share any pixel, including touching edges.
// Two rectangles are disjoint only if one lies entirely to the left, right,
// above, or below the other.
func (r Rect) Overlaps(o Rect) bool {
	return !(r.X+r.W < o.X ||
		r.X > o.X+o.W ||
		r.Y+r.H < o.Y ||
		r.Y > o.Y+o.H)
}

// ClampTo moves r so it lies inside a width x height canvas. When r is larger
// than the canvas it is pinned to the top-left corner.
func (r Rect) ClampTo(width, height int) Rect {
	r.X = max(0, min(r.X, width-r.W))
	r.Y = max(0, min(r.Y, height-r.H))
	return r
}

// ImageRect converts r to an image.Rectangle.
func (r Rect) ImageRect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}
