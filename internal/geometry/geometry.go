// Package geometry provides the rectangle and point types shared by the
// display backends. Coordinates are float64 because the compositor IPC
// reports fractional positions on scaled outputs.
package geometry

// Point is a position in display coordinates.
type Point struct {
	X float64
	Y float64
}

// Rectangle is an axis-aligned rectangle in display coordinates. W and H
// may be negative while a rectangle is being built from two arbitrary
// corners; call Normalised before relying on them.
type Rectangle struct {
	X float64
	Y float64
	W float64
	H float64
}

// FromCorners builds a rectangle from two opposite corners in any order.
func FromCorners(a, b Point) Rectangle {
	return Rectangle{X: a.X, Y: a.Y, W: b.X - a.X, H: b.Y - a.Y}.Normalised()
}

// Normalised returns an equivalent rectangle with non-negative width and
// height, moving the origin as needed. It is idempotent.
func (r Rectangle) Normalised() Rectangle {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// Area returns W*H.
func (r Rectangle) Area() float64 {
	return r.W * r.H
}

// Contains reports whether p falls inside r using half-open intervals:
// [X, X+W) on the horizontal axis and [Y, Y+H) on the vertical one.
func (r Rectangle) Contains(p Point) bool {
	return r.X <= p.X && p.X < r.X+r.W && r.Y <= p.Y && p.Y < r.Y+r.H
}
