// Package geom provides closed-form 2D solvers used by the trajectory
// predictor: quadratic roots, implicit lines and circle/line intersection.
//
// Degenerate inputs never panic. They yield an empty result or a false
// second return value, and callers are expected to check it.
package geom

import (
	"math"

	"github.com/golang/geo/r2"
)

type Circle struct {
	Center r2.Point
	Radius float64
}

// Contains reports whether p lies inside or on the circle.
func (c Circle) Contains(p r2.Point) bool {
	return p.Sub(c.Center).Norm() <= c.Radius
}

// Line is the implicit line A*x + B*y + C = 0 with (A, B) = Normal.
type Line struct {
	Normal r2.Point
	C      float64
}

func (l Line) A() float64 { return l.Normal.X }
func (l Line) B() float64 { return l.Normal.Y }

// Eval returns the signed distance of p from the line when Normal is unit length.
func (l Line) Eval(p r2.Point) float64 {
	return l.Normal.Dot(p) + l.C
}

// LineFromTwoPoints builds the line through p1 and p2 with a unit normal.
// It returns false when the points coincide.
func LineFromTwoPoints(p1, p2 r2.Point) (Line, bool) {
	n := r2.Point{X: p1.Y - p2.Y, Y: p2.X - p1.X}
	if n.X == 0 && n.Y == 0 {
		return Line{}, false
	}
	n = n.Normalize()
	return Line{Normal: n, C: -n.Dot(p1)}, true
}

// SolveQuadratic returns the real roots of a*x^2 + b*x + c, smaller first.
// a must be non-zero.
func SolveQuadratic(a, b, c float64) []float64 {
	d := b*b - 4*a*c
	if d < 0 {
		return nil
	}
	if d == 0 {
		return []float64{-b / (2 * a)}
	}
	ds := math.Sqrt(d)
	r1, r2 := (-b-ds)/(2*a), (-b+ds)/(2*a)
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	return []float64{r1, r2}
}

// CircleLineIntersect returns the 0, 1 or 2 points where l crosses c.
//
// The line equation is solved for whichever coordinate has the larger
// normal component, so near axis-aligned lines never divide by a value
// close to zero.
func CircleLineIntersect(c Circle, l Line) []r2.Point {
	A, B, C := l.A(), l.B(), l.C
	x0, y0, r := c.Center.X, c.Center.Y, c.Radius
	nn := A*A + B*B
	if nn == 0 {
		return nil
	}

	if A*A > B*B {
		A2 := A * A
		a := nn / A2
		b := 2 * (B*C/A2 + x0*B/A - y0)
		cc := C*C/A2 + 2*x0*C/A + x0*x0 + y0*y0 - r*r
		roots := SolveQuadratic(a, b, cc)
		pts := make([]r2.Point, 0, len(roots))
		for _, y := range roots {
			pts = append(pts, r2.Point{X: -(B*y + C) / A, Y: y})
		}
		return pts
	}

	B2 := B * B
	a := nn / B2
	b := 2 * (A*C/B2 + y0*A/B - x0)
	cc := C*C/B2 + 2*y0*C/B + x0*x0 + y0*y0 - r*r
	roots := SolveQuadratic(a, b, cc)
	pts := make([]r2.Point, 0, len(roots))
	for _, x := range roots {
		pts = append(pts, r2.Point{X: x, Y: -(A*x + C) / B})
	}
	return pts
}
