package geom

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
)

const eps = 1e-9

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestSolveQuadratic(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c float64
		want    []float64
	}{
		{"two roots", 1, 0, -4, []float64{-2, 2}},
		{"double root", 1, 2, 1, []float64{-1}},
		{"no real roots", 1, 0, 4, nil},
		{"negative leading coefficient", -1, 0, 4, []float64{-2, 2}},
		{"shifted", 2, -6, 4, []float64{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SolveQuadratic(tt.a, tt.b, tt.c)
			if len(got) != len(tt.want) {
				t.Fatalf("SolveQuadratic(%v, %v, %v) = %v, want %v", tt.a, tt.b, tt.c, got, tt.want)
			}
			for i := range got {
				if !near(got[i], tt.want[i], eps) {
					t.Errorf("root %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLineFromTwoPoints_Degenerate(t *testing.T) {
	for _, p := range []r2.Point{{X: 0, Y: 0}, {X: 3.5, Y: -2}, {X: 1e9, Y: 1e-9}} {
		if _, ok := LineFromTwoPoints(p, p); ok {
			t.Errorf("LineFromTwoPoints(%v, %v) returned a line", p, p)
		}
	}
}

func TestLineFromTwoPoints(t *testing.T) {
	p1 := r2.Point{X: 1, Y: 2}
	p2 := r2.Point{X: 4, Y: 6}

	l, ok := LineFromTwoPoints(p1, p2)
	if !ok {
		t.Fatal("expected a line")
	}
	if !near(l.Normal.Norm(), 1, eps) {
		t.Errorf("normal not unit length: %v", l.Normal)
	}
	for _, p := range []r2.Point{p1, p2, p1.Add(p2.Sub(p1).Mul(0.5))} {
		if !near(l.Eval(p), 0, eps) {
			t.Errorf("point %v not on line, eval=%v", p, l.Eval(p))
		}
	}
}

func TestCircleLineIntersect_Horizontal(t *testing.T) {
	c := Circle{Center: r2.Point{}, Radius: 5}
	l := Line{Normal: r2.Point{X: 0, Y: 1}, C: 0}

	pts := CircleLineIntersect(c, l)
	if len(pts) != 2 {
		t.Fatalf("expected 2 points, got %v", pts)
	}
	want := []r2.Point{{X: -5, Y: 0}, {X: 5, Y: 0}}
	for i := range want {
		if !near(pts[i].X, want[i].X, eps) || !near(pts[i].Y, want[i].Y, eps) {
			t.Errorf("point %d = %v, want %v", i, pts[i], want[i])
		}
	}
}

func TestCircleLineIntersect_Cases(t *testing.T) {
	c := Circle{Center: r2.Point{X: 10, Y: -3}, Radius: 2}

	tests := []struct {
		name   string
		p1, p2 r2.Point
		count  int
	}{
		{"vertical through centre", r2.Point{X: 10, Y: -10}, r2.Point{X: 10, Y: 10}, 2},
		{"horizontal through centre", r2.Point{X: 0, Y: -3}, r2.Point{X: 1, Y: -3}, 2},
		{"nearly vertical", r2.Point{X: 10, Y: -10}, r2.Point{X: 10 + 1e-12, Y: 10}, 2},
		{"nearly horizontal", r2.Point{X: 0, Y: -3}, r2.Point{X: 20, Y: -3 + 1e-12}, 2},
		{"diagonal", r2.Point{X: 8, Y: -5}, r2.Point{X: 12, Y: -1}, 2},
		{"tangent", r2.Point{X: 0, Y: -1}, r2.Point{X: 5, Y: -1}, 1},
		{"miss", r2.Point{X: 0, Y: 5}, r2.Point{X: 1, Y: 5}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, ok := LineFromTwoPoints(tt.p1, tt.p2)
			if !ok {
				t.Fatal("expected a line")
			}
			pts := CircleLineIntersect(c, l)
			if len(pts) != tt.count {
				t.Fatalf("expected %d points, got %d (%v)", tt.count, len(pts), pts)
			}
			for _, p := range pts {
				if d := p.Sub(c.Center).Norm(); !near(d, c.Radius, 1e-6) {
					t.Errorf("point %v at distance %v from centre, want %v", p, d, c.Radius)
				}
				if !near(l.Eval(p), 0, 1e-6) {
					t.Errorf("point %v not on line", p)
				}
			}
		})
	}
}

func TestCircleContains(t *testing.T) {
	c := Circle{Center: r2.Point{X: 1, Y: 1}, Radius: 1}
	if !c.Contains(r2.Point{X: 2, Y: 1}) {
		t.Error("point on the rim should be contained")
	}
	if c.Contains(r2.Point{X: 2.01, Y: 1}) {
		t.Error("point outside the rim should not be contained")
	}
}
