package physics

import (
	"fmt"

	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/geom"
)

// DefaultCorrection pushes each ball of an overlapping pair out by half the
// overlap, leaving the pair exactly tangent.
const DefaultCorrection = 0.5

// Elastic resolves ball pairs with a mass-weighted elastic collision, mass
// proportional to radius squared. All writes go to the deferred
// accumulators.
type Elastic struct {
	Correction float64
}

func NewElastic() *Elastic {
	return &Elastic{Correction: DefaultCorrection}
}

func (e *Elastic) Collide(a, b *dynamo.Ball) bool {
	d := a.Center.Sub(b.Center)
	dist := d.Norm()
	if dist > a.Radius+b.Radius || dist == 0 {
		return false
	}
	n := d.Mul(1 / dist)

	m1, m2 := a.Mass(), b.Mass()
	v1n, v2n := a.Velocity.Dot(n), b.Velocity.Dot(n)

	// 1D elastic exchange along the normal; tangential parts are untouched.
	u1n := (v1n*(m1-m2) + 2*m2*v2n) / (m1 + m2)
	u2n := (v2n*(m2-m1) + 2*m1*v1n) / (m1 + m2)

	a.DVel = a.DVel.Add(n.Mul(u1n - v1n))
	b.DVel = b.DVel.Add(n.Mul(u2n - v2n))

	overlap := a.Radius + b.Radius - dist
	a.DPos = a.DPos.Add(n.Mul(overlap * e.Correction))
	b.DPos = b.DPos.Sub(n.Mul(overlap * e.Correction))
	return true
}

func (e *Elastic) GetParams() map[string]float64 {
	return map[string]float64{"correction": e.Correction}
}

func (e *Elastic) SetParam(name string, value float64) error {
	switch name {
	case "correction":
		if value < 0 || value > 1 {
			return fmt.Errorf("%w: correction %v outside [0, 1]", dynamo.ErrParameterBounds, value)
		}
		e.Correction = value
	default:
		return fmt.Errorf("%w: unknown parameter %q", dynamo.ErrParameterBounds, name)
	}
	return nil
}

// Sweep tests every unordered pair once, in ascending index order, and
// returns how many pairs were in contact.
func Sweep(balls []dynamo.Ball, r dynamo.Resolver) int {
	hits := 0
	for i := 0; i < len(balls); i++ {
		for j := i + 1; j < len(balls); j++ {
			if r.Collide(&balls[i], &balls[j]) {
				hits++
			}
		}
	}
	return hits
}

// Flush applies and clears the accumulated corrections of every ball.
func Flush(balls []dynamo.Ball) {
	for i := range balls {
		b := &balls[i]
		b.Center = b.Center.Add(b.DPos)
		b.Velocity = b.Velocity.Add(b.DVel)
		b.ClearPending()
	}
}

// Contain moves a ball that overlaps the boundary back along the inward
// normal so it touches the boundary from inside. It reports whether the
// ball was moved.
func Contain(b *dynamo.Ball, bound geom.Circle) bool {
	d := b.Center.Sub(bound.Center)
	dist := d.Norm()
	if dist == 0 || dist+b.Radius < bound.Radius {
		return false
	}
	overlap := dist + b.Radius - bound.Radius
	b.Center = b.Center.Sub(d.Mul(overlap / dist))
	return true
}
