package dynamo

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/ballsim/internal/geom"
)

// Ball is a circular body. DPos and DVel hold corrections written during
// collision resolution and applied once every pair has been processed.
type Ball struct {
	geom.Circle
	Velocity r2.Point
	Color    colorful.Color
	DPos     r2.Point
	DVel     r2.Point
}

func NewBall(center r2.Point, radius float64, velocity r2.Point, c colorful.Color) Ball {
	return Ball{
		Circle:   geom.Circle{Center: center, Radius: radius},
		Velocity: velocity,
		Color:    c,
	}
}

// Mass is proportional to area.
func (b Ball) Mass() float64 { return b.Radius * b.Radius }

func (b Ball) Momentum() r2.Point { return b.Velocity.Mul(b.Mass()) }

func (b Ball) KineticEnergy() float64 {
	return 0.5 * b.Mass() * b.Velocity.Dot(b.Velocity)
}

// Pending reports whether a collision wrote into the accumulators.
func (b Ball) Pending() bool {
	return b.DPos != (r2.Point{}) || b.DVel != (r2.Point{})
}

// ClearPending zeroes the accumulators without applying them.
func (b *Ball) ClearPending() {
	b.DPos = r2.Point{}
	b.DVel = r2.Point{}
}

func (b Ball) IsValid() bool {
	for _, v := range []float64{b.Center.X, b.Center.Y, b.Velocity.X, b.Velocity.Y, b.Radius} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.Radius > 0
}

// Integrator advances one ball by dt inside the boundary.
type Integrator interface {
	Step(b *Ball, bound geom.Circle, dt float64)
}

// Resolver computes the interaction of a ball pair. It reports whether the
// pair was in contact.
type Resolver interface {
	Collide(a, b *Ball) bool
}

// Configurable exposes tunable parameters for live adjustment.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Metric interface {
	Name() string
	Observe(balls []Ball, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(balls []Ball, t float64)
}

// Sample is one row of a recorded run.
type Sample struct {
	Time       float64
	Balls      int
	Kinetic    float64
	Momentum   r2.Point
	Collisions int
}

type Result struct {
	Samples    []Sample
	Final      []Ball
	Metrics    map[string]float64
	StepsTaken int
	Collisions int
	Errors     []error
}

func Totals(balls []Ball) (kinetic float64, momentum r2.Point) {
	for _, b := range balls {
		kinetic += b.KineticEnergy()
		momentum = momentum.Add(b.Momentum())
	}
	return kinetic, momentum
}
