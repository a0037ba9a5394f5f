package metrics

import (
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/geom"
)

// Containment is the fraction of observed steps in which every ball lay
// inside the boundary, within tolerance. A correct run scores 1.
type Containment struct {
	name       string
	bound      geom.Circle
	tolerance  float64
	violations int
	samples    int
}

func NewContainment(bound geom.Circle, tolerance float64) *Containment {
	return &Containment{
		name:      "containment",
		bound:     bound,
		tolerance: tolerance,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(balls []dynamo.Ball, t float64) {
	c.samples++
	for _, b := range balls {
		if b.Center.Sub(c.bound.Center).Norm()+b.Radius > c.bound.Radius+c.tolerance {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}

// Standard returns the metrics recorded by headless runs.
func Standard(bound geom.Circle, gravity float64) []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergy(gravity, bound.Center.Y),
		NewEnergyDrift(gravity, bound.Center.Y),
		NewMomentumDrift(),
		NewMeanSpeed(),
		NewContainment(bound, 1e-9),
	}
}
