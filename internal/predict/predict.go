// Package predict computes the launch preview shown while a ball is being
// dragged: a gravity-only parabola sampled at fixed time steps and clipped
// where it first leaves the boundary.
package predict

import (
	"github.com/golang/geo/r2"
	"github.com/san-kum/ballsim/internal/geom"
	"github.com/san-kum/ballsim/internal/integrators"
)

const (
	DefaultLaunchScale = 10
	DefaultSteps       = 300
	DefaultDt          = 1.0 / 60
)

type Predictor struct {
	Bound       geom.Circle
	Gravity     float64
	LaunchScale float64
	Steps       int
	Dt          float64
}

func New(bound geom.Circle, gravity float64) *Predictor {
	return &Predictor{
		Bound:       bound,
		Gravity:     gravity,
		LaunchScale: DefaultLaunchScale,
		Steps:       DefaultSteps,
		Dt:          DefaultDt,
	}
}

// LaunchVelocity points from the current pointer back towards the drag
// start, like pulling a slingshot.
func (p *Predictor) LaunchVelocity(start, current r2.Point) r2.Point {
	return start.Sub(current).Mul(p.LaunchScale)
}

// Parabola samples Steps+1 positions; sample i is at time i*Dt, so the
// first sample is start itself. Damping is ignored.
func (p *Predictor) Parabola(start, v r2.Point) []r2.Point {
	steps := p.Steps
	if steps < 0 {
		steps = 0
	}
	out := make([]r2.Point, steps+1)
	for i := range out {
		t := float64(i) * p.Dt
		out[i] = start.Add(integrators.Displacement(v, p.Gravity, t))
	}
	return out
}

// Clip truncates samples where they first leave the boundary. Only a step
// from an inside sample to an outside one counts as leaving, so a path that
// starts outside is kept until it has been inside. The crossing segment is
// cut at the boundary, which becomes the last sample. The input slice is
// not modified.
func (p *Predictor) Clip(samples []r2.Point) []r2.Point {
	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1], samples[i]
		if p.Bound.Contains(cur) || !p.Bound.Contains(prev) {
			continue
		}
		out := append([]r2.Point(nil), samples[:i]...)

		l, ok := geom.LineFromTwoPoints(cur, prev)
		if !ok {
			return out
		}
		seg := cur.Sub(prev)
		switch pts := geom.CircleLineIntersect(p.Bound, l); len(pts) {
		case 1:
			return append(out, pts[0])
		case 2:
			for _, pt := range pts {
				if pt.Sub(prev).Dot(seg) > 0 {
					return append(out, pt)
				}
			}
			return out
		default:
			return out
		}
	}
	return append([]r2.Point(nil), samples...)
}

// Preview is the clipped trajectory a ball released at current would follow.
func (p *Predictor) Preview(start, current r2.Point) []r2.Point {
	return p.Clip(p.Parabola(start, p.LaunchVelocity(start, current)))
}
