package metrics

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/san-kum/ballsim/internal/dynamo"
)

// MomentumDrift is the largest distance of total momentum from its value at
// the first observed step. Boundary reflections change it; ball-ball
// collisions alone do not.
type MomentumDrift struct {
	name     string
	initial  r2.Point
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(balls []dynamo.Ball, t float64) {
	_, p := dynamo.Totals(balls)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, p.Sub(m.initial).Norm())
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = r2.Point{}
	m.maxDrift = 0
	m.samples = 0
}

// MeanSpeed averages the speed of every ball over all observed steps.
type MeanSpeed struct {
	name    string
	sum     float64
	samples int
}

func NewMeanSpeed() *MeanSpeed {
	return &MeanSpeed{name: "mean_speed"}
}

func (s *MeanSpeed) Name() string { return s.name }

func (s *MeanSpeed) Observe(balls []dynamo.Ball, t float64) {
	for _, b := range balls {
		s.sum += b.Velocity.Norm()
		s.samples++
	}
}

func (s *MeanSpeed) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.sum / float64(s.samples)
}

func (s *MeanSpeed) Reset() {
	s.sum = 0
	s.samples = 0
}
