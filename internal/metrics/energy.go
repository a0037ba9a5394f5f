package metrics

import (
	"math"

	"github.com/san-kum/ballsim/internal/dynamo"
)

// MechanicalEnergy is kinetic plus gravitational potential energy of all
// balls. Heights are measured upwards from ref, since +y points down.
func MechanicalEnergy(balls []dynamo.Ball, gravity, ref float64) float64 {
	e := 0.0
	for _, b := range balls {
		e += b.KineticEnergy() + b.Mass()*gravity*(ref-b.Center.Y)
	}
	return e
}

// Energy averages the total mechanical energy over all observed steps.
type Energy struct {
	name        string
	gravity     float64
	ref         float64
	samples     int
	totalEnergy float64
}

func NewEnergy(gravity, ref float64) *Energy {
	return &Energy{
		name:    "energy",
		gravity: gravity,
		ref:     ref,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(balls []dynamo.Ball, t float64) {
	e.totalEnergy += MechanicalEnergy(balls, e.gravity, e.ref)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift tracks the largest relative change of mechanical energy
// from the first observed step. Damping makes it grow; with damping off
// it measures integration and correction error.
type EnergyDrift struct {
	name          string
	gravity       float64
	ref           float64
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(gravity, ref float64) *EnergyDrift {
	return &EnergyDrift{
		name:    "energy_drift",
		gravity: gravity,
		ref:     ref,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(balls []dynamo.Ball, t float64) {
	energy := MechanicalEnergy(balls, e.gravity, e.ref)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
