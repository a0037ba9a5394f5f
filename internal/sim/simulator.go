package sim

import (
	"context"
	"fmt"
	"sort"

	"github.com/golang/geo/r2"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/geom"
	"github.com/san-kum/ballsim/internal/physics"
)

// Simulator owns the balls of one session and advances them inside a fixed
// circular boundary. It is not safe for concurrent use; frontends call it
// from a single loop goroutine.
type Simulator struct {
	bound      geom.Circle
	balls      []dynamo.Ball
	integrator dynamo.Integrator
	resolver   dynamo.Resolver
	metrics    []dynamo.Metric
	observers  []dynamo.Observer

	maxDt      float64
	paused     bool
	t          float64
	steps      int
	collisions int
}

func New(bound geom.Circle, integrator dynamo.Integrator, resolver dynamo.Resolver) *Simulator {
	return &Simulator{
		bound:      bound,
		integrator: integrator,
		resolver:   resolver,
		balls:      make([]dynamo.Ball, 0),
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// SetMaxDt caps the step size used by Step. Zero disables the cap.
func (s *Simulator) SetMaxDt(dt float64) { s.maxDt = dt }

func (s *Simulator) Boundary() geom.Circle { return s.bound }
func (s *Simulator) Paused() bool          { return s.paused }
func (s *Simulator) TogglePause()          { s.paused = !s.paused }
func (s *Simulator) Time() float64         { return s.t }
func (s *Simulator) Steps() int            { return s.steps }
func (s *Simulator) Collisions() int       { return s.collisions }
func (s *Simulator) Len() int              { return len(s.balls) }

func (s *Simulator) Integrator() dynamo.Integrator { return s.integrator }
func (s *Simulator) Resolver() dynamo.Resolver     { return s.resolver }

// Balls returns a copy of the balls in insertion order.
func (s *Simulator) Balls() []dynamo.Ball {
	out := make([]dynamo.Ball, len(s.balls))
	copy(out, s.balls)
	return out
}

// Spawn appends b and reports whether it was accepted. Balls with a
// non-finite field or a non-positive radius are rejected.
func (s *Simulator) Spawn(b dynamo.Ball) bool {
	if !b.IsValid() {
		return false
	}
	b.ClearPending()
	s.balls = append(s.balls, b)
	return true
}

// RemoveNear deletes every ball whose centre lies within r of p and returns
// how many were removed. The order of the remaining balls is kept.
func (s *Simulator) RemoveNear(p r2.Point, r float64) int {
	kept := s.balls[:0]
	for _, b := range s.balls {
		if b.Center.Sub(p).Norm() <= r {
			continue
		}
		kept = append(kept, b)
	}
	removed := len(s.balls) - len(kept)
	for i := len(kept); i < len(s.balls); i++ {
		s.balls[i] = dynamo.Ball{}
	}
	s.balls = kept
	return removed
}

// Reset removes all balls. Time and counters keep running.
func (s *Simulator) Reset() {
	s.balls = s.balls[:0]
}

// Step advances the simulation by dt unless paused. It returns the number
// of ball pairs that collided.
func (s *Simulator) Step(dt float64) int {
	if s.paused || dt <= 0 {
		return 0
	}
	if s.maxDt > 0 && dt > s.maxDt {
		dt = s.maxDt
	}
	return s.advance(dt)
}

// advance runs one full step: integrate, resolve every pair into the
// accumulators, apply them, then push balls back inside the boundary.
func (s *Simulator) advance(dt float64) int {
	for i := range s.balls {
		s.balls[i].ClearPending()
	}
	for i := range s.balls {
		s.integrator.Step(&s.balls[i], s.bound, dt)
	}
	hits := physics.Sweep(s.balls, s.resolver)
	physics.Flush(s.balls)
	for i := range s.balls {
		physics.Contain(&s.balls[i], s.bound)
	}

	s.t += dt
	s.steps++
	s.collisions += hits

	for _, m := range s.metrics {
		m.Observe(s.balls, s.t)
	}
	for _, obs := range s.observers {
		obs.OnStep(s.balls, s.t)
	}
	return hits
}

// Launch spawns Ball once simulated time reaches At.
type Launch struct {
	At   float64
	Ball dynamo.Ball
}

type Script []Launch

type RunConfig struct {
	Dt            float64
	Duration      float64
	SampleEvery   int
	ValidateState bool
}

// Run advances the simulation headlessly with a fixed step, spawning the
// script's launches as their time comes. Pause state and the MaxDt cap are
// ignored. Cancellation is checked between steps.
func (s *Simulator) Run(ctx context.Context, cfg RunConfig, script Script) (*dynamo.Result, error) {
	if err := validateRunConfig(cfg); err != nil {
		return nil, err
	}
	every := cfg.SampleEvery
	if every <= 0 {
		every = 1
	}

	pending := append(Script(nil), script...)
	sort.SliceStable(pending, func(i, j int) bool { return pending[i].At < pending[j].At })

	steps := int(cfg.Duration/cfg.Dt + 1e-9)
	result := &dynamo.Result{
		Samples: make([]dynamo.Sample, 0, steps/every+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	start := s.t
	result.Samples = append(result.Samples, s.sample())

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			result.Final = s.Balls()
			return result, ctx.Err()
		default:
		}

		for len(pending) > 0 && pending[0].At <= s.t-start {
			if !s.Spawn(pending[0].Ball) {
				result.Errors = append(result.Errors, simError(s.t, i, dynamo.ErrRejectedLaunch, fmt.Sprintf("rejected launch at t=%.3f", pending[0].At)))
			}
			pending = pending[1:]
		}

		result.Collisions += s.advance(cfg.Dt)
		result.StepsTaken++

		if cfg.ValidateState && !s.valid() {
			result.Errors = append(result.Errors, simError(s.t, i, dynamo.ErrInvalidState, "invalid state (NaN/Inf)"))
			break
		}
		if result.StepsTaken%every == 0 {
			result.Samples = append(result.Samples, s.sample())
		}
	}

	result.Final = s.Balls()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

func (s *Simulator) sample() dynamo.Sample {
	ke, p := dynamo.Totals(s.balls)
	return dynamo.Sample{
		Time:       s.t,
		Balls:      len(s.balls),
		Kinetic:    ke,
		Momentum:   p,
		Collisions: s.collisions,
	}
}

func (s *Simulator) valid() bool {
	for _, b := range s.balls {
		if !b.IsValid() {
			return false
		}
	}
	return true
}

func simError(t float64, step int, kind error, msg string) error {
	return dynamo.SimError{Time: t, Step: step, Message: msg, Err: kind}
}

func validateRunConfig(cfg RunConfig) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", dynamo.ErrInvalidConfig, cfg.Duration)
	}
	return nil
}
