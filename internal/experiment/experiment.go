// Package experiment assembles a simulator, predictor and controller from a
// configuration, so every frontend and the headless runner share one set of
// wiring.
package experiment

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/control"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/integrators"
	"github.com/san-kum/ballsim/internal/metrics"
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/predict"
	"github.com/san-kum/ballsim/internal/sim"
	"github.com/san-kum/ballsim/internal/storage"
)

type Experiment struct {
	name      string
	cfg       *config.Config
	simulator *sim.Simulator
	predictor *predict.Predictor
	rng       *rand.Rand
}

// New validates cfg and builds a simulator populated with its initial
// balls. A zero seed is replaced by one taken from the clock.
func New(name string, cfg *config.Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	bound := cfg.Boundary()
	elastic := physics.NewElastic()
	if err := elastic.SetParam("correction", cfg.Correction); err != nil {
		return nil, err
	}

	s := sim.New(bound, integrators.NewProjectile(cfg.Gravity, cfg.Damping), elastic)
	s.SetMaxDt(cfg.MaxDt)
	for _, m := range metrics.Standard(bound, cfg.Gravity) {
		s.AddMetric(m)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	for _, b := range cfg.InitialBalls(rng) {
		s.Spawn(b)
	}

	p := predict.New(bound, cfg.Gravity)
	p.LaunchScale = cfg.LaunchScale
	p.Steps = cfg.PreviewSteps
	p.Dt = cfg.PreviewDt

	return &Experiment{
		name:      name,
		cfg:       cfg,
		simulator: s,
		predictor: p,
		rng:       rng,
	}, nil
}

func (e *Experiment) Name() string                  { return e.name }
func (e *Experiment) Config() *config.Config        { return e.cfg }
func (e *Experiment) Simulator() *sim.Simulator     { return e.simulator }
func (e *Experiment) Predictor() *predict.Predictor { return e.predictor }
func (e *Experiment) Rand() *rand.Rand              { return e.rng }

// Controller returns an input controller driving this experiment.
func (e *Experiment) Controller() *control.Controller {
	return control.New(e.simulator, e.predictor, control.Config{
		Radius:    e.cfg.Radius,
		MinRadius: e.cfg.MinRadius,
		MaxRadius: e.cfg.MaxRadius,
		Seed:      e.cfg.Seed,
	})
}

// SetParam forwards a named parameter to whichever of the integrator or
// resolver accepts it.
func (e *Experiment) SetParam(name string, value float64) error {
	var last error
	for _, part := range []any{e.simulator.Integrator(), e.simulator.Resolver()} {
		c, ok := part.(dynamo.Configurable)
		if !ok {
			continue
		}
		if _, known := c.GetParams()[name]; !known {
			continue
		}
		if err := c.SetParam(name, value); err != nil {
			last = err
			continue
		}
		switch name {
		case "gravity":
			e.predictor.Gravity = value
			e.cfg.Gravity = value
		case "damping":
			e.cfg.Damping = value
		case "correction":
			e.cfg.Correction = value
		}
		return nil
	}
	if last != nil {
		return last
	}
	return fmt.Errorf("%w: unknown parameter %q", dynamo.ErrParameterBounds, name)
}

func (e *Experiment) Run(ctx context.Context, script sim.Script) (*dynamo.Result, error) {
	return e.simulator.Run(ctx, sim.RunConfig{
		Dt:            e.cfg.Run.Dt,
		Duration:      e.cfg.Run.Duration,
		SampleEvery:   e.cfg.Run.SampleEvery,
		ValidateState: true,
	}, script)
}

// Info describes the experiment for storage.
func (e *Experiment) Info() storage.RunInfo {
	return storage.RunInfo{
		Preset:   e.name,
		Seed:     e.cfg.Seed,
		Dt:       e.cfg.Run.Dt,
		Duration: e.cfg.Run.Duration,
		Gravity:  e.cfg.Gravity,
		Damping:  e.cfg.Damping,
		Boundary: e.cfg.Boundary(),
	}
}

// Factory builds a fresh experiment per seed for ensemble runs. script is
// derived from each experiment so launches can depend on its predictor.
func Factory(name string, cfg *config.Config, script func(*Experiment) sim.Script) sim.Factory {
	return func(seed int64) (*sim.Simulator, sim.Script, error) {
		c := cfg.Clone()
		c.Seed = seed
		e, err := New(name, c)
		if err != nil {
			return nil, nil, err
		}
		var sc sim.Script
		if script != nil {
			sc = script(e)
		}
		return e.simulator, sc, nil
	}
}
