package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/golang/geo/r2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/experiment"
	"github.com/san-kum/ballsim/internal/palette"
	"github.com/san-kum/ballsim/internal/sim"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted headless run: a preset, parameter overrides
// and a list of drag gestures replayed at fixed times.
type Scenario struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Preset      string             `yaml:"preset"`
	Duration    float64            `yaml:"duration"`
	Dt          float64            `yaml:"dt"`
	Seed        int64              `yaml:"seed"`
	Params      map[string]float64 `yaml:"params"`
	ClearBalls  bool               `yaml:"clear_balls"`
	Launches    []LaunchStep       `yaml:"launches"`
}

// LaunchStep is one drag gesture. From and To are offsets from the boundary
// centre: the ball appears at From and flies away from To.
type LaunchStep struct {
	At     float64    `yaml:"at"`
	From   [2]float64 `yaml:"from"`
	To     [2]float64 `yaml:"to"`
	Radius float64    `yaml:"radius"`
	Color  string     `yaml:"color"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if scenario.Preset == "" {
		scenario.Preset = "demo"
	}

	return &scenario, nil
}

// Config resolves the scenario's preset with its overrides applied.
func (s *Scenario) Config() (*config.Config, error) {
	cfg, err := config.GetPreset(s.Preset)
	if err != nil {
		return nil, err
	}
	if s.Duration > 0 {
		cfg.Run.Duration = s.Duration
	}
	if s.Dt > 0 {
		cfg.Run.Dt = s.Dt
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.ClearBalls {
		cfg.Balls = nil
		cfg.Crowd = 0
	}
	return cfg, nil
}

// Script turns the launch gestures into timed spawns using e's predictor
// for launch velocities and e's radius limits.
func (s *Scenario) Script(e *experiment.Experiment) sim.Script {
	cfg := e.Config()
	centre := e.Simulator().Boundary().Center
	script := make(sim.Script, 0, len(s.Launches))
	for _, l := range s.Launches {
		from := centre.Add(r2.Point{X: l.From[0], Y: l.From[1]})
		to := centre.Add(r2.Point{X: l.To[0], Y: l.To[1]})

		r := l.Radius
		if r == 0 {
			r = cfg.Radius
		}
		r = max(cfg.MinRadius, min(cfg.MaxRadius, r))

		col, err := colorful.Hex(l.Color)
		if err != nil {
			col = palette.RandomHue(e.Rand())
		}

		script = append(script, sim.Launch{
			At:   l.At,
			Ball: dynamo.NewBall(from, r, e.Predictor().LaunchVelocity(from, to), col),
		})
	}
	return script
}

// Build creates the experiment and script for the scenario.
func (s *Scenario) Build() (*experiment.Experiment, sim.Script, error) {
	return s.BuildWith(nil)
}

// BuildWith is Build with adjust applied to the resolved config before the
// experiment is created. Params still apply last.
func (s *Scenario) BuildWith(adjust func(*config.Config)) (*experiment.Experiment, sim.Script, error) {
	cfg, err := s.Config()
	if err != nil {
		return nil, nil, err
	}
	if adjust != nil {
		adjust(cfg)
	}
	name := s.Name
	if name == "" {
		name = s.Preset
	}
	e, err := experiment.New(name, cfg)
	if err != nil {
		return nil, nil, err
	}
	for k, v := range s.Params {
		if err := e.SetParam(k, v); err != nil {
			return nil, nil, fmt.Errorf("param %s: %w", k, err)
		}
	}
	return e, s.Script(e), nil
}

// Builder returns a build function for runs with consecutive seeds. adjust
// runs on each resolved config, overrides are set after the scenario's own
// params, and a non-zero seed argument wins over both.
func (s *Scenario) Builder(adjust func(*config.Config), overrides map[string]float64) func(int64) (*experiment.Experiment, sim.Script, error) {
	return func(seed int64) (*experiment.Experiment, sim.Script, error) {
		e, script, err := s.BuildWith(func(cfg *config.Config) {
			if adjust != nil {
				adjust(cfg)
			}
			if seed != 0 {
				cfg.Seed = seed
			}
		})
		if err != nil {
			return nil, nil, err
		}
		for k, v := range overrides {
			if err := e.SetParam(k, v); err != nil {
				return nil, nil, fmt.Errorf("override %s: %w", k, err)
			}
		}
		return e, script, nil
	}
}

// RunScenario executes the scenario headlessly.
func RunScenario(ctx context.Context, s *Scenario) (*experiment.Experiment, *dynamo.Result, error) {
	e, script, err := s.Build()
	if err != nil {
		return nil, nil, err
	}
	fmt.Printf("Running scenario %s (%d launches, %.2fs)\n", e.Name(), len(script), e.Config().Run.Duration)
	result, err := e.Run(ctx, script)
	return e, result, err
}

// ParameterSweep runs one preset across a range of values of a single
// integrator or resolver parameter.
type ParameterSweep struct {
	Preset    string
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Duration  float64
	Dt        float64
	Seed      int64
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue  float64
	Collisions  int
	EnergyDrift float64
	MeanSpeed   float64
	Containment float64
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("%w: sweep needs at least one step", dynamo.ErrInvalidConfig)
	}
	base, err := config.GetPreset(sweep.Preset)
	if err != nil {
		return nil, err
	}
	if sweep.Duration > 0 {
		base.Run.Duration = sweep.Duration
	}
	if sweep.Dt > 0 {
		base.Run.Dt = sweep.Dt
	}
	if sweep.Seed != 0 {
		base.Seed = sweep.Seed
	} else if base.Seed == 0 {
		base.Seed = 1
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		e, err := experiment.New(sweep.Preset, base)
		if err != nil {
			return nil, err
		}
		if err := e.SetParam(sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		result, err := e.Run(ctx, nil)
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			ParamValue:  paramVal,
			Collisions:  result.Collisions,
			EnergyDrift: result.Metrics["energy_drift"],
			MeanSpeed:   result.Metrics["mean_speed"],
			Containment: result.Metrics["containment"],
		})

		fmt.Printf("Sweep %d/%d: %s=%.4f\n", i+1, sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}
