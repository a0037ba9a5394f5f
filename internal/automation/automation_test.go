package automation

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/dynamo"
)

const scenarioYAML = `
name: single-shot
preset: gravity
duration: 1
dt: 0.01
seed: 3
clear_balls: true
params:
  gravity: 0
  damping: 0
launches:
  - at: 0.5
    from: [0, 0]
    to: [-5, 0]
    radius: 500
    color: "#00ff00"
  - at: 0
    from: [0, -200]
    to: [0, -200]
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sc.Name != "single-shot" || sc.Preset != "gravity" || len(sc.Launches) != 2 {
		t.Errorf("unexpected scenario %+v", sc)
	}
	if sc.Launches[0].To != [2]float64{-5, 0} {
		t.Errorf("launch not parsed: %+v", sc.Launches[0])
	}
}

func TestLoadScenarioDefaultsPreset(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, "name: bare\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sc.Preset != "demo" {
		t.Errorf("preset = %q, want demo", sc.Preset)
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	e, result, err := RunScenario(context.Background(), sc)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if e.Name() != "single-shot" {
		t.Errorf("name = %q", e.Name())
	}
	if len(result.Final) != 2 {
		t.Fatalf("expected 2 balls, got %d", len(result.Final))
	}

	// The at-rest launch goes first, the slingshot second.
	shot := result.Final[1]
	if shot.Radius != e.Config().MaxRadius {
		t.Errorf("radius = %v, want clamped to %v", shot.Radius, e.Config().MaxRadius)
	}
	if math.Abs(shot.Velocity.X-50) > 1e-9 || shot.Velocity.Y != 0 {
		t.Errorf("velocity = %v, want (50, 0)", shot.Velocity)
	}
	if r, g, b := shot.Color.RGB255(); r != 0 || g != 255 || b != 0 {
		t.Errorf("colour = %d %d %d, want green", r, g, b)
	}
	if result.Final[0].Velocity.Norm() != 0 {
		t.Errorf("resting ball moved: %v", result.Final[0].Velocity)
	}
}

func TestRunScenarioUnknownPreset(t *testing.T) {
	sc := &Scenario{Preset: "nope"}
	if _, _, err := RunScenario(context.Background(), sc); !errors.Is(err, dynamo.ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestRunScenarioBadParam(t *testing.T) {
	sc := &Scenario{Preset: "demo", Params: map[string]float64{"damping": -1}}
	if _, _, err := RunScenario(context.Background(), sc); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestBuildWithAdjust(t *testing.T) {
	sc := &Scenario{Preset: "demo", Duration: 3, Params: map[string]float64{"correction": 0.2}}

	e, _, err := sc.BuildWith(func(cfg *config.Config) {
		if cfg.Run.Duration != 3 {
			t.Errorf("adjust saw duration %v, want the scenario's 3", cfg.Run.Duration)
		}
		cfg.Gravity = 42
		cfg.Correction = 0.9
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if e.Config().Gravity != 42 {
		t.Errorf("gravity = %v, want 42", e.Config().Gravity)
	}
	if e.Config().Correction != 0.2 {
		t.Errorf("correction = %v, want the scenario param 0.2", e.Config().Correction)
	}

	if _, _, err := sc.BuildWith(func(cfg *config.Config) { cfg.Damping = -1 }); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestBuilderOverrides(t *testing.T) {
	sc := &Scenario{Preset: "demo", Duration: 5, Params: map[string]float64{"gravity": 10}}
	build := sc.Builder(func(cfg *config.Config) {
		cfg.Damping = 0.4
		cfg.Run.Duration = 2
		cfg.Seed = 5
	}, map[string]float64{"gravity": 75})

	e, _, err := build(0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	cfg := e.Config()
	if cfg.Gravity != 75 {
		t.Errorf("gravity = %v, want the override 75", cfg.Gravity)
	}
	if e.Predictor().Gravity != 75 {
		t.Errorf("predictor gravity = %v, want 75", e.Predictor().Gravity)
	}
	if cfg.Damping != 0.4 || cfg.Run.Duration != 2 {
		t.Errorf("damping = %v duration = %v, want 0.4 and 2", cfg.Damping, cfg.Run.Duration)
	}
	if cfg.Seed != 5 {
		t.Errorf("seed = %d, want 5", cfg.Seed)
	}

	e, _, err = build(9)
	if err != nil {
		t.Fatalf("build(9): %v", err)
	}
	if e.Config().Seed != 9 {
		t.Errorf("seed = %d, want the run seed 9", e.Config().Seed)
	}

	bad := sc.Builder(nil, map[string]float64{"damping": -1})
	if _, _, err := bad(0); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestRunSweep(t *testing.T) {
	// the demo pair first touches at t=0.6 undamped; stop before any contact
	results, err := RunSweep(context.Background(), &ParameterSweep{
		Preset:    "demo",
		ParamName: "damping",
		ParamMin:  0,
		ParamMax:  1,
		NumSteps:  3,
		Duration:  0.5,
	})
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[1].ParamValue != 0.5 {
		t.Errorf("param value = %v, want 0.5", results[1].ParamValue)
	}
	for i := 1; i < len(results); i++ {
		if results[i].MeanSpeed >= results[i-1].MeanSpeed {
			t.Errorf("damping %v should slow balls: %v vs %v",
				results[i].ParamValue, results[i].MeanSpeed, results[i-1].MeanSpeed)
		}
	}
	for _, r := range results {
		if r.Collisions != 0 {
			t.Errorf("collisions = %d at %v, want none", r.Collisions, r.ParamValue)
		}
		if r.Containment != 1 {
			t.Errorf("containment = %v at %v", r.Containment, r.ParamValue)
		}
	}
}

func TestRunSweepNoSteps(t *testing.T) {
	if _, err := RunSweep(context.Background(), &ParameterSweep{Preset: "demo"}); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
