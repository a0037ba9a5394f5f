package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/control"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/integrators"
	"github.com/san-kum/ballsim/internal/sim"
)

func TestNewSpawnsInitialBalls(t *testing.T) {
	e, err := New("demo", config.DefaultConfig())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if n := e.Simulator().Len(); n != 3 {
		t.Errorf("expected 3 balls, got %d", n)
	}
	if e.Config().Seed == 0 {
		t.Error("seed not assigned")
	}
	if e.Predictor().Steps != config.DefaultPreviewSteps {
		t.Errorf("predictor not configured: %+v", e.Predictor())
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FPS = 0
	if _, err := New("bad", cfg); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestRunDemo(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Run.Duration = 2
	e, err := New("demo", cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	result, err := e.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Collisions == 0 {
		t.Error("demo balls should collide")
	}
	if result.Metrics["containment"] != 1 {
		t.Errorf("containment = %v, want 1", result.Metrics["containment"])
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

func TestSetParam(t *testing.T) {
	e, err := New("demo", config.DefaultConfig())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if err := e.SetParam("gravity", 250); err != nil {
		t.Fatalf("gravity: %v", err)
	}
	if p := e.Simulator().Integrator().(*integrators.Projectile); p.Gravity != 250 {
		t.Errorf("integrator gravity = %v", p.Gravity)
	}
	if e.Predictor().Gravity != 250 {
		t.Errorf("predictor gravity = %v", e.Predictor().Gravity)
	}

	if err := e.SetParam("correction", 0.25); err != nil {
		t.Errorf("correction: %v", err)
	}
	if err := e.SetParam("damping", 0.7); err != nil {
		t.Errorf("damping: %v", err)
	}
	if e.Config().Gravity != 250 || e.Config().Damping != 0.7 || e.Config().Correction != 0.25 {
		t.Errorf("config not updated: gravity=%v damping=%v correction=%v",
			e.Config().Gravity, e.Config().Damping, e.Config().Correction)
	}
	if info := e.Info(); info.Damping != 0.7 || info.Gravity != 250 {
		t.Errorf("run info = %+v, want the overridden values", info)
	}
	if err := e.SetParam("correction", 3); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected bounds error, got %v", err)
	}
	if e.Config().Correction != 0.25 {
		t.Errorf("rejected value reached config: %v", e.Config().Correction)
	}
	if err := e.SetParam("spin", 1); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected unknown parameter error, got %v", err)
	}
}

func TestControllerDrivesSimulator(t *testing.T) {
	e, err := New("demo", config.DefaultConfig())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	c := e.Controller()
	centre := e.Simulator().Boundary().Center

	c.Handle(control.PointerDown{Pos: centre.Add(r2.Point{Y: -100}), Button: control.ButtonPrimary})
	c.Handle(control.PointerUp{Pos: centre.Add(r2.Point{Y: -90}), Button: control.ButtonPrimary})

	if n := e.Simulator().Len(); n != 4 {
		t.Errorf("expected 4 balls after launch, got %d", n)
	}
}

func TestFactoryEnsemble(t *testing.T) {
	cfg, err := config.GetPreset("crowd")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Crowd = 5
	cfg.Run.Duration = 0.5

	ens := sim.NewEnsemble(Factory("crowd", cfg, nil), 3, 10)
	results, err := ens.Run(context.Background(), sim.RunConfig{Dt: cfg.Run.Dt, Duration: cfg.Run.Duration})
	if err != nil {
		t.Fatalf("ensemble: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Final[0].Center == results[1].Final[0].Center {
		t.Error("different seeds produced identical runs")
	}
}

func TestFactoryError(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Width = -1
	ens := sim.NewEnsemble(Factory("bad", cfg, nil), 2, 1)
	if _, err := ens.Run(context.Background(), sim.RunConfig{Dt: 0.1, Duration: 1}); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
