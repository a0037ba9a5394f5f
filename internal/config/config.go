package config

import (
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/golang/geo/r2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/geom"
	"github.com/san-kum/ballsim/internal/palette"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth         = 1280.0
	DefaultHeight        = 720.0
	DefaultBoundaryScale = 0.9
	DefaultDamping       = 0.1
	DefaultLaunchScale   = 10.0
	DefaultPreviewSteps  = 300
	DefaultPreviewDt     = 1.0 / 60
	DefaultRadius        = 10.0
	DefaultMinRadius     = 1.0
	DefaultMaxRadius     = 100.0
	DefaultFPS           = 60
	DefaultMaxDt         = 0.1
	DefaultDt            = 1.0 / 60
	DefaultDuration      = 10.0
	DefaultBallColor     = "#ff0000"
)

type Config struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	BoundaryScale float64 `yaml:"boundary_scale"`

	Gravity     float64 `yaml:"gravity"`
	Damping     float64 `yaml:"damping"`
	Correction  float64 `yaml:"correction"`
	LaunchScale float64 `yaml:"launch_scale"`

	PreviewSteps int     `yaml:"preview_steps"`
	PreviewDt    float64 `yaml:"preview_dt"`

	Radius    float64 `yaml:"radius"`
	MinRadius float64 `yaml:"min_radius"`
	MaxRadius float64 `yaml:"max_radius"`

	FPS   int     `yaml:"fps"`
	MaxDt float64 `yaml:"max_dt"`
	Seed  int64   `yaml:"seed"`

	Balls []BallConfig `yaml:"balls"`
	Crowd int          `yaml:"crowd"`

	Run      RunConfig      `yaml:"run"`
	Recorder RecorderConfig `yaml:"recorder"`
	Server   ServerConfig   `yaml:"server"`
}

// BallConfig places a ball relative to the boundary centre.
type BallConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius"`
	VX     float64 `yaml:"vx"`
	VY     float64 `yaml:"vy"`
	Color  string  `yaml:"color,omitempty"`
}

type RunConfig struct {
	Dt          float64 `yaml:"dt"`
	Duration    float64 `yaml:"duration"`
	SampleEvery int     `yaml:"sample_every"`
}

type RecorderConfig struct {
	Pattern string `yaml:"pattern"`
	Every   int    `yaml:"every"`
}

type ServerConfig struct {
	Addr     string `yaml:"addr"`
	TickRate int    `yaml:"tick_rate"`
	Release  bool   `yaml:"release"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		BoundaryScale: DefaultBoundaryScale,
		Damping:       DefaultDamping,
		Correction:    0.5,
		LaunchScale:   DefaultLaunchScale,
		PreviewSteps:  DefaultPreviewSteps,
		PreviewDt:     DefaultPreviewDt,
		Radius:        DefaultRadius,
		MinRadius:     DefaultMinRadius,
		MaxRadius:     DefaultMaxRadius,
		FPS:           DefaultFPS,
		MaxDt:         DefaultMaxDt,
		Balls:         demoBalls(),
		Run: RunConfig{
			Dt:          DefaultDt,
			Duration:    DefaultDuration,
			SampleEvery: 1,
		},
		Recorder: RecorderConfig{
			Pattern: "gif/{dt}.gif",
			Every:   2,
		},
		Server: ServerConfig{
			Addr:     ":8080",
			TickRate: DefaultFPS,
		},
	}
}

// demoBalls is two balls meeting head-on over a third at rest.
func demoBalls() []BallConfig {
	return []BallConfig{
		{X: -50, Radius: 10, VX: 50, Color: DefaultBallColor},
		{X: 50, Radius: 10, VX: -50, Color: DefaultBallColor},
		{Radius: 10, Color: DefaultBallColor},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Balls = append([]BallConfig(nil), c.Balls...)
	return &cp
}

func (c *Config) Validate() error {
	check := func(ok bool, format string, args ...any) error {
		if ok {
			return nil
		}
		return fmt.Errorf("%w: %s", dynamo.ErrInvalidConfig, fmt.Sprintf(format, args...))
	}
	checks := []error{
		check(c.Width > 0 && c.Height > 0, "world size %vx%v", c.Width, c.Height),
		check(c.BoundaryScale > 0 && c.BoundaryScale <= 1, "boundary_scale %v outside (0, 1]", c.BoundaryScale),
		check(c.Damping >= 0, "damping %v is negative", c.Damping),
		check(c.Correction >= 0 && c.Correction <= 1, "correction %v outside [0, 1]", c.Correction),
		check(c.PreviewSteps >= 0, "preview_steps %d is negative", c.PreviewSteps),
		check(c.PreviewDt > 0, "preview_dt %v must be positive", c.PreviewDt),
		check(c.MinRadius >= 1, "min_radius %v below 1", c.MinRadius),
		check(c.MaxRadius >= c.MinRadius, "max_radius %v below min_radius %v", c.MaxRadius, c.MinRadius),
		check(c.Radius >= c.MinRadius && c.Radius <= c.MaxRadius, "radius %v outside [%v, %v]", c.Radius, c.MinRadius, c.MaxRadius),
		check(c.FPS > 0, "fps %d must be positive", c.FPS),
		check(c.MaxDt >= 0, "max_dt %v is negative", c.MaxDt),
		check(c.Crowd >= 0, "crowd %d is negative", c.Crowd),
		check(c.Run.Dt > 0, "run.dt %v must be positive", c.Run.Dt),
		check(c.Run.Duration > 0, "run.duration %v must be positive", c.Run.Duration),
		check(c.Recorder.Every >= 1, "recorder.every %d below 1", c.Recorder.Every),
		check(c.Server.TickRate > 0, "server.tick_rate %d must be positive", c.Server.TickRate),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	for i, b := range c.Balls {
		if b.Radius <= 0 {
			return fmt.Errorf("%w: ball %d has radius %v", dynamo.ErrInvalidConfig, i, b.Radius)
		}
		if b.Color != "" {
			if _, err := colorful.Hex(b.Color); err != nil {
				return fmt.Errorf("%w: ball %d colour %q", dynamo.ErrInvalidConfig, i, b.Color)
			}
		}
	}
	return nil
}

// Boundary is the circle centred in the world, its radius a fraction of the
// shorter half-extent.
func (c *Config) Boundary() geom.Circle {
	return geom.Circle{
		Center: r2.Point{X: c.Width / 2, Y: c.Height / 2},
		Radius: math.Min(c.Width, c.Height) / 2 * c.BoundaryScale,
	}
}

// InitialBalls returns the configured balls followed by Crowd randomly
// placed ones drawn from rng.
func (c *Config) InitialBalls(rng *rand.Rand) []dynamo.Ball {
	bound := c.Boundary()
	balls := make([]dynamo.Ball, 0, len(c.Balls)+c.Crowd)
	for _, b := range c.Balls {
		col, err := colorful.Hex(b.Color)
		if err != nil {
			col = palette.RandomHue(rng)
		}
		balls = append(balls, dynamo.NewBall(
			bound.Center.Add(r2.Point{X: b.X, Y: b.Y}),
			b.Radius,
			r2.Point{X: b.VX, Y: b.VY},
			col,
		))
	}
	for i := 0; i < c.Crowd; i++ {
		r := c.MinRadius + rng.Float64()*math.Max(c.Radius-c.MinRadius, 0)
		a := rng.Float64() * 2 * math.Pi
		d := math.Sqrt(rng.Float64()) * math.Max(bound.Radius-r, 0)
		speed := rng.Float64() * bound.Radius
		va := rng.Float64() * 2 * math.Pi
		balls = append(balls, dynamo.NewBall(
			bound.Center.Add(r2.Point{X: d * math.Cos(a), Y: d * math.Sin(a)}),
			r,
			r2.Point{X: speed * math.Cos(va), Y: speed * math.Sin(va)},
			palette.RandomHue(rng),
		))
	}
	return balls
}
