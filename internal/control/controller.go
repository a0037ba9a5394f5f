package control

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r2"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/geom"
	"github.com/san-kum/ballsim/internal/palette"
	"github.com/san-kum/ballsim/internal/predict"
	"github.com/san-kum/ballsim/internal/sim"
)

// Recorder is the part of a frame recorder the controller toggles.
type Recorder interface {
	Toggle()
	Recording() bool
}

type Config struct {
	Radius    float64 // initial pending radius
	MinRadius float64
	MaxRadius float64
	Seed      int64 // colour seed; zero picks one from the clock
}

func DefaultConfig() Config {
	return Config{Radius: 10, MinRadius: 1, MaxRadius: 100}
}

// Drag is the launch gesture in progress.
type Drag struct {
	Start  r2.Point
	End    r2.Point
	Radius float64
}

// Scene is a copy of everything a renderer needs for one frame.
type Scene struct {
	Boundary   geom.Circle
	Balls      []dynamo.Ball
	Preview    []r2.Point
	Drag       *Drag
	Radius     float64
	Paused     bool
	Recording  bool
	Time       float64
	Collisions int
}

type Controller struct {
	sim  *sim.Simulator
	pred *predict.Predictor
	rec  Recorder
	rng  *rand.Rand

	radius    float64
	minRadius float64
	maxRadius float64

	dragging bool
	start    r2.Point
	end      r2.Point
	preview  []r2.Point
	done     bool
}

func New(s *sim.Simulator, p *predict.Predictor, cfg Config) *Controller {
	if cfg.MinRadius < 1 {
		cfg.MinRadius = 1
	}
	if cfg.MaxRadius < cfg.MinRadius {
		cfg.MaxRadius = cfg.MinRadius
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	c := &Controller{
		sim:       s,
		pred:      p,
		rng:       rand.New(rand.NewSource(seed)),
		minRadius: cfg.MinRadius,
		maxRadius: cfg.MaxRadius,
	}
	c.radius = c.clamp(cfg.Radius)
	return c
}

// SetRecorder attaches the recorder toggled by KeyRecord. nil detaches it.
func (c *Controller) SetRecorder(r Recorder) { c.rec = r }

func (c *Controller) Sim() *sim.Simulator           { return c.sim }
func (c *Controller) Predictor() *predict.Predictor { return c.pred }
func (c *Controller) Radius() float64               { return c.radius }
func (c *Controller) Dragging() bool                { return c.dragging }

// Done reports whether a quit key was received.
func (c *Controller) Done() bool { return c.done }

func (c *Controller) Handle(ev Event) {
	switch e := ev.(type) {
	case PointerDown:
		switch e.Button {
		case ButtonPrimary:
			c.dragging = true
			c.start, c.end = e.Pos, e.Pos
			c.preview = c.pred.Preview(c.start, c.end)
		case ButtonSecondary:
			c.sim.RemoveNear(e.Pos, c.radius)
		}
	case PointerMove:
		if c.dragging {
			c.end = e.Pos
			c.preview = c.pred.Preview(c.start, c.end)
		}
	case PointerUp:
		if e.Button == ButtonPrimary && c.dragging {
			c.end = e.Pos
			c.launch()
		}
	case Wheel:
		if c.dragging {
			c.radius = c.clamp(c.radius + e.Delta)
		}
	case Key:
		c.key(e.Code)
	case Tick:
		c.sim.Step(e.Dt)
	}
}

func (c *Controller) key(code KeyCode) {
	switch code {
	case KeyReset:
		c.sim.Reset()
	case KeyToggle:
		c.sim.TogglePause()
	case KeyRecord:
		if c.rec != nil {
			c.rec.Toggle()
		}
	case KeyQuit:
		c.done = true
	}
}

func (c *Controller) launch() {
	v := c.pred.LaunchVelocity(c.start, c.end)
	c.sim.Spawn(dynamo.NewBall(c.start, c.radius, v, palette.RandomHue(c.rng)))
	c.dragging = false
	c.preview = nil
}

func (c *Controller) clamp(r float64) float64 {
	return math.Max(c.minRadius, math.Min(c.maxRadius, r))
}

func (c *Controller) Scene() Scene {
	sc := Scene{
		Boundary:   c.sim.Boundary(),
		Balls:      c.sim.Balls(),
		Radius:     c.radius,
		Paused:     c.sim.Paused(),
		Time:       c.sim.Time(),
		Collisions: c.sim.Collisions(),
	}
	if c.rec != nil {
		sc.Recording = c.rec.Recording()
	}
	if c.dragging {
		sc.Drag = &Drag{Start: c.start, End: c.end, Radius: c.radius}
		sc.Preview = append([]r2.Point(nil), c.preview...)
	}
	return sc
}
