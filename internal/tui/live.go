package tui

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/geom"
)

const (
	width       = 70
	height      = 24
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer is a sim observer that prints an ASCII view of the balls
// at most frameRate times per simulated second. With Realtime set it also
// sleeps so frames appear at wall-clock pace.
type LiveRenderer struct {
	name      string
	bound     geom.Circle
	frameRate int
	Realtime  bool

	out       io.Writer
	lastT     float64
	lastFrame time.Time
	frames    int
	canvas    [][]rune
	trail     []struct{ x, y int }
}

func NewLiveRenderer(name string, bound geom.Circle, frameRate int) *LiveRenderer {
	if frameRate < 1 {
		frameRate = 1
	}
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &LiveRenderer{
		name:      name,
		bound:     bound,
		frameRate: frameRate,
		Realtime:  true,
		out:       os.Stdout,
		lastT:     math.Inf(-1),
		canvas:    canvas,
		trail:     make([]struct{ x, y int }, 0, 50),
	}
}

// SetOutput redirects frames away from stdout.
func (r *LiveRenderer) SetOutput(w io.Writer) { r.out = w }

// Frames returns how many frames have been printed.
func (r *LiveRenderer) Frames() int { return r.frames }

func (r *LiveRenderer) OnStep(balls []dynamo.Ball, t float64) {
	period := 1 / float64(r.frameRate)
	if t-r.lastT < period-1e-9 {
		return
	}
	r.lastT = t

	if r.Realtime && !r.lastFrame.IsZero() {
		if wait := time.Duration(period*float64(time.Second)) - time.Since(r.lastFrame); wait > 0 {
			time.Sleep(wait)
		}
	}
	r.lastFrame = time.Now()

	r.clear()
	r.drawBoundary()
	r.drawBalls(balls)
	r.render(balls, t)
	r.frames++
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

// project maps world coordinates to cells. Cells are about twice as tall
// as wide, so x is stretched to keep the boundary round.
func (r *LiveRenderer) project(x, y float64) (int, int) {
	scale := float64(height-2) / (2 * r.bound.Radius)
	if r.bound.Radius <= 0 {
		scale = 1
	}
	cx := width/2 + int(math.Round((x-r.bound.Center.X)*scale*2))
	cy := height/2 + int(math.Round((y-r.bound.Center.Y)*scale))
	return cx, cy
}

func (r *LiveRenderer) drawBoundary() {
	c := r.bound.Center
	for i := 0; i < 120; i++ {
		a := float64(i) / 120 * 2 * math.Pi
		x, y := r.project(c.X+r.bound.Radius*math.Cos(a), c.Y+r.bound.Radius*math.Sin(a))
		r.set(x, y, '.')
	}
	x, y := r.project(c.X, c.Y)
	r.set(x, y, '+')
}

// drawBalls marks each ball and trails the fastest one.
func (r *LiveRenderer) drawBalls(balls []dynamo.Ball) {
	fastest, vmax := -1, -1.0
	for i, b := range balls {
		if v := b.Velocity.Norm(); v > vmax {
			fastest, vmax = i, v
		}
	}
	if fastest >= 0 {
		x, y := r.project(balls[fastest].Center.X, balls[fastest].Center.Y)
		r.trail = append(r.trail, struct{ x, y int }{x, y})
		if len(r.trail) > 40 {
			r.trail = r.trail[1:]
		}
	}
	for _, pt := range r.trail {
		r.set(pt.x, pt.y, '`')
	}

	for _, b := range balls {
		x, y := r.project(b.Center.X, b.Center.Y)
		c := 'o'
		if b.Radius >= 20 {
			c = 'O'
		}
		r.set(x, y, c)
	}
}

func (r *LiveRenderer) render(balls []dynamo.Ball, t float64) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  t=%.2fs\n", r.name, t))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	ke, p := dynamo.Totals(balls)
	b.WriteString(fmt.Sprintf("  balls=%d  kinetic=%.0f  p=(%.1f, %.1f)\n", len(balls), ke, p.X, p.Y))

	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
