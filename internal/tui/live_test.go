package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/geom"
)

func newRenderer(fps int) (*LiveRenderer, *bytes.Buffer) {
	var buf bytes.Buffer
	r := NewLiveRenderer("demo", geom.Circle{Center: r2.Point{X: 100, Y: 100}, Radius: 100}, fps)
	r.Realtime = false
	r.SetOutput(&buf)
	return r, &buf
}

func TestLiveRendererThrottlesBySimTime(t *testing.T) {
	r, _ := newRenderer(10)
	for i := 1; i <= 60; i++ {
		r.OnStep(nil, float64(i)/60)
	}
	if got := r.Frames(); got != 10 {
		t.Errorf("frames = %d, want 10", got)
	}
}

func TestLiveRendererDrawsBalls(t *testing.T) {
	r, buf := newRenderer(60)
	balls := []dynamo.Ball{
		dynamo.NewBall(r2.Point{X: 100, Y: 100}, 10, r2.Point{X: 5}, colorful.Color{R: 1}),
		dynamo.NewBall(r2.Point{X: 150, Y: 100}, 30, r2.Point{}, colorful.Color{G: 1}),
	}
	r.OnStep(balls, 0.5)

	out := buf.String()
	if !strings.Contains(out, "demo  t=0.50s") {
		t.Errorf("missing header in %q", out)
	}
	if !strings.Contains(out, "balls=2") {
		t.Error("missing ball count")
	}
	if !strings.ContainsRune(out, 'o') || !strings.ContainsRune(out, 'O') {
		t.Error("balls not drawn")
	}

	x, y := r.project(100, 100)
	if x != width/2 || y != height/2 {
		t.Errorf("centre projects to %d,%d", x, y)
	}
}

func TestLiveRendererClipsToCanvas(t *testing.T) {
	r, _ := newRenderer(60)
	far := []dynamo.Ball{dynamo.NewBall(r2.Point{X: 1e6, Y: -1e6}, 5, r2.Point{}, colorful.Color{})}
	r.OnStep(far, 0)
	if r.Frames() != 1 {
		t.Error("frame skipped")
	}
}
