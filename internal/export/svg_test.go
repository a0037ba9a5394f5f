package export

import (
	"strings"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/ballsim/internal/control"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/geom"
)

var bound = geom.Circle{Center: r2.Point{X: 100, Y: 100}, Radius: 90}

func TestSceneToSVG(t *testing.T) {
	scene := control.Scene{
		Boundary: bound,
		Balls: []dynamo.Ball{
			dynamo.NewBall(r2.Point{X: 100, Y: 100}, 10, r2.Point{}, colorful.Color{}),
			dynamo.NewBall(r2.Point{X: 150, Y: 100}, 5, r2.Point{}, colorful.Color{}),
		},
	}

	svg := SceneToSVG(scene, 200, 200)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatalf("malformed svg: %s", svg)
	}
	if n := strings.Count(svg, "<circle"); n != 4 {
		t.Errorf("expected 2 balls plus outline and centre, got %d circles", n)
	}
	if !strings.Contains(svg, `r="90.00"`) {
		t.Error("boundary missing")
	}
	// The centre ball has no saturation.
	if !strings.Contains(svg, `fill="#ffffff"`) {
		t.Error("centre ball should be white")
	}
	if strings.Contains(svg, "<line") {
		t.Error("drag drawn without a drag")
	}
}

func TestSceneToSVGDrag(t *testing.T) {
	scene := control.Scene{
		Boundary: bound,
		Drag:     &control.Drag{Start: r2.Point{X: 100, Y: 100}, End: r2.Point{X: 90, Y: 100}, Radius: 12},
		Preview:  []r2.Point{{X: 100, Y: 100}, {X: 150, Y: 100}, {X: 190, Y: 100}},
	}

	svg := SceneToSVG(scene, 200, 200)
	if !strings.Contains(svg, "<line") || !strings.Contains(svg, "<polyline") {
		t.Errorf("drag not drawn: %s", svg)
	}
	if !strings.Contains(svg, "190.00,100.00") {
		t.Error("preview points missing")
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	if svg := TrajectoryToSVG([]r2.Point{{}}, bound, 200, 200, "#fff"); svg != "" {
		t.Error("expected empty output for a single point")
	}

	svg := TrajectoryToSVG([]r2.Point{{X: 100, Y: 100}, {X: 120, Y: 110}}, bound, 200, 200, "#00ff00")
	if !strings.Contains(svg, `stroke="#00ff00"`) || !strings.Contains(svg, "100.00,100.00 120.00,110.00") {
		t.Errorf("unexpected svg: %s", svg)
	}
}
