package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/golang/geo/r2"
	"github.com/san-kum/ballsim/internal/control"
	"github.com/san-kum/ballsim/internal/palette"
)

func vec(p r2.Point) rl.Vector2 {
	return rl.NewVector2(float32(p.X), float32(p.Y))
}

// drawScene draws balls first, then the drag and its preview, then the
// boundary outline and centre dot on top.
func drawScene(scene control.Scene) {
	bound := scene.Boundary
	for _, b := range scene.Balls {
		rl.DrawCircleV(vec(b.Center), float32(b.Radius), toColor(palette.Radial(b.Center, bound)))
	}

	if d := scene.Drag; d != nil {
		rl.DrawLineV(vec(d.Start), vec(d.End), ColFg)
		rl.DrawCircleV(vec(d.Start), float32(d.Radius), ColFg)
		if len(scene.Preview) > 1 {
			points := make([]rl.Vector2, len(scene.Preview))
			for i, p := range scene.Preview {
				points[i] = vec(p)
			}
			rl.DrawLineStrip(points, ColFg)
		}
	}

	c := vec(bound.Center)
	rl.DrawCircleLines(int32(c.X), int32(c.Y), float32(bound.Radius), ColFg)
	rl.DrawCircleV(c, 1, ColFg)
}

func (a *App) DrawHUD(scene control.Scene) {
	a.drawText("ballsim", 20, 16, 24, ColText)
	a.drawText(fmt.Sprintf(":: %s", a.Exp.Name()), 130, 20, 16, ColTextDim)

	y := 52
	for _, line := range overlay(scene, rl.GetFPS(), rl.GetFrameTime(), a.energy()) {
		a.drawText(line, 20, y, 16, ColText)
		y += 20
	}

	if scene.Paused {
		a.drawText("PAUSED", int(rl.GetScreenWidth())-110, 20, 16, ColTextDim)
	}
	if scene.Recording {
		a.drawText("● REC", int(rl.GetScreenWidth())-110, 40, 16, ColRec)
	}

	a.DrawTelemetry()
	h := int(rl.GetScreenHeight())
	hint := "[DRAG] LAUNCH  [RMB] DELETE  [WHEEL] SIZE  [SPACE] PAUSE  [R] RESET  [ESC] QUIT"
	if a.Rec != nil {
		hint += "  [S] RECORD"
	}
	a.drawText(hint, 20, h-26, 14, ColTextDim)
}

// overlay is the text block in the top-left corner.
func overlay(scene control.Scene, fps int32, frameTime float32, energy float64) []string {
	rec := "off"
	if scene.Recording {
		rec = "on"
	}
	return []string{
		fmt.Sprintf("fps: %d", fps),
		fmt.Sprintf("frame: %.2fms", frameTime*1000),
		fmt.Sprintf("recording: %s", rec),
		fmt.Sprintf("balls: %d", len(scene.Balls)),
		fmt.Sprintf("energy: %.0f", energy),
		fmt.Sprintf("radius: %.0f", scene.Radius),
	}
}

func (a *App) energy() float64 {
	if len(a.Telemetry) == 0 {
		return 0
	}
	return a.Telemetry[len(a.Telemetry)-1]
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX := 20
	rectY := int(rl.GetScreenHeight()) - 110
	width, height := 300, 60

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal, maxVal = min(minVal, v), max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColFg)
	a.drawText(fmt.Sprintf("E: %.2e", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColTextDim)
}
