package gui

import (
	"image"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/golang/geo/r2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/ballsim/internal/control"
	"github.com/san-kum/ballsim/internal/experiment"
	"github.com/san-kum/ballsim/internal/metrics"
	"github.com/san-kum/ballsim/internal/palette"
	"github.com/san-kum/ballsim/internal/record"
)

const fontPath = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"

var (
	ColBg      = toColor(palette.Background)
	ColFg      = toColor(palette.Foreground)
	ColText    = rl.NewColor(20, 20, 20, 255)
	ColTextDim = rl.NewColor(70, 70, 70, 255)
	ColRec     = rl.NewColor(200, 30, 30, 255)
)

type App struct {
	Exp  *experiment.Experiment
	Ctrl *control.Controller
	Rec  *record.Recorder
	Font rl.Font

	Telemetry    []float64 // ring buffer of mechanical energy
	MaxTelemetry int
}

// initWindow opens a window sized to the world with the exit key disabled,
// so Escape reaches the controller.
func initWindow(w, h, fps int) {
	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(int32(w), int32(h), "ballsim")
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

// loadFont loads Liberation Mono when installed and falls back to the
// raylib default font.
func loadFont() rl.Font {
	if _, err := os.Stat(fontPath); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func NewApp(e *experiment.Experiment, rec *record.Recorder) *App {
	ctrl := e.Controller()
	if rec != nil {
		ctrl.SetRecorder(rec)
	}
	return &App{
		Exp:          e,
		Ctrl:         ctrl,
		Rec:          rec,
		Font:         loadFont(),
		Telemetry:    make([]float64, 0, 200),
		MaxTelemetry: 200,
	}
}

// Run opens the window for e and blocks until it is closed or the quit key
// is pressed.
func Run(e *experiment.Experiment, rec *record.Recorder) {
	cfg := e.Config()
	initWindow(int(cfg.Width), int(cfg.Height), cfg.FPS)
	defer rl.CloseWindow()
	app := NewApp(e, rec)
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.Ctrl.Done() {
		a.Update()
		a.Draw()
	}
}

// poll samples this frame's mouse and keyboard state.
func poll() control.Poll {
	m := rl.GetMousePosition()
	p := control.Poll{
		Pointer:       r2.Point{X: float64(m.X), Y: float64(m.Y)},
		PrimaryDown:   rl.IsMouseButtonPressed(rl.MouseLeftButton),
		PrimaryUp:     rl.IsMouseButtonReleased(rl.MouseLeftButton),
		SecondaryDown: rl.IsMouseButtonPressed(rl.MouseRightButton),
		Wheel:         float64(rl.GetMouseWheelMove()),
		Dt:            float64(rl.GetFrameTime()),
	}
	keys := []struct {
		key  int32
		code control.KeyCode
	}{
		{rl.KeyR, control.KeyReset},
		{rl.KeySpace, control.KeyToggle},
		{rl.KeyS, control.KeyRecord},
		{rl.KeyEscape, control.KeyQuit},
		{rl.KeyQ, control.KeyQuit},
	}
	for _, k := range keys {
		if rl.IsKeyPressed(k.key) {
			p.Keys = append(p.Keys, k.code)
		}
	}
	return p
}

func (a *App) Update() {
	a.Ctrl.Apply(poll())

	s := a.Ctrl.Sim()
	if s.Paused() {
		return
	}
	e := metrics.MechanicalEnergy(s.Balls(), a.Exp.Config().Gravity, s.Boundary().Center.Y)
	a.Telemetry = append(a.Telemetry, e)
	if len(a.Telemetry) > a.MaxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	scene := a.Ctrl.Scene()
	drawScene(scene)
	a.DrawHUD(scene)

	if a.Rec != nil {
		a.Rec.Offer(record.WithFlush(rl.DrawRenderBatchActive, grabScreen))
	}
	rl.EndDrawing()
}

// grabScreen copies the back buffer into a Go image. Draw calls still in
// the render batch are not in the buffer yet, so callers flush first.
func grabScreen() image.Image {
	img := rl.LoadImageFromScreen()
	defer rl.UnloadImage(img)
	return img.ToImage()
}

func toColor(c colorful.Color) rl.Color {
	r, g, b, a := palette.RGBA(c)
	return rl.NewColor(r, g, b, a)
}
