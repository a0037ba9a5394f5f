package viz

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/ballsim/internal/control"
	"github.com/san-kum/ballsim/internal/experiment"
	"github.com/san-kum/ballsim/internal/metrics"
	"github.com/san-kum/ballsim/internal/palette"
	"github.com/san-kum/ballsim/internal/record"
)

const (
	width           = 80
	height          = 24
	minWidth        = 20
	minHeight       = 8
	statsWidth      = 42
	canvasPadX      = 2
	canvasPadY      = 1
	historyCapacity = 300

	// pixels per terminal cell in recorded frames
	frameCellW = 8
	frameCellH = 16
)

type TickMsg time.Time

// Model is the bubbletea frontend. It owns the controller: every input and
// tick is turned into a control event on the update goroutine.
type Model struct {
	exp    *experiment.Experiment
	ctrl   *control.Controller
	rec    *record.Recorder
	canvas *Canvas
	view   Viewport

	fps       int
	last      time.Time
	frameTime time.Duration
	energy    []float64
	hits      []float64
	prevHits  int
}

// NewModel builds a model around e. rec may be nil, which disables
// recording.
func NewModel(e *experiment.Experiment, rec *record.Recorder) Model {
	ctrl := e.Controller()
	if rec != nil {
		ctrl.SetRecorder(rec)
	}
	cfg := e.Config()
	canvas := NewCanvas(width, height)
	return Model{
		exp:    e,
		ctrl:   ctrl,
		rec:    rec,
		canvas: canvas,
		view:   Fit(cfg.Width, cfg.Height, canvas),
		fps:    cfg.FPS,
		energy: make([]float64, 0, historyCapacity),
		hits:   make([]float64, 0, historyCapacity),
	}
}

// Controller exposes the controller driven by the model.
func (m Model) Controller() *control.Controller { return m.ctrl }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.ctrl.Handle(control.Key{Code: control.KeyQuit})
			return m, tea.Quit
		case " ":
			m.ctrl.Handle(control.Key{Code: control.KeyToggle})
		case "r":
			m.ctrl.Handle(control.Key{Code: control.KeyReset})
		case "s":
			m.ctrl.Handle(control.Key{Code: control.KeyRecord})
		case "+", "=":
			m.ctrl.Handle(control.Wheel{Delta: 1})
		case "-", "_":
			m.ctrl.Handle(control.Wheel{Delta: -1})
		}
	case tea.MouseMsg:
		if ev := m.mouseEvent(msg); ev != nil {
			m.ctrl.Handle(ev)
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		now := time.Time(msg)
		dt := 1 / float64(m.fps)
		if !m.last.IsZero() {
			m.frameTime = now.Sub(m.last)
			dt = m.frameTime.Seconds()
		}
		m.last = now
		m.ctrl.Handle(control.Tick{Dt: dt})
		m.observe()
		m.draw()
		if m.rec != nil {
			m.rec.Offer(m.grab)
		}
		if m.ctrl.Done() {
			return m, tea.Quit
		}
		return m, m.tick()
	}
	return m, nil
}

// mouseEvent translates a terminal mouse report into a control event.
// Release reports rarely say which button was let go, so any release ends
// a drag in progress.
func (m Model) mouseEvent(msg tea.MouseMsg) control.Event {
	pos := m.view.CellToWorld(msg.X-canvasPadX, msg.Y-canvasPadY)
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			return control.PointerDown{Pos: pos, Button: control.ButtonPrimary}
		case tea.MouseButtonRight:
			return control.PointerDown{Pos: pos, Button: control.ButtonSecondary}
		case tea.MouseButtonWheelUp:
			return control.Wheel{Delta: 1}
		case tea.MouseButtonWheelDown:
			return control.Wheel{Delta: -1}
		}
	case tea.MouseActionMotion:
		return control.PointerMove{Pos: pos}
	case tea.MouseActionRelease:
		if m.ctrl.Dragging() {
			return control.PointerUp{Pos: pos, Button: control.ButtonPrimary}
		}
	}
	return nil
}

func (m *Model) resize(w, h int) {
	cw := max(w-statsWidth-4*canvasPadX-2, minWidth)
	ch := max(h-2*canvasPadY-1, minHeight)
	m.canvas = NewCanvas(cw, ch)
	cfg := m.exp.Config()
	m.view = Fit(cfg.Width, cfg.Height, m.canvas)
}

func (m *Model) observe() {
	sim := m.ctrl.Sim()
	if sim.Paused() {
		return
	}
	bound := sim.Boundary()
	balls := sim.Balls()
	m.energy = appendCapped(m.energy, metrics.MechanicalEnergy(balls, m.exp.Config().Gravity, bound.Center.Y))
	m.hits = appendCapped(m.hits, float64(sim.Collisions()-m.prevHits))
	m.prevHits = sim.Collisions()
}

func appendCapped(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyCapacity {
		xs = xs[1:]
	}
	return xs
}

// draw renders the current scene onto the canvas.
func (m *Model) draw() {
	m.canvas.Clear()
	scene := m.ctrl.Scene()
	bound := scene.Boundary

	for _, b := range scene.Balls {
		x, y := m.view.ToCanvas(b.Center)
		hex := palette.Radial(b.Center, bound).Clamped().Hex()
		m.canvas.FillCircle(x, y, m.view.Length(b.Radius), hex)
	}

	if d := scene.Drag; d != nil {
		x0, y0 := m.view.ToCanvas(d.Start)
		x1, y1 := m.view.ToCanvas(d.End)
		m.canvas.DrawLine(x0, y0, x1, y1)
		m.canvas.DrawCircle(x0, y0, m.view.Length(d.Radius))
		for i := 1; i < len(scene.Preview); i++ {
			ax, ay := m.view.ToCanvas(scene.Preview[i-1])
			bx, by := m.view.ToCanvas(scene.Preview[i])
			m.canvas.DrawLine(ax, ay, bx, by)
		}
	}

	cx, cy := m.view.ToCanvas(bound.Center)
	m.canvas.DrawCircle(cx, cy, m.view.Length(bound.Radius))
	m.canvas.Set(cx, cy)
}

// grab rasterises the canvas for the recorder.
func (m Model) grab() image.Image {
	r, g, b, _ := palette.RGBA(palette.Foreground)
	br, bg, bb, _ := palette.RGBA(palette.Background)
	return m.canvas.Image(frameCellW, frameCellH,
		color.RGBA{R: r, G: g, B: b, A: 255},
		color.RGBA{R: br, G: bg, B: bb, A: 255})
}

// View renders the TUI interface.
func (m Model) View() string {
	scene := m.ctrl.Scene()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(GradientText("BALLSIM", colorful.Hsl(180, 1, 0.5), colorful.Hsl(300, 1, 0.5)) + "\n\n")

	status := StatusRunning.Render("RUNNING")
	if scene.Paused {
		status = StatusPaused.Render("PAUSED")
	}
	if scene.Recording {
		status += "  " + StatusRecording.Render("● REC")
	}
	s.WriteString(status + "\n")

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(statsWidth-14), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	if len(m.hits) > 0 {
		s.WriteString(MetricLabel.Render("Collisions") + SparklineChart(m.hits, statsWidth-18) + "\n\n")
	}

	energy := 0.0
	if len(m.energy) > 0 {
		energy = m.energy[len(m.energy)-1]
	}
	fps := 0.0
	if m.frameTime > 0 {
		fps = 1 / m.frameTime.Seconds()
	}
	rows := []struct{ label, value string }{
		{"Time", fmt.Sprintf("%.2fs", scene.Time)},
		{"FPS", fmt.Sprintf("%.0f", fps)},
		{"Frame", fmt.Sprintf("%.1fms", float64(m.frameTime.Microseconds())/1000)},
		{"Balls", fmt.Sprintf("%d", len(scene.Balls))},
		{"Energy", fmt.Sprintf("%.0f", energy)},
		{"Collisions", fmt.Sprintf("%d", scene.Collisions)},
		{"Radius", fmt.Sprintf("%.0f", scene.Radius)},
	}
	for _, r := range rows {
		s.WriteString(MetricLabel.Render(r.label) + MetricValue.Render(r.value) + "\n")
	}

	hint := "drag:launch  right:delete  wheel/+-:size\nspace:pause  r:reset  s:record  q:quit"
	if m.rec == nil {
		hint = strings.Replace(hint, "  s:record", "", 1)
	}
	s.WriteString(KeyHint.Render(hint))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

// Run starts the terminal frontend and blocks until the user quits.
func Run(e *experiment.Experiment, rec *record.Recorder) error {
	p := tea.NewProgram(NewModel(e, rec), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
