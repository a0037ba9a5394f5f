// Package control turns user input into simulation commands.
//
// Frontends translate their native input into [Event] values and hand them
// to a [Controller], which owns the simulator, the launch predictor and the
// drag state:
//
//   - primary press starts a drag; moving recomputes the preview
//   - primary release launches a ball from the drag start
//   - secondary press deletes balls under the pointer
//   - the wheel resizes the pending ball while dragging
//   - keys reset, pause, toggle recording or quit
//   - [Tick] advances the simulation
//
// Renderers read a [Scene] snapshot, which never aliases controller state.
//
// # Usage
//
//	c := control.New(s, predict.New(s.Boundary(), g), control.DefaultConfig())
//	c.Handle(control.PointerDown{Pos: p, Button: control.ButtonPrimary})
//	c.Handle(control.Tick{Dt: dt})
//	scene := c.Scene()
package control
