// Package viz is the terminal frontend: a Bubble Tea program that draws the
// scene on a braille canvas and drives the shared controller from mouse and
// keyboard input.
//
//   - [Model]: the bubbletea model wrapping an experiment's controller
//   - [Canvas]: braille pixel canvas, 2x4 dots per cell, with cell colours
//   - [Viewport]: uniform world-to-canvas mapping
//
// # Input
//
//	Left drag  - Aim and launch a ball, with its trajectory preview
//	Right      - Delete balls near the pointer
//	Wheel, +/- - Grow or shrink the ball being aimed
//	Space      - Pause/Resume simulation
//	R          - Remove all balls
//	S          - Toggle GIF recording
//	Q, Esc     - Quit
//
// # Recording
//
// While recording, every Nth frame is rasterised from the canvas and handed
// to a record.Recorder, which writes the GIF in the background once
// recording stops.
package viz
