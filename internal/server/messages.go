package server

import (
	"encoding/json"
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/san-kum/ballsim/internal/control"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/geom"
)

// Input is a message sent by a client. Type is one of down, move, up,
// wheel or key.
type Input struct {
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Button string  `json:"button,omitempty"`
	Delta  float64 `json:"delta,omitempty"`
	Key    string  `json:"key,omitempty"`
}

// DecodeEvent turns a client message into a control event. Clients never
// drive time and cannot stop the server, so tick messages and the quit key
// are rejected. Pointer positions must lie inside world.
func DecodeEvent(data []byte, world r2.Rect) (control.Event, error) {
	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrBadMessage, err)
	}
	pos := r2.Point{X: in.X, Y: in.Y}

	switch in.Type {
	case "down", "up", "move":
		if !world.ContainsPoint(pos) {
			return nil, fmt.Errorf("%w: position %v outside %v", dynamo.ErrBadMessage, pos, world)
		}
	}

	switch in.Type {
	case "down", "up":
		btn, err := parseButton(in.Button)
		if err != nil {
			return nil, err
		}
		if in.Type == "down" {
			return control.PointerDown{Pos: pos, Button: btn}, nil
		}
		return control.PointerUp{Pos: pos, Button: btn}, nil
	case "move":
		return control.PointerMove{Pos: pos}, nil
	case "wheel":
		return control.Wheel{Delta: in.Delta}, nil
	case "key":
		code, ok := control.ParseKey(in.Key)
		if !ok || code == control.KeyQuit {
			return nil, fmt.Errorf("%w: key %q", dynamo.ErrBadMessage, in.Key)
		}
		return control.Key{Code: code}, nil
	}
	return nil, fmt.Errorf("%w: type %q", dynamo.ErrBadMessage, in.Type)
}

func parseButton(name string) (control.Button, error) {
	switch name {
	case "", "primary", "left":
		return control.ButtonPrimary, nil
	case "secondary", "right":
		return control.ButtonSecondary, nil
	}
	return 0, fmt.Errorf("%w: button %q", dynamo.ErrBadMessage, name)
}

// World is the rectangle of valid pointer positions for a world of the
// given size.
func World(width, height float64) r2.Rect {
	return r2.RectFromPoints(r2.Point{}, r2.Point{X: width, Y: height})
}

type dragJSON struct {
	Start  r2.Point `json:"start"`
	End    r2.Point `json:"end"`
	Radius float64  `json:"r"`
}

// Snapshot is the state pushed to clients after every tick.
type Snapshot struct {
	Type       string        `json:"type"`
	Time       float64       `json:"time"`
	Paused     bool          `json:"paused"`
	Radius     float64       `json:"radius"`
	Collisions int           `json:"collisions"`
	Boundary   geom.Circle   `json:"boundary"`
	Balls      []dynamo.Ball `json:"balls"`
	Preview    []r2.Point    `json:"preview,omitempty"`
	Drag       *dragJSON     `json:"drag,omitempty"`
}

// NewSnapshot copies a scene into its wire form.
func NewSnapshot(scene control.Scene) Snapshot {
	s := Snapshot{
		Type:       "state",
		Time:       scene.Time,
		Paused:     scene.Paused,
		Radius:     scene.Radius,
		Collisions: scene.Collisions,
		Boundary:   scene.Boundary,
		Balls:      scene.Balls,
		Preview:    scene.Preview,
	}
	if s.Balls == nil {
		s.Balls = []dynamo.Ball{}
	}
	if d := scene.Drag; d != nil {
		s.Drag = &dragJSON{Start: d.Start, End: d.End, Radius: d.Radius}
	}
	return s
}
