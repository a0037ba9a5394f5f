package dynamo

import (
	"encoding/json"

	"github.com/golang/geo/r2"
	"github.com/lucasb-eyer/go-colorful"
)

type ballJSON struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"r"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Color  string  `json:"color"`
}

// MarshalJSON writes the ball's observable state. Accumulators are
// transient and never serialized.
func (b Ball) MarshalJSON() ([]byte, error) {
	return json.Marshal(ballJSON{
		X:      b.Center.X,
		Y:      b.Center.Y,
		Radius: b.Radius,
		VX:     b.Velocity.X,
		VY:     b.Velocity.Y,
		Color:  b.Color.Clamped().Hex(),
	})
}

func (b *Ball) UnmarshalJSON(data []byte) error {
	var j ballJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	c, err := colorful.Hex(j.Color)
	if err != nil {
		c = colorful.Color{R: 1, G: 1, B: 1}
	}
	*b = NewBall(r2.Point{X: j.X, Y: j.Y}, j.Radius, r2.Point{X: j.VX, Y: j.VY}, c)
	return nil
}
