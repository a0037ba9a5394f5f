package control

import "github.com/golang/geo/r2"

// Poll is the input state a polling frontend samples once per frame.
type Poll struct {
	Pointer       r2.Point
	PrimaryDown   bool // pressed this frame
	PrimaryUp     bool // released this frame
	SecondaryDown bool
	Wheel         float64
	Keys          []KeyCode
	Dt            float64
}

// Events expands a poll into events in handling order: presses, movement,
// wheel, release, keys and finally the tick.
func (p Poll) Events() []Event {
	evs := make([]Event, 0, 6+len(p.Keys))
	if p.PrimaryDown {
		evs = append(evs, PointerDown{Pos: p.Pointer, Button: ButtonPrimary})
	}
	if p.SecondaryDown {
		evs = append(evs, PointerDown{Pos: p.Pointer, Button: ButtonSecondary})
	}
	evs = append(evs, PointerMove{Pos: p.Pointer})
	if p.Wheel != 0 {
		evs = append(evs, Wheel{Delta: p.Wheel})
	}
	if p.PrimaryUp {
		evs = append(evs, PointerUp{Pos: p.Pointer, Button: ButtonPrimary})
	}
	for _, k := range p.Keys {
		evs = append(evs, Key{Code: k})
	}
	if p.Dt > 0 {
		evs = append(evs, Tick{Dt: p.Dt})
	}
	return evs
}

// Apply handles every event of p in order.
func (c *Controller) Apply(p Poll) {
	for _, ev := range p.Events() {
		c.Handle(ev)
	}
}
