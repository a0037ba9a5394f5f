package control

import "github.com/golang/geo/r2"

type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

type KeyCode int

const (
	KeyReset KeyCode = iota + 1
	KeyToggle
	KeyRecord
	KeyQuit
)

func (k KeyCode) String() string {
	switch k {
	case KeyReset:
		return "reset"
	case KeyToggle:
		return "toggle"
	case KeyRecord:
		return "record"
	case KeyQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// ParseKey maps a key name as produced by String back to its code.
func ParseKey(name string) (KeyCode, bool) {
	for _, k := range []KeyCode{KeyReset, KeyToggle, KeyRecord, KeyQuit} {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}

// Event is one input delivered to a Controller.
type Event interface {
	event()
}

type PointerDown struct {
	Pos    r2.Point
	Button Button
}

type PointerMove struct {
	Pos r2.Point
}

type PointerUp struct {
	Pos    r2.Point
	Button Button
}

// Wheel changes the pending radius by Delta while dragging.
type Wheel struct {
	Delta float64
}

type Key struct {
	Code KeyCode
}

// Tick advances the simulation by Dt seconds.
type Tick struct {
	Dt float64
}

func (PointerDown) event() {}
func (PointerMove) event() {}
func (PointerUp) event()   {}
func (Wheel) event()       {}
func (Key) event()         {}
func (Tick) event()        {}
