package device

import (
	"fmt"
	"time"
)

// Event is one decoded high-level occurrence on the control surface. The
// concrete types below are the only implementations.
type Event interface {
	// When returns the time the event was decoded.
	When() time.Time
	// String returns a human-readable summary.
	String() string
}

// RotateDirection is the turn direction reported by a knob.
type RotateDirection string

// Knob turn directions.
const (
	RotateLeft  RotateDirection = "left"
	RotateRight RotateDirection = "right"
)

// TouchKind distinguishes the phases of a touch gesture.
type TouchKind string

// Touch phases. A touch starts on the first move event seen for its id and
// ends when the panel reports the finger lifting.
const (
	TouchStart TouchKind = "touchstart"
	TouchMove  TouchKind = "touchmove"
	TouchEnd   TouchKind = "touchend"
)

// KeyNone marks a touch that did not land on a center-region key.
const KeyNone = -1

// ButtonEvent reports a physical button going down or up.
type ButtonEvent struct {
	Time time.Time
	Key  string
	Down bool
}

func (e ButtonEvent) When() time.Time { return e.Time }

func (e ButtonEvent) String() string {
	state := "up"
	if e.Down {
		state = "down"
	}
	return fmt.Sprintf("button %s %s", e.Key, state)
}

// KnobEvent reports a rotary knob turning one detent.
type KnobEvent struct {
	Time      time.Time
	Key       string
	Direction RotateDirection
}

func (e KnobEvent) When() time.Time { return e.Time }

func (e KnobEvent) String() string {
	return fmt.Sprintf("knob %s %s", e.Key, e.Direction)
}

// TouchEvent reports a touch gesture phase on one of the displays. Key is
// KeyNone outside the center region's key grid.
type TouchEvent struct {
	Time   time.Time
	Kind   TouchKind
	ID     uint8
	Region string
	Key    int
	X      uint16
	Y      uint16
}

func (e TouchEvent) When() time.Time { return e.Time }

func (e TouchEvent) String() string {
	if e.Key == KeyNone {
		return fmt.Sprintf("%s %s (%d,%d)", e.Kind, e.Region, e.X, e.Y)
	}
	return fmt.Sprintf("%s %s key %d (%d,%d)", e.Kind, e.Region, e.Key, e.X, e.Y)
}

// SerialInfoEvent carries the device serial number once its reply arrives.
type SerialInfoEvent struct {
	Time   time.Time
	Serial string
}

func (e SerialInfoEvent) When() time.Time { return e.Time }

func (e SerialInfoEvent) String() string { return fmt.Sprintf("serial %s", e.Serial) }

// VersionInfoEvent carries the firmware version once its reply arrives.
type VersionInfoEvent struct {
	Time    time.Time
	Version string
}

func (e VersionInfoEvent) When() time.Time { return e.Time }

func (e VersionInfoEvent) String() string { return fmt.Sprintf("firmware %s", e.Version) }

// EventSink receives decoded events. At most one sink is registered with a
// Device at a time; registering a new one replaces the previous.
type EventSink interface {
	HandleEvent(d *Device, ev Event)
}

// EventSinkFunc adapts a plain function to the EventSink interface.
type EventSinkFunc func(d *Device, ev Event)

// HandleEvent implements EventSink.
func (f EventSinkFunc) HandleEvent(d *Device, ev Event) { f(d, ev) }
