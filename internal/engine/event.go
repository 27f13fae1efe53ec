package engine

// EventType tags the two control surface event shapes the engine consumes.
type EventType uint8

const (
	// ControlChange is a continuous control move (fader, knob, switch).
	ControlChange EventType = iota + 1
	// Note is a button transition; velocity 0 means released/stop.
	Note
)

// Event is one already-decoded control surface event. The transport
// guarantees Param and Value are within 0..127; the engine does not
// re-validate them.
type Event struct {
	Type  EventType
	Param int // control address for ControlChange, note number for Note
	Value int // control value for ControlChange, velocity for Note
}
