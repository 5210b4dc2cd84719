package scheduler

// EventType identifies a kind of event. Only one event of each type
// can be scheduled at a time.
type EventType uint8

const (
	// VBlank marks the end of a Game Boy frame.
	VBlank EventType = iota
	// SerialTransfer completes an internally clocked serial transfer.
	SerialTransfer
	// FrameIRQ raises the periodic maskable interrupt of a Z80 machine.
	FrameIRQ
	// FrameIRQRelease releases the interrupt line raised by FrameIRQ.
	FrameIRQRelease

	eventTypes
)

var eventNames = [eventTypes]string{"VBlank", "SerialTransfer", "FrameIRQ", "FrameIRQRelease"}

func (e EventType) String() string {
	if e < eventTypes {
		return eventNames[e]
	}
	return "unknown"
}

// Event is a single scheduled event.
type Event struct {
	cycle     uint64
	eventType EventType
	scheduled bool
	next      *Event
}
