package scheduler

type EventType int

const (
	// MidScreen fires when the beam reaches scanline 96 and the
	// board raises RST 1.
	MidScreen EventType = iota
	// EndScreen fires at the start of vertical blank, when the board
	// raises RST 2 and a frame is complete.
	EndScreen
	// RestoreHighScore fires once, after the game has cleared its
	// RAM at power on, to put back the persisted high score.
	RestoreHighScore

	eventTypes
)

var eventNames = [eventTypes]string{
	MidScreen:        "MidScreen",
	EndScreen:        "EndScreen",
	RestoreHighScore: "RestoreHighScore",
}

func (e EventType) String() string {
	if e < 0 || e >= eventTypes {
		return "Unknown"
	}
	return eventNames[e]
}

// Event is a pending occurrence of an EventType.
type Event struct {
	cycle     uint64
	eventType EventType
	next      *Event
	scheduled bool
}

// Reset clears the event so it can be scheduled again.
func (e *Event) Reset() {
	e.cycle = 0
	e.next = nil
	e.scheduled = false
}
