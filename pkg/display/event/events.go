// Package event defines the various event types that can
// be sent to a display.Driver. This package is separate from
// the display package to avoid circular dependencies.
package event

// Type defines the various event types
// that can be sent to a display.Driver. The event type
// indicates to the display.Driver what action should be
// taken.
type Type int

const (
	// Quit is sent when the machine has closed and the driver
	// should return.
	Quit Type = iota
	// FrameTime is sent after every frame with the time.Duration
	// spent emulating it.
	FrameTime
	// Title is sent to the display.Driver to change the
	// title of the window, such as to show the current FPS.
	Title
	// Sound is sent when a sound circuit starts or stops. Data
	// holds a SoundData.
	Sound
	// Paused is sent when the machine is paused or resumed. Data
	// holds a bool.
	Paused
)

// Event is the data structure that is sent to the display.Driver
// to indicate an event has occurred. Data may or may not
// contain any data, depending on the event type.
type Event struct {
	// Type is the type of event
	Type Type
	// Data is the data of the event
	Data interface{}
}

// SoundData describes a Sound event.
type SoundData struct {
	Name    string
	Playing bool
}
