package emulator

// Controller defines the interface contract for an Emulator to
// implement in order for a display.Driver or the monitor to control it
// directly rather than through command packets.
type Controller interface {
	Pause()
	Resume()
	Paused() bool
	Reset()
}
