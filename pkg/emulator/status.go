package emulator

// Status is the run state of a machine.
type Status int

const (
	// Running machines are executing frames.
	Running Status = iota
	// Paused machines keep their state but execute nothing until
	// resumed.
	Paused
	// Halted machines executed HLT with interrupts disabled and will
	// never resume.
	Halted
	// Errored machines stopped on an unexpected error.
	Errored
)

var statusNames = [...]string{
	Running: "Running",
	Paused:  "Paused",
	Halted:  "Halted",
	Errored: "Errored",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "Unknown"
	}
	return statusNames[s]
}

func (s Status) IsRunning() bool { return s == Running }

func (s Status) IsPaused() bool { return s == Paused }

// Stopped reports whether the machine can no longer run.
func (s Status) Stopped() bool { return s == Halted || s == Errored }
