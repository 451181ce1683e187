package invaders

import (
	"github.com/thelolagemann/go-invaders/internal/io"
	"github.com/thelolagemann/go-invaders/internal/video/palette"
	"github.com/thelolagemann/go-invaders/pkg/log"
)

// Opt is a function that modifies a Machine instance.
type Opt func(m *Machine)

// Debug traces every instruction through the logger.
func Debug() Opt {
	return func(m *Machine) {
		m.CPU.Debug = true
	}
}

// WithLogger sets the logger of the machine and its components.
func WithLogger(l log.Logger) Opt {
	return func(m *Machine) {
		m.Logger = l
	}
}

// Speed sets the speed multiplier used by Start.
func Speed(speed float64) Opt {
	return func(m *Machine) {
		if speed > 0 {
			m.speed = speed
		}
	}
}

// WithState starts the machine from a save state.
func WithState(b []byte) Opt {
	return func(m *Machine) {
		m.state = b
	}
}

// WithDIP sets the DIP switches of the cabinet.
func WithDIP(dip io.DIP) Opt {
	return func(m *Machine) {
		m.Input.DIP = dip
	}
}

// WithPalette sets the palette used to render frames.
func WithPalette(p palette.Palette) Opt {
	return func(m *Machine) {
		m.Video.SetPalette(p)
	}
}

// WithSoundListener attaches a listener to the sound latches.
func WithSoundListener(l io.SoundListener) Opt {
	return func(m *Machine) {
		m.listener = l
	}
}

// WithScript runs hook after every frame.
func WithScript(hook FrameHook) Opt {
	return func(m *Machine) {
		m.hooks = append(m.hooks, hook)
	}
}

// WithSaveFile persists the high score to path.
func WithSaveFile(path string) Opt {
	return func(m *Machine) {
		m.savePath = path
	}
}
