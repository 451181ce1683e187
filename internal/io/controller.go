// Package io provides the I/O ports of the Space Invaders board: the
// control inputs, DIP switches, the shift register and the sound
// latches.
package io

import (
	"github.com/thelolagemann/go-invaders/internal/types"
	"github.com/thelolagemann/go-invaders/pkg/log"
)

const (
	// input ports
	PortInput0  uint8 = 0
	PortInput1  uint8 = 1
	PortInput2  uint8 = 2
	PortShiftIn uint8 = 3

	// output ports
	PortShiftAmount uint8 = 2
	PortSound1      uint8 = 3
	PortShiftData   uint8 = 4
	PortSound2      uint8 = 5
	PortWatchdog    uint8 = 6
)

// Controller routes the CPU's IN and OUT instructions to the board's
// devices.
type Controller struct {
	Input *InputState
	Shift ShiftRegister

	sound1, sound2 uint8
	listener       SoundListener

	ports    types.Ports
	watchdog uint64
	log      log.Logger
}

// NewController returns a Controller reading from input. The listener
// may be nil.
func NewController(input *InputState, listener SoundListener, l log.Logger) *Controller {
	if l == nil {
		l = log.NewNullLogger()
	}
	c := &Controller{
		Input:    input,
		listener: listener,
		log:      l,
	}

	c.ports.Register(PortInput0, types.WithRead(input.Port0))
	c.ports.Register(PortInput1, types.WithRead(input.Port1))
	c.ports.Register(PortInput2, types.WithRead(input.Port2), types.WithWrite(c.Shift.SetOffset))
	c.ports.Register(PortShiftIn, types.WithRead(c.Shift.Result), types.WithWrite(c.writeSound1))
	c.ports.Register(PortShiftData, types.WithWrite(c.Shift.Push))
	c.ports.Register(PortSound2, types.WithWrite(c.writeSound2))
	c.ports.Register(PortWatchdog, types.WithWrite(func(uint8) { c.watchdog++ }))

	return c
}

// SetSoundListener replaces the sound listener.
func (c *Controller) SetSoundListener(listener SoundListener) {
	c.listener = listener
}

// SetLogger replaces the logger used for unmapped port accesses.
func (c *Controller) SetLogger(l log.Logger) {
	c.log = l
}

// In returns the value of an input port. Unmapped ports read as 0.
func (c *Controller) In(port uint8) uint8 {
	v, ok := c.ports.Read(port)
	if !ok {
		c.log.Debugf("read from unmapped port %d", port)
	}
	return v
}

// Out writes to an output port. Unmapped ports are ignored.
func (c *Controller) Out(port uint8, value uint8) {
	if !c.ports.Write(port, value) {
		c.log.Debugf("write to unmapped port %d <- %02x", port, value)
	}
}

// Ports returns the board's port table.
func (c *Controller) Ports() *types.Ports {
	return &c.ports
}

func (c *Controller) writeSound1(value uint8) {
	latch(c.listener, port3Sounds, c.sound1, value)
	c.sound1 = value
}

func (c *Controller) writeSound2(value uint8) {
	latch(c.listener, port5Sounds, c.sound2, value)
	c.sound2 = value
}

// SoundLatches returns the last values written to ports 3 and 5.
func (c *Controller) SoundLatches() (uint8, uint8) {
	return c.sound1, c.sound2
}

// WatchdogResets returns how many times the program has kicked the
// watchdog.
func (c *Controller) WatchdogResets() uint64 {
	return c.watchdog
}

// Reset clears the shift register and sound latches, silencing any
// playing sounds.
func (c *Controller) Reset() {
	c.Shift.Reset()
	latch(c.listener, port3Sounds, c.sound1, 0)
	latch(c.listener, port5Sounds, c.sound2, 0)
	c.sound1, c.sound2 = 0, 0
	c.watchdog = 0
}

var _ types.Stater = (*Controller)(nil)

// Load implements the types.Stater interface.
func (c *Controller) Load(s *types.State) {
	c.Shift.Load(s)
	sound1, sound2 := s.Read8(), s.Read8()
	latch(c.listener, port3Sounds, c.sound1, sound1)
	latch(c.listener, port5Sounds, c.sound2, sound2)
	c.sound1, c.sound2 = sound1, sound2
	c.Input.Load(s)
}

// Save implements the types.Stater interface.
func (c *Controller) Save(s *types.State) {
	c.Shift.Save(s)
	s.Write8(c.sound1)
	s.Write8(c.sound2)
	c.Input.Save(s)
}
