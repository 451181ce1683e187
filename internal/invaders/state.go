package invaders

import (
	"errors"
	"fmt"
	"os"

	"github.com/thelolagemann/go-invaders/internal/types"
)

// stateMagic starts every save state, followed by stateVersion.
const (
	stateMagic   = "SPINV"
	stateVersion = 1
)

// ErrInvalidState is returned when a save state cannot be loaded.
var ErrInvalidState = errors.New("invalid save state")

var _ types.Stater = (*Machine)(nil)

// Save implements the types.Stater interface.
func (m *Machine) Save(s *types.State) {
	s.WriteData([]byte(stateMagic))
	s.Write8(stateVersion)
	m.CPU.Save(s)
	m.MMU.Save(s)
	m.IO.Save(s)
	m.Scheduler.Save(s)
	s.Write64(m.frames)
}

// Load implements the types.Stater interface. The header must already
// have been checked, see LoadState.
func (m *Machine) Load(s *types.State) {
	s.ReadData(make([]byte, len(stateMagic)+1))
	m.CPU.Load(s)
	m.MMU.Load(s)
	m.IO.Load(s)
	m.Scheduler.Load(s)
	m.frames = s.Read64()
	m.irqCycles = 0
}

// SaveState returns a snapshot of the machine.
func (m *Machine) SaveState() []byte {
	s := types.NewState()
	m.Save(s)
	return s.Bytes()
}

// LoadState restores a snapshot taken by SaveState. On error the
// machine is left as it was.
func (m *Machine) LoadState(b []byte) (err error) {
	if len(b) < len(stateMagic)+1 || string(b[:len(stateMagic)]) != stateMagic {
		return fmt.Errorf("%w: bad header", ErrInvalidState)
	}
	if v := b[len(stateMagic)]; v != stateVersion {
		return fmt.Errorf("%w: version %d, want %d", ErrInvalidState, v, stateVersion)
	}

	previous := m.SaveState()
	defer func() {
		if r := recover(); r != nil {
			m.Load(types.StateFromBytes(previous))
			err = fmt.Errorf("%w: truncated", ErrInvalidState)
		}
	}()

	m.Load(types.StateFromBytes(b))
	return nil
}

// SaveStateFile writes a snapshot of the machine to filename.
func (m *Machine) SaveStateFile(filename string) error {
	if err := os.WriteFile(filename, m.SaveState(), 0644); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

// LoadStateFile restores a snapshot from filename.
func (m *Machine) LoadStateFile(filename string) error {
	s, err := types.StateFromFile(filename)
	if err != nil {
		return err
	}
	return m.LoadState(s.Bytes())
}
