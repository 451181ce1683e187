// Package mmu provides the flat 64 KiB memory of the 8080. The CPU
// treats every address as plain storage; the Space Invaders memory map
// (ROM, work RAM, video RAM) is a convention of the programs it runs.
package mmu

import (
	"errors"
	"fmt"

	"github.com/thelolagemann/go-invaders/internal/types"
	"github.com/thelolagemann/go-invaders/pkg/log"
	"github.com/thelolagemann/go-invaders/pkg/utils"
)

// ErrROMTooLarge is returned when an image would run past 0xFFFF. The
// bytes that fit are still copied.
var ErrROMTooLarge = errors.New("rom overflows address space")

// MMU is the memory management unit. It owns the 64 KiB address space
// and is shared by the CPU, the renderer and the debugger.
type MMU struct {
	raw [0x10000]uint8

	Log         log.Logger
	romWarnings bool
}

// Opt configures an MMU.
type Opt func(*MMU)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l log.Logger) Opt {
	return func(m *MMU) {
		m.Log = l
	}
}

// WithROMWarnings logs writes into the program ROM region. The write is
// still performed, as the board does not enforce protection.
func WithROMWarnings() Opt {
	return func(m *MMU) {
		m.romWarnings = true
	}
}

// NewMMU returns a new, zeroed MMU.
func NewMMU(opts ...Opt) *MMU {
	m := &MMU{
		Log: log.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Read returns the value at the given address.
func (m *MMU) Read(address uint16) uint8 {
	return m.raw[address]
}

// Write stores value at the given address.
func (m *MMU) Write(address uint16, value uint8) {
	if m.romWarnings && address <= types.ROMEnd {
		m.Log.Debugf("write to rom %04x <- %02x", address, value)
	}
	m.raw[address] = value
}

// Read16 reads a little-endian word. The high byte wraps to 0x0000 when
// address is 0xFFFF.
func (m *MMU) Read16(address uint16) uint16 {
	return utils.BytesToUint16(m.raw[address+1], m.raw[address])
}

// Write16 writes a little-endian word.
func (m *MMU) Write16(address uint16, value uint16) {
	high, low := utils.Uint16ToBytes(value)
	m.Write(address, low)
	m.Write(address+1, high)
}

// LoadBytes copies data into memory starting at address. If data runs past
// the end of the address space, the part that fits is copied and
// ErrROMTooLarge is returned.
func (m *MMU) LoadBytes(address uint16, data []byte) error {
	n := copy(m.raw[address:], data)
	if n < len(data) {
		return fmt.Errorf("%w: %d bytes at %04x, %d truncated", ErrROMTooLarge, len(data), address, len(data)-n)
	}
	return nil
}

// LoadROM reads the file at path, decompressing it if needed, and
// copies it verbatim to address.
func (m *MMU) LoadROM(path string, address uint16) error {
	data, err := utils.LoadFile(path)
	if err != nil {
		return fmt.Errorf("loading rom %s: %w", path, err)
	}
	if err := m.LoadBytes(address, data); err != nil {
		return fmt.Errorf("loading rom %s: %w", path, err)
	}
	m.Log.Debugf("loaded %s (%d bytes) at %04x", path, len(data), address)
	return nil
}

// VRAM returns the video RAM region. The slice aliases memory and is
// only valid until the next write.
func (m *MMU) VRAM() []byte {
	return m.raw[types.VRAMStart : uint32(types.VRAMEnd)+1]
}

// Bytes returns the whole address space.
func (m *MMU) Bytes() []byte {
	return m.raw[:]
}

// Reset zeroes all memory.
func (m *MMU) Reset() {
	m.raw = [0x10000]uint8{}
}

var _ types.Stater = (*MMU)(nil)

// Load implements the types.Stater interface. Only the writable RAM
// (work RAM and video RAM) is restored; ROM comes from the ROM set.
func (m *MMU) Load(s *types.State) {
	s.ReadData(m.raw[types.RAMStart : uint32(types.VRAMEnd)+1])
}

// Save implements the types.Stater interface.
func (m *MMU) Save(s *types.State) {
	s.WriteData(m.raw[types.RAMStart : uint32(types.VRAMEnd)+1])
}
