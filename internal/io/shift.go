package io

import "github.com/thelolagemann/go-invaders/internal/types"

// ShiftRegister is the external barrel shifter the 8080 lacks. Writes
// push a byte into the high half of a 16-bit register, moving the old
// high byte into the low half; reads return an 8-bit window of it.
//
//	OUT 4 - push data
//	OUT 2 - shift amount (bits 0-2)
//	IN 3  - result
type ShiftRegister struct {
	low, high uint8
	offset    uint8
}

// Push shifts value into the high byte.
func (s *ShiftRegister) Push(value uint8) {
	s.low = s.high
	s.high = value
}

// SetOffset sets the shift amount. Only the low 3 bits are used.
func (s *ShiftRegister) SetOffset(value uint8) {
	s.offset = value & 0x07
}

// Result returns the 8 bits starting offset bits below the top of the
// 16-bit value.
func (s *ShiftRegister) Result() uint8 {
	v := uint16(s.high)<<8 | uint16(s.low)
	return uint8(v >> (8 - s.offset))
}

// Value returns the 16-bit contents of the register.
func (s *ShiftRegister) Value() uint16 {
	return uint16(s.high)<<8 | uint16(s.low)
}

// Offset returns the shift amount.
func (s *ShiftRegister) Offset() uint8 {
	return s.offset
}

// Reset clears the register.
func (s *ShiftRegister) Reset() {
	*s = ShiftRegister{}
}

var _ types.Stater = (*ShiftRegister)(nil)

// Load implements the types.Stater interface.
func (s *ShiftRegister) Load(st *types.State) {
	s.low = st.Read8()
	s.high = st.Read8()
	s.offset = st.Read8()
}

// Save implements the types.Stater interface.
func (s *ShiftRegister) Save(st *types.State) {
	st.Write8(s.low)
	st.Write8(s.high)
	st.Write8(s.offset)
}
