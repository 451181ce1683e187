package types

// Register represents an 8080 Register which is used to hold an 8-bit value.
// The CPU has 8 registers: A, B, C, D, E, H, L, and F. The F register is
// special in that it is used to hold the flags.
type Register = uint8

// RegisterPair represents a pair of 8080 Registers which is used to hold a
// 16-bit value. The high register holds the most significant byte, so
// B:C reads as BC, regardless of the little-endian byte order used when
// the pair is written to memory.
type RegisterPair struct {
	High *Register
	Low  *Register
}

// Uint16 returns the value of the RegisterPair as an uint16.
func (r *RegisterPair) Uint16() uint16 {
	return uint16(*r.High)<<8 | uint16(*r.Low)
}

// SetUint16 sets the value of the RegisterPair to the given value.
func (r *RegisterPair) SetUint16(value uint16) {
	*r.High = uint8(value >> 8)
	*r.Low = uint8(value)
}

// Registers represents the 8080 CPU registers.
type Registers struct {
	A Register
	B Register
	C Register
	D Register
	E Register
	F Register
	H Register
	L Register

	BC *RegisterPair
	DE *RegisterPair
	HL *RegisterPair
	AF *RegisterPair
}

// Wire points the register pairs at their backing registers. It must be
// called once the Registers are at their final address, as the pairs hold
// pointers into the struct.
func (r *Registers) Wire() {
	r.BC = &RegisterPair{&r.B, &r.C}
	r.DE = &RegisterPair{&r.D, &r.E}
	r.HL = &RegisterPair{&r.H, &r.L}
	r.AF = &RegisterPair{&r.A, &r.F}
}
