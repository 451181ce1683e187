package cpu

import "math/bits"

// Flag is the bit position of a condition flag in the F register.
type Flag = uint8

const (
	FlagCarry    Flag = 0
	FlagParity   Flag = 2
	FlagAuxCarry Flag = 4
	FlagZero     Flag = 6
	FlagSign     Flag = 7
)

const (
	// flagMask keeps the five defined flag bits.
	flagMask uint8 = 0b1101_0101
	// flagFixed is bit 1, which always reads as 1.
	flagFixed uint8 = 0b0000_0010
)

// Flags is the unpacked form of the F register.
type Flags struct {
	Sign     bool
	Zero     bool
	AuxCarry bool
	Parity   bool
	Carry    bool
}

// PackFlags returns the F register byte for f. Bit 1 is always set and
// bits 3 and 5 are always clear.
func PackFlags(f Flags) uint8 {
	v := flagFixed
	if f.Sign {
		v |= 1 << FlagSign
	}
	if f.Zero {
		v |= 1 << FlagZero
	}
	if f.AuxCarry {
		v |= 1 << FlagAuxCarry
	}
	if f.Parity {
		v |= 1 << FlagParity
	}
	if f.Carry {
		v |= 1 << FlagCarry
	}
	return v
}

// UnpackFlags decodes an F register byte. The undefined bits are ignored.
func UnpackFlags(v uint8) Flags {
	return Flags{
		Sign:     v&(1<<FlagSign) != 0,
		Zero:     v&(1<<FlagZero) != 0,
		AuxCarry: v&(1<<FlagAuxCarry) != 0,
		Parity:   v&(1<<FlagParity) != 0,
		Carry:    v&(1<<FlagCarry) != 0,
	}
}

// normaliseFlags forces the undefined bits of F to their fixed values.
func normaliseFlags(v uint8) uint8 {
	return v&flagMask | flagFixed
}

// sign returns true if bit 7 of v is set.
func sign(v uint8) bool {
	return v&0x80 != 0
}

// zero returns true if the low byte of v is zero.
func zero(v uint16) bool {
	return v&0xFF == 0
}

// parity returns true if the low byte of v has an even number of set bits.
func parity(v uint16) bool {
	return bits.OnesCount8(uint8(v))%2 == 0
}

// auxCarryAdd returns true if a + b + carry carries out of bit 3.
func auxCarryAdd(a, b, carry uint8) bool {
	return (a&0x0F)+(b&0x0F)+carry > 0x0F
}

// auxCarrySub returns the auxiliary carry of a - b - borrow. The 8080
// subtracts by adding the two's complement, so AC is set when that
// addition carries out of bit 3, i.e. when no borrow is needed.
func auxCarrySub(a, b, borrow uint8) bool {
	return (a&0x0F)+(^b&0x0F)+(1-borrow) > 0x0F
}

// carryAdd returns true if a + b + carry overflows 8 bits.
func carryAdd(a, b, carry uint8) bool {
	return uint16(a)+uint16(b)+uint16(carry) > 0xFF
}

// carrySub returns true if a - b - borrow needs a borrow.
func carrySub(a, b, borrow uint8) bool {
	return uint16(b)+uint16(borrow) > uint16(a)
}

// clearFlag clears a flag from the F register.
func (c *CPU) clearFlag(flag Flag) {
	c.F = normaliseFlags(c.F &^ (1 << flag))
}

// setFlag sets a flag in the F register.
func (c *CPU) setFlag(flag Flag) {
	c.F = normaliseFlags(c.F | 1<<flag)
}

// setFlagTo sets or clears a flag.
func (c *CPU) setFlagTo(flag Flag, set bool) {
	if set {
		c.setFlag(flag)
	} else {
		c.clearFlag(flag)
	}
}

// isFlagSet returns true if the given flag is set.
func (c *CPU) isFlagSet(flag Flag) bool {
	return c.F&(1<<flag) != 0
}

// carryBit returns the carry flag as 0 or 1.
func (c *CPU) carryBit() uint8 {
	return c.F & (1 << FlagCarry)
}

// setSZP sets the sign, zero and parity flags from result.
func (c *CPU) setSZP(result uint8) {
	c.setFlagTo(FlagSign, sign(result))
	c.setFlagTo(FlagZero, zero(uint16(result)))
	c.setFlagTo(FlagParity, parity(uint16(result)))
}

// Flags returns the unpacked F register.
func (c *CPU) Flags() Flags {
	return UnpackFlags(c.F)
}

// SetFlags replaces the F register.
func (c *CPU) SetFlags(f Flags) {
	c.F = PackFlags(f)
}
