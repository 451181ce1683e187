package cpu

import "github.com/thelolagemann/go-invaders/internal/types"

// rotateLeftCarry rotates A left by 1 bit. Bit 7 is copied to both the
// carry flag and bit 0.
//
//	RLC
//
// Flags affected:
//
//	CY - Contains old bit 7 data.
func (c *CPU) rotateLeftCarry() {
	carry := c.A & types.Bit7
	c.A = c.A<<1 | carry>>7
	c.setFlagTo(FlagCarry, carry != 0)
}

// rotateRightCarry rotates A right by 1 bit. Bit 0 is copied to both the
// carry flag and bit 7.
//
//	RRC
//
// Flags affected:
//
//	CY - Contains old bit 0 data.
func (c *CPU) rotateRightCarry() {
	carry := c.A & types.Bit0
	c.A = c.A>>1 | carry<<7
	c.setFlagTo(FlagCarry, carry != 0)
}

// rotateLeftThroughCarry rotates A left through the carry flag. The carry
// flag is copied to bit 0, and bit 7 is copied to the carry flag.
//
//	RAL
//
// Flags affected:
//
//	CY - Contains old bit 7 data.
func (c *CPU) rotateLeftThroughCarry() {
	carry := c.A & types.Bit7
	c.A = c.A<<1 | c.carryBit()
	c.setFlagTo(FlagCarry, carry != 0)
}

// rotateRightThroughCarry rotates A right through the carry flag. The carry
// flag is copied to bit 7, and bit 0 is copied to the carry flag.
//
//	RAR
//
// Flags affected:
//
//	CY - Contains old bit 0 data.
func (c *CPU) rotateRightThroughCarry() {
	carry := c.A & types.Bit0
	c.A = c.A>>1 | c.carryBit()<<7
	c.setFlagTo(FlagCarry, carry != 0)
}

func init() {
	DefineInstruction(0x07, "RLC", func(c *CPU) { c.rotateLeftCarry() })
	DefineInstruction(0x0F, "RRC", func(c *CPU) { c.rotateRightCarry() })
	DefineInstruction(0x17, "RAL", func(c *CPU) { c.rotateLeftThroughCarry() })
	DefineInstruction(0x1F, "RAR", func(c *CPU) { c.rotateRightThroughCarry() })
}
