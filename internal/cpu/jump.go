package cpu

import (
	"fmt"
)

// pushStack pushes a 16 bit value onto the stack, high byte first.
func (c *CPU) pushStack(value uint16) {
	c.writeByte(c.SP-1, uint8(value>>8))
	c.writeByte(c.SP-2, uint8(value&0xFF))
	c.SP -= 2
}

// popStack pops a 16 bit value off the stack.
func (c *CPU) popStack() uint16 {
	lower := uint16(c.readByte(c.SP))
	upper := uint16(c.readByte(c.SP+1)) << 8
	c.SP += 2
	return lower | upper
}

// call pushes the address of the next instruction onto the stack and jumps to
// the given address.
//
//	CALL a16
//	a16 = 16-bit immediate value
func (c *CPU) call(address uint16) {
	c.pushStack(c.PC)
	c.PC = address
}

// callConditional pushes the address of the next instruction onto the stack and
// jumps to the given address if the given condition is true. The operand is
// consumed either way.
//
//	Ccc a16
//	cc = NZ, Z, NC, C, PO, PE, P, M
func (c *CPU) callConditional(condition bool, address uint16) {
	if condition {
		c.branched = true
		c.call(address)
	}
}

// jumpAbsolute jumps to the given address.
//
//	JMP a16
func (c *CPU) jumpAbsolute(address uint16) {
	c.PC = address
}

// jumpAbsoluteConditional jumps to the given address if the given condition is
// true.
//
//	Jcc a16
//	cc = NZ, Z, NC, C, PO, PE, P, M
func (c *CPU) jumpAbsoluteConditional(condition bool, address uint16) {
	if condition {
		c.jumpAbsolute(address)
	}
}

// ret pops the top two bytes off the stack and jumps to that address.
//
//	RET
func (c *CPU) ret() {
	c.PC = c.popStack()
}

// retConditional pops the top two bytes off the stack and jumps to that
// address if the given condition is true.
//
//	Rcc
//	cc = NZ, Z, NC, C, PO, PE, P, M
func (c *CPU) retConditional(condition bool) {
	if condition {
		c.branched = true
		c.ret()
	}
}

// conditions are the eight branch conditions in opcode order.
var conditions = [8]struct {
	name string
	test func(c *CPU) bool
}{
	{"NZ", func(c *CPU) bool { return !c.isFlagSet(FlagZero) }},
	{"Z", func(c *CPU) bool { return c.isFlagSet(FlagZero) }},
	{"NC", func(c *CPU) bool { return !c.isFlagSet(FlagCarry) }},
	{"C", func(c *CPU) bool { return c.isFlagSet(FlagCarry) }},
	{"PO", func(c *CPU) bool { return !c.isFlagSet(FlagParity) }},
	{"PE", func(c *CPU) bool { return c.isFlagSet(FlagParity) }},
	{"P", func(c *CPU) bool { return !c.isFlagSet(FlagSign) }},
	{"M", func(c *CPU) bool { return c.isFlagSet(FlagSign) }},
}

func init() {
	for i := uint8(0); i < 8; i++ {
		cond := conditions[i]
		defineConditional(0xC0+i*8, "R"+cond.name, func(c *CPU) { c.retConditional(cond.test(c)) })
		DefineInstruction(0xC2+i*8, fmt.Sprintf("J%s a16", cond.name), func(c *CPU) {
			c.jumpAbsoluteConditional(cond.test(c), c.readOperand16())
		})
		defineConditional(0xC4+i*8, fmt.Sprintf("C%s a16", cond.name), func(c *CPU) {
			c.callConditional(cond.test(c), c.readOperand16())
		})
	}

	DefineInstruction(0xC3, "JMP a16", func(c *CPU) { c.jumpAbsolute(c.readOperand16()) })
	DefineInstruction(0xC9, "RET", func(c *CPU) { c.ret() })
	DefineInstruction(0xCD, "CALL a16", func(c *CPU) { c.call(c.readOperand16()) })

	// undocumented aliases
	DefineInstruction(0xCB, "*JMP a16", func(c *CPU) { c.jumpAbsolute(c.readOperand16()) })
	DefineInstruction(0xD9, "*RET", func(c *CPU) { c.ret() })
	for _, opcode := range []uint8{0xDD, 0xED, 0xFD} {
		DefineInstruction(opcode, "*CALL a16", func(c *CPU) { c.call(c.readOperand16()) })
	}

	DefineInstruction(0xE9, "PCHL", func(c *CPU) { c.jumpAbsolute(c.HL.Uint16()) })
	DefineInstruction(0xF9, "SPHL", func(c *CPU) { c.SP = c.HL.Uint16() })
	DefineInstruction(0xE3, "XTHL", func(c *CPU) {
		l, h := c.readByte(c.SP), c.readByte(c.SP+1)
		c.writeByte(c.SP, c.L)
		c.writeByte(c.SP+1, c.H)
		c.L, c.H = l, h
	})

	DefineInstruction(0xC5, "PUSH B", func(c *CPU) { c.pushStack(c.BC.Uint16()) })
	DefineInstruction(0xD5, "PUSH D", func(c *CPU) { c.pushStack(c.DE.Uint16()) })
	DefineInstruction(0xE5, "PUSH H", func(c *CPU) { c.pushStack(c.HL.Uint16()) })
	DefineInstruction(0xF5, "PUSH PSW", func(c *CPU) { c.pushStack(c.AF.Uint16()) })
	DefineInstruction(0xC1, "POP B", func(c *CPU) { c.BC.SetUint16(c.popStack()) })
	DefineInstruction(0xD1, "POP D", func(c *CPU) { c.DE.SetUint16(c.popStack()) })
	DefineInstruction(0xE1, "POP H", func(c *CPU) { c.HL.SetUint16(c.popStack()) })
	DefineInstruction(0xF1, "POP PSW", func(c *CPU) {
		c.AF.SetUint16(c.popStack())
		c.F = normaliseFlags(c.F)
	})

	generateRSTInstructions()
}

// generateRSTInstructions generates the 8 RST instructions.
func generateRSTInstructions() {
	for i := uint8(0); i < 8; i++ {
		address := uint16(i) * 8
		DefineInstruction(0xC7+i*8, fmt.Sprintf("RST %d", i), func(c *CPU) {
			c.call(address)
		})
	}
}
