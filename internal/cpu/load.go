package cpu

import (
	"fmt"
)

// loadRegisterToRegister loads the value of the given Register into the given
// Register.
//
//	MOV r1, r2
//	r1, r2 = A, B, C, D, E, H, L
func (c *CPU) loadRegisterToRegister(register *Register, value *Register) {
	*register = *value
}

// loadRegister8 loads the next operand into the given Register.
//
//	MVI r, d8
//	r = A, B, C, D, E, H, L
func (c *CPU) loadRegister8(reg *Register) {
	*reg = c.readOperand()
}

// loadMemoryToRegister loads the value at the given memory address into the
// given Register.
//
//	MOV r, M
//	LDAX rp
//	LDA a16
func (c *CPU) loadMemoryToRegister(reg *Register, address uint16) {
	*reg = c.readByte(address)
}

// loadRegisterToMemory loads the value of the given Register into the given
// memory address.
//
//	MOV M, r
//	STAX rp
//	STA a16
func (c *CPU) loadRegisterToMemory(reg Register, address uint16) {
	c.writeByte(address, reg)
}

// loadRegister16 loads the next two operands into the given Register pair,
// low byte first.
//
//	LXI rp, d16
//	rp = B, D, H
func (c *CPU) loadRegister16(reg *RegisterPair) {
	*reg.Low = c.readOperand()
	*reg.High = c.readOperand()
}

func init() {
	DefineInstruction(0x01, "LXI B, d16", func(c *CPU) { c.loadRegister16(c.BC) })
	DefineInstruction(0x11, "LXI D, d16", func(c *CPU) { c.loadRegister16(c.DE) })
	DefineInstruction(0x21, "LXI H, d16", func(c *CPU) { c.loadRegister16(c.HL) })
	DefineInstruction(0x31, "LXI SP, d16", func(c *CPU) { c.SP = c.readOperand16() })

	DefineInstruction(0x02, "STAX B", func(c *CPU) { c.loadRegisterToMemory(c.A, c.BC.Uint16()) })
	DefineInstruction(0x12, "STAX D", func(c *CPU) { c.loadRegisterToMemory(c.A, c.DE.Uint16()) })
	DefineInstruction(0x0A, "LDAX B", func(c *CPU) { c.loadMemoryToRegister(&c.A, c.BC.Uint16()) })
	DefineInstruction(0x1A, "LDAX D", func(c *CPU) { c.loadMemoryToRegister(&c.A, c.DE.Uint16()) })

	DefineInstruction(0x22, "SHLD a16", func(c *CPU) {
		address := c.readOperand16()
		c.writeByte(address, c.L)
		c.writeByte(address+1, c.H)
	})
	DefineInstruction(0x2A, "LHLD a16", func(c *CPU) {
		address := c.readOperand16()
		c.L = c.readByte(address)
		c.H = c.readByte(address + 1)
	})
	DefineInstruction(0x32, "STA a16", func(c *CPU) { c.loadRegisterToMemory(c.A, c.readOperand16()) })
	DefineInstruction(0x3A, "LDA a16", func(c *CPU) { c.loadMemoryToRegister(&c.A, c.readOperand16()) })

	DefineInstruction(0xEB, "XCHG", func(c *CPU) {
		c.H, c.D = c.D, c.H
		c.L, c.E = c.E, c.L
	})

	// MVI r, d8
	for r := uint8(0); r < 8; r++ {
		if r == 6 {
			DefineInstruction(0x36, "MVI M, d8", func(c *CPU) {
				c.writeByte(c.HL.Uint16(), c.readOperand())
			})
			continue
		}
		index := r
		DefineInstruction(0x06+r*8, fmt.Sprintf("MVI %s, d8", registerNameMap[r]), func(c *CPU) {
			c.loadRegister8(c.registerIndex(index))
		})
	}

	generateLoadRegisterToRegisterInstructions()
}

// generateLoadRegisterToRegisterInstructions generates the instructions
// for loading a register to another register. (e.g. MOV B, A)
//
// The instructions are generated in the following format:
//
//	0x40 MOV B, B
//	0x41 MOV B, C
//	....
//	0x7F MOV A, A
//
// 0x76, which would be MOV M, M, is HLT and is left alone.
func generateLoadRegisterToRegisterInstructions() {
	for i := uint8(0); i < 8; i++ {
		for j := uint8(0); j < 8; j++ {
			opcode := 0x40 + i*8 + j
			name := fmt.Sprintf("MOV %s, %s", registerNameMap[i], registerNameMap[j])
			toRegister, fromRegister := i, j

			switch {
			case i == 6 && j == 6:
				continue
			case i == 6:
				DefineInstruction(opcode, name, func(c *CPU) {
					c.loadRegisterToMemory(*c.registerIndex(fromRegister), c.HL.Uint16())
				})
			case j == 6:
				DefineInstruction(opcode, name, func(c *CPU) {
					c.loadMemoryToRegister(c.registerIndex(toRegister), c.HL.Uint16())
				})
			default:
				DefineInstruction(opcode, name, func(c *CPU) {
					c.loadRegisterToRegister(c.registerIndex(toRegister), c.registerIndex(fromRegister))
				})
			}
		}
	}
}
