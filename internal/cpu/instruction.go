package cpu

import (
	"fmt"
	"strings"
)

// Instruction represents a single instruction of the CPU.
type Instruction struct {
	name        string     // name of the instruction
	length      uint8      // length in bytes, including the opcode
	cycles      uint8      // cycles taken, or not taken for a conditional branch
	cyclesTaken uint8      // cycles when a conditional branch is taken
	fn          func(*CPU) // fn called when executing the instruction
}

// Name returns the mnemonic of the instruction, with d8, d16 and a16
// standing in for its operands.
func (i Instruction) Name() string {
	return i.name
}

// Length returns the size of the instruction in bytes.
func (i Instruction) Length() uint8 {
	return i.length
}

// Cycles returns the number of cycles the instruction takes. For a
// conditional CALL or RET this is the not-taken count.
func (i Instruction) Cycles() uint8 {
	return i.cycles
}

// CyclesTaken returns the number of cycles a conditional CALL or RET
// takes when the condition holds, or Cycles for anything else.
func (i Instruction) CyclesTaken() uint8 {
	if i.cyclesTaken == 0 {
		return i.cycles
	}
	return i.cyclesTaken
}

// InstructionSet holds the 256 instructions, indexed by opcode.
var InstructionSet [256]Instruction

// instructionCycles holds the cycle count of each opcode. Conditional
// CALL and RET list their not-taken count.
var instructionCycles = [256]uint8{
	4, 10, 7, 5, 5, 5, 7, 4, 4, 10, 7, 5, 5, 5, 7, 4, // 0x00
	4, 10, 7, 5, 5, 5, 7, 4, 4, 10, 7, 5, 5, 5, 7, 4, // 0x10
	4, 10, 16, 5, 5, 5, 7, 4, 4, 10, 16, 5, 5, 5, 7, 4, // 0x20
	4, 10, 13, 5, 10, 10, 10, 4, 4, 10, 13, 5, 5, 5, 7, 4, // 0x30
	5, 5, 5, 5, 5, 5, 7, 5, 5, 5, 5, 5, 5, 5, 7, 5, // 0x40
	5, 5, 5, 5, 5, 5, 7, 5, 5, 5, 5, 5, 5, 5, 7, 5, // 0x50
	5, 5, 5, 5, 5, 5, 7, 5, 5, 5, 5, 5, 5, 5, 7, 5, // 0x60
	7, 7, 7, 7, 7, 7, 7, 7, 5, 5, 5, 5, 5, 5, 7, 5, // 0x70
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4, // 0x80
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4, // 0x90
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4, // 0xA0
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4, // 0xB0
	5, 10, 10, 10, 11, 11, 7, 11, 5, 10, 10, 10, 11, 17, 7, 11, // 0xC0
	5, 10, 10, 10, 11, 11, 7, 11, 5, 10, 10, 10, 11, 17, 7, 11, // 0xD0
	5, 10, 10, 18, 11, 11, 7, 11, 5, 5, 10, 4, 11, 17, 7, 11, // 0xE0
	5, 10, 10, 4, 11, 11, 7, 11, 5, 5, 10, 4, 11, 17, 7, 11, // 0xF0
}

// branchPenalty is the extra time a conditional CALL or RET takes when
// the branch is taken.
const branchPenalty = 6

// DefineInstruction defines the instruction in the InstructionSet, with
// the provided opcode. The length is derived from the operand
// placeholder in the name.
func DefineInstruction(opcode uint8, name string, fn func(*CPU)) {
	length := uint8(1)
	switch {
	case strings.Contains(name, "d16"), strings.Contains(name, "a16"):
		length = 3
	case strings.Contains(name, "d8"):
		length = 2
	}

	InstructionSet[opcode] = Instruction{
		name:   name,
		length: length,
		cycles: instructionCycles[opcode],
		fn:     fn,
	}
}

// defineConditional defines a conditional CALL or RET, which takes
// longer when the branch is taken.
func defineConditional(opcode uint8, name string, fn func(*CPU)) {
	DefineInstruction(opcode, name, fn)
	InstructionSet[opcode].cyclesTaken = instructionCycles[opcode] + branchPenalty
}

func init() {
	DefineInstruction(0x00, "NOP", func(c *CPU) {})
	// undocumented opcodes that behave as NOP
	for _, opcode := range []uint8{0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38} {
		DefineInstruction(opcode, "*NOP", func(c *CPU) {})
	}

	DefineInstruction(0x76, "HLT", func(c *CPU) { c.IRQ.Halt() })
	DefineInstruction(0xF3, "DI", func(c *CPU) { c.IRQ.Disable() })
	DefineInstruction(0xFB, "EI", func(c *CPU) { c.IRQ.Enable() })

	DefineInstruction(0xD3, "OUT d8", func(c *CPU) { c.io.Out(c.readOperand(), c.A) })
	DefineInstruction(0xDB, "IN d8", func(c *CPU) { c.A = c.io.In(c.readOperand()) })
}

// Disassemble returns the instruction at addr with its operands filled
// in, and the address of the instruction that follows it.
func (c *CPU) Disassemble(addr uint16) (string, uint16) {
	instruction := InstructionSet[c.mmu.Read(addr)]
	name := instruction.name
	switch instruction.length {
	case 2:
		name = strings.Replace(name, "d8", fmt.Sprintf("%02Xh", c.mmu.Read(addr+1)), 1)
	case 3:
		operand := fmt.Sprintf("%04Xh", c.mmu.Read16(addr+1))
		name = strings.Replace(strings.Replace(name, "d16", operand, 1), "a16", operand, 1)
	}
	return name, addr + uint16(instruction.length)
}
