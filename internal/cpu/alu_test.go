package cpu

import (
	"math/bits"
	"testing"
)

func TestInstruction_AddExhaustive(t *testing.T) {
	testInstruction(t, "ADD B", 0x80, func(t *testing.T, instr Instruction) {
		for a := 0; a < 256; a++ {
			for b := 0; b < 256; b++ {
				cpu.PC = 0x1000
				cpu.A, cpu.B = uint8(a), uint8(b)
				execute(0x80)

				sum := a + b
				result := uint8(sum)
				if cpu.A != result {
					t.Fatalf("%02X+%02X: expected A=%02X, got %02X", a, b, result, cpu.A)
				}
				f := cpu.Flags()
				if f.Carry != (sum > 0xFF) {
					t.Fatalf("%02X+%02X: carry %v", a, b, f.Carry)
				}
				if f.Zero != (result == 0) {
					t.Fatalf("%02X+%02X: zero %v", a, b, f.Zero)
				}
				if f.Parity != (bits.OnesCount8(result)%2 == 0) {
					t.Fatalf("%02X+%02X: parity %v", a, b, f.Parity)
				}
				if f.Sign != (result&0x80 != 0) {
					t.Fatalf("%02X+%02X: sign %v", a, b, f.Sign)
				}
				if f.AuxCarry != ((a&0x0F)+(b&0x0F) > 0x0F) {
					t.Fatalf("%02X+%02X: aux carry %v", a, b, f.AuxCarry)
				}
			}
		}
	})
}

func TestInstruction_SubExhaustive(t *testing.T) {
	testInstruction(t, "SUB C", 0x91, func(t *testing.T, instr Instruction) {
		for a := 0; a < 256; a++ {
			for b := 0; b < 256; b++ {
				cpu.PC = 0x1000
				cpu.A, cpu.C = uint8(a), uint8(b)
				execute(0x91)

				result := uint8(a - b)
				if cpu.A != result {
					t.Fatalf("%02X-%02X: expected A=%02X, got %02X", a, b, result, cpu.A)
				}
				f := cpu.Flags()
				if f.Carry != (b > a) {
					t.Fatalf("%02X-%02X: carry %v", a, b, f.Carry)
				}
				if f.Zero != (a == b) {
					t.Fatalf("%02X-%02X: zero %v", a, b, f.Zero)
				}
				if f.AuxCarry != (a&0x0F >= b&0x0F) {
					t.Fatalf("%02X-%02X: aux carry %v", a, b, f.AuxCarry)
				}
			}
		}
	})
}

func TestInstruction_Arithmetic(t *testing.T) {
	// 0x88 - ADC B
	testInstruction(t, "ADC B", 0x88, func(t *testing.T, instr Instruction) {
		cpu.A, cpu.B = 0x0F, 0x00
		cpu.setFlag(FlagCarry)
		execute(0x88)
		if cpu.A != 0x10 {
			t.Errorf("expected A to be 0x10, got 0x%02X", cpu.A)
		}
		if !cpu.isFlagSet(FlagAuxCarry) || cpu.isFlagSet(FlagCarry) {
			t.Errorf("expected AC set and CY clear, got F=0x%02X", cpu.F)
		}
	})
	// 0x9A - SBB D
	testInstruction(t, "SBB D", 0x9A, func(t *testing.T, instr Instruction) {
		cpu.A, cpu.D = 0x04, 0x02
		cpu.setFlag(FlagCarry)
		execute(0x9A)
		if cpu.A != 0x01 {
			t.Errorf("expected A to be 0x01, got 0x%02X", cpu.A)
		}
		if cpu.isFlagSet(FlagCarry) {
			t.Errorf("expected CY to be clear")
		}
	})
	// 0x86 - ADD M
	testInstruction(t, "ADD M", 0x86, func(t *testing.T, instr Instruction) {
		cpu.HL.SetUint16(0x2100)
		cpu.mmu.Write(0x2100, 0x2E)
		cpu.A = 0x6C
		cycles := execute(0x86)
		if cpu.A != 0x9A {
			t.Errorf("expected A to be 0x9A, got 0x%02X", cpu.A)
		}
		if cycles != 7 {
			t.Errorf("expected 7 cycles, got %d", cycles)
		}
		f := cpu.Flags()
		if !f.Sign || f.Zero || !f.AuxCarry || !f.Parity || f.Carry {
			t.Errorf("unexpected flags %+v", f)
		}
	})
	// 0xC6 - ADI d8
	testInstruction(t, "ADI d8", 0xC6, func(t *testing.T, instr Instruction) {
		cpu.A = 0xFF
		execute(0xC6, 0x01)
		if cpu.A != 0x00 || !cpu.isFlagSet(FlagZero) || !cpu.isFlagSet(FlagCarry) {
			t.Errorf("expected A=0 with Z and CY, got A=0x%02X F=0x%02X", cpu.A, cpu.F)
		}
		if cpu.PC != 0x1002 {
			t.Errorf("expected PC to be 0x1002, got 0x%04X", cpu.PC)
		}
	})
	// 0xFE - CPI d8
	testInstruction(t, "CPI d8", 0xFE, func(t *testing.T, instr Instruction) {
		cpu.A = 0x4A
		execute(0xFE, 0x40)
		if cpu.A != 0x4A {
			t.Errorf("expected A to be unchanged, got 0x%02X", cpu.A)
		}
		if cpu.isFlagSet(FlagCarry) || cpu.isFlagSet(FlagZero) {
			t.Errorf("expected CY and Z clear, got F=0x%02X", cpu.F)
		}

		cpu.PC = 0x1000
		execute(0xFE, 0x4A)
		if !cpu.isFlagSet(FlagZero) {
			t.Errorf("expected Z set on equal compare")
		}

		cpu.PC = 0x1000
		execute(0xFE, 0x50)
		if !cpu.isFlagSet(FlagCarry) {
			t.Errorf("expected CY set when A < operand")
		}
	})
}

func TestInstruction_Logical(t *testing.T) {
	// 0xA0 - ANA B
	testInstruction(t, "ANA B", 0xA0, func(t *testing.T, instr Instruction) {
		cpu.A, cpu.B = 0xFC, 0x0F
		cpu.setFlag(FlagCarry)
		execute(0xA0)
		if cpu.A != 0x0C {
			t.Errorf("expected A to be 0x0C, got 0x%02X", cpu.A)
		}
		if cpu.isFlagSet(FlagCarry) {
			t.Errorf("expected CY to be cleared")
		}
		if !cpu.isFlagSet(FlagAuxCarry) {
			t.Errorf("expected AC set from bit 3 of the operands")
		}

		cpu.PC = 0x1000
		cpu.A, cpu.B = 0x30, 0x12
		execute(0xA0)
		if cpu.isFlagSet(FlagAuxCarry) {
			t.Errorf("expected AC clear when neither operand has bit 3")
		}
	})
	// 0xA8 - XRA B
	testInstruction(t, "XRA B", 0xA8, func(t *testing.T, instr Instruction) {
		cpu.A, cpu.B = 0x5C, 0x78
		cpu.setFlag(FlagCarry)
		cpu.setFlag(FlagAuxCarry)
		execute(0xA8)
		if cpu.A != 0x24 {
			t.Errorf("expected A to be 0x24, got 0x%02X", cpu.A)
		}
		if cpu.isFlagSet(FlagCarry) || cpu.isFlagSet(FlagAuxCarry) {
			t.Errorf("expected CY and AC clear, got F=0x%02X", cpu.F)
		}
	})
	// 0xAF - XRA A
	testInstruction(t, "XRA A", 0xAF, func(t *testing.T, instr Instruction) {
		cpu.A = 0x99
		execute(0xAF)
		if cpu.A != 0 || !cpu.isFlagSet(FlagZero) || !cpu.isFlagSet(FlagParity) {
			t.Errorf("expected A=0 with Z and P, got A=0x%02X F=0x%02X", cpu.A, cpu.F)
		}
	})
	// 0xB1 - ORA C
	testInstruction(t, "ORA C", 0xB1, func(t *testing.T, instr Instruction) {
		cpu.A, cpu.C = 0x33, 0x0F
		cpu.setFlag(FlagCarry)
		execute(0xB1)
		if cpu.A != 0x3F {
			t.Errorf("expected A to be 0x3F, got 0x%02X", cpu.A)
		}
		if cpu.isFlagSet(FlagCarry) || cpu.isFlagSet(FlagAuxCarry) {
			t.Errorf("expected CY and AC clear, got F=0x%02X", cpu.F)
		}
	})
	// 0x2F - CMA
	testInstruction(t, "CMA", 0x2F, func(t *testing.T, instr Instruction) {
		cpu.A = 0x51
		f := cpu.F
		execute(0x2F)
		if cpu.A != 0xAE || cpu.F != f {
			t.Errorf("expected A=0xAE and flags unchanged, got A=0x%02X F=0x%02X", cpu.A, cpu.F)
		}
	})
	// 0x37 - STC, 0x3F - CMC
	testInstruction(t, "STC/CMC", 0x37, func(t *testing.T, instr Instruction) {
		execute(0x37)
		if !cpu.isFlagSet(FlagCarry) {
			t.Errorf("expected CY set")
		}
		execute(0x3F)
		if cpu.isFlagSet(FlagCarry) {
			t.Errorf("expected CY cleared")
		}
	})
}

func TestInstruction_IncrementDecrement(t *testing.T) {
	// 0x04 - INR B
	testInstruction(t, "INR B", 0x04, func(t *testing.T, instr Instruction) {
		cpu.B = 0xFF
		cpu.setFlag(FlagCarry)
		execute(0x04)
		if cpu.B != 0x00 {
			t.Errorf("expected B to be 0x00, got 0x%02X", cpu.B)
		}
		if !cpu.isFlagSet(FlagZero) || !cpu.isFlagSet(FlagAuxCarry) {
			t.Errorf("expected Z and AC set, got F=0x%02X", cpu.F)
		}
		if !cpu.isFlagSet(FlagCarry) {
			t.Errorf("INR must not change CY")
		}
	})
	// 0x0D - DCR C
	testInstruction(t, "DCR C", 0x0D, func(t *testing.T, instr Instruction) {
		cpu.C = 0x00
		execute(0x0D)
		if cpu.C != 0xFF {
			t.Errorf("expected C to be 0xFF, got 0x%02X", cpu.C)
		}
		if !cpu.isFlagSet(FlagSign) || cpu.isFlagSet(FlagCarry) || cpu.isFlagSet(FlagAuxCarry) {
			t.Errorf("expected S set, CY and AC clear, got F=0x%02X", cpu.F)
		}
	})
	// 0x34 - INR M
	testInstruction(t, "INR M", 0x34, func(t *testing.T, instr Instruction) {
		cpu.HL.SetUint16(0x2050)
		cpu.mmu.Write(0x2050, 0x41)
		cycles := execute(0x34)
		if cpu.mmu.Read(0x2050) != 0x42 {
			t.Errorf("expected (HL) to be 0x42, got 0x%02X", cpu.mmu.Read(0x2050))
		}
		if cycles != 10 {
			t.Errorf("expected 10 cycles, got %d", cycles)
		}
	})
	// 0x03 - INX B, 0x3B - DCX SP
	testInstruction(t, "INX B", 0x03, func(t *testing.T, instr Instruction) {
		cpu.BC.SetUint16(0x38FF)
		f := cpu.F
		execute(0x03)
		if cpu.BC.Uint16() != 0x3900 || cpu.F != f {
			t.Errorf("expected BC=0x3900 with flags unchanged, got 0x%04X", cpu.BC.Uint16())
		}
	})
	testInstruction(t, "DCX SP", 0x3B, func(t *testing.T, instr Instruction) {
		cpu.SP = 0x0000
		execute(0x3B)
		if cpu.SP != 0xFFFF {
			t.Errorf("expected SP to wrap to 0xFFFF, got 0x%04X", cpu.SP)
		}
	})
}

func TestInstruction_DoubleAdd(t *testing.T) {
	// 0x09 - DAD B
	testInstruction(t, "DAD B", 0x09, func(t *testing.T, instr Instruction) {
		cpu.BC.SetUint16(0x339F)
		cpu.HL.SetUint16(0xA17B)
		cpu.setFlag(FlagZero)
		execute(0x09)
		if cpu.HL.Uint16() != 0xD51A {
			t.Errorf("expected HL to be 0xD51A, got 0x%04X", cpu.HL.Uint16())
		}
		if cpu.isFlagSet(FlagCarry) || !cpu.isFlagSet(FlagZero) {
			t.Errorf("expected only CY to be affected, got F=0x%02X", cpu.F)
		}
	})
	// 0x29 - DAD H
	testInstruction(t, "DAD H", 0x29, func(t *testing.T, instr Instruction) {
		cpu.HL.SetUint16(0x8001)
		execute(0x29)
		if cpu.HL.Uint16() != 0x0002 || !cpu.isFlagSet(FlagCarry) {
			t.Errorf("expected HL=0x0002 with CY, got 0x%04X F=0x%02X", cpu.HL.Uint16(), cpu.F)
		}
	})
}

func TestInstruction_DecimalAdjust(t *testing.T) {
	testInstruction(t, "DAA", 0x27, func(t *testing.T, instr Instruction) {
		cpu.A = 0x15
		execute(0x27)
		if cpu.A != 0x15 || cpu.isFlagSet(FlagCarry) || cpu.isFlagSet(FlagAuxCarry) {
			t.Errorf("expected 0x15 unchanged with CY=AC=0, got A=0x%02X F=0x%02X", cpu.A, cpu.F)
		}

		cpu.PC = 0x1000
		cpu.A = 0x9B
		execute(0x27)
		if cpu.A != 0x01 || !cpu.isFlagSet(FlagCarry) || !cpu.isFlagSet(FlagAuxCarry) {
			t.Errorf("expected 0x9B to adjust to 0x01 with CY and AC, got A=0x%02X F=0x%02X", cpu.A, cpu.F)
		}
	})
	testInstruction(t, "DAA after ADD", 0x27, func(t *testing.T, instr Instruction) {
		// 0x38 + 0x45 = 0x7D, BCD 38 + 45 = 83
		cpu.A, cpu.B = 0x38, 0x45
		execute(0x80)
		execute(0x27)
		if cpu.A != 0x83 || cpu.isFlagSet(FlagCarry) {
			t.Errorf("expected 0x83, got A=0x%02X F=0x%02X", cpu.A, cpu.F)
		}
	})
}
