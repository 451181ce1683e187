package cpu

import "testing"

func TestInstruction_Calls(t *testing.T) {
	// 0xCD - CALL a16
	testInstruction(t, "CALL a16", 0xCD, func(t *testing.T, instr Instruction) {
		cpu.SP = 0x2400

		cycles := execute(0xCD, 0x42, 0x42) // 0x1003 (return address) pushed, PC set to 0x4242

		if cpu.PC != 0x4242 {
			t.Errorf("expected PC to be 0x4242, got 0x%04X", cpu.PC)
		}
		if cpu.SP != 0x23FE {
			t.Errorf("expected SP to be 0x23FE, got 0x%04X", cpu.SP)
		}
		if cpu.mmu.Read(0x23FF) != 0x10 {
			t.Errorf("expected 0x10 at address 0x23FF, got 0x%02X", cpu.mmu.Read(0x23FF))
		}
		if cpu.mmu.Read(0x23FE) != 0x03 {
			t.Errorf("expected 0x03 at address 0x23FE, got 0x%02X", cpu.mmu.Read(0x23FE))
		}
		if cycles != 17 {
			t.Errorf("expected 17 cycles, got %d", cycles)
		}

		// RET restores PC and SP
		cycles = execute(0xC9)
		if cpu.PC != 0x1003 || cpu.SP != 0x2400 {
			t.Errorf("expected PC=0x1003 SP=0x2400, got PC=0x%04X SP=0x%04X", cpu.PC, cpu.SP)
		}
		if cycles != 10 {
			t.Errorf("expected 10 cycles, got %d", cycles)
		}
	})

	// conditional calls
	for i := uint8(0); i < 8; i++ {
		opcode := 0xC4 + i*8
		cond := conditions[i]
		testInstruction(t, InstructionSet[opcode].Name(), opcode, func(t *testing.T, instr Instruction) {
			for _, f := range []uint8{0x02, 0xD7} {
				cpu.PC, cpu.SP, cpu.F = 0x1000, 0x2400, f
				taken := cond.test(cpu)

				cycles := execute(opcode, 0x00, 0x20)

				if taken {
					if cpu.PC != 0x2000 || cpu.SP != 0x23FE || cycles != 17 {
						t.Errorf("F=%02X: expected taken call, got PC=0x%04X SP=0x%04X cycles=%d", f, cpu.PC, cpu.SP, cycles)
					}
				} else if cpu.PC != 0x1003 || cpu.SP != 0x2400 || cycles != 11 {
					t.Errorf("F=%02X: expected call not taken, got PC=0x%04X SP=0x%04X cycles=%d", f, cpu.PC, cpu.SP, cycles)
				}
			}
		})
	}
}

func TestInstruction_Returns(t *testing.T) {
	for i := uint8(0); i < 8; i++ {
		opcode := 0xC0 + i*8
		cond := conditions[i]
		testInstruction(t, InstructionSet[opcode].Name(), opcode, func(t *testing.T, instr Instruction) {
			for _, f := range []uint8{0x02, 0xD7} {
				cpu.PC, cpu.SP, cpu.F = 0x1000, 0x23FE, f
				cpu.mmu.Write16(0x23FE, 0x0ADE)
				taken := cond.test(cpu)

				cycles := execute(opcode)

				if taken {
					if cpu.PC != 0x0ADE || cpu.SP != 0x2400 || cycles != 11 {
						t.Errorf("F=%02X: expected return, got PC=0x%04X SP=0x%04X cycles=%d", f, cpu.PC, cpu.SP, cycles)
					}
				} else if cpu.PC != 0x1001 || cpu.SP != 0x23FE || cycles != 5 {
					t.Errorf("F=%02X: expected no return, got PC=0x%04X SP=0x%04X cycles=%d", f, cpu.PC, cpu.SP, cycles)
				}
			}
		})
	}
}

func TestInstruction_Jumps(t *testing.T) {
	// 0xC3 - JMP a16
	testInstruction(t, "JMP a16", 0xC3, func(t *testing.T, instr Instruction) {
		execute(0xC3, 0xD4, 0x18)
		if cpu.PC != 0x18D4 {
			t.Errorf("expected PC to be 0x18D4, got 0x%04X", cpu.PC)
		}
	})
	// 0xCA - JZ a16, not taken still consumes the operand
	testInstruction(t, "JZ a16", 0xCA, func(t *testing.T, instr Instruction) {
		cpu.clearFlag(FlagZero)
		cycles := execute(0xCA, 0x00, 0x20)
		if cpu.PC != 0x1003 {
			t.Errorf("expected PC to be 0x1003, got 0x%04X", cpu.PC)
		}
		if cycles != 10 {
			t.Errorf("expected 10 cycles, got %d", cycles)
		}
		cpu.PC = 0x1000
		cpu.setFlag(FlagZero)
		cycles = execute(0xCA, 0x00, 0x20)
		if cpu.PC != 0x2000 || cycles != 10 {
			t.Errorf("expected jump to 0x2000 in 10 cycles, got 0x%04X in %d", cpu.PC, cycles)
		}
	})
	// 0xFA - JM a16
	testInstruction(t, "JM a16", 0xFA, func(t *testing.T, instr Instruction) {
		cpu.setFlag(FlagSign)
		execute(0xFA, 0x34, 0x12)
		if cpu.PC != 0x1234 {
			t.Errorf("expected PC to be 0x1234, got 0x%04X", cpu.PC)
		}
	})
	// 0xE9 - PCHL
	testInstruction(t, "PCHL", 0xE9, func(t *testing.T, instr Instruction) {
		cpu.HL.SetUint16(0x413E)
		execute(0xE9)
		if cpu.PC != 0x413E {
			t.Errorf("expected PC to be 0x413E, got 0x%04X", cpu.PC)
		}
	})
}

func TestInstruction_Aliases(t *testing.T) {
	// 0xCB - JMP
	testInstruction(t, "*JMP a16", 0xCB, func(t *testing.T, instr Instruction) {
		execute(0xCB, 0x00, 0x30)
		if cpu.PC != 0x3000 {
			t.Errorf("expected PC to be 0x3000, got 0x%04X", cpu.PC)
		}
	})
	// 0xDD, 0xED, 0xFD - CALL
	for _, opcode := range []uint8{0xDD, 0xED, 0xFD} {
		testInstruction(t, "*CALL a16", opcode, func(t *testing.T, instr Instruction) {
			cpu.SP = 0x2400
			cycles := execute(opcode, 0x00, 0x30)
			if cpu.PC != 0x3000 || cpu.SP != 0x23FE || cycles != 17 {
				t.Errorf("expected CALL 0x3000, got PC=0x%04X SP=0x%04X cycles=%d", cpu.PC, cpu.SP, cycles)
			}
			// 0xD9 - RET
			execute(0xD9)
			if cpu.PC != 0x1003 || cpu.SP != 0x2400 {
				t.Errorf("expected RET to 0x1003, got PC=0x%04X SP=0x%04X", cpu.PC, cpu.SP)
			}
		})
	}
}

func TestInstruction_Restart(t *testing.T) {
	for i := uint8(0); i < 8; i++ {
		opcode := 0xC7 + i*8
		vector := uint16(i) * 8
		testInstruction(t, InstructionSet[opcode].Name(), opcode, func(t *testing.T, instr Instruction) {
			cpu.SP = 0x2400
			cycles := execute(opcode)
			if cpu.PC != vector {
				t.Errorf("expected PC to be 0x%04X, got 0x%04X", vector, cpu.PC)
			}
			if cpu.mmu.Read16(cpu.SP) != 0x1001 {
				t.Errorf("expected return address 0x1001 on the stack, got 0x%04X", cpu.mmu.Read16(cpu.SP))
			}
			if cycles != 11 {
				t.Errorf("expected 11 cycles, got %d", cycles)
			}
		})
	}
}

func TestInstruction_Stack(t *testing.T) {
	// 0xF5 - PUSH PSW, 0xF1 - POP PSW
	testInstruction(t, "PUSH PSW/POP PSW", 0xF5, func(t *testing.T, instr Instruction) {
		for a := 0; a < 256; a++ {
			for f := 0; f < 256; f++ {
				cpu.PC, cpu.SP = 0x1000, 0x2400
				cpu.A, cpu.F = uint8(a), normaliseFlags(uint8(f))
				execute(0xF5)
				cpu.A, cpu.F = 0, 0x02
				execute(0xF1)
				if cpu.A != uint8(a) || cpu.F != normaliseFlags(uint8(f)) || cpu.SP != 0x2400 {
					t.Fatalf("A=%02X F=%02X: got A=%02X F=%02X SP=%04X", a, f, cpu.A, cpu.F, cpu.SP)
				}
			}
		}
	})
	// POP PSW normalises the undefined flag bits
	testInstruction(t, "POP PSW", 0xF1, func(t *testing.T, instr Instruction) {
		cpu.SP = 0x2300
		cpu.mmu.Write16(0x2300, 0x12FF)
		execute(0xF1)
		if cpu.A != 0x12 || cpu.F != 0xD7 {
			t.Errorf("expected A=0x12 F=0xD7, got A=0x%02X F=0x%02X", cpu.A, cpu.F)
		}
	})
	// 0xC5 - PUSH B
	testInstruction(t, "PUSH B", 0xC5, func(t *testing.T, instr Instruction) {
		cpu.SP = 0x3A2C
		cpu.BC.SetUint16(0x8F9D)
		execute(0xC5)
		if cpu.mmu.Read(0x3A2B) != 0x8F || cpu.mmu.Read(0x3A2A) != 0x9D || cpu.SP != 0x3A2A {
			t.Errorf("expected B at SP-1 and C at SP-2")
		}
		execute(0xE1) // POP H
		if cpu.HL.Uint16() != 0x8F9D {
			t.Errorf("expected HL to be 0x8F9D, got 0x%04X", cpu.HL.Uint16())
		}
	})
	// 0xE3 - XTHL
	testInstruction(t, "XTHL", 0xE3, func(t *testing.T, instr Instruction) {
		cpu.SP = 0x10AD
		cpu.HL.SetUint16(0x0B3C)
		cpu.mmu.Write(0x10AD, 0xF0)
		cpu.mmu.Write(0x10AE, 0x0D)
		cycles := execute(0xE3)
		if cpu.HL.Uint16() != 0x0DF0 || cpu.mmu.Read(0x10AD) != 0x3C || cpu.mmu.Read(0x10AE) != 0x0B {
			t.Errorf("expected HL and top of stack to be exchanged")
		}
		if cycles != 18 {
			t.Errorf("expected 18 cycles, got %d", cycles)
		}
	})
	// 0xF9 - SPHL
	testInstruction(t, "SPHL", 0xF9, func(t *testing.T, instr Instruction) {
		cpu.HL.SetUint16(0x506C)
		execute(0xF9)
		if cpu.SP != 0x506C {
			t.Errorf("expected SP to be 0x506C, got 0x%04X", cpu.SP)
		}
	})
}
