package cpm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thelolagemann/go-invaders/internal/types"
)

// assembler builds a program loaded at the CP/M TPA, resolving labels
// once the whole program is known.
type assembler struct {
	code   []byte
	labels map[string]uint16
	fixups map[int]string
}

func newAssembler() *assembler {
	return &assembler{labels: map[string]uint16{}, fixups: map[int]string{}}
}

func (a *assembler) emit(b ...byte) *assembler {
	a.code = append(a.code, b...)
	return a
}

// ref emits opcode followed by the address of label.
func (a *assembler) ref(opcode byte, label string) *assembler {
	a.code = append(a.code, opcode)
	a.fixups[len(a.code)] = label
	a.code = append(a.code, 0, 0)
	return a
}

func (a *assembler) label(name string) *assembler {
	a.labels[name] = types.CPMProgramStart + uint16(len(a.code))
	return a
}

func (a *assembler) assemble(t *testing.T) []byte {
	t.Helper()
	for at, name := range a.fixups {
		addr, ok := a.labels[name]
		require.True(t, ok, "undefined label %s", name)
		a.code[at] = uint8(addr)
		a.code[at+1] = uint8(addr >> 8)
	}
	return a.code
}

const (
	mviA, mviB, mviC  = 0x3E, 0x06, 0x0E
	lxiB, lxiD, lxiH  = 0x01, 0x11, 0x21
	adi, sui, cpi     = 0xC6, 0xD6, 0xFE
	pushPSW, popPSW   = 0xF5, 0xF1
	pushB, popB, popH = 0xC5, 0xC1, 0xE1
	jmp, jnz, jz      = 0xC3, 0xC2, 0xCA
	jnc, jpo, jpe     = 0xD2, 0xE2, 0xEA
	call, ret         = 0xCD, 0xC9
)

// flagCheck asserts that the flags pushed by PUSH PSW equal want,
// clobbering A and HL.
func (a *assembler) flagCheck(want byte) *assembler {
	return a.emit(pushPSW, popH, 0x7D, cpi, want).ref(jnz, "fail") // MOV A,L
}

// conformanceProgram exercises the flag rules an 8080 exerciser
// checks, printing CPU IS OPERATIONAL only when every check passes.
func conformanceProgram(t *testing.T) []byte {
	t.Helper()
	a := newAssembler()

	// ADD: 0xFF + 1 sets Z, AC, P and CY
	a.emit(mviA, 0xFF, adi, 0x01).flagCheck(0x57)
	// SUB: 0 - 1 borrows, AC clear because bit 3 borrowed
	a.emit(mviA, 0x00, sui, 0x01).flagCheck(0x87)
	// ANA sets AC from bit 3 of the operands
	a.emit(mviA, 0x08, mviB, 0x00, 0xA0).flagCheck(0x56) // ANA B
	// XRA clears AC and CY
	a.emit(0x37, 0xAF).flagCheck(0x46) // STC; XRA A

	// DAA
	a.emit(mviA, 0x09, adi, 0x01, 0x27, cpi, 0x10).ref(jnz, "fail")
	a.emit(mviA, 0x99, adi, 0x01, 0x27).ref(jnc, "fail")
	a.emit(0xB7).ref(jnz, "fail") // ORA A

	// DAD changes only CY
	a.emit(0xAF, lxiH, 0xFF, 0xFF, lxiD, 0x01, 0x00, 0x19) // XRA A; DAD D
	a.ref(jnc, "fail").ref(jnz, "fail")
	a.emit(0x7C, 0xB5).ref(jnz, "fail") // MOV A,H; ORA L

	// INR leaves CY alone
	a.emit(0x37, mviA, 0xFF, 0x3C).ref(jnc, "fail").ref(jnz, "fail") // STC; INR A

	// rotates
	a.emit(mviA, 0x81, 0x07).ref(jnc, "fail") // RLC
	a.emit(cpi, 0x03).ref(jnz, "fail")
	a.emit(mviA, 0x01, 0x37, 0x1F).ref(jnc, "fail") // STC; RAR
	a.emit(cpi, 0x80).ref(jnz, "fail")

	// CMP borrows without changing A
	a.emit(mviA, 0x05, mviB, 0x06, 0xB8).ref(jnc, "fail").ref(jz, "fail") // CMP B
	a.emit(cpi, 0x05).ref(jnz, "fail")

	// parity
	a.emit(mviA, 0x01, 0xB7).ref(jpe, "fail")
	a.emit(mviA, 0x03, 0xB7).ref(jpo, "fail")

	// POP PSW normalises F
	a.emit(lxiB, 0xFF, 0x12, pushB, popPSW, pushPSW, popB)
	a.emit(0x79, cpi, 0xD7).ref(jnz, "fail") // MOV A,C
	a.emit(0x78, cpi, 0x12).ref(jnz, "fail") // MOV A,B

	// CALL then RET restores SP
	a.emit(lxiH, 0x00, 0x00, 0x39, 0xEB) // DAD SP; XCHG
	a.ref(call, "sub")
	a.emit(lxiH, 0x00, 0x00, 0x39) // DAD SP
	a.emit(0x7C, 0xBA).ref(jnz, "fail") // MOV A,H; CMP D
	a.emit(0x7D, 0xBB).ref(jnz, "fail") // MOV A,L; CMP E

	a.emit(mviC, 9).ref(lxiD, "ok").emit(call, 0x05, 0x00, jmp, 0x00, 0x00)
	a.label("fail").emit(mviC, 9).ref(lxiD, "bad").emit(call, 0x05, 0x00, jmp, 0x00, 0x00)
	a.label("sub").emit(ret)
	a.label("ok").emit([]byte("CPU IS OPERATIONAL$")...)
	a.label("bad").emit([]byte("CPU HAS FAILED$")...)

	return a.assemble(t)
}

func TestConformance(t *testing.T) {
	m, err := New(conformanceProgram(t))
	require.NoError(t, err)

	res, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CPU IS OPERATIONAL", res.Output)
}

func TestConformance_ReportsFailure(t *testing.T) {
	program := conformanceProgram(t)
	// the first flag check's CPI operand: expect Z clear after 0xFF + 1
	program[8] = 0x17

	m, err := New(program)
	require.NoError(t, err)

	res, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CPU HAS FAILED", res.Output)
}
