package cpu

import (
	"errors"
	"fmt"

	"github.com/thelolagemann/go-invaders/internal/interrupts"
	"github.com/thelolagemann/go-invaders/internal/mmu"
	"github.com/thelolagemann/go-invaders/internal/types"
	"github.com/thelolagemann/go-invaders/pkg/log"
)

const (
	// ClockSpeed is the clock speed of the CPU on the Space Invaders
	// board.
	ClockSpeed = 1996800

	// haltCycles is the time spent by a halted CPU per step.
	haltCycles = 4
)

// ErrRunaway is recorded when the CPU exceeds its instruction limit.
var ErrRunaway = errors.New("instruction limit exceeded")

// IOBus is the interface the CPU uses for the IN and OUT instructions.
type IOBus interface {
	In(port uint8) uint8
	Out(port uint8, value uint8)
}

// TrapFunc is called instead of fetching an instruction when the CPU
// reaches a trapped address.
type TrapFunc func(c *CPU)

type (
	Register     = types.Register
	RegisterPair = types.RegisterPair
	Registers    = types.Registers
)

// CPU represents the Intel 8080. It is responsible for executing instructions.
type CPU struct {
	// PC is the program counter, it points to the next instruction to be executed.
	PC uint16
	// SP is the stack pointer, it points to the top of the stack.
	SP uint16
	// Registers contains the 8-bit registers, as well as the 16-bit register pairs.
	Registers

	mmu *mmu.MMU
	io  IOBus
	IRQ *interrupts.Service

	Debug bool
	Log   log.Logger

	traps map[uint16]TrapFunc

	cycles       uint64
	instructions uint64
	limit        uint64
	err          error

	currentTick uint8
	branched    bool
}

// NewCPU creates a new CPU instance with the given MMU, interrupt
// service and I/O bus. A nil bus reads every port as 0.
func NewCPU(mmu *mmu.MMU, irq *interrupts.Service, bus IOBus) *CPU {
	if bus == nil {
		bus = nopBus{}
	}
	c := &CPU{
		mmu:   mmu,
		io:    bus,
		IRQ:   irq,
		Log:   log.NewNullLogger(),
		traps: make(map[uint16]TrapFunc),
	}
	c.Registers.Wire()
	c.Reset()

	return c
}

// Reset returns the CPU to its power-on state. Traps and the
// instruction limit are kept.
func (c *CPU) Reset() {
	c.A, c.B, c.C, c.D, c.E, c.H, c.L = 0, 0, 0, 0, 0, 0, 0
	c.F = flagFixed
	c.PC = types.ROMStart
	c.SP = types.StackStart
	c.cycles = 0
	c.instructions = 0
	c.err = nil
	c.IRQ.Reset()
}

// registerIndex returns a Register pointer for the given 3-bit register
// field. Index 6 (M) is memory and has no register.
func (c *CPU) registerIndex(index uint8) *Register {
	switch index {
	case 0:
		return &c.B
	case 1:
		return &c.C
	case 2:
		return &c.D
	case 3:
		return &c.E
	case 4:
		return &c.H
	case 5:
		return &c.L
	case 7:
		return &c.A
	}
	panic(fmt.Sprintf("invalid register index: %d", index))
}

// registerNameMap names the 3-bit register fields of an opcode.
var registerNameMap = [8]string{"B", "C", "D", "E", "H", "L", "M", "A"}

// Step executes a single instruction and returns the number of cycles
// it took. A halted CPU does not fetch and reports 4 cycles. Once the
// instruction limit is exceeded Step does nothing and Err reports
// ErrRunaway.
func (c *CPU) Step() uint8 {
	c.currentTick = 0

	if c.err != nil {
		return 0
	}
	if c.IRQ.Halted {
		c.tick(haltCycles)
		return c.currentTick
	}
	if c.limit != 0 && c.instructions >= c.limit {
		c.err = fmt.Errorf("%w: %d instructions, pc=%04x", ErrRunaway, c.instructions, c.PC)
		return 0
	}

	c.instructions++
	if trap, ok := c.traps[c.PC]; ok {
		trap(c)
		return c.currentTick
	}

	c.runInstruction(c.readInstruction())

	return c.currentTick
}

// ExecuteInterrupt delivers an interrupt carrying the given one-byte
// instruction, normally an RST. It is ignored unless interrupts are
// enabled; otherwise the CPU leaves the halted state, disables
// interrupts and executes the instruction as if it had been fetched.
// The number of cycles taken is returned.
func (c *CPU) ExecuteInterrupt(opcode uint8) uint8 {
	if !c.IRQ.Deliverable() {
		return 0
	}
	c.IRQ.Acknowledge()

	c.currentTick = 0
	c.runInstruction(opcode)
	return c.currentTick
}

// readInstruction reads the next instruction from memory.
func (c *CPU) readInstruction() uint8 {
	value := c.mmu.Read(c.PC)
	c.PC++
	return value
}

// readOperand reads the next operand from memory.
func (c *CPU) readOperand() uint8 {
	value := c.mmu.Read(c.PC)
	c.PC++
	return value
}

// readOperand16 reads a little-endian 16-bit operand.
func (c *CPU) readOperand16() uint16 {
	low := c.readOperand()
	high := c.readOperand()
	return uint16(high)<<8 | uint16(low)
}

// readByte reads a byte from memory.
func (c *CPU) readByte(addr uint16) uint8 {
	return c.mmu.Read(addr)
}

// writeByte writes the given value to the given address.
func (c *CPU) writeByte(addr uint16, val uint8) {
	c.mmu.Write(addr, val)
}

func (c *CPU) runInstruction(opcode uint8) {
	instruction := InstructionSet[opcode]

	if c.Debug {
		c.Log.Debugf("%04x %-14s A:%02x F:%02x B:%02x C:%02x D:%02x E:%02x H:%02x L:%02x SP:%04x",
			c.PC-1, instruction.name, c.A, c.F, c.B, c.C, c.D, c.E, c.H, c.L, c.SP)
	}

	c.branched = false
	instruction.fn(c)

	if c.branched && instruction.cyclesTaken != 0 {
		c.tick(instruction.cyclesTaken)
	} else {
		c.tick(instruction.cycles)
	}
}

func (c *CPU) tick(n uint8) {
	c.currentTick += n
	c.cycles += uint64(n)
}

// Cycles returns the number of cycles executed since reset.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// Instructions returns the number of instructions executed since reset.
func (c *CPU) Instructions() uint64 {
	return c.instructions
}

// String summarises the registers and flags, e.g.
//
//	PC:0100 SP:2400 A:00 BC:0000 DE:0000 HL:0000 F:02 [s z a p c] CYC:0
func (c *CPU) String() string {
	f := c.Flags()
	flag := func(set bool, name byte) byte {
		if set {
			return name - 'a' + 'A'
		}
		return name
	}
	return fmt.Sprintf("PC:%04X SP:%04X A:%02X BC:%04X DE:%04X HL:%04X F:%02X [%c %c %c %c %c] CYC:%d",
		c.PC, c.SP, c.A, c.BC.Uint16(), c.DE.Uint16(), c.HL.Uint16(), c.F,
		flag(f.Sign, 's'), flag(f.Zero, 'z'), flag(f.AuxCarry, 'a'), flag(f.Parity, 'p'), flag(f.Carry, 'c'),
		c.cycles)
}

// MMU returns the memory the CPU is attached to.
func (c *CPU) MMU() *mmu.MMU {
	return c.mmu
}

// SetTrap installs fn at addr. Passing a nil fn removes the trap.
func (c *CPU) SetTrap(addr uint16, fn TrapFunc) {
	if fn == nil {
		delete(c.traps, addr)
		return
	}
	c.traps[addr] = fn
}

// SetInstructionLimit bounds the number of instructions Step will
// execute. Zero removes the limit.
func (c *CPU) SetInstructionLimit(n uint64) {
	c.limit = n
}

// Err returns the error that stopped the CPU, if any.
func (c *CPU) Err() error {
	return c.err
}

// Return performs a RET on behalf of a trap, accounting its cycles.
func (c *CPU) Return() {
	c.ret()
	c.tick(InstructionSet[0xC9].cycles)
}

type nopBus struct{}

func (nopBus) In(uint8) uint8 { return 0 }
func (nopBus) Out(uint8, uint8) {}

var _ types.Stater = (*CPU)(nil)

// Load implements the types.Stater interface.
func (c *CPU) Load(s *types.State) {
	c.A = s.Read8()
	c.F = normaliseFlags(s.Read8())
	c.B = s.Read8()
	c.C = s.Read8()
	c.D = s.Read8()
	c.E = s.Read8()
	c.H = s.Read8()
	c.L = s.Read8()
	c.SP = s.Read16()
	c.PC = s.Read16()
	c.cycles = s.Read64()
	c.instructions = s.Read64()
	c.IRQ.Load(s)
}

// Save implements the types.Stater interface.
func (c *CPU) Save(s *types.State) {
	s.Write8(c.A)
	s.Write8(c.F)
	s.Write8(c.B)
	s.Write8(c.C)
	s.Write8(c.D)
	s.Write8(c.E)
	s.Write8(c.H)
	s.Write8(c.L)
	s.Write16(c.SP)
	s.Write16(c.PC)
	s.Write64(c.cycles)
	s.Write64(c.instructions)
	c.IRQ.Save(s)
}
