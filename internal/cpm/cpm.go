// Package cpm runs CP/M .COM programs, such as the 8080 CPU exercisers,
// on the CPU with just enough of the operating system emulated to let
// them print their results.
package cpm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/thelolagemann/go-invaders/internal/bdos"
	"github.com/thelolagemann/go-invaders/internal/cpu"
	"github.com/thelolagemann/go-invaders/internal/interrupts"
	"github.com/thelolagemann/go-invaders/internal/mmu"
	"github.com/thelolagemann/go-invaders/internal/types"
	"github.com/thelolagemann/go-invaders/pkg/log"
	"github.com/thelolagemann/go-invaders/pkg/utils"
)

const (
	// memoryTop is where BDOS pretends to live. Programs that size their
	// stack from the jump at 0x0005 place it just below.
	memoryTop = 0xF000

	commandTail = 0x0080

	// contextPoll is how many instructions run between checks for
	// cancellation.
	contextPoll = 1 << 16
)

// ErrHalted is returned when a program executes HLT, which no CP/M
// program should do.
var ErrHalted = errors.New("cpu halted")

// Result summarises a completed run.
type Result struct {
	Output       string
	Instructions uint64
	Cycles       uint64
	Elapsed      time.Duration
}

// Machine is a minimal CP/M system.
type Machine struct {
	CPU  *cpu.CPU
	MMU  *mmu.MMU
	BDOS *bdos.BDOS

	out    io.Writer
	in     io.Reader
	log    log.Logger
	limit  uint64
	args   string
	output bytes.Buffer

	booted bool
}

type Opt func(m *Machine)

// WithLogger sets the logger used by the machine.
func WithLogger(l log.Logger) Opt {
	return func(m *Machine) {
		m.log = l
	}
}

// WithOutput copies console output to w as it is produced.
func WithOutput(w io.Writer) Opt {
	return func(m *Machine) {
		m.out = w
	}
}

// WithInput sets the console input.
func WithInput(r io.Reader) Opt {
	return func(m *Machine) {
		m.in = r
	}
}

// WithInstructionLimit stops the run with cpu.ErrRunaway after n
// instructions.
func WithInstructionLimit(n uint64) Opt {
	return func(m *Machine) {
		m.limit = n
	}
}

// WithArgs places args in the command tail at 0x0080.
func WithArgs(args string) Opt {
	return func(m *Machine) {
		m.args = args
	}
}

// Debug traces every instruction through the logger.
func Debug() Opt {
	return func(m *Machine) {
		m.CPU.Debug = true
	}
}

// New returns a Machine with program loaded at 0x0100.
func New(program []byte, opts ...Opt) (*Machine, error) {
	m := &Machine{
		MMU: mmu.NewMMU(),
		log: log.NewNullLogger(),
	}
	m.CPU = cpu.NewCPU(m.MMU, interrupts.NewService(), nil)

	for _, opt := range opts {
		opt(m)
	}
	m.CPU.Log = m.log

	if err := m.MMU.LoadBytes(types.CPMProgramStart, program); err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}
	if len(m.args) > 0x7F {
		return nil, fmt.Errorf("command tail too long: %d bytes", len(m.args))
	}

	var out io.Writer = &m.output
	if m.out != nil {
		out = io.MultiWriter(&m.output, m.out)
	}
	m.BDOS = bdos.New(m.CPU, out, m.in, m.log)
	m.BDOS.Install()

	m.boot()

	return m, nil
}

// Open loads the program at path, which may be inside an archive.
func Open(path string, opts ...Opt) (*Machine, error) {
	program, err := utils.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return New(program, opts...)
}

// boot lays out page zero and points the CPU at the program.
func (m *Machine) boot() {
	// warm boot vector, reaching it ends the run
	m.MMU.Write(0x0000, 0xC3)
	m.MMU.Write16(0x0001, 0x0000)
	m.CPU.SetTrap(0x0000, func(c *cpu.CPU) {
		m.booted = true
	})

	// BDOS entry, serviced by the trap before the jump is taken
	m.MMU.Write(types.BDOSEntry, 0xC3)
	m.MMU.Write16(types.BDOSEntry+1, memoryTop)
	m.MMU.Write(memoryTop, 0xC9)

	m.MMU.Write(commandTail, uint8(len(m.args)))
	for i := 0; i < len(m.args); i++ {
		m.MMU.Write(commandTail+1+uint16(i), m.args[i])
	}

	m.CPU.PC = types.CPMProgramStart
	m.CPU.SP = memoryTop
	m.CPU.SetInstructionLimit(m.limit)
}

// Run executes the program until it warm boots, calls P_TERMCPM, is
// cancelled or fails. The console output produced so far is always
// returned in the Result.
func (m *Machine) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	err := m.run(ctx)

	res := Result{
		Output:       m.output.String(),
		Instructions: m.CPU.Instructions(),
		Cycles:       m.CPU.Cycles(),
		Elapsed:      time.Since(start),
	}
	m.log.Debugf("program finished after %d instructions, %d cycles in %s", res.Instructions, res.Cycles, res.Elapsed)

	return res, err
}

func (m *Machine) run(ctx context.Context) error {
	for i := 0; ; i++ {
		if i%contextPoll == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		m.CPU.Step()

		switch {
		case m.booted:
			return nil
		case m.CPU.Err() != nil:
			return m.CPU.Err()
		case m.BDOS.Err() != nil:
			if errors.Is(m.BDOS.Err(), bdos.ErrExit) {
				return nil
			}
			return m.BDOS.Err()
		case m.CPU.IRQ.Halted:
			return fmt.Errorf("%w at pc=%04x", ErrHalted, m.CPU.PC-1)
		}
	}
}
