// Package monitor is an interactive debugger for the CPU. It reads
// single letter commands from a terminal, in the spirit of the monitor
// ROMs of the era.
package monitor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"

	"github.com/thelolagemann/go-invaders/internal/cpu"
	"golang.org/x/term"
)

// checkEvery is how many instructions run between checks for an
// interrupt from the user.
const checkEvery = 1 << 12

// Target is the machine being debugged.
type Target interface {
	// Step executes one instruction, along with anything the machine
	// does between instructions.
	Step()
	// Reset power cycles the machine.
	Reset()
}

// lineReader reads one command line at a time.
type lineReader interface {
	ReadLine() (string, error)
}

// Monitor holds the debugger state.
type Monitor struct {
	cpu    *cpu.CPU
	target Target
	out    io.Writer
	lines  lineReader

	breaks map[uint16]struct{}
}

// New returns a Monitor for c, stepping it through target, reading
// commands from in and writing to out.
func New(c *cpu.CPU, target Target, in io.Reader, out io.Writer) *Monitor {
	return &Monitor{
		cpu:    c,
		target: target,
		out:    out,
		lines:  &scannerReader{bufio.NewScanner(in)},
		breaks: make(map[uint16]struct{}),
	}
}

// NewTerminal returns a Monitor on the process's terminal, with line
// editing and history. The returned function restores the terminal and
// must be called before exiting.
func NewTerminal(c *cpu.CPU, target Target) (*Monitor, func(), error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return New(c, target, os.Stdin, os.Stdout), func() {}, nil
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, nil, fmt.Errorf("monitor: %w", err)
	}
	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}, "> ")

	m := New(c, target, nil, t)
	m.lines = t
	return m, func() { _ = term.Restore(fd, state) }, nil
}

type scannerReader struct {
	s *bufio.Scanner
}

func (r *scannerReader) ReadLine() (string, error) {
	if !r.s.Scan() {
		if err := r.s.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.s.Text(), nil
}

// AddBreakpoint stops Run when the CPU reaches addr.
func (m *Monitor) AddBreakpoint(addr uint16) {
	m.breaks[addr] = struct{}{}
}

// Breakpoints returns the breakpoints in address order.
func (m *Monitor) Breakpoints() []uint16 {
	addrs := make([]uint16, 0, len(m.breaks))
	for addr := range m.breaks {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}

func (m *Monitor) printf(format string, args ...interface{}) {
	fmt.Fprintf(m.out, format, args...)
}

const help = `(b)reak addr      add a breakpoint
(d)elete addr     remove a breakpoint
(c)lear           clear all breakpoints
(l)ist            list breakpoints
(r)un             run until a breakpoint (ctrl-c to stop)
(s)tep [n]        step n instructions
r(e)set           power cycle the machine
(m)emory lo [hi]  dump memory
s(t)ack           show the top of the stack
(i)nstr [addr] [n] disassemble n instructions
(p)c addr         set the program counter
(q)uit            leave the monitor
`

// Run reads and executes commands until quit, end of input or ctx is
// cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		next, _ := m.cpu.Disassemble(m.cpu.PC)
		m.printf("%s\n%04X  %s\n", m.cpu, m.cpu.PC, next)

		line, err := m.lines.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		quit, err := m.Execute(ctx, line)
		if err != nil {
			m.printf("error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// Execute performs a single command line, reporting whether it asked
// to quit.
func (m *Monitor) Execute(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	args := fields[1:]

	switch strings.ToLower(fields[0]) {
	case "b", "break":
		addr, err := addressArg(args, 0)
		if err != nil {
			return false, err
		}
		m.AddBreakpoint(addr)
	case "d", "delete":
		addr, err := addressArg(args, 0)
		if err != nil {
			return false, err
		}
		delete(m.breaks, addr)
	case "c", "clear":
		m.breaks = make(map[uint16]struct{})
	case "l", "list":
		for _, addr := range m.Breakpoints() {
			m.printf("%04X\n", addr)
		}
	case "r", "run":
		return false, m.run(ctx)
	case "s", "step":
		n := 1
		if len(args) > 0 {
			v, err := strconv.Atoi(args[0])
			if err != nil || v < 1 {
				return false, fmt.Errorf("invalid count %q", args[0])
			}
			n = v
		}
		for i := 0; i < n; i++ {
			m.target.Step()
			if err := m.cpu.Err(); err != nil {
				return false, err
			}
		}
	case "e", "reset":
		m.target.Reset()
	case "m", "memory":
		return false, m.dumpMemory(args)
	case "t", "stack":
		for i := uint16(0); i < 3; i++ {
			addr := m.cpu.SP + i*2
			m.printf("%04X: %04X\n", addr, m.cpu.MMU().Read16(addr))
		}
	case "i", "instr":
		return false, m.disassemble(args)
	case "p", "pc":
		addr, err := addressArg(args, 0)
		if err != nil {
			return false, err
		}
		m.cpu.PC = addr
	case "q", "quit":
		return true, nil
	case "h", "help", "?":
		m.printf("%s", help)
	default:
		return false, fmt.Errorf("unknown command %q, try h", fields[0])
	}
	return false, nil
}

// run steps until a breakpoint, an error or an interrupt from the user.
// The instruction at a breakpoint is not executed.
func (m *Monitor) run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	for i := 0; ; i++ {
		if i%checkEvery == 0 && ctx.Err() != nil {
			m.printf("interrupted\n")
			return nil
		}

		m.target.Step()
		if err := m.cpu.Err(); err != nil {
			return err
		}
		if _, ok := m.breaks[m.cpu.PC]; ok {
			m.printf("breakpoint at %04X\n", m.cpu.PC)
			return nil
		}
	}
}

func (m *Monitor) dumpMemory(args []string) error {
	low, err := addressArg(args, 0)
	if err != nil {
		return err
	}
	high := low + 0x3F
	if high < low {
		high = 0xFFFF
	}
	if len(args) > 1 {
		if high, err = addressArg(args, 1); err != nil {
			return err
		}
	}
	if high < low {
		return fmt.Errorf("%04X is below %04X", high, low)
	}

	mem := m.cpu.MMU()
	for row := uint32(low) &^ 0xF; row <= uint32(high); row += 16 {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%04X:", row)
		for i := uint32(0); i < 16; i++ {
			addr := row + i
			if addr < uint32(low) || addr > uint32(high) {
				sb.WriteString("   ")
				continue
			}
			fmt.Fprintf(&sb, " %02X", mem.Read(uint16(addr)))
		}
		m.printf("%s\n", sb.String())
	}
	return nil
}

func (m *Monitor) disassemble(args []string) error {
	addr := m.cpu.PC
	n := 8
	if len(args) > 0 {
		var err error
		if addr, err = addressArg(args, 0); err != nil {
			return err
		}
	}
	if len(args) > 1 {
		v, err := strconv.Atoi(args[1])
		if err != nil || v < 1 {
			return fmt.Errorf("invalid count %q", args[1])
		}
		n = v
	}

	for i := 0; i < n; i++ {
		text, next := m.cpu.Disassemble(addr)
		marker := " "
		if _, ok := m.breaks[addr]; ok {
			marker = "*"
		}
		m.printf("%s%04X  %s\n", marker, addr, text)
		addr = next
	}
	return nil
}

// addressArg parses args[i] as a hexadecimal address, with or without
// a 0x prefix or h suffix.
func addressArg(args []string, i int) (uint16, error) {
	if i >= len(args) {
		return 0, errors.New("missing address")
	}
	s := strings.ToLower(args[i])
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimSuffix(s, "h")
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q", args[i])
	}
	return uint16(v), nil
}
