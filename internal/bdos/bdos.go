// Package bdos emulates the console subset of the CP/M BDOS that CPU
// diagnostic programs rely on. It traps the CPU at the BDOS entry
// point, performs the requested function in Go, and returns to the
// caller as if the call had been serviced by CP/M.
package bdos

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/thelolagemann/go-invaders/internal/cpu"
	"github.com/thelolagemann/go-invaders/internal/types"
	"github.com/thelolagemann/go-invaders/pkg/log"
)

// ErrExit is recorded when the program calls P_TERMCPM.
var ErrExit = errors.New("program exited")

// HandlerFunc implements a single BDOS function.
type HandlerFunc func(b *BDOS) error

// Handler describes a BDOS function we implement.
type Handler struct {
	// Desc is the CP/M name of the function.
	Desc string
	// Handler performs the function.
	Handler HandlerFunc
}

// BDOS services BDOS calls for a CPU.
type BDOS struct {
	// Functions holds the implemented BDOS functions, keyed by the
	// value of register C.
	Functions map[uint8]Handler

	cpu *cpu.CPU
	out io.Writer
	in  chan byte
	log log.Logger

	user  uint8
	calls uint64
	err   error
}

// New returns a BDOS writing console output to out and reading console
// input from in. in may be nil, in which case the console never has
// input. A non-nil in is drained by a goroutine for the life of the
// program.
func New(c *cpu.CPU, out io.Writer, in io.Reader, l log.Logger) *BDOS {
	if l == nil {
		l = log.NewNullLogger()
	}
	b := &BDOS{
		cpu: c,
		out: out,
		log: l,
	}
	if in != nil {
		b.in = make(chan byte, 256)
		go b.pump(bufio.NewReader(in))
	}

	b.Functions = map[uint8]Handler{
		0:  {Desc: "P_TERMCPM", Handler: termCPM},
		1:  {Desc: "C_READ", Handler: consoleRead},
		2:  {Desc: "C_WRITE", Handler: consoleWrite},
		6:  {Desc: "C_RAWIO", Handler: rawIO},
		9:  {Desc: "C_WRITESTRING", Handler: writeString},
		10: {Desc: "C_READSTRING", Handler: readString},
		11: {Desc: "C_STAT", Handler: consoleStatus},
		12: {Desc: "S_BDOSVER", Handler: version},
		25: {Desc: "DRV_GET", Handler: currentDrive},
		32: {Desc: "F_USERNUM", Handler: userNumber},
	}

	return b
}

// Install traps the BDOS entry point of the CPU.
func (b *BDOS) Install() {
	b.cpu.SetTrap(types.BDOSEntry, b.trap)
}

// Err returns the error recorded by the last failing call, or ErrExit
// once the program has terminated.
func (b *BDOS) Err() error {
	return b.err
}

// Calls returns the number of BDOS calls serviced.
func (b *BDOS) Calls() uint64 {
	return b.calls
}

func (b *BDOS) trap(c *cpu.CPU) {
	b.calls++
	function := c.C

	handler, ok := b.Functions[function]
	if !ok {
		b.log.Warnf("unimplemented bdos function %d (0x%02X) at pc=%04x", function, function, c.MMU().Read16(c.SP)-3)
	} else {
		b.log.Debugf("bdos %s (%d)", handler.Desc, function)
		if err := handler.Handler(b); err != nil {
			if !errors.Is(err, ErrExit) {
				err = fmt.Errorf("bdos %s: %w", handler.Desc, err)
			}
			b.err = err
		}
	}

	c.Return()
}

// setResult stores a one byte result in A and L, as CP/M does.
func (b *BDOS) setResult(v uint8) {
	b.cpu.A = v
	b.cpu.L = v
	b.cpu.H = 0
	b.cpu.B = 0
}

func (b *BDOS) write(p ...byte) error {
	_, err := b.out.Write(p)
	return err
}

// pump feeds console input to the BDOS so that status polls never
// block on the reader.
func (b *BDOS) pump(r *bufio.Reader) {
	defer close(b.in)
	for {
		c, err := r.ReadByte()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				b.log.Errorf("console input: %v", err)
			}
			return
		}
		b.in <- c
	}
}

func (b *BDOS) inputReady() bool {
	return b.in != nil && len(b.in) > 0
}

func (b *BDOS) readByte() (byte, error) {
	if b.in == nil {
		return 0, io.EOF
	}
	c, ok := <-b.in
	if !ok {
		return 0, io.EOF
	}
	return c, nil
}

func termCPM(b *BDOS) error {
	return ErrExit
}

// consoleRead waits for a character, echoes it and returns it in A.
func consoleRead(b *BDOS) error {
	c, err := b.readByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			b.setResult(0x1A) // ^Z
			return nil
		}
		return err
	}
	b.setResult(c)
	return b.write(c)
}

// consoleWrite prints the character in E.
func consoleWrite(b *BDOS) error {
	return b.write(b.cpu.E)
}

// rawIO prints E, or when E is 0xFF returns the next character without
// waiting (0 if there is none).
func rawIO(b *BDOS) error {
	if b.cpu.E != 0xFF {
		return b.write(b.cpu.E)
	}
	if !b.inputReady() {
		b.setResult(0)
		return nil
	}
	c, err := b.readByte()
	if err != nil {
		return err
	}
	b.setResult(c)
	return nil
}

// writeString prints the '$' terminated string at DE.
func writeString(b *BDOS) error {
	m := b.cpu.MMU()
	addr := b.cpu.DE.Uint16()

	var buf []byte
	for i := 0; i < 0x10000; i++ {
		c := m.Read(addr)
		if c == '$' {
			break
		}
		buf = append(buf, c)
		addr++
	}
	return b.write(buf...)
}

// readString reads a line into the buffer at DE. The first byte of the
// buffer holds its capacity, the second receives the length read.
func readString(b *BDOS) error {
	m := b.cpu.MMU()
	addr := b.cpu.DE.Uint16()
	capacity := m.Read(addr)

	var n uint8
	for n < capacity {
		c, err := b.readByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if c == '\n' || c == '\r' {
			break
		}
		m.Write(addr+2+uint16(n), c)
		n++
	}
	m.Write(addr+1, n)
	return nil
}

// consoleStatus returns 0xFF in A if a character is waiting.
func consoleStatus(b *BDOS) error {
	if b.inputReady() {
		b.setResult(0xFF)
	} else {
		b.setResult(0)
	}
	return nil
}

// version reports CP/M 2.2.
func version(b *BDOS) error {
	b.setResult(0x22)
	return nil
}

// currentDrive reports drive A.
func currentDrive(b *BDOS) error {
	b.setResult(0)
	return nil
}

// userNumber gets (E = 0xFF) or sets the current user number.
func userNumber(b *BDOS) error {
	if b.cpu.E == 0xFF {
		b.setResult(b.user)
		return nil
	}
	b.user = b.cpu.E & 0x0F
	return nil
}
