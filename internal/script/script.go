// Package script runs Lua automation scripts against the machine.
//
// A script may define a global on_frame(n) function which is called
// after every emulated frame. The following functions are available:
//
//	read(addr)           returns the byte at addr
//	write(addr, value)   writes value to addr
//	reg(name)            returns a register (A, B, C, D, E, H, L, F, BC, DE, HL, SP, PC)
//	press(button)        presses a button, e.g. "coin" or "p1start"
//	release(button)      releases a button
//	log(message)         writes message to the emulator log
package script

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thelolagemann/go-invaders/internal/cpu"
	"github.com/thelolagemann/go-invaders/internal/io"
	"github.com/thelolagemann/go-invaders/pkg/log"
	lua "github.com/yuin/gopher-lua"
)

// ErrNoHandler is returned when a script defines no on_frame function.
var ErrNoHandler = errors.New("script does not define on_frame")

const frameHandler = "on_frame"

// Engine is a loaded script.
type Engine struct {
	L *lua.LState

	cpu   *cpu.CPU
	input *io.InputState
	log   log.Logger

	onFrame *lua.LFunction
}

// Load runs the script in the file at path.
func Load(path string, c *cpu.CPU, input *io.InputState, l log.Logger) (*Engine, error) {
	e := newEngine(c, input, l)
	if err := e.L.DoFile(path); err != nil {
		e.L.Close()
		return nil, fmt.Errorf("loading script %s: %w", path, err)
	}
	return e, e.bind()
}

// LoadString runs the script held in src.
func LoadString(src string, c *cpu.CPU, input *io.InputState, l log.Logger) (*Engine, error) {
	e := newEngine(c, input, l)
	if err := e.L.DoString(src); err != nil {
		e.L.Close()
		return nil, fmt.Errorf("loading script: %w", err)
	}
	return e, e.bind()
}

func newEngine(c *cpu.CPU, input *io.InputState, l log.Logger) *Engine {
	if l == nil {
		l = log.NewNullLogger()
	}
	e := &Engine{
		L:     lua.NewState(),
		cpu:   c,
		input: input,
		log:   l,
	}

	for name, fn := range map[string]lua.LGFunction{
		"read":    e.read,
		"write":   e.write,
		"reg":     e.reg,
		"press":   e.press,
		"release": e.release,
		"log":     e.logMessage,
	} {
		e.L.SetGlobal(name, e.L.NewFunction(fn))
	}

	return e
}

// bind looks up the frame handler once the script has run.
func (e *Engine) bind() error {
	fn, ok := e.L.GetGlobal(frameHandler).(*lua.LFunction)
	if !ok {
		e.L.Close()
		return ErrNoHandler
	}
	e.onFrame = fn
	return nil
}

// OnFrame calls the script's on_frame function.
func (e *Engine) OnFrame(frame uint64) error {
	err := e.L.CallByParam(lua.P{
		Fn:      e.onFrame,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(frame))
	if err != nil {
		return fmt.Errorf("%s(%d): %w", frameHandler, frame, err)
	}
	return nil
}

// Close releases the Lua state.
func (e *Engine) Close() error {
	e.L.Close()
	return nil
}

func (e *Engine) read(L *lua.LState) int {
	addr := L.CheckInt(1)
	L.Push(lua.LNumber(e.cpu.MMU().Read(uint16(addr))))
	return 1
}

func (e *Engine) write(L *lua.LState) int {
	addr := L.CheckInt(1)
	value := L.CheckInt(2)
	e.cpu.MMU().Write(uint16(addr), uint8(value))
	return 0
}

func (e *Engine) reg(L *lua.LState) int {
	name := strings.ToUpper(L.CheckString(1))

	var v uint16
	switch name {
	case "A":
		v = uint16(e.cpu.A)
	case "B":
		v = uint16(e.cpu.B)
	case "C":
		v = uint16(e.cpu.C)
	case "D":
		v = uint16(e.cpu.D)
	case "E":
		v = uint16(e.cpu.E)
	case "H":
		v = uint16(e.cpu.H)
	case "L":
		v = uint16(e.cpu.L)
	case "F":
		v = uint16(e.cpu.F)
	case "BC":
		v = e.cpu.BC.Uint16()
	case "DE":
		v = e.cpu.DE.Uint16()
	case "HL":
		v = e.cpu.HL.Uint16()
	case "SP":
		v = e.cpu.SP
	case "PC":
		v = e.cpu.PC
	default:
		L.ArgError(1, fmt.Sprintf("unknown register %q", name))
		return 0
	}

	L.Push(lua.LNumber(v))
	return 1
}

func (e *Engine) button(L *lua.LState) (io.Button, bool) {
	b, err := io.ParseButton(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0, false
	}
	return b, true
}

func (e *Engine) press(L *lua.LState) int {
	if b, ok := e.button(L); ok {
		e.input.Press(b)
	}
	return 0
}

func (e *Engine) release(L *lua.LState) int {
	if b, ok := e.button(L); ok {
		e.input.Release(b)
	}
	return 0
}

func (e *Engine) logMessage(L *lua.LState) int {
	e.log.Infof("[lua] %s", L.CheckString(1))
	return 0
}
