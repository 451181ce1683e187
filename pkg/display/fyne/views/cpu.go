package views

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/thelolagemann/go-invaders/internal/cpu"
	"github.com/thelolagemann/go-invaders/internal/io"
	"github.com/thelolagemann/go-invaders/internal/mmu"
	"github.com/thelolagemann/go-invaders/pkg/display/event"
)

// disassemblyLines is the number of instructions shown from PC.
const disassemblyLines = 12

// CPU shows the registers, flags and upcoming instructions.
type CPU struct {
	Inspector

	regs        map[string]*widget.Label
	flags       map[string]*staticCheckbox
	disassembly *widget.Label
}

// NewCPU returns a CPU view of i.
func NewCPU(i Inspector) *CPU {
	return &CPU{Inspector: i}
}

func (c *CPU) Title() string {
	return "CPU"
}

func (c *CPU) Run(window fyne.Window, events <-chan event.Event) error {
	c.regs = make(map[string]*widget.Label)
	regGrid := container.NewGridWithColumns(2)
	for _, name := range []string{"A", "B", "C", "D", "E", "H", "L", "BC", "DE", "HL", "PC", "SP", "Cycles", "Instructions"} {
		value := widget.NewLabel("-")
		value.TextStyle.Monospace = true
		c.regs[name] = value
		regGrid.Add(bold(name))
		regGrid.Add(value)
	}

	c.flags = make(map[string]*staticCheckbox)
	flagBox := container.NewHBox()
	for _, name := range []string{"S", "Z", "AC", "P", "CY", "IME", "HLT"} {
		cb := newStaticCheckbox(name, false)
		c.flags[name] = cb
		flagBox.Add(cb)
	}

	c.disassembly = widget.NewLabel("")
	c.disassembly.TextStyle.Monospace = true

	window.SetContent(container.NewHBox(
		container.NewVBox(newCard("Registers", regGrid), newCard("Flags", flagBox)),
		newCard("Disassembly", c.disassembly),
	))

	go poll(events, c.refresh, nil)
	return nil
}

// refresh copies the CPU state while the machine is locked, then
// updates the widgets.
func (c *CPU) refresh() {
	var (
		values map[string]string
		flags  cpu.Flags
		ime    bool
		halted bool
		lines  strings.Builder
	)
	c.Inspect(func(cp *cpu.CPU, _ *mmu.MMU, _ *io.Controller) {
		values = map[string]string{
			"A":            fmt.Sprintf("0x%02X", cp.A),
			"B":            fmt.Sprintf("0x%02X", cp.B),
			"C":            fmt.Sprintf("0x%02X", cp.C),
			"D":            fmt.Sprintf("0x%02X", cp.D),
			"E":            fmt.Sprintf("0x%02X", cp.E),
			"H":            fmt.Sprintf("0x%02X", cp.H),
			"L":            fmt.Sprintf("0x%02X", cp.L),
			"BC":           fmt.Sprintf("0x%04X", cp.BC.Uint16()),
			"DE":           fmt.Sprintf("0x%04X", cp.DE.Uint16()),
			"HL":           fmt.Sprintf("0x%04X", cp.HL.Uint16()),
			"PC":           fmt.Sprintf("0x%04X", cp.PC),
			"SP":           fmt.Sprintf("0x%04X", cp.SP),
			"Cycles":       fmt.Sprintf("%d", cp.Cycles()),
			"Instructions": fmt.Sprintf("%d", cp.Instructions()),
		}
		flags = cp.Flags()
		ime, halted = cp.IRQ.IME, cp.IRQ.Halted

		addr := cp.PC
		for i := 0; i < disassemblyLines; i++ {
			text, next := cp.Disassemble(addr)
			fmt.Fprintf(&lines, "%04X  %s\n", addr, text)
			addr = next
		}
	})

	for name, v := range values {
		c.regs[name].SetText(v)
	}
	c.flags["S"].set(flags.Sign)
	c.flags["Z"].set(flags.Zero)
	c.flags["AC"].set(flags.AuxCarry)
	c.flags["P"].set(flags.Parity)
	c.flags["CY"].set(flags.Carry)
	c.flags["IME"].set(ime)
	c.flags["HLT"].set(halted)
	c.disassembly.SetText(strings.TrimSuffix(lines.String(), "\n"))
}
