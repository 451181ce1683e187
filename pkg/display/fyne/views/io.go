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
	"github.com/thelolagemann/go-invaders/internal/types"
	"github.com/thelolagemann/go-invaders/pkg/display/event"
)

// portBits names the bits of the input ports, from bit 0 up. Empty
// names are not shown.
var portBits = [3][8]string{
	{"", "", "", "", "P1 shoot", "P1 left", "P1 right", ""},
	{"Coin", "P2 start", "P1 start", "", "P1 shoot", "P1 left", "P1 right", ""},
	{"Lives 0", "Lives 1", "Tilt", "Bonus 1000", "P2 shoot", "P2 left", "P2 right", "Hide coin info"},
}

// IO shows the cabinet's input ports, the shift register and the
// sound latches.
type IO struct {
	Inspector

	ports  [3][8]*staticCheckbox
	values [3]*widget.Label
	sounds [io.SoundCount]*staticCheckbox

	shift    *widget.Label
	watchdog *widget.Label
}

// NewIO returns an IO view of i.
func NewIO(i Inspector) *IO {
	return &IO{Inspector: i}
}

func (v *IO) Title() string {
	return "I/O"
}

func (v *IO) Run(window fyne.Window, events <-chan event.Event) error {
	portCards := container.NewVBox()
	for port, names := range portBits {
		v.values[port] = widget.NewLabel("00")
		v.values[port].TextStyle.Monospace = true

		bits := container.NewGridWithColumns(2)
		for bit, name := range names {
			if name == "" {
				continue
			}
			v.ports[port][bit] = newStaticCheckbox(name, false)
			bits.Add(v.ports[port][bit])
		}
		portCards.Add(newCard(fmt.Sprintf("IN %d", port), container.NewVBox(v.values[port], bits)))
	}

	soundBox := container.NewGridWithColumns(2)
	for s := io.Sound(0); s < io.SoundCount; s++ {
		v.sounds[s] = newStaticCheckbox(s.String(), false)
		soundBox.Add(v.sounds[s])
	}

	v.shift = widget.NewLabel("")
	v.shift.TextStyle.Monospace = true
	v.watchdog = widget.NewLabel("")

	var portMap string
	v.Inspect(func(_ *cpu.CPU, _ *mmu.MMU, c *io.Controller) {
		portMap = describePorts(c.Ports())
	})
	mapLabel := widget.NewLabel(portMap)
	mapLabel.TextStyle.Monospace = true

	window.SetContent(container.NewHBox(
		portCards,
		container.NewVBox(
			newCard("Shift register", v.shift),
			newCard("Sound latches", soundBox),
			newCard("Watchdog", v.watchdog),
			newCard("Port map", mapLabel),
		),
	))

	go poll(events, v.refresh, nil)
	return nil
}

func (v *IO) refresh() {
	var (
		ports          [3]uint8
		value          uint16
		offset, result uint8
		sound1, sound2 uint8
		watchdog       uint64
	)
	v.Inspect(func(_ *cpu.CPU, _ *mmu.MMU, c *io.Controller) {
		for p := range ports {
			ports[p], _ = c.Ports().Read(uint8(p))
		}
		value, offset, result = c.Shift.Value(), c.Shift.Offset(), c.Shift.Result()
		sound1, sound2 = c.SoundLatches()
		watchdog = c.WatchdogResets()
	})

	for p, b := range ports {
		v.values[p].SetText(fmt.Sprintf("%02X (%08b)", b, b))
		for bit, cb := range v.ports[p] {
			if cb != nil {
				cb.set(b&(1<<bit) != 0)
			}
		}
	}

	latches := uint16(sound2)<<5 | uint16(sound1&0x1F)
	for s, cb := range v.sounds {
		cb.set(latches&(1<<s) != 0)
	}

	v.shift.SetText(fmt.Sprintf("value  %04X\noffset %d\nresult %02X", value, offset, result))
	v.watchdog.SetText(fmt.Sprintf("%d resets", watchdog))
}

// describePorts lists the mapped ports, one per line, marked R and/or W.
func describePorts(ports *types.Ports) string {
	var b strings.Builder
	for _, p := range ports {
		if p == nil {
			continue
		}
		access := [2]byte{'-', '-'}
		if p.Readable() {
			access[0] = 'R'
		}
		if p.Writable() {
			access[1] = 'W'
		}
		fmt.Fprintf(&b, "%d %s\n", p.Number(), access[:])
	}
	return strings.TrimSuffix(b.String(), "\n")
}
