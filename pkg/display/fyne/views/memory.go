package views

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/thelolagemann/go-invaders/internal/cpu"
	"github.com/thelolagemann/go-invaders/internal/io"
	"github.com/thelolagemann/go-invaders/internal/mmu"
	"github.com/thelolagemann/go-invaders/internal/types"
	"github.com/thelolagemann/go-invaders/pkg/display/event"
	"github.com/thelolagemann/go-invaders/pkg/utils"
)

// regions are the jump targets offered by the memory view.
var regions = []struct {
	name string
	addr uint16
}{
	{"ROM", types.ROMStart},
	{"Work RAM", types.RAMStart},
	{"Video RAM", types.VRAMStart},
	{"Mirror", types.MirrorStart},
}

// Memory is a hex dump of the address space, refreshed while the
// window is open.
type Memory struct {
	Inspector
	WindowedView

	mu   sync.RWMutex
	data []byte
	list *widget.List
}

// NewMemory returns a Memory view of i.
func NewMemory(i Inspector) *Memory {
	return &Memory{Inspector: i, data: make([]byte, 0x10000)}
}

func (m *Memory) Title() string {
	return "Memory"
}

func (m *Memory) Run(window fyne.Window, events <-chan event.Event) error {
	m.Window = window
	m.snapshot()
	m.list = m.createHexList()

	names := make([]string, len(regions))
	for i, r := range regions {
		names[i] = r.name
	}
	jump := widget.NewSelect(names, func(name string) {
		for _, r := range regions {
			if r.name == name {
				m.list.ScrollTo(widget.ListItemID(r.addr / 16))
			}
		}
	})
	jump.PlaceHolder = "Jump to"

	save := widget.NewButtonWithIcon("Save dump", theme.DocumentSaveIcon(), func() {
		m.mu.RLock()
		b := append([]byte(nil), m.data...)
		m.mu.RUnlock()
		m.saveFile(b, "memory.bin")
	})

	window.SetContent(container.NewBorder(container.NewHBox(jump, save), nil, nil, nil, m.list))
	window.Resize(fyne.NewSize(720, 600))

	go poll(events, func() {
		m.snapshot()
		m.list.Refresh()
	}, nil)
	return nil
}

// snapshot copies the address space while the machine is locked.
func (m *Memory) snapshot() {
	m.Inspect(func(_ *cpu.CPU, mem *mmu.MMU, _ *io.Controller) {
		m.mu.Lock()
		copy(m.data, mem.Bytes())
		m.mu.Unlock()
	})
}

func (m *Memory) createHexList() *widget.List {
	// Number of rows, each row is 16 bytes
	numRows := len(m.data) / 16

	list := widget.NewList(
		func() int {
			return numRows
		},
		func() fyne.CanvasObject {
			// address, 16 hex values and 16 characters
			addressLabel := mono("0000", themeColor(theme.ColorNameForeground))

			hexLabels := make([]fyne.CanvasObject, 16)
			for i := range hexLabels {
				hexLabels[i] = mono("00", themeColor(theme.ColorNameForeground))
			}

			asciiLabels := make([]fyne.CanvasObject, 16)
			for i := range asciiLabels {
				asciiLabels[i] = mono(".", themeColor(theme.ColorNameForeground))
			}

			return container.NewHBox(
				addressLabel,
				mono("  ", themeColor(theme.ColorNameForeground)),
				container.NewHBox(hexLabels...),
				mono("  ", themeColor(theme.ColorNameForeground)),
				container.NewHBox(asciiLabels...),
			)
		},
		func(id widget.ListItemID, item fyne.CanvasObject) {
			m.mu.RLock()
			address, hexValues, asciiValues := formatRow(id*16, m.data)
			m.mu.RUnlock()

			hbox := item.(*fyne.Container)
			hbox.Objects[0].(*canvas.Text).Text = address

			hexContainer := hbox.Objects[2].(*fyne.Container)
			for i, hexText := range hexValues {
				hexLabel := hexContainer.Objects[i].(*canvas.Text)
				hexLabel.Text = hexText
				if hexText == "00" {
					hexLabel.Color = grey
				} else {
					hexLabel.Color = themeColor(theme.ColorNameForeground)
				}
				hexLabel.Refresh()
			}

			asciiContainer := hbox.Objects[4].(*fyne.Container)
			for i, asciiText := range asciiValues {
				asciiLabel := asciiContainer.Objects[i].(*canvas.Text)
				asciiLabel.Text = asciiText
				if asciiText == "." {
					asciiLabel.Color = grey
				} else {
					asciiLabel.Color = themeColor(theme.ColorNameForeground)
				}
				asciiLabel.Refresh()
			}

			hbox.Objects[0].Refresh()
		},
	)
	list.HideSeparators = true

	return list
}

// formatRow formats the 16 bytes of data at offset.
func formatRow(offset int, data []byte) (string, []string, []string) {
	address := fmt.Sprintf("%04X", offset)

	hexValues := make([]string, 16)
	asciiValues := make([]string, 16)
	for i := 0; i < 16 && offset+i < len(data); i++ {
		hexValues[i] = fmt.Sprintf("%02X", data[offset+i])
		asciiValues[i] = utils.FormatASCII(data[offset+i])
	}

	return address, hexValues, asciiValues
}
