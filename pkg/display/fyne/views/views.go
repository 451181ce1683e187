// Package views holds the debugging windows of the fyne driver.
package views

import (
	"time"

	"github.com/thelolagemann/go-invaders/internal/cpu"
	"github.com/thelolagemann/go-invaders/internal/io"
	"github.com/thelolagemann/go-invaders/internal/mmu"
	"github.com/thelolagemann/go-invaders/pkg/display/event"
)

// Inspector gives views safe access to a running machine.
type Inspector interface {
	Inspect(fn func(c *cpu.CPU, mem *mmu.MMU, ports *io.Controller))
}

// refreshInterval is how often views poll the machine.
const refreshInterval = time.Second / 10

// poll calls refresh every refreshInterval, and handle for every
// event, until events is closed or carries a Quit.
func poll(events <-chan event.Event, refresh func(), handle func(event.Event)) {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-events:
			if !ok || e.Type == event.Quit {
				return
			}
			if handle != nil {
				handle(e)
			}
		case <-ticker.C:
			if refresh != nil {
				refresh()
			}
		}
	}
}
