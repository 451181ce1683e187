package fyne

import (
	"fyne.io/fyne/v2"
	"github.com/thelolagemann/go-invaders/pkg/display/event"
)

// View is a debugging window opened from the Debug menu.
type View interface {
	// Run fills window and starts updating it from events. It must
	// return promptly; the event channel is closed with the window.
	Run(window fyne.Window, events <-chan event.Event) error
	// Title returns a unique title for the view.
	Title() string
}
