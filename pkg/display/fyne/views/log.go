package views

import (
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
	"github.com/thelolagemann/go-invaders/pkg/display/event"
)

// maxLogEntries bounds the number of lines the Log view keeps.
const maxLogEntries = 200

// Log is a log.Logger that keeps the most recent entries for display.
type Log struct {
	mu      sync.RWMutex
	entries []string
	dirty   bool
}

func (l *Log) Title() string {
	return "Log"
}

func (l *Log) add(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, fmt.Sprintf("%s [%s] %s", time.Now().Format("15:04:05"), level, fmt.Sprintf(format, args...)))
	if len(l.entries) > maxLogEntries {
		l.entries = l.entries[len(l.entries)-maxLogEntries:]
	}
	l.dirty = true
}

func (l *Log) Infof(format string, args ...interface{})  { l.add("INFO", format, args...) }
func (l *Log) Errorf(format string, args ...interface{}) { l.add("ERROR", format, args...) }
func (l *Log) Debugf(format string, args ...interface{}) { l.add("DEBUG", format, args...) }
func (l *Log) Warnf(format string, args ...interface{})  { l.add("WARN", format, args...) }

// Fatal records str. The view never exits the process.
func (l *Log) Fatal(str string) { l.add("FATAL", "%s", str) }

// Entries returns a copy of the retained entries, oldest first.
func (l *Log) Entries() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.entries...)
}

func (l *Log) Run(window fyne.Window, events <-chan event.Event) error {
	var shown []string
	list := widget.NewList(
		func() int { return len(shown) },
		func() fyne.CanvasObject {
			return widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Monospace: true})
		},
		func(id widget.ListItemID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(shown[id])
		},
	)
	window.SetContent(list)
	window.Resize(fyne.NewSize(640, 320))

	go poll(events, func() {
		l.mu.Lock()
		if !l.dirty {
			l.mu.Unlock()
			return
		}
		l.dirty = false
		l.mu.Unlock()

		shown = l.Entries()
		list.Refresh()
		list.ScrollToBottom()
	}, nil)
	return nil
}
