// Package web is a display driver that streams frames to browsers over
// websockets. The first client to connect plays; later clients watch
// and take over when it leaves.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/thelolagemann/go-invaders/internal/io"
	"github.com/thelolagemann/go-invaders/pkg/display"
	"github.com/thelolagemann/go-invaders/pkg/display/event"
	"github.com/thelolagemann/go-invaders/pkg/log"
)

func init() {
	driver := &webDriver{}
	display.Install("web", driver, []display.DriverOption{
		{
			Name:        "addr",
			Default:     ":8090",
			Value:       &driver.addr,
			Type:        "string",
			Description: "Address to serve websocket clients on",
		},
	})
}

type webDriver struct {
	addr string

	emu    display.Emulator
	log    log.Logger
	server *http.Server
}

func (w *webDriver) Initialize(e display.Emulator) {
	w.emu = e
	w.log = log.New()
}

// Start serves clients until the machine quits or the server fails.
func (w *webDriver) Start(frames <-chan []byte, events <-chan event.Event, pressed, released chan<- io.Button) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newHub(w.log)
	h.paused = func() bool { return w.emu.Status().IsPaused() }
	h.onInput = func(msg []byte) { w.handleInput(msg, pressed, released) }
	go h.run(ctx)

	w.server = &http.Server{Addr: w.addr, Handler: h}
	errs := make(chan error, 1)
	go func() {
		if err := w.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()
	w.log.Infof("web: serving on %s", w.addr)

	for {
		select {
		case fb := <-frames:
			messages, err := h.player.encode(fb)
			if err != nil {
				w.log.Errorf("web: encoding frame: %v", err)
				continue
			}
			for _, msg := range messages {
				h.queue(msg)
			}
		case e := <-events:
			switch e.Type {
			case event.Quit:
				return nil
			case event.Paused:
				h.queue([]byte{PlayerInfo, PausePlay, boolByte(!e.Data.(bool))})
			case event.Title:
				h.queue(append([]byte{PlayerInfo, Title}, e.Data.(string)...))
			case event.Sound:
				s := e.Data.(event.SoundData)
				h.queue(append([]byte{PlayerInfo, Sound, boolByte(s.Playing)}, s.Name...))
			}
		case err := <-errs:
			w.emu.SendCommand(display.Close)
			return fmt.Errorf("web: %w", err)
		}
	}
}

// handleInput applies an input message from the controlling client.
func (w *webDriver) handleInput(msg []byte, pressed, released chan<- io.Button) {
	if len(msg) < 2 {
		return
	}

	switch msg[0] {
	case InputMessage:
		if len(msg) < 3 || io.Button(msg[1]) > io.ButtonTilt {
			return
		}
		if msg[2] == 0 {
			released <- io.Button(msg[1])
		} else {
			pressed <- io.Button(msg[1])
		}
	case PauseMessage:
		if msg[1] == 0 {
			w.emu.SendCommand(display.Pause)
		} else {
			w.emu.SendCommand(display.Resume)
		}
	}
}

// Stop shuts the server down.
func (w *webDriver) Stop() error {
	if w.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return w.server.Shutdown(ctx)
}
