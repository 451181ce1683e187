// Package ebiten is a display driver built on the ebiten game library.
package ebiten

import (
	"errors"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/thelolagemann/go-invaders/internal/io"
	"github.com/thelolagemann/go-invaders/internal/video"
	"github.com/thelolagemann/go-invaders/pkg/display"
	"github.com/thelolagemann/go-invaders/pkg/display/event"
	"github.com/thelolagemann/go-invaders/pkg/log"
)

func init() {
	driver := &ebitenDriver{}
	display.Install("ebiten", driver, []display.DriverOption{
		{
			Name:        "fullscreen",
			Default:     false,
			Value:       &driver.fullscreen,
			Type:        "bool",
			Description: "Run in fullscreen mode",
		},
		{
			Name:        "scale",
			Default:     3.0,
			Value:       &driver.scale,
			Type:        "float",
			Description: "Scale the window by this factor",
		},
	})
}

var (
	cabinetKeys = map[ebiten.Key]io.Button{
		ebiten.KeyC:          io.ButtonCoin,
		ebiten.KeyDigit1:     io.ButtonP1Start,
		ebiten.KeyDigit2:     io.ButtonP2Start,
		ebiten.KeySpace:      io.ButtonP1Shoot,
		ebiten.KeyArrowLeft:  io.ButtonP1Left,
		ebiten.KeyArrowRight: io.ButtonP1Right,
		ebiten.KeyW:          io.ButtonP2Shoot,
		ebiten.KeyA:          io.ButtonP2Left,
		ebiten.KeyD:          io.ButtonP2Right,
		ebiten.KeyT:          io.ButtonTilt,
	}

	actionKeys = map[ebiten.Key]display.Action{
		ebiten.KeyEscape: display.ActionTogglePause,
		ebiten.KeyPause:  display.ActionTogglePause,
		ebiten.KeyP:      display.ActionTogglePause,
		ebiten.KeyF2:     display.ActionReset,
		ebiten.KeyV:      display.ActionCyclePalette,
		ebiten.KeyF12:    display.ActionScreenshot,
		ebiten.KeyF10:    display.ActionCopyScreenshot,
		ebiten.KeyF5:     display.ActionQuickSave,
		ebiten.KeyF9:     display.ActionQuickLoad,
		ebiten.KeyEqual:  display.ActionSpeedUp,
		ebiten.KeyMinus:  display.ActionSpeedDown,
		ebiten.KeyQ:      display.ActionQuit,
	}
)

// errQuit ends RunGame when the machine closes.
var errQuit = errors.New("quit")

type ebitenDriver struct {
	fullscreen bool
	scale      float64

	emu      display.Emulator
	controls *display.Controls
	log      log.Logger

	frames   <-chan []byte
	events   <-chan event.Event
	pressed  chan<- io.Button
	released chan<- io.Button

	mu     sync.Mutex
	screen *ebiten.Image
	pixels []byte
	dirty  bool
}

func (e *ebitenDriver) Initialize(emu display.Emulator) {
	e.emu = emu
	e.log = log.New()
	e.controls = display.NewControls(emu, e.log)
}

// Start runs the ebiten game loop until the window is closed or the
// machine quits.
func (e *ebitenDriver) Start(frames <-chan []byte, evts <-chan event.Event, pressed, released chan<- io.Button) error {
	e.frames, e.events = frames, evts
	e.pressed, e.released = pressed, released
	e.pixels = make([]byte, video.ScreenWidth*video.ScreenHeight*4)

	ebiten.SetWindowSize(int(video.ScreenWidth*e.scale), int(video.ScreenHeight*e.scale))
	ebiten.SetWindowTitle("Space Invaders")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetFullscreen(e.fullscreen)
	ebiten.SetWindowClosingHandled(true)

	err := ebiten.RunGame(e)
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

// Update implements ebiten.Game. It forwards input and collects the
// newest frame from the machine.
func (e *ebitenDriver) Update() error {
	if ebiten.IsWindowBeingClosed() {
		e.emu.SendCommand(display.Close)
		return errQuit
	}

	for key, button := range cabinetKeys {
		if inpututil.IsKeyJustPressed(key) {
			e.pressed <- button
		}
		if inpututil.IsKeyJustReleased(key) {
			e.released <- button
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		e.fullscreen = !e.fullscreen
		ebiten.SetFullscreen(e.fullscreen)
	}
	for key, a := range actionKeys {
		if inpututil.IsKeyJustPressed(key) {
			if err := e.controls.Perform(a); err != nil {
				e.log.Errorf("%s: %v", a, err)
			}
		}
	}

	for {
		select {
		case f := <-e.frames:
			e.mu.Lock()
			rgbToRGBA(e.pixels, f)
			e.dirty = true
			e.mu.Unlock()
		case ev := <-e.events:
			switch ev.Type {
			case event.Title:
				ebiten.SetWindowTitle(ev.Data.(string))
			case event.Quit:
				return errQuit
			}
		default:
			return nil
		}
	}
}

// Draw implements ebiten.Game.
func (e *ebitenDriver) Draw(screen *ebiten.Image) {
	if e.screen == nil {
		e.screen = ebiten.NewImage(video.ScreenWidth, video.ScreenHeight)
	}

	e.mu.Lock()
	if e.dirty {
		e.screen.WritePixels(e.pixels)
		e.dirty = false
	}
	e.mu.Unlock()

	screen.DrawImage(e.screen, nil)
}

// Layout implements ebiten.Game. The logical screen is always the
// arcade's native resolution and ebiten scales it to the window.
func (e *ebitenDriver) Layout(_, _ int) (int, int) {
	return video.ScreenWidth, video.ScreenHeight
}

// Stop has nothing to release, ebiten tears down its window when
// RunGame returns.
func (e *ebitenDriver) Stop() error {
	return nil
}

// rgbToRGBA expands a packed RGB frame into opaque RGBA pixels.
func rgbToRGBA(dst, src []byte) {
	for i, j := 0, 0; i+2 < len(src) && j+3 < len(dst); i, j = i+3, j+4 {
		dst[j] = src[i]
		dst[j+1] = src[i+1]
		dst[j+2] = src[i+2]
		dst[j+3] = 0xFF
	}
}
