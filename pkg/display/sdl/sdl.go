// Package sdl is a display driver using SDL2's accelerated renderer.
package sdl

import (
	"fmt"
	"runtime"
	"time"

	"github.com/thelolagemann/go-invaders/internal/io"
	"github.com/thelolagemann/go-invaders/internal/video"
	"github.com/thelolagemann/go-invaders/pkg/display"
	"github.com/thelolagemann/go-invaders/pkg/display/event"
	"github.com/thelolagemann/go-invaders/pkg/log"
	"github.com/veandco/go-sdl2/sdl"
)

func init() {
	// SDL expects its video calls on the main thread
	runtime.LockOSThread()

	driver := &sdlDriver{}
	display.Install("sdl", driver, []display.DriverOption{
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
		{
			Name:        "vsync",
			Default:     true,
			Value:       &driver.vsync,
			Type:        "bool",
			Description: "Synchronise presentation with the display",
		},
	})
}

var (
	cabinetKeys = map[sdl.Keycode]io.Button{
		sdl.K_c:     io.ButtonCoin,
		sdl.K_1:     io.ButtonP1Start,
		sdl.K_2:     io.ButtonP2Start,
		sdl.K_SPACE: io.ButtonP1Shoot,
		sdl.K_LEFT:  io.ButtonP1Left,
		sdl.K_RIGHT: io.ButtonP1Right,
		sdl.K_w:     io.ButtonP2Shoot,
		sdl.K_a:     io.ButtonP2Left,
		sdl.K_d:     io.ButtonP2Right,
		sdl.K_t:     io.ButtonTilt,
	}

	actionKeys = map[sdl.Keycode]display.Action{
		sdl.K_ESCAPE: display.ActionTogglePause,
		sdl.K_PAUSE:  display.ActionTogglePause,
		sdl.K_p:      display.ActionTogglePause,
		sdl.K_F2:     display.ActionReset,
		sdl.K_v:      display.ActionCyclePalette,
		sdl.K_F12:    display.ActionScreenshot,
		sdl.K_F10:    display.ActionCopyScreenshot,
		sdl.K_F5:     display.ActionQuickSave,
		sdl.K_F9:     display.ActionQuickLoad,
		sdl.K_EQUALS: display.ActionSpeedUp,
		sdl.K_MINUS:  display.ActionSpeedDown,
		sdl.K_q:      display.ActionQuit,
	}
)

type sdlDriver struct {
	fullscreen bool
	scale      float64
	vsync      bool

	emu      display.Emulator
	controls *display.Controls
	log      log.Logger
}

func (s *sdlDriver) Initialize(e display.Emulator) {
	s.emu = e
	s.log = log.New()
	s.controls = display.NewControls(e, s.log)
}

// Start opens the window and presents frames until the window is
// closed or the machine quits.
func (s *sdlDriver) Start(frames <-chan []byte, evts <-chan event.Event, pressed, released chan<- io.Button) error {
	if err := sdl.InitSubSystem(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("sdl: %w", err)
	}

	flags := uint32(sdl.WINDOW_ALLOW_HIGHDPI | sdl.WINDOW_RESIZABLE)
	if s.fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	win, err := sdl.CreateWindow("Space Invaders", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(video.ScreenWidth*s.scale), int32(video.ScreenHeight*s.scale), flags)
	if err != nil {
		return fmt.Errorf("sdl: %w", err)
	}
	defer win.Destroy()

	rendererFlags := uint32(sdl.RENDERER_ACCELERATED)
	if s.vsync {
		rendererFlags |= sdl.RENDERER_PRESENTVSYNC
	}
	ren, err := sdl.CreateRenderer(win, -1, rendererFlags)
	if err != nil {
		return fmt.Errorf("sdl: %w", err)
	}
	defer ren.Destroy()
	if err := ren.SetLogicalSize(video.ScreenWidth, video.ScreenHeight); err != nil {
		return fmt.Errorf("sdl: %w", err)
	}

	tex, err := ren.CreateTexture(uint32(sdl.PIXELFORMAT_RGB24), sdl.TEXTUREACCESS_STREAMING, video.ScreenWidth, video.ScreenHeight)
	if err != nil {
		return fmt.Errorf("sdl: %w", err)
	}
	defer tex.Destroy()

	pollTicker := time.NewTicker(time.Millisecond * 10)
	defer pollTicker.Stop()

	for {
		if quit := s.pollEvents(win, pressed, released); quit {
			s.emu.SendCommand(display.Close)
			return nil
		}

		select {
		case f := <-frames:
			if err := s.draw(tex, f); err != nil {
				return err
			}
			ren.Clear()
			ren.Copy(tex, nil, nil)
			ren.Present()
		case e := <-evts:
			switch e.Type {
			case event.Title:
				win.SetTitle(e.Data.(string))
			case event.Quit:
				return nil
			}
		case <-pollTicker.C:
		}
	}
}

// pollEvents drains the SDL event queue, reporting whether the window
// was closed.
func (s *sdlDriver) pollEvents(win *sdl.Window, pressed, released chan<- io.Button) bool {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch e := e.(type) {
		case *sdl.QuitEvent:
			return true
		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			key := e.Keysym.Sym
			if button, ok := cabinetKeys[key]; ok {
				switch e.Type {
				case sdl.KEYDOWN:
					pressed <- button
				case sdl.KEYUP:
					released <- button
				}
				continue
			}
			if e.Type != sdl.KEYDOWN {
				continue
			}
			if key == sdl.K_F11 {
				s.toggleFullscreen(win)
				continue
			}
			if a, ok := actionKeys[key]; ok {
				if err := s.controls.Perform(a); err != nil {
					s.log.Errorf("%s: %v", a, err)
				}
			}
		}
	}
	return false
}

// draw copies a packed RGB frame into the streaming texture, honouring
// the texture's pitch.
func (s *sdlDriver) draw(tex *sdl.Texture, frame []byte) error {
	pixels, pitch, err := tex.Lock(nil)
	if err != nil {
		return fmt.Errorf("sdl: %w", err)
	}
	defer tex.Unlock()

	const row = video.ScreenWidth * 3
	for y := 0; y < video.ScreenHeight && (y+1)*row <= len(frame); y++ {
		copy(pixels[y*pitch:y*pitch+row], frame[y*row:(y+1)*row])
	}
	return nil
}

func (s *sdlDriver) toggleFullscreen(win *sdl.Window) {
	s.fullscreen = !s.fullscreen
	var flags uint32
	if s.fullscreen {
		flags = sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	if err := win.SetFullscreen(flags); err != nil {
		s.log.Errorf("fullscreen: %v", err)
	}
}

// Stop shuts down SDL.
func (s *sdlDriver) Stop() error {
	sdl.QuitSubSystem(sdl.INIT_VIDEO)
	return nil
}
