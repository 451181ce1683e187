// Package glfw is a barebones display driver using GLFW and OpenGL.
package glfw

import (
	"fmt"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/thelolagemann/go-invaders/internal/io"
	"github.com/thelolagemann/go-invaders/internal/video"
	"github.com/thelolagemann/go-invaders/pkg/display"
	"github.com/thelolagemann/go-invaders/pkg/display/event"
	"github.com/thelolagemann/go-invaders/pkg/log"
)

const (
	aspectRatio = float32(video.ScreenWidth) / float32(video.ScreenHeight)
)

func init() {
	// GLFW: this is needed to arrange for main to run on main thread
	runtime.LockOSThread()

	// register display driver
	driver := &glfwDriver{}
	display.Install("glfw", driver, []display.DriverOption{
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
			Name:        "maintain-aspect-ratio",
			Default:     true,
			Value:       &driver.maintainAspectRatio,
			Type:        "bool",
			Description: "Force the window to maintain the correct aspect ratio",
		},
	})
}

var (
	cabinetKeys = map[glfw.Key]io.Button{
		glfw.KeyC:     io.ButtonCoin,
		glfw.Key1:     io.ButtonP1Start,
		glfw.Key2:     io.ButtonP2Start,
		glfw.KeySpace: io.ButtonP1Shoot,
		glfw.KeyLeft:  io.ButtonP1Left,
		glfw.KeyRight: io.ButtonP1Right,
		glfw.KeyW:     io.ButtonP2Shoot,
		glfw.KeyA:     io.ButtonP2Left,
		glfw.KeyD:     io.ButtonP2Right,
		glfw.KeyT:     io.ButtonTilt,
	}

	actionKeys = map[glfw.Key]display.Action{
		glfw.KeyEscape: display.ActionTogglePause,
		glfw.KeyPause:  display.ActionTogglePause,
		glfw.KeyP:      display.ActionTogglePause,
		glfw.KeyF2:     display.ActionReset,
		glfw.KeyV:      display.ActionCyclePalette,
		glfw.KeyF12:    display.ActionScreenshot,
		glfw.KeyF10:    display.ActionCopyScreenshot,
		glfw.KeyF5:     display.ActionQuickSave,
		glfw.KeyF9:     display.ActionQuickLoad,
		glfw.KeyEqual:  display.ActionSpeedUp,
		glfw.KeyMinus:  display.ActionSpeedDown,
		glfw.KeyQ:      display.ActionQuit,
	}
)

// glfwDriver implements a barebones display driver using GLFW
// and the OpenGL API.
type glfwDriver struct {
	fullscreen          bool
	scale               float64
	maintainAspectRatio bool

	emu      display.Emulator
	controls *display.Controls
	log      log.Logger
	mon      *glfw.Monitor

	windowSettings struct {
		width      int
		height     int
		xPos, yPos int
	}
}

func (g *glfwDriver) Initialize(e display.Emulator) {
	g.emu = e
	g.log = log.New()
	g.controls = display.NewControls(e, g.log)
}

// Start starts the display driver.
func (g *glfwDriver) Start(frames <-chan []byte, evts <-chan event.Event, pressed, released chan<- io.Button) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw: %w", err)
	}
	g.mon = glfw.GetPrimaryMonitor()

	// create window
	window, err := glfw.CreateWindow(int(video.ScreenWidth*g.scale), int(video.ScreenHeight*g.scale), "Space Invaders", nil, nil)
	if err != nil {
		return err
	}

	if g.maintainAspectRatio {
		window.SetAspectRatio(video.ScreenWidth, video.ScreenHeight)
	}
	// fullscreen
	if g.fullscreen {
		if bestMode := g.getBestMode(); bestMode != nil {
			window.SetMonitor(g.mon, 0, 0, bestMode.Width, bestMode.Height, bestMode.RefreshRate)
		}
	}

	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		return fmt.Errorf("opengl: %w", err)
	}

	// initialize window settings
	g.windowSettings.width, g.windowSettings.height = window.GetSize()
	g.windowSettings.xPos, g.windowSettings.yPos = window.GetPos()

	var texture uint32
	{
		gl.GenTextures(1, &texture)

		gl.BindTexture(gl.TEXTURE_2D, texture)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)

		gl.BindImageTexture(0, texture, 0, false, 0, gl.WRITE_ONLY, gl.RGB8)
	}

	// setup event handling
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		// check to see if the key is mapped to a cabinet control
		if button, ok := cabinetKeys[key]; ok {
			switch action {
			case glfw.Press:
				pressed <- button
			case glfw.Release:
				released <- button
			}
			return
		}

		if action != glfw.Press {
			return
		}
		if key == glfw.KeyF11 {
			g.toggleFullscreen(window)
			return
		}
		if a, ok := actionKeys[key]; ok {
			if err := g.controls.Perform(a); err != nil {
				g.log.Errorf("%s: %v", a, err)
			}
		}
	})

	var fb uint32
	{
		gl.GenFramebuffers(1, &fb)
		gl.BindFramebuffer(gl.FRAMEBUFFER, fb)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, texture, 0)

		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fb)
		gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	}

	// handle resizing
	targetWidth := int32(float64(video.ScreenWidth) * g.scale)
	targetHeight := int32(float64(video.ScreenHeight) * g.scale)
	var offsetX, offsetY int32
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		if float32(w)/float32(h) > aspectRatio {
			targetWidth = int32(float32(h) * aspectRatio)
			targetHeight = int32(h)
		} else {
			targetWidth = int32(w)
			targetHeight = int32(float32(w) / aspectRatio)
		}

		offsetX = (int32(w) - targetWidth) / 2
		offsetY = (int32(h) - targetHeight) / 2
	})

	pollTicker := time.NewTicker(time.Millisecond * 100) // to handle when paused
	defer pollTicker.Stop()

	// draw loop
	for {
		select {
		case f := <-frames:
			glfw.PollEvents()
			if window.ShouldClose() {
				g.emu.SendCommand(display.Close)
				return nil
			}
			gl.Clear(gl.COLOR_BUFFER_BIT)

			gl.BindTexture(gl.TEXTURE_2D, texture)
			gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB8, video.ScreenWidth, video.ScreenHeight, 0, gl.RGB, gl.UNSIGNED_BYTE, gl.Ptr(f))

			// frames are stored top row first, GL reads bottom up
			gl.BlitFramebuffer(0, 0, video.ScreenWidth, video.ScreenHeight, offsetX, offsetY+targetHeight, offsetX+targetWidth, offsetY, gl.COLOR_BUFFER_BIT, gl.NEAREST)

			window.SwapBuffers()
		case e := <-evts:
			switch e.Type {
			case event.Title:
				window.SetTitle(e.Data.(string))
			case event.Quit:
				return nil
			}
		case <-pollTicker.C:
			glfw.PollEvents()
			if window.ShouldClose() {
				g.emu.SendCommand(display.Close)
				return nil
			}
		}
	}
}

func (g *glfwDriver) toggleFullscreen(window *glfw.Window) {
	if g.fullscreen {
		window.SetMonitor(nil, g.windowSettings.xPos, g.windowSettings.yPos, g.windowSettings.width, g.windowSettings.height, 60)
	} else {
		bestMode := g.getBestMode()
		if bestMode == nil {
			return
		}
		// store the current window settings
		g.windowSettings.width, g.windowSettings.height = window.GetSize()
		g.windowSettings.xPos, g.windowSettings.yPos = window.GetPos()

		window.SetMonitor(g.mon, 0, 0, bestMode.Width, bestMode.Height, bestMode.RefreshRate)
	}

	g.fullscreen = !g.fullscreen
}

// Stop stops the display driver.
func (g *glfwDriver) Stop() error {
	glfw.Terminate()

	return nil
}

// getBestMode returns the best video mode for the current monitor
// by choosing the highest resolution that is the closest match to
// the native aspect ratio of the monitor.
func (g *glfwDriver) getBestMode() *glfw.VidMode {
	if g.mon == nil {
		return nil
	}
	sizeX, sizeY := g.mon.GetPhysicalSize()
	if sizeY == 0 {
		return g.mon.GetVideoMode()
	}
	monAspectRatio := float32(sizeX) / float32(sizeY)
	closestMatch := float32(-1)

	var best *glfw.VidMode
	for _, vm := range g.mon.GetVideoModes() {
		// skip modes that aren't 60FPS
		if vm.RefreshRate != 60 {
			continue
		}

		diff := float32(vm.Width)/float32(vm.Height) - monAspectRatio
		if diff < 0 {
			diff = -diff
		}
		if closestMatch >= 0 && diff > closestMatch {
			continue
		}

		closestMatch = diff
		best = vm
	}

	if best == nil {
		return g.mon.GetVideoMode()
	}
	return best
}
