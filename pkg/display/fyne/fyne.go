// Package fyne is a display driver built on the fyne toolkit. Besides
// the game window it offers menus for save states and screenshots,
// and debugging windows showing the state of the machine.
package fyne

import (
	"fmt"
	"image"
	"os"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	dialog2 "github.com/sqweek/dialog"
	"github.com/thelolagemann/go-invaders/internal/io"
	"github.com/thelolagemann/go-invaders/internal/video"
	"github.com/thelolagemann/go-invaders/pkg/display"
	"github.com/thelolagemann/go-invaders/pkg/display/event"
	"github.com/thelolagemann/go-invaders/pkg/display/fyne/themes"
	"github.com/thelolagemann/go-invaders/pkg/display/fyne/views"
	"github.com/thelolagemann/go-invaders/pkg/emulator"
)

func init() {
	driver := &fyneDriver{}
	display.Install("fyne", driver, []display.DriverOption{
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
	cabinetKeys = map[fyne.KeyName]io.Button{
		fyne.KeyC:     io.ButtonCoin,
		fyne.Key1:     io.ButtonP1Start,
		fyne.Key2:     io.ButtonP2Start,
		fyne.KeySpace: io.ButtonP1Shoot,
		fyne.KeyLeft:  io.ButtonP1Left,
		fyne.KeyRight: io.ButtonP1Right,
		fyne.KeyW:     io.ButtonP2Shoot,
		fyne.KeyA:     io.ButtonP2Left,
		fyne.KeyD:     io.ButtonP2Right,
		fyne.KeyT:     io.ButtonTilt,
	}

	actionKeys = map[fyne.KeyName]display.Action{
		fyne.KeyEscape: display.ActionTogglePause,
		fyne.KeyP:      display.ActionTogglePause,
		fyne.KeyF2:     display.ActionReset,
		fyne.KeyV:      display.ActionCyclePalette,
		fyne.KeyF12:    display.ActionScreenshot,
		fyne.KeyF10:    display.ActionCopyScreenshot,
		fyne.KeyF5:     display.ActionQuickSave,
		fyne.KeyF9:     display.ActionQuickLoad,
		fyne.KeyEqual:  display.ActionSpeedUp,
		fyne.KeyMinus:  display.ActionSpeedDown,
		fyne.KeyQ:      display.ActionQuit,
	}

	speeds = []float64{0.25, 0.5, 1, 2, 4}
)

// fyneWindow is an open View and the channel feeding it events.
type fyneWindow struct {
	fyne.Window
	view   View
	events chan event.Event
}

type fyneDriver struct {
	scale float64

	emu      display.Emulator
	controls *display.Controls
	logView  *views.Log

	app    fyne.App
	main   fyne.Window
	image  *image.RGBA
	raster *canvas.Raster
	pause  *fyne.MenuItem

	mu      sync.Mutex
	windows []*fyneWindow
}

func (f *fyneDriver) Initialize(e display.Emulator) {
	f.emu = e
	f.logView = &views.Log{}
	f.controls = display.NewControls(e, f.logView)
}

// Start opens the game window and runs the fyne event loop until the
// window is closed or the machine quits.
func (f *fyneDriver) Start(frames <-chan []byte, events <-chan event.Event, pressed, released chan<- io.Button) error {
	f.app = app.New()
	f.app.Settings().SetTheme(themes.Default{})

	f.main = f.app.NewWindow("Space Invaders")
	f.main.SetMaster()
	f.main.SetPadded(false)
	f.main.Resize(fyne.NewSize(float32(float64(video.ScreenWidth)*f.scale), float32(float64(video.ScreenHeight)*f.scale)))

	f.image = image.NewRGBA(image.Rect(0, 0, video.ScreenWidth, video.ScreenHeight))
	f.raster = canvas.NewRasterFromImage(f.image)
	f.raster.ScaleMode = canvas.ImageScalePixels
	f.raster.SetMinSize(fyne.NewSize(video.ScreenWidth, video.ScreenHeight))
	f.main.SetContent(f.raster)
	f.main.SetMainMenu(f.mainMenu())

	if desk, ok := f.main.Canvas().(desktop.Canvas); ok {
		desk.SetOnKeyDown(func(e *fyne.KeyEvent) {
			if b, ok := cabinetKeys[e.Name]; ok {
				pressed <- b
			}
		})
		desk.SetOnKeyUp(func(e *fyne.KeyEvent) {
			if b, ok := cabinetKeys[e.Name]; ok {
				released <- b
			}
		})
	}
	f.main.Canvas().SetOnTypedKey(func(e *fyne.KeyEvent) {
		if e.Name == fyne.KeyF11 {
			f.main.SetFullScreen(!f.main.FullScreen())
			return
		}
		if a, ok := actionKeys[e.Name]; ok {
			f.perform(a)
		}
	})

	done := make(chan struct{})
	go f.drawFrames(frames, done)
	go f.dispatch(events, done)

	f.main.Show()
	f.app.Run()
	close(done)

	return f.emu.SendCommand(display.Close).Error
}

// Stop closes the debugging windows.
func (f *fyneDriver) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.windows {
		close(w.events)
	}
	f.windows = nil
	return nil
}

func (f *fyneDriver) drawFrames(frames <-chan []byte, done <-chan struct{}) {
	for {
		select {
		case fb := <-frames:
			for i := 0; i < video.ScreenWidth*video.ScreenHeight; i++ {
				f.image.Pix[i*4] = fb[i*3]
				f.image.Pix[i*4+1] = fb[i*3+1]
				f.image.Pix[i*4+2] = fb[i*3+2]
				f.image.Pix[i*4+3] = 255
			}
			f.raster.Refresh()
		case <-done:
			return
		}
	}
}

// dispatch handles the events meant for the game window and forwards
// everything else to the open views.
func (f *fyneDriver) dispatch(events <-chan event.Event, done <-chan struct{}) {
	for {
		var e event.Event
		select {
		case e = <-events:
		case <-done:
			return
		}

		switch e.Type {
		case event.Title:
			f.main.SetTitle(e.Data.(string))
			continue
		case event.Quit:
			f.app.Quit()
			return
		case event.Paused:
			f.pause.Checked = e.Data.(bool)
			f.main.MainMenu().Refresh()
		}

		f.mu.Lock()
		for _, w := range f.windows {
			select {
			case w.events <- e:
			default:
			}
		}
		f.mu.Unlock()
	}
}

func (f *fyneDriver) perform(a display.Action) {
	if err := f.controls.Perform(a); err != nil {
		f.logView.Errorf("%s: %v", a, err)
		dialog.ShowError(err, f.main)
	}
}

func (f *fyneDriver) mainMenu() *fyne.MainMenu {
	inspector, inspectable := f.emu.(views.Inspector)

	f.pause = NewCustomizedMenuItem("Pause", f.controls.TogglePause, WithShortcut(fyne.KeyP))
	f.pause.Checked = f.emu.Status().IsPaused()

	speed := fyne.NewMenuItem("Speed", nil)
	speed.ChildMenu = fyne.NewMenu("")
	for _, s := range speeds {
		s := s
		speed.ChildMenu.Items = append(speed.ChildMenu.Items, fyne.NewMenuItem(fmt.Sprintf("%gx", s), func() {
			if err := f.emu.SendCommand(emulator.SpeedCommand(s)).Error; err != nil {
				dialog.ShowError(err, f.main)
			}
		}))
	}

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Save State...", f.saveState),
		fyne.NewMenuItem("Load State...", f.loadState),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Screenshot...", func() {
			img, err := f.controls.Screenshot()
			if err != nil {
				dialog.ShowError(err, f.main)
				return
			}
			(&views.WindowedView{Window: f.main}).SaveImage(img, "screenshot.png")
		}),
		NewCustomizedMenuItem("Copy Screenshot", func() { f.perform(display.ActionCopyScreenshot) }, WithShortcut(fyne.KeyF10)),
	)

	emuMenu := fyne.NewMenu("Emulation",
		f.pause,
		NewCustomizedMenuItem("Reset", func() { f.perform(display.ActionReset) }, WithShortcut(fyne.KeyF2)),
		speed,
		fyne.NewMenuItemSeparator(),
		NewCustomizedMenuItem("Quick Save", func() { f.perform(display.ActionQuickSave) }, WithShortcut(fyne.KeyF5)),
		NewCustomizedMenuItem("Quick Load", func() { f.perform(display.ActionQuickLoad) }, WithShortcut(fyne.KeyF9)),
	)

	videoMenu := fyne.NewMenu("Video",
		NewCustomizedMenuItem("Cycle Palette", func() { f.perform(display.ActionCyclePalette) }, WithShortcut(fyne.KeyV)),
		NewCustomizedMenuItem("Fullscreen", nil, WithShortcut(fyne.KeyF11), Checked(false, func(b bool) {
			f.main.SetFullScreen(b)
		})),
	)

	debugMenu := fyne.NewMenu("Debug",
		NewCustomizedMenuItem("CPU", func() { f.openWindowIfNotOpen(views.NewCPU(inspector)) }, Gated(inspectable)),
		NewCustomizedMenuItem("Memory", func() { f.openWindowIfNotOpen(views.NewMemory(inspector)) }, Gated(inspectable)),
		NewCustomizedMenuItem("I/O", func() { f.openWindowIfNotOpen(views.NewIO(inspector)) }, Gated(inspectable)),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Performance", func() { f.openWindowIfNotOpen(&views.Performance{}) }),
		fyne.NewMenuItem("Log", func() { f.openWindowIfNotOpen(f.logView) }),
	)

	return fyne.NewMainMenu(fileMenu, emuMenu, videoMenu, debugMenu)
}

func (f *fyneDriver) saveState() {
	filename, err := dialog2.File().Filter("Save states (*.state)", "state").Title("Save State").Save()
	if err != nil {
		if err != dialog2.ErrCancelled {
			dialog.ShowError(err, f.main)
		}
		return
	}

	resp := f.emu.SendCommand(emulator.CommandPacket{Command: emulator.CommandSaveState})
	if resp.Error != nil {
		dialog.ShowError(resp.Error, f.main)
		return
	}
	if err := os.WriteFile(filename, resp.Data, 0644); err != nil {
		dialog.ShowError(err, f.main)
		return
	}
	f.logView.Infof("saved state to %s", filename)
}

func (f *fyneDriver) loadState() {
	filename, err := dialog2.File().Filter("Save states (*.state)", "state").Title("Load State").Load()
	if err != nil {
		if err != dialog2.ErrCancelled {
			dialog.ShowError(err, f.main)
		}
		return
	}

	b, err := os.ReadFile(filename)
	if err != nil {
		dialog.ShowError(err, f.main)
		return
	}
	if err := f.emu.SendCommand(emulator.CommandPacket{Command: emulator.CommandLoadState, Data: b}).Error; err != nil {
		dialog.ShowError(err, f.main)
		return
	}
	f.logView.Infof("loaded state from %s", filename)
}

// openWindowIfNotOpen shows view in a new window, unless a view with
// the same title is already open.
func (f *fyneDriver) openWindowIfNotOpen(view View) {
	f.mu.Lock()
	for _, w := range f.windows {
		if w.view.Title() == view.Title() {
			f.mu.Unlock()
			w.RequestFocus()
			return
		}
	}

	win := &fyneWindow{
		Window: f.app.NewWindow(view.Title()),
		view:   view,
		events: make(chan event.Event, 144),
	}
	f.windows = append(f.windows, win)
	f.mu.Unlock()

	win.SetOnClosed(func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, w := range f.windows {
			if w == win {
				f.windows = append(f.windows[:i], f.windows[i+1:]...)
				close(win.events)
				break
			}
		}
	})

	if err := view.Run(win, win.events); err != nil {
		f.logView.Errorf("%s: %v", view.Title(), err)
		win.Close()
		return
	}
	win.Show()
}
