// Command goinvaders runs the Space Invaders arcade ROM set.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/thelolagemann/go-invaders/internal/invaders"
	"github.com/thelolagemann/go-invaders/internal/io"
	"github.com/thelolagemann/go-invaders/internal/monitor"
	"github.com/thelolagemann/go-invaders/internal/script"
	"github.com/thelolagemann/go-invaders/internal/video/palette"
	"github.com/thelolagemann/go-invaders/pkg/audio"
	"github.com/thelolagemann/go-invaders/pkg/display"
	"github.com/thelolagemann/go-invaders/pkg/display/event"
	"github.com/thelolagemann/go-invaders/pkg/log"
	"github.com/thelolagemann/go-invaders/pkg/utils"
)

var (
	_ display.Emulator   = &invaders.Machine{}
	_ monitor.Target     = &invaders.Machine{}
	_ invaders.FrameHook = &script.Engine{}
)

func main() {
	romFile := flag.String("rom", "", "The ROM set to load: a directory or archive of invaders.e-h, or a single 8K image")
	state := flag.String("state", "", "The state file to load")
	displayDriver := flag.String("driver", "auto", "The display driver to use. Can be auto, "+strings.Join(display.DriverNames(), ", "))
	speed := flag.Float64("speed", 1, "The speed to run the emulator at")
	paletteName := flag.String("palette", palette.Overlay.Name, "The palette to render with. Can be "+paletteNames())
	scriptFile := flag.String("script", "", "A Lua script defining on_frame()")
	audioBackend := flag.String("audio", "oto", "The audio backend. Can be "+strings.Join(audio.Backends(), ", "))
	lives := flag.Uint("lives", uint(io.DefaultDIP.Lives), "Bases per game, 3 to 6")
	bonus := flag.Bool("bonus-1000", false, "Award the extra base at 1000 points instead of 1500")
	hideCoinInfo := flag.Bool("hide-coin-info", false, "Hide the coin information on the demo screen")
	highScore := flag.Bool("save-high-score", true, "Keep the high score in <rom>.sav")
	logLevel := flag.String("log-level", "info", "The log level. Can be debug, info, warn or error")
	debug := flag.Bool("debug", false, "Trace every instruction (requires -log-level debug)")
	mon := flag.Bool("monitor", false, "Run the debugger monitor in the terminal instead of a display driver")

	display.RegisterFlags()
	flag.Parse()

	logger := log.WithLevel(*logLevel)

	if *romFile == "" {
		var err error
		if *romFile, err = utils.AskForFile("Open Space Invaders ROM", "."); err != nil {
			logger.Fatal(fmt.Sprintf("no ROM given: %v", err))
		}
	}
	rom, err := invaders.LoadROMSet(*romFile)
	if err != nil {
		logger.Fatal(err.Error())
	}

	if *lives < 3 || *lives > 6 {
		logger.Fatal(fmt.Sprintf("lives must be between 3 and 6, got %d", *lives))
	}
	p, ok := palette.ByName(*paletteName)
	if !ok {
		logger.Fatal(fmt.Sprintf("unknown palette %q, want one of %s", *paletteName, paletteNames()))
	}

	mixer := audio.NewMixer()
	opts := []invaders.Opt{
		invaders.WithLogger(logger),
		invaders.Speed(*speed),
		invaders.WithPalette(p),
		invaders.WithSoundListener(mixer),
		invaders.WithDIP(io.DIP{Lives: uint8(*lives), ExtraLifeAt1000: *bonus, HideCoinInfo: *hideCoinInfo}),
	}
	if *state != "" {
		b, err := utils.LoadFile(*state)
		if err != nil {
			logger.Fatal(err.Error())
		}
		opts = append(opts, invaders.WithState(b))
	}
	if *highScore {
		opts = append(opts, invaders.WithSaveFile(savePath(*romFile)))
	}
	if *debug {
		opts = append(opts, invaders.Debug())
	}

	m, err := invaders.New(rom, opts...)
	if err != nil {
		logger.Fatal(err.Error())
	}

	if *scriptFile != "" {
		engine, err := script.Load(*scriptFile, m.CPU, m.Input, logger)
		if err != nil {
			logger.Fatal(err.Error())
		}
		m.AttachHook(engine)
	}

	if *mon {
		if err := runMonitor(m); err != nil {
			logger.Fatal(err.Error())
		}
		return
	}

	out, err := audio.Open(*audioBackend, mixer)
	if err != nil {
		logger.Errorf("unable to open audio: %v", err)
	} else {
		defer out.Close()
	}

	driver := display.GetDriver(*displayDriver)
	if driver == nil {
		logger.Fatal(fmt.Sprintf("invalid display driver %q, want one of %s", *displayDriver, strings.Join(display.DriverNames(), ", ")))
	}
	driver.Initialize(m)

	fb := make(chan []byte, 60)
	events := make(chan event.Event, 60)
	pressed := make(chan io.Button, 10)
	released := make(chan io.Button, 10)

	go m.Start(fb, events, pressed, released)

	if err := driver.Start(fb, events, pressed, released); err != nil {
		logger.Errorf("display: %v", err)
	}
	if err := driver.Stop(); err != nil {
		logger.Errorf("stopping display: %v", err)
	}
	if err := m.Close(); err != nil {
		logger.Errorf("%v", err)
	}
}

// runMonitor debugs m from the terminal until the user quits.
func runMonitor(m *invaders.Machine) error {
	mon, restore, err := monitor.NewTerminal(m.CPU, m)
	if err != nil {
		return err
	}
	defer restore()
	defer m.Close()

	return mon.Run(context.Background())
}

// savePath is where the high score of the ROM set at rom is kept.
func savePath(rom string) string {
	return strings.TrimSuffix(rom, string(filepath.Separator)) + ".sav"
}

func paletteNames() string {
	names := make([]string, len(palette.Palettes))
	for i, p := range palette.Palettes {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
}
