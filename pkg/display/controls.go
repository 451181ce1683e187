package display

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/thelolagemann/go-invaders/internal/video"
	"github.com/thelolagemann/go-invaders/pkg/emulator"
	"github.com/thelolagemann/go-invaders/pkg/log"
	"github.com/thelolagemann/go-invaders/pkg/utils"
)

// Action is a driver level control that is not one of the cabinet's
// buttons.
type Action int

const (
	ActionTogglePause Action = iota
	ActionReset
	ActionCyclePalette
	ActionScreenshot
	ActionCopyScreenshot
	ActionQuickSave
	ActionQuickLoad
	ActionSpeedUp
	ActionSpeedDown
	ActionQuit
)

var actionNames = map[Action]string{
	ActionTogglePause:    "toggle pause",
	ActionReset:          "reset",
	ActionCyclePalette:   "cycle palette",
	ActionScreenshot:     "screenshot",
	ActionCopyScreenshot: "copy screenshot",
	ActionQuickSave:      "quick save",
	ActionQuickLoad:      "quick load",
	ActionSpeedUp:        "speed up",
	ActionSpeedDown:      "speed down",
	ActionQuit:           "quit",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// speeds are the multipliers stepped through by ActionSpeedUp and
// ActionSpeedDown.
var speeds = []float64{0.25, 0.5, 1, 2, 4}

// ErrNoQuickSave is returned by ActionQuickLoad before anything has
// been quick saved.
var ErrNoQuickSave = errors.New("no quick save")

// Controls performs Actions on an Emulator. Drivers share it so the
// same keys behave the same way whichever driver is in use.
type Controls struct {
	emu   Emulator
	log   log.Logger
	quick []byte

	// ScreenshotScale is the integer scale applied to screenshots.
	ScreenshotScale int
	// ScreenshotDir is where screenshots are saved.
	ScreenshotDir string

	now func() time.Time
}

// NewControls returns Controls for e. A nil logger discards messages.
func NewControls(e Emulator, l log.Logger) *Controls {
	if l == nil {
		l = log.NewNullLogger()
	}
	return &Controls{
		emu:             e,
		log:             l,
		ScreenshotScale: 2,
		ScreenshotDir:   ".",
		now:             time.Now,
	}
}

// Perform carries out a.
func (c *Controls) Perform(a Action) error {
	switch a {
	case ActionTogglePause:
		c.TogglePause()
	case ActionReset:
		return c.emu.SendCommand(Reset).Error
	case ActionCyclePalette:
		resp := c.emu.SendCommand(CyclePalette)
		if resp.Error != nil {
			return resp.Error
		}
		c.log.Infof("palette: %s", resp.Data)
	case ActionScreenshot:
		img, err := c.Screenshot()
		if err != nil {
			return err
		}
		name := fmt.Sprintf("%s/screenshot-%s.png", c.ScreenshotDir, c.now().Format("20060102-150405"))
		if err := utils.SaveImage(img, name); err != nil {
			return fmt.Errorf("saving screenshot: %w", err)
		}
		c.log.Infof("saved screenshot to %s", name)
	case ActionCopyScreenshot:
		img, err := c.Screenshot()
		if err != nil {
			return err
		}
		if err := utils.CopyImage(img); err != nil {
			return fmt.Errorf("copying screenshot: %w", err)
		}
	case ActionQuickSave:
		resp := c.emu.SendCommand(emulator.CommandPacket{Command: emulator.CommandSaveState})
		if resp.Error != nil {
			return resp.Error
		}
		c.quick = resp.Data
		c.log.Infof("quick saved")
	case ActionQuickLoad:
		if c.quick == nil {
			return ErrNoQuickSave
		}
		return c.emu.SendCommand(emulator.CommandPacket{Command: emulator.CommandLoadState, Data: c.quick}).Error
	case ActionSpeedUp, ActionSpeedDown:
		speed := nextSpeed(c.emu.Speed(), a == ActionSpeedUp)
		if err := c.emu.SendCommand(emulator.SpeedCommand(speed)).Error; err != nil {
			return err
		}
	case ActionQuit:
		return c.emu.SendCommand(Close).Error
	default:
		return fmt.Errorf("unknown action %s", a)
	}
	return nil
}

// TogglePause pauses a running emulator and resumes a paused one.
func (c *Controls) TogglePause() {
	switch status := c.emu.Status(); {
	case status.IsRunning():
		c.emu.SendCommand(Pause)
	case status.IsPaused():
		c.emu.SendCommand(Resume)
	case status.Stopped():
		c.log.Debugf("not toggling pause: machine is %s", status)
	}
}

// Screenshot returns the current frame scaled by ScreenshotScale.
func (c *Controls) Screenshot() (*image.RGBA, error) {
	resp := c.emu.SendCommand(Screenshot)
	if resp.Error != nil {
		return nil, resp.Error
	}
	if len(resp.Data) != video.FrameSize {
		return nil, fmt.Errorf("screenshot: want %d bytes, got %d", video.FrameSize, len(resp.Data))
	}
	img := utils.FrameImage(resp.Data, video.ScreenWidth, video.ScreenHeight)
	return utils.ScaleImage(img, c.ScreenshotScale), nil
}

// nextSpeed returns the speed step above or below current.
func nextSpeed(current float64, up bool) float64 {
	if up {
		for _, s := range speeds {
			if s > current {
				return s
			}
		}
		return speeds[len(speeds)-1]
	}
	for i := len(speeds) - 1; i >= 0; i-- {
		if speeds[i] < current {
			return speeds[i]
		}
	}
	return speeds[0]
}
