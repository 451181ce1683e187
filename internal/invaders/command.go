package invaders

import (
	"fmt"
	"os"

	"github.com/thelolagemann/go-invaders/internal/video/palette"
	"github.com/thelolagemann/go-invaders/pkg/emulator"
)

// SendCommand performs a command on behalf of a display driver.
func (m *Machine) SendCommand(command emulator.CommandPacket) emulator.ResponsePacket {
	resp := emulator.ResponsePacket{Command: command.Command}

	switch command.Command {
	case emulator.CommandPause:
		m.Pause()
	case emulator.CommandResume:
		m.Resume()
	case emulator.CommandReset:
		m.Reset()
	case emulator.CommandClose:
		resp.Error = m.Close()
	case emulator.CommandSetSpeed:
		speed, err := command.Speed()
		if err != nil {
			resp.Error = err
			break
		}
		m.mu.Lock()
		m.speed = speed
		m.speedDirty = true
		m.mu.Unlock()
		m.Infof("speed set to %.2fx", speed)
	case emulator.CommandSaveState:
		m.mu.Lock()
		resp.Data = m.SaveState()
		m.mu.Unlock()
		if path := string(command.Data); path != "" {
			if err := os.WriteFile(path, resp.Data, 0644); err != nil {
				resp.Error = fmt.Errorf("saving state: %w", err)
			}
		}
	case emulator.CommandLoadState:
		m.mu.Lock()
		resp.Error = m.LoadState(command.Data)
		m.mu.Unlock()
	case emulator.CommandCyclePalette:
		p := palette.Next(m.Video.Palette())
		m.Video.SetPalette(p)
		resp.Data = []byte(p.Name)
	case emulator.CommandScreenshot:
		m.mu.Lock()
		if m.lastFrame != nil {
			resp.Data = append([]byte(nil), m.lastFrame...)
		} else {
			resp.Data = m.Video.Render(m.MMU.VRAM())
		}
		m.mu.Unlock()
	default:
		resp.Error = fmt.Errorf("unknown command %s", command.Command)
	}

	return resp
}
