package emulator

import (
	"encoding/binary"
	"fmt"
	"math"
)

// CommandPacket is a command packet that is sent to the
// emulator to control it.
type CommandPacket struct {
	Command Command
	Data    []byte
}

// Command is a command that is sent to the emulator to
// control it.
type Command int

// ResponsePacket is a response packet that is sent
// from the emulator to the client.
type ResponsePacket struct {
	Command Command
	Data    []byte
	Error   error
}

const (
	// CommandPause pauses the emulator.
	CommandPause Command = iota
	// CommandResume resumes the emulator.
	CommandResume
	// CommandClose closes the emulator, persisting the high score.
	CommandClose
	// CommandReset power cycles the machine.
	CommandReset
	// CommandSaveState responds with a save state. If Data holds a
	// path the state is also written there.
	CommandSaveState
	// CommandLoadState restores the save state held in Data.
	CommandLoadState
	// CommandSetSpeed sets the speed of the emulator. Data holds a
	// float64, see SpeedCommand.
	CommandSetSpeed
	// CommandCyclePalette switches to the next palette and responds
	// with its name.
	CommandCyclePalette
	// CommandScreenshot responds with the most recent frame.
	CommandScreenshot
)

var commandNames = map[Command]string{
	CommandPause:        "pause",
	CommandResume:       "resume",
	CommandClose:        "close",
	CommandReset:        "reset",
	CommandSaveState:    "save state",
	CommandLoadState:    "load state",
	CommandSetSpeed:     "set speed",
	CommandCyclePalette: "cycle palette",
	CommandScreenshot:   "screenshot",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// SpeedCommand returns a CommandSetSpeed packet for the given speed
// multiplier.
func SpeedCommand(speed float64) CommandPacket {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, math.Float64bits(speed))
	return CommandPacket{Command: CommandSetSpeed, Data: data}
}

// Speed decodes the speed carried by a CommandSetSpeed packet.
func (p CommandPacket) Speed() (float64, error) {
	if len(p.Data) != 8 {
		return 0, fmt.Errorf("speed: want 8 bytes, got %d", len(p.Data))
	}
	speed := math.Float64frombits(binary.LittleEndian.Uint64(p.Data))
	if speed <= 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
		return 0, fmt.Errorf("speed: invalid multiplier %v", speed)
	}
	return speed, nil
}
