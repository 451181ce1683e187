package emulator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpeedCommand(t *testing.T) {
	p := SpeedCommand(2.5)
	assert.Equal(t, CommandSetSpeed, p.Command)

	speed, err := p.Speed()
	require.NoError(t, err)
	assert.Equal(t, 2.5, speed)

	_, err = SpeedCommand(0).Speed()
	assert.Error(t, err)
	_, err = CommandPacket{Command: CommandSetSpeed, Data: []byte{1}}.Speed()
	assert.Error(t, err)
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "pause", CommandPause.String())
	assert.Equal(t, "command(99)", Command(99).String())
}

func TestStatus(t *testing.T) {
	assert.True(t, Running.IsRunning())
	assert.True(t, Paused.IsPaused())
	assert.False(t, Paused.IsRunning())
	assert.True(t, Errored.Stopped())
	assert.False(t, Paused.Stopped())
	assert.Equal(t, "Halted", Halted.String())
	assert.Equal(t, "Unknown", Status(42).String())
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invaders.sav")

	s, err := OpenSave(path, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0}, s.Bytes())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "save is only written on close")

	require.NoError(t, s.SetBytes([]byte{0x50, 0x12}))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "closing twice is a no-op")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x50, 0x12}, b)

	s, err = OpenSave(path, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x50, 0x12}, s.Bytes())
	require.NoError(t, s.Close())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are renamed away")
}
