package io

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thelolagemann/go-invaders/internal/types"
	"github.com/thelolagemann/go-invaders/pkg/log"
)

type soundRecorder struct {
	started, stopped []Sound
}

func (r *soundRecorder) Start(s Sound) { r.started = append(r.started, s) }
func (r *soundRecorder) Stop(s Sound)  { r.stopped = append(r.stopped, s) }

func TestController_Inputs(t *testing.T) {
	input := NewInputState(DefaultDIP)
	c := NewController(input, nil, nil)

	assert.Equal(t, uint8(0x08), c.In(PortInput1), "bit 3 is always set")
	assert.Equal(t, uint8(0x00), c.In(PortInput2), "three lives, bonus at 1500, coin info shown")
	assert.Equal(t, uint8(0x70), c.In(PortInput0))

	input.Press(ButtonCoin)
	input.Press(ButtonP1Start)
	input.Press(ButtonP1Shoot)
	assert.Equal(t, uint8(0b0001_1101), c.In(PortInput1))

	input.Release(ButtonCoin)
	input.Press(ButtonP1Left)
	input.Press(ButtonP1Right)
	input.Press(ButtonP2Start)
	assert.Equal(t, uint8(0b0111_1110), c.In(PortInput1))
	assert.True(t, input.Pressed(ButtonP1Left))
	assert.False(t, input.Pressed(ButtonCoin))

	input.Press(ButtonP2Shoot)
	input.Press(ButtonP2Left)
	input.Press(ButtonP2Right)
	input.Press(ButtonTilt)
	assert.Equal(t, uint8(0b0111_0100), c.In(PortInput2))
}

func TestController_DIP(t *testing.T) {
	cases := []struct {
		dip  DIP
		want uint8
	}{
		{DIP{Lives: 3}, 0x00},
		{DIP{Lives: 4}, 0x01},
		{DIP{Lives: 6}, 0x03},
		{DIP{Lives: 9}, 0x03},
		{DIP{Lives: 3, ExtraLifeAt1000: true}, 0x08},
		{DIP{Lives: 5, HideCoinInfo: true}, 0x82},
	}
	for _, tc := range cases {
		c := NewController(NewInputState(tc.dip), nil, nil)
		assert.Equal(t, tc.want, c.In(PortInput2), "%+v", tc.dip)
	}
}

func TestController_Shift(t *testing.T) {
	c := NewController(NewInputState(DefaultDIP), nil, nil)
	c.Out(PortShiftData, 0x0F)
	c.Out(PortShiftData, 0xFF)
	c.Out(PortShiftAmount, 4)
	assert.Equal(t, uint8(0xF0), c.In(PortShiftIn))
}

func TestController_Sound(t *testing.T) {
	rec := &soundRecorder{}
	c := NewController(NewInputState(DefaultDIP), rec, nil)

	c.Out(PortSound1, 0b0000_0011) // ufo, shot
	c.Out(PortSound1, 0b0000_0011) // held, no new edges
	c.Out(PortSound1, 0b0000_0001) // shot released
	c.Out(PortSound2, 0b0001_0001) // fleet 1, ufo hit

	assert.Equal(t, []Sound{SoundUFO, SoundShot, SoundFleet1, SoundUFOHit}, rec.started)
	assert.Equal(t, []Sound{SoundShot}, rec.stopped)

	s1, s2 := c.SoundLatches()
	assert.Equal(t, uint8(0x01), s1)
	assert.Equal(t, uint8(0x11), s2)

	c.Reset()
	assert.Equal(t, []Sound{SoundShot, SoundUFO, SoundFleet1, SoundUFOHit}, rec.stopped)
}

func TestController_Unmapped(t *testing.T) {
	var buf bytes.Buffer
	c := NewController(NewInputState(DefaultDIP), nil, log.NewWriter(&buf))

	assert.Equal(t, uint8(0), c.In(7))
	c.Out(0x10, 0xAA)
	c.Out(PortWatchdog, 0)

	assert.Contains(t, buf.String(), "read from unmapped port 7")
	assert.Contains(t, buf.String(), "write to unmapped port 16 <- aa")
	assert.Equal(t, uint64(1), c.WatchdogResets())
}

func TestController_State(t *testing.T) {
	input := NewInputState(DIP{Lives: 5})
	c := NewController(input, nil, nil)
	c.Out(PortShiftData, 0x12)
	c.Out(PortShiftData, 0x34)
	c.Out(PortShiftAmount, 3)
	c.Out(PortSound1, 0x01)
	input.Press(ButtonP1Shoot)

	st := types.NewState()
	c.Save(st)

	restored := NewController(NewInputState(DefaultDIP), nil, nil)
	st.ResetPosition()
	restored.Load(st)

	assert.Equal(t, c.In(PortShiftIn), restored.In(PortShiftIn))
	assert.Equal(t, c.In(PortInput1), restored.In(PortInput1))
	assert.Equal(t, c.In(PortInput2), restored.In(PortInput2))
	s1, _ := restored.SoundLatches()
	assert.Equal(t, uint8(0x01), s1)
}

func TestParseButton(t *testing.T) {
	b, err := ParseButton("P1Shoot")
	assert.NoError(t, err)
	assert.Equal(t, ButtonP1Shoot, b)
	assert.Equal(t, "p1shoot", ButtonName(b))

	_, err = ParseButton("jump")
	assert.Error(t, err)
}

func TestController_PortDirections(t *testing.T) {
	c := NewController(NewInputState(DefaultDIP), nil, nil)
	assert.Equal(t, uint8(0), c.In(7))
	c.Out(7, 0xFF)
	c.Out(PortInput0, 0xFF)
	assert.Equal(t, uint8(0x70), c.In(PortInput0), "input ports ignore writes")
	_, ok := c.Ports().Read(PortShiftData)
	assert.False(t, ok, "port 4 is write only")
}
