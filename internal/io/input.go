package io

import (
	"fmt"
	"strings"
	"sync"

	"github.com/thelolagemann/go-invaders/internal/types"
)

// Button represents a physical control on the cabinet.
type Button = uint8

const (
	// ButtonCoin is the coin slot.
	ButtonCoin Button = iota
	// ButtonP1Start is the one player start button.
	ButtonP1Start
	// ButtonP1Shoot is the player one fire button.
	ButtonP1Shoot
	// ButtonP1Left is player one's left control.
	ButtonP1Left
	// ButtonP1Right is player one's right control.
	ButtonP1Right
	// ButtonP2Start is the two player start button.
	ButtonP2Start
	// ButtonP2Shoot is the player two fire button.
	ButtonP2Shoot
	// ButtonP2Left is player two's left control.
	ButtonP2Left
	// ButtonP2Right is player two's right control.
	ButtonP2Right
	// ButtonTilt is the cabinet tilt switch.
	ButtonTilt

	buttonCount
)

var buttonNames = [buttonCount]string{
	ButtonCoin:    "coin",
	ButtonP1Start: "p1start",
	ButtonP1Shoot: "p1shoot",
	ButtonP1Left:  "p1left",
	ButtonP1Right: "p1right",
	ButtonP2Start: "p2start",
	ButtonP2Shoot: "p2shoot",
	ButtonP2Left:  "p2left",
	ButtonP2Right: "p2right",
	ButtonTilt:    "tilt",
}

// ButtonName returns the short name of a button, as used by scripts.
func ButtonName(b Button) string {
	if b >= buttonCount {
		return "unknown"
	}
	return buttonNames[b]
}

// ParseButton returns the button with the given short name.
func ParseButton(name string) (Button, error) {
	name = strings.ToLower(name)
	for b, n := range buttonNames {
		if n == name {
			return Button(b), nil
		}
	}
	return 0, fmt.Errorf("unknown button %q", name)
}

// DIP holds the cabinet's DIP switch settings, read through port 2.
type DIP struct {
	// Lives is the number of bases per game, 3 to 6.
	Lives uint8
	// ExtraLifeAt1000 awards the bonus base at 1000 points instead
	// of 1500.
	ExtraLifeAt1000 bool
	// HideCoinInfo removes the coin information from the demo
	// screen.
	HideCoinInfo bool
}

// DefaultDIP is the factory setting: three bases, bonus at 1500.
var DefaultDIP = DIP{Lives: 3}

// InputState holds the pressed controls and the DIP switches. It is
// written by display drivers and read by the CPU through the ports, so
// access is synchronised.
type InputState struct {
	mu      sync.Mutex
	pressed uint16
	DIP     DIP
}

// NewInputState returns an InputState with nothing pressed.
func NewInputState(dip DIP) *InputState {
	return &InputState{DIP: dip}
}

// Press presses a button.
func (s *InputState) Press(button Button) {
	s.mu.Lock()
	s.pressed |= 1 << button
	s.mu.Unlock()
}

// Release releases a button.
func (s *InputState) Release(button Button) {
	s.mu.Lock()
	s.pressed &^= 1 << button
	s.mu.Unlock()
}

// Pressed returns true if the button is held.
func (s *InputState) Pressed(button Button) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pressed&(1<<button) != 0
}

// bit returns mask if the button is held, otherwise 0.
func (s *InputState) bit(button Button, mask uint8) uint8 {
	if s.pressed&(1<<button) != 0 {
		return mask
	}
	return 0
}

// Port0 returns the value of input port 0. It is wired on the board
// but not read by Space Invaders.
func (s *InputState) Port0() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return 0b0111_0000 |
		s.bit(ButtonP1Shoot, types.Bit4) |
		s.bit(ButtonP1Left, types.Bit5) |
		s.bit(ButtonP1Right, types.Bit6)
}

// Port1 returns the value of input port 1.
//
//	Bit 0 - Coin (1 = inserted)
//	Bit 1 - Two player start
//	Bit 2 - One player start
//	Bit 3 - Always 1
//	Bit 4 - Player one shoot
//	Bit 5 - Player one left
//	Bit 6 - Player one right
//	Bit 7 - Not connected
func (s *InputState) Port1() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.Bit3 |
		s.bit(ButtonCoin, types.Bit0) |
		s.bit(ButtonP2Start, types.Bit1) |
		s.bit(ButtonP1Start, types.Bit2) |
		s.bit(ButtonP1Shoot, types.Bit4) |
		s.bit(ButtonP1Left, types.Bit5) |
		s.bit(ButtonP1Right, types.Bit6)
}

// Port2 returns the value of input port 2.
//
//	Bit 0-1 - Lives DIP (0 = 3, 3 = 6)
//	Bit 2   - Tilt
//	Bit 3   - Bonus DIP (0 = 1500, 1 = 1000)
//	Bit 4   - Player two shoot
//	Bit 5   - Player two left
//	Bit 6   - Player two right
//	Bit 7   - Coin info DIP (0 = shown)
func (s *InputState) Port2() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()

	lives := s.DIP.Lives
	if lives < 3 {
		lives = 3
	} else if lives > 6 {
		lives = 6
	}
	v := lives - 3
	if s.DIP.ExtraLifeAt1000 {
		v |= types.Bit3
	}
	if s.DIP.HideCoinInfo {
		v |= types.Bit7
	}
	return v |
		s.bit(ButtonTilt, types.Bit2) |
		s.bit(ButtonP2Shoot, types.Bit4) |
		s.bit(ButtonP2Left, types.Bit5) |
		s.bit(ButtonP2Right, types.Bit6)
}

var _ types.Stater = (*InputState)(nil)

// Load implements the types.Stater interface.
func (s *InputState) Load(st *types.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pressed = st.Read16()
	s.DIP.Lives = st.Read8()
	s.DIP.ExtraLifeAt1000 = st.ReadBool()
	s.DIP.HideCoinInfo = st.ReadBool()
}

// Save implements the types.Stater interface.
func (s *InputState) Save(st *types.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.Write16(s.pressed)
	st.Write8(s.DIP.Lives)
	st.WriteBool(s.DIP.ExtraLifeAt1000)
	st.WriteBool(s.DIP.HideCoinInfo)
}
