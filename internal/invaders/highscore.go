package invaders

// The board has no battery backed RAM, so the high score is lost at
// power off. It is kept in a two byte save file instead, written on
// reset and close and put back once the game has initialised its RAM.

// readHighScore returns the high score in RAM as four BCD digits.
func (m *Machine) readHighScore() uint16 {
	return m.MMU.Read16(HighScoreAddress)
}

func (m *Machine) restoreHighScore() {
	if m.save == nil {
		return
	}
	b := m.save.Bytes()
	stored := uint16(b[1])<<8 | uint16(b[0])
	if !validBCD(stored) {
		m.Warnf("ignoring corrupt high score %04x", stored)
		return
	}

	// four BCD digits compare in the same order as their values
	if stored > m.readHighScore() {
		m.MMU.Write16(HighScoreAddress, stored)
		m.Infof("restored high score %04x", stored)
	}
}

func (m *Machine) storeHighScore() {
	if m.save == nil {
		return
	}
	score := m.readHighScore()
	b := m.save.Bytes()
	stored := uint16(b[1])<<8 | uint16(b[0])
	if score <= stored || !validBCD(score) {
		return
	}

	if err := m.save.SetBytes([]byte{uint8(score), uint8(score >> 8)}); err != nil {
		m.Errorf("unable to save high score: %v", err)
		return
	}
	m.Infof("saved high score %04x", score)
}

func validBCD(v uint16) bool {
	for i := 0; i < 4; i++ {
		if (v>>(4*i))&0xF > 9 {
			return false
		}
	}
	return true
}
