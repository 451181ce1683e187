package io

// Sound is one of the discrete sound circuits on the board, each
// triggered by a bit of output port 3 or 5.
type Sound uint8

const (
	// SoundUFO loops while the flying saucer is on screen (port 3 bit 0).
	SoundUFO Sound = iota
	// SoundShot is the player's missile (port 3 bit 1).
	SoundShot
	// SoundPlayerDeath is the player's base exploding (port 3 bit 2).
	SoundPlayerDeath
	// SoundInvaderDeath is an invader being hit (port 3 bit 3).
	SoundInvaderDeath
	// SoundExtraLife is the bonus base jingle (port 3 bit 4).
	SoundExtraLife
	// SoundFleet1 to SoundFleet4 are the fleet's marching steps
	// (port 5 bits 0-3).
	SoundFleet1
	SoundFleet2
	SoundFleet3
	SoundFleet4
	// SoundUFOHit is the saucer being destroyed (port 5 bit 4).
	SoundUFOHit

	SoundCount
)

var soundNames = [SoundCount]string{
	"ufo", "shot", "player death", "invader death", "extra life",
	"fleet 1", "fleet 2", "fleet 3", "fleet 4", "ufo hit",
}

func (s Sound) String() string {
	if s >= SoundCount {
		return "unknown"
	}
	return soundNames[s]
}

// SoundListener is notified when a sound latch bit changes. Start is
// called on a rising edge and Stop on a falling edge.
type SoundListener interface {
	Start(s Sound)
	Stop(s Sound)
}

// port3Sounds and port5Sounds map latch bits to sounds.
var (
	port3Sounds = []Sound{SoundUFO, SoundShot, SoundPlayerDeath, SoundInvaderDeath, SoundExtraLife}
	port5Sounds = []Sound{SoundFleet1, SoundFleet2, SoundFleet3, SoundFleet4, SoundUFOHit}
)

// latch compares a new latch value with the previous one and reports
// the edges of each mapped bit.
func latch(listener SoundListener, sounds []Sound, old, value uint8) {
	if listener == nil {
		return
	}
	for bit, s := range sounds {
		mask := uint8(1) << bit
		switch {
		case value&mask != 0 && old&mask == 0:
			listener.Start(s)
		case value&mask == 0 && old&mask != 0:
			listener.Stop(s)
		}
	}
}
