// Package audio synthesises the cabinet's discrete sound circuits and
// plays them through an audio backend.
package audio

import (
	"math"

	"github.com/thelolagemann/go-invaders/internal/io"
)

// SampleRate is the rate of every generated sample, in Hz.
const SampleRate = 44100

// effect is a synthesised sound. Looping effects repeat while their
// latch bit is held; the rest play once to completion.
type effect struct {
	samples []float32
	loop    bool
}

// noise is a 16 bit Galois LFSR, so effects are reproducible.
type noise uint16

func (n *noise) next() float32 {
	lsb := *n & 1
	*n >>= 1
	if lsb == 0 {
		return -1
	}
	*n ^= 0xB400
	return 1
}

func samplesFor(seconds float64) int {
	return int(seconds * SampleRate)
}

func square(phase float64) float32 {
	if math.Mod(phase, 1) < 0.5 {
		return 1
	}
	return -1
}

// decay is a linear fade from 1 to 0 over n samples.
func decay(i, n int) float32 {
	return 1 - float32(i)/float32(n)
}

// warble is a square wave swept between lo and hi by a rate Hz
// triangle.
func warble(seconds, lo, hi, rate float64, fade bool) []float32 {
	n := samplesFor(seconds)
	out := make([]float32, n)
	var phase float64
	for i := range out {
		t := float64(i) / SampleRate
		tri := 2 * math.Abs(math.Mod(t*rate, 1)-0.5)
		phase += (lo + (hi-lo)*tri) / SampleRate
		out[i] = square(phase) * 0.4
		if fade {
			out[i] *= decay(i, n)
		}
	}
	return out
}

// burst is filtered noise whose pitch falls from hi to lo.
func burst(seconds, hi, lo float64, seed noise) []float32 {
	n := samplesFor(seconds)
	out := make([]float32, n)
	var phase float64
	var v float32
	for i := range out {
		freq := hi + (lo-hi)*float64(i)/float64(n)
		phase += freq / SampleRate
		if phase >= 1 {
			phase--
			v = seed.next()
		}
		out[i] = v * 0.5 * decay(i, n)
	}
	return out
}

// tone is a decaying square note.
func tone(seconds, freq float64) []float32 {
	n := samplesFor(seconds)
	out := make([]float32, n)
	for i := range out {
		out[i] = square(freq*float64(i)/SampleRate) * 0.5 * decay(i, n)
	}
	return out
}

func jingle(notes []float64, each float64) []float32 {
	var out []float32
	for _, f := range notes {
		out = append(out, tone(each, f)...)
	}
	return out
}

// effects holds every sound, indexed by io.Sound.
var effects = [io.SoundCount]effect{
	io.SoundUFO:          {samples: warble(0.25, 500, 900, 4, false), loop: true},
	io.SoundShot:         {samples: burst(0.3, 6000, 1500, 0xACE1)},
	io.SoundPlayerDeath:  {samples: burst(1.2, 3000, 200, 0x1D87)},
	io.SoundInvaderDeath: {samples: burst(0.35, 2500, 800, 0x5A5A)},
	io.SoundExtraLife:    {samples: jingle([]float64{523, 659, 784, 1047}, 0.12)},
	io.SoundFleet1:       {samples: tone(0.1, 98)},
	io.SoundFleet2:       {samples: tone(0.1, 87)},
	io.SoundFleet3:       {samples: tone(0.1, 78)},
	io.SoundFleet4:       {samples: tone(0.1, 73)},
	io.SoundUFOHit:       {samples: warble(0.8, 300, 1200, 12, true)},
}
