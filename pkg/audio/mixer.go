package audio

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/thelolagemann/go-invaders/internal/io"
	"github.com/thelolagemann/go-invaders/pkg/utils"
)

// Mixer plays effects in response to the sound latches. It is an
// io.SoundListener for the machine and an io.Reader of interleaved
// stereo float32 little endian samples for a backend.
type Mixer struct {
	mu     sync.Mutex
	voices [io.SoundCount]int // read position, -1 when silent
	volume float32
	muted  bool
}

// NewMixer returns a silent Mixer at half volume.
func NewMixer() *Mixer {
	m := &Mixer{volume: 0.5}
	for i := range m.voices {
		m.voices[i] = -1
	}
	return m
}

// Start triggers s from its beginning.
func (m *Mixer) Start(s io.Sound) {
	if s >= io.SoundCount {
		return
	}
	m.mu.Lock()
	m.voices[s] = 0
	m.mu.Unlock()
}

// Stop ends a looping sound. One-shot sounds play to completion.
func (m *Mixer) Stop(s io.Sound) {
	if s >= io.SoundCount || !effects[s].loop {
		return
	}
	m.mu.Lock()
	m.voices[s] = -1
	m.mu.Unlock()
}

// SetVolume sets the output volume, clamped to [0, 1].
func (m *Mixer) SetVolume(v float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = utils.Clamp(0, v, 1)
}

// SetMuted silences the output without stopping the voices.
func (m *Mixer) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
}

// Playing reports whether s is sounding.
func (m *Mixer) Playing(s io.Sound) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.voices[s] >= 0
}

// Mix fills out with mono samples, advancing every active voice.
func (m *Mixer) Mix(out []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range out {
		var sample float32
		for s := range m.voices {
			pos := m.voices[s]
			if pos < 0 {
				continue
			}
			e := effects[s]
			sample += e.samples[pos]
			pos++
			if pos == len(e.samples) {
				if e.loop {
					pos = 0
				} else {
					pos = -1
				}
			}
			m.voices[s] = pos
		}

		sample *= m.volume
		if m.muted {
			sample = 0
		}
		out[i] = utils.Clamp(-1, sample, 1)
	}
}

// Read implements io.Reader, writing whole stereo frames.
func (m *Mixer) Read(p []byte) (int, error) {
	frames := len(p) / 8
	mono := make([]float32, frames)
	m.Mix(mono)
	for i, s := range mono {
		bits := math.Float32bits(s)
		binary.LittleEndian.PutUint32(p[i*8:], bits)
		binary.LittleEndian.PutUint32(p[i*8+4:], bits)
	}
	return frames * 8, nil
}
