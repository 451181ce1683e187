// Package video turns the Space Invaders video RAM into RGB frames.
//
// The monitor is mounted rotated 90 degrees anticlockwise in the
// cabinet, so video RAM is scanned as 224 columns of 32 bytes. Each
// column runs from the bottom of the screen to the top, and bit 0 of a
// byte is the lowest of its 8 pixels.
package video

import (
	"fmt"
	"sync"

	"github.com/thelolagemann/go-invaders/internal/types"
	"github.com/thelolagemann/go-invaders/internal/video/palette"
)

const (
	// ScreenWidth is the width of the rotated screen in pixels.
	ScreenWidth = 224
	// ScreenHeight is the height of the rotated screen in pixels.
	ScreenHeight = 256
	// FrameSize is the size of an RGB frame in bytes.
	FrameSize = ScreenWidth * ScreenHeight * 3

	bytesPerColumn = ScreenHeight / 8
)

// Renderer draws frames using a palette. It is safe to change the
// palette while another goroutine renders.
type Renderer struct {
	mu      sync.RWMutex
	palette palette.Palette
	colours [ScreenHeight][3]uint8
}

// NewRenderer returns a Renderer using p.
func NewRenderer(p palette.Palette) *Renderer {
	r := &Renderer{}
	r.SetPalette(p)
	return r
}

// SetPalette changes the palette used by subsequent frames.
func (r *Renderer) SetPalette(p palette.Palette) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.palette = p
	for row := range r.colours {
		r.colours[row] = p.Colour(row)
	}
}

// Palette returns the palette in use.
func (r *Renderer) Palette() palette.Palette {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.palette
}

// Render returns a new ScreenWidth x ScreenHeight RGB frame, top row
// first, drawn from vram. vram must hold types.VRAMSize bytes.
func (r *Renderer) Render(vram []byte) []byte {
	frame := make([]byte, FrameSize)
	r.RenderTo(frame, vram)
	return frame
}

// RenderTo draws vram into frame, which must hold FrameSize bytes.
func (r *Renderer) RenderTo(frame, vram []byte) {
	if len(vram) < types.VRAMSize {
		panic(fmt.Sprintf("video: vram is %d bytes, want %d", len(vram), types.VRAMSize))
	}
	if len(frame) < FrameSize {
		panic(fmt.Sprintf("video: frame is %d bytes, want %d", len(frame), FrameSize))
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	bg := r.palette.Background

	for i, b := range vram[:types.VRAMSize] {
		x := i / bytesPerColumn
		bottom := ScreenHeight - 1 - (i%bytesPerColumn)*8

		for bit := 0; bit < 8; bit++ {
			y := bottom - bit
			c := bg
			if b&(1<<bit) != 0 {
				c = r.colours[y]
			}
			idx := (y*ScreenWidth + x) * 3
			frame[idx] = c[0]
			frame[idx+1] = c[1]
			frame[idx+2] = c[2]
		}
	}
}
