package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPalette_Colour(t *testing.T) {
	assert.Equal(t, Overlay.Bands[0].Colour, Overlay.Colour(0))
	assert.Equal(t, Overlay.Bands[1].Colour, Overlay.Colour(56))
	assert.Equal(t, Overlay.Bands[3].Colour, Overlay.Colour(300))
	assert.Equal(t, [3]uint8{0xFF, 0xFF, 0xFF}, Palette{}.Colour(10))
}

func TestByName(t *testing.T) {
	p, ok := ByName("AMBER")
	assert.True(t, ok)
	assert.Equal(t, Amber.Name, p.Name)

	_, ok = ByName("sepia")
	assert.False(t, ok)
}

func TestNext(t *testing.T) {
	assert.Equal(t, Monochrome.Name, Next(Overlay).Name)
	assert.Equal(t, Amber.Name, Next(Monochrome).Name)
	assert.Equal(t, Overlay.Name, Next(Amber).Name)
	assert.Equal(t, Overlay.Name, Next(Palette{Name: "unknown"}).Name)
}
