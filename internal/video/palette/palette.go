// Package palette provides the colour schemes used to draw the 1-bit
// Space Invaders screen.
package palette

import "strings"

// Band colours every lit pixel from the previous band's last row up to
// and including Last.
type Band struct {
	Last   int
	Colour [3]uint8
}

// Palette maps a screen row to the colour of a lit pixel on that row.
// The cabinet had no colour hardware; coloured gel strips on the glass
// tinted horizontal bands of the monitor, which a Palette reproduces.
type Palette struct {
	Name       string
	Background [3]uint8
	Bands      []Band
}

var (
	// Overlay reproduces the gel strips of the upright cabinet: scores
	// in magenta, invaders in red, shields in green and the player in
	// cyan.
	Overlay = Palette{
		Name:       "overlay",
		Background: [3]uint8{0x00, 0x00, 0x00},
		Bands: []Band{
			{Last: 55, Colour: [3]uint8{0xDB, 0x55, 0xDD}},
			{Last: 155, Colour: [3]uint8{0xF8, 0x3B, 0x3A}},
			{Last: 225, Colour: [3]uint8{0x62, 0xDE, 0x6D}},
			{Last: 255, Colour: [3]uint8{0x42, 0xE9, 0xF4}},
		},
	}

	// Monochrome is the bare black and white monitor.
	Monochrome = Palette{
		Name:       "monochrome",
		Background: [3]uint8{0x00, 0x00, 0x00},
		Bands:      []Band{{Last: 255, Colour: [3]uint8{0xFF, 0xFF, 0xFF}}},
	}

	// Amber imitates an amber phosphor tube.
	Amber = Palette{
		Name:       "amber",
		Background: [3]uint8{0x1A, 0x0F, 0x00},
		Bands:      []Band{{Last: 255, Colour: [3]uint8{0xFF, 0xB0, 0x00}}},
	}
)

// Palettes is a list of all available palettes, in the order they are
// cycled through.
var Palettes = []Palette{Overlay, Monochrome, Amber}

// Colour returns the colour of a lit pixel on the given row. Rows past
// the last band use the last band's colour.
func (p Palette) Colour(row int) [3]uint8 {
	for _, b := range p.Bands {
		if row <= b.Last {
			return b.Colour
		}
	}
	if len(p.Bands) == 0 {
		return [3]uint8{0xFF, 0xFF, 0xFF}
	}
	return p.Bands[len(p.Bands)-1].Colour
}

// ByName looks up a palette by its case-insensitive name.
func ByName(name string) (Palette, bool) {
	for _, p := range Palettes {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Palette{}, false
}

// Next returns the palette after p, wrapping around.
func Next(p Palette) Palette {
	for i, q := range Palettes {
		if q.Name == p.Name {
			return Palettes[(i+1)%len(Palettes)]
		}
	}
	return Palettes[0]
}
