// Package themes holds the fyne theme used by the emulator's windows,
// coloured after the cabinet's overlay.
package themes

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Default is a dark theme with the green of the cabinet's lower
// overlay as its primary colour.
type Default struct{}

var _ fyne.Theme = Default{}

var (
	overlayGreen  = color.NRGBA{0x20, 0xff, 0x20, 0xff}
	overlayGreenD = color.NRGBA{0x18, 0xb4, 0x18, 0xff}
	overlayRed    = color.NRGBA{0xff, 0x20, 0x20, 0xff}

	surfaceA0  = color.NRGBA{0x10, 0x10, 0x14, 0xff}
	surfaceA20 = color.NRGBA{0x22, 0x22, 0x2a, 0xff}
	surfaceA40 = color.NRGBA{0x36, 0x36, 0x40, 0xff}
	surfaceA60 = color.NRGBA{0x4c, 0x4c, 0x58, 0xff}

	disabledText = color.NRGBA{156, 156, 156, 255}
	disabled     = color.NRGBA{35, 35, 35, 255}
)

const (
	ColorNameSecondary              fyne.ThemeColorName = "secondary"
	ColorNameDisabledText           fyne.ThemeColorName = "disabled-text"
	ColorNameBackgroundOnBackground fyne.ThemeColorName = "background-on-background"
)

var colorMap = map[fyne.ThemeColorName]color.Color{
	ColorNameBackgroundOnBackground: surfaceA20,
	ColorNameSecondary:              overlayGreenD,
	ColorNameDisabledText:           disabledText,
	theme.ColorNamePrimary:          overlayGreen,
	theme.ColorNameError:            overlayRed,
	theme.ColorNameBackground:       surfaceA0,
	theme.ColorNameMenuBackground:   surfaceA40,
	theme.ColorNameDisabled:         disabled,
	theme.ColorNameButton:           surfaceA40,
	theme.ColorNameInputBackground:  surfaceA40,
	theme.ColorNameFocus:            surfaceA20,
	theme.ColorNameHover:            surfaceA60,
}

func (d Default) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if c, ok := colorMap[name]; ok {
		return c
	}
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}

func (d Default) Font(style fyne.TextStyle) fyne.Resource    { return theme.DefaultTheme().Font(style) }
func (d Default) Icon(name fyne.ThemeIconName) fyne.Resource { return theme.DefaultTheme().Icon(name) }
func (d Default) Size(name fyne.ThemeSizeName) float32       { return theme.DefaultTheme().Size(name) }
