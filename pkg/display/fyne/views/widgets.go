package views

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/thelolagemann/go-invaders/pkg/display/fyne/themes"
)

// grey marks zero bytes and unprintable characters.
var grey = color.NRGBA{0x7f, 0x7f, 0x7f, 0xff}

// bold is a small utility function for creating a bold label.
func bold(s string) *widget.Label { return widget.NewLabelWithStyle(s, 0, fyne.TextStyle{Bold: true}) }

// mono is a small utility function for creating a monospaced text element.
func mono(s string, c color.Color) *canvas.Text {
	t := canvas.NewText(s, c)
	t.TextStyle.Monospace = true

	return t
}

// newBadge draws content over a rounded rectangle.
func newBadge(backgroundColor color.Color, cornerRadius float32, content fyne.CanvasObject) fyne.CanvasObject {
	bgRect := canvas.NewRectangle(backgroundColor)
	bgRect.CornerRadius = cornerRadius
	bgRect.Resize(content.MinSize())

	return container.NewMax(bgRect, content)
}

func newCard(title string, content fyne.CanvasObject) fyne.CanvasObject {
	return newBadge(themeColor(themes.ColorNameBackgroundOnBackground), 5, container.NewVBox(
		newBadge(themeColor(theme.ColorNameInputBackground), 5, container.NewPadded(mono(title, themeColor(theme.ColorNameForeground)))),
		content))
}

// staticCheckbox is a checkbox the user cannot toggle, used to show
// the state of a bit.
type staticCheckbox struct {
	widget.Check
}

func newStaticCheckbox(label string, checked bool) *staticCheckbox {
	cb := &staticCheckbox{}
	cb.Text = label
	cb.Checked = checked
	cb.ExtendBaseWidget(cb)
	return cb
}

func (c *staticCheckbox) CreateRenderer() fyne.WidgetRenderer { return c.Check.CreateRenderer() }
func (c *staticCheckbox) FocusGained()                        {}
func (c *staticCheckbox) MouseIn(_ *desktop.MouseEvent)       {}
func (c *staticCheckbox) MouseOut()                           {}
func (c *staticCheckbox) MouseMoved(_ *desktop.MouseEvent)    {}
func (c *staticCheckbox) Tapped(_ *fyne.PointEvent)           {}

// set updates the checkbox without going through the tap handler.
func (c *staticCheckbox) set(checked bool) {
	if c.Checked != checked {
		c.Checked = checked
		c.Refresh()
	}
}

func themeColor(name fyne.ThemeColorName) color.Color {
	settings := fyne.CurrentApp().Settings()
	return settings.Theme().Color(name, settings.ThemeVariant())
}
