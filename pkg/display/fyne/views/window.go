package views

import (
	"image"
	"image/png"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
)

// WindowedView is a helper struct to allow views to show dialogs on
// the window they are running in.
type WindowedView struct {
	Window fyne.Window
}

// error displays err with a dialog on the embedded Window. If err
// is nil, nothing happens.
func (w *WindowedView) error(err error) {
	if err != nil {
		d := dialog.NewError(err, w.Window)
		d.Show()
	}
}

// SaveImage asks where to save img as a PNG.
func (w *WindowedView) SaveImage(img image.Image, name string) {
	d := dialog.NewFileSave(func(closer fyne.URIWriteCloser, err error) {
		if closer == nil {
			return // user cancelled
		}
		defer closer.Close()
		if err := png.Encode(closer, img); err != nil {
			w.error(err)
		}
	}, w.Window)
	d.SetFileName(name)
	d.Show()
}

// saveFile asks where to save b.
func (w *WindowedView) saveFile(b []byte, name string) {
	d := dialog.NewFileSave(func(closer fyne.URIWriteCloser, err error) {
		if closer == nil {
			return // user cancelled
		}
		defer closer.Close()
		if _, err := closer.Write(b); err != nil {
			w.error(err)
		}
	}, w.Window)
	d.SetFileName(name)
	d.Show()
}
