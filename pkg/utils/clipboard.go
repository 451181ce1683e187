package utils

import (
	"bytes"
	"image"
	"image/png"

	"golang.design/x/clipboard"
)

// CopyImage places img on the system clipboard as a PNG.
func CopyImage(img image.Image) error {
	if err := clipboard.Init(); err != nil {
		return err
	}

	var b bytes.Buffer
	if err := png.Encode(&b, img); err != nil {
		return err
	}

	clipboard.Write(clipboard.FmtImage, b.Bytes())
	return nil
}
