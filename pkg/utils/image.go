package utils

import (
	"image"
	"image/png"
	"os"
	"strings"

	"github.com/sqweek/dialog"
	"golang.org/x/image/draw"
)

// FrameImage wraps a packed RGB frame in an image.RGBA.
func FrameImage(frame []byte, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i, j := 0, 0; i+2 < len(frame) && j < len(img.Pix); i, j = i+3, j+4 {
		img.Pix[j] = frame[i]
		img.Pix[j+1] = frame[i+1]
		img.Pix[j+2] = frame[i+2]
		img.Pix[j+3] = 0xFF
	}
	return img
}

// ScaleImage scales img by an integer factor using nearest neighbour
// sampling, keeping the pixel edges sharp.
func ScaleImage(img image.Image, factor int) *image.RGBA {
	if factor < 1 {
		factor = 1
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// SaveImage writes img as a PNG. When filename is empty the user is
// asked where to save it.
func SaveImage(img image.Image, filename string) error {
	if filename == "" {
		var err error
		filename, err = dialog.File().Filter("PNG Image", "png").Title("Save Image").Save()
		if err != nil {
			return err
		}
	}

	if !strings.HasSuffix(strings.ToLower(filename), ".png") {
		filename += ".png"
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}
