package images

import (
	"image"

	"github.com/disintegration/imaging"
)

// isGray reports whether every pixel of img has equal color components.
func isGray(img image.Image) bool {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return true
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r != g || g != bl {
				return false
			}
		}
	}
	return true
}

// Desaturate returns grayscale copy of img, second value is false when img
// already was grayscale and was returned as is.
func Desaturate(img image.Image) (image.Image, bool) {
	if isGray(img) {
		return img, false
	}
	return imaging.Grayscale(img), true
}
