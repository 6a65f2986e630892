// Package images - Frame conversion helpers for feeding Go-native images
// into the foreground detector. The detector itself only consumes flat
// sample buffers; these adapters handle the image.Image side.
package images

import (
	"image"

	"github.com/nfnt/resize"

	"github.com/nvr-ai/go-vision/gmm"
)

// ToGraySamples converts an image to a flat float32 luminance buffer, one
// sample per pixel in row-major order (the interleaved single-channel
// layout).
//
// Arguments:
//   - img: The image to convert.
//
// Returns:
//   - []float32: Luminance samples in [0, 255].
func ToGraySamples(img image.Image) []float32 {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	samples := make([]float32, width*height)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// BT.601 luma on 8-bit channel values.
			samples[i] = 0.299*float32(r>>8) + 0.587*float32(g>>8) + 0.114*float32(b>>8)
			i++
		}
	}
	return samples
}

// ToRGBSamples converts an image to a flat float32 RGB buffer in the
// requested sample layout: interleaved (HWC) or planar (CHW).
//
// Arguments:
//   - img: The image to convert.
//   - layout: Target sample layout.
//
// Returns:
//   - []float32: RGB samples in [0, 255], numPixels*3 values.
func ToRGBSamples(img image.Image, layout gmm.SampleLayout) []float32 {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	numPixels := width * height

	samples := make([]float32, numPixels*3)
	p := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if layout == gmm.LayoutPlanar {
				samples[p] = float32(r >> 8)
				samples[p+numPixels] = float32(g >> 8)
				samples[p+2*numPixels] = float32(b >> 8)
			} else {
				samples[p*3] = float32(r >> 8)
				samples[p*3+1] = float32(g >> 8)
				samples[p*3+2] = float32(b >> 8)
			}
			p++
		}
	}
	return samples
}

// Downscale resizes an image before detection. Running the detector on a
// reduced frame is the usual way to hold a real-time budget on large
// inputs; the mask is then upsampled by the caller if needed.
func Downscale(img image.Image, width, height int) image.Image {
	return resize.Resize(uint(width), uint(height), img, resize.Bilinear)
}

// MaskImage renders a foreground mask as an 8-bit grayscale image with
// foreground pixels white, for display or encoding.
//
// Arguments:
//   - mask: One bool per pixel, row-major.
//   - width: Frame width in pixels.
//   - height: Frame height in pixels.
//
// Returns:
//   - *image.Gray: The rendered mask.
func MaskImage(mask []bool, width, height int) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, width, height))
	for i, fg := range mask {
		if fg {
			out.Pix[i] = 255
		}
	}
	return out
}
