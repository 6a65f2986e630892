package images

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-vision/gmm"
)

func testImage(t *testing.T) *image.RGBA {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	colors := []color.RGBA{
		{255, 0, 0, 255}, {0, 255, 0, 255}, {0, 0, 255, 255},
		{0, 0, 0, 255}, {255, 255, 255, 255}, {128, 128, 128, 255},
	}
	i := 0
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			img.Set(x, y, colors[i])
			i++
		}
	}
	return img
}

func TestToGraySamples(t *testing.T) {
	samples := ToGraySamples(testImage(t))
	require.Len(t, samples, 6)

	assert.InDelta(t, 0.299*255, samples[0], 0.5, "red pixel")
	assert.InDelta(t, 0.587*255, samples[1], 0.5, "green pixel")
	assert.InDelta(t, 0.114*255, samples[2], 0.5, "blue pixel")
	assert.InDelta(t, 0, samples[3], 0.5, "black pixel")
	assert.InDelta(t, 255, samples[4], 0.5, "white pixel")
	assert.InDelta(t, 128, samples[5], 0.5, "gray pixel")
}

func TestToRGBSamplesLayouts(t *testing.T) {
	img := testImage(t)
	interleaved := ToRGBSamples(img, gmm.LayoutInterleaved)
	planar := ToRGBSamples(img, gmm.LayoutPlanar)

	require.Len(t, interleaved, 18)
	require.Len(t, planar, 18)

	// Same pixel data, different arrangement.
	const numPixels = 6
	for p := 0; p < numPixels; p++ {
		for c := 0; c < 3; c++ {
			assert.Equal(t, interleaved[p*3+c], planar[p+c*numPixels],
				"pixel %d channel %d", p, c)
		}
	}

	// First pixel is pure red.
	assert.Equal(t, float32(255), interleaved[0])
	assert.Equal(t, float32(0), interleaved[1])
	assert.Equal(t, float32(0), interleaved[2])
}

func TestDownscale(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	small := Downscale(img, 32, 24)

	assert.Equal(t, 32, small.Bounds().Dx())
	assert.Equal(t, 24, small.Bounds().Dy())
}

func TestMaskImage(t *testing.T) {
	mask := []bool{true, false, false, true}
	img := MaskImage(mask, 2, 2)

	assert.Equal(t, uint8(255), img.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0), img.GrayAt(1, 0).Y)
	assert.Equal(t, uint8(0), img.GrayAt(0, 1).Y)
	assert.Equal(t, uint8(255), img.GrayAt(1, 1).Y)
}
