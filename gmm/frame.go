package gmm

// SampleLayout describes how the per-channel samples of a frame are arranged
// in the flat input buffer.
type SampleLayout int

const (
	// LayoutInterleaved stores all channels of a pixel together
	// (HWC order, the natural layout of decoded images).
	LayoutInterleaved SampleLayout = iota
	// LayoutPlanar stores each channel as a full plane
	// (CHW order, the natural layout of inference tensors and of
	// column-major numeric arrays).
	LayoutPlanar
)

// strides returns the element distance between consecutive pixels and
// between consecutive channels of one pixel. Both layouts run through the
// same algorithm body; only these two numbers differ.
func (l SampleLayout) strides(numPixels, numChannels int) (pixelStride, channelStride int) {
	if l == LayoutPlanar {
		return 1, numPixels
	}
	return numChannels, 1
}

// frameSource yields the per-channel sample of one pixel. Implementations
// are read-only and safe for concurrent use across pixel ranges.
type frameSource interface {
	sample(pixel int, dst []float32)
}

type floatSource struct {
	data          []float32
	pixelStride   int
	channelStride int
}

func (s floatSource) sample(pixel int, dst []float32) {
	base := pixel * s.pixelStride
	for c := range dst {
		dst[c] = s.data[base+c*s.channelStride]
	}
}

type byteSource struct {
	data          []byte
	pixelStride   int
	channelStride int
}

func (s byteSource) sample(pixel int, dst []float32) {
	base := pixel * s.pixelStride
	for c := range dst {
		dst[c] = float32(s.data[base+c*s.channelStride])
	}
}
