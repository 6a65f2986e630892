// Package gmm implements adaptive per-pixel background subtraction using
// the Stauffer-Grimson Gaussian mixture model.
//
// Every pixel owns a small ranked mixture of Gaussian modes describing its
// recent value history. Each frame, the pixel's sample is matched against
// the mixture (first match in rank order wins), the matched mode is blended
// toward the sample, the mixture is renormalized analytically, and the pixel
// is classified as foreground or background depending on whether the
// matched mode sits inside the cumulative weight mass that explains the
// background.
//
// Pipeline Overview:
//
// ┌──────────────────────────────┐
// │ Input Frame (flat samples)   │
// └──────┬───────────────────────┘
// ┌──────────────────────────────┐
// │ Per-pixel match-or-create    │
// │ + EMA update + renormalize   │
// └──────┬───────────────────────┘
// ┌──────────────────────────────┐
// │ Ranked cumulative weight     │
// │ classification               │
// └──────┬───────────────────────┘
// ┌──────────────────────────────┐
// │ Foreground Mask ([]bool)     │
// └──────────────────────────────┘
//
// Usage:
//
//	det, err := gmm.NewDetector(gmm.DefaultConfig(rows, cols, 1))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	mask := make([]bool, rows*cols)
//	for {
//	    frame := getNextFrame()
//	    if err := det.StepBytes(frame, 0.005, mask); err != nil {
//	        log.Fatal(err)
//	    }
//	    consumeMask(mask)
//	}
//
// The detector only classifies pixels. Tracking, connected components, and
// morphological cleanup of the mask belong to the caller.
package gmm

import (
	"sync"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Detector maintains one Gaussian mixture per pixel and classifies each
// pixel of every incoming frame as foreground or background.
//
// Step, Reset, SetStates, and Release are serialized against each other;
// within a step the pixel range is partitioned with exclusive per-partition
// ownership, so the per-pixel work runs without locks.
type Detector struct {
	mu        sync.Mutex
	cfg       Config
	params    modelParams
	rows      int
	cols      int
	channels  int
	numPixels int
	models    []mixture
	runner    Runner
	released  bool
}

// NewDetector allocates the per-pixel mixture models for the configured
// frame geometry. Every model reserves capacity for NumGaussians components
// up front so no per-pixel allocation happens while streaming.
//
// Arguments:
//   - cfg: Detector configuration. Channels defaults to 1, Runner to a
//     CPU-bound parallel runner.
//
// Returns:
//   - *Detector: The initialized detector.
//   - error: An error if the configuration is invalid.
func NewDetector(cfg Config) (*Detector, error) {
	if cfg.Channels == 0 {
		cfg.Channels = 1
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Runner == nil {
		cfg.Runner = NewParallelRunner(0)
	}

	numPixels := cfg.Rows * cfg.Cols
	models := make([]mixture, numPixels)
	for i := range models {
		models[i].pixel = i
		models[i].components = make([]gaussian, 0, cfg.NumGaussians)
	}

	return &Detector{
		cfg: cfg,
		params: modelParams{
			numGaussians:       cfg.NumGaussians,
			initialVariance:    cfg.InitialVariance,
			initialWeight:      cfg.InitialWeight,
			varianceThreshold:  cfg.VarianceThreshold,
			minBackgroundRatio: cfg.MinBackgroundRatio,
		},
		rows:      cfg.Rows,
		cols:      cfg.Cols,
		channels:  cfg.Channels,
		numPixels: numPixels,
		models:    models,
		runner:    cfg.Runner,
	}, nil
}

// Rows returns the configured frame height.
func (d *Detector) Rows() int { return d.rows }

// Cols returns the configured frame width.
func (d *Detector) Cols() int { return d.cols }

// Channels returns the configured channel count.
func (d *Detector) Channels() int { return d.channels }

// NumPixels returns rows*cols.
func (d *Detector) NumPixels() int { return d.numPixels }

// Step classifies one frame of float32 samples and updates the per-pixel
// models in place. The sample buffer must hold NumPixels*Channels values in
// the configured layout; mask must hold NumPixels entries and receives true
// for foreground pixels.
//
// Arguments:
//   - samples: Flat sample buffer for the frame.
//   - learningRate: EMA blending factor in (0, 1].
//   - mask: Output buffer, one bool per pixel.
//
// Returns:
//   - error: An error if the detector is released or a buffer is missized.
func (d *Detector) Step(samples []float32, learningRate float32, mask []bool) error {
	pixelStride, channelStride := d.cfg.Layout.strides(d.numPixels, d.channels)
	src := floatSource{data: samples, pixelStride: pixelStride, channelStride: channelStride}
	return d.step(src, len(samples), learningRate, mask)
}

// StepBytes is Step for 8-bit samples. Byte frames run through the same
// algorithm body as float frames and produce identical classifications for
// identical pixel values.
func (d *Detector) StepBytes(samples []byte, learningRate float32, mask []bool) error {
	pixelStride, channelStride := d.cfg.Layout.strides(d.numPixels, d.channels)
	src := byteSource{data: samples, pixelStride: pixelStride, channelStride: channelStride}
	return d.step(src, len(samples), learningRate, mask)
}

// StepTensor classifies a float32 tensor frame. The tensor must be shaped
// [channels, rows, cols] or [rows, cols] (channels = 1) and is read in its
// native CHW plane order, independent of the configured buffer layout.
func (d *Detector) StepTensor(t *tensor.Dense, learningRate float32, mask []bool) error {
	if t.Dtype() != tensor.Float32 {
		return errors.Errorf("gmm: tensor dtype %v, want float32", t.Dtype())
	}
	shape := t.Shape()
	switch len(shape) {
	case 2:
		if d.channels != 1 {
			return errors.Errorf("gmm: 2-d tensor for %d-channel detector", d.channels)
		}
		if shape[0] != d.rows || shape[1] != d.cols {
			return errors.Errorf("gmm: tensor shape %v, want [%d %d]", shape, d.rows, d.cols)
		}
	case 3:
		if shape[0] != d.channels || shape[1] != d.rows || shape[2] != d.cols {
			return errors.Errorf("gmm: tensor shape %v, want [%d %d %d]", shape, d.channels, d.rows, d.cols)
		}
	default:
		return errors.Errorf("gmm: tensor rank %d, want 2 or 3", len(shape))
	}

	data := t.Data().([]float32)
	src := floatSource{data: data, pixelStride: 1, channelStride: d.numPixels}
	return d.step(src, len(data), learningRate, mask)
}

func (d *Detector) step(src frameSource, sampleLen int, learningRate float32, mask []bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.released {
		return errors.New("gmm: detector is released")
	}
	if sampleLen != d.numPixels*d.channels {
		return errors.Errorf("gmm: sample buffer holds %d values, want %d", sampleLen, d.numPixels*d.channels)
	}
	if len(mask) != d.numPixels {
		return errors.Errorf("gmm: mask holds %d entries, want %d", len(mask), d.numPixels)
	}
	if learningRate <= 0 || learningRate > 1 {
		return errors.Errorf("gmm: learning rate %v outside (0, 1]", learningRate)
	}

	models := d.models
	params := d.params
	channels := d.channels
	d.runner.Run(d.numPixels, func(lo, hi int) {
		scratch := make([]float32, channels)
		for i := lo; i < hi; i++ {
			src.sample(i, scratch)
			m := &models[i]
			match := m.findMatchAndUpdate(scratch, learningRate, &params)
			mask[i] = m.isForeground(match, params.minBackgroundRatio)
		}
	})
	return nil
}

// Reset clears every pixel model back to the never-observed state. The
// configuration and the reserved per-model capacity are kept, so the
// detector behaves exactly like a freshly constructed one.
func (d *Detector) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.released {
		return errors.New("gmm: detector is released")
	}
	for i := range d.models {
		d.models[i].reset()
	}
	return nil
}

// Release frees the model store. The detector is terminal afterward; every
// subsequent operation returns an error. Construct a new detector to reuse
// the configuration.
func (d *Detector) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.models = nil
	d.released = true
}
