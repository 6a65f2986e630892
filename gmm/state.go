package gmm

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// States is a bulk snapshot of every pixel's mixture, used for
// checkpointing and cloning. Buffers are pixel-major, then channel-major,
// then component-major:
//
//	Weights[pixel + numPixels*g]
//	Means[pixel + numPixels*(ch + numChannels*g)]
//	Variances[pixel + numPixels*(ch + numChannels*g)]
//	ActiveCounts[pixel]
//
// Entries beyond a pixel's active count are zero. The variance of a mode is
// a single scalar internally; it is replicated across the channel slots on
// export so the snapshot shape is independent of the variance model.
type States struct {
	NumPixels    int
	NumGaussians int
	NumChannels  int

	Weights      []float32
	Means        []float32
	Variances    []float32
	ActiveCounts []int32
}

// WeightsTensor returns the weights as a [numGaussians, numPixels] tensor
// view over the snapshot buffer.
func (s *States) WeightsTensor() *tensor.Dense {
	return tensor.New(tensor.WithShape(s.NumGaussians, s.NumPixels), tensor.WithBacking(s.Weights))
}

// MeansTensor returns the means as a [numGaussians, numChannels, numPixels]
// tensor view over the snapshot buffer.
func (s *States) MeansTensor() *tensor.Dense {
	return tensor.New(tensor.WithShape(s.NumGaussians, s.NumChannels, s.NumPixels), tensor.WithBacking(s.Means))
}

// VariancesTensor returns the variances as a
// [numGaussians, numChannels, numPixels] tensor view over the snapshot
// buffer.
func (s *States) VariancesTensor() *tensor.Dense {
	return tensor.New(tensor.WithShape(s.NumGaussians, s.NumChannels, s.NumPixels), tensor.WithBacking(s.Variances))
}

func (s *States) validate(numPixels, numGaussians, numChannels int) error {
	if s.NumPixels != numPixels || s.NumGaussians != numGaussians || s.NumChannels != numChannels {
		return errors.Errorf("gmm: snapshot geometry %dx%dx%d, detector wants %dx%dx%d",
			s.NumPixels, s.NumGaussians, s.NumChannels, numPixels, numGaussians, numChannels)
	}
	if len(s.Weights) != numPixels*numGaussians {
		return errors.Errorf("gmm: weights buffer holds %d values, want %d", len(s.Weights), numPixels*numGaussians)
	}
	statLen := numPixels * numGaussians * numChannels
	if len(s.Means) != statLen {
		return errors.Errorf("gmm: means buffer holds %d values, want %d", len(s.Means), statLen)
	}
	if len(s.Variances) != statLen {
		return errors.Errorf("gmm: variances buffer holds %d values, want %d", len(s.Variances), statLen)
	}
	if len(s.ActiveCounts) != numPixels {
		return errors.Errorf("gmm: active counts buffer holds %d values, want %d", len(s.ActiveCounts), numPixels)
	}
	return nil
}

// States exports every pixel's mixture, in rank order, into freshly
// allocated flat buffers. Not safe to call while a Step is in flight on
// another goroutine; export is an out-of-band operation.
func (d *Detector) States() (*States, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.released {
		return nil, errors.New("gmm: detector is released")
	}

	p, g, c := d.numPixels, d.cfg.NumGaussians, d.channels
	s := &States{
		NumPixels:    p,
		NumGaussians: g,
		NumChannels:  c,
		Weights:      make([]float32, p*g),
		Means:        make([]float32, p*g*c),
		Variances:    make([]float32, p*g*c),
		ActiveCounts: make([]int32, p),
	}

	for pixel := range d.models {
		m := &d.models[pixel]
		s.ActiveCounts[pixel] = int32(len(m.components))
		for gi := range m.components {
			comp := &m.components[gi]
			s.Weights[pixel+p*gi] = comp.weight
			for ch := 0; ch < c; ch++ {
				idx := pixel + p*(ch+c*gi)
				s.Means[idx] = comp.mean[ch]
				s.Variances[idx] = comp.variance
			}
		}
	}
	return s, nil
}

// SetStates rebuilds every pixel's mixture from a snapshot, appending
// components in the stored order. It must be called on a freshly
// initialized (or reset) detector with the same geometry; afterward the
// detector classifies identically to the one the snapshot was taken from.
func (d *Detector) SetStates(s *States) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.released {
		return errors.New("gmm: detector is released")
	}
	if err := s.validate(d.numPixels, d.cfg.NumGaussians, d.channels); err != nil {
		return err
	}
	for pixel := range d.models {
		if len(d.models[pixel].components) != 0 {
			return errors.New("gmm: SetStates requires a freshly initialized detector")
		}
	}

	p, c := d.numPixels, d.channels
	for pixel := range d.models {
		m := &d.models[pixel]
		active := int(s.ActiveCounts[pixel])
		if active < 0 || active > d.cfg.NumGaussians {
			return errors.Errorf("gmm: pixel %d active count %d outside [0, %d]", pixel, active, d.cfg.NumGaussians)
		}
		for gi := 0; gi < active; gi++ {
			mean := make([]float32, c)
			var variance float32
			for ch := 0; ch < c; ch++ {
				idx := pixel + p*(ch+c*gi)
				mean[ch] = s.Means[idx]
				variance += s.Variances[idx]
			}
			variance /= float32(c)
			m.components = append(m.components, gaussian{
				weight:   s.Weights[pixel+p*gi],
				variance: variance,
				mean:     mean,
			})
		}
	}
	return nil
}
