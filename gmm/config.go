package gmm

import "github.com/pkg/errors"

// Config contains the configuration parameters for a foreground detector.
// All fields are fixed for the lifetime of the detector; changing them
// requires constructing a new detector.
type Config struct {
	// Rows is the frame height in pixels.
	Rows int
	// Cols is the frame width in pixels.
	Cols int
	// Channels is the number of color/intensity channels per pixel
	// (1 for grayscale, 3 for RGB). Defaults to 1 when zero.
	Channels int
	// NumGaussians is the maximum number of Gaussian modes kept per pixel.
	NumGaussians int
	// InitialVariance is the variance assigned to a newly created mode.
	// Scale it to the sample range: 30*30 is a reasonable choice for 8-bit
	// samples, (30.0/255)^2 for samples normalized to [0, 1].
	InitialVariance float32
	// InitialWeight is the weight assigned to a newly created mode before
	// renormalization.
	InitialWeight float32
	// VarianceThreshold is the squared match tolerance: a sample matches a
	// mode when its squared distance to the mode mean is below
	// VarianceThreshold times the mode's total variance. 6.25 corresponds
	// to 2.5 standard deviations.
	VarianceThreshold float32
	// MinBackgroundRatio is the minimum cumulative weight, among the
	// highest-ranked modes, required to consider a pixel explained by the
	// background model.
	MinBackgroundRatio float32
	// Layout selects how samples are arranged in the input buffer.
	Layout SampleLayout
	// Runner controls how the per-pixel work is partitioned across
	// goroutines. Defaults to a CPU-bound parallel runner. Any runner
	// produces identical results; pixels never interact.
	Runner Runner
}

// DefaultConfig returns the standard parameterization for 8-bit video,
// matching the defaults commonly used with Stauffer-Grimson mixtures:
// 5 modes, 2.5 standard deviation match tolerance, 0.7 background ratio.
func DefaultConfig(rows, cols, channels int) Config {
	return Config{
		Rows:               rows,
		Cols:               cols,
		Channels:           channels,
		NumGaussians:       5,
		InitialVariance:    30 * 30,
		InitialWeight:      0.05,
		VarianceThreshold:  2.5 * 2.5,
		MinBackgroundRatio: 0.7,
		Layout:             LayoutInterleaved,
	}
}

// Validate checks the configuration for values the detector cannot operate
// with.
func (c *Config) Validate() error {
	if c.Rows <= 0 || c.Cols <= 0 {
		return errors.Errorf("gmm: invalid frame dimensions %dx%d", c.Rows, c.Cols)
	}
	if c.Channels < 0 {
		return errors.Errorf("gmm: invalid channel count %d", c.Channels)
	}
	if c.NumGaussians <= 0 {
		return errors.New("gmm: NumGaussians must be positive")
	}
	if c.InitialVariance <= 0 {
		return errors.New("gmm: InitialVariance must be positive")
	}
	if c.InitialWeight <= 0 || c.InitialWeight > 1 {
		return errors.Errorf("gmm: InitialWeight %v outside (0, 1]", c.InitialWeight)
	}
	if c.VarianceThreshold <= 0 {
		return errors.New("gmm: VarianceThreshold must be positive")
	}
	if c.MinBackgroundRatio <= 0 || c.MinBackgroundRatio > 1 {
		return errors.Errorf("gmm: MinBackgroundRatio %v outside (0, 1]", c.MinBackgroundRatio)
	}
	if c.Layout != LayoutInterleaved && c.Layout != LayoutPlanar {
		return errors.Errorf("gmm: unknown sample layout %d", c.Layout)
	}
	return nil
}
