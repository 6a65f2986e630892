package gmm

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatesRoundTripReproducesClassification(t *testing.T) {
	const rows, cols, channels = 8, 6, 3
	numPixels := rows * cols

	cfg := DefaultConfig(rows, cols, channels)
	cfg.Runner = SequentialRunner{}

	original, err := NewDetector(cfg)
	require.NoError(t, err)

	mask := make([]bool, numPixels)
	for _, frame := range randomFrames(t, 41, 12, numPixels*channels) {
		require.NoError(t, original.StepBytes(frame, 0.02, mask))
	}

	snapshot, err := original.States()
	require.NoError(t, err)

	clone, err := NewDetector(cfg)
	require.NoError(t, err)
	require.NoError(t, clone.SetStates(snapshot))

	// Both detectors must classify identically from here on.
	maskOriginal := make([]bool, numPixels)
	maskClone := make([]bool, numPixels)
	for _, frame := range randomFrames(t, 43, 12, numPixels*channels) {
		require.NoError(t, original.StepBytes(frame, 0.02, maskOriginal))
		require.NoError(t, clone.StepBytes(frame, 0.02, maskClone))
		assert.Equal(t, maskOriginal, maskClone)
	}

	sOriginal, err := original.States()
	require.NoError(t, err)
	sClone, err := clone.States()
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(sOriginal, sClone))
}

func TestStatesExportLayout(t *testing.T) {
	cfg := singlePixelConfig()
	det, err := NewDetector(cfg)
	require.NoError(t, err)

	mask := make([]bool, 1)
	require.NoError(t, det.StepBytes([]byte{100}, 0.01, mask))
	require.NoError(t, det.StepBytes([]byte{250}, 0.01, mask))

	s, err := det.States()
	require.NoError(t, err)

	require.Len(t, s.Weights, 1*3)
	require.Len(t, s.Means, 1*3*1)
	require.Len(t, s.Variances, 1*3*1)
	require.Len(t, s.ActiveCounts, 1)

	require.Equal(t, int32(2), s.ActiveCounts[0])
	// Rank order: the converged mode first, the fresh outlier mode second.
	assert.Equal(t, float32(100), s.Means[0])
	assert.Equal(t, float32(250), s.Means[1])
	assert.Greater(t, s.Weights[0], s.Weights[1])
	// Unused component slots stay zero.
	assert.Equal(t, float32(0), s.Weights[2])
	assert.Equal(t, float32(0), s.Means[2])
}

func TestSetStatesRequiresFreshDetector(t *testing.T) {
	cfg := singlePixelConfig()
	det, err := NewDetector(cfg)
	require.NoError(t, err)

	mask := make([]bool, 1)
	require.NoError(t, det.StepBytes([]byte{100}, 0.01, mask))
	snapshot, err := det.States()
	require.NoError(t, err)

	err = det.SetStates(snapshot)
	assert.Error(t, err, "import into a detector with observations must fail")

	// After a reset the import is legal again.
	require.NoError(t, det.Reset())
	assert.NoError(t, det.SetStates(snapshot))
}

func TestSetStatesValidatesGeometry(t *testing.T) {
	det, err := NewDetector(singlePixelConfig())
	require.NoError(t, err)

	other, err := NewDetector(DefaultConfig(2, 2, 1))
	require.NoError(t, err)
	snapshot, err := other.States()
	require.NoError(t, err)

	assert.Error(t, det.SetStates(snapshot))
}

func TestSetStatesRejectsOversizedActiveCount(t *testing.T) {
	det, err := NewDetector(singlePixelConfig())
	require.NoError(t, err)

	snapshot, err := det.States()
	require.NoError(t, err)
	snapshot.ActiveCounts[0] = 99

	assert.Error(t, det.SetStates(snapshot))
}

func TestStatesTensorViews(t *testing.T) {
	const rows, cols, channels = 3, 4, 3
	cfg := DefaultConfig(rows, cols, channels)
	cfg.Runner = SequentialRunner{}
	det, err := NewDetector(cfg)
	require.NoError(t, err)

	mask := make([]bool, rows*cols)
	for _, frame := range randomFrames(t, 53, 4, rows*cols*channels) {
		require.NoError(t, det.StepBytes(frame, 0.05, mask))
	}

	s, err := det.States()
	require.NoError(t, err)

	w := s.WeightsTensor()
	assert.Equal(t, []int{cfg.NumGaussians, rows * cols}, []int(w.Shape()))

	m := s.MeansTensor()
	assert.Equal(t, []int{cfg.NumGaussians, channels, rows * cols}, []int(m.Shape()))

	v := s.VariancesTensor()
	assert.Equal(t, []int{cfg.NumGaussians, channels, rows * cols}, []int(v.Shape()))

	// The tensor is a view, not a copy.
	assert.Equal(t, s.Weights[0], w.Data().([]float32)[0])
}
