package util

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, 2, 2))))
}

func TestLoadFrameSequenceSortsByIndex(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "frame-10.png"))
	writePNG(t, filepath.Join(dir, "frame-2.png"))
	writePNG(t, filepath.Join(dir, "frame-1.png"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	frames, err := LoadFrameSequence(dir)
	require.NoError(t, err)
	require.Len(t, frames, 3)

	assert.Equal(t, 1, frames[0].Index)
	assert.Equal(t, 2, frames[1].Index)
	assert.Equal(t, 10, frames[2].Index)
	assert.NotNil(t, frames[0].Image)
}

func TestLoadFrameSequenceRejectsUnnumberedNames(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "cover.png"))

	_, err := LoadFrameSequence(dir)
	assert.Error(t, err)
}

func TestLoadFrameSequenceMissingDirectory(t *testing.T) {
	_, err := LoadFrameSequence(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
