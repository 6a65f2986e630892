// Package util - Frame sequence loading for offline detector runs.
package util

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// FrameFile is one decoded frame of an on-disk image sequence.
type FrameFile struct {
	// Path is the path to the image file.
	Path string
	// Index is the frame number parsed from the file name.
	Index int
	// Image is the decoded frame.
	Image image.Image
}

// LoadFrameSequence reads and decodes every image file in a directory and
// returns the frames sorted by their parsed frame number. File names are
// expected to carry the frame number as their trailing digits, e.g.
// frame-0001.jpg or 17.png.
//
// Arguments:
//   - dir: Directory path containing the image sequence.
//
// Returns:
//   - []FrameFile: Decoded frames in playback order.
//   - error: An error if reading, decoding, or name parsing fails.
func LoadFrameSequence(dir string) ([]FrameFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "reading frame directory %s", dir)
	}

	var frames []FrameFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		switch ext {
		case ".jpg", ".jpeg", ".png":
		default:
			continue
		}

		index, err := parseFrameIndex(entry.Name(), ext)
		if err != nil {
			return nil, err
		}

		path := filepath.Join(dir, entry.Name())
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "opening frame %s", path)
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "decoding frame %s", path)
		}

		frames = append(frames, FrameFile{Path: path, Index: index, Image: img})
	}

	sort.Slice(frames, func(i, j int) bool { return frames[i].Index < frames[j].Index })
	return frames, nil
}

// parseFrameIndex extracts the trailing run of digits from a file name.
func parseFrameIndex(name, ext string) (int, error) {
	stem := strings.TrimSuffix(name, ext)
	end := len(stem)
	start := end
	for start > 0 && stem[start-1] >= '0' && stem[start-1] <= '9' {
		start--
	}
	if start == end {
		return 0, errors.Errorf("no frame number in file name %s", name)
	}
	return strconv.Atoi(stem[start:end])
}
