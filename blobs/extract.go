// Package blobs groups foreground mask pixels into connected regions and
// reports one bounding box per region. It is the usual consumer of the
// masks produced by the gmm detector: a surveillance pipeline runs
// background subtraction first and then extracts blobs to get object
// candidates.
package blobs

import "github.com/pkg/errors"

// Blob is one 8-connected foreground region.
type Blob struct {
	// Box is the tight bounding box around the region.
	Box BoundingBox
	// Area is the number of foreground pixels in the region.
	Area int
}

// Extract labels the 8-connected foreground regions of a row-major mask
// and returns one Blob per region whose pixel count is at least minArea.
//
// Arguments:
//   - mask: Row-major foreground mask of length rows*cols.
//   - cols: Frame width in pixels.
//   - rows: Frame height in pixels.
//   - minArea: Minimum pixel count for a region to be reported; regions
//     below it are treated as noise and dropped.
//
// Returns:
//   - []Blob: The regions in discovery order (top-to-bottom, left-to-right).
//   - error: An error if the mask length does not match the geometry.
//
// @example
//
//	blobs, err := blobs.Extract(mask, 640, 480, 50)
//	for _, b := range blobs {
//		fmt.Println(b.Box.ToRect(), b.Area)
//	}
func Extract(mask []bool, cols, rows, minArea int) ([]Blob, error) {
	if len(mask) != rows*cols {
		return nil, errors.Errorf("mask length %d does not match %dx%d frame", len(mask), cols, rows)
	}

	visited := make([]bool, len(mask))
	var stack []int
	var out []Blob

	for seed := range mask {
		if !mask[seed] || visited[seed] {
			continue
		}

		// Flood fill from the seed, tracking extents and area.
		minX, minY := seed%cols, seed/cols
		maxX, maxY := minX, minY
		area := 0
		visited[seed] = true
		stack = append(stack[:0], seed)
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			area++

			x, y := p%cols, p/cols
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}

			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= cols || ny < 0 || ny >= rows {
						continue
					}
					n := ny*cols + nx
					if mask[n] && !visited[n] {
						visited[n] = true
						stack = append(stack, n)
					}
				}
			}
		}

		if area < minArea {
			continue
		}
		out = append(out, Blob{
			Box: BoundingBox{
				X1: float32(minX),
				Y1: float32(minY),
				X2: float32(maxX + 1),
				Y2: float32(maxY + 1),
			},
			Area: area,
		})
	}
	return out, nil
}
