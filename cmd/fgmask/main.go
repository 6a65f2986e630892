// Command fgmask runs the Gaussian mixture foreground detector over a
// camera, a video file, or an on-disk frame sequence and emits the
// foreground mask for every frame.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-vision/blobs"
	"github.com/nvr-ai/go-vision/gmm"
	"github.com/nvr-ai/go-vision/images"
	"github.com/nvr-ai/go-vision/profiler"
	"github.com/nvr-ai/go-vision/util"
)

func main() {
	var (
		videoPath    string
		framesDir    string
		outDir       string
		deviceID     int
		learningRate float64
		numGaussians int
		bgRatio      float64
		showWindow   bool
		minBlobArea  int
	)
	flag.StringVar(&videoPath, "video", "", "Path to a video file; camera is used when empty")
	flag.StringVar(&framesDir, "frames", "", "Directory with a numbered image sequence (offline mode)")
	flag.StringVar(&outDir, "out", "masks", "Output directory for offline mask images")
	flag.IntVar(&deviceID, "device", 0, "Video capture device ID")
	flag.Float64Var(&learningRate, "lr", 0.005, "Learning rate in (0, 1]")
	flag.IntVar(&numGaussians, "gaussians", 5, "Gaussian modes per pixel")
	flag.Float64Var(&bgRatio, "ratio", 0.7, "Minimum background ratio")
	flag.BoolVar(&showWindow, "show", false, "Show the mask in a window (live mode)")
	flag.IntVar(&minBlobArea, "blobs", 0, "Report foreground regions of at least this many pixels (0 disables)")
	flag.Parse()

	if framesDir != "" {
		if err := runOffline(framesDir, outDir, float32(learningRate), numGaussians, float32(bgRatio), minBlobArea); err != nil {
			log.Fatal(err)
		}
		return
	}
	if err := runLive(videoPath, deviceID, float32(learningRate), numGaussians, float32(bgRatio), showWindow, minBlobArea); err != nil {
		log.Fatal(err)
	}
}

func newDetector(rows, cols, numGaussians int, bgRatio float32) (*gmm.Detector, error) {
	cfg := gmm.DefaultConfig(rows, cols, 1)
	cfg.NumGaussians = numGaussians
	cfg.MinBackgroundRatio = bgRatio
	return gmm.NewDetector(cfg)
}

// runLive streams from a camera or video file through gocv.
func runLive(videoPath string, deviceID int, learningRate float32, numGaussians int, bgRatio float32, showWindow bool, minBlobArea int) error {
	var capture *gocv.VideoCapture
	var err error
	if videoPath != "" {
		capture, err = gocv.OpenVideoCapture(videoPath)
		fmt.Printf("processing video: %s\n", videoPath)
	} else {
		capture, err = gocv.OpenVideoCapture(deviceID)
		fmt.Printf("start reading camera device: %d\n", deviceID)
	}
	if err != nil {
		return err
	}
	defer capture.Close()

	var window *gocv.Window
	if showWindow {
		window = gocv.NewWindow("Foreground Mask")
		defer window.Close()
	}

	img := gocv.NewMat()
	defer img.Close()
	gray := gocv.NewMat()
	defer gray.Close()

	var det *gmm.Detector
	var mask []bool
	var maskBytes []byte
	prof := profiler.NewFrameProfiler()

	for {
		if ok := capture.Read(&img); !ok {
			break
		}
		if img.Empty() {
			continue
		}

		gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
		rows, cols := gray.Rows(), gray.Cols()

		// The detector geometry is fixed by the first frame.
		if det == nil {
			det, err = newDetector(rows, cols, numGaussians, bgRatio)
			if err != nil {
				return err
			}
			defer det.Release()
			mask = make([]bool, rows*cols)
			maskBytes = make([]byte, rows*cols)
			fmt.Printf("detector initialized for %dx%d frames\n", cols, rows)
		}

		stop := prof.StartFrame()
		if err := det.StepBytes(gray.ToBytes(), learningRate, mask); err != nil {
			return err
		}
		stop()

		for i, fg := range mask {
			if fg {
				maskBytes[i] = 255
			} else {
				maskBytes[i] = 0
			}
		}

		if window != nil {
			maskMat, err := gocv.NewMatFromBytes(rows, cols, gocv.MatTypeCV8UC1, maskBytes)
			if err != nil {
				return err
			}
			window.IMShow(maskMat)
			maskMat.Close()
			if window.WaitKey(1) == 27 { // esc
				break
			}
		}

		if minBlobArea > 0 {
			regions, err := blobs.Extract(mask, cols, rows, minBlobArea)
			if err != nil {
				return err
			}
			for _, b := range regions {
				fmt.Printf("frame %d | blob %v area=%d\n", prof.Frames(), b.Box.ToRect(), b.Area)
			}
		}

		if prof.Frames()%30 == 0 {
			fmt.Printf("frame %d | FPS: %.1f\n", prof.Frames(), prof.FPS())
		}
	}

	fmt.Println(prof.Summary())
	return nil
}

// runOffline processes a numbered frame sequence and writes one PNG mask
// per frame.
func runOffline(framesDir, outDir string, learningRate float32, numGaussians int, bgRatio float32, minBlobArea int) error {
	frames, err := util.LoadFrameSequence(framesDir)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no frames found in %s", framesDir)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	bounds := frames[0].Image.Bounds()
	rows, cols := bounds.Dy(), bounds.Dx()
	det, err := newDetector(rows, cols, numGaussians, bgRatio)
	if err != nil {
		return err
	}
	defer det.Release()

	mask := make([]bool, rows*cols)
	prof := profiler.NewFrameProfiler()
	for _, frame := range frames {
		stop := prof.StartFrame()
		if err := det.Step(images.ToGraySamples(frame.Image), learningRate, mask); err != nil {
			return err
		}
		stop()

		out := filepath.Join(outDir, fmt.Sprintf("mask-%05d.png", frame.Index))
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		err = png.Encode(f, images.MaskImage(mask, cols, rows))
		f.Close()
		if err != nil {
			return err
		}

		if minBlobArea > 0 {
			regions, err := blobs.Extract(mask, cols, rows, minBlobArea)
			if err != nil {
				return err
			}
			for _, b := range regions {
				fmt.Printf("frame %d | blob %v area=%d\n", frame.Index, b.Box.ToRect(), b.Area)
			}
		}
	}

	fmt.Printf("wrote %d masks to %s\n", len(frames), outDir)
	fmt.Println(prof.Summary())
	return nil
}
