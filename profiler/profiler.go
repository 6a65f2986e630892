// Package profiler - Lightweight frame-rate and step-latency tracking for
// real-time detection loops.
package profiler

import (
	"fmt"
	"sync"
	"time"
)

// FrameProfiler tracks per-frame processing latency and throughput for a
// streaming loop. It is safe for concurrent use, though a detection loop
// normally observes from a single goroutine.
type FrameProfiler struct {
	mu sync.Mutex

	frames     int64
	totalTime  time.Duration
	maxTime    time.Duration
	minTime    time.Duration
	windowN    int
	windowTime time.Duration
	windowFPS  float64
	lastReport time.Time
}

// NewFrameProfiler returns a profiler ready to observe frames.
func NewFrameProfiler() *FrameProfiler {
	return &FrameProfiler{lastReport: time.Now()}
}

// StartFrame marks the beginning of one frame's processing and returns a
// function that records its duration when called.
//
// @example
//
//	stop := prof.StartFrame()
//	det.StepBytes(frame, rate, mask)
//	stop()
func (p *FrameProfiler) StartFrame() func() {
	start := time.Now()
	return func() {
		p.Observe(time.Since(start))
	}
}

// Observe records the processing duration of one frame.
func (p *FrameProfiler) Observe(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frames++
	p.totalTime += d
	if d > p.maxTime {
		p.maxTime = d
	}
	if p.minTime == 0 || d < p.minTime {
		p.minTime = d
	}

	p.windowN++
	p.windowTime += d
	if elapsed := time.Since(p.lastReport); elapsed >= time.Second {
		p.windowFPS = float64(p.windowN) / elapsed.Seconds()
		p.windowN = 0
		p.windowTime = 0
		p.lastReport = time.Now()
	}
}

// FPS returns the throughput measured over the most recent one-second
// window.
func (p *FrameProfiler) FPS() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.windowFPS
}

// Frames returns the total number of frames observed.
func (p *FrameProfiler) Frames() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}

// Summary returns a one-line report of the collected statistics.
func (p *FrameProfiler) Summary() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.frames == 0 {
		return "no frames observed"
	}
	avg := p.totalTime / time.Duration(p.frames)
	return fmt.Sprintf("frames=%d avg=%.2fms min=%.2fms max=%.2fms",
		p.frames,
		float64(avg.Microseconds())/1000,
		float64(p.minTime.Microseconds())/1000,
		float64(p.maxTime.Microseconds())/1000)
}
