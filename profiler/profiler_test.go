package profiler

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObserveAccumulates(t *testing.T) {
	p := NewFrameProfiler()
	p.Observe(10 * time.Millisecond)
	p.Observe(20 * time.Millisecond)
	p.Observe(30 * time.Millisecond)

	assert.Equal(t, int64(3), p.Frames())
	summary := p.Summary()
	assert.Contains(t, summary, "frames=3")
	assert.Contains(t, summary, "avg=20.00ms")
	assert.Contains(t, summary, "min=10.00ms")
	assert.Contains(t, summary, "max=30.00ms")
}

func TestStartFrameRecordsOneFrame(t *testing.T) {
	p := NewFrameProfiler()
	stop := p.StartFrame()
	stop()
	assert.Equal(t, int64(1), p.Frames())
}

func TestEmptySummary(t *testing.T) {
	p := NewFrameProfiler()
	assert.True(t, strings.Contains(p.Summary(), "no frames"))
}
