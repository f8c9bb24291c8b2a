// Package profiler summarizes frame timing and memory use of the frame loop.
package profiler

import (
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

// Stats is one reporting window of the profiler.
type Stats struct {
	Frames     int
	FPS        float64
	AvgFrame   time.Duration
	WorstFrame time.Duration

	HeapMB        float64
	AllocRateMBps float64
	SysMB         float64
	GCCount       uint32
	MaxGCPause    time.Duration
}

// Profiler tracks frame rate, frame time and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	logger         zerolog.Logger
	updateInterval time.Duration

	frameCount int
	frameTotal time.Duration
	worstFrame time.Duration
	lastTime   time.Time

	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	last Stats
}

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithLogger sets the logger stats are written to at debug level.
func WithLogger(logger zerolog.Logger) ProfilerOption {
	return func(p *Profiler) {
		p.logger = logger
	}
}

// WithInterval sets the reporting window. Non-positive values are ignored.
//
// Parameters:
//   - d: the window length
//
// Returns:
//   - ProfilerOption: option function to apply
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		logger:         zerolog.Nop(),
		updateInterval: time.Second,
		lastTime:       time.Now(),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Tick should be called once per frame with the time since the previous frame.
// Logs a Stats summary when the update interval has elapsed.
//
// Parameters:
//   - frame: the duration of the frame just finished
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(frame time.Duration) bool {
	p.frameCount++
	p.frameTotal += frame
	p.worstFrame = max(p.worstFrame, frame)

	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	s := Stats{
		Frames:     p.frameCount,
		FPS:        float64(p.frameCount) / elapsed.Seconds(),
		AvgFrame:   p.frameTotal / time.Duration(p.frameCount),
		WorstFrame: p.worstFrame,
		HeapMB:     float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:      float64(p.memStats.Sys) / 1024 / 1024,
		GCCount:    p.memStats.NumGC,
	}
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	s.AllocRateMBps = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 GC pauses.
	startIdx := p.lastGCCount
	if s.GCCount-startIdx > 256 {
		startIdx = s.GCCount - 256
	}
	for i := startIdx; i < s.GCCount; i++ {
		s.MaxGCPause = max(s.MaxGCPause, time.Duration(p.memStats.PauseNs[i%256]))
	}

	p.logger.Debug().
		Float64("fps", s.FPS).
		Dur("avg_frame", s.AvgFrame).
		Dur("worst_frame", s.WorstFrame).
		Float64("heap_mb", s.HeapMB).
		Float64("alloc_mb_s", s.AllocRateMBps).
		Uint32("gc", s.GCCount).
		Dur("gc_pause_max", s.MaxGCPause).
		Float64("sys_mb", s.SysMB).
		Msg("frame stats")

	p.last = s
	p.frameCount = 0
	p.frameTotal = 0
	p.worstFrame = 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recently logged window. Zero before the first report.
func (p *Profiler) Last() Stats {
	return p.last
}
