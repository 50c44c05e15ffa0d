package profiler

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy2d/common"
)

// Stats is one interval's worth of frame and memory statistics.
type Stats struct {
	FPS           float64
	FrameTime     time.Duration // mean frame time over the interval
	HeapMB        float64       // live heap objects
	AllocRateMB   float64       // MB allocated per second, tracks churn
	GCCount       uint32
	LastPause     time.Duration
	MaxPause      time.Duration // longest pause since the previous report
	SysMB         float64       // memory obtained from the OS
	SpritesDrawn  int
	DrawCallCount int
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Reports through slog at Info level at a configurable interval.
type Profiler struct {
	logger         *slog.Logger
	frameCount     int
	sprites        int
	drawCalls      int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
	now            func() time.Time
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	if p.logger == nil {
		p.logger = common.Logger()
	}
	p.lastTime = p.now()
	return p
}

// Count adds the sprites and draw calls recorded in the current frame.
//
// Parameters:
//   - sprites: sprites drawn
//   - drawCalls: draw calls issued
func (p *Profiler) Count(sprites, drawCalls int) {
	p.sprites += sprites
	p.drawCalls += drawCalls
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	s := Stats{
		FPS:           float64(p.frameCount) / elapsed.Seconds(),
		FrameTime:     elapsed / time.Duration(p.frameCount),
		HeapMB:        float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB:   float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:       p.memStats.NumGC,
		SysMB:         float64(p.memStats.Sys) / 1024 / 1024,
		SpritesDrawn:  p.sprites / p.frameCount,
		DrawCallCount: p.drawCalls / p.frameCount,
	}

	if gcCount := s.GCCount; gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses
		s.LastPause = time.Duration(p.memStats.PauseNs[(gcCount-1)%256])
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			s.MaxPause = max(s.MaxPause, time.Duration(p.memStats.PauseNs[i%256]))
		}
	}

	p.logger.Info("profiler",
		"fps", s.FPS,
		"frame_time", s.FrameTime,
		"sprites", s.SpritesDrawn,
		"draw_calls", s.DrawCallCount,
		"heap_mb", s.HeapMB,
		"alloc_rate_mb", s.AllocRateMB,
		"gc", s.GCCount,
		"gc_last_pause", s.LastPause,
		"gc_max_pause", s.MaxPause,
		"sys_mb", s.SysMB,
	)

	p.last = s
	p.frameCount = 0
	p.sprites = 0
	p.drawCalls = 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the statistics of the most recent report.
func (p *Profiler) Last() Stats {
	return p.last
}
