package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/engine/logging"
	"github.com/Carmen-Shannon/oxy-gl/engine/state"
)

// StatsSource supplies the native call counters reported each interval. state.Shadow implements it.
type StatsSource interface {
	Stats() state.Stats
	ResetStats()
}

// Report is one interval's statistics.
type Report struct {
	FPS float64

	// HeapMB is live heap memory, SysMB the memory obtained from the OS, AllocRateMB the
	// allocation churn per second.
	HeapMB      float64
	SysMB       float64
	AllocRateMB float64

	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64

	// Issued and Elided count the setter calls sent to and skipped before the native context.
	Issued int
	Elided int
}

// ElisionRatio returns the share of setter calls the shadow skipped, or 0 without any calls.
func (r Report) ElisionRatio() float64 {
	total := r.Issued + r.Elided
	if total == 0 {
		return 0
	}
	return float64(r.Elided) / float64(total)
}

// Profiler tracks frame rate, memory and state-cache statistics.
// Logs a Report at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	source StatsSource
	now    func() time.Time
	last   Report
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame to track frame timing.
// Logs the interval Report at info level when the update interval has elapsed and resets the
// source's counters.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval || elapsed <= 0 {
		return false
	}

	r := Report{FPS: float64(p.frameCount) / elapsed.Seconds()}

	runtime.ReadMemStats(&p.memStats)
	r.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
	r.SysMB = float64(p.memStats.Sys) / 1024 / 1024
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	r.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 pauses.
	r.GCCount = p.memStats.NumGC
	if r.GCCount > 0 {
		r.LastPauseUs = p.memStats.PauseNs[(r.GCCount-1)%256] / 1000
		start := p.lastGCCount
		if r.GCCount-start > 256 {
			start = r.GCCount - 256
		}
		for i := start; i < r.GCCount; i++ {
			r.MaxPauseUs = max(r.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	if p.source != nil {
		stats := p.source.Stats()
		r.Issued, r.Elided = stats.Issued, stats.Elided
		p.source.ResetStats()
	}

	logging.Logger().Info("profiler",
		"fps", r.FPS,
		"heapMB", r.HeapMB,
		"allocRateMB", r.AllocRateMB,
		"gc", r.GCCount,
		"lastPauseUs", r.LastPauseUs,
		"maxPauseUs", r.MaxPauseUs,
		"sysMB", r.SysMB,
		"issued", r.Issued,
		"elided", r.Elided,
	)

	p.last = r
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = r.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recently logged Report, or the zero Report before the first interval.
func (p *Profiler) Last() Report {
	return p.last
}
