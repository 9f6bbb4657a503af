package profiler

import "time"

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(p *Profiler)

// WithInterval sets how often Tick logs a Report. Values <= 0 keep the default of one second.
//
// Parameters:
//   - d: the interval
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithStatsSource reports the source's native call counters alongside frame statistics.
//
// Parameters:
//   - s: the counter source, usually the state shadow
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithStatsSource(s StatsSource) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.source = s
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}
