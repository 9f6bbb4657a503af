package engine

import (
	"log/slog"
	"os"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/capability"
	"github.com/Carmen-Shannon/oxy-gl/engine/config"
	"github.com/Carmen-Shannon/oxy-gl/engine/framebuffer"
	"github.com/Carmen-Shannon/oxy-gl/engine/matrix"
	"github.com/Carmen-Shannon/oxy-gl/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gl/engine/resource"
	"github.com/Carmen-Shannon/oxy-gl/engine/state"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithConfig applies every section of a loaded config. Options after it override its values.
// An enabled logging section installs a logger writing to standard error.
//
// Parameters:
//   - cfg: the config, e.g. from config.Load
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithConfig(cfg config.Config) EngineBuilderOption {
	return func(e *engine) {
		e.detectorOptions = append(e.detectorOptions, cfg.DetectorOptions()...)
		e.registryOptions = append(e.registryOptions, cfg.RegistryOptions()...)
		e.shadowOptions = append(e.shadowOptions, cfg.ShadowOptions()...)
		if l := cfg.Logging.NewLogger(os.Stderr); l != nil {
			e.logger = l
		}
		e.profilingEnabled = cfg.Profiling.Enabled
		e.profilerOptions = append(e.profilerOptions, profiler.WithInterval(time.Duration(cfg.Profiling.IntervalMS)*time.Millisecond))
	}
}

// WithLogger installs l as the logger of every engine package.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(l *slog.Logger) EngineBuilderOption {
	return func(e *engine) {
		e.logger = l
	}
}

// WithRequiredVersion sets the context major version the engine requires.
//
// Parameters:
//   - major: the required major version
//   - allowFallback: if true, a lower version is accepted with a warning
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRequiredVersion(major int, allowFallback bool) EngineBuilderOption {
	return func(e *engine) {
		e.detectorOptions = append(e.detectorOptions,
			capability.WithRequiredVersion(major), capability.WithVersionFallback(allowFallback))
	}
}

// WithAttributeLocations replaces the default attribute name to location table.
func WithAttributeLocations(locations map[string]uint32) EngineBuilderOption {
	return func(e *engine) {
		e.registryOptions = append(e.registryOptions, resource.WithAttributeLocations(locations))
	}
}

// WithAssertions enables the native error checks after multi-call state batches.
func WithAssertions(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.shadowOptions = append(e.shadowOptions, state.WithAssertions(enabled))
	}
}

// WithMatrixOptions forwards options to the matrix engine.
func WithMatrixOptions(options ...matrix.EngineBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.shadowOptions = append(e.shadowOptions, state.WithMatrixOptions(options...))
	}
}

// WithBlitProgram replaces the framebuffer manager's built-in blit shaders.
func WithBlitProgram(src resource.ProgramSource) EngineBuilderOption {
	return func(e *engine) {
		e.managerOptions = append(e.managerOptions, framebuffer.WithBlitProgram(src))
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfilerOptions forwards options to the profiler.
func WithProfilerOptions(options ...profiler.ProfilerBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.profilerOptions = append(e.profilerOptions, options...)
	}
}

// WithSurface sets the surface Run presents to. Its size becomes the default viewport and its
// resize events keep the viewport in step.
//
// Parameters:
//   - s: the surface, usually a window.Window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSurface(s Surface) EngineBuilderOption {
	return func(e *engine) {
		e.surface = s
	}
}

// WithCamera sets a camera applied to the matrix engine at the start of every frame.
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithRenderFrameLimit sets an optional frame rate cap in frames per second.
// Pass 0 to uncap the loop (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.SetRenderFrameLimit(fps)
	}
}

// WithClock replaces the time source used for frame deltas and the frame limit.
func WithClock(now func() time.Time) EngineBuilderOption {
	return func(e *engine) {
		if now != nil {
			e.now = now
		}
	}
}
