// Package engine composes the capability detector, resource registry, state shadow, matrix engine
// and framebuffer manager over one native context, and issues the draw calls that need all of them.
package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/capability"
	"github.com/Carmen-Shannon/oxy-gl/engine/framebuffer"
	"github.com/Carmen-Shannon/oxy-gl/engine/logging"
	"github.com/Carmen-Shannon/oxy-gl/engine/matrix"
	"github.com/Carmen-Shannon/oxy-gl/engine/native"
	"github.com/Carmen-Shannon/oxy-gl/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gl/engine/resource"
	"github.com/Carmen-Shannon/oxy-gl/engine/state"
	"github.com/Carmen-Shannon/oxy-gl/engine/vertexarray"
)

// Surface is the presentation target the engine loop drives. window.Window implements it.
type Surface interface {
	IsRunning() bool
	PollEvents()
	SwapBuffers()
	Width() int
	Height() int
	SetResizeCallback(callback func(width, height int))
}

// engine implements the Engine interface.
type engine struct {
	ctx          native.Context
	caps         *capability.Capabilities
	reg          *resource.Registry
	shadow       state.Shadow
	matrices     matrix.Engine
	framebuffers framebuffer.Manager

	detectorOptions []capability.DetectorOption
	registryOptions []resource.RegistryBuilderOption
	shadowOptions   []state.ShadowBuilderOption
	managerOptions  []framebuffer.ManagerBuilderOption
	profilerOptions []profiler.ProfilerBuilderOption
	logger          *slog.Logger

	surface Surface
	camera  camera.Camera

	// viewport is the default framebuffer's viewport, tracked across resizes.
	viewport state.Rect

	profiler         *profiler.Profiler
	profilingEnabled bool

	renderCallback   func(deltaTime float32)
	renderFrameLimit time.Duration
	now              func() time.Time
	lastFrame        time.Time

	quit     chan struct{}
	quitOnce sync.Once
	released bool
}

// Engine is the main entry point: it owns every component bound to one native context. An Engine
// is not safe for concurrent use; call it from the thread the context is current on.
type Engine interface {
	// Context returns the native context.
	Context() native.Context

	// Capabilities returns the detected capabilities.
	Capabilities() *capability.Capabilities

	// Registry returns the resource registry.
	Registry() *resource.Registry

	// State returns the binding and enable-state shadow.
	State() state.Shadow

	// Matrices returns the matrix engine synced before every draw.
	Matrices() matrix.Engine

	// Framebuffers returns the framebuffer manager.
	Framebuffers() framebuffer.Manager

	// Profiler returns the profiler ticked by Frame.
	Profiler() *profiler.Profiler

	// Camera returns the camera applied at the start of every frame, or nil.
	Camera() camera.Camera

	// DrawArrays uploads pending matrices and draws count vertices starting at first.
	//
	// Parameters:
	//   - mode: the primitive mode, e.g. native.TRIANGLES
	//   - first: the first vertex
	//   - count: the number of vertices
	//
	// Returns:
	//   - error: the matrix upload error, or common.ErrArgumentShape for negative arguments
	DrawArrays(mode native.Enum, first, count int) error

	// DrawElements uploads pending matrices and draws count indices of the bound index buffer,
	// starting at index first. The index type comes from the buffer's last upload.
	//
	// Parameters:
	//   - mode: the primitive mode
	//   - count: the number of indices; 0 draws every index from first to the end
	//   - first: the first index
	//
	// Returns:
	//   - error: wraps common.ErrInvalidHandle when no index buffer is bound, or
	//     common.ErrArgumentShape for a range outside the buffer
	DrawElements(mode native.Enum, count, first int) error

	// DrawArraysInstanced is DrawArrays repeated for instances instances.
	//
	// Returns:
	//   - error: also wraps common.ErrUnsupported when instancing is unavailable
	DrawArraysInstanced(mode native.Enum, first, count, instances int) error

	// DrawElementsInstanced is DrawElements repeated for instances instances.
	//
	// Returns:
	//   - error: also wraps common.ErrUnsupported when instancing is unavailable
	DrawElementsInstanced(mode native.Enum, count, first, instances int) error

	// Clear clears the buffers in mask of the bound framebuffer.
	//
	// Parameters:
	//   - mask: a combination of native.COLOR_BUFFER_BIT, DEPTH_BUFFER_BIT and STENCIL_BUFFER_BIT
	Clear(mask native.Enum)

	// ReadPixels reads an RGBA8 rectangle of the bound framebuffer.
	//
	// Parameters:
	//   - x, y: the lower left corner
	//   - width, height: the rectangle size
	//
	// Returns:
	//   - []byte: width*height*4 bytes, rows bottom to top
	//   - error: common.ErrArgumentShape for a negative size, or the native error
	ReadPixels(x, y, width, height int) ([]byte, error)

	// CreatePackedVertexArray packs attribute blocks into one new array buffer and creates a
	// vertex array reading them back.
	//
	// Parameters:
	//   - blocks: the attribute blocks
	//   - interleaved: interleave the blocks instead of appending them
	//   - indexBuffer: an index buffer handle, or resource.None
	//
	// Returns:
	//   - resource.Handle: the vertex array
	//   - resource.Handle: the buffer holding the packed data
	//   - error: the packing or vertex array error; nothing is left allocated on failure
	CreatePackedVertexArray(blocks []vertexarray.Block, interleaved bool, indexBuffer resource.Handle) (resource.Handle, resource.Handle, error)

	// VertexBufferDataLength returns the number of vertices an array buffer holds.
	VertexBufferDataLength(h resource.Handle) (int, error)

	// VertexBufferDataByteLength returns the byte length of an array buffer's contents.
	VertexBufferDataByteLength(h resource.Handle) (int, error)

	// IndexBufferDataLength returns the number of indices an index buffer holds.
	IndexBufferDataLength(h resource.Handle) (int, error)

	// IndexBufferDataByteLength returns the byte length of an index buffer's contents.
	IndexBufferDataByteLength(h resource.Handle) (int, error)

	// Resize records a new default framebuffer size: the default viewport follows it and the
	// camera aspect ratio is updated. Called by the surface's resize callback.
	//
	// Parameters:
	//   - width, height: the size in pixels
	Resize(width, height int)

	// SetRenderCallback registers the function called each frame.
	//
	// Parameters:
	//   - callback: function to call each frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	SetRenderFrameLimit(fps float64)

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// Frame runs one frame: applies the camera, calls the render callback, ticks the profiler and
	// sleeps off the remainder of the frame limit.
	//
	// Returns:
	//   - error: wraps common.ErrInvalidHandle after Release
	Frame() error

	// Run drives frames on the calling thread until the surface closes or Quit is called.
	//
	// Returns:
	//   - error: wraps common.ErrUnsupported without a surface
	Run() error

	// Quit stops Run after the current frame. Safe to call multiple times and from any goroutine.
	Quit()

	// Release deletes the engine's internal resources. Caller-created resources are the caller's.
	Release()
}

var _ Engine = &engine{}

// NewEngine detects the context's capabilities and builds every component on top of them.
// Options are applied directly to the engine struct via the option-builder pattern.
//
// Parameters:
//   - ctx: the native context; it must be current
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
//   - error: the detection error, e.g. wrapping common.ErrUnsupported for a context below the
//     required version
func NewEngine(ctx native.Context, options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		ctx:  ctx,
		now:  time.Now,
		quit: make(chan struct{}),
	}
	for _, opt := range options {
		opt(e)
	}
	if e.logger != nil {
		logging.SetLogger(e.logger)
	}

	caps, err := capability.Detect(ctx, e.detectorOptions...)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	e.caps = caps
	e.reg = resource.NewRegistry(ctx, caps, e.registryOptions...)
	e.shadow = state.New(e.reg, e.shadowOptions...)
	e.matrices = e.shadow.Matrices()
	e.framebuffers = framebuffer.NewManager(e.shadow, e.managerOptions...)
	e.profiler = profiler.NewProfiler(append([]profiler.ProfilerBuilderOption{profiler.WithStatsSource(e.shadow)}, e.profilerOptions...)...)
	e.viewport = e.shadow.Viewport()

	if e.surface != nil {
		e.surface.SetResizeCallback(e.Resize)
		e.Resize(e.surface.Width(), e.surface.Height())
	}
	e.lastFrame = e.now()

	logging.Logger().Info("engine: ready",
		"version", fmt.Sprintf("%d.%d", caps.Record.Major, caps.Record.Minor),
		"vertexArrays", caps.Strategies.VertexArrays,
		"instancing", caps.Strategies.Instancing,
		"drawBuffers", caps.Strategies.DrawBuffers)
	return e, nil
}

func (e *engine) Context() native.Context                { return e.ctx }
func (e *engine) Capabilities() *capability.Capabilities { return e.caps }
func (e *engine) Registry() *resource.Registry           { return e.reg }
func (e *engine) State() state.Shadow                    { return e.shadow }
func (e *engine) Matrices() matrix.Engine                { return e.matrices }
func (e *engine) Framebuffers() framebuffer.Manager      { return e.framebuffers }
func (e *engine) Profiler() *profiler.Profiler           { return e.profiler }
func (e *engine) Camera() camera.Camera                  { return e.camera }

func (e *engine) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.viewport = state.Rect{Width: int32(width), Height: int32(height)}
	e.framebuffers.SetScreenSize(width, height)
	if e.shadow.Framebuffer() == resource.None {
		e.shadow.SetViewport(e.viewport)
	}
	if e.camera != nil {
		e.camera.SetAspect(float64(width) / float64(height))
	}
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) Frame() error {
	if e.released {
		return fmt.Errorf("engine: frame after release: %w", common.ErrInvalidHandle)
	}
	start := e.now()
	dt := float32(start.Sub(e.lastFrame).Seconds())
	e.lastFrame = start

	if e.camera != nil {
		e.camera.Apply(e.matrices)
	}
	if e.renderCallback != nil {
		e.renderCallback(dt)
	}
	if e.profilingEnabled {
		e.profiler.Tick()
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - e.now().Sub(start); remaining > 0 {
			time.Sleep(remaining)
		}
	}
	return nil
}

func (e *engine) Run() error {
	if e.surface == nil {
		return fmt.Errorf("engine: run without a surface: %w", common.ErrUnsupported)
	}
	for e.surface.IsRunning() {
		select {
		case <-e.quit:
			return nil
		default:
		}
		e.surface.PollEvents()
		if err := e.Frame(); err != nil {
			return err
		}
		e.surface.SwapBuffers()
	}
	return nil
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quit)
	})
}

func (e *engine) Release() {
	if e.released {
		return
	}
	e.framebuffers.Release()
	e.released = true
	logging.Logger().Debug("engine: released", "stats", e.shadow.Stats())
}
