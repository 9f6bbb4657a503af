package engine

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/config"
	"github.com/Carmen-Shannon/oxy-gl/engine/framebuffer"
	"github.com/Carmen-Shannon/oxy-gl/engine/logging"
	"github.com/Carmen-Shannon/oxy-gl/engine/matrix"
	"github.com/Carmen-Shannon/oxy-gl/engine/native"
	"github.com/Carmen-Shannon/oxy-gl/engine/native/nativetest"
	"github.com/Carmen-Shannon/oxy-gl/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gl/engine/resource"
	"github.com/Carmen-Shannon/oxy-gl/engine/state"
	"github.com/Carmen-Shannon/oxy-gl/engine/vertexarray"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCore(t *testing.T, options ...EngineBuilderOption) (*nativetest.Core, Engine) {
	t.Helper()
	ctx := nativetest.NewCore()
	e, err := NewEngine(ctx, options...)
	require.NoError(t, err)
	t.Cleanup(func() { logging.SetLogger(nil) })
	return ctx, e
}

func useProgram(t *testing.T, e Engine, vertex string) resource.Handle {
	t.Helper()
	h, err := e.Registry().CreateProgram(resource.ProgramSource{Vertex: vertex, Fragment: nativetest.ColorFragment})
	require.NoError(t, err)
	require.NoError(t, e.State().SetProgram(h))
	return h
}

type fakeSurface struct {
	width, height int
	frames        int
	polls, swaps  int
	resize        func(width, height int)
}

func (s *fakeSurface) IsRunning() bool { return s.swaps < s.frames }
func (s *fakeSurface) PollEvents()     { s.polls++ }
func (s *fakeSurface) SwapBuffers()    { s.swaps++ }
func (s *fakeSurface) Width() int      { return s.width }
func (s *fakeSurface) Height() int     { return s.height }
func (s *fakeSurface) SetResizeCallback(callback func(width, height int)) {
	s.resize = callback
}

func TestNewEngineComposesComponents(t *testing.T) {
	ctx, e := newCore(t)
	assert.Same(t, ctx, e.Context())
	assert.Same(t, e.Capabilities(), e.Registry().Capabilities())
	assert.Same(t, e.Registry(), e.State().Registry())
	assert.Same(t, e.Matrices(), e.State().Matrices())
	assert.NotNil(t, e.Framebuffers())
	assert.NotNil(t, e.Profiler())
	assert.Nil(t, e.Camera())
	assert.Equal(t, 3, e.Capabilities().Record.Major)
}

func TestNewEngineVersionPolicy(t *testing.T) {
	_, err := NewEngine(nativetest.New(), WithRequiredVersion(3, false))
	require.ErrorIs(t, err, common.ErrUnsupported)

	e, err := NewEngine(nativetest.New(), WithRequiredVersion(3, true))
	require.NoError(t, err)
	assert.Equal(t, 2, e.Capabilities().Record.Major)
}

func TestDrawArraysSyncsMatrices(t *testing.T) {
	ctx, e := newCore(t)
	useProgram(t, e, nativetest.LitVertex)
	e.Matrices().Translate(matrix.View, 0, 0, -5)
	ctx.ResetCalls()

	require.NoError(t, e.DrawArrays(native.TRIANGLES, 0, 3))
	for _, k := range matrix.Kinds {
		assert.Len(t, ctx.Uploads(e.Matrices().UniformName(k)), 1, k.String())
	}

	require.NoError(t, e.DrawArrays(native.TRIANGLES, 3, 3))
	assert.Len(t, ctx.AllUploads(), len(matrix.Kinds))

	draws := ctx.Draws()
	require.Len(t, draws, 2)
	assert.Equal(t, int32(3), draws[1].First)
	require.ErrorIs(t, e.DrawArrays(native.TRIANGLES, -1, 3), common.ErrArgumentShape)
}

func TestDrawElementsUsesBoundIndexType(t *testing.T) {
	ctx, e := newCore(t)
	require.ErrorIs(t, e.DrawElements(native.TRIANGLES, 0, 0), common.ErrInvalidHandle)

	idx, err := e.State().CreateBuffer(native.ELEMENT_ARRAY_BUFFER, []uint16{0, 1, 2, 2, 1, 3})
	require.NoError(t, err)
	require.NoError(t, e.State().SetBuffer(native.ELEMENT_ARRAY_BUFFER, idx))

	require.NoError(t, e.DrawElements(native.TRIANGLES, 0, 0))
	require.NoError(t, e.DrawElements(native.TRIANGLES, 3, 3))
	draws := ctx.Draws()
	require.Len(t, draws, 2)
	assert.True(t, draws[0].Indexed)
	assert.Equal(t, native.UNSIGNED_SHORT, draws[0].Type)
	assert.Equal(t, int32(6), draws[0].Count)
	assert.Equal(t, int32(3), draws[1].Count)

	require.ErrorIs(t, e.DrawElements(native.TRIANGLES, 4, 3), common.ErrArgumentShape)
	empty, err := e.State().CreateBuffer(native.ELEMENT_ARRAY_BUFFER, nil)
	require.NoError(t, err)
	require.NoError(t, e.State().SetBuffer(native.ELEMENT_ARRAY_BUFFER, empty))
	require.ErrorIs(t, e.DrawElements(native.TRIANGLES, 0, 0), common.ErrArgumentShape)
}

func TestInstancedDraws(t *testing.T) {
	var out bytes.Buffer
	ctx, e := newCore(t, WithLogger(slog.New(slog.NewTextHandler(&out, nil))))

	buf, err := e.State().CreateBuffer(native.ARRAY_BUFFER, []float32{0, 0, 1, 0, 0, 1}, state.WithComponentSize(2))
	require.NoError(t, err)
	plain, err := e.State().CreateVertexArray([]vertexarray.Descriptor{{Location: 0, Buffer: buf, Size: 2}}, resource.None)
	require.NoError(t, err)
	perInstance, err := e.State().CreateVertexArray([]vertexarray.Descriptor{
		{Location: 0, Buffer: buf, Size: 2},
		{Location: 1, Buffer: buf, Size: 2, Divisor: 1},
	}, resource.None)
	require.NoError(t, err)

	require.NoError(t, e.State().SetVertexArray(plain))
	require.NoError(t, e.DrawArraysInstanced(native.TRIANGLES, 0, 3, 4))
	assert.Contains(t, out.String(), "instanced draw without per-instance attributes")

	out.Reset()
	require.NoError(t, e.State().SetVertexArray(perInstance))
	require.NoError(t, e.DrawArraysInstanced(native.TRIANGLES, 0, 3, 8))
	assert.Empty(t, out.String())

	draws := ctx.Draws()
	require.Len(t, draws, 2)
	assert.Equal(t, int32(8), draws[1].Instances)
	require.ErrorIs(t, e.DrawElementsInstanced(native.TRIANGLES, 0, 0, 2), common.ErrInvalidHandle)
}

func TestInstancedDrawsUnsupported(t *testing.T) {
	ctx := nativetest.New()
	e, err := NewEngine(ctx)
	require.NoError(t, err)

	require.ErrorIs(t, e.DrawArraysInstanced(native.TRIANGLES, 0, 3, 2), common.ErrUnsupported)
	require.ErrorIs(t, e.DrawElementsInstanced(native.TRIANGLES, 0, 0, 2), common.ErrUnsupported)
	assert.Empty(t, ctx.Draws())

	ext := nativetest.New(nativetest.WithExtensions(native.ExtInstancedArrays))
	e, err = NewEngine(ext)
	require.NoError(t, err)
	require.NoError(t, e.DrawArraysInstanced(native.TRIANGLES, 0, 3, 2))
	require.Len(t, ext.Draws(), 1)
	assert.Equal(t, int32(2), ext.Draws()[0].Instances)
}

func TestCreatePackedVertexArray(t *testing.T) {
	ctx, e := newCore(t)
	blocks := []vertexarray.Block{
		{Data: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, Size: 3, Location: 0},
		{Data: []float32{0, 0, 1, 0, 0, 1}, Size: 2, Location: 2},
	}

	va, buf, err := e.CreatePackedVertexArray(blocks, true, resource.None)
	require.NoError(t, err)
	assert.True(t, e.Registry().VertexArrays.Has(va))

	n, err := e.VertexBufferDataLength(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	size, err := e.VertexBufferDataByteLength(buf)
	require.NoError(t, err)
	assert.Equal(t, 60, size)
	_, err = e.IndexBufferDataLength(buf)
	require.ErrorIs(t, err, common.ErrInvalidHandle)

	live := ctx.Live()["buffer"]
	_, _, err = e.CreatePackedVertexArray([]vertexarray.Block{{Data: []float32{1, 2}, Size: 3}}, false, resource.None)
	require.ErrorIs(t, err, common.ErrArgumentShape)
	_, _, err = e.CreatePackedVertexArray(blocks, false, resource.Handle(4242))
	require.ErrorIs(t, err, common.ErrInvalidHandle)
	assert.Equal(t, live, ctx.Live()["buffer"])
}

func TestIndexBufferQueries(t *testing.T) {
	_, e := newCore(t)
	idx, err := e.State().CreateBuffer(native.ELEMENT_ARRAY_BUFFER, []uint32{0, 1, 2, 3})
	require.NoError(t, err)

	n, err := e.IndexBufferDataLength(idx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	b, err := e.IndexBufferDataByteLength(idx)
	require.NoError(t, err)
	assert.Equal(t, 16, b)
	_, err = e.VertexBufferDataByteLength(idx)
	require.ErrorIs(t, err, common.ErrInvalidHandle)
}

func TestClearAndReadPixels(t *testing.T) {
	ctx, e := newCore(t)
	e.State().SetClearColor([4]float32{1, 0, 0, 1})
	e.Clear(native.COLOR_BUFFER_BIT)
	assert.Equal(t, 1, ctx.Calls("Clear"))

	px, err := e.ReadPixels(0, 0, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{255, 0, 0, 255, 255, 0, 0, 255}, px)

	_, err = e.ReadPixels(0, 0, -1, 1)
	require.ErrorIs(t, err, common.ErrArgumentShape)
}

func TestSurfaceSizeDrivesViewport(t *testing.T) {
	surface := &fakeSurface{width: 800, height: 600}
	cam := camera.NewCamera()
	_, e := newCore(t, WithSurface(surface), WithCamera(cam))

	assert.Equal(t, state.Rect{Width: 800, Height: 600}, e.State().Viewport())
	assert.InDelta(t, 800.0/600.0, cam.Aspect(), 1e-12)

	fb, err := e.Framebuffers().Create(framebuffer.Config{Width: 64, Height: 64})
	require.NoError(t, err)
	require.NoError(t, e.State().SetFramebuffer(fb))
	e.State().SetViewport(state.Rect{Width: 64, Height: 64})

	require.NotNil(t, surface.resize)
	surface.resize(1024, 768)
	assert.Equal(t, state.Rect{Width: 64, Height: 64}, e.State().Viewport())
	assert.InDelta(t, 1024.0/768.0, cam.Aspect(), 1e-12)
	assert.Equal(t, state.Rect{Width: 1024, Height: 768}, e.Framebuffers().Screen())

	require.NoError(t, e.State().SetFramebuffer(resource.None))
	surface.resize(640, 480)
	assert.Equal(t, state.Rect{Width: 640, Height: 480}, e.State().Viewport())
}

func TestRunDrivesFrames(t *testing.T) {
	surface := &fakeSurface{width: 320, height: 240, frames: 3}
	cc := camera.NewCameraController(camera.WithRadius(4), camera.WithElevation(0))
	cam := camera.NewCamera(camera.WithController(cc))
	_, e := newCore(t, WithSurface(surface), WithCamera(cam))

	var frames int
	e.SetRenderCallback(func(float32) {
		frames++
		if frames == 1 {
			assert.True(t, cam.View().ApproxEqualThreshold(e.Matrices().Get(matrix.View), 1e-12))
		}
	})
	require.NoError(t, e.Run())
	assert.Equal(t, 3, frames)
	assert.Equal(t, 3, surface.polls)
	assert.Equal(t, 3, surface.swaps)

	surface.frames = 10
	e.Quit()
	require.NoError(t, e.Run())
	assert.Equal(t, 3, surface.swaps)
}

func TestRunWithoutSurface(t *testing.T) {
	_, e := newCore(t)
	require.ErrorIs(t, e.Run(), common.ErrUnsupported)
}

func TestFrameTicksProfiler(t *testing.T) {
	now := time.Unix(0, 0)
	clock := func() time.Time { return now }
	_, e := newCore(t,
		WithClock(clock),
		WithProfiling(true),
		WithProfilerOptions(profiler.WithClock(clock), profiler.WithInterval(100*time.Millisecond)),
	)

	e.State().ResetStats()
	var deltas []float32
	e.SetRenderCallback(func(dt float32) {
		deltas = append(deltas, dt)
		e.State().SetDepthTest(true)
		e.State().SetDepthTest(true)
	})
	for range 2 {
		now = now.Add(50 * time.Millisecond)
		require.NoError(t, e.Frame())
	}
	assert.InDeltaSlice(t, []float32{0.05, 0.05}, deltas, 1e-6)

	report := e.Profiler().Last()
	assert.InDelta(t, 20.0, report.FPS, 1e-9)
	assert.Equal(t, 1, report.Issued)
	assert.Equal(t, 3, report.Elided)
}

func TestWithConfig(t *testing.T) {
	cfg, err := config.Decode(`
[matrices.model]
uniform = "uWorld"

[matrices.normal]
auto_upload = false

[attributes]
aWeights = 6
`)
	require.NoError(t, err)
	_, e := newCore(t, WithConfig(cfg))
	assert.Equal(t, "uWorld", e.Matrices().UniformName(matrix.Model))
	assert.False(t, e.Matrices().AutoUpload(matrix.Normal))

	h, err := e.Registry().CreateProgram(resource.ProgramSource{
		Vertex:   "#version 330 core\nin vec4 aWeights;\nvoid main() { gl_Position = aWeights; }\n",
		Fragment: nativetest.ColorFragment,
	})
	require.NoError(t, err)
	p, err := e.Registry().Programs.Get(h)
	require.NoError(t, err)
	assert.Equal(t, uint32(6), p.Attributes["aWeights"].Location)
}

func TestReleaseDeletesInternalResources(t *testing.T) {
	_, e := newCore(t)
	fb, err := e.Framebuffers().Create(framebuffer.Config{Width: 16, Height: 16})
	require.NoError(t, err)
	require.NoError(t, e.Framebuffers().Blit(fb, framebuffer.BlitOptions{}))
	programs := e.Registry().Programs.Len()

	e.Release()
	assert.Equal(t, programs-1, e.Registry().Programs.Len())
	require.ErrorIs(t, e.Frame(), common.ErrInvalidHandle)
	e.Release()
}

func TestInstanceRegistry(t *testing.T) {
	_, a := newCore(t)
	_, b := newCore(t)
	r := NewInstanceRegistry()

	_, err := r.Current()
	require.ErrorIs(t, err, common.ErrInvalidHandle)

	require.NoError(t, r.Register("main", a))
	require.NoError(t, r.Register("offscreen", b))
	require.ErrorIs(t, r.Register("main", b), common.ErrDuplicateBinding)

	cur, err := r.Current()
	require.NoError(t, err)
	assert.Same(t, a, cur)

	require.NoError(t, r.SetCurrent("offscreen"))
	cur, err = r.Current()
	require.NoError(t, err)
	assert.Same(t, b, cur)
	require.ErrorIs(t, r.SetCurrent("missing"), common.ErrInvalidHandle)

	r.Unregister("offscreen")
	_, err = r.Current()
	require.ErrorIs(t, err, common.ErrInvalidHandle)
	got, err := r.Get("main")
	require.NoError(t, err)
	assert.Same(t, a, got)
}
