package state

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/capability"
	"github.com/Carmen-Shannon/oxy-gl/engine/matrix"
	"github.com/Carmen-Shannon/oxy-gl/engine/native"
	"github.com/Carmen-Shannon/oxy-gl/engine/native/nativetest"
	"github.com/Carmen-Shannon/oxy-gl/engine/resource"
	"github.com/Carmen-Shannon/oxy-gl/engine/vertexarray"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctx *nativetest.Core
	reg *resource.Registry
	s   Shadow
}

func newFixture(t *testing.T, ctxOptions []nativetest.Option, options ...ShadowBuilderOption) *fixture {
	t.Helper()
	ctx := nativetest.NewCore(ctxOptions...)
	caps, err := capability.Detect(ctx)
	require.NoError(t, err)
	reg := resource.NewRegistry(ctx, caps)
	f := &fixture{ctx: ctx, reg: reg, s: New(reg, options...)}
	ctx.ResetCalls()
	return f
}

func (f *fixture) program(t *testing.T, vertex string) resource.Handle {
	t.Helper()
	h, err := f.reg.CreateProgram(resource.ProgramSource{Vertex: vertex, Fragment: nativetest.ColorFragment})
	require.NoError(t, err)
	return h
}

func TestSettersAreIdempotent(t *testing.T) {
	tests := []struct {
		name string
		set  func(s Shadow)
	}{
		{"viewport", func(s Shadow) { s.SetViewport(Rect{1, 2, 300, 200}) }},
		{"cull face", func(s Shadow) { s.SetCullFace(true) }},
		{"cull mode", func(s Shadow) { s.SetCullMode(native.FRONT) }},
		{"scissor test", func(s Shadow) { s.SetScissorTest(true) }},
		{"scissor box", func(s Shadow) { s.SetScissorBox(Rect{5, 5, 10, 10}) }},
		{"stencil test", func(s Shadow) { s.SetStencilTest(true) }},
		{"stencil func", func(s Shadow) {
			s.SetStencilFunc(native.FRONT_AND_BACK, StencilFunc{Func: native.EQUAL, Ref: 1, Mask: 0xFF})
		}},
		{"stencil op", func(s Shadow) {
			s.SetStencilOp(native.BACK, StencilOp{Fail: native.KEEP, ZFail: native.KEEP, ZPass: native.REPLACE})
		}},
		{"depth test", func(s Shadow) { s.SetDepthTest(true) }},
		{"depth mask", func(s Shadow) { s.SetDepthMask(false) }},
		{"depth func", func(s Shadow) { s.SetDepthFunc(native.LEQUAL) }},
		{"clear depth", func(s Shadow) { s.SetClearDepth(0.5) }},
		{"depth range", func(s Shadow) { s.SetDepthRange(0.1, 0.9) }},
		{"polygon offset", func(s Shadow) { s.SetPolygonOffset(1, 2) }},
		{"polygon offset fill", func(s Shadow) { s.SetPolygonOffsetFill(true) }},
		{"clear color", func(s Shadow) { s.SetClearColor([4]float32{0.2, 0.3, 0.4, 1}) }},
		{"color mask", func(s Shadow) { s.SetColorMask([4]bool{true, false, true, false}) }},
		{"line width", func(s Shadow) { s.SetLineWidth(2) }},
		{"blend", func(s Shadow) { s.SetBlend(true) }},
		{"blend color", func(s Shadow) { s.SetBlendColor([4]float32{1, 0, 0, 1}) }},
		{"blend equation", func(s Shadow) { s.SetBlendEquation(native.FUNC_SUBTRACT, native.FUNC_ADD) }},
		{"blend func", func(s Shadow) {
			s.SetBlendFunc(native.SRC_ALPHA, native.ONE_MINUS_SRC_ALPHA, native.ONE, native.ZERO)
		}},
		{"active texture", func(s Shadow) { _ = s.SetActiveTexture(3) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)

			tt.set(f.s)
			first := f.ctx.TotalCalls()
			assert.Equal(t, 1, first)
			assert.Equal(t, Stats{Issued: 1}, f.s.Stats())

			tt.set(f.s)
			assert.Equal(t, first, f.ctx.TotalCalls())
			assert.Equal(t, Stats{Issued: 1, Elided: 1}, f.s.Stats())
		})
	}
}

func TestStencilFaceSplitting(t *testing.T) {
	f := newFixture(t, nil)
	back := StencilFunc{Func: native.NOTEQUAL, Ref: 2, Mask: 0x0F}
	f.s.SetStencilFunc(native.BACK, back)

	f.ctx.ResetCalls()
	f.s.SetStencilFunc(native.FRONT_AND_BACK, back)
	assert.Equal(t, 1, f.ctx.Calls("StencilFuncSeparate"))
	assert.Equal(t, back, f.s.Stencil().FrontFunc)
	assert.Equal(t, back, f.s.Stencil().BackFunc)

	f.ctx.ResetCalls()
	f.s.SetStencilFunc(native.FRONT_AND_BACK, back)
	assert.Zero(t, f.ctx.TotalCalls())
}

func TestRenderStacksRoundTrip(t *testing.T) {
	f := newFixture(t, nil)
	before := f.s.GetState(MaskRender)

	f.s.PushViewport(&Rect{0, 0, 64, 64})
	f.s.PushCull(&CullUpdate{Enabled: common.Ref(true), Mode: common.Ref(native.FRONT)})
	f.s.PushScissor(&ScissorUpdate{Enabled: common.Ref(true), Box: &Rect{1, 1, 2, 2}})
	f.s.PushStencil(&StencilUpdate{
		Enabled:   common.Ref(true),
		FrontFunc: &StencilFunc{Func: native.EQUAL, Ref: 1, Mask: 0xFF},
		BackFunc:  &StencilFunc{Func: native.NEVER, Ref: 3, Mask: 0x01},
		FrontOp:   &StencilOp{Fail: native.ZERO, ZFail: native.KEEP, ZPass: native.REPLACE},
		BackOp:    &StencilOp{Fail: native.INVERT, ZFail: native.INCR, ZPass: native.DECR},
	})
	f.s.PushDepth(&DepthUpdate{
		Enabled:       common.Ref(true),
		WriteMask:     common.Ref(false),
		Func:          common.Ref(native.GREATER),
		PolygonOffset: &[2]float32{1, 1},
		OffsetFill:    common.Ref(true),
	})
	f.s.PushColor(&ColorUpdate{Clear: &[4]float32{1, 1, 1, 1}, WriteMask: &[4]bool{false, false, false, true}})
	f.s.PushLineWidth(common.Ref(float32(3)))
	f.s.PushBlend(&BlendUpdate{Enabled: common.Ref(true), Equation: &[2]native.Enum{native.FUNC_REVERSE_SUBTRACT, native.FUNC_ADD}})

	changed := f.s.GetState(MaskRender)
	assert.NotEqual(t, before, changed)
	assert.NotEqual(t, changed.Stencil.FrontFunc, changed.Stencil.BackFunc)

	require.NoError(t, f.s.PopBlend())
	require.NoError(t, f.s.PopLineWidth())
	require.NoError(t, f.s.PopColor())
	require.NoError(t, f.s.PopDepth())
	require.NoError(t, f.s.PopStencil())
	require.NoError(t, f.s.PopScissor())
	require.NoError(t, f.s.PopCull())
	require.NoError(t, f.s.PopViewport())

	assert.Equal(t, before, f.s.GetState(MaskRender))

	// The native side agrees with the restored mirror.
	fresh := New(f.reg)
	assert.Equal(t, before, fresh.GetState(MaskRender))
}

func TestPushStateMatchesGroupPushes(t *testing.T) {
	mutate := func(s Shadow) {
		s.SetViewport(Rect{0, 0, 10, 10})
		s.SetDepthTest(true)
		s.SetBlend(true)
		s.SetBlendFunc(native.SRC_ALPHA, native.ONE_MINUS_SRC_ALPHA, native.ONE, native.ONE)
		s.Matrices().Translate(matrix.Model, 1, 2, 3)
	}
	mask := MaskViewport | MaskDepth | MaskBlend | MaskModel

	combined := newFixture(t, nil)
	combined.s.PushState(mask)
	mutate(combined.s)
	require.NoError(t, combined.s.PopState(mask))

	reference := newFixture(t, nil)
	reference.s.PushViewport(nil)
	reference.s.PushDepth(nil)
	reference.s.PushBlend(nil)
	require.NoError(t, reference.s.Matrices().Push(matrix.Model))
	mutate(reference.s)
	require.NoError(t, reference.s.Matrices().Pop(matrix.Model))
	require.NoError(t, reference.s.PopBlend())
	require.NoError(t, reference.s.PopDepth())
	require.NoError(t, reference.s.PopViewport())

	assert.Equal(t, reference.s.GetState(MaskAll), combined.s.GetState(MaskAll))
	assert.Equal(t, reference.ctx.TotalCalls(), combined.ctx.TotalCalls())
	assert.Equal(t, mgl64.Ident4(), combined.s.Matrices().Get(matrix.Model))
}

func TestPopStateUnderflowRestoresNothing(t *testing.T) {
	f := newFixture(t, nil)
	f.s.PushViewport(&Rect{0, 0, 32, 32})

	err := f.s.PopState(MaskViewport | MaskDepth)
	require.ErrorIs(t, err, common.ErrStackUnderflow)
	assert.Equal(t, Rect{0, 0, 32, 32}, f.s.Viewport())

	require.ErrorIs(t, f.s.PopCull(), common.ErrStackUnderflow)
	require.ErrorIs(t, f.s.PopProgram(), common.ErrStackUnderflow)
	require.NoError(t, f.s.PopViewport())
}

func TestResetToDefaultIgnoresBindings(t *testing.T) {
	f := newFixture(t, nil)
	buf, err := f.s.CreateBuffer(native.ARRAY_BUFFER, []float32{1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, f.s.SetBuffer(native.ARRAY_BUFFER, buf))
	f.s.SetLineWidth(4)
	f.s.SetCullFace(true)

	f.s.ResetToDefault(MaskAll)

	assert.Equal(t, float32(1), f.s.LineWidth())
	assert.False(t, f.s.Cull().Enabled)
	assert.Equal(t, buf, f.s.Buffers().Array)
}

func TestSeedsFromNativeState(t *testing.T) {
	f := newFixture(t, []nativetest.Option{nativetest.WithState(func(c *nativetest.Context) {
		c.Enable(native.DEPTH_TEST)
		c.Viewport(10, 20, 800, 600)
		c.StencilFuncSeparate(native.BACK, native.GEQUAL, 7, 0x3)
		c.BlendFuncSeparate(native.SRC_ALPHA, native.ONE_MINUS_SRC_ALPHA, native.ONE, native.ZERO)
		c.ClearColor(0.1, 0.2, 0.3, 1)
	})})

	assert.True(t, f.s.Depth().Enabled)
	assert.Equal(t, Rect{10, 20, 800, 600}, f.s.Viewport())
	assert.Equal(t, StencilFunc{Func: native.GEQUAL, Ref: 7, Mask: 0x3}, f.s.Stencil().BackFunc)
	assert.Equal(t, native.ALWAYS, f.s.Stencil().FrontFunc.Func)
	assert.Equal(t, native.SRC_ALPHA, f.s.Blend().Func[0])
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 1}, f.s.Color().Clear)

	f.s.SetDepthTest(true)
	f.s.SetViewport(Rect{10, 20, 800, 600})
	assert.Zero(t, f.ctx.TotalCalls())
}

func TestConstructionUnbindsEverything(t *testing.T) {
	f := newFixture(t, nil)
	assert.Equal(t, Buffers{}, f.s.Buffers())
	assert.Equal(t, resource.None, f.s.VertexArray())
	assert.Equal(t, resource.None, f.s.Program())
	assert.Equal(t, 0, f.s.Textures().Active)
	assert.Len(t, f.s.Textures().Units, 16)
	assert.Equal(t, native.Program(0), f.ctx.BoundProgram())
}

func TestBufferLengths(t *testing.T) {
	f := newFixture(t, nil)
	h, err := f.s.CreateBuffer(native.ARRAY_BUFFER, []float32{0, 0, 0, 1, 1, 1}, WithComponentSize(3))
	require.NoError(t, err)

	rec, err := f.reg.Buffers.Get(h)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.DataLength())
	assert.Equal(t, 24, rec.ByteLength)
	assert.Equal(t, native.FLOAT, rec.Type)
	assert.Equal(t, resource.None, f.s.Buffers().Array)
	assert.Equal(t, 24, len(f.ctx.BufferContents(rec.Native)))
}

func TestCreateBufferRejectsPayloadBeforeAllocating(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.s.CreateBuffer(native.ELEMENT_ARRAY_BUFFER, []float32{1, 2})
	require.ErrorIs(t, err, common.ErrUnsupported)
	assert.Zero(t, f.ctx.Calls("CreateBuffer"))
	assert.Zero(t, f.reg.Buffers.Len())
}

func TestCreateBufferRestoresBinding(t *testing.T) {
	f := newFixture(t, nil)
	a, err := f.s.CreateBuffer(native.ARRAY_BUFFER, []float32{1})
	require.NoError(t, err)
	require.NoError(t, f.s.SetBuffer(native.ARRAY_BUFFER, a))

	_, err = f.s.CreateBuffer(native.ARRAY_BUFFER, []float32{2, 3}, WithUsage(native.DYNAMIC_DRAW), WithRetain())
	require.NoError(t, err)

	var bound [1]int32
	f.ctx.GetIntegerv(native.ARRAY_BUFFER_BINDING, bound[:])
	rec, _ := f.reg.Buffers.Get(a)
	assert.Equal(t, int32(rec.Native), bound[0])
	assert.Equal(t, a, f.s.Buffers().Array)
}

func TestSetBufferSubData(t *testing.T) {
	f := newFixture(t, nil)
	h, err := f.s.CreateBuffer(native.ARRAY_BUFFER, []float32{0, 0, 0, 0}, WithRetain())
	require.NoError(t, err)

	require.NoError(t, f.s.SetBufferSubData(h, 4, []float32{5, 6}))
	rec, _ := f.reg.Buffers.Get(h)
	assert.Equal(t, []float32{0, 5, 6, 0}, rec.Data)
	assert.Equal(t, common.SliceToBytes([]float32{0, 5, 6, 0}), f.ctx.BufferContents(rec.Native))

	require.ErrorIs(t, f.s.SetBufferSubData(h, 12, []float32{1, 2}), common.ErrArgumentShape)
	require.ErrorIs(t, f.s.SetBufferSubData(h, 0, []uint8{1}), common.ErrUnsupported)
	require.ErrorIs(t, f.s.SetBufferSubData(resource.Handle(999), 0, []float32{1}), common.ErrInvalidHandle)
}

func TestSetBufferWrongTarget(t *testing.T) {
	f := newFixture(t, nil)
	h, err := f.s.CreateBuffer(native.ARRAY_BUFFER, []float32{1})
	require.NoError(t, err)
	require.ErrorIs(t, f.s.SetBuffer(native.ELEMENT_ARRAY_BUFFER, h), common.ErrInvalidHandle)
	require.ErrorIs(t, f.s.SetBuffer(native.ARRAY_BUFFER, resource.Handle(999)), common.ErrInvalidHandle)
}

func TestHandlesInvalidAfterDelete(t *testing.T) {
	f := newFixture(t, nil)
	buf, err := f.s.CreateBuffer(native.ARRAY_BUFFER, []float32{1, 2, 3})
	require.NoError(t, err)
	tex, err := f.s.CreateTexture(TextureConfig{Width: 2, Height: 2})
	require.NoError(t, err)
	prog := f.program(t, nativetest.LitVertex)

	require.NoError(t, f.s.SetBuffer(native.ARRAY_BUFFER, buf))
	require.NoError(t, f.s.SetTexture(2, tex))
	require.NoError(t, f.s.SetProgram(prog))

	require.NoError(t, f.s.DeleteBuffer(buf))
	require.NoError(t, f.s.DeleteTexture(tex))
	require.NoError(t, f.s.DeleteProgram(prog))

	assert.Equal(t, resource.None, f.s.Buffers().Array)
	assert.Equal(t, resource.None, f.s.Textures().Units[2])
	assert.Equal(t, resource.None, f.s.Program())

	require.ErrorIs(t, f.s.SetBuffer(native.ARRAY_BUFFER, buf), common.ErrInvalidHandle)
	require.ErrorIs(t, f.s.SetTexture(0, tex), common.ErrInvalidHandle)
	require.ErrorIs(t, f.s.SetProgram(prog), common.ErrInvalidHandle)
	require.ErrorIs(t, f.s.DeleteBuffer(buf), common.ErrInvalidHandle)

	var invalid *common.InvalidHandleError
	require.True(t, errors.As(f.s.DeleteTexture(tex), &invalid))
	assert.Equal(t, tex, resource.Handle(invalid.Handle))
	assert.Zero(t, f.ctx.Live()["buffer"])
	assert.Zero(t, f.ctx.Live()["texture"])
}

// newStrategyShadow builds a shadow over a core context (native vertex arrays) or a baseline one
// (shim vertex arrays).
func newStrategyShadow(t *testing.T, core bool) (Shadow, *resource.Registry, *nativetest.Context) {
	t.Helper()
	var ctx native.Context
	var fake *nativetest.Context
	if core {
		c := nativetest.NewCore()
		ctx, fake = c, c.Context
	} else {
		fake = nativetest.New()
		ctx = fake
	}
	caps, err := capability.Detect(ctx)
	require.NoError(t, err)
	reg := resource.NewRegistry(ctx, caps)
	return New(reg), reg, fake
}

func nativeBinding(ctx *nativetest.Context, pname native.Enum) int32 {
	var bound [1]int32
	ctx.GetIntegerv(pname, bound[:])
	return bound[0]
}

func bufferName(t *testing.T, reg *resource.Registry, h resource.Handle) int32 {
	t.Helper()
	if h == resource.None {
		return 0
	}
	rec, err := reg.Buffers.Get(h)
	require.NoError(t, err)
	return int32(rec.Native)
}

func TestIndexBufferFollowsVertexArray(t *testing.T) {
	for _, core := range []bool{true, false} {
		t.Run(map[bool]string{true: "native", false: "shim"}[core], func(t *testing.T) {
			s, reg, fake := newStrategyShadow(t, core)

			vbo, err := s.CreateBuffer(native.ARRAY_BUFFER, []float32{0, 0, 0, 1, 1, 1, 2, 2, 2}, WithComponentSize(3))
			require.NoError(t, err)
			first, err := s.CreateBuffer(native.ELEMENT_ARRAY_BUFFER, []uint16{0, 1, 2})
			require.NoError(t, err)
			second, err := s.CreateBuffer(native.ELEMENT_ARRAY_BUFFER, []uint16{2, 1, 0})
			require.NoError(t, err)

			vao, err := s.CreateVertexArray([]vertexarray.Descriptor{{Location: 0, Buffer: vbo, Size: 3}}, first)
			require.NoError(t, err)
			assert.Equal(t, resource.None, s.VertexArray())
			assert.Equal(t, resource.None, s.Buffers().Index)

			require.NoError(t, s.SetVertexArray(vao))
			assert.Equal(t, first, s.Buffers().Index)

			require.NoError(t, s.SetBuffer(native.ELEMENT_ARRAY_BUFFER, second))
			rec, err := reg.VertexArrays.Get(vao)
			require.NoError(t, err)
			assert.Equal(t, second, rec.IndexBuffer)

			require.NoError(t, s.SetVertexArray(resource.None))
			assert.Equal(t, resource.None, s.Buffers().Index)

			require.NoError(t, s.SetVertexArray(vao))
			assert.Equal(t, second, s.Buffers().Index)
			var bound [1]int32
			fake.GetIntegerv(native.ELEMENT_ARRAY_BUFFER_BINDING, bound[:])
			idx, _ := reg.Buffers.Get(second)
			assert.Equal(t, int32(idx.Native), bound[0])

			require.NoError(t, s.DeleteBuffer(second))
			assert.Equal(t, resource.None, rec.IndexBuffer)
			assert.Equal(t, resource.None, s.Buffers().Index)

			require.NoError(t, s.DeleteVertexArray(vao))
			assert.Equal(t, resource.None, s.VertexArray())
			require.ErrorIs(t, s.SetVertexArray(vao), common.ErrInvalidHandle)
		})
	}
}

func TestProgramChangeMarksMatrices(t *testing.T) {
	f := newFixture(t, nil)
	lit := f.program(t, nativetest.LitVertex)
	proj := f.program(t, nativetest.ProjectionOnlyVertex)
	m := f.s.Matrices()

	require.NoError(t, f.s.SetProgram(lit))
	for _, k := range matrix.Kinds {
		assert.True(t, m.Dirty(k), k.String())
	}
	require.NoError(t, m.Sync())
	assert.False(t, m.Dirty(matrix.Model))

	require.NoError(t, f.s.SetProgram(proj))
	assert.True(t, m.Dirty(matrix.Projection))
	assert.False(t, m.Declared(matrix.Model))

	f.ctx.ResetCalls()
	require.NoError(t, f.s.SetProgram(proj))
	assert.Zero(t, f.ctx.Calls("UseProgram"))
}

func TestUpdateActiveProgramRebinds(t *testing.T) {
	f := newFixture(t, nil)
	h := f.program(t, nativetest.ProjectionOnlyVertex)
	require.NoError(t, f.s.SetProgram(h))
	require.NoError(t, f.s.Matrices().Sync())

	require.NoError(t, f.s.UpdateProgram(h, resource.ProgramSource{Vertex: nativetest.LitVertex, Fragment: nativetest.ColorFragment}))
	rec, err := f.reg.Programs.Get(h)
	require.NoError(t, err)
	assert.Equal(t, rec.Native, f.ctx.BoundProgram())
	assert.True(t, f.s.Matrices().Dirty(matrix.Model))
	assert.Equal(t, h, f.s.Program())
}

func TestSetUniform(t *testing.T) {
	f := newFixture(t, nil)
	require.ErrorIs(t, f.s.SetUniform("uAlpha", 1), common.ErrInvalidHandle)

	require.NoError(t, f.s.SetProgram(f.program(t, nativetest.LitVertex)))
	require.NoError(t, f.s.SetUniform("uAlpha", 0.5))
	require.ErrorIs(t, f.s.SetUniform("uMissing", 1), common.ErrInvalidHandle)
	require.ErrorIs(t, f.s.SetUniform("uColor", 1, 2), common.ErrArgumentShape)
	assert.Len(t, f.ctx.Uploads("uAlpha"), 1)
}

func TestTextureBindings(t *testing.T) {
	f := newFixture(t, nil)
	tex, err := f.s.CreateTexture(TextureConfig{Width: 4, Height: 4, MinFilter: native.NEAREST})
	require.NoError(t, err)
	rec, _ := f.reg.Textures.Get(tex)
	assert.Equal(t, resource.UnboundUnit, rec.Unit)
	assert.Equal(t, int32(native.NEAREST), f.ctx.TextureParameter(rec.Native, native.TEXTURE_MIN_FILTER))
	assert.Equal(t, int32(native.CLAMP_TO_EDGE), f.ctx.TextureParameter(rec.Native, native.TEXTURE_WRAP_S))

	require.NoError(t, f.s.SetTexture(5, tex))
	assert.Equal(t, 5, rec.Unit)
	assert.Equal(t, 5, f.s.Textures().Active)

	require.NoError(t, f.s.PushTexture(&TextureUpdate{Units: map[int]resource.Handle{5: resource.None}, Active: common.Ref(1)}))
	assert.Equal(t, resource.UnboundUnit, rec.Unit)
	require.NoError(t, f.s.PopTexture())
	assert.Equal(t, 5, rec.Unit)
	assert.Equal(t, 5, f.s.Textures().Active)

	require.ErrorIs(t, f.s.SetActiveTexture(16), common.ErrUnsupported)
	require.ErrorIs(t, f.s.PushTexture(&TextureUpdate{Units: map[int]resource.Handle{99: tex}}), common.ErrUnsupported)
	require.ErrorIs(t, f.s.PopTexture(), common.ErrStackUnderflow)
}

func TestTextureParametersSendOnlyChanges(t *testing.T) {
	f := newFixture(t, nil)
	tex, err := f.s.CreateTexture(TextureConfig{Width: 1, Height: 1})
	require.NoError(t, err)

	f.ctx.ResetCalls()
	require.NoError(t, f.s.SetTextureParameters(tex, TextureParameters{
		WrapS:     common.Ref(native.CLAMP_TO_EDGE),
		MagFilter: common.Ref(native.NEAREST),
	}))
	assert.Equal(t, 1, f.ctx.Calls("TexParameteri"))

	f.ctx.ResetCalls()
	require.NoError(t, f.s.SetTextureParameters(tex, TextureParameters{MagFilter: common.Ref(native.NEAREST)}))
	assert.Zero(t, f.ctx.TotalCalls())
}

func TestCreateTextureFromImage(t *testing.T) {
	f := newFixture(t, nil)
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	tex, err := f.s.CreateTexture(TextureConfig{Source: img})
	require.NoError(t, err)
	rec, _ := f.reg.Textures.Get(tex)
	w, h := f.ctx.TextureSize(rec.Native)
	assert.Equal(t, int32(3), w)
	assert.Equal(t, int32(2), h)

	require.NoError(t, f.s.SetTextureData(tex, nil, 8, 8))
	assert.Equal(t, 8, rec.Width)

	_, err = f.s.CreateTexture(TextureConfig{Source: "not an image"})
	require.ErrorIs(t, err, common.ErrUnsupported)
	_, err = f.s.CreateTexture(TextureConfig{})
	require.ErrorIs(t, err, common.ErrArgumentShape)
}

func TestFramebufferBinding(t *testing.T) {
	f := newFixture(t, nil)
	fb := &resource.Framebuffer{Native: f.ctx.CreateFramebuffer()}
	h := f.reg.NextHandle()
	f.reg.Framebuffers.Insert(h, fb)

	require.NoError(t, f.s.PushFramebuffer(&h))
	assert.Equal(t, h, f.s.Framebuffer())
	require.NoError(t, f.s.DeleteFramebuffer(h))
	assert.Equal(t, resource.None, f.s.Framebuffer())
	require.NoError(t, f.s.PopFramebuffer())
	assert.Equal(t, resource.None, f.s.Framebuffer())
	require.ErrorIs(t, f.s.SetFramebuffer(h), common.ErrInvalidHandle)
}

func TestSetStateReplaysSnapshot(t *testing.T) {
	f := newFixture(t, nil)
	prog := f.program(t, nativetest.LitVertex)
	saved := f.s.GetState(MaskAll)

	f.s.SetBlend(true)
	require.NoError(t, f.s.SetProgram(prog))
	f.s.Matrices().Scale(matrix.Model, 2, 2, 2)

	require.NoError(t, f.s.SetState(saved))
	assert.Equal(t, saved, f.s.GetState(MaskAll))
	assert.Equal(t, "viewport|blend", (MaskViewport | MaskBlend).String())
	assert.Equal(t, "none", Mask(0).String())
}

func TestAssertionsPanicOnNativeError(t *testing.T) {
	f := newFixture(t, nil, WithAssertions(true))
	f.ctx.SetError(native.INVALID_OPERATION)
	assert.Panics(t, func() {
		_ = f.s.SetState(f.s.GetState(MaskViewport))
	})

	quiet := newFixture(t, nil)
	quiet.ctx.SetError(native.INVALID_OPERATION)
	assert.NotPanics(t, func() {
		_ = quiet.s.SetState(quiet.s.GetState(MaskViewport))
	})
}

func TestMatrixOptionsForwarded(t *testing.T) {
	f := newFixture(t, nil, WithMatrixOptions(matrix.WithUniformName(matrix.Model, "uWorld")))
	assert.Equal(t, "uWorld", f.s.Matrices().UniformName(matrix.Model))

	m := matrix.NewEngine(f.reg)
	g := New(f.reg, WithMatrices(m))
	assert.Same(t, m, g.Matrices())
}

func TestPopRestoresVertexArrayBeforeBuffers(t *testing.T) {
	for _, core := range []bool{true, false} {
		t.Run(map[bool]string{true: "native", false: "shim"}[core], func(t *testing.T) {
			s, reg, fake := newStrategyShadow(t, core)

			vbo, err := s.CreateBuffer(native.ARRAY_BUFFER, []float32{0, 0, 0, 1, 1, 1, 2, 2, 2}, WithComponentSize(3))
			require.NoError(t, err)
			other, err := s.CreateBuffer(native.ARRAY_BUFFER, []float32{3, 3, 3}, WithComponentSize(3))
			require.NoError(t, err)
			indices := make([]resource.Handle, 3)
			for i := range indices {
				indices[i], err = s.CreateBuffer(native.ELEMENT_ARRAY_BUFFER, []uint16{0, 1, 2})
				require.NoError(t, err)
			}
			a, err := s.CreateVertexArray([]vertexarray.Descriptor{{Location: 0, Buffer: vbo, Size: 3}}, indices[0])
			require.NoError(t, err)
			b, err := s.CreateVertexArray([]vertexarray.Descriptor{{Location: 0, Buffer: vbo, Size: 3}}, indices[1])
			require.NoError(t, err)

			require.NoError(t, s.SetVertexArray(a))
			require.NoError(t, s.SetBuffer(native.ARRAY_BUFFER, vbo))
			before := s.GetState(MaskAll)

			mask := MaskBuffer | MaskVertexArray
			s.PushState(mask)
			require.NoError(t, s.SetVertexArray(b))
			require.NoError(t, s.SetBuffer(native.ELEMENT_ARRAY_BUFFER, indices[2]))
			require.NoError(t, s.SetBuffer(native.ARRAY_BUFFER, other))
			require.NoError(t, s.PopState(mask))

			assert.Equal(t, before, s.GetState(MaskAll))
			assert.Equal(t, Buffers{Array: vbo, Index: indices[0]}, s.Buffers())

			recA, err := reg.VertexArrays.Get(a)
			require.NoError(t, err)
			assert.Equal(t, indices[0], recA.IndexBuffer)
			recB, err := reg.VertexArrays.Get(b)
			require.NoError(t, err)
			assert.Equal(t, indices[2], recB.IndexBuffer)

			assert.Equal(t, bufferName(t, reg, s.Buffers().Index), nativeBinding(fake, native.ELEMENT_ARRAY_BUFFER_BINDING))
			assert.Equal(t, bufferName(t, reg, s.Buffers().Array), nativeBinding(fake, native.ARRAY_BUFFER_BINDING))
		})
	}
}

func TestDeleteBufferDetachesInactiveVertexArrays(t *testing.T) {
	for _, core := range []bool{true, false} {
		t.Run(map[bool]string{true: "native", false: "shim"}[core], func(t *testing.T) {
			s, reg, fake := newStrategyShadow(t, core)

			vbo, err := s.CreateBuffer(native.ARRAY_BUFFER, []float32{0, 0, 0, 1, 1, 1, 2, 2, 2}, WithComponentSize(3))
			require.NoError(t, err)
			shared, err := s.CreateBuffer(native.ELEMENT_ARRAY_BUFFER, []uint16{0, 1, 2})
			require.NoError(t, err)
			kept, err := s.CreateBuffer(native.ELEMENT_ARRAY_BUFFER, []uint16{2, 1, 0})
			require.NoError(t, err)
			inactive, err := s.CreateVertexArray([]vertexarray.Descriptor{{Location: 0, Buffer: vbo, Size: 3}}, shared)
			require.NoError(t, err)
			active, err := s.CreateVertexArray([]vertexarray.Descriptor{{Location: 0, Buffer: vbo, Size: 3}}, kept)
			require.NoError(t, err)
			require.NoError(t, s.SetVertexArray(active))

			require.NoError(t, s.DeleteBuffer(shared))
			assert.Equal(t, active, s.VertexArray())
			assert.Equal(t, kept, s.Buffers().Index)
			assert.Equal(t, bufferName(t, reg, kept), nativeBinding(fake, native.ELEMENT_ARRAY_BUFFER_BINDING))
			assert.Equal(t, native.NO_ERROR, fake.GetError())

			require.NoError(t, s.SetVertexArray(inactive))
			assert.Equal(t, resource.None, s.Buffers().Index)
			assert.Zero(t, nativeBinding(fake, native.ELEMENT_ARRAY_BUFFER_BINDING))

			require.NoError(t, s.SetVertexArray(active))
			assert.Equal(t, bufferName(t, reg, kept), nativeBinding(fake, native.ELEMENT_ARRAY_BUFFER_BINDING))
		})
	}
}
