package framebuffer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/capability"
	"github.com/Carmen-Shannon/oxy-gl/engine/native"
	"github.com/Carmen-Shannon/oxy-gl/engine/native/nativetest"
	"github.com/Carmen-Shannon/oxy-gl/engine/resource"
	"github.com/Carmen-Shannon/oxy-gl/engine/state"
	"github.com/Carmen-Shannon/oxy-gl/engine/vertexarray"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctx    *nativetest.Context
	reg    *resource.Registry
	shadow state.Shadow
	m      Manager
}

func newFixture(t *testing.T, core bool, options ...ManagerBuilderOption) *fixture {
	t.Helper()
	var ctx native.Context
	f := &fixture{}
	if core {
		c := nativetest.NewCore()
		ctx, f.ctx = c, c.Context
	} else {
		f.ctx = nativetest.New()
		ctx = f.ctx
	}
	caps, err := capability.Detect(ctx)
	require.NoError(t, err)
	f.reg = resource.NewRegistry(ctx, caps)
	f.shadow = state.New(f.reg)
	f.m = NewManager(f.shadow, options...)
	return f
}

func (f *fixture) native(t *testing.T, h resource.Handle) native.Framebuffer {
	t.Helper()
	rec, err := f.reg.Framebuffers.Get(h)
	require.NoError(t, err)
	return rec.Native
}

func (f *fixture) bufferNative(t *testing.T, h resource.Handle) native.Buffer {
	t.Helper()
	rec, err := f.reg.Buffers.Get(h)
	require.NoError(t, err)
	return rec.Native
}

func (f *fixture) texture(t *testing.T, w, h int) resource.Handle {
	t.Helper()
	tex, err := f.shadow.CreateTexture(state.TextureConfig{Width: w, Height: h})
	require.NoError(t, err)
	return tex
}

func TestCreateAutoCore(t *testing.T) {
	f := newFixture(t, true)
	h, err := f.m.Create(Config{Width: 320, Height: 240, Colors: 2, Depth: true})
	require.NoError(t, err)

	rec, err := f.reg.Framebuffers.Get(h)
	require.NoError(t, err)
	assert.Len(t, rec.ColorAttachments, 2)
	assert.Equal(t, []native.Enum{native.COLOR_ATTACHMENT0, native.COLOR_ATTACHMENT0 + 1}, rec.AttachmentPoints)
	assert.True(t, f.reg.Textures.Has(rec.Depth))
	assert.Equal(t, resource.None, rec.DepthStencil)
	assert.True(t, rec.OwnsAttachments)
	assert.Equal(t, 320, rec.Width)

	assert.Equal(t, rec.AttachmentPoints, f.ctx.DrawBufferList())
	depth, _ := f.reg.Textures.Get(rec.Depth)
	assert.Equal(t, depth.Native, f.ctx.Attachment(rec.Native, native.DEPTH_ATTACHMENT))

	assert.Equal(t, resource.None, f.shadow.Framebuffer())
	var bound [1]int32
	f.ctx.GetIntegerv(native.FRAMEBUFFER_BINDING, bound[:])
	assert.Zero(t, bound[0])
}

func TestCreateAutoBaselineUsesRenderbuffer(t *testing.T) {
	f := newFixture(t, false)
	h, err := f.m.Create(Config{Width: 64, Height: 64, Stencil: true})
	require.NoError(t, err)

	rec, err := f.reg.Framebuffers.Get(h)
	require.NoError(t, err)
	rb, err := f.reg.Renderbuffers.Get(rec.DepthStencil)
	require.NoError(t, err)
	assert.Equal(t, native.DEPTH_STENCIL, rb.Format)
	assert.Equal(t, rb.Native, f.ctx.Attachment(rec.Native, native.DEPTH_STENCIL_ATTACHMENT))
	assert.Equal(t, resource.None, rec.Depth)
}

func TestCreateAutoRejections(t *testing.T) {
	tests := []struct {
		name string
		core bool
		cfg  Config
		want error
	}{
		{"zero size", true, Config{Width: 0, Height: 10}, common.ErrArgumentShape},
		{"more colors than draw buffers", true, Config{Width: 8, Height: 8, Colors: 5}, common.ErrUnsupported},
		{"multiple colors without draw buffers", false, Config{Width: 8, Height: 8, Colors: 2}, common.ErrUnsupported},
		{"float color without float textures", false, Config{Width: 8, Height: 8, ColorType: native.FLOAT}, common.ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.core)
			_, err := f.m.Create(tt.cfg)
			require.ErrorIs(t, err, tt.want)
			assert.Zero(t, f.ctx.Live()["texture"])
			assert.Zero(t, f.ctx.Live()["framebuffer"])
		})
	}
}

func TestCreateIncompleteReleasesEverything(t *testing.T) {
	f := newFixture(t, true)
	f.ctx.ForceIncomplete = true

	_, err := f.m.Create(Config{Width: 16, Height: 16, Depth: true})
	require.ErrorIs(t, err, common.ErrIncomplete)
	var incomplete *common.IncompleteError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, uint32(native.FRAMEBUFFER_INCOMPLETE_ATTACHMENT), incomplete.Status)

	live := f.ctx.Live()
	assert.Zero(t, live["texture"])
	assert.Zero(t, live["renderbuffer"])
	assert.Zero(t, live["framebuffer"])
	assert.Zero(t, f.reg.Framebuffers.Len())
	assert.Zero(t, f.reg.Textures.Len())
	assert.Equal(t, resource.None, f.shadow.Framebuffer())
}

func TestCreateWithAttachments(t *testing.T) {
	f := newFixture(t, true)
	big := f.texture(t, 256, 128)
	small := f.texture(t, 200, 200)
	depth := f.reg.CreateRenderbuffer(native.DEPTH_COMPONENT16, 300, 100)

	h, err := f.m.CreateWithAttachments([]Attachment{
		{Point: native.COLOR_ATTACHMENT0, Target: big},
		{Point: native.COLOR_ATTACHMENT0 + 1, Target: small},
		{Point: native.DEPTH_ATTACHMENT, Target: depth},
	}, false)
	require.NoError(t, err)

	rec, err := f.reg.Framebuffers.Get(h)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Width)
	assert.Equal(t, 100, rec.Height)
	assert.Equal(t, depth, rec.Depth)

	require.NoError(t, f.m.Delete(h))
	assert.True(t, f.reg.Textures.Has(big))
	assert.True(t, f.reg.Renderbuffers.Has(depth))
	require.ErrorIs(t, f.m.Delete(h), common.ErrInvalidHandle)
}

func TestCreateWithAttachmentsRejections(t *testing.T) {
	f := newFixture(t, true)
	tex := f.texture(t, 4, 4)
	other := f.texture(t, 4, 4)

	tests := []struct {
		name        string
		attachments []Attachment
		want        error
	}{
		{"empty", nil, common.ErrArgumentShape},
		{"missing target", []Attachment{{Point: native.COLOR_ATTACHMENT0}}, common.ErrInvalidHandle},
		{"unknown target", []Attachment{{Point: native.COLOR_ATTACHMENT0, Target: 4242}}, common.ErrInvalidHandle},
		{"duplicate point", []Attachment{
			{Point: native.COLOR_ATTACHMENT0, Target: tex},
			{Point: native.COLOR_ATTACHMENT0, Target: other},
		}, common.ErrDuplicateBinding},
		{"unknown point", []Attachment{{Point: native.TEXTURE_2D, Target: tex}}, common.ErrUnsupported},
		{"color point beyond limit", []Attachment{{Point: native.COLOR_ATTACHMENT0 + 8, Target: tex}}, common.ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := f.ctx.Live()["framebuffer"]
			_, err := f.m.CreateWithAttachments(tt.attachments, false)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, before, f.ctx.Live()["framebuffer"])
		})
	}
}

func TestDeleteOwnedAttachments(t *testing.T) {
	f := newFixture(t, false)
	h, err := f.m.Create(Config{Width: 32, Height: 32, Depth: true})
	require.NoError(t, err)
	require.NoError(t, f.shadow.SetFramebuffer(h))

	require.NoError(t, f.m.Delete(h))
	assert.Equal(t, resource.None, f.shadow.Framebuffer())
	live := f.ctx.Live()
	assert.Zero(t, live["texture"])
	assert.Zero(t, live["renderbuffer"])
	assert.Zero(t, live["framebuffer"])
}

func TestBlitRestoresState(t *testing.T) {
	for _, core := range []bool{true, false} {
		t.Run(map[bool]string{true: "core", false: "baseline"}[core], func(t *testing.T) {
			f := newFixture(t, core)
			fb, err := f.m.Create(Config{Width: 64, Height: 64})
			require.NoError(t, err)

			prog, err := f.reg.CreateProgram(resource.ProgramSource{Vertex: nativetest.LitVertex, Fragment: nativetest.ColorFragment})
			require.NoError(t, err)
			require.NoError(t, f.shadow.SetProgram(prog))
			require.NoError(t, f.shadow.SetTexture(0, f.texture(t, 2, 2)))
			vbo, err := f.shadow.CreateBuffer(native.ARRAY_BUFFER, []float32{0, 0, 0, 1, 1, 1, 2, 2, 2}, state.WithComponentSize(3))
			require.NoError(t, err)
			ibo, err := f.shadow.CreateBuffer(native.ELEMENT_ARRAY_BUFFER, []uint16{0, 1, 2})
			require.NoError(t, err)
			vao, err := f.shadow.CreateVertexArray([]vertexarray.Descriptor{{Location: 0, Buffer: vbo, Size: 3}}, ibo)
			require.NoError(t, err)
			require.NoError(t, f.shadow.SetVertexArray(vao))
			require.NoError(t, f.shadow.SetBuffer(native.ARRAY_BUFFER, vbo))
			f.shadow.SetDepthTest(true)
			f.shadow.SetViewport(state.Rect{X: 0, Y: 0, Width: 800, Height: 600})
			before := f.shadow.GetState(state.MaskAll)

			require.NoError(t, f.m.Blit(fb, BlitOptions{Viewport: &state.Rect{Width: 64, Height: 64}}))

			assert.Equal(t, before, f.shadow.GetState(state.MaskAll))
			draws := f.ctx.Draws()
			require.Len(t, draws, 1)
			assert.Equal(t, native.TRIANGLE_STRIP, draws[0].Mode)
			assert.Equal(t, int32(4), draws[0].Count)

			progRec, _ := f.reg.Programs.Get(prog)
			assert.Equal(t, progRec.Native, f.ctx.BoundProgram())
			assert.True(t, f.ctx.IsEnabled(native.DEPTH_TEST))
			var vp [4]int32
			f.ctx.GetIntegerv(native.VIEWPORT, vp[:])
			assert.Equal(t, [4]int32{0, 0, 800, 600}, vp)

			var bound [1]int32
			f.ctx.GetIntegerv(native.ELEMENT_ARRAY_BUFFER_BINDING, bound[:])
			assert.Equal(t, int32(f.bufferNative(t, ibo)), bound[0])
			f.ctx.GetIntegerv(native.ARRAY_BUFFER_BINDING, bound[:])
			assert.Equal(t, int32(f.bufferNative(t, vbo)), bound[0])
			vaoRec, err := f.reg.VertexArrays.Get(vao)
			require.NoError(t, err)
			assert.Equal(t, ibo, vaoRec.IndexBuffer)

			programs := f.reg.Programs.Len()
			require.NoError(t, f.m.Blit(fb, BlitOptions{}))
			assert.Equal(t, programs, f.reg.Programs.Len())

			f.m.Release()
			assert.Equal(t, programs-1, f.reg.Programs.Len())
		})
	}
}

func TestBlitRejections(t *testing.T) {
	f := newFixture(t, true)
	fb, err := f.m.Create(Config{Width: 8, Height: 8})
	require.NoError(t, err)

	require.ErrorIs(t, f.m.Blit(resource.Handle(77), BlitOptions{}), common.ErrInvalidHandle)
	require.ErrorIs(t, f.m.Blit(fb, BlitOptions{Attachment: 1}), common.ErrInvalidHandle)

	rb := f.reg.CreateRenderbuffer(native.RGBA8, 8, 8)
	rbFB, err := f.m.CreateWithAttachments([]Attachment{{Point: native.COLOR_ATTACHMENT0, Target: rb}}, true)
	require.NoError(t, err)
	require.ErrorIs(t, f.m.Blit(rbFB, BlitOptions{}), common.ErrUnsupported)
}

func TestBlitProgramMustDeclareSampler(t *testing.T) {
	f := newFixture(t, true, WithBlitProgram(resource.ProgramSource{
		Vertex:   nativetest.ProjectionOnlyVertex,
		Fragment: nativetest.ColorFragment,
	}))
	fb, err := f.m.Create(Config{Width: 8, Height: 8})
	require.NoError(t, err)

	require.ErrorIs(t, f.m.Blit(fb, BlitOptions{}), common.ErrInvalidHandle)
	assert.Zero(t, f.reg.Programs.Len())
	assert.Empty(t, f.ctx.Draws())
}

func TestBlitDefaultsToScreen(t *testing.T) {
	f := newFixture(t, true)
	assert.Equal(t, state.Rect{Width: 640, Height: 480}, f.m.Screen())

	fb, err := f.m.Create(Config{Width: 64, Height: 32})
	require.NoError(t, err)
	f.m.SetScreenSize(800, 600)
	f.m.SetScreenSize(0, 600)
	assert.Equal(t, state.Rect{Width: 800, Height: 600}, f.m.Screen())

	// Leave the offscreen viewport in place, as after rendering into fb.
	f.shadow.SetViewport(state.Rect{Width: 64, Height: 32})
	require.NoError(t, f.m.Blit(fb, BlitOptions{}))
	require.NoError(t, f.m.Blit(fb, BlitOptions{Viewport: &state.Rect{X: 10, Y: 10, Width: 100, Height: 50}}))

	draws := f.ctx.Draws()
	require.Len(t, draws, 2)
	assert.Equal(t, [4]int32{0, 0, 800, 600}, draws[0].Viewport)
	assert.Equal(t, [4]int32{10, 10, 100, 50}, draws[1].Viewport)
	assert.Equal(t, state.Rect{Width: 64, Height: 32}, f.shadow.Viewport())
}
