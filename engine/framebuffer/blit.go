package framebuffer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/native"
	"github.com/Carmen-Shannon/oxy-gl/engine/resource"
	"github.com/Carmen-Shannon/oxy-gl/engine/state"
	"github.com/Carmen-Shannon/oxy-gl/engine/vertexarray"
)

// BlitMask is the set of groups Blit saves and restores.
const BlitMask = state.MaskVertexArray | state.MaskBuffer | state.MaskTexture | state.MaskProgram |
	state.MaskDepth | state.MaskViewport | state.MaskFramebuffer

// blitResources is the lazily built program and geometry Blit draws with.
type blitResources struct {
	program     resource.Handle
	buffer      resource.Handle
	vertexArray resource.Handle
}

func (m *manager) blitResources() (*blitResources, error) {
	if m.blit != nil {
		return m.blit, nil
	}
	src := blitSource(m.reg.Capabilities().Record.Major)
	if m.blitSource != nil {
		src = *m.blitSource
	}

	b := &blitResources{}
	var err error
	if b.program, err = m.reg.CreateProgram(src); err != nil {
		return nil, fmt.Errorf("blit program: %w", err)
	}
	prog, _ := m.reg.Programs.Get(b.program)
	if !prog.HasUniform(BlitSamplerUniform) {
		_ = m.reg.DeleteProgram(b.program)
		return nil, fmt.Errorf("blit program lacks %s: %w", BlitSamplerUniform, common.ErrInvalidHandle)
	}
	location := int(prog.Attributes["aPosition"].Location)

	if b.buffer, err = m.shadow.CreateBuffer(native.ARRAY_BUFFER, quad, state.WithComponentSize(2)); err != nil {
		_ = m.shadow.DeleteProgram(b.program)
		return nil, err
	}
	b.vertexArray, err = m.shadow.CreateVertexArray([]vertexarray.Descriptor{{Location: location, Buffer: b.buffer, Size: 2}}, resource.None)
	if err != nil {
		_ = m.shadow.DeleteBuffer(b.buffer)
		_ = m.shadow.DeleteProgram(b.program)
		return nil, err
	}
	m.blit = b
	return b, nil
}

func (m *manager) Blit(h resource.Handle, opts BlitOptions) error {
	rec, err := m.reg.Framebuffers.Get(h)
	if err != nil {
		return err
	}
	if opts.Attachment < 0 || opts.Attachment >= len(rec.ColorAttachments) {
		return fmt.Errorf("blit color attachment %d of %d: %w", opts.Attachment, len(rec.ColorAttachments), common.ErrInvalidHandle)
	}
	tex := rec.ColorAttachments[opts.Attachment]
	if !m.reg.Textures.Has(tex) {
		return fmt.Errorf("blit color attachment %d is not a texture: %w", opts.Attachment, common.ErrUnsupported)
	}
	b, err := m.blitResources()
	if err != nil {
		return err
	}

	m.shadow.PushState(BlitMask)
	err = m.drawQuad(b, tex, opts)
	if popErr := m.shadow.PopState(BlitMask); err == nil {
		err = popErr
	}
	return err
}

func (m *manager) drawQuad(b *blitResources, tex resource.Handle, opts BlitOptions) error {
	if err := m.shadow.SetFramebuffer(resource.None); err != nil {
		return err
	}
	viewport := m.screen
	if opts.Viewport != nil {
		viewport = *opts.Viewport
	}
	m.shadow.SetViewport(viewport)
	m.shadow.SetDepthTest(false)
	if err := m.shadow.SetProgram(b.program); err != nil {
		return err
	}
	if err := m.shadow.SetVertexArray(b.vertexArray); err != nil {
		return err
	}
	if err := m.shadow.SetTexture(0, tex); err != nil {
		return err
	}
	if err := m.shadow.SetUniform(BlitSamplerUniform, 0); err != nil {
		return err
	}
	m.ctx.DrawArrays(native.TRIANGLE_STRIP, 0, int32(len(quad)/2))
	return nil
}

func (m *manager) SetScreenSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	m.screen = state.Rect{Width: int32(width), Height: int32(height)}
}

func (m *manager) Screen() state.Rect { return m.screen }

func (m *manager) Release() {
	if m.blit == nil {
		return
	}
	_ = m.shadow.DeleteVertexArray(m.blit.vertexArray)
	_ = m.shadow.DeleteBuffer(m.blit.buffer)
	_ = m.shadow.DeleteProgram(m.blit.program)
	m.blit = nil
}
