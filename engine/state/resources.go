package state

import (
	"fmt"
	"image"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/logging"
	"github.com/Carmen-Shannon/oxy-gl/engine/native"
	"github.com/Carmen-Shannon/oxy-gl/engine/resource"
	"github.com/Carmen-Shannon/oxy-gl/engine/vertexarray"
)

// BufferOption configures a buffer at creation.
type BufferOption func(*resource.Buffer)

// WithUsage sets the usage hint. The default is native.STATIC_DRAW.
func WithUsage(usage native.Enum) BufferOption {
	return func(b *resource.Buffer) {
		b.Usage = usage
	}
}

// WithComponentSize sets the number of components per vertex used to derive the data length.
func WithComponentSize(size int) BufferOption {
	return func(b *resource.Buffer) {
		b.Size = size
	}
}

// WithRetain keeps a copy of every uploaded payload on the buffer record.
func WithRetain() BufferOption {
	return func(b *resource.Buffer) {
		b.Retain = true
	}
}

// TextureConfig describes a 2D texture. Zero formats default to RGBA/UNSIGNED_BYTE, zero wraps to
// CLAMP_TO_EDGE and zero filters to LINEAR.
type TextureConfig struct {
	// Width and Height are taken from Source when it declares a size.
	Width, Height int
	Level         int

	InternalFormat native.Enum
	Format         native.Enum
	Type           native.Enum

	WrapS, WrapT         native.Enum
	MinFilter, MagFilter native.Enum
	Mipmap               bool

	// Source is a common.PixelSource or an image.Image. When nil, Data is uploaded as is, and a nil
	// Data allocates storage only.
	Source any
	Data   []byte
}

// TextureParameters is a partial update of wrap and filter parameters.
type TextureParameters struct {
	WrapS, WrapT         *native.Enum
	MinFilter, MagFilter *native.Enum
}

// boundBuffer returns the native buffer bound on target according to the shadow.
func (s *shadow) boundBuffer(target native.Enum) native.Buffer {
	if target == native.ELEMENT_ARRAY_BUFFER {
		return s.bufferNative(s.buffers.Index)
	}
	return s.bufferNative(s.buffers.Array)
}

// withBuffer binds rec on its target for fn and restores the shadowed binding afterwards.
func (s *shadow) withBuffer(rec *resource.Buffer, fn func()) {
	restore := s.boundBuffer(rec.Target)
	if restore != rec.Native {
		s.ctx.BindBuffer(rec.Target, rec.Native)
	}
	fn()
	if restore != rec.Native {
		s.ctx.BindBuffer(rec.Target, restore)
	}
}

func (s *shadow) CreateBuffer(target native.Enum, data any, options ...BufferOption) (resource.Handle, error) {
	if target != native.ARRAY_BUFFER && target != native.ELEMENT_ARRAY_BUFFER {
		return resource.None, fmt.Errorf("create buffer for target %#x: %w", uint32(target), common.ErrUnsupported)
	}
	rec := &resource.Buffer{Target: target, Usage: native.STATIC_DRAW, Size: 1}
	for _, opt := range options {
		opt(rec)
	}

	var p resource.Payload
	if data != nil {
		var err error
		if p, err = resource.InferPayload(target, data, s.caps.Record.Index32); err != nil {
			return resource.None, fmt.Errorf("create buffer: %w", err)
		}
	}

	rec.Native = s.ctx.CreateBuffer()
	if data != nil {
		s.withBuffer(rec, func() {
			s.ctx.BufferData(target, p.Bytes, rec.Usage)
		})
		p.Apply(rec)
	}

	h := s.reg.NextHandle()
	s.reg.Buffers.Insert(h, rec)
	s.check("create buffer")
	logging.Logger().Debug("state: buffer created", "handle", h, "target", uint32(target), "bytes", rec.ByteLength)
	return h, nil
}

func (s *shadow) SetBufferData(h resource.Handle, data any) error {
	rec, err := s.reg.Buffers.Get(h)
	if err != nil {
		return err
	}
	p, err := resource.InferPayload(rec.Target, data, s.caps.Record.Index32)
	if err != nil {
		return fmt.Errorf("set buffer %d data: %w", h, err)
	}
	s.withBuffer(rec, func() {
		s.ctx.BufferData(rec.Target, p.Bytes, rec.Usage)
	})
	p.Apply(rec)
	s.check("set buffer data")
	return nil
}

func (s *shadow) SetBufferSubData(h resource.Handle, offset int, data any) error {
	rec, err := s.reg.Buffers.Get(h)
	if err != nil {
		return err
	}
	p, err := resource.InferPayload(rec.Target, data, s.caps.Record.Index32)
	if err != nil {
		return fmt.Errorf("set buffer %d sub data: %w", h, err)
	}
	if rec.Type != 0 && p.Type != rec.Type {
		return fmt.Errorf("set buffer %d sub data: element type %#x, buffer holds %#x: %w", h, uint32(p.Type), uint32(rec.Type), common.ErrUnsupported)
	}
	if offset < 0 || offset+len(p.Bytes) > rec.ByteLength {
		return fmt.Errorf("set buffer %d sub data: %d bytes at %d exceed %d: %w", h, len(p.Bytes), offset, rec.ByteLength, common.ErrArgumentShape)
	}
	s.withBuffer(rec, func() {
		s.ctx.BufferSubData(rec.Target, offset, p.Bytes)
	})
	p.ApplyAt(rec, offset)
	s.check("set buffer sub data")
	return nil
}

func (s *shadow) DeleteBuffer(h resource.Handle) error {
	if !s.reg.Buffers.Has(h) {
		_, err := s.reg.Buffers.Get(h)
		return err
	}
	if s.buffers.Array == h {
		s.buffers.Array = resource.None
	}
	if s.buffers.Index == h {
		s.buffers.Index = resource.None
	}
	if s.defaultIndex == h {
		s.defaultIndex = resource.None
	}
	for _, vh := range s.reg.VertexArrays.Handles() {
		vao, _ := s.reg.VertexArrays.Get(vh)
		if vao.IndexBuffer != h {
			continue
		}
		if vh != s.vertexArray {
			s.vertexArrays.DetachIndex(vao, s.bindings())
		}
		vao.IndexBuffer = resource.None
	}
	if err := s.reg.DeleteBuffer(h); err != nil {
		return err
	}
	s.check("delete buffer")
	return nil
}

// pixels resolves a texture source to its dimensions and bytes.
func pixels(src any, width, height int, data []byte) (int, int, []byte, error) {
	if src == nil {
		return width, height, data, nil
	}
	if !common.IsSupportedSource(src) {
		return 0, 0, nil, fmt.Errorf("texture source of type %T: %w", src, common.ErrUnsupported)
	}
	ps, ok := src.(common.PixelSource)
	if !ok {
		ps = common.NewImageSource(src.(image.Image))
	}
	pix, err := ps.Pixels()
	if err != nil {
		return 0, 0, nil, fmt.Errorf("texture source: %w", err)
	}
	if w, h := ps.Size(); w > 0 && h > 0 {
		width, height = w, h
	}
	return width, height, pix, nil
}

func (s *shadow) checkTextureFormat(format, typ native.Enum) error {
	switch format {
	case native.DEPTH_COMPONENT, native.DEPTH_STENCIL:
		if !s.caps.Record.DepthTexture {
			return fmt.Errorf("depth texture: %w", common.ErrUnsupported)
		}
	}
	switch typ {
	case native.FLOAT, native.HALF_FLOAT:
		if !s.caps.Record.FloatTexture {
			return fmt.Errorf("float texture: %w", common.ErrUnsupported)
		}
	}
	return nil
}

// withTexture binds tex on the active unit for fn and restores the unit's shadowed binding.
func (s *shadow) withTexture(tex native.Texture, fn func()) {
	var restore native.Texture
	if rec, err := s.reg.Textures.Get(s.textures.Units[s.textures.Active]); err == nil {
		restore = rec.Native
	}
	if restore != tex {
		s.ctx.BindTexture(native.TEXTURE_2D, tex)
	}
	fn()
	if restore != tex {
		s.ctx.BindTexture(native.TEXTURE_2D, restore)
	}
}

func (s *shadow) CreateTexture(cfg TextureConfig) (resource.Handle, error) {
	cfg.InternalFormat = common.Coalesce(cfg.InternalFormat, native.RGBA)
	cfg.Format = common.Coalesce(cfg.Format, native.RGBA)
	cfg.Type = common.Coalesce(cfg.Type, native.UNSIGNED_BYTE)
	cfg.WrapS = common.Coalesce(cfg.WrapS, native.CLAMP_TO_EDGE)
	cfg.WrapT = common.Coalesce(cfg.WrapT, native.CLAMP_TO_EDGE)
	cfg.MinFilter = common.Coalesce(cfg.MinFilter, native.LINEAR)
	cfg.MagFilter = common.Coalesce(cfg.MagFilter, native.LINEAR)

	if err := s.checkTextureFormat(cfg.Format, cfg.Type); err != nil {
		return resource.None, err
	}
	width, height, data, err := pixels(cfg.Source, cfg.Width, cfg.Height, cfg.Data)
	if err != nil {
		return resource.None, err
	}
	if width <= 0 || height <= 0 {
		return resource.None, fmt.Errorf("texture size %dx%d: %w", width, height, common.ErrArgumentShape)
	}

	rec := &resource.Texture{
		Native:         s.ctx.CreateTexture(),
		Target:         native.TEXTURE_2D,
		Width:          width,
		Height:         height,
		Level:          cfg.Level,
		InternalFormat: cfg.InternalFormat,
		Format:         cfg.Format,
		Type:           cfg.Type,
		WrapS:          cfg.WrapS,
		WrapT:          cfg.WrapT,
		MinFilter:      cfg.MinFilter,
		MagFilter:      cfg.MagFilter,
		Mipmap:         cfg.Mipmap,
		Unit:           resource.UnboundUnit,
	}
	s.withTexture(rec.Native, func() {
		s.ctx.TexImage2D(native.TEXTURE_2D, int32(rec.Level), rec.InternalFormat, int32(width), int32(height), rec.Format, rec.Type, data)
		s.ctx.TexParameteri(native.TEXTURE_2D, native.TEXTURE_WRAP_S, int32(rec.WrapS))
		s.ctx.TexParameteri(native.TEXTURE_2D, native.TEXTURE_WRAP_T, int32(rec.WrapT))
		s.ctx.TexParameteri(native.TEXTURE_2D, native.TEXTURE_MIN_FILTER, int32(rec.MinFilter))
		s.ctx.TexParameteri(native.TEXTURE_2D, native.TEXTURE_MAG_FILTER, int32(rec.MagFilter))
		if rec.Mipmap {
			s.ctx.GenerateMipmap(native.TEXTURE_2D)
		}
	})

	h := s.reg.NextHandle()
	s.reg.Textures.Insert(h, rec)
	s.check("create texture")
	logging.Logger().Debug("state: texture created", "handle", h, "width", width, "height", height)
	return h, nil
}

func (s *shadow) SetTextureData(h resource.Handle, src any, width, height int) error {
	rec, err := s.reg.Textures.Get(h)
	if err != nil {
		return err
	}
	width, height, data, err := pixels(src, width, height, nil)
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("texture size %dx%d: %w", width, height, common.ErrArgumentShape)
	}
	s.withTexture(rec.Native, func() {
		s.ctx.TexImage2D(native.TEXTURE_2D, int32(rec.Level), rec.InternalFormat, int32(width), int32(height), rec.Format, rec.Type, data)
		if rec.Mipmap {
			s.ctx.GenerateMipmap(native.TEXTURE_2D)
		}
	})
	rec.Width, rec.Height = width, height
	s.check("set texture data")
	return nil
}

func (s *shadow) SetTextureParameters(h resource.Handle, p TextureParameters) error {
	rec, err := s.reg.Textures.Get(h)
	if err != nil {
		return err
	}
	type param struct {
		pname native.Enum
		next  *native.Enum
		field *native.Enum
	}
	var changed []param
	for _, pr := range []param{
		{native.TEXTURE_WRAP_S, p.WrapS, &rec.WrapS},
		{native.TEXTURE_WRAP_T, p.WrapT, &rec.WrapT},
		{native.TEXTURE_MIN_FILTER, p.MinFilter, &rec.MinFilter},
		{native.TEXTURE_MAG_FILTER, p.MagFilter, &rec.MagFilter},
	} {
		if pr.next == nil || *pr.next == *pr.field {
			continue
		}
		changed = append(changed, pr)
	}
	if len(changed) == 0 {
		s.elide("textureParameters")
		return nil
	}
	s.withTexture(rec.Native, func() {
		for _, pr := range changed {
			s.ctx.TexParameteri(native.TEXTURE_2D, pr.pname, int32(*pr.next))
			*pr.field = *pr.next
		}
	})
	s.issue()
	return nil
}

func (s *shadow) DeleteTexture(h resource.Handle) error {
	if _, err := s.reg.Textures.Get(h); err != nil {
		return err
	}
	for unit, bound := range s.textures.Units {
		if bound == h {
			s.textures.Units[unit] = resource.None
		}
	}
	if err := s.reg.DeleteTexture(h); err != nil {
		return err
	}
	s.check("delete texture")
	return nil
}

func (s *shadow) CreateVertexArray(descs []vertexarray.Descriptor, indexBuffer resource.Handle) (resource.Handle, error) {
	rec, err := vertexarray.Build(s.reg, descs, indexBuffer)
	if err != nil {
		return resource.None, fmt.Errorf("create vertex array: %w", err)
	}
	if err := s.vertexArrays.Create(rec, s.bindings()); err != nil {
		return resource.None, fmt.Errorf("create vertex array: %w", err)
	}
	h := s.reg.NextHandle()
	s.reg.VertexArrays.Insert(h, rec)
	s.check("create vertex array")
	logging.Logger().Debug("state: vertex array created", "handle", h, "attributes", len(rec.ByLocation), "strategy", s.vertexArrays.Strategy())
	return h, nil
}

func (s *shadow) DeleteVertexArray(h resource.Handle) error {
	rec, err := s.reg.VertexArrays.Get(h)
	if err != nil {
		return err
	}
	if s.vertexArray == h {
		if err := s.SetVertexArray(resource.None); err != nil {
			return err
		}
	}
	s.vertexArrays.Delete(rec)
	if _, err := s.reg.VertexArrays.Remove(h); err != nil {
		return err
	}
	s.check("delete vertex array")
	return nil
}

func (s *shadow) UpdateProgram(h resource.Handle, src resource.ProgramSource) error {
	if err := s.reg.UpdateProgram(h, src); err != nil {
		return err
	}
	if s.program != h {
		return nil
	}
	rec, err := s.reg.Programs.Get(h)
	if err != nil {
		return err
	}
	s.ctx.UseProgram(rec.Native)
	s.matrices.ProgramChanged(rec)
	s.check("update program")
	return nil
}

func (s *shadow) DeleteProgram(h resource.Handle) error {
	if !s.reg.Programs.Has(h) {
		_, err := s.reg.Programs.Get(h)
		return err
	}
	if s.program == h {
		if err := s.SetProgram(resource.None); err != nil {
			return err
		}
	}
	if err := s.reg.DeleteProgram(h); err != nil {
		return err
	}
	s.check("delete program")
	return nil
}

func (s *shadow) DeleteFramebuffer(h resource.Handle) error {
	rec, err := s.reg.Framebuffers.Get(h)
	if err != nil {
		return err
	}
	if s.framebuffer == h {
		if err := s.SetFramebuffer(resource.None); err != nil {
			return err
		}
	}
	s.ctx.DeleteFramebuffer(rec.Native)
	if _, err := s.reg.Framebuffers.Remove(h); err != nil {
		return err
	}
	s.check("delete framebuffer")
	return nil
}
