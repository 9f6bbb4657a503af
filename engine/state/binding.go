package state

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/native"
	"github.com/Carmen-Shannon/oxy-gl/engine/resource"
	"github.com/Carmen-Shannon/oxy-gl/engine/vertexarray"
)

func (s *shadow) Buffers() Buffers {
	return s.buffers
}

func (s *shadow) VertexArray() resource.Handle {
	return s.vertexArray
}

func (s *shadow) Textures() Textures {
	return s.textures.clone()
}

func (s *shadow) Framebuffer() resource.Handle {
	return s.framebuffer
}

func (s *shadow) Program() resource.Handle {
	return s.program
}

// bufferNative returns the native name of a buffer handle, 0 for none or an unknown handle.
func (s *shadow) bufferNative(h resource.Handle) native.Buffer {
	if rec, err := s.reg.Buffers.Get(h); err == nil {
		return rec.Native
	}
	return 0
}

// activeVertexArray returns the record of the active vertex array, or nil.
func (s *shadow) activeVertexArray() *resource.VertexArray {
	if rec, err := s.reg.VertexArrays.Get(s.vertexArray); err == nil {
		return rec
	}
	return nil
}

func (s *shadow) bindings() vertexarray.Bindings {
	return vertexarray.Bindings{
		VertexArray:        s.activeVertexArray(),
		ArrayBuffer:        s.bufferNative(s.buffers.Array),
		DefaultIndexBuffer: s.bufferNative(s.defaultIndex),
	}
}

func (s *shadow) SetBuffer(target native.Enum, h resource.Handle) error {
	var name native.Buffer
	if h != resource.None {
		rec, err := s.reg.Buffers.Get(h)
		if err != nil {
			return err
		}
		if rec.Target != target {
			return fmt.Errorf("bind buffer %d to target %#x: created for %#x: %w", h, uint32(target), uint32(rec.Target), common.ErrInvalidHandle)
		}
		name = rec.Native
	}

	switch target {
	case native.ARRAY_BUFFER:
		if s.buffers.Array == h {
			s.elide("arrayBuffer")
			return nil
		}
		s.ctx.BindBuffer(target, name)
		s.buffers.Array = h
	case native.ELEMENT_ARRAY_BUFFER:
		if s.buffers.Index == h {
			s.elide("indexBuffer")
			return nil
		}
		s.ctx.BindBuffer(target, name)
		s.buffers.Index = h
		if vao := s.activeVertexArray(); vao != nil {
			vao.IndexBuffer = h
		} else {
			s.defaultIndex = h
		}
	default:
		return fmt.Errorf("buffer target %#x: %w", uint32(target), common.ErrUnsupported)
	}
	s.issue()
	return nil
}

func (s *shadow) SetVertexArray(h resource.Handle) error {
	var rec *resource.VertexArray
	if h != resource.None {
		var err error
		if rec, err = s.reg.VertexArrays.Get(h); err != nil {
			return err
		}
	}
	if s.vertexArray == h {
		s.elide("vertexArray")
		return nil
	}
	if err := s.vertexArrays.Bind(rec, s.bindings()); err != nil {
		return fmt.Errorf("bind vertex array %d: %w", h, err)
	}
	s.vertexArray = h
	if rec != nil {
		s.buffers.Index = rec.IndexBuffer
	} else {
		s.buffers.Index = s.defaultIndex
	}
	s.issue()
	return nil
}

func (s *shadow) checkUnit(unit int) error {
	if unit < 0 || unit >= len(s.textures.Units) {
		return fmt.Errorf("texture unit %d of %d: %w", unit, len(s.textures.Units), common.ErrUnsupported)
	}
	return nil
}

func (s *shadow) SetActiveTexture(unit int) error {
	if err := s.checkUnit(unit); err != nil {
		return err
	}
	if s.textures.Active == unit {
		s.elide("activeTexture")
		return nil
	}
	s.ctx.ActiveTexture(native.TEXTURE0 + native.Enum(unit))
	s.textures.Active = unit
	s.issue()
	return nil
}

func (s *shadow) SetTexture(unit int, h resource.Handle) error {
	if err := s.checkUnit(unit); err != nil {
		return err
	}
	var rec *resource.Texture
	if h != resource.None {
		var err error
		if rec, err = s.reg.Textures.Get(h); err != nil {
			return err
		}
	}
	if s.textures.Units[unit] == h {
		s.elide("texture")
		return nil
	}

	_ = s.SetActiveTexture(unit)
	var name native.Texture
	if rec != nil {
		name = rec.Native
	}
	s.ctx.BindTexture(native.TEXTURE_2D, name)

	if prev, err := s.reg.Textures.Get(s.textures.Units[unit]); err == nil && prev.Unit == unit {
		prev.Unit = resource.UnboundUnit
	}
	if rec != nil {
		rec.Unit = unit
	}
	s.textures.Units[unit] = h
	s.issue()
	return nil
}

func (s *shadow) SetFramebuffer(h resource.Handle) error {
	var name native.Framebuffer
	if h != resource.None {
		rec, err := s.reg.Framebuffers.Get(h)
		if err != nil {
			return err
		}
		name = rec.Native
	}
	if s.framebuffer == h {
		s.elide("framebuffer")
		return nil
	}
	s.ctx.BindFramebuffer(native.FRAMEBUFFER, name)
	s.framebuffer = h
	s.issue()
	return nil
}

func (s *shadow) SetProgram(h resource.Handle) error {
	var rec *resource.Program
	if h != resource.None {
		var err error
		if rec, err = s.reg.Programs.Get(h); err != nil {
			return err
		}
	}
	if s.program == h {
		s.elide("program")
		return nil
	}
	var name native.Program
	if rec != nil {
		name = rec.Native
	}
	s.ctx.UseProgram(name)
	s.program = h
	s.matrices.ProgramChanged(rec)
	s.issue()
	return nil
}

func (s *shadow) SetUniform(name string, values ...float32) error {
	if s.program == resource.None {
		return fmt.Errorf("set uniform %q: no program bound: %w", name, common.ErrInvalidHandle)
	}
	rec, err := s.reg.Programs.Get(s.program)
	if err != nil {
		return err
	}
	if err := s.reg.Upload(rec, name, values); err != nil {
		return fmt.Errorf("set uniform %q: %w", name, err)
	}
	return nil
}

func (s *shadow) applyBuffers(u BufferUpdate) error {
	if u.Array != nil {
		if err := s.SetBuffer(native.ARRAY_BUFFER, *u.Array); err != nil {
			return err
		}
	}
	if u.Index != nil {
		return s.SetBuffer(native.ELEMENT_ARRAY_BUFFER, *u.Index)
	}
	return nil
}

func (s *shadow) applyTextures(u TextureUpdate) error {
	for unit := range u.Units {
		if err := s.checkUnit(unit); err != nil {
			return err
		}
	}
	for unit := range s.textures.Units {
		h, ok := u.Units[unit]
		if !ok {
			continue
		}
		if err := s.SetTexture(unit, h); err != nil {
			return err
		}
	}
	if u.Active != nil {
		return s.SetActiveTexture(*u.Active)
	}
	return nil
}

func (s *shadow) setBuffers(b Buffers) error {
	return s.applyBuffers(BufferUpdate{Array: &b.Array, Index: &b.Index})
}

func (s *shadow) setTextures(t Textures) error {
	units := make(map[int]resource.Handle, len(t.Units))
	for i, h := range t.Units {
		units[i] = h
	}
	return s.applyTextures(TextureUpdate{Units: units, Active: &t.Active})
}

func (s *shadow) PushBuffer(next *BufferUpdate) error {
	s.bufferStack.push(s.buffers)
	if next == nil {
		return nil
	}
	if err := s.applyBuffers(*next); err != nil {
		_ = s.PopBuffer()
		return err
	}
	return nil
}

func (s *shadow) PopBuffer() error {
	v, ok := s.bufferStack.pop()
	if !ok {
		return underflow("buffer")
	}
	return s.setBuffers(v)
}

func (s *shadow) PushVertexArray(next *resource.Handle) error {
	s.vertexArrayStack.push(s.vertexArray)
	if next == nil {
		return nil
	}
	if err := s.SetVertexArray(*next); err != nil {
		_ = s.PopVertexArray()
		return err
	}
	return nil
}

func (s *shadow) PopVertexArray() error {
	v, ok := s.vertexArrayStack.pop()
	if !ok {
		return underflow("vertex array")
	}
	return s.SetVertexArray(v)
}

func (s *shadow) PushTexture(next *TextureUpdate) error {
	s.textureStack.push(s.textures.clone())
	if next == nil {
		return nil
	}
	if err := s.applyTextures(*next); err != nil {
		_ = s.PopTexture()
		return err
	}
	return nil
}

func (s *shadow) PopTexture() error {
	v, ok := s.textureStack.pop()
	if !ok {
		return underflow("texture")
	}
	return s.setTextures(v)
}

func (s *shadow) PushFramebuffer(next *resource.Handle) error {
	s.framebufferStack.push(s.framebuffer)
	if next == nil {
		return nil
	}
	if err := s.SetFramebuffer(*next); err != nil {
		_ = s.PopFramebuffer()
		return err
	}
	return nil
}

func (s *shadow) PopFramebuffer() error {
	v, ok := s.framebufferStack.pop()
	if !ok {
		return underflow("framebuffer")
	}
	return s.SetFramebuffer(v)
}

func (s *shadow) PushProgram(next *resource.Handle) error {
	s.programStack.push(s.program)
	if next == nil {
		return nil
	}
	if err := s.SetProgram(*next); err != nil {
		_ = s.PopProgram()
		return err
	}
	return nil
}

func (s *shadow) PopProgram() error {
	v, ok := s.programStack.pop()
	if !ok {
		return underflow("program")
	}
	return s.SetProgram(v)
}
