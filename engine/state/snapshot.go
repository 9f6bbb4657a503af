package state

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/matrix"
)

var groupMatrix = map[Mask]matrix.Kind{
	MaskProjection: matrix.Projection,
	MaskView:       matrix.View,
	MaskModel:      matrix.Model,
}

func (s *shadow) PushState(mask Mask) {
	for _, g := range order {
		if mask&g == 0 {
			continue
		}
		switch g {
		case MaskViewport:
			s.PushViewport(nil)
		case MaskCull:
			s.PushCull(nil)
		case MaskScissor:
			s.PushScissor(nil)
		case MaskStencil:
			s.PushStencil(nil)
		case MaskDepth:
			s.PushDepth(nil)
		case MaskColor:
			s.PushColor(nil)
		case MaskLineWidth:
			s.PushLineWidth(nil)
		case MaskBlend:
			s.PushBlend(nil)
		case MaskBuffer:
			_ = s.PushBuffer(nil)
		case MaskVertexArray:
			_ = s.PushVertexArray(nil)
		case MaskTexture:
			_ = s.PushTexture(nil)
		case MaskFramebuffer:
			_ = s.PushFramebuffer(nil)
		case MaskProgram:
			_ = s.PushProgram(nil)
		default:
			_ = s.matrices.Push(groupMatrix[g])
		}
	}
}

func (s *shadow) stackDepth(g Mask) int {
	switch g {
	case MaskViewport:
		return len(s.viewportStack)
	case MaskCull:
		return len(s.cullStack)
	case MaskScissor:
		return len(s.scissorStack)
	case MaskStencil:
		return len(s.stencilStack)
	case MaskDepth:
		return len(s.depthStack)
	case MaskColor:
		return len(s.colorStack)
	case MaskLineWidth:
		return len(s.lineWidthStack)
	case MaskBlend:
		return len(s.blendStack)
	case MaskBuffer:
		return len(s.bufferStack)
	case MaskVertexArray:
		return len(s.vertexArrayStack)
	case MaskTexture:
		return len(s.textureStack)
	case MaskFramebuffer:
		return len(s.framebufferStack)
	case MaskProgram:
		return len(s.programStack)
	}
	return s.matrices.Depth(groupMatrix[g])
}

func (s *shadow) PopState(mask Mask) error {
	for _, g := range order {
		if mask&g != 0 && s.stackDepth(g) == 0 {
			return underflow(g.String())
		}
	}

	var first error
	for i := len(order) - 1; i >= 0; i-- {
		g := order[i]
		if mask&g == 0 {
			continue
		}
		var err error
		switch g {
		case MaskViewport:
			err = s.PopViewport()
		case MaskCull:
			err = s.PopCull()
		case MaskScissor:
			err = s.PopScissor()
		case MaskStencil:
			err = s.PopStencil()
		case MaskDepth:
			err = s.PopDepth()
		case MaskColor:
			err = s.PopColor()
		case MaskLineWidth:
			err = s.PopLineWidth()
		case MaskBlend:
			err = s.PopBlend()
		case MaskBuffer:
			err = s.PopBuffer()
		case MaskVertexArray:
			err = s.PopVertexArray()
		case MaskTexture:
			err = s.PopTexture()
		case MaskFramebuffer:
			err = s.PopFramebuffer()
		case MaskProgram:
			err = s.PopProgram()
		default:
			err = s.matrices.Pop(groupMatrix[g])
		}
		if err != nil && first == nil {
			first = err
		}
	}
	s.check("pop state " + mask.String())
	return first
}

func (s *shadow) GetState(mask Mask) Snapshot {
	snap := Snapshot{Mask: mask}
	if mask&MaskViewport != 0 {
		snap.Viewport = s.viewport
	}
	if mask&MaskCull != 0 {
		snap.Cull = s.cull
	}
	if mask&MaskScissor != 0 {
		snap.Scissor = s.scissor
	}
	if mask&MaskStencil != 0 {
		snap.Stencil = s.stencil
	}
	if mask&MaskDepth != 0 {
		snap.Depth = s.depth
	}
	if mask&MaskColor != 0 {
		snap.Color = s.color
	}
	if mask&MaskLineWidth != 0 {
		snap.LineWidth = s.lineWidth
	}
	if mask&MaskBlend != 0 {
		snap.Blend = s.blend
	}
	if mask&MaskBuffer != 0 {
		snap.Buffers = s.buffers
	}
	if mask&MaskVertexArray != 0 {
		snap.VertexArray = s.vertexArray
	}
	if mask&MaskTexture != 0 {
		snap.Textures = s.textures.clone()
	}
	if mask&MaskFramebuffer != 0 {
		snap.Framebuffer = s.framebuffer
	}
	if mask&MaskProgram != 0 {
		snap.Program = s.program
	}
	if mask&MaskProjection != 0 {
		snap.Projection = s.matrices.Get(matrix.Projection)
	}
	if mask&MaskView != 0 {
		snap.View = s.matrices.Get(matrix.View)
	}
	if mask&MaskModel != 0 {
		snap.Model = s.matrices.Get(matrix.Model)
	}
	return snap
}

func (s *shadow) SetState(snap Snapshot) error {
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	for i := len(order) - 1; i >= 0; i-- {
		g := order[i]
		if snap.Mask&g == 0 {
			continue
		}
		switch g {
		case MaskViewport:
			s.SetViewport(snap.Viewport)
		case MaskCull:
			s.setCull(snap.Cull)
		case MaskScissor:
			s.setScissor(snap.Scissor)
		case MaskStencil:
			s.setStencil(snap.Stencil)
		case MaskDepth:
			s.setDepth(snap.Depth)
		case MaskColor:
			s.setColor(snap.Color)
		case MaskLineWidth:
			s.SetLineWidth(snap.LineWidth)
		case MaskBlend:
			s.setBlend(snap.Blend)
		case MaskBuffer:
			keep(s.setBuffers(snap.Buffers))
		case MaskVertexArray:
			keep(s.SetVertexArray(snap.VertexArray))
		case MaskTexture:
			keep(s.setTextures(snap.Textures))
		case MaskFramebuffer:
			keep(s.SetFramebuffer(snap.Framebuffer))
		case MaskProgram:
			keep(s.SetProgram(snap.Program))
		case MaskProjection:
			s.matrices.Set(matrix.Projection, snap.Projection)
		case MaskView:
			s.matrices.Set(matrix.View, snap.View)
		case MaskModel:
			s.matrices.Set(matrix.Model, snap.Model)
		}
	}
	s.check("set state " + snap.Mask.String())
	return first
}

func (s *shadow) ResetToDefault(mask Mask) {
	defaults := s.defaults
	defaults.Mask = mask & MaskRender
	_ = s.SetState(defaults)
}
