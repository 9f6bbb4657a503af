package state

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/native"
)

func (s *shadow) Viewport() Rect     { return s.viewport }
func (s *shadow) Cull() Cull         { return s.cull }
func (s *shadow) Scissor() Scissor   { return s.scissor }
func (s *shadow) Stencil() Stencil   { return s.stencil }
func (s *shadow) Depth() Depth       { return s.depth }
func (s *shadow) Color() Color       { return s.color }
func (s *shadow) LineWidth() float32 { return s.lineWidth }
func (s *shadow) Blend() Blend       { return s.blend }

func (s *shadow) SetViewport(r Rect) {
	if s.viewport == r {
		s.elide("viewport")
		return
	}
	s.ctx.Viewport(r.X, r.Y, r.Width, r.Height)
	s.viewport = r
	s.issue()
}

func (s *shadow) SetCullFace(enabled bool) {
	if s.cull.Enabled == enabled {
		s.elide("cullFace")
		return
	}
	s.enable(native.CULL_FACE, enabled)
	s.cull.Enabled = enabled
	s.issue()
}

func (s *shadow) SetCullMode(mode native.Enum) {
	if s.cull.Mode == mode {
		s.elide("cullMode")
		return
	}
	s.ctx.CullFace(mode)
	s.cull.Mode = mode
	s.issue()
}

func (s *shadow) SetScissorTest(enabled bool) {
	if s.scissor.Enabled == enabled {
		s.elide("scissorTest")
		return
	}
	s.enable(native.SCISSOR_TEST, enabled)
	s.scissor.Enabled = enabled
	s.issue()
}

func (s *shadow) SetScissorBox(r Rect) {
	if s.scissor.Box == r {
		s.elide("scissorBox")
		return
	}
	s.ctx.Scissor(r.X, r.Y, r.Width, r.Height)
	s.scissor.Box = r
	s.issue()
}

func (s *shadow) SetStencilTest(enabled bool) {
	if s.stencil.Enabled == enabled {
		s.elide("stencilTest")
		return
	}
	s.enable(native.STENCIL_TEST, enabled)
	s.stencil.Enabled = enabled
	s.issue()
}

// faces resolves which faces a request touches and which of those differ from the shadow, and
// returns the face enumerant to send.
func faces(face native.Enum, frontDiffers, backDiffers bool) (native.Enum, bool) {
	switch face {
	case native.FRONT:
		return native.FRONT, frontDiffers
	case native.BACK:
		return native.BACK, backDiffers
	}
	switch {
	case frontDiffers && backDiffers:
		return native.FRONT_AND_BACK, true
	case frontDiffers:
		return native.FRONT, true
	case backDiffers:
		return native.BACK, true
	}
	return face, false
}

func (s *shadow) SetStencilFunc(face native.Enum, f StencilFunc) {
	send, changed := faces(face, s.stencil.FrontFunc != f, s.stencil.BackFunc != f)
	if !changed {
		s.elide("stencilFunc")
		return
	}
	s.ctx.StencilFuncSeparate(send, f.Func, f.Ref, f.Mask)
	if send != native.BACK {
		s.stencil.FrontFunc = f
	}
	if send != native.FRONT {
		s.stencil.BackFunc = f
	}
	s.issue()
}

func (s *shadow) SetStencilOp(face native.Enum, op StencilOp) {
	send, changed := faces(face, s.stencil.FrontOp != op, s.stencil.BackOp != op)
	if !changed {
		s.elide("stencilOp")
		return
	}
	s.ctx.StencilOpSeparate(send, op.Fail, op.ZFail, op.ZPass)
	if send != native.BACK {
		s.stencil.FrontOp = op
	}
	if send != native.FRONT {
		s.stencil.BackOp = op
	}
	s.issue()
}

func (s *shadow) SetDepthTest(enabled bool) {
	if s.depth.Enabled == enabled {
		s.elide("depthTest")
		return
	}
	s.enable(native.DEPTH_TEST, enabled)
	s.depth.Enabled = enabled
	s.issue()
}

func (s *shadow) SetDepthMask(write bool) {
	if s.depth.WriteMask == write {
		s.elide("depthMask")
		return
	}
	s.ctx.DepthMask(write)
	s.depth.WriteMask = write
	s.issue()
}

func (s *shadow) SetDepthFunc(fn native.Enum) {
	if s.depth.Func == fn {
		s.elide("depthFunc")
		return
	}
	s.ctx.DepthFunc(fn)
	s.depth.Func = fn
	s.issue()
}

func (s *shadow) SetClearDepth(depth float32) {
	if s.depth.ClearValue == depth {
		s.elide("clearDepth")
		return
	}
	s.ctx.ClearDepth(depth)
	s.depth.ClearValue = depth
	s.issue()
}

func (s *shadow) SetDepthRange(near, far float32) {
	r := [2]float32{near, far}
	if s.depth.Range == r {
		s.elide("depthRange")
		return
	}
	s.ctx.DepthRange(near, far)
	s.depth.Range = r
	s.issue()
}

func (s *shadow) SetPolygonOffset(factor, units float32) {
	o := [2]float32{factor, units}
	if s.depth.PolygonOffset == o {
		s.elide("polygonOffset")
		return
	}
	s.ctx.PolygonOffset(factor, units)
	s.depth.PolygonOffset = o
	s.issue()
}

func (s *shadow) SetPolygonOffsetFill(enabled bool) {
	if s.depth.OffsetFill == enabled {
		s.elide("polygonOffsetFill")
		return
	}
	s.enable(native.POLYGON_OFFSET_FILL, enabled)
	s.depth.OffsetFill = enabled
	s.issue()
}

func (s *shadow) SetClearColor(c [4]float32) {
	if s.color.Clear == c {
		s.elide("clearColor")
		return
	}
	s.ctx.ClearColor(c[0], c[1], c[2], c[3])
	s.color.Clear = c
	s.issue()
}

func (s *shadow) SetColorMask(m [4]bool) {
	if s.color.WriteMask == m {
		s.elide("colorMask")
		return
	}
	s.ctx.ColorMask(m[0], m[1], m[2], m[3])
	s.color.WriteMask = m
	s.issue()
}

func (s *shadow) SetLineWidth(width float32) {
	if s.lineWidth == width {
		s.elide("lineWidth")
		return
	}
	s.ctx.LineWidth(width)
	s.lineWidth = width
	s.issue()
}

func (s *shadow) SetBlend(enabled bool) {
	if s.blend.Enabled == enabled {
		s.elide("blend")
		return
	}
	s.enable(native.BLEND, enabled)
	s.blend.Enabled = enabled
	s.issue()
}

func (s *shadow) SetBlendColor(c [4]float32) {
	if s.blend.Color == c {
		s.elide("blendColor")
		return
	}
	s.ctx.BlendColor(c[0], c[1], c[2], c[3])
	s.blend.Color = c
	s.issue()
}

func (s *shadow) SetBlendEquation(rgb, alpha native.Enum) {
	eq := [2]native.Enum{rgb, alpha}
	if s.blend.Equation == eq {
		s.elide("blendEquation")
		return
	}
	s.ctx.BlendEquationSeparate(rgb, alpha)
	s.blend.Equation = eq
	s.issue()
}

func (s *shadow) SetBlendFunc(srcRGB, dstRGB, srcAlpha, dstAlpha native.Enum) {
	fn := [4]native.Enum{srcRGB, dstRGB, srcAlpha, dstAlpha}
	if s.blend.Func == fn {
		s.elide("blendFunc")
		return
	}
	s.ctx.BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha)
	s.blend.Func = fn
	s.issue()
}

func (s *shadow) ApplyCull(u CullUpdate) {
	if u.Enabled != nil {
		s.SetCullFace(*u.Enabled)
	}
	if u.Mode != nil {
		s.SetCullMode(*u.Mode)
	}
}

func (s *shadow) ApplyScissor(u ScissorUpdate) {
	if u.Enabled != nil {
		s.SetScissorTest(*u.Enabled)
	}
	if u.Box != nil {
		s.SetScissorBox(*u.Box)
	}
}

func (s *shadow) ApplyStencil(u StencilUpdate) {
	if u.Enabled != nil {
		s.SetStencilTest(*u.Enabled)
	}
	if u.FrontFunc != nil {
		s.SetStencilFunc(native.FRONT, *u.FrontFunc)
	}
	if u.BackFunc != nil {
		s.SetStencilFunc(native.BACK, *u.BackFunc)
	}
	if u.FrontOp != nil {
		s.SetStencilOp(native.FRONT, *u.FrontOp)
	}
	if u.BackOp != nil {
		s.SetStencilOp(native.BACK, *u.BackOp)
	}
}

func (s *shadow) ApplyDepth(u DepthUpdate) {
	if u.Enabled != nil {
		s.SetDepthTest(*u.Enabled)
	}
	if u.WriteMask != nil {
		s.SetDepthMask(*u.WriteMask)
	}
	if u.Func != nil {
		s.SetDepthFunc(*u.Func)
	}
	if u.ClearValue != nil {
		s.SetClearDepth(*u.ClearValue)
	}
	if u.Range != nil {
		s.SetDepthRange(u.Range[0], u.Range[1])
	}
	if u.PolygonOffset != nil {
		s.SetPolygonOffset(u.PolygonOffset[0], u.PolygonOffset[1])
	}
	if u.OffsetFill != nil {
		s.SetPolygonOffsetFill(*u.OffsetFill)
	}
}

func (s *shadow) ApplyColor(u ColorUpdate) {
	if u.Clear != nil {
		s.SetClearColor(*u.Clear)
	}
	if u.WriteMask != nil {
		s.SetColorMask(*u.WriteMask)
	}
}

func (s *shadow) ApplyBlend(u BlendUpdate) {
	if u.Enabled != nil {
		s.SetBlend(*u.Enabled)
	}
	if u.Color != nil {
		s.SetBlendColor(*u.Color)
	}
	if u.Equation != nil {
		s.SetBlendEquation(u.Equation[0], u.Equation[1])
	}
	if u.Func != nil {
		s.SetBlendFunc(u.Func[0], u.Func[1], u.Func[2], u.Func[3])
	}
}

// Whole-group setters used by pops, SetState and ResetToDefault.

func (s *shadow) setCull(c Cull) {
	s.ApplyCull(CullUpdate{Enabled: &c.Enabled, Mode: &c.Mode})
}

func (s *shadow) setScissor(sc Scissor) {
	s.ApplyScissor(ScissorUpdate{Enabled: &sc.Enabled, Box: &sc.Box})
}

func (s *shadow) setStencil(st Stencil) {
	s.SetStencilTest(st.Enabled)
	if st.FrontFunc == st.BackFunc {
		s.SetStencilFunc(native.FRONT_AND_BACK, st.FrontFunc)
	} else {
		s.SetStencilFunc(native.FRONT, st.FrontFunc)
		s.SetStencilFunc(native.BACK, st.BackFunc)
	}
	if st.FrontOp == st.BackOp {
		s.SetStencilOp(native.FRONT_AND_BACK, st.FrontOp)
	} else {
		s.SetStencilOp(native.FRONT, st.FrontOp)
		s.SetStencilOp(native.BACK, st.BackOp)
	}
}

func (s *shadow) setDepth(d Depth) {
	s.ApplyDepth(DepthUpdate{
		Enabled:       &d.Enabled,
		WriteMask:     &d.WriteMask,
		Func:          &d.Func,
		ClearValue:    &d.ClearValue,
		Range:         &d.Range,
		PolygonOffset: &d.PolygonOffset,
		OffsetFill:    &d.OffsetFill,
	})
}

func (s *shadow) setColor(c Color) {
	s.ApplyColor(ColorUpdate{Clear: &c.Clear, WriteMask: &c.WriteMask})
}

func (s *shadow) setBlend(b Blend) {
	s.ApplyBlend(BlendUpdate{Enabled: &b.Enabled, Color: &b.Color, Equation: &b.Equation, Func: &b.Func})
}

func (s *shadow) PushViewport(next *Rect) {
	s.viewportStack.push(s.viewport)
	if next != nil {
		s.SetViewport(*next)
	}
}

func (s *shadow) PopViewport() error {
	v, ok := s.viewportStack.pop()
	if !ok {
		return underflow("viewport")
	}
	s.SetViewport(v)
	return nil
}

func (s *shadow) PushCull(next *CullUpdate) {
	s.cullStack.push(s.cull)
	if next != nil {
		s.ApplyCull(*next)
	}
}

func (s *shadow) PopCull() error {
	v, ok := s.cullStack.pop()
	if !ok {
		return underflow("cull")
	}
	s.setCull(v)
	return nil
}

func (s *shadow) PushScissor(next *ScissorUpdate) {
	s.scissorStack.push(s.scissor)
	if next != nil {
		s.ApplyScissor(*next)
	}
}

func (s *shadow) PopScissor() error {
	v, ok := s.scissorStack.pop()
	if !ok {
		return underflow("scissor")
	}
	s.setScissor(v)
	return nil
}

func (s *shadow) PushStencil(next *StencilUpdate) {
	s.stencilStack.push(s.stencil)
	if next != nil {
		s.ApplyStencil(*next)
	}
}

func (s *shadow) PopStencil() error {
	v, ok := s.stencilStack.pop()
	if !ok {
		return underflow("stencil")
	}
	s.setStencil(v)
	return nil
}

func (s *shadow) PushDepth(next *DepthUpdate) {
	s.depthStack.push(s.depth)
	if next != nil {
		s.ApplyDepth(*next)
	}
}

func (s *shadow) PopDepth() error {
	v, ok := s.depthStack.pop()
	if !ok {
		return underflow("depth")
	}
	s.setDepth(v)
	return nil
}

func (s *shadow) PushColor(next *ColorUpdate) {
	s.colorStack.push(s.color)
	if next != nil {
		s.ApplyColor(*next)
	}
}

func (s *shadow) PopColor() error {
	v, ok := s.colorStack.pop()
	if !ok {
		return underflow("color")
	}
	s.setColor(v)
	return nil
}

func (s *shadow) PushLineWidth(next *float32) {
	s.lineWidthStack.push(s.lineWidth)
	if next != nil {
		s.SetLineWidth(*next)
	}
}

func (s *shadow) PopLineWidth() error {
	v, ok := s.lineWidthStack.pop()
	if !ok {
		return underflow("line width")
	}
	s.SetLineWidth(v)
	return nil
}

func (s *shadow) PushBlend(next *BlendUpdate) {
	s.blendStack.push(s.blend)
	if next != nil {
		s.ApplyBlend(*next)
	}
}

func (s *shadow) PopBlend() error {
	v, ok := s.blendStack.pop()
	if !ok {
		return underflow("blend")
	}
	s.setBlend(v)
	return nil
}
