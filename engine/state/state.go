// Package state mirrors the native context's global state. Every setter compares the request with
// the mirror and reaches the native context only on change. State is organized in groups selected
// by Mask, each with its own LIFO stack.
package state

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/capability"
	"github.com/Carmen-Shannon/oxy-gl/engine/logging"
	"github.com/Carmen-Shannon/oxy-gl/engine/matrix"
	"github.com/Carmen-Shannon/oxy-gl/engine/native"
	"github.com/Carmen-Shannon/oxy-gl/engine/resource"
	"github.com/Carmen-Shannon/oxy-gl/engine/vertexarray"
)

// Shadow is the state mirror of one native context. It must be the only mutator of the state it
// tracks, and it is not safe for concurrent use.
type Shadow interface {
	// Registry returns the resource registry the shadow resolves handles against.
	Registry() *resource.Registry

	// Matrices returns the matrix engine notified of program changes.
	Matrices() matrix.Engine

	// VertexArrayBackend returns the vertex array strategy in use.
	VertexArrayBackend() vertexarray.Backend

	// Stats returns the setter counters since construction or the last ResetStats.
	Stats() Stats

	// ResetStats zeroes the setter counters.
	ResetStats()

	// Render-state getters.
	Viewport() Rect
	Cull() Cull
	Scissor() Scissor
	Stencil() Stencil
	Depth() Depth
	Color() Color
	LineWidth() float32
	Blend() Blend

	// Binding getters. Textures returns a copy.
	Buffers() Buffers
	VertexArray() resource.Handle
	Textures() Textures
	Framebuffer() resource.Handle
	Program() resource.Handle

	// Render-state setters. Each issues at most one native call and none when the value already
	// holds.
	SetViewport(r Rect)
	SetCullFace(enabled bool)
	SetCullMode(mode native.Enum)
	SetScissorTest(enabled bool)
	SetScissorBox(r Rect)
	SetStencilTest(enabled bool)
	SetDepthTest(enabled bool)
	SetDepthMask(write bool)
	SetDepthFunc(fn native.Enum)
	SetClearDepth(depth float32)
	SetDepthRange(near, far float32)
	SetPolygonOffset(factor, units float32)
	SetPolygonOffsetFill(enabled bool)
	SetClearColor(c [4]float32)
	SetColorMask(m [4]bool)
	SetLineWidth(width float32)
	SetBlend(enabled bool)
	SetBlendColor(c [4]float32)
	SetBlendEquation(rgb, alpha native.Enum)
	SetBlendFunc(srcRGB, dstRGB, srcAlpha, dstAlpha native.Enum)

	// SetStencilFunc sets the stencil comparison of one or both faces. Only faces whose value
	// differs are sent to the native context.
	//
	// Parameters:
	//   - face: native.FRONT, native.BACK or native.FRONT_AND_BACK
	//   - f: the comparison
	SetStencilFunc(face native.Enum, f StencilFunc)

	// SetStencilOp sets the stencil actions of one or both faces, like SetStencilFunc.
	SetStencilOp(face native.Enum, op StencilOp)

	// Partial group updates, routed through the setters above.
	ApplyCull(u CullUpdate)
	ApplyScissor(u ScissorUpdate)
	ApplyStencil(u StencilUpdate)
	ApplyDepth(u DepthUpdate)
	ApplyColor(u ColorUpdate)
	ApplyBlend(u BlendUpdate)

	// SetBuffer binds a buffer to its target. Binding the index target while a vertex array is
	// active records the buffer as that vertex array's index buffer.
	//
	// Parameters:
	//   - target: native.ARRAY_BUFFER or native.ELEMENT_ARRAY_BUFFER
	//   - h: a buffer created for target, or resource.None
	//
	// Returns:
	//   - error: wraps common.ErrInvalidHandle for an unknown handle or a buffer of the other target
	SetBuffer(target native.Enum, h resource.Handle) error

	// SetVertexArray activates a vertex array, or none. The index binding follows the vertex array.
	//
	// Parameters:
	//   - h: a vertex array handle, or resource.None
	//
	// Returns:
	//   - error: wraps common.ErrInvalidHandle for an unknown handle
	SetVertexArray(h resource.Handle) error

	// SetActiveTexture selects the texture unit that texture calls affect.
	//
	// Parameters:
	//   - unit: the zero-based unit index
	//
	// Returns:
	//   - error: wraps common.ErrUnsupported for a unit beyond the detected limit
	SetActiveTexture(unit int) error

	// SetTexture binds a 2D texture to a unit, selecting the unit first when needed.
	//
	// Parameters:
	//   - unit: the zero-based unit index
	//   - h: a texture handle, or resource.None
	//
	// Returns:
	//   - error: wraps common.ErrInvalidHandle or common.ErrUnsupported
	SetTexture(unit int, h resource.Handle) error

	// SetFramebuffer binds a framebuffer, or the default one for resource.None.
	SetFramebuffer(h resource.Handle) error

	// SetProgram activates a program, or none, and notifies the matrix engine.
	SetProgram(h resource.Handle) error

	// SetUniform uploads values to a uniform of the active program.
	//
	// Parameters:
	//   - name: the uniform name, without any "[0]" suffix
	//   - values: the flattened values
	//
	// Returns:
	//   - error: wraps common.ErrInvalidHandle when no program is active or it lacks the uniform,
	//     or common.ErrArgumentShape for a value count the uniform type cannot take
	SetUniform(name string, values ...float32) error

	// Per-group stacks. Push saves a value copy of the group and then applies the optional new
	// state through the group's setters; Pop restores the most recent copy through the same setters
	// and fails with common.ErrStackUnderflow on an empty stack.
	PushViewport(next *Rect)
	PopViewport() error
	PushCull(next *CullUpdate)
	PopCull() error
	PushScissor(next *ScissorUpdate)
	PopScissor() error
	PushStencil(next *StencilUpdate)
	PopStencil() error
	PushDepth(next *DepthUpdate)
	PopDepth() error
	PushColor(next *ColorUpdate)
	PopColor() error
	PushLineWidth(next *float32)
	PopLineWidth() error
	PushBlend(next *BlendUpdate)
	PopBlend() error
	PushBuffer(next *BufferUpdate) error
	PopBuffer() error
	PushVertexArray(next *resource.Handle) error
	PopVertexArray() error
	PushTexture(next *TextureUpdate) error
	PopTexture() error
	PushFramebuffer(next *resource.Handle) error
	PopFramebuffer() error
	PushProgram(next *resource.Handle) error
	PopProgram() error

	// PushState pushes every group in mask, in the fixed group order.
	//
	// Parameters:
	//   - mask: the groups to save
	PushState(mask Mask)

	// PopState pops every group in mask in the reverse of the push order. Nothing is restored if
	// any selected stack is empty.
	//
	// Parameters:
	//   - mask: the groups to restore
	//
	// Returns:
	//   - error: wraps common.ErrStackUnderflow, or the first binding error
	PopState(mask Mask) error

	// GetState returns a structural copy of the groups in mask.
	//
	// Parameters:
	//   - mask: the groups to copy
	//
	// Returns:
	//   - Snapshot: the copy, recording mask
	GetState(mask Mask) Snapshot

	// SetState applies a snapshot through the group setters, in pop order.
	//
	// Parameters:
	//   - s: a snapshot from GetState
	//
	// Returns:
	//   - error: the first binding error
	SetState(s Snapshot) error

	// ResetToDefault restores the render-state groups in mask to the values seeded at construction.
	// Binding and matrix groups are ignored.
	//
	// Parameters:
	//   - mask: the groups to reset
	ResetToDefault(mask Mask)

	// CreateBuffer creates a buffer for target and uploads data, when given, with the binding
	// restored afterwards.
	//
	// Parameters:
	//   - target: native.ARRAY_BUFFER or native.ELEMENT_ARRAY_BUFFER
	//   - data: a typed slice, or nil for an empty buffer
	//   - options: usage, component size and retention options
	//
	// Returns:
	//   - resource.Handle: the buffer handle
	//   - error: wraps common.ErrUnsupported for a payload type the target does not accept
	CreateBuffer(target native.Enum, data any, options ...BufferOption) (resource.Handle, error)

	// SetBufferData replaces the contents of a buffer.
	SetBufferData(h resource.Handle, data any) error

	// SetBufferSubData overwrites part of a buffer. The payload must have the buffer's element type
	// and fit within its current byte length.
	//
	// Parameters:
	//   - h: the buffer handle
	//   - offset: the byte offset
	//   - data: a typed slice
	//
	// Returns:
	//   - error: common.ErrInvalidHandle, common.ErrUnsupported or common.ErrArgumentShape wrapped
	SetBufferSubData(h resource.Handle, offset int, data any) error

	// DeleteBuffer deletes a buffer. Bindings that named it become unbound, including the index
	// binding stored in inactive vertex arrays.
	DeleteBuffer(h resource.Handle) error

	// CreateTexture creates a 2D texture, with the active unit's binding restored afterwards.
	//
	// Parameters:
	//   - cfg: the texture configuration
	//
	// Returns:
	//   - resource.Handle: the texture handle
	//   - error: wraps common.ErrUnsupported for depth or float formats the context lacks, or
	//     common.ErrArgumentShape for bad dimensions
	CreateTexture(cfg TextureConfig) (resource.Handle, error)

	// SetTextureData uploads new pixels to a texture, keeping its formats.
	//
	// Parameters:
	//   - h: the texture handle
	//   - src: a common.PixelSource, an image.Image, or nil to reallocate at width x height
	//   - width, height: the dimensions, ignored when src declares its own
	//
	// Returns:
	//   - error: the lookup, source or dimension error
	SetTextureData(h resource.Handle, src any, width, height int) error

	// SetTextureParameters updates wrap and filter parameters. Unchanged values are not sent.
	SetTextureParameters(h resource.Handle, p TextureParameters) error

	// DeleteTexture deletes a texture. Units that had it bound become unbound.
	DeleteTexture(h resource.Handle) error

	// CreateVertexArray validates descs and realizes a vertex array through the selected strategy.
	// The active vertex array and buffer bindings are unchanged afterwards.
	//
	// Parameters:
	//   - descs: the attribute descriptors
	//   - indexBuffer: an index buffer handle, or resource.None
	//
	// Returns:
	//   - resource.Handle: the vertex array handle
	//   - error: the validation error; nothing is allocated on failure
	CreateVertexArray(descs []vertexarray.Descriptor, indexBuffer resource.Handle) (resource.Handle, error)

	// DeleteVertexArray deletes a vertex array, deactivating it first when active.
	DeleteVertexArray(h resource.Handle) error

	// UpdateProgram relinks a program from new sources. The previous program stays in place if
	// compilation or linking fails; an active program is rebound on success.
	UpdateProgram(h resource.Handle, src resource.ProgramSource) error

	// DeleteProgram deletes a program, deactivating it first when active.
	DeleteProgram(h resource.Handle) error

	// DeleteFramebuffer deletes a framebuffer record and its native object, unbinding it first when
	// bound. Attachments are the caller's concern.
	DeleteFramebuffer(h resource.Handle) error
}

type shadow struct {
	ctx          native.Context
	caps         *capability.Capabilities
	reg          *resource.Registry
	matrices     matrix.Engine
	vertexArrays vertexarray.Backend

	matrixOptions []matrix.EngineBuilderOption
	assertions    bool

	viewport  Rect
	cull      Cull
	scissor   Scissor
	stencil   Stencil
	depth     Depth
	color     Color
	lineWidth float32
	blend     Blend

	buffers      Buffers
	defaultIndex resource.Handle
	vertexArray  resource.Handle
	textures     Textures
	framebuffer  resource.Handle
	program      resource.Handle

	defaults Snapshot

	viewportStack    stack[Rect]
	cullStack        stack[Cull]
	scissorStack     stack[Scissor]
	stencilStack     stack[Stencil]
	depthStack       stack[Depth]
	colorStack       stack[Color]
	lineWidthStack   stack[float32]
	blendStack       stack[Blend]
	bufferStack      stack[Buffers]
	vertexArrayStack stack[resource.Handle]
	textureStack     stack[Textures]
	framebufferStack stack[resource.Handle]
	programStack     stack[resource.Handle]

	stats Stats
}

var _ Shadow = &shadow{}

// New creates the shadow for the registry's native context. Render-state groups are seeded from the
// native getters; buffer, vertex array, texture, framebuffer and program bindings are reset to
// none so both sides agree.
//
// Parameters:
//   - reg: the registry whose context and capabilities the shadow uses
//   - options: functional options
//
// Returns:
//   - Shadow: the shadow
func New(reg *resource.Registry, options ...ShadowBuilderOption) Shadow {
	s := &shadow{
		ctx:  reg.Context(),
		caps: reg.Capabilities(),
		reg:  reg,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.matrices == nil {
		s.matrices = matrix.NewEngine(reg, s.matrixOptions...)
	}
	s.vertexArrays = vertexarray.NewBackend(reg)

	s.seed()
	s.resetBindings()
	s.defaults = s.GetState(MaskAll)
	s.check("construction")

	logging.Logger().Debug("state: shadow seeded",
		"viewport", s.viewport, "textureUnits", len(s.textures.Units), "vertexArrays", s.vertexArrays.Strategy())
	return s
}

func (s *shadow) seed() {
	vp := s.ints(native.VIEWPORT, 4)
	s.viewport = Rect{vp[0], vp[1], vp[2], vp[3]}

	s.cull = Cull{Enabled: s.ctx.IsEnabled(native.CULL_FACE), Mode: native.Enum(s.ints(native.CULL_FACE_MODE, 1)[0])}

	box := s.ints(native.SCISSOR_BOX, 4)
	s.scissor = Scissor{Enabled: s.ctx.IsEnabled(native.SCISSOR_TEST), Box: Rect{box[0], box[1], box[2], box[3]}}

	s.stencil = Stencil{
		Enabled:   s.ctx.IsEnabled(native.STENCIL_TEST),
		FrontFunc: s.stencilFunc(native.STENCIL_FUNC, native.STENCIL_REF, native.STENCIL_VALUE_MASK),
		BackFunc:  s.stencilFunc(native.STENCIL_BACK_FUNC, native.STENCIL_BACK_REF, native.STENCIL_BACK_VALUE_MASK),
		FrontOp:   s.stencilOp(native.STENCIL_FAIL, native.STENCIL_PASS_DEPTH_FAIL, native.STENCIL_PASS_DEPTH_PASS),
		BackOp:    s.stencilOp(native.STENCIL_BACK_FAIL, native.STENCIL_BACK_PASS_DEPTH_FAIL, native.STENCIL_BACK_PASS_DEPTH_PASS),
	}

	depthRange := s.floats(native.DEPTH_RANGE, 2)
	s.depth = Depth{
		Enabled:       s.ctx.IsEnabled(native.DEPTH_TEST),
		WriteMask:     s.bools(native.DEPTH_WRITEMASK, 1)[0],
		Func:          native.Enum(s.ints(native.DEPTH_FUNC, 1)[0]),
		ClearValue:    s.floats(native.DEPTH_CLEAR_VALUE, 1)[0],
		Range:         [2]float32{depthRange[0], depthRange[1]},
		PolygonOffset: [2]float32{s.floats(native.POLYGON_OFFSET_FACTOR, 1)[0], s.floats(native.POLYGON_OFFSET_UNITS, 1)[0]},
		OffsetFill:    s.ctx.IsEnabled(native.POLYGON_OFFSET_FILL),
	}

	s.color = Color{Clear: [4]float32(s.floats(native.COLOR_CLEAR_VALUE, 4)), WriteMask: [4]bool(s.bools(native.COLOR_WRITEMASK, 4))}
	s.lineWidth = s.floats(native.LINE_WIDTH, 1)[0]

	s.blend = Blend{
		Enabled: s.ctx.IsEnabled(native.BLEND),
		Color:   [4]float32(s.floats(native.BLEND_COLOR, 4)),
		Equation: [2]native.Enum{
			native.Enum(s.ints(native.BLEND_EQUATION_RGB, 1)[0]),
			native.Enum(s.ints(native.BLEND_EQUATION_ALPHA, 1)[0]),
		},
		Func: [4]native.Enum{
			native.Enum(s.ints(native.BLEND_SRC_RGB, 1)[0]),
			native.Enum(s.ints(native.BLEND_DST_RGB, 1)[0]),
			native.Enum(s.ints(native.BLEND_SRC_ALPHA, 1)[0]),
			native.Enum(s.ints(native.BLEND_DST_ALPHA, 1)[0]),
		},
	}
}

func (s *shadow) resetBindings() {
	if fn := s.caps.Functions.BindVertexArray; fn != nil {
		fn(0)
	}
	s.ctx.BindBuffer(native.ARRAY_BUFFER, 0)
	s.ctx.BindBuffer(native.ELEMENT_ARRAY_BUFFER, 0)

	units := max(s.caps.Record.MaxTextureUnits, 1)
	for u := units - 1; u >= 0; u-- {
		s.ctx.ActiveTexture(native.TEXTURE0 + native.Enum(u))
		s.ctx.BindTexture(native.TEXTURE_2D, 0)
	}
	s.textures = Textures{Units: make([]resource.Handle, units)}

	s.ctx.BindFramebuffer(native.FRAMEBUFFER, 0)
	s.ctx.UseProgram(0)
	s.matrices.ProgramChanged(nil)
}

func (s *shadow) stencilFunc(fn, ref, mask native.Enum) StencilFunc {
	return StencilFunc{
		Func: native.Enum(s.ints(fn, 1)[0]),
		Ref:  s.ints(ref, 1)[0],
		Mask: uint32(s.ints(mask, 1)[0]),
	}
}

func (s *shadow) stencilOp(fail, zfail, zpass native.Enum) StencilOp {
	return StencilOp{
		Fail:  native.Enum(s.ints(fail, 1)[0]),
		ZFail: native.Enum(s.ints(zfail, 1)[0]),
		ZPass: native.Enum(s.ints(zpass, 1)[0]),
	}
}

func (s *shadow) ints(pname native.Enum, n int) []int32 {
	v := make([]int32, n)
	s.ctx.GetIntegerv(pname, v)
	return v
}

func (s *shadow) floats(pname native.Enum, n int) []float32 {
	v := make([]float32, n)
	s.ctx.GetFloatv(pname, v)
	return v
}

func (s *shadow) bools(pname native.Enum, n int) []bool {
	v := make([]bool, n)
	s.ctx.GetBooleanv(pname, v)
	return v
}

func (s *shadow) Registry() *resource.Registry {
	return s.reg
}

func (s *shadow) Matrices() matrix.Engine {
	return s.matrices
}

func (s *shadow) VertexArrayBackend() vertexarray.Backend {
	return s.vertexArrays
}

func (s *shadow) Stats() Stats {
	return s.stats
}

func (s *shadow) ResetStats() {
	s.stats = Stats{}
}

func (s *shadow) issue() {
	s.stats.Issued++
}

func (s *shadow) elide(setter string) {
	s.stats.Elided++
	logging.Logger().Debug("state: native call elided", "setter", setter)
}

// check panics when assertions are enabled and the native context reports an error after op.
func (s *shadow) check(op string) {
	if !s.assertions {
		return
	}
	if code := s.ctx.GetError(); code != native.NO_ERROR {
		panic(fmt.Sprintf("state: native error %#x after %s", uint32(code), op))
	}
}

func (s *shadow) enable(capability native.Enum, on bool) {
	if on {
		s.ctx.Enable(capability)
	} else {
		s.ctx.Disable(capability)
	}
}

func underflow(group string) error {
	return fmt.Errorf("pop %s: %w", group, common.ErrStackUnderflow)
}

// stack is a LIFO of value copies.
type stack[T any] []T

func (st *stack[T]) push(v T) {
	*st = append(*st, v)
}

func (st *stack[T]) pop() (T, bool) {
	var zero T
	n := len(*st)
	if n == 0 {
		return zero, false
	}
	v := (*st)[n-1]
	*st = (*st)[:n-1]
	return v, true
}
