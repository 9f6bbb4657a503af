package state

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-gl/engine/native"
	"github.com/Carmen-Shannon/oxy-gl/engine/resource"
	"github.com/go-gl/mathgl/mgl64"
)

// Mask selects state groups for PushState, PopState, GetState and ResetToDefault.
type Mask uint32

const (
	MaskViewport Mask = 1 << iota
	MaskCull
	MaskScissor
	MaskStencil
	MaskDepth
	MaskColor
	MaskLineWidth
	MaskBlend
	MaskBuffer
	MaskVertexArray
	MaskTexture
	MaskFramebuffer
	MaskProgram
	MaskProjection
	MaskView
	MaskModel

	// MaskRender covers the render-state groups, the ones ResetToDefault restores.
	MaskRender = MaskViewport | MaskCull | MaskScissor | MaskStencil | MaskDepth | MaskColor | MaskLineWidth | MaskBlend

	// MaskBindings covers the resource binding groups.
	MaskBindings = MaskBuffer | MaskVertexArray | MaskTexture | MaskFramebuffer | MaskProgram

	// MaskMatrices covers the three mutable matrices.
	MaskMatrices = MaskProjection | MaskView | MaskModel

	MaskAll = MaskRender | MaskBindings | MaskMatrices
)

// order is the fixed push order. Pops walk it backwards, so the vertex array group is restored
// before the buffer group that may rebind its index buffer.
var order = []Mask{
	MaskViewport, MaskCull, MaskScissor, MaskStencil, MaskDepth, MaskColor, MaskLineWidth, MaskBlend,
	MaskBuffer, MaskVertexArray, MaskTexture, MaskFramebuffer, MaskProgram,
	MaskProjection, MaskView, MaskModel,
}

var maskNames = map[Mask]string{
	MaskViewport: "viewport", MaskCull: "cull", MaskScissor: "scissor", MaskStencil: "stencil",
	MaskDepth: "depth", MaskColor: "color", MaskLineWidth: "lineWidth", MaskBlend: "blend",
	MaskBuffer: "buffer", MaskVertexArray: "vertexArray", MaskTexture: "texture",
	MaskFramebuffer: "framebuffer", MaskProgram: "program",
	MaskProjection: "projection", MaskView: "view", MaskModel: "model",
}

func (m Mask) String() string {
	out := ""
	for _, g := range order {
		if m&g == 0 {
			continue
		}
		if out != "" {
			out += "|"
		}
		out += maskNames[g]
	}
	if out == "" {
		return "none"
	}
	return out
}

// Rect is a viewport or scissor rectangle in window coordinates.
type Rect struct {
	X, Y, Width, Height int32
}

// Cull is the face culling group.
type Cull struct {
	Enabled bool
	Mode    native.Enum
}

// Scissor is the scissor test group.
type Scissor struct {
	Enabled bool
	Box     Rect
}

// StencilFunc is one face's stencil comparison.
type StencilFunc struct {
	Func native.Enum
	Ref  int32
	Mask uint32
}

// StencilOp is one face's stencil actions.
type StencilOp struct {
	Fail, ZFail, ZPass native.Enum
}

// Stencil is the stencil test group. Front and back faces are tracked independently.
type Stencil struct {
	Enabled   bool
	FrontFunc StencilFunc
	BackFunc  StencilFunc
	FrontOp   StencilOp
	BackOp    StencilOp
}

// Depth is the depth test group, including polygon offset.
type Depth struct {
	Enabled    bool
	WriteMask  bool
	Func       native.Enum
	ClearValue float32
	Range      [2]float32

	// PolygonOffset holds factor and units.
	PolygonOffset [2]float32
	OffsetFill    bool
}

// Color is the clear color and color write mask group.
type Color struct {
	Clear     [4]float32
	WriteMask [4]bool
}

// Blend is the blending group.
type Blend struct {
	Enabled bool
	Color   [4]float32

	// Equation holds the RGB and alpha equations.
	Equation [2]native.Enum

	// Func holds srcRGB, dstRGB, srcAlpha and dstAlpha.
	Func [4]native.Enum
}

// Buffers holds the buffer bound to each target. Index is the effective element binding: the
// active vertex array's index buffer while one is bound.
type Buffers struct {
	Array resource.Handle
	Index resource.Handle
}

// Textures holds the active texture unit and the 2D texture bound to every unit.
type Textures struct {
	Active int
	Units  []resource.Handle
}

func (t Textures) clone() Textures {
	return Textures{Active: t.Active, Units: slices.Clone(t.Units)}
}

// Snapshot is a structural copy of the groups in Mask.
type Snapshot struct {
	Mask Mask

	Viewport  Rect
	Cull      Cull
	Scissor   Scissor
	Stencil   Stencil
	Depth     Depth
	Color     Color
	LineWidth float32
	Blend     Blend

	Buffers     Buffers
	VertexArray resource.Handle
	Textures    Textures
	Framebuffer resource.Handle
	Program     resource.Handle

	Projection mgl64.Mat4
	View       mgl64.Mat4
	Model      mgl64.Mat4
}

// CullUpdate is a partial Cull. Nil fields are left unchanged.
type CullUpdate struct {
	Enabled *bool
	Mode    *native.Enum
}

// ScissorUpdate is a partial Scissor.
type ScissorUpdate struct {
	Enabled *bool
	Box     *Rect
}

// StencilUpdate is a partial Stencil.
type StencilUpdate struct {
	Enabled   *bool
	FrontFunc *StencilFunc
	BackFunc  *StencilFunc
	FrontOp   *StencilOp
	BackOp    *StencilOp
}

// DepthUpdate is a partial Depth.
type DepthUpdate struct {
	Enabled       *bool
	WriteMask     *bool
	Func          *native.Enum
	ClearValue    *float32
	Range         *[2]float32
	PolygonOffset *[2]float32
	OffsetFill    *bool
}

// ColorUpdate is a partial Color.
type ColorUpdate struct {
	Clear     *[4]float32
	WriteMask *[4]bool
}

// BlendUpdate is a partial Blend.
type BlendUpdate struct {
	Enabled  *bool
	Color    *[4]float32
	Equation *[2]native.Enum
	Func     *[4]native.Enum
}

// BufferUpdate is a partial Buffers.
type BufferUpdate struct {
	Array *resource.Handle
	Index *resource.Handle
}

// TextureUpdate binds textures per unit, then selects Active.
type TextureUpdate struct {
	Units  map[int]resource.Handle
	Active *int
}

// Stats counts setter outcomes: Issued setters reached the native context, Elided ones matched the
// shadow and returned without a native call.
type Stats struct {
	Issued int
	Elided int
}
