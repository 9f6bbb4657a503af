package resource

import "github.com/Carmen-Shannon/oxy-gl/engine/native"

// Buffer is a vertex or index buffer.
type Buffer struct {
	Native native.Buffer
	Target native.Enum
	Usage  native.Enum

	// Size is the number of components per vertex, used to derive DataLength.
	Size int

	// ByteLength and Length describe the last upload: bytes and elements.
	ByteLength int
	Length     int

	// Type is the element data type inferred from the last payload, or 0 before any upload.
	Type native.Enum

	// Retain keeps a copy of every uploaded payload in Data.
	Retain bool
	Data   any
}

// DataLength returns the number of vertices (or indices) held: Length divided by Size.
func (b *Buffer) DataLength() int {
	if b.Size <= 1 {
		return b.Length
	}
	return b.Length / b.Size
}

// IsIndex reports whether b is an element array buffer.
func (b *Buffer) IsIndex() bool {
	return b.Target == native.ELEMENT_ARRAY_BUFFER
}

// Attribute is a reflected vertex input.
type Attribute struct {
	Name     string
	Location uint32
	Type     native.Enum
	Size     int32

	// Explicit reports whether the caller bound this location.
	Explicit bool
}

// Uniform is a reflected uniform. Array uniforms are keyed without the "[0]" suffix.
type Uniform struct {
	Name     string
	Type     native.Enum
	Size     int32
	Location native.Uniform
}

// Program is a linked shader program with its reflected interface.
type Program struct {
	Native     native.Program
	Attributes map[string]Attribute
	Uniforms   map[string]Uniform
}

// HasUniform reports whether the program declares an active uniform called name.
func (p *Program) HasUniform(name string) bool {
	_, ok := p.Uniforms[name]
	return ok
}

// Attrib is one attribute pointer of a vertex array. Type is inherited from the source buffer.
type Attrib struct {
	Location   uint32
	Buffer     Handle
	Size       int32
	Type       native.Enum
	Normalized bool
	Stride     int32
	Offset     int32
	Divisor    uint32
}

// VertexArray binds attribute pointers and an optional index buffer.
type VertexArray struct {
	// Native is the native vertex array object, or 0 under the shim strategy.
	Native native.VertexArray

	// Buffers lists the distinct source buffers in first-use order.
	Buffers []Handle

	// Attribs lists the attribute pointers per source buffer.
	Attribs map[Handle][]Attrib

	// ByLocation indexes every attribute pointer by location.
	ByLocation map[uint32]Attrib

	IndexBuffer Handle
	HasDivisor  bool
}

// UnboundUnit marks a texture that is not bound to any unit.
const UnboundUnit = -1

// Texture is a 2D texture.
type Texture struct {
	Native native.Texture
	Target native.Enum

	Width, Height int
	Level         int

	InternalFormat native.Enum
	Format         native.Enum
	Type           native.Enum

	WrapS, WrapT         native.Enum
	MinFilter, MagFilter native.Enum
	Mipmap               bool

	// Unit is the texture unit index the texture is bound to, or UnboundUnit.
	Unit int
}

// Renderbuffer is a renderbuffer used as a depth or depth-stencil attachment.
type Renderbuffer struct {
	Native        native.Renderbuffer
	Format        native.Enum
	Width, Height int
}

// Framebuffer is a complete framebuffer object and its attachments.
type Framebuffer struct {
	Native native.Framebuffer

	// ColorAttachments and AttachmentPoints are parallel: texture handle and native point.
	ColorAttachments []Handle
	AttachmentPoints []native.Enum

	// Depth and DepthStencil name a texture or renderbuffer handle, or None.
	Depth        Handle
	DepthStencil Handle

	Width, Height int

	// OwnsAttachments makes deleting the framebuffer also delete its attachments.
	OwnsAttachments bool
}
