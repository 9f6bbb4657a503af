// Package resource owns the virtual resource namespace: opaque handles mapped to records of a
// native object plus its metadata. Operations that need to bind a resource to mutate it live in
// the state package, which owns the binding shadow; this package only performs calls that do not
// depend on or disturb binding state.
package resource

import (
	"maps"

	"github.com/Carmen-Shannon/oxy-gl/engine/capability"
	"github.com/Carmen-Shannon/oxy-gl/engine/logging"
	"github.com/Carmen-Shannon/oxy-gl/engine/native"
)

// DefaultAttributeLocations is the name to location table used for attributes the caller did not
// bind explicitly.
var DefaultAttributeLocations = map[string]uint32{
	"aPosition": 0,
	"aNormal":   1,
	"aTexCoord": 2,
	"aColor":    3,
	"aTangent":  4,
}

// Registry issues handles and holds one table per resource kind.
type Registry struct {
	ctx  native.Context
	caps *capability.Capabilities
	next Handle

	defaultLocations map[string]uint32
	setters          map[native.Enum]*UniformSetter

	Buffers       *Table[Buffer]
	Programs      *Table[Program]
	VertexArrays  *Table[VertexArray]
	Textures      *Table[Texture]
	Framebuffers  *Table[Framebuffer]
	Renderbuffers *Table[Renderbuffer]
}

// NewRegistry creates an empty registry for ctx.
//
// Parameters:
//   - ctx: the native context
//   - caps: the detected capabilities
//   - options: functional options
//
// Returns:
//   - *Registry: the registry
func NewRegistry(ctx native.Context, caps *capability.Capabilities, options ...RegistryBuilderOption) *Registry {
	r := &Registry{
		ctx:              ctx,
		caps:             caps,
		next:             FirstHandle,
		defaultLocations: maps.Clone(DefaultAttributeLocations),
		setters:          map[native.Enum]*UniformSetter{},
		Buffers:          newTable[Buffer](KindBuffer),
		Programs:         newTable[Program](KindProgram),
		VertexArrays:     newTable[VertexArray](KindVertexArray),
		Textures:         newTable[Texture](KindTexture),
		Framebuffers:     newTable[Framebuffer](KindFramebuffer),
		Renderbuffers:    newTable[Renderbuffer](KindRenderbuffer),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Context returns the native context.
func (r *Registry) Context() native.Context {
	return r.ctx
}

// Capabilities returns the detected capabilities.
func (r *Registry) Capabilities() *capability.Capabilities {
	return r.caps
}

// NextHandle issues a fresh handle.
func (r *Registry) NextHandle() Handle {
	h := r.next
	r.next++
	return h
}

// DeleteBuffer deletes the native buffer and its record. Bindings are the caller's concern.
func (r *Registry) DeleteBuffer(h Handle) error {
	rec, err := r.Buffers.Remove(h)
	if err != nil {
		return err
	}
	r.ctx.DeleteBuffer(rec.Native)
	logging.Logger().Debug("resource: buffer deleted", "handle", h)
	return nil
}

// DeleteTexture deletes the native texture and its record.
func (r *Registry) DeleteTexture(h Handle) error {
	rec, err := r.Textures.Remove(h)
	if err != nil {
		return err
	}
	r.ctx.DeleteTexture(rec.Native)
	logging.Logger().Debug("resource: texture deleted", "handle", h)
	return nil
}

// CreateRenderbuffer allocates renderbuffer storage. The renderbuffer binding is not shadowed; it is
// reset to none afterwards.
//
// Parameters:
//   - format: the internal format, e.g. native.DEPTH24_STENCIL8
//   - width, height: the dimensions in pixels
//
// Returns:
//   - Handle: the renderbuffer handle
func (r *Registry) CreateRenderbuffer(format native.Enum, width, height int) Handle {
	rb := r.ctx.CreateRenderbuffer()
	r.ctx.BindRenderbuffer(native.RENDERBUFFER, rb)
	r.ctx.RenderbufferStorage(native.RENDERBUFFER, format, int32(width), int32(height))
	r.ctx.BindRenderbuffer(native.RENDERBUFFER, 0)

	h := r.NextHandle()
	r.Renderbuffers.Insert(h, &Renderbuffer{Native: rb, Format: format, Width: width, Height: height})
	logging.Logger().Debug("resource: renderbuffer created", "handle", h, "width", width, "height", height)
	return h
}

// DeleteRenderbuffer deletes the native renderbuffer and its record.
func (r *Registry) DeleteRenderbuffer(h Handle) error {
	rec, err := r.Renderbuffers.Remove(h)
	if err != nil {
		return err
	}
	r.ctx.DeleteRenderbuffer(rec.Native)
	return nil
}

// AttachmentSize returns the dimensions of a texture or renderbuffer handle.
//
// Returns:
//   - width, height: the dimensions
//   - bool: false if h names neither a texture nor a renderbuffer
func (r *Registry) AttachmentSize(h Handle) (int, int, bool) {
	if t, err := r.Textures.Get(h); err == nil {
		return t.Width, t.Height, true
	}
	if rb, err := r.Renderbuffers.Get(h); err == nil {
		return rb.Width, rb.Height, true
	}
	return 0, 0, false
}
