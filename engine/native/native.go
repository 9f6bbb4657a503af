// Package native describes the immediate-mode graphics context the engine drives. The engine never
// calls a graphics API directly; every native call goes through a Context so the state shadow can
// sit in front of it and tests can substitute a software model.
package native

// Native object names. Zero means "no object" for every kind.
type (
	Buffer       uint32
	Shader       uint32
	Program      uint32
	Texture      uint32
	Framebuffer  uint32
	Renderbuffer uint32
	VertexArray  uint32
)

// Uniform is a native uniform location. NoUniform marks a uniform the linker dropped.
type Uniform int32

// NoUniform is the location reported for names that are not active uniforms.
const NoUniform Uniform = -1

// Context is the baseline native surface, equivalent to OpenGL ES 2.0 / WebGL 1. Optional entry
// points are exposed through VertexArrayContext, InstancedContext and DrawBuffersContext, or
// through the extension objects returned by Extension.
type Context interface {
	// Version reports the context version.
	//
	// Returns:
	//   - major, minor: the version numbers
	Version() (major, minor int)

	// Extension returns the extension object registered under name, or nil when the extension is
	// absent. Extensions without entry points return a non-nil placeholder.
	//
	// Parameters:
	//   - name: the extension name, e.g. "OES_vertex_array_object"
	//
	// Returns:
	//   - any: the extension object, or nil
	Extension(name string) any

	GetError() Enum
	GetIntegerv(pname Enum, dst []int32)
	GetFloatv(pname Enum, dst []float32)
	GetBooleanv(pname Enum, dst []bool)
	GetString(pname Enum) string

	Enable(capability Enum)
	Disable(capability Enum)
	IsEnabled(capability Enum) bool

	Viewport(x, y, width, height int32)
	Scissor(x, y, width, height int32)
	CullFace(mode Enum)
	StencilFuncSeparate(face, fn Enum, ref int32, mask uint32)
	StencilOpSeparate(face, fail, zfail, zpass Enum)
	DepthMask(flag bool)
	DepthFunc(fn Enum)
	ClearDepth(depth float32)
	DepthRange(near, far float32)
	PolygonOffset(factor, units float32)
	ClearColor(r, g, b, a float32)
	ColorMask(r, g, b, a bool)
	LineWidth(width float32)
	BlendColor(r, g, b, a float32)
	BlendEquationSeparate(modeRGB, modeAlpha Enum)
	BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha Enum)
	Clear(mask Enum)

	CreateBuffer() Buffer
	BindBuffer(target Enum, b Buffer)
	BufferData(target Enum, data []byte, usage Enum)
	BufferSubData(target Enum, offset int, data []byte)
	DeleteBuffer(b Buffer)

	CreateShader(typ Enum) Shader
	ShaderSource(s Shader, src string)
	CompileShader(s Shader)
	GetShaderi(s Shader, pname Enum) int32
	GetShaderInfoLog(s Shader) string
	DeleteShader(s Shader)

	CreateProgram() Program
	AttachShader(p Program, s Shader)
	DetachShader(p Program, s Shader)
	BindAttribLocation(p Program, index uint32, name string)
	LinkProgram(p Program)
	GetProgrami(p Program, pname Enum) int32
	GetProgramInfoLog(p Program) string
	GetActiveAttrib(p Program, index uint32) (name string, size int32, typ Enum)
	GetActiveUniform(p Program, index uint32) (name string, size int32, typ Enum)
	GetAttribLocation(p Program, name string) int32
	GetUniformLocation(p Program, name string) Uniform
	UseProgram(p Program)
	DeleteProgram(p Program)

	Uniform1fv(u Uniform, v []float32)
	Uniform2fv(u Uniform, v []float32)
	Uniform3fv(u Uniform, v []float32)
	Uniform4fv(u Uniform, v []float32)
	Uniform1iv(u Uniform, v []int32)
	Uniform2iv(u Uniform, v []int32)
	Uniform3iv(u Uniform, v []int32)
	Uniform4iv(u Uniform, v []int32)
	UniformMatrix2fv(u Uniform, v []float32)
	UniformMatrix3fv(u Uniform, v []float32)
	UniformMatrix4fv(u Uniform, v []float32)

	EnableVertexAttribArray(index uint32)
	DisableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, typ Enum, normalized bool, stride, offset int32)

	ActiveTexture(unit Enum)
	CreateTexture() Texture
	BindTexture(target Enum, t Texture)
	TexImage2D(target Enum, level int32, internalFormat Enum, width, height int32, format, typ Enum, data []byte)
	TexParameteri(target, pname Enum, param int32)
	GenerateMipmap(target Enum)
	DeleteTexture(t Texture)

	CreateFramebuffer() Framebuffer
	BindFramebuffer(target Enum, f Framebuffer)
	FramebufferTexture2D(target, attachment, texTarget Enum, t Texture, level int32)
	FramebufferRenderbuffer(target, attachment, rbTarget Enum, r Renderbuffer)
	CheckFramebufferStatus(target Enum) Enum
	DeleteFramebuffer(f Framebuffer)

	CreateRenderbuffer() Renderbuffer
	BindRenderbuffer(target Enum, r Renderbuffer)
	RenderbufferStorage(target, internalFormat Enum, width, height int32)
	DeleteRenderbuffer(r Renderbuffer)

	DrawArrays(mode Enum, first, count int32)
	DrawElements(mode Enum, count int32, typ Enum, offset int)
	ReadPixels(dst []byte, x, y, width, height int32, format, typ Enum)
}

// VertexArrayContext is implemented by contexts with core vertex array objects (GL 3.0+, GLES 3.0+).
type VertexArrayContext interface {
	CreateVertexArray() VertexArray
	BindVertexArray(v VertexArray)
	DeleteVertexArray(v VertexArray)
}

// InstancedContext is implemented by contexts with core instanced drawing (GL 3.3+, GLES 3.0+).
type InstancedContext interface {
	DrawArraysInstanced(mode Enum, first, count, instances int32)
	DrawElementsInstanced(mode Enum, count int32, typ Enum, offset int, instances int32)
	VertexAttribDivisor(index, divisor uint32)
}

// DrawBuffersContext is implemented by contexts with core multiple render targets.
type DrawBuffersContext interface {
	DrawBuffers(bufs []Enum)
}

// OESVertexArrayObject is the extension object for OES_vertex_array_object.
type OESVertexArrayObject interface {
	CreateVertexArrayOES() VertexArray
	BindVertexArrayOES(v VertexArray)
	DeleteVertexArrayOES(v VertexArray)
}

// ANGLEInstancedArrays is the extension object for ANGLE_instanced_arrays.
type ANGLEInstancedArrays interface {
	DrawArraysInstancedANGLE(mode Enum, first, count, instances int32)
	DrawElementsInstancedANGLE(mode Enum, count int32, typ Enum, offset int, instances int32)
	VertexAttribDivisorANGLE(index, divisor uint32)
}

// WEBGLDrawBuffers is the extension object for WEBGL_draw_buffers.
type WEBGLDrawBuffers interface {
	DrawBuffersWEBGL(bufs []Enum)
}
