// Package glcore implements native.Context on an OpenGL 3.3 core profile context through go-gl.
// A GL context must be current on the calling thread before New is called, and every method must
// be called from that thread.
package glcore

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-gl/engine/native"
	"github.com/go-gl/gl/v3.3-core/gl"
)

// Context is a native.Context backed by the current OpenGL context.
type Context struct {
	major, minor int
	extensions   map[string]bool
}

var (
	_ native.Context            = &Context{}
	_ native.VertexArrayContext = &Context{}
	_ native.InstancedContext   = &Context{}
	_ native.DrawBuffersContext = &Context{}
)

// New loads the GL entry points for the current context and reads its version and extension list.
//
// go-gl: https://pkg.go.dev/github.com/go-gl/gl/v3.3-core/gl#Init
//
// Returns:
//   - *Context: the native context
//   - error: error if the GL entry points could not be loaded
func New() (*Context, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL bindings: %w", err)
	}
	c := &Context{extensions: map[string]bool{}}

	var major, minor int32
	gl.GetIntegerv(gl.MAJOR_VERSION, &major)
	gl.GetIntegerv(gl.MINOR_VERSION, &minor)
	c.major, c.minor = int(major), int(minor)

	// Core profiles reject GL_EXTENSIONS as a single string; walk the indexed list instead.
	// Reference: https://registry.khronos.org/OpenGL-Refpages/gl4/html/glGetString.xhtml
	var n int32
	gl.GetIntegerv(gl.NUM_EXTENSIONS, &n)
	for i := uint32(0); i < uint32(n); i++ {
		c.extensions[gl.GoStr(gl.GetStringi(gl.EXTENSIONS, i))] = true
	}
	return c, nil
}

func (c *Context) Version() (int, int) {
	return c.major, c.minor
}

// Extension reports extensions as boolean placeholders. Entry points that extensions add on
// GLES/WebGL are core in 3.3 and reached through the optional interfaces instead.
func (c *Context) Extension(name string) any {
	if c.extensions[name] || c.extensions["GL_"+name] {
		return true
	}
	return nil
}

func (c *Context) GetError() native.Enum { return native.Enum(gl.GetError()) }

func (c *Context) GetIntegerv(pname native.Enum, dst []int32) {
	if len(dst) == 0 {
		return
	}
	gl.GetIntegerv(uint32(pname), &dst[0])
}

func (c *Context) GetFloatv(pname native.Enum, dst []float32) {
	if len(dst) == 0 {
		return
	}
	gl.GetFloatv(uint32(pname), &dst[0])
}

func (c *Context) GetBooleanv(pname native.Enum, dst []bool) {
	if len(dst) == 0 {
		return
	}
	gl.GetBooleanv(uint32(pname), &dst[0])
}

func (c *Context) GetString(pname native.Enum) string {
	if pname == native.EXTENSIONS {
		names := make([]string, 0, len(c.extensions))
		for n := range c.extensions {
			names = append(names, n)
		}
		return strings.Join(names, " ")
	}
	return gl.GoStr(gl.GetString(uint32(pname)))
}

func (c *Context) Enable(capability native.Enum)         { gl.Enable(uint32(capability)) }
func (c *Context) Disable(capability native.Enum)        { gl.Disable(uint32(capability)) }
func (c *Context) IsEnabled(capability native.Enum) bool { return gl.IsEnabled(uint32(capability)) }

func (c *Context) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }
func (c *Context) Scissor(x, y, width, height int32)  { gl.Scissor(x, y, width, height) }
func (c *Context) CullFace(mode native.Enum)          { gl.CullFace(uint32(mode)) }

func (c *Context) StencilFuncSeparate(face, fn native.Enum, ref int32, mask uint32) {
	gl.StencilFuncSeparate(uint32(face), uint32(fn), ref, mask)
}

func (c *Context) StencilOpSeparate(face, fail, zfail, zpass native.Enum) {
	gl.StencilOpSeparate(uint32(face), uint32(fail), uint32(zfail), uint32(zpass))
}

func (c *Context) DepthMask(flag bool)                 { gl.DepthMask(flag) }
func (c *Context) DepthFunc(fn native.Enum)            { gl.DepthFunc(uint32(fn)) }
func (c *Context) ClearDepth(depth float32)            { gl.ClearDepth(float64(depth)) }
func (c *Context) DepthRange(near, far float32)        { gl.DepthRange(float64(near), float64(far)) }
func (c *Context) PolygonOffset(factor, units float32) { gl.PolygonOffset(factor, units) }
func (c *Context) ClearColor(r, g, b, a float32)       { gl.ClearColor(r, g, b, a) }
func (c *Context) ColorMask(r, g, b, a bool)           { gl.ColorMask(r, g, b, a) }
func (c *Context) LineWidth(width float32)             { gl.LineWidth(width) }
func (c *Context) BlendColor(r, g, b, a float32)       { gl.BlendColor(r, g, b, a) }
func (c *Context) Clear(mask native.Enum)              { gl.Clear(uint32(mask)) }

func (c *Context) BlendEquationSeparate(modeRGB, modeAlpha native.Enum) {
	gl.BlendEquationSeparate(uint32(modeRGB), uint32(modeAlpha))
}

func (c *Context) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha native.Enum) {
	gl.BlendFuncSeparate(uint32(srcRGB), uint32(dstRGB), uint32(srcAlpha), uint32(dstAlpha))
}

func (c *Context) CreateBuffer() native.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	return native.Buffer(b)
}

func (c *Context) BindBuffer(target native.Enum, b native.Buffer) {
	gl.BindBuffer(uint32(target), uint32(b))
}

func (c *Context) BufferData(target native.Enum, data []byte, usage native.Enum) {
	gl.BufferData(uint32(target), len(data), pointer(data), uint32(usage))
}

func (c *Context) BufferSubData(target native.Enum, offset int, data []byte) {
	gl.BufferSubData(uint32(target), offset, len(data), pointer(data))
}

func (c *Context) DeleteBuffer(b native.Buffer) {
	v := uint32(b)
	gl.DeleteBuffers(1, &v)
}

func (c *Context) CreateShader(typ native.Enum) native.Shader {
	return native.Shader(gl.CreateShader(uint32(typ)))
}

func (c *Context) ShaderSource(s native.Shader, src string) {
	csrc, free := gl.Strs(src + "\x00")
	defer free()
	gl.ShaderSource(uint32(s), 1, csrc, nil)
}

func (c *Context) CompileShader(s native.Shader) { gl.CompileShader(uint32(s)) }

func (c *Context) GetShaderi(s native.Shader, pname native.Enum) int32 {
	var v int32
	gl.GetShaderiv(uint32(s), uint32(pname), &v)
	return v
}

func (c *Context) GetShaderInfoLog(s native.Shader) string {
	n := c.GetShaderi(s, native.INFO_LOG_LENGTH)
	if n == 0 {
		return ""
	}
	buf := strings.Repeat("\x00", int(n+1))
	gl.GetShaderInfoLog(uint32(s), n, nil, gl.Str(buf))
	return gl.GoStr(gl.Str(buf))
}

func (c *Context) DeleteShader(s native.Shader) { gl.DeleteShader(uint32(s)) }

func (c *Context) CreateProgram() native.Program { return native.Program(gl.CreateProgram()) }

func (c *Context) AttachShader(p native.Program, s native.Shader) {
	gl.AttachShader(uint32(p), uint32(s))
}

func (c *Context) DetachShader(p native.Program, s native.Shader) {
	gl.DetachShader(uint32(p), uint32(s))
}

func (c *Context) BindAttribLocation(p native.Program, index uint32, name string) {
	gl.BindAttribLocation(uint32(p), index, gl.Str(name+"\x00"))
}

func (c *Context) LinkProgram(p native.Program) { gl.LinkProgram(uint32(p)) }

func (c *Context) GetProgrami(p native.Program, pname native.Enum) int32 {
	var v int32
	gl.GetProgramiv(uint32(p), uint32(pname), &v)
	return v
}

func (c *Context) GetProgramInfoLog(p native.Program) string {
	n := c.GetProgrami(p, native.INFO_LOG_LENGTH)
	if n == 0 {
		return ""
	}
	buf := strings.Repeat("\x00", int(n+1))
	gl.GetProgramInfoLog(uint32(p), n, nil, gl.Str(buf))
	return gl.GoStr(gl.Str(buf))
}

const maxNameLength = 256

func (c *Context) GetActiveAttrib(p native.Program, index uint32) (string, int32, native.Enum) {
	var length, size int32
	var typ uint32
	name := make([]uint8, maxNameLength)
	gl.GetActiveAttrib(uint32(p), index, maxNameLength, &length, &size, &typ, &name[0])
	return string(name[:length]), size, native.Enum(typ)
}

func (c *Context) GetActiveUniform(p native.Program, index uint32) (string, int32, native.Enum) {
	var length, size int32
	var typ uint32
	name := make([]uint8, maxNameLength)
	gl.GetActiveUniform(uint32(p), index, maxNameLength, &length, &size, &typ, &name[0])
	return string(name[:length]), size, native.Enum(typ)
}

func (c *Context) GetAttribLocation(p native.Program, name string) int32 {
	return gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00"))
}

func (c *Context) GetUniformLocation(p native.Program, name string) native.Uniform {
	return native.Uniform(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

func (c *Context) UseProgram(p native.Program)    { gl.UseProgram(uint32(p)) }
func (c *Context) DeleteProgram(p native.Program) { gl.DeleteProgram(uint32(p)) }

func (c *Context) Uniform1fv(u native.Uniform, v []float32) {
	gl.Uniform1fv(int32(u), int32(len(v)), &v[0])
}

func (c *Context) Uniform2fv(u native.Uniform, v []float32) {
	gl.Uniform2fv(int32(u), int32(len(v)/2), &v[0])
}

func (c *Context) Uniform3fv(u native.Uniform, v []float32) {
	gl.Uniform3fv(int32(u), int32(len(v)/3), &v[0])
}

func (c *Context) Uniform4fv(u native.Uniform, v []float32) {
	gl.Uniform4fv(int32(u), int32(len(v)/4), &v[0])
}

func (c *Context) Uniform1iv(u native.Uniform, v []int32) {
	gl.Uniform1iv(int32(u), int32(len(v)), &v[0])
}

func (c *Context) Uniform2iv(u native.Uniform, v []int32) {
	gl.Uniform2iv(int32(u), int32(len(v)/2), &v[0])
}

func (c *Context) Uniform3iv(u native.Uniform, v []int32) {
	gl.Uniform3iv(int32(u), int32(len(v)/3), &v[0])
}

func (c *Context) Uniform4iv(u native.Uniform, v []int32) {
	gl.Uniform4iv(int32(u), int32(len(v)/4), &v[0])
}

func (c *Context) UniformMatrix2fv(u native.Uniform, v []float32) {
	gl.UniformMatrix2fv(int32(u), int32(len(v)/4), false, &v[0])
}

func (c *Context) UniformMatrix3fv(u native.Uniform, v []float32) {
	gl.UniformMatrix3fv(int32(u), int32(len(v)/9), false, &v[0])
}

func (c *Context) UniformMatrix4fv(u native.Uniform, v []float32) {
	gl.UniformMatrix4fv(int32(u), int32(len(v)/16), false, &v[0])
}

func (c *Context) EnableVertexAttribArray(index uint32)  { gl.EnableVertexAttribArray(index) }
func (c *Context) DisableVertexAttribArray(index uint32) { gl.DisableVertexAttribArray(index) }

func (c *Context) VertexAttribPointer(index uint32, size int32, typ native.Enum, normalized bool, stride, offset int32) {
	gl.VertexAttribPointerWithOffset(index, size, uint32(typ), normalized, stride, uintptr(offset))
}

func (c *Context) ActiveTexture(unit native.Enum) { gl.ActiveTexture(uint32(unit)) }

func (c *Context) CreateTexture() native.Texture {
	var t uint32
	gl.GenTextures(1, &t)
	return native.Texture(t)
}

func (c *Context) BindTexture(target native.Enum, t native.Texture) {
	gl.BindTexture(uint32(target), uint32(t))
}

func (c *Context) TexImage2D(target native.Enum, level int32, internalFormat native.Enum, width, height int32, format, typ native.Enum, data []byte) {
	gl.TexImage2D(uint32(target), level, int32(internalFormat), width, height, 0, uint32(format), uint32(typ), pointer(data))
}

func (c *Context) TexParameteri(target, pname native.Enum, param int32) {
	gl.TexParameteri(uint32(target), uint32(pname), param)
}

func (c *Context) GenerateMipmap(target native.Enum) { gl.GenerateMipmap(uint32(target)) }

func (c *Context) DeleteTexture(t native.Texture) {
	v := uint32(t)
	gl.DeleteTextures(1, &v)
}

func (c *Context) CreateFramebuffer() native.Framebuffer {
	var f uint32
	gl.GenFramebuffers(1, &f)
	return native.Framebuffer(f)
}

func (c *Context) BindFramebuffer(target native.Enum, f native.Framebuffer) {
	gl.BindFramebuffer(uint32(target), uint32(f))
}

func (c *Context) FramebufferTexture2D(target, attachment, texTarget native.Enum, t native.Texture, level int32) {
	gl.FramebufferTexture2D(uint32(target), uint32(attachment), uint32(texTarget), uint32(t), level)
}

func (c *Context) FramebufferRenderbuffer(target, attachment, rbTarget native.Enum, r native.Renderbuffer) {
	gl.FramebufferRenderbuffer(uint32(target), uint32(attachment), uint32(rbTarget), uint32(r))
}

func (c *Context) CheckFramebufferStatus(target native.Enum) native.Enum {
	return native.Enum(gl.CheckFramebufferStatus(uint32(target)))
}

func (c *Context) DeleteFramebuffer(f native.Framebuffer) {
	v := uint32(f)
	gl.DeleteFramebuffers(1, &v)
}

func (c *Context) CreateRenderbuffer() native.Renderbuffer {
	var r uint32
	gl.GenRenderbuffers(1, &r)
	return native.Renderbuffer(r)
}

func (c *Context) BindRenderbuffer(target native.Enum, r native.Renderbuffer) {
	gl.BindRenderbuffer(uint32(target), uint32(r))
}

func (c *Context) RenderbufferStorage(target, internalFormat native.Enum, width, height int32) {
	gl.RenderbufferStorage(uint32(target), uint32(internalFormat), width, height)
}

func (c *Context) DeleteRenderbuffer(r native.Renderbuffer) {
	v := uint32(r)
	gl.DeleteRenderbuffers(1, &v)
}

func (c *Context) DrawArrays(mode native.Enum, first, count int32) {
	gl.DrawArrays(uint32(mode), first, count)
}

func (c *Context) DrawElements(mode native.Enum, count int32, typ native.Enum, offset int) {
	gl.DrawElements(uint32(mode), count, uint32(typ), gl.PtrOffset(offset))
}

func (c *Context) ReadPixels(dst []byte, x, y, width, height int32, format, typ native.Enum) {
	gl.ReadPixels(x, y, width, height, uint32(format), uint32(typ), pointer(dst))
}

func (c *Context) CreateVertexArray() native.VertexArray {
	var v uint32
	gl.GenVertexArrays(1, &v)
	return native.VertexArray(v)
}

func (c *Context) BindVertexArray(v native.VertexArray) { gl.BindVertexArray(uint32(v)) }

func (c *Context) DeleteVertexArray(v native.VertexArray) {
	n := uint32(v)
	gl.DeleteVertexArrays(1, &n)
}

func (c *Context) DrawArraysInstanced(mode native.Enum, first, count, instances int32) {
	gl.DrawArraysInstanced(uint32(mode), first, count, instances)
}

func (c *Context) DrawElementsInstanced(mode native.Enum, count int32, typ native.Enum, offset int, instances int32) {
	gl.DrawElementsInstanced(uint32(mode), count, uint32(typ), gl.PtrOffset(offset), instances)
}

func (c *Context) VertexAttribDivisor(index, divisor uint32) { gl.VertexAttribDivisor(index, divisor) }

func (c *Context) DrawBuffers(bufs []native.Enum) {
	if len(bufs) == 0 {
		none := uint32(gl.NONE)
		gl.DrawBuffers(1, &none)
		return
	}
	raw := make([]uint32, len(bufs))
	for i, b := range bufs {
		raw[i] = uint32(b)
	}
	gl.DrawBuffers(int32(len(raw)), &raw[0])
}

// pointer returns the address of the first byte, or nil for empty slices so GL allocates
// uninitialized storage.
func pointer(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return gl.Ptr(data)
}
