// Package nativetest provides a software model of a native graphics context. It keeps the real
// parameter state, counts every call by name and records uniform uploads and draws, so tests can
// compare the native side against the engine's shadow without a GPU.
package nativetest

import (
	"encoding/binary"
	"math"
	"sort"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/engine/native"
)

// Upload records one uniform upload.
type Upload struct {
	Program native.Program
	Name    string
	Values  []float32
}

// Draw records one draw call.
type Draw struct {
	Mode      native.Enum
	First     int32
	Count     int32
	Indexed   bool
	Type      native.Enum
	Instances int32
	Program   native.Program
	Viewport  [4]int32
}

// Option configures a Context.
type Option func(c *Context)

// WithVersion sets the version reported by Version.
func WithVersion(major, minor int) Option {
	return func(c *Context) {
		c.major, c.minor = major, minor
	}
}

// WithExtensions makes the named extensions available through Extension.
func WithExtensions(names ...string) Option {
	return func(c *Context) {
		for _, n := range names {
			c.extensions[n] = true
		}
	}
}

// WithLimits sets the draw buffer and color attachment limits.
func WithLimits(maxDrawBuffers, maxColorAttachments int32) Option {
	return func(c *Context) {
		c.maxDrawBuffers = maxDrawBuffers
		c.maxColorAttachments = maxColorAttachments
	}
}

// WithState runs fn against the freshly built context, before any call is counted. Tests use it to
// seed non-default native state.
func WithState(fn func(c *Context)) Option {
	return func(c *Context) {
		fn(c)
	}
}

type attrib struct {
	enabled    bool
	buffer     native.Buffer
	size       int32
	typ        native.Enum
	normalized bool
	stride     int32
	offset     int32
	divisor    uint32
}

type vertexArray struct {
	element native.Buffer
	attribs map[uint32]attrib
}

type buffer struct {
	data  []byte
	usage native.Enum
}

type shader struct {
	typ      native.Enum
	src      string
	compiled bool
	log      string
}

type variable struct {
	name     string
	typ      native.Enum
	size     int32
	location int32
}

type program struct {
	shaders  map[native.Shader]bool
	bindings map[string]uint32
	linked   bool
	log      string
	attribs  []variable
	uniforms []variable
	values   map[native.Uniform][]float32
}

type texture struct {
	width, height int32
	format        native.Enum
	typ           native.Enum
	params        map[native.Enum]int32
	mipmaps       bool
}

type framebuffer struct {
	attachments map[native.Enum]any
}

type renderbuffer struct {
	width, height int32
	format        native.Enum
}

// Context is a baseline (GLES 2.0 level) native context. Use NewCore for a context that also
// implements the optional core interfaces.
type Context struct {
	major, minor int
	extensions   map[string]bool

	maxDrawBuffers      int32
	maxColorAttachments int32

	// ForceIncomplete makes every framebuffer fail the completeness check.
	ForceIncomplete bool

	err   native.Enum
	calls map[string]int
	next  uint32

	flags map[native.Enum]bool

	viewport  [4]int32
	scissor   [4]int32
	cullMode  native.Enum
	frontFace native.Enum

	stencilFunc [2]native.Enum
	stencilRef  [2]int32
	stencilMask [2]uint32
	stencilOps  [2][3]native.Enum
	stencilWM   [2]uint32

	depthMask   bool
	depthFunc   native.Enum
	depthClear  float32
	depthRange  [2]float32
	polyFactor  float32
	polyUnits   float32
	clearColor  [4]float32
	colorMask   [4]bool
	lineWidth   float32
	blendColor  [4]float32
	blendEq     [2]native.Enum
	blendFunc   [4]native.Enum
	drawBuffers []native.Enum

	arrayBuffer   native.Buffer
	boundVAO      native.VertexArray
	program       native.Program
	activeUnit    native.Enum
	units         map[native.Enum]native.Texture
	boundFBO      native.Framebuffer
	boundRB       native.Renderbuffer
	vertexArrays  map[native.VertexArray]*vertexArray
	buffers       map[native.Buffer]*buffer
	shaders       map[native.Shader]*shader
	programs      map[native.Program]*program
	textures      map[native.Texture]*texture
	framebuffers  map[native.Framebuffer]*framebuffer
	renderbuffers map[native.Renderbuffer]*renderbuffer

	uploads []Upload
	draws   []Draw
}

var _ native.Context = &Context{}

// New creates a baseline context reporting version 2.0 with GL default state.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *Context: the context
func New(options ...Option) *Context {
	c := &Context{
		major:               2,
		minor:               0,
		extensions:          map[string]bool{},
		maxDrawBuffers:      1,
		maxColorAttachments: 1,
		calls:               map[string]int{},
		next:                1,
		flags:               map[native.Enum]bool{native.DITHER: true},
		viewport:            [4]int32{0, 0, 640, 480},
		scissor:             [4]int32{0, 0, 640, 480},
		cullMode:            native.BACK,
		frontFace:           native.CCW,
		stencilFunc:         [2]native.Enum{native.ALWAYS, native.ALWAYS},
		stencilMask:         [2]uint32{0xFFFFFFFF, 0xFFFFFFFF},
		stencilOps:          [2][3]native.Enum{{native.KEEP, native.KEEP, native.KEEP}, {native.KEEP, native.KEEP, native.KEEP}},
		stencilWM:           [2]uint32{0xFFFFFFFF, 0xFFFFFFFF},
		depthMask:           true,
		depthFunc:           native.LESS,
		depthClear:          1,
		depthRange:          [2]float32{0, 1},
		colorMask:           [4]bool{true, true, true, true},
		lineWidth:           1,
		blendEq:             [2]native.Enum{native.FUNC_ADD, native.FUNC_ADD},
		blendFunc:           [4]native.Enum{native.ONE, native.ZERO, native.ONE, native.ZERO},
		drawBuffers:         []native.Enum{native.COLOR_ATTACHMENT0},
		activeUnit:          native.TEXTURE0,
		units:               map[native.Enum]native.Texture{},
		vertexArrays:        map[native.VertexArray]*vertexArray{0: {attribs: map[uint32]attrib{}}},
		buffers:             map[native.Buffer]*buffer{},
		shaders:             map[native.Shader]*shader{},
		programs:            map[native.Program]*program{},
		textures:            map[native.Texture]*texture{},
		framebuffers:        map[native.Framebuffer]*framebuffer{},
		renderbuffers:       map[native.Renderbuffer]*renderbuffer{},
	}
	for _, opt := range options {
		opt(c)
	}
	c.calls = map[string]int{}
	return c
}

func (c *Context) record(name string) {
	c.calls[name]++
}

func (c *Context) fail(code native.Enum) {
	if c.err == native.NO_ERROR {
		c.err = code
	}
}

func (c *Context) name() uint32 {
	n := c.next
	c.next++
	return n
}

func (c *Context) vao() *vertexArray {
	return c.vertexArrays[c.boundVAO]
}

func face(f native.Enum) []int {
	switch f {
	case native.FRONT:
		return []int{0}
	case native.BACK:
		return []int{1}
	}
	return []int{0, 1}
}

// Calls returns how many times the named native entry point was called since construction or the
// last ResetCalls.
func (c *Context) Calls(name string) int {
	return c.calls[name]
}

// TotalCalls returns the number of native calls since construction or the last ResetCalls.
func (c *Context) TotalCalls() int {
	total := 0
	for _, n := range c.calls {
		total += n
	}
	return total
}

// ResetCalls clears the call counters, the upload log and the draw log.
func (c *Context) ResetCalls() {
	c.calls = map[string]int{}
	c.uploads = nil
	c.draws = nil
}

// Uploads returns the uniform uploads that targeted the named uniform.
func (c *Context) Uploads(name string) []Upload {
	var out []Upload
	for _, u := range c.uploads {
		if u.Name == name {
			out = append(out, u)
		}
	}
	return out
}

// AllUploads returns every recorded uniform upload in call order.
func (c *Context) AllUploads() []Upload {
	return append([]Upload(nil), c.uploads...)
}

// Draws returns the recorded draw calls in call order.
func (c *Context) Draws() []Draw {
	return append([]Draw(nil), c.draws...)
}

// SetError forces the next GetError result.
func (c *Context) SetError(code native.Enum) {
	c.err = code
}

// Live reports how many native objects of each kind currently exist, keyed by kind name.
func (c *Context) Live() map[string]int {
	return map[string]int{
		"buffer":       len(c.buffers),
		"shader":       len(c.shaders),
		"program":      len(c.programs),
		"texture":      len(c.textures),
		"framebuffer":  len(c.framebuffers),
		"renderbuffer": len(c.renderbuffers),
		"vertexArray":  len(c.vertexArrays) - 1,
	}
}

// BufferContents returns a copy of the data store of b.
func (c *Context) BufferContents(b native.Buffer) []byte {
	if buf, ok := c.buffers[b]; ok {
		return append([]byte(nil), buf.data...)
	}
	return nil
}

// ElementBinding returns the element array buffer recorded by the given vertex array object
// (0 for the default object).
func (c *Context) ElementBinding(v native.VertexArray) native.Buffer {
	if va, ok := c.vertexArrays[v]; ok {
		return va.element
	}
	return 0
}

// AttribPointer returns the attribute pointer of location index in the current vertex array
// object: source buffer, size, stride, offset, divisor and whether the array is enabled.
func (c *Context) AttribPointer(index uint32) (buf native.Buffer, size, stride, offset int32, divisor uint32, enabled bool) {
	a := c.vao().attribs[index]
	return a.buffer, a.size, a.stride, a.offset, a.divisor, a.enabled
}

// TextureParameter returns a texture parameter of t, or 0 when unset.
func (c *Context) TextureParameter(t native.Texture, pname native.Enum) int32 {
	if tex, ok := c.textures[t]; ok {
		return tex.params[pname]
	}
	return 0
}

// TextureSize returns the dimensions of level 0 of t.
func (c *Context) TextureSize(t native.Texture) (int32, int32) {
	if tex, ok := c.textures[t]; ok {
		return tex.width, tex.height
	}
	return 0, 0
}

// Attachment returns the object attached to point on framebuffer f: a native.Texture,
// a native.Renderbuffer, or nil.
func (c *Context) Attachment(f native.Framebuffer, point native.Enum) any {
	if fb, ok := c.framebuffers[f]; ok {
		return fb.attachments[point]
	}
	return nil
}

// DrawBufferList returns the last list passed to a draw-buffers entry point.
func (c *Context) DrawBufferList() []native.Enum {
	return append([]native.Enum(nil), c.drawBuffers...)
}

// BoundProgram returns the program most recently passed to UseProgram.
func (c *Context) BoundProgram() native.Program {
	return c.program
}

func (c *Context) Version() (int, int) {
	return c.major, c.minor
}

func (c *Context) Extension(name string) any {
	c.record("Extension")
	if !c.extensions[name] {
		return nil
	}
	switch name {
	case native.ExtVertexArrayObject:
		return &oesVertexArrayObject{c}
	case native.ExtInstancedArrays:
		return &angleInstancedArrays{c}
	case native.ExtDrawBuffers:
		return &webglDrawBuffers{c}
	}
	return true
}

func (c *Context) GetError() native.Enum {
	c.record("GetError")
	e := c.err
	c.err = native.NO_ERROR
	return e
}

func (c *Context) GetIntegerv(pname native.Enum, dst []int32) {
	c.record("GetIntegerv")
	put := func(v ...int32) {
		copy(dst, v)
	}
	switch pname {
	case native.VIEWPORT:
		put(c.viewport[:]...)
	case native.SCISSOR_BOX:
		put(c.scissor[:]...)
	case native.CULL_FACE_MODE:
		put(int32(c.cullMode))
	case native.FRONT_FACE:
		put(int32(c.frontFace))
	case native.STENCIL_FUNC:
		put(int32(c.stencilFunc[0]))
	case native.STENCIL_REF:
		put(c.stencilRef[0])
	case native.STENCIL_VALUE_MASK:
		put(int32(c.stencilMask[0]))
	case native.STENCIL_FAIL:
		put(int32(c.stencilOps[0][0]))
	case native.STENCIL_PASS_DEPTH_FAIL:
		put(int32(c.stencilOps[0][1]))
	case native.STENCIL_PASS_DEPTH_PASS:
		put(int32(c.stencilOps[0][2]))
	case native.STENCIL_BACK_FUNC:
		put(int32(c.stencilFunc[1]))
	case native.STENCIL_BACK_REF:
		put(c.stencilRef[1])
	case native.STENCIL_BACK_VALUE_MASK:
		put(int32(c.stencilMask[1]))
	case native.STENCIL_BACK_FAIL:
		put(int32(c.stencilOps[1][0]))
	case native.STENCIL_BACK_PASS_DEPTH_FAIL:
		put(int32(c.stencilOps[1][1]))
	case native.STENCIL_BACK_PASS_DEPTH_PASS:
		put(int32(c.stencilOps[1][2]))
	case native.DEPTH_FUNC:
		put(int32(c.depthFunc))
	case native.BLEND_EQUATION_RGB:
		put(int32(c.blendEq[0]))
	case native.BLEND_EQUATION_ALPHA:
		put(int32(c.blendEq[1]))
	case native.BLEND_SRC_RGB:
		put(int32(c.blendFunc[0]))
	case native.BLEND_DST_RGB:
		put(int32(c.blendFunc[1]))
	case native.BLEND_SRC_ALPHA:
		put(int32(c.blendFunc[2]))
	case native.BLEND_DST_ALPHA:
		put(int32(c.blendFunc[3]))
	case native.ARRAY_BUFFER_BINDING:
		put(int32(c.arrayBuffer))
	case native.ELEMENT_ARRAY_BUFFER_BINDING:
		put(int32(c.vao().element))
	case native.VERTEX_ARRAY_BINDING:
		put(int32(c.boundVAO))
	case native.CURRENT_PROGRAM:
		put(int32(c.program))
	case native.ACTIVE_TEXTURE:
		put(int32(c.activeUnit))
	case native.TEXTURE_BINDING_2D:
		put(int32(c.units[c.activeUnit]))
	case native.FRAMEBUFFER_BINDING:
		put(int32(c.boundFBO))
	case native.RENDERBUFFER_BINDING:
		put(int32(c.boundRB))
	case native.MAX_DRAW_BUFFERS:
		put(c.maxDrawBuffers)
	case native.MAX_COLOR_ATTACHMENTS:
		put(c.maxColorAttachments)
	case native.MAX_TEXTURE_IMAGE_UNITS, native.MAX_COMBINED_TEXTURE_IMAGE_UNITS:
		put(16)
	case native.MAX_VERTEX_ATTRIBS:
		put(16)
	case native.MAX_TEXTURE_SIZE, native.MAX_RENDERBUFFER_SIZE:
		put(8192)
	case native.NUM_EXTENSIONS:
		put(int32(len(c.extensions)))
	default:
		c.fail(native.INVALID_ENUM)
	}
}

func (c *Context) GetFloatv(pname native.Enum, dst []float32) {
	c.record("GetFloatv")
	put := func(v ...float32) {
		copy(dst, v)
	}
	switch pname {
	case native.DEPTH_CLEAR_VALUE:
		put(c.depthClear)
	case native.DEPTH_RANGE:
		put(c.depthRange[:]...)
	case native.POLYGON_OFFSET_FACTOR:
		put(c.polyFactor)
	case native.POLYGON_OFFSET_UNITS:
		put(c.polyUnits)
	case native.COLOR_CLEAR_VALUE:
		put(c.clearColor[:]...)
	case native.LINE_WIDTH:
		put(c.lineWidth)
	case native.BLEND_COLOR:
		put(c.blendColor[:]...)
	default:
		c.fail(native.INVALID_ENUM)
	}
}

func (c *Context) GetBooleanv(pname native.Enum, dst []bool) {
	c.record("GetBooleanv")
	switch pname {
	case native.DEPTH_WRITEMASK:
		copy(dst, []bool{c.depthMask})
	case native.COLOR_WRITEMASK:
		copy(dst, c.colorMask[:])
	default:
		c.fail(native.INVALID_ENUM)
	}
}

func (c *Context) GetString(pname native.Enum) string {
	c.record("GetString")
	switch pname {
	case native.VENDOR:
		return "oxy-gl"
	case native.RENDERER:
		return "nativetest"
	case native.VERSION:
		if c.major < 3 {
			return "OpenGL ES 2.0 nativetest"
		}
		return "3.3.0 nativetest"
	case native.EXTENSIONS:
		names := make([]string, 0, len(c.extensions))
		for n := range c.extensions {
			names = append(names, n)
		}
		sort.Strings(names)
		return strings.Join(names, " ")
	}
	c.fail(native.INVALID_ENUM)
	return ""
}

func (c *Context) Enable(capability native.Enum) {
	c.record("Enable")
	c.flags[capability] = true
}

func (c *Context) Disable(capability native.Enum) {
	c.record("Disable")
	c.flags[capability] = false
}

func (c *Context) IsEnabled(capability native.Enum) bool {
	c.record("IsEnabled")
	return c.flags[capability]
}

func (c *Context) Viewport(x, y, width, height int32) {
	c.record("Viewport")
	c.viewport = [4]int32{x, y, width, height}
}

func (c *Context) Scissor(x, y, width, height int32) {
	c.record("Scissor")
	c.scissor = [4]int32{x, y, width, height}
}

func (c *Context) CullFace(mode native.Enum) {
	c.record("CullFace")
	c.cullMode = mode
}

func (c *Context) StencilFuncSeparate(f, fn native.Enum, ref int32, mask uint32) {
	c.record("StencilFuncSeparate")
	for _, i := range face(f) {
		c.stencilFunc[i], c.stencilRef[i], c.stencilMask[i] = fn, ref, mask
	}
}

func (c *Context) StencilOpSeparate(f, fail, zfail, zpass native.Enum) {
	c.record("StencilOpSeparate")
	for _, i := range face(f) {
		c.stencilOps[i] = [3]native.Enum{fail, zfail, zpass}
	}
}

func (c *Context) DepthMask(flag bool) {
	c.record("DepthMask")
	c.depthMask = flag
}

func (c *Context) DepthFunc(fn native.Enum) {
	c.record("DepthFunc")
	c.depthFunc = fn
}

func (c *Context) ClearDepth(depth float32) {
	c.record("ClearDepth")
	c.depthClear = depth
}

func (c *Context) DepthRange(near, far float32) {
	c.record("DepthRange")
	c.depthRange = [2]float32{near, far}
}

func (c *Context) PolygonOffset(factor, units float32) {
	c.record("PolygonOffset")
	c.polyFactor, c.polyUnits = factor, units
}

func (c *Context) ClearColor(r, g, b, a float32) {
	c.record("ClearColor")
	c.clearColor = [4]float32{r, g, b, a}
}

func (c *Context) ColorMask(r, g, b, a bool) {
	c.record("ColorMask")
	c.colorMask = [4]bool{r, g, b, a}
}

func (c *Context) LineWidth(width float32) {
	c.record("LineWidth")
	if width <= 0 {
		c.fail(native.INVALID_VALUE)
		return
	}
	c.lineWidth = width
}

func (c *Context) BlendColor(r, g, b, a float32) {
	c.record("BlendColor")
	c.blendColor = [4]float32{r, g, b, a}
}

func (c *Context) BlendEquationSeparate(modeRGB, modeAlpha native.Enum) {
	c.record("BlendEquationSeparate")
	c.blendEq = [2]native.Enum{modeRGB, modeAlpha}
}

func (c *Context) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha native.Enum) {
	c.record("BlendFuncSeparate")
	c.blendFunc = [4]native.Enum{srcRGB, dstRGB, srcAlpha, dstAlpha}
}

func (c *Context) Clear(mask native.Enum) {
	c.record("Clear")
}

func (c *Context) CreateBuffer() native.Buffer {
	c.record("CreateBuffer")
	b := native.Buffer(c.name())
	c.buffers[b] = &buffer{}
	return b
}

func (c *Context) BindBuffer(target native.Enum, b native.Buffer) {
	c.record("BindBuffer")
	if _, ok := c.buffers[b]; b != 0 && !ok {
		c.fail(native.INVALID_OPERATION)
		return
	}
	switch target {
	case native.ARRAY_BUFFER:
		c.arrayBuffer = b
	case native.ELEMENT_ARRAY_BUFFER:
		c.vao().element = b
	default:
		c.fail(native.INVALID_ENUM)
	}
}

func (c *Context) bound(target native.Enum) *buffer {
	var b native.Buffer
	switch target {
	case native.ARRAY_BUFFER:
		b = c.arrayBuffer
	case native.ELEMENT_ARRAY_BUFFER:
		b = c.vao().element
	}
	return c.buffers[b]
}

func (c *Context) BufferData(target native.Enum, data []byte, usage native.Enum) {
	c.record("BufferData")
	buf := c.bound(target)
	if buf == nil {
		c.fail(native.INVALID_OPERATION)
		return
	}
	buf.data = append([]byte(nil), data...)
	buf.usage = usage
}

func (c *Context) BufferSubData(target native.Enum, offset int, data []byte) {
	c.record("BufferSubData")
	buf := c.bound(target)
	if buf == nil {
		c.fail(native.INVALID_OPERATION)
		return
	}
	if offset < 0 || offset+len(data) > len(buf.data) {
		c.fail(native.INVALID_VALUE)
		return
	}
	copy(buf.data[offset:], data)
}

func (c *Context) DeleteBuffer(b native.Buffer) {
	c.record("DeleteBuffer")
	if _, ok := c.buffers[b]; !ok {
		return
	}
	delete(c.buffers, b)
	if c.arrayBuffer == b {
		c.arrayBuffer = 0
	}
	if c.vao().element == b {
		c.vao().element = 0
	}
}

func (c *Context) CreateShader(typ native.Enum) native.Shader {
	c.record("CreateShader")
	s := native.Shader(c.name())
	c.shaders[s] = &shader{typ: typ}
	return s
}

func (c *Context) ShaderSource(s native.Shader, src string) {
	c.record("ShaderSource")
	if sh, ok := c.shaders[s]; ok {
		sh.src = src
		return
	}
	c.fail(native.INVALID_VALUE)
}

func (c *Context) CompileShader(s native.Shader) {
	c.record("CompileShader")
	sh, ok := c.shaders[s]
	if !ok {
		c.fail(native.INVALID_VALUE)
		return
	}
	if m := errorDirective.FindStringSubmatch(sh.src); m != nil {
		sh.compiled = false
		sh.log = "ERROR: 0:1: '#error' : " + strings.TrimSpace(m[1])
		return
	}
	sh.compiled = true
	sh.log = ""
}

func (c *Context) GetShaderi(s native.Shader, pname native.Enum) int32 {
	c.record("GetShaderi")
	sh, ok := c.shaders[s]
	if !ok {
		c.fail(native.INVALID_VALUE)
		return 0
	}
	switch pname {
	case native.COMPILE_STATUS:
		return boolInt(sh.compiled)
	case native.SHADER_TYPE:
		return int32(sh.typ)
	case native.INFO_LOG_LENGTH:
		return int32(len(sh.log))
	}
	c.fail(native.INVALID_ENUM)
	return 0
}

func (c *Context) GetShaderInfoLog(s native.Shader) string {
	c.record("GetShaderInfoLog")
	if sh, ok := c.shaders[s]; ok {
		return sh.log
	}
	return ""
}

func (c *Context) DeleteShader(s native.Shader) {
	c.record("DeleteShader")
	delete(c.shaders, s)
}

func (c *Context) CreateProgram() native.Program {
	c.record("CreateProgram")
	p := native.Program(c.name())
	c.programs[p] = &program{
		shaders:  map[native.Shader]bool{},
		bindings: map[string]uint32{},
		values:   map[native.Uniform][]float32{},
	}
	return p
}

func (c *Context) AttachShader(p native.Program, s native.Shader) {
	c.record("AttachShader")
	prog, ok := c.programs[p]
	if _, sok := c.shaders[s]; !ok || !sok {
		c.fail(native.INVALID_VALUE)
		return
	}
	prog.shaders[s] = true
}

func (c *Context) DetachShader(p native.Program, s native.Shader) {
	c.record("DetachShader")
	if prog, ok := c.programs[p]; ok {
		delete(prog.shaders, s)
	}
}

func (c *Context) BindAttribLocation(p native.Program, index uint32, name string) {
	c.record("BindAttribLocation")
	if prog, ok := c.programs[p]; ok {
		prog.bindings[name] = index
		return
	}
	c.fail(native.INVALID_VALUE)
}

func (c *Context) LinkProgram(p native.Program) {
	c.record("LinkProgram")
	prog, ok := c.programs[p]
	if !ok {
		c.fail(native.INVALID_VALUE)
		return
	}
	linkProgram(c, prog)
}

func (c *Context) GetProgrami(p native.Program, pname native.Enum) int32 {
	c.record("GetProgrami")
	prog, ok := c.programs[p]
	if !ok {
		c.fail(native.INVALID_VALUE)
		return 0
	}
	switch pname {
	case native.LINK_STATUS:
		return boolInt(prog.linked)
	case native.ACTIVE_ATTRIBUTES:
		return int32(len(prog.attribs))
	case native.ACTIVE_UNIFORMS:
		return int32(len(prog.uniforms))
	case native.ATTACHED_SHADERS:
		return int32(len(prog.shaders))
	case native.INFO_LOG_LENGTH:
		return int32(len(prog.log))
	}
	c.fail(native.INVALID_ENUM)
	return 0
}

func (c *Context) GetProgramInfoLog(p native.Program) string {
	c.record("GetProgramInfoLog")
	if prog, ok := c.programs[p]; ok {
		return prog.log
	}
	return ""
}

func (c *Context) GetActiveAttrib(p native.Program, index uint32) (string, int32, native.Enum) {
	c.record("GetActiveAttrib")
	prog, ok := c.programs[p]
	if !ok || int(index) >= len(prog.attribs) {
		c.fail(native.INVALID_VALUE)
		return "", 0, 0
	}
	a := prog.attribs[index]
	return a.name, a.size, a.typ
}

func (c *Context) GetActiveUniform(p native.Program, index uint32) (string, int32, native.Enum) {
	c.record("GetActiveUniform")
	prog, ok := c.programs[p]
	if !ok || int(index) >= len(prog.uniforms) {
		c.fail(native.INVALID_VALUE)
		return "", 0, 0
	}
	u := prog.uniforms[index]
	return u.name, u.size, u.typ
}

func (c *Context) GetAttribLocation(p native.Program, name string) int32 {
	c.record("GetAttribLocation")
	if prog, ok := c.programs[p]; ok {
		for _, a := range prog.attribs {
			if a.name == name {
				return a.location
			}
		}
	}
	return -1
}

func (c *Context) GetUniformLocation(p native.Program, name string) native.Uniform {
	c.record("GetUniformLocation")
	if prog, ok := c.programs[p]; ok {
		name = strings.TrimSuffix(name, "[0]")
		for _, u := range prog.uniforms {
			if strings.TrimSuffix(u.name, "[0]") == name {
				return native.Uniform(u.location)
			}
		}
	}
	return native.NoUniform
}

func (c *Context) UseProgram(p native.Program) {
	c.record("UseProgram")
	if prog, ok := c.programs[p]; p != 0 && (!ok || !prog.linked) {
		c.fail(native.INVALID_OPERATION)
		return
	}
	c.program = p
}

func (c *Context) DeleteProgram(p native.Program) {
	c.record("DeleteProgram")
	if _, ok := c.programs[p]; !ok {
		return
	}
	delete(c.programs, p)
	if c.program == p {
		c.program = 0
	}
}

func (c *Context) uniform(name string, u native.Uniform, v []float32) {
	c.record(name)
	if u == native.NoUniform {
		return
	}
	prog, ok := c.programs[c.program]
	if !ok {
		c.fail(native.INVALID_OPERATION)
		return
	}
	uname := ""
	for _, uv := range prog.uniforms {
		if native.Uniform(uv.location) == u {
			uname = uv.name
		}
	}
	if uname == "" {
		c.fail(native.INVALID_OPERATION)
		return
	}
	vals := append([]float32(nil), v...)
	prog.values[u] = vals
	c.uploads = append(c.uploads, Upload{Program: c.program, Name: uname, Values: vals})
}

func ints(v []int32) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}

func (c *Context) Uniform1fv(u native.Uniform, v []float32) { c.uniform("Uniform1fv", u, v) }
func (c *Context) Uniform2fv(u native.Uniform, v []float32) { c.uniform("Uniform2fv", u, v) }
func (c *Context) Uniform3fv(u native.Uniform, v []float32) { c.uniform("Uniform3fv", u, v) }
func (c *Context) Uniform4fv(u native.Uniform, v []float32) { c.uniform("Uniform4fv", u, v) }
func (c *Context) Uniform1iv(u native.Uniform, v []int32)   { c.uniform("Uniform1iv", u, ints(v)) }
func (c *Context) Uniform2iv(u native.Uniform, v []int32)   { c.uniform("Uniform2iv", u, ints(v)) }
func (c *Context) Uniform3iv(u native.Uniform, v []int32)   { c.uniform("Uniform3iv", u, ints(v)) }
func (c *Context) Uniform4iv(u native.Uniform, v []int32)   { c.uniform("Uniform4iv", u, ints(v)) }

func (c *Context) UniformMatrix2fv(u native.Uniform, v []float32) {
	c.uniform("UniformMatrix2fv", u, v)
}

func (c *Context) UniformMatrix3fv(u native.Uniform, v []float32) {
	c.uniform("UniformMatrix3fv", u, v)
}

func (c *Context) UniformMatrix4fv(u native.Uniform, v []float32) {
	c.uniform("UniformMatrix4fv", u, v)
}

// UniformValue returns the last value uploaded to the named uniform of p.
func (c *Context) UniformValue(p native.Program, name string) []float32 {
	prog, ok := c.programs[p]
	if !ok {
		return nil
	}
	for _, u := range prog.uniforms {
		if u.name == name {
			return prog.values[native.Uniform(u.location)]
		}
	}
	return nil
}

func (c *Context) EnableVertexAttribArray(index uint32) {
	c.record("EnableVertexAttribArray")
	a := c.vao().attribs[index]
	a.enabled = true
	c.vao().attribs[index] = a
}

func (c *Context) DisableVertexAttribArray(index uint32) {
	c.record("DisableVertexAttribArray")
	a := c.vao().attribs[index]
	a.enabled = false
	c.vao().attribs[index] = a
}

func (c *Context) VertexAttribPointer(index uint32, size int32, typ native.Enum, normalized bool, stride, offset int32) {
	c.record("VertexAttribPointer")
	if c.arrayBuffer == 0 {
		c.fail(native.INVALID_OPERATION)
		return
	}
	a := c.vao().attribs[index]
	a.buffer, a.size, a.typ, a.normalized, a.stride, a.offset = c.arrayBuffer, size, typ, normalized, stride, offset
	c.vao().attribs[index] = a
}

func (c *Context) ActiveTexture(unit native.Enum) {
	c.record("ActiveTexture")
	if unit < native.TEXTURE0 || unit >= native.TEXTURE0+16 {
		c.fail(native.INVALID_ENUM)
		return
	}
	c.activeUnit = unit
}

func (c *Context) CreateTexture() native.Texture {
	c.record("CreateTexture")
	t := native.Texture(c.name())
	c.textures[t] = &texture{params: map[native.Enum]int32{
		native.TEXTURE_MIN_FILTER: int32(native.NEAREST_MIPMAP_LINEAR),
		native.TEXTURE_MAG_FILTER: int32(native.LINEAR),
		native.TEXTURE_WRAP_S:     int32(native.REPEAT),
		native.TEXTURE_WRAP_T:     int32(native.REPEAT),
	}}
	return t
}

func (c *Context) BindTexture(target native.Enum, t native.Texture) {
	c.record("BindTexture")
	if _, ok := c.textures[t]; t != 0 && !ok {
		c.fail(native.INVALID_OPERATION)
		return
	}
	c.units[c.activeUnit] = t
}

func (c *Context) boundTexture() *texture {
	return c.textures[c.units[c.activeUnit]]
}

func (c *Context) TexImage2D(target native.Enum, level int32, internalFormat native.Enum, width, height int32, format, typ native.Enum, data []byte) {
	c.record("TexImage2D")
	tex := c.boundTexture()
	if tex == nil {
		c.fail(native.INVALID_OPERATION)
		return
	}
	if level == 0 {
		tex.width, tex.height, tex.format, tex.typ = width, height, internalFormat, typ
	}
}

func (c *Context) TexParameteri(target, pname native.Enum, param int32) {
	c.record("TexParameteri")
	tex := c.boundTexture()
	if tex == nil {
		c.fail(native.INVALID_OPERATION)
		return
	}
	tex.params[pname] = param
}

func (c *Context) GenerateMipmap(target native.Enum) {
	c.record("GenerateMipmap")
	tex := c.boundTexture()
	if tex == nil {
		c.fail(native.INVALID_OPERATION)
		return
	}
	tex.mipmaps = true
}

func (c *Context) DeleteTexture(t native.Texture) {
	c.record("DeleteTexture")
	if _, ok := c.textures[t]; !ok {
		return
	}
	delete(c.textures, t)
	for unit, bound := range c.units {
		if bound == t {
			c.units[unit] = 0
		}
	}
	for _, fb := range c.framebuffers {
		for point, obj := range fb.attachments {
			if obj == t {
				delete(fb.attachments, point)
			}
		}
	}
}

func (c *Context) CreateFramebuffer() native.Framebuffer {
	c.record("CreateFramebuffer")
	f := native.Framebuffer(c.name())
	c.framebuffers[f] = &framebuffer{attachments: map[native.Enum]any{}}
	return f
}

func (c *Context) BindFramebuffer(target native.Enum, f native.Framebuffer) {
	c.record("BindFramebuffer")
	if _, ok := c.framebuffers[f]; f != 0 && !ok {
		c.fail(native.INVALID_OPERATION)
		return
	}
	c.boundFBO = f
}

func (c *Context) FramebufferTexture2D(target, attachment, texTarget native.Enum, t native.Texture, level int32) {
	c.record("FramebufferTexture2D")
	fb := c.framebuffers[c.boundFBO]
	if fb == nil {
		c.fail(native.INVALID_OPERATION)
		return
	}
	if t == 0 {
		delete(fb.attachments, attachment)
		return
	}
	fb.attachments[attachment] = t
}

func (c *Context) FramebufferRenderbuffer(target, attachment, rbTarget native.Enum, r native.Renderbuffer) {
	c.record("FramebufferRenderbuffer")
	fb := c.framebuffers[c.boundFBO]
	if fb == nil {
		c.fail(native.INVALID_OPERATION)
		return
	}
	if r == 0 {
		delete(fb.attachments, attachment)
		return
	}
	fb.attachments[attachment] = r
}

func (c *Context) CheckFramebufferStatus(target native.Enum) native.Enum {
	c.record("CheckFramebufferStatus")
	fb := c.framebuffers[c.boundFBO]
	switch {
	case fb == nil:
		return native.FRAMEBUFFER_COMPLETE
	case c.ForceIncomplete:
		return native.FRAMEBUFFER_INCOMPLETE_ATTACHMENT
	case len(fb.attachments) == 0:
		return native.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT
	}
	return native.FRAMEBUFFER_COMPLETE
}

func (c *Context) DeleteFramebuffer(f native.Framebuffer) {
	c.record("DeleteFramebuffer")
	if _, ok := c.framebuffers[f]; !ok {
		return
	}
	delete(c.framebuffers, f)
	if c.boundFBO == f {
		c.boundFBO = 0
	}
}

func (c *Context) CreateRenderbuffer() native.Renderbuffer {
	c.record("CreateRenderbuffer")
	r := native.Renderbuffer(c.name())
	c.renderbuffers[r] = &renderbuffer{}
	return r
}

func (c *Context) BindRenderbuffer(target native.Enum, r native.Renderbuffer) {
	c.record("BindRenderbuffer")
	if _, ok := c.renderbuffers[r]; r != 0 && !ok {
		c.fail(native.INVALID_OPERATION)
		return
	}
	c.boundRB = r
}

func (c *Context) RenderbufferStorage(target, internalFormat native.Enum, width, height int32) {
	c.record("RenderbufferStorage")
	rb := c.renderbuffers[c.boundRB]
	if rb == nil {
		c.fail(native.INVALID_OPERATION)
		return
	}
	rb.width, rb.height, rb.format = width, height, internalFormat
}

func (c *Context) DeleteRenderbuffer(r native.Renderbuffer) {
	c.record("DeleteRenderbuffer")
	if _, ok := c.renderbuffers[r]; !ok {
		return
	}
	delete(c.renderbuffers, r)
	if c.boundRB == r {
		c.boundRB = 0
	}
	for _, fb := range c.framebuffers {
		for point, obj := range fb.attachments {
			if obj == r {
				delete(fb.attachments, point)
			}
		}
	}
}

func (c *Context) DrawArrays(mode native.Enum, first, count int32) {
	c.record("DrawArrays")
	c.draws = append(c.draws, Draw{Mode: mode, First: first, Count: count, Program: c.program, Viewport: c.viewport})
}

func (c *Context) DrawElements(mode native.Enum, count int32, typ native.Enum, offset int) {
	c.record("DrawElements")
	if c.vao().element == 0 {
		c.fail(native.INVALID_OPERATION)
		return
	}
	c.draws = append(c.draws, Draw{Mode: mode, Count: count, Indexed: true, Type: typ, Program: c.program, Viewport: c.viewport})
}

// ReadPixels fills dst with the current clear color, which is what a freshly cleared target holds.
func (c *Context) ReadPixels(dst []byte, x, y, width, height int32, format, typ native.Enum) {
	c.record("ReadPixels")
	if format != native.RGBA || typ != native.UNSIGNED_BYTE {
		c.fail(native.INVALID_ENUM)
		return
	}
	px := [4]byte{}
	for i, v := range c.clearColor {
		px[i] = byte(math.Round(float64(clamp(v)) * 255))
	}
	for i := 0; i+4 <= len(dst) && i < int(width*height)*4; i += 4 {
		copy(dst[i:], px[:])
	}
}

func (c *Context) createVertexArray() native.VertexArray {
	v := native.VertexArray(c.name())
	c.vertexArrays[v] = &vertexArray{attribs: map[uint32]attrib{}}
	return v
}

func (c *Context) bindVertexArray(v native.VertexArray) {
	if _, ok := c.vertexArrays[v]; !ok {
		c.fail(native.INVALID_OPERATION)
		return
	}
	c.boundVAO = v
}

func (c *Context) deleteVertexArray(v native.VertexArray) {
	if _, ok := c.vertexArrays[v]; !ok || v == 0 {
		return
	}
	delete(c.vertexArrays, v)
	if c.boundVAO == v {
		c.boundVAO = 0
	}
}

func (c *Context) drawArraysInstanced(mode native.Enum, first, count, instances int32) {
	c.draws = append(c.draws, Draw{Mode: mode, First: first, Count: count, Instances: instances, Program: c.program, Viewport: c.viewport})
}

func (c *Context) drawElementsInstanced(mode native.Enum, count int32, typ native.Enum, offset int, instances int32) {
	if c.vao().element == 0 {
		c.fail(native.INVALID_OPERATION)
		return
	}
	c.draws = append(c.draws, Draw{Mode: mode, Count: count, Indexed: true, Type: typ, Instances: instances, Program: c.program, Viewport: c.viewport})
}

func (c *Context) vertexAttribDivisor(index, divisor uint32) {
	a := c.vao().attribs[index]
	a.divisor = divisor
	c.vao().attribs[index] = a
}

func (c *Context) setDrawBuffers(bufs []native.Enum) {
	if int32(len(bufs)) > c.maxDrawBuffers {
		c.fail(native.INVALID_VALUE)
		return
	}
	c.drawBuffers = append([]native.Enum(nil), bufs...)
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func clamp(v float32) float32 {
	return float32(math.Max(0, math.Min(1, float64(v))))
}

// Float32Bytes encodes floats the way the engine uploads them, for comparing buffer contents.
func Float32Bytes(v ...float32) []byte {
	out := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(f))
	}
	return out
}
