package nativetest

import (
	"regexp"
	"strconv"

	"github.com/Carmen-Shannon/oxy-gl/engine/native"
)

var (
	// errorDirective matches a #error preprocessor directive and captures its message.
	errorDirective = regexp.MustCompile(`(?m)^\s*#error\b(.*)$`)

	// mainRegex matches the entry point of a stage.
	mainRegex = regexp.MustCompile(`\bvoid\s+main\s*\(\s*(?:void\s*)?\)`)

	// lineCommentRegex strips // comments before reflection.
	lineCommentRegex = regexp.MustCompile(`//[^\n]*`)

	// attributeRegex captures an optional explicit location, the type and the name of a vertex
	// input declared with either `attribute` or `in`.
	attributeRegex = regexp.MustCompile(`(?m)^\s*(?:layout\s*\(\s*location\s*=\s*(\d+)\s*\)\s*)?(?:attribute|in)\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+(\w+)\s*;`)

	// uniformRegex captures the type, the name and an optional array length of a uniform.
	uniformRegex = regexp.MustCompile(`(?m)^\s*uniform\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+(\w+)\s*(?:\[\s*(\d+)\s*\])?\s*;`)
)

var glslTypes = map[string]native.Enum{
	"float":       native.FLOAT,
	"vec2":        native.FLOAT_VEC2,
	"vec3":        native.FLOAT_VEC3,
	"vec4":        native.FLOAT_VEC4,
	"int":         native.INT,
	"ivec2":       native.INT_VEC2,
	"ivec3":       native.INT_VEC3,
	"ivec4":       native.INT_VEC4,
	"bool":        native.BOOL,
	"bvec2":       native.BOOL_VEC2,
	"bvec3":       native.BOOL_VEC3,
	"bvec4":       native.BOOL_VEC4,
	"mat2":        native.FLOAT_MAT2,
	"mat3":        native.FLOAT_MAT3,
	"mat4":        native.FLOAT_MAT4,
	"sampler2D":   native.SAMPLER_2D,
	"samplerCube": native.SAMPLER_CUBE,
}

// linkProgram validates the attached stages and reflects their inputs and uniforms. Reflection is
// purely textual: every declared uniform is considered active.
func linkProgram(c *Context, prog *program) {
	prog.linked = false
	prog.attribs = nil
	prog.uniforms = nil
	prog.values = map[native.Uniform][]float32{}

	var vs, fs *shader
	for s := range prog.shaders {
		sh, ok := c.shaders[s]
		if !ok {
			continue
		}
		switch sh.typ {
		case native.VERTEX_SHADER:
			vs = sh
		case native.FRAGMENT_SHADER:
			fs = sh
		}
	}
	switch {
	case vs == nil || fs == nil:
		prog.log = "error: program requires a vertex and a fragment shader"
		return
	case !vs.compiled || !fs.compiled:
		prog.log = "error: attached shader is not compiled"
		return
	case !mainRegex.MatchString(vs.src):
		prog.log = "error: vertex shader has no main function"
		return
	case !mainRegex.MatchString(fs.src):
		prog.log = "error: fragment shader has no main function"
		return
	}

	used := map[int32]string{}
	var pending []variable
	for _, m := range attributeRegex.FindAllStringSubmatch(lineCommentRegex.ReplaceAllString(vs.src, ""), -1) {
		v := variable{name: m[3], typ: glslTypes[m[2]], size: 1, location: -1}
		if m[1] != "" {
			loc, _ := strconv.Atoi(m[1])
			v.location = int32(loc)
		} else if loc, ok := prog.bindings[v.name]; ok {
			v.location = int32(loc)
		}
		if v.location >= 0 {
			if other, taken := used[v.location]; taken {
				prog.log = "error: attributes " + other + " and " + v.name + " alias location " + strconv.Itoa(int(v.location))
				prog.attribs = nil
				return
			}
			used[v.location] = v.name
		}
		pending = append(pending, v)
	}
	next := int32(0)
	for i := range pending {
		if pending[i].location >= 0 {
			continue
		}
		for {
			if _, taken := used[next]; !taken {
				break
			}
			next++
		}
		pending[i].location = next
		used[next] = pending[i].name
	}
	prog.attribs = pending

	seen := map[string]bool{}
	for _, src := range []string{vs.src, fs.src} {
		for _, m := range uniformRegex.FindAllStringSubmatch(lineCommentRegex.ReplaceAllString(src, ""), -1) {
			name := m[2]
			if seen[name] {
				continue
			}
			seen[name] = true
			size := int32(1)
			if m[3] != "" {
				n, _ := strconv.Atoi(m[3])
				size = int32(n)
				name += "[0]"
			}
			prog.uniforms = append(prog.uniforms, variable{
				name:     name,
				typ:      glslTypes[m[1]],
				size:     size,
				location: int32(len(prog.uniforms)),
			})
		}
	}

	prog.linked = true
	prog.log = ""
}
