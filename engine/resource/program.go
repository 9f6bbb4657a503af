package resource

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/logging"
	"github.com/Carmen-Shannon/oxy-gl/engine/native"
)

// ProgramSource describes a program to build.
type ProgramSource struct {
	Vertex   string
	Fragment string

	// Attributes binds attribute names to explicit locations. Explicit bindings take priority over
	// the registry's default table; two names may not share one location.
	Attributes map[string]uint32
}

// CreateProgram compiles, links and reflects a program. Compile and link diagnostics are returned
// verbatim; nothing native is left behind on failure.
//
// Parameters:
//   - src: the program source
//
// Returns:
//   - Handle: the program handle
//   - error: common.ErrDuplicateBinding, a *common.CompileError or a *common.LinkError
func (r *Registry) CreateProgram(src ProgramSource) (Handle, error) {
	rec, err := r.buildProgram(src)
	if err != nil {
		return None, err
	}
	h := r.NextHandle()
	r.Programs.Insert(h, rec)
	logging.Logger().Debug("resource: program created", "handle", h,
		"attributes", len(rec.Attributes), "uniforms", len(rec.Uniforms))
	return h, nil
}

// UpdateProgram rebuilds the program behind h from new source. The previous native program is
// deleted only after the new one links, so a failed update leaves h fully usable. The caller must
// re-activate the program if it was in use.
//
// Parameters:
//   - h: the program handle
//   - src: the new source
//
// Returns:
//   - error: an invalid handle error, or the build error of the new source
func (r *Registry) UpdateProgram(h Handle, src ProgramSource) error {
	old, err := r.Programs.Get(h)
	if err != nil {
		return err
	}
	rec, err := r.buildProgram(src)
	if err != nil {
		return err
	}
	r.ctx.DeleteProgram(old.Native)
	*old = *rec
	logging.Logger().Debug("resource: program updated", "handle", h)
	return nil
}

// DeleteProgram deletes the native program and its record. Bindings are the caller's concern.
func (r *Registry) DeleteProgram(h Handle) error {
	rec, err := r.Programs.Remove(h)
	if err != nil {
		return err
	}
	r.ctx.DeleteProgram(rec.Native)
	return nil
}

func (r *Registry) buildProgram(src ProgramSource) (*Program, error) {
	if err := checkExplicitLocations(src.Attributes); err != nil {
		return nil, err
	}

	vs, err := r.compile(native.VERTEX_SHADER, "vertex", src.Vertex)
	if err != nil {
		return nil, err
	}
	fs, err := r.compile(native.FRAGMENT_SHADER, "fragment", src.Fragment)
	if err != nil {
		r.ctx.DeleteShader(vs)
		return nil, err
	}

	p := r.ctx.CreateProgram()
	r.ctx.AttachShader(p, vs)
	r.ctx.AttachShader(p, fs)

	explicit := map[uint32]bool{}
	for name, loc := range src.Attributes {
		r.ctx.BindAttribLocation(p, loc, name)
		explicit[loc] = true
	}
	for _, name := range sortedNames(r.defaultLocations) {
		loc := r.defaultLocations[name]
		if _, bound := src.Attributes[name]; bound || explicit[loc] {
			continue
		}
		r.ctx.BindAttribLocation(p, loc, name)
	}

	r.ctx.LinkProgram(p)
	linked := r.ctx.GetProgrami(p, native.LINK_STATUS) != 0
	var linkLog string
	if !linked {
		linkLog = r.ctx.GetProgramInfoLog(p)
	}
	r.ctx.DetachShader(p, vs)
	r.ctx.DetachShader(p, fs)
	r.ctx.DeleteShader(vs)
	r.ctx.DeleteShader(fs)
	if !linked {
		r.ctx.DeleteProgram(p)
		return nil, &common.LinkError{Log: linkLog}
	}

	return r.reflect(p, src.Attributes), nil
}

func (r *Registry) compile(typ native.Enum, stage, src string) (native.Shader, error) {
	s := r.ctx.CreateShader(typ)
	r.ctx.ShaderSource(s, src)
	r.ctx.CompileShader(s)
	if r.ctx.GetShaderi(s, native.COMPILE_STATUS) == 0 {
		log := r.ctx.GetShaderInfoLog(s)
		r.ctx.DeleteShader(s)
		return 0, &common.CompileError{Stage: stage, Log: log}
	}
	return s, nil
}

func (r *Registry) reflect(p native.Program, explicit map[string]uint32) *Program {
	rec := &Program{
		Native:     p,
		Attributes: map[string]Attribute{},
		Uniforms:   map[string]Uniform{},
	}

	n := r.ctx.GetProgrami(p, native.ACTIVE_ATTRIBUTES)
	for i := uint32(0); i < uint32(n); i++ {
		name, size, typ := r.ctx.GetActiveAttrib(p, i)
		loc := r.ctx.GetAttribLocation(p, name)
		if loc < 0 {
			continue
		}
		_, isExplicit := explicit[name]
		rec.Attributes[name] = Attribute{Name: name, Location: uint32(loc), Type: typ, Size: size, Explicit: isExplicit}
	}

	n = r.ctx.GetProgrami(p, native.ACTIVE_UNIFORMS)
	for i := uint32(0); i < uint32(n); i++ {
		name, size, typ := r.ctx.GetActiveUniform(p, i)
		name = strings.TrimSuffix(name, "[0]")
		rec.Uniforms[name] = Uniform{Name: name, Type: typ, Size: size, Location: r.ctx.GetUniformLocation(p, name)}
	}
	return rec
}

func checkExplicitLocations(attrs map[string]uint32) error {
	seen := map[uint32]string{}
	for _, name := range sortedNames(attrs) {
		loc := attrs[name]
		if other, ok := seen[loc]; ok {
			return fmt.Errorf("attributes %q and %q both bound to location %d: %w", other, name, loc, common.ErrDuplicateBinding)
		}
		seen[loc] = name
	}
	return nil
}

func sortedNames(m map[string]uint32) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
