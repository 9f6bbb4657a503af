package resource

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/native"
)

// UniformSetter uploads values for one uniform type. The registry builds one setter per distinct
// type on first use and shares it between every uniform of that type.
type UniformSetter struct {
	Type       native.Enum
	Components int

	upload func(ctx native.Context, loc native.Uniform, values []float32)
}

// Upload checks the value count against the uniform and issues the native call. The uniform's
// program must be the active native program.
//
// Parameters:
//   - ctx: the native context
//   - u: the reflected uniform
//   - values: the flattened values; arrays may be partially updated from element 0
//
// Returns:
//   - error: wraps common.ErrArgumentShape if the count does not fit the uniform
func (s *UniformSetter) Upload(ctx native.Context, u Uniform, values []float32) error {
	size := max(int(u.Size), 1)
	if len(values) == 0 || len(values)%s.Components != 0 || len(values) > s.Components*size {
		return fmt.Errorf("uniform %q expects %d values per element (%d elements), got %d: %w",
			u.Name, s.Components, size, len(values), common.ErrArgumentShape)
	}
	s.upload(ctx, u.Location, values)
	return nil
}

func toInts(values []float32) []int32 {
	out := make([]int32, len(values))
	for i, v := range values {
		out[i] = int32(v)
	}
	return out
}

func newUniformSetter(typ native.Enum) (*UniformSetter, error) {
	floats := func(n int, fn func(native.Context) func(native.Uniform, []float32)) *UniformSetter {
		return &UniformSetter{Type: typ, Components: n, upload: func(ctx native.Context, loc native.Uniform, v []float32) {
			fn(ctx)(loc, v)
		}}
	}
	ints := func(n int, fn func(native.Context) func(native.Uniform, []int32)) *UniformSetter {
		return &UniformSetter{Type: typ, Components: n, upload: func(ctx native.Context, loc native.Uniform, v []float32) {
			fn(ctx)(loc, toInts(v))
		}}
	}

	switch typ {
	case native.FLOAT:
		return floats(1, func(c native.Context) func(native.Uniform, []float32) { return c.Uniform1fv }), nil
	case native.FLOAT_VEC2:
		return floats(2, func(c native.Context) func(native.Uniform, []float32) { return c.Uniform2fv }), nil
	case native.FLOAT_VEC3:
		return floats(3, func(c native.Context) func(native.Uniform, []float32) { return c.Uniform3fv }), nil
	case native.FLOAT_VEC4:
		return floats(4, func(c native.Context) func(native.Uniform, []float32) { return c.Uniform4fv }), nil
	case native.FLOAT_MAT2:
		return floats(4, func(c native.Context) func(native.Uniform, []float32) { return c.UniformMatrix2fv }), nil
	case native.FLOAT_MAT3:
		return floats(9, func(c native.Context) func(native.Uniform, []float32) { return c.UniformMatrix3fv }), nil
	case native.FLOAT_MAT4:
		return floats(16, func(c native.Context) func(native.Uniform, []float32) { return c.UniformMatrix4fv }), nil
	case native.INT, native.BOOL, native.SAMPLER_2D, native.SAMPLER_CUBE:
		return ints(1, func(c native.Context) func(native.Uniform, []int32) { return c.Uniform1iv }), nil
	case native.INT_VEC2, native.BOOL_VEC2:
		return ints(2, func(c native.Context) func(native.Uniform, []int32) { return c.Uniform2iv }), nil
	case native.INT_VEC3, native.BOOL_VEC3:
		return ints(3, func(c native.Context) func(native.Uniform, []int32) { return c.Uniform3iv }), nil
	case native.INT_VEC4, native.BOOL_VEC4:
		return ints(4, func(c native.Context) func(native.Uniform, []int32) { return c.Uniform4iv }), nil
	}
	return nil, fmt.Errorf("uniform type 0x%04X: %w", uint32(typ), common.ErrUnsupported)
}

// UniformSetter returns the shared setter for typ, building it on first use.
//
// Parameters:
//   - typ: the reflected uniform type
//
// Returns:
//   - *UniformSetter: the setter
//   - error: wraps common.ErrUnsupported for an unknown type
func (r *Registry) UniformSetter(typ native.Enum) (*UniformSetter, error) {
	if s, ok := r.setters[typ]; ok {
		return s, nil
	}
	s, err := newUniformSetter(typ)
	if err != nil {
		return nil, err
	}
	r.setters[typ] = s
	return s, nil
}

// SetterCount returns how many distinct uniform setters have been built.
func (r *Registry) SetterCount() int {
	return len(r.setters)
}

// Upload sends values to the named uniform of p. p must be the active native program.
//
// Parameters:
//   - p: the program record
//   - name: the uniform name
//   - values: the flattened values
//
// Returns:
//   - error: common.ErrInvalidHandle wrapped if p has no such uniform, or the setter's shape error
func (r *Registry) Upload(p *Program, name string, values []float32) error {
	u, ok := p.Uniforms[name]
	if !ok {
		return fmt.Errorf("program has no active uniform %q: %w", name, common.ErrInvalidHandle)
	}
	s, err := r.UniformSetter(u.Type)
	if err != nil {
		return err
	}
	return s.Upload(r.ctx, u, values)
}
