package framebuffer

import "github.com/Carmen-Shannon/oxy-gl/engine/resource"

// ManagerBuilderOption is a functional option for NewManager.
type ManagerBuilderOption func(m *manager)

// WithBlitProgram replaces the built-in blit shaders. The program must declare a vec2 aPosition
// input in clip space and a sampler2D uniform named BlitSamplerUniform.
//
// Parameters:
//   - src: the program source
//
// Returns:
//   - ManagerBuilderOption: the option
func WithBlitProgram(src resource.ProgramSource) ManagerBuilderOption {
	return func(m *manager) {
		m.blitSource = &src
	}
}
