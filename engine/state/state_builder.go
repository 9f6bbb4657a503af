package state

import "github.com/Carmen-Shannon/oxy-gl/engine/matrix"

// ShadowBuilderOption is a functional option for New.
type ShadowBuilderOption func(s *shadow)

// WithAssertions makes the shadow check the native error flag after every batch of native calls and
// panic on a raised error. Meant for development builds.
//
// Parameters:
//   - enabled: whether to check
//
// Returns:
//   - ShadowBuilderOption: the option
func WithAssertions(enabled bool) ShadowBuilderOption {
	return func(s *shadow) {
		s.assertions = enabled
	}
}

// WithMatrixOptions forwards options to the matrix engine the shadow creates.
func WithMatrixOptions(options ...matrix.EngineBuilderOption) ShadowBuilderOption {
	return func(s *shadow) {
		s.matrixOptions = append(s.matrixOptions, options...)
	}
}

// WithMatrices supplies an existing matrix engine. It must be built over the same registry.
func WithMatrices(m matrix.Engine) ShadowBuilderOption {
	return func(s *shadow) {
		s.matrices = m
	}
}
