package matrix

// EngineBuilderOption configures a matrix engine.
type EngineBuilderOption func(*engine)

// WithUniformName binds a matrix kind to a different uniform name.
//
// Parameters:
//   - k: the matrix kind
//   - name: the uniform name the active program declares for it
//
// Returns:
//   - EngineBuilderOption: the option
func WithUniformName(k Kind, name string) EngineBuilderOption {
	return func(e *engine) {
		if k >= 0 && k < kindCount && name != "" {
			e.names[k] = name
		}
	}
}

// WithUniformNames applies WithUniformName for every entry of names.
func WithUniformNames(names map[Kind]string) EngineBuilderOption {
	return func(e *engine) {
		for k, name := range names {
			WithUniformName(k, name)(e)
		}
	}
}

// WithAutoUpload sets the initial auto-upload eligibility of a matrix kind.
func WithAutoUpload(k Kind, enabled bool) EngineBuilderOption {
	return func(e *engine) {
		if k >= 0 && k < kindCount {
			e.autoUpload[k] = enabled
		}
	}
}
