package window

// WindowBuilderOption is a functional option for configuring an engineWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the initial window size.
//
// Parameters:
//   - width, height: initial size in screen coordinates
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = width
		w.height = height
	}
}

// WithSizeLimits sets the minimum and maximum window size during resize.
//
// Parameters:
//   - minWidth, minHeight: the minimum size
//   - maxWidth, maxHeight: the maximum size
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSizeLimits(minWidth, minHeight, maxWidth, maxHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth, w.minHeight = minWidth, minHeight
		w.maxWidth, w.maxHeight = maxWidth, maxHeight
	}
}

// WithContextVersion sets the preferred OpenGL core context version. Defaults to 4.1.
//
// Parameters:
//   - major, minor: the version
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithContextVersion(major, minor int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.major, w.minor = major, minor
	}
}

// WithVersionFallback sets the version tried when the preferred one is unavailable, or disables
// the retry. Defaults to 3.3, enabled.
//
// Parameters:
//   - allow: if false, a missing preferred version fails NewWindow
//   - major, minor: the fallback version
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithVersionFallback(allow bool, major, minor int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.allowFallback = allow
		w.fallbackMajor, w.fallbackMinor = major, minor
	}
}

// WithVSync enables or disables waiting for the vertical blank on SwapBuffers.
func WithVSync(enabled bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.vsync = enabled
	}
}
