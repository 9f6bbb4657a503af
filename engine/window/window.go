// Package window opens a GLFW window with a current OpenGL core context.
package window

import (
	"fmt"
	"runtime"
)

// Window provides a native window, its OpenGL context and input events.
// Every method must be called from the thread that created the window.
type Window interface {
	// SetUpdateCallback sets the function called each ProcessMessages iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving scroll delta (positive = up)
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the callback for key press and repeat events.
	//
	// Parameters:
	//   - callback: function receiving the GLFW key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the GLFW key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetMouseMoveCallback sets the callback for mouse movement.
	//
	// Parameters:
	//   - callback: function receiving mouse x, y position
	SetMouseMoveCallback(callback func(x, y int32))

	// ContextVersion reports the version of the OpenGL context the window obtained.
	//
	// Returns:
	//   - major, minor: the version numbers
	ContextVersion() (major, minor int)

	// IsRunning returns true if the window is still open.
	IsRunning() bool

	// PollEvents processes pending window events without blocking.
	PollEvents()

	// SwapBuffers presents the back buffer.
	SwapBuffers()

	// Close destroys the window and its context.
	//
	// Returns:
	//   - error: error if the window was never opened
	Close() error

	// ProcessMessages runs the window message loop until the window closes, calling the update
	// callback and swapping buffers each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	Width() int

	// Height returns the current framebuffer height in pixels.
	Height() int
}

type engineWindow struct {
	title string

	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int

	// width and height track the framebuffer size, which differs from the window size on high-DPI
	// displays.
	width  int
	height int

	// major and minor are the preferred context version; fallbackMajor and fallbackMinor are tried
	// when the preferred version is unavailable and allowFallback is set.
	major, minor                 int
	fallbackMajor, fallbackMinor int
	allowFallback                bool
	vsync                        bool

	gotMajor, gotMinor int

	internalWindow *glfwWindow

	onUpdate    func()
	onResize    func(width, height int)
	onScroll    func(delta float32)
	onKeyDown   func(keyCode uint32)
	onKeyUp     func(keyCode uint32)
	onMouseMove func(x, y int32)
}

var _ Window = &engineWindow{}

// NewWindow creates a window and makes its context current on the calling thread, which it
// locks. Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the opened window
//   - error: error if GLFW cannot initialize or no acceptable context version is available
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:         "oxy-gl",
		maxWidth:      3840,
		maxHeight:     2160,
		minWidth:      320,
		minHeight:     200,
		width:         1280,
		height:        720,
		major:         4,
		minor:         1,
		fallbackMajor: 3,
		fallbackMinor: 3,
		allowFallback: true,
		vsync:         true,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetMouseMoveCallback(callback func(x, y int32)) {
	w.onMouseMove = callback
}

func (w *engineWindow) ContextVersion() (int, int) {
	return w.gotMajor, w.gotMinor
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) PollEvents() {
	platformPollEvents()
}

func (w *engineWindow) SwapBuffers() {
	platformSwapBuffers(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		platformPollEvents()
		if !w.IsRunning() {
			break
		}
		if w.onUpdate != nil {
			w.onUpdate()
		}
		platformSwapBuffers(w)
		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}
