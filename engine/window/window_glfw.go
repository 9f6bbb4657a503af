package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-gl/engine/logging"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	window  *glfw.Window
	running bool
}

// newPlatformWindow creates the GLFW window, makes its OpenGL context current and registers the
// input callbacks.
//
// GLFW reference: https://www.glfw.org/docs/latest/context_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	win, err := createContextWindow(w, w.major, w.minor)
	if err != nil && w.allowFallback && (w.fallbackMajor != w.major || w.fallbackMinor != w.minor) {
		logging.Logger().Warn("window: context version unavailable, falling back",
			"requested", fmt.Sprintf("%d.%d", w.major, w.minor),
			"fallback", fmt.Sprintf("%d.%d", w.fallbackMajor, w.fallbackMinor),
			"err", err)
		win, err = createContextWindow(w, w.fallbackMajor, w.fallbackMinor)
	}
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}

	win.MakeContextCurrent()
	if w.vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	win.SetSizeLimits(w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)

	gw := &glfwWindow{window: win, running: true}
	w.internalWindow = gw

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			gw.running = false
			win.SetShouldClose(true)
			return
		}
		switch action {
		case glfw.Press, glfw.Repeat:
			if w.onKeyDown != nil {
				w.onKeyDown(uint32(key))
			}
		case glfw.Release:
			if w.onKeyUp != nil {
				w.onKeyUp(uint32(key))
			}
		}
	})

	win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		if w.onScroll != nil {
			w.onScroll(float32(yoff))
		}
	})

	win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		if w.onMouseMove != nil {
			w.onMouseMove(int32(xpos), int32(ypos))
		}
	})

	// Framebuffer size, not window size, is what the viewport needs on high-DPI displays.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width = width
		w.height = height
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})

	w.width, w.height = win.GetFramebufferSize()
	w.gotMajor = win.GetAttrib(glfw.ContextVersionMajor)
	w.gotMinor = win.GetAttrib(glfw.ContextVersionMinor)
	logging.Logger().Info("window: context created",
		"version", fmt.Sprintf("%d.%d", w.gotMajor, w.gotMinor), "width", w.width, "height", w.height)
	return nil
}

// createContextWindow requests a forward-compatible core profile context of the given version.
func createContextWindow(w *engineWindow, major, minor int) (*glfw.Window, error) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, major)
	glfw.WindowHint(glfw.ContextVersionMinor, minor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	return glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
}

func platformIsRunningCheck(w *engineWindow) bool {
	if w.internalWindow == nil {
		return false
	}
	return w.internalWindow.running && !w.internalWindow.window.ShouldClose()
}

func platformCloseWindow(w *engineWindow) error {
	if w.internalWindow == nil {
		return fmt.Errorf("window is not initialized")
	}
	gw := w.internalWindow
	gw.running = false
	gw.window.SetShouldClose(true)
	gw.window.Destroy()
	w.internalWindow = nil
	glfw.Terminate()
	return nil
}

func platformPollEvents() {
	glfw.PollEvents()
}

func platformSwapBuffers(w *engineWindow) {
	if w.internalWindow != nil {
		w.internalWindow.window.SwapBuffers()
	}
}
