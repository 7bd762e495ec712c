package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow is the GLFW-specific half of coreWindow's internalWindow.
type glfwWindow struct {
	parent  *coreWindow
	window  *glfw.Window
	running bool
}

// newPlatformWindow opens the GLFW window and wires its input callbacks to the parent coreWindow's
// registered handlers.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
func newPlatformWindow(w *coreWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("window: initialize GLFW: %w", err)
	}

	// WebGPU owns the graphics context; GLFW must not create one of its own.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("window: create GLFW window: %w", err)
	}

	gw := &glfwWindow{parent: w, window: win, running: true}
	w.internalWindow = gw

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
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

	win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		if w.onScroll != nil {
			w.onScroll(float32(yoff))
		}
	})

	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button != glfw.MouseButtonMiddle {
			return
		}
		xpos, ypos := win.GetCursorPos()
		switch action {
		case glfw.Press:
			if w.onMiddleMouseDown != nil {
				w.onMiddleMouseDown(int32(xpos), int32(ypos))
			}
		case glfw.Release:
			if w.onMiddleMouseUp != nil {
				w.onMiddleMouseUp(int32(xpos), int32(ypos))
			}
		}
	})

	win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		if w.onMouseMove != nil {
			w.onMouseMove(int32(xpos), int32(ypos))
		}
	})

	// Framebuffer size, not window size, so high-DPI displays report pixel-accurate dimensions to the
	// graphics manager's swapchain resize path.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		width, height = w.clampToBounds(width, height)
		w.width, w.height = width, height
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})

	fbWidth, fbHeight := win.GetFramebufferSize()
	w.width, w.height = w.clampToBounds(fbWidth, fbHeight)

	return nil
}

// platformGetSurfaceDescriptor builds the platform-appropriate wgpu.SurfaceDescriptor via the wgpuglfw
// bridge (per-platform: Win32, X11, Wayland, Cocoa).
func platformGetSurfaceDescriptor(w *coreWindow) *wgpu.SurfaceDescriptor {
	if w.internalWindow == nil {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(w.internalWindow.(*glfwWindow).window)
}

func platformIsRunningCheck(w *coreWindow) bool {
	if w.internalWindow == nil {
		return false
	}
	gw := w.internalWindow.(*glfwWindow)
	return gw.running && !gw.window.ShouldClose()
}

func platformCloseWindow(w *coreWindow) error {
	if w.internalWindow == nil {
		return fmt.Errorf("window: platform window not initialized")
	}
	gw := w.internalWindow.(*glfwWindow)
	gw.running = false
	gw.window.SetShouldClose(true)
	gw.window.Destroy()
	glfw.Terminate()
	return nil
}

// platformProcessMessages polls the GLFW event queue without blocking and reports whether the window is
// still running afterward.
func platformProcessMessages(w *coreWindow) bool {
	glfw.PollEvents()
	return platformIsRunningCheck(w)
}
