// Package window is the host windowing surface: a GLFW-backed implementation of the resize-callback and
// key/size query contract graphicsmanager.Manager needs to drive §4.12's swapchain resize path
// ("queue.wait_idle() - used only on swapchain resize"). It does not forward key or mouse events anywhere.
package window

import (
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window is the narrow surface the rest of forge depends on: enough to acquire a wgpu surface descriptor,
// react to resize and input events, and drive a message loop. It deliberately carries none of the teacher's
// engine-level concepts (game objects, scenes); those are out of scope for a windowing abstraction.
type Window interface {
	// SetUpdateCallback sets the function called once per message-loop iteration, after event dispatch.
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized, already clamped to
	// the window's configured min/max bounds. A typical callback forwards straight into
	// graphicsmanager.Manager.Resize.
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll-wheel events; positive delta is up/zoom-in.
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the callback for key-press (and repeat) events, receiving the platform key code.
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key-release events, receiving the platform key code.
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetMiddleMouseDownCallback sets the callback for middle mouse button press, receiving cursor position.
	SetMiddleMouseDownCallback(callback func(x, y int32))

	// SetMiddleMouseUpCallback sets the callback for middle mouse button release, receiving cursor position.
	SetMiddleMouseUpCallback(callback func(x, y int32))

	// SetMouseMoveCallback sets the callback for cursor movement, receiving cursor position.
	SetMouseMoveCallback(callback func(x, y int32))

	// SurfaceDescriptor builds the platform-appropriate wgpu.SurfaceDescriptor for this window (Win32 HWND,
	// X11/Wayland, or Cocoa/Metal, chosen by the wgpuglfw bridge), nil if the platform window was never opened.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the window is still open.
	IsRunning() bool

	// Close tears down the platform window and the windowing library.
	Close() error

	// ProcessMessages pumps the platform event queue until the window closes, invoking the update callback
	// once per iteration. Blocks the calling goroutine for the lifetime of the window.
	ProcessMessages()

	// Width and Height report the current framebuffer size in pixels.
	Width() int
	Height() int
}

// Default bounds applied when a builder option does not override them; 0 for a max dimension means
// unbounded.
const (
	DefaultWidth     = 1280
	DefaultHeight    = 720
	DefaultMinWidth  = 1
	DefaultMinHeight = 1
)

// coreWindow is the platform-independent half of the Window implementation: configuration and the
// registered callbacks. newPlatformWindow (window_glfw.go) attaches the GLFW-specific state and wires these
// callbacks to real input events.
type coreWindow struct {
	title                             string
	minWidth, minHeight               int
	maxWidth, maxHeight                int
	width, height                      int
	internalWindow                    any
	onUpdate                          func()
	onResize                          func(width, height int)
	onScroll                          func(delta float32)
	onKeyDown, onKeyUp                func(keyCode uint32)
	onMiddleMouseDown, onMiddleMouseUp func(x, y int32)
	onMouseMove                       func(x, y int32)
}

// New builds and opens a platform window from the given options, panicking if platform window creation
// fails (there is no recoverable path: a windowing failure means no rendering can happen at all).
func New(options ...WindowBuilderOption) Window {
	w := &coreWindow{
		width:     DefaultWidth,
		height:    DefaultHeight,
		minWidth:  DefaultMinWidth,
		minHeight: DefaultMinHeight,
	}
	for _, opt := range options {
		opt(w)
	}

	if err := newPlatformWindow(w); err != nil {
		panic("window: failed to create platform window: " + err.Error())
	}
	return w
}

func (w *coreWindow) SetUpdateCallback(callback func())                    { w.onUpdate = callback }
func (w *coreWindow) SetScrollCallback(callback func(delta float32))       { w.onScroll = callback }
func (w *coreWindow) SetKeyDownCallback(callback func(keyCode uint32))     { w.onKeyDown = callback }
func (w *coreWindow) SetKeyUpCallback(callback func(keyCode uint32))       { w.onKeyUp = callback }
func (w *coreWindow) SetMouseMoveCallback(callback func(x, y int32))       { w.onMouseMove = callback }

func (w *coreWindow) SetMiddleMouseDownCallback(callback func(x, y int32)) {
	w.onMiddleMouseDown = callback
}

func (w *coreWindow) SetMiddleMouseUpCallback(callback func(x, y int32)) {
	w.onMiddleMouseUp = callback
}

// SetResizeCallback stores the caller's callback; clampToBounds (invoked from the platform framebuffer-size
// handler before this callback runs) is what actually enforces minWidth/maxWidth/minHeight/maxHeight, so the
// callback always observes already-clamped dimensions.
func (w *coreWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *coreWindow) clampToBounds(width, height int) (int, int) {
	if width < w.minWidth {
		width = w.minWidth
	}
	if w.maxWidth > 0 && width > w.maxWidth {
		width = w.maxWidth
	}
	if height < w.minHeight {
		height = w.minHeight
	}
	if w.maxHeight > 0 && height > w.maxHeight {
		height = w.maxHeight
	}
	return width, height
}

func (w *coreWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return platformGetSurfaceDescriptor(w) }
func (w *coreWindow) IsRunning() bool                             { return platformIsRunningCheck(w) }
func (w *coreWindow) Close() error                                { return platformCloseWindow(w) }
func (w *coreWindow) Width() int                                  { return w.width }
func (w *coreWindow) Height() int                                 { return w.height }

func (w *coreWindow) ProcessMessages() {
	for w.IsRunning() {
		if ok := platformProcessMessages(w); !ok {
			break
		}
		if w.onUpdate != nil {
			w.onUpdate()
		}
		runtime.Gosched()
	}
}
