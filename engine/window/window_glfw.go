package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow holds the GLFW handle. GLFW calls are only valid on the thread that created it.
type glfwWindow struct {
	window  *glfw.Window
	running bool
}

// newPlatformWindow creates a GLFW window without a client API and routes its events into w.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}

	// WebGPU drives the surface, so GLFW must not create an OpenGL context.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfwBool(w.resizable))

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("glfw create window: %w", err)
	}
	win.SetSizeLimits(w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)
	w.internalWindow = &glfwWindow{window: win, running: true}

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyUnknown {
			return
		}
		w.keyEvent(uint32(key), action != glfw.Release)
	})
	win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		w.scrollEvent(float32(yoff))
	})
	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		b, ok := mouseButton(button)
		if !ok {
			return
		}
		x, y := win.GetCursorPos()
		w.mouseButtonEvent(b, action == glfw.Press, x, y)
	})
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		w.mouseMoveEvent(x, y)
	})
	// The framebuffer callback reports pixels, which is what the surface is configured in.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.resizeEvent(width, height, framebufferScale(win))
	})

	fw, fh := win.GetFramebufferSize()
	w.width, w.height = fw, fh
	w.contentScale = framebufferScale(win)
	return nil
}

func glfwBool(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

func mouseButton(b glfw.MouseButton) (MouseButton, bool) {
	switch b {
	case glfw.MouseButtonLeft:
		return MouseButtonLeft, true
	case glfw.MouseButtonRight:
		return MouseButtonRight, true
	case glfw.MouseButtonMiddle:
		return MouseButtonMiddle, true
	}
	return 0, false
}

// framebufferScale returns framebuffer pixels per window coordinate along x.
func framebufferScale(win *glfw.Window) float32 {
	ww, _ := win.GetSize()
	fw, _ := win.GetFramebufferSize()
	if ww <= 0 || fw <= 0 {
		return 1
	}
	return float32(fw) / float32(ww)
}

// platformGetSurfaceDescriptor uses the wgpuglfw bridge, which picks the native handle
// (HWND, Xlib, Wayland, Metal layer) for the current platform.
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	if w.internalWindow == nil {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(w.internalWindow.window)
}

func platformIsRunningCheck(w *engineWindow) bool {
	gw := w.internalWindow
	return gw != nil && gw.running && !gw.window.ShouldClose()
}

func platformRequestClose(w *engineWindow) {
	if gw := w.internalWindow; gw != nil {
		gw.running = false
		gw.window.SetShouldClose(true)
	}
}

// platformCloseWindow destroys the window and terminates GLFW.
func platformCloseWindow(w *engineWindow) error {
	gw := w.internalWindow
	if gw == nil {
		return errors.New("window: already closed")
	}
	gw.running = false
	gw.window.Destroy()
	glfw.Terminate()
	w.internalWindow = nil
	w.logger.Info("window: closed", "title", w.title)
	return nil
}

// platformPollEvents dispatches pending events without blocking and reports whether the
// window should keep running.
func platformPollEvents(w *engineWindow) bool {
	if !platformIsRunningCheck(w) {
		return false
	}
	glfw.PollEvents()
	return platformIsRunningCheck(w)
}
