package bootstrap

import (
	"github.com/Oki1/Vulkano/driver"
)

// Surface binds a Context to a window. The window is borrowed; the caller
// keeps it alive until the surface is destroyed.
type Surface struct {
	context *Context
	window  driver.Window
	surface driver.Surface
}

// CreateSurface binds window to ctx.
func CreateSurface(ctx *Context, window driver.Window) (*Surface, error) {
	if ctx == nil || ctx.instance == nil {
		return nil, fail(nil, ErrSurfaceCreationFailed, "context is not initialised")
	}
	if window == nil {
		return nil, fail(nil, ErrSurfaceCreationFailed, "no window")
	}

	surface, err := ctx.instance.CreateSurface(window)
	if err != nil {
		return nil, fail(err, ErrSurfaceCreationFailed, "window %T", window)
	}

	return &Surface{context: ctx, window: window, surface: surface}, nil
}

// Context returns the context the surface was created on.
func (s *Surface) Context() *Context {
	return s.context
}

// Window returns the bound window.
func (s *Surface) Window() driver.Window {
	return s.window
}

// Handle returns the driver surface.
func (s *Surface) Handle() driver.Surface {
	return s.surface
}

// Destroy releases the driver surface. Calling it again is a no-op.
func (s *Surface) Destroy() {
	if s.surface != nil {
		s.surface.Destroy()
		s.surface = nil
	}
}
