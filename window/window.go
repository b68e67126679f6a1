// Package window opens the SDL2 window that the Vulkan surface is bound to
// and supplies the SDL-provided Vulkan loader.
package window

import (
	"github.com/Oki1/Vulkano/bootstrap"
	"github.com/Oki1/Vulkano/driver"
	"github.com/Oki1/Vulkano/driver/vkng"
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2/v3"
)

// Options describe the window to open.
type Options struct {
	Title     string
	Width     int
	Height    int
	Resizable bool
}

// Window is an SDL2 window created with the Vulkan flag. It must be used
// from the thread that opened it.
type Window struct {
	window *sdl.Window
	logger logrus.FieldLogger
}

var (
	_ driver.Window      = (*Window)(nil)
	_ vkng.SurfaceBinder = (*Window)(nil)
)

// Open initializes SDL video and creates the window.
func Open(opts Options, logger logrus.FieldLogger) (*Window, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, errors.Wrap(err, "window: init SDL video")
	}

	flags := uint32(sdl.WINDOW_SHOWN | sdl.WINDOW_VULKAN)
	if opts.Resizable {
		flags |= sdl.WINDOW_RESIZABLE
	}

	window, err := sdl.CreateWindow(opts.Title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, int32(opts.Width), int32(opts.Height), flags)
	if err != nil {
		sdl.Quit()
		return nil, errors.Wrapf(err, "window: create %dx%d window", opts.Width, opts.Height)
	}

	logger.WithFields(logrus.Fields{
		"title":  opts.Title,
		"width":  opts.Width,
		"height": opts.Height,
	}).Debug("window opened")

	return &Window{window: window, logger: logger}, nil
}

// RequiredExtensions lists the instance extensions SDL needs to present to
// this window.
func (w *Window) RequiredExtensions() []string {
	return w.window.VulkanGetInstanceExtensions()
}

// BindSurface creates a VkSurfaceKHR for the window.
func (w *Window) BindSurface(instance core1_0.Instance, surfaceExtension khr_surface.ExtensionDriver) (khr_surface.Surface, error) {
	return vkng_sdl2.CreateSurface(instance, surfaceExtension, w.window)
}

// DrawableSize is the size of the window in pixels.
func (w *Window) DrawableSize() (int, int) {
	width, height := w.window.VulkanGetDrawableSize()
	return int(width), int(height)
}

// Run pumps events until the window is closed or Escape is pressed.
func (w *Window) Run() {
	for {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				return
			case *sdl.KeyboardEvent:
				if e.Type == sdl.KEYDOWN && e.Keysym.Sym == sdl.K_ESCAPE {
					return
				}
			case *sdl.WindowEvent:
				if e.Event == sdl.WINDOWEVENT_RESIZED {
					width, height := w.DrawableSize()
					w.logger.WithFields(logrus.Fields{"width": width, "height": height}).Debug("window resized")
				}
			}
		}
		sdl.Delay(16)
	}
}

// Close destroys the window and shuts SDL down.
func (w *Window) Close() {
	if w.window != nil {
		if err := w.window.Destroy(); err != nil {
			w.logger.WithError(err).Warn("window: destroy")
		}
		w.window = nil
	}
	sdl.Quit()
}

// Loader returns a bootstrap.LibraryLoader that loads the Vulkan loader
// through SDL. SDL must already be initialized, which Open does.
func Loader() bootstrap.LibraryLoader {
	return func() (driver.Library, error) {
		if err := sdl.VulkanLoadLibrary(""); err != nil {
			return nil, errors.Wrap(err, "window: load Vulkan library")
		}

		lib, err := vkng.Load(sdl.VulkanGetVkGetInstanceProcAddr(), sdl.VulkanUnloadLibrary)
		if err != nil {
			sdl.VulkanUnloadLibrary()
			return nil, err
		}
		return lib, nil
	}
}
