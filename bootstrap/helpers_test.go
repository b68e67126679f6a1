package bootstrap_test

import (
	"sync"
	"testing"

	"github.com/Oki1/Vulkano/bootstrap"
	"github.com/Oki1/Vulkano/driver"
	"github.com/Oki1/Vulkano/driver/drivertest"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type recordSink struct {
	mu       sync.Mutex
	messages []driver.Message
	selected []*bootstrap.Selection
}

func (s *recordSink) Diagnostic(msg driver.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

func (s *recordSink) DeviceSelected(sel *bootstrap.Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = append(s.selected, sel)
}

func nullLogger() logrus.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}

func loaderFor(lib driver.Library) bootstrap.LibraryLoader {
	return func() (driver.Library, error) {
		return lib, nil
	}
}

func window() *drivertest.Window {
	return &drivertest.Window{Extensions: []string{driver.SurfaceExtensionName, "VK_KHR_xlib_surface"}}
}

// openSurface runs the chain up to the surface against a fresh fake driver.
func openSurface(t *testing.T, devices ...*drivertest.PhysicalDevice) (*drivertest.Library, *bootstrap.Context, *bootstrap.Surface) {
	t.Helper()

	fake := drivertest.NewLibrary(devices...)
	lib, err := bootstrap.LoadLibrary(loaderFor(fake))
	require.NoError(t, err)

	ctx, err := bootstrap.CreateContext(lib, bootstrap.ContextOptions{
		ApplicationName: "test",
		Extensions:      window().RequiredExtensions(),
		Logger:          nullLogger(),
	})
	require.NoError(t, err)

	surface, err := bootstrap.CreateSurface(ctx, window())
	require.NoError(t, err)

	t.Cleanup(func() {
		surface.Destroy()
		ctx.Destroy()
		lib.Release()
	})
	return fake, ctx, surface
}

func selectorOptions(sink bootstrap.Sink) bootstrap.SelectorOptions {
	return bootstrap.SelectorOptions{Sink: sink, Logger: nullLogger()}
}
