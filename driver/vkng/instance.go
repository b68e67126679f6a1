package vkng

import (
	"github.com/Oki1/Vulkano/driver"
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
)

// SurfaceBinder is implemented by windows that can create a khr_surface
// surface for an instance.
type SurfaceBinder interface {
	BindSurface(instance core1_0.Instance, surfaceExtension khr_surface.ExtensionDriver) (khr_surface.Surface, error)
}

type instance struct {
	instanceDriver   core1_0.CoreInstanceDriver
	surfaceExtension khr_surface.ExtensionDriver
}

func (i *instance) PhysicalDevices() ([]driver.PhysicalDevice, error) {
	physicalDevices, _, err := i.instanceDriver.EnumeratePhysicalDevices()
	if err != nil {
		return nil, err
	}

	devices := make([]driver.PhysicalDevice, 0, len(physicalDevices))
	for _, device := range physicalDevices {
		devices = append(devices, &physicalDevice{instance: i, device: device})
	}
	return devices, nil
}

func (i *instance) surfaces() (khr_surface.ExtensionDriver, error) {
	if i.surfaceExtension == nil {
		i.surfaceExtension = khr_surface.CreateExtensionDriverFromCoreDriver(i.instanceDriver)
		if i.surfaceExtension == nil {
			return nil, errors.Newf("vkng: %s not enabled on instance", driver.SurfaceExtensionName)
		}
	}
	return i.surfaceExtension, nil
}

func (i *instance) CreateSurface(window driver.Window) (driver.Surface, error) {
	binder, ok := window.(SurfaceBinder)
	if !ok {
		return nil, errors.Newf("vkng: window type %T cannot bind a surface", window)
	}

	surfaceExtension, err := i.surfaces()
	if err != nil {
		return nil, err
	}

	handle, err := binder.BindSurface(i.instanceDriver.Instance(), surfaceExtension)
	if err != nil {
		return nil, err
	}

	return &surface{extension: surfaceExtension, handle: handle}, nil
}

func (i *instance) RegisterDiagnostics(fn driver.DiagnosticFunc) (driver.Messenger, error) {
	debugDriver := ext_debug_utils.CreateExtensionDriverFromCoreDriver(i.instanceDriver)
	if debugDriver == nil {
		return nil, errors.Newf("vkng: %s not enabled on instance", driver.DebugUtilsExtensionName)
	}

	handle, _, err := debugDriver.CreateDebugUtilsMessenger(nil, messengerCreateInfo(fn))
	if err != nil {
		return nil, err
	}

	return &messenger{debugDriver: debugDriver, handle: handle}, nil
}

func (i *instance) Destroy() {
	if i.instanceDriver != nil {
		i.instanceDriver.DestroyInstance(nil)
		i.instanceDriver = nil
	}
}

type surface struct {
	extension khr_surface.ExtensionDriver
	handle    khr_surface.Surface
}

func (s *surface) Destroy() {
	if s.handle.Initialized() {
		s.extension.DestroySurface(s.handle, nil)
		s.handle = khr_surface.Surface{}
	}
}

type messenger struct {
	debugDriver ext_debug_utils.ExtensionDriver
	handle      ext_debug_utils.DebugUtilsMessenger
}

func (m *messenger) Destroy() {
	if m.handle.Initialized() {
		m.debugDriver.DestroyDebugUtilsMessenger(m.handle, nil)
		m.handle = ext_debug_utils.DebugUtilsMessenger{}
	}
}
