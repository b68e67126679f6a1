// Package driver describes the slice of a low-level graphics API that the
// bootstrap sequence talks to. The production implementation lives in
// driver/vkng; tests use driver/drivertest.
package driver

import (
	"github.com/google/uuid"
)

// Well-known instance and device extension names.
const (
	SurfaceExtensionName                = "VK_KHR_surface"
	DebugUtilsExtensionName             = "VK_EXT_debug_utils"
	SwapchainExtensionName              = "VK_KHR_swapchain"
	PortabilityEnumerationExtensionName = "VK_KHR_portability_enumeration"
	PortabilitySubsetExtensionName      = "VK_KHR_portability_subset"
)

// ValidationLayerName is the standard validation layer.
const ValidationLayerName = "VK_LAYER_KHRONOS_validation"

// Library is a loaded driver dispatch table.
type Library interface {
	// Layers returns the names of every instance layer the driver reports.
	Layers() ([]string, error)
	// Extensions returns the names of every instance extension the driver reports.
	Extensions() ([]string, error)
	// CreateInstance creates a connection to the graphics subsystem.
	CreateInstance(info InstanceCreateInfo) (Instance, error)
	// Release gives the dispatch table back to the platform loader.
	Release()
}

// InstanceCreateInfo lists everything fixed at instance creation.
type InstanceCreateInfo struct {
	ApplicationName string
	EngineName      string
	Extensions      []string
	Layers          []string

	// EnumeratePortability sets the portability enumeration instance flag.
	EnumeratePortability bool

	// Diagnostics, when set, receives messages emitted while the instance
	// itself is being created or destroyed.
	Diagnostics DiagnosticFunc
}

// Instance is one connection to the graphics subsystem.
type Instance interface {
	PhysicalDevices() ([]PhysicalDevice, error)
	CreateSurface(window Window) (Surface, error)
	RegisterDiagnostics(fn DiagnosticFunc) (Messenger, error)
	Destroy()
}

// PhysicalDevice is one enumerable implementation of the API.
type PhysicalDevice interface {
	Properties() (*Properties, error)
	Extensions() ([]string, error)
	QueueFamilies() []QueueFamilyProperties
	SurfaceSupport(surface Surface, queueFamilyIndex int) (bool, error)
	CreateDevice(info DeviceCreateInfo) (Device, error)
}

// Window is a platform window that a surface can be bound to.
type Window interface {
	// RequiredExtensions lists the instance extensions the window system
	// needs for presentation.
	RequiredExtensions() []string
}

// Surface is a presentable output bound to a window.
type Surface interface {
	Destroy()
}

// Messenger is a registered diagnostic callback.
type Messenger interface {
	Destroy()
}

// DeviceCreateInfo describes a logical device request.
type DeviceCreateInfo struct {
	QueueFamilyIndex int
	QueuePriorities  []float32
	Extensions       []string
}

// Device is a logical device.
type Device interface {
	Queue(queueFamilyIndex, queueIndex int) Queue
	Destroy()
}

// Queue is an execution queue owned by a Device.
type Queue interface{}

// Properties holds the general properties of a physical device.
type Properties struct {
	Name              string
	Type              DeviceType
	VendorID          uint32
	DeviceID          uint32
	APIVersion        string
	DriverVersion     string
	PipelineCacheUUID uuid.UUID
}

// QueueFamilyProperties describes one queue family of a physical device.
type QueueFamilyProperties struct {
	Flags      QueueFlags
	QueueCount int
}
