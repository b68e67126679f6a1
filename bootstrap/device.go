package bootstrap

import (
	"strconv"

	"github.com/Oki1/Vulkano/driver"
	"github.com/sirupsen/logrus"
)

// DeviceOptions configures BuildDevice.
type DeviceOptions struct {
	// QueueCount queues are created from the selected family. Zero means 1.
	QueueCount int
	// Extensions are enabled on the logical device. Nothing is added
	// implicitly.
	Extensions []string

	Logger logrus.FieldLogger
}

// Queue is an execution queue owned by a LogicalDevice.
type Queue struct {
	Family int
	Index  int
	Handle driver.Queue
}

// LogicalDevice is a configured device bound to one physical device.
type LogicalDevice struct {
	selection  *Selection
	device     driver.Device
	extensions []string
	queues     []*Queue
}

// BuildDevice creates a logical device with one queue-create request for
// sel.QueueFamilyIndex. No device features are enabled.
func BuildDevice(sel *Selection, opts DeviceOptions) (*LogicalDevice, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	queueCount := opts.QueueCount
	if queueCount == 0 {
		queueCount = 1
	}

	if sel == nil || sel.Device == nil || sel.Device.device == nil {
		return nil, fail(nil, ErrDeviceCreationFailed, "no device selected")
	}
	if sel.QueueFamilyIndex < 0 || sel.QueueFamilyIndex >= len(sel.Device.QueueFamilies) {
		return nil, fail(nil, ErrDeviceCreationFailed, "device %s has no queue family %d", sel.Device.Name, sel.QueueFamilyIndex)
	}

	family := sel.Device.QueueFamilies[sel.QueueFamilyIndex]
	if queueCount < 0 || queueCount > family.QueueCount {
		return nil, configurationError("queue count", strconv.Itoa(queueCount))
	}

	for _, ext := range opts.Extensions {
		if !sel.Device.SupportsExtension(ext) {
			return nil, configurationError("device extension", ext)
		}
	}

	priorities := make([]float32, queueCount)
	for i := range priorities {
		priorities[i] = 1.0
	}

	extensions := append([]string(nil), opts.Extensions...)
	device, err := sel.Device.device.CreateDevice(driver.DeviceCreateInfo{
		QueueFamilyIndex: sel.QueueFamilyIndex,
		QueuePriorities:  priorities,
		Extensions:       extensions,
	})
	if err != nil {
		return nil, fail(err, ErrDeviceCreationFailed, "device %s, queue family %d", sel.Device.Name, sel.QueueFamilyIndex)
	}

	ld := &LogicalDevice{
		selection:  sel,
		device:     device,
		extensions: extensions,
	}
	for i := 0; i < queueCount; i++ {
		ld.queues = append(ld.queues, &Queue{
			Family: sel.QueueFamilyIndex,
			Index:  i,
			Handle: device.Queue(sel.QueueFamilyIndex, i),
		})
	}

	logger.WithFields(logrus.Fields{
		"device":       sel.Device.Name,
		"queue_family": sel.QueueFamilyIndex,
		"queues":       queueCount,
		"extensions":   extensions,
	}).Debug("logical device created")

	return ld, nil
}

// DeviceExtensions returns the extensions to enable on sel's device:
// VK_KHR_swapchain, extra, and VK_KHR_portability_subset when the device
// exposes it.
func DeviceExtensions(sel *Selection, extra []string) []string {
	extensions := union([]string{driver.SwapchainExtensionName}, extra)
	if sel != nil && sel.Device != nil && sel.Device.SupportsExtension(driver.PortabilitySubsetExtensionName) {
		extensions = union(extensions, []string{driver.PortabilitySubsetExtensionName})
	}
	return extensions
}

// Selection returns the selection the device was built from.
func (d *LogicalDevice) Selection() *Selection {
	return d.selection
}

// Extensions returns a copy of the enabled device extensions.
func (d *LogicalDevice) Extensions() []string {
	return append([]string(nil), d.extensions...)
}

// Queues returns the queues in creation order.
func (d *LogicalDevice) Queues() []*Queue {
	return append([]*Queue(nil), d.queues...)
}

// Destroy destroys the device. Its queues become invalid. Calling it again
// is a no-op.
func (d *LogicalDevice) Destroy() {
	if d.device != nil {
		d.device.Destroy()
		d.device = nil
		d.queues = nil
	}
}
