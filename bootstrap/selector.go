package bootstrap

import (
	"github.com/Oki1/Vulkano/driver"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// QueueFamily is one queue family of a physical device, as seen against a
// particular surface.
type QueueFamily struct {
	Index      int
	Flags      driver.QueueFlags
	QueueCount int
	CanPresent bool
}

// PhysicalDeviceInfo is a snapshot of one physical device's properties. It
// is queried fresh on every selection.
type PhysicalDeviceInfo struct {
	Name              string
	Type              driver.DeviceType
	VendorID          uint32
	DeviceID          uint32
	APIVersion        string
	DriverVersion     string
	PipelineCacheUUID uuid.UUID
	Extensions        map[string]struct{}
	QueueFamilies     []QueueFamily

	device driver.PhysicalDevice
}

// SupportsExtension reports whether the device exposes name.
func (p *PhysicalDeviceInfo) SupportsExtension(name string) bool {
	_, ok := p.Extensions[name]
	return ok
}

// Selection is the device chosen by SelectDevice together with the queue
// family to create queues from.
type Selection struct {
	Device           *PhysicalDeviceInfo
	QueueFamilyIndex int
}

// SelectorOptions configures SelectDevice.
type SelectorOptions struct {
	// RequiredExtensions must all be exposed by an eligible device.
	// VK_KHR_swapchain is always required.
	RequiredExtensions []string

	Sink   Sink
	Logger logrus.FieldLogger
}

// QueryDevice snapshots device. Presentation support is asked per family;
// a failed query leaves that family unable to present. surface is required.
func QueryDevice(device driver.PhysicalDevice, surface *Surface, logger logrus.FieldLogger) (*PhysicalDeviceInfo, error) {
	if surface == nil || surface.surface == nil {
		return nil, fail(nil, ErrPresentationQueryFailed, "no surface")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	props, err := device.Properties()
	if err != nil {
		return nil, errors.Wrap(err, "query device properties")
	}

	extensions, err := device.Extensions()
	if err != nil {
		return nil, errors.Wrapf(err, "query extensions of %s", props.Name)
	}

	info := &PhysicalDeviceInfo{
		Name:              props.Name,
		Type:              props.Type,
		VendorID:          props.VendorID,
		DeviceID:          props.DeviceID,
		APIVersion:        props.APIVersion,
		DriverVersion:     props.DriverVersion,
		PipelineCacheUUID: props.PipelineCacheUUID,
		Extensions:        toSet(extensions),
		device:            device,
	}

	for idx, family := range device.QueueFamilies() {
		canPresent, err := device.SurfaceSupport(surface.surface, idx)
		if err != nil {
			err = errors.Mark(err, ErrPresentationQueryFailed)
			logger.WithError(err).WithFields(logrus.Fields{
				"device":       props.Name,
				"queue_family": idx,
			}).Warn("presentation query failed, treating family as unable to present")
			canPresent = false
		}

		info.QueueFamilies = append(info.QueueFamilies, QueueFamily{
			Index:      idx,
			Flags:      family.Flags,
			QueueCount: family.QueueCount,
			CanPresent: canPresent,
		})
	}

	return info, nil
}

// FirstGraphicsPresentFamily returns the index of the first family that can
// both draw and present, or -1.
func FirstGraphicsPresentFamily(info *PhysicalDeviceInfo) int {
	for _, family := range info.QueueFamilies {
		if family.Flags.Has(driver.QueueGraphics) && family.CanPresent {
			return family.Index
		}
	}
	return -1
}

// Eligible reports whether info exposes every required extension and has a
// family that can both draw and present.
func Eligible(info *PhysicalDeviceInfo, requiredExtensions []string) bool {
	for _, ext := range requiredExtensions {
		if !info.SupportsExtension(ext) {
			return false
		}
	}
	return FirstGraphicsPresentFamily(info) >= 0
}

// Rank picks the first discrete GPU of eligible, falling back to the first
// entry. eligible must be in enumeration order.
func Rank(eligible []*PhysicalDeviceInfo) *PhysicalDeviceInfo {
	if len(eligible) == 0 {
		return nil
	}
	for _, info := range eligible {
		if info.Type == driver.DeviceTypeDiscreteGPU {
			return info
		}
	}
	return eligible[0]
}

// QueryDevices snapshots every physical device of ctx in enumeration order.
// Devices whose properties or extensions cannot be read are logged and left
// out.
func QueryDevices(ctx *Context, surface *Surface, logger logrus.FieldLogger) ([]*PhysicalDeviceInfo, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if ctx == nil || ctx.instance == nil {
		return nil, fail(nil, ErrDeviceEnumerationFailed, "context is not initialised")
	}
	if surface == nil || surface.surface == nil {
		return nil, fail(nil, ErrPresentationQueryFailed, "no surface")
	}

	devices, err := ctx.instance.PhysicalDevices()
	if err != nil {
		return nil, fail(err, ErrDeviceEnumerationFailed, "enumerate physical devices")
	}

	infos := make([]*PhysicalDeviceInfo, 0, len(devices))
	for idx, device := range devices {
		info, err := QueryDevice(device, surface, logger)
		if err != nil {
			logger.WithError(err).WithField("index", idx).Warn("skipping physical device")
			continue
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// SelectDevice enumerates the physical devices of ctx and picks one that can
// render to surface.
func SelectDevice(ctx *Context, surface *Surface, opts SelectorOptions) (*Selection, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	sink := opts.Sink
	if sink == nil {
		sink = NewLogSink(logger)
	}
	required := union([]string{driver.SwapchainExtensionName}, opts.RequiredExtensions)

	infos, err := QueryDevices(ctx, surface, logger)
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, fail(nil, ErrNoSuitableDevice, "driver exposes no usable physical devices")
	}

	var eligible []*PhysicalDeviceInfo
	for _, info := range infos {
		ok := Eligible(info, required)
		logger.WithFields(logrus.Fields{
			"device":   info.Name,
			"type":     info.Type.String(),
			"eligible": ok,
		}).Debug("evaluated physical device")

		if ok {
			eligible = append(eligible, info)
		}
	}

	chosen := Rank(eligible)
	if chosen == nil {
		return nil, fail(nil, ErrNoSuitableDevice, "%d devices, none with a graphics+present queue family and extensions %v", len(infos), required)
	}

	// The family index is derived from the chosen device only.
	sel := &Selection{
		Device:           chosen,
		QueueFamilyIndex: FirstGraphicsPresentFamily(chosen),
	}
	sink.DeviceSelected(sel)

	return sel, nil
}
