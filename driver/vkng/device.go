package vkng

import (
	"fmt"
	"sort"

	"github.com/Oki1/Vulkano/driver"
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
)

var deviceTypes = map[core1_0.PhysicalDeviceType]driver.DeviceType{
	core1_0.PhysicalDeviceTypeOther:         driver.DeviceTypeOther,
	core1_0.PhysicalDeviceTypeIntegratedGPU: driver.DeviceTypeIntegratedGPU,
	core1_0.PhysicalDeviceTypeDiscreteGPU:   driver.DeviceTypeDiscreteGPU,
	core1_0.PhysicalDeviceTypeVirtualGPU:    driver.DeviceTypeVirtualGPU,
	core1_0.PhysicalDeviceTypeCPU:           driver.DeviceTypeCPU,
}

type physicalDevice struct {
	instance *instance
	device   core1_0.PhysicalDevice
}

func (p *physicalDevice) Properties() (*driver.Properties, error) {
	properties, err := p.instance.instanceDriver.GetPhysicalDeviceProperties(p.device)
	if err != nil {
		return nil, err
	}

	return &driver.Properties{
		Name:              properties.DriverName,
		Type:              deviceTypes[properties.DriverType],
		VendorID:          properties.VendorID,
		DeviceID:          properties.DeviceID,
		APIVersion:        fmt.Sprint(properties.APIVersion),
		DriverVersion:     fmt.Sprint(properties.DriverVersion),
		PipelineCacheUUID: properties.PipelineCacheUUID,
	}, nil
}

func (p *physicalDevice) Extensions() ([]string, error) {
	extensions, _, err := p.instance.instanceDriver.EnumerateDeviceExtensionProperties(p.device)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(extensions))
	for name := range extensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (p *physicalDevice) QueueFamilies() []driver.QueueFamilyProperties {
	queueFamilies := p.instance.instanceDriver.GetPhysicalDeviceQueueFamilyProperties(p.device)

	families := make([]driver.QueueFamilyProperties, 0, len(queueFamilies))
	for _, queueFamily := range queueFamilies {
		var flags driver.QueueFlags
		if queueFamily.QueueFlags&core1_0.QueueGraphics != 0 {
			flags |= driver.QueueGraphics
		}
		if queueFamily.QueueFlags&core1_0.QueueCompute != 0 {
			flags |= driver.QueueCompute
		}
		if queueFamily.QueueFlags&core1_0.QueueTransfer != 0 {
			flags |= driver.QueueTransfer
		}
		if queueFamily.QueueFlags&core1_0.QueueSparseBinding != 0 {
			flags |= driver.QueueSparseBinding
		}

		families = append(families, driver.QueueFamilyProperties{
			Flags:      flags,
			QueueCount: queueFamily.QueueCount,
		})
	}
	return families
}

func (p *physicalDevice) SurfaceSupport(target driver.Surface, queueFamilyIndex int) (bool, error) {
	s, ok := target.(*surface)
	if !ok {
		return false, errors.Newf("vkng: surface type %T was not created by this driver", target)
	}

	supported, _, err := s.extension.GetPhysicalDeviceSurfaceSupport(s.handle, p.device, queueFamilyIndex)
	if err != nil {
		return false, err
	}
	return supported, nil
}

func (p *physicalDevice) CreateDevice(info driver.DeviceCreateInfo) (driver.Device, error) {
	handle, _, err := p.instance.instanceDriver.CreateDevice(p.device, nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos: []core1_0.DeviceQueueCreateInfo{
			{
				QueueFamilyIndex: info.QueueFamilyIndex,
				QueuePriorities:  info.QueuePriorities,
			},
		},
		EnabledFeatures:       &core1_0.PhysicalDeviceFeatures{},
		EnabledExtensionNames: info.Extensions,
	})
	if err != nil {
		return nil, err
	}

	deviceDriver, err := p.instance.instanceDriver.BuildDeviceDriver(handle)
	if err != nil {
		return nil, errors.Wrap(err, "vkng: build device driver")
	}

	return &device{deviceDriver: deviceDriver}, nil
}

type device struct {
	deviceDriver core1_0.CoreDeviceDriver
}

func (d *device) Queue(queueFamilyIndex, queueIndex int) driver.Queue {
	return d.deviceDriver.GetQueue(queueFamilyIndex, queueIndex)
}

func (d *device) Destroy() {
	if d.deviceDriver != nil {
		d.deviceDriver.DestroyDevice(nil)
		d.deviceDriver = nil
	}
}
