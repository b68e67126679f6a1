// Package vkng implements the driver interfaces on top of vkngwrapper.
package vkng

import (
	"sort"
	"unsafe"

	"github.com/Oki1/Vulkano/driver"
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"
)

type library struct {
	globalDriver core1_0.GlobalDriver
	unload       func()
}

// Load builds a driver.Library from a vkGetInstanceProcAddr pointer. unload,
// if non-nil, runs when the library is released.
func Load(procAddr unsafe.Pointer, unload func()) (driver.Library, error) {
	if procAddr == nil {
		return nil, errors.New("vkng: vkGetInstanceProcAddr is nil")
	}

	globalDriver, err := core.CreateDriverFromProcAddr(procAddr)
	if err != nil {
		return nil, errors.Wrap(err, "vkng: load driver")
	}

	return &library{globalDriver: globalDriver, unload: unload}, nil
}

func (l *library) Layers() ([]string, error) {
	layers, _, err := l.globalDriver.AvailableLayers()
	if err != nil {
		return nil, errors.Wrap(err, "vkng: enumerate instance layers")
	}

	names := make([]string, 0, len(layers))
	for name := range layers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (l *library) Extensions() ([]string, error) {
	extensions, _, err := l.globalDriver.AvailableExtensions()
	if err != nil {
		return nil, errors.Wrap(err, "vkng: enumerate instance extensions")
	}

	names := make([]string, 0, len(extensions))
	for name := range extensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (l *library) CreateInstance(info driver.InstanceCreateInfo) (driver.Instance, error) {
	instanceOptions := core1_0.InstanceCreateInfo{
		ApplicationName:       info.ApplicationName,
		ApplicationVersion:    common.CreateVersion(1, 0, 0),
		EngineName:            info.EngineName,
		EngineVersion:         common.CreateVersion(1, 0, 0),
		APIVersion:            common.Vulkan1_0,
		EnabledExtensionNames: info.Extensions,
		EnabledLayerNames:     info.Layers,
	}

	if info.EnumeratePortability {
		instanceOptions.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}

	// Chained so that messages from vkCreateInstance/vkDestroyInstance are
	// delivered too.
	if info.Diagnostics != nil {
		instanceOptions.Next = messengerCreateInfo(info.Diagnostics)
	}

	handle, _, err := l.globalDriver.CreateInstance(nil, instanceOptions)
	if err != nil {
		return nil, err
	}

	instanceDriver, err := l.globalDriver.BuildInstanceDriver(handle)
	if err != nil {
		return nil, errors.Wrap(err, "vkng: build instance driver")
	}

	return &instance{instanceDriver: instanceDriver}, nil
}

func (l *library) Release() {
	if l.unload != nil {
		l.unload()
		l.unload = nil
	}
}
