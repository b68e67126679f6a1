// Package drivertest provides a scriptable in-memory driver for tests.
package drivertest

import (
	"sync"

	"github.com/Oki1/Vulkano/driver"
	"github.com/cockroachdb/errors"
)

// Events records driver calls in the order they happened.
type Events struct {
	mu     sync.Mutex
	events []string
}

func (e *Events) add(event string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

// List returns a copy of the recorded events.
func (e *Events) List() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.events...)
}

// Count returns how many times event was recorded.
func (e *Events) Count(event string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, ev := range e.events {
		if ev == event {
			n++
		}
	}
	return n
}

// Library is a fake driver.Library.
type Library struct {
	Events *Events

	LayerCatalog     []string
	ExtensionCatalog []string
	LayersErr        error
	ExtensionsErr    error
	CreateErr        error

	// Instance is returned by CreateInstance.
	Instance *Instance
	// Created holds the info passed to the last CreateInstance call.
	Created *driver.InstanceCreateInfo
}

// NewLibrary returns a library advertising the surface and debug extensions
// and the validation layer, backed by an instance exposing devices.
func NewLibrary(devices ...*PhysicalDevice) *Library {
	events := &Events{}
	for _, d := range devices {
		d.events = events
	}
	return &Library{
		Events:       events,
		LayerCatalog: []string{driver.ValidationLayerName},
		ExtensionCatalog: []string{
			driver.SurfaceExtensionName,
			driver.DebugUtilsExtensionName,
			"VK_KHR_xlib_surface",
		},
		Instance: &Instance{events: events, Devices: devices},
	}
}

func (l *Library) Layers() ([]string, error) {
	l.Events.add("library.layers")
	if l.LayersErr != nil {
		return nil, l.LayersErr
	}
	return append([]string(nil), l.LayerCatalog...), nil
}

func (l *Library) Extensions() ([]string, error) {
	l.Events.add("library.extensions")
	if l.ExtensionsErr != nil {
		return nil, l.ExtensionsErr
	}
	return append([]string(nil), l.ExtensionCatalog...), nil
}

func (l *Library) CreateInstance(info driver.InstanceCreateInfo) (driver.Instance, error) {
	l.Events.add("instance.create")
	l.Created = &info
	if l.CreateErr != nil {
		return nil, l.CreateErr
	}
	if info.Diagnostics != nil {
		for _, msg := range l.Instance.CreationMessages {
			info.Diagnostics(msg)
		}
	}
	l.Instance.events = l.Events
	return l.Instance, nil
}

func (l *Library) Release() {
	l.Events.add("library.release")
}

// Instance is a fake driver.Instance.
type Instance struct {
	events *Events

	Devices      []*PhysicalDevice
	EnumerateErr error
	SurfaceErr   error
	MessengerErr error

	// CreationMessages are delivered to the chained diagnostics during
	// CreateInstance; RuntimeMessages to each registered messenger.
	CreationMessages []driver.Message
	RuntimeMessages  []driver.Message

	// Window is the window passed to the last CreateSurface call.
	Window driver.Window
}

func (i *Instance) PhysicalDevices() ([]driver.PhysicalDevice, error) {
	i.events.add("instance.enumerate")
	if i.EnumerateErr != nil {
		return nil, i.EnumerateErr
	}
	devices := make([]driver.PhysicalDevice, 0, len(i.Devices))
	for _, d := range i.Devices {
		d.events = i.events
		devices = append(devices, d)
	}
	return devices, nil
}

func (i *Instance) CreateSurface(window driver.Window) (driver.Surface, error) {
	i.events.add("surface.create")
	if i.SurfaceErr != nil {
		return nil, i.SurfaceErr
	}
	i.Window = window
	return &Surface{events: i.events}, nil
}

func (i *Instance) RegisterDiagnostics(fn driver.DiagnosticFunc) (driver.Messenger, error) {
	i.events.add("messenger.create")
	if i.MessengerErr != nil {
		return nil, i.MessengerErr
	}
	for _, msg := range i.RuntimeMessages {
		fn(msg)
	}
	return &Messenger{events: i.events}, nil
}

func (i *Instance) Destroy() {
	i.events.add("instance.destroy")
}

// Surface is a fake driver.Surface.
type Surface struct {
	events *Events
}

func (s *Surface) Destroy() {
	s.events.add("surface.destroy")
}

// Messenger is a fake driver.Messenger.
type Messenger struct {
	events *Events
}

func (m *Messenger) Destroy() {
	m.events.add("messenger.destroy")
}

// Family scripts one queue family of a fake physical device.
type Family struct {
	Flags      driver.QueueFlags
	QueueCount int
	Present    bool
	PresentErr error
}

// GraphicsPresent is a graphics family that can present.
func GraphicsPresent() Family {
	return Family{Flags: driver.QueueGraphics | driver.QueueTransfer, QueueCount: 4, Present: true}
}

// GraphicsOnly is a graphics family that cannot present.
func GraphicsOnly() Family {
	return Family{Flags: driver.QueueGraphics | driver.QueueTransfer, QueueCount: 4}
}

// ComputeOnly is a compute family that can present but cannot draw.
func ComputeOnly() Family {
	return Family{Flags: driver.QueueCompute, QueueCount: 2, Present: true}
}

// PhysicalDevice is a fake driver.PhysicalDevice.
type PhysicalDevice struct {
	events *Events

	Props         driver.Properties
	PropsErr      error
	Exts          []string
	ExtsErr       error
	Families      []Family
	CreateErr     error
	SurfaceChecks int

	// Created holds the info passed to the last CreateDevice call.
	Created *driver.DeviceCreateInfo
}

// NewDevice returns a device exposing the swapchain extension.
func NewDevice(name string, deviceType driver.DeviceType, families ...Family) *PhysicalDevice {
	return &PhysicalDevice{
		events:   &Events{},
		Props:    driver.Properties{Name: name, Type: deviceType},
		Exts:     []string{driver.SwapchainExtensionName},
		Families: families,
	}
}

// WithoutExtensions drops every device extension.
func (p *PhysicalDevice) WithoutExtensions() *PhysicalDevice {
	p.Exts = nil
	return p
}

func (p *PhysicalDevice) Properties() (*driver.Properties, error) {
	if p.PropsErr != nil {
		return nil, p.PropsErr
	}
	props := p.Props
	return &props, nil
}

func (p *PhysicalDevice) Extensions() ([]string, error) {
	if p.ExtsErr != nil {
		return nil, p.ExtsErr
	}
	return append([]string(nil), p.Exts...), nil
}

func (p *PhysicalDevice) QueueFamilies() []driver.QueueFamilyProperties {
	families := make([]driver.QueueFamilyProperties, 0, len(p.Families))
	for _, f := range p.Families {
		families = append(families, driver.QueueFamilyProperties{Flags: f.Flags, QueueCount: f.QueueCount})
	}
	return families
}

func (p *PhysicalDevice) SurfaceSupport(surface driver.Surface, queueFamilyIndex int) (bool, error) {
	p.SurfaceChecks++
	if _, ok := surface.(*Surface); !ok {
		return false, errors.Newf("drivertest: foreign surface %T", surface)
	}
	if queueFamilyIndex < 0 || queueFamilyIndex >= len(p.Families) {
		return false, errors.Newf("drivertest: queue family %d out of range", queueFamilyIndex)
	}
	f := p.Families[queueFamilyIndex]
	if f.PresentErr != nil {
		return false, f.PresentErr
	}
	return f.Present, nil
}

func (p *PhysicalDevice) CreateDevice(info driver.DeviceCreateInfo) (driver.Device, error) {
	p.events.add("device.create")
	p.Created = &info
	if p.CreateErr != nil {
		return nil, p.CreateErr
	}
	return &Device{events: p.events}, nil
}

// Device is a fake driver.Device.
type Device struct {
	events *Events
}

// Queue identifies a queue handed out by a fake Device.
type Queue struct {
	Family int
	Index  int
}

func (d *Device) Queue(queueFamilyIndex, queueIndex int) driver.Queue {
	return Queue{Family: queueFamilyIndex, Index: queueIndex}
}

func (d *Device) Destroy() {
	d.events.add("device.destroy")
}

// Window is a fake driver.Window.
type Window struct {
	Extensions []string
}

func (w *Window) RequiredExtensions() []string {
	return w.Extensions
}
