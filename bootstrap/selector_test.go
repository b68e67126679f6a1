package bootstrap_test

import (
	"encoding/json"
	"testing"

	"github.com/Oki1/Vulkano/bootstrap"
	"github.com/Oki1/Vulkano/driver"
	"github.com/Oki1/Vulkano/driver/drivertest"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectPrefersDiscreteGPU(t *testing.T) {
	integrated := drivertest.NewDevice("Intel UHD 630", driver.DeviceTypeIntegratedGPU, drivertest.GraphicsOnly())
	discrete := drivertest.NewDevice("GeForce RTX 3070", driver.DeviceTypeDiscreteGPU,
		drivertest.ComputeOnly(), drivertest.GraphicsOnly(), drivertest.GraphicsPresent())
	virtual := drivertest.NewDevice("virtio-gpu", driver.DeviceTypeVirtualGPU, drivertest.GraphicsPresent())

	_, ctx, surface := openSurface(t, integrated, discrete, virtual)

	sink := &recordSink{}
	sel, err := bootstrap.SelectDevice(ctx, surface, selectorOptions(sink))
	require.NoError(t, err)

	assert.Equal(t, "GeForce RTX 3070", sel.Device.Name)
	assert.Equal(t, driver.DeviceTypeDiscreteGPU, sel.Device.Type)
	assert.Equal(t, 2, sel.QueueFamilyIndex)

	require.Len(t, sink.selected, 1)
	assert.Same(t, sel, sink.selected[0])
}

func TestSelectFallsBackToFirstEligible(t *testing.T) {
	integrated := drivertest.NewDevice("Intel UHD 630", driver.DeviceTypeIntegratedGPU, drivertest.GraphicsOnly())
	virtual := drivertest.NewDevice("virtio-gpu", driver.DeviceTypeVirtualGPU, drivertest.GraphicsPresent())
	cpu := drivertest.NewDevice("llvmpipe", driver.DeviceTypeCPU, drivertest.GraphicsPresent())

	_, ctx, surface := openSurface(t, integrated, virtual, cpu)

	sel, err := bootstrap.SelectDevice(ctx, surface, selectorOptions(&recordSink{}))
	require.NoError(t, err)
	assert.Equal(t, "virtio-gpu", sel.Device.Name)
	assert.Equal(t, 0, sel.QueueFamilyIndex)
}

func TestSelectIsDeterministic(t *testing.T) {
	devices := []*drivertest.PhysicalDevice{
		drivertest.NewDevice("a", driver.DeviceTypeIntegratedGPU, drivertest.GraphicsPresent()),
		drivertest.NewDevice("b", driver.DeviceTypeDiscreteGPU, drivertest.GraphicsOnly(), drivertest.GraphicsPresent()),
		drivertest.NewDevice("c", driver.DeviceTypeDiscreteGPU, drivertest.GraphicsPresent()),
	}
	_, ctx, surface := openSurface(t, devices...)

	first, err := bootstrap.SelectDevice(ctx, surface, selectorOptions(&recordSink{}))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		sel, err := bootstrap.SelectDevice(ctx, surface, selectorOptions(&recordSink{}))
		require.NoError(t, err)
		assert.Equal(t, first.Device.Name, sel.Device.Name)
		assert.Equal(t, first.QueueFamilyIndex, sel.QueueFamilyIndex)
	}
	assert.Equal(t, "b", first.Device.Name)
	assert.Equal(t, 1, first.QueueFamilyIndex)
}

func TestSelectQueueFamilyComesFromChosenDevice(t *testing.T) {
	// The first eligible device presents from family 0; the discrete one
	// only from family 1.
	virtual := drivertest.NewDevice("virtual", driver.DeviceTypeVirtualGPU, drivertest.GraphicsPresent())
	discrete := drivertest.NewDevice("discrete", driver.DeviceTypeDiscreteGPU, drivertest.GraphicsOnly(), drivertest.GraphicsPresent())

	_, ctx, surface := openSurface(t, virtual, discrete)

	sel, err := bootstrap.SelectDevice(ctx, surface, selectorOptions(&recordSink{}))
	require.NoError(t, err)
	assert.Equal(t, "discrete", sel.Device.Name)
	assert.Equal(t, 1, sel.QueueFamilyIndex)
}

func TestSelectNoEligibleDevice(t *testing.T) {
	noPresent := drivertest.NewDevice("no present", driver.DeviceTypeDiscreteGPU, drivertest.GraphicsOnly())
	noGraphics := drivertest.NewDevice("no graphics", driver.DeviceTypeDiscreteGPU, drivertest.ComputeOnly())
	noSwapchain := drivertest.NewDevice("no swapchain", driver.DeviceTypeDiscreteGPU, drivertest.GraphicsPresent()).WithoutExtensions()

	fake, ctx, surface := openSurface(t, noPresent, noGraphics, noSwapchain)

	sink := &recordSink{}
	sel, err := bootstrap.SelectDevice(ctx, surface, selectorOptions(sink))
	require.Error(t, err)
	assert.Nil(t, sel)
	assert.True(t, errors.Is(err, bootstrap.ErrNoSuitableDevice))
	assert.Empty(t, sink.selected)
	assert.Zero(t, fake.Events.Count("device.create"))
}

func TestSelectNoDevices(t *testing.T) {
	_, ctx, surface := openSurface(t)

	_, err := bootstrap.SelectDevice(ctx, surface, selectorOptions(&recordSink{}))
	assert.True(t, errors.Is(err, bootstrap.ErrNoSuitableDevice))
}

func TestSelectEnumerationFailure(t *testing.T) {
	fake, ctx, surface := openSurface(t, drivertest.NewDevice("gpu", driver.DeviceTypeDiscreteGPU, drivertest.GraphicsPresent()))
	fake.Instance.EnumerateErr = errors.New("VK_ERROR_INITIALIZATION_FAILED")

	_, err := bootstrap.SelectDevice(ctx, surface, selectorOptions(&recordSink{}))
	assert.True(t, errors.Is(err, bootstrap.ErrDeviceEnumerationFailed))
	assert.False(t, errors.Is(err, bootstrap.ErrNoSuitableDevice))
}

func TestSelectPresentationQueryFailureIsLocal(t *testing.T) {
	broken := drivertest.NewDevice("broken", driver.DeviceTypeDiscreteGPU, drivertest.Family{
		Flags:      driver.QueueGraphics,
		QueueCount: 1,
		Present:    true,
		PresentErr: errors.New("VK_ERROR_SURFACE_LOST_KHR"),
	})
	healthy := drivertest.NewDevice("healthy", driver.DeviceTypeIntegratedGPU, drivertest.GraphicsPresent())

	_, ctx, surface := openSurface(t, broken, healthy)

	sel, err := bootstrap.SelectDevice(ctx, surface, selectorOptions(&recordSink{}))
	require.NoError(t, err)
	assert.Equal(t, "healthy", sel.Device.Name)
	assert.Equal(t, 1, broken.SurfaceChecks)
	assert.Equal(t, 1, healthy.SurfaceChecks)
}

func TestSelectPresentationQueryFailureSkipsOnlyThatFamily(t *testing.T) {
	gpu := drivertest.NewDevice("gpu", driver.DeviceTypeDiscreteGPU,
		drivertest.Family{Flags: driver.QueueGraphics, QueueCount: 1, PresentErr: errors.New("lost")},
		drivertest.GraphicsPresent(),
	)
	_, ctx, surface := openSurface(t, gpu)

	sel, err := bootstrap.SelectDevice(ctx, surface, selectorOptions(&recordSink{}))
	require.NoError(t, err)
	assert.Equal(t, 1, sel.QueueFamilyIndex)
	assert.False(t, sel.Device.QueueFamilies[0].CanPresent)
}

func TestSelectSkipsDevicesWithFailingQueries(t *testing.T) {
	noProps := drivertest.NewDevice("props", driver.DeviceTypeDiscreteGPU, drivertest.GraphicsPresent())
	noProps.PropsErr = errors.New("device lost")
	noExts := drivertest.NewDevice("exts", driver.DeviceTypeDiscreteGPU, drivertest.GraphicsPresent())
	noExts.ExtsErr = errors.New("device lost")
	ok := drivertest.NewDevice("ok", driver.DeviceTypeCPU, drivertest.GraphicsPresent())

	_, ctx, surface := openSurface(t, noProps, noExts, ok)

	sel, err := bootstrap.SelectDevice(ctx, surface, selectorOptions(&recordSink{}))
	require.NoError(t, err)
	assert.Equal(t, "ok", sel.Device.Name)
}

func TestSelectRequiredExtensions(t *testing.T) {
	plain := drivertest.NewDevice("plain", driver.DeviceTypeDiscreteGPU, drivertest.GraphicsPresent())
	rt := drivertest.NewDevice("rt", driver.DeviceTypeIntegratedGPU, drivertest.GraphicsPresent())
	rt.Exts = append(rt.Exts, "VK_KHR_ray_query")

	_, ctx, surface := openSurface(t, plain, rt)

	opts := selectorOptions(&recordSink{})
	opts.RequiredExtensions = []string{"VK_KHR_ray_query"}
	sel, err := bootstrap.SelectDevice(ctx, surface, opts)
	require.NoError(t, err)
	assert.Equal(t, "rt", sel.Device.Name)
}

func TestRank(t *testing.T) {
	assert.Nil(t, bootstrap.Rank(nil))

	integrated := &bootstrap.PhysicalDeviceInfo{Name: "i", Type: driver.DeviceTypeIntegratedGPU}
	discrete1 := &bootstrap.PhysicalDeviceInfo{Name: "d1", Type: driver.DeviceTypeDiscreteGPU}
	discrete2 := &bootstrap.PhysicalDeviceInfo{Name: "d2", Type: driver.DeviceTypeDiscreteGPU}

	assert.Same(t, integrated, bootstrap.Rank([]*bootstrap.PhysicalDeviceInfo{integrated}))
	assert.Same(t, discrete1, bootstrap.Rank([]*bootstrap.PhysicalDeviceInfo{integrated, discrete1, discrete2}))
}

func TestEligible(t *testing.T) {
	info := &bootstrap.PhysicalDeviceInfo{
		Extensions: map[string]struct{}{driver.SwapchainExtensionName: {}},
		QueueFamilies: []bootstrap.QueueFamily{
			{Index: 0, Flags: driver.QueueCompute, CanPresent: true},
			{Index: 1, Flags: driver.QueueGraphics | driver.QueueCompute, CanPresent: false},
		},
	}
	required := []string{driver.SwapchainExtensionName}

	assert.False(t, bootstrap.Eligible(info, required))
	assert.Equal(t, -1, bootstrap.FirstGraphicsPresentFamily(info))

	info.QueueFamilies[1].CanPresent = true
	assert.True(t, bootstrap.Eligible(info, required))
	assert.Equal(t, 1, bootstrap.FirstGraphicsPresentFamily(info))

	assert.False(t, bootstrap.Eligible(info, append(required, "VK_EXT_mesh_shader")))
}

func TestQueryDevices(t *testing.T) {
	broken := drivertest.NewDevice("broken", driver.DeviceTypeDiscreteGPU, drivertest.GraphicsPresent())
	broken.PropsErr = errors.New("VK_ERROR_DEVICE_LOST")
	gpu := drivertest.NewDevice("Radeon RX 6800", driver.DeviceTypeDiscreteGPU, drivertest.ComputeOnly(), drivertest.GraphicsPresent())

	_, ctx, surface := openSurface(t, broken, gpu)

	infos, err := bootstrap.QueryDevices(ctx, surface, nullLogger())
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "Radeon RX 6800", infos[0].Name)
	require.Len(t, infos[0].QueueFamilies, 2)
	assert.False(t, infos[0].QueueFamilies[0].Flags.Has(driver.QueueGraphics))
	assert.True(t, infos[0].QueueFamilies[1].CanPresent)

	raw, err := json.Marshal(infos[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"Type":"DiscreteGPU"`)
	assert.Contains(t, string(raw), `"Flags":"Graphics|Transfer"`)
}

func TestQueryDeviceRequiresSurface(t *testing.T) {
	gpu := drivertest.NewDevice("gpu", driver.DeviceTypeDiscreteGPU, drivertest.GraphicsPresent())
	fake, ctx, surface := openSurface(t, gpu)

	_, err := bootstrap.QueryDevice(gpu, nil, nullLogger())
	assert.True(t, errors.Is(err, bootstrap.ErrPresentationQueryFailed))

	_, err = bootstrap.QueryDevices(ctx, nil, nullLogger())
	assert.True(t, errors.Is(err, bootstrap.ErrPresentationQueryFailed))

	_, err = bootstrap.SelectDevice(nil, surface, selectorOptions(&recordSink{}))
	assert.True(t, errors.Is(err, bootstrap.ErrDeviceEnumerationFailed))

	surface.Destroy()
	_, err = bootstrap.QueryDevice(gpu, surface, nullLogger())
	assert.True(t, errors.Is(err, bootstrap.ErrPresentationQueryFailed))

	assert.Zero(t, fake.Events.Count("instance.enumerate"))
}
