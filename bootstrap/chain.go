package bootstrap

import (
	"github.com/Oki1/Vulkano/driver"
	"github.com/google/uuid"
	"github.com/loov/hrtime"
	"github.com/sirupsen/logrus"
)

// Options configures Run.
type Options struct {
	Loader LibraryLoader
	Window driver.Window

	ApplicationName string
	Debug           bool
	QueueCount      int
	// DeviceExtensions are required of the selected device and enabled on
	// the logical device, in addition to VK_KHR_swapchain.
	DeviceExtensions []string

	Sink   Sink
	Logger logrus.FieldLogger
}

// Chain is a fully bootstrapped graphics context.
type Chain struct {
	Session uuid.UUID

	Library   *Library
	Context   *Context
	Surface   *Surface
	Selection *Selection
	Device    *LogicalDevice

	logger logrus.FieldLogger
}

// Run executes driver load, context creation, surface binding, device
// selection and logical device creation, in that order. If a stage fails,
// everything already created is released and the error is returned.
func Run(opts Options) (*Chain, error) {
	session := uuid.New()

	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger = logger.WithField("session", session.String())

	sink := opts.Sink
	if sink == nil {
		sink = NewLogSink(logger)
	}

	c := &Chain{Session: session, logger: logger}

	err := c.stage("load driver", func() (err error) {
		c.Library, err = LoadLibrary(opts.Loader)
		return err
	})
	if err == nil {
		err = c.stage("create context", func() (err error) {
			c.Context, err = CreateContext(c.Library, ContextOptions{
				ApplicationName: opts.ApplicationName,
				Extensions:      windowExtensions(opts.Window),
				Debug:           opts.Debug,
				Sink:            sink,
				Logger:          logger,
			})
			return err
		})
	}
	if err == nil {
		err = c.stage("create surface", func() (err error) {
			c.Surface, err = CreateSurface(c.Context, opts.Window)
			return err
		})
	}
	if err == nil {
		err = c.stage("select device", func() (err error) {
			c.Selection, err = SelectDevice(c.Context, c.Surface, SelectorOptions{
				RequiredExtensions: opts.DeviceExtensions,
				Sink:               sink,
				Logger:             logger,
			})
			return err
		})
	}
	if err == nil {
		err = c.stage("create logical device", func() (err error) {
			c.Device, err = BuildDevice(c.Selection, DeviceOptions{
				QueueCount: opts.QueueCount,
				Extensions: DeviceExtensions(c.Selection, opts.DeviceExtensions),
				Logger:     logger,
			})
			return err
		})
	}
	if err != nil {
		c.Close()
		return nil, err
	}

	return c, nil
}

func (c *Chain) stage(name string, fn func() error) error {
	start := hrtime.Now()
	err := fn()
	entry := c.logger.WithFields(logrus.Fields{
		"stage":   name,
		"elapsed": hrtime.Since(start).String(),
	})
	if err != nil {
		entry.WithError(err).Error("bootstrap stage failed")
		return err
	}
	entry.Debug("bootstrap stage done")
	return nil
}

// Queues returns the logical device's queues.
func (c *Chain) Queues() []*Queue {
	if c.Device == nil {
		return nil
	}
	return c.Device.Queues()
}

// Close releases everything in reverse creation order: logical device,
// surface, context (messenger, then instance), then the library. Calling it
// again is a no-op.
func (c *Chain) Close() {
	if c.Device != nil {
		c.Device.Destroy()
		c.Device = nil
	}
	c.Selection = nil
	if c.Surface != nil {
		c.Surface.Destroy()
		c.Surface = nil
	}
	if c.Context != nil {
		c.Context.Destroy()
		c.Context = nil
	}
	if c.Library != nil {
		c.Library.Release()
		c.Library = nil
	}
}

func windowExtensions(window driver.Window) []string {
	if window == nil {
		return nil
	}
	return window.RequiredExtensions()
}
