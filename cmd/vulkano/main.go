package main

import (
	"encoding/json"
	"os"
	"runtime"

	"github.com/Oki1/Vulkano/bootstrap"
	"github.com/Oki1/Vulkano/config"
	"github.com/Oki1/Vulkano/window"
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	runtime.LockOSThread()
}

type flags struct {
	envFile          string
	appName          string
	debug            bool
	queueCount       int
	width            int
	height           int
	deviceExtensions []string
	logLevel         string
}

func main() {
	if err := newRootCommand(&flags{}).Execute(); err != nil {
		logrus.Fatalf("%+v", err)
	}
}

func newRootCommand(f *flags) *cobra.Command {
	root := &cobra.Command{
		Use:           "vulkano",
		Short:         "Bring up a Vulkan device for an SDL window",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.envFile, "env-file", ".env", "dotenv file to read before the environment")
	pf.StringVar(&f.appName, "app-name", "", "application name reported to the driver")
	pf.BoolVar(&f.debug, "debug", false, "enable validation layers and driver diagnostics")
	pf.IntVar(&f.queueCount, "queue-count", 0, "queues to create on the selected family")
	pf.IntVar(&f.width, "width", 0, "window width in pixels")
	pf.IntVar(&f.height, "height", 0, "window height in pixels")
	pf.StringSliceVar(&f.deviceExtensions, "device-extension", nil, "extra device extension to require (repeatable)")
	pf.StringVar(&f.logLevel, "log-level", "", "logrus level")

	root.AddCommand(&cobra.Command{
		Use:   "devices",
		Short: "Print the physical devices as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			return listDevices(cfg)
		},
	})

	return root
}

// resolve layers the command line over the env file and environment.
func (f *flags) resolve(cmd *cobra.Command) (config.Config, error) {
	pf := cmd.Flags()
	cfg, err := config.Load(f.envFile, pf.Changed("env-file"))
	if err != nil {
		return cfg, err
	}

	if pf.Changed("app-name") {
		cfg.ApplicationName = f.appName
	}
	if pf.Changed("debug") {
		cfg.Debug = f.debug
	}
	if pf.Changed("queue-count") {
		cfg.QueueCount = f.queueCount
	}
	if pf.Changed("width") {
		cfg.Width = f.width
	}
	if pf.Changed("height") {
		cfg.Height = f.height
	}
	if pf.Changed("device-extension") {
		cfg.DeviceExtensions = append(cfg.DeviceExtensions, f.deviceExtensions...)
	}
	if pf.Changed("log-level") {
		if cfg.LogLevel, err = logrus.ParseLevel(f.logLevel); err != nil {
			return cfg, errors.Wrap(err, "--log-level")
		}
	}

	logrus.SetLevel(cfg.LogLevel)
	return cfg, cfg.Validate()
}

func run(cfg config.Config) error {
	logger := logrus.StandardLogger()

	win, err := window.Open(window.Options{
		Title:  cfg.ApplicationName,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, logger)
	if err != nil {
		return err
	}
	defer win.Close()

	chain, err := bootstrap.Run(bootstrap.Options{
		Loader:           window.Loader(),
		Window:           win,
		ApplicationName:  cfg.ApplicationName,
		Debug:            cfg.Debug,
		QueueCount:       cfg.QueueCount,
		DeviceExtensions: cfg.DeviceExtensions,
		Sink:             bootstrap.NewLogSink(logger),
		Logger:           logger,
	})
	if err != nil {
		return err
	}
	defer chain.Close()

	win.Run()
	return nil
}

func listDevices(cfg config.Config) error {
	logger := logrus.StandardLogger()

	win, err := window.Open(window.Options{
		Title:  cfg.ApplicationName,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, logger)
	if err != nil {
		return err
	}
	defer win.Close()

	lib, err := bootstrap.LoadLibrary(window.Loader())
	if err != nil {
		return err
	}
	defer lib.Release()

	ctx, err := bootstrap.CreateContext(lib, bootstrap.ContextOptions{
		ApplicationName: cfg.ApplicationName,
		Extensions:      win.RequiredExtensions(),
		Debug:           cfg.Debug,
		Sink:            bootstrap.NewLogSink(logger),
		Logger:          logger,
	})
	if err != nil {
		return err
	}
	defer ctx.Destroy()

	surface, err := bootstrap.CreateSurface(ctx, win)
	if err != nil {
		return err
	}
	defer surface.Destroy()

	devices, err := bootstrap.QueryDevices(ctx, surface, logger)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(devices)
}
