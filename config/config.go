// Package config loads the bootstrap configuration from an optional .env
// file and the process environment.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Environment keys.
const (
	KeyApplicationName  = "VULKANO_APP_NAME"
	KeyDebug            = "VULKANO_DEBUG"
	KeyQueueCount       = "VULKANO_QUEUE_COUNT"
	KeyWidth            = "VULKANO_WIDTH"
	KeyHeight           = "VULKANO_HEIGHT"
	KeyDeviceExtensions = "VULKANO_DEVICE_EXTENSIONS"
	KeyLogLevel         = "VULKANO_LOG_LEVEL"
)

// Config is the bootstrap configuration.
type Config struct {
	ApplicationName string
	Debug           bool
	QueueCount      int

	// Window size in pixels.
	Width  int
	Height int

	// DeviceExtensions are required of the selected device on top of
	// VK_KHR_swapchain.
	DeviceExtensions []string

	LogLevel logrus.Level
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ApplicationName: "Vulkan uwu",
		QueueCount:      1,
		Width:           1920,
		Height:          1080,
		LogLevel:        logrus.InfoLevel,
	}
}

// Load reads envFile, if non-empty, and then the environment. Variables
// already present in the process environment win over the file. A missing
// envFile is an error only when must is set.
func Load(envFile string, must bool) (Config, error) {
	if envFile != "" {
		values, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			for k, v := range values {
				if _, err := envy.MustGet(k); err != nil {
					envy.Set(k, v)
				}
			}
		case must || !os.IsNotExist(errors.UnwrapAll(err)):
			return Config{}, errors.Wrapf(err, "config: read %s", envFile)
		}
	}

	cfg := Default()
	cfg.ApplicationName = envy.Get(KeyApplicationName, cfg.ApplicationName)

	var err error
	if cfg.Debug, err = getBool(KeyDebug, cfg.Debug); err != nil {
		return Config{}, err
	}
	if cfg.QueueCount, err = getInt(KeyQueueCount, cfg.QueueCount); err != nil {
		return Config{}, err
	}
	if cfg.Width, err = getInt(KeyWidth, cfg.Width); err != nil {
		return Config{}, err
	}
	if cfg.Height, err = getInt(KeyHeight, cfg.Height); err != nil {
		return Config{}, err
	}

	cfg.DeviceExtensions = SplitList(envy.Get(KeyDeviceExtensions, ""))

	if level := envy.Get(KeyLogLevel, ""); level != "" {
		if cfg.LogLevel, err = logrus.ParseLevel(level); err != nil {
			return Config{}, errors.Wrapf(err, "config: %s", KeyLogLevel)
		}
	}

	return cfg, cfg.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.ApplicationName == "" {
		return errors.New("config: application name is empty")
	}
	if c.QueueCount < 1 {
		return errors.Newf("config: queue count must be at least 1, got %d", c.QueueCount)
	}
	if c.Width < 1 || c.Height < 1 {
		return errors.Newf("config: window size %dx%d is not positive", c.Width, c.Height)
	}
	return nil
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getBool(key string, fallback bool) (bool, error) {
	raw := envy.Get(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.Wrapf(err, "config: %s", key)
	}
	return v, nil
}

func getInt(key string, fallback int) (int, error) {
	raw := envy.Get(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "config: %s", key)
	}
	return v, nil
}
