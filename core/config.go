package core

import (
	"strconv"
	"strings"

	"github.com/devblok/koruxr/device"
	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Environment keys read by LoadConfiguration
const (
	EnvApplicationName             = "KORUXR_APP_NAME"
	EnvApplicationVersion          = "KORUXR_APP_VERSION"
	EnvEngineName                  = "KORUXR_ENGINE_NAME"
	EnvEngineVersion               = "KORUXR_ENGINE_VERSION"
	EnvXRExtensions                = "KORUXR_XR_EXTENSIONS"
	EnvXRLayers                    = "KORUXR_XR_LAYERS"
	EnvEnforceGraphicsRequirements = "KORUXR_ENFORCE_GRAPHICS_REQUIREMENTS"
	EnvLoaderLibrary               = "KORUXR_LOADER_LIBRARY"
	EnvVulkanExtensions            = "KORUXR_VK_EXTENSIONS"
	EnvVulkanDeviceExtensions      = "KORUXR_VK_DEVICE_EXTENSIONS"
	EnvLogLevel                    = "KORUXR_LOG_LEVEL"
)

// Configuration defines the bring-up configuration
type Configuration struct {
	Application ApplicationConfiguration
	XR          XRConfiguration
	Graphics    GraphicsConfiguration
	LogLevel    log.Level
}

// ApplicationConfiguration describes the application to the XR runtime
type ApplicationConfiguration struct {
	Name          string
	Version       uint32
	EngineName    string
	EngineVersion uint32
}

// XRConfiguration is used to configure the XR instance
type XRConfiguration struct {
	// Extensions are enabled after the ones bring-up always needs.
	// Duplicates are passed on as given.
	Extensions []string
	Layers     []string

	// EnforceGraphicsRequirements fails bring-up when the requested
	// graphics API version is below the runtime minimum
	EnforceGraphicsRequirements bool

	// LoaderLibrary overrides the platform loader file name
	LoaderLibrary string
}

// GraphicsConfiguration is used to configure the Vulkan instance and device
type GraphicsConfiguration struct {
	ApplicationName string
	EngineName      string
	APIVersion      uint32

	InstanceExtensions []string
	DeviceExtensions   []string
}

// DefaultConfiguration is used for every key the environment leaves unset
var DefaultConfiguration = Configuration{
	Application: ApplicationConfiguration{
		Name:    "koruxr",
		Version: 1,
	},
	Graphics: GraphicsConfiguration{
		ApplicationName: "koruxr",
		EngineName:      "koru",
		APIVersion:      device.MakeAPIVersion(1, 0, 0),
		InstanceExtensions: []string{
			"VK_EXT_debug_report",
		},
		DeviceExtensions: []string{
			"VK_KHR_swapchain",
			"VK_KHR_external_memory",
			"VK_KHR_external_memory_fd",
		},
	},
	LogLevel: log.InfoLevel,
}

// LoadConfiguration reads the configuration from the environment. Keys
// found in envFile fill in what the environment does not set; an empty
// envFile skips it.
func LoadConfiguration(envFile string) (Configuration, error) {
	envy.Reload()
	if envFile != "" {
		values, err := godotenv.Read(envFile)
		if err != nil {
			return Configuration{}, errors.Wrapf(err, "read %s", envFile)
		}
		for key, value := range values {
			if _, err := envy.MustGet(key); err != nil {
				envy.Set(key, value)
			}
		}
	}

	cfg := DefaultConfiguration
	cfg.Application.Name = envy.Get(EnvApplicationName, cfg.Application.Name)
	cfg.Application.EngineName = envy.Get(EnvEngineName, cfg.Application.EngineName)
	cfg.XR.LoaderLibrary = envy.Get(EnvLoaderLibrary, cfg.XR.LoaderLibrary)

	var err error
	if cfg.Application.Version, err = uintValue(EnvApplicationVersion, cfg.Application.Version); err != nil {
		return Configuration{}, err
	}
	if cfg.Application.EngineVersion, err = uintValue(EnvEngineVersion, cfg.Application.EngineVersion); err != nil {
		return Configuration{}, err
	}
	if cfg.XR.EnforceGraphicsRequirements, err = boolValue(EnvEnforceGraphicsRequirements, cfg.XR.EnforceGraphicsRequirements); err != nil {
		return Configuration{}, err
	}
	if level, ok := lookup(EnvLogLevel); ok {
		if cfg.LogLevel, err = log.ParseLevel(level); err != nil {
			return Configuration{}, errors.Wrap(err, EnvLogLevel)
		}
	}

	cfg.XR.Extensions = listValue(EnvXRExtensions, cfg.XR.Extensions)
	cfg.XR.Layers = listValue(EnvXRLayers, cfg.XR.Layers)
	cfg.Graphics.InstanceExtensions = listValue(EnvVulkanExtensions, cfg.Graphics.InstanceExtensions)
	cfg.Graphics.DeviceExtensions = listValue(EnvVulkanDeviceExtensions, cfg.Graphics.DeviceExtensions)
	return cfg, nil
}

func lookup(key string) (string, bool) {
	value, err := envy.MustGet(key)
	return value, err == nil
}

func uintValue(key string, def uint32) (uint32, error) {
	value, ok := lookup(key)
	if !ok {
		return def, nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
	if err != nil {
		return 0, errors.Wrap(err, key)
	}
	return uint32(n), nil
}

func boolValue(key string, def bool) (bool, error) {
	value, ok := lookup(key)
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, errors.Wrap(err, key)
	}
	return b, nil
}

// listValue splits on whitespace and commas. A set but empty key yields
// an empty list.
func listValue(key string, def []string) []string {
	value, ok := lookup(key)
	if !ok {
		return append([]string(nil), def...)
	}
	return strings.FieldsFunc(value, func(r rune) bool {
		switch r {
		case ',', ' ', '\t', '\n', '\v', '\f', '\r':
			return true
		}
		return false
	})
}
