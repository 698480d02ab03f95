package core_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/devblok/koruxr/core"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigurationDefaults(t *testing.T) {
	cfg, err := core.LoadConfiguration("")
	require.NoError(t, err)

	assert.Equal(t, core.DefaultConfiguration.Application, cfg.Application)
	assert.Equal(t, core.DefaultConfiguration.Graphics, cfg.Graphics)
	assert.Empty(t, cfg.XR.Extensions)
	assert.Empty(t, cfg.XR.Layers)
	assert.False(t, cfg.XR.EnforceGraphicsRequirements)
	assert.Equal(t, "", cfg.XR.LoaderLibrary)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.Equal(t, []string{"VK_KHR_swapchain", "VK_KHR_external_memory", "VK_KHR_external_memory_fd"}, cfg.Graphics.DeviceExtensions)
}

func TestLoadConfigurationFromEnvironment(t *testing.T) {
	t.Setenv(core.EnvApplicationName, "demo")
	t.Setenv(core.EnvApplicationVersion, "7")
	t.Setenv(core.EnvEngineName, "koru")
	t.Setenv(core.EnvEngineVersion, "2")
	t.Setenv(core.EnvXRExtensions, "XR_EXT_debug_utils, XR_FB_display_refresh_rate XR_EXT_debug_utils")
	t.Setenv(core.EnvXRLayers, "XR_APILAYER_LUNARG_core_validation")
	t.Setenv(core.EnvEnforceGraphicsRequirements, "true")
	t.Setenv(core.EnvLoaderLibrary, "/opt/openxr/libopenxr_loader.so")
	t.Setenv(core.EnvVulkanDeviceExtensions, "")
	t.Setenv(core.EnvLogLevel, "debug")

	cfg, err := core.LoadConfiguration("")
	require.NoError(t, err)

	assert.Equal(t, core.ApplicationConfiguration{
		Name:          "demo",
		Version:       7,
		EngineName:    "koru",
		EngineVersion: 2,
	}, cfg.Application)
	assert.Equal(t, []string{"XR_EXT_debug_utils", "XR_FB_display_refresh_rate", "XR_EXT_debug_utils"}, cfg.XR.Extensions)
	assert.Equal(t, []string{"XR_APILAYER_LUNARG_core_validation"}, cfg.XR.Layers)
	assert.True(t, cfg.XR.EnforceGraphicsRequirements)
	assert.Equal(t, "/opt/openxr/libopenxr_loader.so", cfg.XR.LoaderLibrary)
	assert.Empty(t, cfg.Graphics.DeviceExtensions)
	assert.Equal(t, []string{"VK_EXT_debug_report"}, cfg.Graphics.InstanceExtensions)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
}

func TestLoadConfigurationEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "koruxr.env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"KORUXR_APP_NAME=fromfile\n"+
			"KORUXR_ENGINE_NAME=filekoru\n"+
			"KORUXR_VK_EXTENSIONS=\"VK_EXT_debug_report VK_EXT_debug_utils\"\n",
	), 0o644))
	t.Setenv(core.EnvApplicationName, "fromenv")

	cfg, err := core.LoadConfiguration(envFile)
	require.NoError(t, err)

	assert.Equal(t, "fromenv", cfg.Application.Name)
	assert.Equal(t, "filekoru", cfg.Application.EngineName)
	assert.Equal(t, []string{"VK_EXT_debug_report", "VK_EXT_debug_utils"}, cfg.Graphics.InstanceExtensions)

	// Values from a previous file do not leak into the next load.
	cfg, err = core.LoadConfiguration("")
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Application.EngineName)
}

func TestLoadConfigurationMissingEnvFile(t *testing.T) {
	_, err := core.LoadConfiguration(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoadConfigurationInvalidValues(t *testing.T) {
	cases := map[string]string{
		core.EnvApplicationVersion:          "one",
		core.EnvEngineVersion:               "-1",
		core.EnvEnforceGraphicsRequirements: "maybe",
		core.EnvLogLevel:                    "loud",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := core.LoadConfiguration("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}
