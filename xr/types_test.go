package xr_test

import (
	"testing"

	"github.com/devblok/koruxr/xr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	v := xr.MakeVersion(1, 2, 34)
	assert.Equal(t, uint16(1), v.Major())
	assert.Equal(t, uint16(2), v.Minor())
	assert.Equal(t, uint32(34), v.Patch())
	assert.Equal(t, "1.2.34", v.String())
	assert.Equal(t, xr.Version(0x0001000000000000), xr.MakeVersion(1, 0, 0))
}

func TestResult(t *testing.T) {
	assert.NoError(t, xr.Success.Err())
	assert.Error(t, xr.TimeoutExpired.Err())
	assert.True(t, xr.TimeoutExpired.Succeeded())
	assert.True(t, xr.ErrorRuntimeFailure.Failed())
	assert.Equal(t, "XR_ERROR_FORM_FACTOR_UNAVAILABLE", xr.ErrorFormFactorUnavailable.Error())
	assert.Equal(t, "XrResult(-999)", xr.Result(-999).String())
}

func TestLoaderInitInfoKeepsPlatformHandles(t *testing.T) {
	platform := xr.AndroidPlatform{VM: 0x7f001234, Activity: 0x7f00beef}

	info := xr.NewLoaderInitInfoAndroid(platform)
	assert.Equal(t, platform.VM, info.ApplicationVM)
	assert.Equal(t, platform.Activity, info.ApplicationContext)
	assert.Nil(t, info.Next)
	assert.Equal(t, xr.TypeLoaderInitInfoAndroid, info.StructureType())
}

func TestAndroidInstanceCreateInfo(t *testing.T) {
	platform := xr.AndroidPlatform{VM: 0x7f001234, Activity: 0x7f00beef}
	app, err := xr.NewApplicationInfo("test", 1, "", 0)
	require.NoError(t, err)

	info := xr.NewAndroidInstanceCreateInfo(app, platform, nil, []string{"XR_EXT_debug_utils", xr.KHRVulkanEnableExtensionName})

	android, ok := info.Next.(*xr.InstanceCreateInfoAndroid)
	require.True(t, ok)
	assert.Equal(t, platform.VM, android.ApplicationVM)
	assert.Equal(t, platform.Activity, android.ApplicationActivity)
	assert.Equal(t, xr.TypeInstanceCreateInfoAndroid, android.StructureType())

	assert.Equal(t, app, info.ApplicationInfo)
	assert.Empty(t, info.APILayers)
	assert.Equal(t, []string{
		xr.KHRVulkanEnableExtensionName,
		xr.KHRAndroidCreateInstanceExtensionName,
		"XR_EXT_debug_utils",
		xr.KHRVulkanEnableExtensionName,
	}, info.Extensions)
}
