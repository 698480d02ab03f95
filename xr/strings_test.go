package xr_test

import (
	"strings"
	"testing"

	"github.com/devblok/koruxr/xr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApplicationInfo(t *testing.T) {
	info, err := xr.NewApplicationInfo("test", 1, "", 0)
	require.NoError(t, err)

	assert.Equal(t, "test", info.Name())
	assert.Equal(t, byte(0), info.ApplicationName[4])
	assert.Equal(t, uint32(1), info.ApplicationVersion)
	assert.Equal(t, [xr.MaxEngineNameSize]byte{}, info.EngineName)
	assert.Equal(t, "", info.Engine())
	assert.Equal(t, xr.CurrentAPIVersion, info.APIVersion)
}

func TestNewApplicationInfoEngineName(t *testing.T) {
	info, err := xr.NewApplicationInfo("test", 1, "koru", 3)
	require.NoError(t, err)

	assert.Equal(t, "test", info.Name())
	assert.Equal(t, "koru", info.Engine())
	assert.Equal(t, uint32(3), info.EngineVersion)
}

func TestNewApplicationInfoNameBounds(t *testing.T) {
	longest := strings.Repeat("a", xr.MaxApplicationNameSize-1)
	info, err := xr.NewApplicationInfo(longest, 1, "", 0)
	require.NoError(t, err)
	assert.Equal(t, longest, info.Name())
	assert.Equal(t, byte(0), info.ApplicationName[xr.MaxApplicationNameSize-1])

	for _, size := range []int{xr.MaxApplicationNameSize, xr.MaxApplicationNameSize + 1, 4096} {
		_, err := xr.NewApplicationInfo(strings.Repeat("a", size), 1, "", 0)
		assert.Equal(t, xr.ErrApplicationNameTooLong, err, "size %d", size)
	}

	_, err = xr.NewApplicationInfo("", 1, "", 0)
	assert.Equal(t, xr.ErrApplicationNameEmpty, err)

	_, err = xr.NewApplicationInfo("test", 1, strings.Repeat("e", xr.MaxEngineNameSize), 0)
	assert.Equal(t, xr.ErrEngineNameTooLong, err)
}

func TestParseExtensionList(t *testing.T) {
	assert.Equal(t,
		[]string{"VK_KHR_swapchain", "VK_KHR_surface"},
		xr.ParseExtensionList("VK_KHR_swapchain VK_KHR_surface"))

	assert.Equal(t,
		[]string{"A", "B", "C"},
		xr.ParseExtensionList("  A\tB\n\nC "))

	assert.Empty(t, xr.ParseExtensionList(""))
	assert.Empty(t, xr.ParseExtensionList("   "))
}
