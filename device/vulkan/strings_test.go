package vulkan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeStrings(t *testing.T) {
	assert.Equal(t, "VK_KHR_swapchain\x00", safeString("VK_KHR_swapchain"))
	assert.Equal(t, "VK_KHR_swapchain\x00", safeString("VK_KHR_swapchain\x00"))
	assert.Equal(t,
		[]string{"VK_EXT_debug_report\x00", "VK_KHR_surface\x00"},
		safeStrings([]string{"VK_EXT_debug_report", "VK_KHR_surface\x00"}))
	assert.Empty(t, safeStrings(nil))
}
