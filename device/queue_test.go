package device_test

import (
	"testing"

	"github.com/devblok/koruxr/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectGraphicsQueueFamilyFirstMatch(t *testing.T) {
	families := []device.QueueFamily{
		{Flags: device.QueueTransferBit, Count: 2},
		{Flags: device.QueueComputeBit, Count: 4},
		{Flags: device.QueueGraphicsBit | device.QueueComputeBit, Count: 1},
		{Flags: device.QueueGraphicsBit, Count: 16},
	}

	index, err := device.SelectGraphicsQueueFamily(families)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), index)
}

func TestSelectGraphicsQueueFamilySkipsEmptyFamilies(t *testing.T) {
	families := []device.QueueFamily{
		{Flags: device.QueueGraphicsBit, Count: 0},
		{Flags: device.QueueGraphicsBit, Count: 1},
	}

	index, err := device.SelectGraphicsQueueFamily(families)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), index)
}

func TestSelectGraphicsQueueFamilyNone(t *testing.T) {
	_, err := device.SelectGraphicsQueueFamily([]device.QueueFamily{
		{Flags: device.QueueComputeBit, Count: 1},
	})
	assert.Equal(t, device.ErrNoGraphicsQueue, err)

	_, err = device.SelectGraphicsQueueFamily(nil)
	assert.Equal(t, device.ErrNoGraphicsQueue, err)
}

func TestAPIVersion(t *testing.T) {
	v := device.MakeAPIVersion(1, 2, 131)
	assert.Equal(t, uint32(1), device.APIVersionMajor(v))
	assert.Equal(t, uint32(2), device.APIVersionMinor(v))
	assert.Equal(t, uint32(131), device.APIVersionPatch(v))
	assert.Equal(t, "1.2.131", device.APIVersionString(v))
	assert.Equal(t, uint32(0x400000), device.MakeAPIVersion(1, 0, 0))
}
