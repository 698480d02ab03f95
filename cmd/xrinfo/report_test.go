package main

import (
	"encoding/json"
	"testing"

	"github.com/devblok/koruxr/core"
	"github.com/devblok/koruxr/device"
	"github.com/devblok/koruxr/xr"
	"github.com/devblok/koruxr/xr/xrtest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntimeReport(t *testing.T) {
	rt := xrtest.New()
	rt.APILayers = []string{"XR_APILAYER_LUNARG_core_validation"}

	report, err := runtimeReport(rt, "libopenxr_loader.so")
	require.NoError(t, err)

	assert.Equal(t, "libopenxr_loader.so", report.Loader)
	require.Len(t, report.Extensions, len(rt.Extensions))
	for i, name := range rt.Extensions {
		assert.Equal(t, Extension{Name: name, Version: 1}, report.Extensions[i])
	}
	require.Len(t, report.APILayers, 1)
	assert.Equal(t, "XR_APILAYER_LUNARG_core_validation", report.APILayers[0].Name)
	assert.Equal(t, xr.CurrentAPIVersion.String(), report.APILayers[0].SpecVersion)
	assert.Nil(t, report.Vulkan)
	assert.False(t, rt.Called(xr.CmdCreateInstance))
}

func TestRuntimeReportJSON(t *testing.T) {
	rt := xrtest.New()
	rt.Extensions = nil

	report, err := runtimeReport(rt, "openxr_loader.dll")
	require.NoError(t, err)

	out, err := json.Marshal(report)
	require.NoError(t, err)
	assert.JSONEq(t, `{"loader":"openxr_loader.dll","extensions":[],"apiLayers":[]}`, string(out))
}

func TestRuntimeReportFailure(t *testing.T) {
	rt := xrtest.New()
	rt.Fail = map[string]xr.Result{xr.CmdEnumerateAPILayerProperties: xr.ErrorRuntimeFailure}

	_, err := runtimeReport(rt, "libopenxr_loader.so")
	require.Error(t, err)
	assert.Equal(t, xr.ErrorRuntimeFailure, errors.Cause(err))
}

type reportBackend struct {
	device.Backend

	instanceCfg device.InstanceConfiguration
}

func (b *reportBackend) InstanceExtensions() ([]string, error) {
	return []string{"VK_KHR_surface"}, nil
}

func (b *reportBackend) CreateInstance(cfg device.InstanceConfiguration) (device.Instance, error) {
	b.instanceCfg = cfg
	return 0x10, nil
}

func (b *reportBackend) PhysicalDevices(instance device.Instance) ([]device.PhysicalDevice, error) {
	return []device.PhysicalDevice{0x20, 0x21}, nil
}

func (b *reportBackend) PhysicalDeviceInfo(pd device.PhysicalDevice) (device.PhysicalDeviceInfo, error) {
	if pd == 0x21 {
		return device.PhysicalDeviceInfo{Name: "broken"}, errors.New("no extensions")
	}
	return device.PhysicalDeviceInfo{Name: "Adreno (TM) 650", VendorID: 0x5143}, nil
}

func TestVulkanReport(t *testing.T) {
	backend := &reportBackend{}

	report, err := vulkanReport(backend, core.DefaultConfiguration.Graphics)
	require.NoError(t, err)

	assert.Equal(t, []string{"VK_KHR_surface"}, report.InstanceExtensions)
	require.Len(t, report.PhysicalDevices, 2)
	assert.Equal(t, "Adreno (TM) 650", report.PhysicalDevices[0].Name)
	assert.False(t, report.PhysicalDevices[0].Invalid)
	assert.Equal(t, "broken", report.PhysicalDevices[1].Name)
	assert.True(t, report.PhysicalDevices[1].Invalid)

	assert.Equal(t, "koruxr", backend.instanceCfg.Application.Name)
	assert.Empty(t, backend.instanceCfg.Extensions)
}
