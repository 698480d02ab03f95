package main

import (
	"github.com/devblok/koruxr/core"
	"github.com/devblok/koruxr/device"
	"github.com/devblok/koruxr/xr"
	log "github.com/sirupsen/logrus"
)

// Report is printed as JSON
type Report struct {
	Loader     string        `json:"loader"`
	Extensions []Extension   `json:"extensions"`
	APILayers  []APILayer    `json:"apiLayers"`
	Vulkan     *VulkanReport `json:"vulkan,omitempty"`
}

// Extension is a runtime instance extension
type Extension struct {
	Name    string `json:"name"`
	Version uint32 `json:"version"`
}

// APILayer is an available API layer
type APILayer struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	SpecVersion  string `json:"specVersion"`
	LayerVersion uint32 `json:"layerVersion"`
}

// VulkanReport describes the Vulkan driver
type VulkanReport struct {
	InstanceExtensions []string                    `json:"instanceExtensions"`
	PhysicalDevices    []device.PhysicalDeviceInfo `json:"physicalDevices"`
}

func runtimeReport(lib xr.Library, name string) (*Report, error) {
	entry, err := xr.LoadEntry(lib)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Loader:     name,
		Extensions: []Extension{},
		APILayers:  []APILayer{},
	}

	extensions, err := entry.Extensions("")
	if err != nil {
		return nil, err
	}
	for i := range extensions {
		report.Extensions = append(report.Extensions, Extension{
			Name:    extensions[i].Name(),
			Version: extensions[i].ExtensionVersion,
		})
	}

	layers, err := entry.APILayers()
	if err != nil {
		return nil, err
	}
	for i := range layers {
		report.APILayers = append(report.APILayers, APILayer{
			Name:         layers[i].Name(),
			Description:  layers[i].DescriptionText(),
			SpecVersion:  layers[i].SpecVersion.String(),
			LayerVersion: layers[i].LayerVersion,
		})
	}

	log.WithFields(log.Fields{
		"extensions": len(report.Extensions),
		"layers":     len(report.APILayers),
	}).Debug("Runtime enumerated")
	return report, nil
}

// vulkanReport creates an instance to enumerate physical devices. Devices
// whose properties cannot be read are reported with Invalid set.
func vulkanReport(backend device.Backend, g core.GraphicsConfiguration) (*VulkanReport, error) {
	extensions, err := backend.InstanceExtensions()
	if err != nil {
		return nil, err
	}

	instance, err := backend.CreateInstance(device.InstanceConfiguration{
		Application: device.ApplicationInfo{
			Name:          g.ApplicationName,
			Version:       1,
			EngineName:    g.EngineName,
			EngineVersion: 1,
			APIVersion:    g.APIVersion,
		},
	})
	if err != nil {
		return nil, err
	}

	physicalDevices, err := backend.PhysicalDevices(instance)
	if err != nil {
		return nil, err
	}

	report := &VulkanReport{
		InstanceExtensions: extensions,
		PhysicalDevices:    make([]device.PhysicalDeviceInfo, 0, len(physicalDevices)),
	}
	for _, pd := range physicalDevices {
		info, err := backend.PhysicalDeviceInfo(pd)
		if err != nil {
			log.WithError(err).WithField("device", pd).Warn("Physical device properties incomplete")
			info.Invalid = true
		}
		report.PhysicalDevices = append(report.PhysicalDevices, info)
	}
	return report, nil
}
