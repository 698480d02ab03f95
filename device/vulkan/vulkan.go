// Package vulkan implements device.Backend on top of the Vulkan API.
package vulkan

import (
	"unsafe"

	"github.com/devblok/koruxr/device"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// New loads the Vulkan entry points through the default loader.
func New() (*Backend, error) {
	if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return nil, errors.Wrap(err, "vk.SetDefaultGetInstanceProcAddr()")
	}
	if err := vk.Init(); err != nil {
		return nil, errors.Wrap(err, "vk.Init()")
	}
	return &Backend{}, nil
}

// Backend is a Vulkan graphics backend.
type Backend struct{}

var _ device.Backend = (*Backend)(nil)

func fromInstance(h device.Instance) vk.Instance {
	return vk.Instance(unsafe.Pointer(uintptr(h)))
}

func fromPhysicalDevice(h device.PhysicalDevice) vk.PhysicalDevice {
	return vk.PhysicalDevice(unsafe.Pointer(uintptr(h)))
}

func toInstance(i vk.Instance) device.Instance {
	return device.Instance(uintptr(unsafe.Pointer(i)))
}

func toPhysicalDevice(pd vk.PhysicalDevice) device.PhysicalDevice {
	return device.PhysicalDevice(uintptr(unsafe.Pointer(pd)))
}

func toDevice(d vk.Device) device.Device {
	return device.Device(uintptr(unsafe.Pointer(d)))
}

func toQueue(q vk.Queue) device.Queue {
	return device.Queue(uintptr(unsafe.Pointer(q)))
}

// InstanceExtensions implements interface
func (b *Backend) InstanceExtensions() ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateInstanceExtensionProperties()")
	}
	properties := make([]vk.ExtensionProperties, count)
	if err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, properties)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateInstanceExtensionProperties()")
	}

	extensions := make([]string, 0, count)
	for _, ext := range properties[:count] {
		ext.Deref()
		extensions = append(extensions, vk.ToString(ext.ExtensionName[:]))
	}
	return extensions, nil
}

// CreateInstance implements interface
func (b *Backend) CreateInstance(cfg device.InstanceConfiguration) (device.Instance, error) {
	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   safeString(cfg.Application.Name),
		ApplicationVersion: cfg.Application.Version,
		PEngineName:        safeString(cfg.Application.EngineName),
		EngineVersion:      cfg.Application.EngineVersion,
		ApiVersion:         cfg.Application.APIVersion,
	}

	instanceInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        appInfo,
		EnabledExtensionCount:   uint32(len(cfg.Extensions)),
		PpEnabledExtensionNames: safeStrings(cfg.Extensions),
		EnabledLayerCount:       uint32(len(cfg.Layers)),
		PpEnabledLayerNames:     safeStrings(cfg.Layers),
	}

	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(&instanceInfo, nil, &instance)); err != nil {
		return device.NullInstance, errors.Wrap(err, "vk.CreateInstance()")
	}
	if err := vk.InitInstance(instance); err != nil {
		return device.NullInstance, errors.Wrap(err, "vk.InitInstance()")
	}
	return toInstance(instance), nil
}

// PhysicalDevices implements interface
func (b *Backend) PhysicalDevices(instance device.Instance) ([]device.PhysicalDevice, error) {
	var deviceCount uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(fromInstance(instance), &deviceCount, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumeratePhysicalDevices()")
	}
	availableDevices := make([]vk.PhysicalDevice, deviceCount)
	if err := vk.Error(vk.EnumeratePhysicalDevices(fromInstance(instance), &deviceCount, availableDevices)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumeratePhysicalDevices()")
	}

	devices := make([]device.PhysicalDevice, 0, deviceCount)
	for _, pd := range availableDevices[:deviceCount] {
		devices = append(devices, toPhysicalDevice(pd))
	}
	return devices, nil
}

// PhysicalDeviceInfo implements interface
func (b *Backend) PhysicalDeviceInfo(pd device.PhysicalDevice) (device.PhysicalDeviceInfo, error) {
	var info device.PhysicalDeviceInfo
	physicalDevice := fromPhysicalDevice(pd)

	// Get extension info
	var numDeviceExtensions uint32
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(physicalDevice, "", &numDeviceExtensions, nil)); err != nil {
		info.Invalid = true
	}
	deviceExt := make([]vk.ExtensionProperties, numDeviceExtensions)
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(physicalDevice, "", &numDeviceExtensions, deviceExt)); err != nil {
		info.Invalid = true
	}
	for _, ext := range deviceExt[:numDeviceExtensions] {
		ext.Deref()
		info.Extensions = append(info.Extensions, vk.ToString(ext.ExtensionName[:]))
	}

	// Get memory info
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(physicalDevice, &memoryProperties)
	memoryProperties.Deref()
	for iMem := uint32(0); iMem < memoryProperties.MemoryHeapCount; iMem++ {
		memoryProperties.MemoryHeaps[iMem].Deref()
		info.Memory += uint64(memoryProperties.MemoryHeaps[iMem].Size)
	}

	// Get general device info
	var physicalDeviceProperties vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(physicalDevice, &physicalDeviceProperties)
	physicalDeviceProperties.Deref()
	info.ID = int(physicalDeviceProperties.DeviceID)
	info.VendorID = int(physicalDeviceProperties.VendorID)
	info.Name = vk.ToString(physicalDeviceProperties.DeviceName[:])
	info.DriverVersion = int(physicalDeviceProperties.DriverVersion)
	info.APIVersion = physicalDeviceProperties.ApiVersion

	if info.Invalid {
		return info, errors.New("vk.EnumerateDeviceExtensionProperties(): failed")
	}
	return info, nil
}

// QueueFamilies implements interface
func (b *Backend) QueueFamilies(pd device.PhysicalDevice) ([]device.QueueFamily, error) {
	var queueFamilyCount uint32
	physicalDevice := fromPhysicalDevice(pd)
	vk.GetPhysicalDeviceQueueFamilyProperties(physicalDevice, &queueFamilyCount, nil)
	queueFamilies := make([]vk.QueueFamilyProperties, queueFamilyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(physicalDevice, &queueFamilyCount, queueFamilies)

	if queueFamilyCount == 0 {
		return nil, errors.New("vk.GetPhysicalDeviceQueueFamilyProperties(): no queuefamilies on GPU")
	}

	families := make([]device.QueueFamily, 0, queueFamilyCount)
	for _, family := range queueFamilies[:queueFamilyCount] {
		family.Deref()
		families = append(families, device.QueueFamily{
			Flags: device.QueueFlags(family.QueueFlags),
			Count: family.QueueCount,
		})
	}
	return families, nil
}

// CreateDevice implements interface
func (b *Backend) CreateDevice(pd device.PhysicalDevice, cfg device.DeviceConfiguration) (device.Device, device.Queue, error) {
	queueInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: cfg.QueueFamilyIndex,
		QueueCount:       uint32(len(cfg.QueuePriorities)),
		PQueuePriorities: cfg.QueuePriorities,
	}}

	dci := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(cfg.Extensions)),
		PpEnabledExtensionNames: safeStrings(cfg.Extensions),
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{{}},
	}

	var vkDevice vk.Device
	if err := vk.Error(vk.CreateDevice(fromPhysicalDevice(pd), &dci, nil, &vkDevice)); err != nil {
		return device.NullDevice, device.NullQueue, errors.Wrap(err, "vk.CreateDevice()")
	}

	var deviceQueue vk.Queue
	vk.GetDeviceQueue(vkDevice, cfg.QueueFamilyIndex, 0, &deviceQueue)

	return toDevice(vkDevice), toQueue(deviceQueue), nil
}
