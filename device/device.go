// Package device describes the graphics backend an XR session renders through.
// Native handles are carried as opaque integers; only backend implementations
// turn them back into API objects.
package device

import "fmt"

// Opaque graphics API handles.
type (
	Instance       uintptr
	PhysicalDevice uintptr
	Device         uintptr
	Queue          uintptr
)

// Null handles
const (
	NullInstance       Instance       = 0
	NullPhysicalDevice PhysicalDevice = 0
	NullDevice         Device         = 0
	NullQueue          Queue          = 0
)

func (h Instance) String() string       { return fmt.Sprintf("Instance(%#x)", uintptr(h)) }
func (h PhysicalDevice) String() string { return fmt.Sprintf("PhysicalDevice(%#x)", uintptr(h)) }
func (h Device) String() string         { return fmt.Sprintf("Device(%#x)", uintptr(h)) }
func (h Queue) String() string          { return fmt.Sprintf("Queue(%#x)", uintptr(h)) }

// PhysicalDeviceInfo describes available physical properties of a rendering device
type PhysicalDeviceInfo struct {
	ID            int
	VendorID      int
	DriverVersion int
	APIVersion    uint32
	Name          string
	Invalid       bool
	Extensions    []string
	Memory        uint64
}

// ApplicationInfo describes the application to the graphics API.
type ApplicationInfo struct {
	Name          string
	Version       uint32
	EngineName    string
	EngineVersion uint32
	APIVersion    uint32
}

// InstanceConfiguration is used to create a graphics API instance
type InstanceConfiguration struct {
	Application ApplicationInfo
	Extensions  []string
	Layers      []string
}

// DeviceConfiguration is used to create a logical device with a single
// queue family.
type DeviceConfiguration struct {
	QueueFamilyIndex uint32
	QueuePriorities  []float32
	Extensions       []string
}

// Backend describes a graphics API capable of backing an XR session.
type Backend interface {
	// InstanceExtensions returns the instance extensions the API offers.
	InstanceExtensions() ([]string, error)

	// CreateInstance creates an API instance with the given extensions.
	CreateInstance(cfg InstanceConfiguration) (Instance, error)

	// PhysicalDevices lists the physical devices visible to the instance.
	PhysicalDevices(instance Instance) ([]PhysicalDevice, error)

	// PhysicalDeviceInfo returns properties of a physical device.
	PhysicalDeviceInfo(pd PhysicalDevice) (PhysicalDeviceInfo, error)

	// QueueFamilies lists queue families of a physical device in API order.
	QueueFamilies(pd PhysicalDevice) ([]QueueFamily, error)

	// CreateDevice creates a logical device and returns its first queue
	// from the configured family.
	CreateDevice(pd PhysicalDevice, cfg DeviceConfiguration) (Device, Queue, error)
}

// MakeAPIVersion packs a graphics API version the way Vulkan does.
func MakeAPIVersion(major, minor, patch uint32) uint32 {
	return major<<22 | minor<<12 | patch
}

// APIVersionMajor extracts the major number of a packed API version.
func APIVersionMajor(v uint32) uint32 { return v >> 22 }

// APIVersionMinor extracts the minor number of a packed API version.
func APIVersionMinor(v uint32) uint32 { return (v >> 12) & 0x3ff }

// APIVersionPatch extracts the patch number of a packed API version.
func APIVersionPatch(v uint32) uint32 { return v & 0xfff }

// APIVersionString formats a packed API version as major.minor.patch.
func APIVersionString(v uint32) string {
	return fmt.Sprintf("%d.%d.%d", APIVersionMajor(v), APIVersionMinor(v), APIVersionPatch(v))
}
