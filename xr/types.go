package xr

import (
	"fmt"

	"github.com/devblok/koruxr/device"
)

// Opaque runtime handles.
type (
	Instance uint64
	Session  uint64
	SystemID uint64
)

// Null handles
const (
	NullInstance Instance = 0
	NullSession  Session  = 0
	NullSystemID SystemID = 0
)

// ProcAddr is the address of a native entry point.
type ProcAddr uintptr

// Fixed buffer sizes of the runtime structures, terminator included.
const (
	MaxApplicationNameSize     = 128
	MaxEngineNameSize          = 128
	MaxExtensionNameSize       = 128
	MaxAPILayerNameSize        = 256
	MaxAPILayerDescriptionSize = 256
)

// Well known extension names
const (
	KHRVulkanEnableExtensionName          = "XR_KHR_vulkan_enable"
	KHRAndroidCreateInstanceExtensionName = "XR_KHR_android_create_instance"
	KHRLoaderInitExtensionName            = "XR_KHR_loader_init"
	KHRLoaderInitAndroidExtensionName     = "XR_KHR_loader_init_android"
)

// StructureType identifies a runtime structure in a next chain.
type StructureType int32

// Structure types used during bring-up
const (
	TypeAPILayerProperties         StructureType = 1
	TypeExtensionProperties        StructureType = 2
	TypeInstanceCreateInfo         StructureType = 3
	TypeSystemGetInfo              StructureType = 4
	TypeSessionCreateInfo          StructureType = 8
	TypeInstanceCreateInfoAndroid  StructureType = 1000008000
	TypeGraphicsBindingVulkan      StructureType = 1000025000
	TypeGraphicsRequirementsVulkan StructureType = 1000025002
	TypeLoaderInitInfoAndroid      StructureType = 1000089000
)

// FormFactor selects the kind of system to look for.
type FormFactor int32

// Form factors
const (
	FormFactorHeadMountedDisplay FormFactor = 1
	FormFactorHandheldDisplay    FormFactor = 2
)

// Version is a packed runtime API version.
type Version uint64

// CurrentAPIVersion is the API version requested at instance creation.
var CurrentAPIVersion = MakeVersion(1, 0, 0)

// MakeVersion packs a version the way XR_MAKE_VERSION does.
func MakeVersion(major, minor uint16, patch uint32) Version {
	return Version(uint64(major)<<48 | uint64(minor)<<32 | uint64(patch))
}

// Major version number
func (v Version) Major() uint16 { return uint16(v >> 48) }

// Minor version number
func (v Version) Minor() uint16 { return uint16(v >> 32) }

// Patch version number
func (v Version) Patch() uint32 { return uint32(v) }

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}

// Chained is implemented by structures that can be linked through a next pointer.
type Chained interface {
	StructureType() StructureType
}

// AndroidPlatform carries the host handles the Android loader and runtime need.
// Both values are passed to the runtime untouched.
type AndroidPlatform struct {
	// VM is the JavaVM pointer of the process.
	VM uintptr
	// Activity is the jobject of the current activity (or application context).
	Activity uintptr
}

// ApplicationInfo is XrApplicationInfo with its fixed size name buffers.
type ApplicationInfo struct {
	ApplicationName    [MaxApplicationNameSize]byte
	ApplicationVersion uint32
	EngineName         [MaxEngineNameSize]byte
	EngineVersion      uint32
	APIVersion         Version
}

// Name returns the application name without terminator.
func (a *ApplicationInfo) Name() string { return cString(a.ApplicationName[:]) }

// Engine returns the engine name without terminator.
func (a *ApplicationInfo) Engine() string { return cString(a.EngineName[:]) }

// LoaderInitInfoAndroid is XrLoaderInitInfoAndroidKHR.
type LoaderInitInfoAndroid struct {
	Next               Chained
	ApplicationVM      uintptr
	ApplicationContext uintptr
}

// StructureType implements Chained
func (*LoaderInitInfoAndroid) StructureType() StructureType { return TypeLoaderInitInfoAndroid }

// NewLoaderInitInfoAndroid fills the loader init block from the platform handles.
func NewLoaderInitInfoAndroid(platform AndroidPlatform) *LoaderInitInfoAndroid {
	return &LoaderInitInfoAndroid{
		ApplicationVM:      platform.VM,
		ApplicationContext: platform.Activity,
	}
}

// InstanceCreateInfoAndroid is XrInstanceCreateInfoAndroidKHR.
type InstanceCreateInfoAndroid struct {
	Next                Chained
	ApplicationVM       uintptr
	ApplicationActivity uintptr
}

// StructureType implements Chained
func (*InstanceCreateInfoAndroid) StructureType() StructureType {
	return TypeInstanceCreateInfoAndroid
}

// InstanceCreateInfo is XrInstanceCreateInfo. Names are plain Go strings,
// the binding terminates them.
type InstanceCreateInfo struct {
	Next            Chained
	CreateFlags     uint64
	ApplicationInfo ApplicationInfo
	APILayers       []string
	Extensions      []string
}

// StructureType implements Chained
func (*InstanceCreateInfo) StructureType() StructureType { return TypeInstanceCreateInfo }

// NewAndroidInstanceCreateInfo assembles instance creation for Android: the
// platform block is chained, and the two required extensions come before
// the requested ones. Duplicates are kept.
func NewAndroidInstanceCreateInfo(app ApplicationInfo, platform AndroidPlatform, layers, extensions []string) *InstanceCreateInfo {
	required := []string{
		KHRVulkanEnableExtensionName,
		KHRAndroidCreateInstanceExtensionName,
	}
	return &InstanceCreateInfo{
		Next: &InstanceCreateInfoAndroid{
			ApplicationVM:       platform.VM,
			ApplicationActivity: platform.Activity,
		},
		ApplicationInfo: app,
		APILayers:       append([]string{}, layers...),
		Extensions:      append(required, extensions...),
	}
}

// SystemGetInfo is XrSystemGetInfo.
type SystemGetInfo struct {
	Next       Chained
	FormFactor FormFactor
}

// StructureType implements Chained
func (*SystemGetInfo) StructureType() StructureType { return TypeSystemGetInfo }

// GraphicsRequirementsVulkan is XrGraphicsRequirementsVulkanKHR.
type GraphicsRequirementsVulkan struct {
	MinAPIVersionSupported Version
	MaxAPIVersionSupported Version
}

// StructureType implements Chained
func (*GraphicsRequirementsVulkan) StructureType() StructureType {
	return TypeGraphicsRequirementsVulkan
}

// GraphicsBindingVulkan is XrGraphicsBindingVulkanKHR.
type GraphicsBindingVulkan struct {
	Next             Chained
	Instance         device.Instance
	PhysicalDevice   device.PhysicalDevice
	Device           device.Device
	QueueFamilyIndex uint32
	QueueIndex       uint32
}

// StructureType implements Chained
func (*GraphicsBindingVulkan) StructureType() StructureType { return TypeGraphicsBindingVulkan }

// SessionCreateInfo is XrSessionCreateInfo.
type SessionCreateInfo struct {
	Next        Chained
	CreateFlags uint64
	SystemID    SystemID
}

// StructureType implements Chained
func (*SessionCreateInfo) StructureType() StructureType { return TypeSessionCreateInfo }

// ExtensionProperties is XrExtensionProperties.
type ExtensionProperties struct {
	ExtensionName    [MaxExtensionNameSize]byte
	ExtensionVersion uint32
}

// Name returns the extension name without terminator.
func (e *ExtensionProperties) Name() string { return cString(e.ExtensionName[:]) }

// APILayerProperties is XrApiLayerProperties.
type APILayerProperties struct {
	LayerName    [MaxAPILayerNameSize]byte
	SpecVersion  Version
	LayerVersion uint32
	Description  [MaxAPILayerDescriptionSize]byte
}

// Name returns the layer name without terminator.
func (l *APILayerProperties) Name() string { return cString(l.LayerName[:]) }

// DescriptionText returns the layer description without terminator.
func (l *APILayerProperties) DescriptionText() string { return cString(l.Description[:]) }
