// Package xrtest provides an in-memory runtime for exercising code that
// drives an xr.Library without a native loader.
package xrtest

import (
	"sync"

	"github.com/devblok/koruxr/device"
	"github.com/devblok/koruxr/xr"
	"github.com/pkg/errors"
)

// ErrNoSymbol is returned for symbols the runtime does not export.
var ErrNoSymbol = errors.New("undefined symbol")

var exported = []string{
	xr.CmdGetInstanceProcAddr,
	xr.CmdCreateInstance,
	xr.CmdEnumerateInstanceExtensionProperties,
	xr.CmdEnumerateAPILayerProperties,
}

var resolvable = []string{
	xr.CmdInitializeLoader,
	xr.CmdGetSystem,
	xr.CmdGetVulkanGraphicsRequirements,
	xr.CmdGetVulkanGraphicsDevice,
	xr.CmdGetVulkanInstanceExtensions,
	xr.CmdGetVulkanDeviceExtensions,
	xr.CmdCreateSession,
}

// Runtime is a scriptable fake runtime. Set the exported fields before
// use; the recorded fields are filled as commands are called.
type Runtime struct {
	Extensions         []string
	APILayers          []string
	SystemID           xr.SystemID
	Requirements       xr.GraphicsRequirementsVulkan
	VulkanInstanceExts string
	VulkanDeviceExts   string
	PhysicalDevice     device.PhysicalDevice

	// Fail makes the named command return the given result.
	Fail map[string]xr.Result
	// Missing removes commands from the symbol table and from
	// xrGetInstanceProcAddr.
	Missing map[string]bool

	mu sync.Mutex

	// Calls lists every command invocation in order, symbol lookups excluded.
	Calls []string
	// Symbols lists symbol table lookups in order.
	Symbols []string
	// EnumerateCapacities records the capacity of every extension
	// enumeration call.
	EnumerateCapacities []uint32
	// ExtensionQueryCapacities records the capacity of every Vulkan
	// extension string query.
	ExtensionQueryCapacities []uint32

	LoaderInitInfo     *xr.LoaderInitInfoAndroid
	InstanceCreateInfo *xr.InstanceCreateInfo
	SystemGetInfo      *xr.SystemGetInfo
	GraphicsInstance   device.Instance
	SessionCreateInfo  *xr.SessionCreateInfo

	instance xr.Instance
	session  xr.Session
}

var _ xr.Library = (*Runtime)(nil)

// New returns a runtime that behaves like a working Android runtime.
func New() *Runtime {
	return &Runtime{
		Extensions: []string{
			xr.KHRVulkanEnableExtensionName,
			xr.KHRAndroidCreateInstanceExtensionName,
			xr.KHRLoaderInitExtensionName,
			xr.KHRLoaderInitAndroidExtensionName,
		},
		SystemID: 0x51,
		Requirements: xr.GraphicsRequirementsVulkan{
			MinAPIVersionSupported: xr.MakeVersion(1, 0, 0),
			MaxAPIVersionSupported: xr.MakeVersion(1, 1, 0),
		},
		VulkanInstanceExts: "VK_KHR_external_memory_capabilities VK_KHR_get_physical_device_properties2",
		VulkanDeviceExts:   "VK_KHR_external_memory VK_KHR_external_memory_fd",
		PhysicalDevice:     0xd0d0,
	}
}

// Called reports whether the named command was invoked.
func (r *Runtime) Called(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.Calls {
		if c == name {
			return true
		}
	}
	return false
}

func (r *Runtime) call(name string) xr.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, name)
	if res, ok := r.Fail[name]; ok {
		return res
	}
	return xr.Success
}

func (r *Runtime) address(name string) xr.ProcAddr {
	for i, n := range exported {
		if n == name {
			return xr.ProcAddr(0x1000 + i)
		}
	}
	for i, n := range resolvable {
		if n == name {
			return xr.ProcAddr(0x2000 + i)
		}
	}
	return 0
}

// Symbol implements xr.Library
func (r *Runtime) Symbol(name string) (xr.ProcAddr, error) {
	r.mu.Lock()
	r.Symbols = append(r.Symbols, name)
	r.mu.Unlock()

	for _, n := range exported {
		if n == name && !r.Missing[name] {
			return r.address(name), nil
		}
	}
	return 0, errors.Wrap(ErrNoSymbol, name)
}

// Bind implements xr.Library
func (r *Runtime) Bind(name string, addr xr.ProcAddr) (interface{}, error) {
	if addr == 0 || addr != r.address(name) {
		return nil, errors.Errorf("%s: bad address %#x", name, uintptr(addr))
	}
	switch name {
	case xr.CmdGetInstanceProcAddr:
		return xr.PfnGetInstanceProcAddr(r.getInstanceProcAddr), nil
	case xr.CmdCreateInstance:
		return xr.PfnCreateInstance(r.createInstance), nil
	case xr.CmdEnumerateInstanceExtensionProperties:
		return xr.PfnEnumerateInstanceExtensionProperties(r.enumerateExtensions), nil
	case xr.CmdEnumerateAPILayerProperties:
		return xr.PfnEnumerateAPILayerProperties(r.enumerateAPILayers), nil
	case xr.CmdInitializeLoader:
		return xr.PfnInitializeLoader(r.initializeLoader), nil
	case xr.CmdGetSystem:
		return xr.PfnGetSystem(r.getSystem), nil
	case xr.CmdGetVulkanGraphicsRequirements:
		return xr.PfnGetVulkanGraphicsRequirements(r.getGraphicsRequirements), nil
	case xr.CmdGetVulkanGraphicsDevice:
		return xr.PfnGetVulkanGraphicsDevice(r.getGraphicsDevice), nil
	case xr.CmdGetVulkanInstanceExtensions:
		return xr.PfnGetVulkanExtensions(func(instance xr.Instance, system xr.SystemID, capacity uint32, buffer []byte) (uint32, xr.Result) {
			return r.extensionString(name, r.VulkanInstanceExts, instance, system, capacity, buffer)
		}), nil
	case xr.CmdGetVulkanDeviceExtensions:
		return xr.PfnGetVulkanExtensions(func(instance xr.Instance, system xr.SystemID, capacity uint32, buffer []byte) (uint32, xr.Result) {
			return r.extensionString(name, r.VulkanDeviceExts, instance, system, capacity, buffer)
		}), nil
	case xr.CmdCreateSession:
		return xr.PfnCreateSession(r.createSession), nil
	}
	return nil, errors.Errorf("%s: no binding", name)
}

func (r *Runtime) getInstanceProcAddr(instance xr.Instance, name string) (xr.ProcAddr, xr.Result) {
	if res := r.call(xr.CmdGetInstanceProcAddr); res != xr.Success {
		return 0, res
	}
	if r.Missing[name] {
		return 0, xr.ErrorFunctionUnsupported
	}
	if name != xr.CmdInitializeLoader && instance == xr.NullInstance {
		for _, n := range exported {
			if n == name {
				return r.address(name), xr.Success
			}
		}
		return 0, xr.ErrorHandleInvalid
	}
	if instance != xr.NullInstance && instance != r.instance {
		return 0, xr.ErrorHandleInvalid
	}
	if addr := r.address(name); addr != 0 {
		return addr, xr.Success
	}
	return 0, xr.ErrorFunctionUnsupported
}

func (r *Runtime) initializeLoader(info *xr.LoaderInitInfoAndroid) xr.Result {
	r.LoaderInitInfo = info
	return r.call(xr.CmdInitializeLoader)
}

func (r *Runtime) enumerateExtensions(layerName string, capacity uint32, properties []xr.ExtensionProperties) (uint32, xr.Result) {
	r.mu.Lock()
	r.EnumerateCapacities = append(r.EnumerateCapacities, capacity)
	r.mu.Unlock()
	if res := r.call(xr.CmdEnumerateInstanceExtensionProperties); res != xr.Success {
		return 0, res
	}
	count := uint32(len(r.Extensions))
	if capacity == 0 {
		return count, xr.Success
	}
	if capacity < count || len(properties) < int(count) {
		return count, xr.ErrorSizeInsufficient
	}
	for i, name := range r.Extensions {
		properties[i] = xr.ExtensionProperties{ExtensionVersion: 1}
		copy(properties[i].ExtensionName[:xr.MaxExtensionNameSize-1], name)
	}
	return count, xr.Success
}

func (r *Runtime) enumerateAPILayers(capacity uint32, properties []xr.APILayerProperties) (uint32, xr.Result) {
	if res := r.call(xr.CmdEnumerateAPILayerProperties); res != xr.Success {
		return 0, res
	}
	count := uint32(len(r.APILayers))
	if capacity == 0 {
		return count, xr.Success
	}
	if capacity < count || len(properties) < int(count) {
		return count, xr.ErrorSizeInsufficient
	}
	for i, name := range r.APILayers {
		properties[i] = xr.APILayerProperties{SpecVersion: xr.CurrentAPIVersion, LayerVersion: 1}
		copy(properties[i].LayerName[:xr.MaxAPILayerNameSize-1], name)
	}
	return count, xr.Success
}

func (r *Runtime) createInstance(info *xr.InstanceCreateInfo) (xr.Instance, xr.Result) {
	r.InstanceCreateInfo = info
	if res := r.call(xr.CmdCreateInstance); res != xr.Success {
		return xr.NullInstance, res
	}
	for _, ext := range info.Extensions {
		supported := false
		for _, have := range r.Extensions {
			supported = supported || have == ext
		}
		if !supported {
			return xr.NullInstance, xr.ErrorExtensionNotPresent
		}
	}
	r.instance = 0x1a
	return r.instance, xr.Success
}

func (r *Runtime) getSystem(instance xr.Instance, info *xr.SystemGetInfo) (xr.SystemID, xr.Result) {
	r.SystemGetInfo = info
	if res := r.call(xr.CmdGetSystem); res != xr.Success {
		return xr.NullSystemID, res
	}
	if instance != r.instance {
		return xr.NullSystemID, xr.ErrorHandleInvalid
	}
	if info.FormFactor != xr.FormFactorHeadMountedDisplay {
		return xr.NullSystemID, xr.ErrorFormFactorUnsupported
	}
	return r.SystemID, xr.Success
}

func (r *Runtime) getGraphicsRequirements(instance xr.Instance, system xr.SystemID, requirements *xr.GraphicsRequirementsVulkan) xr.Result {
	if res := r.call(xr.CmdGetVulkanGraphicsRequirements); res != xr.Success {
		return res
	}
	if instance != r.instance || system != r.SystemID {
		return xr.ErrorHandleInvalid
	}
	*requirements = r.Requirements
	return xr.Success
}

func (r *Runtime) getGraphicsDevice(instance xr.Instance, system xr.SystemID, vkInstance device.Instance) (device.PhysicalDevice, xr.Result) {
	r.GraphicsInstance = vkInstance
	if res := r.call(xr.CmdGetVulkanGraphicsDevice); res != xr.Success {
		return device.NullPhysicalDevice, res
	}
	if instance != r.instance || system != r.SystemID {
		return device.NullPhysicalDevice, xr.ErrorHandleInvalid
	}
	if vkInstance == device.NullInstance {
		return device.NullPhysicalDevice, xr.ErrorGraphicsDeviceInvalid
	}
	return r.PhysicalDevice, xr.Success
}

// extensionString follows the runtime buffer protocol: the count includes
// the terminator and a zero capacity asks for the size only.
func (r *Runtime) extensionString(name, list string, instance xr.Instance, system xr.SystemID, capacity uint32, buffer []byte) (uint32, xr.Result) {
	r.mu.Lock()
	r.ExtensionQueryCapacities = append(r.ExtensionQueryCapacities, capacity)
	r.mu.Unlock()
	if res := r.call(name); res != xr.Success {
		return 0, res
	}
	if instance != r.instance || system != r.SystemID {
		return 0, xr.ErrorHandleInvalid
	}
	count := uint32(len(list) + 1)
	if capacity == 0 {
		return count, xr.Success
	}
	if capacity < count || len(buffer) < int(count) {
		return count, xr.ErrorSizeInsufficient
	}
	copy(buffer, list)
	buffer[len(list)] = 0
	return count, xr.Success
}

func (r *Runtime) createSession(instance xr.Instance, info *xr.SessionCreateInfo) (xr.Session, xr.Result) {
	r.SessionCreateInfo = info
	if res := r.call(xr.CmdCreateSession); res != xr.Success {
		return xr.NullSession, res
	}
	if instance != r.instance || info.SystemID != r.SystemID {
		return xr.NullSession, xr.ErrorHandleInvalid
	}
	binding, ok := info.Next.(*xr.GraphicsBindingVulkan)
	if !ok || binding.Device == device.NullDevice || binding.Instance != r.GraphicsInstance {
		return xr.NullSession, xr.ErrorGraphicsDeviceInvalid
	}
	r.session = 0x5e55
	return r.session, xr.Success
}
