package xr

import (
	"github.com/devblok/koruxr/device"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Names of the entry points used during bring-up
const (
	CmdGetInstanceProcAddr                  = "xrGetInstanceProcAddr"
	CmdCreateInstance                       = "xrCreateInstance"
	CmdEnumerateInstanceExtensionProperties = "xrEnumerateInstanceExtensionProperties"
	CmdEnumerateAPILayerProperties          = "xrEnumerateApiLayerProperties"
	CmdInitializeLoader                     = "xrInitializeLoaderKHR"
	CmdGetSystem                            = "xrGetSystem"
	CmdGetVulkanGraphicsRequirements        = "xrGetVulkanGraphicsRequirementsKHR"
	CmdGetVulkanGraphicsDevice              = "xrGetVulkanGraphicsDeviceKHR"
	CmdGetVulkanInstanceExtensions          = "xrGetVulkanInstanceExtensionsKHR"
	CmdGetVulkanDeviceExtensions            = "xrGetVulkanDeviceExtensionsKHR"
	CmdCreateSession                        = "xrCreateSession"
)

// Typed entry points. A Library binds native addresses to these.
type (
	PfnGetInstanceProcAddr                  func(instance Instance, name string) (ProcAddr, Result)
	PfnCreateInstance                       func(info *InstanceCreateInfo) (Instance, Result)
	PfnEnumerateInstanceExtensionProperties func(layerName string, capacity uint32, properties []ExtensionProperties) (uint32, Result)
	PfnEnumerateAPILayerProperties          func(capacity uint32, properties []APILayerProperties) (uint32, Result)
	PfnInitializeLoader                     func(info *LoaderInitInfoAndroid) Result
	PfnGetSystem                            func(instance Instance, info *SystemGetInfo) (SystemID, Result)
	PfnGetVulkanGraphicsRequirements        func(instance Instance, system SystemID, requirements *GraphicsRequirementsVulkan) Result
	PfnGetVulkanGraphicsDevice              func(instance Instance, system SystemID, vkInstance device.Instance) (device.PhysicalDevice, Result)
	PfnGetVulkanExtensions                  func(instance Instance, system SystemID, capacity uint32, buffer []byte) (uint32, Result)
	PfnCreateSession                        func(instance Instance, info *SessionCreateInfo) (Session, Result)
)

// Library is an opened runtime loader library.
type Library interface {
	// Symbol looks name up in the library's symbol table.
	Symbol(name string) (ProcAddr, error)

	// Bind wraps the native entry point at addr as the typed function
	// matching the command name.
	Bind(name string, addr ProcAddr) (interface{}, error)
}

// capability pairs a command name with the slot its typed function is stored in.
type capability struct {
	name   string
	assign func(fn interface{}) bool
}

func resolve(capabilities []capability, lookup func(name string) (interface{}, error)) error {
	for _, c := range capabilities {
		fn, err := lookup(c.name)
		if err != nil {
			return err
		}
		if !c.assign(fn) {
			return errors.Errorf("%s: bound to unexpected signature %T", c.name, fn)
		}
	}
	return nil
}

// Entry holds the core entry points exported by the loader library.
// It is immutable once loaded.
type Entry struct {
	GetInstanceProcAddr                  PfnGetInstanceProcAddr
	CreateInstance                       PfnCreateInstance
	EnumerateInstanceExtensionProperties PfnEnumerateInstanceExtensionProperties
	EnumerateAPILayerProperties          PfnEnumerateAPILayerProperties

	lib Library
}

// LoadEntry resolves the core entry points from the library symbol table.
// Any missing symbol fails the load.
func LoadEntry(lib Library) (*Entry, error) {
	e := &Entry{lib: lib}
	err := resolve([]capability{
		{CmdGetInstanceProcAddr, func(fn interface{}) (ok bool) { e.GetInstanceProcAddr, ok = fn.(PfnGetInstanceProcAddr); return }},
		{CmdCreateInstance, func(fn interface{}) (ok bool) { e.CreateInstance, ok = fn.(PfnCreateInstance); return }},
		{CmdEnumerateInstanceExtensionProperties, func(fn interface{}) (ok bool) {
			e.EnumerateInstanceExtensionProperties, ok = fn.(PfnEnumerateInstanceExtensionProperties)
			return
		}},
		{CmdEnumerateAPILayerProperties, func(fn interface{}) (ok bool) {
			e.EnumerateAPILayerProperties, ok = fn.(PfnEnumerateAPILayerProperties)
			return
		}},
	}, func(name string) (interface{}, error) {
		addr, err := lib.Symbol(name)
		if err != nil {
			return nil, errors.Wrapf(err, "symbol %s", name)
		}
		return lib.Bind(name, addr)
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ProcAddr resolves a command through xrGetInstanceProcAddr and binds it.
// Instance may be NullInstance for loader level commands.
func (e *Entry) ProcAddr(instance Instance, name string) (interface{}, error) {
	addr, res := e.GetInstanceProcAddr(instance, name)
	if res != Success || addr == 0 {
		log.WithField("function", name).Error("Could not load OpenXR function")
		if res == Success {
			res = ErrorFunctionUnsupported
		}
		return nil, errors.Wrapf(res, "%s(%s)", CmdGetInstanceProcAddr, name)
	}
	return e.lib.Bind(name, addr)
}

// InitializeLoader resolves xrInitializeLoaderKHR, which is only reachable
// through xrGetInstanceProcAddr with a null instance.
func (e *Entry) InitializeLoader() (PfnInitializeLoader, error) {
	var fn PfnInitializeLoader
	err := resolve([]capability{
		{CmdInitializeLoader, func(f interface{}) (ok bool) { fn, ok = f.(PfnInitializeLoader); return }},
	}, func(name string) (interface{}, error) {
		return e.ProcAddr(NullInstance, name)
	})
	return fn, err
}

// Extensions enumerates instance extensions with the probe then fill
// protocol. An empty layer name selects the runtime and implicit layers.
func (e *Entry) Extensions(layerName string) ([]ExtensionProperties, error) {
	count, res := e.EnumerateInstanceExtensionProperties(layerName, 0, nil)
	if res != Success {
		return nil, errors.Wrap(res, CmdEnumerateInstanceExtensionProperties)
	}
	properties := make([]ExtensionProperties, count)
	count, res = e.EnumerateInstanceExtensionProperties(layerName, uint32(len(properties)), properties)
	if res != Success {
		return nil, errors.Wrap(res, CmdEnumerateInstanceExtensionProperties)
	}
	if int(count) < len(properties) {
		properties = properties[:count]
	}
	return properties, nil
}

// ExtensionNames is Extensions reduced to the names.
func (e *Entry) ExtensionNames(layerName string) ([]string, error) {
	properties, err := e.Extensions(layerName)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(properties))
	for i := range properties {
		names = append(names, properties[i].Name())
	}
	return names, nil
}

// APILayers enumerates the API layers with the probe then fill protocol.
func (e *Entry) APILayers() ([]APILayerProperties, error) {
	count, res := e.EnumerateAPILayerProperties(0, nil)
	if res != Success {
		return nil, errors.Wrap(res, CmdEnumerateAPILayerProperties)
	}
	properties := make([]APILayerProperties, count)
	count, res = e.EnumerateAPILayerProperties(uint32(len(properties)), properties)
	if res != Success {
		return nil, errors.Wrap(res, CmdEnumerateAPILayerProperties)
	}
	if int(count) < len(properties) {
		properties = properties[:count]
	}
	return properties, nil
}

// InstanceCommands are the entry points scoped to a created instance.
type InstanceCommands struct {
	Instance Instance

	GetSystem                     PfnGetSystem
	GetVulkanGraphicsRequirements PfnGetVulkanGraphicsRequirements
	GetVulkanGraphicsDevice       PfnGetVulkanGraphicsDevice
	GetVulkanInstanceExtensions   PfnGetVulkanExtensions
	GetVulkanDeviceExtensions     PfnGetVulkanExtensions
	CreateSession                 PfnCreateSession
}

// LoadInstanceCommands resolves every instance level command bring-up
// needs, failing on the first one the runtime does not provide.
func LoadInstanceCommands(e *Entry, instance Instance) (*InstanceCommands, error) {
	c := &InstanceCommands{Instance: instance}
	err := resolve([]capability{
		{CmdGetSystem, func(fn interface{}) (ok bool) { c.GetSystem, ok = fn.(PfnGetSystem); return }},
		{CmdGetVulkanGraphicsRequirements, func(fn interface{}) (ok bool) {
			c.GetVulkanGraphicsRequirements, ok = fn.(PfnGetVulkanGraphicsRequirements)
			return
		}},
		{CmdGetVulkanGraphicsDevice, func(fn interface{}) (ok bool) {
			c.GetVulkanGraphicsDevice, ok = fn.(PfnGetVulkanGraphicsDevice)
			return
		}},
		{CmdGetVulkanInstanceExtensions, func(fn interface{}) (ok bool) {
			c.GetVulkanInstanceExtensions, ok = fn.(PfnGetVulkanExtensions)
			return
		}},
		{CmdGetVulkanDeviceExtensions, func(fn interface{}) (ok bool) {
			c.GetVulkanDeviceExtensions, ok = fn.(PfnGetVulkanExtensions)
			return
		}},
		{CmdCreateSession, func(fn interface{}) (ok bool) { c.CreateSession, ok = fn.(PfnCreateSession); return }},
	}, func(name string) (interface{}, error) {
		return e.ProcAddr(instance, name)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// VulkanInstanceExtensions returns the Vulkan instance extensions the
// runtime requires for the system.
func (c *InstanceCommands) VulkanInstanceExtensions(system SystemID) ([]string, error) {
	return queryExtensionList(CmdGetVulkanInstanceExtensions, c.GetVulkanInstanceExtensions, c.Instance, system)
}

// VulkanDeviceExtensions returns the Vulkan device extensions the runtime
// requires for the system.
func (c *InstanceCommands) VulkanDeviceExtensions(system SystemID) ([]string, error) {
	return queryExtensionList(CmdGetVulkanDeviceExtensions, c.GetVulkanDeviceExtensions, c.Instance, system)
}

// queryExtensionList asks for the required size first and then fills an
// exactly sized buffer.
func queryExtensionList(name string, fn PfnGetVulkanExtensions, instance Instance, system SystemID) ([]string, error) {
	count, res := fn(instance, system, 0, nil)
	if res != Success {
		return nil, errors.Wrap(res, name)
	}
	if count == 0 {
		return nil, nil
	}
	buffer := make([]byte, count)
	count, res = fn(instance, system, uint32(len(buffer)), buffer)
	if res != Success {
		return nil, errors.Wrap(res, name)
	}
	return ParseExtensionList(extensionString(buffer, count)), nil
}
