//go:build cgo

package loader

/*
#include <stdint.h>
#include <stdlib.h>

typedef int32_t XrResult;
typedef int32_t XrStructureType;
typedef uint64_t XrInstance;
typedef uint64_t XrSession;
typedef uint64_t XrSystemId;
typedef uint64_t XrVersion;

typedef struct XrApplicationInfo {
	char      applicationName[128];
	uint32_t  applicationVersion;
	char      engineName[128];
	uint32_t  engineVersion;
	XrVersion apiVersion;
} XrApplicationInfo;

typedef struct XrInstanceCreateInfo {
	XrStructureType    type;
	const void*        next;
	uint64_t           createFlags;
	XrApplicationInfo  applicationInfo;
	uint32_t           enabledApiLayerCount;
	const char* const* enabledApiLayerNames;
	uint32_t           enabledExtensionCount;
	const char* const* enabledExtensionNames;
} XrInstanceCreateInfo;

typedef struct XrInstanceCreateInfoAndroidKHR {
	XrStructureType type;
	const void*     next;
	uintptr_t       applicationVM;
	uintptr_t       applicationActivity;
} XrInstanceCreateInfoAndroidKHR;

typedef struct XrLoaderInitInfoAndroidKHR {
	XrStructureType type;
	const void*     next;
	uintptr_t       applicationVM;
	uintptr_t       applicationContext;
} XrLoaderInitInfoAndroidKHR;

typedef struct XrExtensionProperties {
	XrStructureType type;
	void*           next;
	char            extensionName[128];
	uint32_t        extensionVersion;
} XrExtensionProperties;

typedef struct XrApiLayerProperties {
	XrStructureType type;
	void*           next;
	char            layerName[256];
	XrVersion       specVersion;
	uint32_t        layerVersion;
	char            description[256];
} XrApiLayerProperties;

typedef struct XrSystemGetInfo {
	XrStructureType type;
	const void*     next;
	int32_t         formFactor;
} XrSystemGetInfo;

typedef struct XrGraphicsRequirementsVulkanKHR {
	XrStructureType type;
	void*           next;
	XrVersion       minApiVersionSupported;
	XrVersion       maxApiVersionSupported;
} XrGraphicsRequirementsVulkanKHR;

typedef struct XrGraphicsBindingVulkanKHR {
	XrStructureType type;
	const void*     next;
	uintptr_t       instance;
	uintptr_t       physicalDevice;
	uintptr_t       device;
	uint32_t        queueFamilyIndex;
	uint32_t        queueIndex;
} XrGraphicsBindingVulkanKHR;

typedef struct XrSessionCreateInfo {
	XrStructureType type;
	const void*     next;
	uint64_t        createFlags;
	XrSystemId      systemId;
} XrSessionCreateInfo;

typedef void (*PFN_xrVoidFunction)(void);

static XrResult xrGetInstanceProcAddr(uintptr_t f, XrInstance instance, const char* name, uintptr_t* function) {
	PFN_xrVoidFunction fn = NULL;
	XrResult res = ((XrResult (*)(XrInstance, const char*, PFN_xrVoidFunction*))f)(instance, name, &fn);
	*function = (uintptr_t)fn;
	return res;
}

static XrResult xrCreateInstance(uintptr_t f, const XrInstanceCreateInfo* createInfo, XrInstance* instance) {
	return ((XrResult (*)(const XrInstanceCreateInfo*, XrInstance*))f)(createInfo, instance);
}

static XrResult xrEnumerateInstanceExtensionProperties(uintptr_t f, const char* layerName, uint32_t capacity, uint32_t* count, XrExtensionProperties* properties) {
	return ((XrResult (*)(const char*, uint32_t, uint32_t*, XrExtensionProperties*))f)(layerName, capacity, count, properties);
}

static XrResult xrEnumerateApiLayerProperties(uintptr_t f, uint32_t capacity, uint32_t* count, XrApiLayerProperties* properties) {
	return ((XrResult (*)(uint32_t, uint32_t*, XrApiLayerProperties*))f)(capacity, count, properties);
}

static XrResult xrInitializeLoaderKHR(uintptr_t f, const void* loaderInitInfo) {
	return ((XrResult (*)(const void*))f)(loaderInitInfo);
}

static XrResult xrGetSystem(uintptr_t f, XrInstance instance, const XrSystemGetInfo* getInfo, XrSystemId* systemId) {
	return ((XrResult (*)(XrInstance, const XrSystemGetInfo*, XrSystemId*))f)(instance, getInfo, systemId);
}

static XrResult xrGetVulkanGraphicsRequirementsKHR(uintptr_t f, XrInstance instance, XrSystemId systemId, XrGraphicsRequirementsVulkanKHR* requirements) {
	return ((XrResult (*)(XrInstance, XrSystemId, XrGraphicsRequirementsVulkanKHR*))f)(instance, systemId, requirements);
}

static XrResult xrGetVulkanGraphicsDeviceKHR(uintptr_t f, XrInstance instance, XrSystemId systemId, uintptr_t vkInstance, uintptr_t* vkPhysicalDevice) {
	void* physicalDevice = NULL;
	XrResult res = ((XrResult (*)(XrInstance, XrSystemId, void*, void**))f)(instance, systemId, (void*)vkInstance, &physicalDevice);
	*vkPhysicalDevice = (uintptr_t)physicalDevice;
	return res;
}

static XrResult xrGetVulkanExtensionsKHR(uintptr_t f, XrInstance instance, XrSystemId systemId, uint32_t capacity, uint32_t* count, char* buffer) {
	return ((XrResult (*)(XrInstance, XrSystemId, uint32_t, uint32_t*, char*))f)(instance, systemId, capacity, count, buffer);
}

static XrResult xrCreateSession(uintptr_t f, XrInstance instance, const XrSessionCreateInfo* createInfo, XrSession* session) {
	return ((XrResult (*)(XrInstance, const XrSessionCreateInfo*, XrSession*))f)(instance, createInfo, session);
}
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/devblok/koruxr/device"
	"github.com/devblok/koruxr/xr"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Loader is an opened OpenXR loader library.
type Loader struct {
	name string

	mu  sync.Mutex
	lib *library
}

var _ xr.Library = (*Loader)(nil)

// Open loads the named library, or DefaultLibraryName when name is empty.
func Open(name string) (*Loader, error) {
	if name == "" {
		name = DefaultLibraryName()
	}
	lib, err := openLibrary(name)
	if err != nil {
		return nil, err
	}
	log.WithField("library", name).Info("OpenXR loader opened")
	return &Loader{name: name, lib: lib}, nil
}

// Name of the opened library
func (l *Loader) Name() string { return l.name }

// Close unloads the library. Every command bound from it becomes invalid.
func (l *Loader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lib == nil {
		return nil
	}
	err := l.lib.close()
	l.lib = nil
	return err
}

// Symbol implements xr.Library
func (l *Loader) Symbol(name string) (xr.ProcAddr, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lib == nil {
		return 0, errors.Errorf("%s: library closed", l.name)
	}
	addr, err := l.lib.symbol(name)
	if err != nil {
		return 0, err
	}
	return xr.ProcAddr(addr), nil
}

// Bind implements xr.Library
func (l *Loader) Bind(name string, addr xr.ProcAddr) (interface{}, error) {
	if addr == 0 {
		return nil, errors.Errorf("%s: null address", name)
	}
	fn := C.uintptr_t(addr)

	switch name {
	case xr.CmdGetInstanceProcAddr:
		return xr.PfnGetInstanceProcAddr(func(instance xr.Instance, command string) (xr.ProcAddr, xr.Result) {
			cname := C.CString(command)
			defer C.free(unsafe.Pointer(cname))

			var out C.uintptr_t
			res := C.xrGetInstanceProcAddr(fn, C.XrInstance(instance), cname, &out)
			return xr.ProcAddr(out), xr.Result(res)
		}), nil

	case xr.CmdCreateInstance:
		return xr.PfnCreateInstance(func(info *xr.InstanceCreateInfo) (xr.Instance, xr.Result) {
			var a arena
			defer a.free()

			cinfo, err := a.instanceCreateInfo(info)
			if err != nil {
				log.WithError(err).Error("xrCreateInstance()")
				return xr.NullInstance, xr.ErrorValidationFailure
			}
			var instance C.XrInstance
			res := C.xrCreateInstance(fn, cinfo, &instance)
			return xr.Instance(instance), xr.Result(res)
		}), nil

	case xr.CmdEnumerateInstanceExtensionProperties:
		return xr.PfnEnumerateInstanceExtensionProperties(func(layerName string, capacity uint32, properties []xr.ExtensionProperties) (uint32, xr.Result) {
			var a arena
			defer a.free()

			var clayer *C.char
			if layerName != "" {
				clayer = a.cString(layerName)
			}
			if int(capacity) > len(properties) {
				capacity = uint32(len(properties))
			}
			var out []C.XrExtensionProperties
			var outPtr *C.XrExtensionProperties
			if capacity > 0 {
				outPtr = (*C.XrExtensionProperties)(a.alloc(C.size_t(capacity) * C.sizeof_XrExtensionProperties))
				out = unsafe.Slice(outPtr, capacity)
				for i := range out {
					out[i]._type = C.XrStructureType(xr.TypeExtensionProperties)
				}
			}

			var count C.uint32_t
			res := C.xrEnumerateInstanceExtensionProperties(fn, clayer, C.uint32_t(capacity), &count, outPtr)
			for i := 0; i < len(out) && i < int(count); i++ {
				copyChars(properties[i].ExtensionName[:], out[i].extensionName[:])
				properties[i].ExtensionVersion = uint32(out[i].extensionVersion)
			}
			return uint32(count), xr.Result(res)
		}), nil

	case xr.CmdEnumerateAPILayerProperties:
		return xr.PfnEnumerateAPILayerProperties(func(capacity uint32, properties []xr.APILayerProperties) (uint32, xr.Result) {
			var a arena
			defer a.free()

			if int(capacity) > len(properties) {
				capacity = uint32(len(properties))
			}
			var out []C.XrApiLayerProperties
			var outPtr *C.XrApiLayerProperties
			if capacity > 0 {
				outPtr = (*C.XrApiLayerProperties)(a.alloc(C.size_t(capacity) * C.sizeof_XrApiLayerProperties))
				out = unsafe.Slice(outPtr, capacity)
				for i := range out {
					out[i]._type = C.XrStructureType(xr.TypeAPILayerProperties)
				}
			}

			var count C.uint32_t
			res := C.xrEnumerateApiLayerProperties(fn, C.uint32_t(capacity), &count, outPtr)
			for i := 0; i < len(out) && i < int(count); i++ {
				copyChars(properties[i].LayerName[:], out[i].layerName[:])
				copyChars(properties[i].Description[:], out[i].description[:])
				properties[i].SpecVersion = xr.Version(out[i].specVersion)
				properties[i].LayerVersion = uint32(out[i].layerVersion)
			}
			return uint32(count), xr.Result(res)
		}), nil

	case xr.CmdInitializeLoader:
		return xr.PfnInitializeLoader(func(info *xr.LoaderInitInfoAndroid) xr.Result {
			var a arena
			defer a.free()

			cinfo, err := a.chain(info)
			if err != nil {
				log.WithError(err).Error("xrInitializeLoaderKHR()")
				return xr.ErrorValidationFailure
			}
			return xr.Result(C.xrInitializeLoaderKHR(fn, cinfo))
		}), nil

	case xr.CmdGetSystem:
		return xr.PfnGetSystem(func(instance xr.Instance, info *xr.SystemGetInfo) (xr.SystemID, xr.Result) {
			var a arena
			defer a.free()

			next, err := a.chain(info.Next)
			if err != nil {
				log.WithError(err).Error("xrGetSystem()")
				return xr.NullSystemID, xr.ErrorValidationFailure
			}
			cinfo := (*C.XrSystemGetInfo)(a.alloc(C.sizeof_XrSystemGetInfo))
			cinfo._type = C.XrStructureType(info.StructureType())
			cinfo.next = next
			cinfo.formFactor = C.int32_t(info.FormFactor)

			var system C.XrSystemId
			res := C.xrGetSystem(fn, C.XrInstance(instance), cinfo, &system)
			return xr.SystemID(system), xr.Result(res)
		}), nil

	case xr.CmdGetVulkanGraphicsRequirements:
		return xr.PfnGetVulkanGraphicsRequirements(func(instance xr.Instance, system xr.SystemID, requirements *xr.GraphicsRequirementsVulkan) xr.Result {
			var a arena
			defer a.free()

			creq := (*C.XrGraphicsRequirementsVulkanKHR)(a.alloc(C.sizeof_XrGraphicsRequirementsVulkanKHR))
			creq._type = C.XrStructureType(requirements.StructureType())
			res := C.xrGetVulkanGraphicsRequirementsKHR(fn, C.XrInstance(instance), C.XrSystemId(system), creq)
			requirements.MinAPIVersionSupported = xr.Version(creq.minApiVersionSupported)
			requirements.MaxAPIVersionSupported = xr.Version(creq.maxApiVersionSupported)
			return xr.Result(res)
		}), nil

	case xr.CmdGetVulkanGraphicsDevice:
		return xr.PfnGetVulkanGraphicsDevice(func(instance xr.Instance, system xr.SystemID, vkInstance device.Instance) (device.PhysicalDevice, xr.Result) {
			var physicalDevice C.uintptr_t
			res := C.xrGetVulkanGraphicsDeviceKHR(fn, C.XrInstance(instance), C.XrSystemId(system), C.uintptr_t(vkInstance), &physicalDevice)
			return device.PhysicalDevice(physicalDevice), xr.Result(res)
		}), nil

	case xr.CmdGetVulkanInstanceExtensions, xr.CmdGetVulkanDeviceExtensions:
		return xr.PfnGetVulkanExtensions(func(instance xr.Instance, system xr.SystemID, capacity uint32, buffer []byte) (uint32, xr.Result) {
			if int(capacity) > len(buffer) {
				capacity = uint32(len(buffer))
			}
			var cbuf *C.char
			if capacity > 0 {
				cbuf = (*C.char)(unsafe.Pointer(&buffer[0]))
			}
			var count C.uint32_t
			res := C.xrGetVulkanExtensionsKHR(fn, C.XrInstance(instance), C.XrSystemId(system), C.uint32_t(capacity), &count, cbuf)
			return uint32(count), xr.Result(res)
		}), nil

	case xr.CmdCreateSession:
		return xr.PfnCreateSession(func(instance xr.Instance, info *xr.SessionCreateInfo) (xr.Session, xr.Result) {
			var a arena
			defer a.free()

			next, err := a.chain(info.Next)
			if err != nil {
				log.WithError(err).Error("xrCreateSession()")
				return xr.NullSession, xr.ErrorValidationFailure
			}
			cinfo := (*C.XrSessionCreateInfo)(a.alloc(C.sizeof_XrSessionCreateInfo))
			cinfo._type = C.XrStructureType(info.StructureType())
			cinfo.next = next
			cinfo.createFlags = C.uint64_t(info.CreateFlags)
			cinfo.systemId = C.XrSystemId(info.SystemID)

			var session C.XrSession
			res := C.xrCreateSession(fn, C.XrInstance(instance), cinfo, &session)
			return xr.Session(session), xr.Result(res)
		}), nil
	}

	return nil, errors.Errorf("%s: no binding", name)
}

// arena owns the C memory handed to a single native call.
type arena struct {
	ptrs []unsafe.Pointer
}

func (a *arena) alloc(size C.size_t) unsafe.Pointer {
	p := C.calloc(1, size)
	if p == nil {
		panic("loader: out of memory")
	}
	a.ptrs = append(a.ptrs, p)
	return p
}

func (a *arena) cString(s string) *C.char {
	p := C.CString(s)
	a.ptrs = append(a.ptrs, unsafe.Pointer(p))
	return p
}

func (a *arena) cStrings(list []string) **C.char {
	if len(list) == 0 {
		return nil
	}
	ptr := (**C.char)(a.alloc(C.size_t(len(list)) * C.size_t(unsafe.Sizeof((*C.char)(nil)))))
	names := unsafe.Slice(ptr, len(list))
	for i, s := range list {
		names[i] = a.cString(s)
	}
	return ptr
}

func (a *arena) free() {
	for _, p := range a.ptrs {
		C.free(p)
	}
	a.ptrs = nil
}

func (a *arena) instanceCreateInfo(info *xr.InstanceCreateInfo) (*C.XrInstanceCreateInfo, error) {
	next, err := a.chain(info.Next)
	if err != nil {
		return nil, err
	}
	cinfo := (*C.XrInstanceCreateInfo)(a.alloc(C.sizeof_XrInstanceCreateInfo))
	cinfo._type = C.XrStructureType(info.StructureType())
	cinfo.next = next
	cinfo.createFlags = C.uint64_t(info.CreateFlags)

	app := &info.ApplicationInfo
	fillChars(cinfo.applicationInfo.applicationName[:], app.ApplicationName[:])
	fillChars(cinfo.applicationInfo.engineName[:], app.EngineName[:])
	cinfo.applicationInfo.applicationVersion = C.uint32_t(app.ApplicationVersion)
	cinfo.applicationInfo.engineVersion = C.uint32_t(app.EngineVersion)
	cinfo.applicationInfo.apiVersion = C.XrVersion(app.APIVersion)

	cinfo.enabledApiLayerCount = C.uint32_t(len(info.APILayers))
	cinfo.enabledApiLayerNames = a.cStrings(info.APILayers)
	cinfo.enabledExtensionCount = C.uint32_t(len(info.Extensions))
	cinfo.enabledExtensionNames = a.cStrings(info.Extensions)
	return cinfo, nil
}

// chain copies a next chain into C memory, returning its head.
func (a *arena) chain(s xr.Chained) (unsafe.Pointer, error) {
	switch s := s.(type) {
	case nil:
		return nil, nil

	case *xr.InstanceCreateInfoAndroid:
		next, err := a.chain(s.Next)
		if err != nil {
			return nil, err
		}
		c := (*C.XrInstanceCreateInfoAndroidKHR)(a.alloc(C.sizeof_XrInstanceCreateInfoAndroidKHR))
		c._type = C.XrStructureType(s.StructureType())
		c.next = next
		c.applicationVM = C.uintptr_t(s.ApplicationVM)
		c.applicationActivity = C.uintptr_t(s.ApplicationActivity)
		return unsafe.Pointer(c), nil

	case *xr.LoaderInitInfoAndroid:
		next, err := a.chain(s.Next)
		if err != nil {
			return nil, err
		}
		c := (*C.XrLoaderInitInfoAndroidKHR)(a.alloc(C.sizeof_XrLoaderInitInfoAndroidKHR))
		c._type = C.XrStructureType(s.StructureType())
		c.next = next
		c.applicationVM = C.uintptr_t(s.ApplicationVM)
		c.applicationContext = C.uintptr_t(s.ApplicationContext)
		return unsafe.Pointer(c), nil

	case *xr.GraphicsBindingVulkan:
		next, err := a.chain(s.Next)
		if err != nil {
			return nil, err
		}
		c := (*C.XrGraphicsBindingVulkanKHR)(a.alloc(C.sizeof_XrGraphicsBindingVulkanKHR))
		c._type = C.XrStructureType(s.StructureType())
		c.next = next
		c.instance = C.uintptr_t(s.Instance)
		c.physicalDevice = C.uintptr_t(s.PhysicalDevice)
		c.device = C.uintptr_t(s.Device)
		c.queueFamilyIndex = C.uint32_t(s.QueueFamilyIndex)
		c.queueIndex = C.uint32_t(s.QueueIndex)
		return unsafe.Pointer(c), nil
	}
	return nil, errors.Errorf("structure %T cannot be chained", s)
}

func fillChars(dst []C.char, src []byte) {
	for i := 0; i < len(dst) && i < len(src); i++ {
		dst[i] = C.char(src[i])
	}
}

func copyChars(dst []byte, src []C.char) {
	for i := 0; i < len(dst) && i < len(src); i++ {
		dst[i] = byte(src[i])
	}
}
