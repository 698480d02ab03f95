package core

import (
	"sync"

	"github.com/devblok/koruxr/device"
	"github.com/devblok/koruxr/xr"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ErrGraphicsVersionUnsupported is returned when the requested graphics API
// version is below the runtime minimum and requirements are enforced.
var ErrGraphicsVersionUnsupported = errors.New("graphics API version below the runtime minimum")

// Session is everything bring-up produced, in creation order.
type Session struct {
	Platform xr.AndroidPlatform

	Entry    *xr.Entry
	Commands *xr.InstanceCommands

	RuntimeExtensions []string
	APILayers         []string

	Instance     xr.Instance
	System       xr.SystemID
	Requirements xr.GraphicsRequirementsVulkan

	VulkanInstanceExtensions []string
	VulkanDeviceExtensions   []string

	GraphicsInstance   device.Instance
	PhysicalDevice     device.PhysicalDevice
	PhysicalDeviceInfo device.PhysicalDeviceInfo
	QueueFamilyIndex   uint32
	Device             device.Device
	Queue              device.Queue

	Handle xr.Session
}

// Sequencer drives the XR runtime and the graphics backend from loader
// initialization to session creation. It runs once; later calls to BringUp
// return the first outcome.
type Sequencer struct {
	Logger log.FieldLogger

	lib      xr.Library
	backend  device.Backend
	platform xr.AndroidPlatform
	cfg      Configuration

	once    sync.Once
	session *Session
	err     error
}

// NewSequencer prepares a bring-up against the given runtime library and
// graphics backend.
func NewSequencer(lib xr.Library, backend device.Backend, platform xr.AndroidPlatform, cfg Configuration) *Sequencer {
	return &Sequencer{
		Logger:   log.StandardLogger(),
		lib:      lib,
		backend:  backend,
		platform: platform,
		cfg:      cfg,
	}
}

// BringUp runs a new Sequencer with the standard logger.
func BringUp(lib xr.Library, backend device.Backend, platform xr.AndroidPlatform, cfg Configuration) (*Session, error) {
	return NewSequencer(lib, backend, platform, cfg).BringUp()
}

// BringUp runs the sequence. The first failing step stops it and its
// error is returned.
func (s *Sequencer) BringUp() (*Session, error) {
	s.once.Do(func() {
		s.session, s.err = s.run()
		if s.err != nil {
			s.session = nil
		}
	})
	return s.session, s.err
}

func (s *Sequencer) call(name string) log.FieldLogger {
	return s.Logger.WithField("call", name)
}

func (s *Sequencer) run() (*Session, error) {
	app := s.cfg.Application
	appInfo, err := xr.NewApplicationInfo(app.Name, app.Version, app.EngineName, app.EngineVersion)
	if err != nil {
		return nil, err
	}

	session := &Session{Platform: s.platform}

	if session.Entry, err = xr.LoadEntry(s.lib); err != nil {
		return nil, errors.Wrap(err, "load runtime entry points")
	}
	entry := session.Entry

	initializeLoader, err := entry.InitializeLoader()
	if err != nil {
		return nil, err
	}
	s.call("xrInitializeLoaderKHR()").Info("Initializing platform loader")
	if res := initializeLoader(xr.NewLoaderInitInfoAndroid(s.platform)); res != xr.Success {
		return nil, errors.Wrap(res, "xrInitializeLoaderKHR()")
	}

	if session.RuntimeExtensions, err = entry.ExtensionNames(""); err != nil {
		return nil, err
	}
	s.call("xrEnumerateInstanceExtensionProperties()").
		WithField("count", len(session.RuntimeExtensions)).
		Info("Runtime extensions enumerated")
	for _, ext := range session.RuntimeExtensions {
		s.Logger.WithField("extension", ext).Debug("Runtime extension")
	}

	layers, err := entry.APILayers()
	if err != nil {
		return nil, err
	}
	for i := range layers {
		session.APILayers = append(session.APILayers, layers[i].Name())
	}
	s.call("xrEnumerateApiLayerProperties()").
		WithField("layers", session.APILayers).
		Info("API layers enumerated")

	createInfo := xr.NewAndroidInstanceCreateInfo(appInfo, s.platform, s.cfg.XR.Layers, s.cfg.XR.Extensions)
	s.call("xrCreateInstance()").WithField("extensions", createInfo.Extensions).Info("Creating instance")
	instance, res := entry.CreateInstance(createInfo)
	if res != xr.Success {
		return nil, errors.Wrap(res, "xrCreateInstance()")
	}
	session.Instance = instance

	if session.Commands, err = xr.LoadInstanceCommands(entry, instance); err != nil {
		return nil, err
	}
	commands := session.Commands

	s.call("xrGetSystem()").Info("Looking for a head mounted display")
	system, res := commands.GetSystem(instance, &xr.SystemGetInfo{FormFactor: xr.FormFactorHeadMountedDisplay})
	if res != xr.Success {
		return nil, errors.Wrap(res, "xrGetSystem()")
	}
	session.System = system

	if res := commands.GetVulkanGraphicsRequirements(instance, system, &session.Requirements); res != xr.Success {
		return nil, errors.Wrap(res, "xrGetVulkanGraphicsRequirementsKHR()")
	}
	s.call("xrGetVulkanGraphicsRequirementsKHR()").WithFields(log.Fields{
		"min": session.Requirements.MinAPIVersionSupported,
		"max": session.Requirements.MaxAPIVersionSupported,
	}).Info("Graphics requirements")
	if err := s.checkRequirements(session.Requirements); err != nil {
		return nil, err
	}

	if session.VulkanInstanceExtensions, err = commands.VulkanInstanceExtensions(system); err != nil {
		return nil, err
	}
	s.call("xrGetVulkanInstanceExtensionsKHR()").
		WithField("extensions", session.VulkanInstanceExtensions).
		Debug("Runtime requires Vulkan instance extensions")

	if session.GraphicsInstance, err = s.createGraphicsInstance(session.VulkanInstanceExtensions); err != nil {
		return nil, err
	}

	s.call("xrGetVulkanGraphicsDeviceKHR()").Info("Querying the physical device")
	physicalDevice, res := commands.GetVulkanGraphicsDevice(instance, system, session.GraphicsInstance)
	if res != xr.Success {
		return nil, errors.Wrap(res, "xrGetVulkanGraphicsDeviceKHR()")
	}
	session.PhysicalDevice = physicalDevice
	if info, err := s.backend.PhysicalDeviceInfo(physicalDevice); err != nil {
		s.Logger.WithError(err).Warn("Physical device properties unavailable")
	} else {
		session.PhysicalDeviceInfo = info
		s.Logger.WithFields(log.Fields{
			"name":       info.Name,
			"vendor":     info.VendorID,
			"apiVersion": device.APIVersionString(info.APIVersion),
		}).Info("Physical device selected by the runtime")
	}

	if session.VulkanDeviceExtensions, err = commands.VulkanDeviceExtensions(system); err != nil {
		return nil, err
	}
	s.call("xrGetVulkanDeviceExtensionsKHR()").
		WithField("extensions", session.VulkanDeviceExtensions).
		Debug("Runtime requires Vulkan device extensions")

	families, err := s.backend.QueueFamilies(physicalDevice)
	if err != nil {
		return nil, err
	}
	if session.QueueFamilyIndex, err = device.SelectGraphicsQueueFamily(families); err != nil {
		return nil, err
	}

	s.call("vk.CreateDevice()").WithField("queueFamily", session.QueueFamilyIndex).Info("Creating logical device")
	session.Device, session.Queue, err = s.backend.CreateDevice(physicalDevice, device.DeviceConfiguration{
		QueueFamilyIndex: session.QueueFamilyIndex,
		QueuePriorities:  []float32{1.0},
		Extensions:       s.cfg.Graphics.DeviceExtensions,
	})
	if err != nil {
		return nil, err
	}

	s.call("xrCreateSession()").Info("Creating session")
	handle, res := commands.CreateSession(instance, &xr.SessionCreateInfo{
		Next: &xr.GraphicsBindingVulkan{
			Instance:         session.GraphicsInstance,
			PhysicalDevice:   session.PhysicalDevice,
			Device:           session.Device,
			QueueFamilyIndex: session.QueueFamilyIndex,
			QueueIndex:       0,
		},
		SystemID: system,
	})
	if res != xr.Success {
		return nil, errors.Wrap(res, "xrCreateSession()")
	}
	session.Handle = handle

	s.Logger.WithField("session", uint64(handle)).Info("Session created")
	return session, nil
}

// checkRequirements compares the configured graphics API version against
// the runtime range. Only a version below the minimum is an error, and only
// when enforcement is configured.
func (s *Sequencer) checkRequirements(req xr.GraphicsRequirementsVulkan) error {
	v := s.cfg.Graphics.APIVersion
	requested := xr.MakeVersion(uint16(device.APIVersionMajor(v)), uint16(device.APIVersionMinor(v)), device.APIVersionPatch(v))

	switch {
	case requested < req.MinAPIVersionSupported:
		if s.cfg.XR.EnforceGraphicsRequirements {
			return errors.Wrapf(ErrGraphicsVersionUnsupported, "requested %s, minimum %s", requested, req.MinAPIVersionSupported)
		}
		s.Logger.WithField("requested", requested).Warn("Graphics API version below the runtime minimum")
	case requested > req.MaxAPIVersionSupported:
		s.Logger.WithField("requested", requested).Warn("Graphics API version above the runtime maximum")
	}
	return nil
}

func (s *Sequencer) createGraphicsInstance(required []string) (device.Instance, error) {
	available, err := s.backend.InstanceExtensions()
	if err != nil {
		return device.NullInstance, err
	}
	s.call("vk.EnumerateInstanceExtensionProperties()").
		WithField("extensions", available).
		Debug("Vulkan instance extensions available")

	g := s.cfg.Graphics
	extensions := append(append([]string{}, g.InstanceExtensions...), required...)
	s.call("vk.CreateInstance()").WithField("extensions", extensions).Info("Creating Vulkan instance")
	return s.backend.CreateInstance(device.InstanceConfiguration{
		Application: device.ApplicationInfo{
			Name:          g.ApplicationName,
			Version:       1,
			EngineName:    g.EngineName,
			EngineVersion: 1,
			APIVersion:    g.APIVersion,
		},
		Extensions: extensions,
	})
}
