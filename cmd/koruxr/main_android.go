//go:build android

// Command koruxr brings up an OpenXR session backed by Vulkan inside an
// Android activity.
package main

import (
	"runtime"

	"github.com/devblok/koruxr/core"
	"github.com/devblok/koruxr/device/vulkan"
	"github.com/devblok/koruxr/xr"
	"github.com/devblok/koruxr/xr/loader"
	log "github.com/sirupsen/logrus"
	"golang.org/x/mobile/app"
	"golang.org/x/mobile/event/lifecycle"
)

func init() {
	runtime.LockOSThread()
}

func bringUp(cfg core.Configuration) (*core.Session, error) {
	lib, err := loader.Open(cfg.XR.LoaderLibrary)
	if err != nil {
		return nil, err
	}
	backend, err := vulkan.New()
	if err != nil {
		return nil, err
	}

	var session *core.Session
	err = app.RunOnJVM(func(vm, jniEnv, ctx uintptr) error {
		s, err := core.BringUp(lib, backend, xr.AndroidPlatform{VM: vm, Activity: ctx}, cfg)
		session = s
		return err
	})
	return session, err
}

func main() {
	cfg, err := core.LoadConfiguration("")
	if err != nil {
		log.WithError(err).Fatal("Configuration")
	}
	log.SetLevel(cfg.LogLevel)

	app.Main(func(a app.App) {
		var session *core.Session
		for e := range a.Events() {
			switch e := a.Filter(e).(type) {
			case lifecycle.Event:
				if e.Crosses(lifecycle.StageAlive) == lifecycle.CrossOn && session == nil {
					if session, err = bringUp(cfg); err != nil {
						log.WithError(err).Fatal("Bring-up failed")
					}
				}
				if e.Crosses(lifecycle.StageAlive) == lifecycle.CrossOff {
					log.Info("Event loop exited")
					return
				}
			}
		}
	})
}
