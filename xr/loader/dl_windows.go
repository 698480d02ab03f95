//go:build cgo && windows

package loader

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

type library struct {
	handle windows.Handle
}

func openLibrary(name string) (*library, error) {
	handle, err := windows.LoadLibrary(name)
	if err != nil {
		return nil, errors.Wrapf(err, "LoadLibrary %s", name)
	}
	return &library{handle: handle}, nil
}

func (l *library) symbol(name string) (uintptr, error) {
	addr, err := windows.GetProcAddress(l.handle, name)
	if err != nil {
		return 0, errors.Wrapf(err, "GetProcAddress %s", name)
	}
	return addr, nil
}

func (l *library) close() error {
	return errors.Wrap(windows.FreeLibrary(l.handle), "FreeLibrary")
}
