//go:build cgo && !windows

package loader

/*
#cgo linux freebsd android LDFLAGS: -ldl

#include <dlfcn.h>
#include <stdlib.h>
#include <stdint.h>
*/
import "C"

import (
	"unsafe"

	"github.com/pkg/errors"
)

type library struct {
	handle unsafe.Pointer
}

func dlerror() string {
	if msg := C.dlerror(); msg != nil {
		return C.GoString(msg)
	}
	return "unknown error"
}

func openLibrary(name string) (*library, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	handle := C.dlopen(cname, C.RTLD_NOW|C.RTLD_LOCAL)
	if handle == nil {
		return nil, errors.Errorf("dlopen %s: %s", name, dlerror())
	}
	return &library{handle: handle}, nil
}

func (l *library) symbol(name string) (uintptr, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	addr := C.dlsym(l.handle, cname)
	if addr == nil {
		return 0, errors.Errorf("dlsym %s: %s", name, dlerror())
	}
	return uintptr(addr), nil
}

func (l *library) close() error {
	if C.dlclose(l.handle) != 0 {
		return errors.Errorf("dlclose: %s", dlerror())
	}
	return nil
}
