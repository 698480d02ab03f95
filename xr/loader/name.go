// Package loader opens the OpenXR loader shared library and binds its
// entry points to the typed commands of package xr.
package loader

import "runtime"

// DefaultLibraryName is the loader file name for the running platform,
// searched through the default linker path.
func DefaultLibraryName() string {
	return libraryName(runtime.GOOS)
}

func libraryName(goos string) string {
	switch goos {
	case "windows":
		return "openxr_loader.dll"
	case "darwin", "ios":
		return "libopenxr_loader.dylib"
	default:
		return "libopenxr_loader.so"
	}
}
