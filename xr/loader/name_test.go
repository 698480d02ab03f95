package loader

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLibraryName(t *testing.T) {
	cases := map[string]string{
		"windows": "openxr_loader.dll",
		"darwin":  "libopenxr_loader.dylib",
		"android": "libopenxr_loader.so",
		"linux":   "libopenxr_loader.so",
		"freebsd": "libopenxr_loader.so",
	}
	for goos, want := range cases {
		assert.Equal(t, want, libraryName(goos), goos)
	}
	assert.Equal(t, libraryName(runtime.GOOS), DefaultLibraryName())
}
