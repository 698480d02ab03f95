package xr

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
)

// Application descriptor errors
var (
	ErrApplicationNameEmpty   = errors.New("application name must not be empty")
	ErrApplicationNameTooLong = errors.Errorf("application name must be at most %d bytes", MaxApplicationNameSize-1)
	ErrEngineNameTooLong      = errors.Errorf("engine name must be at most %d bytes", MaxEngineNameSize-1)
)

// NewApplicationInfo fills the fixed size name buffers. The application
// name must be non-empty and leave room for the terminator; an empty engine
// name leaves its buffer zeroed.
func NewApplicationInfo(name string, version uint32, engine string, engineVersion uint32) (ApplicationInfo, error) {
	var info ApplicationInfo
	if len(name) == 0 {
		return info, ErrApplicationNameEmpty
	}
	if len(name) >= MaxApplicationNameSize {
		return info, ErrApplicationNameTooLong
	}
	if len(engine) >= MaxEngineNameSize {
		return info, ErrEngineNameTooLong
	}

	copy(info.ApplicationName[:], name)
	copy(info.EngineName[:], engine)
	info.ApplicationVersion = version
	info.EngineVersion = engineVersion
	info.APIVersion = CurrentAPIVersion
	return info, nil
}

// cString returns the bytes of buf up to the first NUL.
func cString(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		return string(buf[:i])
	}
	return string(buf)
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// ParseExtensionList splits a space separated extension list as the runtime
// reports it, keeping order.
func ParseExtensionList(list string) []string {
	return strings.FieldsFunc(list, isASCIISpace)
}

// extensionString trims a runtime filled buffer to the logical length the
// runtime reported. The count includes the terminator.
func extensionString(buf []byte, count uint32) string {
	if count == 0 {
		return ""
	}
	n := int(count - 1)
	if n > len(buf) {
		n = len(buf)
	}
	return cString(buf[:n])
}
