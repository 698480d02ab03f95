//go:build !cgo

package loader

import (
	"github.com/devblok/koruxr/xr"
	"github.com/pkg/errors"
)

// ErrNoCgo is returned when the binary was built without cgo.
var ErrNoCgo = errors.New("the OpenXR loader needs cgo")

// Loader is unusable without cgo.
type Loader struct{}

var _ xr.Library = (*Loader)(nil)

// Open always fails without cgo.
func Open(name string) (*Loader, error) {
	return nil, ErrNoCgo
}

// Symbol implements xr.Library
func (*Loader) Symbol(name string) (xr.ProcAddr, error) { return 0, ErrNoCgo }

// Bind implements xr.Library
func (*Loader) Bind(name string, addr xr.ProcAddr) (interface{}, error) { return nil, ErrNoCgo }

// Name is always empty.
func (*Loader) Name() string { return "" }

// Close is a no-op.
func (*Loader) Close() error { return nil }
