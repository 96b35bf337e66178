//go:build windows

package plugin

import "errors"

// ErrPluginsUnsupported is returned by openLibrary on Windows, since the
// standard library's plugin package only supports linux and darwin.
// This is a real platform boundary, not a simplification: Go offers no
// non-cgo dylib loader on Windows at all.
var ErrPluginsUnsupported = errors.New("plugins are not supported on windows")

type libHandle struct{}

func openLibrary(path string) (libHandle, error) {
	return libHandle{}, ErrPluginsUnsupported
}

func (h libHandle) lookup(symbol string) (interface{}, error) {
	return nil, ErrPluginsUnsupported
}

func (h libHandle) close() error { return nil }
