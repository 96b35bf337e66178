//go:build !windows

package plugin

import goplugin "plugin"

// libHandle wraps the standard library's *plugin.Plugin, the only
// dylib loader the Go toolchain offers without cgo. It only works on
// the platforms the standard plugin package itself supports
// (linux/darwin, not Windows) — see host_windows.go for the other side
// of this build-tag split.
type libHandle struct {
	p *goplugin.Plugin
}

func openLibrary(path string) (libHandle, error) {
	p, err := goplugin.Open(path)
	if err != nil {
		return libHandle{}, err
	}
	return libHandle{p: p}, nil
}

func (h libHandle) lookup(symbol string) (interface{}, error) {
	sym, err := h.p.Lookup(symbol)
	if err != nil {
		return nil, err
	}
	return sym, nil
}

// close is a no-op: the standard library plugin package provides no way
// to unload a loaded plugin once opened. The dylib's address space stays
// mapped for the life of the process; on_unload running before this is
// still meaningful since it lets the plugin release its own resources
// (goroutines, file handles) even though the mapping itself persists.
func (h libHandle) close() error { return nil }
