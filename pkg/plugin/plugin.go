// Package plugin is the dynamic-library plugin host of spec.md §4.H.
// Go exposes no C-ABI dlopen without cgo; the idiomatic Go equivalent of
// "load a dynamic library and resolve a well-known exported symbol" is
// the standard library plugin package (plugin.Open/Lookup) — no
// third-party dlopen/FFI library appears anywhere in the retrieval
// pack, so plugin.Open is the deliberate, documented stdlib choice
// here. The ABI is adapted accordingly: a plugin built with
// `go build -buildmode=plugin` exports a single package-level variable,
// `var LumiDBPlugin plugin.Def`, in place of the C getter function
// `lumi_db_get_plugin_def()`.
package plugin

import (
	"fmt"

	"github.com/brody715/lumidb/pkg/function"
)

// ExportedSymbol is the name every plugin dylib must export, resolved
// with Lookup after Open.
const ExportedSymbol = "LumiDBPlugin"

// Context is handed to OnLoad/OnUnload: a non-owning view of the
// catalog plus a UserData slot, which Host.Load fills with the host's
// query-execution hook before OnLoad runs
// (spec.md's {user_data, db, error} triple, minus the error field —
// Go's error return already carries that).
type Context struct {
	Catalog  function.Catalog
	UserData interface{}
}

// Def is the struct a plugin dylib exports as LumiDBPlugin. It mirrors
// spec.md §4.H's C ABI struct field-for-field, adapted to Go closures
// in place of C function pointers.
type Def struct {
	Name        string
	Version     string
	Description string
	OnLoad      func(ctx *Context) error
	OnUnload    func(ctx *Context) error
}

// handle is the host's bookkeeping for one loaded plugin: the dylib
// handle kept alive for as long as the plugin is loaded, and the
// context passed to OnLoad so the same one reaches OnUnload.
type handle struct {
	def *Def
	ctx *Context
	lib libHandle
}

// Host owns every currently loaded plugin. It implements
// function.PluginLoader so the load_plugin/unload_plugin built-ins can
// drive it without importing this package directly.
type Host struct {
	loaded       map[string]*handle
	executeQuery func(query string) error
}

// NewHost returns an empty Host. executeQuery is handed to every loaded
// plugin through Context.UserData — it is the one capability a plugin
// like the bundled timer needs that the narrow function.Catalog
// interface deliberately does not expose (re-entering the full
// engine/executor pipeline, not just catalog lookups).
func NewHost(executeQuery func(query string) error) *Host {
	return &Host{loaded: make(map[string]*handle), executeQuery: executeQuery}
}

// Load opens the dylib at path, resolves its Def, and runs OnLoad.
// On any failure the dylib (if opened) is released and no catalog entry
// is created, per spec.md §4.H's load sequence.
func (h *Host) Load(path string, cat function.Catalog) (string, error) {
	lib, err := openLibrary(path)
	if err != nil {
		return "", fmt.Errorf("failed to load plugin: %w", err)
	}

	sym, err := lib.lookup(ExportedSymbol)
	if err != nil {
		_ = lib.close()
		return "", fmt.Errorf("failed to resolve plugin symbol %s: %w", ExportedSymbol, err)
	}
	def, ok := sym.(*Def)
	if !ok {
		_ = lib.close()
		return "", fmt.Errorf("plugin %s does not export a *plugin.Def", path)
	}

	ctx := &Context{Catalog: cat, UserData: h.executeQuery}
	if def.OnLoad != nil {
		if err := def.OnLoad(ctx); err != nil {
			_ = lib.close()
			return "", fmt.Errorf("plugin %s failed to load: %w", def.Name, err)
		}
	}

	id, err := cat.LoadPlugin(&function.PluginRecord{
		Name:        def.Name,
		Version:     def.Version,
		Description: def.Description,
		LoadPath:    path,
	})
	if err != nil {
		if def.OnUnload != nil {
			_ = def.OnUnload(ctx)
		}
		_ = lib.close()
		return "", err
	}
	h.loaded[id] = &handle{def: def, ctx: ctx, lib: lib}
	return id, nil
}

// Unload runs the plugin's OnUnload hook and releases its dylib handle,
// in that order, so the hook can still see its own registered functions
// and a live catalog while it unregisters them, per spec.md §9.
func (h *Host) Unload(id string, cat function.Catalog) error {
	entry, ok := h.loaded[id]
	if !ok {
		return nil
	}
	if entry.def.OnUnload != nil {
		if err := entry.def.OnUnload(entry.ctx); err != nil {
			return fmt.Errorf("plugin %s failed to unload: %w", entry.def.Name, err)
		}
	}
	if _, err := cat.UnloadPlugin(id); err != nil {
		return err
	}
	if err := entry.lib.close(); err != nil {
		return fmt.Errorf("failed to release plugin %s: %w", entry.def.Name, err)
	}
	delete(h.loaded, id)
	return nil
}
