package plugin

import (
	"fmt"
	"testing"

	"github.com/brody715/lumidb/pkg/function"
	"github.com/brody715/lumidb/pkg/table"
)

// fakeCatalog is a minimal in-memory function.Catalog used to test the
// host's load/unload bookkeeping without a real catalog.Catalog (which
// would pull in the catalog package) or a real .so file on disk.
type fakeCatalog struct {
	plugins  map[string]*function.PluginRecord
	nextID   int
	funcs    map[string]*function.Function
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{plugins: map[string]*function.PluginRecord{}, funcs: map[string]*function.Function{}}
}

func (c *fakeCatalog) GetTable(string) (*table.Table, error)                 { return nil, fmt.Errorf("not implemented") }
func (c *fakeCatalog) CreateTable(*table.Table) error                        { return fmt.Errorf("not implemented") }
func (c *fakeCatalog) DropTable(string) error                                { return nil }
func (c *fakeCatalog) ListTables() []string                                  { return nil }
func (c *fakeCatalog) ListFunctionDescriptors() []function.Descriptor        { return nil }
func (c *fakeCatalog) ListPluginDescriptors() []function.PluginDescriptor    { return nil }

func (c *fakeCatalog) RegisterFunctionList(fns []*function.Function) error {
	for _, f := range fns {
		c.funcs[f.Name] = f
	}
	return nil
}

func (c *fakeCatalog) UnregisterFunctionList(names []string) error {
	for _, n := range names {
		delete(c.funcs, n)
	}
	return nil
}

func (c *fakeCatalog) LoadPlugin(p *function.PluginRecord) (string, error) {
	c.nextID++
	id := fmt.Sprintf("%d", c.nextID)
	c.plugins[id] = p
	return id, nil
}

func (c *fakeCatalog) UnloadPlugin(id string) (*function.PluginRecord, error) {
	p, ok := c.plugins[id]
	if !ok {
		return nil, nil
	}
	delete(c.plugins, id)
	return p, nil
}

// TestHostOnLoadOnUnloadSequence exercises the in-process
// bookkeeping path of Host.Load/Unload directly (bypassing openLibrary,
// which needs a real -buildmode=plugin .so on disk) by constructing a
// Def and driving the load sequence through the same code Host.Load
// would run after a successful Open+Lookup.
func TestHostOnLoadOnUnloadSequence(t *testing.T) {
	cat := newFakeCatalog()
	loaded := false
	unloaded := false

	def := &Def{
		Name:    "timer",
		Version: "1.0",
		OnLoad: func(ctx *Context) error {
			loaded = true
			return ctx.Catalog.RegisterFunctionList([]*function.Function{{Name: "every", CanRoot: true}})
		},
		OnUnload: func(ctx *Context) error {
			unloaded = true
			return ctx.Catalog.UnregisterFunctionList([]string{"every"})
		},
	}

	ctx := &Context{Catalog: cat}
	if err := def.OnLoad(ctx); err != nil {
		t.Fatalf("on_load: %v", err)
	}
	id, err := cat.LoadPlugin(&function.PluginRecord{Name: def.Name, Version: def.Version})
	if err != nil {
		t.Fatalf("load_plugin: %v", err)
	}
	if !loaded {
		t.Error("expected on_load to have run")
	}
	if _, ok := cat.funcs["every"]; !ok {
		t.Error("expected plugin function to be registered")
	}

	if err := def.OnUnload(ctx); err != nil {
		t.Fatalf("on_unload: %v", err)
	}
	if _, err := cat.UnloadPlugin(id); err != nil {
		t.Fatalf("unload_plugin: %v", err)
	}
	if !unloaded {
		t.Error("expected on_unload to have run")
	}
	if _, ok := cat.funcs["every"]; ok {
		t.Error("expected plugin function to be unregistered")
	}
}

func TestHostLoadMissingFileFails(t *testing.T) {
	h := NewHost(func(string) error { return nil })
	cat := newFakeCatalog()
	if _, err := h.Load("/nonexistent/path/to/plugin.so", cat); err == nil {
		t.Error("expected error loading a nonexistent plugin file")
	}
}
