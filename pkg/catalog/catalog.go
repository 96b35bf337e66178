// Package catalog is the in-memory registry of tables, functions, and
// loaded plugins, grounded on the teacher's pkg/catalog/catalog.go
// (mutex-guarded maps, CreateTable/DropTable/GetTable/ListTables shape).
// The teacher persists every mutation to a catalog.json file; that is
// dropped here since spec.md excludes on-disk persistence, and replaced
// with a monotonic version counter the completer and REPL poll instead.
package catalog

import (
	"strconv"
	"sync"

	"github.com/brody715/lumidb/pkg/errs"
	"github.com/brody715/lumidb/pkg/function"
	"github.com/brody715/lumidb/pkg/table"
)

// Catalog is the shared, thread-safe registry described in spec.md
// §4.F: three name/id-keyed maps plus a version counter bumped on every
// structural mutation (create/drop table, register/unregister function,
// load/unload plugin).
type Catalog struct {
	mu sync.RWMutex

	tables      map[string]*table.Table
	tableOrder  orderedKeys
	functions   map[string]*function.Function
	funcOrder   orderedKeys
	plugins     map[string]*function.PluginRecord
	pluginOrder orderedKeys

	nextPluginID int64
	version      int64
}

// New returns an empty Catalog.
func New() *Catalog {
	return &Catalog{
		tables:    make(map[string]*table.Table),
		functions: make(map[string]*function.Function),
		plugins:   make(map[string]*function.PluginRecord),
	}
}

// Version returns the current catalog version. It changes exactly once
// per successful structural mutation.
func (c *Catalog) Version() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// --- Tables ---

// CreateTable registers t under its own name. Fails if a table with
// that name already exists.
func (c *Catalog) CreateTable(t *table.Table) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.tables[t.Name()]; exists {
		return errs.New("table %q already exists", t.Name())
	}
	c.tables[t.Name()] = t
	c.tableOrder.add(t.Name())
	c.version++
	return nil
}

// DropTable removes a table. Dropping a nonexistent table is a no-op
// returning success with no version bump, per spec.md §4.F.
func (c *Catalog) DropTable(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.tables[name]; !exists {
		return nil
	}
	delete(c.tables, name)
	c.tableOrder.remove(name)
	c.version++
	return nil
}

// GetTable looks up a table by name.
func (c *Catalog) GetTable(name string) (*table.Table, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, exists := c.tables[name]
	if !exists {
		return nil, errs.New("table %q does not exist", name)
	}
	return t, nil
}

// ListTables returns table names in creation order.
func (c *Catalog) ListTables() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tableOrder.snapshot()
}

// --- Functions ---

// RegisterFunction adds a single function. Fails if the name is taken.
func (c *Catalog) RegisterFunction(f *function.Function) error {
	return c.RegisterFunctionList([]*function.Function{f})
}

// RegisterFunctionList registers a batch of functions atomically: if
// any name collides with an existing or sibling entry, none are
// registered and the catalog is left unchanged. One version bump on
// success, matching the bulk all-or-nothing contract of table.AddRowList.
func (c *Catalog) RegisterFunctionList(fns []*function.Function) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[string]bool, len(fns))
	for _, f := range fns {
		if err := f.Validate(); err != nil {
			return err
		}
		if _, exists := c.functions[f.Name]; exists {
			return errs.New("function %q already exists", f.Name)
		}
		if seen[f.Name] {
			return errs.New("duplicate function %q in registration batch", f.Name)
		}
		seen[f.Name] = true
	}
	for _, f := range fns {
		c.functions[f.Name] = f
		c.funcOrder.add(f.Name)
	}
	c.version++
	return nil
}

// UnregisterFunctionList removes a batch of functions by name. Names
// that don't exist are skipped; the version bumps once iff at least one
// function was actually removed.
func (c *Catalog) UnregisterFunctionList(names []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := false
	for _, name := range names {
		if _, exists := c.functions[name]; exists {
			delete(c.functions, name)
			c.funcOrder.remove(name)
			removed = true
		}
	}
	if removed {
		c.version++
	}
	return nil
}

// GetFunction looks up a function by name.
func (c *Catalog) GetFunction(name string) (*function.Function, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, exists := c.functions[name]
	if !exists {
		return nil, errs.New("function %q does not exist", name)
	}
	return f, nil
}

// ListFunctions returns function names in registration order.
func (c *Catalog) ListFunctions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.funcOrder.snapshot()
}

// ListFunctionDescriptors implements function.Catalog for show_functions
// and the auto-completer.
func (c *Catalog) ListFunctionDescriptors() []function.Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]function.Descriptor, 0, len(c.funcOrder.keys))
	for _, name := range c.funcOrder.keys {
		f := c.functions[name]
		out = append(out, function.Descriptor{
			Name:        f.Name,
			Signature:   f.Signature.String(),
			CanRoot:     f.CanRoot,
			CanLeaf:     f.CanLeaf,
			Description: f.Description,
		})
	}
	return out
}

// --- Plugins ---

// LoadPlugin assigns a fresh id to p and registers it. The plugin host
// (pkg/plugin) calls this after its dylib is open and on_load has run,
// per spec.md §4.H's load sequence.
func (c *Catalog) LoadPlugin(p *function.PluginRecord) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextPluginID++
	id := strconv.FormatInt(c.nextPluginID, 10)
	c.plugins[id] = p
	c.pluginOrder.add(id)
	c.version++
	return id, nil
}

// UnloadPlugin removes a plugin by id and returns its record. Unloading
// a nonexistent id is a no-op returning (nil, nil).
func (c *Catalog) UnloadPlugin(id string) (*function.PluginRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, exists := c.plugins[id]
	if !exists {
		return nil, nil
	}
	delete(c.plugins, id)
	c.pluginOrder.remove(id)
	c.version++
	return p, nil
}

// GetPlugin looks up a plugin by id.
func (c *Catalog) GetPlugin(id string) (*function.PluginRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, exists := c.plugins[id]
	if !exists {
		return nil, errs.New("plugin %q is not loaded", id)
	}
	return p, nil
}

// ListPluginDescriptors implements function.Catalog for show_plugins.
func (c *Catalog) ListPluginDescriptors() []function.PluginDescriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]function.PluginDescriptor, 0, len(c.pluginOrder.keys))
	for _, id := range c.pluginOrder.keys {
		p := c.plugins[id]
		out = append(out, function.PluginDescriptor{
			ID:          id,
			Name:        p.Name,
			Version:     p.Version,
			Description: p.Description,
			LoadPath:    p.LoadPath,
		})
	}
	return out
}
