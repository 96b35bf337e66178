// Package function defines the pipeline function contract of spec.md
// §4.D: signatures, the root/leaf callback record, and the execution
// contexts the engine builds around each pipeline stage. It is kept free
// of any dependency on the catalog package (which stores Function
// values) by describing the catalog access a function needs through a
// narrow interface rather than a concrete type — the usual Go way to
// avoid an import cycle between "the registry" and "what's registered".
package function

import (
	"fmt"

	"github.com/brody715/lumidb/pkg/table"
	"github.com/brody715/lumidb/pkg/value"
)

// Signature is FunctionSignature from spec.md §3: either a fixed
// positional list of types, or a single type repeated for every
// argument (variadic, zero args allowed).
type Signature struct {
	fixed    []value.Type
	variadic *value.Type
}

// Fixed builds a Signature requiring exactly these types in order.
func Fixed(types ...value.Type) Signature {
	return Signature{fixed: types}
}

// Variadic builds a Signature accepting zero or more arguments, all of
// the given element type.
func Variadic(elem value.Type) Signature {
	return Signature{variadic: &elem}
}

// Check validates args against the signature, per spec.md §3.
func (s Signature) Check(args []value.Value) error {
	if s.variadic != nil {
		for i, a := range args {
			if !a.InstanceOf(*s.variadic) {
				return fmt.Errorf("argument %d type mismatch, expected %s, got %s", i+1, *s.variadic, a.Type())
			}
		}
		return nil
	}
	if len(args) != len(s.fixed) {
		return fmt.Errorf("expected %d arguments, got %d", len(s.fixed), len(args))
	}
	for i, t := range s.fixed {
		if !args[i].InstanceOf(t) {
			return fmt.Errorf("argument %d type mismatch, expected %s, got %s", i+1, t, args[i].Type())
		}
	}
	return nil
}

// String renders a human-readable signature for show_functions, e.g.
// "(string, float)" or "(any...)".
func (s Signature) String() string {
	if s.variadic != nil {
		return fmt.Sprintf("(%s...)", *s.variadic)
	}
	parts := make([]string, len(s.fixed))
	for i, t := range s.fixed {
		parts[i] = t.String()
	}
	out := "("
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out + ")"
}

// Catalog is the narrow view of the database catalog a built-in
// function needs: table lookup and mutation. The concrete
// *catalog.Catalog type satisfies this structurally.
type Catalog interface {
	GetTable(name string) (*table.Table, error)
	CreateTable(t *table.Table) error
	DropTable(name string) error
	ListTables() []string
	ListFunctionDescriptors() []Descriptor
	ListPluginDescriptors() []PluginDescriptor

	// RegisterFunctionList/UnregisterFunctionList are exposed so a
	// plugin's on_load/on_unload hook (which only ever sees this
	// narrow interface, never the concrete catalog type) can register
	// and retract the functions it contributes, per spec.md §4.H.
	RegisterFunctionList(fns []*Function) error
	UnregisterFunctionList(names []string) error

	LoadPlugin(p *PluginRecord) (id string, err error)
	UnloadPlugin(id string) (*PluginRecord, error)
}

// PluginRecord is the catalog's stored metadata for one loaded plugin.
// The plugin host builds one and hands it to Catalog.LoadPlugin; it
// cannot be the concrete catalog.Plugin type because that would import
// this package, creating a cycle (catalog stores Function values).
type PluginRecord struct {
	Name        string
	Version     string
	Description string
	LoadPath    string
}

// Descriptor is the read-only view of a registered function, used by
// show_functions and the auto-completer.
type Descriptor struct {
	Name        string
	Signature   string
	CanRoot     bool
	CanLeaf     bool
	Description string
}

// PluginDescriptor is the read-only view of a loaded plugin, used by
// show_plugins / load_plugin / unload_plugin.
type PluginDescriptor struct {
	ID          string
	Name        string
	Version     string
	Description string
	LoadPath    string
}

// PluginLoader is the narrow view of the plugin host that load_plugin
// and unload_plugin need. Declaring it here (rather than importing the
// plugin package directly) avoids a cycle: the plugin package needs
// Function and Catalog from this package to register/unregister the
// functions a plugin contributes.
type PluginLoader interface {
	Load(path string, cat Catalog) (id string, err error)
	Unload(id string, cat Catalog) error
}

// RootExecContext is passed to execute_root.
type RootExecContext struct {
	Catalog Catalog
	Args    []value.Value
	Baton   interface{}
}

// LeafExecContext is passed to execute_leaf.
type LeafExecContext struct {
	Catalog Catalog
	Args    []value.Value
	Baton   interface{}
}

// FinalizeContext is passed to finalize_root. Result is nil until the
// callback sets it; the engine falls back to an empty table when it is
// left unset on success.
type FinalizeContext struct {
	Catalog Catalog
	Args    []value.Value
	Baton   interface{}
	Result  *table.Table
}

// Function is a record of behavior (spec.md §9: "not class
// inheritance") rather than an interface implementation, matching the
// teacher's plain-struct approach to AST/behavior records
// (pkg/sql/ast.go) adapted to carry callbacks instead of only data.
type Function struct {
	Name         string
	Signature    Signature
	CanRoot      bool
	CanLeaf      bool
	Description  string
	ExecuteRoot  func(ctx *RootExecContext) error
	ExecuteLeaf  func(ctx *LeafExecContext) error
	FinalizeRoot func(ctx *FinalizeContext) error
}

// Validate enforces the Function invariant from spec.md §3: at least
// one of CanRoot/CanLeaf must be true.
func (f *Function) Validate() error {
	if !f.CanRoot && !f.CanLeaf {
		return fmt.Errorf("function %q must be usable as a root or a leaf", f.Name)
	}
	if f.CanRoot && (f.ExecuteRoot == nil || f.FinalizeRoot == nil) {
		return fmt.Errorf("function %q declares can_root but is missing execute_root/finalize_root", f.Name)
	}
	if f.CanLeaf && f.ExecuteLeaf == nil {
		return fmt.Errorf("function %q declares can_leaf but is missing execute_leaf", f.Name)
	}
	return nil
}
