package catalog

import (
	"testing"

	"github.com/brody715/lumidb/pkg/function"
	"github.com/brody715/lumidb/pkg/table"
	"github.com/brody715/lumidb/pkg/value"
)

func newTestTable(t *testing.T, name string) *table.Table {
	t.Helper()
	schema, err := table.NewSchema([]table.Field{{Name: "k", Type: value.TypeString}})
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	return table.New(name, schema)
}

func TestCreateTableRejectsDuplicate(t *testing.T) {
	c := New()
	if err := c.CreateTable(newTestTable(t, "t")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.CreateTable(newTestTable(t, "t")); err == nil {
		t.Error("expected error creating duplicate table")
	}
}

func TestDropNonexistentTableIsNoop(t *testing.T) {
	c := New()
	before := c.Version()
	if err := c.DropTable("missing"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Version() != before {
		t.Errorf("dropping a nonexistent table must not bump the version")
	}
}

func TestVersionIncrementsByOnePerMutation(t *testing.T) {
	c := New()
	before := c.Version()
	if err := c.CreateTable(newTestTable(t, "t")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Version() != before+1 {
		t.Errorf("version = %d, want %d", c.Version(), before+1)
	}
}

func TestListTablesPreservesInsertionOrder(t *testing.T) {
	c := New()
	for _, name := range []string{"c", "a", "b"} {
		if err := c.CreateTable(newTestTable(t, name)); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	got := c.ListTables()
	want := []string{"c", "a", "b"}
	for i, name := range want {
		if got[i] != name {
			t.Errorf("ListTables()[%d] = %s, want %s", i, got[i], name)
		}
	}
}

func rootOnlyFunction(name string) *function.Function {
	return &function.Function{
		Name:         name,
		CanRoot:      true,
		ExecuteRoot:  func(ctx *function.RootExecContext) error { return nil },
		FinalizeRoot: func(ctx *function.FinalizeContext) error { return nil },
	}
}

func TestRegisterFunctionListIsAllOrNothing(t *testing.T) {
	c := New()
	if err := c.RegisterFunction(rootOnlyFunction("f1")); err != nil {
		t.Fatalf("register f1: %v", err)
	}
	before := c.Version()

	err := c.RegisterFunctionList([]*function.Function{rootOnlyFunction("f2"), rootOnlyFunction("f1")})
	if err == nil {
		t.Fatal("expected error registering a batch containing a duplicate name")
	}
	if c.Version() != before {
		t.Errorf("failed batch registration must not bump the version")
	}
	if _, err := c.GetFunction("f2"); err == nil {
		t.Error("f2 must not have been registered as part of the failed batch")
	}
}

func TestRegisterFunctionListBumpsVersionOnce(t *testing.T) {
	c := New()
	before := c.Version()
	if err := c.RegisterFunctionList([]*function.Function{rootOnlyFunction("f1"), rootOnlyFunction("f2")}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if c.Version() != before+1 {
		t.Errorf("version = %d, want %d", c.Version(), before+1)
	}
}

func TestUnregisterFunctionListSkipsMissingNames(t *testing.T) {
	c := New()
	_ = c.RegisterFunction(rootOnlyFunction("f1"))
	before := c.Version()
	if err := c.UnregisterFunctionList([]string{"missing"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Version() != before {
		t.Errorf("unregistering only missing names must not bump the version")
	}
	if err := c.UnregisterFunctionList([]string{"f1", "missing"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Version() != before+1 {
		t.Errorf("version = %d, want %d", c.Version(), before+1)
	}
}

func TestLoadAndUnloadPlugin(t *testing.T) {
	c := New()
	id, err := c.LoadPlugin(&function.PluginRecord{Name: "timer", Version: "1.0"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if id == "" {
		t.Fatal("expected a non-empty generated id")
	}
	if _, err := c.GetPlugin(id); err != nil {
		t.Fatalf("expected loaded plugin to be retrievable: %v", err)
	}

	p, err := c.UnloadPlugin(id)
	if err != nil || p == nil {
		t.Fatalf("unload: p=%v err=%v", p, err)
	}
	if _, err := c.GetPlugin(id); err == nil {
		t.Error("expected unloaded plugin to be gone")
	}
}

func TestUnloadUnknownPluginIsNoop(t *testing.T) {
	c := New()
	p, err := c.UnloadPlugin("999")
	if err != nil || p != nil {
		t.Errorf("expected (nil, nil) for unknown plugin id, got (%v, %v)", p, err)
	}
}
