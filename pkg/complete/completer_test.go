package complete

import (
	"testing"

	"github.com/brody715/lumidb/pkg/catalog"
	"github.com/brody715/lumidb/pkg/function"
	"github.com/brody715/lumidb/pkg/table"
	"github.com/brody715/lumidb/pkg/value"
)

func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat := catalog.New()
	if err := cat.RegisterFunctionList(function.Builtins(nil)); err != nil {
		t.Fatalf("register builtins: %v", err)
	}
	schema, err := table.NewSchema([]table.Field{
		{Name: "id", Type: value.TypeFloat},
		{Name: "name", Type: value.TypeString},
	})
	if err != nil {
		t.Fatalf("new schema: %v", err)
	}
	tbl := table.New("users", schema)
	if err := cat.CreateTable(tbl); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return cat
}

func doResults(c *Completer, line string) []string {
	runes := []rune(line)
	newLine, length := c.Do(runes, len(runes))
	out := make([]string, len(newLine))
	prefix := string(runes[len(runes)-length:])
	for i, suffix := range newLine {
		out[i] = prefix + string(suffix)
	}
	return out
}

func TestCompleterSuggestsFunctionsOutsideString(t *testing.T) {
	c := NewCompleter(newTestCatalog(t))
	got := doResults(c, "sor")
	found := false
	for _, g := range got {
		if g == "sort_by" || g == "sort_desc" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a sort_* completion for %q, got %v", "sor", got)
	}
}

func TestCompleterSuggestsIdentifiersInsideString(t *testing.T) {
	c := NewCompleter(newTestCatalog(t))
	got := doResults(c, `select("na`)
	found := false
	for _, g := range got {
		if g == "name" || g == "users.name" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an identifier completion for %q, got %v", `select("na`, got)
	}
}

func TestCompleterRebuildsOnCatalogVersionChange(t *testing.T) {
	cat := newTestCatalog(t)
	c := NewCompleter(cat)
	_ = doResults(c, "us")

	schema, _ := table.NewSchema([]table.Field{{Name: "id", Type: value.TypeFloat}})
	if err := cat.CreateTable(table.New("orders", schema)); err != nil {
		t.Fatalf("create table: %v", err)
	}

	got := doResults(c, `select("orde`)
	found := false
	for _, g := range got {
		if g == "orders" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected completer to pick up a table created after construction, got %v", got)
	}
}
