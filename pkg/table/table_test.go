package table

import (
	"testing"

	"github.com/brody715/lumidb/pkg/value"
)

func newTestTable(t *testing.T) *Table {
	schema, err := NewSchema([]Field{
		{Name: "name", Type: value.TypeString},
		{Name: "age", Type: value.TypeFloat},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tbl := New("stu", schema)
	if err := tbl.AddRow(Row{value.FromString("Ada"), value.FromFloat(36)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tbl.AddRow(Row{value.FromString("Lin"), value.FromFloat(22)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return tbl
}

func TestAddRowRejectsSchemaMismatch(t *testing.T) {
	tbl := newTestTable(t)
	if err := tbl.AddRow(Row{value.FromFloat(1), value.FromFloat(2)}); err == nil {
		t.Error("expected schema mismatch error")
	}
	if tbl.NumRows() != 2 {
		t.Errorf("failed add should not mutate table, got %d rows", tbl.NumRows())
	}
}

func TestAddRowListIsAllOrNothing(t *testing.T) {
	tbl := newTestTable(t)
	bad := []Row{
		{value.FromString("Kim"), value.FromFloat(40)},
		{value.FromString("Bad")}, // wrong arity
	}
	if err := tbl.AddRowList(bad); err == nil {
		t.Fatal("expected error")
	}
	if tbl.NumRows() != 2 {
		t.Errorf("partial batch should not have been committed, got %d rows", tbl.NumRows())
	}
}

func TestSelect(t *testing.T) {
	tbl := newTestTable(t)
	sel, err := tbl.Select([]string{"name"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Schema().Len() != 1 || sel.Schema().Names()[0] != "name" {
		t.Fatalf("unexpected schema: %v", sel.Schema().Names())
	}
	if sel.Rows()[0][0].Str() != "Ada" || sel.Rows()[1][0].Str() != "Lin" {
		t.Errorf("unexpected rows: %v", sel.Rows())
	}
}

func TestFilterAndSortDesc(t *testing.T) {
	tbl := newTestTable(t)
	filtered := tbl.Filter(func(row Row, _ int) bool {
		return row[1].Float() > 25
	})
	sorted, err := filtered.Sort([]string{"age"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sorted.NumRows() != 1 || sorted.Rows()[0][0].Str() != "Ada" {
		t.Errorf("unexpected rows: %v", sorted.Rows())
	}
}

func TestLimitClipsAtEnd(t *testing.T) {
	tbl := newTestTable(t)
	limited := tbl.Limit(0, 100)
	if limited.NumRows() != 2 {
		t.Errorf("expected clip to 2 rows, got %d", limited.NumRows())
	}
}

func TestUpdateRowsMutatesInPlace(t *testing.T) {
	tbl := newTestTable(t)
	err := tbl.UpdateRows(
		func(row Row, _ int) bool { return row[0].Str() == "Lin" },
		func(row Row) { row[1] = value.FromFloat(99) },
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.Rows()[1][1].Float() != 99 {
		t.Errorf("expected update to apply, got %v", tbl.Rows()[1])
	}
	if tbl.Rows()[0][1].Float() != 36 {
		t.Errorf("unrelated row should be untouched, got %v", tbl.Rows()[0])
	}
}

func TestDeleteRowsPreservesOrder(t *testing.T) {
	tbl := newTestTable(t)
	if err := tbl.AddRow(Row{value.FromString("Kim"), value.FromFloat(40)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tbl.DeleteRows(func(row Row, _ int) bool { return row[0].Str() == "Lin" }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.NumRows() != 2 {
		t.Fatalf("expected 2 rows after delete, got %d", tbl.NumRows())
	}
	if tbl.Rows()[0][0].Str() != "Ada" || tbl.Rows()[1][0].Str() != "Kim" {
		t.Errorf("unexpected order after delete: %v", tbl.Rows())
	}
}

func TestAggregate(t *testing.T) {
	tbl := newTestTable(t)
	sum := tbl.Aggregate(value.FromFloat(0), func(acc value.Value, row Row) value.Value {
		return value.FromFloat(acc.Float() + row[1].Float())
	})
	if sum.Float() != 58 {
		t.Errorf("expected sum 58, got %v", sum.Float())
	}
}
