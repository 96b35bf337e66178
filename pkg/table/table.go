package table

import (
	"fmt"
	"sort"

	"github.com/brody715/lumidb/pkg/value"
)

// Row is a single record: one value per schema field.
type Row []value.Value

// Clone returns a copy of the row so callers holding an update closure
// cannot alias internal storage.
func (r Row) Clone() Row {
	cp := make(Row, len(r))
	copy(cp, r)
	return cp
}

// Table is a named, mutable row store owned by the catalog until dropped.
// spec.md §3: rows are an ordered, mutable sequence; insertion order is
// stable and is the default iteration order.
type Table struct {
	name   string
	schema *Schema
	rows   []Row
}

// New creates an empty table with the given name and schema.
func New(name string, schema *Schema) *Table {
	return &Table{name: name, schema: schema}
}

func (t *Table) Name() string     { return t.name }
func (t *Table) Schema() *Schema  { return t.schema }
func (t *Table) NumRows() int     { return len(t.rows) }

// Rows returns the underlying row slice. Callers in this package treat
// it as read-only unless they hold the catalog's write lock.
func (t *Table) Rows() []Row { return t.rows }

// AddRow validates row against the schema and, only if it checks out,
// appends it.
func (t *Table) AddRow(row Row) error {
	if err := t.schema.CheckRow(row); err != nil {
		return err
	}
	t.rows = append(t.rows, row)
	return nil
}

// AddRowList validates every row first — the table is never partially
// mutated if any row in the batch is invalid — then commits them all.
func (t *Table) AddRowList(rows []Row) error {
	for i, row := range rows {
		if err := t.schema.CheckRow(row); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	t.rows = append(t.rows, rows...)
	return nil
}

// Predicate decides whether a row (and its index) matches.
type Predicate func(row Row, index int) bool

// Mutator mutates a row in place.
type Mutator func(row Row)

// UpdateRows applies mutate in place to every row for which pred
// returns true.
func (t *Table) UpdateRows(pred Predicate, mutate Mutator) error {
	for i, row := range t.rows {
		if pred(row, i) {
			mutate(row)
		}
	}
	return nil
}

// DeleteRows retains rows for which pred returns false, preserving
// order. It always mutates the table and returns only an error — the
// spec.md §9 open question about delete_rows's inconsistent return
// value is resolved this way, matching AddRow/UpdateRows.
func (t *Table) DeleteRows(pred Predicate) error {
	kept := t.rows[:0:0]
	for i, row := range t.rows {
		if !pred(row, i) {
			kept = append(kept, row)
		}
	}
	t.rows = kept
	return nil
}

// Select produces a new table with a new schema containing only the
// chosen fields, in the given order.
func (t *Table) Select(names []string) (*Table, error) {
	schema, indices, err := t.schema.Select(names)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, len(t.rows))
	for i, row := range t.rows {
		nr := make(Row, len(indices))
		for j, idx := range indices {
			nr[j] = row[idx]
		}
		rows[i] = nr
	}
	return &Table{name: t.name, schema: schema, rows: rows}, nil
}

// Filter produces a new table, same schema, keeping rows for which pred
// is true.
func (t *Table) Filter(pred Predicate) *Table {
	var rows []Row
	for i, row := range t.rows {
		if pred(row, i) {
			rows = append(rows, row)
		}
	}
	return &Table{name: t.name, schema: t.schema, rows: rows}
}

// Sort produces a new table whose rows are ordered by a stable
// lexicographic comparison across the chosen fields: ties fall through
// to the next field; if all are equal, relative order is unchanged.
func (t *Table) Sort(names []string, ascending bool) (*Table, error) {
	indices := make([]int, len(names))
	for i, name := range names {
		idx := t.schema.IndexOf(name)
		if idx < 0 {
			return nil, fmt.Errorf("unknown field: %s", name)
		}
		indices[i] = idx
	}

	rows := make([]Row, len(t.rows))
	copy(rows, t.rows)

	sort.SliceStable(rows, func(i, j int) bool {
		for _, idx := range indices {
			cmp := rows[i][idx].Compare(rows[j][idx])
			if cmp == 0 {
				continue
			}
			if ascending {
				return cmp < 0
			}
			return cmp > 0
		}
		return false
	})

	return &Table{name: t.name, schema: t.schema, rows: rows}, nil
}

// Limit returns rows in [offset, offset+count), clipped at the end.
func (t *Table) Limit(offset, count int) *Table {
	n := len(t.rows)
	start := offset
	if start > n {
		start = n
	}
	end := start + count
	if end > n {
		end = n
	}
	rows := make([]Row, end-start)
	copy(rows, t.rows[start:end])
	return &Table{name: t.name, schema: t.schema, rows: rows}
}

// Aggregate left-folds over the rows, producing a single value.
func (t *Table) Aggregate(init value.Value, fold func(acc value.Value, row Row) value.Value) value.Value {
	acc := init
	for _, row := range t.rows {
		acc = fold(acc, row)
	}
	return acc
}
