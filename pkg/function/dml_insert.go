package function

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/brody715/lumidb/pkg/table"
	"github.com/brody715/lumidb/pkg/value"
)

// insertBuiltins implements the insert / add_row / load_csv pipeline of
// spec.md §4.D. load_csv uses the standard library encoding/csv reader
// deliberately: no repo in the retrieval pack pulls in a third-party
// CSV engine, so this is the one component where stdlib wins without a
// real alternative to wire.
func insertBuiltins() []*Function {
	return []*Function{insertFunction(), addRowFunction(), loadCSVFunction()}
}

func insertFunction() *Function {
	return &Function{
		Name:        "insert",
		Signature:   Fixed(value.TypeString),
		CanRoot:     true,
		Description: "open a table for row insertion",
		ExecuteRoot: func(ctx *RootExecContext) error {
			t, err := ctx.Catalog.GetTable(ctx.Args[0].Str())
			if err != nil {
				return err
			}
			ctx.Baton = &InsertData{Table: t}
			return nil
		},
		FinalizeRoot: func(ctx *FinalizeContext) error {
			data := ctx.Baton.(*InsertData)
			if err := data.Table.AddRowList(data.Rows); err != nil {
				return err
			}
			ctx.Result = data.Table
			return nil
		},
	}
}

func addRowFunction() *Function {
	return &Function{
		Name:        "add_row",
		Signature:   Variadic(value.TypeAny),
		CanLeaf:     true,
		Description: "append one row of literal values to the pending insert",
		ExecuteLeaf: func(ctx *LeafExecContext) error {
			data, ok := ctx.Baton.(*InsertData)
			if !ok {
				return fmt.Errorf("add_row must follow insert")
			}
			row := table.Row(ctx.Args)
			if err := data.Table.Schema().CheckRow(row); err != nil {
				return err
			}
			data.Rows = append(data.Rows, row)
			return nil
		},
	}
}

func loadCSVFunction() *Function {
	return &Function{
		Name:        "load_csv",
		Signature:   Fixed(value.TypeString),
		CanLeaf:     true,
		Description: "append every row of a CSV file to the pending insert",
		ExecuteLeaf: func(ctx *LeafExecContext) error {
			data, ok := ctx.Baton.(*InsertData)
			if !ok {
				return fmt.Errorf("load_csv must follow insert")
			}
			rows, err := readCSVRows(ctx.Args[0].Str(), data.Table.Schema())
			if err != nil {
				return err
			}
			data.Rows = append(data.Rows, rows...)
			return nil
		},
	}
}

// readCSVRows implements spec.md §6's CSV format: comma-delimited,
// first row headers, headers must be a permutation of the schema's
// field names, each cell parsed with value.ParseFromString against its
// field's type.
func readCSVRows(path string, schema *table.Schema) ([]table.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	fields := schema.Fields()
	if len(header) != len(fields) {
		return nil, fmt.Errorf("csv header has %d columns, schema has %d fields", len(header), len(fields))
	}
	colToField := make([]int, len(header))
	seen := make(map[int]bool, len(header))
	for i, h := range header {
		idx := schema.IndexOf(strings.TrimSpace(h))
		if idx < 0 {
			return nil, fmt.Errorf("csv header %q is not a field of this table", h)
		}
		if seen[idx] {
			return nil, fmt.Errorf("csv header %q appears more than once", h)
		}
		seen[idx] = true
		colToField[i] = idx
	}

	var rows []table.Row
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		if len(rec) != len(header) {
			return nil, fmt.Errorf("csv row has %d fields, header has %d", len(rec), len(header))
		}
		row := make(table.Row, len(fields))
		for i, cell := range rec {
			fieldIdx := colToField[i]
			v, err := value.ParseFromString(fields[fieldIdx].Type, strings.TrimSpace(cell))
			if err != nil {
				return nil, err
			}
			row[fieldIdx] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}
