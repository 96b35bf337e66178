package function

import (
	"fmt"
	"math"

	"github.com/brody715/lumidb/pkg/table"
	"github.com/brody715/lumidb/pkg/value"
)

// queryBuiltins implements the query/select/where/limit/sort/min/max/avg
// pipeline of spec.md §4.D. where() is shared with the update and delete
// pipelines (dml_update.go, dml_delete.go): it switches on the baton's
// concrete type to decide whether to filter a table in place or
// accumulate an AND filter.
func queryBuiltins() []*Function {
	return []*Function{
		queryFunction(), selectFunction(), whereFunction(), limitFunction(),
		sortFunction(), sortDescFunction(), minFunction(), maxFunction(), avgFunction(),
	}
}

func queryFunction() *Function {
	return &Function{
		Name:        "query",
		Signature:   Fixed(value.TypeString),
		CanRoot:     true,
		Description: "start a read pipeline over a table",
		ExecuteRoot: func(ctx *RootExecContext) error {
			t, err := ctx.Catalog.GetTable(ctx.Args[0].Str())
			if err != nil {
				return err
			}
			ctx.Baton = &QueryData{Table: t}
			return nil
		},
		FinalizeRoot: func(ctx *FinalizeContext) error {
			ctx.Result = ctx.Baton.(*QueryData).Table
			return nil
		},
	}
}

func selectFunction() *Function {
	return &Function{
		Name:        "select",
		Signature:   Variadic(value.TypeString),
		CanLeaf:     true,
		Description: "project the pending result down to the named fields",
		ExecuteLeaf: func(ctx *LeafExecContext) error {
			data, ok := ctx.Baton.(*QueryData)
			if !ok {
				return fmt.Errorf("select must follow query")
			}
			names := argsToStrings(ctx.Args)
			t, err := data.Table.Select(names)
			if err != nil {
				return err
			}
			data.Table = t
			return nil
		},
	}
}

func whereFunction() *Function {
	return &Function{
		Name:        "where",
		Signature:   Fixed(value.TypeString, value.TypeString, value.TypeAny),
		CanLeaf:     true,
		Description: "filter rows by a comparison, or accumulate an AND filter under update/delete",
		ExecuteLeaf: func(ctx *LeafExecContext) error {
			field, op, target := ctx.Args[0].Str(), ctx.Args[1].Str(), ctx.Args[2]
			cmp, err := value.GetComparator(op)
			if err != nil {
				return err
			}

			switch data := ctx.Baton.(type) {
			case *QueryData:
				idx := data.Table.Schema().IndexOf(field)
				if idx < 0 {
					return fmt.Errorf("unknown field: %s", field)
				}
				data.Table = data.Table.Filter(func(row table.Row, _ int) bool {
					return cmp(row[idx], target)
				})
			case *UpdateData:
				idx := data.Table.Schema().IndexOf(field)
				if idx < 0 {
					return fmt.Errorf("unknown field: %s", field)
				}
				data.Filters = append(data.Filters, func(row table.Row, _ int) bool {
					return cmp(row[idx], target)
				})
			case *DeleteData:
				idx := data.Table.Schema().IndexOf(field)
				if idx < 0 {
					return fmt.Errorf("unknown field: %s", field)
				}
				data.Filters = append(data.Filters, func(row table.Row, _ int) bool {
					return cmp(row[idx], target)
				})
			default:
				return fmt.Errorf("where must follow query, update, or delete")
			}
			return nil
		},
	}
}

func limitFunction() *Function {
	return &Function{
		Name:        "limit",
		Signature:   Fixed(value.TypeFloat),
		CanLeaf:     true,
		Description: "keep at most the given number of rows from the start of the pending result",
		ExecuteLeaf: func(ctx *LeafExecContext) error {
			data, ok := ctx.Baton.(*QueryData)
			if !ok {
				return fmt.Errorf("limit must follow query")
			}
			count := int(math.Trunc(float64(ctx.Args[0].Float())))
			if count < 0 {
				return fmt.Errorf("limit must not be negative")
			}
			data.Table = data.Table.Limit(0, count)
			return nil
		},
	}
}

func sortBy(ctx *LeafExecContext, ascending bool) error {
	data, ok := ctx.Baton.(*QueryData)
	if !ok {
		return fmt.Errorf("sort must follow query")
	}
	names := argsToStrings(ctx.Args)
	if len(names) == 0 {
		return fmt.Errorf("sort requires at least one field")
	}
	t, err := data.Table.Sort(names, ascending)
	if err != nil {
		return err
	}
	data.Table = t
	return nil
}

func sortFunction() *Function {
	return &Function{
		Name:        "sort",
		Signature:   Variadic(value.TypeString),
		CanLeaf:     true,
		Description: "sort the pending result ascending by the named fields",
		ExecuteLeaf: func(ctx *LeafExecContext) error { return sortBy(ctx, true) },
	}
}

func sortDescFunction() *Function {
	return &Function{
		Name:        "sort_desc",
		Signature:   Variadic(value.TypeString),
		CanLeaf:     true,
		Description: "sort the pending result descending by the named fields",
		ExecuteLeaf: func(ctx *LeafExecContext) error { return sortBy(ctx, false) },
	}
}

func minFunction() *Function {
	return &Function{
		Name:        "min",
		Signature:   Variadic(value.TypeString),
		CanLeaf:     true,
		Description: "reduce the pending result to a one-row table of per-field minimums",
		ExecuteLeaf: func(ctx *LeafExecContext) error {
			return foldFields(ctx, "min", func(acc, v value.Value) value.Value {
				if v.IsNull() {
					return acc
				}
				if acc.IsNull() || v.Less(acc) {
					return v
				}
				return acc
			})
		},
	}
}

func maxFunction() *Function {
	return &Function{
		Name:        "max",
		Signature:   Variadic(value.TypeString),
		CanLeaf:     true,
		Description: "reduce the pending result to a one-row table of per-field maximums",
		ExecuteLeaf: func(ctx *LeafExecContext) error {
			return foldFields(ctx, "max", func(acc, v value.Value) value.Value {
				if v.IsNull() {
					return acc
				}
				if acc.IsNull() || v.Greater(acc) {
					return v
				}
				return acc
			})
		},
	}
}

// foldFields implements the shared shape of min/max: one output column
// per requested field named "op(field)", folded independently over the
// field's own values with nulls skipped (spec.md §4.D: "min ignores
// nulls after the first non-null seed").
func foldFields(ctx *LeafExecContext, op string, fold func(acc, v value.Value) value.Value) error {
	data, ok := ctx.Baton.(*QueryData)
	if !ok {
		return fmt.Errorf("%s must follow query", op)
	}
	names := argsToStrings(ctx.Args)
	if len(names) == 0 {
		return fmt.Errorf("%s requires at least one field", op)
	}

	schema := data.Table.Schema()
	indices := make([]int, len(names))
	outFields := make([]table.Field, len(names))
	for i, name := range names {
		idx := schema.IndexOf(name)
		if idx < 0 {
			return fmt.Errorf("unknown field: %s", name)
		}
		indices[i] = idx
		outFields[i] = table.Field{Name: fmt.Sprintf("%s(%s)", op, name), Type: schema.Fields()[idx].Type}
	}

	accs := make([]value.Value, len(names))
	for i := range accs {
		accs[i] = value.Null
	}
	for _, row := range data.Table.Rows() {
		for i, idx := range indices {
			accs[i] = fold(accs[i], row[idx])
		}
	}

	outSchema, err := table.NewSchema(outFields)
	if err != nil {
		return err
	}
	out := table.New(data.Table.Name(), outSchema)
	if err := out.AddRow(table.Row(accs)); err != nil {
		return err
	}
	data.Table = out
	return nil
}

func avgFunction() *Function {
	return &Function{
		Name:        "avg",
		Signature:   Variadic(value.TypeString),
		CanLeaf:     true,
		Description: "reduce the pending result to a one-row table of per-field averages",
		ExecuteLeaf: func(ctx *LeafExecContext) error {
			data, ok := ctx.Baton.(*QueryData)
			if !ok {
				return fmt.Errorf("avg must follow query")
			}
			names := argsToStrings(ctx.Args)
			if len(names) == 0 {
				return fmt.Errorf("avg requires at least one field")
			}

			schema := data.Table.Schema()
			indices := make([]int, len(names))
			outFields := make([]table.Field, len(names))
			for i, name := range names {
				idx := schema.IndexOf(name)
				if idx < 0 {
					return fmt.Errorf("unknown field: %s", name)
				}
				f := schema.Fields()[idx]
				if !f.Type.IsSubtypeOf(value.TypeNullableFloat) {
					return fmt.Errorf("avg field %q must be float or float?, got %s", name, f.Type)
				}
				indices[i] = idx
				outFields[i] = table.Field{Name: fmt.Sprintf("avg(%s)", name), Type: value.TypeFloat}
			}

			sums := make([]float32, len(names))
			total := data.Table.NumRows()
			for _, row := range data.Table.Rows() {
				for i, idx := range indices {
					if v := row[idx]; !v.IsNull() {
						sums[i] += v.Float()
					}
				}
			}

			outSchema, err := table.NewSchema(outFields)
			if err != nil {
				return err
			}
			out := table.New(data.Table.Name(), outSchema)
			row := make(table.Row, len(names))
			for i, sum := range sums {
				if total == 0 {
					row[i] = value.FromFloat(0)
					continue
				}
				row[i] = value.FromFloat(sum / float32(total))
			}
			if err := out.AddRow(row); err != nil {
				return err
			}
			data.Table = out
			return nil
		},
	}
}

func argsToStrings(args []value.Value) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = a.Str()
	}
	return out
}
