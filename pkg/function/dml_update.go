package function

import (
	"fmt"

	"github.com/brody715/lumidb/pkg/table"
	"github.com/brody715/lumidb/pkg/value"
)

// updateBuiltins implements the update/set_value pipeline of spec.md
// §4.D. where() is shared with the query pipeline (dml_query.go).
func updateBuiltins() []*Function {
	return []*Function{updateFunction(), setValueFunction()}
}

func updateFunction() *Function {
	return &Function{
		Name:        "update",
		Signature:   Fixed(value.TypeString),
		CanRoot:     true,
		Description: "open a table for in-place row updates",
		ExecuteRoot: func(ctx *RootExecContext) error {
			t, err := ctx.Catalog.GetTable(ctx.Args[0].Str())
			if err != nil {
				return err
			}
			ctx.Baton = &UpdateData{Table: t}
			return nil
		},
		FinalizeRoot: func(ctx *FinalizeContext) error {
			data := ctx.Baton.(*UpdateData)
			schema := data.Table.Schema()

			type resolved struct {
				idx int
				val value.Value
			}
			assignments := make([]resolved, len(data.Updates))
			for i, a := range data.Updates {
				idx := schema.IndexOf(a.Field)
				if idx < 0 {
					return fmt.Errorf("unknown field: %s", a.Field)
				}
				field := schema.Fields()[idx]
				if !a.Value.InstanceOf(field.Type) {
					return fmt.Errorf("field %q: value %s is not an instance of %s", a.Field, a.Value.Format(), field.Type)
				}
				assignments[i] = resolved{idx: idx, val: a.Value}
			}

			accepts := func(row table.Row, i int) bool {
				for _, f := range data.Filters {
					if !f(row, i) {
						return false
					}
				}
				return true
			}

			if err := data.Table.UpdateRows(accepts, func(row table.Row) {
				for _, a := range assignments {
					row[a.idx] = a.val
				}
			}); err != nil {
				return err
			}
			ctx.Result = data.Table
			return nil
		},
	}
}

func setValueFunction() *Function {
	return &Function{
		Name:        "set_value",
		Signature:   Fixed(value.TypeString, value.TypeAny),
		CanLeaf:     true,
		Description: "accumulate a field assignment to apply to every matched row",
		ExecuteLeaf: func(ctx *LeafExecContext) error {
			data, ok := ctx.Baton.(*UpdateData)
			if !ok {
				return fmt.Errorf("set_value must follow update")
			}
			data.Updates = append(data.Updates, Assignment{Field: ctx.Args[0].Str(), Value: ctx.Args[1]})
			return nil
		},
	}
}
