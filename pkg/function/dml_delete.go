package function

import (
	"github.com/brody715/lumidb/pkg/table"
	"github.com/brody715/lumidb/pkg/value"
)

// deleteBuiltins implements the delete pipeline of spec.md §4.D.
// where() is shared with the query and update pipelines.
func deleteBuiltins() []*Function {
	return []*Function{deleteFunction()}
}

func deleteFunction() *Function {
	return &Function{
		Name:        "delete",
		Signature:   Fixed(value.TypeString),
		CanRoot:     true,
		Description: "open a table for row deletion",
		ExecuteRoot: func(ctx *RootExecContext) error {
			t, err := ctx.Catalog.GetTable(ctx.Args[0].Str())
			if err != nil {
				return err
			}
			ctx.Baton = &DeleteData{Table: t}
			return nil
		},
		FinalizeRoot: func(ctx *FinalizeContext) error {
			data := ctx.Baton.(*DeleteData)
			if err := data.Table.DeleteRows(func(row table.Row, i int) bool {
				for _, f := range data.Filters {
					if !f(row, i) {
						return false
					}
				}
				return true
			}); err != nil {
				return err
			}
			ctx.Result = data.Table
			return nil
		},
	}
}
