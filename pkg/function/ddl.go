package function

import (
	"fmt"

	"github.com/brody715/lumidb/pkg/table"
	"github.com/brody715/lumidb/pkg/value"
)

// ddlBuiltins implements the create_table / add_field pipeline of
// spec.md §4.D.
func ddlBuiltins() []*Function {
	return []*Function{createTableFunction(), addFieldFunction()}
}

func createTableFunction() *Function {
	return &Function{
		Name:        "create_table",
		Signature:   Fixed(value.TypeString),
		CanRoot:     true,
		Description: "start a new table definition",
		ExecuteRoot: func(ctx *RootExecContext) error {
			ctx.Baton = &CreateTableData{Name: ctx.Args[0].Str()}
			return nil
		},
		FinalizeRoot: func(ctx *FinalizeContext) error {
			data := ctx.Baton.(*CreateTableData)
			if len(data.Fields) == 0 {
				return fmt.Errorf("schema is empty")
			}
			schema, err := table.NewSchema(data.Fields)
			if err != nil {
				return err
			}
			t := table.New(data.Name, schema)
			if err := ctx.Catalog.CreateTable(t); err != nil {
				return err
			}
			descCtx := &RootExecContext{Catalog: ctx.Catalog, Args: []value.Value{value.FromString(data.Name)}}
			if err := descTableFunction().ExecuteRoot(descCtx); err != nil {
				return err
			}
			ctx.Result = descCtx.Baton.(*table.Table)
			return nil
		},
	}
}

func addFieldFunction() *Function {
	return &Function{
		Name:        "add_field",
		Signature:   Fixed(value.TypeString, value.TypeString),
		CanLeaf:     true,
		Description: "append a field to the table being created",
		ExecuteLeaf: func(ctx *LeafExecContext) error {
			data, ok := ctx.Baton.(*CreateTableData)
			if !ok {
				return fmt.Errorf("add_field must follow create_table")
			}
			t, err := value.ParseType(ctx.Args[1].Str())
			if err != nil {
				return err
			}
			data.Fields = append(data.Fields, table.Field{Name: ctx.Args[0].Str(), Type: t})
			return nil
		},
	}
}
