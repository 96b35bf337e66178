package function

import (
	"fmt"
	"strconv"

	"github.com/brody715/lumidb/pkg/errs"
	"github.com/brody715/lumidb/pkg/table"
	"github.com/brody715/lumidb/pkg/value"
)

// metaBuiltins returns the root-only, no-leaf built-ins of spec.md
// §4.D's "Meta" group. None of them need a leaf stage, so each does its
// work directly in execute_root and stashes the finished table in the
// baton for finalize_root to hand back.
func metaBuiltins(loader PluginLoader) []*Function {
	return []*Function{
		showTablesFunction(),
		showFunctionsFunction(),
		showPluginsFunction(),
		descTableFunction(),
		loadPluginFunction(loader),
		unloadPluginFunction(loader),
	}
}

func finalizeFromBaton(ctx *FinalizeContext) error {
	ctx.Result = ctx.Baton.(*table.Table)
	return nil
}

func showTablesFunction() *Function {
	return &Function{
		Name:        "show_tables",
		Signature:   Fixed(),
		CanRoot:     true,
		Description: "list every table in the catalog",
		ExecuteRoot: func(ctx *RootExecContext) error {
			schema, _ := table.NewSchema([]table.Field{{Name: "name", Type: value.TypeString}})
			t := table.New("show_tables", schema)
			for _, name := range ctx.Catalog.ListTables() {
				_ = t.AddRow(table.Row{value.FromString(name)})
			}
			ctx.Baton = t
			return nil
		},
		FinalizeRoot: finalizeFromBaton,
	}
}

func showFunctionsFunction() *Function {
	return &Function{
		Name:        "show_functions",
		Signature:   Fixed(),
		CanRoot:     true,
		Description: "list every registered function with its signature and role",
		ExecuteRoot: func(ctx *RootExecContext) error {
			schema, _ := table.NewSchema([]table.Field{
				{Name: "signature", Type: value.TypeString},
				{Name: "type", Type: value.TypeString},
				{Name: "description", Type: value.TypeString},
			})
			t := table.New("show_functions", schema)
			for _, d := range ctx.Catalog.ListFunctionDescriptors() {
				role := "leaf"
				if d.CanRoot {
					role = "root"
				}
				sig := d.Name + d.Signature
				_ = t.AddRow(table.Row{value.FromString(sig), value.FromString(role), value.FromString(d.Description)})
			}
			ctx.Baton = t
			return nil
		},
		FinalizeRoot: finalizeFromBaton,
	}
}

func pluginsTable(ctx *RootExecContext) *table.Table {
	schema, _ := table.NewSchema([]table.Field{
		{Name: "id", Type: value.TypeString},
		{Name: "name", Type: value.TypeString},
		{Name: "version", Type: value.TypeString},
		{Name: "description", Type: value.TypeString},
		{Name: "load_path", Type: value.TypeString},
	})
	t := table.New("show_plugins", schema)
	for _, p := range ctx.Catalog.ListPluginDescriptors() {
		_ = t.AddRow(table.Row{
			value.FromString(p.ID), value.FromString(p.Name), value.FromString(p.Version),
			value.FromString(p.Description), value.FromString(p.LoadPath),
		})
	}
	return t
}

func showPluginsFunction() *Function {
	return &Function{
		Name:        "show_plugins",
		Signature:   Fixed(),
		CanRoot:     true,
		Description: "list every loaded plugin",
		ExecuteRoot: func(ctx *RootExecContext) error {
			ctx.Baton = pluginsTable(ctx)
			return nil
		},
		FinalizeRoot: finalizeFromBaton,
	}
}

func descTableFunction() *Function {
	return &Function{
		Name:        "desc_table",
		Signature:   Fixed(value.TypeString),
		CanRoot:     true,
		Description: "describe a table's fields and row count",
		ExecuteRoot: func(ctx *RootExecContext) error {
			name := ctx.Args[0].Str()
			tbl, err := ctx.Catalog.GetTable(name)
			if err != nil {
				return err
			}
			fields := tbl.Schema().Fields()
			outFields := make([]table.Field, 0, len(fields)+1)
			for _, f := range fields {
				outFields = append(outFields, table.Field{Name: f.Name, Type: value.TypeString})
			}
			outFields = append(outFields, table.Field{Name: "rows", Type: value.TypeFloat})
			schema, err := table.NewSchema(outFields)
			if err != nil {
				return err
			}
			row := make(table.Row, 0, len(fields)+1)
			for _, f := range fields {
				row = append(row, value.FromString(f.Type.Name()))
			}
			row = append(row, value.FromFloat(float32(tbl.NumRows())))

			out := table.New(name, schema)
			if err := out.AddRow(row); err != nil {
				return err
			}
			ctx.Baton = out
			return nil
		},
		FinalizeRoot: finalizeFromBaton,
	}
}

func loadPluginFunction(loader PluginLoader) *Function {
	return &Function{
		Name:        "load_plugin",
		Signature:   Fixed(value.TypeString),
		CanRoot:     true,
		Description: "load a plugin dynamic library by path",
		ExecuteRoot: func(ctx *RootExecContext) error {
			if loader == nil {
				return errs.NotImplemented("plugin loading is not available in this build")
			}
			id, err := loader.Load(ctx.Args[0].Str(), ctx.Catalog)
			if err != nil {
				return err
			}
			schema, _ := table.NewSchema([]table.Field{
				{Name: "id", Type: value.TypeString},
				{Name: "name", Type: value.TypeString},
				{Name: "version", Type: value.TypeString},
				{Name: "description", Type: value.TypeString},
				{Name: "load_path", Type: value.TypeString},
			})
			t := table.New("load_plugin", schema)
			for _, p := range ctx.Catalog.ListPluginDescriptors() {
				if p.ID != id {
					continue
				}
				_ = t.AddRow(table.Row{
					value.FromString(p.ID), value.FromString(p.Name), value.FromString(p.Version),
					value.FromString(p.Description), value.FromString(p.LoadPath),
				})
			}
			ctx.Baton = t
			return nil
		},
		FinalizeRoot: finalizeFromBaton,
	}
}

func unloadPluginFunction(loader PluginLoader) *Function {
	return &Function{
		Name:        "unload_plugin",
		Signature:   Fixed(value.TypeString),
		CanRoot:     true,
		Description: "unload a plugin by id",
		ExecuteRoot: func(ctx *RootExecContext) error {
			if loader == nil {
				return errs.NotImplemented("plugin loading is not available in this build")
			}
			id := ctx.Args[0].Str()
			if _, err := strconv.ParseInt(id, 10, 64); err != nil {
				return fmt.Errorf("invalid plugin id %q: %w", id, err)
			}
			if err := loader.Unload(id, ctx.Catalog); err != nil {
				return err
			}
			ctx.Baton = pluginsTable(ctx)
			return nil
		},
		FinalizeRoot: finalizeFromBaton,
	}
}
