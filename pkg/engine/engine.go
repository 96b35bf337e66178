// Package engine implements the root → leaves → finalize pipeline
// protocol of spec.md §4.E over a parsed query.Query, consulting the
// catalog for table/function resolution and typechecking every stage's
// arguments against its signature before running anything.
package engine

import (
	"github.com/brody715/lumidb/pkg/catalog"
	"github.com/brody715/lumidb/pkg/errs"
	"github.com/brody715/lumidb/pkg/function"
	"github.com/brody715/lumidb/pkg/query"
	"github.com/brody715/lumidb/pkg/table"
)

// Engine binds a catalog to the pipeline execution protocol. It holds
// no per-query state; every call to Execute is independent, which is
// what lets the exec package run queries one at a time on its single
// worker without the engine itself needing extra locking.
type Engine struct {
	catalog *catalog.Catalog
}

// New returns an Engine over cat.
func New(cat *catalog.Catalog) *Engine {
	return &Engine{catalog: cat}
}

// Execute resolves, typechecks, and runs q, implementing spec.md §4.E
// steps (a)-(f).
func (e *Engine) Execute(q query.Query) (*table.Table, error) {
	if len(q.Functions) == 0 {
		return nil, errs.New("no function to execute")
	}

	funcs := make([]*function.Function, len(q.Functions))
	for i, qf := range q.Functions {
		f, err := e.catalog.GetFunction(qf.Name)
		if err != nil {
			return nil, errs.Annotate(err, "failed to resolve")
		}
		funcs[i] = f
	}

	root := funcs[0]
	if !root.CanRoot {
		return nil, errs.New("%q cannot be used as the first stage of a pipeline", root.Name)
	}
	for i := 1; i < len(funcs); i++ {
		if !funcs[i].CanLeaf {
			return nil, errs.New("%q cannot be used as a non-first stage of a pipeline", funcs[i].Name)
		}
	}

	for i, f := range funcs {
		if err := f.Signature.Check(q.Functions[i].Args); err != nil {
			return nil, errs.New("function %s typecheck failed: %s", q.Functions[i].Name, err)
		}
	}

	rootCtx := &function.RootExecContext{
		Catalog: e.catalog,
		Args:    q.Functions[0].Args,
	}
	if err := root.ExecuteRoot(rootCtx); err != nil {
		return nil, errs.Annotate(err, "failed to execute: %s", root.Name)
	}

	leafCtx := &function.LeafExecContext{
		Catalog: e.catalog,
		Baton:   rootCtx.Baton,
	}
	for i := 1; i < len(funcs); i++ {
		leafCtx.Args = q.Functions[i].Args
		if err := funcs[i].ExecuteLeaf(leafCtx); err != nil {
			return nil, errs.Annotate(err, "failed to execute: %s", funcs[i].Name)
		}
	}

	finalCtx := &function.FinalizeContext{
		Catalog: e.catalog,
		Args:    q.Functions[0].Args,
		Baton:   leafCtx.Baton,
	}
	if err := root.FinalizeRoot(finalCtx); err != nil {
		return nil, errs.Annotate(err, "failed to finalize: %s", root.Name)
	}
	if finalCtx.Result != nil {
		return finalCtx.Result, nil
	}
	emptySchema, _ := table.NewSchema(nil)
	return table.New("", emptySchema), nil
}
