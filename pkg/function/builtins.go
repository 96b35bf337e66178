package function

// Builtins returns the full built-in function catalog of spec.md §4.D,
// ready to hand to catalog.RegisterFunctionList. loader may be nil in
// contexts that never need load_plugin/unload_plugin (e.g. unit tests);
// both functions then fail fast with a clear error instead of panicking.
func Builtins(loader PluginLoader) []*Function {
	var all []*Function
	all = append(all, metaBuiltins(loader)...)
	all = append(all, ddlBuiltins()...)
	all = append(all, insertBuiltins()...)
	all = append(all, queryBuiltins()...)
	all = append(all, updateBuiltins()...)
	all = append(all, deleteBuiltins()...)
	return all
}
