package function

import (
	"github.com/brody715/lumidb/pkg/table"
	"github.com/brody715/lumidb/pkg/value"
)

// The baton payloads below are the typed stand-ins for spec.md §9's
// "typed enum covering {CreateTableData, InsertData, QueryData,
// UpdateData, DeleteData, Empty}" — each root places one of these in
// ctx.Baton; leaves type-assert it back out and mutate it in place.

// CreateTableData is the baton for the create_table pipeline.
type CreateTableData struct {
	Name   string
	Fields []table.Field
}

// InsertData is the baton for the insert pipeline.
type InsertData struct {
	Table *table.Table
	Rows  []table.Row
}

// QueryData is the baton for the query pipeline.
type QueryData struct {
	Table *table.Table
}

// Assignment is one (field, value) pair accumulated by set_value.
type Assignment struct {
	Field string
	Value value.Value
}

// UpdateData is the baton for the update pipeline.
type UpdateData struct {
	Table   *table.Table
	Filters []table.Predicate
	Updates []Assignment
}

// DeleteData is the baton for the delete pipeline.
type DeleteData struct {
	Table   *table.Table
	Filters []table.Predicate
}
