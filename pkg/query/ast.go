package query

import (
	"strings"

	"github.com/brody715/lumidb/pkg/value"
)

// QueryFunction is one pipeline stage: a function name plus its argument
// values (string/float/identifier-as-string/null), per spec.md §3.
type QueryFunction struct {
	Name string
	Args []value.Value
}

func (f QueryFunction) String() string {
	args := make([]string, len(f.Args))
	for i, a := range f.Args {
		args[i] = a.Format()
	}
	return f.Name + "(" + strings.Join(args, ", ") + ")"
}

// Query is a non-empty ordered sequence of QueryFunction stages.
type Query struct {
	Functions []QueryFunction
}

func (q Query) String() string {
	parts := make([]string, len(q.Functions))
	for i, f := range q.Functions {
		parts[i] = f.String()
	}
	return strings.Join(parts, " | ")
}
