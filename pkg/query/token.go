// Package query implements the pipeline query language's lexer, parser,
// and AST (spec.md §4.C). It is hand-written recursive-descent code with
// no third-party dependency: the teacher's own SQL lexer/parser
// (pkg/sql/lexer.go, pkg/sql/parser.go) are likewise hand-rolled state
// machines, and no repo in the retrieval pack reaches for a parser
// library to tokenize a small DSL like this one.
package query

// Kind is the token category.
type Kind int

const (
	KindIdentifier Kind = iota
	KindString
	KindFloat
	KindLParen
	KindRParen
	KindComma
	KindPipe
	KindEOS
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindIdentifier:
		return "Identifier"
	case KindString:
		return "StringLiteral"
	case KindFloat:
		return "FloatLiteral"
	case KindLParen:
		return "L_Paren"
	case KindRParen:
		return "R_Paren"
	case KindComma:
		return "Comma"
	case KindPipe:
		return "Pipe"
	case KindEOS:
		return "EOS"
	case KindError:
		return "ErrorToken"
	default:
		return "Unknown"
	}
}

// Token is a lexeme with its (column_start, column_end) byte span, per
// spec.md §4.C. Spans are half-open: [Start, End).
type Token struct {
	Kind  Kind
	Text  string
	Start int
	End   int
}
