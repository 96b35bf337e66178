package complete

import (
	"strings"

	"github.com/fatih/color"

	"github.com/brody715/lumidb/pkg/query"
)

// Highlight re-lexes src and colorizes it token by token per spec.md
// §4.I's style map: identifiers in a type-ish color, string literals
// green, float literals yellow, pipes bold, everything else left
// unstyled. Lexer errors leave the remainder of the line unstyled
// rather than failing the whole render — this is a REPL echo aid, not
// a correctness check.
func Highlight(src string) string {
	lex := query.NewLexer(src)
	var b strings.Builder
	last := 0
	for {
		tok := lex.NextToken()
		if tok.Kind == query.KindEOS || tok.Kind == query.KindError {
			break
		}
		b.WriteString(src[last:tok.Start])
		b.WriteString(styleFor(tok.Kind)(tok.Text))
		last = tok.End
	}
	b.WriteString(src[last:])
	return b.String()
}

func styleFor(k query.Kind) func(format string, a ...interface{}) string {
	switch k {
	case query.KindIdentifier:
		return color.CyanString
	case query.KindString:
		return color.GreenString
	case query.KindFloat:
		return color.YellowString
	case query.KindPipe:
		return color.New(color.Bold).SprintfFunc()
	default:
		return func(format string, a ...interface{}) string { return format }
	}
}
