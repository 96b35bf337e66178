package complete

import (
	"github.com/brody715/lumidb/pkg/catalog"
)

// Completer implements github.com/chzyer/readline's AutoCompleter by
// rebuilding a pair of tries — one over built-in/plugin function names,
// one over "table.field" identifiers — whenever the catalog's version
// advances, instead of the teacher's hardcoded readline.PrefixCompleter
// tree built once at startup.
type Completer struct {
	cat *catalog.Catalog

	builtVersion int64
	functions    *Trie
	identifiers  *Trie
}

// NewCompleter returns a Completer backed by cat. The underlying tries
// are built lazily, on first Do call, and rebuilt whenever cat.Version()
// has advanced since the last build.
func NewCompleter(cat *catalog.Catalog) *Completer {
	return &Completer{cat: cat, builtVersion: -1}
}

func (c *Completer) refresh() {
	v := c.cat.Version()
	if v == c.builtVersion {
		return
	}

	functions := NewTrie()
	for _, d := range c.cat.ListFunctionDescriptors() {
		functions.Insert(d.Name)
	}

	identifiers := NewTrie()
	for _, name := range c.cat.ListTables() {
		identifiers.Insert(name)
		tbl, err := c.cat.GetTable(name)
		if err != nil {
			continue
		}
		for _, f := range tbl.Schema().Fields() {
			identifiers.Insert(f.Name)
			identifiers.Insert(name + "." + f.Name)
		}
	}

	c.functions = functions
	c.identifiers = identifiers
	c.builtVersion = v
}

// Do implements readline.AutoCompleter. It infers the completion mode
// from the text up to pos per spec.md §4.I: inside an unterminated
// string literal, suggest table/field identifiers; otherwise, suggest
// function names.
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	c.refresh()

	head := string(line[:pos])
	word, wordStart := lastWord(head)

	var candidates []string
	if insideStringLiteral(head) {
		candidates = c.identifiers.FindPrefix(word)
	} else {
		candidates = c.functions.FindPrefix(word)
	}

	out := make([][]rune, 0, len(candidates))
	for _, cand := range candidates {
		if len(cand) < len(word) {
			continue
		}
		out = append(out, []rune(cand[len(word):]))
	}
	return out, pos - wordStart
}

// lastWord returns the run of identifier characters immediately before
// the cursor, and the rune offset at which it starts.
func lastWord(head string) (string, int) {
	i := len(head)
	for i > 0 {
		r := head[i-1]
		if isWordByte(r) {
			i--
			continue
		}
		break
	}
	return head[i:], len([]rune(head[:i]))
}

func isWordByte(b byte) bool {
	return b == '_' || b == '.' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// insideStringLiteral reports whether head ends inside an unterminated
// string literal opened by " or ', tracking unescaped quote runes; a
// quote of the other kind inside an open literal does not close it.
func insideStringLiteral(head string) bool {
	var open rune
	escaped := false
	for _, r := range head {
		if escaped {
			escaped = false
			continue
		}
		switch {
		case r == '\\':
			escaped = true
		case open == 0 && (r == '"' || r == '\''):
			open = r
		case r == open:
			open = 0
		}
	}
	return open != 0
}
