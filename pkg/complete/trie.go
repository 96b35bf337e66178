// Package complete implements the pipeline-language auto-completer and
// token highlighter of spec.md §4.I: a trie over function/table/field
// names feeding github.com/chzyer/readline's AutoCompleter interface,
// grounded on the teacher's readline.NewPrefixCompleter tree in
// internal/cli/repl.go — adapted from a static, hardcoded keyword tree
// into a dynamic one rebuilt whenever the catalog's version changes.
package complete

import "sort"

// node is one trie level, keyed by byte so Insert/FindPrefix don't pay
// for rune decoding on identifier characters, which are always ASCII
// per spec.md §4.C's lexer grammar.
type node struct {
	children map[byte]*node
	values   []string
}

func newNode() *node { return &node{children: make(map[byte]*node)} }

// Trie maps byte-string keys to the multiset of values inserted under
// them; FindPrefix(p) returns every value whose key starts with p.
type Trie struct {
	root *node
}

// NewTrie returns an empty Trie.
func NewTrie() *Trie { return &Trie{root: newNode()} }

// Insert adds key as both the key and its own value — the identifiers
// this trie stores (function/table/field names) are their own
// completion text.
func (t *Trie) Insert(key string) {
	n := t.root
	for i := 0; i < len(key); i++ {
		c := key[i]
		child, ok := n.children[c]
		if !ok {
			child = newNode()
			n.children[c] = child
		}
		n = child
	}
	n.values = append(n.values, key)
}

// FindPrefix returns every value stored under a key starting with
// prefix, in trie (depth-first, byte-ascending) order.
func (t *Trie) FindPrefix(prefix string) []string {
	n := t.root
	for i := 0; i < len(prefix); i++ {
		child, ok := n.children[prefix[i]]
		if !ok {
			return nil
		}
		n = child
	}
	var out []string
	collect(n, &out)
	return out
}

func collect(n *node, out *[]string) {
	*out = append(*out, n.values...)
	keys := make([]byte, 0, len(n.children))
	for c := range n.children {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, c := range keys {
		collect(n.children[c], out)
	}
}
