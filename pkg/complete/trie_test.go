package complete

import (
	"reflect"
	"sort"
	"testing"
)

func sorted(ss []string) []string {
	out := append([]string(nil), ss...)
	sort.Strings(out)
	return out
}

func TestFindPrefixReturnsExactMatchingMultiset(t *testing.T) {
	tr := NewTrie()
	for _, k := range []string{"select", "sort_by", "sort_desc", "sum", "where"} {
		tr.Insert(k)
	}

	got := sorted(tr.FindPrefix("so"))
	want := []string{"sort_by", "sort_desc"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindPrefix(%q) = %v, want %v", "so", got, want)
	}

	if got := tr.FindPrefix("s"); len(sorted(got)) != 4 {
		t.Errorf("FindPrefix(%q) = %v, want 4 matches", "s", got)
	}

	if got := tr.FindPrefix("xyz"); got != nil {
		t.Errorf("FindPrefix(%q) = %v, want nil", "xyz", got)
	}

	if got := tr.FindPrefix(""); len(got) != 5 {
		t.Errorf("FindPrefix(\"\") = %v, want all 5 keys", got)
	}
}

func TestFindPrefixReturnsDuplicatesInsertedTwice(t *testing.T) {
	tr := NewTrie()
	tr.Insert("limit")
	tr.Insert("limit")
	if got := tr.FindPrefix("limit"); len(got) != 2 {
		t.Errorf("FindPrefix(%q) = %v, want 2 entries for a key inserted twice", "limit", got)
	}
}
