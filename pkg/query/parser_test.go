package query

import "testing"

func TestParseSimpleQuery(t *testing.T) {
	q, err := ParseQuery(`query('stu') | select('name')`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Functions) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(q.Functions))
	}
	if q.Functions[0].Name != "query" || q.Functions[1].Name != "select" {
		t.Errorf("unexpected function names: %+v", q.Functions)
	}
}

func TestParseFunctionWithoutParens(t *testing.T) {
	q, err := ParseQuery(`show_tables`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Functions) != 1 || q.Functions[0].Name != "show_tables" || len(q.Functions[0].Args) != 0 {
		t.Errorf("unexpected parse result: %+v", q.Functions)
	}
}

func TestParseEmptyQueryIsError(t *testing.T) {
	if _, err := ParseQuery(``); err == nil {
		t.Error("expected parse error for empty query")
	}
}

func TestParseNullBareword(t *testing.T) {
	q, err := ParseQuery(`where('age', '=', null)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.Functions[0].Args[2].IsNull() {
		t.Errorf("expected null arg, got %v", q.Functions[0].Args[2])
	}
}

func TestParseRoundTrip(t *testing.T) {
	input := `f1(10, 'he\'llo') | f2()`
	q, err := ParseQuery(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `f1(10, 'he\'llo') | f2()`
	if got := q.String(); got != want {
		t.Errorf("round-trip mismatch: got %q, want %q", got, want)
	}

	q2, err := ParseQuery(q.String())
	if err != nil {
		t.Fatalf("unexpected error re-parsing rendered query: %v", err)
	}
	if q2.String() != q.String() {
		t.Errorf("re-parse did not stabilize: %q vs %q", q2.String(), q.String())
	}
}

func TestParseErrorCarriesSpan(t *testing.T) {
	_, err := ParseQuery(`f('unterminated)`)
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if perr.Start < 0 || perr.End > len(`f('unterminated)`) {
		t.Errorf("span out of range: %+v", perr)
	}
}

func TestParseMissingCloseParen(t *testing.T) {
	if _, err := ParseQuery(`f(1, 2`); err == nil {
		t.Error("expected parse error for unclosed parens")
	}
}
