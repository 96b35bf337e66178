package repl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/brody715/lumidb/internal/logger"
	"github.com/brody715/lumidb/pkg/db"
)

// newTestREPL builds a REPL with no readline instance, exercising only
// the dispatch logic in HandleLine — readline itself needs a real
// terminal, so repl.New (which wires it up) is left to manual/CLI
// testing, per the session's notes on external-collaborator contracts.
func newTestREPL(t *testing.T) *REPL {
	t.Helper()
	database, err := db.New(logger.NewSlot(nil))
	if err != nil {
		t.Fatalf("new database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return &REPL{db: database, log: database.Log}
}

func TestHandleLineExitStopsTheLoop(t *testing.T) {
	r := newTestREPL(t)
	if r.HandleLine("exit") {
		t.Error("expected HandleLine(\"exit\") to return false")
	}
}

func TestHandleLineBlankContinues(t *testing.T) {
	r := newTestREPL(t)
	if !r.HandleLine("   ") {
		t.Error("expected a blank line to keep the loop running")
	}
}

func TestHandleLineRunsQuery(t *testing.T) {
	r := newTestREPL(t)
	if !r.HandleLine(`show_tables()`) {
		t.Error("expected a valid query to keep the loop running")
	}
}

func TestHandleLineBadQueryKeepsRunning(t *testing.T) {
	r := newTestREPL(t)
	if !r.HandleLine(`does_not_exist()`) {
		t.Error("expected a failing query to keep the loop running, not exit")
	}
}

func TestHandleLineShellEscape(t *testing.T) {
	r := newTestREPL(t)
	if !r.HandleLine(`!true`) {
		t.Error("expected a shell escape to keep the loop running")
	}
}

func writeScript(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.lumi")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestRunScriptAbortsOnFirstError(t *testing.T) {
	r := newTestREPL(t)
	path := writeScript(t,
		`create_table('t') | add_field('k','string')`,
		`does_not_exist()`,
		`insert('t') | add_row('x')`,
	)

	if err := RunScript(r, path); err != nil {
		t.Fatalf("RunScript returned an error for a script-content failure: %v", err)
	}

	if _, err := r.db.Execute(`query('t')`).Await(); err != nil {
		t.Fatalf("expected the table from before the failing line to exist: %v", err)
	}
	tbl, err := r.db.Execute(`query('t')`).Await()
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if tbl.NumRows() != 0 {
		t.Errorf("expected the line after the failure to be skipped, got %d rows", tbl.NumRows())
	}
}

func TestRunScriptOpenFailurePropagates(t *testing.T) {
	r := newTestREPL(t)
	if err := RunScript(r, filepath.Join(t.TempDir(), "missing.lumi")); err == nil {
		t.Error("expected an error for a missing script file")
	}
}
