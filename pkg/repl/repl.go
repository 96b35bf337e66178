// Package repl implements LumiDB's interactive shell: spec.md §4.J's
// read -> dispatch -> render loop, grounded on the teacher's
// internal/cli/repl.go (readline.Config, a welcome banner, a Run loop
// reading lines until EOF/exit), driven by db.Database's pipeline
// engine instead of the teacher's SQL-dispatcher stub, and rendered
// with pkg/render + fatih/color instead of plain fmt.Println.
package repl

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/brody715/lumidb/internal/logger"
	"github.com/brody715/lumidb/pkg/complete"
	"github.com/brody715/lumidb/pkg/db"
	"github.com/brody715/lumidb/pkg/render"
)

const prompt = "lumidb> "

// REPL reads pipeline queries from stdin and prints their results,
// per spec.md §4.J.
type REPL struct {
	db  *db.Database
	log *logger.Slot
	rl  *readline.Instance
}

// New returns a REPL over database, using historyFile for readline's
// persisted history, per spec.md §6 ("lumidb_history.txt in the
// working directory").
func New(database *db.Database, historyFile string) (*REPL, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    complete.NewCompleter(database.Catalog),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize readline: %w", err)
	}
	return &REPL{db: database, log: database.Log, rl: rl}, nil
}

// Close releases the line editor's resources.
func (r *REPL) Close() error { return r.rl.Close() }

// Run starts the read -> dispatch -> render loop. It returns nil on a
// clean exit (the "exit" command or EOF).
func (r *REPL) Run() error {
	r.printWelcome()
	for {
		line, err := r.rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}
		if !r.HandleLine(line) {
			return nil
		}
	}
}

// HandleLine dispatches one line of input per spec.md §4.J: "exit"
// terminates, a leading "!" runs a host shell command, otherwise the
// line is parsed and executed as a pipeline query. It returns false
// when the REPL should stop. A failure is logged and printed but never
// stops the interactive loop.
func (r *REPL) HandleLine(line string) bool {
	cont, err := r.dispatch(line)
	if err != nil {
		r.printError(err)
	}
	return cont
}

// dispatch runs one line and reports whether the caller should keep
// going, plus any error the line produced. It is shared by HandleLine
// (which always keeps going past an error) and RunScript (which
// aborts the script on the first one), per spec.md §7.
func (r *REPL) dispatch(line string) (cont bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return true, nil
	}
	if line == "exit" {
		return false, nil
	}
	if strings.HasPrefix(line, "!") {
		return true, r.runShell(line[1:])
	}
	return true, r.runQuery(line)
}

func (r *REPL) runShell(cmd string) error {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return nil
	}
	sh := exec.Command("sh", "-c", cmd)
	sh.Stdin = os.Stdin
	sh.Stdout = os.Stdout
	sh.Stderr = os.Stderr
	if err := sh.Run(); err != nil {
		return fmt.Errorf("shell command failed: %w", err)
	}
	return nil
}

func (r *REPL) runQuery(line string) error {
	t, err := r.db.Execute(line).Await()
	if err != nil {
		return err
	}
	fmt.Print(render.Table(t))
	fmt.Println(render.RowCountLabel(t.NumRows()))
	return nil
}

// printError logs a failed pipeline at Error level and echoes it in red
// to the terminal, per spec.md §4.J/§7: "Errors log to the console
// logger at Error" and are shown with no stack, no abort.
func (r *REPL) printError(err error) {
	r.log.Load().Errorw("query failed", "error", err)
	color.New(color.FgRed).Fprintln(os.Stderr, err.Error())
}

func (r *REPL) printWelcome() {
	fmt.Println(color.New(color.FgCyan, color.Bold).Sprint(banner))
}

const banner = `LumiDB — pipeline query REPL
Type a pipeline like create_table('t') | add_field('name','string'), or ! to run a shell command.
Type exit to quit.`

// RunScript reads path line by line and sends each non-empty line
// through the same dispatch as interactive input, per spec.md §6/§7:
// "Each --in path is read line-by-line and each non-empty line is
// sent through the same handler as interactive input" and "Scripted
// pre-run aborts the current script on first error but does not exit
// the process." The returned error is non-nil only for a failure to
// open or read path itself; a failing line inside the script is
// logged and simply stops the script, not the caller.
func RunScript(r *REPL, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open script %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("failed to read script %s: %w", path, err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		cont, err := r.dispatch(line)
		if err != nil {
			r.printError(err)
			return nil
		}
		if !cont {
			return nil
		}
	}
	return nil
}
