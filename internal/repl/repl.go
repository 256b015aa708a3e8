// Package repl implements gelix's line-edited REPL: each input block
// is appended to a running buffer and re-run through the full
// internal/driver pipeline, printing diagnostics or a declaration
// summary on success.
//
// Grounded on the teacher's internal/repl/repl.go for the liner-driven
// read loop, prompt, and history file handling; the command set and
// the "process expression" step are new since Gelix has no evaluator
// to drive -- the REPL's job is to report what the pipeline would
// report for a growing buffer of declarations, not to produce a value.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/gelixlang/gelix/internal/driver"
	"github.com/peterh/liner"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	dim   = color.New(color.Faint).SprintFunc()
)

// REPL is a Read-Eval-Print Loop over a growing buffer of Gelix source.
type REPL struct {
	version   string
	buildTime string
	buffer    []string
	history   []string
}

// New creates a REPL with unknown version info.
func New() *REPL { return NewWithVersion("", "") }

// NewWithVersion creates a REPL reporting the given version/build time.
func NewWithVersion(version, buildTime string) *REPL {
	if version == "" {
		version = "dev"
	}
	if buildTime == "" {
		buildTime = "unknown"
	}
	return &REPL{version: version, buildTime: buildTime}
}

// Start begins the REPL session, reading from a liner-backed prompt
// and writing output/diagnostics to out.
func (r *REPL) Start(in io.Reader, out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(true)

	historyFile := filepath.Join(os.TempDir(), ".gelix_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintf(out, "%s %s\n", bold("Gelix"), bold(r.version))
	fmt.Fprintln(out, dim("Type :help for help, :quit to exit, blank line to compile the buffer"))
	fmt.Fprintln(out)

	line.SetCompleter(func(input string) (c []string) {
		if strings.HasPrefix(input, ":") {
			for _, cmd := range []string{":help", ":quit", ":reset", ":show"} {
				if strings.HasPrefix(cmd, input) {
					c = append(c, cmd)
				}
			}
		}
		return
	})

	for {
		input, err := line.Prompt(r.prompt())
		if err == io.EOF {
			fmt.Fprintln(out, green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			r.compileBuffer(out)
			continue
		}

		line.AppendHistory(input)
		r.history = append(r.history, input)

		if strings.HasPrefix(input, ":") {
			if r.handleCommand(input, out) {
				break
			}
			continue
		}

		r.buffer = append(r.buffer, input)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

func (r *REPL) prompt() string {
	if len(r.buffer) == 0 {
		return "gelix> "
	}
	return "    .. "
}

// handleCommand processes a `:`-prefixed command, returning true when
// the session should end.
func (r *REPL) handleCommand(cmd string, out io.Writer) bool {
	switch strings.Fields(cmd)[0] {
	case ":help", ":h":
		fmt.Fprintln(out, "Commands:")
		fmt.Fprintln(out, "  :help          show this message")
		fmt.Fprintln(out, "  :show          print the current buffer")
		fmt.Fprintln(out, "  :reset         discard the current buffer")
		fmt.Fprintln(out, "  :quit          exit")
		fmt.Fprintln(out, "A blank line compiles the buffer through the full pipeline.")
	case ":quit", ":q", ":exit":
		fmt.Fprintln(out, green("Goodbye!"))
		return true
	case ":reset":
		r.buffer = nil
		fmt.Fprintln(out, "buffer cleared")
	case ":show":
		fmt.Fprintln(out, strings.Join(r.buffer, "\n"))
	default:
		fmt.Fprintf(out, "%s: unknown command %q\n", red("Error"), cmd)
	}
	return false
}

// compileBuffer runs the accumulated source through internal/driver
// and prints diagnostics, or a success summary if it compiles clean.
func (r *REPL) compileBuffer(out io.Writer) {
	if len(r.buffer) == 0 {
		return
	}
	src := strings.Join(r.buffer, "\n")
	result := driver.Run([]driver.Source{{Code: src, Filename: "<repl>"}})

	for _, e := range result.ParseErrors {
		fmt.Fprintf(out, "%s [%s] %s: %s\n", red("parse"), e.Code, e.Pos, e.Message)
	}
	for _, e := range result.ResolveErrors {
		fmt.Fprintf(out, "%s [%s] %s: %s\n", red("resolve"), e.Code, e.Pos, e.Message)
	}
	for _, e := range result.LowerErrors {
		fmt.Fprintf(out, "%s [%s] %s: %s\n", red("lower"), e.Code, e.Pos, e.Message)
	}

	if !result.OK() {
		return
	}
	fmt.Fprintf(out, "%s %d declaration(s)\n", green("ok"), len(result.Module.Decls()))
}
