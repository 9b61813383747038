package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chzyer/readline"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zephyrtronium/exevalator"
	"github.com/zephyrtronium/exevalator/internal/config"
	"github.com/zephyrtronium/exevalator/mathfuncs"
)

const (
	replPrompt  = "exevalator> "
	historyFile = "exevalator_history"
)

// lineReader is the part of *readline.Instance the REPL uses.
type lineReader interface {
	Readline() (string, error)
	Close() error
}

// NewReplCommand creates the repl command.
func NewReplCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Evaluate expressions interactively",
		Long: `Start an interactive session. Each line is evaluated as an expression.
Lines starting with a dot are commands; type .help to list them.

Variables persist for the whole session.`,
		Args: cobra.NoArgs,
		RunE: runRepl,
	}
}

func runRepl(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := GetConfig(ctx)
	e, err := newEngine(cfg, GetLogger(ctx))
	if err != nil {
		return err
	}
	rl, err := newLineReader(cmd)
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	s := &session{
		e:    e,
		cfg:  cfg,
		msgs: exevalator.MessagesFor(cfg.Language),
		out:  cmd.OutOrStdout(),
	}
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if s.handle(strings.TrimSpace(line)) {
			return nil
		}
	}
}

// newLineReader uses readline when reading a terminal and plain lines
// otherwise.
func newLineReader(cmd *cobra.Command) (lineReader, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		return &scanReader{sc: bufio.NewScanner(in)}, nil
	}
	var hist string
	if dir, err := os.UserCacheDir(); err == nil {
		hist = filepath.Join(dir, historyFile)
	}
	return readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     hist,
		AutoComplete:    replCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
}

func replCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".vars"),
		readline.PcItem(".funcs"),
		readline.PcItem(".let"),
		readline.PcItem(".ast"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}

type scanReader struct {
	sc *bufio.Scanner
}

func (r *scanReader) Readline() (string, error) {
	if r.sc.Scan() {
		return r.sc.Text(), nil
	}
	if err := r.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (r *scanReader) Close() error { return nil }

// session is the state of one REPL.
type session struct {
	e    *exevalator.Engine
	cfg  *config.Config
	msgs exevalator.Messages
	out  io.Writer
}

// handle processes one line of input and reports whether the session is over.
func (s *session) handle(line string) bool {
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, ".") {
		s.eval(line)
		return false
	}
	command, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(command) {
	case ".quit", ".exit":
		return true
	case ".help":
		s.help()
	case ".vars":
		s.vars()
	case ".funcs":
		s.funcs()
	case ".let":
		s.let(rest)
	case ".ast":
		tree, err := exevalator.DumpAST(rest)
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", localize(err, s.msgs))
			return false
		}
		fmt.Fprintln(s.out, tree)
	default:
		fmt.Fprintf(s.out, "Unknown command %s. Type .help for commands.\n", command)
	}
	return false
}

func (s *session) eval(expr string) {
	r, err := s.e.Eval(expr)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, formatValue(r))
}

// let evaluates "name = expr" and assigns the result to name.
func (s *session) let(def string) {
	name, expr, ok := strings.Cut(def, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		fmt.Fprintln(s.out, "Usage: .let name = expression")
		return
	}
	r, err := s.e.Eval(expr)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if err := assign(s.e, name, r); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "%s = %s\n", name, formatValue(r))
}

func (s *session) vars() {
	addrs := s.e.Variables()
	if len(addrs) == 0 {
		fmt.Fprintln(s.out, "(no variables)")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(s.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Address", "Value"})
	for _, name := range slices.Sorted(maps.Keys(addrs)) {
		v, err := s.e.ReadVariableAt(addrs[name])
		if err != nil {
			t.AppendRow(table.Row{name, addrs[name], err.Error()})
			continue
		}
		t.AppendRow(table.Row{name, addrs[name], formatValue(v)})
	}
	t.Render()
}

func (s *session) funcs() {
	set, err := mathfuncs.Preset(s.cfg.Preset, s.cfg.Precision)
	if err != nil || len(set) == 0 {
		fmt.Fprintln(s.out, "(no functions)")
		return
	}
	fmt.Fprintln(s.out, strings.Join(mathfuncs.Names(set), " "))
}

func (s *session) help() {
	fmt.Fprint(s.out, `Enter an expression to evaluate it.
  .let NAME = EXPR  assign the value of EXPR to a variable
  .vars             list variables
  .funcs            list functions
  .ast EXPR         show the syntax tree of EXPR
  .help             show this help
  .quit             leave
`)
}
