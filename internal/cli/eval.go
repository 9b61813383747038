package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/exevalator"
)

type evalOptions struct {
	input string
	verb  string
	given []string
	echo  bool
}

// NewEvalCommand creates the eval command.
func NewEvalCommand() *cobra.Command {
	opts := &evalOptions{}
	cmd := &cobra.Command{
		Use:   "eval [EXPR...]",
		Short: "Evaluate expressions",
		Long: `Evaluate each argument as an expression and print the results.

With no arguments, or with --in, expressions are read one per line. Blank
lines are skipped. An expression which fails prints its error and evaluation
continues with the next.`,
		Example: `  exevalator eval "1.2 + 3.4 * 5.6"
  exevalator eval --var x=2 "x * x" "-x"
  exevalator eval --given "r=sqrt(2)" "pi() * r * r"
  exevalator eval --in exprs.txt --fmt "%.3f"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, args, opts)
		},
	}
	cmd.Flags().StringVar(&opts.input, "in", "", "input file, one expression per line (default stdin if no args given)")
	cmd.Flags().StringVar(&opts.verb, "fmt", "%g", "result formatting verb")
	cmd.Flags().StringArrayVar(&opts.given, "given", nil, "name=expression variable definition (any number of times)")
	cmd.Flags().BoolVar(&opts.echo, "echo", false, "print each expression before its result")
	return cmd
}

func runEval(cmd *cobra.Command, args []string, opts *evalOptions) error {
	ctx := cmd.Context()
	cfg := GetConfig(ctx)
	e, err := newEngine(cfg, GetLogger(ctx))
	if err != nil {
		return err
	}
	for _, d := range opts.given {
		name, val, ok := strings.Cut(d, "=")
		if !ok {
			return fmt.Errorf(`variable definitions must be "name=expression", not %q`, d)
		}
		name = strings.TrimSpace(name)
		r, err := e.Eval(val)
		if err != nil {
			return fmt.Errorf("setting %s: %w", name, err)
		}
		if err := assign(e, name, r); err != nil {
			return fmt.Errorf("setting %s: %w", name, err)
		}
	}

	exprs := args
	in, closer, err := infile(cmd, opts.input, len(args) == 0)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}
	if in != nil {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" {
				exprs = append(exprs, line)
			}
		}
		if err := sc.Err(); err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	verb := opts.verb + "\n"
	var failed int
	for _, expr := range exprs {
		if opts.echo {
			fmt.Fprintf(out, "%s : ", expr)
		}
		r, err := e.Eval(expr)
		if err != nil {
			failed++
			fmt.Fprintln(out, err)
			continue
		}
		fmt.Fprintf(out, verb, r)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d expressions failed", failed, len(exprs))
	}
	return nil
}

// infile opens the input for eval. It returns a nil reader if there is no
// input to read.
func infile(cmd *cobra.Command, name string, std bool) (io.Reader, io.Closer, error) {
	switch {
	case name != "" && name != "-":
		f, err := os.Open(name)
		if err != nil {
			return nil, nil, err
		}
		return f, f, nil
	case name == "-", std:
		return cmd.InOrStdin(), nil, nil
	}
	return nil, nil, nil
}

// NewASTCommand creates the ast command.
func NewASTCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ast EXPR",
		Short: "Print the syntax tree of an expression",
		Long: `Parse an expression and print its syntax tree, without resolving names.
Each node shows its token, and operators show their kind and precedence.`,
		Example: `  exevalator ast "1 + f(x) * -2"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := exevalator.DumpAST(args[0])
			if err != nil {
				return localize(err, exevalator.MessagesFor(GetConfig(cmd.Context()).Language))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), s)
			return err
		},
	}
}
