package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/exevalator"
)

// DefaultIntegrand is the function integrate uses when given none.
const DefaultIntegrand = "3*x*x + 2*x + 1"

type integrateOptions struct {
	from, to float64
	variable string
}

// NewIntegrateCommand creates the integrate command.
func NewIntegrateCommand() *cobra.Command {
	opts := &integrateOptions{}
	cmd := &cobra.Command{
		Use:   "integrate [EXPR]",
		Short: "Integrate an expression numerically",
		Long: `Compute the integral of an expression in one variable over an interval
using Simpson's rule on uniform steps.

The default expression is ` + DefaultIntegrand + ` over [0, 1].`,
		Example: `  exevalator integrate
  exevalator integrate "sin(t)" --variable t --to 3.14159265358979 --steps 1000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr := DefaultIntegrand
			if len(args) > 0 {
				expr = args[0]
			}
			return runIntegrate(cmd, expr, opts)
		},
	}
	cmd.Flags().Float64Var(&opts.from, "from", 0, "lower limit")
	cmd.Flags().Float64Var(&opts.to, "to", 1, "upper limit")
	cmd.Flags().StringVar(&opts.variable, "variable", "x", "variable of integration")
	cmd.Flags().Int("steps", 0, "number of steps (default from config)")
	return cmd
}

func runIntegrate(cmd *cobra.Command, expr string, opts *integrateOptions) error {
	ctx := cmd.Context()
	cfg := GetConfig(ctx)
	e, err := newEngine(cfg, GetLogger(ctx))
	if err != nil {
		return err
	}
	r, err := integrate(e, expr, opts.variable, opts.from, opts.to, cfg.Integrate.Steps)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "f(%s)        = %s\n", opts.variable, expr)
	fmt.Fprintf(out, "lower-limit = %s\n", formatValue(opts.from))
	fmt.Fprintf(out, "upper-limit = %s\n", formatValue(opts.to))
	fmt.Fprintf(out, "steps       = %d\n", cfg.Integrate.Steps)
	fmt.Fprintf(out, "result      = %s\n", formatValue(r))
	return nil
}

// integrate applies Simpson's rule to expr as a function of the named
// variable over [a, b] in n steps.
func integrate(e *exevalator.Engine, expr, variable string, a, b float64, n int) (float64, error) {
	addr, err := addressOf(e, variable)
	if err != nil {
		return 0, err
	}
	at := func(x float64) (float64, error) {
		if err := e.WriteVariableAt(addr, x); err != nil {
			return 0, err
		}
		return e.Eval(expr)
	}
	h := (b - a) / float64(n)
	var sum float64
	for i := 0; i < n; i++ {
		x := a + float64(i)*h
		left, err := at(x)
		if err != nil {
			return 0, err
		}
		right, err := at(x + h)
		if err != nil {
			return 0, err
		}
		center, err := at(x + h/2)
		if err != nil {
			return 0, err
		}
		sum += (left + right + 4*center) * h / 6
	}
	return sum, nil
}
