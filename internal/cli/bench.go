package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zephyrtronium/exevalator/internal/config"
)

// NewBenchCommand creates the bench command.
func NewBenchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure evaluation speed",
		Long: `Evaluate an expression repeatedly while updating a variable x, then
report evaluations per second and the rate of arithmetic operations.

On loop i, x is set to i. The default expression equals x, so the sum of the
results should equal 1 + 2 + ... + loops. Each worker has its own engine and
evaluates an equal share of the loops.`,
		Args: cobra.NoArgs,
		RunE: runBench,
	}
	cmd.Flags().Int("loops", 0, "total number of evaluations (default from config)")
	cmd.Flags().Int("workers", 0, "number of concurrent engines (default from config)")
	return cmd
}

// benchResult holds the measurements from one run of the benchmark.
type benchResult struct {
	loops, workers int
	ops            int
	elapsed        time.Duration
	sum, expected  float64
}

func runBench(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := GetConfig(ctx)
	res, err := bench(ctx, cfg)
	if err != nil {
		return err
	}
	res.render(cmd.OutOrStdout())
	return nil
}

func bench(ctx context.Context, cfg *config.Config) (*benchResult, error) {
	loops, workers := cfg.Bench.Loops, min(cfg.Bench.Workers, cfg.Bench.Loops)
	expr := cfg.Bench.Expression
	logger := GetLogger(ctx)
	sums := make([]float64, workers)

	g, ctx := errgroup.WithContext(ctx)
	begin := time.Now()
	for w := range workers {
		// Worker w evaluates x in [lo, hi).
		lo := 1 + w*loops/workers
		hi := 1 + (w+1)*loops/workers
		g.Go(func() error {
			e, err := newEngine(cfg, logger)
			if err != nil {
				return err
			}
			addr, err := addressOf(e, "x")
			if err != nil {
				return err
			}
			var sum float64
			for i := lo; i < hi; i++ {
				if i%4096 == 0 && ctx.Err() != nil {
					return ctx.Err()
				}
				if err := e.WriteVariableAt(addr, float64(i)); err != nil {
					return err
				}
				r, err := e.Eval(expr)
				if err != nil {
					return err
				}
				sum += r
			}
			sums[w] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	res := benchResult{
		loops:    loops,
		workers:  workers,
		ops:      countOps(expr),
		elapsed:  time.Since(begin),
		expected: float64(loops) * float64(loops+1) / 2,
	}
	for _, s := range sums {
		res.sum += s
	}
	return &res, nil
}

// countOps approximates the arithmetic operations in one evaluation of expr
// by counting operator symbols.
func countOps(expr string) int {
	var n int
	for _, c := range expr {
		if strings.ContainsRune("+-*/", c) {
			n++
		}
	}
	return n
}

func (r *benchResult) render(w io.Writer) {
	secs := r.elapsed.Seconds()
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Measure", "Value"})
	t.AppendRows([]table.Row{
		{"Loops", r.loops},
		{"Workers", r.workers},
		{"Elapsed", r.elapsed.Round(time.Microsecond)},
		{"Evals/sec", fmt.Sprintf("%.0f", float64(r.loops)/secs)},
		{"MFLOPS", fmt.Sprintf("%.3f", float64(r.ops)*float64(r.loops)/secs/1e6)},
		{"Sum", formatValue(r.sum)},
		{"Expected sum", formatValue(r.expected)},
	})
	t.Render()
}
