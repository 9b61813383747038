package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"

	"github.com/zephyrtronium/exevalator"
	"github.com/zephyrtronium/exevalator/internal/config"
	"github.com/zephyrtronium/exevalator/mathfuncs"
)

// newEngine creates an engine with the configured message language, function
// preset, and variables.
func newEngine(cfg *config.Config, logger *slog.Logger) (*exevalator.Engine, error) {
	e := exevalator.New(
		exevalator.WithMessages(exevalator.MessagesFor(cfg.Language)),
		exevalator.WithLogger(logger),
	)
	set, err := mathfuncs.Preset(cfg.Preset, cfg.Precision)
	if err != nil {
		return nil, err
	}
	if err := mathfuncs.Connect(e, set); err != nil {
		return nil, err
	}
	for _, name := range slices.Sorted(maps.Keys(cfg.Variables)) {
		if err := assign(e, name, cfg.Variables[name]); err != nil {
			return nil, fmt.Errorf("variable %s: %w", name, err)
		}
	}
	return e, nil
}

// assign sets a variable, declaring it first if needed.
func assign(e *exevalator.Engine, name string, v float64) error {
	err := e.WriteVariable(name, v)
	if !errors.Is(err, exevalator.VariableNotFound) {
		return err
	}
	addr, err := e.DeclareVariable(name)
	if err != nil {
		return err
	}
	return e.WriteVariableAt(addr, v)
}

// addressOf returns the address of a variable, declaring it first if needed.
func addressOf(e *exevalator.Engine, name string) (int, error) {
	if addr, ok := e.Variables()[name]; ok {
		return addr, nil
	}
	return e.DeclareVariable(name)
}

// localize renders an error from a function that doesn't go through an
// engine, such as DumpAST, in the given language.
func localize(err error, msgs exevalator.Messages) error {
	var e *exevalator.Error
	if !errors.As(err, &e) {
		return err
	}
	return errors.New(msgs.Format(e.Reason, e.Args...))
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
