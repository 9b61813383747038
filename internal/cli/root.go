// Package cli provides the command-line interface for exevalator.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/exevalator/internal/config"
)

// Version is the version reported by --version.
var Version = "0.1.0"

type (
	configKey     struct{}
	configFileKey struct{}
	loggerKey     struct{}
)

// NewRootCmd creates the root command with all subcommands.
func NewRootCmd() *cobra.Command {
	var cfgFile string
	root := &cobra.Command{
		Use:   "exevalator",
		Short: "Evaluate arithmetic expressions",
		Long: `exevalator evaluates arithmetic expressions of numbers, variables, and
function calls with the operators + - * / and unary minus.

Settings come from defaults, then ./exevalator.yaml or the file named by
--config, then EXEVALATOR_* environment variables, then flags.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			path := config.FindFile(cfgFile)
			cfg, err := config.Load(path, cmd.Flags())
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.LogLevel}))
			logger.Debug("loaded config", slog.String("file", path), slog.String("preset", cfg.Preset))

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, configFileKey{}, path)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./"+config.FileName+" if present)")
	pf.String("lang", "", "language of error messages, e.g. en or ja")
	pf.String("preset", "", "functions to connect: none, math, or precise")
	pf.Uint("precision", 0, "precision in bits of the precise preset")
	pf.String("log-level", "", "log level: debug, info, warn, or error")
	pf.StringToString("var", nil, "variables to declare, as name=value")

	_ = root.RegisterFlagCompletionFunc("preset", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"none", "math", "precise"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = root.RegisterFlagCompletionFunc("lang", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"en", "ja"}, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(NewEvalCommand())
	root.AddCommand(NewASTCommand())
	root.AddCommand(NewReplCommand())
	root.AddCommand(NewIntegrateCommand())
	root.AddCommand(NewBenchCommand())
	root.AddCommand(NewServeCommand())
	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	c, err := config.Load("", nil)
	if err != nil {
		panic(fmt.Errorf("cli: default config is invalid: %w", err))
	}
	return c
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// getConfigFile retrieves the path of the config file in use, if any.
func getConfigFile(ctx context.Context) string {
	s, _ := ctx.Value(configFileKey{}).(string)
	return s
}
