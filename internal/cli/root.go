package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/anchorix/internal/compiler"
	"github.com/roach88/anchorix/internal/config"
	"github.com/roach88/anchorix/internal/engine"
)

// RootOptions holds global flags for all commands, plus the state
// PersistentPreRunE derives from them.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	Config config.Config
	Logger *zap.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the anchorix CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "anchorix",
		Short: "anchorix - instruction handlers of Anchor programs",
		Long: `Extract the instruction handlers of Anchor-style Rust program modules.

Each function in a #[program] module becomes an instruction: its context
parameter, the accounts struct that context names, and its remaining
arguments. Malformed handlers are reported with their source position.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}

			path := opts.ConfigPath
			if path == "" {
				path = config.DefaultFile
			}
			cfg, err := config.Load(path)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}
			opts.Config = cfg
			opts.Logger = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			opts.Logger.Debug("loaded config",
				zap.String("path", path),
				zap.String("mode", string(cfg.Mode)),
				zap.Int("workers", cfg.Workers))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.Logger != nil {
				_ = opts.Logger.Sync()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default "+config.DefaultFile+")")

	cmd.AddCommand(NewParseCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// formatter builds the OutputFormatter for a command.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
		Logger:    o.Logger,
	}
}

func (o *RootOptions) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// engineOptions maps the loaded config onto engine options. Extra options
// are applied last, so command flags win.
func (o *RootOptions) engineOptions(extra ...engine.Option) []engine.Option {
	cfg := o.Config
	if cfg.ProgramAttribute == "" {
		cfg = config.Default()
	}
	opts := []engine.Option{
		engine.WithProgramAttribute(cfg.ProgramAttribute),
		engine.WithCollectAll(cfg.Mode == config.ModeCollectAll),
		engine.WithWorkers(cfg.Workers),
		engine.WithLogger(o.logger()),
	}
	if cfg.ContextType != "" {
		opts = append(opts, engine.WithResolver(compiler.AccountsResolver{ContextType: cfg.ContextType}))
	}
	return append(opts, extra...)
}
