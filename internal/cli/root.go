package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/ascent/internal/config"
	"github.com/roach88/ascent/internal/logging"
	"github.com/roach88/ascent/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Database   string // overrides the configured database path when set

	cfg    *config.Config
	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the ascent CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ascent",
		Short: "ascent - climbing results store",
		Long: `Record and serve competition results (lead, speed, boulder) and
athlete profiles, and move them in and out of CSV snapshots.`,
		// Errors are reported through the output formatter or by main.
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				msg := fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
				return fail(opts.formatter(cmd), ErrCodeInvalidArgs, ExitCommandError, msg, nil)
			}
			return opts.resolve(cmd)
		},
	}
	cmd.SetFlagErrorFunc(opts.flagError)

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides config)")

	// Add subcommands
	cmd.AddCommand(NewClimberCommand(opts))
	cmd.AddCommand(NewResultsCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}

// flagError reports a flag parsing failure as a command error (exit 2).
// Subcommands inherit it from the root; constructors also install it so the
// commands behave the same when built on their own.
func (o *RootOptions) flagError(cmd *cobra.Command, err error) error {
	return fail(o.formatter(cmd), ErrCodeInvalidArgs, ExitCommandError, err.Error(), nil)
}

// resolve loads configuration and builds the logger once. Subcommands call
// it too so they work when constructed without the root command.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	if o.cfg != nil {
		return nil
	}

	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return fail(o.formatter(cmd), ErrCodeInvalidArgs, ExitCommandError, "failed to load config", err)
	}
	if o.Database != "" {
		cfg.DatabasePath = o.Database
	}

	level := cfg.Log.Level
	if o.Verbose {
		level = "debug"
	}
	o.cfg = cfg
	o.logger = logging.Setup(cmd.ErrOrStderr(), level, cfg.Log.Format)
	return nil
}

// formatter builds the OutputFormatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// openStore resolves configuration and opens the configured database.
// The caller must Close the returned store.
func (o *RootOptions) openStore(cmd *cobra.Command, formatter *OutputFormatter) (*store.Store, error) {
	if err := o.resolve(cmd); err != nil {
		return nil, err
	}

	formatter.VerboseLog("Opening database %s", o.cfg.DatabasePath)
	st, err := store.Open(o.cfg.DatabasePath, store.WithLogger(o.logger))
	if err != nil {
		return nil, fail(formatter, ErrCodeStorage, ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// closeStore closes st, logging rather than returning a close failure.
func (o *RootOptions) closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		o.logger.Error("error closing database", "error", err)
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
