package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/ascent/internal/codec"
	"github.com/roach88/ascent/internal/store"
	"github.com/roach88/ascent/internal/transfer"
)

// TransferOptions holds flags for the export and import commands.
type TransferOptions struct {
	*RootOptions
	Dir string

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, the transfer service uses UUIDv7 ids.
	RunIDs transfer.RunIDGenerator
}

func (o *TransferOptions) dir() string {
	if o.Dir != "" {
		return o.Dir
	}
	return o.cfg.ExportDir
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	return newExportCommand(&TransferOptions{RootOptions: rootOpts})
}

func newExportCommand(opts *TransferOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every collection to CSV snapshot files",
		Long: `Write climbers.csv, leads.csv, speeds.csv and boulders.csv into the
export directory, replacing any previous snapshot.

Example:
  ascent export --dir ./exported`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransfer(opts, cmd, "export")
		},
	}

	cmd.Flags().StringVar(&opts.Dir, "dir", "", "snapshot directory (default from config)")

	cmd.SetFlagErrorFunc(opts.flagError)
	return cmd
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TransferOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load CSV snapshot files into the store",
		Long: `Read every snapshot file present in the directory and insert its records.

All files are parsed before anything is inserted; one malformed row aborts
the whole import. Records already in the store are skipped unchanged.

Example:
  ascent import --dir ./exported`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransfer(opts, cmd, "import")
		},
	}

	cmd.Flags().StringVar(&opts.Dir, "dir", "", "snapshot directory (default from config)")

	cmd.SetFlagErrorFunc(opts.flagError)
	return cmd
}

func runTransfer(opts *TransferOptions, cmd *cobra.Command, op string) error {
	formatter := opts.formatter(cmd)

	st, err := opts.openStore(cmd, formatter)
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	svc := transfer.New(st, opts.logger, transfer.WithRunIDGenerator(opts.RunIDs))
	dir := opts.dir()

	var sum transfer.Summary
	if op == "export" {
		sum, err = svc.Export(cmd.Context(), dir)
	} else {
		sum, err = svc.Import(cmd.Context(), dir)
	}
	if err != nil {
		return transferError(formatter, op, err)
	}

	for _, f := range sum.Files {
		if f.Missing {
			formatter.VerboseLog("%s: not present, skipped", f.Path)
			continue
		}
		formatter.VerboseLog("%s: %d record(s)", f.Path, f.Records)
	}

	if formatter.Format == "json" {
		return formatter.Success(sum)
	}
	printTransferSummary(formatter.Writer, op, sum)
	return nil
}

// transferError maps codec and store failures to exit codes: bad snapshot
// content is a failure, anything environmental is a command error.
func transferError(formatter *OutputFormatter, op string, err error) error {
	var rowErr *codec.MalformedRowError
	switch {
	case errors.As(err, &rowErr):
		return fail(formatter, ErrCodeMalformed, ExitFailure, op+" aborted: malformed snapshot", err)
	case errors.Is(err, codec.ErrUnencodable):
		return fail(formatter, ErrCodeValidation, ExitFailure, op+" aborted: record cannot be written", err)
	case errors.Is(err, codec.ErrIO):
		return fail(formatter, ErrCodeIO, ExitCommandError, op+" failed", err)
	case errors.Is(err, store.ErrStorage):
		return fail(formatter, ErrCodeStorage, ExitCommandError, op+" failed", err)
	default:
		return fail(formatter, ErrCodeGeneric, ExitCommandError, op+" failed", err)
	}
}

func printTransferSummary(w io.Writer, op string, sum transfer.Summary) {
	if op == "export" {
		fmt.Fprintf(w, "✓ Exported %d record(s) to %s\n", sum.Records(), sum.Dir)
	} else {
		fmt.Fprintf(w, "✓ Imported %d record(s) from %s (%d duplicate(s) skipped)\n",
			sum.Inserted(), sum.Dir, sum.Skipped())
	}
	for _, f := range sum.Files {
		if f.Missing {
			fmt.Fprintf(w, "  %-8s missing\n", f.Kind)
			continue
		}
		fmt.Fprintf(w, "  %-8s %d\n", f.Kind, f.Records)
	}
}
