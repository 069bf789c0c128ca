package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/ascent/internal/codec"
	"github.com/roach88/ascent/internal/model"
	"github.com/roach88/ascent/internal/schema"
	"github.com/roach88/ascent/internal/transfer"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool                      `json:"valid"`
	Records int                       `json:"records"`
	Errors  []*schema.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TransferOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a snapshot directory without importing it",
		Long: `Parse every snapshot file in the directory and check each record against
the record schema: delimiter-free fields, id formats, partial dates and stage
progression (no final without a semi-final, and so on).

The database is not opened.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Dir, "dir", "", "snapshot directory (default from config)")

	cmd.SetFlagErrorFunc(opts.flagError)
	return cmd
}

func runValidate(opts *TransferOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	if err := opts.resolve(cmd); err != nil {
		return err
	}
	dir := opts.dir()

	snap, err := transfer.ReadSnapshot(dir)
	if err != nil {
		var rowErr *codec.MalformedRowError
		switch {
		case errors.As(err, &rowErr):
			return fail(formatter, ErrCodeMalformed, ExitFailure, "malformed snapshot", err)
		case errors.Is(err, os.ErrNotExist):
			return fail(formatter, ErrCodeIO, ExitCommandError, fmt.Sprintf("snapshot directory not found: %s", dir), err)
		default:
			return fail(formatter, ErrCodeIO, ExitCommandError, "failed to read snapshot", err)
		}
	}
	if len(snap.Missing) == len(model.Kinds) {
		return fail(formatter, ErrCodeNotFound, ExitCommandError, fmt.Sprintf("no snapshot files found in %s", dir), nil)
	}

	v, err := schema.New()
	if err != nil {
		return fail(formatter, ErrCodeGeneric, ExitCommandError, "failed to load schema", err)
	}

	result, err := validateSnapshot(v, snap, formatter)
	if err != nil {
		return fail(formatter, ErrCodeGeneric, ExitCommandError, "validation could not run", err)
	}

	if len(result.Errors) > 0 {
		return outputValidationErrors(formatter, result)
	}
	return outputValidateSuccess(formatter, result)
}

// validateSnapshot checks every record of every present file.
func validateSnapshot(v *schema.Validator, snap *transfer.Snapshot, formatter *OutputFormatter) (ValidationResult, error) {
	result := ValidationResult{}
	collect := func(kind model.Kind, n int, errs []*schema.ValidationError, err error) error {
		if err != nil {
			return err
		}
		if snap.Has(kind) {
			formatter.VerboseLog("Validated %d %s record(s)", n, kind)
		}
		result.Records += n
		result.Errors = append(result.Errors, errs...)
		return nil
	}

	errs, err := schema.ValidateAll(v, snap.Climbers)
	if err := collect(model.KindClimber, len(snap.Climbers), errs, err); err != nil {
		return result, err
	}
	errs, err = schema.ValidateAll(v, snap.Leads)
	if err := collect(model.KindLead, len(snap.Leads), errs, err); err != nil {
		return result, err
	}
	errs, err = schema.ValidateAll(v, snap.Speeds)
	if err := collect(model.KindSpeed, len(snap.Speeds), errs, err); err != nil {
		return result, err
	}
	errs, err = schema.ValidateAll(v, snap.Boulders)
	if err := collect(model.KindBoulder, len(snap.Boulders), errs, err); err != nil {
		return result, err
	}

	result.Valid = len(result.Errors) == 0
	return result, nil
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Snapshot valid (%d record(s))\n", result.Records)
	return nil
}

// outputValidationErrors outputs every failing record.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    ErrCodeValidation,
				Message: errs[0].Error(),
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "%s %s\n", err.Kind, err.ID)
		for _, p := range err.Problems {
			if p.Path != "" {
				fmt.Fprintf(formatter.Writer, "  %s: %s\n", p.Path, p.Message)
			} else {
				fmt.Fprintf(formatter.Writer, "  %s\n", p.Message)
			}
		}
		fmt.Fprintln(formatter.Writer)
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
