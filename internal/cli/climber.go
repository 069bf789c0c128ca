package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ascent/internal/model"
	"github.com/roach88/ascent/internal/schema"
	"github.com/roach88/ascent/internal/store"
)

// ClimberOptions holds the profile flags shared by climber add and update.
type ClimberOptions struct {
	*RootOptions
	Name       string
	Country    string
	Federation string
	Sex        string
	DOB        string
	ImageURL   string
	ClearDOB   bool
	ClearImage bool
	Search     string
}

// NewClimberCommand creates the climber command group.
func NewClimberCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "climber",
		Short: "Manage climber profiles",
	}

	cmd.AddCommand(newClimberAddCommand(rootOpts))
	cmd.AddCommand(newClimberShowCommand(rootOpts))
	cmd.AddCommand(newClimberListCommand(rootOpts))
	cmd.AddCommand(newClimberUpdateCommand(rootOpts))
	cmd.AddCommand(newClimberDeleteCommand(rootOpts))

	cmd.SetFlagErrorFunc(rootOpts.flagError)
	return cmd
}

func newClimberAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClimberOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an unofficial climber",
		Long: `Add a user-entered (UNOFFICIAL) climber profile.

The climber id is minted as <next sequence>-<sex code>, one past the largest
sequence already stored.

Example:
  ascent climber add --name "Jane Roe" --sex WOMAN --country AUT --federation KVO`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClimberAdd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "full name (required)")
	cmd.Flags().StringVar(&opts.Country, "country", "", "country code (required)")
	cmd.Flags().StringVar(&opts.Federation, "federation", "", "federation (required)")
	cmd.Flags().StringVar(&opts.Sex, "sex", "", "MAN or WOMAN (required)")
	cmd.Flags().StringVar(&opts.DOB, "dob", "", "date of birth: yyyy, yyyy-MM or yyyy-MM-dd")
	cmd.Flags().StringVar(&opts.ImageURL, "image", "", "profile image URL")
	for _, name := range []string{"name", "country", "federation", "sex"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func runClimberAdd(opts *ClimberOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	sex, err := parseSex(opts.Sex)
	if err != nil {
		return fail(formatter, ErrCodeInvalidArgs, ExitCommandError, "invalid --sex", err)
	}

	st, err := opts.openStore(cmd, formatter)
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	ctx := cmd.Context()
	seq, err := st.Climbers().NextSequence(ctx)
	if err != nil {
		return fail(formatter, ErrCodeStorage, ExitCommandError, "failed to allocate climber id", err)
	}
	id, err := model.NewClimberID(seq, sex)
	if err != nil {
		return fail(formatter, ErrCodeGeneric, ExitCommandError, "failed to allocate climber id", err)
	}

	climber := model.Climber{
		ClimberID:  id,
		Name:       opts.Name,
		Sex:        &sex,
		Country:    opts.Country,
		Federation: opts.Federation,
		RecordType: model.RecordUnofficial,
	}
	if opts.DOB != "" {
		climber.DateOfBirth = model.Ptr(opts.DOB)
	}
	if opts.ImageURL != "" {
		climber.ImageURL = model.Ptr(opts.ImageURL)
	}

	if err := validateClimber(formatter, climber); err != nil {
		return err
	}

	outcome, err := st.Climbers().Insert(ctx, climber)
	if err != nil {
		return fail(formatter, ErrCodeStorage, ExitCommandError, "failed to add climber", err)
	}
	if outcome == store.DuplicateSkipped {
		return fail(formatter, ErrCodeGeneric, ExitFailure, fmt.Sprintf("climber %s already exists", id), nil)
	}

	if formatter.Format == "json" {
		return formatter.Success(climber)
	}
	fmt.Fprintf(formatter.Writer, "✓ Added climber %s (%s)\n", climber.ClimberID, climber.Name)
	return nil
}

func newClimberShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <climber-id>",
		Short:         "Show one climber",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)
			st, err := rootOpts.openStore(cmd, formatter)
			if err != nil {
				return err
			}
			defer rootOpts.closeStore(st)

			climber, err := getClimber(cmd, st, formatter, args[0])
			if err != nil {
				return err
			}
			if formatter.Format == "json" {
				return formatter.Success(climber)
			}
			printClimberDetail(formatter.Writer, climber)
			return nil
		},
	}
}

func newClimberListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClimberOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List climbers",
		Long: `List climbers ordered by id.

--search matches a substring of the name, ignoring case and diacritics.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := opts.formatter(cmd)
			st, err := opts.openStore(cmd, formatter)
			if err != nil {
				return err
			}
			defer opts.closeStore(st)

			climbers, err := st.Climbers().Search(cmd.Context(), opts.Search)
			if err != nil {
				return fail(formatter, ErrCodeStorage, ExitCommandError, "failed to list climbers", err)
			}
			if formatter.Format == "json" {
				return formatter.Success(climbers)
			}
			printClimbers(formatter.Writer, climbers)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Search, "search", "", "name substring to match")

	return cmd
}

func newClimberUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClimberOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update <climber-id>",
		Short: "Update a climber profile",
		Long: `Update the given fields of a climber profile.

OFFICIAL climbers are federation-sourced: only --image and --dob (and their
--clear-* forms) may change. UNOFFICIAL climbers are editable, except that
--sex must agree with the sex code in the id ("-M" or "-W"); to change a
climber's sex, delete it and add it again under a new id.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClimberUpdate(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "full name")
	cmd.Flags().StringVar(&opts.Country, "country", "", "country code")
	cmd.Flags().StringVar(&opts.Federation, "federation", "", "federation")
	cmd.Flags().StringVar(&opts.Sex, "sex", "", "MAN or WOMAN")
	cmd.Flags().StringVar(&opts.DOB, "dob", "", "date of birth: yyyy, yyyy-MM or yyyy-MM-dd")
	cmd.Flags().StringVar(&opts.ImageURL, "image", "", "profile image URL")
	cmd.Flags().BoolVar(&opts.ClearDOB, "clear-dob", false, "remove the date of birth")
	cmd.Flags().BoolVar(&opts.ClearImage, "clear-image", false, "remove the image URL")
	cmd.MarkFlagsMutuallyExclusive("dob", "clear-dob")
	cmd.MarkFlagsMutuallyExclusive("image", "clear-image")

	return cmd
}

func runClimberUpdate(opts *ClimberOptions, cmd *cobra.Command, id string) error {
	formatter := opts.formatter(cmd)
	flags := cmd.Flags()

	st, err := opts.openStore(cmd, formatter)
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	climber, err := getClimber(cmd, st, formatter, id)
	if err != nil {
		return err
	}

	if climber.RecordType == model.RecordOfficial {
		var locked []string
		for _, name := range []string{"name", "country", "federation", "sex"} {
			if flags.Changed(name) {
				locked = append(locked, "--"+name)
			}
		}
		if len(locked) > 0 {
			return fail(formatter, ErrCodeValidation, ExitFailure,
				fmt.Sprintf("climber %s is OFFICIAL: %s cannot be changed", id, strings.Join(locked, ", ")), nil)
		}
	}

	if flags.Changed("name") {
		climber.Name = opts.Name
	}
	if flags.Changed("country") {
		climber.Country = opts.Country
	}
	if flags.Changed("federation") {
		climber.Federation = opts.Federation
	}
	if flags.Changed("sex") {
		sex, err := parseSex(opts.Sex)
		if err != nil {
			return fail(formatter, ErrCodeInvalidArgs, ExitCommandError, "invalid --sex", err)
		}
		if _, code, err := model.ParseClimberID(id); err == nil && code != sex.Code() {
			return fail(formatter, ErrCodeValidation, ExitFailure,
				fmt.Sprintf("climber %s: --sex %s conflicts with id sex code %q; delete and re-add the climber to change it",
					id, sex, code), nil)
		}
		climber.Sex = &sex
	}
	switch {
	case opts.ClearDOB:
		climber.DateOfBirth = nil
	case flags.Changed("dob"):
		climber.DateOfBirth = model.Ptr(opts.DOB)
	}
	switch {
	case opts.ClearImage:
		climber.ImageURL = nil
	case flags.Changed("image"):
		climber.ImageURL = model.Ptr(opts.ImageURL)
	}

	if err := validateClimber(formatter, climber); err != nil {
		return err
	}

	ok, err := st.Climbers().Update(cmd.Context(), id, climber)
	if err != nil {
		return fail(formatter, ErrCodeStorage, ExitCommandError, "failed to update climber", err)
	}
	if !ok {
		return fail(formatter, ErrCodeNotFound, ExitFailure, fmt.Sprintf("climber %s not found", id), nil)
	}

	if formatter.Format == "json" {
		return formatter.Success(climber)
	}
	fmt.Fprintf(formatter.Writer, "✓ Updated climber %s\n", id)
	return nil
}

func newClimberDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <climber-id>",
		Short:         "Delete a climber profile",
		Long:          "Delete a climber profile. Results referencing the climber are kept.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)
			st, err := rootOpts.openStore(cmd, formatter)
			if err != nil {
				return err
			}
			defer rootOpts.closeStore(st)

			id := args[0]
			ok, err := st.Climbers().Delete(cmd.Context(), id)
			if err != nil {
				return fail(formatter, ErrCodeStorage, ExitCommandError, "failed to delete climber", err)
			}
			if !ok {
				return fail(formatter, ErrCodeNotFound, ExitFailure, fmt.Sprintf("climber %s not found", id), nil)
			}

			if formatter.Format == "json" {
				return formatter.Success(map[string]string{"deleted": id})
			}
			fmt.Fprintf(formatter.Writer, "✓ Deleted climber %s\n", id)
			return nil
		},
	}
}

// getClimber loads id, reporting a missing climber as ExitFailure.
func getClimber(cmd *cobra.Command, st *store.Store, formatter *OutputFormatter, id string) (model.Climber, error) {
	climber, ok, err := st.Climbers().Get(cmd.Context(), id)
	if err != nil {
		return climber, fail(formatter, ErrCodeStorage, ExitCommandError, "failed to load climber", err)
	}
	if !ok {
		return climber, fail(formatter, ErrCodeNotFound, ExitFailure, fmt.Sprintf("climber %s not found", id), nil)
	}
	return climber, nil
}

func validateClimber(formatter *OutputFormatter, climber model.Climber) error {
	v, err := schema.New()
	if err != nil {
		return fail(formatter, ErrCodeGeneric, ExitCommandError, "failed to load schema", err)
	}

	err = v.Validate(climber)
	var verr *schema.ValidationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &verr):
		_ = formatter.Error(ErrCodeValidation, verr.Error(), verr.Problems)
		return WrapExitError(ExitFailure, ErrCodeValidation+": invalid climber", verr)
	default:
		return fail(formatter, ErrCodeGeneric, ExitCommandError, "failed to validate climber", err)
	}
}

func parseSex(s string) (model.Sex, error) {
	sex := model.Sex(strings.ToUpper(s))
	if !sex.Valid() {
		return "", fmt.Errorf("unknown sex %q: must be MAN or WOMAN", s)
	}
	return sex, nil
}

func orDash(v *string) string {
	if v == nil {
		return "-"
	}
	return *v
}

func printClimbers(w io.Writer, climbers []model.Climber) {
	if len(climbers) == 0 {
		fmt.Fprintln(w, "No climbers found")
		return
	}
	fmt.Fprintf(w, "%-10s %-28s %-6s %-8s %-12s %s\n", "ID", "NAME", "SEX", "COUNTRY", "FEDERATION", "TYPE")
	for _, c := range climbers {
		fmt.Fprintf(w, "%-10s %-28s %-6s %-8s %-12s %s\n",
			c.ClimberID, c.Name, orDash((*string)(c.Sex)), c.Country, c.Federation, c.RecordType)
	}
}

func printClimberDetail(w io.Writer, c model.Climber) {
	fmt.Fprintf(w, "ID:            %s\n", c.ClimberID)
	fmt.Fprintf(w, "Name:          %s\n", c.Name)
	fmt.Fprintf(w, "Sex:           %s\n", orDash((*string)(c.Sex)))
	fmt.Fprintf(w, "Date of birth: %s\n", orDash(c.DateOfBirth))
	fmt.Fprintf(w, "Country:       %s\n", c.Country)
	fmt.Fprintf(w, "Federation:    %s\n", c.Federation)
	fmt.Fprintf(w, "Image:         %s\n", orDash(c.ImageURL))
	fmt.Fprintf(w, "Record type:   %s\n", c.RecordType)
}
