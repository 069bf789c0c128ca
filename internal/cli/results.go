package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ascent/internal/model"
	"github.com/roach88/ascent/internal/store"
)

// ResultsOptions holds flags for the results command.
type ResultsOptions struct {
	*RootOptions
	Kind          string
	ClimberID     string
	CompetitionID string
}

// NewResultsCommand creates the results command.
func NewResultsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResultsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "results",
		Short: "List competition results",
		Long: `List the results of one discipline for a climber or a competition,
ordered by result id.

Example:
  ascent results --kind lead --climber 42-M
  ascent results --kind speed --competition 1290 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResults(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "", "discipline: lead, speed or boulder (required)")
	cmd.Flags().StringVar(&opts.ClimberID, "climber", "", "climber id")
	cmd.Flags().StringVar(&opts.CompetitionID, "competition", "", "competition id")
	_ = cmd.MarkFlagRequired("kind")
	cmd.MarkFlagsMutuallyExclusive("climber", "competition")
	cmd.MarkFlagsOneRequired("climber", "competition")

	cmd.SetFlagErrorFunc(opts.flagError)
	return cmd
}

// resultRow is the discipline-independent view printed in text mode.
type resultRow struct {
	ID     string
	Date   string
	Title  string
	Rank   *int
	Stages []model.Stage
}

func runResults(opts *ResultsOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	kind, err := model.ParseKind(opts.Kind)
	if err == nil && kind == model.KindClimber {
		err = fmt.Errorf("%q is not a result kind", opts.Kind)
	}
	if err != nil {
		return fail(formatter, ErrCodeInvalidArgs, ExitCommandError, "invalid --kind", err)
	}

	st, err := opts.openStore(cmd, formatter)
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	ctx := cmd.Context()
	var (
		data any
		rows []resultRow
	)
	switch kind {
	case model.KindLead:
		recs, qerr := queryResults(ctx, formatter, st.Leads(), opts.ClimberID, opts.CompetitionID)
		data, err = recs, qerr
		for _, r := range recs {
			rows = append(rows, roundRow(model.RoundResult(r)))
		}
	case model.KindBoulder:
		recs, qerr := queryResults(ctx, formatter, st.Boulders(), opts.ClimberID, opts.CompetitionID)
		data, err = recs, qerr
		for _, r := range recs {
			rows = append(rows, roundRow(model.RoundResult(r)))
		}
	case model.KindSpeed:
		recs, qerr := queryResults(ctx, formatter, st.Speeds(), opts.ClimberID, opts.CompetitionID)
		data, err = recs, qerr
		for _, r := range recs {
			rows = append(rows, resultRow{
				ID: r.ID, Date: r.Date, Title: r.CompetitionTitle, Rank: r.Rank, Stages: r.Stages(),
			})
		}
	}
	if err != nil {
		return fail(formatter, ErrCodeStorage, ExitCommandError, "failed to list results", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(data)
	}
	printResults(formatter.Writer, rows)
	return nil
}

func queryResults[T model.Record](ctx context.Context, formatter *OutputFormatter, coll *store.ResultCollection[T], climberID, competitionID string) ([]T, error) {
	if climberID != "" {
		formatter.VerboseLog("Listing %s results for climber %s", coll.Kind(), climberID)
		return coll.ByClimberID(ctx, climberID)
	}
	formatter.VerboseLog("Listing %s results for competition %s", coll.Kind(), competitionID)
	return coll.ByCompetitionID(ctx, competitionID)
}

func roundRow(r model.RoundResult) resultRow {
	return resultRow{ID: r.ID, Date: r.Date, Title: r.CompetitionTitle, Rank: r.Rank, Stages: r.Stages()}
}

func printResults(w io.Writer, rows []resultRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No results found")
		return
	}
	for _, r := range rows {
		rank := "-"
		if r.Rank != nil {
			rank = strconv.Itoa(*r.Rank)
		}
		stages := make([]string, 0, len(r.Stages))
		for _, s := range r.Stages {
			if s.Outcome.Present() {
				stages = append(stages, s.Name+"="+s.Outcome.String())
			}
		}
		fmt.Fprintf(w, "%-14s %-10s rank %-4s %s\n", r.ID, r.Date, rank, r.Title)
		if len(stages) > 0 {
			fmt.Fprintf(w, "  %s\n", strings.Join(stages, " "))
		}
	}
}
