//nolint:whitespace // can't make both editor and linter happy
package report

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/f1-pitstrategy-go/pkg/config"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/db/postgres"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/repository/valrun"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/utils"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/validation"
)

func NewReportShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "shows a stored validation run with its decisions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showRun(cmd, args[0])
		},
	}
	return cmd
}

func showRun(cmd *cobra.Command, runArg string) error {
	logger, err := utils.SetupLogger()
	if err != nil {
		return err
	}
	l := logger.Named("report")
	if config.DB == "" {
		return errors.New("database connection required (--db)")
	}
	runID, err := uuid.Parse(runArg)
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", runArg, err)
	}
	ctx := cmd.Context()
	if err := utils.WaitForTCP(
		utils.ExtractFromDBURL(config.DB), 10*time.Second); err != nil {
		return err
	}
	pool := postgres.InitWithUrl(config.DB, postgres.WithTracer(l.Sugar()))
	defer postgres.CloseDb()

	summary, err := valrun.LoadRun(ctx, pool, runID)
	if err != nil {
		return err
	}
	decisions, err := valrun.LoadDecisions(ctx, pool, runID)
	if err != nil {
		return err
	}
	writeRun(cmd.OutOrStdout(), runID, summary, decisions)
	return nil
}

//nolint:errcheck // write errors on stdout are not actionable
func writeRun(
	out io.Writer,
	runID uuid.UUID,
	summary *validation.Summary,
	decisions []validation.Decision,
) {
	fmt.Fprintf(out, "Run:                 %s\n", runID.String())
	fmt.Fprintf(out, "Decisions evaluated: %d\n", summary.TotalDecisions)
	fmt.Fprintf(out, "Within 3 laps:       %d (%s%%)\n",
		summary.CountWithin3, summary.PctWithin3.String())
	if summary.MeanAbsLapDelta != nil {
		fmt.Fprintf(out, "Mean abs lap delta:  %s\n", summary.MeanAbsLapDelta.String())
	} else {
		fmt.Fprintf(out, "Mean abs lap delta:  n/a\n")
	}
	fmt.Fprintf(out, "Errors:              %d\n", summary.CountErrors)
	for i := range decisions {
		fmt.Fprintf(out, "  %s\n", decisionText(&decisions[i]))
	}
}

func decisionText(d *validation.Decision) string {
	if d.Error {
		return fmt.Sprintf("%d %s #%s: pitted lap %d, no recommendation (error)",
			d.Year, d.TrackID, d.DriverNumber, d.ActualPitLap)
	}
	if d.RecommendedPitLap == nil {
		return fmt.Sprintf("%d %s #%s: pitted lap %d, recommended stay out",
			d.Year, d.TrackID, d.DriverNumber, d.ActualPitLap)
	}
	return fmt.Sprintf("%d %s #%s: pitted lap %d, recommended lap %d (delta %+d)",
		d.Year, d.TrackID, d.DriverNumber, d.ActualPitLap,
		*d.RecommendedPitLap, *d.LapDelta)
}
