//nolint:whitespace // can't make both editor and linter happy
package validate

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/f1-pitstrategy-go/log"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/config"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/db/postgres"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/degradation"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/ingest"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/model"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/repository/degmodel"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/repository/valrun"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/strategy"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/utils"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/validation"
)

func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <year>:<track> [<year>:<track> ...]",
		Short: "validates recommendations against historical pit decisions",
		Long: `Replays the optimizer at every historical pit stop of the given
races and reports how often the recommendation was within 3 laps of the
actual decision.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return validate(cmd, args)
		},
	}
	cmd.Flags().StringVar(&config.ResultsDir, "results-dir",
		"results",
		"directory for validation result files")
	return cmd
}

//nolint:funlen // command wiring
func validate(cmd *cobra.Command, args []string) error {
	logger, err := utils.SetupLogger()
	if err != nil {
		return err
	}
	l := logger.Named("validate")
	ctx := cmd.Context()

	store, err := loadStore(ctx, l)
	if err != nil {
		return err
	}

	races, err := loadRaces(ctx, args, l)
	if err != nil {
		return err
	}
	if len(races) == 0 {
		return errors.New("none of the given races could be used")
	}

	pitLossOpts := []strategy.PitLossOption{}
	if config.PitLossFile != "" {
		pitLossOpts = append(pitLossOpts, strategy.WithPitLossFile(config.PitLossFile))
	}
	optimizer := strategy.NewOptimizer(store, strategy.NewPitLossTable(pitLossOpts...))

	harness := validation.NewHarness(optimizer,
		validation.WithWindowLaps(config.WindowLaps),
		validation.WithFuelModel(config.InitialFuelKg, config.FuelPerLapKg))
	details, summary := harness.Run(races)

	if err := validation.SaveResults(config.ResultsDir, details, summary); err != nil {
		return err
	}
	printSummary(cmd, summary)

	if config.DB != "" {
		return persistRun(ctx, harness, details, summary, l)
	}
	return nil
}

// loadStore restores the degradation models, preferring the database over
// the snapshot file when a connection string is configured.
func loadStore(ctx context.Context, l *log.Logger) (*degradation.Store, error) {
	store := degradation.NewStore()
	if config.DB == "" {
		if err := store.Load(config.ModelsFile); err != nil {
			return nil, fmt.Errorf("error loading model snapshot: %w", err)
		}
		return store, nil
	}
	if err := utils.WaitForTCP(
		utils.ExtractFromDBURL(config.DB), 10*time.Second); err != nil {
		return nil, err
	}
	pool := postgres.InitWithUrl(config.DB, postgres.WithTracer(l.Sugar()))
	defer postgres.CloseDb()
	models, err := degmodel.LoadAll(ctx, pool)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, errors.New("no fitted models found in database")
	}
	store.Restore(models)
	return store, nil
}

func loadRaces(ctx context.Context, args []string, l *log.Logger) (
	[]*model.Race, error,
) {
	loader := ingest.NewFileLoader(config.DataDir,
		ingest.WithFuelModel(config.InitialFuelKg, config.FuelPerLapKg))
	races := make([]*model.Race, 0, len(args))
	for _, arg := range args {
		year, trackID, err := parseRaceRef(arg)
		if err != nil {
			return nil, err
		}
		race, err := loader.LoadRace(ctx, year, trackID)
		if err != nil {
			var wetErr *ingest.WetSessionError
			if errors.As(err, &wetErr) {
				l.Warn("skipping wet session", log.String("race", arg))
				continue
			}
			return nil, err
		}
		races = append(races, race)
	}
	return races, nil
}

func persistRun(
	ctx context.Context,
	harness *validation.Harness,
	details []validation.Decision,
	summary *validation.Summary,
	l *log.Logger,
) error {
	if err := utils.WaitForTCP(
		utils.ExtractFromDBURL(config.DB), 10*time.Second); err != nil {
		return err
	}
	pool := postgres.InitWithUrl(config.DB, postgres.WithTracer(l.Sugar()))
	defer postgres.CloseDb()
	if err := valrun.CreateRun(ctx, pool, harness.RunID(), summary); err != nil {
		return err
	}
	if err := valrun.SaveDecisions(ctx, pool, harness.RunID(), details); err != nil {
		return err
	}
	l.Info("validation run persisted", log.String("runId", harness.RunID().String()))
	return nil
}

func printSummary(cmd *cobra.Command, summary *validation.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Decisions evaluated: %d\n", summary.TotalDecisions)
	fmt.Fprintf(out, "Within 3 laps:       %d (%s%%)\n",
		summary.CountWithin3, summary.PctWithin3.String())
	if summary.MeanAbsLapDelta != nil {
		fmt.Fprintf(out, "Mean abs lap delta:  %s\n", summary.MeanAbsLapDelta.String())
	} else {
		fmt.Fprintf(out, "Mean abs lap delta:  n/a\n")
	}
	fmt.Fprintf(out, "Errors:              %d\n", summary.CountErrors)
}

func parseRaceRef(arg string) (year int, trackID string, err error) {
	yearStr, track, found := strings.Cut(arg, ":")
	if !found {
		return 0, "", fmt.Errorf("invalid race reference %q (want <year>:<track>)", arg)
	}
	year, err = strconv.Atoi(yearStr)
	if err != nil {
		return 0, "", fmt.Errorf("invalid year in race reference %q", arg)
	}
	return year, track, nil
}
