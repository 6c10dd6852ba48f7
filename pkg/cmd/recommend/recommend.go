//nolint:whitespace // can't make both editor and linter happy
package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/f1-pitstrategy-go/log"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/config"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/db/postgres"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/degradation"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/model"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/repository"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/repository/degmodel"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/strategy"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/utils"
)

var (
	trackID     string
	currentLap  int
	compoundArg string
	lapInStint  int
	totalLaps   int
	newCompound string
	trackTemp   float64
)

//nolint:lll // readability
func NewRecommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "recommends the best pit lap for the current race state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return recommend(cmd)
		},
	}
	cmd.Flags().StringVar(&trackID, "track", "", "track of the race")
	cmd.Flags().IntVar(&currentLap, "current-lap", 0, "current race lap")
	cmd.Flags().StringVar(&compoundArg, "compound", "", "compound currently fitted (soft, medium, hard)")
	cmd.Flags().IntVar(&lapInStint, "lap-in-stint", 1, "laps already done on the current set")
	cmd.Flags().IntVar(&totalLaps, "total-laps", 0, "total number of race laps")
	cmd.Flags().StringVar(&newCompound, "new-compound", "", "compound to fit at the stop (default: current compound)")
	cmd.Flags().Float64Var(&trackTemp, "track-temp", 0, "current track temperature (Celsius)")
	//nolint:errcheck // cobra marks are fine
	cmd.MarkFlagRequired("track")
	//nolint:errcheck // cobra marks are fine
	cmd.MarkFlagRequired("current-lap")
	//nolint:errcheck // cobra marks are fine
	cmd.MarkFlagRequired("compound")
	//nolint:errcheck // cobra marks are fine
	cmd.MarkFlagRequired("total-laps")
	return cmd
}

//nolint:funlen // mostly output
func recommend(cmd *cobra.Command) error {
	logger, err := utils.SetupLogger()
	if err != nil {
		return err
	}
	l := logger.Named("recommend")

	current, err := model.ParseCompound(compoundArg)
	if err != nil {
		return err
	}
	next := current
	if newCompound != "" {
		if next, err = model.ParseCompound(newCompound); err != nil {
			return err
		}
	}

	store, err := loadStore(cmd.Context(), l, []model.Compound{current, next})
	if err != nil {
		return err
	}

	params := &strategy.Params{
		CurrentLap:      currentLap,
		CurrentCompound: current,
		LapInStint:      lapInStint,
		TotalRaceLaps:   totalLaps,
		TrackID:         trackID,
		NewCompound:     next,
		WindowLaps:      config.WindowLaps,
		InitialFuelKg:   config.InitialFuelKg,
		FuelPerLapKg:    config.FuelPerLapKg,
	}
	if cmd.Flags().Changed("track-temp") {
		params.TrackTemp = &trackTemp
	}

	pitLossOpts := []strategy.PitLossOption{}
	if config.PitLossFile != "" {
		pitLossOpts = append(pitLossOpts, strategy.WithPitLossFile(config.PitLossFile))
	}
	optimizer := strategy.NewOptimizer(store, strategy.NewPitLossTable(pitLossOpts...))

	bundle, err := optimizer.RecommendationBundle(params)
	if err != nil {
		return err
	}
	printBundle(cmd, bundle)
	return nil
}

// loadStore reads the models for the given compounds from the database when
// one is configured, otherwise from the snapshot file. A compound without a
// stored model stays absent; the optimizer reports it on use.
func loadStore(ctx context.Context, l *log.Logger, compounds []model.Compound) (
	*degradation.Store, error,
) {
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
	models := make([]*degradation.FittedModel, 0, len(compounds))
	for _, compound := range lo.Uniq(compounds) {
		m, err := degmodel.LoadByKey(ctx, pool, degradation.NewKey(trackID, compound))
		if err != nil {
			if errors.Is(err, repository.ErrNoData) {
				continue
			}
			return nil, err
		}
		models = append(models, m)
	}
	store.Restore(models)
	return store, nil
}

func printBundle(cmd *cobra.Command, bundle *strategy.Bundle) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Candidates for %s (%d laps):\n",
		bundle.Result.TrackID, bundle.Result.TotalRaceLaps)
	for _, c := range bundle.Result.Candidates {
		fmt.Fprintf(out, "  %s\n", c.Output())
	}
	if bundle.RecommendedLap != nil {
		fmt.Fprintf(out, "Recommendation: pit on lap %d\n", *bundle.RecommendedLap)
	} else {
		fmt.Fprintf(out, "Recommendation: stay out\n")
	}
	if bundle.WindowMin != nil && bundle.WindowMax != nil {
		fmt.Fprintf(out, "Pit window: lap %d to lap %d\n",
			*bundle.WindowMin, *bundle.WindowMax)
	}
	fmt.Fprintf(out, "\n%s\n", bundle.Explanation.Summary)
	fmt.Fprintf(out, "\nWhat-if:\n")
	fmt.Fprintf(out, "  %s\n", bundle.PitLossSensitivity.Message)
	fmt.Fprintf(out, "  %s\n", bundle.DegradationSensitivity.Message)
	fmt.Fprintf(out, "  %s\n", bundle.VSC.Message)
}
