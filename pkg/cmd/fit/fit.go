//nolint:whitespace // can't make both editor and linter happy
package fit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/f1-pitstrategy-go/log"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/config"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/db/postgres"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/degradation"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/ingest"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/model"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/repository/degmodel"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/utils"
)

func NewFitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fit <year>:<track> [<year>:<track> ...]",
		Short: "fits degradation models from historical race data",
		Long: `Loads the given races from the data directory, fits a lap time
degradation model per track and compound and writes the model snapshot.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fitModels(cmd.Context(), args)
		},
	}
	cmd.Flags().IntVar(&config.MinSamples, "min-samples",
		degradation.DefaultMinSamples,
		"minimum number of laps required to fit a model")
	return cmd
}

//nolint:funlen,cyclop // better readability
func fitModels(ctx context.Context, args []string) error {
	logger, err := utils.SetupLogger()
	if err != nil {
		return err
	}
	l := logger.Named("fit")

	loader := ingest.NewFileLoader(config.DataDir,
		ingest.WithFuelModel(config.InitialFuelKg, config.FuelPerLapKg))

	store := degradation.NewStore()
	for _, arg := range args {
		year, trackID, refErr := parseRaceRef(arg)
		if refErr != nil {
			return refErr
		}
		race, loadErr := loader.LoadRace(ctx, year, trackID)
		if loadErr != nil {
			var wetErr *ingest.WetSessionError
			if errors.As(loadErr, &wetErr) {
				l.Warn("skipping wet session", log.String("race", arg))
				continue
			}
			return loadErr
		}
		for _, compound := range raceCompounds(race) {
			_, fitErr := store.Fit(race.Laps, race.TrackID, compound,
				degradation.WithMinSamples(config.MinSamples))
			if fitErr != nil {
				l.Warn("model not fitted",
					log.String("track", race.TrackID),
					log.String("compound", string(compound)),
					log.ErrorField(fitErr))
			}
		}
	}

	if len(store.Keys()) == 0 {
		return errors.New("no model could be fitted from the given races")
	}
	if err := store.Save(config.ModelsFile); err != nil {
		return err
	}
	l.Info("model snapshot written",
		log.String("file", config.ModelsFile),
		log.Int("models", len(store.Keys())))

	if config.DB != "" {
		return persistModels(ctx, store, l)
	}
	return nil
}

func persistModels(ctx context.Context, store *degradation.Store, l *log.Logger) error {
	if err := utils.WaitForTCP(
		utils.ExtractFromDBURL(config.DB), 10*time.Second); err != nil {
		return err
	}
	pool := postgres.InitWithUrl(config.DB, postgres.WithTracer(l.Sugar()))
	defer postgres.CloseDb()
	for _, key := range store.Keys() {
		m, err := store.Model(key.Track, key.Compound)
		if err != nil {
			return err
		}
		if err := degmodel.Upsert(ctx, pool, m); err != nil {
			return err
		}
	}
	l.Info("models persisted to database", log.Int("models", len(store.Keys())))
	return nil
}

func raceCompounds(race *model.Race) []model.Compound {
	return lo.Uniq(lo.FilterMap(race.Laps,
		func(lap model.Lap, _ int) (model.Compound, bool) {
			return lap.Compound, lap.Compound.Valid()
		}))
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
