//nolint:whitespace // can't make both editor and linter happy
package models

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/f1-pitstrategy-go/pkg/config"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/db/postgres"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/degradation"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/repository/degmodel"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/utils"
)

func NewModelsShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "lists the degradation models stored in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showModels(cmd)
		},
	}
	return cmd
}

func showModels(cmd *cobra.Command) error {
	logger, err := utils.SetupLogger()
	if err != nil {
		return err
	}
	l := logger.Named("models")
	if config.DB == "" {
		return errors.New("database connection required (--db)")
	}
	if err := utils.WaitForTCP(
		utils.ExtractFromDBURL(config.DB), 10*time.Second); err != nil {
		return err
	}
	pool := postgres.InitWithUrl(config.DB, postgres.WithTracer(l.Sugar()))
	defer postgres.CloseDb()

	items, err := degmodel.LoadAll(cmd.Context(), pool)
	if err != nil {
		return err
	}
	writeModels(cmd.OutOrStdout(), items)
	return nil
}

//nolint:errcheck // write errors on stdout are not actionable
func writeModels(out io.Writer, items []*degradation.FittedModel) {
	for _, m := range items {
		line := fmt.Sprintf(
			"%s/%s: base %.3fs, %+.3fs per lap in stint, %+.3fs per kg fuel, %d samples",
			m.Key.Track, m.Key.Compound,
			m.Coef.Intercept, m.Coef.LapInStint, m.Coef.FuelKg, m.Samples)
		if m.HasTrackTemp {
			line += fmt.Sprintf(", %+.3fs per degree track temp (mean %.1f)",
				m.Coef.TrackTemp, m.MeanTrackTemp)
		}
		fmt.Fprintln(out, line)
	}
}
