//nolint:whitespace // can't make both editor and linter happy
package models

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/f1-pitstrategy-go/log"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/config"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/db/postgres"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/degradation"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/model"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/repository/degmodel"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/utils"
)

func NewModelsDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <track> <compound>",
		Short: "deletes a stored degradation model",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deleteModel(cmd, args[0], args[1])
		},
	}
	return cmd
}

func deleteModel(cmd *cobra.Command, trackArg, compoundArg string) error {
	logger, err := utils.SetupLogger()
	if err != nil {
		return err
	}
	l := logger.Named("models")
	if config.DB == "" {
		return errors.New("database connection required (--db)")
	}
	compound, err := model.ParseCompound(compoundArg)
	if err != nil {
		return err
	}
	if err := utils.WaitForTCP(
		utils.ExtractFromDBURL(config.DB), 10*time.Second); err != nil {
		return err
	}
	pool := postgres.InitWithUrl(config.DB, postgres.WithTracer(l.Sugar()))
	defer postgres.CloseDb()

	key := degradation.NewKey(trackArg, compound)
	num, err := degmodel.DeleteByKey(cmd.Context(), pool, key)
	if err != nil {
		return err
	}
	if num == 0 {
		l.Warn("no model stored for key",
			log.String("track", key.Track),
			log.String("compound", string(key.Compound)))
		return nil
	}
	l.Info("model deleted",
		log.String("track", key.Track),
		log.String("compound", string(key.Compound)))
	return nil
}
