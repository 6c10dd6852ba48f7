//nolint:whitespace // can't make both editor and linter happy
package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/f1-pitstrategy-go/log"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/config"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/db/postgres"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/repository/valrun"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/utils"
)

func NewReportDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <run-id>",
		Short: "deletes a stored validation run and its decisions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deleteRun(cmd, args[0])
		},
	}
	return cmd
}

func deleteRun(cmd *cobra.Command, runArg string) error {
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
	if err := utils.WaitForTCP(
		utils.ExtractFromDBURL(config.DB), 10*time.Second); err != nil {
		return err
	}
	pool := postgres.InitWithUrl(config.DB, postgres.WithTracer(l.Sugar()))
	defer postgres.CloseDb()

	num, err := valrun.DeleteRun(cmd.Context(), pool, runID)
	if err != nil {
		return err
	}
	l.Info("validation run deleted",
		log.String("runId", runID.String()),
		log.Int("decisions", num))
	return nil
}
