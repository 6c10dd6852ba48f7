//nolint:whitespace // can't make both editor and linter happy
package valrun

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mpapenbr/f1-pitstrategy-go/pkg/model"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/repository"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/validation"
)

var runSelector = `select r.id, r.total_decisions, r.count_within_3, r.pct_within_3,
	r.mean_abs_lap_delta, r.count_errors from validation_run r`

var decisionSelector = `select d.year, d.track_id, d.driver_number, d.actual_pit_lap,
	d.recommended_pit_lap, d.lap_delta, d.alignment_within_3, d.current_compound,
	d.new_compound, d.lap_in_stint, d.error from validation_decision d`

// CreateRun stores the summary of a finished validation run.
func CreateRun(
	ctx context.Context,
	conn repository.Querier,
	id uuid.UUID,
	summary *validation.Summary,
) error {
	_, err := conn.Exec(ctx, `
	insert into validation_run (
		id, total_decisions, count_within_3, pct_within_3,
		mean_abs_lap_delta, count_errors
	) values ($1,$2,$3,$4,$5,$6)
		`,
		id.String(), summary.TotalDecisions, summary.CountWithin3,
		summary.PctWithin3, summary.MeanAbsLapDelta, summary.CountErrors,
	)
	return err
}

// SaveDecisions stores the per-decision rows belonging to a run.
func SaveDecisions(
	ctx context.Context,
	conn repository.Querier,
	runID uuid.UUID,
	details []validation.Decision,
) error {
	for i := range details {
		d := &details[i]
		_, err := conn.Exec(ctx, `
		insert into validation_decision (
			run_id, year, track_id, driver_number, actual_pit_lap,
			recommended_pit_lap, lap_delta, alignment_within_3,
			current_compound, new_compound, lap_in_stint, error
		) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
			`,
			runID.String(), d.Year, d.TrackID, d.DriverNumber, d.ActualPitLap,
			d.RecommendedPitLap, d.LapDelta, d.AlignmentWithin3,
			string(d.CurrentCompound), string(d.NewCompound), d.LapInStint, d.Error,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func LoadRun(ctx context.Context, conn repository.Querier, id uuid.UUID) (
	*validation.Summary, error,
) {
	row := conn.QueryRow(ctx,
		fmt.Sprintf("%s where r.id=$1", runSelector), id.String())
	summary, err := readRun(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNoData
		}
		return nil, err
	}
	return summary, nil
}

func LoadDecisions(ctx context.Context, conn repository.Querier, runID uuid.UUID) (
	[]validation.Decision, error,
) {
	row, err := conn.Query(ctx,
		fmt.Sprintf("%s where d.run_id=$1 order by d.year, d.track_id, d.actual_pit_lap",
			decisionSelector),
		runID.String())
	if err != nil {
		return nil, err
	}
	ret := make([]validation.Decision, 0)
	defer row.Close()
	for row.Next() {
		item, err := readDecision(row)
		if err != nil {
			return nil, err
		}
		ret = append(ret, *item)
	}
	return ret, nil
}

// deletes a run and its decisions, returns number of decision rows deleted.
func DeleteRun(ctx context.Context, conn repository.Querier, id uuid.UUID) (int, error) {
	cmdTag, err := conn.Exec(ctx,
		"delete from validation_decision where run_id=$1", id.String())
	if err != nil {
		return 0, err
	}
	if _, err := conn.Exec(ctx,
		"delete from validation_run where id=$1", id.String()); err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func readRun(row pgx.Row) (*validation.Summary, error) {
	var summary validation.Summary
	var id string
	var mean *decimal.Decimal
	if err := row.Scan(
		&id,
		&summary.TotalDecisions,
		&summary.CountWithin3,
		&summary.PctWithin3,
		&mean,
		&summary.CountErrors,
	); err != nil {
		return nil, err
	}
	summary.MeanAbsLapDelta = mean
	return &summary, nil
}

func readDecision(row pgx.Row) (*validation.Decision, error) {
	var item validation.Decision
	var current, next string
	if err := row.Scan(
		&item.Year,
		&item.TrackID,
		&item.DriverNumber,
		&item.ActualPitLap,
		&item.RecommendedPitLap,
		&item.LapDelta,
		&item.AlignmentWithin3,
		&current,
		&next,
		&item.LapInStint,
		&item.Error,
	); err != nil {
		return nil, err
	}
	item.CurrentCompound = model.Compound(current)
	item.NewCompound = model.Compound(next)
	return &item, nil
}
