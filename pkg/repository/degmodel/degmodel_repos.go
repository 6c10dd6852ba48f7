//nolint:whitespace // can't make both editor and linter happy
package degmodel

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mpapenbr/f1-pitstrategy-go/pkg/degradation"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/model"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/repository"
)

var selector = `select d.track, d.compound, d.intercept, d.coef_lap_in_stint,
	d.coef_fuel_kg, d.coef_track_temp, d.has_track_temp, d.mean_track_temp, d.samples
	from degradation_model d`

// Upsert stores a fitted model, replacing any previous fit for the same
// track and compound.
func Upsert(
	ctx context.Context,
	conn repository.Querier,
	m *degradation.FittedModel,
) error {
	_, err := conn.Exec(ctx, `
	insert into degradation_model (
		track, compound, intercept, coef_lap_in_stint, coef_fuel_kg,
		coef_track_temp, has_track_temp, mean_track_temp, samples
	) values ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	on conflict (track, compound) do update set
		intercept=excluded.intercept,
		coef_lap_in_stint=excluded.coef_lap_in_stint,
		coef_fuel_kg=excluded.coef_fuel_kg,
		coef_track_temp=excluded.coef_track_temp,
		has_track_temp=excluded.has_track_temp,
		mean_track_temp=excluded.mean_track_temp,
		samples=excluded.samples
		`,
		m.Key.Track, string(m.Key.Compound),
		m.Coef.Intercept, m.Coef.LapInStint, m.Coef.FuelKg, m.Coef.TrackTemp,
		m.HasTrackTemp, m.MeanTrackTemp, m.Samples,
	)
	return err
}

func LoadByKey(ctx context.Context, conn repository.Querier, key degradation.Key) (
	*degradation.FittedModel, error,
) {
	row := conn.QueryRow(ctx,
		fmt.Sprintf("%s where d.track=$1 and d.compound=$2", selector),
		key.Track, string(key.Compound))
	item, err := readData(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNoData
		}
		return nil, err
	}
	return item, nil
}

func LoadAll(ctx context.Context, conn repository.Querier) (
	[]*degradation.FittedModel, error,
) {
	row, err := conn.Query(ctx,
		fmt.Sprintf("%s order by d.track asc, d.compound asc", selector))
	if err != nil {
		return nil, err
	}
	ret := make([]*degradation.FittedModel, 0)
	defer row.Close()
	for row.Next() {
		item, err := readData(row)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

// deletes an entry from the database, returns number of rows deleted.
func DeleteByKey(
	ctx context.Context,
	conn repository.Querier,
	key degradation.Key,
) (int, error) {
	cmdTag, err := conn.Exec(ctx,
		"delete from degradation_model where track=$1 and compound=$2",
		key.Track, string(key.Compound))
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func readData(row pgx.Row) (*degradation.FittedModel, error) {
	var item degradation.FittedModel
	var compound string
	if err := row.Scan(
		&item.Key.Track,
		&compound,
		&item.Coef.Intercept,
		&item.Coef.LapInStint,
		&item.Coef.FuelKg,
		&item.Coef.TrackTemp,
		&item.HasTrackTemp,
		&item.MeanTrackTemp,
		&item.Samples,
	); err != nil {
		return nil, err
	}
	item.Key.Compound = model.Compound(compound)
	return &item, nil
}
