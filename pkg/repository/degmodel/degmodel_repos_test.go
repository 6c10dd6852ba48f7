package degmodel

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/f1-pitstrategy-go/pkg/degradation"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/model"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/repository"
	"github.com/mpapenbr/f1-pitstrategy-go/testsupport/fakedb"
)

func sampleRow(track, compound string) []any {
	return []any{track, compound, 92.0, 0.08, 0.03, 0.0, false, 0.0, 24}
}

func Test_LoadByKey(t *testing.T) {
	conn := &fakedb.Querier{Rows: [][]any{sampleRow("monza", "SOFT")}}

	got, err := LoadByKey(context.Background(), conn,
		degradation.NewKey("monza", model.CompoundSoft))
	assert.NoError(t, err)

	want := &degradation.FittedModel{
		Key: degradation.NewKey("monza", model.CompoundSoft),
		Coef: degradation.Coefficients{
			Intercept:  92.0,
			LapInStint: 0.08,
			FuelKg:     0.03,
		},
		Samples: 24,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("model mismatch (-want +got):\n%s", diff)
	}
}

func Test_LoadByKey_noData(t *testing.T) {
	conn := &fakedb.Querier{}

	_, err := LoadByKey(context.Background(), conn,
		degradation.NewKey("monza", model.CompoundSoft))
	assert.ErrorIs(t, err, repository.ErrNoData)
}

func Test_LoadAll(t *testing.T) {
	conn := &fakedb.Querier{Rows: [][]any{
		sampleRow("monza", "HARD"),
		sampleRow("monza", "SOFT"),
		sampleRow("spa", "MEDIUM"),
	}}

	got, err := LoadAll(context.Background(), conn)
	assert.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, degradation.NewKey("monza", model.CompoundHard), got[0].Key)
	assert.Equal(t, degradation.NewKey("monza", model.CompoundSoft), got[1].Key)
	assert.Equal(t, degradation.NewKey("spa", model.CompoundMedium), got[2].Key)
}

func Test_DeleteByKey(t *testing.T) {
	conn := &fakedb.Querier{Tag: pgconn.NewCommandTag("DELETE 1")}

	num, err := DeleteByKey(context.Background(), conn,
		degradation.NewKey("monza", model.CompoundSoft))
	assert.NoError(t, err)
	assert.Equal(t, 1, num)
	assert.Equal(t, []any{"monza", "SOFT"}, conn.ExecArgs[0])
}

func Test_Upsert(t *testing.T) {
	conn := &fakedb.Querier{}
	m := &degradation.FittedModel{
		Key:     degradation.NewKey("monza", model.CompoundSoft),
		Coef:    degradation.Coefficients{Intercept: 92.0, LapInStint: 0.08, FuelKg: 0.03},
		Samples: 24,
	}

	err := Upsert(context.Background(), conn, m)
	assert.NoError(t, err)
	assert.Len(t, conn.ExecArgs[0], 9)
	assert.Equal(t, "monza", conn.ExecArgs[0][0])
	assert.Equal(t, "SOFT", conn.ExecArgs[0][1])
}
