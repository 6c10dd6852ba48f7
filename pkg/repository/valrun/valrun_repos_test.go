package valrun

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/f1-pitstrategy-go/pkg/model"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/repository"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/validation"
	"github.com/mpapenbr/f1-pitstrategy-go/testsupport/fakedb"
)

func Test_LoadRun(t *testing.T) {
	runID := uuid.New()
	mean := decimal.RequireFromString("1.25")
	conn := &fakedb.Querier{Rows: [][]any{
		{runID.String(), 10, 8, decimal.RequireFromString("88.89"), &mean, 1},
	}}

	got, err := LoadRun(context.Background(), conn, runID)
	assert.NoError(t, err)
	assert.Equal(t, 10, got.TotalDecisions)
	assert.Equal(t, 8, got.CountWithin3)
	assert.True(t, got.PctWithin3.Equal(decimal.RequireFromString("88.89")))
	assert.NotNil(t, got.MeanAbsLapDelta)
	assert.True(t, got.MeanAbsLapDelta.Equal(mean))
	assert.Equal(t, 1, got.CountErrors)
}

func Test_LoadRun_undefinedMean(t *testing.T) {
	runID := uuid.New()
	conn := &fakedb.Querier{Rows: [][]any{
		{runID.String(), 2, 0, decimal.Zero, nil, 2},
	}}

	got, err := LoadRun(context.Background(), conn, runID)
	assert.NoError(t, err)
	assert.Nil(t, got.MeanAbsLapDelta)
	assert.Equal(t, 2, got.CountErrors)
}

func Test_LoadRun_noData(t *testing.T) {
	conn := &fakedb.Querier{}

	_, err := LoadRun(context.Background(), conn, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNoData)
}

func Test_LoadDecisions(t *testing.T) {
	rec := 22
	delta := 2
	conn := &fakedb.Querier{Rows: [][]any{
		{2024, "monza", "44", 20, &rec, &delta, true, "SOFT", "HARD", 20, false},
		{2024, "monza", "16", 30, nil, nil, false, "MEDIUM", "HARD", 12, true},
	}}

	got, err := LoadDecisions(context.Background(), conn, uuid.New())
	assert.NoError(t, err)

	want := []validation.Decision{
		{
			Year: 2024, TrackID: "monza", DriverNumber: "44",
			ActualPitLap: 20, RecommendedPitLap: &rec, LapDelta: &delta,
			AlignmentWithin3: true,
			CurrentCompound:  model.CompoundSoft, NewCompound: model.CompoundHard,
			LapInStint: 20,
		},
		{
			Year: 2024, TrackID: "monza", DriverNumber: "16",
			ActualPitLap:    30,
			CurrentCompound: model.CompoundMedium, NewCompound: model.CompoundHard,
			LapInStint: 12, Error: true,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decisions mismatch (-want +got):\n%s", diff)
	}
}

func Test_DeleteRun(t *testing.T) {
	conn := &fakedb.Querier{Tag: pgconn.NewCommandTag("DELETE 5")}

	num, err := DeleteRun(context.Background(), conn, uuid.New())
	assert.NoError(t, err)
	assert.Equal(t, 5, num)
	// decisions first, then the run itself
	assert.Len(t, conn.ExecSQL, 2)
}
