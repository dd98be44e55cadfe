package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

var testTargets = []harvest.Target{
	harvest.PersonByTitle("Chief Financial Officer"),
	harvest.EmailByLocalPart("hr", "jobs").WithName("HR Email"),
	harvest.FoundingYear(),
}

func testRun(source string) *harvest.Run {
	acme := harvest.NewRecord("Acme", harvest.Domain{Origin: "https://acme.org"})
	acme.Values[testTargets[0].ID()] = "Jane Doe"
	acme.Values[testTargets[2].ID()] = "1987"
	other := harvest.NewRecord("Other", harvest.Domain{Origin: "https://other.org"})

	return &harvest.Run{
		Source:  source,
		Targets: testTargets,
		Records: []*harvest.Record{acme, other},
	}
}

func TestRunService_CreateRun(t *testing.T) {
	t.Parallel()

	t.Run("assigns ID and timestamp", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		run := testRun("centers.csv")

		require.NoError(t, svc.CreateRun(context.Background(), run))

		assert.NotEmpty(t, run.ID)
		assert.False(t, run.CreatedAt.IsZero())
		assert.Equal(t, 2, run.Size)
	})

	t.Run("rejects run without targets", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		err := svc.CreateRun(context.Background(), &harvest.Run{})

		require.Error(t, err)
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})
}

func TestRunService_FindRunByID(t *testing.T) {
	t.Parallel()

	t.Run("round trips records in order", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		ctx := context.Background()
		run := testRun("centers.csv")
		require.NoError(t, svc.CreateRun(ctx, run))

		got, err := svc.FindRunByID(ctx, run.ID)
		require.NoError(t, err)

		assert.Equal(t, run.ID, got.ID)
		assert.Equal(t, "centers.csv", got.Source)
		assert.Equal(t, 2, got.Size)
		assert.WithinDuration(t, run.CreatedAt, got.CreatedAt, 0)

		require.Len(t, got.Targets, 3)
		for i, target := range got.Targets {
			assert.Equal(t, testTargets[i].ID(), target.ID())
			assert.Equal(t, testTargets[i].Label(), target.Label())
		}

		require.Len(t, got.Records, 2)
		assert.Equal(t, run.Records[0], got.Records[0])
		assert.Equal(t, "Other", got.Records[1].Organization)
		assert.Empty(t, got.Records[1].Values)
		assert.Equal(t, harvest.Header(run.Targets), harvest.Header(got.Targets))
		assert.Equal(t, run.Records[0].Row(run.Targets), got.Records[0].Row(got.Targets))
	})

	t.Run("returns ENOTFOUND for unknown run", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		_, err := svc.FindRunByID(context.Background(), "missing")

		require.Error(t, err)
		assert.Equal(t, harvest.ENOTFOUND, harvest.ErrorCode(err))
	})
}

func TestRunService_FindRuns(t *testing.T) {
	t.Parallel()

	t.Run("lists newest first without records", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		ctx := context.Background()
		first := testRun("a.csv")
		second := testRun("b.csv")
		require.NoError(t, svc.CreateRun(ctx, first))
		require.NoError(t, svc.CreateRun(ctx, second))

		runs, err := svc.FindRuns(ctx, harvest.RunFilter{})
		require.NoError(t, err)

		require.Len(t, runs, 2)
		assert.Equal(t, second.ID, runs[0].ID)
		assert.Equal(t, first.ID, runs[1].ID)
		assert.Nil(t, runs[0].Records)
		assert.Equal(t, 2, runs[0].Size)
	})

	t.Run("filters by source", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		ctx := context.Background()
		require.NoError(t, svc.CreateRun(ctx, testRun("a.csv")))
		require.NoError(t, svc.CreateRun(ctx, testRun("b.csv")))

		source := "b.csv"
		runs, err := svc.FindRuns(ctx, harvest.RunFilter{Source: &source})
		require.NoError(t, err)

		require.Len(t, runs, 1)
		assert.Equal(t, "b.csv", runs[0].Source)
	})

	t.Run("paginates", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		ctx := context.Background()
		for range 3 {
			require.NoError(t, svc.CreateRun(ctx, testRun("a.csv")))
		}

		page, err := svc.FindRuns(ctx, harvest.RunFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, page, 2)

		rest, err := svc.FindRuns(ctx, harvest.RunFilter{Offset: 2})
		require.NoError(t, err)
		assert.Len(t, rest, 1)
	})
}

func TestRunService_DeleteRun(t *testing.T) {
	t.Parallel()

	t.Run("removes run and records", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()
		run := testRun("a.csv")
		require.NoError(t, svc.CreateRun(ctx, run))

		require.NoError(t, svc.DeleteRun(ctx, run.ID))

		_, err := svc.FindRunByID(ctx, run.ID)
		assert.Equal(t, harvest.ENOTFOUND, harvest.ErrorCode(err))

		var n int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&n))
		assert.Zero(t, n)
	})

	t.Run("returns ENOTFOUND for unknown run", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		err := svc.DeleteRun(context.Background(), "missing")
		assert.Equal(t, harvest.ENOTFOUND, harvest.ErrorCode(err))
	})
}

func TestRecordStore_WriteRecords(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	store := sqlite.NewRecordStore(db, "centers.csv")
	ctx := context.Background()
	run := testRun("")

	require.NoError(t, store.WriteRecords(ctx, run.Targets, run.Records))

	last := store.LastRun()
	require.NotNil(t, last)

	got, err := sqlite.NewRunService(db).FindRunByID(ctx, last.ID)
	require.NoError(t, err)
	assert.Equal(t, "centers.csv", got.Source)
	assert.Len(t, got.Records, 2)
}
