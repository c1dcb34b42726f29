package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noszczynski/bike-stats-sub000/internal/database"
	"github.com/noszczynski/bike-stats-sub000/internal/models"
)

var t0 = time.Date(2024, 9, 1, 6, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "repo.db")})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func createActivity(t *testing.T, repo *ActivityRepository, userID string) *models.Activity {
	t.Helper()
	a := &models.Activity{UserID: userID, Name: "Morning ride", StartTime: ptr(t0)}
	require.NoError(t, repo.Create(context.Background(), a))
	return a
}

func TestActivityCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewActivityRepository(newTestDB(t))

	a := createActivity(t, repo, "user-1")
	require.NotZero(t, a.ID)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "manual", got.Source)
	assert.Equal(t, t0, *got.StartTime)
	assert.False(t, got.FitProcessed)
	assert.Nil(t, got.Zone1Seconds)
	assert.Equal(t, a.CreatedAt, got.CreatedAt)

	missing, err := repo.GetByID(ctx, a.ID+1)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestActivityListByUser(t *testing.T) {
	ctx := context.Background()
	repo := NewActivityRepository(newTestDB(t))
	for i := 0; i < 3; i++ {
		createActivity(t, repo, "user-1")
	}
	createActivity(t, repo, "user-2")

	list, total, err := repo.ListByUser(ctx, "user-1", models.ActivityFilter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, list, 2)

	list, _, err = repo.ListByUser(ctx, "user-1", models.ActivityFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, total, err = repo.ListByUser(ctx, "nobody", models.ActivityFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
}

func TestActivityMarkFitProcessedOnlyOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewActivityRepository(newTestDB(t))
	a := createActivity(t, repo, "user-1")

	won, err := repo.MarkFitProcessed(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, won)

	won, err = repo.MarkFitProcessed(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, won)
}

func TestActivitySummaryZonesAndReset(t *testing.T) {
	ctx := context.Background()
	repo := NewActivityRepository(newTestDB(t))
	a := createActivity(t, repo, "user-1")

	start := t0.Add(time.Hour)
	summary := models.SessionSummary{TotalDistanceM: ptr(42195.0), AvgHeartRateBPM: ptr(150.0), SyntheticSession: true}
	require.NoError(t, repo.UpdateSessionSummary(ctx, a.ID, "cycling", &start, summary))
	require.NoError(t, repo.UpdateZoneSeconds(ctx, a.ID, [5]int64{1, 2, 3, 4, 5}))
	_, err := repo.MarkFitProcessed(ctx, a.ID)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "cycling", got.Sport)
	assert.Equal(t, start, *got.StartTime)
	if diff := cmp.Diff(summary, got.Summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
	assert.EqualValues(t, 5, *got.Zone5Seconds)

	require.NoError(t, repo.ResetFitData(ctx, a.ID))
	got, err = repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, got.FitProcessed)
	assert.Nil(t, got.Summary.TotalDistanceM)
	assert.Nil(t, got.Zone5Seconds)
	assert.Equal(t, "cycling", got.Sport)
}

func trackpoints(activityID int64, n int) []models.Trackpoint {
	out := make([]models.Trackpoint, n)
	for i := range out {
		out[i] = models.Trackpoint{
			ActivityID: activityID,
			Seq:        i,
			Timestamp:  t0.Add(time.Duration(i) * time.Second),
			DistanceM:  ptr(float64(i) * 5),
		}
		if i%2 == 0 {
			out[i].HeartRateBPM = ptr(120 + i%30)
		}
	}
	return out
}

func TestTrackpointBulkInsertChunksAndIgnoresDuplicates(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	a := createActivity(t, NewActivityRepository(conn), "user-1")
	repo := NewTrackpointRepository(conn, 7)

	points := trackpoints(a.ID, 25)
	n, err := repo.BulkInsert(ctx, points)
	require.NoError(t, err)
	assert.EqualValues(t, 25, n)

	n, err = repo.BulkInsert(ctx, points)
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := repo.CountByActivity(ctx, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 25, count)
}

func TestBulkInsertClampsOversizedBatches(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	a := createActivity(t, NewActivityRepository(conn), "user-1")

	repo := NewTrackpointRepository(conn, 5000)
	assert.Equal(t, MaxSQLVariables/trackpointInsertColumns, repo.batchSize)

	n, err := repo.BulkInsert(ctx, trackpoints(a.ID, 5000))
	require.NoError(t, err)
	assert.EqualValues(t, 5000, n)

	assert.Equal(t, MaxSQLVariables/lapInsertColumns, NewLapRepository(conn, 5000).batchSize)
	assert.Equal(t, DefaultBatchSize, NewLapRepository(conn, 0).batchSize)
}

func TestTrackpointRoundTrip(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	a := createActivity(t, NewActivityRepository(conn), "user-1")
	repo := NewTrackpointRepository(conn, 0)

	in := []models.Trackpoint{
		{ActivityID: a.ID, Seq: 0, Timestamp: t0, Latitude: ptr(52.1), Longitude: ptr(21.0),
			AltitudeM: ptr(101.4), DistanceM: ptr(0.0), SpeedMS: ptr(5.5), HeartRateBPM: ptr(140),
			CadenceRPM: ptr(90), TemperatureC: ptr(18.0)},
		{ActivityID: a.ID, Seq: 1, Timestamp: t0},
	}
	_, err := repo.BulkInsert(ctx, in)
	require.NoError(t, err)

	out, err := repo.ListByActivity(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, out, 2)
	for i := range out {
		out[i].ID = 0
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("trackpoints mismatch (-want +got):\n%s", diff)
	}

	deleted, err := repo.DeleteByActivity(ctx, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)
}

func TestLapRepository(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	a := createActivity(t, NewActivityRepository(conn), "user-1")
	repo := NewLapRepository(conn, 0)

	laps := []models.Lap{
		{ActivityID: a.ID, LapNumber: 1, Source: models.LapSourceDevice, StartTime: t0, EndTime: t0.Add(time.Minute),
			DistanceM: 500, MovingTimeS: 60, ElapsedTimeS: 60, AvgHeartRateBPM: ptr(135.5), StartLatitude: ptr(50.0)},
		{ActivityID: a.ID, LapNumber: 2, Source: models.LapSourceDevice, StartTime: t0.Add(time.Minute), EndTime: t0.Add(2 * time.Minute),
			DistanceM: 480, MovingTimeS: 55, ElapsedTimeS: 60},
	}
	n, err := repo.BulkInsert(ctx, laps)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = repo.BulkInsert(ctx, laps[:1])
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := repo.ListByActivity(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range got {
		got[i].ID = 0
	}
	if diff := cmp.Diff(laps, got); diff != "" {
		t.Errorf("laps mismatch (-want +got):\n%s", diff)
	}

	deleted, err := repo.DeleteByActivity(ctx, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)
}

func TestRepositoriesInsideTransaction(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	a := createActivity(t, NewActivityRepository(conn), "user-1")
	repo := NewTrackpointRepository(conn, 0)

	tx, err := conn.BeginTx(ctx, nil)
	require.NoError(t, err)
	_, err = repo.WithTx(tx).BulkInsert(ctx, trackpoints(a.ID, 3))
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	count, err := repo.CountByActivity(ctx, a.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSettingsRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingsRepository(newTestDB(t))

	b, err := repo.GetZoneBoundaries(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.ZoneBoundaries{}, b)

	want := models.ZoneBoundaries{Zone1Max: 120, Zone2Max: 140, Zone3Max: 155, Zone4Max: 170}
	require.NoError(t, repo.UpsertZoneBoundaries(ctx, "user-1", want))
	want.Zone4Max = 172
	require.NoError(t, repo.UpsertZoneBoundaries(ctx, "user-1", want))

	b, err = repo.GetZoneBoundaries(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, want, b)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "(?, ?)", placeholders(1, 2))
	assert.Equal(t, "(?), (?), (?)", placeholders(3, 1))
}
