package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasfsr/healthgo/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := NewWithDB(db)
	require.NoError(t, err)
	return s
}

func TestProfileRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.GetProfile(ctx, 42)
	assert.ErrorIs(t, err, storage.ErrNoProfile)

	p := &storage.Profile{
		UserID:          42,
		WeightKg:        70,
		HeightCm:        175,
		Age:             25,
		Gender:          "male",
		ActivityMinutes: 30,
		City:            "Москва",
		CalorieGoal:     2729.9,
	}
	require.NoError(t, s.PutProfile(ctx, p))

	got, err := s.GetProfile(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, p.WeightKg, got.WeightKg)
	assert.Equal(t, p.City, got.City)
	assert.Equal(t, p.CalorieGoal, got.CalorieGoal)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestPutProfileOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.PutProfile(ctx, &storage.Profile{UserID: 7, WeightKg: 80, CalorieGoal: 2500}))
	require.NoError(t, s.PutProfile(ctx, &storage.Profile{UserID: 7, WeightKg: 78, CalorieGoal: 2400}))

	got, err := s.GetProfile(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 78.0, got.WeightKg)
	assert.Equal(t, 2400.0, got.CalorieGoal)
}

func TestSumTodayCountsOnlyToday(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.AppendWater(ctx, 1, 300))
	require.NoError(t, s.AppendWater(ctx, 1, 500))
	require.NoError(t, s.AppendWater(ctx, 2, 999)) // another user

	// Yesterday's entry must not count.
	yesterday := time.Now().AddDate(0, 0, -1)
	_, err := s.DB().Exec(`INSERT INTO water_logs (user_id, amount_ml, logged_at) VALUES (?, ?, ?)`,
		1, 700, yesterday)
	require.NoError(t, err)

	total, err := s.SumToday(ctx, 1, storage.StreamWater)
	require.NoError(t, err)
	assert.Equal(t, 800.0, total)
}

func TestSumTodayStreams(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.AppendFood(ctx, 1, "банан", 89.5, 100))
	require.NoError(t, s.AppendWorkout(ctx, 1, "Бег", 40, 364, 400))

	food, err := s.SumToday(ctx, 1, storage.StreamFood)
	require.NoError(t, err)
	assert.Equal(t, 89.5, food)

	burned, err := s.SumToday(ctx, 1, storage.StreamWorkout)
	require.NoError(t, err)
	assert.Equal(t, 364.0, burned)

	extra, err := s.SumToday(ctx, 1, storage.StreamExtraWater)
	require.NoError(t, err)
	assert.Equal(t, 400.0, extra)

	_, err = s.SumToday(ctx, 1, storage.Stream("bogus"))
	assert.Error(t, err)
}

func TestDailySeriesGroupsByDay(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	now := time.Now()
	insert := func(daysAgo int, ml int) {
		at := now.AddDate(0, 0, -daysAgo)
		_, err := s.DB().Exec(`INSERT INTO water_logs (user_id, amount_ml, logged_at) VALUES (?, ?, ?)`,
			1, ml, at)
		require.NoError(t, err)
	}
	insert(2, 300)
	insert(2, 500)
	insert(1, 1000)
	insert(0, 250)
	insert(8, 9999) // outside the 7-day window

	series, err := s.DailySeries(ctx, 1, storage.StreamWater, 7)
	require.NoError(t, err)
	require.Len(t, series, 3)

	day := func(d int) string { return now.AddDate(0, 0, -d).Format("2006-01-02") }
	assert.Equal(t, storage.DayTotal{Date: day(2), Value: 800}, series[0])
	assert.Equal(t, storage.DayTotal{Date: day(1), Value: 1000}, series[1])
	assert.Equal(t, storage.DayTotal{Date: day(0), Value: 250}, series[2])
}

func TestDailySeriesEmpty(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	series, err := s.DailySeries(ctx, 99, storage.StreamFood, 7)
	require.NoError(t, err)
	assert.Empty(t, series)
}
