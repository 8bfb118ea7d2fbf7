// Package storage defines the record store the bot reads and writes:
// one profile per user plus append-only water, food and workout logs.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNoProfile is returned by GetProfile when the user never completed the
// profile wizard.
var ErrNoProfile = errors.New("storage: no profile")

// Profile is the persisted physiological record for one user. It is written
// whole by the wizard on completion and never partially updated.
type Profile struct {
	UserID          uint64
	WeightKg        float64
	HeightCm        float64
	Age             int
	Gender          string
	ActivityMinutes int
	City            string
	CalorieGoal     float64
	UpdatedAt       time.Time
}

// Stream selects one of the daily event logs.
type Stream string

const (
	StreamWater      Stream = "water"       // ml drunk
	StreamFood       Stream = "food"        // kcal consumed
	StreamWorkout    Stream = "workout"     // kcal burned
	StreamExtraWater Stream = "extra_water" // ml owed to workouts
)

// DayTotal is one calendar day's aggregated value for a stream.
type DayTotal struct {
	Date  string // YYYY-MM-DD, local time
	Value float64
}

// Store is the persistence contract. Records are immutable once appended;
// today/history views are read-time aggregations over timestamps.
type Store interface {
	GetProfile(ctx context.Context, userID uint64) (*Profile, error)
	PutProfile(ctx context.Context, p *Profile) error

	AppendWater(ctx context.Context, userID uint64, ml int) error
	AppendFood(ctx context.Context, userID uint64, name string, calories, grams float64) error
	AppendWorkout(ctx context.Context, userID uint64, workoutType string, minutes int, calories float64, extraWaterML int) error

	// SumToday returns the stream's total for the current local calendar day.
	SumToday(ctx context.Context, userID uint64, s Stream) (float64, error)
	// DailySeries returns per-day totals for the last `days` calendar days,
	// ascending by date. Days without events are absent from the result.
	DailySeries(ctx context.Context, userID uint64, s Stream, days int) ([]DayTotal, error)
}
