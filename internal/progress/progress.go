// Package progress turns raw event records into goal-relative status: the
// same-day balance for water and calories and the rolling multi-day series
// the charts are drawn from.
package progress

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/thomasfsr/healthgo/internal/storage"
)

// Totals are today's aggregated event values, zero when nothing was logged.
type Totals struct {
	WaterML      int
	CaloriesIn   float64
	CaloriesOut  float64
	ExtraWaterML int // hydration owed to today's workouts
}

// Service is a thin read layer over the record store.
type Service struct {
	store storage.Store
}

func New(store storage.Store) *Service {
	return &Service{store: store}
}

// Today sums today's four event streams for the user.
func (s *Service) Today(ctx context.Context, userID uint64) (Totals, error) {
	var t Totals

	water, err := s.store.SumToday(ctx, userID, storage.StreamWater)
	if err != nil {
		return t, fmt.Errorf("failed to read today's water: %w", err)
	}
	in, err := s.store.SumToday(ctx, userID, storage.StreamFood)
	if err != nil {
		return t, fmt.Errorf("failed to read today's calories: %w", err)
	}
	out, err := s.store.SumToday(ctx, userID, storage.StreamWorkout)
	if err != nil {
		return t, fmt.Errorf("failed to read today's burned calories: %w", err)
	}
	extra, err := s.store.SumToday(ctx, userID, storage.StreamExtraWater)
	if err != nil {
		return t, fmt.Errorf("failed to read today's extra water: %w", err)
	}

	t.WaterML = int(water)
	t.CaloriesIn = in
	t.CaloriesOut = out
	t.ExtraWaterML = int(extra)
	return t, nil
}

// DayValue is one day of a display series.
type DayValue struct {
	Date  string // YYYY-MM-DD
	Value float64
}

// History returns the user's sparse per-day totals for the stream as a
// restartable sequence: days without events are absent. Use Densify to
// build a fixed-length display series.
func (s *Service) History(ctx context.Context, userID uint64, stream storage.Stream, days int) (iter.Seq[DayValue], error) {
	rows, err := s.store.DailySeries(ctx, userID, stream, days)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s history: %w", stream, err)
	}
	return func(yield func(DayValue) bool) {
		for _, r := range rows {
			if !yield(DayValue{Date: r.Date, Value: r.Value}) {
				return
			}
		}
	}, nil
}

// Densify expands a sparse day series to exactly `days` entries ending at
// now's calendar date, filling missing days with zeros.
func Densify(sparse iter.Seq[DayValue], days int, now time.Time) []DayValue {
	byDate := map[string]float64{}
	for dv := range sparse {
		byDate[dv.Date] = dv.Value
	}

	out := make([]DayValue, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).Format("2006-01-02")
		out = append(out, DayValue{Date: date, Value: byDate[date]})
	}
	return out
}

// Balance is the same-day calorie standing against the goal.
type Balance struct {
	Balance   float64 // consumed − burned
	Remaining float64 // max(0, goal − balance)
	Percent   int     // clamped to 150
	Over      bool    // balance reached or passed the goal
	Excess    float64 // by how much, when Over
}

// CalorieBalance computes the day's calorie standing. goal == 0 yields a
// zero percent instead of dividing.
func CalorieBalance(consumed, burned, goal float64) Balance {
	b := Balance{Balance: consumed - burned}
	b.Remaining = goal - b.Balance
	if b.Remaining < 0 {
		b.Remaining = 0
	}
	if goal > 0 {
		b.Percent = int(b.Balance / goal * 100)
		if b.Percent > 150 {
			b.Percent = 150
		}
		if b.Percent < 0 {
			b.Percent = 0
		}
	}
	if b.Balance >= goal && goal > 0 {
		b.Over = true
		b.Excess = b.Balance - goal
	}
	return b
}

// WaterState is the same-day hydration standing against the combined goal
// (engine total plus today's workout extra).
type WaterState struct {
	Percent   int // clamped to 100
	Remaining int
	Reached   bool
}

// WaterProgress computes the day's hydration standing. goal == 0 yields a
// zero percent instead of dividing.
func WaterProgress(consumed, goal int) WaterState {
	w := WaterState{Remaining: goal - consumed}
	if w.Remaining < 0 {
		w.Remaining = 0
	}
	if goal > 0 {
		w.Percent = consumed * 100 / goal
		if w.Percent > 100 {
			w.Percent = 100
		}
		if w.Percent < 0 {
			w.Percent = 0
		}
	}
	w.Reached = goal > 0 && consumed >= goal
	return w
}

// Bar renders the ten-slot progress bar used in every logging reply.
func Bar(percent int) string {
	filled := percent / 10
	if filled > 10 {
		filled = 10
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}
