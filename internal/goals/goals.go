// Package goals computes daily hydration and calorie targets and workout
// energy expenditure. Everything here is a pure function over its inputs;
// persistence and lookups live elsewhere.
package goals

import (
	"math"
	"strings"
	"unicode"
)

// Gender selects the Mifflin-St Jeor offset.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// WaterGoal is the daily hydration target broken down by component, all in
// milliliters.
type WaterGoal struct {
	Base     int
	Activity int
	Weather  int
	Total    int
}

// Water computes the daily hydration goal: 30 ml per kg of body weight,
// 500 ml per full 30 minutes of daily activity, and a hot-weather bonus.
// temp is nil when no environmental reading is available; that zeroes the
// weather component.
func Water(weightKg float64, activityMin int, temp *float64) WaterGoal {
	base := weightKg * 30
	activity := (activityMin / 30) * 500

	weather := 0
	if temp != nil {
		switch {
		case *temp > 35:
			weather = 1000
		case *temp > 30:
			weather = 750
		case *temp > 25:
			weather = 500
		}
	}

	return WaterGoal{
		Base:     int(base),
		Activity: activity,
		Weather:  weather,
		Total:    int(base) + activity + weather,
	}
}

// CalorieGoal is the daily calorie target broken down by component.
type CalorieGoal struct {
	BMR        float64
	Multiplier float64
	Level      string
	Total      float64
}

// Calories computes the daily calorie goal with the Mifflin-St Jeor basal
// rate scaled by an activity multiplier. Any gender other than Male gets the
// female offset. Activity bands are half-open with the lower bound inclusive,
// so 90 minutes already counts as very high.
func Calories(weightKg, heightCm float64, ageYears, activityMin int, gender Gender) CalorieGoal {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(ageYears) - 161
	if gender == Male {
		bmr = 10*weightKg + 6.25*heightCm - 5*float64(ageYears) + 5
	}

	var (
		multiplier float64
		level      string
	)
	switch {
	case activityMin < 15:
		multiplier, level = 1.2, "минимальная"
	case activityMin < 30:
		multiplier, level = 1.375, "лёгкая"
	case activityMin < 60:
		multiplier, level = 1.55, "умеренная"
	case activityMin < 90:
		multiplier, level = 1.725, "высокая"
	default:
		multiplier, level = 1.9, "очень высокая"
	}

	return CalorieGoal{
		BMR:        round1(bmr),
		Multiplier: multiplier,
		Level:      level,
		Total:      round1(bmr * multiplier),
	}
}

// WorkoutResult describes one scored workout.
type WorkoutResult struct {
	Type         string  // matched table key (or the raw label), capitalized
	Minutes      int
	Calories     float64 // kcal burned, one decimal
	ExtraWaterML int     // additional hydration the workout demands
	Glyph        string
}

// Workout scores a workout by looking the label up in the ordered rate
// table. A key matches when it is a substring of the label or vice versa;
// the first hit in table order wins even if a later key matches more of the
// label. Unknown labels fall back to an average rate and keep their own name.
func Workout(label string, minutes int, weightKg float64) WorkoutResult {
	needle := strings.ToLower(strings.TrimSpace(label))

	rate := defaultRate
	matched := label
	for _, w := range workoutRates {
		if strings.Contains(needle, w.Key) || strings.Contains(w.Key, needle) {
			rate = w.Rate
			matched = w.Key
			break
		}
	}

	glyph := defaultGlyph
	for _, g := range workoutGlyphs {
		if strings.Contains(needle, g.Key) {
			glyph = g.Glyph
			break
		}
	}

	// Any started 30-minute block demands a full 200 ml.
	blocks := minutes / 30
	if minutes%30 > 0 {
		blocks++
	}

	return WorkoutResult{
		Type:         capitalize(matched),
		Minutes:      minutes,
		Calories:     round1(rate * float64(minutes) * weightKg),
		ExtraWaterML: blocks * 200,
		Glyph:        glyph,
	}
}

// Recommendation is one way to burn off today's calorie excess.
type Recommendation struct {
	Workout  string
	Minutes  int
	Calories int
	Glyph    string
}

// Recommendations suggests up to three workouts that would burn the calorie
// excess in at most 90 minutes. The candidate list and its order are fixed;
// suggestions come back in list order, not sorted by duration.
func Recommendations(consumed, goal, burned, weightKg float64) []Recommendation {
	excess := (consumed - burned) - goal
	if excess <= 0 {
		return nil
	}

	var recs []Recommendation
	for _, s := range suggestedWorkouts {
		rate := defaultRate
		for _, w := range workoutRates {
			if w.Key == s.Key {
				rate = w.Rate
				break
			}
		}
		minutes := excess / (rate * weightKg)
		if minutes > 90 {
			continue
		}
		recs = append(recs, Recommendation{
			Workout:  capitalize(s.Key),
			Minutes:  int(math.Round(minutes)),
			Calories: int(math.Round(excess)),
			Glyph:    s.Glyph,
		})
		if len(recs) == 3 {
			break
		}
	}
	return recs
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
