// Package postgres implements storage.Store on PostgreSQL via pgx. It is
// the deployment alternative to the default SQLite store; the two accept
// the same data and answer the same aggregates.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thomasfsr/healthgo/internal/storage"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id BIGINT PRIMARY KEY,
		weight DOUBLE PRECISION,
		height DOUBLE PRECISION,
		age INTEGER,
		gender TEXT DEFAULT 'male',
		activity_minutes INTEGER DEFAULT 0,
		city TEXT,
		calorie_goal DOUBLE PRECISION,
		updated_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS water_logs (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT,
		amount_ml INTEGER,
		logged_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS food_logs (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT,
		food_name TEXT,
		calories DOUBLE PRECISION,
		grams DOUBLE PRECISION,
		logged_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS workout_logs (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT,
		workout_type TEXT,
		duration_minutes INTEGER,
		calories_burned DOUBLE PRECISION,
		water_extra_ml INTEGER,
		logged_at TIMESTAMPTZ
	)`,
}

// Store implements storage.Store over a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// Open connects to the DSN and applies the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return nil, fmt.Errorf("failed to execute schema statement %d: %w", i+1, err)
		}
	}
	return &Store{pool: pool, now: time.Now}, nil
}

// Close releases the pool.
func (s *Store) Close() { s.pool.Close() }

func (s *Store) GetProfile(ctx context.Context, userID uint64) (*storage.Profile, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT weight, height, age, gender, activity_minutes, city, calorie_goal, updated_at
		 FROM users WHERE user_id = $1`, int64(userID))

	p := storage.Profile{UserID: userID}
	err := row.Scan(&p.WeightKg, &p.HeightCm, &p.Age, &p.Gender, &p.ActivityMinutes, &p.City, &p.CalorieGoal, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNoProfile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return &p, nil
}

func (s *Store) PutProfile(ctx context.Context, p *storage.Profile) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (user_id, weight, height, age, gender, activity_minutes, city, calorie_goal, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (user_id) DO UPDATE SET
			weight = EXCLUDED.weight,
			height = EXCLUDED.height,
			age = EXCLUDED.age,
			gender = EXCLUDED.gender,
			activity_minutes = EXCLUDED.activity_minutes,
			city = EXCLUDED.city,
			calorie_goal = EXCLUDED.calorie_goal,
			updated_at = EXCLUDED.updated_at`,
		int64(p.UserID), p.WeightKg, p.HeightCm, p.Age, p.Gender, p.ActivityMinutes, p.City, p.CalorieGoal, s.now())
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (s *Store) AppendWater(ctx context.Context, userID uint64, ml int) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO water_logs (user_id, amount_ml, logged_at) VALUES ($1, $2, $3)`,
		int64(userID), ml, s.now())
	if err != nil {
		return fmt.Errorf("failed to log water: %w", err)
	}
	return nil
}

func (s *Store) AppendFood(ctx context.Context, userID uint64, name string, calories, grams float64) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO food_logs (user_id, food_name, calories, grams, logged_at) VALUES ($1, $2, $3, $4, $5)`,
		int64(userID), name, calories, grams, s.now())
	if err != nil {
		return fmt.Errorf("failed to log food: %w", err)
	}
	return nil
}

func (s *Store) AppendWorkout(ctx context.Context, userID uint64, workoutType string, minutes int, calories float64, extraWaterML int) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO workout_logs (user_id, workout_type, duration_minutes, calories_burned, water_extra_ml, logged_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		int64(userID), workoutType, minutes, calories, extraWaterML, s.now())
	if err != nil {
		return fmt.Errorf("failed to log workout: %w", err)
	}
	return nil
}

func streamSource(st storage.Stream) (table, column string, err error) {
	switch st {
	case storage.StreamWater:
		return "water_logs", "amount_ml", nil
	case storage.StreamFood:
		return "food_logs", "calories", nil
	case storage.StreamWorkout:
		return "workout_logs", "calories_burned", nil
	case storage.StreamExtraWater:
		return "workout_logs", "water_extra_ml", nil
	default:
		return "", "", fmt.Errorf("unknown stream %q", st)
	}
}

func (s *Store) SumToday(ctx context.Context, userID uint64, st storage.Stream) (float64, error) {
	table, column, err := streamSource(st)
	if err != nil {
		return 0, err
	}
	start := midnight(s.now())
	end := start.Add(24 * time.Hour)

	var total float64
	err = s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT COALESCE(SUM(%s), 0) FROM %s WHERE user_id = $1 AND logged_at >= $2 AND logged_at < $3`, column, table),
		int64(userID), start, end).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum %s: %w", st, err)
	}
	return total, nil
}

func (s *Store) DailySeries(ctx context.Context, userID uint64, st storage.Stream, days int) ([]storage.DayTotal, error) {
	table, column, err := streamSource(st)
	if err != nil {
		return nil, err
	}
	start := midnight(s.now()).AddDate(0, 0, -(days - 1))

	rows, err := s.pool.Query(ctx,
		fmt.Sprintf(`SELECT logged_at, %s FROM %s WHERE user_id = $1 AND logged_at >= $2 ORDER BY logged_at ASC`, column, table),
		int64(userID), start)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s history: %w", st, err)
	}
	defer rows.Close()

	totals := map[string]float64{}
	for rows.Next() {
		var (
			at time.Time
			v  float64
		)
		if err := rows.Scan(&at, &v); err != nil {
			return nil, fmt.Errorf("failed to scan %s history: %w", st, err)
		}
		totals[at.Local().Format("2006-01-02")] += v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s history: %w", st, err)
	}

	series := make([]storage.DayTotal, 0, len(totals))
	for day, v := range totals {
		series = append(series, storage.DayTotal{Date: day, Value: v})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	return series, nil
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
