// Package sqlite implements storage.Store on a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/thomasfsr/healthgo/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id INTEGER PRIMARY KEY,
	weight REAL,
	height REAL,
	age INTEGER,
	gender TEXT DEFAULT 'male',
	activity_minutes INTEGER DEFAULT 0,
	city TEXT,
	calorie_goal REAL,
	updated_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS water_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER,
	amount_ml INTEGER,
	logged_at TIMESTAMP,
	FOREIGN KEY (user_id) REFERENCES users(user_id)
);

CREATE TABLE IF NOT EXISTS food_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER,
	food_name TEXT,
	calories REAL,
	grams REAL,
	logged_at TIMESTAMP,
	FOREIGN KEY (user_id) REFERENCES users(user_id)
);

CREATE TABLE IF NOT EXISTS workout_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER,
	workout_type TEXT,
	duration_minutes INTEGER,
	calories_burned REAL,
	water_extra_ml INTEGER,
	logged_at TIMESTAMP,
	FOREIGN KEY (user_id) REFERENCES users(user_id)
);
`

// Store implements storage.Store over a *sql.DB with the modernc driver.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database file and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewWithDB(db)
}

// NewWithDB wires an existing connection (tests, custom pooling).
func NewWithDB(db *sql.DB) (*Store, error) {
	for i, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("failed to execute schema statement %d: %w", i+1, err)
		}
	}
	return &Store{db: db, now: time.Now}, nil
}

// DB exposes the underlying connection.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) GetProfile(ctx context.Context, userID uint64) (*storage.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT weight, height, age, gender, activity_minutes, city, calorie_goal, updated_at
		 FROM users WHERE user_id = ?`, int64(userID))

	p := storage.Profile{UserID: userID}
	err := row.Scan(&p.WeightKg, &p.HeightCm, &p.Age, &p.Gender, &p.ActivityMinutes, &p.City, &p.CalorieGoal, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNoProfile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return &p, nil
}

func (s *Store) PutProfile(ctx context.Context, p *storage.Profile) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (user_id, weight, height, age, gender, activity_minutes, city, calorie_goal, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			weight = excluded.weight,
			height = excluded.height,
			age = excluded.age,
			gender = excluded.gender,
			activity_minutes = excluded.activity_minutes,
			city = excluded.city,
			calorie_goal = excluded.calorie_goal,
			updated_at = excluded.updated_at`,
		int64(p.UserID), p.WeightKg, p.HeightCm, p.Age, p.Gender, p.ActivityMinutes, p.City, p.CalorieGoal, s.now())
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (s *Store) AppendWater(ctx context.Context, userID uint64, ml int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO water_logs (user_id, amount_ml, logged_at) VALUES (?, ?, ?)`,
		int64(userID), ml, s.now())
	if err != nil {
		return fmt.Errorf("failed to log water: %w", err)
	}
	return nil
}

func (s *Store) AppendFood(ctx context.Context, userID uint64, name string, calories, grams float64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO food_logs (user_id, food_name, calories, grams, logged_at) VALUES (?, ?, ?, ?, ?)`,
		int64(userID), name, calories, grams, s.now())
	if err != nil {
		return fmt.Errorf("failed to log food: %w", err)
	}
	return nil
}

func (s *Store) AppendWorkout(ctx context.Context, userID uint64, workoutType string, minutes int, calories float64, extraWaterML int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO workout_logs (user_id, workout_type, duration_minutes, calories_burned, water_extra_ml, logged_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		int64(userID), workoutType, minutes, calories, extraWaterML, s.now())
	if err != nil {
		return fmt.Errorf("failed to log workout: %w", err)
	}
	return nil
}

// streamSource maps a stream to the table and value column it aggregates.
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
	err = s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COALESCE(SUM(%s), 0) FROM %s WHERE user_id = ? AND logged_at >= ? AND logged_at < ?`, column, table),
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

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT logged_at, %s FROM %s WHERE user_id = ? AND logged_at >= ? ORDER BY logged_at ASC`, column, table),
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

// midnight truncates t to the start of its local calendar day.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
