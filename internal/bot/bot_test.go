package bot

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasfsr/healthgo/internal/chat"
	"github.com/thomasfsr/healthgo/internal/food"
	"github.com/thomasfsr/healthgo/internal/progress"
	"github.com/thomasfsr/healthgo/internal/session"
	"github.com/thomasfsr/healthgo/internal/storage"
	"github.com/thomasfsr/healthgo/internal/weather"
	"github.com/thomasfsr/healthgo/internal/wizard"
)

type waterEntry struct{ ml int }
type foodEntry struct {
	name     string
	calories float64
	grams    float64
}
type workoutEntry struct {
	workoutType  string
	minutes      int
	calories     float64
	extraWaterML int
}

// fakeStore accumulates appended records; SumToday treats everything as
// logged today.
type fakeStore struct {
	profiles map[uint64]*storage.Profile
	water    map[uint64][]waterEntry
	foods    map[uint64][]foodEntry
	workouts map[uint64][]workoutEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles: map[uint64]*storage.Profile{},
		water:    map[uint64][]waterEntry{},
		foods:    map[uint64][]foodEntry{},
		workouts: map[uint64][]workoutEntry{},
	}
}

func (f *fakeStore) GetProfile(_ context.Context, userID uint64) (*storage.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, storage.ErrNoProfile
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) PutProfile(_ context.Context, p *storage.Profile) error {
	cp := *p
	f.profiles[p.UserID] = &cp
	return nil
}

func (f *fakeStore) AppendWater(_ context.Context, userID uint64, ml int) error {
	f.water[userID] = append(f.water[userID], waterEntry{ml})
	return nil
}

func (f *fakeStore) AppendFood(_ context.Context, userID uint64, name string, calories, grams float64) error {
	f.foods[userID] = append(f.foods[userID], foodEntry{name, calories, grams})
	return nil
}

func (f *fakeStore) AppendWorkout(_ context.Context, userID uint64, workoutType string, minutes int, calories float64, extraWaterML int) error {
	f.workouts[userID] = append(f.workouts[userID], workoutEntry{workoutType, minutes, calories, extraWaterML})
	return nil
}

func (f *fakeStore) SumToday(_ context.Context, userID uint64, st storage.Stream) (float64, error) {
	var total float64
	switch st {
	case storage.StreamWater:
		for _, e := range f.water[userID] {
			total += float64(e.ml)
		}
	case storage.StreamFood:
		for _, e := range f.foods[userID] {
			total += e.calories
		}
	case storage.StreamWorkout:
		for _, e := range f.workouts[userID] {
			total += e.calories
		}
	case storage.StreamExtraWater:
		for _, e := range f.workouts[userID] {
			total += float64(e.extraWaterML)
		}
	}
	return total, nil
}

func (f *fakeStore) DailySeries(_ context.Context, userID uint64, st storage.Stream, _ int) ([]storage.DayTotal, error) {
	total, _ := f.SumToday(context.Background(), userID, st)
	if total == 0 {
		return nil, nil
	}
	return []storage.DayTotal{{Date: "2026-08-28", Value: total}}, nil
}

type stubWeather struct {
	reading *weather.Reading
	err     error
}

func (s stubWeather) Current(context.Context, string) (*weather.Reading, error) {
	return s.reading, s.err
}

type stubFood struct {
	item *food.Item
	err  error
}

func (s stubFood) Find(context.Context, string) (*food.Item, error) { return s.item, s.err }

type stubCharts struct{ png []byte }

func (s stubCharts) RenderProgress(_, _, _ []progress.DayValue, _ int, _ float64, _ progress.Totals) ([]byte, error) {
	return s.png, nil
}

const testUser uint64 = 42

func testProfile() *storage.Profile {
	return &storage.Profile{
		UserID:          testUser,
		WeightKg:        70,
		HeightCm:        175,
		Age:             25,
		Gender:          "male",
		ActivityMinutes: 30,
		CalorieGoal:     2729.9,
	}
}

type fixture struct {
	bot      *Bot
	store    *fakeStore
	sessions *session.MemoryStore
}

func newFixture(t *testing.T, f stubFood) *fixture {
	t.Helper()
	store := newFakeStore()
	sessions := session.NewMemoryStore()
	w := stubWeather{err: weather.ErrNotFound}
	log := zerolog.Nop()
	wiz := wizard.New(sessions, store, w, log)
	prog := progress.New(store)
	b := New(store, sessions, wiz, prog, w, f, stubCharts{png: []byte("png")}, log)
	return &fixture{bot: b, store: store, sessions: sessions}
}

func (fx *fixture) text(t *testing.T, text string) chat.Response {
	t.Helper()
	resp, err := fx.bot.Handle(context.Background(), chat.Event{UserID: testUser, Text: text})
	require.NoError(t, err)
	return resp
}

func TestCommandsRequireProfile(t *testing.T) {
	fx := newFixture(t, stubFood{})

	for _, cmd := range []string{"/log_water 250", "/log_food банан", "/log_workout бег 30", "/check_progress", "/show_charts", "/recommendations", "/my_profile"} {
		resp := fx.text(t, cmd)
		assert.Contains(t, resp.Text, "/set_profile", "command %s", cmd)
	}
}

func TestUnknownCommandAndPlainText(t *testing.T) {
	fx := newFixture(t, stubFood{})

	assert.Contains(t, fx.text(t, "/frobnicate").Text, "Неизвестная команда")
	assert.Contains(t, fx.text(t, "привет").Text, "/help")
	assert.Contains(t, fx.text(t, "/help").Text, "/log_water")
	assert.Contains(t, fx.text(t, "/start").Text, "/set_profile")
}

func TestLogWaterFlow(t *testing.T) {
	fx := newFixture(t, stubFood{})
	require.NoError(t, fx.store.PutProfile(context.Background(), testProfile()))

	// No args shows usage.
	assert.Contains(t, fx.text(t, "/log_water").Text, "Укажите количество воды")

	// Bad values are rejected without writes.
	assert.Contains(t, fx.text(t, "/log_water abc").Text, "введите число")
	assert.Contains(t, fx.text(t, "/log_water -5").Text, "положительным")
	assert.Contains(t, fx.text(t, "/log_water 9000").Text, "до 5000")
	assert.Empty(t, fx.store.water[testUser])

	// Goal without weather: 70*30 + 500 = 2600 ml.
	resp := fx.text(t, "/log_water 250")
	assert.Contains(t, resp.Text, "Записано: 250 мл")
	assert.Contains(t, resp.Text, "Выпито: 250 мл из 2600 мл")
	assert.Contains(t, resp.Text, "Осталось: 2350 мл")

	resp = fx.text(t, "/log_water 2350")
	assert.Contains(t, resp.Text, "🎉 Цель достигнута!")
}

func TestLogWorkoutRaisesWaterGoal(t *testing.T) {
	fx := newFixture(t, stubFood{})
	require.NoError(t, fx.store.PutProfile(context.Background(), testProfile()))

	// бег 40 мин при 70 кг: 0.13*70*40 = 364 ккал, доп. вода 2*200 = 400 мл.
	resp := fx.text(t, "/log_workout бег 40")
	assert.Contains(t, resp.Text, "Бег - 40 мин")
	assert.Contains(t, resp.Text, "Сожжено: 364 ккал")
	assert.Contains(t, resp.Text, "дополнительно: 400 мл")

	require.Len(t, fx.store.workouts[testUser], 1)
	assert.Equal(t, workoutEntry{"Бег", 40, 364, 400}, fx.store.workouts[testUser][0])

	// The water goal now includes the workout extra: 2600 + 400.
	resp = fx.text(t, "/log_water 300")
	assert.Contains(t, resp.Text, "из 3000 мл")
	assert.Contains(t, resp.Text, "+400 мл от тренировок")
}

func TestLogWorkoutValidation(t *testing.T) {
	fx := newFixture(t, stubFood{})
	require.NoError(t, fx.store.PutProfile(context.Background(), testProfile()))

	assert.Contains(t, fx.text(t, "/log_workout").Text, "Доступные типы")
	assert.Contains(t, fx.text(t, "/log_workout бег").Text, "тип тренировки и время")
	assert.Contains(t, fx.text(t, "/log_workout бег abc").Text, "число минут")
	assert.Contains(t, fx.text(t, "/log_workout бег 0").Text, "положительным")
	assert.Contains(t, fx.text(t, "/log_workout бег 500").Text, "до 480")
	assert.Empty(t, fx.store.workouts[testUser])

	// Multi-word labels keep everything before the minutes; the first table
	// key that matches names the entry.
	resp := fx.text(t, "/log_workout быстрая ходьба 30")
	assert.Contains(t, resp.Text, "Ходьба - 30 мин")
}

func TestLogFoodFlow(t *testing.T) {
	fx := newFixture(t, stubFood{item: &food.Item{Name: "Шоколад", CaloriesPer100g: 250, Glyph: "🍫"}})
	require.NoError(t, fx.store.PutProfile(context.Background(), testProfile()))

	resp := fx.text(t, "/log_food шоколад")
	assert.Contains(t, resp.Text, "Шоколад")
	assert.Contains(t, resp.Text, "250 ккал на 100 г")

	sess, err := fx.sessions.Get(context.Background(), testUser)
	require.NoError(t, err)
	assert.Equal(t, session.StepFoodGrams, sess.Step)

	// Bad grams keep the session open.
	assert.Contains(t, fx.text(t, "abc").Text, "введите число")
	assert.Contains(t, fx.text(t, "-10").Text, "положительным")
	_, err = fx.sessions.Get(context.Background(), testUser)
	require.NoError(t, err)

	// 250 ккал/100г × 150 г = 375 ккал.
	resp = fx.text(t, "150")
	assert.Contains(t, resp.Text, "150 г = 375.0 ккал")
	assert.Contains(t, resp.Text, "Потреблено: 375 ккал")

	require.Len(t, fx.store.foods[testUser], 1)
	assert.Equal(t, foodEntry{"Шоколад", 375, 150}, fx.store.foods[testUser][0])

	// Session closed, next number is plain text again.
	_, err = fx.sessions.Get(context.Background(), testUser)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestLogFoodNotFound(t *testing.T) {
	fx := newFixture(t, stubFood{err: food.ErrNotFound})
	require.NoError(t, fx.store.PutProfile(context.Background(), testProfile()))

	resp := fx.text(t, "/log_food трава")
	assert.Contains(t, resp.Text, "Продукт 'трава' не найден")
	_, err := fx.sessions.Get(context.Background(), testUser)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestCheckProgress(t *testing.T) {
	fx := newFixture(t, stubFood{})
	require.NoError(t, fx.store.PutProfile(context.Background(), testProfile()))
	require.NoError(t, fx.store.AppendWater(context.Background(), testUser, 1300))
	require.NoError(t, fx.store.AppendFood(context.Background(), testUser, "Банан", 300, 337))

	resp := fx.text(t, "/check_progress")
	assert.Contains(t, resp.Text, "Выпито: 1300 мл из 2600 мл")
	assert.Contains(t, resp.Text, "50%")
	assert.Contains(t, resp.Text, "Потреблено: 300 ккал")
	assert.Contains(t, resp.Text, "Баланс: 300 / 2729 ккал")
	assert.Contains(t, resp.Text, "Осталось: 2429 ккал")
}

func TestShowCharts(t *testing.T) {
	fx := newFixture(t, stubFood{})
	require.NoError(t, fx.store.PutProfile(context.Background(), testProfile()))

	resp := fx.text(t, "/show_charts")
	assert.Equal(t, []byte("png"), resp.Photo)
	assert.Contains(t, resp.Caption, "за последнюю неделю")
}

func TestRecommendations(t *testing.T) {
	fx := newFixture(t, stubFood{})
	require.NoError(t, fx.store.PutProfile(context.Background(), testProfile()))

	// Under the goal: food tips only, no workout block.
	resp := fx.text(t, "/recommendations")
	assert.NotContains(t, resp.Text, "превысили норму")
	assert.Contains(t, resp.Text, "Низкокалорийные продукты")
	assert.Contains(t, resp.Text, "Белковые продукты")

	// Push the balance over the goal.
	require.NoError(t, fx.store.AppendFood(context.Background(), testUser, "Торт", 3200, 800))
	resp = fx.text(t, "/recommendations")
	assert.Contains(t, resp.Text, "превысили норму калорий на 470")
	assert.Contains(t, resp.Text, "Рекомендуемые тренировки")
	assert.Contains(t, resp.Text, "Бег")
}

func TestCancel(t *testing.T) {
	fx := newFixture(t, stubFood{item: &food.Item{Name: "Банан", CaloriesPer100g: 89, Glyph: "🍌"}})
	require.NoError(t, fx.store.PutProfile(context.Background(), testProfile()))

	assert.Contains(t, fx.text(t, "/cancel").Text, "Нечего отменять")

	fx.text(t, "/log_food банан")
	assert.Contains(t, fx.text(t, "/cancel").Text, "отменено")
	_, err := fx.sessions.Get(context.Background(), testUser)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestMyProfile(t *testing.T) {
	fx := newFixture(t, stubFood{})
	require.NoError(t, fx.store.PutProfile(context.Background(), testProfile()))

	resp := fx.text(t, "/my_profile")
	assert.Contains(t, resp.Text, "70")
	assert.Contains(t, resp.Text, "175")
	assert.True(t, strings.Contains(resp.Text, "2729.9") || strings.Contains(resp.Text, "2729"))
}

func TestChoiceEventsGoToWizard(t *testing.T) {
	fx := newFixture(t, stubFood{})

	resp, err := fx.bot.Handle(context.Background(), chat.Event{UserID: testUser, Choice: "gender_male"})
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "/set_profile")
}
