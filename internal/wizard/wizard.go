// Package wizard drives the multi-step profile setup conversation. Each
// state has its own transition function with a uniform contract: parse the
// input, validate the range, and only on success mutate the session and
// advance. Invalid input re-prompts in place and changes nothing.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/thomasfsr/healthgo/internal/chat"
	"github.com/thomasfsr/healthgo/internal/goals"
	"github.com/thomasfsr/healthgo/internal/session"
	"github.com/thomasfsr/healthgo/internal/storage"
	"github.com/thomasfsr/healthgo/internal/weather"
)

// Button payloads the wizard understands.
const (
	ChoiceGenderMale   = "gender_male"
	ChoiceGenderFemale = "gender_female"
	ChoiceUseComputed  = "use_calculated_calories"
	ChoiceCustomGoal   = "set_custom_calories"
)

// Accepted input ranges.
const (
	minWeight, maxWeight     = 20, 300
	minHeight, maxHeight     = 100, 250
	minAge, maxAge           = 10, 120
	minActivity, maxActivity = 0, 480
	minCalories, maxCalories = 800, 5000
)

// Wizard collects a complete profile across a per-user session and persists
// it in a single write on completion.
type Wizard struct {
	sessions session.Store
	store    storage.Store
	weather  weather.Provider
	log      zerolog.Logger
}

func New(sessions session.Store, store storage.Store, w weather.Provider, log zerolog.Logger) *Wizard {
	return &Wizard{sessions: sessions, store: store, weather: w, log: log}
}

// Start opens a fresh wizard session, replacing any session the user
// already had, and prompts for the first step.
func (w *Wizard) Start(ctx context.Context, userID uint64) (chat.Response, error) {
	if err := w.sessions.Put(ctx, userID, &session.Session{Step: session.StepWeight}); err != nil {
		return chat.Response{}, fmt.Errorf("failed to open wizard session: %w", err)
	}
	return chat.Response{Text: "👤 Настройка профиля\n\n" +
		"Шаг 1/6: Введите ваш вес (в кг):\nПример: 70"}, nil
}

// HandleText routes a free-text message to the current step's transition.
// sess is the caller-fetched session; it is never stored back unless the
// step succeeds.
func (w *Wizard) HandleText(ctx context.Context, userID uint64, sess *session.Session, text string) (chat.Response, error) {
	switch sess.Step {
	case session.StepWeight:
		return w.stepWeight(ctx, userID, sess, text)
	case session.StepHeight:
		return w.stepHeight(ctx, userID, sess, text)
	case session.StepAge:
		return w.stepAge(ctx, userID, sess, text)
	case session.StepGender:
		return chat.Response{Text: "Выберите пол кнопкой выше 🙂", Buttons: genderButtons()}, nil
	case session.StepActivity:
		return w.stepActivity(ctx, userID, sess, text)
	case session.StepCity:
		return w.stepCity(ctx, userID, sess, text)
	case session.StepCalorieChoice:
		return chat.Response{Text: "Выберите вариант кнопкой выше 🙂", Buttons: calorieButtons(sess.ComputedCalorieGoal)}, nil
	case session.StepCustomCalorie:
		return w.stepCustomCalorie(ctx, userID, sess, text)
	default:
		return chat.Response{}, fmt.Errorf("wizard: unexpected step %q", sess.Step)
	}
}

// HandleChoice routes a button tap. An unknown payload or a missing session
// gets a gentle restart hint rather than an error.
func (w *Wizard) HandleChoice(ctx context.Context, userID uint64, data string) (chat.Response, error) {
	sess, err := w.sessions.Get(ctx, userID)
	if errors.Is(err, session.ErrNotFound) {
		return chat.Response{Text: "Сессия настройки не найдена. Начните заново: /set_profile"}, nil
	}
	if err != nil {
		return chat.Response{}, fmt.Errorf("failed to read wizard session: %w", err)
	}

	switch {
	case sess.Step == session.StepGender && (data == ChoiceGenderMale || data == ChoiceGenderFemale):
		return w.stepGender(ctx, userID, sess, data)
	case sess.Step == session.StepCalorieChoice && data == ChoiceUseComputed:
		return w.finalize(ctx, userID, sess, sess.ComputedCalorieGoal)
	case sess.Step == session.StepCalorieChoice && data == ChoiceCustomGoal:
		sess.Step = session.StepCustomCalorie
		if err := w.sessions.Put(ctx, userID, sess); err != nil {
			return chat.Response{}, fmt.Errorf("failed to save wizard session: %w", err)
		}
		return chat.Response{Text: "✏️ Введите вашу цель по калориям (ккал/день):\nПример: 2000"}, nil
	default:
		return chat.Response{Text: "Эта кнопка сейчас не активна. Продолжите настройку или начните заново: /set_profile"}, nil
	}
}

func (w *Wizard) stepWeight(ctx context.Context, userID uint64, sess *session.Session, text string) (chat.Response, error) {
	v, err := parseFloat(text)
	if err != nil {
		return chat.Response{Text: "❌ Пожалуйста, введите число. Например: 70"}, nil
	}
	if v < minWeight || v > maxWeight {
		return chat.Response{Text: "❌ Введите реальный вес (от 20 до 300 кг)"}, nil
	}

	sess.WeightKg = v
	sess.Step = session.StepHeight
	if err := w.sessions.Put(ctx, userID, sess); err != nil {
		return chat.Response{}, fmt.Errorf("failed to save wizard session: %w", err)
	}
	return chat.Response{Text: "✅ Вес сохранён!\n\n" +
		"Шаг 2/6: Введите ваш рост (в см):\nПример: 175"}, nil
}

func (w *Wizard) stepHeight(ctx context.Context, userID uint64, sess *session.Session, text string) (chat.Response, error) {
	v, err := parseFloat(text)
	if err != nil {
		return chat.Response{Text: "❌ Пожалуйста, введите число. Например: 175"}, nil
	}
	if v < minHeight || v > maxHeight {
		return chat.Response{Text: "❌ Введите реальный рост (от 100 до 250 см)"}, nil
	}

	sess.HeightCm = v
	sess.Step = session.StepAge
	if err := w.sessions.Put(ctx, userID, sess); err != nil {
		return chat.Response{}, fmt.Errorf("failed to save wizard session: %w", err)
	}
	return chat.Response{Text: "✅ Рост сохранён!\n\n" +
		"Шаг 3/6: Введите ваш возраст:\nПример: 25"}, nil
}

func (w *Wizard) stepAge(ctx context.Context, userID uint64, sess *session.Session, text string) (chat.Response, error) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return chat.Response{Text: "❌ Пожалуйста, введите целое число. Например: 25"}, nil
	}
	if v < minAge || v > maxAge {
		return chat.Response{Text: "❌ Введите реальный возраст (от 10 до 120 лет)"}, nil
	}

	sess.Age = v
	sess.Step = session.StepGender
	if err := w.sessions.Put(ctx, userID, sess); err != nil {
		return chat.Response{}, fmt.Errorf("failed to save wizard session: %w", err)
	}
	return chat.Response{
		Text:    "✅ Возраст сохранён!\n\nШаг 4/6: Выберите ваш пол:",
		Buttons: genderButtons(),
	}, nil
}

func (w *Wizard) stepGender(ctx context.Context, userID uint64, sess *session.Session, data string) (chat.Response, error) {
	gender, label := string(goals.Female), "👩 Женский"
	if data == ChoiceGenderMale {
		gender, label = string(goals.Male), "👨 Мужской"
	}

	sess.Gender = gender
	sess.Step = session.StepActivity
	if err := w.sessions.Put(ctx, userID, sess); err != nil {
		return chat.Response{}, fmt.Errorf("failed to save wizard session: %w", err)
	}
	return chat.Response{Text: fmt.Sprintf("✅ Пол сохранён: %s\n\n"+
		"Шаг 5/6: Сколько минут физической активности у вас обычно в день?\nПример: 30", label)}, nil
}

func (w *Wizard) stepActivity(ctx context.Context, userID uint64, sess *session.Session, text string) (chat.Response, error) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return chat.Response{Text: "❌ Пожалуйста, введите целое число. Например: 30"}, nil
	}
	if v < minActivity || v > maxActivity {
		return chat.Response{Text: "❌ Введите реалистичное значение (от 0 до 480 минут)"}, nil
	}

	sess.ActivityMinutes = v
	sess.Step = session.StepCity
	if err := w.sessions.Put(ctx, userID, sess); err != nil {
		return chat.Response{}, fmt.Errorf("failed to save wizard session: %w", err)
	}
	return chat.Response{Text: "✅ Активность сохранена!\n\n" +
		"Шаг 6/6: В каком городе вы находитесь?\nПример: Москва\n\n" +
		"💡 Это нужно для учёта погоды в расчёте нормы воды."}, nil
}

// stepCity is the one step with a mandatory external lookup: the city must
// resolve to a weather reading before the wizard moves on. On success both
// goals are computed eagerly and stashed for the branch decision.
func (w *Wizard) stepCity(ctx context.Context, userID uint64, sess *session.Session, text string) (chat.Response, error) {
	city := strings.TrimSpace(text)

	reading, err := w.weather.Current(ctx, city)
	if errors.Is(err, weather.ErrNotFound) {
		return chat.Response{Text: fmt.Sprintf("❌ Город '%s' не найден. Попробуйте ввести название на английском "+
			"или выберите крупный ближайший город.\nПример: Moscow, Saint Petersburg", city)}, nil
	}
	if err != nil {
		return chat.Response{}, fmt.Errorf("weather lookup failed: %w", err)
	}

	waterCalc := goals.Water(sess.WeightKg, sess.ActivityMinutes, &reading.Temp)
	calCalc := goals.Calories(sess.WeightKg, sess.HeightCm, sess.Age, sess.ActivityMinutes, goals.Gender(sess.Gender))

	sess.City = reading.City
	sess.ComputedWaterGoal = waterCalc.Total
	sess.ComputedCalorieGoal = calCalc.Total
	sess.Step = session.StepCalorieChoice
	if err := w.sessions.Put(ctx, userID, sess); err != nil {
		return chat.Response{}, fmt.Errorf("failed to save wizard session: %w", err)
	}

	w.log.Info().Uint64("user", userID).Str("city", reading.City).
		Float64("temp", reading.Temp).Msg("wizard city resolved")

	text = fmt.Sprintf("✅ Город сохранён: %s\n"+
		"🌡️ Текущая температура: %.1f°C (%s)\n\n"+
		"📊 Рассчитанные нормы:\n\n"+
		"💧 Вода: %d мл/день\n"+
		"   • Базовая норма: %d мл\n"+
		"   • За активность: +%d мл\n"+
		"   • За погоду: +%d мл\n\n"+
		"🔥 Калории: %d ккал/день\n"+
		"   • Базовый метаболизм: %d ккал\n"+
		"   • Уровень активности: %s\n\n"+
		"Хотите использовать рассчитанную норму калорий или установить свою?",
		reading.City, reading.Temp, reading.Description,
		waterCalc.Total, waterCalc.Base, waterCalc.Activity, waterCalc.Weather,
		int(calCalc.Total), int(calCalc.BMR), calCalc.Level)

	return chat.Response{Text: text, Buttons: calorieButtons(calCalc.Total)}, nil
}

func (w *Wizard) stepCustomCalorie(ctx context.Context, userID uint64, sess *session.Session, text string) (chat.Response, error) {
	v, err := parseFloat(text)
	if err != nil {
		return chat.Response{Text: "❌ Пожалуйста, введите число. Например: 2000"}, nil
	}
	if v < minCalories || v > maxCalories {
		return chat.Response{Text: "❌ Введите реалистичное значение (от 800 до 5000 ккал)"}, nil
	}
	return w.finalize(ctx, userID, sess, v)
}

// finalize is the sole write path for profiles: the whole bag becomes one
// profile record, then the session is discarded.
func (w *Wizard) finalize(ctx context.Context, userID uint64, sess *session.Session, calorieGoal float64) (chat.Response, error) {
	profile := &storage.Profile{
		UserID:          userID,
		WeightKg:        sess.WeightKg,
		HeightCm:        sess.HeightCm,
		Age:             sess.Age,
		Gender:          sess.Gender,
		ActivityMinutes: sess.ActivityMinutes,
		City:            sess.City,
		CalorieGoal:     calorieGoal,
	}
	if err := w.store.PutProfile(ctx, profile); err != nil {
		return chat.Response{}, fmt.Errorf("failed to save profile: %w", err)
	}
	if err := w.sessions.Delete(ctx, userID); err != nil {
		return chat.Response{}, fmt.Errorf("failed to close wizard session: %w", err)
	}

	w.log.Info().Uint64("user", userID).Float64("calorie_goal", calorieGoal).Msg("profile saved")

	return chat.Response{Text: fmt.Sprintf("🎉 Профиль успешно сохранён!\n\n"+
		"💧 Дневная норма воды: %d мл\n"+
		"🔥 Дневная норма калорий: %d ккал\n\n"+
		"Теперь вы можете:\n"+
		"• /log_water — записать воду\n"+
		"• /log_food — записать еду\n"+
		"• /log_workout — записать тренировку\n"+
		"• /check_progress — проверить прогресс",
		sess.ComputedWaterGoal, int(calorieGoal))}, nil
}

func genderButtons() []chat.Button {
	return []chat.Button{
		{Label: "👨 Мужской", Data: ChoiceGenderMale},
		{Label: "👩 Женский", Data: ChoiceGenderFemale},
	}
}

func calorieButtons(computed float64) []chat.Button {
	return []chat.Button{
		{Label: fmt.Sprintf("✅ Использовать %d ккал", int(computed)), Data: ChoiceUseComputed},
		{Label: "✏️ Установить свою цель", Data: ChoiceCustomGoal},
	}
}

// parseFloat accepts the comma decimal separator the audience types.
func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
}
