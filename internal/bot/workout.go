package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/thomasfsr/healthgo/internal/chat"
	"github.com/thomasfsr/healthgo/internal/goals"
)

const maxWorkoutMinutes = 480

const logWorkoutUsage = "🏃 Запись тренировки\n\n" +
	"Укажите тип тренировки и время в минутах:\n" +
	"/log_workout бег 30\n\n" +
	"Доступные типы тренировок:\n\n" +
	"🏃 Кардио:\n" +
	"бег, ходьба, велосипед, плавание, скакалка, танцы, аэробика\n\n" +
	"🏋️ Силовые:\n" +
	"силовая, кроссфит, воркаут, качалка, отжимания, приседания\n\n" +
	"⚽ Спорт:\n" +
	"футбол, баскетбол, волейбол, теннис, бокс\n\n" +
	"🧘 Другое:\n" +
	"йога, пилатес, растяжка"

func (b *Bot) cmdLogWorkout(ctx context.Context, userID uint64, args string) (chat.Response, error) {
	p, deny, err := b.profile(ctx, userID)
	if err != nil || deny != nil {
		return orDeny(deny, err)
	}
	if args == "" {
		return chat.Response{Text: logWorkoutUsage}, nil
	}

	fields := strings.Fields(args)
	if len(fields) < 2 {
		return chat.Response{Text: "❌ Укажите тип тренировки и время.\nПример: /log_workout бег 30"}, nil
	}

	// Everything but the last word names the workout.
	workoutType := strings.Join(fields[:len(fields)-1], " ")
	duration, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return chat.Response{Text: "❌ Последним аргументом должно быть число минут.\nПример: /log_workout бег 30"}, nil
	}
	if duration <= 0 {
		return chat.Response{Text: "❌ Время тренировки должно быть положительным числом"}, nil
	}
	if duration > maxWorkoutMinutes {
		return chat.Response{Text: "❌ Слишком длинная тренировка. Введите реальное значение (до 480 минут)"}, nil
	}

	result := goals.Workout(workoutType, duration, p.WeightKg)

	if err := b.store.AppendWorkout(ctx, userID, result.Type, duration, result.Calories, result.ExtraWaterML); err != nil {
		return chat.Response{}, err
	}

	totals, err := b.progress.Today(ctx, userID)
	if err != nil {
		return chat.Response{}, err
	}
	balance := totals.CaloriesIn - totals.CaloriesOut

	return chat.Response{Text: fmt.Sprintf("%s %s - %d мин\n\n"+
		"🔥 Сожжено: %.0f ккал\n"+
		"💧 Выпейте дополнительно: %d мл воды\n\n"+
		"📊 Статистика за сегодня:\n"+
		"• Потреблено: %d ккал\n"+
		"• Сожжено: %d ккал\n"+
		"• Баланс: %d / %d ккал\n"+
		"• Доп. вода от тренировок: +%d мл\n\n"+
		"💪 Отличная работа!",
		result.Glyph, result.Type, duration,
		result.Calories, result.ExtraWaterML,
		int(totals.CaloriesIn), int(totals.CaloriesOut),
		int(balance), int(p.CalorieGoal), totals.ExtraWaterML)}, nil
}
