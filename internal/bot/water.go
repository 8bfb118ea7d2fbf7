package bot

import (
	"context"
	"fmt"
	"strconv"

	"github.com/thomasfsr/healthgo/internal/chat"
	"github.com/thomasfsr/healthgo/internal/progress"
)

const maxWaterML = 5000

const logWaterUsage = "💧 Запись воды\n\n" +
	"Укажите количество воды в мл:\n" +
	"/log_water 250\n\n" +
	"Примеры:\n" +
	"• Стакан воды: /log_water 250\n" +
	"• Бутылка 0.5л: /log_water 500\n" +
	"• Чашка чая: /log_water 200"

func (b *Bot) cmdLogWater(ctx context.Context, userID uint64, args string) (chat.Response, error) {
	p, deny, err := b.profile(ctx, userID)
	if err != nil || deny != nil {
		return orDeny(deny, err)
	}
	if args == "" {
		return chat.Response{Text: logWaterUsage}, nil
	}

	amount, err := strconv.Atoi(args)
	if err != nil {
		return chat.Response{Text: "❌ Пожалуйста, введите число.\nПример: /log_water 250"}, nil
	}
	if amount <= 0 {
		return chat.Response{Text: "❌ Количество воды должно быть положительным числом"}, nil
	}
	if amount > maxWaterML {
		return chat.Response{Text: "❌ Слишком большое количество. Введите реальное значение (до 5000 мл)"}, nil
	}

	if err := b.store.AppendWater(ctx, userID, amount); err != nil {
		return chat.Response{}, err
	}

	totals, err := b.progress.Today(ctx, userID)
	if err != nil {
		return chat.Response{}, err
	}
	goal := combinedWaterGoal(p, b.reading(ctx, p), totals.ExtraWaterML)
	ws := progress.WaterProgress(totals.WaterML, goal)

	var status string
	if ws.Reached {
		status = "🎉 Цель достигнута!"
	} else {
		status = fmt.Sprintf("💪 Осталось: %d мл", ws.Remaining)
	}

	text := fmt.Sprintf("💧 Записано: %d мл воды\n\n"+
		"📊 Прогресс за сегодня:\n"+
		"Выпито: %d мл из %d мл\n"+
		"[%s %d%%]\n\n%s",
		amount, totals.WaterML, goal, progress.Bar(ws.Percent), ws.Percent, status)

	if totals.ExtraWaterML > 0 {
		text += fmt.Sprintf("\n\n💡 Включая +%d мл от тренировок", totals.ExtraWaterML)
	}
	return chat.Response{Text: text}, nil
}

// orDeny collapses the (profile, deny, err) triple into a handler return.
func orDeny(deny *chat.Response, err error) (chat.Response, error) {
	if err != nil {
		return chat.Response{}, err
	}
	return *deny, nil
}
