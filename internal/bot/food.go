package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/thomasfsr/healthgo/internal/chat"
	"github.com/thomasfsr/healthgo/internal/food"
	"github.com/thomasfsr/healthgo/internal/progress"
	"github.com/thomasfsr/healthgo/internal/session"
)

const maxFoodGrams = 5000

const logFoodUsage = "🍎 Запись еды\n\n" +
	"Укажите название продукта:\n" +
	"/log_food банан\n\n" +
	"Примеры:\n" +
	"• /log_food яблоко\n" +
	"• /log_food курица\n" +
	"• /log_food пицца\n" +
	"• /log_food овсянка"

// cmdLogFood resolves the product and opens a one-step session that waits
// for the amount eaten. Any prior session (wizard included) is replaced.
func (b *Bot) cmdLogFood(ctx context.Context, userID uint64, args string) (chat.Response, error) {
	_, deny, err := b.profile(ctx, userID)
	if err != nil || deny != nil {
		return orDeny(deny, err)
	}
	if args == "" {
		return chat.Response{Text: logFoodUsage}, nil
	}

	item, err := b.food.Find(ctx, args)
	if errors.Is(err, food.ErrNotFound) {
		return chat.Response{Text: fmt.Sprintf("❌ Продукт '%s' не найден.\n\n"+
			"💡 Попробуйте:\n"+
			"• Использовать другое название\n"+
			"• Написать на английском\n"+
			"• Использовать более общее название\n\n"+
			"Примеры: банан, яблоко, курица, рис, хлеб", args)}, nil
	}
	if err != nil {
		return chat.Response{}, err
	}

	sess := &session.Session{
		Step: session.StepFoodGrams,
		Food: &session.PendingFood{
			Name:            item.Name,
			CaloriesPer100g: item.CaloriesPer100g,
			Glyph:           item.Glyph,
		},
	}
	if err := b.sessions.Put(ctx, userID, sess); err != nil {
		return chat.Response{}, fmt.Errorf("failed to save session: %w", err)
	}

	return chat.Response{Text: fmt.Sprintf("%s %s\n"+
		"Калорийность: %g ккал на 100 г\n\n"+
		"Сколько грамм вы съели?\nПример: 150",
		item.Glyph, item.Name, item.CaloriesPer100g)}, nil
}

// handleFoodGrams closes the pending food entry: the step's whole mutation
// (append the record, drop the session) happens only after the amount
// validates.
func (b *Bot) handleFoodGrams(ctx context.Context, userID uint64, sess *session.Session, text string) (chat.Response, error) {
	grams, err := parseFloat(text)
	if err != nil {
		return chat.Response{Text: "❌ Пожалуйста, введите число.\nНапример: 150"}, nil
	}
	if grams <= 0 {
		return chat.Response{Text: "❌ Количество должно быть положительным числом"}, nil
	}
	if grams > maxFoodGrams {
		return chat.Response{Text: "❌ Слишком большое количество. Введите реальное значение (до 5000 г)"}, nil
	}

	item := sess.Food
	calories := item.CaloriesPer100g * grams / 100

	if err := b.store.AppendFood(ctx, userID, item.Name, calories, grams); err != nil {
		return chat.Response{}, err
	}
	if err := b.sessions.Delete(ctx, userID); err != nil {
		return chat.Response{}, fmt.Errorf("failed to close session: %w", err)
	}

	p, deny, err := b.profile(ctx, userID)
	if err != nil || deny != nil {
		return orDeny(deny, err)
	}
	totals, err := b.progress.Today(ctx, userID)
	if err != nil {
		return chat.Response{}, err
	}
	bal := progress.CalorieBalance(totals.CaloriesIn, totals.CaloriesOut, p.CalorieGoal)

	var status string
	if bal.Over {
		status = "⚠️ Дневная норма превышена"
	} else {
		status = fmt.Sprintf("✅ Осталось: %d ккал", int(bal.Remaining))
	}

	return chat.Response{Text: fmt.Sprintf("%s Записано: %s\n"+
		"📝 %.0f г = %.1f ккал\n\n"+
		"📊 Прогресс за сегодня:\n"+
		"Потреблено: %d ккал\n"+
		"Сожжено: %d ккал\n"+
		"Баланс: %d / %d ккал\n"+
		"[%s %d%%]\n\n%s",
		item.Glyph, item.Name, grams, calories,
		int(totals.CaloriesIn), int(totals.CaloriesOut),
		int(bal.Balance), int(p.CalorieGoal),
		progress.Bar(bal.Percent), bal.Percent, status)}, nil
}
