package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/thomasfsr/healthgo/internal/chat"
	"github.com/thomasfsr/healthgo/internal/storage"
)

func (b *Bot) cmdMyProfile(ctx context.Context, userID uint64) (chat.Response, error) {
	p, err := b.store.GetProfile(ctx, userID)
	if errors.Is(err, storage.ErrNoProfile) {
		return chat.Response{Text: "❌ Профиль не найден.\n\n" +
			"Используйте /set_profile чтобы настроить профиль."}, nil
	}
	if err != nil {
		return chat.Response{}, fmt.Errorf("failed to read profile: %w", err)
	}

	r := b.reading(ctx, p)
	waterCalc := engineWaterGoal(p, r)

	weatherLine := ""
	if r != nil {
		weatherLine = fmt.Sprintf("🌡️ Погода: %.1f°C (%s)\n", r.Temp, r.Description)
	}

	gender := "👩 Женский"
	if p.Gender == "male" {
		gender = "👨 Мужской"
	}
	city := p.City
	if city == "" {
		city = "Не указан"
	}

	return chat.Response{Text: fmt.Sprintf("👤 Ваш профиль:\n\n"+
		"⚖️ Вес: %g кг\n"+
		"📏 Рост: %g см\n"+
		"🎂 Возраст: %d лет\n"+
		"🚻 Пол: %s\n"+
		"🏃 Активность: %d мин/день\n"+
		"📍 Город: %s\n"+
		"%s\n"+
		"Дневные нормы:\n"+
		"💧 Вода: %d мл\n"+
		"🔥 Калории: %d ккал\n\n"+
		"📝 Чтобы изменить профиль: /set_profile",
		p.WeightKg, p.HeightCm, p.Age, gender, p.ActivityMinutes, city,
		weatherLine, waterCalc.Total, int(p.CalorieGoal))}, nil
}
