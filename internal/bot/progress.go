package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/thomasfsr/healthgo/internal/chat"
	"github.com/thomasfsr/healthgo/internal/goals"
	"github.com/thomasfsr/healthgo/internal/progress"
	"github.com/thomasfsr/healthgo/internal/storage"
)

const chartDays = 7

func (b *Bot) cmdCheckProgress(ctx context.Context, userID uint64) (chat.Response, error) {
	p, deny, err := b.profile(ctx, userID)
	if err != nil || deny != nil {
		return orDeny(deny, err)
	}

	totals, err := b.progress.Today(ctx, userID)
	if err != nil {
		return chat.Response{}, err
	}

	r := b.reading(ctx, p)
	waterGoal := combinedWaterGoal(p, r, totals.ExtraWaterML)

	water := progress.WaterProgress(totals.WaterML, waterGoal)
	cal := progress.CalorieBalance(totals.CaloriesIn, totals.CaloriesOut, p.CalorieGoal)

	waterStatus := fmt.Sprintf("💧 Осталось: %d мл", water.Remaining)
	if water.Reached {
		waterStatus = "🎉 Цель достигнута!"
	}
	calorieStatus := fmt.Sprintf("✅ Осталось: %d ккал", int(cal.Remaining))
	if cal.Over && cal.Excess > 0 {
		calorieStatus = fmt.Sprintf("⚠️ Превышение на %d ккал", int(cal.Excess))
	}

	var sb strings.Builder
	sb.WriteString("📊 Ваш прогресс за сегодня\n\n")
	if r != nil {
		fmt.Fprintf(&sb, "🌡️ %s: %.1f°C\n\n", r.City, r.Temp)
	}
	fmt.Fprintf(&sb, "💧 Вода:\n")
	fmt.Fprintf(&sb, "Выпито: %d мл из %d мл\n", totals.WaterML, waterGoal)
	fmt.Fprintf(&sb, "[%s] %d%%\n%s\n\n", progress.Bar(water.Percent), water.Percent, waterStatus)
	fmt.Fprintf(&sb, "🔥 Калории:\n")
	fmt.Fprintf(&sb, "Потреблено: %d ккал\n", int(totals.CaloriesIn))
	fmt.Fprintf(&sb, "Сожжено: %d ккал\n", int(totals.CaloriesOut))
	fmt.Fprintf(&sb, "Баланс: %d / %d ккал\n", int(cal.Balance), int(p.CalorieGoal))
	fmt.Fprintf(&sb, "[%s] %d%%\n%s\n\n", progress.Bar(cal.Percent), cal.Percent, calorieStatus)
	sb.WriteString("📈 /show_charts — графики за неделю\n")
	sb.WriteString("💡 /recommendations — советы")

	return chat.Response{Text: sb.String()}, nil
}

func (b *Bot) cmdShowCharts(ctx context.Context, userID uint64) (chat.Response, error) {
	p, deny, err := b.profile(ctx, userID)
	if err != nil || deny != nil {
		return orDeny(deny, err)
	}

	totals, err := b.progress.Today(ctx, userID)
	if err != nil {
		return chat.Response{}, err
	}

	now := time.Now()
	series := make(map[storage.Stream][]progress.DayValue, 3)
	for _, st := range []storage.Stream{storage.StreamWater, storage.StreamFood, storage.StreamWorkout} {
		sparse, err := b.progress.History(ctx, userID, st, chartDays)
		if err != nil {
			return chat.Response{}, err
		}
		series[st] = progress.Densify(sparse, chartDays, now)
	}

	r := b.reading(ctx, p)
	waterGoal := combinedWaterGoal(p, r, totals.ExtraWaterML)

	png, err := b.charts.RenderProgress(
		series[storage.StreamWater],
		series[storage.StreamFood],
		series[storage.StreamWorkout],
		waterGoal, p.CalorieGoal, totals,
	)
	if err != nil {
		return chat.Response{}, fmt.Errorf("failed to render progress chart: %w", err)
	}

	return chat.Response{
		Photo: png,
		Caption: "📊 Ваш прогресс за последнюю неделю\n\n" +
			"💧 Вода: синий цвет - не достигнута цель, зелёный - достигнута\n" +
			"🔥 Калории: красный - потреблено, зелёный - сожжено",
	}, nil
}

type foodTip struct {
	Glyph    string
	Name     string
	Calories int
	Protein  float64 // grams per 100 g, zero for the low-calorie list
}

var lowCalorieFoods = []foodTip{
	{"🥒", "Огурец", 15, 0},
	{"🍅", "Помидор", 20, 0},
	{"🥬", "Салат листовой", 17, 0},
	{"🥦", "Брокколи", 34, 0},
	{"🍓", "Клубника", 33, 0},
}

var highProteinFoods = []foodTip{
	{"🍗", "Куриная грудка", 165, 31},
	{"🥚", "Яйцо куриное", 155, 13},
	{"🐟", "Треска", 82, 18},
	{"🧀", "Творог 5%", 121, 17},
	{"🫘", "Чечевица", 116, 9},
}

func (b *Bot) cmdRecommendations(ctx context.Context, userID uint64) (chat.Response, error) {
	p, deny, err := b.profile(ctx, userID)
	if err != nil || deny != nil {
		return orDeny(deny, err)
	}

	totals, err := b.progress.Today(ctx, userID)
	if err != nil {
		return chat.Response{}, err
	}
	balance := totals.CaloriesIn - totals.CaloriesOut

	var sb strings.Builder
	sb.WriteString("💡 Рекомендации для вас\n\n")

	if balance > p.CalorieGoal {
		excess := balance - p.CalorieGoal
		fmt.Fprintf(&sb, "⚠️ Вы превысили норму калорий на %d ккал\n\n", int(excess))
		sb.WriteString("🏃 Рекомендуемые тренировки для сжигания:\n")

		recs := goals.Recommendations(totals.CaloriesIn, p.CalorieGoal, totals.CaloriesOut, p.WeightKg)
		if len(recs) > 0 {
			for _, rec := range recs {
				fmt.Fprintf(&sb, "%s %s: %d мин (~%d ккал)\n", rec.Glyph, rec.Workout, rec.Minutes, rec.Calories)
			}
		} else {
			sb.WriteString("• Бег 30 мин\n• Плавание 45 мин\n• Велосипед 40 мин\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("🥗 Низкокалорийные продукты (до 50 ккал/100г):\n")
	for _, f := range lowCalorieFoods {
		fmt.Fprintf(&sb, "%s %s: %d ккал\n", f.Glyph, f.Name, f.Calories)
	}

	sb.WriteString("\n💪 Белковые продукты для мышц:\n")
	for _, f := range highProteinFoods {
		fmt.Fprintf(&sb, "%s %s: %d ккал (%gг белка)\n", f.Glyph, f.Name, f.Calories, f.Protein)
	}

	sb.WriteString("\n📝 Общие советы:\n")
	sb.WriteString("• Пейте воду перед едой\n")
	sb.WriteString("• Ешьте медленно и осознанно\n")
	sb.WriteString("• Выбирайте цельные продукты\n")
	sb.WriteString("• Тренируйтесь регулярно\n")

	return chat.Response{Text: sb.String()}, nil
}
