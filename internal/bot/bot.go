// Package bot routes incoming chat events to the wizard or to the logging
// and progress handlers. It owns every user-facing reply; transports only
// deliver them.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/thomasfsr/healthgo/internal/chat"
	"github.com/thomasfsr/healthgo/internal/food"
	"github.com/thomasfsr/healthgo/internal/goals"
	"github.com/thomasfsr/healthgo/internal/progress"
	"github.com/thomasfsr/healthgo/internal/session"
	"github.com/thomasfsr/healthgo/internal/storage"
	"github.com/thomasfsr/healthgo/internal/weather"
	"github.com/thomasfsr/healthgo/internal/wizard"
)

// ChartRenderer draws the weekly progress picture. The bot hands over
// ready-made series and goal lines and never learns how the image is made.
type ChartRenderer interface {
	RenderProgress(water, caloriesIn, caloriesOut []progress.DayValue, waterGoalML int, calorieGoal float64, today progress.Totals) ([]byte, error)
}

// Bot is the conversation core: one Handle call per incoming event.
type Bot struct {
	store    storage.Store
	sessions session.Store
	wizard   *wizard.Wizard
	progress *progress.Service
	weather  weather.Provider
	food     food.Lookup
	charts   ChartRenderer
	log      zerolog.Logger
}

func New(store storage.Store, sessions session.Store, wiz *wizard.Wizard, prog *progress.Service,
	w weather.Provider, f food.Lookup, charts ChartRenderer, log zerolog.Logger) *Bot {
	return &Bot{
		store:    store,
		sessions: sessions,
		wizard:   wiz,
		progress: prog,
		weather:  w,
		food:     f,
		charts:   charts,
		log:      log,
	}
}

// Handle processes one event: button taps go to the wizard, commands to
// their handlers, and anything else to the active session if there is one.
func (b *Bot) Handle(ctx context.Context, ev chat.Event) (chat.Response, error) {
	b.logEvent(ev)

	if ev.Choice != "" {
		return b.wizard.HandleChoice(ctx, ev.UserID, ev.Choice)
	}

	text := strings.TrimSpace(ev.Text)
	if strings.HasPrefix(text, "/") {
		cmd, args, _ := strings.Cut(text, " ")
		return b.dispatch(ctx, ev.UserID, cmd, strings.TrimSpace(args))
	}

	sess, err := b.sessions.Get(ctx, ev.UserID)
	if errors.Is(err, session.ErrNotFound) {
		return chat.Response{Text: "Я понимаю только команды. Посмотрите /help 🙂"}, nil
	}
	if err != nil {
		return chat.Response{}, fmt.Errorf("failed to read session: %w", err)
	}

	if sess.Step == session.StepFoodGrams {
		return b.handleFoodGrams(ctx, ev.UserID, sess, text)
	}
	return b.wizard.HandleText(ctx, ev.UserID, sess, text)
}

func (b *Bot) dispatch(ctx context.Context, userID uint64, cmd, args string) (chat.Response, error) {
	switch cmd {
	case "/start":
		return b.cmdStart(), nil
	case "/help":
		return b.cmdHelp(), nil
	case "/set_profile":
		return b.wizard.Start(ctx, userID)
	case "/my_profile":
		return b.cmdMyProfile(ctx, userID)
	case "/log_water":
		return b.cmdLogWater(ctx, userID, args)
	case "/log_food":
		return b.cmdLogFood(ctx, userID, args)
	case "/log_workout":
		return b.cmdLogWorkout(ctx, userID, args)
	case "/check_progress":
		return b.cmdCheckProgress(ctx, userID)
	case "/show_charts":
		return b.cmdShowCharts(ctx, userID)
	case "/recommendations":
		return b.cmdRecommendations(ctx, userID)
	case "/cancel":
		return b.cmdCancel(ctx, userID)
	default:
		return chat.Response{Text: "Неизвестная команда. Посмотрите /help 🙂"}, nil
	}
}

func (b *Bot) cmdStart() chat.Response {
	return chat.Response{Text: "👋 Привет! Я помогу следить за водой, едой и тренировками.\n\n" +
		"Начните с настройки профиля: /set_profile\n\n" + commandList}
}

func (b *Bot) cmdHelp() chat.Response {
	return chat.Response{Text: "📚 Команды:\n\n" + commandList +
		"\nПримеры:\n" +
		"• /log_water 250\n" +
		"• /log_food банан\n" +
		"• /log_workout бег 30"}
}

const commandList = "• /set_profile — настроить профиль\n" +
	"• /my_profile — мой профиль\n" +
	"• /log_water — записать воду\n" +
	"• /log_food — записать еду\n" +
	"• /log_workout — записать тренировку\n" +
	"• /check_progress — проверить прогресс\n" +
	"• /show_charts — графики за неделю\n" +
	"• /recommendations — советы\n" +
	"• /cancel — отменить текущее действие\n"

// cmdCancel discards whatever flow is in progress, wizard or pending food.
func (b *Bot) cmdCancel(ctx context.Context, userID uint64) (chat.Response, error) {
	_, err := b.sessions.Get(ctx, userID)
	if errors.Is(err, session.ErrNotFound) {
		return chat.Response{Text: "Нечего отменять."}, nil
	}
	if err != nil {
		return chat.Response{}, fmt.Errorf("failed to read session: %w", err)
	}
	if err := b.sessions.Delete(ctx, userID); err != nil {
		return chat.Response{}, fmt.Errorf("failed to delete session: %w", err)
	}
	return chat.Response{Text: "❌ Действие отменено."}, nil
}

// profile fetches the user's profile or tells them to run the wizard.
func (b *Bot) profile(ctx context.Context, userID uint64) (*storage.Profile, *chat.Response, error) {
	p, err := b.store.GetProfile(ctx, userID)
	if errors.Is(err, storage.ErrNoProfile) {
		return nil, &chat.Response{Text: "❌ Сначала настройте профиль с помощью /set_profile"}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return p, nil, nil
}

// reading looks up the profile city's current weather; a miss degrades to
// nil (no weather bonus) rather than failing the command.
func (b *Bot) reading(ctx context.Context, p *storage.Profile) *weather.Reading {
	if p.City == "" {
		return nil
	}
	r, err := b.weather.Current(ctx, p.City)
	if err != nil {
		b.log.Warn().Str("city", p.City).Err(err).Msg("weather lookup failed")
		return nil
	}
	return r
}

// combinedWaterGoal is the effective hydration goal for today: the engine
// total for the fresh reading plus the extra water owed to today's
// workouts. Every water progress message compares against this sum.
func combinedWaterGoal(p *storage.Profile, r *weather.Reading, extraTodayML int) int {
	return engineWaterGoal(p, r).Total + extraTodayML
}

func engineWaterGoal(p *storage.Profile, r *weather.Reading) goals.WaterGoal {
	var temp *float64
	if r != nil {
		temp = &r.Temp
	}
	return goals.Water(p.WeightKg, p.ActivityMinutes, temp)
}

// parseFloat accepts the comma decimal separator.
func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
}

func (b *Bot) logEvent(ev chat.Event) {
	text := ev.Text
	if len(text) > 100 {
		text = text[:100]
	}
	b.log.Info().Uint64("user", ev.UserID).Str("text", text).Str("choice", ev.Choice).Msg("event")
}
