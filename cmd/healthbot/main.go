package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/thomasfsr/healthgo/internal/bot"
	"github.com/thomasfsr/healthgo/internal/charts"
	"github.com/thomasfsr/healthgo/internal/config"
	"github.com/thomasfsr/healthgo/internal/food"
	"github.com/thomasfsr/healthgo/internal/logger"
	"github.com/thomasfsr/healthgo/internal/progress"
	"github.com/thomasfsr/healthgo/internal/session"
	"github.com/thomasfsr/healthgo/internal/storage"
	"github.com/thomasfsr/healthgo/internal/storage/postgres"
	"github.com/thomasfsr/healthgo/internal/storage/sqlite"
	"github.com/thomasfsr/healthgo/internal/transport/whatsapp"
	"github.com/thomasfsr/healthgo/internal/weather"
	"github.com/thomasfsr/healthgo/internal/wizard"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("healthbot", "info")
		boot.Fatal().Err(err).Msg("failed to load config")
	}
	log := logger.New("healthbot", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store storage.Store
	switch cfg.DBDriver {
	case "postgres":
		pg, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open postgres store")
		}
		defer pg.Close()
		store = pg
	default:
		sq, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open sqlite store")
		}
		defer sq.DB().Close()
		store = sq
	}

	var sessions session.Store = session.NewMemoryStore()
	if cfg.RedisAddr != "" {
		sessions = session.NewRedisStore(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
		log.Info().Str("addr", cfg.RedisAddr).Msg("using redis session store")
	}

	var provider weather.Provider = weather.NewWttr()
	if cfg.OpenWeatherKey != "" {
		provider = weather.Fallback{weather.NewOpenWeather(cfg.OpenWeatherKey), weather.NewWttr()}
	}

	lookup := food.NewLLM(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel)

	wiz := wizard.New(sessions, store, provider, log)
	prog := progress.New(store)
	core := bot.New(store, sessions, wiz, prog, provider, lookup, charts.New(), log)

	wa, err := whatsapp.New(ctx, cfg.WhatsAppDBPath, core, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up whatsapp transport")
	}

	log.Info().Str("db_driver", cfg.DBDriver).Msg("healthbot starting")
	if err := wa.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("whatsapp transport stopped")
	}
	log.Info().Msg("healthbot stopped")
}
