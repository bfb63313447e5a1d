package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"agenda/internal/api"
	"agenda/internal/config"
	"agenda/internal/dashboard"
	"agenda/internal/events"
	"agenda/internal/metrics"
	"agenda/internal/notify"
	"agenda/internal/server"
	"agenda/internal/session"
	"agenda/internal/timefmt"
)

func main() {
	// Initialize logger
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn().Err(err).Msg("failed to read .env")
	}

	cfg, err := config.Load(os.Getenv("AGENDA_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal().Err(err).Str("timezone", cfg.Dashboard.Timezone).Msg("invalid timezone")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	holder := session.NewHolder(session.Auth{
		User:  session.User{ID: cfg.Session.UserID, Name: cfg.Session.UserName, Email: cfg.Session.Email},
		Token: cfg.Session.Token,
	})

	client := api.NewClient(cfg.API.BaseURL, holder,
		api.WithHTTPClient(&http.Client{Timeout: cfg.APITimeout()}),
		api.WithRateLimit(cfg.API.RateLimitRPS, cfg.API.RateLimitBurst),
		api.WithLogger(&logger),
	)
	var rdb *redis.Client
	if cfg.Redis.Address != "" && cfg.CacheTTL() > 0 {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		client.UseRedisCache(rdb, cfg.CacheTTL())
	}

	if cfg.HasCredentials() {
		user, err := holder.SignIn(ctx, client, cfg.Session.Email, cfg.Session.Password)
		if err != nil {
			logger.Fatal().Err(err).Msg("sign in failed")
		}
		logger.Info().Str("provider_id", user.ID).Str("name", user.Name).Msg("signed in")
	}
	if !holder.SignedIn() {
		logger.Fatal().Msg("set session credentials or session.token and session.user_id in config")
	}

	notifiers := notify.Multi{notify.NewLogNotifier(&logger)}
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != 0 {
		bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
		if err != nil {
			logger.Error().Err(err).Msg("telegram bot init failed, toasts stay local")
		} else {
			notifiers = append(notifiers, notify.NewTelegramNotifier(bot, cfg.Telegram.ChatID, cfg.Telegram.ErrorsOnly, &logger))
		}
	}

	bus := events.NewEventBus()
	bus.Subscribe(events.TypeFetchFailed, func(e events.Event) error {
		logger.Debug().Interface("payload", e.Payload).Msg("fetch failed event")
		return nil
	})

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, client, rdb, &logger)

	vm := dashboard.New(client, client, holder, dashboard.Options{
		Locale:   cfg.Locale(),
		Location: loc,
		Clock:    timefmt.SystemClock(loc),
		Notifier: notifiers,
		Events:   bus,
		Logger:   &logger,
	})
	vm.Load(ctx)

	go refreshLoop(ctx, vm, cfg.RefreshInterval())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           server.NewHandler(vm, loc, &logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()

	logger.Info().Int("port", cfg.HTTP.Port).Str("locale", string(cfg.Locale())).Msg("agenda dashboard started")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("dashboard server error")
	}
}

// refreshLoop keeps the today marker and next appointment current.
func refreshLoop(ctx context.Context, vm *dashboard.ViewModel, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			vm.Refresh()
		}
	}
}

func startHealthServer(ctx context.Context, port int, client *api.Client, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := client.HealthCheck(ctxPing); err != nil {
			http.Error(w, "api not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
