package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"agenda-backend/config"
	"agenda-backend/metrics"
	"agenda-backend/repository"
	"agenda-backend/routes"
	"agenda-backend/scheduling"
	"agenda-backend/services"
	"agenda-backend/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	log := config.NewLogger(cfg.LogLevel, cfg.LogFile)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.ConnectDB(cfg)
	if err != nil {
		return err
	}
	if cfg.AutoMigrate {
		if err := config.Migrate(db, log); err != nil {
			return err
		}
	}
	stores := repository.NewStores(db)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	schedMetrics := metrics.NewSchedulingMetrics(reg)
	httpMetrics := metrics.NewHTTPMetrics(reg)

	opts := []scheduling.Option{
		scheduling.WithLogger(log),
		scheduling.WithRecorder(schedMetrics),
		scheduling.WithPhoneNormalizer(utils.PhoneNormalizer(cfg.DefaultRegion)),
		scheduling.WithAutoVisitHistory(cfg.AutoVisitHistory),
		scheduling.WithNow(func() time.Time { return time.Now().In(cfg.Location) }),
	}

	deps := routes.Deps{
		Config:      cfg,
		Log:         log,
		Stores:      stores,
		Allocator:   scheduling.NewAllocator(stores, opts...),
		Booker:      scheduling.NewBooker(stores, opts...),
		Schedules:   scheduling.NewScheduleManager(stores, opts...),
		HTTPMetrics: httpMetrics,
		Metrics:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		deps.Limiter = utils.NewRedisRateLimiter(rdb, cfg.RateLimitPerMinute, time.Minute, "agenda:ratelimit:")
		log.Info("rate limiting backed by redis", "addr", cfg.RedisAddr)
	} else {
		deps.Limiter = utils.NewMemoryRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	}

	if cfg.RemindersEnabled {
		sender := services.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)
		reminders := services.NewReminderService(stores, sender, schedMetrics, cfg.Location, log)
		if err := reminders.StartScheduler(cfg.ReminderCron); err != nil {
			return err
		}
		defer reminders.Stop()
		deps.Reminders = reminders
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := routes.SetupRouter(deps)
	if !cfg.IsProduction() {
		routes.PrintRoutes(os.Stdout, r)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
