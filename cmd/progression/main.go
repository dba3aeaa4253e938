// Package main is the entry point for the EcoLearn progression service.
//
// The service owns client-side progression state for the learning app:
// daily streaks, team invites, XP and leveling, leaderboard ranks, and the
// optimistic start-course flow. It is wired following Clean Architecture:
// - Domain: pure progression logic without external dependencies
// - Application: use case orchestration (Commands/Queries)
// - Infrastructure: redis and postgres persistence, in-process event bus
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecolearn-hub/ecolearn-progression/config"
	"github.com/ecolearn-hub/ecolearn-progression/internal/application"
	"github.com/ecolearn-hub/ecolearn-progression/internal/application/command"
	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/shared"
	"github.com/ecolearn-hub/ecolearn-progression/internal/infrastructure/messaging"
	"github.com/ecolearn-hub/ecolearn-progression/internal/infrastructure/persistence/postgres"
	redisstore "github.com/ecolearn-hub/ecolearn-progression/internal/infrastructure/persistence/redis"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting EcoLearn progression service",
		"env", string(cfg.App.Environment),
		"version", cfg.App.Version,
		"debug", cfg.App.Debug,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. DATABASE (PostgreSQL/Supabase)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	pgCfg := postgres.DefaultConfig()
	pgCfg.URL = cfg.Database.URL
	pgCfg.MaxConns = int32(cfg.Database.MaxConns)
	pgCfg.MinConns = int32(cfg.Database.MinConns)
	pgCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	pgCfg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	dbConn, err := postgres.NewConnection(ctx, pgCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to Redis...")
	redisCfg := redisstore.DefaultConfig()
	redisCfg.Host = cfg.Redis.Host
	redisCfg.Port = cfg.Redis.Port
	redisCfg.Password = cfg.Redis.Password
	redisCfg.DB = cfg.Redis.DB
	redisCfg.PoolSize = cfg.Redis.PoolSize
	redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
	redisCfg.DialTimeout = cfg.Redis.DialTimeout
	redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
	redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

	redisClient, err := redisstore.NewClient(redisCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer func() {
		log.Info("closing redis connection...")
		_ = redisClient.Close()
	}()
	log.Info("redis connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REPOSITORIES AND CACHES
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	profileRepo := postgres.NewProfileRepository(dbConn)
	courseRepo := postgres.NewCourseRepository(dbConn)

	userStore := redisstore.NewUserStore(redisClient, log)
	streakStore := redisstore.NewStreakStore(userStore)
	inviteStore := redisstore.NewInviteStore(userStore)
	progressCache := redisstore.NewProgressCache(redisClient, cfg.Cache.ProgressTTL)
	catalogCache := redisstore.NewCatalogCache(redisClient, cfg.Cache.CatalogTTL)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing event bus...")
	bus := messaging.NewBus(log)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. APPLICATION LAYER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")

	app := application.New(application.Dependencies{
		Streaks:       streakStore,
		Invites:       inviteStore,
		Profiles:      profileRepo,
		Leaderboard:   profileRepo,
		Courses:       courseRepo,
		ProgressCache: progressCache,
		CatalogCache:  catalogCache,
		Bus:           bus,
		Logger:        log,
	})

	// ─────────────────────────────────────────────────────────────────────────
	// 8. EVENT SUBSCRIPTIONS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("registering event subscribers...")

	// Completing a course awards its XP (plus coins) against the profile.
	unsubscribeAwards, err := bus.Subscribe(func(event shared.Event) error {
		completed, ok := event.(shared.CourseCompletedEvent)
		if !ok {
			return nil
		}

		awardCtx, awardCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer awardCancel()

		_, err := app.AwardXP.Handle(awardCtx, command.AwardXPCommand{
			UserID:     completed.AggregateID(),
			Amount:     completed.XPAwarded,
			Reason:     string(shared.EventCourseCompleted),
			AwardCoins: true,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe award handler: %w", err)
	}
	defer unsubscribeAwards()

	// Notification surface: every event is logged for the client to render.
	unsubscribeLog, err := bus.Subscribe(func(event shared.Event) error {
		log.Info("notification event",
			"event_id", event.EventID(),
			"type", string(event.EventType()),
			"user_id", event.AggregateID(),
		)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe notification logger: %w", err)
	}
	defer unsubscribeLog()

	// ─────────────────────────────────────────────────────────────────────────
	// 9. PROFILE CHANGE LISTENER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("starting profile change listener...")
	listener := postgres.NewProfileListener(pgCfg, log)
	err = listener.Start(ctx, func(payload string) {
		// Rank and XP projections read straight from postgres, so a change
		// only needs the changed user's cached progress dropped; the next
		// read refetches and re-ranks. The payload is the profile id.
		log.Debug("profile change notification", "user_id", payload)
		app.CourseProgress.InvalidateAll(context.Background(), payload)
	})
	if err != nil {
		return fmt.Errorf("failed to start profile listener: %w", err)
	}
	defer func() {
		log.Info("stopping profile change listener...")
		listener.Stop()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 10. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("EcoLearn progression service is running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		log.Info("context cancelled")
	}

	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	// Bound the whole teardown; the deferred closes run after this returns.
	shutdownTimer := time.AfterFunc(cfg.App.ShutdownTimeout, func() {
		log.Error("graceful shutdown timed out, exiting")
		os.Exit(1)
	})
	defer shutdownTimer.Stop()

	app.ReadGuard.CancelActive()

	log.Info("shutdown completed successfully")
	return nil
}

// setupLogger configures structured logging per the observability config.
func setupLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Observability.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if cfg.App.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Observability.LogFormat == "text" || cfg.IsDevelopment() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}
