// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/admin"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/announcement"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/auth"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/card"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/comment"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/config"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/diary"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/feedback"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/follow"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/health"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/like"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/middleware"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/moderation"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/notification"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/scheduler"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/server"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/user"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/migrations"
)

const (
	drainDelay       = 5 * time.Second
	unreadCountTTL   = 30 * time.Second
	unreadCachePrefix = "notifications:unread:"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var tracer trace.Tracer
	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		logger.Warn("failed to initialize telemetry", "error", err)
		tracer = otel.Tracer(cfg.App.Name)
	} else {
		tracer = telemetry.Tracer
		if cfg.Otel.Enabled {
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	if cfg.Database.AutoMigrate {
		if err := migrate(cfg.Database.URL, logger); err != nil {
			return err
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.KeyID(),
	)

	ids, err := core.NewIDGenerator(cfg.IDs)
	if err != nil {
		return err
	}

	moderator, err := moderation.New(cfg.Moderation)
	if err != nil {
		return err
	}

	cardLocation, err := time.LoadLocation(cfg.Card.Timezone)
	if err != nil {
		return err
	}

	userSvc := user.NewService(user.NewRepository(db.DB), ids)
	authSvc := auth.NewService(auth.NewSessionStore(db.DB), jwtManager, userSvc, redis.Client)

	notificationSvc := notification.NewService(
		notification.NewRepository(db.DB),
		core.NewCounterCache(redis.Client, unreadCachePrefix, unreadCountTTL),
		logger,
	)

	followSvc := follow.NewService(follow.NewRepository(db.DB), userSvc, notificationSvc, logger)
	diarySvc := diary.NewService(diary.NewRepository(db.DB), moderator)
	commentSvc := comment.NewService(
		comment.NewRepository(db.DB),
		diarySvc,
		userSvc,
		notificationSvc,
		moderator,
		logger,
	)
	likeSvc := like.NewService(like.NewRepository(db.DB), diarySvc, userSvc, notificationSvc, logger)
	announcementSvc := announcement.NewService(announcement.NewRepository(db.DB), moderator)
	cardSvc := card.NewService(card.NewRepository(db.DB), cardLocation)
	feedbackSvc := feedback.NewService(feedback.NewRepository(db.DB), moderator)

	var jobs *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		jobs, err = scheduler.New(cfg.Scheduler, cardLocation, authSvc, notificationSvc, logger)
		if err != nil {
			return err
		}
		jobs.Start()
		logger.Info("scheduler started", "jobs", jobs.Jobs())
	}

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis, Optional: true},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:       db.Stats,
		DBPing:        db.Ping,
		RedisStats:    redis.PoolStats,
		RedisPing:     redis.Ping,
		Users:         userSvc,
		Notifications: notificationSvc,
		Diaries:       diarySvc,
		Comments:      commentSvc,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Tracing(tracer))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.NewRateLimiter(
		redis.Client,
		middleware.ByIP(middleware.Limit(
			cfg.RateLimit.Requests,
			cfg.RateLimit.Burst,
			cfg.RateLimit.Window,
		)),
		true,
	).Handler)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.JWKSHandler())

	authenticator := middleware.Authenticator(authSvc)
	optionalAuth := middleware.OptionalAuth(authSvc)
	adminOnly := middleware.RequireAdmin

	userHandler := user.NewHandler(userSvc)
	announcementHandler := announcement.NewHandler(announcementSvc)
	feedbackHandler := feedback.NewHandler(feedbackSvc)

	router.Route("/api", func(r chi.Router) {
		r.Use(optionalAuth)
		r.Use(middleware.NewRateLimiter(redis.Client, middleware.ByRole(middleware.DefaultRoleLimits), true).Handler)

		auth.NewHandler(authSvc).RegisterRoutes(r, authenticator)
		userHandler.RegisterRoutes(r, authenticator)
		follow.NewHandler(followSvc).RegisterRoutes(r, authenticator)
		notification.NewHandler(notificationSvc).RegisterRoutes(r, authenticator)
		diary.NewHandler(diarySvc).RegisterRoutes(r, authenticator, optionalAuth)
		comment.NewHandler(commentSvc).RegisterRoutes(r, authenticator, optionalAuth)
		like.NewHandler(likeSvc).RegisterRoutes(r, authenticator)
		announcementHandler.RegisterRoutes(r)
		card.NewHandler(cardSvc).RegisterRoutes(r, authenticator)
		feedbackHandler.RegisterRoutes(r, authenticator, optionalAuth)

		userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		announcementHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		feedbackHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if jobs != nil {
		jobs.Stop(shutdownCtx)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func migrate(url string, logger *slog.Logger) error {
	m, err := migrations.Open(url, logger)
	if err != nil {
		return err
	}
	defer m.Close() //nolint:errcheck // migration handle is dedicated

	return m.Up()
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
