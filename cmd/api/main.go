// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/gym-crm/internal/admin"
	"github.com/carterperez-dev/gym-crm/internal/appointment"
	"github.com/carterperez-dev/gym-crm/internal/auth"
	"github.com/carterperez-dev/gym-crm/internal/config"
	"github.com/carterperez-dev/gym-crm/internal/core"
	"github.com/carterperez-dev/gym-crm/internal/health"
	"github.com/carterperez-dev/gym-crm/internal/mail"
	"github.com/carterperez-dev/gym-crm/internal/middleware"
	"github.com/carterperez-dev/gym-crm/internal/notification"
	"github.com/carterperez-dev/gym-crm/internal/payment"
	"github.com/carterperez-dev/gym-crm/internal/progress"
	"github.com/carterperez-dev/gym-crm/internal/scheduler"
	"github.com/carterperez-dev/gym-crm/internal/scope"
	"github.com/carterperez-dev/gym-crm/internal/server"
	"github.com/carterperez-dev/gym-crm/internal/student"
	"github.com/carterperez-dev/gym-crm/internal/user"
	"github.com/carterperez-dev/gym-crm/internal/workoutplan"
)

const (
	drainDelay = 5 * time.Second

	purgeTokensSpec = "30 3 * * *"
	triggerRequests = 10
	triggerBurst    = 5
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrate := flag.Bool("migrate", false, "apply database migrations and exit")
	genKeys := flag.Bool("genkeys", false, "write a new ES256 key pair and exit")
	flag.Parse()

	var err error
	switch {
	case *genKeys:
		err = generateKeys(*configPath)
	case *migrate:
		err = runMigrations(*configPath)
	default:
		err = run(*configPath)
	}

	if err != nil {
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

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
		telemetry = core.NoopTelemetry(cfg.App.Name)
	} else if cfg.Otel.Enabled {
		logger.Info("tracing enabled", "endpoint", cfg.Otel.Endpoint)
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

	sender, err := mail.New(cfg.Mail, cfg.App.Name, logger)
	if err != nil {
		return err
	}

	userSvc := user.NewService(user.NewRepository(db.DB))
	authSvc := auth.NewService(
		auth.NewRepository(db.DB),
		jwtManager,
		userSvc,
		auth.NewRedisBlacklist(redis.Client, redis.Key("blacklist")),
		logger,
	)

	loc := cfg.Scheduler.Location()
	notificationRepo := notification.NewRepository(db.DB)
	engine := notification.NewEngine(
		notification.NewCandidateRepository(db.DB),
		notificationRepo,
		loc,
		logger.With("component", "notification"),
		notification.WithMail(userSvc, sender),
	)

	studentSvc := student.NewService(student.NewRepository(db.DB))
	notificationSvc := notification.NewService(notificationRepo, engine, studentSvc)
	paymentSvc := payment.NewService(payment.NewRepository(db.DB), studentSvc,
		payment.WithOverdueSweep(func(ctx context.Context, caller scope.Caller) (int64, error) {
			res, err := engine.CheckOverduePayments(ctx, &caller)
			return res.Corrected, err
		}),
		payment.WithMail(sender),
	)
	appointmentSvc := appointment.NewService(appointment.NewRepository(db.DB), studentSvc,
		appointment.WithLocation(loc),
	)
	workoutPlanSvc := workoutplan.NewService(workoutplan.NewRepository(db.DB), studentSvc)
	progressSvc := progress.NewService(progress.NewRepository(db.DB), studentSvc)

	sched, err := scheduler.New(engine, cfg.Scheduler, logger,
		scheduler.Job{
			Name: "purge-refresh-tokens",
			Spec: purgeTokensSpec,
			Run: func(ctx context.Context) error {
				n, err := authSvc.PurgeExpiredTokens(ctx)
				if err != nil {
					return err
				}
				logger.InfoContext(ctx, "expired refresh tokens purged", "count", n)
				return nil
			},
		},
	)
	if err != nil {
		return err
	}

	healthHandler := health.NewHandler(
		health.PingDependency("database", db),
		health.PingDependency("redis", redis),
		health.Dependency{Name: "scheduler", Check: sched.Check},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		DBPing:     db.Ping,
		RedisStats: redis.PoolStats,
		RedisPing:  redis.Ping,
		Jobs:       sched,
		Timezone:   loc.String(),
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Tracing(telemetry.Tracer()))
	router.Use(middleware.Logger(logger))
	globalLimit := middleware.PerMinute(cfg.RateLimit.Requests, cfg.RateLimit.Burst)
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Prefix: redis.Key(),
			Limit:  globalLimit,
			Logger: logger,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.JWKSHandler())

	authenticator := middleware.Authenticator(authSvc)
	triggerLimit := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Prefix:  redis.Key(),
		Limit:   middleware.PerMinute(triggerRequests, triggerBurst),
		KeyFunc: middleware.KeyByUserAndEndpoint,
		Logger:  logger,
	}).Handler

	router.Route("/api", func(r chi.Router) {
		auth.NewHandler(authSvc).RegisterRoutes(r, authenticator)
		user.NewHandler(userSvc).RegisterRoutes(r, authenticator)
		student.NewHandler(studentSvc).RegisterRoutes(r, authenticator)
		payment.NewHandler(paymentSvc).RegisterRoutes(r, authenticator)
		appointment.NewHandler(appointmentSvc).RegisterRoutes(r, authenticator)
		workoutplan.NewHandler(workoutPlanSvc).RegisterRoutes(r, authenticator)
		progress.NewHandler(progressSvc).RegisterRoutes(r, authenticator)
		notification.NewHandler(notificationSvc, sched).
			RegisterRoutes(r, authenticator, triggerLimit)
		adminHandler.RegisterRoutes(r, authenticator, middleware.RequireAdmin)
	})

	if cfg.Scheduler.Enabled {
		if err := sched.Start(); err != nil {
			return err
		}
	} else {
		logger.Warn("notification scheduler disabled")
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	var runErr error
	select {
	case runErr = <-errChan:
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

	if err := sched.Stop(shutdownCtx); err != nil {
		logger.Error("scheduler stop error", "error", err)
	}

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown error", "error", err)
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return runErr
}

func runMigrations(configPath string) error {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.Log)

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("database close error", "error", err)
		}
	}()

	version, err := db.Migrate(ctx)
	if err != nil {
		return err
	}

	logger.Info("migrations applied", "version", version)
	return nil
}

// generateKeys only needs the key paths, so a config that fails to load
// falls back to the default locations.
func generateKeys(configPath string) error {
	priv, pub := "keys/private.pem", "keys/public.pem"

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Warn("config unavailable, using default key paths", "error", err)
	} else {
		priv, pub = cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath
	}

	for _, path := range []string{priv, pub} {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return fmt.Errorf("create key directory: %w", err)
		}
	}

	if err := auth.GenerateKeyPair(priv, pub); err != nil {
		return fmt.Errorf("generate keys: %w", err)
	}

	slog.Info("ES256 key pair written", "private", priv, "public", pub)
	return nil
}

// setupLogger accepts the slog level names; anything else logs at info.
func setupLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
