// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/codeburry/api/internal/admin"
	"github.com/codeburry/api/internal/auth"
	"github.com/codeburry/api/internal/community"
	"github.com/codeburry/api/internal/config"
	"github.com/codeburry/api/internal/core"
	"github.com/codeburry/api/internal/health"
	"github.com/codeburry/api/internal/metrics"
	"github.com/codeburry/api/internal/middleware"
	"github.com/codeburry/api/internal/progress"
	"github.com/codeburry/api/internal/realtime"
	"github.com/codeburry/api/internal/server"
	"github.com/codeburry/api/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

type stores struct {
	users     user.Repository
	posts     community.Repository
	progress  func(dir progress.Directory) progress.Repository
	db        *core.Database
	readiness health.Dependency
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		return &stores{
			users:    user.NewMemoryRepository(),
			posts:    community.NewMemoryRepository(),
			progress: progress.NewMemoryRepository,
			readiness: health.Dependency{
				Name:    "store",
				Checker: memoryChecker{},
			},
		}, nil
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	return &stores{
		users: user.NewRepository(db.DB),
		posts: community.NewRepository(db.DB),
		progress: func(progress.Directory) progress.Repository {
			return progress.NewRepository(db.DB)
		},
		db:        db,
		readiness: health.Dependency{Name: "database", Checker: db},
	}, nil
}

type memoryChecker struct{}

func (memoryChecker) Ping(context.Context) error { return nil }

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
		"store", cfg.Store.Driver,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	m := metrics.New()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	if st.db != nil {
		logger.Info("database connected",
			"max_open_conns", cfg.Database.MaxOpenConns,
			"max_idle_conns", cfg.Database.MaxIdleConns,
		)
	}

	rdb, err := core.NewRedis(ctx, cfg.Redis)
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
	logger.Info("session signer initialized",
		"algorithm", "HS256",
		"expire", cfg.JWT.Expire.String(),
	)

	hub := realtime.NewHub(m, logger)
	bus := realtime.NewBus(rdb.Client, rdb.Key(cfg.Realtime.Channel), hub, logger)

	busCtx, stopBus := context.WithCancel(ctx)
	defer stopBus()
	go bus.Run(busCtx)

	userSvc := user.NewService(st.users)
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(jwtManager, userSvc, cfg.Auth)
	authHandler := auth.NewHandler(authSvc, auth.NewCookieSettings(cfg.Auth))

	communitySvc := community.NewService(st.posts, bus, cfg.Auth.DefaultAvatar)
	communityHandler := community.NewHandler(communitySvc)

	progressSvc := progress.NewService(
		st.progress(userSvc),
		progress.NewLeaderboardCache(
			rdb.Client,
			rdb.Key("leaderboard"),
			cfg.Progress.LeaderboardTTL,
			m,
		),
		cfg.Progress,
	)
	progressHandler := progress.NewHandler(progressSvc)

	healthHandler := health.NewHandler(
		st.readiness,
		health.Dependency{Name: "redis", Checker: rdb},
	)

	adminCfg := admin.HandlerConfig{
		Users:      userSvc,
		UserRoutes: userHandler.RegisterAdminRoutes,
		RedisStats: rdb.PoolStats,
		RedisPing:  rdb.Ping,
	}
	if st.db != nil {
		adminCfg.DBStats = st.db.Stats
		adminCfg.DBPing = st.db.Ping
	}
	adminHandler := admin.NewHandler(adminCfg)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
		OnShutdown:    hub.Close,
	})

	srv.Mount(server.API{
		Config:    cfg,
		Logger:    logger,
		Metrics:   m,
		Redis:     rdb.Client,
		Verifier:  jwtManager,
		Health:    healthHandler,
		Auth:      authHandler,
		Admin:     adminHandler,
		Community: communityHandler,
		Progress:  progressHandler,
		Realtime: realtime.NewHandler(hub, cfg.Realtime, func(origin string) bool {
			return middleware.OriginAllowed(cfg.CORS, origin)
		}),
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

	stopBus()
	hub.Close()

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := rdb.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if st.db != nil {
		if err := st.db.Close(); err != nil {
			logger.Error("database close error", "error", err)
		}
	}

	logger.Info("application stopped")
	return nil
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
