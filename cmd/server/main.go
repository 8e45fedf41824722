package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/blueye/globalsite/internal/config"
	"github.com/blueye/globalsite/internal/content"
	"github.com/blueye/globalsite/internal/database"
	"github.com/blueye/globalsite/internal/globe"
	"github.com/blueye/globalsite/internal/handler/globews"
	"github.com/blueye/globalsite/internal/handler/health"
	"github.com/blueye/globalsite/internal/i18n"
	"github.com/blueye/globalsite/internal/lifestyle"
	"github.com/blueye/globalsite/internal/migrations"
	"github.com/blueye/globalsite/internal/quiz"
	"github.com/blueye/globalsite/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(ctx, db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	admin := server.NewAdminDocStore(db)
	created, err := admin.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPasswordHash)
	if err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}
	if created {
		logger.Info("created admin account", "email", cfg.AdminEmail)
	}

	// --- Catalog and messages ---
	catalog, err := lifestyle.DefaultCatalog()
	if err != nil {
		return fmt.Errorf("loading lifestyle catalog: %w", err)
	}
	bundle, err := i18n.Load()
	if err != nil {
		return fmt.Errorf("loading messages: %w", err)
	}

	checks := map[string]health.Checker{
		"sqlite": dbChecker{db},
	}

	// --- Quiz sessions: Redis when configured, memory otherwise ---
	var sessions quiz.SessionStore
	if cfg.RedisURL != "" {
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		logger.Info("connected to redis")
		sessions = quiz.NewRedisStore(rdb)
		checks["redis"] = redisChecker{rdb}
	} else {
		logger.Info("keeping quiz sessions in memory")
		sessions = quiz.NewMemoryStore(time.Now)
	}

	quizSvc := quiz.NewService(catalog,
		lifestyle.NewRecommender(catalog, cfg.QuizRoundWeighting),
		sessions,
		quiz.Config{RoundHold: cfg.QuizRoundHold, SessionTTL: cfg.QuizSessionTTL},
		logger,
	)

	// --- HTTP Server ---
	deps := server.Deps{
		Admin:          admin,
		Content:        content.NewStore(db),
		Catalog:        catalog,
		Quiz:           quizSvc,
		I18n:           bundle,
		SPADir:         cfg.SPADir,
		CORSOrigins:    cfg.CORSOrigins,
		LoginRateLimit: cfg.LoginRateLimit,
	}
	srv := server.New(cfg.HTTPAddr, logger, deps, func(r chi.Router) {
		r.Mount("/healthz", health.NewHandler(logger, checks).Routes())
		r.Mount("/ws", globews.NewHandler(catalog, globews.Config{
			FrameInterval:  cfg.GlobeFrameInterval,
			Settle:         cfg.NavSettle,
			Camera:         globe.DefaultCameraConfig(),
			OriginPatterns: cfg.CORSOrigins,
		}, logger).Routes())
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		return purgeAdminSessions(gctx, logger, admin)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

// purgeAdminSessions drops expired admin sessions once an hour.
func purgeAdminSessions(ctx context.Context, logger *slog.Logger, admin *server.AdminDocStore) error {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := admin.PurgeExpiredSessions(ctx)
			if err != nil {
				logger.Warn("purging admin sessions failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("purged expired admin sessions", "count", n)
			}
		}
	}
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}

// dbChecker adapts *sql.DB to health.Checker.
type dbChecker struct{ db *sql.DB }

func (d dbChecker) Check(ctx context.Context) error { return d.db.PingContext(ctx) }

// redisChecker adapts *redis.Client to health.Checker.
type redisChecker struct{ client *redis.Client }

func (r redisChecker) Check(ctx context.Context) error { return r.client.Ping(ctx).Err() }
