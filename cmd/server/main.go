package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/pittrivia/internal/board"
	"github.com/playperu/pittrivia/internal/config"
	"github.com/playperu/pittrivia/internal/database"
	"github.com/playperu/pittrivia/internal/game"
	"github.com/playperu/pittrivia/internal/handler/health"
	"github.com/playperu/pittrivia/internal/i18n"
	"github.com/playperu/pittrivia/internal/migrations"
	"github.com/playperu/pittrivia/internal/server"
	"github.com/playperu/pittrivia/internal/store"
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

	bundle, err := i18n.Load(cfg.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("loading translations: %w", err)
	}

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(ctx, db, logger); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	st := store.New(db)
	if cfg.SeedDefaults {
		if err := st.SeedDefaults(ctx, logger); err != nil {
			return err
		}
	}

	checks := map[string]health.Checker{
		"sqlite": database.Checker{DB: db},
	}
	var categories store.CategoryStore = st

	// --- Redis (optional category cache) ---
	if cfg.RedisURL != "" {
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		logger.Info("connected to redis")

		categories = store.NewCachedCategories(st, rdb, cfg.CategoryCacheTTL, logger)
		checks["redis"] = store.RedisChecker{Client: rdb}
	}

	// --- Games ---
	broker := server.NewBroker()
	games := game.NewManager(cfg.GameSettings(), game.Deps{
		Categories: categories,
		Sink:       st,
		Publisher:  broker,
		Bundle:     bundle,
		Logger:     logger,
		Rand:       board.DefaultSource(),
	})

	if cfg.AdminPasswordHash == "" {
		logger.Warn("ADMIN_PASSWORD_HASH not set, admin API disabled")
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Games:             games,
		Categories:        categories,
		Broker:            broker,
		Health:            health.NewHandler(logger, checks),
		AdminPasswordHash: cfg.AdminPasswordHash,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		err := srv.Shutdown(context.Background())
		logger.Info("abandoning live games", "count", games.Len())
		games.Shutdown()
		return err
	})

	return g.Wait()
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
