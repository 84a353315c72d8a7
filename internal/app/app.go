package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/auth/jwt"
	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/db/memory"
	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/server"
	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server
}

// New bootstraps logger, storage, optional Redis cache and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Str("store", cfg.StoreDriver).Msg("starting application bootstrap")

	a := &Application{cfg: cfg, logger: logger}
	ready := make(map[string]server.PingFunc)

	var (
		questions  trivia.QuestionRepository
		categories trivia.CategoryRepository
	)
	switch cfg.StoreDriver {
	case config.DriverMemory:
		store := memory.NewStore(memory.DefaultCategories)
		questions, categories = store.Questions(), store.Categories()
		logger.Warn().Msg("using in-memory store; data is lost on restart")
	default:
		pool, err := pgxpool.New(ctx, cfg.Postgres.DSN())
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.pool = pool
		questions = repository.NewQuestionRepository(pool)
		categories = repository.NewCategoryRepository(pool)
		ready["postgres"] = pool.Ping
	}

	if cfg.Redis.Addr != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		categories = trivia.NewCategoryCache(categories, a.redis, cfg.Redis.CategoryCacheTTL, logger)
		ready["redis"] = func(ctx context.Context) error { return a.redis.Ping(ctx).Err() }
	} else {
		logger.Info().Msg("REDIS_ADDR not set; category cache disabled")
	}

	svc := trivia.NewService(questions, categories, trivia.ServiceOptions{
		WarnThreshold:     cfg.Trivia.QuizWarnThreshold,
		AllowEmptyResults: cfg.Trivia.AllowEmptyResults,
	}, logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := server.NewMetrics(reg)

	var editor *jwt.Manager
	if cfg.Security.EditorJWTSecret != "" {
		editor = jwt.NewManager(jwt.TokenConfig{
			Secret: []byte(cfg.Security.EditorJWTSecret),
			TTL:    cfg.Security.EditorTokenTTL,
			Issuer: cfg.Name,
		})
		logger.Info().Msg("editor guard enabled on mutating routes")
	} else {
		logger.Warn().Msg("EDITOR_JWT_SECRET not configured; question create/delete are open")
	}

	a.http = server.NewHTTPServer(cfg, logger, server.Deps{
		Handlers: server.NewHandlers(svc, metrics, logger),
		Metrics:  metrics,
		Gatherer: reg,
		Editor:   editor,
		Ready:    ready,
	})
	return a, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		a.close()
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}
	a.close()

	a.logger.Info().Msg("shutdown complete")
	return nil
}

func (a *Application) close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}
}

// Handler exposes the HTTP handler for in-process tests.
func (a *Application) Handler() http.Handler {
	return a.http.Handler
}
