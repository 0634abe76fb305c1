package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/explain-my-mess/internal/application"
	appai "github.com/bryanwahyu/explain-my-mess/internal/application/ai"
	"github.com/bryanwahyu/explain-my-mess/internal/config"
	domai "github.com/bryanwahyu/explain-my-mess/internal/domain/ai"
	"github.com/bryanwahyu/explain-my-mess/internal/infra/ai/gemini"
	"github.com/bryanwahyu/explain-my-mess/internal/infra/ai/openai"
	"github.com/bryanwahyu/explain-my-mess/internal/infra/httpserver"
	"github.com/bryanwahyu/explain-my-mess/internal/logger"
	"github.com/bryanwahyu/explain-my-mess/internal/middleware"
)

type generator interface {
	domai.Generator
	Configured() bool
}

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err.Error())
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	log := logger.Init(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen, closeGen, err := newGenerator(ctx, cfg.Analysis)
	if err != nil {
		return err
	}
	defer closeGen()

	if !gen.Configured() {
		// the server still starts; calls fail until a key is provided
		log.Warn("model API key is not set", "provider", cfg.Analysis.Provider)
	}

	svc := appai.NewService(gen, appai.Options{
		Timeout: cfg.Analysis.Timeout,
		Clock:   application.SystemClock{},
	})

	var limiter *middleware.RateLimiter
	if rl := cfg.Server.RateLimit; rl.Capacity > 0 {
		limiter = middleware.NewRateLimiter(rl.Capacity, rl.RefillPerSecond)
		defer limiter.Close()
	}

	handler := httpserver.NewRouter(httpserver.Options{
		Analyzer:       svc,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimiter:    limiter,
		TrustProxy:     cfg.Server.TrustProxy,
		HealthCheckers: map[string]middleware.HealthChecker{
			"model": middleware.CredentialChecker{Configured: gen.Configured},
		},
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", srv.Addr, "provider", cfg.Analysis.Provider, "model", cfg.Analysis.Model)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newGenerator(ctx context.Context, cfg config.Analysis) (generator, func(), error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		c := openai.NewClient(openai.Options{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: cfg.BaseURL})
		return c, func() {}, nil
	default:
		c, err := gemini.New(ctx, gemini.Options{APIKey: cfg.APIKey, Model: cfg.Model})
		if err != nil {
			return nil, nil, err
		}
		return c, func() { _ = c.Close() }, nil
	}
}
