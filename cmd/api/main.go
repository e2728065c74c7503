// Command api runs the interview-to-article HTTP service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/komi0929/pen-sub000/interfaces/http/rest"
	"github.com/komi0929/pen-sub000/internal/config"
	"github.com/komi0929/pen-sub000/internal/repository"
	"github.com/komi0929/pen-sub000/internal/repository/memory"
	"github.com/komi0929/pen-sub000/internal/repository/sqlite"
	"github.com/komi0929/pen-sub000/internal/service/article"
	"github.com/komi0929/pen-sub000/internal/service/interview"
	"github.com/komi0929/pen-sub000/internal/service/llm"
	"github.com/komi0929/pen-sub000/internal/service/prompt"
	"github.com/komi0929/pen-sub000/internal/service/theme"
	"github.com/komi0929/pen-sub000/internal/service/writer"
	"github.com/komi0929/pen-sub000/pkg/auth"
	"github.com/komi0929/pen-sub000/pkg/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	repo, cleanup, err := newRepository(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	prompts, err := newPromptStore(cfg, logger)
	if err != nil {
		return err
	}
	defer prompts.Close()

	provider, err := newProvider(context.Background(), cfg, logger)
	if err != nil {
		return err
	}

	metrics := observability.NewCollector("pen")
	engine := writer.NewEngine(provider, writer.RetryPolicy{
		MaxAttempts: cfg.RetryMaxAttempts,
		BaseDelay:   cfg.RetryBaseDelay,
	}, metrics, logger)

	articles := article.NewService(repo, engine, metrics, logger)
	conductor := interview.NewConductor(repo, engine, prompts, articles, logger)
	themes := theme.NewService(repo, logger)
	tokens := auth.NewService(cfg.JWTSecret, "pen", 24*time.Hour)

	router := rest.NewRouter(repo, engine, prompts, conductor, articles, themes,
		tokens, metrics, logger, cfg.CORSOrigins)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Addr))
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(ctx)
}

func newLogger(cfg *config.Config) *zap.Logger {
	var logger *zap.Logger
	var err error
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return logger
}

// newRepository picks sqlite when a path is configured, else the in-memory
// store.
func newRepository(cfg *config.Config, logger *zap.Logger) (repository.Repository, func(), error) {
	if cfg.DBPath == "" {
		logger.Info("using in-memory store")
		return memory.NewStore(), func() {}, nil
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("using sqlite store", zap.String("path", cfg.DBPath))
	return store, func() { store.Close() }, nil
}

// newPromptStore loads the registry file with hot reload when configured,
// else serves the built-in defaults.
func newPromptStore(cfg *config.Config, logger *zap.Logger) (*prompt.Store, error) {
	if cfg.PromptRegistryPath == "" {
		logger.Info("using built-in prompt registry")
		return prompt.NewStore(prompt.Default(), logger), nil
	}
	return prompt.NewFileStore(cfg.PromptRegistryPath, logger)
}

// newProvider picks the real generation backend when a credential is present.
// Without one the offline provider keeps the whole pipeline runnable.
func newProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (llm.Provider, error) {
	if cfg.GeminiAPIKey == "" {
		logger.Warn("no generation API key configured, using offline provider")
		return llm.NewOfflineProvider(), nil
	}

	provider, err := llm.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, err
	}
	logger.Info("using gemini provider", zap.String("model", cfg.GeminiModel))
	return provider, nil
}
