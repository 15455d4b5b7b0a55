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
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/varsilias/portfolio-relay/internal/api"
	"github.com/varsilias/portfolio-relay/internal/buildinfo"
	"github.com/varsilias/portfolio-relay/internal/chat"
	"github.com/varsilias/portfolio-relay/internal/config"
	"github.com/varsilias/portfolio-relay/internal/contact"
	"github.com/varsilias/portfolio-relay/internal/gemini"
	"github.com/varsilias/portfolio-relay/internal/groq"
	"github.com/varsilias/portfolio-relay/internal/logging"
	"github.com/varsilias/portfolio-relay/internal/middleware"
	"github.com/varsilias/portfolio-relay/internal/profile"
	"github.com/varsilias/portfolio-relay/internal/prompt"
	"github.com/varsilias/portfolio-relay/internal/ui"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogJSON, os.Stderr)
	logger.Info("build", "version", buildinfo.Version, "commit", buildinfo.Commit, "built_at", buildinfo.BuiltAt)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	p, err := profile.Load(cfg.ProfilePath)
	if err != nil {
		return err
	}
	systemPrompt, err := prompt.Render(cfg.PromptTemplatePath, p)
	if err != nil {
		return err
	}

	if !cfg.HasCredential() {
		logger.Warn("no completion API key configured; /api/chat will answer 500 until GROQ_API_KEY is set")
	}

	engine, closeEngine := newEngine(cfg, logger)
	defer closeEngine()

	relay := chat.NewRelay(logger, chat.NewTracingEngine(engine), chat.Options{
		APIKey:       cfg.CompletionAPIKey,
		Model:        cfg.CompletionModel,
		SystemPrompt: systemPrompt,
	})
	contactRelay := contact.NewRelay(cfg.FormRelayURL, logger, nil)

	h, err := api.NewHandlers(logger, relay, contactRelay, p)
	if err != nil {
		return err
	}
	uih, err := ui.New(logger, p)
	if err != nil {
		return fmt.Errorf("ui init: %w", err)
	}

	limits := api.Limits{
		Chat:    middleware.NewRateLimiter(logger, cfg.ChatRateLimit, time.Minute),
		Contact: middleware.NewRateLimiter(logger, cfg.ContactRateLimit, time.Minute),
	}

	mux := chi.NewRouter()
	mux.Use(chimiddleware.RealIP)
	mux.Use(middleware.RequestID())
	mux.Use(middleware.AccessLog(logger))
	mux.Use(middleware.Recoverer(logger))
	mux.Use(middleware.VersionHeader())
	mux.Use(middleware.CORS(cfg.CORSOrigin))

	ui.RegisterRoutes(mux, uih)
	api.RegisterRoutes(mux, h, limits)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Addr),
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		// Completions can take a while; leave room for the upstream call.
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server is listening", "port", cfg.Addr, "provider", cfg.CompletionProvider, "model", cfg.CompletionModel)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				n := limits.Chat.Sweep() + limits.Contact.Sweep()
				if n > 0 {
					logger.Debug("rate limiter sweep", "evicted", n)
				}
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// newEngine picks the completion backend. The returned func releases it.
func newEngine(cfg *config.Config, logger *slog.Logger) (chat.Engine, func()) {
	switch cfg.CompletionProvider {
	case config.ProviderGemini:
		gc := gemini.NewClient(cfg.CompletionAPIKey, logger)
		return chat.NewGeminiEngine(gc), func() {
			if err := gc.Close(); err != nil {
				logger.Warn("gemini close", "err", err)
			}
		}
	default:
		gc := groq.NewClient(cfg.CompletionAPIKey, cfg.CompletionBaseURL, logger)
		return chat.NewGroqEngine(gc), func() {}
	}
}
