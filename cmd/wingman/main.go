// Wingman Session Server
//
// HTTP server for the AI wingman conflict-resolution engine.
//
// Usage:
//
//	go run ./cmd/wingman                        # Default :8000, built-in config
//	go run ./cmd/wingman -addr :9000            # Custom port
//	go run ./cmd/wingman -config ./config       # Load YAML config directory
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/shivanandmn/wingman/httpapi"
	"github.com/shivanandmn/wingman/wingman/config"
	"github.com/shivanandmn/wingman/wingman/crew"
	"github.com/shivanandmn/wingman/wingman/llm"
	"github.com/shivanandmn/wingman/wingman/observability"
	"github.com/shivanandmn/wingman/wingman/session"
)

// zapLogger implements crew.Logger on a zap sugared logger.
type zapLogger struct {
	s *zap.SugaredLogger
}

func (l *zapLogger) Debug(msg string, keysAndValues ...any) { l.s.Debugw(msg, keysAndValues...) }
func (l *zapLogger) Info(msg string, keysAndValues ...any)  { l.s.Infow(msg, keysAndValues...) }
func (l *zapLogger) Warn(msg string, keysAndValues ...any)  { l.s.Warnw(msg, keysAndValues...) }
func (l *zapLogger) Error(msg string, keysAndValues ...any) { l.s.Errorw(msg, keysAndValues...) }
func (l *zapLogger) Bind(fields ...any) crew.Logger {
	return &zapLogger{s: l.s.With(fields...)}
}

func main() {
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	configDir := flag.String("config", "", "directory of YAML config files (built-in defaults when empty)")
	otlpEndpoint := flag.String("otlp", "", "OTLP gRPC endpoint for trace export (disabled when empty)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	zcfg := zap.NewProductionConfig()
	if *debug {
		zcfg = zap.NewDevelopmentConfig()
	}
	zl, err := zcfg.Build()
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer zl.Sync()
	logger := &zapLogger{s: zl.Sugar()}

	cfg := config.Default()
	if *configDir != "" {
		cfg, err = config.LoadDir(*configDir)
		if err != nil {
			logger.Error("config load failed", "dir", *configDir, "error", err)
			os.Exit(1)
		}
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.API.APIKey = key
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	if *otlpEndpoint != "" {
		shutdown, err := observability.InitTracer("wingman", *otlpEndpoint)
		if err != nil {
			logger.Error("tracer init failed", "error", err)
			os.Exit(1)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				logger.Warn("tracer shutdown", "error", err)
			}
		}()
	}

	provider, err := llm.NewClient(cfg.API)
	if err != nil {
		logger.Error("llm client init failed", "error", err)
		os.Exit(1)
	}

	engine, err := crew.NewSequentialEngine(provider, cfg.API, logger)
	if err != nil {
		logger.Error("engine init failed", "error", err)
		os.Exit(1)
	}

	manager, err := crew.NewManager(cfg, engine, logger)
	if err != nil {
		logger.Error("crew manager init failed", "error", err)
		os.Exit(1)
	}

	orchestrator, err := session.NewOrchestrator(manager, logger)
	if err != nil {
		logger.Error("orchestrator init failed", "error", err)
		os.Exit(1)
	}

	api := httpapi.NewServer(orchestrator, manager, logger)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("wingman server ready", "addr", cfg.Addr, "model", cfg.API.Model)
		errCh <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("wingman server stopped")
}
