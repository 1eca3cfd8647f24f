package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "github.com/DankerMu/Digital-earth-sub001/internal/infrastructure/http/v1"
	"github.com/DankerMu/Digital-earth-sub001/internal/infrastructure/http/v1/handler"
	"github.com/DankerMu/Digital-earth-sub001/internal/tilecache"
	"github.com/DankerMu/Digital-earth-sub001/internal/upstream"
	"github.com/DankerMu/Digital-earth-sub001/internal/usecase"
	"github.com/DankerMu/Digital-earth-sub001/pkg/config"
	"github.com/DankerMu/Digital-earth-sub001/pkg/logger"
	"github.com/DankerMu/Digital-earth-sub001/pkg/telemetry"
	"github.com/go-playground/validator/v10"
)

func Run(cfg *config.Config) {
	l := logger.NewZapLogger(cfg.Logger.Level)

	l.Info("starting tilecache service", "config", cfg)

	// Initialize OpenTelemetry if enabled
	if cfg.Telemetry.Enabled {
		shutdownTelemetry, err := telemetry.InitTracer(telemetry.Config{
			ServiceName:    cfg.Telemetry.ServiceName,
			ServiceVersion: cfg.Telemetry.ServiceVersion,
			Environment:    cfg.Telemetry.Environment,
			OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		}, l)
		if err != nil {
			l.Fatal("failed to initialize telemetry", "error", err)
		}
		defer func() {
			if err := shutdownTelemetry(context.Background()); err != nil {
				l.Error("failed to shutdown telemetry", "error", err)
			}
		}()
	}

	// Initialize the upstream tile provider
	provider := upstream.New(cfg.Upstream, l)

	// Initialize the cache service
	cacheService := tilecache.New(tilecache.Config{
		MaxFrames:             cfg.Cache.MaxFrames,
		MaxURLsPerFrame:       cfg.Cache.MaxURLsPerFrame,
		MaxPrefetchPerFrame:   cfg.Cache.MaxPrefetchPerFrame,
		MaxQueueSize:          cfg.Cache.MaxQueueSize,
		MaxConcurrentPrefetch: cfg.Cache.MaxConcurrentPrefetch,
		CooldownThreshold:     cfg.Cache.CooldownThreshold,
		CooldownWindow:        cfg.Cache.CooldownWindow,
	}, provider, l)
	defer cacheService.Close()

	// Initialize the use case
	tileUseCase := usecase.NewTileUseCase(cacheService, provider, l)

	// Initialize the HTTP handler
	validate := validator.New()
	h := handler.NewHandler(validate, tileUseCase)
	router := v1.NewRouter(h, l, cfg.Telemetry.Enabled)

	server := &http.Server{
		Addr:         ":" + cfg.HTTP.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.Server.ReadTimeout,
		WriteTimeout: cfg.HTTP.Server.WriteTimeout,
		IdleTimeout:  cfg.HTTP.Server.IdleTimeout,
	}

	go func() {
		l.Info("starting http server", "port", cfg.HTTP.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		l.Fatal("server forced to shutdown", "error", err)
	}

	l.Info("server stopped")
}
