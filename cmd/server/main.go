package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	appinstruments "mt5bridge/internal/application/service/instruments"
	apprisk "mt5bridge/internal/application/service/risk"
	apptrading "mt5bridge/internal/application/service/trading"
	"mt5bridge/internal/config"
	"mt5bridge/internal/domain/interfaces"
	"mt5bridge/internal/infrastructure/terminal"
	infrahttp "mt5bridge/internal/interfaces/http"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	var api interfaces.Terminal
	switch cfg.Terminal.Mode {
	case "mock":
		logger.Warn("running against the mock terminal, no real orders will be sent")
		api = terminal.NewMock()
	default:
		logger.Fatalf("unknown terminal mode %q", cfg.Terminal.Mode)
	}

	session := terminal.NewSession(cfg.Terminal, api, logger)
	if err := session.Connect(ctx); err != nil {
		logger.Fatalf("failed to connect to terminal: %v", err)
	}
	defer session.Shutdown()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("redis unavailable, response cache disabled: %v", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	instrumentService := appinstruments.NewService(session, cfg.Trading.SymbolCacheTTL, logger)
	riskService := apprisk.NewService(session, instrumentService, cfg.Trading, logger)
	tradingService := apptrading.NewService(session, instrumentService, cfg.Trading, logger)

	cacheTTL := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	handler := infrahttp.NewHandler(session, instrumentService, riskService, tradingService, cfg.HTTP.AuthToken, redisClient, cacheTTL, logger)

	server := &http.Server{
		Addr:    cfg.HTTP.Addr(),
		Handler: handler,
	}

	go func() {
		logger.Infof("HTTP server listening on %s", cfg.HTTP.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown error: %v", err)
	}
	logger.Info("server stopped")
}
