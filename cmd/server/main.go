package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abylaikhan/upcheck/config"
	"github.com/abylaikhan/upcheck/internal/health"
	"github.com/abylaikhan/upcheck/internal/infrastructure/filestore"
	ctxlog "github.com/abylaikhan/upcheck/internal/log"
	"github.com/abylaikhan/upcheck/internal/metrics"
	"github.com/abylaikhan/upcheck/internal/notify"
	"github.com/abylaikhan/upcheck/internal/security"
	httptransport "github.com/abylaikhan/upcheck/internal/transport/http"
	"github.com/abylaikhan/upcheck/internal/transport/http/handler"
	"github.com/abylaikhan/upcheck/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	store, err := filestore.New(cfg.DataDir)
	if err != nil {
		stop()
		log.Fatalf("filestore: %v", err)
	}

	hasher := security.NewHasher(cfg.HashingSecret)
	notifier := notify.NewSender(cfg.Env, cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromPhone, logger)

	// Tokens
	tokenUsecase := usecase.NewTokenUsecase(store, hasher)
	tokenHandler := handler.NewTokenHandler(tokenUsecase, logger)

	// Users
	userUsecase := usecase.NewUserUsecase(store, hasher, tokenUsecase, notifier, logger)
	userHandler := handler.NewUserHandler(userUsecase, logger)

	// Checks
	checkUsecase := usecase.NewCheckUsecase(store, tokenUsecase, cfg.MaxChecks)
	checkHandler := handler.NewCheckHandler(checkUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(store, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, userHandler, tokenHandler, checkHandler),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
