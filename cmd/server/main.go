package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/songperch/songperch/internal/push"
	"github.com/songperch/songperch/internal/repositories"
	"github.com/songperch/songperch/internal/router"
	"github.com/songperch/songperch/pkg/config"
	"github.com/songperch/songperch/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	log := logger.NewLogger(cfg.Env)
	defer log.Sync()

	db, err := config.InitDB(cfg.PostgresURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer config.CloseDB(db)

	sender, err := push.NewWebPushSender(cfg.VAPIDSubscriber, cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, log)
	if err != nil {
		log.Fatal("failed to initialize web push sender", zap.Error(err))
	}
	dispatcher := push.NewDispatcher(
		repositories.NewPostgresPushSubscriptionRepository(db),
		sender,
		log,
		cfg.PushConcurrency,
	)

	e, err := router.New(db, dispatcher, sender.VAPIDPublicKey(), cfg, log)
	if err != nil {
		log.Fatal("failed to build router", zap.Error(err))
	}

	// Metrics get their own listener so they stay off the public port.
	metricsSrv := &http.Server{Addr: ":" + cfg.MetricsPort, Handler: promhttp.Handler()}
	go func() {
		log.Info("metrics server listening", zap.String("port", cfg.MetricsPort))
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server stopped", zap.Error(err))
		}
	}()

	go func() {
		log.Info("server listening", zap.String("port", cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	if err := metricsSrv.Shutdown(ctx); err != nil {
		log.Error("metrics server shutdown failed", zap.Error(err))
	}

	// Let in-flight push deliveries finish before the process exits.
	dispatcher.Drain()
	log.Info("shutdown complete")
}
