// Command digest sends the periodic new-songs push digest. It is meant to be
// run once per day from a scheduler.
package main

import (
	"time"

	"github.com/songperch/songperch/internal/push"
	"github.com/songperch/songperch/internal/repositories"
	"github.com/songperch/songperch/internal/service"
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

	digest := service.NewDigestService(db, dispatcher, log, cfg.DigestLookback)
	if err := digest.Run(time.Now().UTC()); err != nil {
		log.Fatal("digest run failed", zap.Error(err))
	}

	dispatcher.Drain()
	log.Info("digest run complete")
}
