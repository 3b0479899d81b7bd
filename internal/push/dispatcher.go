package push

import (
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/songperch/songperch/internal/models"
	"github.com/songperch/songperch/internal/repositories"
	"github.com/songperch/songperch/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Notifier is the producer-facing side of the delivery engine. Notify
// enqueues background delivery work and returns immediately; a slow push
// endpoint never delays the caller.
type Notifier interface {
	Notify(userIDs []uint, title, body, url string, required models.NotifySettings)
}

// payload is what gets encrypted and sent to each endpoint.
type payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// Dispatcher fans one notify call out across every target user's
// subscriptions, filtered by the required opt-in bit. Delivery is best
// effort, at-most-once: failures are logged and counted, and endpoints the
// push service reports permanently gone are pruned on the spot. Pruning runs
// against the repository directly, outside whatever transaction triggered the
// notification, since delivery happens after that transaction has committed.
type Dispatcher struct {
	subs   repositories.PushSubscriptionRepository
	sender Sender
	logger *zap.Logger
	limit  int
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. limit caps concurrent sends within one
// notify call.
func NewDispatcher(subs repositories.PushSubscriptionRepository, sender Sender, logger *zap.Logger, limit int) *Dispatcher {
	if limit <= 0 {
		limit = 8
	}
	return &Dispatcher{subs: subs, sender: sender, logger: logger, limit: limit}
}

// Notify spawns one background worker for this call. There is no ordering
// guarantee between concurrent Notify calls.
func (d *Dispatcher) Notify(userIDs []uint, title, body, url string, required models.NotifySettings) {
	if len(userIDs) == 0 {
		return
	}
	data, err := json.Marshal(payload{Title: title, Body: body, URL: url})
	if err != nil {
		d.logger.Error("failed to encode push payload", zap.Error(err))
		return
	}
	targets := make([]uint, len(userIDs))
	copy(targets, userIDs)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.deliver(targets, data, required)
	}()
}

// Drain blocks until every outstanding delivery worker has finished. Used on
// shutdown and by tests that assert on subscription state.
func (d *Dispatcher) Drain() {
	d.wg.Wait()
}

func (d *Dispatcher) deliver(userIDs []uint, data []byte, required models.NotifySettings) {
	var sent atomic.Int64

	g := new(errgroup.Group)
	g.SetLimit(d.limit)
	for _, userID := range userIDs {
		subs, err := d.subs.GetSubscriptionsByUserID(userID)
		if err != nil {
			d.logger.Error("failed to load push subscriptions",
				zap.Uint("user_id", userID), zap.Error(err))
			continue
		}
		for _, sub := range subs {
			if !sub.Settings.Has(required) {
				continue
			}
			sub := sub
			g.Go(func() error {
				if err := d.send(&sub, data); err == nil {
					sent.Add(1)
				}
				return nil
			})
		}
	}
	g.Wait()

	if n := sent.Load(); n > 0 {
		d.logger.Info("pushed notifications", zap.Int64("sent", n))
	}
}

func (d *Dispatcher) send(sub *models.PushSubscription, data []byte) error {
	err := d.sender.Send(sub, data)
	if err == nil {
		metrics.PushNotificationsSent.Inc()
		return nil
	}

	var gone *EndpointGoneError
	if errors.As(err, &gone) {
		// The endpoint will never accept messages again; stop paying for it.
		d.logger.Warn("deleting dead push subscription",
			zap.Uint("subscription_id", sub.ID),
			zap.Uint("user_id", sub.UserID),
			zap.Int("status", gone.StatusCode))
		if delErr := d.subs.DeleteSubscription(sub.ID); delErr != nil {
			d.logger.Error("failed to prune push subscription",
				zap.Uint("subscription_id", sub.ID), zap.Error(delErr))
		} else {
			metrics.PushSubscriptionsPruned.Inc()
		}
	} else {
		d.logger.Error("failed to send push",
			zap.Uint("subscription_id", sub.ID), zap.Error(err))
	}
	metrics.PushDeliveryFailures.Inc()
	return err
}
