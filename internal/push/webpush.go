package push

import (
	"encoding/json"
	"fmt"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/songperch/songperch/internal/models"
	"go.uber.org/zap"
)

// EndpointGoneError signals that a push endpoint is permanently dead and its
// subscription should be pruned. Transient delivery errors are plain errors.
type EndpointGoneError struct {
	StatusCode int
}

func (e *EndpointGoneError) Error() string {
	if e.StatusCode == 0 {
		return "push subscription payload is not valid subscription JSON"
	}
	return fmt.Sprintf("push endpoint gone (status %d)", e.StatusCode)
}

// Sender delivers one encrypted payload to one subscription's endpoint.
type Sender interface {
	Send(sub *models.PushSubscription, payload []byte) error
}

// WebPushSender sends payloads over the Web Push protocol, encrypted with the
// subscription's keys and signed with the server's VAPID key pair.
type WebPushSender struct {
	subscriber      string
	vapidPublicKey  string
	vapidPrivateKey string
}

// NewWebPushSender creates a WebPushSender. When no VAPID key pair is
// provisioned an ephemeral one is generated so delivery still works in
// environments without configured keys; subscriptions made against the
// ephemeral key do not survive a restart.
func NewWebPushSender(subscriber, vapidPublicKey, vapidPrivateKey string, logger *zap.Logger) (*WebPushSender, error) {
	if vapidPrivateKey == "" {
		priv, pub, err := webpush.GenerateVAPIDKeys()
		if err != nil {
			return nil, fmt.Errorf("failed to generate ephemeral VAPID keys: %w", err)
		}
		logger.Warn("no VAPID keys configured, using ephemeral key pair")
		vapidPrivateKey, vapidPublicKey = priv, pub
	}
	return &WebPushSender{
		subscriber:      subscriber,
		vapidPublicKey:  vapidPublicKey,
		vapidPrivateKey: vapidPrivateKey,
	}, nil
}

// VAPIDPublicKey returns the public key clients need to subscribe.
func (s *WebPushSender) VAPIDPublicKey() string {
	return s.vapidPublicKey
}

// Send delivers one payload. A 404/410 from the push service means the
// endpoint is gone for good; other failures are reported as transient.
func (s *WebPushSender) Send(sub *models.PushSubscription, payload []byte) error {
	var wsub webpush.Subscription
	if err := json.Unmarshal([]byte(sub.Endpoint), &wsub); err != nil || wsub.Endpoint == "" {
		// A blob we cannot parse can never be delivered to.
		return &EndpointGoneError{}
	}

	resp, err := webpush.SendNotification(payload, &wsub, &webpush.Options{
		Subscriber:      s.subscriber,
		VAPIDPublicKey:  s.vapidPublicKey,
		VAPIDPrivateKey: s.vapidPrivateKey,
		TTL:             24 * 60 * 60,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return &EndpointGoneError{StatusCode: resp.StatusCode}
	case resp.StatusCode >= 400:
		return fmt.Errorf("push endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
