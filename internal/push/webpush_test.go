package push_test

import (
	"testing"

	"github.com/songperch/songperch/internal/models"
	"github.com/songperch/songperch/internal/push"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWebPushSenderGeneratesKeysWhenUnconfigured(t *testing.T) {
	sender, err := push.NewWebPushSender("mailto:test@example.com", "", "", zap.NewNop())
	require.NoError(t, err)
	assert.NotEmpty(t, sender.VAPIDPublicKey())
}

func TestNewWebPushSenderKeepsConfiguredKey(t *testing.T) {
	sender, err := push.NewWebPushSender("mailto:test@example.com", "pub", "priv", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "pub", sender.VAPIDPublicKey())
}

func TestSendTreatsMalformedSubscriptionAsGone(t *testing.T) {
	sender, err := push.NewWebPushSender("mailto:test@example.com", "", "", zap.NewNop())
	require.NoError(t, err)

	for _, endpoint := range []string{"", "not json", "{}"} {
		err := sender.Send(&models.PushSubscription{Endpoint: endpoint}, []byte(`{}`))
		var gone *push.EndpointGoneError
		assert.ErrorAs(t, err, &gone, "endpoint %q", endpoint)
	}
}
