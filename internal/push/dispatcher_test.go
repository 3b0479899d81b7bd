package push_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/songperch/songperch/internal/models"
	"github.com/songperch/songperch/internal/push"
	"github.com/songperch/songperch/internal/repositories"
	"github.com/songperch/songperch/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeSender records deliveries and fails endpoints listed in failWith.
type fakeSender struct {
	mu       sync.Mutex
	sent     []uint
	failWith map[uint]error
}

func (f *fakeSender) Send(sub *models.PushSubscription, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failWith[sub.ID]; ok {
		return err
	}
	f.sent = append(f.sent, sub.ID)
	return nil
}

func (f *fakeSender) sentIDs() []uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint(nil), f.sent...)
}

func newDispatcherFixture(t *testing.T) (*repositories.PostgresPushSubscriptionRepository, *fakeSender, *push.Dispatcher) {
	t.Helper()
	repo := repositories.NewPostgresPushSubscriptionRepository(testutil.NewTestDB(t))
	sender := &fakeSender{failWith: map[uint]error{}}
	return repo, sender, push.NewDispatcher(repo, sender, zap.NewNop(), 4)
}

func subscribe(t *testing.T, repo *repositories.PostgresPushSubscriptionRepository, userID uint, settings models.NotifySettings) *models.PushSubscription {
	t.Helper()
	sub := &models.PushSubscription{
		UserID:   userID,
		Endpoint: `{"endpoint":"https://push.example/ep"}`,
		Settings: settings,
	}
	require.NoError(t, repo.CreateSubscription(sub))
	return sub
}

func TestNotifyFiltersOnRequiredBit(t *testing.T) {
	repo, sender, d := newDispatcherFixture(t)

	commentsOnly := subscribe(t, repo, 1, models.NotifyComments)
	songsOnly := subscribe(t, repo, 1, models.NotifySongs)
	both := subscribe(t, repo, 2, models.SettingsFrom(true, true))
	subscribe(t, repo, 3, 0)

	d.Notify([]uint{1, 2, 3}, "t", "b", "/", models.NotifyComments)
	d.Drain()

	sent := sender.sentIDs()
	assert.ElementsMatch(t, []uint{commentsOnly.ID, both.ID}, sent)
	assert.NotContains(t, sent, songsOnly.ID)
}

func TestNotifyDeliversToEverySubscriptionOfAUser(t *testing.T) {
	repo, sender, d := newDispatcherFixture(t)

	a := subscribe(t, repo, 1, models.NotifyComments)
	b := subscribe(t, repo, 1, models.NotifyComments)

	d.Notify([]uint{1}, "t", "b", "/", models.NotifyComments)
	d.Drain()

	assert.ElementsMatch(t, []uint{a.ID, b.ID}, sender.sentIDs())
}

func TestPermanentFailurePrunesSubscription(t *testing.T) {
	repo, sender, d := newDispatcherFixture(t)

	dead := subscribe(t, repo, 1, models.NotifyComments)
	alive := subscribe(t, repo, 1, models.NotifyComments)
	sender.failWith[dead.ID] = &push.EndpointGoneError{StatusCode: 410}

	d.Notify([]uint{1}, "t", "b", "/", models.NotifyComments)
	d.Drain()

	remaining, err := repo.GetSubscriptionsByUserID(1)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, alive.ID, remaining[0].ID)
}

func TestTransientFailureKeepsSubscription(t *testing.T) {
	repo, sender, d := newDispatcherFixture(t)

	flaky := subscribe(t, repo, 1, models.NotifyComments)
	sender.failWith[flaky.ID] = errors.New("push service returned 500")

	d.Notify([]uint{1}, "t", "b", "/", models.NotifyComments)
	d.Drain()

	remaining, err := repo.GetSubscriptionsByUserID(1)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestNotifyWithNoTargetsIsANoOp(t *testing.T) {
	_, sender, d := newDispatcherFixture(t)

	d.Notify(nil, "t", "b", "/", models.NotifyComments)
	d.Drain()

	assert.Empty(t, sender.sentIDs())
}
