package service_test

import (
	"testing"
	"time"

	"github.com/songperch/songperch/internal/models"
	"github.com/songperch/songperch/internal/service"
	"github.com/songperch/songperch/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type digestFixture struct {
	db       *gorm.DB
	digest   *service.DigestService
	content  *service.ContentService
	users    *service.UserService
	notifier *fakeNotifier
}

func newDigestFixture(t *testing.T) *digestFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	log := zap.NewNop()
	notifier := &fakeNotifier{}
	return &digestFixture{
		db:       db,
		digest:   service.NewDigestService(db, notifier, log, 24*time.Hour),
		content:  service.NewContentService(db, log),
		users:    service.NewUserService(db, log),
		notifier: notifier,
	}
}

func (f *digestFixture) user(t *testing.T, name string) *models.User {
	t.Helper()
	user, err := f.users.Register(name, "password123")
	require.NoError(t, err)
	return user
}

func (f *digestFixture) song(t *testing.T, uploader *models.User, title string) *models.Song {
	t.Helper()
	song, err := f.content.CreateSong(uploader.ID, models.CreateSongRequest{Title: title})
	require.NoError(t, err)
	return song
}

func TestDigestSkipsEmptyWindow(t *testing.T) {
	f := newDigestFixture(t)
	f.user(t, "alice")

	require.NoError(t, f.digest.Run(time.Now().UTC()))
	assert.Empty(t, f.notifier.calls)
}

func TestDigestSingleUploaderExcludedFromAudience(t *testing.T) {
	f := newDigestFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	carol := f.user(t, "carol")
	f.song(t, alice, "only one")

	require.NoError(t, f.digest.Run(time.Now().UTC()))

	require.Len(t, f.notifier.calls, 1)
	call := f.notifier.calls[0]
	assert.Equal(t, "New song from alice", call.title)
	assert.Equal(t, "only one", call.body)
	assert.Equal(t, models.NotifySongs, call.required)
	assert.Equal(t, []uint{bob.ID, carol.ID}, call.targets)
}

func TestDigestMultipleUploadersIncludeEveryone(t *testing.T) {
	f := newDigestFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	f.song(t, alice, "one")
	f.song(t, bob, "two")

	require.NoError(t, f.digest.Run(time.Now().UTC()))

	require.Len(t, f.notifier.calls, 1)
	call := f.notifier.calls[0]
	assert.Equal(t, "New songs from alice, bob", call.title)
	assert.Equal(t, "one, two", call.body)
	assert.Equal(t, []uint{alice.ID, bob.ID}, call.targets)
}

func TestDigestIgnoresSongsOutsideWindow(t *testing.T) {
	f := newDigestFixture(t)
	alice := f.user(t, "alice")
	old := f.song(t, alice, "stale")
	require.NoError(t, f.db.Model(&models.Song{}).
		Where("id = ?", old.ID).
		Update("created_at", time.Now().UTC().Add(-48*time.Hour)).Error)

	require.NoError(t, f.digest.Run(time.Now().UTC()))
	assert.Empty(t, f.notifier.calls)
}

func TestDigestTitleListsUploadersOnce(t *testing.T) {
	f := newDigestFixture(t)
	alice := f.user(t, "alice")
	f.song(t, alice, "one")
	f.song(t, alice, "two")

	require.NoError(t, f.digest.Run(time.Now().UTC()))

	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, "New songs from alice", f.notifier.calls[0].title)
}
