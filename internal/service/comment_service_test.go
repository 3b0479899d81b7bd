package service_test

import (
	"sort"
	"testing"
	"time"

	"github.com/songperch/songperch/internal/models"
	"github.com/songperch/songperch/internal/router"
	"github.com/songperch/songperch/internal/service"
	"github.com/songperch/songperch/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type notifyCall struct {
	targets  []uint
	title    string
	body     string
	url      string
	required models.NotifySettings
}

// fakeNotifier records Notify calls instead of delivering anything.
type fakeNotifier struct {
	calls []notifyCall
}

func (f *fakeNotifier) Notify(userIDs []uint, title, body, url string, required models.NotifySettings) {
	targets := append([]uint(nil), userIDs...)
	sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
	f.calls = append(f.calls, notifyCall{targets: targets, title: title, body: body, url: url, required: required})
}

type commentFixture struct {
	db       *gorm.DB
	comments *service.CommentService
	content  *service.ContentService
	users    *service.UserService
	notifier *fakeNotifier
}

func newCommentFixture(t *testing.T) *commentFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	notifier := &fakeNotifier{}
	log := zap.NewNop()
	return &commentFixture{
		db:       db,
		comments: service.NewCommentService(db, router.NewRegistry(db), notifier, log),
		content:  service.NewContentService(db, log),
		users:    service.NewUserService(db, log),
		notifier: notifier,
	}
}

func (f *commentFixture) user(t *testing.T, name string) *models.User {
	t.Helper()
	user, err := f.users.Register(name, "password123")
	require.NoError(t, err)
	return user
}

func (f *commentFixture) song(t *testing.T, uploader *models.User, title string) *models.Song {
	t.Helper()
	song, err := f.content.CreateSong(uploader.ID, models.CreateSongRequest{Title: title})
	require.NoError(t, err)
	return song
}

func (f *commentFixture) notificationTargets(t *testing.T, commentID uint) []uint {
	t.Helper()
	var notifications []models.Notification
	require.NoError(t, f.db.Where("object_id = ?", commentID).Find(&notifications).Error)
	targets := make([]uint, 0, len(notifications))
	for _, n := range notifications {
		targets = append(targets, n.TargetUserID)
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
	return targets
}

func TestPostCommentNotifiesThreadOwner(t *testing.T) {
	f := newCommentFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	song := f.song(t, alice, "first track")

	comment, err := f.comments.PostComment(song.ThreadID, bob.ID, "love this", nil)
	require.NoError(t, err)

	assert.Equal(t, []uint{alice.ID}, f.notificationTargets(t, comment.ID))

	require.Len(t, f.notifier.calls, 1)
	call := f.notifier.calls[0]
	assert.Equal(t, []uint{alice.ID}, call.targets)
	assert.Contains(t, call.title, "bob")
	assert.Contains(t, call.title, "first track")
	assert.Equal(t, models.NotifyComments, call.required)
}

func TestPostCommentOnOwnThreadNotifiesNobody(t *testing.T) {
	f := newCommentFixture(t)
	alice := f.user(t, "alice")
	song := f.song(t, alice, "solo")

	comment, err := f.comments.PostComment(song.ThreadID, alice.ID, "my own song", nil)
	require.NoError(t, err)

	assert.Empty(t, f.notificationTargets(t, comment.ID))
	assert.Empty(t, f.notifier.calls)
}

func TestPostCommentUnknownThread(t *testing.T) {
	f := newCommentFixture(t)
	alice := f.user(t, "alice")

	_, err := f.comments.PostComment(9999, alice.ID, "into the void", nil)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestReplyNotifiesSubThreadParticipants(t *testing.T) {
	f := newCommentFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	carol := f.user(t, "carol")
	song := f.song(t, alice, "collab")

	top, err := f.comments.PostComment(song.ThreadID, bob.ID, "nice groove", nil)
	require.NoError(t, err)

	// Carol joins the sub-thread: owner and Bob are notified, not Carol.
	reply, err := f.comments.PostComment(song.ThreadID, carol.ID, "agreed", &top.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{alice.ID, bob.ID}, f.notificationTargets(t, reply.ID))

	// Alice replies in her own thread: Bob and Carol are notified, not Alice.
	ownerReply, err := f.comments.PostComment(song.ThreadID, alice.ID, "thanks both", &top.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{bob.ID, carol.ID}, f.notificationTargets(t, ownerReply.ID))
}

func TestReplyToReplyAttachesToTopLevelAncestor(t *testing.T) {
	f := newCommentFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	song := f.song(t, alice, "deep")

	top, err := f.comments.PostComment(song.ThreadID, bob.ID, "top", nil)
	require.NoError(t, err)
	reply, err := f.comments.PostComment(song.ThreadID, alice.ID, "reply", &top.ID)
	require.NoError(t, err)

	nested, err := f.comments.PostComment(song.ThreadID, bob.ID, "nested", &reply.ID)
	require.NoError(t, err)
	require.NotNil(t, nested.ReplyToID)
	assert.Equal(t, top.ID, *nested.ReplyToID)
}

func TestReplyTargetMustBeOnSameThread(t *testing.T) {
	f := newCommentFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	songA := f.song(t, alice, "a")
	songB := f.song(t, alice, "b")

	top, err := f.comments.PostComment(songA.ThreadID, bob.ID, "on a", nil)
	require.NoError(t, err)

	_, err = f.comments.PostComment(songB.ThreadID, bob.ID, "cross-thread", &top.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestEditComment(t *testing.T) {
	f := newCommentFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	song := f.song(t, alice, "editable")

	comment, err := f.comments.PostComment(song.ThreadID, bob.ID, "original", nil)
	require.NoError(t, err)
	notificationsBefore := len(f.notifier.calls)

	assert.ErrorIs(t, f.comments.EditComment(comment.ID, alice.ID, "hijacked"), service.ErrForbidden)

	require.NoError(t, f.comments.EditComment(comment.ID, bob.ID, "revised"))

	var stored models.Comment
	require.NoError(t, f.db.First(&stored, comment.ID).Error)
	assert.Equal(t, "revised", stored.Content)
	assert.WithinDuration(t, comment.CreatedAt, stored.CreatedAt, time.Second)
	assert.Len(t, f.notifier.calls, notificationsBefore)
}

func TestDeleteCommentCascadesRepliesAndNotifications(t *testing.T) {
	f := newCommentFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	carol := f.user(t, "carol")
	song := f.song(t, alice, "doomed")

	top, err := f.comments.PostComment(song.ThreadID, bob.ID, "top", nil)
	require.NoError(t, err)
	_, err = f.comments.PostComment(song.ThreadID, carol.ID, "reply one", &top.ID)
	require.NoError(t, err)
	_, err = f.comments.PostComment(song.ThreadID, alice.ID, "reply two", &top.ID)
	require.NoError(t, err)

	// A bystander cannot delete.
	assert.ErrorIs(t, f.comments.DeleteComment(top.ID, carol.ID), service.ErrForbidden)

	// The thread owner can delete someone else's comment.
	require.NoError(t, f.comments.DeleteComment(top.ID, alice.ID))

	var commentCount, notificationCount int64
	require.NoError(t, f.db.Model(&models.Comment{}).Where("thread_id = ?", song.ThreadID).Count(&commentCount).Error)
	require.NoError(t, f.db.Model(&models.Notification{}).Count(&notificationCount).Error)
	assert.Zero(t, commentCount)
	assert.Zero(t, notificationCount)
}

func TestDeleteReplyLeavesSiblings(t *testing.T) {
	f := newCommentFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	song := f.song(t, alice, "partial")

	top, err := f.comments.PostComment(song.ThreadID, bob.ID, "top", nil)
	require.NoError(t, err)
	reply, err := f.comments.PostComment(song.ThreadID, alice.ID, "reply", &top.ID)
	require.NoError(t, err)

	require.NoError(t, f.comments.DeleteComment(reply.ID, alice.ID))

	var remaining int64
	require.NoError(t, f.db.Model(&models.Comment{}).Where("thread_id = ?", song.ThreadID).Count(&remaining).Error)
	assert.EqualValues(t, 1, remaining)

	// The notification for the surviving top-level comment stays.
	assert.Equal(t, []uint{alice.ID}, f.notificationTargets(t, top.ID))
}

func TestListForThreadOrderingAndSanitization(t *testing.T) {
	f := newCommentFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	song := f.song(t, alice, "ordered")

	first, err := f.comments.PostComment(song.ThreadID, bob.ID, "first", nil)
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := f.comments.PostComment(song.ThreadID, alice.ID, `<script>alert(1)</script>second`, nil)
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	replyOld, err := f.comments.PostComment(song.ThreadID, alice.ID, "older reply", &first.ID)
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	replyNew, err := f.comments.PostComment(song.ThreadID, bob.ID, "newer reply", &first.ID)
	require.NoError(t, err)

	nodes, err := f.comments.ListForThread(song.ThreadID)
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	// Top-level comments newest-first.
	assert.Equal(t, second.ID, nodes[0].ID)
	assert.Equal(t, first.ID, nodes[1].ID)
	assert.Equal(t, "alice", nodes[0].AuthorName)

	// Script tags are stripped at render time.
	assert.NotContains(t, nodes[0].Content, "<script>")
	assert.Contains(t, nodes[0].Content, "second")

	// Replies oldest-first under their parent.
	require.Len(t, nodes[1].Replies, 2)
	assert.Equal(t, replyOld.ID, nodes[1].Replies[0].ID)
	assert.Equal(t, replyNew.ID, nodes[1].Replies[1].ID)
}

func TestListForThreadUnknownThread(t *testing.T) {
	f := newCommentFixture(t)
	_, err := f.comments.ListForThread(424242)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
