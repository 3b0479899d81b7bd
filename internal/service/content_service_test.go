package service_test

import (
	"testing"
	"time"

	"github.com/songperch/songperch/internal/models"
	"github.com/songperch/songperch/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSongCreatesThread(t *testing.T) {
	f := newCommentFixture(t)
	alice := f.user(t, "alice")

	song := f.song(t, alice, "threaded")
	require.NotZero(t, song.ThreadID)

	var thread models.Thread
	require.NoError(t, f.db.First(&thread, song.ThreadID).Error)
	assert.Equal(t, models.ThreadKindSong, thread.Kind)
	assert.Equal(t, alice.ID, thread.OwnerID)
}

func TestDeleteSongCascadesThread(t *testing.T) {
	f := newCommentFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	song := f.song(t, alice, "short lived")

	_, err := f.comments.PostComment(song.ThreadID, bob.ID, "gone soon", nil)
	require.NoError(t, err)

	assert.ErrorIs(t, f.content.DeleteSong(song.ID, bob.ID), service.ErrForbidden)
	require.NoError(t, f.content.DeleteSong(song.ID, alice.ID))

	var threads, comments, notifications int64
	require.NoError(t, f.db.Model(&models.Thread{}).Where("id = ?", song.ThreadID).Count(&threads).Error)
	require.NoError(t, f.db.Model(&models.Comment{}).Where("thread_id = ?", song.ThreadID).Count(&comments).Error)
	require.NoError(t, f.db.Model(&models.Notification{}).Count(&notifications).Error)
	assert.Zero(t, threads)
	assert.Zero(t, comments)
	assert.Zero(t, notifications)

	_, err = f.content.GetSong(song.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestPlaylistLifecycle(t *testing.T) {
	f := newCommentFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	playlist, err := f.content.CreatePlaylist(alice.ID, models.CreatePlaylistRequest{Name: "mix"})
	require.NoError(t, err)
	require.NotZero(t, playlist.ThreadID)

	song := f.song(t, alice, "track")
	assert.ErrorIs(t, f.content.AddSongToPlaylist(playlist.ID, song.ID, bob.ID), service.ErrForbidden)
	require.NoError(t, f.content.AddSongToPlaylist(playlist.ID, song.ID, alice.ID))

	_, err = f.comments.PostComment(playlist.ThreadID, bob.ID, "great mix", nil)
	require.NoError(t, err)

	require.NoError(t, f.content.DeletePlaylist(playlist.ID, alice.ID))

	var comments int64
	require.NoError(t, f.db.Model(&models.Comment{}).Where("thread_id = ?", playlist.ThreadID).Count(&comments).Error)
	assert.Zero(t, comments)
}

func TestJamEventOwnership(t *testing.T) {
	f := newCommentFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	jam, err := f.content.CreateJam(alice.ID, models.CreateJamRequest{Title: "friday jam"})
	require.NoError(t, err)

	req := models.CreateJamEventRequest{
		Title:     "opening night",
		StartDate: time.Now().UTC(),
		EndDate:   time.Now().UTC().Add(2 * time.Hour),
	}
	_, err = f.content.CreateJamEvent(jam.ID, bob.ID, req)
	assert.ErrorIs(t, err, service.ErrForbidden)

	event, err := f.content.CreateJamEvent(jam.ID, alice.ID, req)
	require.NoError(t, err)
	require.NotZero(t, event.ThreadID)

	// The event's thread is owned by the jam owner.
	var thread models.Thread
	require.NoError(t, f.db.First(&thread, event.ThreadID).Error)
	assert.Equal(t, alice.ID, thread.OwnerID)
	assert.Equal(t, models.ThreadKindJamEvent, thread.Kind)

	assert.ErrorIs(t, f.content.DeleteJamEvent(event.ID, bob.ID), service.ErrForbidden)
	require.NoError(t, f.content.DeleteJamEvent(event.ID, alice.ID))
}
