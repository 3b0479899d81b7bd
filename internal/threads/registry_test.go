package threads_test

import (
	"errors"
	"testing"

	"github.com/songperch/songperch/internal/models"
	"github.com/songperch/songperch/internal/threads"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	info *threads.DisplayInfo
	err  error
}

func (s *stubResolver) ResolveThread(threadID uint) (*threads.DisplayInfo, error) {
	return s.info, s.err
}

func TestRegistryResolvesRegisteredKind(t *testing.T) {
	registry := threads.NewRegistry()
	registry.Register(models.ThreadKindSong, &stubResolver{
		info: &threads.DisplayInfo{Kind: models.ThreadKindSong, Title: "tune", URL: "/songs/1"},
	})

	info, err := registry.Resolve(models.ThreadKindSong, 1)
	require.NoError(t, err)
	assert.Equal(t, "tune", info.Title)
}

func TestRegistryRejectsUnknownKind(t *testing.T) {
	registry := threads.NewRegistry()

	_, err := registry.Resolve(models.ThreadKindPlaylist, 1)
	assert.Error(t, err)
}

func TestRegistryPropagatesResolverError(t *testing.T) {
	registry := threads.NewRegistry()
	boom := errors.New("boom")
	registry.Register(models.ThreadKindProfile, &stubResolver{err: boom})

	_, err := registry.Resolve(models.ThreadKindProfile, 1)
	assert.ErrorIs(t, err, boom)
}
