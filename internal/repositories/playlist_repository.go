package repositories

import (
	"fmt"

	"github.com/songperch/songperch/internal/models"
	"github.com/songperch/songperch/internal/threads"
	"gorm.io/gorm"
)

// PlaylistRepository defines the interface for playlist data operations
type PlaylistRepository interface {
	CreatePlaylist(playlist *models.Playlist) error
	GetPlaylistByID(id uint) (*models.Playlist, error)
	GetPlaylistsByUserID(userID uint, includePrivate bool) ([]models.Playlist, error)
	AppendSong(playlistID, songID uint) error
	DeletePlaylist(id uint) error
	ResolveThread(threadID uint) (*threads.DisplayInfo, error)
}

// PostgresPlaylistRepository implements PlaylistRepository for PostgreSQL
type PostgresPlaylistRepository struct {
	db *gorm.DB
}

// NewPostgresPlaylistRepository creates a new PostgresPlaylistRepository
func NewPostgresPlaylistRepository(db *gorm.DB) *PostgresPlaylistRepository {
	return &PostgresPlaylistRepository{db: db}
}

// CreatePlaylist creates a new playlist
func (r *PostgresPlaylistRepository) CreatePlaylist(playlist *models.Playlist) error {
	return r.db.Create(playlist).Error
}

// GetPlaylistByID retrieves a playlist by ID
func (r *PostgresPlaylistRepository) GetPlaylistByID(id uint) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := r.db.First(&playlist, id).Error; err != nil {
		return nil, err
	}
	return &playlist, nil
}

// GetPlaylistsByUserID retrieves a user's playlists, most recently updated
// first
func (r *PostgresPlaylistRepository) GetPlaylistsByUserID(userID uint, includePrivate bool) ([]models.Playlist, error) {
	q := r.db.Where("user_id = ?", userID)
	if !includePrivate {
		q = q.Where("private = ?", false)
	}
	var playlists []models.Playlist
	err := q.Order("updated_at DESC").Find(&playlists).Error
	return playlists, err
}

// AppendSong adds a song at the end of a playlist
func (r *PostgresPlaylistRepository) AppendSong(playlistID, songID uint) error {
	var count int64
	if err := r.db.Model(&models.PlaylistSong{}).Where("playlist_id = ?", playlistID).Count(&count).Error; err != nil {
		return err
	}
	entry := &models.PlaylistSong{PlaylistID: playlistID, SongID: songID, Position: int(count)}
	return r.db.Create(entry).Error
}

// DeletePlaylist deletes a playlist and its song entries; thread cascades are
// the caller's responsibility
func (r *PostgresPlaylistRepository) DeletePlaylist(id uint) error {
	if err := r.db.Where("playlist_id = ?", id).Delete(&models.PlaylistSong{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Playlist{}, id).Error
}

// ResolveThread maps a playlist thread back to the playlist and its owner
func (r *PostgresPlaylistRepository) ResolveThread(threadID uint) (*threads.DisplayInfo, error) {
	var row struct {
		ID       uint
		Name     string
		UserID   uint
		Username string
	}
	err := r.db.Table("playlists").
		Select("playlists.id, playlists.name, playlists.user_id, users.username").
		Joins("INNER JOIN users ON users.id = playlists.user_id").
		Where("playlists.thread_id = ?", threadID).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &threads.DisplayInfo{
		Kind:      models.ThreadKindPlaylist,
		Title:     row.Name,
		OwnerID:   row.UserID,
		OwnerName: row.Username,
		URL:       fmt.Sprintf("/playlists/%d", row.ID),
	}, nil
}
