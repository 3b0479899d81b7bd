package repositories

import (
	"fmt"
	"time"

	"github.com/songperch/songperch/internal/models"
	"github.com/songperch/songperch/internal/threads"
	"gorm.io/gorm"
)

// SongRepository defines the interface for song data operations
type SongRepository interface {
	CreateSong(song *models.Song) error
	GetSongByID(id uint) (*models.Song, error)
	GetSongsByUserID(userID uint) ([]models.Song, error)
	GetSongsCreatedSince(since time.Time) ([]models.Song, error)
	DeleteSong(id uint) error
	ResolveThread(threadID uint) (*threads.DisplayInfo, error)
}

// PostgresSongRepository implements SongRepository for PostgreSQL
type PostgresSongRepository struct {
	db *gorm.DB
}

// NewPostgresSongRepository creates a new PostgresSongRepository
func NewPostgresSongRepository(db *gorm.DB) *PostgresSongRepository {
	return &PostgresSongRepository{db: db}
}

// CreateSong creates a new song
func (r *PostgresSongRepository) CreateSong(song *models.Song) error {
	return r.db.Create(song).Error
}

// GetSongByID retrieves a song by ID
func (r *PostgresSongRepository) GetSongByID(id uint) (*models.Song, error) {
	var song models.Song
	if err := r.db.First(&song, id).Error; err != nil {
		return nil, err
	}
	return &song, nil
}

// GetSongsByUserID retrieves a user's songs, newest first
func (r *PostgresSongRepository) GetSongsByUserID(userID uint) ([]models.Song, error) {
	var songs []models.Song
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&songs).Error
	return songs, err
}

// GetSongsCreatedSince retrieves songs created in the given window, oldest
// first. Used by the new-songs digest.
func (r *PostgresSongRepository) GetSongsCreatedSince(since time.Time) ([]models.Song, error) {
	var songs []models.Song
	err := r.db.Where("created_at > ?", since).Order("created_at ASC").Find(&songs).Error
	return songs, err
}

// DeleteSong deletes a song row; thread cascades are the caller's
// responsibility
func (r *PostgresSongRepository) DeleteSong(id uint) error {
	return r.db.Delete(&models.Song{}, id).Error
}

// ResolveThread maps a song thread back to the song and its uploader
func (r *PostgresSongRepository) ResolveThread(threadID uint) (*threads.DisplayInfo, error) {
	var row struct {
		ID       uint
		Title    string
		UserID   uint
		Username string
	}
	err := r.db.Table("songs").
		Select("songs.id, songs.title, songs.user_id, users.username").
		Joins("INNER JOIN users ON users.id = songs.user_id").
		Where("songs.thread_id = ?", threadID).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &threads.DisplayInfo{
		Kind:      models.ThreadKindSong,
		Title:     row.Title,
		OwnerID:   row.UserID,
		OwnerName: row.Username,
		URL:       fmt.Sprintf("/songs/%d", row.ID),
	}, nil
}
