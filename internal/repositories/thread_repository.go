package repositories

import (
	"github.com/songperch/songperch/internal/models"
	"gorm.io/gorm"
)

// ThreadRepository defines the interface for comment-thread handle operations
type ThreadRepository interface {
	CreateThread(kind models.ThreadKind, ownerID uint) (*models.Thread, error)
	GetThreadByID(id uint) (*models.Thread, error)
	DeleteThread(id uint) error
}

// PostgresThreadRepository implements ThreadRepository for PostgreSQL
type PostgresThreadRepository struct {
	db *gorm.DB
}

// NewPostgresThreadRepository creates a new PostgresThreadRepository
func NewPostgresThreadRepository(db *gorm.DB) *PostgresThreadRepository {
	return &PostgresThreadRepository{db: db}
}

// CreateThread allocates and persists a new thread handle
func (r *PostgresThreadRepository) CreateThread(kind models.ThreadKind, ownerID uint) (*models.Thread, error) {
	thread := &models.Thread{Kind: kind, OwnerID: ownerID}
	if err := r.db.Create(thread).Error; err != nil {
		return nil, err
	}
	return thread, nil
}

// GetThreadByID retrieves a thread by ID
func (r *PostgresThreadRepository) GetThreadByID(id uint) (*models.Thread, error) {
	var thread models.Thread
	if err := r.db.First(&thread, id).Error; err != nil {
		return nil, err
	}
	return &thread, nil
}

// DeleteThread deletes a thread row; comment/notification cascades are the
// caller's responsibility
func (r *PostgresThreadRepository) DeleteThread(id uint) error {
	return r.db.Delete(&models.Thread{}, id).Error
}
