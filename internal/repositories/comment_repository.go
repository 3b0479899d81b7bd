package repositories

import (
	"github.com/songperch/songperch/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetCommentsByThreadID(threadID uint) ([]models.Comment, error)
	GetRepliesByCommentID(commentID uint) ([]models.Comment, error)
	GetCommentIDsByThreadID(threadID uint) ([]uint, error)
	GetReplyIDsByCommentID(commentID uint) ([]uint, error)
	UpdateCommentContent(id uint, content string) error
	DeleteCommentsByIDs(ids []uint) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment
func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// GetCommentByID retrieves a comment by ID
func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByThreadID retrieves all comments on a thread
func (r *PostgresCommentRepository) GetCommentsByThreadID(threadID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Where("thread_id = ?", threadID).Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// GetRepliesByCommentID retrieves the replies to a top-level comment
func (r *PostgresCommentRepository) GetRepliesByCommentID(commentID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Where("reply_to_id = ?", commentID).Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// GetCommentIDsByThreadID retrieves the IDs of every comment on a thread
func (r *PostgresCommentRepository) GetCommentIDsByThreadID(threadID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Comment{}).Where("thread_id = ?", threadID).Pluck("id", &ids).Error
	return ids, err
}

// GetReplyIDsByCommentID retrieves the IDs of the replies to a comment
func (r *PostgresCommentRepository) GetReplyIDsByCommentID(commentID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Comment{}).Where("reply_to_id = ?", commentID).Pluck("id", &ids).Error
	return ids, err
}

// UpdateCommentContent replaces a comment's content in place. The creation
// timestamp is deliberately untouched: edits do not bump ordering.
func (r *PostgresCommentRepository) UpdateCommentContent(id uint, content string) error {
	return r.db.Model(&models.Comment{}).Where("id = ?", id).Update("content", content).Error
}

// DeleteCommentsByIDs deletes the given comments
func (r *PostgresCommentRepository) DeleteCommentsByIDs(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Delete(&models.Comment{}, ids).Error
}
