package repositories

import (
	"time"

	"github.com/songperch/songperch/internal/models"
	"github.com/songperch/songperch/internal/threads"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	UpdateUser(user *models.User) error
	UpdateActivityTime(id uint, t time.Time) error
	GetAllUserIDs() ([]uint, error)
	ResolveThread(threadID uint) (*threads.DisplayInfo, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user
func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// GetUserByID retrieves a user by ID
func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username
func (r *PostgresUserRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates an existing user
func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

// UpdateActivityTime records when the user last viewed their activity feed
func (r *PostgresUserRepository) UpdateActivityTime(id uint, t time.Time) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).
		Update("activity_time", t).Error
}

// GetAllUserIDs retrieves the IDs of every registered user
func (r *PostgresUserRepository) GetAllUserIDs() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.User{}).Pluck("id", &ids).Error
	return ids, err
}

// ResolveThread maps a profile thread back to its user
func (r *PostgresUserRepository) ResolveThread(threadID uint) (*threads.DisplayInfo, error) {
	var user models.User
	if err := r.db.Where("thread_id = ?", threadID).Take(&user).Error; err != nil {
		return nil, err
	}
	return &threads.DisplayInfo{
		Kind:      models.ThreadKindProfile,
		Title:     user.Username,
		OwnerID:   user.ID,
		OwnerName: user.Username,
		URL:       "/users/" + user.Username,
	}, nil
}
