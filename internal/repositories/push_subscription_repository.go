package repositories

import (
	"github.com/songperch/songperch/internal/models"
	"gorm.io/gorm"
)

// PushSubscriptionRepository defines the interface for push subscription
// operations
type PushSubscriptionRepository interface {
	CreateSubscription(sub *models.PushSubscription) error
	GetSubscriptionByID(id uint) (*models.PushSubscription, error)
	GetSubscriptionsByUserID(userID uint) ([]models.PushSubscription, error)
	UpdateSettings(id uint, settings models.NotifySettings) error
	DeleteSubscription(id uint) error
}

// PostgresPushSubscriptionRepository implements PushSubscriptionRepository
// for PostgreSQL
type PostgresPushSubscriptionRepository struct {
	db *gorm.DB
}

// NewPostgresPushSubscriptionRepository creates a new
// PostgresPushSubscriptionRepository
func NewPostgresPushSubscriptionRepository(db *gorm.DB) *PostgresPushSubscriptionRepository {
	return &PostgresPushSubscriptionRepository{db: db}
}

// CreateSubscription registers a new push endpoint
func (r *PostgresPushSubscriptionRepository) CreateSubscription(sub *models.PushSubscription) error {
	return r.db.Create(sub).Error
}

// GetSubscriptionByID retrieves a subscription by ID
func (r *PostgresPushSubscriptionRepository) GetSubscriptionByID(id uint) (*models.PushSubscription, error) {
	var sub models.PushSubscription
	if err := r.db.First(&sub, id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetSubscriptionsByUserID retrieves all subscriptions registered by a user
func (r *PostgresPushSubscriptionRepository) GetSubscriptionsByUserID(userID uint) ([]models.PushSubscription, error) {
	var subs []models.PushSubscription
	if err := r.db.Where("user_id = ?", userID).Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// UpdateSettings replaces a subscription's opt-in bitmask
func (r *PostgresPushSubscriptionRepository) UpdateSettings(id uint, settings models.NotifySettings) error {
	return r.db.Model(&models.PushSubscription{}).Where("id = ?", id).
		Update("settings", settings).Error
}

// DeleteSubscription removes a subscription. Deleting an unknown ID is a
// no-op so the delivery engine can prune concurrently without coordination.
func (r *PostgresPushSubscriptionRepository) DeleteSubscription(id uint) error {
	return r.db.Delete(&models.PushSubscription{}, id).Error
}
