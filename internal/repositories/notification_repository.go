package repositories

import (
	"errors"

	"github.com/songperch/songperch/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetByTargetUserID(userID uint) ([]models.Notification, error)
	GetLatestForUser(userID uint) (*models.Notification, error)
	DeleteByObjectIDs(kind models.ObjectKind, objectIDs []uint) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// GetByTargetUserID returns all notifications targeting a user, newest first.
func (r *postgresNotificationRepository) GetByTargetUserID(userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("target_user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error
	return notifications, err
}

// GetLatestForUser returns the most recent notification for a user, or nil if
// the user has none.
func (r *postgresNotificationRepository) GetLatestForUser(userID uint) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.Where("target_user_id = ?", userID).
		Order("created_at DESC").
		First(&notification).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

// DeleteByObjectIDs removes every notification pointing at the given objects.
func (r *postgresNotificationRepository) DeleteByObjectIDs(kind models.ObjectKind, objectIDs []uint) error {
	if len(objectIDs) == 0 {
		return nil
	}
	return r.db.Where("object_kind = ? AND object_id IN ?", kind, objectIDs).
		Delete(&models.Notification{}).Error
}
