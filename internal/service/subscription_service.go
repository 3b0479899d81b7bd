package service

import (
	"encoding/json"

	"github.com/songperch/songperch/internal/models"
	"github.com/songperch/songperch/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubscriptionService manages the push subscription registry. Subscriptions
// start with every notification category disabled; the client opts in per
// category afterwards.
type SubscriptionService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSubscriptionService(db *gorm.DB, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{db: db, logger: logger}
}

// Subscribe stores a browser push subscription for the user. The endpoint
// blob is kept opaque beyond checking it is a JSON object with an endpoint
// URL. Re-registering an endpoint the user already holds replaces the old
// row, dropping its settings.
func (s *SubscriptionService) Subscribe(userID uint, endpoint []byte) (*models.PushSubscription, error) {
	var probe struct {
		Endpoint string `json:"endpoint"`
	}
	if err := json.Unmarshal(endpoint, &probe); err != nil || probe.Endpoint == "" {
		return nil, ErrBadRequest
	}

	var sub *models.PushSubscription
	err := s.db.Transaction(func(tx *gorm.DB) error {
		subRepo := repositories.NewPostgresPushSubscriptionRepository(tx)

		existing, err := subRepo.GetSubscriptionsByUserID(userID)
		if err != nil {
			return err
		}
		for _, old := range existing {
			if old.Endpoint == string(endpoint) {
				if err := subRepo.DeleteSubscription(old.ID); err != nil {
					return err
				}
			}
		}

		sub = &models.PushSubscription{
			UserID:   userID,
			Endpoint: string(endpoint),
			Settings: 0,
		}
		return subRepo.CreateSubscription(sub)
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// UpdateSettings sets which notification categories a subscription receives.
// Only the subscription's owner may change them.
func (s *SubscriptionService) UpdateSettings(subscriptionID, ownerID uint, comments, songs bool) error {
	subRepo := repositories.NewPostgresPushSubscriptionRepository(s.db)
	sub, err := subRepo.GetSubscriptionByID(subscriptionID)
	if err != nil {
		return notFoundIfMissing(err)
	}
	if sub.UserID != ownerID {
		return ErrForbidden
	}
	return subRepo.UpdateSettings(subscriptionID, models.SettingsFrom(comments, songs))
}

// SubscriptionsFor lists a user's registered subscriptions.
func (s *SubscriptionService) SubscriptionsFor(userID uint) ([]models.PushSubscription, error) {
	return repositories.NewPostgresPushSubscriptionRepository(s.db).GetSubscriptionsByUserID(userID)
}

// Revoke removes a subscription. Revoking an already-removed subscription is
// a no-op; the delivery engine prunes concurrently.
func (s *SubscriptionService) Revoke(subscriptionID uint) error {
	return repositories.NewPostgresPushSubscriptionRepository(s.db).DeleteSubscription(subscriptionID)
}
