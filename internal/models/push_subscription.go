package models

import "time"

// NotifySettings is the per-subscription opt-in bitmask. Persisted as an
// integer; call sites use the flag constants rather than raw bits.
type NotifySettings int

const (
	// NotifyComments opts in to comment notifications.
	NotifyComments NotifySettings = 1 << 0
	// NotifySongs opts in to new-song digest notifications.
	NotifySongs NotifySettings = 1 << 1
)

// Has reports whether every bit in flag is set.
func (s NotifySettings) Has(flag NotifySettings) bool {
	return s&flag == flag
}

// SettingsFrom builds a bitmask from the settings-update payload.
func SettingsFrom(comments, songs bool) NotifySettings {
	var s NotifySettings
	if comments {
		s |= NotifyComments
	}
	if songs {
		s |= NotifySongs
	}
	return s
}

// PushSubscription is a client-registered web-push endpoint. Endpoint holds
// the opaque subscription JSON exactly as the browser produced it (URL plus
// p256dh/auth keys). Settings default to all-clear: delivery is opt-in.
// Subscriptions are deleted by the delivery engine when the push service
// reports the endpoint permanently gone.
type PushSubscription struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"index"`
	Endpoint  string         `json:"-" gorm:"type:text"`
	Settings  NotifySettings `json:"settings"`
	CreatedAt time.Time      `json:"created_at"`
}

// UpdateSettingsRequest is the payload for the push settings endpoint.
type UpdateSettingsRequest struct {
	SubscriptionID uint `json:"subscription_id" validate:"required"`
	Comments       bool `json:"comments"`
	Songs          bool `json:"songs"`
}
