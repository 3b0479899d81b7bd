package models

import "time"

// ObjectKind tags what a notification points at. Comments are the only kind
// today; the tag keeps the table extensible without a schema change.
type ObjectKind int

const (
	ObjectKindComment ObjectKind = iota
)

// Notification is the durable record behind the activity feed. One row is
// written per (comment, target user) pair at comment-creation time, inside the
// same transaction as the comment itself. Rows are never mutated and are
// deleted en masse when their referenced comment is deleted.
type Notification struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	ObjectID     uint       `json:"object_id" gorm:"index"`
	ObjectKind   ObjectKind `json:"object_kind" gorm:"index"`
	TargetUserID uint       `json:"target_user_id" gorm:"index"`
	CreatedAt    time.Time  `json:"created_at" gorm:"index"`
}
