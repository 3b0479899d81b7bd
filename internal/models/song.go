package models

import "time"

// Song is an uploaded track's metadata. Each song owns one comment thread,
// created in the same transaction as the song row.
type Song struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"index"`
	ThreadID    uint      `json:"thread_id" gorm:"index"`
	Title       string    `json:"title"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

type CreateSongRequest struct {
	Title       string `json:"title" form:"title" validate:"required,max=80"`
	Description string `json:"description" form:"description" validate:"max=10000"`
}
