package models

import "time"

// Jam is a recurring community event series owned by a user.
type Jam struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OwnerID     uint      `json:"owner_id" gorm:"index"`
	Title       string    `json:"title"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

// JamEvent is one occurrence within a jam. Events carry the comment thread;
// the jam itself does not.
type JamEvent struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	JamID       uint      `json:"jam_id" gorm:"index"`
	ThreadID    uint      `json:"thread_id" gorm:"index"`
	Title       string    `json:"title"`
	Description string    `json:"description" gorm:"type:text"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateJamRequest struct {
	Title       string `json:"title" form:"title" validate:"required,max=200"`
	Description string `json:"description" form:"description" validate:"max=10000"`
}

type CreateJamEventRequest struct {
	Title       string    `json:"title" form:"title" validate:"required,max=200"`
	Description string    `json:"description" form:"description" validate:"max=10000"`
	StartDate   time.Time `json:"start_date" form:"start_date"`
	EndDate     time.Time `json:"end_date" form:"end_date"`
}
