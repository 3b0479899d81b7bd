package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is an account. ThreadID points at the profile comment thread created
// at signup. ActivityTime is when the user last viewed their activity feed;
// nil means never.
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Username     string     `json:"username" gorm:"uniqueIndex"`
	PasswordHash string     `json:"-"`
	Bio          string     `json:"bio" gorm:"type:text"`
	ThreadID     uint       `json:"thread_id" gorm:"index"`
	ActivityTime *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
}

type SignupRequest struct {
	Username string `json:"username" form:"username" validate:"required,min=3,max=30,alphanum"`
	Password string `json:"password" form:"password" validate:"required,min=8,max=128"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// SessionClaims are the JWT claims carried in the session cookie.
type SessionClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
