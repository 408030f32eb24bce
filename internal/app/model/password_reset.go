package model

import (
	"time"
)

type PasswordReset struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                    // password reset ID
	Email     string    `gorm:"size:255;not null;index" json:"email"`    // account email
	Token     string    `gorm:"size:255;not null;unique;index" json:"-"` // reset token (never exposed)
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`              // expiry time
	Used      bool      `gorm:"default:false" json:"used"`               // consumed flag
	CreatedAt time.Time `json:"created_at"`                              // creation time
}

func (PasswordReset) TableName() string {
	return "password_resets"
}
