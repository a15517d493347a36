package domain

import "time"

const DefaultAvatarURL = "https://www.gravatar.com/avatar/"

// User is an account holder. PasswordHash is empty for OAuth-only accounts;
// such users are verified at provisioning time and never hold an OTP.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Name         string     `gorm:"size:255;not null" json:"name"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:128" json:"-"`
	Avatar       string     `gorm:"size:512" json:"avatar"`
	IsVerified   bool       `gorm:"not null;default:false" json:"is_verified"`
	OTPHash      string     `gorm:"size:128" json:"-"`
	OTPExpiresAt *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
