package models

import "time"

// VerificationCode holds the single outstanding code for an email.
// The same table backs signup verification and password reset; a row
// lives until it is consumed or superseded, there is no expiry.
type VerificationCode struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"uniqueIndex;size:255;not null"`
	Code      string    `gorm:"size:6;not null"`
	CreatedAt time.Time
}
