package models

import "time"

// AuthOTP is a one-time login code issued to a staff mobile number.
// A code is spent by setting consumed_at; expired and consumed rows are
// ignored by verification.
type AuthOTP struct {
	OTPID      int        `gorm:"primaryKey;column:otp_id" json:"-"`
	Mobile     string     `gorm:"column:mobile" json:"mobile"`
	Code       string     `gorm:"column:code" json:"-"`
	ExpiresAt  time.Time  `gorm:"column:expires_at" json:"expires_at"`
	ConsumedAt *time.Time `gorm:"column:consumed_at" json:"-"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"-"`
}

func (AuthOTP) TableName() string {
	return "auth_otps"
}
