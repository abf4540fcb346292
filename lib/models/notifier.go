package models

import "gorm.io/gorm"

const (
	PlatformTelegram = "telegram"
	PlatformEmail    = "email"
)

// Notifier routes a user's notifications to a delivery platform.
// PlatformIdentifier is the chat id for telegram, the address for email.
type Notifier struct {
	gorm.Model
	UserID             int64 `gorm:"uniqueIndex"`
	Platform           string
	PlatformIdentifier string
}
