package models

import (
	"database/sql"

	"gorm.io/gorm"
)

// Subscription tracks one (user, account) pair. LastMessageID is the id of
// the live notification already delivered for this pair; invalid means no
// notification has been sent yet.
type Subscription struct {
	gorm.Model
	UserID        int64  `gorm:"uniqueIndex:idx_user_account"`
	AccountID     uint32 `gorm:"uniqueIndex:idx_user_account"`
	LastMessageID sql.NullInt64

	Notifier Notifier `gorm:"foreignKey:UserID;references:UserID"`
}

type Subscriptions []Subscription
