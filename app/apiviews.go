package app

import (
	"github.com/fiffu/matchwatch/lib/models"
)

type SubscriptionView struct {
	UserID        int64  `json:"user_id"`
	AccountID     uint32 `json:"account_id"`
	LastMessageID *int64 `json:"last_message_id"`
}

func (view SubscriptionView) From(entity *models.Subscription) SubscriptionView {
	v := SubscriptionView{
		UserID:    entity.UserID,
		AccountID: entity.AccountID,
	}
	if entity.LastMessageID.Valid {
		id := entity.LastMessageID.Int64
		v.LastMessageID = &id
	}
	return v
}
