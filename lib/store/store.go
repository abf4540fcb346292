package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/fiffu/matchwatch/lib/models"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the sole writer of subscription state. Every mutation is written
// through to the database before the call returns.
type Store struct {
	log *zap.Logger
	db  *gorm.DB
}

func NewStore(lc fx.Lifecycle, log *zap.Logger, db *gorm.DB) *Store {
	return &Store{log, db}
}

// Upsert inserts the (user, account) pair with no message id. Inserting a
// pair that already exists is a no-op and never resets LastMessageID.
func (s *Store) Upsert(ctx context.Context, userID int64, accountID uint32) (*models.Subscription, error) {
	sub := &models.Subscription{
		UserID:    userID,
		AccountID: accountID,
	}
	tx := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(sub)
	if err := tx.Error; err != nil {
		return nil, fmt.Errorf("upsert subscription: %w", err)
	}

	// On conflict, Create leaves the struct unfilled; read back the
	// existing row so callers always see the persisted state.
	if tx.RowsAffected == 0 {
		return s.find(ctx, userID, accountID)
	}
	return sub, nil
}

// SetMessageID records the live message id for the pair. Update only: a pair
// that no longer exists (deleted mid-sweep) is left alone.
func (s *Store) SetMessageID(ctx context.Context, userID int64, accountID uint32, messageID int64) error {
	tx := s.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("user_id = ? AND account_id = ?", userID, accountID).
		Update("last_message_id", messageID)
	if err := tx.Error; err != nil {
		return fmt.Errorf("set message id: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, userID int64, accountID uint32) error {
	tx := s.db.WithContext(ctx).
		Where("user_id = ? AND account_id = ?", userID, accountID).
		Unscoped().
		Delete(&models.Subscription{})
	if err := tx.Error; err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return nil
}

func (s *Store) DeleteAllForUser(ctx context.Context, userID int64) (int64, error) {
	tx := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Unscoped().
		Delete(&models.Subscription{})
	if err := tx.Error; err != nil {
		return 0, fmt.Errorf("delete subscriptions for user %d: %w", userID, err)
	}
	return tx.RowsAffected, nil
}

// ListAll returns the current subscriptions, ordered by (user, account).
// The result is a snapshot; writers are not blocked beyond the read itself.
func (s *Store) ListAll(ctx context.Context) (models.Subscriptions, error) {
	var subs models.Subscriptions
	tx := s.db.WithContext(ctx).
		InnerJoins("Notifier").
		Order("subscriptions.user_id, subscriptions.account_id").
		Find(&subs)
	if err := tx.Error; err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return subs, nil
}

func (s *Store) ListForUser(ctx context.Context, userID int64) (models.Subscriptions, error) {
	var subs models.Subscriptions
	tx := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("account_id").
		Find(&subs)
	if err := tx.Error; err != nil {
		return nil, fmt.Errorf("list subscriptions for user %d: %w", userID, err)
	}
	return subs, nil
}

func (s *Store) find(ctx context.Context, userID int64, accountID uint32) (*models.Subscription, error) {
	sub := &models.Subscription{}
	tx := s.db.WithContext(ctx).
		Where("user_id = ? AND account_id = ?", userID, accountID).
		First(sub)
	if err := tx.Error; err != nil {
		return nil, fmt.Errorf("find subscription: %w", err)
	}
	return sub, nil
}

// EnsureNotifier registers the delivery platform for a user if none exists.
func (s *Store) EnsureNotifier(ctx context.Context, userID int64, platform, identifier string) error {
	notif := &models.Notifier{
		UserID:             userID,
		Platform:           platform,
		PlatformIdentifier: identifier,
	}
	tx := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(notif)
	if err := tx.Error; err != nil {
		return fmt.Errorf("ensure notifier: %w", err)
	}
	return nil
}

func (s *Store) NotifierFor(ctx context.Context, userID int64) (*models.Notifier, error) {
	notif := &models.Notifier{}
	tx := s.db.WithContext(ctx).Where("user_id = ?", userID).First(notif)
	if err := tx.Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("find notifier: %w", err)
	}
	return notif, nil
}
