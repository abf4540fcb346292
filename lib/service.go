package lib

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fiffu/matchwatch/config"
	"github.com/fiffu/matchwatch/lib/models"
	"github.com/fiffu/matchwatch/lib/poller"
	"github.com/fiffu/matchwatch/lib/steam"
	"github.com/fiffu/matchwatch/lib/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Service backs the user-facing request path. It only ever talks to the
// poll loop through the Subscription Store; the one shared piece is the
// per-entry pipeline, reused so a freshly linked account with a live match
// is announced immediately.
type Service struct {
	cfg      *config.Config
	log      *zap.Logger
	store    *store.Store
	resolver *steam.Resolver
	poller   *poller.Poller
}

func NewService(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, store *store.Store, resolver *steam.Resolver, poller *poller.Poller) *Service {
	return &Service{cfg, log, store, resolver, poller}
}

// LinkAccount subscribes userID to the account behind a Steam profile URL.
// Linking an already-linked account is a no-op that keeps delivered state.
func (svc *Service) LinkAccount(ctx context.Context, userID int64, profileURL, platform, identifier string) (*models.Subscription, poller.Outcome, error) {
	accountID, err := svc.resolver.ResolveAccountID(ctx, profileURL)
	if err != nil {
		return nil, "", err
	}

	if platform == "" {
		platform = models.PlatformTelegram
	}
	if identifier == "" {
		identifier = strconv.FormatInt(userID, 10)
	}
	if err := svc.store.EnsureNotifier(ctx, userID, platform, identifier); err != nil {
		return nil, "", err
	}

	sub, err := svc.store.Upsert(ctx, userID, accountID)
	if err != nil {
		return nil, "", err
	}

	notif, err := svc.store.NotifierFor(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if notif == nil {
		return nil, "", fmt.Errorf("no notifier registered for user %d", userID)
	}
	sub.Notifier = *notif

	outcome := svc.poller.Process(ctx, sub)
	svc.log.Sugar().Infow("Linked account",
		"user_id", userID, "account_id", accountID, "outcome", outcome)
	return sub, outcome, nil
}

func (svc *Service) UnlinkAccount(ctx context.Context, userID int64, accountID uint32) error {
	return svc.store.Delete(ctx, userID, accountID)
}

func (svc *Service) UnlinkAll(ctx context.Context, userID int64) (int64, error) {
	return svc.store.DeleteAllForUser(ctx, userID)
}

func (svc *Service) ListSubscriptions(ctx context.Context, userID int64) (models.Subscriptions, error) {
	return svc.store.ListForUser(ctx, userID)
}
