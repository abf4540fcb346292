// Package poller drives the notification loop: at a fixed interval it
// snapshots the subscription table and, for each entry, fetches the tracked
// account's live match, runs the prediction pipeline and reconciles the
// user's notification. Each (user, account) pair holds at most one live
// message, edited in place across sweeps.
package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fiffu/matchwatch/config"
	"github.com/fiffu/matchwatch/lib/deadlock"
	"github.com/fiffu/matchwatch/lib/features"
	"github.com/fiffu/matchwatch/lib/models"
	"github.com/fiffu/matchwatch/lib/predict"
	"github.com/fiffu/matchwatch/lib/report"
	"github.com/fiffu/matchwatch/lib/store"
	"github.com/fiffu/matchwatch/senders"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// stopGracePeriod bounds how long Stop waits for in-flight entries.
const stopGracePeriod = 10 * time.Second

// Feed is the slice of the match feed the poller consumes.
type Feed interface {
	ActiveMatch(ctx context.Context, accountID uint32) (*deadlock.RawMatchSnapshot, error)
	HeroNames(ctx context.Context, heroIDs []int64) []string
}

type Poller struct {
	log       *zap.Logger
	store     *store.Store
	feed      Feed
	predictor predict.Predictor
	senders   senders.Registry

	interval    time.Duration
	concurrency int

	// ctx and cancel are created before the loop goroutine exists, so
	// Stop never races Start over them.
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller(
	lc fx.Lifecycle,
	log *zap.Logger,
	cfg *config.Config,
	store *store.Store,
	feed Feed,
	predictor predict.Predictor,
	senders senders.Registry,
) *Poller {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Poller{
		log:         log,
		store:       store,
		feed:        feed,
		predictor:   predictor,
		senders:     senders,
		interval:    cfg.PollInterval,
		concurrency: cfg.SweepWorkers,
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}

	if !cfg.PollerEnabled {
		log.Sugar().Info("Poller is disabled")
		return p
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go p.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Sugar().Info("Trying to stop poller")
			p.Stop()
			return nil
		},
	})

	return p
}

func (p *Poller) Start() {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.sweep(p.ctx)

	for {
		select {
		case <-p.ctx.Done():
			p.log.Sugar().Info("Poller stopped")
			return
		case <-ticker.C:
			p.sweep(p.ctx)
		}
	}
}

// Stop cancels the loop and returns once it has drained, or after the
// grace period if in-flight entries refuse to finish.
func (p *Poller) Stop() {
	p.cancel()

	select {
	case <-p.done:
	case <-time.After(stopGracePeriod):
		p.log.Sugar().Warn("Poller did not drain in-flight work before the grace period")
	}
}

// sweep runs one full pass over the current subscription snapshot. Entries
// are processed concurrently on a bounded pool; one entry's failure never
// blocks another's delivery.
func (p *Poller) sweep(ctx context.Context) {
	sweepID := uuid.NewString()[:8]
	started := time.Now().UTC()
	log := p.log.Sugar().With("sweep_id", sweepID)

	subs, err := p.store.ListAll(ctx)
	if err != nil {
		log.Errorw("Failed to list subscriptions", "err", err)
		return
	}

	metrics := &sweepMetrics{totalSelected: len(subs)}

	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i := range subs {
		sub := subs[i]
		g.Go(func() error {
			metrics.observe(p.Process(ctx, &sub))
			return nil
		})
	}
	g.Wait()

	// An empty snapshot is still a completed sweep; the counters must
	// never undercount idle periods.
	sweepsTotal.Inc()
	elapsed := time.Since(started)
	sweepSeconds.Observe(elapsed.Seconds())
	if len(subs) > 0 {
		log.Infow(
			fmt.Sprintf("Processed %d subscriptions", metrics.totalSelected),
			append(metrics.logArgs(), "elapsed_msecs", elapsed.Milliseconds())...,
		)
	}
}

// Process runs the pipeline for a single subscription and reports what
// happened. Also invoked directly when an account is first linked, so a
// live match is announced without waiting for the next sweep.
func (p *Poller) Process(ctx context.Context, sub *models.Subscription) Outcome {
	log := p.log.Sugar().With("user_id", sub.UserID, "account_id", sub.AccountID)

	snap, err := p.feed.ActiveMatch(ctx, sub.AccountID)
	if err != nil {
		// Transient. The entry is skipped this tick and retried by the
		// loop's natural cadence; the subscription is never removed.
		log.Warnw("Feed fetch failed", "err", err)
		return OutcomeFetchFailed
	}
	if snap == nil {
		// No live match. Leave any existing message untouched.
		return OutcomeNoActiveMatch
	}

	text, err := p.render(ctx, snap)
	if err != nil {
		switch {
		case errors.Is(err, features.ErrValidation):
			log.Errorw("Snapshot failed validation", "match_id", snap.MatchID, "err", err)
		case errors.Is(err, predict.ErrModelUnavailable):
			log.Errorw("Prediction unavailable", "err", err)
		default:
			log.Errorw("Failed to render notification", "err", err)
		}
		return OutcomeErrored
	}

	sender, ok := p.senders[sub.Notifier.Platform]
	if !ok {
		log.Errorw("Unsupported notifier platform", "platform", sub.Notifier.Platform)
		return OutcomeErrored
	}

	if sub.LastMessageID.Valid {
		// Same pair, live message exists: edit in place. The id is
		// reused, so there is nothing to write back to the store.
		if err := sender.Edit(ctx, sub.Notifier.PlatformIdentifier, sub.LastMessageID.Int64, text); err != nil {
			log.Warnw("Edit failed", "message_id", sub.LastMessageID.Int64, "err", err)
			return OutcomeErrored
		}
		return OutcomeEdited
	}

	messageID, err := sender.Send(ctx, sub.Notifier.PlatformIdentifier, text)
	if err != nil {
		// Message-id state stays absent so the next sweep retries the send.
		log.Warnw("Send failed", "err", err)
		return OutcomeErrored
	}
	if err := p.store.SetMessageID(ctx, sub.UserID, sub.AccountID, messageID); err != nil {
		// A lost write risks a duplicate send next sweep; surface loudly.
		log.Errorw("Failed to persist message id", "message_id", messageID, "err", err)
		return OutcomeErrored
	}
	return OutcomeSent
}

func (p *Poller) render(ctx context.Context, snap *deadlock.RawMatchSnapshot) (string, error) {
	vector, err := features.Decode(snap)
	if err != nil {
		return "", err
	}

	prediction, err := p.predictor.Predict(vector.Row())
	if err != nil {
		return "", err
	}

	return report.Render(report.Report{
		MatchID:       snap.MatchID,
		MatchScore:    snap.MatchScore,
		NetWorthTeam0: snap.NetWorthTeam0,
		NetWorthTeam1: snap.NetWorthTeam1,
		HeroNames0:    p.feed.HeroNames(ctx, vector.HeroIDsTeam0()),
		HeroNames1:    p.feed.HeroNames(ctx, vector.HeroIDsTeam1()),
		WinningTeam:   prediction.Winner(),
		WinProb:       prediction.Confidence(),
		UpdatedAt:     time.Now(),
	}), nil
}
