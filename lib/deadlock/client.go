package deadlock

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/carlmjohnson/requests"
	"github.com/fiffu/matchwatch/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ErrFeedUnavailable marks transient feed failures (network or non-success
// status). The poller skips the entry for the tick and retries naturally on
// the next sweep.
var ErrFeedUnavailable = errors.New("match feed unavailable")

type Client struct {
	log       *zap.Logger
	transport http.RoundTripper

	feedBaseURL   string
	assetsBaseURL string

	mu        sync.RWMutex
	heroNames map[int64]string
}

func NewClient(lc fx.Lifecycle, log *zap.Logger, cfg *config.Config, transport http.RoundTripper) *Client {
	return &Client{
		log:           log,
		transport:     transport,
		feedBaseURL:   cfg.FeedBaseURL,
		assetsBaseURL: cfg.AssetsBaseURL,
		heroNames:     make(map[int64]string),
	}
}

// ActiveMatch fetches the current match for an account. A nil snapshot with
// a nil error means the account has no live match, which is a first-class
// outcome rather than a failure.
func (c *Client) ActiveMatch(ctx context.Context, accountID uint32) (*RawMatchSnapshot, error) {
	var matches []RawMatchSnapshot
	err := requests.URL(c.feedBaseURL).
		Path("/v1/active-matches").
		Param("account_id", strconv.FormatUint(uint64(accountID), 10)).
		Transport(c.transport).
		ToJSON(&matches).
		Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: account %d: %v", ErrFeedUnavailable, accountID, err)
	}

	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

// HeroName resolves a hero id to its display name via the assets API.
// Names are immutable metadata, so successful lookups are cached for the
// process lifetime. Failed lookups fall back to an empty name.
func (c *Client) HeroName(ctx context.Context, heroID int64) string {
	c.mu.RLock()
	name, ok := c.heroNames[heroID]
	c.mu.RUnlock()
	if ok {
		return name
	}

	var hero struct {
		Name string `json:"name"`
	}
	err := requests.URL(c.assetsBaseURL).
		Pathf("/v2/heroes/%d", heroID).
		Transport(c.transport).
		ToJSON(&hero).
		Fetch(ctx)
	if err != nil {
		c.log.Sugar().Warnw("Failed to look up hero name", "hero_id", heroID, "err", err)
		return ""
	}

	c.mu.Lock()
	c.heroNames[heroID] = hero.Name
	c.mu.Unlock()
	return hero.Name
}

// HeroNames resolves ids in order, keeping blanks for failed lookups so a
// report never fails to render over missing metadata.
func (c *Client) HeroNames(ctx context.Context, heroIDs []int64) []string {
	names := make([]string, len(heroIDs))
	for i, id := range heroIDs {
		names[i] = c.HeroName(ctx, id)
	}
	return names
}
