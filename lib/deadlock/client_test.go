package deadlock

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(feedURL, assetsURL string) *Client {
	return &Client{
		log:           zap.NewNop(),
		transport:     http.DefaultTransport,
		feedBaseURL:   feedURL,
		assetsBaseURL: assetsURL,
		heroNames:     make(map[int64]string),
	}
}

func TestActiveMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/active-matches", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("account_id"))
		fmt.Fprint(w, `[{
			"match_id": 1000,
			"net_worth_team_0": 1000,
			"net_worth_team_1": 1500,
			"match_score": 2900,
			"players": [{"account_id": 7, "hero_id": 15}],
			"objectives_mask_team0": 3,
			"objectives_mask_team1": 0
		}]`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	snap, err := c.ActiveMatch(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, int64(1000), snap.MatchID)
	assert.Equal(t, uint16(3), snap.ObjectivesMaskTeam0)
	require.Len(t, snap.Players, 1)
	assert.Equal(t, int64(15), snap.Players[0].HeroID)
}

func TestActiveMatch_NoLiveMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	snap, err := c.ActiveMatch(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestActiveMatch_FeedUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	_, err := c.ActiveMatch(context.Background(), 7)
	assert.ErrorIs(t, err, ErrFeedUnavailable)
}

func TestHeroName_CachesLookups(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/v2/heroes/15", r.URL.Path)
		fmt.Fprint(w, `{"id": 15, "name": "Bebop"}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	ctx := context.Background()

	assert.Equal(t, "Bebop", c.HeroName(ctx, 15))
	assert.Equal(t, "Bebop", c.HeroName(ctx, 15))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestHeroNames_MissingNameRendersBlank(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	names := c.HeroNames(context.Background(), []int64{1, 2})
	assert.Equal(t, []string{"", ""}, names)
}
