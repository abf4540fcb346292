package steam

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAccountID_ProfilesURL(t *testing.T) {
	r := NewResolver(http.DefaultTransport)

	tests := []struct {
		name string
		url  string
		want uint32
	}{
		{"plain", "https://steamcommunity.com/profiles/76561197960265728", 0},
		{"trailing slash", "https://steamcommunity.com/profiles/76561197960270000/", 4272},
		{"http scheme", "http://steamcommunity.com/profiles/76561199000000000", 1039734272},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ResolveAccountID(context.Background(), tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveAccountID_RejectsNonProfileURLs(t *testing.T) {
	r := NewResolver(http.DefaultTransport)

	for _, url := range []string{
		"",
		"not a url",
		"https://example.com/profiles/76561197960265728",
		"https://steamcommunity.com/app/1422450",
		"https://steamcommunity.com/profiles/notanumber",
	} {
		_, err := r.ResolveAccountID(context.Background(), url)
		assert.ErrorIs(t, err, ErrInvalidProfileURL, "url=%q", url)
	}
}

func TestResolveVanity(t *testing.T) {
	const steamID64 = 76561197960270000

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><head><title>profile</title></head><body>
			<script type="text/javascript">
				g_rgProfileData = {"url":"%s","steamid":"%d","personaname":"someone"};
			</script>
		</body></html>`, r.URL.String(), steamID64)
	}))
	defer srv.Close()

	r := NewResolver(http.DefaultTransport)
	got, err := r.resolveVanity(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, uint32(steamID64-steamID64Base), got)
}

func TestResolveVanity_PageWithoutSteamID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>No such profile</p></body></html>`)
	}))
	defer srv.Close()

	r := NewResolver(http.DefaultTransport)
	_, err := r.resolveVanity(context.Background(), srv.URL)
	assert.Error(t, err)
}
