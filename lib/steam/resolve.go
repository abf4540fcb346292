package steam

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/carlmjohnson/requests"
	"golang.org/x/net/html"
)

// Offset between a SteamID64 and the account id used by the match feed.
const steamID64Base = 76561197960265728

var (
	ErrInvalidProfileURL = errors.New("not a steamcommunity profile URL")

	profilesPattern = regexp.MustCompile(`^https?://steamcommunity\.com/profiles/(\d+)/?$`)
	vanityPattern   = regexp.MustCompile(`^https?://steamcommunity\.com/id/([\w]+)/?$`)
	steamIDPattern  = regexp.MustCompile(`"steamid"\s*:\s*"(\d+)"`)
)

type Resolver struct {
	transport http.RoundTripper
}

func NewResolver(transport http.RoundTripper) *Resolver {
	return &Resolver{transport}
}

// ResolveAccountID turns a Steam profile URL into the account id tracked by
// the feed. /profiles/ URLs carry the SteamID64 directly; vanity /id/ URLs
// are resolved by fetching the profile page and reading the profile data
// blob embedded in its markup.
func (r *Resolver) ResolveAccountID(ctx context.Context, profileURL string) (uint32, error) {
	if m := profilesPattern.FindStringSubmatch(profileURL); m != nil {
		id64, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", ErrInvalidProfileURL, profileURL)
		}
		return accountID(id64)
	}

	if m := vanityPattern.FindStringSubmatch(profileURL); m != nil {
		return r.resolveVanity(ctx, profileURL)
	}

	return 0, fmt.Errorf("%w: %s", ErrInvalidProfileURL, profileURL)
}

func (r *Resolver) resolveVanity(ctx context.Context, profileURL string) (uint32, error) {
	var page string
	err := requests.URL(profileURL).
		Transport(r.transport).
		ToString(&page).
		Fetch(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch profile page: %w", err)
	}

	doc, err := htmlquery.Parse(strings.NewReader(page))
	if err != nil {
		return 0, fmt.Errorf("parse profile page: %w", err)
	}

	for _, script := range htmlquery.Find(doc, "//script") {
		if m := steamIDPattern.FindStringSubmatch(scriptText(script)); m != nil {
			id64, err := strconv.ParseUint(m[1], 10, 64)
			if err != nil {
				continue
			}
			return accountID(id64)
		}
	}
	return 0, fmt.Errorf("no steam id found on profile page %s", profileURL)
}

func accountID(steamID64 uint64) (uint32, error) {
	if steamID64 < steamID64Base {
		return 0, fmt.Errorf("steam id %d out of range", steamID64)
	}
	return uint32(steamID64 - steamID64Base), nil
}

func scriptText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}
