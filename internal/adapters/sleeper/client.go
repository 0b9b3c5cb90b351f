// Package sleeper retrieves league roster data from the Sleeper platform
// API and shapes it into the core's RosterSnapshot input.
//
// The client is a boundary collaborator: it performs the only network I/O
// in the process, caches fetched documents under an explicit cache
// configuration fixed at startup, and never retries on behalf of the core.
package sleeper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fieldgeneral/dynasty/internal/domain/model"
	"github.com/fieldgeneral/dynasty/pkg/logger"
	"github.com/fieldgeneral/dynasty/pkg/metrics"
)

// Default client configuration constants.
const (
	defaultBaseURL     = "https://api.sleeper.app"
	defaultHTTPTimeout = 10 * time.Second
)

// CacheConfig controls document caching for fetched API responses. It is
// supplied once at construction and never mutated mid-run.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// Client fetches rosters and users for a league.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *docCache
	logger  logger.Logger
}

// New creates a Sleeper client. Caching is off unless configured.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// rosterDoc mirrors one entry of GET /v1/league/{id}/rosters.
type rosterDoc struct {
	OwnerID string   `json:"owner_id"`
	Players []string `json:"players"`
	Reserve []string `json:"reserve"`
}

// userDoc mirrors one entry of GET /v1/league/{id}/users.
type userDoc struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// Snapshot fetches the league's rosters and owners and builds an immutable
// RosterSnapshot. Active and reserve slots are combined and de-duplicated
// per owner. An empty API payload returns ErrLeagueUnavailable: an existing
// league always has rosters, so emptiness means the source is wrong or down.
func (c *Client) Snapshot(ctx context.Context, leagueID string) (*model.RosterSnapshot, error) {
	if leagueID == "" {
		return nil, fmt.Errorf("league id is empty: %w", ErrLeagueUnavailable)
	}

	var rosters []rosterDoc
	if err := c.fetch(ctx, fmt.Sprintf("%s/v1/league/%s/rosters", c.baseURL, leagueID), &rosters); err != nil {
		return nil, err
	}
	if len(rosters) == 0 {
		return nil, fmt.Errorf("league %s returned no rosters: %w", leagueID, ErrLeagueUnavailable)
	}

	var users []userDoc
	if err := c.fetch(ctx, fmt.Sprintf("%s/v1/league/%s/users", c.baseURL, leagueID), &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("league %s returned no users: %w", leagueID, ErrLeagueUnavailable)
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.UserID] = u.DisplayName
	}

	snap := &model.RosterSnapshot{LeagueID: leagueID}
	for _, r := range rosters {
		name, ok := names[r.OwnerID]
		if !ok {
			// Orphaned roster (owner left the league); nothing to attribute.
			continue
		}
		held := make([]model.PlayerID, 0, len(r.Players)+len(r.Reserve))
		seen := make(map[model.PlayerID]struct{}, len(r.Players)+len(r.Reserve))
		for _, raw := range append(r.Players, r.Reserve...) {
			id := model.NewPlayerID(raw)
			if id.IsZero() {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			held = append(held, id)
		}
		snap.Teams = append(snap.Teams, model.TeamRoster{
			OwnerID:         r.OwnerID,
			OwnerName:       name,
			HeldPlatformIDs: held,
		})
	}
	if len(snap.Teams) == 0 {
		return nil, fmt.Errorf("league %s has no rosters with known owners: %w", leagueID, ErrLeagueUnavailable)
	}
	return snap, nil
}

// fetch GETs url and decodes the JSON body into out, consulting the
// document cache first when one is configured.
func (c *Client) fetch(ctx context.Context, url string, out any) error {
	if body, ok := c.cacheGet(url); ok {
		c.log().Debug(ctx, "cache hit", logger.String("url", url))
		metrics.RecordSnapshotCacheHit()
		return json.Unmarshal(body, out)
	}
	metrics.RecordSnapshotFetch()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: status %d: %w", url, resp.StatusCode, ErrBadStatus)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", url, err)
	}
	c.cachePut(url, body)
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

func (c *Client) cacheGet(url string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	return c.cache.get(url)
}

func (c *Client) cachePut(url string, body []byte) {
	if c.cache != nil {
		c.cache.put(url, body)
	}
}

func (c *Client) log() logger.Logger {
	if c.logger == nil {
		c.logger = logger.Get().Named("sleeper")
	}
	return c.logger
}
