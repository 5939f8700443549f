package riot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const (
	defaultTimeout = 30 * time.Second

	// Dev keys need ~1.2s between calls to stay under 100 req / 2 min.
	defaultDelay = 1200 * time.Millisecond

	// Status probe used for key validation lives on a platform host, not a
	// regional routing host.
	defaultPlatformBaseURL = "https://na1.api.riotgames.com"
	statusEndpoint         = "/lol/status/v4/platform-data"
)

// APIError is a non-2xx response from the Riot API. The body is kept so the
// caller can surface Riot's own explanation in skip reports.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API returned status %d: %s", e.StatusCode, e.Body)
}

// Client is a fixed-pace Riot API client. Every request, success or failure,
// is followed by the same sleep; there is no adaptive backoff and no retry.
// A failed call is the caller's problem to skip.
type Client struct {
	apiKey          string
	httpClient      *http.Client
	baseURL         string
	platformBaseURL string
	delay           time.Duration
	sleep           func(time.Duration)
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the regional base URL (useful for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithPlatformBaseURL overrides the platform host used by ValidateKey.
func WithPlatformBaseURL(url string) Option {
	return func(c *Client) {
		c.platformBaseURL = url
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithDelay sets the fixed inter-call delay.
func WithDelay(d time.Duration) Option {
	return func(c *Client) {
		c.delay = d
	}
}

// WithSleepFunc replaces the sleep function so tests run at full speed.
func WithSleepFunc(f func(time.Duration)) Option {
	return func(c *Client) {
		c.sleep = f
	}
}

// NewClient creates a Riot API client routed to the given region
// (americas, europe, asia or sea).
func NewClient(apiKey, region string, opts ...Option) *Client {
	c := &Client{
		apiKey:          apiKey,
		baseURL:         fmt.Sprintf("https://%s.api.riotgames.com", region),
		platformBaseURL: defaultPlatformBaseURL,
		delay:           defaultDelay,
		sleep:           time.Sleep,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// doRequest performs one GET and decodes the JSON response. The pacing sleep
// runs after every request regardless of outcome, so a burst of failures
// cannot exceed the rate ceiling either.
func (c *Client) doRequest(ctx context.Context, url string, result interface{}) error {
	body, err := c.doRequestRaw(ctx, url)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, result)
}

// doRequestRaw performs one GET and returns the raw response body.
func (c *Client) doRequestRaw(ctx context.Context, url string) ([]byte, error) {
	defer c.sleep(c.delay)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Riot-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	return body, nil
}

// GetAccountByRiotID resolves a Riot ID (gameName#tagLine) to an account.
func (c *Client) GetAccountByRiotID(ctx context.Context, gameName, tagLine string) (*Account, error) {
	u := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s",
		c.baseURL, url.PathEscape(gameName), url.PathEscape(tagLine))

	var account Account
	if err := c.doRequest(ctx, u, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetMatchIDs fetches one page of a player's match-history index, newest
// first. start is the page offset, count the page size (max 100).
func (c *Client) GetMatchIDs(ctx context.Context, puuid string, start, count int) ([]string, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?start=%d&count=%d",
		c.baseURL, url.PathEscape(puuid), start, count)

	var ids []string
	if err := c.doRequest(ctx, u, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// GetMatch fetches full match details.
func (c *Client) GetMatch(ctx context.Context, matchID string) (*Match, error) {
	body, err := c.GetMatchRaw(ctx, matchID)
	if err != nil {
		return nil, err
	}

	var match Match
	if err := json.Unmarshal(body, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

// GetMatchRaw fetches full match details as the unparsed response body, for
// callers that also archive or cache the original JSON.
func (c *Client) GetMatchRaw(ctx context.Context, matchID string) ([]byte, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.baseURL, url.PathEscape(matchID))
	return c.doRequestRaw(ctx, u)
}

// GetMatchIDsByTournamentCode returns the match IDs played under a
// tournament code. One call, no pagination: codes scope a handful of matches
// by construction.
func (c *Client) GetMatchIDsByTournamentCode(ctx context.Context, code string) ([]string, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/by-tournament-code/%s/ids",
		c.baseURL, url.PathEscape(code))

	var ids []string
	if err := c.doRequest(ctx, u, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// ValidateKey checks the API key with a lightweight status-endpoint probe.
// Returns:
//   - (true, nil) if the key is valid
//   - (false, nil) if the key is invalid (401/403)
//   - (false, error) if there was a network/server error (key validity unknown)
func (c *Client) ValidateKey(ctx context.Context) (bool, error) {
	if c.apiKey == "" {
		return false, fmt.Errorf("API key cannot be empty")
	}

	defer c.sleep(c.delay)

	req, err := http.NewRequestWithContext(ctx, "GET", c.platformBaseURL+statusEndpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Riot-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return false, nil
	default:
		return false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}
