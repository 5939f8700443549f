package discord

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const (
	// Colors for Discord embeds
	colorRed   = 15158332 // 0xE74C3C - for failed runs
	colorGreen = 5763719  // 0x57F287 - for successful runs

	// Default timeout for webhook requests
	defaultWebhookTimeout = 10 * time.Second

	// Max retries for rate limiting
	maxRetries = 3
)

// WebhookPayload represents a Discord webhook message
type WebhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

// Embed represents a Discord embed
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

// EmbedField represents a field in a Discord embed
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// EmbedFooter represents the footer of a Discord embed
type EmbedFooter struct {
	Text string `json:"text"`
}

// RunSummary carries the end-of-run counters posted to the channel.
type RunSummary struct {
	Scope       []string // window descriptions or tournament codes
	ScopeLabel  string   // "Windows" or "Codes"
	Qualifying  int
	WrongDate   int
	WrongType   int
	RowsWritten int
	Runtime     time.Duration
}

// NewRunSummaryPayload creates the green end-of-run summary embed.
func NewRunSummaryPayload(s RunSummary) WebhookPayload {
	scope := strings.Join(s.Scope, "\n")
	if scope == "" {
		scope = "none"
	}

	return WebhookPayload{
		Embeds: []Embed{
			{
				Title: "📊 Stats Run Complete",
				Color: colorGreen,
				Fields: []EmbedField{
					{
						Name:  s.ScopeLabel,
						Value: scope,
					},
					{
						Name:   "Qualifying Matches",
						Value:  strconv.Itoa(s.Qualifying),
						Inline: true,
					},
					{
						Name:   "Skipped (wrong date / wrong type)",
						Value:  fmt.Sprintf("%d / %d", s.WrongDate, s.WrongType),
						Inline: true,
					},
					{
						Name:   "Rows Written",
						Value:  formatNumber(s.RowsWritten),
						Inline: true,
					},
				},
				Footer: &EmbedFooter{
					Text: fmt.Sprintf("Runtime: %s", formatDuration(s.Runtime)),
				},
			},
		},
	}
}

// NewRunFailurePayload creates the red embed posted when a run dies.
func NewRunFailurePayload(stage string, runErr error) WebhookPayload {
	return WebhookPayload{
		Content: "@here Stats run failed!",
		Embeds: []Embed{
			{
				Title: "❌ Stats Run Failed",
				Color: colorRed,
				Fields: []EmbedField{
					{
						Name:   "Stage",
						Value:  stage,
						Inline: true,
					},
					{
						Name:  "Error",
						Value: runErr.Error(),
					},
				},
			},
		},
	}
}

// WebhookClient sends notifications to Discord webhooks
type WebhookClient struct {
	webhookURL string
	httpClient *http.Client
}

// NewWebhookClient creates a new WebhookClient
func NewWebhookClient(webhookURL string) *WebhookClient {
	return &WebhookClient{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: defaultWebhookTimeout,
		},
	}
}

// SendRunSummary posts the end-of-run summary.
func (c *WebhookClient) SendRunSummary(ctx context.Context, s RunSummary) error {
	return c.sendPayload(ctx, NewRunSummaryPayload(s))
}

// SendRunFailure posts a failure notice with the stage that died.
func (c *WebhookClient) SendRunFailure(ctx context.Context, stage string, runErr error) error {
	return c.sendPayload(ctx, NewRunFailurePayload(stage, runErr))
}

// sendPayload sends a webhook payload with retry on rate limiting. Discord
// is not the Riot API: its Retry-After is honored with a bounded retry loop.
func (c *WebhookClient) sendPayload(ctx context.Context, payload WebhookPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "POST", c.webhookURL, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		resp.Body.Close()

		// Success - Discord returns 204 No Content
		if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusOK {
			return nil
		}

		// Rate limited - wait and retry
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := resp.Header.Get("Retry-After")
			waitDuration := time.Second // Default wait
			if retryAfter != "" {
				if seconds, err := strconv.Atoi(retryAfter); err == nil {
					waitDuration = time.Duration(seconds) * time.Second
				}
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitDuration):
				continue
			}
		}

		// Other error
		return fmt.Errorf("webhook request failed with status %d", resp.StatusCode)
	}

	return fmt.Errorf("webhook request failed after %d retries", maxRetries)
}

// formatNumber formats a number with commas (e.g., 47832 -> "47,832")
func formatNumber(n int) string {
	if n < 1000 {
		return strconv.Itoa(n)
	}

	s := strconv.Itoa(n)
	var result bytes.Buffer
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result.WriteByte(',')
		}
		result.WriteRune(c)
	}
	return result.String()
}

// formatDuration formats a duration as "Xm Ys" or "Xh Ym"
func formatDuration(d time.Duration) string {
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}
