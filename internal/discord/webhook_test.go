package discord

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func sampleSummary() RunSummary {
	return RunSummary{
		Scope:       []string{"Monday 2026-01-19 12:00 PM → Tuesday 2026-01-20 05:00 AM"},
		ScopeLabel:  "Windows",
		Qualifying:  4,
		WrongDate:   2,
		WrongType:   31,
		RowsWritten: 40,
		Runtime:     3*time.Minute + 12*time.Second,
	}
}

// TestRunSummaryPayload_Format tests the green summary embed layout
func TestRunSummaryPayload_Format(t *testing.T) {
	payload := NewRunSummaryPayload(sampleSummary())

	// Summary is informational, no @here ping
	if payload.Content != "" {
		t.Errorf("Expected no content mention for summary, got: %s", payload.Content)
	}

	if len(payload.Embeds) != 1 {
		t.Fatalf("Expected 1 embed, got %d", len(payload.Embeds))
	}
	embed := payload.Embeds[0]

	if embed.Color != 5763719 {
		t.Errorf("Expected green color (5763719), got: %d", embed.Color)
	}
	if !strings.Contains(embed.Title, "Stats Run Complete") {
		t.Errorf("Expected summary title, got: %s", embed.Title)
	}

	if len(embed.Fields) != 4 {
		t.Fatalf("Expected 4 fields, got %d", len(embed.Fields))
	}
	if embed.Fields[0].Name != "Windows" {
		t.Errorf("Expected scope label 'Windows', got: %s", embed.Fields[0].Name)
	}
	if embed.Fields[1].Value != "4" {
		t.Errorf("Expected 4 qualifying matches, got: %s", embed.Fields[1].Value)
	}
	if embed.Fields[2].Value != "2 / 31" {
		t.Errorf("Expected '2 / 31' skip counts, got: %s", embed.Fields[2].Value)
	}
	if embed.Fields[3].Value != "40" {
		t.Errorf("Expected 40 rows written, got: %s", embed.Fields[3].Value)
	}
	if !strings.Contains(embed.Footer.Text, "3m 12s") {
		t.Errorf("Expected runtime in footer, got: %s", embed.Footer.Text)
	}
}

func TestRunSummaryPayload_EmptyScope(t *testing.T) {
	s := sampleSummary()
	s.Scope = nil

	payload := NewRunSummaryPayload(s)
	if payload.Embeds[0].Fields[0].Value != "none" {
		t.Errorf("Expected 'none' for empty scope, got: %s", payload.Embeds[0].Fields[0].Value)
	}
}

// TestRunFailurePayload_Format tests the red failure embed
func TestRunFailurePayload_Format(t *testing.T) {
	payload := NewRunFailurePayload("sheet write", errors.New("spreadsheet 'Tournament Stats' not found"))

	if !strings.Contains(payload.Content, "@here") {
		t.Error("Expected @here mention for failures")
	}

	embed := payload.Embeds[0]
	if embed.Color != 15158332 {
		t.Errorf("Expected red color (15158332), got: %d", embed.Color)
	}
	if embed.Fields[0].Value != "sheet write" {
		t.Errorf("Expected stage field, got: %s", embed.Fields[0].Value)
	}
	if !strings.Contains(embed.Fields[1].Value, "not found") {
		t.Errorf("Expected error message in field, got: %s", embed.Fields[1].Value)
	}
}

// TestWebhookClient_SendRunSummary tests the HTTP call for the summary
func TestWebhookClient_SendRunSummary(t *testing.T) {
	var receivedBody []byte
	var receivedContentType string
	var receivedMethod string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedMethod = r.Method
		receivedContentType = r.Header.Get("Content-Type")
		receivedBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent) // Discord returns 204 on success
	}))
	defer server.Close()

	client := NewWebhookClient(server.URL)

	if err := client.SendRunSummary(context.Background(), sampleSummary()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if receivedMethod != "POST" {
		t.Errorf("Expected POST method, got: %s", receivedMethod)
	}
	if receivedContentType != "application/json" {
		t.Errorf("Expected application/json content type, got: %s", receivedContentType)
	}

	var payload WebhookPayload
	if err := json.Unmarshal(receivedBody, &payload); err != nil {
		t.Fatalf("Failed to parse sent payload: %v", err)
	}
	if len(payload.Embeds) == 0 {
		t.Error("Expected embeds in payload")
	}
}

// TestWebhookClient_WebhookError tests handling of webhook errors
func TestWebhookClient_WebhookError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": "Invalid webhook"}`))
	}))
	defer server.Close()

	client := NewWebhookClient(server.URL)

	if err := client.SendRunSummary(context.Background(), sampleSummary()); err == nil {
		t.Error("Expected error for bad request")
	}
}

// TestWebhookClient_RateLimited tests handling of Discord rate limiting
func TestWebhookClient_RateLimited(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewWebhookClient(server.URL)

	err := client.SendRunFailure(context.Background(), "discovery", errors.New("boom"))

	// Should succeed after retry
	if err != nil {
		t.Errorf("Expected success after retry, got: %v", err)
	}
	if attempts != 2 {
		t.Errorf("Expected 2 attempts (1 retry), got: %d", attempts)
	}
}

// TestWebhookClient_ContextCancelled tests handling of cancelled context
func TestWebhookClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(1 * time.Second)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewWebhookClient(server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	if err := client.SendRunSummary(ctx, sampleSummary()); err == nil {
		t.Error("Expected context cancelled error")
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{47832, "47,832"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.n); got != tt.want {
			t.Errorf("formatNumber(%d): expected %s, got: %s", tt.n, tt.want, got)
		}
	}
}
