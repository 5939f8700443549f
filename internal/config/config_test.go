package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv wipes every variable Load reads so tests start from a clean slate.
func clearEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"RIOT_API_KEY", "RIOT_REGION", "GOOGLE_CREDENTIALS_FILE",
		"SPREADSHEET_NAME", "WORKSHEET_NAME", "TOURNAMENT_WORKSHEET_NAME",
		"PLAYER_RIOT_IDS", "TOURNAMENT_CODES", "GAME_DAY", "TARGET_DATES",
		"GAME_TIMEZONE_OFFSET", "CUSTOM_QUEUE_IDS", "API_DELAY",
		"MATCH_CACHE_PATH", "ARCHIVE_DIR", "DISCORD_WEBHOOK_URL",
	}
	for _, v := range vars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("RIOT_API_KEY", "RGAPI-test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Region != "americas" {
		t.Errorf("Expected default region 'americas', got: %s", cfg.Region)
	}
	if cfg.SpreadsheetName != "Tournament Stats" {
		t.Errorf("Expected default spreadsheet name, got: %s", cfg.SpreadsheetName)
	}
	if cfg.WorksheetName != "Sheet1" {
		t.Errorf("Expected default worksheet 'Sheet1', got: %s", cfg.WorksheetName)
	}
	if cfg.GameDay != time.Monday {
		t.Errorf("Expected default game day Monday, got: %v", cfg.GameDay)
	}
	if cfg.TimezoneOffset != -5 {
		t.Errorf("Expected default timezone offset -5, got: %d", cfg.TimezoneOffset)
	}
	if cfg.APIDelay != 1200*time.Millisecond {
		t.Errorf("Expected default delay 1.2s, got: %v", cfg.APIDelay)
	}
	if len(cfg.CustomQueueIDs) != 2 || cfg.CustomQueueIDs[0] != 0 || cfg.CustomQueueIDs[1] != 3130 {
		t.Errorf("Expected default queue IDs [0 3130], got: %v", cfg.CustomQueueIDs)
	}
}

func TestLoad_MissingAPIKey(t *testing.T) {
	clearEnv(t)

	if _, err := Load(); err == nil {
		t.Fatal("Expected error for missing RIOT_API_KEY")
	}
}

func TestLoad_PlaceholderAPIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("RIOT_API_KEY", "your-riot-api-key-here")

	if _, err := Load(); err == nil {
		t.Fatal("Expected placeholder API key to count as unset")
	}
}

func TestLoad_InvalidRegion(t *testing.T) {
	clearEnv(t)
	t.Setenv("RIOT_API_KEY", "RGAPI-test-key")
	t.Setenv("RIOT_REGION", "na1")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error for invalid region")
	}
}

func TestLoad_InvalidDate(t *testing.T) {
	clearEnv(t)
	t.Setenv("RIOT_API_KEY", "RGAPI-test-key")
	t.Setenv("TARGET_DATES", "01/19/2026")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error for non-ISO date")
	}
}

func TestLoad_ListsAndOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RIOT_API_KEY", "RGAPI-test-key")
	t.Setenv("PLAYER_RIOT_IDS", "Alice#NA1, Bob#NA1 ,")
	t.Setenv("GAME_DAY", "Friday")
	t.Setenv("API_DELAY", "100ms")
	t.Setenv("CUSTOM_QUEUE_IDS", "0, 3130, 2000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(cfg.PlayerRiotIDs) != 2 {
		t.Fatalf("Expected 2 player IDs, got: %v", cfg.PlayerRiotIDs)
	}
	if cfg.PlayerRiotIDs[1] != "Bob#NA1" {
		t.Errorf("Expected trimmed 'Bob#NA1', got: %q", cfg.PlayerRiotIDs[1])
	}
	if cfg.GameDay != time.Friday {
		t.Errorf("Expected Friday, got: %v", cfg.GameDay)
	}
	if cfg.APIDelay != 100*time.Millisecond {
		t.Errorf("Expected 100ms delay, got: %v", cfg.APIDelay)
	}
	if !cfg.QueueIDSet()[2000] {
		t.Error("Expected queue ID 2000 in allow set")
	}
}

func TestValidateTracker(t *testing.T) {
	clearEnv(t)
	t.Setenv("RIOT_API_KEY", "RGAPI-test-key")

	// Empty player list fails before anything else.
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if err := cfg.ValidateTracker(); err == nil {
		t.Fatal("Expected error for empty player list")
	}

	// With players but a missing credentials file it still fails.
	cfg.PlayerRiotIDs = []string{"Alice#NA1"}
	cfg.CredentialsFile = filepath.Join(t.TempDir(), "missing.json")
	if err := cfg.ValidateTracker(); err == nil {
		t.Fatal("Expected error for missing credentials file")
	}

	// Both present passes.
	credsPath := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(credsPath, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg.CredentialsFile = credsPath
	if err := cfg.ValidateTracker(); err != nil {
		t.Errorf("Expected validation to pass, got: %v", err)
	}
}

func TestValidateTournament(t *testing.T) {
	clearEnv(t)
	t.Setenv("RIOT_API_KEY", "RGAPI-test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if err := cfg.ValidateTournament(); err == nil {
		t.Fatal("Expected error for empty code list")
	}

	credsPath := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(credsPath, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg.TournamentCodes = []string{"NA1234-TOURN-CODE"}
	cfg.CredentialsFile = credsPath
	if err := cfg.ValidateTournament(); err != nil {
		t.Errorf("Expected validation to pass, got: %v", err)
	}
}
