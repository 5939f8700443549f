package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// placeholderAPIKey is the value shipped in .env.example; treating it as unset
// catches the "copied the example but never filled it in" case before any
// network call.
const placeholderAPIKey = "your-riot-api-key-here"

// validRegions are the regional routing values accepted by the match API.
var validRegions = map[string]bool{
	"americas": true,
	"europe":   true,
	"asia":     true,
	"sea":      true,
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Config holds the full runtime configuration for all binaries. It is built
// once in main and passed by value into components; nothing mutates it after
// Load returns.
type Config struct {
	RiotAPIKey      string
	Region          string
	CredentialsFile string
	SpreadsheetName string

	// Player-history mode
	WorksheetName  string
	PlayerRiotIDs  []string
	GameDay        time.Weekday
	TargetDates    []string
	TimezoneOffset int // signed hours from UTC, e.g. -5 for EST
	CustomQueueIDs []int

	// Tournament-code mode
	TournamentWorksheetName string
	TournamentCodes         []string

	// Riot API pacing: fixed sleep after every call.
	APIDelay time.Duration

	// Optional extras; empty string disables each.
	MatchCachePath    string
	ArchiveDir        string
	DiscordWebhookURL string
}

// Load builds a Config from environment variables. Defaults mirror the values
// the tool has always shipped with; mode-specific requirements are checked by
// ValidateTracker / ValidateTournament so the loader stays mode-agnostic.
func Load() (*Config, error) {
	cfg := &Config{
		RiotAPIKey:              os.Getenv("RIOT_API_KEY"),
		Region:                  getDefault("RIOT_REGION", "americas"),
		CredentialsFile:         getDefault("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		SpreadsheetName:         getDefault("SPREADSHEET_NAME", "Tournament Stats"),
		WorksheetName:           getDefault("WORKSHEET_NAME", "Sheet1"),
		TournamentWorksheetName: getDefault("TOURNAMENT_WORKSHEET_NAME", "Tournament"),
		PlayerRiotIDs:           splitList(os.Getenv("PLAYER_RIOT_IDS")),
		TargetDates:             splitList(os.Getenv("TARGET_DATES")),
		TournamentCodes:         splitList(os.Getenv("TOURNAMENT_CODES")),
		MatchCachePath:          os.Getenv("MATCH_CACHE_PATH"),
		ArchiveDir:              os.Getenv("ARCHIVE_DIR"),
		DiscordWebhookURL:       os.Getenv("DISCORD_WEBHOOK_URL"),
	}

	if cfg.RiotAPIKey == "" || cfg.RiotAPIKey == placeholderAPIKey {
		return nil, fmt.Errorf("RIOT_API_KEY is not set - add your key to the .env file")
	}

	if !validRegions[cfg.Region] {
		return nil, fmt.Errorf("RIOT_REGION %q is not valid (use americas, europe, asia or sea)", cfg.Region)
	}

	day, err := parseWeekday(getDefault("GAME_DAY", "monday"))
	if err != nil {
		return nil, err
	}
	cfg.GameDay = day

	offset := getDefault("GAME_TIMEZONE_OFFSET", "-5")
	cfg.TimezoneOffset, err = strconv.Atoi(offset)
	if err != nil {
		return nil, fmt.Errorf("GAME_TIMEZONE_OFFSET %q is not a signed hour offset", offset)
	}

	for _, d := range cfg.TargetDates {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return nil, fmt.Errorf("TARGET_DATES entry %q is not YYYY-MM-DD", d)
		}
	}

	cfg.CustomQueueIDs, err = parseQueueIDs(getDefault("CUSTOM_QUEUE_IDS", "0,3130"))
	if err != nil {
		return nil, err
	}

	delay := getDefault("API_DELAY", "1.2s")
	cfg.APIDelay, err = time.ParseDuration(delay)
	if err != nil {
		return nil, fmt.Errorf("API_DELAY %q is not a duration (try 1.2s)", delay)
	}

	return cfg, nil
}

// ValidateTracker checks the requirements specific to player-history mode.
func (c *Config) ValidateTracker() error {
	if len(c.PlayerRiotIDs) == 0 {
		return fmt.Errorf("PLAYER_RIOT_IDS is empty - add at least one Name#Tag")
	}
	if _, err := os.Stat(c.CredentialsFile); err != nil {
		return fmt.Errorf("google credentials file not found: %s", c.CredentialsFile)
	}
	return nil
}

// ValidateTournament checks the requirements specific to tournament-code mode.
func (c *Config) ValidateTournament() error {
	if len(c.TournamentCodes) == 0 {
		return fmt.Errorf("TOURNAMENT_CODES is empty - add at least one code")
	}
	if _, err := os.Stat(c.CredentialsFile); err != nil {
		return fmt.Errorf("google credentials file not found: %s", c.CredentialsFile)
	}
	return nil
}

// QueueIDSet returns the custom-queue allow list as a set.
func (c *Config) QueueIDSet() map[int]bool {
	set := make(map[int]bool, len(c.CustomQueueIDs))
	for _, id := range c.CustomQueueIDs {
		set[id] = true
	}
	return set
}

func getDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// splitList splits a comma-separated env value, trimming blanks.
func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseWeekday(name string) (time.Weekday, error) {
	day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("GAME_DAY %q is not a weekday name", name)
	}
	return day, nil
}

func parseQueueIDs(raw string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("CUSTOM_QUEUE_IDS entry %q is not a number", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
