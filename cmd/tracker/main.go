package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/SundayKoi/inhouse-stats-tracker/internal/archive"
	"github.com/SundayKoi/inhouse-stats-tracker/internal/cache"
	"github.com/SundayKoi/inhouse-stats-tracker/internal/config"
	"github.com/SundayKoi/inhouse-stats-tracker/internal/discord"
	"github.com/SundayKoi/inhouse-stats-tracker/internal/gametime"
	"github.com/SundayKoi/inhouse-stats-tracker/internal/logging"
	"github.com/SundayKoi/inhouse-stats-tracker/internal/pipeline"
	"github.com/SundayKoi/inhouse-stats-tracker/internal/riot"
	"github.com/SundayKoi/inhouse-stats-tracker/internal/sheets"
	"github.com/SundayKoi/inhouse-stats-tracker/internal/stats"
)

func main() {
	// Load .env file - try multiple locations
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			fmt.Printf("Loaded .env from: %s\n", path)
			break
		}
	}

	dates := flag.String("dates", "", "Comma-separated YYYY-MM-DD list, overrides TARGET_DATES")
	dryRun := flag.Bool("dry-run", false, "Collect and classify but skip the sheet write")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if *dates != "" {
		cfg.TargetDates = strings.Split(*dates, ",")
	}
	if err := cfg.ValidateTracker(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	logger := logging.Logger()
	ctx := context.Background()
	startTime := time.Now()

	// Resolve the game-night windows up front; pagination depth depends on
	// the earliest one.
	windows, err := gametime.Resolve(time.Now(), cfg.TargetDates, cfg.GameDay, cfg.TimezoneOffset)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	zone := gametime.Zone(cfg.TimezoneOffset)

	fmt.Printf("Looking for inhouse games in %d date window(s):\n", len(windows))
	var windowLabels []string
	for _, w := range windows {
		label := pipeline.WindowLabel(w, zone)
		windowLabels = append(windowLabels, label)
		fmt.Printf("  %s\n", label)
	}
	fmt.Println()

	earliest := gametime.Earliest(windows)

	client := riot.NewClient(cfg.RiotAPIKey, cfg.Region, riot.WithDelay(cfg.APIDelay))

	var matchCache *cache.Store
	if cfg.MatchCachePath != "" {
		matchCache, err = cache.Open(cfg.MatchCachePath)
		if err != nil {
			log.Fatalf("Failed to open match cache: %v", err)
		}
		defer matchCache.Close()
	}

	var arch *archive.Writer
	if cfg.ArchiveDir != "" {
		arch, err = archive.NewWriter(cfg.ArchiveDir)
		if err != nil {
			log.Fatalf("Failed to open archive: %v", err)
		}
		defer func() {
			if err := arch.Close(); err != nil {
				logger.Errorf("error closing archive: %v", err)
			}
		}()
	}

	pipe := pipeline.New(client, matchCache, arch, zone, logger)

	// Step 1: resolve Riot IDs and collect match IDs across all players.
	// One resolvable player per team is enough - all 10 participants come
	// back with each match, and the set collapses shared matches.
	allMatchIDs := make(map[string]struct{})
	for i, riotID := range cfg.PlayerRiotIDs {
		fmt.Printf("[%d/%d] Looking up: %s\n", i+1, len(cfg.PlayerRiotIDs), riotID)

		puuid, err := pipe.ResolveRiotID(ctx, riotID)
		if err != nil {
			fmt.Printf("  [ERROR] %v\n", err)
			logger.Errorf("skipping player %s: %v", riotID, err)
			continue
		}

		fmt.Printf("  PUUID: %.30s...\n", puuid)
		fmt.Printf("  Paginating match history back to %s...\n",
			time.Unix(earliest, 0).In(zone).Format("01/02/2006"))

		matchIDs := pipe.DiscoverPlayerMatches(ctx, puuid, earliest)
		if len(matchIDs) == 0 {
			fmt.Println("  No matches found")
			fmt.Println()
			continue
		}

		newCount := 0
		for _, id := range matchIDs {
			if _, seen := allMatchIDs[id]; !seen {
				allMatchIDs[id] = struct{}{}
				newCount++
			}
		}
		fmt.Printf("  Total: %d matches, %d new unique\n", len(matchIDs), newCount)
		fmt.Println()
	}

	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Total unique matches to check: %d\n", len(allMatchIDs))
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()

	// Step 2: fetch details, classify, extract rows from qualifying games.
	extractor := stats.NewExtractor(zone, logger)
	queueIDs := cfg.QueueIDSet()

	var allRows [][]interface{}
	customCount := 0
	skippedWrongDate := 0
	skippedWrongType := 0

	sortedIDs := pipeline.SortedIDs(allMatchIDs)
	for i, matchID := range sortedIDs {
		fmt.Printf("[%d/%d] Fetching match: %s\n", i+1, len(sortedIDs), matchID)

		match, err := pipe.FetchMatch(ctx, matchID)
		if err != nil {
			fmt.Printf("  [ERROR] Failed to get match details: %v\n", err)
			logger.Errorf("skipping match %s: %v", matchID, err)
			continue
		}

		gameDate := time.Unix(match.Info.GameStartSeconds(), 0).In(zone).Format("01/02 03:04 PM")

		switch stats.Classify(match, windows, queueIDs) {
		case stats.Qualifying:
			customCount++
			rows := extractor.Extract(match)
			allRows = append(allRows, rows...)
			fmt.Printf("  ✓ Inhouse game! %s | Queue: %d | Duration: %.1f min | %d players\n",
				gameDate, match.Info.QueueID, float64(match.Info.GameDuration)/60, len(rows))
		case stats.WrongDate:
			skippedWrongDate++
			fmt.Printf("  ✗ Custom game but wrong date (%s)\n", gameDate)
		case stats.WrongType:
			skippedWrongType++
			fmt.Printf("  ✗ Not a custom game (queueId: %d)\n", match.Info.QueueID)
		}
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("RESULTS SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Inhouse games found on target dates: %d\n", customCount)
	fmt.Printf("Custom games on other dates (skipped): %d\n", skippedWrongDate)
	fmt.Printf("Non-custom games (skipped): %d\n", skippedWrongType)
	fmt.Printf("Total player rows to write: %d\n", len(allRows))
	fmt.Println(strings.Repeat("=", 60))

	// Step 3: write to Google Sheets. A run with no rows never connects.
	if len(allRows) > 0 && !*dryRun {
		fmt.Println("\nConnecting to Google Sheets...")
		writer, err := sheets.New(ctx, cfg.CredentialsFile, cfg.SpreadsheetName)
		if err != nil {
			notifyFailure(ctx, cfg, "sheet connect", err)
			log.Fatalf("Failed to connect to Google Sheets: %v", err)
		}
		if err := writer.EnsureWorksheet(ctx, cfg.WorksheetName); err != nil {
			notifyFailure(ctx, cfg, "worksheet setup", err)
			log.Fatalf("Failed to prepare worksheet: %v", err)
		}
		if err := writer.Append(ctx, cfg.WorksheetName, stats.PlayerHeaders, allRows); err != nil {
			notifyFailure(ctx, cfg, "sheet write", err)
			log.Fatalf("Failed to write rows: %v", err)
		}
		fmt.Println("\nDone! Check your spreadsheet.")
	} else if len(allRows) > 0 {
		fmt.Println("\nDry run: skipping sheet write.")
	} else {
		fmt.Println("\nNo inhouse games found for these date windows.")
	}

	// Best-effort end-of-run notification.
	if cfg.DiscordWebhookURL != "" {
		hook := discord.NewWebhookClient(cfg.DiscordWebhookURL)
		err := hook.SendRunSummary(ctx, discord.RunSummary{
			Scope:       windowLabels,
			ScopeLabel:  "Windows",
			Qualifying:  customCount,
			WrongDate:   skippedWrongDate,
			WrongType:   skippedWrongType,
			RowsWritten: len(allRows),
			Runtime:     time.Since(startTime),
		})
		if err != nil {
			logger.Warnf("failed to send Discord summary: %v", err)
		}
	}
}

// notifyFailure posts a failure notice before the process dies. Webhook
// errors are swallowed; the fatal path already has a real error to report.
func notifyFailure(ctx context.Context, cfg *config.Config, stage string, err error) {
	if cfg.DiscordWebhookURL == "" {
		return
	}
	hook := discord.NewWebhookClient(cfg.DiscordWebhookURL)
	if werr := hook.SendRunFailure(ctx, stage, err); werr != nil {
		fmt.Fprintf(os.Stderr, "failed to send Discord failure notice: %v\n", werr)
	}
}
