package main

import (
	"context"
	"flag"
	"fmt"
	"log"
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

	codes := flag.String("codes", "", "Comma-separated tournament codes, overrides TOURNAMENT_CODES")
	dryRun := flag.Bool("dry-run", false, "Collect and extract but skip the sheet write")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if *codes != "" {
		cfg.TournamentCodes = strings.Split(*codes, ",")
	}
	if err := cfg.ValidateTournament(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	logger := logging.Logger()
	ctx := context.Background()
	startTime := time.Now()
	zone := gametime.Zone(cfg.TimezoneOffset)

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
	extractor := stats.NewExtractor(zone, logger)

	// Step 1: collect match IDs per code. Codes should be disjoint, but a
	// duplicate ID is still fetched only once, under the first code that
	// surfaced it.
	type codedMatch struct {
		code    string
		matchID string
	}
	var toFetch []codedMatch
	seen := make(map[string]struct{})

	for i, code := range cfg.TournamentCodes {
		fmt.Printf("[%d/%d] Tournament code: %s\n", i+1, len(cfg.TournamentCodes), code)

		for _, id := range pipe.DiscoverTournamentMatches(ctx, code) {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			toFetch = append(toFetch, codedMatch{code: code, matchID: id})
		}
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Total unique matches to fetch: %d\n", len(toFetch))
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()

	// Step 2: fetch details and extract rows. Code-scoped matches are
	// accepted unconditionally - no window or queue classification here.
	var allRows [][]interface{}
	matchCount := 0

	for i, cm := range toFetch {
		fmt.Printf("[%d/%d] Fetching match: %s\n", i+1, len(toFetch), cm.matchID)

		match, err := pipe.FetchMatch(ctx, cm.matchID)
		if err != nil {
			fmt.Printf("  [ERROR] Failed to get match details: %v\n", err)
			logger.Errorf("skipping match %s: %v", cm.matchID, err)
			continue
		}

		matchCount++
		rows := extractor.ExtractTournament(match, cm.code)
		allRows = append(allRows, rows...)
		fmt.Printf("  ✓ %s | Duration: %.1f min | %d players\n",
			cm.code, float64(match.Info.GameDuration)/60, len(rows))
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("RESULTS SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Tournament codes checked: %d\n", len(cfg.TournamentCodes))
	fmt.Printf("Matches fetched: %d\n", matchCount)
	fmt.Printf("Total player rows to write: %d\n", len(allRows))
	fmt.Println(strings.Repeat("=", 60))

	// Step 3: write to Google Sheets. A run with no rows never connects.
	if len(allRows) > 0 && !*dryRun {
		fmt.Println("\nConnecting to Google Sheets...")
		writer, err := sheets.New(ctx, cfg.CredentialsFile, cfg.SpreadsheetName)
		if err != nil {
			log.Fatalf("Failed to connect to Google Sheets: %v", err)
		}
		if err := writer.EnsureWorksheet(ctx, cfg.TournamentWorksheetName); err != nil {
			log.Fatalf("Failed to prepare worksheet: %v", err)
		}
		if err := writer.Append(ctx, cfg.TournamentWorksheetName, stats.TournamentHeaders, allRows); err != nil {
			log.Fatalf("Failed to write rows: %v", err)
		}
		fmt.Println("\nDone! Check your spreadsheet.")
	} else if len(allRows) > 0 {
		fmt.Println("\nDry run: skipping sheet write.")
	} else {
		fmt.Println("\nNo matches found for these tournament codes.")
	}

	if cfg.DiscordWebhookURL != "" {
		hook := discord.NewWebhookClient(cfg.DiscordWebhookURL)
		err := hook.SendRunSummary(ctx, discord.RunSummary{
			Scope:       cfg.TournamentCodes,
			ScopeLabel:  "Codes",
			Qualifying:  matchCount,
			RowsWritten: len(allRows),
			Runtime:     time.Since(startTime),
		})
		if err != nil {
			logger.Warnf("failed to send Discord summary: %v", err)
		}
	}
}
