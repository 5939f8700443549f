// Command sheetcheck verifies the whole credential chain before a real run:
// configuration, Riot API key, service-account JSON and spreadsheet access.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/SundayKoi/inhouse-stats-tracker/internal/config"
	"github.com/SundayKoi/inhouse-stats-tracker/internal/logging"
	"github.com/SundayKoi/inhouse-stats-tracker/internal/riot"
	"github.com/SundayKoi/inhouse-stats-tracker/internal/sheets"
)

func main() {
	// Load .env file
	godotenv.Load()

	ctx := context.Background()

	// Step 1: configuration
	fmt.Println("\n1. Loading configuration...")
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	fmt.Printf("   Region: %s, spreadsheet: %q\n", cfg.Region, cfg.SpreadsheetName)

	// Step 2: Riot API key
	fmt.Println("\n2. Validating Riot API key...")
	client := riot.NewClient(cfg.RiotAPIKey, cfg.Region, riot.WithDelay(cfg.APIDelay))
	valid, err := client.ValidateKey(ctx)
	if err != nil {
		log.Fatalf("Failed to validate key: %v", err)
	}
	if !valid {
		fmt.Println("   Result: INVALID (401/403) - key is expired or wrong")
		os.Exit(1)
	}
	fmt.Println("   Result: valid")

	// Step 3: service-account credentials
	fmt.Println("\n3. Parsing Google credentials...")
	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		log.Fatalf("Failed to read credentials file: %v", err)
	}
	jwt, err := google.JWTConfigFromJSON(data, sheetsapi.SpreadsheetsScope, drive.DriveScope)
	if err != nil {
		log.Fatalf("Failed to parse service-account credentials: %v", err)
	}
	fmt.Printf("   Service account: %s\n", jwt.Email)

	// Step 4: spreadsheet access
	fmt.Printf("\n4. Opening spreadsheet %q...\n", cfg.SpreadsheetName)
	writer, err := sheets.New(ctx, cfg.CredentialsFile, cfg.SpreadsheetName, sheets.WithLogger(logging.Logger()))
	if err != nil {
		log.Fatalf("Failed to create sheets client: %v", err)
	}

	for _, ws := range []string{cfg.WorksheetName, cfg.TournamentWorksheetName} {
		if err := writer.EnsureWorksheet(ctx, ws); err != nil {
			log.Fatalf("Failed to open worksheet %q: %v", ws, err)
		}
		fmt.Printf("   Worksheet %q: ok\n", ws)
	}

	fmt.Println("\nDone! Everything checks out.")
}
