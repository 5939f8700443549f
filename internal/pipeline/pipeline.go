package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/SundayKoi/inhouse-stats-tracker/internal/archive"
	"github.com/SundayKoi/inhouse-stats-tracker/internal/cache"
	"github.com/SundayKoi/inhouse-stats-tracker/internal/gametime"
	"github.com/SundayKoi/inhouse-stats-tracker/internal/logging"
	"github.com/SundayKoi/inhouse-stats-tracker/internal/riot"
)

// historyBatchSize is the match-history page size. 100 is the API maximum;
// fewer pages means fewer paced calls.
const historyBatchSize = 100

// riotClient is the slice of the Riot client the pipeline uses. Tests
// substitute a fake.
type riotClient interface {
	GetAccountByRiotID(ctx context.Context, gameName, tagLine string) (*riot.Account, error)
	GetMatchIDs(ctx context.Context, puuid string, start, count int) ([]string, error)
	GetMatchRaw(ctx context.Context, matchID string) ([]byte, error)
	GetMatchIDsByTournamentCode(ctx context.Context, code string) ([]string, error)
}

// Pipeline drives discovery and fetching. Cache and archive are optional;
// nil disables each.
type Pipeline struct {
	client  riotClient
	cache   *cache.Store
	archive *archive.Writer
	zone    *time.Location
	log     logging.Interface
}

// New assembles a pipeline. zone is the fixed-offset zone used only for
// progress output.
func New(client riotClient, matchCache *cache.Store, arch *archive.Writer, zone *time.Location, log logging.Interface) *Pipeline {
	return &Pipeline{
		client:  client,
		cache:   matchCache,
		archive: arch,
		zone:    zone,
		log:     log,
	}
}

// ResolveRiotID splits a Name#Tag identifier and resolves it to a PUUID.
// Malformed identifiers and failed lookups are both reported as errors the
// caller skips past; neither aborts the run.
func (p *Pipeline) ResolveRiotID(ctx context.Context, riotID string) (string, error) {
	parts := strings.Split(riotID, "#")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid Riot ID format %q - should be Name#Tag", riotID)
	}
	gameName := strings.TrimSpace(parts[0])
	tagLine := strings.TrimSpace(parts[1])

	account, err := p.client.GetAccountByRiotID(ctx, gameName, tagLine)
	if err != nil {
		return "", fmt.Errorf("failed to look up %q: %w", riotID, err)
	}
	return account.PUUID, nil
}

// DiscoverPlayerMatches pages backward through a player's match history and
// returns every match ID from now back to earliestTimestamp (epoch seconds).
// No per-match filtering happens here; the classifier sorts the haul later.
//
// Paging stops when a batch comes back empty, comes back short, or when the
// oldest match in the batch (the last element, the index is newest-first)
// already started before the boundary. The age check costs one extra detail
// fetch per page, which the cache absorbs on re-runs.
func (p *Pipeline) DiscoverPlayerMatches(ctx context.Context, puuid string, earliestTimestamp int64) []string {
	var allIDs []string
	startIndex := 0

	for {
		batch, err := p.client.GetMatchIDs(ctx, puuid, startIndex, historyBatchSize)
		if err != nil {
			p.log.Errorf("failed to get matches (start=%d): %v", startIndex, err)
			fmt.Printf("    [ERROR] Failed to get matches (start=%d): %v\n", startIndex, err)
			break
		}
		if len(batch) == 0 {
			fmt.Println("    Reached end of match history")
			break
		}

		allIDs = append(allIDs, batch...)
		fmt.Printf("    Fetched %d matches (total: %d, index %d-%d)\n",
			len(batch), len(allIDs), startIndex, startIndex+len(batch)-1)

		if p.oldestBatchMatchBefore(ctx, batch[len(batch)-1], earliestTimestamp) {
			fmt.Println("    ✓ Reached target date range")
			break
		}

		if len(batch) < historyBatchSize {
			fmt.Println("    Reached end of match history")
			break
		}

		startIndex += historyBatchSize
	}

	return allIDs
}

// oldestBatchMatchBefore peeks the given match's start timestamp and reports
// whether it precedes the boundary. A failed peek never stops pagination:
// better one page too many than silently missing a game night.
func (p *Pipeline) oldestBatchMatchBefore(ctx context.Context, matchID string, earliestTimestamp int64) bool {
	match, err := p.FetchMatch(ctx, matchID)
	if err != nil {
		p.log.Warnf("failed to peek oldest match %s: %v", matchID, err)
		return false
	}

	oldest := match.Info.GameStartSeconds()
	fmt.Printf("    Oldest match in batch: %s (need to reach: %s)\n",
		time.Unix(oldest, 0).In(p.zone).Format("01/02/2006"),
		time.Unix(earliestTimestamp, 0).In(p.zone).Format("01/02/2006"))

	return oldest < earliestTimestamp
}

// DiscoverTournamentMatches returns the match IDs scoped to one tournament
// code. A failed lookup skips the code; an empty result is normal for codes
// that were generated but never played.
func (p *Pipeline) DiscoverTournamentMatches(ctx context.Context, code string) []string {
	ids, err := p.client.GetMatchIDsByTournamentCode(ctx, code)
	if err != nil {
		p.log.Errorf("failed to get matches for code %q: %v", code, err)
		fmt.Printf("  [ERROR] Failed to get matches for code: %v\n", err)
		return nil
	}
	if len(ids) == 0 {
		fmt.Println("  No matches found for this code")
		return nil
	}
	return ids
}

// FetchMatch returns full match details, consulting the cache first. Network
// fetches feed the cache and the archive; cache hits touch neither and skip
// the pacing delay, which exists only to protect the remote API.
func (p *Pipeline) FetchMatch(ctx context.Context, matchID string) (*riot.Match, error) {
	if p.cache != nil {
		body, ok, err := p.cache.Get(matchID)
		if err != nil {
			p.log.Warnf("cache read failed for %s: %v", matchID, err)
		} else if ok {
			var match riot.Match
			if err := json.Unmarshal(body, &match); err == nil {
				return &match, nil
			}
			p.log.Warnf("cache entry for %s is corrupt, refetching", matchID)
		}
	}

	body, err := p.client.GetMatchRaw(ctx, matchID)
	if err != nil {
		return nil, err
	}

	var match riot.Match
	if err := json.Unmarshal(body, &match); err != nil {
		return nil, fmt.Errorf("failed to decode match %s: %w", matchID, err)
	}

	if p.cache != nil {
		if err := p.cache.Put(matchID, body); err != nil {
			p.log.Warnf("cache write failed for %s: %v", matchID, err)
		}
	}
	if p.archive != nil {
		if err := p.archive.Write(matchID, body); err != nil {
			p.log.Warnf("archive write failed for %s: %v", matchID, err)
		}
	}

	return &match, nil
}

// SortedIDs returns the members of a match-ID set in lexical order, so
// detail-fetch iteration and therefore sheet row order is deterministic.
func SortedIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// WindowLabel formats one window for console and notification output.
func WindowLabel(w gametime.Window, zone *time.Location) string {
	const layout = "Monday 2006-01-02 03:04 PM"
	return fmt.Sprintf("%s → %s",
		time.Unix(w.Start, 0).In(zone).Format(layout),
		time.Unix(w.End, 0).In(zone).Format(layout))
}
