package stats

import (
	"math"
	"time"

	"github.com/SundayKoi/inhouse-stats-tracker/internal/logging"
	"github.com/SundayKoi/inhouse-stats-tracker/internal/riot"
)

// PlayerHeaders is the canonical player-mode column order. Sheets written by
// earlier runs depend on it, so the order never changes.
var PlayerHeaders = []string{
	"Date", "Match ID", "Game Duration (min)",
	"Team", "Summoner Name", "Tag", "Champion", "Role",
	"Kills", "Deaths", "Assists", "KDA",
	"Double Kills", "Triple Kills", "Quadra Kills", "Penta Kills",
	"Total Damage to Champions", "Damage/min", "Physical Damage", "Magic Damage",
	"True Damage", "Damage Taken", "Damage Mitigated",
	"CS", "CS/min", "Gold Earned", "Gold/min",
	"Vision Score", "Wards Placed", "Wards Killed", "Control Wards Bought",
	"Turret Kills", "Turret Damage", "Objective Damage",
	"Team Dragons", "Team First Dragon", "Team Barons", "Team First Baron",
	"Team Heralds", "Team First Herald", "Team Grubs", "Team First Grubs",
	"Team Towers", "Team First Tower", "Team First Blood",
	"Win",
}

// TournamentHeaders is the reduced tournament-mode column order, keyed by
// tournament code instead of date.
var TournamentHeaders = []string{
	"Tournament Code", "Match ID", "Game Duration (min)",
	"Team", "Summoner Name", "Tag", "Champion", "Role",
	"Kills", "Deaths", "Assists", "KDA",
	"Total Damage to Champions", "Damage/min",
	"CS", "CS/min", "Gold Earned", "Gold/min",
	"Vision Score", "Win",
}

// teamObjectives is the per-side slice of team counters copied into every
// row on that side.
type teamObjectives struct {
	dragons     int
	firstDragon bool
	barons      int
	firstBaron  bool
	heralds     int
	firstHerald bool
	grubs       int
	firstGrubs  bool
	towers      int
	firstTower  bool
	firstBlood  bool
}

// derived holds the per-participant metrics shared by both schemas.
type derived struct {
	kda          float64
	cs           int
	csPerMin     float64
	damagePerMin int
	goldPerMin   int
}

// Extractor flattens match records into spreadsheet rows.
type Extractor struct {
	zone *time.Location
	log  logging.Interface
}

// NewExtractor creates an extractor that renders dates in the given
// fixed-offset zone.
func NewExtractor(zone *time.Location, log logging.Interface) *Extractor {
	return &Extractor{zone: zone, log: log}
}

// Extract flattens one match into player-mode rows, one per participant.
// Team-level objective columns repeat across all five rows of a side on
// purpose: each row must be self-contained for sheet-side pivoting.
func (e *Extractor) Extract(m *riot.Match) [][]interface{} {
	durationMin := roundTo(float64(m.Info.GameDuration)/60, 1)
	gameDate := time.Unix(m.Info.GameStartSeconds(), 0).In(e.zone).Format("2006-01-02 03:04 PM")
	objectives := objectivesBySide(m)

	rows := make([][]interface{}, 0, len(m.Info.Participants))
	for _, p := range m.Info.Participants {
		side := e.sideOf(m.Metadata.MatchID, p)
		d := deriveMetrics(p, durationMin)
		obj := objectives[side]

		rows = append(rows, []interface{}{
			gameDate, m.Metadata.MatchID, durationMin,
			side.Label(),
			displayName(p),
			p.RiotIdTagline,
			orUnknown(p.ChampionName),
			orUnknown(p.TeamPosition),
			p.Kills, p.Deaths, p.Assists, d.kda,
			p.DoubleKills, p.TripleKills, p.QuadraKills, p.PentaKills,
			p.TotalDamageDealtToChampions, d.damagePerMin,
			p.PhysicalDamageDealtToChampions,
			p.MagicDamageDealtToChampions,
			p.TrueDamageDealtToChampions,
			p.TotalDamageTaken,
			p.DamageSelfMitigated,
			d.cs, d.csPerMin, p.GoldEarned, d.goldPerMin,
			p.VisionScore, p.WardsPlaced,
			p.WardsKilled, p.VisionWardsBoughtInGame,
			p.TurretKills, p.DamageDealtToTurrets,
			p.DamageDealtToObjectives,
			obj.dragons, yesNo(obj.firstDragon),
			obj.barons, yesNo(obj.firstBaron),
			obj.heralds, yesNo(obj.firstHerald),
			obj.grubs, yesNo(obj.firstGrubs),
			obj.towers, yesNo(obj.firstTower),
			yesNo(obj.firstBlood),
			winLoss(p.Win),
		})
	}

	return rows
}

// ExtractTournament flattens one match into the reduced tournament-mode
// rows, keyed by the code that surfaced the match.
func (e *Extractor) ExtractTournament(m *riot.Match, code string) [][]interface{} {
	durationMin := roundTo(float64(m.Info.GameDuration)/60, 1)

	rows := make([][]interface{}, 0, len(m.Info.Participants))
	for _, p := range m.Info.Participants {
		side := e.sideOf(m.Metadata.MatchID, p)
		d := deriveMetrics(p, durationMin)

		rows = append(rows, []interface{}{
			code, m.Metadata.MatchID, durationMin,
			side.Label(),
			displayName(p),
			p.RiotIdTagline,
			orUnknown(p.ChampionName),
			orUnknown(p.TeamPosition),
			p.Kills, p.Deaths, p.Assists, d.kda,
			p.TotalDamageDealtToChampions, d.damagePerMin,
			d.cs, d.csPerMin, p.GoldEarned, d.goldPerMin,
			p.VisionScore,
			winLoss(p.Win),
		})
	}

	return rows
}

// sideOf resolves a participant's side, logging unrecognized team IDs.
func (e *Extractor) sideOf(matchID string, p riot.Participant) Side {
	side, ok := SideFromTeamID(p.TeamID)
	if !ok {
		e.log.Warnf("match %s: unexpected team ID %d for %s, treating as Red",
			matchID, p.TeamID, displayName(p))
	}
	return side
}

// deriveMetrics computes the ratio columns. durationMin arrives already
// rounded to one decimal and is used as the divisor in that rounded form;
// the divisor floors at 1 so sub-minute remakes cannot inflate rates or
// divide by zero.
func deriveMetrics(p riot.Participant, durationMin float64) derived {
	divisor := math.Max(durationMin, 1)
	cs := p.TotalMinionsKilled + p.NeutralMinionsKilled

	return derived{
		kda:          roundTo(float64(p.Kills+p.Assists)/math.Max(float64(p.Deaths), 1), 2),
		cs:           cs,
		csPerMin:     roundTo(float64(cs)/divisor, 1),
		damagePerMin: int(roundTo(float64(p.TotalDamageDealtToChampions)/divisor, 0)),
		goldPerMin:   int(roundTo(float64(p.GoldEarned)/divisor, 0)),
	}
}

// objectivesBySide collapses info.teams into per-side objective counters.
// Missing team entries leave zero values, the same defaults a missing field
// would decode to.
func objectivesBySide(m *riot.Match) map[Side]teamObjectives {
	result := make(map[Side]teamObjectives, 2)
	for _, team := range m.Info.Teams {
		side, ok := SideFromTeamID(team.TeamID)
		if !ok {
			continue
		}
		o := team.Objectives
		result[side] = teamObjectives{
			dragons:     o.Dragon.Kills,
			firstDragon: o.Dragon.First,
			barons:      o.Baron.Kills,
			firstBaron:  o.Baron.First,
			heralds:     o.RiftHerald.Kills,
			firstHerald: o.RiftHerald.First,
			grubs:       o.Horde.Kills,
			firstGrubs:  o.Horde.First,
			towers:      o.Tower.Kills,
			firstTower:  o.Tower.First,
			firstBlood:  o.Champion.First,
		}
	}
	return result
}

// displayName prefers the riot ID game name, falls back to the legacy
// summoner name, then "Unknown".
func displayName(p riot.Participant) string {
	if p.RiotIdGameName != "" {
		return p.RiotIdGameName
	}
	if p.SummonerName != "" {
		return p.SummonerName
	}
	return "Unknown"
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func winLoss(won bool) string {
	if won {
		return "Win"
	}
	return "Loss"
}

// roundTo rounds to the given number of decimal places with half-to-even
// ties, the rounding mode existing sheets were produced with.
func roundTo(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.RoundToEven(v*shift) / shift
}
