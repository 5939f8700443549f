package stats

import (
	"github.com/SundayKoi/inhouse-stats-tracker/internal/gametime"
	"github.com/SundayKoi/inhouse-stats-tracker/internal/riot"
)

// customGameType marks lobby-created customs that carry no useful queue ID.
const customGameType = "CUSTOM_GAME"

// Verdict is the classification of one fetched match. Only Qualifying
// matches produce rows; the other two exist for the run summary.
type Verdict int

const (
	Qualifying Verdict = iota
	WrongDate          // custom game, but outside every window
	WrongType          // not a custom/tournament game at all
)

// IsCustom reports whether the match is a custom/tournament game: queue ID in
// the allow set, or the lobby-custom game type.
func IsCustom(m *riot.Match, queueIDs map[int]bool) bool {
	return queueIDs[m.Info.QueueID] || m.Info.GameType == customGameType
}

// Classify decides whether a match qualifies for extraction. Window bounds
// are inclusive on both ends. Tournament-code runs never call this: a match
// scoped by a code is accepted unconditionally.
func Classify(m *riot.Match, windows []gametime.Window, queueIDs map[int]bool) Verdict {
	if !IsCustom(m, queueIDs) {
		return WrongType
	}

	for _, w := range windows {
		if w.ContainsMillis(m.Info.GameStartTimestamp) {
			return Qualifying
		}
	}
	return WrongDate
}
