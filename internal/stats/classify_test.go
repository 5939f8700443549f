package stats

import (
	"testing"

	"github.com/SundayKoi/inhouse-stats-tracker/internal/gametime"
	"github.com/SundayKoi/inhouse-stats-tracker/internal/riot"
)

var defaultQueues = map[int]bool{0: true, 3130: true}

// matchAt builds a minimal match starting at the given epoch-second
// timestamp.
func matchAt(startSeconds int64, queueID int, gameType string) *riot.Match {
	return &riot.Match{
		Metadata: riot.Metadata{MatchID: "NA1_1"},
		Info: riot.Info{
			GameStartTimestamp: startSeconds * 1000,
			QueueID:            queueID,
			GameType:           gameType,
		},
	}
}

func TestClassify_Qualifying(t *testing.T) {
	windows := []gametime.Window{{Start: 1000, End: 2000}}

	m := matchAt(1500, 0, "CUSTOM_GAME")
	if got := Classify(m, windows, defaultQueues); got != Qualifying {
		t.Errorf("Expected Qualifying, got: %v", got)
	}
}

func TestClassify_WindowBoundsInclusive(t *testing.T) {
	windows := []gametime.Window{{Start: 1000, End: 2000}}

	for _, ts := range []int64{1000, 2000} {
		if got := Classify(matchAt(ts, 0, ""), windows, defaultQueues); got != Qualifying {
			t.Errorf("Expected boundary timestamp %d to qualify, got: %v", ts, got)
		}
	}
}

// The end bound holds at millisecond precision: a match starting even 1ms
// past it is outside the window, not rounded back in.
func TestClassify_SubSecondPastEndIsWrongDate(t *testing.T) {
	windows := []gametime.Window{{Start: 1000, End: 2000}}

	for _, extraMillis := range []int64{1, 999} {
		m := matchAt(2000, 0, "")
		m.Info.GameStartTimestamp += extraMillis
		if got := Classify(m, windows, defaultQueues); got != WrongDate {
			t.Errorf("Expected start at end+%dms to be WrongDate, got: %v", extraMillis, got)
		}
	}
}

// A custom game before the earliest window is a wrong-date skip, never a
// wrong-type one.
func TestClassify_RightTypeWrongDate(t *testing.T) {
	windows := []gametime.Window{{Start: 1000, End: 2000}}

	m := matchAt(999, 3130, "")
	if got := Classify(m, windows, defaultQueues); got != WrongDate {
		t.Errorf("Expected WrongDate, got: %v", got)
	}
}

func TestClassify_WrongType(t *testing.T) {
	windows := []gametime.Window{{Start: 1000, End: 2000}}

	// Ranked solo queue inside the window is still the wrong type.
	m := matchAt(1500, 420, "MATCHED_GAME")
	if got := Classify(m, windows, defaultQueues); got != WrongType {
		t.Errorf("Expected WrongType, got: %v", got)
	}
}

// Either signal qualifies a match as custom: an allow-listed queue ID or the
// lobby-custom game type.
func TestIsCustom(t *testing.T) {
	tests := []struct {
		name     string
		queueID  int
		gameType string
		want     bool
	}{
		{"allow-listed queue", 3130, "MATCHED_GAME", true},
		{"queue zero", 0, "", true},
		{"lobby custom with odd queue", 999, "CUSTOM_GAME", true},
		{"ranked", 420, "MATCHED_GAME", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := matchAt(0, tt.queueID, tt.gameType)
			if got := IsCustom(m, defaultQueues); got != tt.want {
				t.Errorf("Expected IsCustom=%v, got: %v", tt.want, got)
			}
		})
	}
}

func TestClassify_SecondWindowQualifies(t *testing.T) {
	windows := []gametime.Window{
		{Start: 1000, End: 2000},
		{Start: 5000, End: 6000},
	}

	if got := Classify(matchAt(5500, 0, ""), windows, defaultQueues); got != Qualifying {
		t.Errorf("Expected match in the second window to qualify, got: %v", got)
	}
}

func TestSideFromTeamID(t *testing.T) {
	if side, ok := SideFromTeamID(100); side != Blue || !ok {
		t.Errorf("Expected (Blue, true) for 100, got: (%v, %v)", side, ok)
	}
	if side, ok := SideFromTeamID(200); side != Red || !ok {
		t.Errorf("Expected (Red, true) for 200, got: (%v, %v)", side, ok)
	}
	// Unknown IDs fall back to Red but flag the data-quality problem.
	if side, ok := SideFromTeamID(300); side != Red || ok {
		t.Errorf("Expected (Red, false) for 300, got: (%v, %v)", side, ok)
	}
	if Blue.Label() != "Blue" || Red.Label() != "Red" {
		t.Error("Unexpected side labels")
	}
}
