package stats

// Team ID values the match API uses for the two map sides.
const (
	blueTeamID = 100
	redTeamID  = 200
)

// Side is one of the two map sides. Modeled as an enum rather than a bool so
// an unexpected team ID stays visible as a data-quality condition instead of
// silently collapsing into one side.
type Side int

const (
	Blue Side = iota
	Red
)

// Label returns the spreadsheet value for the side.
func (s Side) Label() string {
	if s == Blue {
		return "Blue"
	}
	return "Red"
}

// SideFromTeamID maps a team ID to a side. The second return is false for
// team IDs that are neither 100 nor 200; callers log those and fall back to
// Red, matching the historical output.
func SideFromTeamID(teamID int) (Side, bool) {
	switch teamID {
	case blueTeamID:
		return Blue, true
	case redTeamID:
		return Red, true
	default:
		return Red, false
	}
}
