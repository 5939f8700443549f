package gametime

import (
	"fmt"
	"sort"
	"time"
)

// Game nights run from noon into the early hours of the next day; matches
// played after midnight still belong to the previous night.
const (
	windowStartHour = 12
	windowEndHour   = 5
)

// Window is one candidate game night, in epoch seconds. Start < End always.
type Window struct {
	Start int64
	End   int64
}

// Contains reports whether ts (epoch seconds) falls inside the window,
// bounds inclusive.
func (w Window) Contains(ts int64) bool {
	return ts >= w.Start && ts <= w.End
}

// ContainsMillis is Contains at millisecond precision. The end bound needs
// it: truncating to seconds would admit a match starting up to 999ms after
// the window closes.
func (w Window) ContainsMillis(tsMillis int64) bool {
	return tsMillis >= w.Start*1000 && tsMillis <= w.End*1000
}

// Zone builds the fixed-offset location games are scheduled in. A fixed
// offset, not a tz-database zone: the tool has always been DST-unaware and
// the output must not shift twice a year.
func Zone(offsetHours int) *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", offsetHours), offsetHours*3600)
}

// Resolve computes the game-night windows to scan for.
//
// With explicit dates each date D becomes [D 12:00, D+1 05:00] in the
// fixed-offset zone. With no dates it falls back to the most recent
// occurrence of gameDay relative to now: today counts only when today is
// gameDay and the local clock is past noon, otherwise it goes back a full
// week. That tie-break is deliberate (tonight's games have not happened yet
// on a target-day morning) and callers must not "fix" it.
//
// Windows come back sorted ascending by start. At least one window must
// resolve or Resolve returns a configuration error.
func Resolve(now time.Time, dates []string, gameDay time.Weekday, offsetHours int) ([]Window, error) {
	zone := Zone(offsetHours)
	var windows []Window

	if len(dates) > 0 {
		for _, d := range dates {
			day, err := time.ParseInLocation("2006-01-02", d, zone)
			if err != nil {
				return nil, fmt.Errorf("target date %q is not YYYY-MM-DD: %w", d, err)
			}
			windows = append(windows, dayWindow(day))
		}
	} else {
		local := now.In(zone)
		daysSince := (int(local.Weekday()) - int(gameDay) + 7) % 7
		if daysSince == 0 && local.Hour() < windowStartHour {
			daysSince = 7
		}
		target := local.AddDate(0, 0, -daysSince)
		windows = append(windows, dayWindow(target))
	}

	if len(windows) == 0 {
		return nil, fmt.Errorf("no game-night windows could be resolved")
	}

	sort.Slice(windows, func(i, j int) bool { return windows[i].Start < windows[j].Start })
	return windows, nil
}

// Earliest returns the minimum start across all windows. Match-history
// pagination stops once it pages past this boundary.
func Earliest(windows []Window) int64 {
	earliest := windows[0].Start
	for _, w := range windows[1:] {
		if w.Start < earliest {
			earliest = w.Start
		}
	}
	return earliest
}

// dayWindow builds the noon-to-5am window for the calendar day of t.
func dayWindow(t time.Time) Window {
	start := time.Date(t.Year(), t.Month(), t.Day(), windowStartHour, 0, 0, 0, t.Location())
	next := start.AddDate(0, 0, 1)
	end := time.Date(next.Year(), next.Month(), next.Day(), windowEndHour, 0, 0, 0, t.Location())
	return Window{Start: start.Unix(), End: end.Unix()}
}
