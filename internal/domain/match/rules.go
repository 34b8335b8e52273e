package match

import (
	"regexp"
	"strings"
	"time"
)

// DefaultLiveWindow is how long after kickoff a match from a non-live
// collection is still assumed to be in progress. Six hours tolerates
// long-running sports (baseball, cricket, test sessions).
const DefaultLiveWindow = 6 * time.Hour

const (
	placeholderHome = "Home Team"
	placeholderAway = "Away Team"
)

var leagueSuffixRegex = regexp.MustCompile(`\s*-\s*[^-]+$`)

// Separator patterns tried in order; the first match wins.
var teamSeparatorRegexes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s+vs\.?\s+`),
	regexp.MustCompile(`(?i)\s+v\s+`),
	regexp.MustCompile(`\s+VS\s+`),
	regexp.MustCompile(`\s+V\s+`),
}

var trailingLeagueRegex = regexp.MustCompile(`-\s*([A-Z][a-zA-Z\s]+)$`)

// DeriveStatus infers a lifecycle status from the upstream kickoff timestamp
// (Unix ms). Matches arriving from the live collection are trusted as live
// regardless of their timestamp.
func DeriveStatus(dateMS int64, now time.Time, liveWindow time.Duration, fromLiveCollection bool) Status {
	if fromLiveCollection {
		return StatusLive
	}
	if liveWindow <= 0 {
		liveWindow = DefaultLiveWindow
	}

	nowMS := now.UnixMilli()
	earliestLive := nowMS - liveWindow.Milliseconds()

	switch {
	case dateMS >= earliestLive && dateMS <= nowMS:
		return StatusLive
	case dateMS > nowMS:
		return StatusUpcoming
	default:
		return StatusEnded
	}
}

// TimeLabel renders the display time for a match: "LIVE" and "FT" for live
// and ended matches, "Tomorrow" when kickoff falls on the next calendar day,
// otherwise HH:MM in the local 24-hour clock.
func TimeLabel(dateMS int64, status Status, now time.Time) string {
	switch status {
	case StatusLive:
		return "LIVE"
	case StatusEnded:
		return "FT"
	}

	kickoff := time.UnixMilli(dateMS).In(now.Location())

	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	ky, km, kd := kickoff.Date()
	kickoffDay := time.Date(ky, km, kd, 0, 0, 0, 0, now.Location())

	if kickoffDay.Equal(tomorrow) {
		return "Tomorrow"
	}
	return kickoff.Format("15:04")
}

// ParseTeamsFromTitle extracts home/away names from titles like
// "Arsenal vs Chelsea - Premier League". A trailing league suffix is
// stripped before splitting. Empty sides and the upstream placeholder names
// count as failure.
func ParseTeamsFromTitle(title string) (home, away string, ok bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", "", false
	}

	stripped := strings.TrimSpace(leagueSuffixRegex.ReplaceAllString(title, ""))
	if stripped == "" {
		return "", "", false
	}

	for _, sep := range teamSeparatorRegexes {
		loc := sep.FindStringIndex(stripped)
		if loc == nil {
			continue
		}

		home = strings.TrimSpace(stripped[:loc[0]])
		away = strings.TrimSpace(stripped[loc[1]:])
		if home == "" || away == "" {
			continue
		}
		if home == placeholderHome || away == placeholderAway {
			continue
		}
		return home, away, true
	}

	return "", "", false
}

// ExtractLeague takes a capitalized trailing segment of the title after a
// dash, falling back to the capitalized category.
func ExtractLeague(title, category string) string {
	if m := trailingLeagueRegex.FindStringSubmatch(title); len(m) == 2 {
		if league := strings.TrimSpace(m[1]); league != "" {
			return league
		}
	}
	return Capitalize(category)
}

func Capitalize(value string) string {
	if value == "" {
		return ""
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
