package sport

import (
	"sort"
	"strings"
)

// WithCounts is a sport catalogue entry derived from the merged match view.
type WithCounts struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Matches         int    `json:"matches"`
	LiveMatches     int    `json:"liveMatches"`
	UpcomingMatches int    `json:"upcomingMatches"`
}

// Upstream category ids map onto a smaller set of display names; several
// categories share a bucket (nba -> Basketball, ufc/boxing -> Fight).
var displayNames = map[string]string{
	"football":          "Football",
	"soccer":            "Football",
	"basketball":        "Basketball",
	"hockey":            "Hockey",
	"volleyball":        "Volleyball",
	"baseball":          "Baseball",
	"tennis":            "Tennis",
	"american-football": "American Football",
	"americanfootball":  "American Football",
	"nfl":               "American Football",
	"nba":               "Basketball",
	"nhl":               "Hockey",
	"mlb":               "Baseball",
	"ufc":               "Fight (UFC, Box)",
	"boxing":            "Fight (UFC, Box)",
	"formula-1":         "Motor Sports",
	"formula1":          "Motor Sports",
	"motogp":            "Motor Sports",
}

// MappedName reports the curated display name for a category id, when one
// exists.
func MappedName(sportID string) (string, bool) {
	name, ok := displayNames[strings.ToLower(sportID)]
	return name, ok
}

// DisplayName resolves a human name for a category id, title-casing unknown
// ids word by word ("table-tennis" -> "Table Tennis").
func DisplayName(sportID string) string {
	if name, ok := displayNames[strings.ToLower(sportID)]; ok {
		return name
	}

	words := strings.FieldsFunc(sportID, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// SortByActivity orders sports by live matches descending, with football
// winning ties and total match count breaking the rest.
func SortByActivity(sports []WithCounts) {
	sort.SliceStable(sports, func(i, j int) bool {
		a, b := sports[i], sports[j]
		if a.LiveMatches != b.LiveMatches {
			return a.LiveMatches > b.LiveMatches
		}
		if isFootball(a.ID) != isFootball(b.ID) {
			return isFootball(a.ID)
		}
		return a.Matches > b.Matches
	})
}

func isFootball(id string) bool {
	return id == "football" || id == "soccer"
}
