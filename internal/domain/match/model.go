package match

type Status string

const (
	StatusLive     Status = "live"
	StatusUpcoming Status = "upcoming"
	StatusEnded    Status = "ended"
)

// Match is the portal's internal match shape. It is rebuilt from upstream
// data on every poll and never persisted; Status and Time are derived, not
// authoritative upstream values.
type Match struct {
	ID       string `json:"id"`
	Sport    string `json:"sport"`
	Home     string `json:"home"`
	Away     string `json:"away"`
	HomeLogo string `json:"homeLogo,omitempty"`
	AwayLogo string `json:"awayLogo,omitempty"`
	League   string `json:"league"`
	Status   Status `json:"status"`
	// Time is the display label: "LIVE", "FT", "Tomorrow" or HH:MM.
	Time string `json:"time"`
	// Date keeps the original upstream Unix-millisecond timestamp so status
	// can be recomputed downstream.
	Date      int64  `json:"date,omitempty"`
	IsHot     bool   `json:"isHot,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Score     string `json:"score,omitempty"`
	Viewers   string `json:"viewers,omitempty"`
	Minute    string `json:"minute,omitempty"`
	Quality   string `json:"quality,omitempty"`
}
