package usecase

import "context"

// Collection names accepted by the upstream matches API.
const (
	CollectionLive  = "live"
	CollectionAll   = "all"
	CollectionToday = "all-today"
)

// SportCollection builds the per-sport collection name.
func SportCollection(sportID string) string {
	return sportID
}

// UpstreamMatch is the raw match record as the provider returns it.
type UpstreamMatch struct {
	ID       string
	Title    string
	Category string
	// Date is Unix milliseconds; zero when the provider omits it.
	Date    int64
	Poster  string
	Popular bool
	Teams   *UpstreamTeams
	Sources []UpstreamSource
}

type UpstreamTeams struct {
	Home *UpstreamTeam
	Away *UpstreamTeam
}

type UpstreamTeam struct {
	Name  string
	Badge string
}

type UpstreamSource struct {
	Source string
	ID     string
}

// UpstreamStream is one candidate video stream for a (source, id) pair.
type UpstreamStream struct {
	ID       string
	StreamNo int
	Language string
	HD       bool
	EmbedURL string
	Source   string
}

// UpstreamSport is one entry of the provider's sport catalogue.
type UpstreamSport struct {
	ID   string
	Name string
}

// MatchSource fetches raw match collections from the provider.
type MatchSource interface {
	FetchCollection(ctx context.Context, collection string) ([]UpstreamMatch, error)
}

// SportSource lists the provider's sport catalogue. Optional: sources that
// implement it contribute upstream display names to the sports view.
type SportSource interface {
	FetchSports(ctx context.Context) ([]UpstreamSport, error)
}

// StreamSource fetches candidate streams for a single match source entry.
// Implementations apply their own per-probe timeout and fail closed.
type StreamSource interface {
	FetchStreams(ctx context.Context, source, id string) ([]UpstreamStream, error)
}

// ImageURLResolver turns provider path fragments into absolute image URLs.
type ImageURLResolver interface {
	BadgeURL(badgePath string) string
	PosterURL(posterPath string) string
}
