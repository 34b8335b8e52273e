package prediction

import "context"

// Prediction is an editorially curated match tip. Only approved entries are
// exposed; Approved defaults to true for records written before the flag
// existed.
type Prediction struct {
	ID        string `json:"id"`
	Home      string `json:"home"`
	Away      string `json:"away"`
	League    string `json:"league,omitempty"`
	TimeLabel string `json:"timeLabel"`
	Tip       string `json:"tip,omitempty"`
	Odds      string `json:"odds,omitempty"`
	Approved  *bool  `json:"approved,omitempty"`
	// MatchDate is the DD-MM-YYYY date key the entry is filed under.
	MatchDate string `json:"matchDate,omitempty"`
}

// IsApproved treats a missing flag as approved.
func (p Prediction) IsApproved() bool {
	return p.Approved == nil || *p.Approved
}

// Repository reads the week/day/date keyed prediction store.
type Repository interface {
	// ListByDate returns the raw predictions filed under one date document.
	ListByDate(ctx context.Context, weekID, dayOfWeek, dateID string) ([]Prediction, error)
	// ListWeek returns all predictions of one week keyed by date id.
	ListWeek(ctx context.Context, weekID string) (map[string][]Prediction, error)
}
