package match

import "sort"

// MergeByPrecedence deduplicates collections by match id with a fixed
// override order: collections are given poorest-signal first, and a later
// collection always replaces an earlier entry with the same id. Output
// ordering is deterministic (kickoff then id) so repeated merges over the
// same inputs are identical.
func MergeByPrecedence(collections ...[]Match) []Match {
	merged := make(map[string]Match)
	for _, collection := range collections {
		for _, m := range collection {
			if m.ID == "" {
				continue
			}
			merged[m.ID] = m
		}
	}

	out := make([]Match, 0, len(merged))
	for _, m := range merged {
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})

	return out
}

// ForceLive returns a copy of the match with live status and label. Applied
// to the validated live collection before its final merge pass so the live
// signal wins over any date-derived status.
func ForceLive(m Match) Match {
	m.Status = StatusLive
	m.Time = "LIVE"
	return m
}

// ForceLiveAll maps ForceLive over a collection.
func ForceLiveAll(matches []Match) []Match {
	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		out = append(out, ForceLive(m))
	}
	return out
}
