package match

import (
	"testing"
)

func TestMergeByPrecedence_LaterCollectionsWin(t *testing.T) {
	t.Parallel()

	all := []Match{
		{ID: "m1", Status: StatusUpcoming, League: "Stale"},
		{ID: "m2", Status: StatusUpcoming},
	}
	today := []Match{
		{ID: "m1", Status: StatusUpcoming, League: "Fresh"},
		{ID: "m3", Status: StatusUpcoming},
	}
	live := []Match{
		{ID: "m2", Status: StatusLive, Time: "LIVE"},
	}

	merged := MergeByPrecedence(all, today, ForceLiveAll(live))

	if len(merged) != 3 {
		t.Fatalf("merged %d matches, want 3", len(merged))
	}

	byID := make(map[string]Match, len(merged))
	for _, m := range merged {
		byID[m.ID] = m
	}

	if byID["m1"].League != "Fresh" {
		t.Fatalf("m1 league = %q, want the higher-precedence value", byID["m1"].League)
	}
	if byID["m2"].Status != StatusLive || byID["m2"].Time != "LIVE" {
		t.Fatalf("m2 = %+v, want forced live", byID["m2"])
	}
}

func TestMergeByPrecedence_DeterministicOrder(t *testing.T) {
	t.Parallel()

	a := []Match{
		{ID: "z", Date: 100},
		{ID: "a", Date: 100},
		{ID: "m", Date: 50},
	}

	first := MergeByPrecedence(a)
	second := MergeByPrecedence(nil, a, nil)

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("unexpected lengths %d, %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("merge order not stable: %v vs %v", first, second)
		}
	}
	if first[0].ID != "m" || first[1].ID != "a" || first[2].ID != "z" {
		t.Fatalf("order = %v, want kickoff then id", []string{first[0].ID, first[1].ID, first[2].ID})
	}
}

func TestMergeByPrecedence_SkipsEmptyIDs(t *testing.T) {
	t.Parallel()

	merged := MergeByPrecedence([]Match{{ID: ""}, {ID: "ok"}})
	if len(merged) != 1 || merged[0].ID != "ok" {
		t.Fatalf("merged = %+v, want only the match with an id", merged)
	}
}

func TestForceLive_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	original := Match{ID: "m1", Status: StatusUpcoming, Time: "20:00"}
	forced := ForceLive(original)

	if original.Status != StatusUpcoming || original.Time != "20:00" {
		t.Fatalf("input mutated: %+v", original)
	}
	if forced.Status != StatusLive || forced.Time != "LIVE" {
		t.Fatalf("forced = %+v", forced)
	}
}
