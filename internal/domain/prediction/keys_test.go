package prediction

import (
	"testing"
	"time"
)

func TestWeekID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{"midweek", time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC), "16-22-03-2026"},
		{"monday maps to itself", time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), "16-22-03-2026"},
		{"sunday belongs to previous monday", time.Date(2026, 3, 22, 23, 0, 0, 0, time.UTC), "16-22-03-2026"},
		{"week crossing a month boundary", time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), "30-05-03-2026"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := WeekID(tt.date); got != tt.want {
				t.Fatalf("WeekID(%s) = %q, want %q", tt.date.Format(time.DateOnly), got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	want := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	for _, value := range []string{"2026-08-30", "30-08-2026"} {
		got, err := ParseDate(value)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", value, err)
		}
		if !got.Equal(want) {
			t.Fatalf("ParseDate(%q) = %s, want %s", value, got, want)
		}
	}

	if _, err := ParseDate("next tuesday"); err == nil {
		t.Fatal("expected error for unrecognized date")
	}
}

func TestGenerateID(t *testing.T) {
	t.Parallel()

	if got := GenerateID("Arsenal", "Chelsea FC", "20:00"); got != "arsenal-vs-chelsea-fc-20-00" {
		t.Fatalf("GenerateID = %q", got)
	}
	if got := GenerateID("A.C. Milan", "Inter", ""); got != "a-c-milan-vs-inter-00-00" {
		t.Fatalf("GenerateID with empty time = %q", got)
	}
}

func TestIsApproved(t *testing.T) {
	t.Parallel()

	rejected := false
	approved := true

	if !(Prediction{}).IsApproved() {
		t.Fatal("missing flag should count as approved")
	}
	if !(Prediction{Approved: &approved}).IsApproved() {
		t.Fatal("explicit true should be approved")
	}
	if (Prediction{Approved: &rejected}).IsApproved() {
		t.Fatal("explicit false should be rejected")
	}
}
