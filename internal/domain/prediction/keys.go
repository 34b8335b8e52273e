package prediction

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// The prediction store is keyed three levels deep:
// {weekID}/{dayOfWeek}/{dateID}, where weekID spans Monday to Sunday.

var nonAlnumRegex = regexp.MustCompile(`[^a-z0-9]+`)

// DateID formats a date key as DD-MM-YYYY.
func DateID(t time.Time) string {
	return t.Format("02-01-2006")
}

// WeekID formats the Monday-to-Sunday week containing t as
// "<mondayDD>-<sundayDD>-<MM>-<YYYY>", with month and year taken from the
// Monday.
func WeekID(t time.Time) string {
	offset := 1 - int(t.Weekday())
	if t.Weekday() == time.Sunday {
		offset = -6
	}
	monday := t.AddDate(0, 0, offset)
	sunday := monday.AddDate(0, 0, 6)

	return fmt.Sprintf("%s-%s-%s", monday.Format("02"), sunday.Format("02"), monday.Format("01-2006"))
}

// DayOfWeek returns the English weekday name used as the middle key.
func DayOfWeek(t time.Time) string {
	return t.Weekday().String()
}

// ParseDate accepts the two date formats clients send: YYYY-MM-DD and
// DD-MM-YYYY.
func ParseDate(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "02-01-2006"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// GenerateID derives a stable slug for entries stored without one, e.g.
// "arsenal-vs-chelsea-20-00".
func GenerateID(home, away, timeLabel string) string {
	if timeLabel == "" {
		timeLabel = "00:00"
	}
	return fmt.Sprintf("%s-vs-%s-%s", slugify(home), slugify(away), strings.ReplaceAll(timeLabel, ":", "-"))
}

func slugify(value string) string {
	slug := nonAlnumRegex.ReplaceAllString(strings.ToLower(value), "-")
	return strings.Trim(slug, "-")
}
