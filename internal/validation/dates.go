package validation

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date format used on the wire.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO YYYY-MM-DD date.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return t, nil
}

// Today returns the local calendar date of now in ISO form.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

// RevisionFor returns the revision date mandated for a release date: exactly one
// calendar year later. A release on Feb 29 rolls over to Mar 1 of the next year.
func RevisionFor(release string) (string, error) {
	t, err := ParseDate(release)
	if err != nil {
		return "", err
	}
	return t.AddDate(1, 0, 0).Format(DateLayout), nil
}

// NotPast reports whether date is today or later. The comparison is
// lexicographic on the ISO strings, so it ignores time zones entirely.
func NotPast(date, today string) bool {
	if _, err := ParseDate(date); err != nil {
		return false
	}
	return date >= today
}

// IsRevisionOf reports whether revision is exactly one year after release.
func IsRevisionOf(revision, release string) bool {
	want, err := RevisionFor(release)
	if err != nil {
		return false
	}
	return revision == want
}
