// Package query implements the matching primitives shared by the dataset
// servers: case-folded substring search, code comparison, inclusive numeric
// and temporal ranges, and slice pagination. Every filter in this module is
// conjunctive, so a record survives only when all supplied criteria match.
package query

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// zonelessLayout is the timestamp form some datasets carry without a zone
// designator. Instants in this form are read as UTC.
const zonelessLayout = "2006-01-02T15:04:05"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ContainsFold reports whether s contains substr, ignoring case. An empty
// substr matches everything.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// EqualCode reports whether two station or airport style codes match,
// ignoring case.
func EqualCode(a, b string) bool {
	return strings.EqualFold(a, b)
}

// InRange reports whether v lies within the inclusive [min, max] bounds.
// A nil bound imposes no constraint.
func InRange(v float64, min, max *float64) bool {
	if min != nil && v < *min {
		return false
	}
	if max != nil && v > *max {
		return false
	}
	return true
}

// ParseTime parses an RFC 3339 timestamp, tolerating a missing zone
// designator by reading the instant as UTC.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(zonelessLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// InTimeRange reports whether t falls within the inclusive bounds. A
// zero-valued bound imposes no constraint.
func InTimeRange(t, min, max time.Time) bool {
	if !min.IsZero() && t.Before(min) {
		return false
	}
	if !max.IsZero() && t.After(max) {
		return false
	}
	return true
}

// ValidDate reports whether s is a calendar date in YYYY-MM-DD form.
func ValidDate(s string) bool {
	return datePattern.MatchString(s)
}
