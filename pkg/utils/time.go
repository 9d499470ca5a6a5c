package utils

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD or RFC3339")

// Bound tells ParseDateBound which end of a range a value closes.
type Bound int

const (
	RangeStart Bound = iota
	RangeEnd
)

const dayLayout = "2006-01-02"

// Most specific first; only dayLayout is widened at the end of a range.
var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", dayLayout}

// ParseDateBound reads a user supplied range bound. Values without an offset
// are taken in loc. A bare day closing a range covers that whole day.
func ParseDateBound(value string, bound Bound, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err != nil {
			continue
		}
		if layout == dayLayout && bound == RangeEnd {
			t = t.AddDate(0, 0, 1).Add(-time.Second)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
}
