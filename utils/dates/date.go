package dates

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateFormat = "2006-01-02"
)

// Feeds publish naive timestamps in Beijing time.
var Beijing = time.FixedZone("CST", 8*3600)

// ParseDeadline parses a feed deadline. Accepted forms: ISO-8601 with an
// explicit offset, a trailing Z, or a naive timestamp which is assumed to be
// Beijing time.
func ParseDeadline(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty deadline")
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}

	naiveLayouts := []string{
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		DateFormat,
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, raw, Beijing); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized deadline %q", raw)
}

func DateToString(from time.Time, dateFormat string) string {
	return from.Format(dateFormat)
}

func StringToDate(from string, dateFormat string) (time.Time, error) {
	return time.Parse(dateFormat, from)
}
