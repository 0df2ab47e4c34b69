package sanitize

import (
	"strconv"
	"strings"
	"time"
)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime reads the ISO-8601 subset found in exports: a date, optionally
// followed by a time (T or space separated, fractional seconds allowed) and a
// "Z" or numeric offset. Times without an offset are UTC. Empty or unparseable
// input reports false.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(String(s))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// TimeOnDate places an "HH:MM:SS" time of day on base's date, in base's
// location, with zero sub-second precision. A missing hms or zero base falls
// back to base, then to now. Malformed or out of range values also fall back.
func TimeOnDate(hms string, base, now time.Time) time.Time {
	fallback := base
	if fallback.IsZero() {
		fallback = now
	}
	hms = strings.TrimSpace(hms)
	if hms == "" || base.IsZero() {
		return fallback
	}

	parts := strings.Split(hms, ":")
	if len(parts) > 3 {
		return fallback
	}
	var clock [3]int
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return fallback
		}
		clock[i] = n
	}
	if clock[0] > 23 || clock[1] > 59 || clock[2] > 59 {
		return fallback
	}

	y, m, d := base.Date()
	return time.Date(y, m, d, clock[0], clock[1], clock[2], 0, base.Location())
}
