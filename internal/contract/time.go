package contract

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/pitfeat/schema"
)

// Define the regular expression to capture "N [units]".
var lookbackDurationRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day|hour|minute)s?$`)

// Period is a calendar step expressed in years, months and days.
type Period struct {
	Years  int
	Months int
	Days   int
}

// IsZero reports whether the period does not advance time.
func (p Period) IsZero() bool {
	return p.Years == 0 && p.Months == 0 && p.Days == 0
}

// AddTo advances t by the period using calendar arithmetic.
func (p Period) AddTo(t time.Time) time.Time {
	return t.AddDate(p.Years, p.Months, p.Days)
}

// ParsePeriod converts strings like "6 months" or "1 year" into a calendar Period.
// Hours and minutes are rejected since snapshots are whole days.
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	matches := lookbackDurationRe.FindStringSubmatch(s)
	if len(matches) == 0 {
		return Period{}, fmt.Errorf("invalid period format: %s", s)
	}

	value, _ := strconv.Atoi(matches[1])
	if value == 0 {
		return Period{}, errors.New("zero period is not useful")
	}

	switch matches[2] {
	case "year":
		return Period{Years: value}, nil
	case "month":
		return Period{Months: value}, nil
	case "week":
		return Period{Days: 7 * value}, nil
	case "day":
		return Period{Days: value}, nil
	default:
		return Period{}, fmt.Errorf("period unit must be day or coarser: %s", s)
	}
}

// ParseLookbackDuration converts strings like "3 months" or "720h" into a single time.Duration.
// It first tries Go's built-in time.ParseDuration for standard formats, then falls back
// to custom parsing for human-readable formats.
func ParseLookbackDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	if duration, err := time.ParseDuration(s); err == nil {
		if duration == 0 {
			return 0, errors.New("zero duration is not useful")
		}
		return duration, nil
	}

	s = strings.ToLower(s)
	matches := lookbackDurationRe.FindStringSubmatch(s)
	if len(matches) == 0 {
		return 0, fmt.Errorf("invalid lookback duration format: %s", s)
	}

	value, _ := strconv.Atoi(matches[1])
	const day = 24 * time.Hour

	var total time.Duration
	switch matches[2] {
	case "year":
		// Approximation: 1 year ≈ 365 days
		total = time.Duration(value) * 365 * day
	case "month":
		// Approximation: 1 month ≈ 30 days
		total = time.Duration(value) * 30 * day
	case "week":
		total = time.Duration(value) * 7 * day
	case "day":
		total = time.Duration(value) * day
	case "hour":
		total = time.Duration(value) * time.Hour
	case "minute":
		total = time.Duration(value) * time.Minute
	}

	if total == 0 {
		return 0, errors.New("zero duration is not useful")
	}
	return total, nil
}

// ParseSnapshot parses a cohort fake_today token. The same layout is used
// wherever a snapshot string becomes a timestamp.
func ParseSnapshot(s string) (time.Time, error) {
	t, err := time.Parse(schema.SnapshotLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid fake_today %q (expected layout %s): %w", s, schema.SnapshotLayout, err)
	}
	return t, nil
}

// FormatSnapshot renders a timestamp as a cohort fake_today token.
func FormatSnapshot(t time.Time) string {
	return t.Format(schema.SnapshotLayout)
}

// ParseRawDate parses a raw data extraction date.
func ParseRawDate(s string) (time.Time, error) {
	t, err := time.Parse(schema.RawDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// IntervalLiteral normalizes a lookback into text PostgreSQL accepts as an
// interval, e.g. "3 months" or "2592000 seconds" for "720h".
// Only the grammar accepted by ParseLookbackDuration gets through.
func IntervalLiteral(s string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if matches := lookbackDurationRe.FindStringSubmatch(trimmed); len(matches) > 0 {
		value, _ := strconv.Atoi(matches[1])
		if value == 0 {
			return "", errors.New("zero duration is not useful")
		}
		return fmt.Sprintf("%d %ss", value, matches[2]), nil
	}
	d, err := ParseLookbackDuration(s)
	if err != nil {
		return "", err
	}
	if d < time.Second {
		return "", fmt.Errorf("lookback must be at least one second: %s", s)
	}
	return fmt.Sprintf("%d seconds", int64(d/time.Second)), nil
}
