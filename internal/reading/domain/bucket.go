package domain

import (
	"strings"
	"time"
)

// Granularity is the calendar resolution of a chart bucket.
type Granularity string

const (
	GranularityHourly  Granularity = "hourly"
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
)

// ParseGranularity validates a caller-supplied granularity string.
func ParseGranularity(value string) (Granularity, error) {
	switch Granularity(strings.ToLower(strings.TrimSpace(value))) {
	case GranularityHourly:
		return GranularityHourly, nil
	case GranularityDaily:
		return GranularityDaily, nil
	case GranularityWeekly:
		return GranularityWeekly, nil
	case GranularityMonthly:
		return GranularityMonthly, nil
	default:
		return "", ErrInvalidGranularity
	}
}

// DefaultPeriod is how far back a chart reaches when the caller omits the
// range start.
func (g Granularity) DefaultPeriod() time.Duration {
	switch g {
	case GranularityHourly:
		return 24 * time.Hour
	case GranularityDaily:
		return 30 * 24 * time.Hour
	case GranularityWeekly:
		return 28 * 24 * time.Hour
	default:
		return 365 * 24 * time.Hour
	}
}

// BucketKey is the storage-friendly representation of a bucket boundary.
// Weekly keys carry the date of the ISO week's Monday, which makes the
// year-boundary week unambiguous without an ISO week-year component.
type BucketKey string

func (k BucketKey) String() string { return string(k) }

// Key maps a timestamp to the bucket it belongs to. A timestamp exactly on a
// boundary belongs to the bucket it starts.
func (g Granularity) Key(ts time.Time) BucketKey {
	return BucketKey(g.BucketStart(ts).Format(g.layout()))
}

// Start is the inverse of Key: the bucket's first instant.
func (g Granularity) Start(key BucketKey) (time.Time, error) {
	start, err := time.ParseInLocation(g.layout(), string(key), time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidBucketKey
	}
	return start, nil
}

// BucketStart truncates a timestamp to the start of its calendar bucket,
// preserving the timestamp's location.
func (g Granularity) BucketStart(ts time.Time) time.Time {
	year, month, day := ts.Date()
	switch g {
	case GranularityHourly:
		return time.Date(year, month, day, ts.Hour(), 0, 0, 0, ts.Location())
	case GranularityDaily:
		return time.Date(year, month, day, 0, 0, 0, 0, ts.Location())
	case GranularityWeekly:
		dayStart := time.Date(year, month, day, 0, 0, 0, 0, ts.Location())
		offset := (int(dayStart.Weekday()) + 6) % 7 // days since Monday
		return dayStart.AddDate(0, 0, -offset)
	default:
		return time.Date(year, month, 1, 0, 0, 0, 0, ts.Location())
	}
}

// Next is the start of the bucket following the given bucket start. Months
// vary in length, so the step is calendar arithmetic, not a fixed duration.
func (g Granularity) Next(start time.Time) time.Time {
	switch g {
	case GranularityHourly:
		return start.Add(time.Hour)
	case GranularityDaily:
		return start.AddDate(0, 0, 1)
	case GranularityWeekly:
		return start.AddDate(0, 0, 7)
	default:
		return start.AddDate(0, 1, 0)
	}
}

func (g Granularity) layout() string {
	switch g {
	case GranularityHourly:
		return "2006010215"
	case GranularityDaily, GranularityWeekly:
		return "20060102"
	default:
		return "200601"
	}
}
