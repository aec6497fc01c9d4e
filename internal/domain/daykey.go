package domain

import "time"

// dayKeyLayout is the bucket format used by the day-counter tables.
const dayKeyLayout = "2006-01-02"

// DayKey formats the instant as the calendar-day bucket it falls into in the
// given location. Day boundaries for counters and streaks are local-midnight
// boundaries, unlike review due times which are fixed 24-hour offsets.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayKeyLayout)
}

// ParseDayKey parses a day bucket back into its local midnight.
func ParseDayKey(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dayKeyLayout, key, loc)
}
