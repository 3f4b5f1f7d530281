package chat

import "time"

// Buckets holds the calendar keys derived from one timestamp.
type Buckets struct {
	Day     time.Time // calendar date at midnight
	Month   time.Time // first of the month at midnight
	Weekday int       // Monday=0 .. Sunday=6
	Hour    int       // 0-23
}

// BucketsOf derives all bucket keys for a timestamp. No timezone
// conversion is performed; the timestamp is taken as given.
func BucketsOf(ts time.Time) Buckets {
	year, month, day := ts.Date()
	return Buckets{
		Day:     time.Date(year, month, day, 0, 0, 0, 0, ts.Location()),
		Month:   time.Date(year, month, 1, 0, 0, 0, 0, ts.Location()),
		Weekday: (int(ts.Weekday()) + 6) % 7,
		Hour:    ts.Hour(),
	}
}
