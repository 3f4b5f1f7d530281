package chat

import (
	"testing"
	"time"
)

func TestBucketsOf(t *testing.T) {
	// 2018-10-03 was a Wednesday.
	ts := time.Date(2018, time.October, 3, 17, 45, 12, 0, time.Local)
	b := BucketsOf(ts)
	if want := time.Date(2018, time.October, 3, 0, 0, 0, 0, time.Local); !b.Day.Equal(want) {
		t.Fatalf("day bucket = %v, want %v", b.Day, want)
	}
	if want := time.Date(2018, time.October, 1, 0, 0, 0, 0, time.Local); !b.Month.Equal(want) {
		t.Fatalf("month bucket = %v, want %v", b.Month, want)
	}
	if b.Weekday != 2 {
		t.Fatalf("weekday = %d, want 2 (Wednesday)", b.Weekday)
	}
	if b.Hour != 17 {
		t.Fatalf("hour = %d, want 17", b.Hour)
	}
}

func TestBucketsOfWeekdayEdges(t *testing.T) {
	monday := time.Date(2018, time.October, 1, 0, 0, 0, 0, time.Local)
	if b := BucketsOf(monday); b.Weekday != 0 {
		t.Fatalf("Monday weekday = %d, want 0", b.Weekday)
	}
	sunday := time.Date(2018, time.October, 7, 23, 59, 59, 0, time.Local)
	if b := BucketsOf(sunday); b.Weekday != 6 {
		t.Fatalf("Sunday weekday = %d, want 6", b.Weekday)
	}
	if b := BucketsOf(sunday); b.Hour != 23 {
		t.Fatalf("hour = %d, want 23", b.Hour)
	}
}
