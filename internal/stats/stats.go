// Package stats renders aggregated chat metrics as text reports,
// terminal plots, and CSV files.
package stats

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/mnemocron/telestats/internal/chat"
)

const sparkChars = " .:-=+*#%@"

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

// MonthAxis returns the sorted union of month buckets present in any
// of the given counter maps.
func MonthAxis[V int | float64](maps ...map[time.Time]V) []time.Time {
	seen := map[time.Time]struct{}{}
	for _, m := range maps {
		for k := range m {
			seen[k] = struct{}{}
		}
	}
	months := make([]time.Time, 0, len(seen))
	for k := range seen {
		months = append(months, k)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	return months
}

// SeriesOver aligns a counter map onto the given bucket axis, filling
// zeros for missing buckets.
func SeriesOver[V int | float64](name string, axis []time.Time, counts map[time.Time]V) Series {
	values := make([]float64, len(axis))
	for i, bucket := range axis {
		values[i] = float64(counts[bucket])
	}
	return Series{Name: name, Values: values}
}

// HourHistogram flattens an hour-of-day counter into 24 slots.
func HourHistogram(counts map[int]int) []float64 {
	out := make([]float64, 24)
	for hour, n := range counts {
		if hour >= 0 && hour < 24 {
			out[hour] = float64(n)
		}
	}
	return out
}

// WeekdayHistogram flattens a weekday counter into 7 slots, Monday first.
func WeekdayHistogram(counts map[int]int) []float64 {
	out := make([]float64, 7)
	for day, n := range counts {
		if day >= 0 && day < 7 {
			out[day] = float64(n)
		}
	}
	return out
}

// TopEntries returns the first n entries of a ranked frequency list.
func TopEntries(entries []chat.FrequencyEntry, n int) []chat.FrequencyEntry {
	if n <= 0 || len(entries) == 0 {
		return nil
	}
	if n > len(entries) {
		n = len(entries)
	}
	return entries[:n]
}

// LongWordEntries returns the top n entries whose token is at least
// minRunes runes long, preserving rank order.
func LongWordEntries(entries []chat.FrequencyEntry, minRunes, n int) []chat.FrequencyEntry {
	if n <= 0 {
		return nil
	}
	out := make([]chat.FrequencyEntry, 0, n)
	for _, e := range entries {
		if len([]rune(e.Token)) < minRunes {
			continue
		}
		out = append(out, e)
		if len(out) == n {
			break
		}
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
