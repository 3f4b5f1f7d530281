package stats

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/mnemocron/telestats/internal/chat"
)

const (
	dayBucketLayout   = "2006-01-02"
	monthBucketLayout = "2006-01"
)

// WriteCSVDumps writes one semicolon-separated file per counter into
// dir, each with a bucket column and one value column per participant.
func WriteCSVDumps(dir string, agg *chat.PerParticipant[chat.Counters], nameA, nameB string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create csv directory: %w", err)
	}

	intDumps := []struct {
		file   string
		layout string
		a, b   map[time.Time]int
	}{
		{"months.csv", monthBucketLayout, agg.A.Months, agg.B.Months},
		{"months_chars.csv", monthBucketLayout, agg.A.MonthChars, agg.B.MonthChars},
		{"days.csv", dayBucketLayout, agg.A.Days, agg.B.Days},
		{"days_chars.csv", dayBucketLayout, agg.A.DayChars, agg.B.DayChars},
		{"monthly_pictures.csv", monthBucketLayout, agg.A.MonthPictures, agg.B.MonthPictures},
		{"monthly_calls.csv", monthBucketLayout, agg.A.MonthCalls, agg.B.MonthCalls},
		{"monthly_call_duration.csv", monthBucketLayout, agg.A.MonthCallSeconds, agg.B.MonthCallSeconds},
		{"monthly_n_replied.csv", monthBucketLayout, agg.A.MonthReplies, agg.B.MonthReplies},
		{"monthly_new_initiation.csv", monthBucketLayout, agg.A.MonthInitiations, agg.B.MonthInitiations},
		{"monthly_word_occurrence.csv", monthBucketLayout, agg.A.MonthKeywordHits, agg.B.MonthKeywordHits},
	}
	for _, d := range intDumps {
		rows := timeRows(d.layout, d.a, d.b, formatInt)
		if err := writeCSVFile(filepath.Join(dir, d.file), nameA, nameB, rows); err != nil {
			return err
		}
	}

	avgRows := timeRows(monthBucketLayout, agg.A.MonthAvgReplySeconds, agg.B.MonthAvgReplySeconds, formatFloat)
	if err := writeCSVFile(filepath.Join(dir, "monthly_avg_reply_time.csv"), nameA, nameB, avgRows); err != nil {
		return err
	}

	if err := writeCSVFile(filepath.Join(dir, "weekdays.csv"), nameA, nameB,
		slotRows(agg.A.Weekdays, agg.B.Weekdays, 7, weekdayLabel)); err != nil {
		return err
	}
	if err := writeCSVFile(filepath.Join(dir, "hourofday.csv"), nameA, nameB,
		slotRows(agg.A.Hours, agg.B.Hours, 24, strconv.Itoa)); err != nil {
		return err
	}
	// Calls are a shared event stream; both columns carry the same values.
	return writeCSVFile(filepath.Join(dir, "call_hourofday.csv"), nameA, nameB,
		slotRows(agg.A.CallHours, agg.B.CallHours, 24, strconv.Itoa))
}

func writeCSVFile(path, nameA, nameB string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	cw.Comma = ';'
	if err := cw.Write([]string{"bucket", nameA, nameB}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close csv file: %w", err)
	}
	return nil
}

func timeRows[V int | float64](layout string, a, b map[time.Time]V, format func(V) string) [][]string {
	buckets := map[time.Time]struct{}{}
	for k := range a {
		buckets[k] = struct{}{}
	}
	for k := range b {
		buckets[k] = struct{}{}
	}
	sorted := make([]time.Time, 0, len(buckets))
	for k := range buckets {
		sorted = append(sorted, k)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	rows := make([][]string, 0, len(sorted))
	for _, bucket := range sorted {
		rows = append(rows, []string{bucket.Format(layout), format(a[bucket]), format(b[bucket])})
	}
	return rows
}

func slotRows(a, b map[int]int, slots int, label func(int) string) [][]string {
	rows := make([][]string, 0, slots)
	for i := 0; i < slots; i++ {
		rows = append(rows, []string{label(i), strconv.Itoa(a[i]), strconv.Itoa(b[i])})
	}
	return rows
}

func weekdayLabel(i int) string {
	if i >= 0 && i < len(weekdayNames) {
		return weekdayNames[i]
	}
	return strconv.Itoa(i)
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
