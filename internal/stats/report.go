package stats

import (
	"fmt"
	"io"
	"time"

	"github.com/mnemocron/telestats/internal/chat"
)

const (
	// FrequencyLimit is how many entries of each ranked list the text
	// report shows.
	FrequencyLimit = 5
	// LongWordMinRunes is the minimum token length for the long-word list.
	LongWordMinRunes = 5
)

var weekdayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// RenderReport prints the per-participant totals and the combined
// total in the classic text_results layout.
func RenderReport(w io.Writer, m chat.Metrics) error {
	for _, pm := range []chat.ParticipantMetrics{m.A, m.B} {
		if err := renderParticipant(w, pm); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, "[ combined stats ]"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "total message count:\t%d\n", m.Total); err != nil {
		return err
	}
	return nil
}

func renderParticipant(w io.Writer, pm chat.ParticipantMetrics) error {
	name := pm.Name
	if name == "" {
		name = "unknown"
	}
	if _, err := fmt.Fprintf(w, "[ name: %s ]\n", name); err != nil {
		return err
	}
	rows := [][]string{
		{"total message count:", fmt.Sprintf("%d", pm.TotalMessages)},
		{"total word count:", fmt.Sprintf("%d", pm.TotalWords)},
		{"total character count:", fmt.Sprintf("%d", pm.TotalChars)},
		{"average word count:", fmt.Sprintf("%.2f", pm.AvgWords)},
		{"average character count:", fmt.Sprintf("%.2f", pm.AvgChars)},
		{"total unique words:", fmt.Sprintf("%d", pm.UniqueWords)},
		{"total photos:", fmt.Sprintf("%d", pm.Photos)},
	}
	for _, line := range formatTable(nil, rows, map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderFrequencies prints the ranked emoji, word, and long-word lists
// for both participants.
func RenderFrequencies(w io.Writer, m chat.Metrics) error {
	sections := []struct {
		title string
		pick  func(chat.ParticipantMetrics) []chat.FrequencyEntry
	}{
		{"Top emojis", func(pm chat.ParticipantMetrics) []chat.FrequencyEntry {
			return TopEntries(pm.EmojiList, FrequencyLimit)
		}},
		{"Top words", func(pm chat.ParticipantMetrics) []chat.FrequencyEntry {
			return TopEntries(pm.WordList, FrequencyLimit)
		}},
		{"Top long words", func(pm chat.ParticipantMetrics) []chat.FrequencyEntry {
			return LongWordEntries(pm.WordList, LongWordMinRunes, FrequencyLimit)
		}},
	}
	for _, section := range sections {
		if _, err := fmt.Fprintln(w, section.title); err != nil {
			return err
		}
		for _, pm := range []chat.ParticipantMetrics{m.A, m.B} {
			if err := renderFrequencyList(w, pm.Name, section.pick(pm)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, ""); err != nil {
			return err
		}
	}
	return nil
}

func renderFrequencyList(w io.Writer, name string, entries []chat.FrequencyEntry) error {
	if name == "" {
		name = "unknown"
	}
	if _, err := fmt.Fprintln(w, name); err != nil {
		return err
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "  (none)")
		return err
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{"  " + e.Token, fmt.Sprintf("%d", e.Count)})
	}
	for _, line := range formatTable(nil, rows, map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderActivity prints weekday and hour-of-day message distributions
// as aligned tables with sparklines.
func RenderActivity(w io.Writer, m chat.Metrics) error {
	if _, err := fmt.Fprintln(w, "Messages by weekday"); err != nil {
		return err
	}
	weekA := WeekdayHistogram(m.A.Counters.Weekdays)
	weekB := WeekdayHistogram(m.B.Counters.Weekdays)
	rows := make([][]string, 0, len(weekdayNames))
	for i, day := range weekdayNames {
		rows = append(rows, []string{day, fmt.Sprintf("%d", int(weekA[i])), fmt.Sprintf("%d", int(weekB[i]))})
	}
	headers := []string{"Day", labelOr(m.A.Name, "A"), labelOr(m.B.Name, "B")}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "Messages by hour of day (00-23)"); err != nil {
		return err
	}
	hourA := HourHistogram(m.A.Counters.Hours)
	hourB := HourHistogram(m.B.Counters.Hours)
	if _, err := fmt.Fprintf(w, "%s\t%s\n", labelOr(m.A.Name, "A"), Sparkline(hourA)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\t%s\n", labelOr(m.B.Name, "B"), Sparkline(hourB)); err != nil {
		return err
	}

	callHours := HourHistogram(m.A.Counters.CallHours)
	if !allZero(callHours) {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", "calls", Sparkline(callHours)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderPlots prints the monthly braille plot suite, one plot per
// counter, both participants as overlaid series. Color is decided by
// terminal detection on w.
func RenderPlots(w io.Writer, m chat.Metrics, width, height int) error {
	return RenderPlotsWithColor(w, m, width, height, false)
}

// RenderPlotsWithColor is RenderPlots with color output forced on,
// for writers that are not terminals, such as TUI render buffers.
func RenderPlotsWithColor(w io.Writer, m chat.Metrics, width, height int, forceColor bool) error {
	nameA := labelOr(m.A.Name, "A")
	nameB := labelOr(m.B.Name, "B")

	intPlots := []struct {
		title string
		a, b  map[time.Time]int
	}{
		{"Messages per month", m.A.Counters.Months, m.B.Counters.Months},
		{"Characters per month", m.A.Counters.MonthChars, m.B.Counters.MonthChars},
		{"Conversations initiated per month", m.A.Counters.MonthInitiations, m.B.Counters.MonthInitiations},
		{"Pictures per month", m.A.Counters.MonthPictures, m.B.Counters.MonthPictures},
		{"Keyword occurrences per month", m.A.Counters.MonthKeywordHits, m.B.Counters.MonthKeywordHits},
	}
	for _, p := range intPlots {
		axis := MonthAxis(p.a, p.b)
		if len(axis) == 0 {
			continue
		}
		series := []Series{
			SeriesOver(nameA, axis, p.a),
			SeriesOver(nameB, axis, p.b),
		}
		if err := PlotMonthly(w, p.title, axis, series, width, height, forceColor); err != nil {
			return err
		}
	}

	axis := MonthAxis(m.A.Counters.MonthAvgReplySeconds, m.B.Counters.MonthAvgReplySeconds)
	if len(axis) == 0 {
		return nil
	}
	series := []Series{
		SeriesOver(nameA, axis, m.A.Counters.MonthAvgReplySeconds),
		SeriesOver(nameB, axis, m.B.Counters.MonthAvgReplySeconds),
	}
	return PlotMonthly(w, "Average reply time per month (seconds)", axis, series, width, height, forceColor)
}

func labelOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

func allZero(values []float64) bool {
	for _, v := range values {
		if v != 0 {
			return false
		}
	}
	return true
}
