package chat

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mnemocron/telestats/internal/model"
)

// Counters accumulates per-bucket values for one participant. Map keys
// are the union of buckets actually encountered during the pass.
type Counters struct {
	Months   map[time.Time]int
	Days     map[time.Time]int
	Weekdays map[int]int
	Hours    map[int]int

	MonthChars map[time.Time]int
	DayChars   map[time.Time]int

	MonthKeywordHits map[time.Time]int
	DayKeywordHits   map[time.Time]int

	MonthReplies         map[time.Time]int
	MonthReplySeconds    map[time.Time]float64
	MonthAvgReplySeconds map[time.Time]float64
	MonthInitiations     map[time.Time]int

	MonthPictures map[time.Time]int

	MonthCalls       map[time.Time]int
	MonthCallSeconds map[time.Time]int
	CallHours        map[int]int
}

// NewCounters returns an empty counter set.
func NewCounters() Counters {
	return Counters{
		Months:               map[time.Time]int{},
		Days:                 map[time.Time]int{},
		Weekdays:             map[int]int{},
		Hours:                map[int]int{},
		MonthChars:           map[time.Time]int{},
		DayChars:             map[time.Time]int{},
		MonthKeywordHits:     map[time.Time]int{},
		DayKeywordHits:       map[time.Time]int{},
		MonthReplies:         map[time.Time]int{},
		MonthReplySeconds:    map[time.Time]float64{},
		MonthAvgReplySeconds: map[time.Time]float64{},
		MonthInitiations:     map[time.Time]int{},
		MonthPictures:        map[time.Time]int{},
		MonthCalls:           map[time.Time]int{},
		MonthCallSeconds:     map[time.Time]int{},
		CallHours:            map[int]int{},
	}
}

// Aggregate runs the single pass over the ordered message stream and
// accumulates all per-bucket counters for both participants. Messages
// before cfg.Since are examined in order but contribute to nothing,
// including reply-tracker state. Call events are booked on participant
// A only and mirrored onto B afterwards: calls are bidirectional and
// the export does not attribute them, so both reports show the same
// combined call statistics.
func Aggregate(msgs []model.Message, nameA string, cfg model.AnalysisConfig) *PerParticipant[Counters] {
	agg := &PerParticipant[Counters]{A: NewCounters(), B: NewCounters()}
	keywords := lowerKeywords(cfg.Keywords)
	var tracker ReplyTracker

	for _, msg := range msgs {
		if msg.Kind == model.KindSkip {
			continue
		}
		if msg.Time.Before(cfg.Since) {
			continue
		}
		buckets := BucketsOf(msg.Time)
		who, category := Classify(msg, nameA)
		switch category {
		case CategoryText:
			c := agg.Of(who)
			c.Months[buckets.Month]++
			c.Days[buckets.Day]++
			c.Weekdays[buckets.Weekday]++
			c.Hours[buckets.Hour]++
			for _, line := range msg.Text {
				chars := utf8.RuneCountInString(line)
				c.MonthChars[buckets.Month] += chars
				c.DayChars[buckets.Day] += chars
				hits := countOccurrences(line, keywords)
				c.MonthKeywordHits[buckets.Month] += hits
				c.DayKeywordHits[buckets.Day] += hits
			}
			if msg.HasPhoto {
				c.MonthPictures[buckets.Month]++
			}
			ev := tracker.Observe(msg.Sender, msg.Time)
			switch ev.Kind {
			case ReplyInitiation:
				c.MonthInitiations[buckets.Month]++
			case ReplyReply:
				c.MonthReplies[buckets.Month]++
				c.MonthReplySeconds[buckets.Month] += ev.LatencySeconds
				c.MonthAvgReplySeconds[buckets.Month] =
					c.MonthReplySeconds[buckets.Month] / float64(c.MonthReplies[buckets.Month])
			}
		case CategoryCall:
			c := &agg.A
			c.MonthCalls[buckets.Month]++
			c.MonthCallSeconds[buckets.Month] += msg.CallSeconds
			c.CallHours[buckets.Hour]++
		}
	}

	mirrorCalls(agg)
	return agg
}

// mirrorCalls copies A's call counters onto B's view so that both
// participants report identical combined call statistics.
func mirrorCalls(agg *PerParticipant[Counters]) {
	agg.B.MonthCalls = cloneMap(agg.A.MonthCalls)
	agg.B.MonthCallSeconds = cloneMap(agg.A.MonthCallSeconds)
	agg.B.CallHours = cloneMap(agg.A.CallHours)
}

func cloneMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func lowerKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		out = append(out, kw)
	}
	return out
}

// countOccurrences counts case-insensitive substring occurrences of
// every keyword in the line.
func countOccurrences(line string, keywords []string) int {
	if len(keywords) == 0 {
		return 0
	}
	lowered := strings.ToLower(line)
	count := 0
	for _, kw := range keywords {
		count += strings.Count(lowered, kw)
	}
	return count
}
