package chat

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/mnemocron/telestats/internal/model"
)

// FrequencyEntry is one token with its occurrence count.
type FrequencyEntry struct {
	Token string
	Count int
}

// ParticipantMetrics are the finalized statistics for one participant.
type ParticipantMetrics struct {
	Name          string
	TotalMessages int
	TotalWords    int
	TotalChars    int
	UniqueWords   int
	Photos        int
	AvgWords      float64
	AvgChars      float64
	WordList      []FrequencyEntry
	EmojiList     []FrequencyEntry
	Counters      Counters
}

// Metrics is the final per-participant output of an analysis run.
type Metrics struct {
	A     ParticipantMetrics
	B     ParticipantMetrics
	Total int
}

// Finalize derives totals, averages, and ranked frequency lists from a
// raw scan of the stream, independent of bucketing, and attaches the
// accumulated counters. An empty stream yields zero-valued metrics.
func Finalize(msgs []model.Message, nameA string, cfg model.AnalysisConfig, counters *PerParticipant[Counters]) Metrics {
	var totals PerParticipant[rawTotals]
	totals.A.init()
	totals.B.init()
	totals.A.name = nameA

	for _, msg := range msgs {
		if msg.Time.Before(cfg.Since) {
			continue
		}
		who, category := Classify(msg, nameA)
		if category != CategoryText {
			continue
		}
		t := totals.Of(who)
		t.messages++
		if msg.Sender != "" {
			t.name = msg.Sender
		}
		if msg.HasPhoto {
			t.photos++
		}
		for _, line := range msg.Text {
			t.chars += utf8.RuneCountInString(line)
			for _, token := range strings.Fields(line) {
				t.words++
				t.addWord(strings.ToLower(token))
			}
			for _, r := range line {
				if isEmoji(r) {
					t.addEmoji(string(r))
				}
			}
		}
	}

	out := Metrics{
		A:     totals.A.metrics(),
		B:     totals.B.metrics(),
		Total: totals.A.messages + totals.B.messages,
	}
	if counters != nil {
		out.A.Counters = counters.A
		out.B.Counters = counters.B
	}
	return out
}

// rawTotals accumulates the bucket-independent totals for one
// participant during the finalizer scan.
type rawTotals struct {
	name     string
	messages int
	words    int
	chars    int
	photos   int

	wordCounts map[string]int
	wordOrder  []string
	emojiCount map[string]int
	emojiOrder []string
}

func (t *rawTotals) init() {
	t.wordCounts = map[string]int{}
	t.emojiCount = map[string]int{}
}

func (t *rawTotals) addWord(token string) {
	if _, seen := t.wordCounts[token]; !seen {
		t.wordOrder = append(t.wordOrder, token)
	}
	t.wordCounts[token]++
}

func (t *rawTotals) addEmoji(token string) {
	if _, seen := t.emojiCount[token]; !seen {
		t.emojiOrder = append(t.emojiOrder, token)
	}
	t.emojiCount[token]++
}

func (t *rawTotals) metrics() ParticipantMetrics {
	m := ParticipantMetrics{
		Name:          t.name,
		TotalMessages: t.messages,
		TotalWords:    t.words,
		TotalChars:    t.chars,
		UniqueWords:   len(t.wordCounts),
		Photos:        t.photos,
		WordList:      rankedList(t.wordCounts, t.wordOrder),
		EmojiList:     rankedList(t.emojiCount, t.emojiOrder),
	}
	if t.messages > 0 {
		m.AvgWords = float64(t.words) / float64(t.messages)
		m.AvgChars = float64(t.chars) / float64(t.messages)
	}
	return m
}

// rankedList builds a frequency list sorted descending by count, ties
// broken by first-encountered order.
func rankedList(counts map[string]int, order []string) []FrequencyEntry {
	entries := make([]FrequencyEntry, 0, len(order))
	for _, token := range order {
		entries = append(entries, FrequencyEntry{Token: token, Count: counts[token]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}

// isEmoji reports whether the rune falls into the common emoji blocks.
// Variation selectors and zero-width joiners are not counted, so a
// composed sequence contributes its base pictographs.
func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1F5FF: // symbols and pictographs
		return true
	case r >= 0x1F600 && r <= 0x1F64F: // emoticons
		return true
	case r >= 0x1F680 && r <= 0x1F6FF: // transport and map
		return true
	case r >= 0x1F900 && r <= 0x1F9FF: // supplemental pictographs
		return true
	case r >= 0x1FA70 && r <= 0x1FAFF: // extended pictographs
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators
		return true
	case r >= 0x2600 && r <= 0x26FF: // miscellaneous symbols
		return true
	case r >= 0x2700 && r <= 0x27BF: // dingbats
		return true
	default:
		return false
	}
}
