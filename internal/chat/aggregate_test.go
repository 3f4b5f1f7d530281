package chat

import (
	"reflect"
	"testing"
	"time"

	"github.com/mnemocron/telestats/internal/model"
)

func textMsg(ts time.Time, sender, body string) model.Message {
	return model.Message{Time: ts, Sender: sender, Kind: model.KindText, Text: []string{body}}
}

func callMsg(ts time.Time, sender string, seconds int) model.Message {
	return model.Message{Time: ts, Sender: sender, Kind: model.KindCall, CallSeconds: seconds}
}

func TestAggregateReplyScenario(t *testing.T) {
	base := time.Date(2019, 5, 1, 10, 0, 0, 0, time.Local)
	month := time.Date(2019, 5, 1, 0, 0, 0, 0, time.Local)
	msgs := []model.Message{
		textMsg(base, "Alice", "hi"),
		textMsg(base.Add(10*time.Minute), "Bob", "hey"),
		textMsg(base.Add(10*time.Minute+21600*time.Second), "Alice", "yo"),
	}
	agg := Aggregate(msgs, "Alice", model.AnalysisConfig{})

	if got := agg.A.MonthInitiations[month]; got != 2 {
		t.Fatalf("A initiations = %d, want 2", got)
	}
	if got := agg.B.MonthReplies[month]; got != 1 {
		t.Fatalf("B replies = %d, want 1", got)
	}
	if got := agg.B.MonthAvgReplySeconds[month]; got != 600 {
		t.Fatalf("B avg reply time = %v, want 600", got)
	}
	if got := agg.A.MonthReplies[month]; got != 0 {
		t.Fatalf("A replies = %d, want 0", got)
	}
}

func TestAggregateRunningAverage(t *testing.T) {
	base := time.Date(2019, 5, 1, 10, 0, 0, 0, time.Local)
	month := time.Date(2019, 5, 1, 0, 0, 0, 0, time.Local)
	// Bob replies twice: latencies 600 and 1200 seconds.
	msgs := []model.Message{
		textMsg(base, "Alice", "one"),
		textMsg(base.Add(600*time.Second), "Bob", "two"),
		textMsg(base.Add(700*time.Second), "Alice", "three"),
		textMsg(base.Add(1900*time.Second), "Bob", "four"),
	}
	agg := Aggregate(msgs, "Alice", model.AnalysisConfig{})
	if got := agg.B.MonthReplies[month]; got != 2 {
		t.Fatalf("B replies = %d, want 2", got)
	}
	if got := agg.B.MonthReplySeconds[month]; got != 1800 {
		t.Fatalf("B summed latency = %v, want 1800", got)
	}
	if got := agg.B.MonthAvgReplySeconds[month]; got != 900 {
		t.Fatalf("B avg latency = %v, want 900", got)
	}
}

func TestAggregateKeywordOccurrences(t *testing.T) {
	ts := time.Date(2019, 5, 2, 9, 0, 0, 0, time.Local)
	month := time.Date(2019, 5, 1, 0, 0, 0, 0, time.Local)
	day := time.Date(2019, 5, 2, 0, 0, 0, 0, time.Local)
	msgs := []model.Message{
		textMsg(ts, "Alice", "Our Vacation was great, vacation!"),
	}
	cfg := model.AnalysisConfig{Keywords: []string{"vacation"}}
	agg := Aggregate(msgs, "Alice", cfg)
	if got := agg.A.MonthKeywordHits[month]; got != 2 {
		t.Fatalf("monthly keyword hits = %d, want 2", got)
	}
	if got := agg.A.DayKeywordHits[day]; got != 2 {
		t.Fatalf("daily keyword hits = %d, want 2", got)
	}
}

func TestAggregateMultiFragmentBody(t *testing.T) {
	ts := time.Date(2019, 5, 2, 9, 0, 0, 0, time.Local)
	month := time.Date(2019, 5, 1, 0, 0, 0, 0, time.Local)
	msgs := []model.Message{
		{Time: ts, Sender: "Alice", Kind: model.KindText, Text: []string{"abc", "de"}},
	}
	agg := Aggregate(msgs, "Alice", model.AnalysisConfig{})
	if got := agg.A.MonthChars[month]; got != 5 {
		t.Fatalf("month chars = %d, want 5", got)
	}
	if got := agg.A.Months[month]; got != 1 {
		t.Fatalf("month messages = %d, want 1 (fragments are one message)", got)
	}
}

func TestAggregateCallsMirroredOntoB(t *testing.T) {
	base := time.Date(2019, 5, 1, 15, 0, 0, 0, time.Local)
	month := time.Date(2019, 5, 1, 0, 0, 0, 0, time.Local)
	msgs := []model.Message{
		textMsg(base, "Alice", "hello"),
		callMsg(base.Add(time.Hour), "Bob", 120),
		callMsg(base.Add(2*time.Hour), "Alice", 60),
	}
	agg := Aggregate(msgs, "Alice", model.AnalysisConfig{})
	if got := agg.A.MonthCalls[month]; got != 2 {
		t.Fatalf("A call count = %d, want 2", got)
	}
	if got := agg.A.MonthCallSeconds[month]; got != 180 {
		t.Fatalf("A call duration = %d, want 180", got)
	}
	if !reflect.DeepEqual(agg.A.MonthCalls, agg.B.MonthCalls) {
		t.Fatalf("B call counts %v differ from A %v", agg.B.MonthCalls, agg.A.MonthCalls)
	}
	if !reflect.DeepEqual(agg.A.MonthCallSeconds, agg.B.MonthCallSeconds) {
		t.Fatalf("B call durations differ from A")
	}
	if !reflect.DeepEqual(agg.A.CallHours, agg.B.CallHours) {
		t.Fatalf("B call hours differ from A")
	}
	if got := agg.A.CallHours[16]; got != 1 {
		t.Fatalf("call hour 16 count = %d, want 1", got)
	}
}

func TestAggregateCallsDoNotTouchReplyTracker(t *testing.T) {
	base := time.Date(2019, 5, 1, 10, 0, 0, 0, time.Local)
	month := time.Date(2019, 5, 1, 0, 0, 0, 0, time.Local)
	msgs := []model.Message{
		textMsg(base, "Alice", "hi"),
		callMsg(base.Add(time.Minute), "Bob", 30),
		textMsg(base.Add(2*time.Minute), "Bob", "call was nice"),
	}
	agg := Aggregate(msgs, "Alice", model.AnalysisConfig{})
	// Bob's text replies to Alice's "hi" (120s), not to the call.
	if got := agg.B.MonthReplies[month]; got != 1 {
		t.Fatalf("B replies = %d, want 1", got)
	}
	if got := agg.B.MonthAvgReplySeconds[month]; got != 120 {
		t.Fatalf("B reply latency = %v, want 120", got)
	}
}

func TestAggregateSkipMessagesContributeNothing(t *testing.T) {
	base := time.Date(2019, 5, 1, 10, 0, 0, 0, time.Local)
	msgs := []model.Message{
		{Time: base, Sender: "Alice", Kind: model.KindSkip, Text: []string{"unsupported"}},
	}
	agg := Aggregate(msgs, "Alice", model.AnalysisConfig{})
	if len(agg.A.Months) != 0 || len(agg.B.Months) != 0 {
		t.Fatalf("skip message produced counters: %v %v", agg.A.Months, agg.B.Months)
	}
}

func TestAggregateCutoffFilter(t *testing.T) {
	cutoff := time.Date(2019, 5, 1, 0, 0, 0, 0, time.Local)
	month := time.Date(2019, 5, 1, 0, 0, 0, 0, time.Local)
	msgs := []model.Message{
		// Before the cutoff: must not count and must not seed the tracker.
		textMsg(cutoff.Add(-24*time.Hour), "Alice", "old"),
		textMsg(cutoff.Add(10*time.Hour), "Bob", "new"),
	}
	agg := Aggregate(msgs, "Alice", model.AnalysisConfig{Since: cutoff})
	if got := agg.A.Months[month]; got != 0 {
		t.Fatalf("pre-cutoff message counted: %d", got)
	}
	// Without the old message Bob's first message is an initiation, not
	// a reply to it.
	if got := agg.B.MonthInitiations[month]; got != 1 {
		t.Fatalf("B initiations = %d, want 1", got)
	}
	if got := agg.B.MonthReplies[month]; got != 0 {
		t.Fatalf("B replies = %d, want 0", got)
	}
}

func TestAggregateParticipantSplitSumsToTotal(t *testing.T) {
	base := time.Date(2019, 5, 1, 10, 0, 0, 0, time.Local)
	var msgs []model.Message
	senders := []string{"Alice", "Bob", "Alice", "Alice", "Bob"}
	for i, s := range senders {
		msgs = append(msgs, textMsg(base.Add(time.Duration(i)*time.Minute), s, "m"))
	}
	agg := Aggregate(msgs, "Alice", model.AnalysisConfig{})
	total := 0
	for _, v := range agg.A.Months {
		total += v
	}
	for _, v := range agg.B.Months {
		total += v
	}
	if total != len(senders) {
		t.Fatalf("A+B month counts = %d, want %d", total, len(senders))
	}
}

func TestAggregateIdempotent(t *testing.T) {
	base := time.Date(2019, 5, 1, 10, 0, 0, 0, time.Local)
	msgs := []model.Message{
		textMsg(base, "Alice", "hi there"),
		textMsg(base.Add(5*time.Minute), "Bob", "hello"),
		callMsg(base.Add(10*time.Minute), "Alice", 45),
	}
	cfg := model.AnalysisConfig{Keywords: []string{"hi"}}
	first := Aggregate(msgs, "Alice", cfg)
	second := Aggregate(msgs, "Alice", cfg)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("aggregation is not idempotent")
	}
}

func TestAggregateEmptyStream(t *testing.T) {
	agg := Aggregate(nil, "Alice", model.AnalysisConfig{})
	if len(agg.A.Months) != 0 || len(agg.B.Months) != 0 {
		t.Fatalf("empty stream produced counters")
	}
}

func TestAggregateUnknownNameClassifiesAllAsB(t *testing.T) {
	base := time.Date(2019, 5, 1, 10, 0, 0, 0, time.Local)
	month := time.Date(2019, 5, 1, 0, 0, 0, 0, time.Local)
	msgs := []model.Message{
		textMsg(base, "Alice", "hi"),
		textMsg(base.Add(time.Minute), "Bob", "hey"),
	}
	agg := Aggregate(msgs, "Zelda", model.AnalysisConfig{})
	if got := agg.A.Months[month]; got != 0 {
		t.Fatalf("A counted %d messages, want 0", got)
	}
	if got := agg.B.Months[month]; got != 2 {
		t.Fatalf("B counted %d messages, want 2", got)
	}
}
