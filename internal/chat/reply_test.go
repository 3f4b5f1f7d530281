package chat

import (
	"testing"
	"time"
)

func TestReplyTrackerFirstMessageIsInitiation(t *testing.T) {
	var tracker ReplyTracker
	ev := tracker.Observe("alice", time.Date(2019, 5, 1, 10, 0, 0, 0, time.Local))
	if ev.Kind != ReplyInitiation {
		t.Fatalf("first observed message kind = %v, want initiation", ev.Kind)
	}
}

func TestReplyTrackerSameSenderRun(t *testing.T) {
	var tracker ReplyTracker
	base := time.Date(2019, 5, 1, 10, 0, 0, 0, time.Local)
	tracker.Observe("alice", base)
	ev := tracker.Observe("alice", base.Add(time.Minute))
	if ev.Kind != ReplyNone {
		t.Fatalf("same-sender follow-up kind = %v, want none", ev.Kind)
	}
	// previous must still have advanced: bob replies to the second
	// message, not the first.
	ev = tracker.Observe("bob", base.Add(2*time.Minute))
	if ev.Kind != ReplyReply {
		t.Fatalf("kind = %v, want reply", ev.Kind)
	}
	if ev.LatencySeconds != 60 {
		t.Fatalf("latency = %v, want 60", ev.LatencySeconds)
	}
}

func TestReplyTrackerThresholdBoundary(t *testing.T) {
	base := time.Date(2019, 5, 1, 10, 0, 0, 0, time.Local)

	var tracker ReplyTracker
	tracker.Observe("alice", base)
	ev := tracker.Observe("bob", base.Add(18000*time.Second))
	if ev.Kind != ReplyReply {
		t.Fatalf("gap of exactly 18000s classified as %v, want reply", ev.Kind)
	}
	if ev.LatencySeconds != 18000 {
		t.Fatalf("latency = %v, want 18000", ev.LatencySeconds)
	}

	tracker = ReplyTracker{}
	tracker.Observe("alice", base)
	ev = tracker.Observe("bob", base.Add(18001*time.Second))
	if ev.Kind != ReplyInitiation {
		t.Fatalf("gap of 18001s classified as %v, want initiation", ev.Kind)
	}
}

func TestReplyTrackerAdvancesAfterInitiation(t *testing.T) {
	var tracker ReplyTracker
	base := time.Date(2019, 5, 1, 10, 0, 0, 0, time.Local)
	tracker.Observe("alice", base)
	tracker.Observe("bob", base.Add(6*time.Hour)) // initiation, advances
	ev := tracker.Observe("alice", base.Add(6*time.Hour+10*time.Minute))
	if ev.Kind != ReplyReply {
		t.Fatalf("kind = %v, want reply relative to the new initiation", ev.Kind)
	}
	if ev.LatencySeconds != 600 {
		t.Fatalf("latency = %v, want 600", ev.LatencySeconds)
	}
}
