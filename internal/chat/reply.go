package chat

import "time"

// ReplyThreshold is the largest gap between alternating senders that
// still counts as a reply; anything longer starts a new conversation.
const ReplyThreshold = 5 * time.Hour

// ReplyKind classifies a tracked message relative to its predecessor.
type ReplyKind int

const (
	// ReplyNone is emitted for consecutive messages from the same sender.
	ReplyNone ReplyKind = iota
	// ReplyInitiation marks a message that starts a new conversation.
	ReplyInitiation
	// ReplyReply marks a reply to the other participant within the threshold.
	ReplyReply
)

// ReplyEvent is the tracker's classification of one message.
type ReplyEvent struct {
	Kind           ReplyKind
	LatencySeconds float64
}

// ReplyTracker holds the immediately preceding tracked message. Only
// text-category messages reach the tracker; calls and skipped records
// neither consult nor advance it.
type ReplyTracker struct {
	hasPrev    bool
	prevSender string
	prevTime   time.Time
}

// Observe classifies the current message against the previous one and
// advances the tracker state. The first tracked message of a stream is
// always an initiation. Timestamps are assumed non-decreasing.
func (t *ReplyTracker) Observe(sender string, ts time.Time) ReplyEvent {
	var ev ReplyEvent
	switch {
	case !t.hasPrev:
		ev = ReplyEvent{Kind: ReplyInitiation}
	case sender == t.prevSender:
		ev = ReplyEvent{Kind: ReplyNone}
	default:
		gap := ts.Sub(t.prevTime).Seconds()
		if gap <= ReplyThreshold.Seconds() {
			ev = ReplyEvent{Kind: ReplyReply, LatencySeconds: gap}
		} else {
			ev = ReplyEvent{Kind: ReplyInitiation}
		}
	}
	t.hasPrev = true
	t.prevSender = sender
	t.prevTime = ts
	return ev
}
