// Package chat implements the single-pass aggregation engine over a
// normalized two-person message stream.
package chat

import (
	"strings"

	"github.com/mnemocron/telestats/internal/model"
)

// Participant identifies one of the two fixed conversation roles.
type Participant int

const (
	// ParticipantA is anchored to the earliest identifiable sender.
	ParticipantA Participant = iota
	// ParticipantB is everyone else.
	ParticipantB
)

// String returns the conventional short label for the participant.
func (p Participant) String() string {
	if p == ParticipantA {
		return "A"
	}
	return "B"
}

// PerParticipant pairs a value per participant.
type PerParticipant[T any] struct {
	A T
	B T
}

// Of returns a pointer to the value for the given participant.
func (p *PerParticipant[T]) Of(who Participant) *T {
	if who == ParticipantA {
		return &p.A
	}
	return &p.B
}

// Category is the aggregation-relevant class of a message.
type Category int

const (
	// CategoryText is a regular message (media-flagged or not).
	CategoryText Category = iota
	// CategoryCall is an answered phone call.
	CategoryCall
	// CategorySkip contributes to nothing.
	CategorySkip
)

// Classify decides participant identity and category for one message.
// Attribution matches on substring containment of nameA in the sender
// field, not equality.
func Classify(msg model.Message, nameA string) (Participant, Category) {
	who := ParticipantB
	if msg.Sender != "" && strings.Contains(msg.Sender, nameA) {
		who = ParticipantA
	}
	switch msg.Kind {
	case model.KindText:
		return who, CategoryText
	case model.KindCall:
		return who, CategoryCall
	default:
		return who, CategorySkip
	}
}

// FirstSender returns the sender of the earliest message that has an
// identifiable sender, or "" for an empty or anonymous stream. This is
// the anchor for participant A.
func FirstSender(msgs []model.Message) string {
	for _, msg := range msgs {
		if msg.Kind == model.KindSkip {
			continue
		}
		if msg.Sender != "" {
			return msg.Sender
		}
	}
	return ""
}
