// Package model defines shared data structures.
package model

import "time"

// MessageKind categorizes a normalized chat record.
type MessageKind int

const (
	// KindText is a regular chat message (may also carry a photo).
	KindText MessageKind = iota
	// KindCall is an answered phone call service event.
	KindCall
	// KindSkip is a record that contributes to nothing (unsupported types,
	// unanswered calls, service events other than phone calls).
	KindSkip
)

// Message is one normalized record from a chat export. Only string
// fragments of the original text body survive normalization; structured
// spans are dropped.
type Message struct {
	Time        time.Time
	Sender      string
	Kind        MessageKind
	Text        []string
	HasPhoto    bool
	CallSeconds int
}

// Chat is a selected conversation from an export.
type Chat struct {
	Name     string
	ID       int64
	Type     string
	Messages []Message
}

// ChatInfo describes one chat available in a full export.
type ChatInfo struct {
	Name string
	ID   int64
	Type string
}

// AnalysisConfig carries caller-supplied analysis settings.
type AnalysisConfig struct {
	Since    time.Time
	Keywords []string
}

// RunSummary is a stored record of one completed analysis run.
type RunSummary struct {
	RunID      int64
	AnalyzedAt time.Time
	ChatName   string
	ChatID     int64
	Since      time.Time
	Keywords   []string
	NameA      string
	NameB      string
	MessagesA  int
	MessagesB  int
	WordsA     int
	WordsB     int
	CharsA     int
	CharsB     int
}
