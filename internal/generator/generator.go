// Package generator builds synthetic chat exports for demos and tests.
package generator

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"
)

// Generator produces randomized two-person chat exports.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeeded returns a Generator with a fixed seed for reproducible output.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

var samplePhrases = []string{
	"good morning",
	"how was your day",
	"see you later",
	"that sounds great",
	"I miss our vacation",
	"want to grab coffee tomorrow",
	"running late, sorry",
	"did you see this",
	"haha yes exactly",
	"good night \U0001F31B",
}

type exportFile struct {
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	ID       int64           `json:"id"`
	Messages []exportMessage `json:"messages"`
}

type exportMessage struct {
	ID              int    `json:"id"`
	Type            string `json:"type"`
	Date            string `json:"date"`
	From            string `json:"from,omitempty"`
	Actor           string `json:"actor,omitempty"`
	Action          string `json:"action,omitempty"`
	Text            string `json:"text"`
	Photo           string `json:"photo,omitempty"`
	DurationSeconds *int   `json:"duration_seconds,omitempty"`
}

// Generate produces a single-chat export with the given participants,
// spanning days consecutive days from start.
func (g *Generator) Generate(nameA, nameB string, start time.Time, days int) ([]byte, error) {
	out := exportFile{
		Name: nameA,
		Type: "personal_chat",
		ID:   g.rnd.Int63n(1 << 30),
	}
	id := 1
	senders := []string{nameA, nameB}
	for day := 0; day < days; day++ {
		count := 2 + g.rnd.Intn(10)
		ts := start.AddDate(0, 0, day).Add(time.Duration(8+g.rnd.Intn(4)) * time.Hour)
		for i := 0; i < count; i++ {
			ts = ts.Add(time.Duration(1+g.rnd.Intn(90)) * time.Minute)
			sender := senders[g.rnd.Intn(len(senders))]
			msg := exportMessage{
				ID:   id,
				Type: "message",
				Date: ts.Format("2006-01-02T15:04:05"),
				From: sender,
				Text: samplePhrases[g.rnd.Intn(len(samplePhrases))],
			}
			if g.rnd.Float64() < 0.08 {
				msg.Photo = fmt.Sprintf("photos/photo_%d.jpg", id)
				msg.Text = ""
			}
			out.Messages = append(out.Messages, msg)
			id++
		}
		if g.rnd.Float64() < 0.2 {
			ts = ts.Add(time.Duration(5+g.rnd.Intn(60)) * time.Minute)
			duration := 30 + g.rnd.Intn(1800)
			out.Messages = append(out.Messages, exportMessage{
				ID:              id,
				Type:            "service",
				Date:            ts.Format("2006-01-02T15:04:05"),
				Actor:           senders[g.rnd.Intn(len(senders))],
				Action:          "phone_call",
				DurationSeconds: &duration,
			})
			id++
		}
	}
	return json.MarshalIndent(out, "", " ")
}
