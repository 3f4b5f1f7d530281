// Package telegram loads Telegram JSON chat exports and normalizes
// their records for aggregation.
package telegram

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mnemocron/telestats/internal/model"
)

// ErrMalformedTimestamp marks an unparseable message date. The whole
// load is aborted; a bad timestamp is a data error, not something to
// recover from.
var ErrMalformedTimestamp = errors.New("malformed message timestamp")

// ErrChatNotFound is returned when chat selection matches nothing.
var ErrChatNotFound = errors.New("chat not found")

// Timestamps in exports are local time at second precision, no offset.
const dateLayout = "2006-01-02T15:04:05"

// Export is a decoded chat export, either a full account export with a
// chat list or a single-chat export.
type Export struct {
	full   *rawChatList
	single *rawChat
}

type rawExport struct {
	Chats *rawChatList `json:"chats"`

	// Single-chat export fields.
	Name     *string      `json:"name"`
	Type     string       `json:"type"`
	ID       int64        `json:"id"`
	Messages []rawMessage `json:"messages"`
}

type rawChatList struct {
	List []rawChat `json:"list"`
}

type rawChat struct {
	Name     *string      `json:"name"`
	Type     string       `json:"type"`
	ID       int64        `json:"id"`
	Messages []rawMessage `json:"messages"`
}

type rawMessage struct {
	Type            string          `json:"type"`
	Date            string          `json:"date"`
	From            *string         `json:"from"`
	Actor           *string         `json:"actor"`
	Text            json.RawMessage `json:"text"`
	Photo           *string         `json:"photo"`
	Action          string          `json:"action"`
	DurationSeconds *int            `json:"duration_seconds"`
}

// Load reads and decodes an export file.
func Load(path string) (*Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}
	var raw rawExport
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode export: %w", err)
	}
	if raw.Chats != nil {
		return &Export{full: raw.Chats}, nil
	}
	return &Export{single: &rawChat{
		Name:     raw.Name,
		Type:     raw.Type,
		ID:       raw.ID,
		Messages: raw.Messages,
	}}, nil
}

// IsFull reports whether the export carries a chat list.
func (e *Export) IsFull() bool {
	return e.full != nil
}

// Chats lists the chats available in a full export.
func (e *Export) Chats() []model.ChatInfo {
	if e.full == nil {
		return nil
	}
	infos := make([]model.ChatInfo, 0, len(e.full.List))
	for _, c := range e.full.List {
		infos = append(infos, model.ChatInfo{
			Name: chatName(c),
			ID:   c.ID,
			Type: c.Type,
		})
	}
	return infos
}

// SelectByName returns the chat with the exact given name.
func (e *Export) SelectByName(name string) (*model.Chat, error) {
	if e.full == nil {
		return nil, fmt.Errorf("%w: export has no chat list", ErrChatNotFound)
	}
	for _, c := range e.full.List {
		if c.Name != nil && *c.Name == name {
			return normalizeChat(c)
		}
	}
	return nil, fmt.Errorf("%w: name %q", ErrChatNotFound, name)
}

// SelectByID returns the chat with the given id.
func (e *Export) SelectByID(id int64) (*model.Chat, error) {
	if e.full == nil {
		return nil, fmt.Errorf("%w: export has no chat list", ErrChatNotFound)
	}
	for _, c := range e.full.List {
		if c.ID == id {
			return normalizeChat(c)
		}
	}
	return nil, fmt.Errorf("%w: id %d", ErrChatNotFound, id)
}

// Single returns the chat of a single-chat export.
func (e *Export) Single() (*model.Chat, error) {
	if e.single == nil {
		return nil, fmt.Errorf("%w: export is a full chat list", ErrChatNotFound)
	}
	return normalizeChat(*e.single)
}

func chatName(c rawChat) string {
	if c.Name == nil || *c.Name == "" {
		return "unknown"
	}
	return *c.Name
}

func normalizeChat(c rawChat) (*model.Chat, error) {
	msgs := make([]model.Message, 0, len(c.Messages))
	for i, rm := range c.Messages {
		msg, err := normalizeMessage(rm)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		msgs = append(msgs, msg)
	}
	return &model.Chat{
		Name:     chatName(c),
		ID:       c.ID,
		Type:     c.Type,
		Messages: msgs,
	}, nil
}

// normalizeMessage maps one loosely-typed record onto the typed
// Message. Unanswered calls and unknown record types normalize to the
// skip kind so the engine never sees them.
func normalizeMessage(rm rawMessage) (model.Message, error) {
	ts, err := time.ParseInLocation(dateLayout, rm.Date, time.Local)
	if err != nil {
		return model.Message{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, rm.Date)
	}
	msg := model.Message{
		Time:     ts,
		Sender:   senderOf(rm),
		HasPhoto: rm.Photo != nil,
	}
	switch rm.Type {
	case "message":
		msg.Kind = model.KindText
		msg.Text = textFragments(rm.Text)
	case "service":
		if rm.Action == "phone_call" && rm.DurationSeconds != nil {
			msg.Kind = model.KindCall
			msg.CallSeconds = *rm.DurationSeconds
		} else {
			msg.Kind = model.KindSkip
		}
	default:
		msg.Kind = model.KindSkip
	}
	return msg, nil
}

func senderOf(rm rawMessage) string {
	if rm.From != nil && *rm.From != "" {
		return *rm.From
	}
	if rm.Actor != nil && *rm.Actor != "" {
		return *rm.Actor
	}
	return ""
}

// textFragments extracts the string fragments of a text body. The body
// is either a plain string or an array mixing strings with structured
// spans; only the strings contribute to statistics.
func textFragments(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if single == "" {
			return nil
		}
		return []string{single}
	}
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return nil
	}
	var out []string
	for _, part := range parts {
		var s string
		if err := json.Unmarshal(part, &s); err == nil && s != "" {
			out = append(out, s)
		}
	}
	return out
}
