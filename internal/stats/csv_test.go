package stats

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mnemocron/telestats/internal/chat"
	"github.com/mnemocron/telestats/internal/model"
)

func TestWriteCSVDumps(t *testing.T) {
	base := time.Date(2019, 5, 6, 10, 0, 0, 0, time.Local)
	msgs := []model.Message{
		{Time: base, Sender: "Alice", Kind: model.KindText, Text: []string{"hello"}},
		{Time: base.Add(time.Minute), Sender: "Bob", Kind: model.KindText, Text: []string{"hi"}},
		{Time: base.Add(2 * time.Minute), Sender: "Alice", Kind: model.KindCall, CallSeconds: 90},
	}
	agg := chat.Aggregate(msgs, "Alice", model.AnalysisConfig{})

	dir := t.TempDir()
	if err := WriteCSVDumps(dir, agg, "Alice", "Bob"); err != nil {
		t.Fatalf("write dumps: %v", err)
	}

	expected := []string{
		"months.csv", "months_chars.csv", "days.csv", "days_chars.csv",
		"weekdays.csv", "hourofday.csv", "monthly_pictures.csv",
		"monthly_calls.csv", "monthly_call_duration.csv", "monthly_n_replied.csv",
		"monthly_avg_reply_time.csv", "monthly_new_initiation.csv",
		"monthly_word_occurrence.csv", "call_hourofday.csv",
	}
	for _, name := range expected {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("missing dump %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "months.csv"))
	if err != nil {
		t.Fatalf("read months.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "bucket;Alice;Bob" {
		t.Fatalf("header = %q", lines[0])
	}
	if len(lines) != 2 {
		t.Fatalf("expected 1 data row, got %d", len(lines)-1)
	}
	if lines[1] != "2019-05;1;1" {
		t.Fatalf("months row = %q", lines[1])
	}
}

func TestWriteCSVDumpsCallColumnsMirror(t *testing.T) {
	base := time.Date(2019, 5, 6, 14, 0, 0, 0, time.Local)
	msgs := []model.Message{
		{Time: base, Sender: "Bob", Kind: model.KindCall, CallSeconds: 120},
	}
	agg := chat.Aggregate(msgs, "Alice", model.AnalysisConfig{})

	dir := t.TempDir()
	if err := WriteCSVDumps(dir, agg, "Alice", "Bob"); err != nil {
		t.Fatalf("write dumps: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "monthly_call_duration.csv"))
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[1] != "2019-05;120;120" {
		t.Fatalf("call duration row = %q", lines[1])
	}
}

func TestWriteCSVDumpsHourRows(t *testing.T) {
	base := time.Date(2019, 5, 6, 23, 30, 0, 0, time.Local)
	msgs := []model.Message{
		{Time: base, Sender: "Alice", Kind: model.KindText, Text: []string{"late"}},
	}
	agg := chat.Aggregate(msgs, "Alice", model.AnalysisConfig{})

	dir := t.TempDir()
	if err := WriteCSVDumps(dir, agg, "Alice", "Bob"); err != nil {
		t.Fatalf("write dumps: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "hourofday.csv"))
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	// Header plus all 24 hour slots, zeros included.
	if len(lines) != 25 {
		t.Fatalf("expected 25 lines, got %d", len(lines))
	}
	if lines[24] != "23;1;0" {
		t.Fatalf("hour 23 row = %q", lines[24])
	}
}
