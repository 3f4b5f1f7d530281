package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mnemocron/telestats/internal/chat"
	"github.com/mnemocron/telestats/internal/model"
)

func sampleMetrics(t *testing.T) chat.Metrics {
	t.Helper()
	base := time.Date(2019, 5, 6, 10, 0, 0, 0, time.Local) // a Monday
	msgs := []model.Message{
		{Time: base, Sender: "Alice", Kind: model.KindText, Text: []string{"hello hello world"}},
		{Time: base.Add(time.Minute), Sender: "Bob", Kind: model.KindText, Text: []string{"hi there"}},
		{Time: base.Add(2 * time.Minute), Sender: "Alice", Kind: model.KindText, Text: []string{"\U0001F600 nice"}, HasPhoto: true},
	}
	agg := chat.Aggregate(msgs, "Alice", model.AnalysisConfig{})
	return chat.Finalize(msgs, "Alice", model.AnalysisConfig{}, agg)
}

func TestRenderReport(t *testing.T) {
	m := sampleMetrics(t)
	var buf bytes.Buffer
	if err := RenderReport(&buf, m); err != nil {
		t.Fatalf("render report: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"[ name: Alice ]",
		"[ name: Bob ]",
		"[ combined stats ]",
		"total message count:\t3",
		"total photos:",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderFrequencies(t *testing.T) {
	m := sampleMetrics(t)
	var buf bytes.Buffer
	if err := RenderFrequencies(&buf, m); err != nil {
		t.Fatalf("render frequencies: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Top emojis") || !strings.Contains(out, "Top words") {
		t.Fatalf("missing section titles:\n%s", out)
	}
	if !strings.Contains(out, "hello") {
		t.Fatalf("expected top word hello:\n%s", out)
	}
	if !strings.Contains(out, "\U0001F600") {
		t.Fatalf("expected emoji entry:\n%s", out)
	}
	// Bob has no emojis; his list renders the placeholder.
	if !strings.Contains(out, "(none)") {
		t.Fatalf("expected empty-list placeholder:\n%s", out)
	}
}

func TestRenderActivity(t *testing.T) {
	m := sampleMetrics(t)
	var buf bytes.Buffer
	if err := RenderActivity(&buf, m); err != nil {
		t.Fatalf("render activity: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Messages by weekday") {
		t.Fatalf("missing weekday section:\n%s", out)
	}
	if !strings.Contains(out, "Monday") {
		t.Fatalf("missing weekday row:\n%s", out)
	}
	if !strings.Contains(out, "Messages by hour of day") {
		t.Fatalf("missing hour section:\n%s", out)
	}
	// No calls in the sample stream, so no calls sparkline.
	if strings.Contains(out, "calls") {
		t.Fatalf("unexpected calls sparkline:\n%s", out)
	}
}

func TestRenderPlots(t *testing.T) {
	m := sampleMetrics(t)
	var buf bytes.Buffer
	if err := RenderPlots(&buf, m, 40, 4); err != nil {
		t.Fatalf("render plots: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Messages per month") {
		t.Fatalf("missing monthly message plot:\n%s", out)
	}
	if !strings.Contains(out, "2019-05") {
		t.Fatalf("missing month axis label:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("unexpected color codes without a terminal:\n%q", out)
	}
}

func TestRenderPlotsWithColorForced(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	m := sampleMetrics(t)
	var buf bytes.Buffer
	if err := RenderPlotsWithColor(&buf, m, 40, 4, true); err != nil {
		t.Fatalf("render plots: %v", err)
	}
	if !strings.Contains(buf.String(), colorReset) {
		t.Fatalf("expected forced color codes in output:\n%q", buf.String())
	}
}
