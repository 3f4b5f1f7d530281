package keywords

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseList(t *testing.T) {
	got := ParseList("Vacation; coffee ;;TEA")
	want := []string{"vacation", "coffee", "tea"}
	if len(got) != len(want) {
		t.Fatalf("parsed %d keywords, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("keyword %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseListEmpty(t *testing.T) {
	if got := ParseList(";;"); len(got) != 0 {
		t.Fatalf("expected no keywords, got %v", got)
	}
}

func TestLoadKeywords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte("Vacation\n\n coffee \n"), 0o644); err != nil {
		t.Fatalf("write keyword file: %v", err)
	}
	words, err := LoadKeywords(path)
	if err != nil {
		t.Fatalf("load keywords: %v", err)
	}
	if len(words) != 2 || words[0] != "vacation" || words[1] != "coffee" {
		t.Fatalf("keywords = %v", words)
	}
}

func TestLoadKeywordsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte("\n\n"), 0o644); err != nil {
		t.Fatalf("write keyword file: %v", err)
	}
	if _, err := LoadKeywords(path); err == nil {
		t.Fatalf("expected error for empty keyword list")
	}
}
