// Package keywords parses tracked-keyword lists from flags and files.
package keywords

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ParseList splits a semicolon-separated keyword list, lowercasing and
// trimming each entry. Empty entries are dropped.
func ParseList(raw string) []string {
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// LoadKeywords reads one keyword per line from the provided file path.
func LoadKeywords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only keyword list.
			_ = cerr
		}
	}()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if line == "" {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("keyword list is empty")
	}
	return words, nil
}
