package batch

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// WordEntry represents a word with an optional note
type WordEntry struct {
	Word string
	Note string
}

// ReadWordFile reads words to import from a file.
// Supported lines:
// - a word only: "bonjour"
// - a word with a note: "bonjour = hello"
// Blank lines and lines starting with '#' are skipped.
func ReadWordFile(filename string) ([]WordEntry, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read word file: %w", err)
	}
	defer file.Close()

	var entries []WordEntry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if entry, ok := parseLine(scanner.Text()); ok {
			entries = append(entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word file: %w", err)
	}

	return entries, nil
}

func parseLine(line string) (WordEntry, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return WordEntry{}, false
	}

	word, note, _ := strings.Cut(line, "=")
	word = strings.TrimSpace(word)
	if word == "" {
		// "= hello" names no French word
		return WordEntry{}, false
	}

	return WordEntry{Word: word, Note: strings.TrimSpace(note)}, true
}

// Words returns the words of the entries in file order
func Words(entries []WordEntry) []string {
	words := make([]string, 0, len(entries))
	for _, e := range entries {
		words = append(words, e.Word)
	}
	return words
}
