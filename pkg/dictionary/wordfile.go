package dictionary

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// WordFilePath returns the user word list file for a language tag.
func WordFilePath(dir, tag string) string {
	return filepath.Join(dir, tag+".words.txt")
}

// legacyWordFilePath is the old word list name, migrated on first load.
func legacyWordFilePath(dir, tag string) string {
	return filepath.Join(dir, tag+"_user.dic")
}

// loadWordFile reads the user word list for a language tag, migrating a
// legacy-named file by rename when the current-name file is absent. The
// result maps lowercased words to the casing first seen. A missing file is
// an empty list, not an error.
func loadWordFile(dir, tag string) (map[string]string, error) {
	path := WordFilePath(dir, tag)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		legacy := legacyWordFilePath(dir, tag)
		if _, legacyErr := os.Stat(legacy); legacyErr == nil {
			if renameErr := os.Rename(legacy, path); renameErr != nil {
				return nil, fmt.Errorf("migrating legacy word file: %w", renameErr)
			}
			log.Printf("[Dictionary] Migrated legacy word file %s to %s", legacy, path)
		}
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	words := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" {
			continue
		}
		lower := strings.ToLower(word)
		if _, ok := words[lower]; !ok {
			words[lower] = word
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// saveWordFile rewrites the user word list in full, sorted alphabetically.
// Sorted rewrites keep version-control diffs to the lines that changed.
func saveWordFile(dir, tag string, words map[string]string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	sorted := make([]string, 0, len(words))
	for _, w := range words {
		sorted = append(sorted, w)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i]) < strings.ToLower(sorted[j])
	})

	var sb strings.Builder
	for _, w := range sorted {
		sb.WriteString(w)
		sb.WriteByte('\n')
	}
	return os.WriteFile(WordFilePath(dir, tag), []byte(sb.String()), 0o644)
}
