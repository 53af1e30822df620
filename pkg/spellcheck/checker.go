// Package spellcheck exposes the checking core over MCP: a spellcheck tool
// that scans source files or directories for misspellings in comments,
// strings and identifiers, and a dictionary tool for word management.
package spellcheck

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Code-Monger/SpellWright/pkg/classify"
	"github.com/Code-Monger/SpellWright/pkg/spelling"
	"github.com/Code-Monger/SpellWright/pkg/wordsplit"
)

// Issue is one spelling problem found in a file.
type Issue struct {
	FilePath    string   `json:"file_path"`
	Line        int      `json:"line"`
	ColumnStart int      `json:"column_start"`
	ColumnEnd   int      `json:"column_end"`
	Kind        string   `json:"kind"`
	Word        string   `json:"word"`
	Context     string   `json:"context"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Options controls which regions are checked and how.
type Options struct {
	CheckComments    bool
	CheckStrings     bool
	CheckIdentifiers bool
	// CustomWords are accepted as correct for this request only.
	CustomWords []string
	// Split configures word candidate extraction.
	Split wordsplit.Options
}

// CheckText checks one document's text with the given language spec. Issues
// come back ordered by position.
func CheckText(filePath, text string, spec classify.LanguageSpec, dict *spelling.Dictionary, opts Options) []Issue {
	custom := make(map[string]struct{}, len(opts.CustomWords))
	for _, w := range opts.CustomWords {
		custom[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}

	split := opts.Split
	split.SplitIdentifiers = opts.CheckIdentifiers

	lines := strings.Split(text, "\n")
	starts := make([]int, len(lines))
	offset := 0
	for i, line := range lines {
		starts[i] = offset
		offset += len(line) + 1
	}

	var spans []classify.DocSpan
	if spec.Markup {
		spans = classify.NewMarkup(spec.Name, spec.NewClassifier()).Scan(text)
	} else {
		scanner := classify.NewScanner(spec.NewClassifier())
		for _, ls := range scanner.ScanAll(lines) {
			base := starts[ls.Line]
			for _, sp := range ls.Spans {
				spans = append(spans, classify.DocSpan{
					Start:  base + sp.Start,
					Length: sp.Length,
					Kind:   sp.Kind,
				})
			}
		}
	}

	var issues []Issue
	for _, sp := range spans {
		if !wantKind(sp.Kind, opts) || sp.End() > len(text) {
			continue
		}
		body := text[sp.Start:sp.End()]
		for _, c := range wordsplit.Split(body, split) {
			docStart := sp.Start + c.Span.Start
			line := lineAt(starts, docStart)
			col := docStart - starts[line]

			if c.Doubled {
				issues = append(issues, Issue{
					FilePath:    filePath,
					Line:        line + 1,
					ColumnStart: col + 1,
					ColumnEnd:   col + c.Span.Length + 1,
					Kind:        "doubled_word",
					Word:        c.Word,
					Context:     strings.TrimSpace(lines[line]),
				})
				continue
			}
			if _, ok := custom[strings.ToLower(c.Word)]; ok {
				continue
			}
			if dict.IsCandidateCorrect(c) {
				continue
			}

			var texts []string
			for _, s := range dict.SuggestCorrections(c.Word) {
				texts = append(texts, s.Text)
			}
			issues = append(issues, Issue{
				FilePath:    filePath,
				Line:        line + 1,
				ColumnStart: col + 1,
				ColumnEnd:   col + c.Span.Length + 1,
				Kind:        "misspelled_word",
				Word:        c.Word,
				Context:     strings.TrimSpace(lines[line]),
				Suggestions: texts,
			})
		}
	}

	sort.Slice(issues, func(i, j int) bool {
		if issues[i].Line != issues[j].Line {
			return issues[i].Line < issues[j].Line
		}
		return issues[i].ColumnStart < issues[j].ColumnStart
	})
	return issues
}

func wantKind(kind classify.SpanKind, opts Options) bool {
	switch kind {
	case classify.KindString:
		return opts.CheckStrings
	case classify.KindComment, classify.KindDocComment, classify.KindRegionTitle, classify.KindText:
		return opts.CheckComments
	default:
		return false
	}
}

func lineAt(starts []int, offset int) int {
	lo, hi := 0, len(starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// CheckFile checks a single file, picking the language from its extension
// unless language names one explicitly.
func CheckFile(path, language string, dict *spelling.Dictionary, opts Options) ([]Issue, error) {
	var spec classify.LanguageSpec
	var ok bool
	if language != "" {
		spec, ok = classify.ByName(language)
		if !ok {
			return nil, fmt.Errorf("unsupported language: %s", language)
		}
	} else {
		spec, ok = classify.ForFile(path)
		if !ok {
			return nil, nil // not a source file we know
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return CheckText(path, string(data), spec, dict, opts), nil
}

// CheckDirectory walks a directory checking every file with a known source
// extension. Unreadable files are logged and skipped.
func CheckDirectory(dirPath, language string, recursive bool, dict *spelling.Dictionary, opts Options) ([]Issue, error) {
	var issues []Issue
	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != dirPath && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		fileIssues, err := CheckFile(path, language, dict, opts)
		if err != nil {
			log.Printf("[SpellCheck] Error checking file %s: %v", path, err)
			return nil
		}
		issues = append(issues, fileIssues...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}
	return issues, nil
}
