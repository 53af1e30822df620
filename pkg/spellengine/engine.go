// Package spellengine provides the native spelling capability behind the
// dictionary layer: given a language tag and a set of dictionary folders it
// loads an engine that can check words, produce ranked suggestions, and
// accept runtime vocabulary changes.
//
// Two engine families exist. Builds with cgo on non-Windows platforms can
// load real hunspell affix/dictionary pairs; every build carries a pure-Go
// engine built on the sajari/fuzzy model trained from a plain word list.
// Callers only ever see the Engine interface.
package spellengine

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// DefaultLanguage is the bundled fallback language tag. A request for a
// language with no dictionary files falls back to this, per the documented
// degraded-mode behavior.
const DefaultLanguage = "en-US"

// Engine is one loaded spelling capability. Runtime word operations are
// first-class: pooled implementations apply them to every live worker
// rather than reaching into engine internals.
type Engine interface {
	// Check reports whether the word is spelled correctly.
	Check(word string) bool
	// Suggest returns ranked replacement suggestions for a word.
	Suggest(word string) []string
	// AddRuntimeWord teaches the engine a word for this process only.
	AddRuntimeWord(word string)
	// RemoveRuntimeWord withdraws a runtime word.
	RemoveRuntimeWord(word string)
	// Close releases engine resources.
	Close() error
}

var errNoDictionary = errors.New("no dictionary file found")

// Paths returns the affix and dictionary file paths for a language tag
// inside a dictionary folder.
func Paths(dir, tag string) (aff, dic string) {
	return filepath.Join(dir, tag+".aff"), filepath.Join(dir, tag+".dic")
}

// Open loads the engine for a language tag, searching the given folders in
// order. A folder carrying both <tag>.aff and <tag>.dic loads the native
// hunspell engine when the build supports it; a folder with just <tag>.dic
// loads the pure-Go engine from the word list. When no folder satisfies the
// request the bundled default language is loaded instead and degraded is
// true — a missing language is a documented fallback, not an error.
func Open(tag string, folders []string) (eng Engine, degraded bool, err error) {
	for _, dir := range folders {
		aff, dic := Paths(dir, tag)
		if _, statErr := os.Stat(dic); statErr != nil {
			continue
		}
		if _, statErr := os.Stat(aff); statErr == nil {
			native, nativeErr := newNativeEngine(aff, dic)
			if nativeErr == nil {
				return native, false, nil
			}
			log.Printf("[SpellEngine] Native engine unavailable for %s (%v); using word-list engine", tag, nativeErr)
		}
		eng, err = openWordList(dic)
		if err == nil {
			return eng, false, nil
		}
		log.Printf("[SpellEngine] Error loading %s: %v", dic, err)
	}

	eng, err = openEmbeddedDefault()
	if err != nil {
		return nil, false, fmt.Errorf("loading bundled %s dictionary: %w", DefaultLanguage, err)
	}
	degraded = !strings.EqualFold(tag, DefaultLanguage)
	if degraded {
		log.Printf("[SpellEngine] No dictionary for %s; falling back to bundled %s", tag, DefaultLanguage)
	}
	return eng, degraded, nil
}

// openWordList loads the pure-Go engine from a newline-delimited word list.
func openWordList(path string) (Engine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word != "" && !strings.HasPrefix(word, "#") {
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, errNoDictionary
	}
	return newFuzzyEngine(words), nil
}
