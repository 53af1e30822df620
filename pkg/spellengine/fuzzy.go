package spellengine

import (
	"strings"
	"sync"

	"github.com/sajari/fuzzy"
)

// fuzzyEngine is the pure-Go engine. Membership lives in its own set so
// runtime removals take effect; the fuzzy model only ranks suggestions.
type fuzzyEngine struct {
	mu    sync.RWMutex
	words map[string]struct{}
	model *fuzzy.Model
}

func newFuzzyEngine(words []string) *fuzzyEngine {
	model := fuzzy.NewModel()
	model.SetDepth(2)
	model.SetThreshold(1)

	e := &fuzzyEngine{
		words: make(map[string]struct{}, len(words)),
		model: model,
	}
	for _, w := range words {
		lower := strings.ToLower(w)
		e.words[lower] = struct{}{}
		model.TrainWord(lower)
	}
	return e
}

func (e *fuzzyEngine) Check(word string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.words[strings.ToLower(word)]
	return ok
}

func (e *fuzzyEngine) Suggest(word string) []string {
	lower := strings.ToLower(word)
	e.mu.RLock()
	suggestions := e.model.SpellCheckSuggestions(lower, 5)
	e.mu.RUnlock()

	out := suggestions[:0]
	for _, s := range suggestions {
		if s != lower {
			out = append(out, s)
		}
	}
	return out
}

func (e *fuzzyEngine) AddRuntimeWord(word string) {
	lower := strings.ToLower(word)
	e.mu.Lock()
	e.words[lower] = struct{}{}
	e.model.TrainWord(lower)
	e.mu.Unlock()
}

func (e *fuzzyEngine) RemoveRuntimeWord(word string) {
	e.mu.Lock()
	delete(e.words, strings.ToLower(word))
	e.mu.Unlock()
}

func (e *fuzzyEngine) Close() error { return nil }
