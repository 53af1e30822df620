// Package dictionary owns the spelling capability for one language tag: a
// native engine wrapped with the user's persistent word list, a session
// ignore list, and externally recognized words, behind a thread-safe API.
// Infrastructure failures fail open — a broken engine never flags words.
package dictionary

import (
	"log"
	"strings"
	"sync"

	"github.com/Code-Monger/SpellWright/pkg/spellengine"
	"github.com/Code-Monger/SpellWright/pkg/wordsplit"
)

// Suggestion is one replacement suggestion with the language tag of the
// dictionary that produced it.
type Suggestion struct {
	Culture string
	Text    string
}

// Notification describes a dictionary change. An empty Word means the whole
// dictionary changed and every document should recheck in full; otherwise
// only occurrences of Word need rechecking.
type Notification struct {
	Word string
}

// Listener receives dictionary change notifications. Handlers run
// synchronously on whichever goroutine triggered the change and must
// marshal to their own owning context before touching affine state.
type Listener func(Notification)

// GlobalDictionary is the process-wide spelling capability for one language
// tag. Instances are created through a Registry and shared by every
// document configured for the tag.
type GlobalDictionary struct {
	tag      string
	wordDir  string
	mnemonic rune
	canWrite func(path string) bool
	degraded bool

	mu         sync.RWMutex
	engine     spellengine.Engine
	userWords  map[string]string   // lower -> stored casing
	ignored    map[string]struct{} // session only, lowercased
	recognized map[string]struct{} // external sources, lowercased
	closed     bool

	listenerMu sync.Mutex
	listeners  map[int]Listener
	nextID     int
}

func newGlobalDictionary(tag, wordDir string, mnemonic rune, canWrite func(string) bool, engine spellengine.Engine, degraded bool) (*GlobalDictionary, error) {
	userWords, err := loadWordFile(wordDir, tag)
	if err != nil {
		log.Printf("[Dictionary] Error loading word file for %s: %v", tag, err)
		userWords = map[string]string{}
	}

	d := &GlobalDictionary{
		tag:        tag,
		wordDir:    wordDir,
		mnemonic:   mnemonic,
		canWrite:   canWrite,
		degraded:   degraded,
		engine:     engine,
		userWords:  userWords,
		ignored:    make(map[string]struct{}),
		recognized: make(map[string]struct{}),
		listeners:  make(map[int]Listener),
	}
	for lower := range userWords {
		engine.AddRuntimeWord(lower)
	}
	return d, nil
}

// Tag returns the dictionary's language tag.
func (d *GlobalDictionary) Tag() string { return d.tag }

// Degraded reports whether the requested language was unavailable and the
// bundled default stands in for it.
func (d *GlobalDictionary) Degraded() bool { return d.degraded }

// normalize strips the mnemonic marker and lowercases for set membership.
func (d *GlobalDictionary) normalize(word string) string {
	stripped, _ := wordsplit.StripMnemonic(word, d.mnemonic)
	return strings.ToLower(stripped)
}

// IsSpelledCorrectly reports whether the word is correct for this
// language. User, recognized and ignored words count as correct, and any
// infrastructure failure yields true so a broken engine never flags words.
func (d *GlobalDictionary) IsSpelledCorrectly(word string) bool {
	lower := d.normalize(word)
	if lower == "" {
		return true
	}

	d.mu.RLock()
	if d.closed || d.engine == nil {
		d.mu.RUnlock()
		return true
	}
	if _, ok := d.ignored[lower]; ok {
		d.mu.RUnlock()
		return true
	}
	if _, ok := d.userWords[lower]; ok {
		d.mu.RUnlock()
		return true
	}
	if _, ok := d.recognized[lower]; ok {
		d.mu.RUnlock()
		return true
	}
	engine := d.engine
	d.mu.RUnlock()

	return engine.Check(lower)
}

// SuggestCorrections returns ranked suggestions tagged with this
// dictionary's language. Failures yield an empty list.
func (d *GlobalDictionary) SuggestCorrections(word string) []Suggestion {
	lower := d.normalize(word)
	if lower == "" {
		return nil
	}

	d.mu.RLock()
	if d.closed || d.engine == nil {
		d.mu.RUnlock()
		return nil
	}
	engine := d.engine
	d.mu.RUnlock()

	raw := engine.Suggest(lower)
	out := make([]Suggestion, 0, len(raw))
	for _, text := range raw {
		out = append(out, Suggestion{Culture: d.tag, Text: text})
	}
	return out
}

// AddWordToDictionary persists a word to the user word list, pushes it into
// the live engine and notifies listeners with the original word so callers
// can still match the span they flagged. Already-ignored and already-correct
// words are a no-op success. Returns false when the word file is not
// writable.
func (d *GlobalDictionary) AddWordToDictionary(word string) bool {
	lower := d.normalize(word)
	if lower == "" {
		return true
	}
	if d.ShouldIgnoreWord(word) || d.IsSpelledCorrectly(word) {
		return true
	}
	if d.canWrite != nil && !d.canWrite(WordFilePath(d.wordDir, d.tag)) {
		log.Printf("[Dictionary] Word file for %s is not writable; %q not added", d.tag, word)
		return false
	}

	stored, _ := wordsplit.StripMnemonic(word, d.mnemonic)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return false
	}
	d.userWords[lower] = stored
	if err := saveWordFile(d.wordDir, d.tag, d.userWords); err != nil {
		log.Printf("[Dictionary] Error saving word file for %s: %v", d.tag, err)
		delete(d.userWords, lower)
		d.mu.Unlock()
		return false
	}
	d.engine.AddRuntimeWord(lower)
	d.mu.Unlock()

	d.notify(Notification{Word: word})
	return true
}

// IgnoreWord adds a word to the session ignore list. Not persisted.
func (d *GlobalDictionary) IgnoreWord(word string) bool {
	lower := d.normalize(word)
	if lower == "" {
		return true
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return false
	}
	_, already := d.ignored[lower]
	d.ignored[lower] = struct{}{}
	d.mu.Unlock()

	if !already {
		d.notify(Notification{Word: word})
	}
	return true
}

// ShouldIgnoreWord reports whether the word is in the session ignore list.
func (d *GlobalDictionary) ShouldIgnoreWord(word string) bool {
	lower := d.normalize(word)
	d.mu.RLock()
	_, ok := d.ignored[lower]
	d.mu.RUnlock()
	return ok
}

// AddRecognizedWords merges externally supplied terms into the in-memory
// recognized set. Not persisted to the user word file.
func (d *GlobalDictionary) AddRecognizedWords(words []string) {
	d.mu.Lock()
	for _, w := range words {
		lower := strings.ToLower(strings.TrimSpace(w))
		if lower != "" {
			d.recognized[lower] = struct{}{}
		}
	}
	d.mu.Unlock()
}

// ReloadWords re-reads the user word list from disk, resyncs the engine and
// notifies listeners that everything changed.
func (d *GlobalDictionary) ReloadWords() error {
	words, err := loadWordFile(d.wordDir, d.tag)
	if err != nil {
		return err
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	old := d.userWords
	d.userWords = words
	for lower := range old {
		if _, ok := words[lower]; !ok {
			d.engine.RemoveRuntimeWord(lower)
		}
	}
	for lower := range words {
		d.engine.AddRuntimeWord(lower)
	}
	d.mu.Unlock()

	d.notify(Notification{})
	return nil
}

// Subscribe registers a listener and returns its cancel function. Callers
// must cancel when their document closes; subscriptions are explicit, the
// dictionary never drops them on its own.
func (d *GlobalDictionary) Subscribe(l Listener) (cancel func()) {
	d.listenerMu.Lock()
	id := d.nextID
	d.nextID++
	d.listeners[id] = l
	d.listenerMu.Unlock()

	return func() {
		d.listenerMu.Lock()
		delete(d.listeners, id)
		d.listenerMu.Unlock()
	}
}

func (d *GlobalDictionary) notify(n Notification) {
	d.listenerMu.Lock()
	snapshot := make([]Listener, 0, len(d.listeners))
	for _, l := range d.listeners {
		snapshot = append(snapshot, l)
	}
	d.listenerMu.Unlock()

	for _, l := range snapshot {
		l(n)
	}
}

// Close releases the engine. Further checks fail open as correct.
func (d *GlobalDictionary) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	engine := d.engine
	d.engine = nil
	if engine != nil {
		return engine.Close()
	}
	return nil
}
