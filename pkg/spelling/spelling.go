// Package spelling aggregates several per-language dictionaries behind the
// single interface a document checks against: a word is correct if any
// configured language accepts it, and suggestions are merged across
// languages. The aggregator also carries the document's own ignored-word
// list and relays correction intents as events; it never edits text itself.
package spelling

import (
	"strings"
	"sync"

	"github.com/Code-Monger/SpellWright/pkg/dictionary"
	"github.com/Code-Monger/SpellWright/pkg/wordsplit"
)

// Suggestion is one merged replacement suggestion. Cultures lists every
// language tag whose dictionary independently produced the same text, so
// the UI shows the entry once.
type Suggestion struct {
	Cultures []string
	Text     string
}

// Event is a change or correction intent flowing out of the aggregator.
type Event interface{ isEvent() }

// Updated signals that checking results may have changed. An empty Word
// means everything changed and the whole document should recheck.
type Updated struct {
	Word string
}

// IgnoredOnce signals that one occurrence of a word, identified by its
// start offset, should no longer be flagged. Session-only.
type IgnoredOnce struct {
	Word  string
	Start int
}

// ReplaceAll asks the document owner to replace every occurrence of a
// misspelled word with the chosen suggestion.
type ReplaceAll struct {
	Word        string
	Replacement string
}

func (Updated) isEvent()     {}
func (IgnoredOnce) isEvent() {}
func (ReplaceAll) isEvent()  {}

// Listener receives aggregator events on the goroutine that raised them.
type Listener func(Event)

// Dictionary composes the per-language dictionaries configured for one
// document. Many documents may share the underlying GlobalDictionary
// instances; the aggregator itself belongs to a single document.
type Dictionary struct {
	dicts      []*dictionary.GlobalDictionary
	mnemonic   rune
	docIgnored map[string]struct{}

	mu        sync.Mutex
	listeners map[int]Listener
	nextID    int
	cancels   []func()
}

// New builds an aggregator over the given dictionaries. docIgnored is the
// configured per-document ignore list. Underlying dictionary changes are
// re-broadcast as Updated events; Close unsubscribes.
func New(dicts []*dictionary.GlobalDictionary, mnemonic rune, docIgnored []string) *Dictionary {
	d := &Dictionary{
		dicts:      dicts,
		mnemonic:   mnemonic,
		docIgnored: make(map[string]struct{}, len(docIgnored)),
		listeners:  make(map[int]Listener),
	}
	for _, w := range docIgnored {
		d.docIgnored[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	for _, gd := range dicts {
		cancel := gd.Subscribe(func(n dictionary.Notification) {
			d.emit(Updated{Word: n.Word})
		})
		d.cancels = append(d.cancels, cancel)
	}
	return d
}

// Dictionaries returns the composed per-language dictionaries.
func (d *Dictionary) Dictionaries() []*dictionary.GlobalDictionary { return d.dicts }

func (d *Dictionary) normalize(word string) string {
	stripped, _ := wordsplit.StripMnemonic(word, d.mnemonic)
	return strings.ToLower(stripped)
}

// IsSpelledCorrectly reports whether any configured language accepts the
// word. With no dictionaries configured everything is correct.
func (d *Dictionary) IsSpelledCorrectly(word string) bool {
	if len(d.dicts) == 0 {
		return true
	}
	if len(d.dicts) == 1 {
		return d.dicts[0].IsSpelledCorrectly(word)
	}
	for _, gd := range d.dicts {
		if gd.IsSpelledCorrectly(word) {
			return true
		}
	}
	return false
}

// SuggestCorrections merges suggestions across every configured language.
// Identical texts from different languages collapse into one entry carrying
// all of their culture tags; first-seen order is preserved.
func (d *Dictionary) SuggestCorrections(word string) []Suggestion {
	if len(d.dicts) == 1 {
		raw := d.dicts[0].SuggestCorrections(word)
		out := make([]Suggestion, 0, len(raw))
		for _, s := range raw {
			out = append(out, Suggestion{Cultures: []string{s.Culture}, Text: s.Text})
		}
		return out
	}

	var out []Suggestion
	index := make(map[string]int)
	for _, gd := range d.dicts {
		for _, s := range gd.SuggestCorrections(word) {
			key := strings.ToLower(s.Text)
			if i, ok := index[key]; ok {
				out[i].Cultures = appendCulture(out[i].Cultures, s.Culture)
				continue
			}
			index[key] = len(out)
			out = append(out, Suggestion{Cultures: []string{s.Culture}, Text: s.Text})
		}
	}
	return out
}

func appendCulture(cultures []string, culture string) []string {
	for _, c := range cultures {
		if c == culture {
			return cultures
		}
	}
	return append(cultures, culture)
}

// ShouldIgnoreWord reports whether the document ignore list or any
// underlying session ignore list contains the word.
func (d *Dictionary) ShouldIgnoreWord(word string) bool {
	if _, ok := d.docIgnored[d.normalize(word)]; ok {
		return true
	}
	for _, gd := range d.dicts {
		if gd.ShouldIgnoreWord(word) {
			return true
		}
	}
	return false
}

// AddWordToDictionary routes a word to the dictionary for the given
// language tag, or the first configured dictionary when the tag is empty
// or matches nothing.
func (d *Dictionary) AddWordToDictionary(word, language string) bool {
	if len(d.dicts) == 0 {
		return false
	}
	target := d.dicts[0]
	for _, gd := range d.dicts {
		if strings.EqualFold(gd.Tag(), language) {
			target = gd
			break
		}
	}
	return target.AddWordToDictionary(word)
}

// IgnoreWord adds a word to the first dictionary's session ignore list.
func (d *Dictionary) IgnoreWord(word string) bool {
	if len(d.dicts) == 0 {
		return false
	}
	return d.dicts[0].IgnoreWord(word)
}

// IgnoreWordOnce signals that a single occurrence of the word should stop
// being flagged. Not persisted and not shared across dictionaries.
func (d *Dictionary) IgnoreWordOnce(start int, word string) {
	d.emit(IgnoredOnce{Word: word, Start: start})
}

// RequestReplaceAll broadcasts the intent to replace every occurrence of a
// word. The document owner performs the edit.
func (d *Dictionary) RequestReplaceAll(word, replacement string) {
	d.emit(ReplaceAll{Word: word, Replacement: replacement})
}

// IsCandidateCorrect checks a word candidate with the documented retry
// forms: the word followed by its period (abbreviations like "etc.") and
// the word with a possessive 's stripped.
func (d *Dictionary) IsCandidateCorrect(c wordsplit.Candidate) bool {
	if !c.Checkable {
		return true
	}
	word := c.Word
	if d.ShouldIgnoreWord(word) || d.IsSpelledCorrectly(word) {
		return true
	}
	if c.TrailingPeriod && d.IsSpelledCorrectly(word+".") {
		return true
	}
	for _, suffix := range []string{"'s", "’s"} {
		if trimmed, ok := strings.CutSuffix(word, suffix); ok {
			if d.ShouldIgnoreWord(trimmed) || d.IsSpelledCorrectly(trimmed) {
				return true
			}
		}
	}
	return false
}

// Subscribe registers an event listener and returns its cancel function.
func (d *Dictionary) Subscribe(l Listener) (cancel func()) {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.listeners[id] = l
	d.mu.Unlock()
	return func() {
		d.mu.Lock()
		delete(d.listeners, id)
		d.mu.Unlock()
	}
}

func (d *Dictionary) emit(e Event) {
	d.mu.Lock()
	snapshot := make([]Listener, 0, len(d.listeners))
	for _, l := range d.listeners {
		snapshot = append(snapshot, l)
	}
	d.mu.Unlock()
	for _, l := range snapshot {
		l(e)
	}
}

// Close detaches from the underlying dictionaries. They stay alive for the
// other documents sharing them.
func (d *Dictionary) Close() {
	for _, cancel := range d.cancels {
		cancel()
	}
	d.cancels = nil
}
