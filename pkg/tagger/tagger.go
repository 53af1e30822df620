// Package tagger keeps the misspelling list of one open document current.
// Buffer edits and dictionary changes mark line ranges dirty; a debounce
// timer batches them; a background worker reclassifies, splits and checks
// the dirty text and publishes the refreshed misspellings back on the
// owning goroutine. A checking failure never escapes: it is logged and the
// pass simply contributes nothing.
package tagger

import (
	"log"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Code-Monger/SpellWright/pkg/classify"
	"github.com/Code-Monger/SpellWright/pkg/spelling"
	"github.com/Code-Monger/SpellWright/pkg/wordsplit"
)

// DefaultDebounce is the pause after the last edit before checking starts.
const DefaultDebounce = 500 * time.Millisecond

// Config carries per-document tagger settings.
type Config struct {
	// Debounce overrides DefaultDebounce when positive.
	Debounce time.Duration
	// Split configures word candidate extraction.
	Split wordsplit.Options
	// DeprecatedTerms maps lowercased terms to their preferred spelling.
	DeprecatedTerms map[string]string
	// CompoundTerms maps lowercased words to the combined form they
	// should be part of.
	CompoundTerms map[string]string
	// OnChange, when set, is invoked on the owning goroutine with each
	// document span whose misspellings were refreshed.
	OnChange func(span wordsplit.Span)
}

type onceKey struct {
	start int
	word  string // lowercased
}

// Tagger tracks the misspellings of one document.
type Tagger struct {
	buffer  *TextBuffer
	scanner *classify.Scanner
	dict    *spelling.Dictionary
	disp    *Dispatcher
	cfg     Config

	closed  atomic.Bool
	cancels []func()

	mu          sync.Mutex
	dirty       []wordsplit.Span
	misspelled  []Misspelling
	ignoredOnce map[onceKey]struct{}
	timer       *time.Timer
	checking    bool
	inflight    []Change // edits that arrived while a check was running
}

// New builds a tagger for the buffer, classifying with c and checking
// against dict. The whole document is queued dirty immediately. The caller
// owns disp and closes it after the tagger.
func New(buffer *TextBuffer, c classify.Classifier, dict *spelling.Dictionary, disp *Dispatcher, cfg Config) *Tagger {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	t := &Tagger{
		buffer:      buffer,
		scanner:     classify.NewScanner(c),
		dict:        dict,
		disp:        disp,
		cfg:         cfg,
		ignoredOnce: make(map[onceKey]struct{}),
	}

	snap := buffer.Snapshot()
	t.scanner.ScanAll(snap.Lines())

	t.cancels = append(t.cancels,
		buffer.OnChange(func(ch Change) { disp.Post(func() { t.onBufferChange(ch) }) }),
		dict.Subscribe(func(e spelling.Event) { disp.Post(func() { t.onDictionaryEvent(e) }) }),
	)

	t.mu.Lock()
	t.dirty = append(t.dirty, wordsplit.Span{Start: 0, Length: len(snap.Text)})
	t.schedule()
	t.mu.Unlock()
	return t
}

// Misspellings returns a copy of the current misspelling list, sorted by
// span start.
func (t *Tagger) Misspellings() []Misspelling {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Misspelling, len(t.misspelled))
	copy(out, t.misspelled)
	return out
}

// Close detaches the tagger from its buffer and dictionary and stops all
// pending work. The background worker observes the flag and exits early.
func (t *Tagger) Close() {
	if !t.closed.CompareAndSwap(false, true) {
		return
	}
	for _, cancel := range t.cancels {
		cancel()
	}
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
	}
	// The ignore map stays allocated: an event that passed the closed check
	// while Close ran may still record into it, and that write must land in
	// a live map rather than panic the dispatcher goroutine.
	t.ignoredOnce = make(map[onceKey]struct{})
	t.mu.Unlock()
}

// onBufferChange runs on the owning goroutine for every edit batch.
func (t *Tagger) onBufferChange(ch Change) {
	if t.closed.Load() || len(ch.Edits) == 0 {
		return
	}

	firstLine, lastAfter, removed, added := editLineDelta(ch)
	if max := ch.After.LineCount() - 1; firstLine > max {
		firstLine = max
	}
	changed := t.scanner.Rescan(ch.After.Lines(), firstLine, removed, added)

	t.mu.Lock()
	defer t.mu.Unlock()

	// Carry surviving records into the new snapshot; anything the edit
	// touched gets rechecked anyway.
	kept := t.misspelled[:0]
	for _, m := range t.misspelled {
		sp, ok := ch.adjustSpan(m.Span)
		if !ok {
			continue
		}
		m.Span = sp
		if m.Kind == DoubledWord {
			if del, okDel := ch.adjustSpan(m.DeleteSpan); okDel {
				m.DeleteSpan = del
			}
		}
		kept = append(kept, m)
	}
	t.misspelled = kept

	next := make(map[onceKey]struct{}, len(t.ignoredOnce))
	for key := range t.ignoredOnce {
		if start, ok := ch.adjustOffset(key.start); ok {
			next[onceKey{start: start, word: key.word}] = struct{}{}
		}
	}
	t.ignoredOnce = next

	adjustedDirty := t.dirty[:0]
	for _, sp := range t.dirty {
		if moved, ok := ch.adjustSpan(sp); ok {
			adjustedDirty = append(adjustedDirty, moved)
		}
	}
	t.dirty = adjustedDirty

	if t.checking {
		t.inflight = append(t.inflight, ch)
	}

	dirtyLast := lastAfter
	if changed.End > dirtyLast {
		dirtyLast = changed.End
	}
	if dirtyLast > ch.After.LineCount()-1 {
		dirtyLast = ch.After.LineCount() - 1
	}
	t.dirty = append(t.dirty, ch.After.LineSpanRange(firstLine, dirtyLast))
	t.schedule()
}

// editLineDelta maps an edit batch to the line splice the classifier cache
// needs: `removed` pre-edit lines starting at `firstLine` became `added`
// post-edit lines ending at `lastAfter`.
func editLineDelta(ch Change) (firstLine, lastAfter, removed, added int) {
	first := ch.Edits[0]
	last := ch.Edits[len(ch.Edits)-1]

	firstLine = ch.Before.LineAt(first.Start)
	endBefore := last.Start + last.OldLength
	if endBefore > first.Start {
		endBefore--
	}
	removed = ch.Before.LineAt(endBefore) - firstLine + 1

	// The cache splice must track the document's real line-count change,
	// so added is derived from it rather than from edit offsets.
	added = removed + ch.After.LineCount() - ch.Before.LineCount()
	if added < 0 {
		added = 0
	}
	lastAfter = firstLine + added - 1
	if lastAfter < firstLine {
		lastAfter = firstLine
	}
	if max := ch.After.LineCount() - 1; lastAfter > max {
		lastAfter = max
	}
	return firstLine, lastAfter, removed, added
}

// onDictionaryEvent runs on the owning goroutine for aggregator events.
func (t *Tagger) onDictionaryEvent(e spelling.Event) {
	if t.closed.Load() {
		return
	}
	switch ev := e.(type) {
	case spelling.Updated:
		t.mu.Lock()
		if ev.Word == "" {
			snap := t.buffer.Snapshot()
			t.dirty = append(t.dirty, wordsplit.Span{Start: 0, Length: len(snap.Text)})
		} else {
			for _, m := range t.misspelled {
				if strings.EqualFold(m.Word, ev.Word) {
					t.dirty = append(t.dirty, m.Span)
				}
			}
		}
		t.schedule()
		t.mu.Unlock()

	case spelling.IgnoredOnce:
		t.ignoreOnce(ev)

	case spelling.ReplaceAll:
		t.replaceAll(ev)
	}
}

func (t *Tagger) ignoreOnce(ev spelling.IgnoredOnce) {
	key := onceKey{start: ev.Start, word: strings.ToLower(ev.Word)}

	t.mu.Lock()
	t.ignoredOnce[key] = struct{}{}
	kept := t.misspelled[:0]
	var cleared []wordsplit.Span
	for _, m := range t.misspelled {
		if m.Span.Start == ev.Start && strings.EqualFold(m.Word, ev.Word) {
			cleared = append(cleared, m.Span)
			continue
		}
		kept = append(kept, m)
	}
	t.misspelled = kept
	t.mu.Unlock()

	for _, sp := range cleared {
		t.tagsChanged(sp)
	}
}

// replaceAll substitutes every flagged occurrence of the word in one atomic
// edit batch, matching each replacement's case to the text it replaces.
func (t *Tagger) replaceAll(ev spelling.ReplaceAll) {
	t.mu.Lock()
	var edits []Edit
	var spans []wordsplit.Span
	for _, m := range t.misspelled {
		if !strings.EqualFold(m.Word, ev.Word) {
			continue
		}
		edits = append(edits, Edit{
			Start:     m.Span.Start,
			OldLength: m.Span.Length,
			NewText:   wordsplit.MatchCase(m.Word, ev.Replacement),
		})
		spans = append(spans, m.Span)
	}
	t.mu.Unlock()

	if len(edits) == 0 {
		return
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].Start < edits[j].Start })

	// Apply triggers the buffer-change path, which drops the replaced
	// records and re-dirties the touched lines.
	t.buffer.Apply(edits)
	for _, sp := range spans {
		t.tagsChanged(sp)
	}
}

// schedule restarts the debounce timer. Caller holds t.mu.
func (t *Tagger) schedule() {
	if t.closed.Load() {
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.cfg.Debounce, func() {
		t.disp.Post(t.kick)
	})
}

// kick starts one checking cycle on the owning goroutine. A cycle already
// in flight keeps running; the dirty spans queue for the next one.
func (t *Tagger) kick() {
	if t.closed.Load() {
		return
	}
	t.mu.Lock()
	if t.checking || len(t.dirty) == 0 {
		t.mu.Unlock()
		return
	}
	spans := mergeSpans(t.dirty)
	t.dirty = nil
	t.checking = true
	t.inflight = nil
	ignored := make(map[onceKey]struct{}, len(t.ignoredOnce))
	for k := range t.ignoredOnce {
		ignored[k] = struct{}{}
	}
	t.mu.Unlock()

	snap := t.buffer.Snapshot()
	spans = expandToLines(snap, spans)
	go t.check(snap, spans, ignored)
}

// expandToLines widens each span to the full lines it touches. The worker
// rechecks whole lines, so finish must also retire stored records across the
// same region or line-mates of a narrow dirty span would be re-added next to
// their surviving old records.
func expandToLines(snap *Snapshot, spans []wordsplit.Span) []wordsplit.Span {
	expanded := make([]wordsplit.Span, 0, len(spans))
	for _, sp := range spans {
		first, last := snap.LineRangeOf(sp)
		if max := snap.LineCount() - 1; last > max {
			last = max
		}
		expanded = append(expanded, snap.LineSpanRange(first, last))
	}
	return mergeSpans(expanded)
}

// mergeSpans sorts and coalesces overlapping or adjacent spans.
func mergeSpans(spans []wordsplit.Span) []wordsplit.Span {
	if len(spans) <= 1 {
		return append([]wordsplit.Span(nil), spans...)
	}
	sorted := append([]wordsplit.Span(nil), spans...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	out := sorted[:1]
	for _, sp := range sorted[1:] {
		tail := &out[len(out)-1]
		if sp.Start <= tail.End() {
			if sp.End() > tail.End() {
				tail.Length = sp.End() - tail.Start
			}
			continue
		}
		out = append(out, sp)
	}
	return out
}

// check is the background worker for one cycle.
func (t *Tagger) check(snap *Snapshot, spans []wordsplit.Span, ignored map[onceKey]struct{}) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Tagger] Checking pass failed: %v", r)
			t.disp.Post(func() { t.finish(snap, nil, nil) })
		}
	}()

	type pending struct {
		candidate wordsplit.Candidate
		docStart  int
	}
	var results []Misspelling
	var unchecked []pending

	for _, span := range spans {
		if t.closed.Load() {
			return
		}

		// Natural-text spans depend on the live classifier cache, which
		// belongs to the owning goroutine: a blocking round-trip, by
		// contract.
		var natural []classify.DocSpan
		if !t.disp.Send(func() { natural = t.naturalSpans(snap, span) }) {
			return
		}

		for _, ns := range natural {
			if ns.End() > len(snap.Text) {
				continue
			}
			text := snap.Text[ns.Start:ns.End()]
			for _, c := range wordsplit.Split(text, t.cfg.Split) {
				docStart := ns.Start + c.Span.Start
				if _, skip := ignored[onceKey{start: docStart, word: strings.ToLower(c.Word)}]; skip {
					continue
				}
				docSpan := wordsplit.Span{Start: docStart, Length: c.Span.Length}

				if c.Doubled {
					results = append(results, Misspelling{
						Span: docSpan,
						Kind: DoubledWord,
						Word: c.Word,
						DeleteSpan: wordsplit.Span{
							Start:  ns.Start + c.DeleteSpan.Start,
							Length: c.DeleteSpan.Length,
						},
					})
					continue
				}
				lower := strings.ToLower(c.Word)
				if preferred, ok := t.cfg.DeprecatedTerms[lower]; ok {
					results = append(results, Misspelling{
						Span:        docSpan,
						Kind:        DeprecatedTerm,
						Word:        c.Word,
						Suggestions: []spelling.Suggestion{{Text: preferred}},
					})
					continue
				}
				if combined, ok := t.cfg.CompoundTerms[lower]; ok {
					results = append(results, Misspelling{
						Span:        docSpan,
						Kind:        CompoundTerm,
						Word:        c.Word,
						Suggestions: []spelling.Suggestion{{Text: combined}},
					})
					continue
				}
				if !t.dict.IsCandidateCorrect(c) {
					unchecked = append(unchecked, pending{candidate: c, docStart: docStart})
				}
			}
		}
	}

	// Suggestions are the expensive lookup: once per unique word per batch.
	byWord := make(map[string][]spelling.Suggestion)
	for _, p := range unchecked {
		lower := strings.ToLower(p.candidate.Word)
		if _, ok := byWord[lower]; !ok {
			if t.closed.Load() {
				return
			}
			byWord[lower] = t.dict.SuggestCorrections(p.candidate.Word)
		}
	}
	for _, p := range unchecked {
		suggestions := renderSuggestions(byWord[strings.ToLower(p.candidate.Word)], p.candidate, t.cfg.Split.Mnemonic)
		kind := MisspelledWord
		if len(suggestions) == 0 {
			kind = UnrecognizedWord
		}
		results = append(results, Misspelling{
			Span:        wordsplit.Span{Start: p.docStart, Length: p.candidate.Span.Length},
			Kind:        kind,
			Word:        p.candidate.Word,
			Suggestions: suggestions,
		})
	}

	t.disp.Post(func() { t.finish(snap, spans, results) })
}

// renderSuggestions reinserts the candidate's mnemonic marker so replacing
// the raw text keeps the accelerator.
func renderSuggestions(base []spelling.Suggestion, c wordsplit.Candidate, marker rune) []spelling.Suggestion {
	if c.MnemonicIndex < 0 || marker == 0 {
		return base
	}
	out := make([]spelling.Suggestion, len(base))
	for i, s := range base {
		out[i] = spelling.Suggestion{
			Cultures: s.Cultures,
			Text:     wordsplit.ReinsertMnemonic(s.Text, c.MnemonicIndex, marker),
		}
	}
	return out
}

// naturalSpans derives the checkable document spans of the lines a dirty
// span touches. Runs on the owning goroutine.
func (t *Tagger) naturalSpans(snap *Snapshot, span wordsplit.Span) []classify.DocSpan {
	first, last := snap.LineRangeOf(span)
	if last > snap.LineCount()-1 {
		last = snap.LineCount() - 1
	}
	var out []classify.DocSpan
	for line := first; line <= last; line++ {
		base := snap.LineStart(line)
		for _, sp := range t.scanner.LineSpans(snap.Lines(), line) {
			out = append(out, classify.DocSpan{
				Start:  base + sp.Start,
				Length: sp.Length,
				Kind:   sp.Kind,
			})
		}
	}
	return out
}

// finish publishes one cycle's results on the owning goroutine.
func (t *Tagger) finish(snap *Snapshot, spans []wordsplit.Span, results []Misspelling) {
	if t.closed.Load() {
		return
	}

	t.mu.Lock()
	// Translate this cycle's output through any edits that arrived while
	// the worker ran; records the edits invalidated are already queued
	// for the next cycle.
	for _, ch := range t.inflight {
		if ch.Before.Version < snap.Version {
			// The cycle's snapshot already includes this edit.
			continue
		}
		adjSpans := spans[:0]
		for _, sp := range spans {
			if moved, ok := ch.adjustSpan(sp); ok {
				adjSpans = append(adjSpans, moved)
			}
		}
		spans = adjSpans

		adjResults := results[:0]
		for _, m := range results {
			moved, ok := ch.adjustSpan(m.Span)
			if !ok {
				continue
			}
			m.Span = moved
			if m.Kind == DoubledWord {
				if del, okDel := ch.adjustSpan(m.DeleteSpan); okDel {
					m.DeleteSpan = del
				}
			}
			adjResults = append(adjResults, m)
		}
		results = adjResults
	}
	t.inflight = nil

	kept := t.misspelled[:0]
	for _, m := range t.misspelled {
		stale := false
		for _, sp := range spans {
			if m.Span.Overlaps(sp) {
				stale = true
				break
			}
		}
		if !stale {
			kept = append(kept, m)
		}
	}
	t.misspelled = append(kept, results...)
	sort.Slice(t.misspelled, func(i, j int) bool {
		return t.misspelled[i].Span.Start < t.misspelled[j].Span.Start
	})
	t.checking = false
	moreDirty := len(t.dirty) > 0
	t.mu.Unlock()

	for _, sp := range spans {
		t.tagsChanged(sp)
	}
	if moreDirty {
		t.disp.Post(t.kick)
	}
}

func (t *Tagger) tagsChanged(span wordsplit.Span) {
	if t.cfg.OnChange != nil {
		t.cfg.OnChange(span)
	}
}
