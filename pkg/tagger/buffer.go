package tagger

import (
	"strings"
	"sync"

	"github.com/Code-Monger/SpellWright/pkg/wordsplit"
)

// Snapshot is one immutable version of a document's text, with line starts
// precomputed so offset and line coordinates convert both ways.
type Snapshot struct {
	Version int
	Text    string
	lines   []string
	starts  []int
}

func newSnapshot(version int, text string) *Snapshot {
	lines := strings.Split(text, "\n")
	starts := make([]int, len(lines))
	offset := 0
	for i, line := range lines {
		starts[i] = offset
		offset += len(line) + 1
	}
	return &Snapshot{Version: version, Text: text, lines: lines, starts: starts}
}

// Lines returns the snapshot's lines without newline terminators.
func (s *Snapshot) Lines() []string { return s.lines }

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() int { return len(s.lines) }

// LineStart returns the document offset of the start of a line.
func (s *Snapshot) LineStart(line int) int { return s.starts[line] }

// LineAt returns the line number holding a document offset.
func (s *Snapshot) LineAt(offset int) int {
	lo, hi := 0, len(s.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if s.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// LineRangeOf returns the first and last line touched by an offset span.
func (s *Snapshot) LineRangeOf(sp wordsplit.Span) (first, last int) {
	first = s.LineAt(sp.Start)
	end := sp.End()
	if end > sp.Start {
		end--
	}
	last = s.LineAt(end)
	return first, last
}

// LineSpanRange returns the offset span covering whole lines first..last.
func (s *Snapshot) LineSpanRange(first, last int) wordsplit.Span {
	start := s.starts[first]
	end := s.starts[last] + len(s.lines[last])
	return wordsplit.Span{Start: start, Length: end - start}
}

// Edit is one contiguous replacement, in pre-edit coordinates.
type Edit struct {
	Start     int
	OldLength int
	NewText   string
}

// Change describes one edit batch: the snapshots either side and the edits
// applied, sorted by start and non-overlapping.
type Change struct {
	Before *Snapshot
	After  *Snapshot
	Edits  []Edit
}

// adjustOffset translates a pre-edit offset through a change's edits. ok is
// false when the offset falls inside replaced text and has no stable image.
func (c Change) adjustOffset(offset int) (int, bool) {
	delta := 0
	for _, e := range c.Edits {
		if offset >= e.Start+e.OldLength {
			delta += len(e.NewText) - e.OldLength
			continue
		}
		if offset > e.Start {
			return 0, false
		}
		break
	}
	return offset + delta, true
}

// adjustSpan translates a pre-edit span through a change's edits. ok is
// false when any edit overlaps the span.
func (c Change) adjustSpan(sp wordsplit.Span) (wordsplit.Span, bool) {
	for _, e := range c.Edits {
		if e.Start < sp.End() && sp.Start < e.Start+e.OldLength {
			return wordsplit.Span{}, false
		}
		// A pure insertion at an interior position splits the span.
		if e.OldLength == 0 && e.Start > sp.Start && e.Start < sp.End() {
			return wordsplit.Span{}, false
		}
	}
	start, ok := c.adjustOffset(sp.Start)
	if !ok {
		return wordsplit.Span{}, false
	}
	return wordsplit.Span{Start: start, Length: sp.Length}, true
}

// TextBuffer is an in-memory document buffer with versioned snapshots and
// synchronous change notification. It stands in for the host editor's
// buffer: the tagger only sees this surface.
type TextBuffer struct {
	mu     sync.Mutex
	snap   *Snapshot
	subs   map[int]func(Change)
	nextID int
}

// NewTextBuffer returns a buffer holding the given text as version 0.
func NewTextBuffer(text string) *TextBuffer {
	return &TextBuffer{
		snap: newSnapshot(0, text),
		subs: make(map[int]func(Change)),
	}
}

// Snapshot returns the current immutable snapshot.
func (b *TextBuffer) Snapshot() *Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snap
}

// Replace applies a single edit.
func (b *TextBuffer) Replace(start, oldLength int, text string) *Snapshot {
	return b.Apply([]Edit{{Start: start, OldLength: oldLength, NewText: text}})
}

// Apply applies a batch of edits atomically: one new snapshot, one change
// notification. Edits must be sorted by start and non-overlapping, all in
// pre-edit coordinates.
func (b *TextBuffer) Apply(edits []Edit) *Snapshot {
	b.mu.Lock()
	before := b.snap
	text := before.Text
	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		text = text[:e.Start] + e.NewText + text[e.Start+e.OldLength:]
	}
	after := newSnapshot(before.Version+1, text)
	b.snap = after

	subs := make([]func(Change), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.Unlock()

	change := Change{Before: before, After: after, Edits: edits}
	for _, fn := range subs {
		fn(change)
	}
	return after
}

// OnChange registers a change handler, called synchronously from whichever
// goroutine applied the edit. Returns the cancel function.
func (b *TextBuffer) OnChange(fn func(Change)) (cancel func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}
