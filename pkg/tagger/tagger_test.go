package tagger

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Code-Monger/SpellWright/pkg/classify"
	"github.com/Code-Monger/SpellWright/pkg/dictionary"
	"github.com/Code-Monger/SpellWright/pkg/spelling"
	"github.com/Code-Monger/SpellWright/pkg/wordsplit"
)

type fixture struct {
	buffer *TextBuffer
	agg    *spelling.Dictionary
	disp   *Dispatcher
	tagger *Tagger
}

func newFixture(t *testing.T, text string, cfg Config) *fixture {
	t.Helper()
	reg := dictionary.NewRegistry(dictionary.Config{WordDir: t.TempDir(), Mnemonic: '&'})
	t.Cleanup(func() { reg.Close() })
	gd, err := reg.Get("en-US")
	require.NoError(t, err)
	agg := spelling.New([]*dictionary.GlobalDictionary{gd}, '&', nil)
	t.Cleanup(agg.Close)

	if cfg.Debounce == 0 {
		cfg.Debounce = 10 * time.Millisecond
	}
	spec, ok := classify.ByName("Go")
	require.True(t, ok)

	f := &fixture{
		buffer: NewTextBuffer(text),
		agg:    agg,
		disp:   NewDispatcher(),
	}
	f.tagger = New(f.buffer, spec.NewClassifier(), agg, f.disp, cfg)
	t.Cleanup(func() {
		f.tagger.Close()
		f.disp.Close()
	})
	return f
}

func (f *fixture) waitCount(t *testing.T, n int) []Misspelling {
	t.Helper()
	var got []Misspelling
	require.Eventually(t, func() bool {
		got = f.tagger.Misspellings()
		return len(got) == n
	}, 3*time.Second, 5*time.Millisecond, "misspellings = %+v", got)
	return got
}

func TestInitialCheckFlagsCommentNotCode(t *testing.T) {
	text := "package main\n\n// we recieve data\nfunc main() {}\n"
	f := newFixture(t, text, Config{})

	got := f.waitCount(t, 1)
	m := got[0]
	assert.Equal(t, "recieve", m.Word)
	assert.Equal(t, MisspelledWord, m.Kind)
	assert.Equal(t, "recieve", text[m.Span.Start:m.Span.End()])

	texts := make([]string, 0, len(m.Suggestions))
	for _, s := range m.Suggestions {
		texts = append(texts, s.Text)
	}
	assert.Contains(t, texts, "receive")
}

func TestStringLiteralChecked(t *testing.T) {
	text := "package main\n\nvar msg = \"pleese wait\"\n"
	f := newFixture(t, text, Config{})

	got := f.waitCount(t, 1)
	assert.Equal(t, "pleese", got[0].Word)
}

func TestDoubledWordSingleRecord(t *testing.T) {
	text := "// the the cat\n"
	f := newFixture(t, text, Config{})

	got := f.waitCount(t, 1)
	m := got[0]
	assert.Equal(t, DoubledWord, m.Kind)
	assert.Equal(t, "the", m.Word)
	assert.Equal(t, "the", text[m.Span.Start:m.Span.End()])
	assert.Equal(t, " the", text[m.DeleteSpan.Start:m.DeleteSpan.End()])
}

func TestEditShiftsSurvivingMisspellings(t *testing.T) {
	f := newFixture(t, "// hello\n// recieve\n", Config{})
	before := f.waitCount(t, 1)

	inserted := "// first\n"
	f.buffer.Replace(0, 0, inserted)

	require.Eventually(t, func() bool {
		got := f.tagger.Misspellings()
		return len(got) == 1 && got[0].Span.Start == before[0].Span.Start+len(inserted)
	}, 3*time.Second, 5*time.Millisecond)

	snap := f.buffer.Snapshot()
	got := f.tagger.Misspellings()
	assert.Equal(t, "recieve", snap.Text[got[0].Span.Start:got[0].Span.End()])
}

func TestFixingTheWordClearsTheFlag(t *testing.T) {
	f := newFixture(t, "// recieve data\n", Config{})
	got := f.waitCount(t, 1)

	f.buffer.Replace(got[0].Span.Start, got[0].Span.Length, "receive")
	f.waitCount(t, 0)
}

func TestAddWordClearsExistingFlags(t *testing.T) {
	f := newFixture(t, "// zephyr here\n// zephyr again\n", Config{})
	f.waitCount(t, 2)

	require.True(t, f.agg.AddWordToDictionary("zephyr", ""))
	f.waitCount(t, 0)
}

func TestAddWordDoesNotDuplicateLineMates(t *testing.T) {
	// A word-scoped recheck covers the whole lines the word sits on, so a
	// misspelling sharing a line must come out as one record, not its old
	// record plus a fresh copy.
	f := newFixture(t, "// recieve and pleese\n", Config{})
	f.waitCount(t, 2)

	require.True(t, f.agg.AddWordToDictionary("recieve", ""))

	got := f.waitCount(t, 1)
	assert.Equal(t, "pleese", got[0].Word)
}

func TestIgnoreOnceDeliveredDuringCloseDoesNotPanic(t *testing.T) {
	f := newFixture(t, "// recieve\n", Config{})
	f.waitCount(t, 1)
	f.tagger.Close()

	// An event can pass the closed check just as Close lands; recording it
	// must not crash the dispatcher goroutine.
	assert.NotPanics(t, func() {
		f.tagger.ignoreOnce(spelling.IgnoredOnce{Word: "recieve", Start: 3})
	})
}

func TestIgnoreOnceClearsOnlyThatOccurrence(t *testing.T) {
	f := newFixture(t, "// recieve and recieve\n", Config{})
	got := f.waitCount(t, 2)

	f.agg.IgnoreWordOnce(got[0].Span.Start, got[0].Word)
	rest := f.waitCount(t, 1)
	assert.Equal(t, got[1].Span.Start, rest[0].Span.Start)

	// A recheck of the line must keep honoring the ignored occurrence.
	snap := f.buffer.Snapshot()
	f.buffer.Replace(len(snap.Text)-1, 0, " now")
	time.Sleep(50 * time.Millisecond)
	rest = f.waitCount(t, 1)
	assert.Equal(t, got[1].Span.Start, rest[0].Span.Start)
}

func TestReplaceAllMatchesCase(t *testing.T) {
	f := newFixture(t, "// Recieve data\n// recieve more\n", Config{})
	f.waitCount(t, 2)

	f.agg.RequestReplaceAll("recieve", "receive")

	require.Eventually(t, func() bool {
		return f.buffer.Snapshot().Text == "// Receive data\n// receive more\n"
	}, 3*time.Second, 5*time.Millisecond, "text = %q", f.buffer.Snapshot().Text)
	f.waitCount(t, 0)
}

func TestDeprecatedAndCompoundTerms(t *testing.T) {
	cfg := Config{
		DeprecatedTerms: map[string]string{"slave": "secondary"},
		CompoundTerms:   map[string]string{"cancelled": "canceled"},
	}
	f := newFixture(t, "// slave node was cancelled\n", cfg)

	got := f.waitCount(t, 2)
	byWord := map[string]Misspelling{}
	for _, m := range got {
		byWord[m.Word] = m
	}
	require.Contains(t, byWord, "slave")
	assert.Equal(t, DeprecatedTerm, byWord["slave"].Kind)
	require.Len(t, byWord["slave"].Suggestions, 1)
	assert.Equal(t, "secondary", byWord["slave"].Suggestions[0].Text)

	require.Contains(t, byWord, "cancelled")
	assert.Equal(t, CompoundTerm, byWord["cancelled"].Kind)
}

func TestCloseStopsChecking(t *testing.T) {
	f := newFixture(t, "// recieve\n", Config{Debounce: 200 * time.Millisecond})
	f.tagger.Close()
	time.Sleep(300 * time.Millisecond)
	assert.Empty(t, f.tagger.Misspellings())
}

func TestMergeSpans(t *testing.T) {
	in := []wordsplit.Span{
		{Start: 20, Length: 5},
		{Start: 0, Length: 10},
		{Start: 8, Length: 4},
		{Start: 12, Length: 2},
	}
	out := mergeSpans(in)
	want := []wordsplit.Span{
		{Start: 0, Length: 14},
		{Start: 20, Length: 5},
	}
	assert.Equal(t, want, out)
}

func TestSnapshotLineMath(t *testing.T) {
	s := newSnapshot(0, "abc\ndef\n\nghi")
	assert.Equal(t, 4, s.LineCount())
	assert.Equal(t, 0, s.LineAt(2))
	assert.Equal(t, 1, s.LineAt(4))
	assert.Equal(t, 3, s.LineAt(9))
	first, last := s.LineRangeOf(wordsplit.Span{Start: 2, Length: 4})
	assert.Equal(t, 0, first)
	assert.Equal(t, 1, last)
}

func TestChangeAdjustSpan(t *testing.T) {
	buf := NewTextBuffer("hello brave world")
	var ch Change
	cancel := buf.OnChange(func(c Change) { ch = c })
	defer cancel()
	buf.Replace(6, 5, "bold")

	moved, ok := ch.adjustSpan(wordsplit.Span{Start: 12, Length: 5}) // "world"
	require.True(t, ok)
	assert.Equal(t, wordsplit.Span{Start: 11, Length: 5}, moved)

	_, ok = ch.adjustSpan(wordsplit.Span{Start: 6, Length: 5}) // replaced text
	assert.False(t, ok)

	kept, ok := ch.adjustSpan(wordsplit.Span{Start: 0, Length: 5}) // before edit
	require.True(t, ok)
	assert.Equal(t, wordsplit.Span{Start: 0, Length: 5}, kept)
}

func TestDispatcherSendRoundTrip(t *testing.T) {
	d := NewDispatcher()
	defer d.Close()

	var order []string
	d.Post(func() { order = append(order, "posted") })
	ok := d.Send(func() { order = append(order, "sent") })
	require.True(t, ok)
	assert.Equal(t, []string{"posted", "sent"}, order)
}

func TestDispatcherSendAfterClose(t *testing.T) {
	d := NewDispatcher()
	d.Close()
	assert.False(t, d.Send(func() {}))
}

func TestEditLineDelta(t *testing.T) {
	before := newSnapshot(0, "aa\nbb\ncc")

	// Within-line edit.
	after := newSnapshot(1, "aa\nbX\ncc")
	first, lastAfter, removed, added := editLineDelta(Change{
		Before: before, After: after,
		Edits: []Edit{{Start: 4, OldLength: 1, NewText: "X"}},
	})
	assert.Equal(t, []int{1, 1, 1, 1}, []int{first, lastAfter, removed, added})

	// Mid-line insertion of a newline.
	after = newSnapshot(1, "aa\nb\nb\ncc")
	first, lastAfter, removed, added = editLineDelta(Change{
		Before: before, After: after,
		Edits: []Edit{{Start: 4, OldLength: 0, NewText: "\n"}},
	})
	assert.Equal(t, []int{1, 2, 1, 2}, []int{first, lastAfter, removed, added})

	// Whole-line deletion.
	after = newSnapshot(1, "aa\ncc")
	first, lastAfter, removed, added = editLineDelta(Change{
		Before: before, After: after,
		Edits: []Edit{{Start: 3, OldLength: 3, NewText: ""}},
	})
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, added)
	_ = lastAfter

	// Insertion of a whole line at the top.
	after = newSnapshot(1, "xx\naa\nbb\ncc")
	first, lastAfter, removed, added = editLineDelta(Change{
		Before: before, After: after,
		Edits: []Edit{{Start: 0, OldLength: 0, NewText: "xx\n"}},
	})
	assert.Equal(t, []int{0, 1, 1, 2}, []int{first, lastAfter, removed, added})
}

func TestWorkerFailureDoesNotWedgeTheTagger(t *testing.T) {
	// A panic mid-check is logged and swallowed; the next cycle runs.
	f := newFixture(t, "// recieve\n", Config{})
	f.waitCount(t, 1)
	assert.False(t, strings.Contains(f.buffer.Snapshot().Text, "panic"))
}
