// Package classify scans source file text and isolates the regions worth
// spell checking: comment bodies, string literal contents, doc comment prose.
// Classification is lexical, not syntactic — a small per-language state
// machine walks each line left to right, so no parser is required and
// malformed input degrades to best-effort spans instead of failing.
//
// A Scanner caches the lexical state at the start of every line, which lets
// edits re-scan only from the first touched line until the state flow
// stabilizes again.
package classify

// State is the lexical state carried between characters and, for multi-line
// constructs, between lines.
type State int

const (
	StateDefault State = iota
	StateLineComment
	StateBlockComment
	StateDocComment
	StateDocCommentTag
	StateDocCommentAttrValue
	StateString
	StateVerbatimString
	StateCharLiteral
)

var stateNames = map[State]string{
	StateDefault:             "default",
	StateLineComment:         "line-comment",
	StateBlockComment:        "block-comment",
	StateDocComment:          "doc-comment",
	StateDocCommentTag:       "doc-comment-tag",
	StateDocCommentAttrValue: "doc-comment-attr",
	StateString:              "string",
	StateVerbatimString:      "verbatim-string",
	StateCharLiteral:         "char-literal",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// SpanKind describes what sort of natural text a span holds.
type SpanKind int

const (
	KindComment SpanKind = iota
	KindDocComment
	KindString
	KindRegionTitle
	KindText // markup text node
)

// Span is a natural-text region, relative to the line it was found on.
type Span struct {
	Start  int
	Length int
	Kind   SpanKind
}

// End returns the offset one past the span's last byte.
func (s Span) End() int { return s.Start + s.Length }

// DocSpan is a natural-text region with document-absolute offsets, produced
// by whole-document scans (markup classification, batch checking).
type DocSpan struct {
	Start  int
	Length int
	Kind   SpanKind
}

func (s DocSpan) End() int { return s.Start + s.Length }

// Classifier scans one line at a time. ScanLine consumes the line under the
// given starting state, emits the natural-text spans found on it (offsets
// relative to the line) and returns the state to carry into the next line.
// Implementations never fail: unterminated constructs end at end of line and
// the carried state reflects only constructs that legitimately span lines.
type Classifier interface {
	Name() string
	ScanLine(line string, start State) (spans []Span, end State)
}

// LineRange is an inclusive range of line numbers. A range with End < Start
// is empty.
type LineRange struct {
	Start int
	End   int
}

// Empty reports whether the range covers no lines.
func (r LineRange) Empty() bool { return r.End < r.Start }

// LineSpans pairs a line number with the natural-text spans found on it.
type LineSpans struct {
	Line  int
	Spans []Span
}

// Scanner drives a Classifier over a document and caches the state at the
// start of every line so edits only re-scan forward from the first touched
// line. states[i] holds the state at the start of line i; states[len(lines)]
// holds the end-of-file state.
type Scanner struct {
	c      Classifier
	states []State
}

// NewScanner returns a Scanner for the given classifier with an empty cache.
func NewScanner(c Classifier) *Scanner {
	return &Scanner{c: c}
}

// Classifier returns the classifier the scanner drives.
func (s *Scanner) Classifier() Classifier { return s.c }

// States returns a copy of the per-line state cache.
func (s *Scanner) States() []State {
	out := make([]State, len(s.states))
	copy(out, s.states)
	return out
}

// StartState returns the cached state at the start of the given line.
func (s *Scanner) StartState(line int) State {
	if line < 0 || line >= len(s.states) {
		return StateDefault
	}
	return s.states[line]
}

// ScanAll classifies the whole document, rebuilding the state cache, and
// returns the natural-text spans of every line that has any.
func (s *Scanner) ScanAll(lines []string) []LineSpans {
	s.states = make([]State, len(lines)+1)
	s.states[0] = StateDefault

	var out []LineSpans
	for i, line := range lines {
		spans, end := s.c.ScanLine(line, s.states[i])
		s.states[i+1] = end
		if len(spans) > 0 {
			out = append(out, LineSpans{Line: i, Spans: spans})
		}
	}
	return out
}

// LineSpans re-derives the natural-text spans of a single line from the
// cached start state. The cache must be current for the given document.
func (s *Scanner) LineSpans(lines []string, line int) []Span {
	if line < 0 || line >= len(lines) {
		return nil
	}
	spans, _ := s.c.ScanLine(lines[line], s.StartState(line))
	return spans
}

// Rescan updates the cache after an edit. lines is the full post-edit
// document; the edit replaced `removed` lines starting at line `first` with
// `added` new lines. Scanning proceeds from `first` and stops as soon as a
// line past the edited region produces the end-of-line state already cached
// for the following line, meaning downstream lines are unaffected. The
// returned range covers every line whose natural-text output may have
// changed.
func (s *Scanner) Rescan(lines []string, first, removed, added int) LineRange {
	if s.states == nil || first < 0 || first > len(s.states)-1 {
		// Cache was never built (or is out of step); rebuild.
		s.ScanAll(lines)
		return LineRange{Start: 0, End: len(lines) - 1}
	}

	s.splice(first, removed, added)

	last := first - 1
	st := s.states[first]
	for i := first; i < len(lines); i++ {
		_, end := s.c.ScanLine(lines[i], st)
		if i+1 >= first+added && end == s.states[i+1] {
			// State flow has stabilized; everything below keeps
			// its cached classification.
			last = i
			break
		}
		s.states[i+1] = end
		st = end
		last = i
	}
	return LineRange{Start: first, End: last}
}

// splice adjusts the cache for the edit's line-count delta. Cache entries
// are line-boundary states: the boundary at the start of the edit keeps its
// value, the boundary at the end of the edit region keeps the old value of
// the boundary it replaces (Rescan compares against it for early exit), and
// boundaries strictly inside the new region are placeholders until Rescan
// fills them in.
func (s *Scanner) splice(first, removed, added int) {
	tailAt := first + removed
	if added == 0 {
		// Pure deletion: the end-of-region boundary collapses into
		// the start boundary.
		tailAt++
	}
	if tailAt > len(s.states) {
		tailAt = len(s.states)
	}
	mid := added - 1
	if mid < 0 {
		mid = 0
	}
	next := make([]State, 0, first+1+mid+len(s.states)-tailAt)
	next = append(next, s.states[:first+1]...)
	next = append(next, make([]State, mid)...)
	next = append(next, s.states[tailAt:]...)
	s.states = next
}
