package classify

import (
	"strings"
)

// Config describes the lexical surface of one brace-and-slash-comment
// language family member. Zero-valued fields disable the construct.
type Config struct {
	Name string

	LineComment    string // "//" or "#"
	DocLineComment string // "///" — checked before LineComment

	BlockCommentStart    string // "/*"
	BlockCommentEnd      string // "*/"
	DocBlockCommentStart string // "/**" — checked before BlockCommentStart

	StringDelims []byte // usually '"', plus '\'' for languages without char literals

	// VerbatimPrefix opens a string with no backslash escapes, closed by
	// its last byte doubled or a lone closing quote ("@\"" in C#).
	VerbatimPrefix string
	// RawStringDelim opens and closes an escape-free string ('`' in Go
	// and JavaScript).
	RawStringDelim byte

	CharLiteral bool // treat '...' as a char literal (never natural text)

	RegionDirective string // "#region" — its title is a pseudo-comment
	EndRegion       string // "#endregion"
}

// CLike is an incremental lexical classifier for languages with C-style
// comments and strings. It implements Classifier.
type CLike struct {
	cfg Config
}

// NewCLike returns a classifier for the given language configuration.
func NewCLike(cfg Config) *CLike {
	return &CLike{cfg: cfg}
}

func (c *CLike) Name() string { return c.cfg.Name }

// ScanLine classifies a single line starting in the given state. Offsets in
// the returned spans are relative to the line. Constructs left unterminated
// at end of line either carry their state forward (block comments, verbatim
// strings) or close at the line break (strings, char literals, line
// comments) — scanning never fails.
func (c *CLike) ScanLine(line string, start State) ([]Span, State) {
	var spans []Span
	st := start
	i := 0

	// Region directives are recognized only at the start of a code line.
	if st == StateDefault && c.cfg.RegionDirective != "" {
		trimmed := strings.TrimLeft(line, " \t")
		indent := len(line) - len(trimmed)
		if strings.HasPrefix(trimmed, c.cfg.RegionDirective) &&
			(c.cfg.EndRegion == "" || !strings.HasPrefix(trimmed, c.cfg.EndRegion)) {
			title := indent + len(c.cfg.RegionDirective)
			spans = appendTrimmed(spans, line, title, len(line), KindRegionTitle)
			return spans, StateDefault
		}
	}

	for i < len(line) {
		switch st {
		case StateBlockComment, StateDocComment:
			kind := KindComment
			if st == StateDocComment {
				kind = KindDocComment
			}
			end := strings.Index(line[i:], c.cfg.BlockCommentEnd)
			if end < 0 {
				spans = c.appendCommentProse(spans, line, i, len(line), kind)
				return spans, st
			}
			spans = c.appendCommentProse(spans, line, i, i+end, kind)
			i += end + len(c.cfg.BlockCommentEnd)
			st = StateDefault

		case StateVerbatimString:
			var done bool
			spans, i, done = c.scanVerbatim(spans, line, i)
			if !done {
				return spans, StateVerbatimString
			}
			st = StateDefault

		default: // StateDefault
			var carry State
			spans, i, carry = c.scanDefault(spans, line, i)
			if carry != StateDefault && i >= len(line) {
				return spans, carry
			}
			st = carry
		}
	}
	// Line comments, strings and char literals never cross lines.
	if st == StateLineComment || st == StateString || st == StateCharLiteral {
		st = StateDefault
	}
	return spans, st
}

// scanDefault consumes code text from position i. It returns the updated
// span list, the new position, and the state to continue in (which is only
// non-default when a multi-line construct opened and ran to end of line).
func (c *CLike) scanDefault(spans []Span, line string, i int) ([]Span, int, State) {
	for i < len(line) {
		rest := line[i:]

		if c.cfg.DocLineComment != "" && strings.HasPrefix(rest, c.cfg.DocLineComment) {
			spans = c.appendDocProse(spans, line, i+len(c.cfg.DocLineComment), len(line))
			return spans, len(line), StateDefault
		}
		if c.cfg.LineComment != "" && strings.HasPrefix(rest, c.cfg.LineComment) {
			spans = appendTrimmed(spans, line, i+len(c.cfg.LineComment), len(line), KindComment)
			return spans, len(line), StateDefault
		}
		if c.cfg.DocBlockCommentStart != "" && strings.HasPrefix(rest, c.cfg.DocBlockCommentStart) {
			return spans, i + len(c.cfg.DocBlockCommentStart), StateDocComment
		}
		if c.cfg.BlockCommentStart != "" && strings.HasPrefix(rest, c.cfg.BlockCommentStart) {
			return spans, i + len(c.cfg.BlockCommentStart), StateBlockComment
		}
		if c.cfg.VerbatimPrefix != "" && strings.HasPrefix(rest, c.cfg.VerbatimPrefix) {
			return spans, i + len(c.cfg.VerbatimPrefix), StateVerbatimString
		}
		if c.cfg.RawStringDelim != 0 && line[i] == c.cfg.RawStringDelim {
			return spans, i + 1, StateVerbatimString
		}
		if isStringDelim(c.cfg.StringDelims, line[i]) {
			var ok bool
			spans, i, ok = c.scanString(spans, line, i)
			if !ok {
				// Unterminated: accepted as ending at end of
				// line, state reverts to default.
				return spans, len(line), StateDefault
			}
			continue
		}
		if c.cfg.CharLiteral && line[i] == '\'' {
			i = scanCharLiteral(line, i)
			continue
		}
		i++
	}
	return spans, i, StateDefault
}

// scanString consumes a quoted string starting at the opening delimiter,
// emitting its contents. ok is false when the string ran to end of line
// without a closing delimiter (the contents are still emitted).
func (c *CLike) scanString(spans []Span, line string, i int) ([]Span, int, bool) {
	delim := line[i]
	j := i + 1
	for j < len(line) {
		switch line[j] {
		case '\\':
			j += 2
		case delim:
			spans = appendTrimmed(spans, line, i+1, j, KindString)
			return spans, j + 1, true
		default:
			j++
		}
	}
	spans = appendTrimmed(spans, line, i+1, len(line), KindString)
	return spans, len(line), false
}

// scanVerbatim consumes verbatim/raw string content from position i. The
// closing delimiter is the raw delimiter, or the last byte of the verbatim
// prefix (doubled occurrences are literal content). done is false when the
// string continues on the next line.
func (c *CLike) scanVerbatim(spans []Span, line string, i int) ([]Span, int, bool) {
	close := c.cfg.RawStringDelim
	doubling := false
	if c.cfg.VerbatimPrefix != "" {
		close = c.cfg.VerbatimPrefix[len(c.cfg.VerbatimPrefix)-1]
		doubling = true
	}
	j := i
	for j < len(line) {
		if line[j] != close {
			j++
			continue
		}
		if doubling && j+1 < len(line) && line[j+1] == close {
			j += 2
			continue
		}
		spans = appendTrimmed(spans, line, i, j, KindString)
		return spans, j + 1, true
	}
	spans = appendTrimmed(spans, line, i, len(line), KindString)
	return spans, len(line), false
}

// scanCharLiteral skips a char literal body; char literals are never
// natural text. Returns the position after the closing quote, or end of
// line for an unterminated literal.
func scanCharLiteral(line string, i int) int {
	j := i + 1
	for j < len(line) {
		switch line[j] {
		case '\\':
			j += 2
		case '\'':
			return j + 1
		default:
			j++
		}
	}
	return len(line)
}

// appendCommentProse emits block comment content, stripping the decorative
// leading '*' of boxed comments. Doc comment bodies additionally have
// embedded XML tags excluded.
func (c *CLike) appendCommentProse(spans []Span, line string, from, to int, kind SpanKind) []Span {
	// Skip a leading run of '*' so "* continued line" emits only the
	// prose.
	for from < to && (line[from] == ' ' || line[from] == '\t') {
		from++
	}
	for from < to && line[from] == '*' {
		from++
	}
	if kind == KindDocComment {
		return c.appendDocProseKind(spans, line, from, to, KindDocComment)
	}
	return appendTrimmed(spans, line, from, to, kind)
}

// appendDocProse emits doc comment prose, excluding embedded XML/HTML tags
// and their attribute values.
func (c *CLike) appendDocProse(spans []Span, line string, from, to int) []Span {
	return c.appendDocProseKind(spans, line, from, to, KindDocComment)
}

func (c *CLike) appendDocProseKind(spans []Span, line string, from, to int, kind SpanKind) []Span {
	i := from
	for i < to {
		lt := strings.IndexByte(line[i:to], '<')
		if lt < 0 {
			return appendTrimmed(spans, line, i, to, kind)
		}
		spans = appendTrimmed(spans, line, i, i+lt, kind)
		end, ok := skipTag(line, i+lt, to)
		if !ok {
			// Tag runs past end of line: degrade by dropping the
			// remainder rather than guessing.
			return spans
		}
		i = end
	}
	return spans
}

// skipTag advances past an XML tag starting at '<', honoring quoted
// attribute values (a '>' inside quotes does not close the tag).
func skipTag(line string, i, to int) (int, bool) {
	j := i + 1
	for j < to {
		switch line[j] {
		case '"', '\'':
			q := line[j]
			j++
			for j < to && line[j] != q {
				j++
			}
			if j >= to {
				return to, false
			}
			j++
		case '>':
			return j + 1, true
		default:
			j++
		}
	}
	return to, false
}

// appendTrimmed emits the [from, to) region with surrounding whitespace
// removed, dropping spans that are empty after trimming.
func appendTrimmed(spans []Span, line string, from, to int, kind SpanKind) []Span {
	for from < to && isSpace(line[from]) {
		from++
	}
	for to > from && isSpace(line[to-1]) {
		to--
	}
	if to <= from {
		return spans
	}
	return append(spans, Span{Start: from, Length: to - from, Kind: kind})
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r'
}

func isStringDelim(delims []byte, b byte) bool {
	for _, d := range delims {
		if d == b {
			return true
		}
	}
	return false
}
