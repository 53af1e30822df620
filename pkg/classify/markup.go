package classify

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Markup classifies HTML/XML documents. It walks the token stream of the
// whole document, emitting text nodes and comment bodies as natural text.
// Contents of <script> and <style> elements are handed to a code classifier,
// and the two independently derived span sets are reconciled so the more
// specific classification wins.
type Markup struct {
	name string
	code *CLike // classifier for script/style blocks; may be nil
}

// NewMarkup returns a markup classifier. code classifies embedded script
// blocks; pass nil to skip them entirely.
func NewMarkup(name string, code *CLike) *Markup {
	return &Markup{name: name, code: code}
}

func (m *Markup) Name() string { return m.name }

// Scan tokenizes the document and returns its natural-text spans in
// document offsets. Tokenization is forgiving: malformed markup degrades to
// treating the remainder as text rather than failing.
func (m *Markup) Scan(text string) []DocSpan {
	var markupSpans, codeSpans []DocSpan

	z := html.NewTokenizer(strings.NewReader(text))
	offset := 0
	rawElement := "" // inside <script> or <style>

	for {
		tt := z.Next()
		raw := z.Raw()
		if tt == html.ErrorToken {
			break
		}

		switch tt {
		case html.TextToken:
			if rawElement != "" {
				codeSpans = append(codeSpans, m.scanScript(text, offset, len(raw))...)
			} else {
				markupSpans = appendDocTrimmed(markupSpans, text, offset, offset+len(raw), KindText)
			}
		case html.CommentToken:
			start, end := commentBody(text, offset, offset+len(raw))
			markupSpans = appendDocTrimmed(markupSpans, text, start, end, KindComment)
		case html.StartTagToken:
			name, _ := z.TagName()
			if n := strings.ToLower(string(name)); n == "script" || n == "style" {
				rawElement = n
			}
		case html.EndTagToken:
			rawElement = ""
		}
		offset += len(raw)
	}

	return Reconcile(codeSpans, markupSpans)
}

// scanScript classifies a script/style text block with the code classifier,
// translating line-relative spans into document offsets.
func (m *Markup) scanScript(text string, base, length int) []DocSpan {
	if m.code == nil {
		return nil
	}
	var out []DocSpan
	body := text[base : base+length]
	st := StateDefault
	lineStart := 0
	for lineStart <= len(body) {
		lineEnd := strings.IndexByte(body[lineStart:], '\n')
		var line string
		if lineEnd < 0 {
			line = body[lineStart:]
			lineEnd = len(body)
		} else {
			lineEnd += lineStart
			line = body[lineStart:lineEnd]
		}
		spans, end := m.code.ScanLine(line, st)
		for _, sp := range spans {
			out = append(out, DocSpan{
				Start:  base + lineStart + sp.Start,
				Length: sp.Length,
				Kind:   sp.Kind,
			})
		}
		st = end
		lineStart = lineEnd + 1
	}
	return out
}

// commentBody narrows a raw "<!-- ... -->" token to its interior.
func commentBody(text string, start, end int) (int, int) {
	body := text[start:end]
	if strings.HasPrefix(body, "<!--") {
		start += len("<!--")
	}
	if strings.HasSuffix(body, "-->") {
		end -= len("-->")
	}
	if end < start {
		end = start
	}
	return start, end
}

// Reconcile merges two independently computed span sets. Where spans from
// the two sets overlap, the narrower span wins and the wider one is dropped,
// so the more specific classification prevails. The result is sorted by
// start offset.
func Reconcile(a, b []DocSpan) []DocSpan {
	all := make([]DocSpan, 0, len(a)+len(b))
	all = append(all, a...)
	all = append(all, b...)

	drop := make([]bool, len(all))
	for i := range all {
		for j := range all {
			if i == j || drop[i] {
				continue
			}
			if overlaps(all[i], all[j]) && all[j].Length < all[i].Length {
				drop[i] = true
			}
		}
	}

	var out []DocSpan
	for i, sp := range all {
		if !drop[i] {
			out = append(out, sp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func overlaps(a, b DocSpan) bool {
	return a.Start < b.End() && b.Start < a.End()
}

// appendDocTrimmed emits [from, to) trimmed of surrounding whitespace,
// dropping whitespace-only regions.
func appendDocTrimmed(spans []DocSpan, text string, from, to int, kind SpanKind) []DocSpan {
	for from < to && isDocSpace(text[from]) {
		from++
	}
	for to > from && isDocSpace(text[to-1]) {
		to--
	}
	if to <= from {
		return spans
	}
	return append(spans, DocSpan{Start: from, Length: to - from, Kind: kind})
}

func isDocSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}
