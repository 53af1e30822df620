// Package wordsplit carves natural-language text into spell-checkable word
// candidates. It is the lowest layer of the spell checking pipeline: a
// classifier hands it a span of human-readable text (a comment body, a string
// literal) and it produces the words worth checking, skipping URLs, numbers,
// escape sequences, format specifiers and other tokens that are never
// misspellings.
package wordsplit

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Span identifies a region of text by byte offset and length.
type Span struct {
	Start  int
	Length int
}

// End returns the byte offset one past the last byte of the span.
func (s Span) End() int {
	return s.Start + s.Length
}

// Contains reports whether the given offset falls inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End()
}

// Overlaps reports whether two spans share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End() && other.Start < s.End()
}

// Options control how Split carves candidates out of a text span.
// The zero value checks plain prose: no mnemonic handling, mixed-case
// tokens skipped, hyphenated compounds kept whole.
type Options struct {
	// Mnemonic is the accelerator-key marker character stripped from
	// candidates before checking (e.g. '&' in "&File"). Zero disables
	// mnemonic handling.
	Mnemonic rune

	// SplitIdentifiers breaks camelCase, PascalCase and snake_case tokens
	// into sub-words and checks each piece independently. When false,
	// mixed-case tokens are emitted as non-checkable.
	SplitIdentifiers bool

	// BreakHyphens splits hyphenated compounds into separate candidates
	// instead of checking the compound as a single word.
	BreakHyphens bool
}

// Candidate is one word-candidate produced by Split.
type Candidate struct {
	// Span covers the raw candidate text in the input, including any
	// mnemonic marker.
	Span Span

	// Word is the text to check: mnemonic stripped, escapes excised.
	Word string

	// Raw is the unmodified input slice covered by Span. Listeners that
	// match spans against buffer text need the original form.
	Raw string

	// Checkable is false for tokens that should never be flagged
	// (digit-bearing tokens, mixed-case tokens when identifier splitting
	// is off).
	Checkable bool

	// MnemonicIndex is the byte index, relative to Span.Start, of the
	// letter the mnemonic marker preceded, or -1 when the candidate
	// carried no marker.
	MnemonicIndex int

	// Doubled marks a word immediately repeating the previous word,
	// separated only by whitespace.
	Doubled bool

	// DeleteSpan covers the duplicate word plus the run of whitespace
	// before it. Only meaningful when Doubled is set.
	DeleteSpan Span

	// TrailingPeriod reports that the character immediately after the
	// candidate is '.'. Checkers use it to retry abbreviations such as
	// "etc." with the period attached.
	TrailingPeriod bool
}

// Split scans text and returns its word candidates in order of appearance.
// It is stateless across calls; all behavior is driven by opts.
func Split(text string, opts Options) []Candidate {
	var out []Candidate

	for _, chunk := range whitespaceChunks(text) {
		raw := text[chunk.Start:chunk.End()]

		// URLs, email addresses, GUIDs, hex constants and version
		// numbers are skipped as whole chunks so their punctuation
		// never produces bogus sub-words.
		if isURL(raw) || isEmail(raw) {
			continue
		}
		if trimmed := trimPunct(raw); isGUID(trimmed) || isHexConstant(trimmed) || isVersionNumber(trimmed) {
			continue
		}

		masked := maskEscapes(raw)
		out = appendTokens(out, text, chunk.Start, masked, opts)
	}

	markDoubledWords(text, out)
	return out
}

// whitespaceChunks returns the spans of maximal non-whitespace runs.
func whitespaceChunks(text string) []Span {
	var chunks []Span
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				chunks = append(chunks, Span{Start: start, Length: i - start})
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		chunks = append(chunks, Span{Start: start, Length: len(text) - start})
	}
	return chunks
}

// appendTokens tokenizes one masked whitespace chunk and appends the
// resulting candidates. base is the chunk's offset into the full text.
func appendTokens(out []Candidate, text string, base int, masked string, opts Options) []Candidate {
	inWord := func(r rune) bool {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
		if r == '\'' || r == '’' {
			return true
		}
		if !opts.BreakHyphens && r == '-' {
			return true
		}
		if opts.Mnemonic != 0 && r == opts.Mnemonic {
			return true
		}
		return false
	}

	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		tok := masked[start:end]
		// Interior-only punctuation: drop leading/trailing
		// apostrophes, hyphens and stray markers.
		lead := len(tok) - len(strings.TrimLeft(tok, "'’-"))
		trail := len(tok) - len(strings.TrimRight(tok, "'’-"))
		tok = tok[lead : len(tok)-trail]
		if tok != "" {
			out = appendCandidate(out, text, base+start+lead, tok, opts)
		}
		start = -1
	}

	for i, r := range masked {
		if inWord(r) {
			if start < 0 {
				start = i
			}
		} else {
			flush(i)
		}
	}
	flush(len(masked))
	return out
}

// appendCandidate classifies one raw token and appends the candidate(s) it
// produces. Identifier splitting may turn a single token into several.
func appendCandidate(out []Candidate, text string, start int, raw string, opts Options) []Candidate {
	word, mnemonicIdx := StripMnemonic(raw, opts.Mnemonic)

	c := Candidate{
		Span:          Span{Start: start, Length: len(raw)},
		Word:          word,
		Raw:           raw,
		MnemonicIndex: mnemonicIdx,
	}
	c.TrailingPeriod = c.Span.End() < len(text) && text[c.Span.End()] == '.'

	switch {
	case utf8.RuneCountInString(word) < 2:
		// Never check single characters.
		return out
	case containsDigit(word):
		c.Checkable = false
		return append(out, c)
	case isMixedCase(word):
		if !opts.SplitIdentifiers {
			c.Checkable = false
			return append(out, c)
		}
		return appendIdentifierParts(out, text, c)
	case opts.SplitIdentifiers && strings.Contains(word, "_"):
		return appendIdentifierParts(out, text, c)
	}

	c.Checkable = true
	return append(out, c)
}

// appendIdentifierParts splits a mixed-case or underscored token into
// sub-word candidates. The parent token itself is not emitted.
func appendIdentifierParts(out []Candidate, text string, parent Candidate) []Candidate {
	for _, part := range splitIdentifier(parent.Word) {
		if utf8.RuneCountInString(part.text) < 2 || containsDigit(part.text) {
			continue
		}
		// Offsets into Word equal offsets into Raw only when no
		// mnemonic was stripped; identifiers never carry mnemonics,
		// so mapping straight through is safe.
		c := Candidate{
			Span:          Span{Start: parent.Span.Start + part.offset, Length: len(part.text)},
			Word:          part.text,
			Raw:           part.text,
			Checkable:     true,
			MnemonicIndex: -1,
		}
		c.TrailingPeriod = c.Span.End() < len(text) && text[c.Span.End()] == '.'
		out = append(out, c)
	}
	return out
}

type identifierPart struct {
	text   string
	offset int
}

// splitIdentifier breaks an identifier into words at underscores and
// lower-to-upper case boundaries, keeping acronym runs together
// ("parseHTTPHeader" yields "parse", "HTTP", "Header").
func splitIdentifier(ident string) []identifierPart {
	var parts []identifierPart
	runes := []rune(ident)
	start := 0
	offset := 0
	byteAt := make([]int, len(runes)+1)
	for i, r := range runes {
		byteAt[i] = offset
		offset += utf8.RuneLen(r)
	}
	byteAt[len(runes)] = offset

	flush := func(end int) {
		if end > start {
			parts = append(parts, identifierPart{
				text:   string(runes[start:end]),
				offset: byteAt[start],
			})
		}
		start = end
	}

	for i := 1; i < len(runes); i++ {
		r, prev := runes[i], runes[i-1]
		switch {
		case r == '_':
			flush(i)
			start = i + 1
		case unicode.IsUpper(r) && !unicode.IsUpper(prev) && prev != '_':
			flush(i)
		case unicode.IsUpper(prev) && unicode.IsUpper(r) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			// Acronym followed by a word: "HTTPHeader" splits
			// before "Header".
			flush(i)
		}
	}
	flush(len(runes))
	return parts
}

// markDoubledWords flags candidates that repeat the previous checkable word
// with only whitespace in between.
func markDoubledWords(text string, candidates []Candidate) {
	var prev *Candidate
	for i := range candidates {
		cur := &candidates[i]
		if !cur.Checkable {
			prev = nil
			continue
		}
		if prev != nil && strings.EqualFold(prev.Word, cur.Word) {
			gap := text[prev.Span.End():cur.Span.Start]
			if gap != "" && strings.TrimSpace(gap) == "" {
				cur.Doubled = true
				cur.DeleteSpan = Span{
					Start:  prev.Span.End(),
					Length: cur.Span.End() - prev.Span.End(),
				}
			}
		}
		prev = cur
	}
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// isMixedCase reports whether a word has an uppercase letter after a
// lowercase one, or uppercase letters in interior positions following the
// first rune ("camelCase", "PascalCase" but not "Capitalized" or "CAPS").
func isMixedCase(s string) bool {
	runes := []rune(s)
	sawLower := false
	for i, r := range runes {
		if unicode.IsLower(r) {
			sawLower = true
		}
		if i > 0 && unicode.IsUpper(r) && sawLower {
			return true
		}
	}
	return false
}

func trimPunct(s string) string {
	return strings.Trim(s, ",.;:!?\"'()[]{}<>")
}
