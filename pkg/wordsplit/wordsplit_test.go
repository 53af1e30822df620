package wordsplit

import (
	"strings"
	"testing"
)

// checkableWords returns the Word field of every checkable candidate.
func checkableWords(cands []Candidate) []string {
	var words []string
	for _, c := range cands {
		if c.Checkable {
			words = append(words, c.Word)
		}
	}
	return words
}

func TestSplitPlainProse(t *testing.T) {
	text := "The quick brown fox."
	cands := Split(text, Options{})

	want := []string{"The", "quick", "brown", "fox"}
	got := checkableWords(cands)
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("Split(%q) = %v, want %v", text, got, want)
	}

	for _, c := range cands {
		if text[c.Span.Start:c.Span.End()] != c.Raw {
			t.Errorf("span %+v does not cover raw text %q", c.Span, c.Raw)
		}
	}

	last := cands[len(cands)-1]
	if !last.TrailingPeriod {
		t.Errorf("expected TrailingPeriod on %q", last.Word)
	}
}

func TestSplitContractionsAndHyphens(t *testing.T) {
	cands := Split("don't over-engineer", Options{})
	want := []string{"don't", "over-engineer"}
	got := checkableWords(cands)
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("got %v, want %v", got, want)
	}

	cands = Split("over-engineer", Options{BreakHyphens: true})
	want = []string{"over", "engineer"}
	got = checkableWords(cands)
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("BreakHyphens: got %v, want %v", got, want)
	}
}

func TestSplitSkipsShortWords(t *testing.T) {
	cands := Split("a I ok", Options{})
	got := checkableWords(cands)
	want := []string{"ok"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSplitSkipsNonWords(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"url", "see https://example.com/docs for details"},
		{"www url", "see www.example.com for details"},
		{"email", "mail admin@example.com for details"},
		{"guid", "id {6F9619FF-8B86-D011-B42D-00C04FC964FF} for details"},
		{"hex", "mask 0xDEADBEEF for details"},
		{"version", "use v1.2.3 for details"},
		{"bare version", "use 10.0.19041 for details"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkableWords(Split(tt.text, Options{}))
			want := []string{"see", "for", "details"}
			if tt.name == "email" {
				want = []string{"mail", "for", "details"}
			}
			if tt.name == "guid" || tt.name == "hex" {
				want = append([]string{}, "id", "for", "details")
				if tt.name == "hex" {
					want[0] = "mask"
				}
			}
			if tt.name == "version" || tt.name == "bare version" {
				want = []string{"use", "for", "details"}
			}
			if strings.Join(got, " ") != strings.Join(want, " ") {
				t.Errorf("Split(%q) checkable = %v, want %v", tt.text, got, want)
			}
		})
	}
}

func TestSplitExcisesEscapes(t *testing.T) {
	// A candidate that is only an escape token disappears entirely.
	got := checkableWords(Split(`first \n second`, Options{}))
	want := []string{"first", "second"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("got %v, want %v", got, want)
	}

	// Letters flanking an excised escape become independent candidates.
	got = checkableWords(Split(`foo\nbar`, Options{}))
	want = []string{"foo", "bar"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("got %v, want %v", got, want)
	}

	// printf verbs and .NET placeholders are never checked.
	got = checkableWords(Split("count %d of {0} items", Options{}))
	want = []string{"count", "of", "items"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSplitDigitsNotCheckable(t *testing.T) {
	for _, c := range Split("error42 and 1234", Options{}) {
		if c.Checkable && c.Word != "and" {
			t.Errorf("digit-bearing candidate %q marked checkable", c.Word)
		}
	}
}

func TestSplitMixedCase(t *testing.T) {
	// Without identifier splitting, camelCase tokens are emitted but not
	// checkable.
	cands := Split("the parseHTTPHeader function", Options{})
	for _, c := range cands {
		if c.Word == "parseHTTPHeader" && c.Checkable {
			t.Errorf("mixed-case candidate marked checkable")
		}
	}
	got := checkableWords(cands)
	want := []string{"the", "function"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("got %v, want %v", got, want)
	}

	// With identifier splitting, sub-words are checked independently.
	cands = Split("parseHTTPHeader snake_case_name", Options{SplitIdentifiers: true})
	got = checkableWords(cands)
	want = []string{"parse", "HTTP", "Header", "snake", "case", "name"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSplitIdentifierOffsets(t *testing.T) {
	text := "getUserName"
	cands := Split(text, Options{SplitIdentifiers: true})
	for _, c := range cands {
		if text[c.Span.Start:c.Span.End()] != c.Word {
			t.Errorf("sub-word %q span %+v covers %q", c.Word, c.Span, text[c.Span.Start:c.Span.End()])
		}
	}
}

func TestSplitDoubledWord(t *testing.T) {
	text := "the the cat"
	cands := Split(text, Options{})

	var doubled []Candidate
	for _, c := range cands {
		if c.Doubled {
			doubled = append(doubled, c)
		}
	}
	if len(doubled) != 1 {
		t.Fatalf("expected exactly one doubled candidate, got %d", len(doubled))
	}

	d := doubled[0]
	if text[d.Span.Start:d.Span.End()] != "the" || d.Span.Start != 4 {
		t.Errorf("doubled span %+v covers %q", d.Span, text[d.Span.Start:d.Span.End()])
	}
	// The delete span removes the duplicate and the whitespace before it.
	if text[d.DeleteSpan.Start:d.DeleteSpan.End()] != " the" {
		t.Errorf("delete span covers %q, want %q", text[d.DeleteSpan.Start:d.DeleteSpan.End()], " the")
	}
}

func TestSplitDoubledWordCaseInsensitive(t *testing.T) {
	cands := Split("The the cat", Options{})
	found := false
	for _, c := range cands {
		if c.Doubled {
			found = true
		}
	}
	if !found {
		t.Fatal("case-insensitive doubled word not detected")
	}
}

func TestSplitNoDoubledAcrossPunctuation(t *testing.T) {
	for _, c := range Split("stop. Stop right there", Options{}) {
		if c.Doubled {
			t.Fatalf("%q flagged as doubled across punctuation", c.Word)
		}
	}
}

func TestMnemonicStripAndReinsert(t *testing.T) {
	word, idx := StripMnemonic("&Foo", '&')
	if word != "Foo" || idx != 1 {
		t.Fatalf("StripMnemonic(&Foo) = %q, %d", word, idx)
	}
	if got := ReinsertMnemonic("Food", idx, '&'); got != "F&ood" {
		t.Errorf("ReinsertMnemonic = %q, want F&ood", got)
	}

	word, idx = StripMnemonic("E&xit", '&')
	if word != "Exit" || idx != 2 {
		t.Fatalf("StripMnemonic(E&xit) = %q, %d", word, idx)
	}
	if got := ReinsertMnemonic("Exits", idx, '&'); got != "Ex&its" {
		t.Errorf("ReinsertMnemonic = %q, want Ex&its", got)
	}

	// No marker: passthrough.
	word, idx = StripMnemonic("Plain", '&')
	if word != "Plain" || idx != -1 {
		t.Fatalf("StripMnemonic(Plain) = %q, %d", word, idx)
	}
	if got := ReinsertMnemonic("Plane", idx, '&'); got != "Plane" {
		t.Errorf("ReinsertMnemonic without marker = %q", got)
	}
}

func TestSplitMnemonicCandidate(t *testing.T) {
	cands := Split("&Foo", Options{Mnemonic: '&'})
	if len(cands) != 1 {
		t.Fatalf("expected one candidate, got %d", len(cands))
	}
	c := cands[0]
	if c.Word != "Foo" || c.Raw != "&Foo" || !c.Checkable {
		t.Fatalf("candidate = %+v", c)
	}
	if c.MnemonicIndex != 1 {
		t.Errorf("MnemonicIndex = %d, want 1", c.MnemonicIndex)
	}
}

func TestMatchCase(t *testing.T) {
	tests := []struct {
		original, replacement, want string
	}{
		{"WRD", "word", "WORD"},
		{"Wrd", "word", "Word"},
		{"wrd", "word", "word"},
		{"wrd", "Word", "word"},
		{"wRd", "Word", "word"},
	}
	for _, tt := range tests {
		if got := MatchCase(tt.original, tt.replacement); got != tt.want {
			t.Errorf("MatchCase(%q, %q) = %q, want %q", tt.original, tt.replacement, got, tt.want)
		}
	}
}
