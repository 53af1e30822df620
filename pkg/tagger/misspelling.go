package tagger

import (
	"github.com/Code-Monger/SpellWright/pkg/spelling"
	"github.com/Code-Monger/SpellWright/pkg/wordsplit"
)

// Kind classifies a flagged word.
type Kind int

const (
	// MisspelledWord is unknown to every configured dictionary.
	MisspelledWord Kind = iota
	// DoubledWord is an immediate case-insensitive repetition.
	DoubledWord
	// DeprecatedTerm is spelled correctly but superseded by a preferred term.
	DeprecatedTerm
	// CompoundTerm should be written as one combined word.
	CompoundTerm
	// UnrecognizedWord is unknown and has no suggestions either.
	UnrecognizedWord
)

var kindNames = map[Kind]string{
	MisspelledWord:   "misspelled",
	DoubledWord:      "doubled",
	DeprecatedTerm:   "deprecated",
	CompoundTerm:     "compound",
	UnrecognizedWord: "unrecognized",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Misspelling is one flagged occurrence in a document. Owned by the
// document's Tagger; spans are offsets into the current snapshot.
type Misspelling struct {
	Span        wordsplit.Span
	Kind        Kind
	Word        string
	Suggestions []spelling.Suggestion
	// DeleteSpan covers the duplicate word plus the preceding whitespace
	// run. Set for DoubledWord only.
	DeleteSpan wordsplit.Span
}
