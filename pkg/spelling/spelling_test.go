package spelling

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Code-Monger/SpellWright/pkg/dictionary"
	"github.com/Code-Monger/SpellWright/pkg/wordsplit"
)

// newTestRegistry provides an en-GB word list alongside the bundled en-US
// engine so multi-language aggregation is exercised for real.
func newTestRegistry(t *testing.T, gbWords string) *dictionary.Registry {
	t.Helper()
	dictDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dictDir, "en-GB.dic"), []byte(gbWords), 0o644))
	r := dictionary.NewRegistry(dictionary.Config{
		Folders:  []string{dictDir},
		WordDir:  t.TempDir(),
		Mnemonic: '&',
	})
	t.Cleanup(func() { r.Close() })
	return r
}

func aggregate(t *testing.T, r *dictionary.Registry, tags ...string) *Dictionary {
	t.Helper()
	var dicts []*dictionary.GlobalDictionary
	for _, tag := range tags {
		d, err := r.Get(tag)
		require.NoError(t, err)
		dicts = append(dicts, d)
	}
	agg := New(dicts, '&', nil)
	t.Cleanup(agg.Close)
	return agg
}

func TestAggregateAcceptsWordFromAnyLanguage(t *testing.T) {
	r := newTestRegistry(t, "colour\nfavourite\n")
	agg := aggregate(t, r, "en-US", "en-GB")

	assert.True(t, agg.IsSpelledCorrectly("colour"), "correct in en-GB only")
	assert.True(t, agg.IsSpelledCorrectly("color"), "correct in en-US only")
	assert.False(t, agg.IsSpelledCorrectly("colr"))
}

func TestAggregateSuggestionCultureMerge(t *testing.T) {
	// Both languages know "receive", so the identical suggestion must
	// collapse into one entry carrying both culture tags.
	r := newTestRegistry(t, "receive\ncolour\n")
	agg := aggregate(t, r, "en-US", "en-GB")

	suggestions := agg.SuggestCorrections("recieve")
	var merged *Suggestion
	for i := range suggestions {
		if suggestions[i].Text == "receive" {
			merged = &suggestions[i]
		}
	}
	require.NotNil(t, merged, "suggestions = %+v", suggestions)
	assert.ElementsMatch(t, []string{"en-US", "en-GB"}, merged.Cultures)
}

func TestSingleDictionarySuggestions(t *testing.T) {
	r := newTestRegistry(t, "colour\n")
	agg := aggregate(t, r, "en-US")

	suggestions := agg.SuggestCorrections("recieve")
	require.NotEmpty(t, suggestions)
	for _, s := range suggestions {
		assert.Equal(t, []string{"en-US"}, s.Cultures)
	}
}

func TestDocumentIgnoreList(t *testing.T) {
	r := newTestRegistry(t, "colour\n")
	us, err := r.Get("en-US")
	require.NoError(t, err)
	agg := New([]*dictionary.GlobalDictionary{us}, '&', []string{"Blorf"})
	defer agg.Close()

	assert.True(t, agg.ShouldIgnoreWord("blorf"))
	assert.False(t, agg.ShouldIgnoreWord("snarf"))

	// Session ignores on the underlying dictionary surface too.
	us.IgnoreWord("snarf")
	assert.True(t, agg.ShouldIgnoreWord("SNARF"))
}

func TestAddWordRoutesByLanguage(t *testing.T) {
	r := newTestRegistry(t, "colour\n")
	agg := aggregate(t, r, "en-US", "en-GB")

	require.True(t, agg.AddWordToDictionary("quokka", "en-GB"))
	gb, err := r.Get("en-GB")
	require.NoError(t, err)
	assert.True(t, gb.IsSpelledCorrectly("quokka"))

	us, err := r.Get("en-US")
	require.NoError(t, err)
	assert.False(t, us.IsSpelledCorrectly("quokka"), "word went to en-GB only")

	// Unknown language falls back to the first dictionary.
	require.True(t, agg.AddWordToDictionary("wallaby", "fr-FR"))
	assert.True(t, us.IsSpelledCorrectly("wallaby"))
}

func TestUnderlyingChangesRebroadcast(t *testing.T) {
	r := newTestRegistry(t, "colour\n")
	agg := aggregate(t, r, "en-US")

	var events []Event
	cancel := agg.Subscribe(func(e Event) { events = append(events, e) })
	defer cancel()

	require.True(t, agg.AddWordToDictionary("zephyr", ""))
	require.Len(t, events, 1)
	updated, ok := events[0].(Updated)
	require.True(t, ok, "event = %T", events[0])
	assert.Equal(t, "zephyr", updated.Word)
}

func TestIntentEventsPassThrough(t *testing.T) {
	r := newTestRegistry(t, "colour\n")
	agg := aggregate(t, r, "en-US")

	var events []Event
	cancel := agg.Subscribe(func(e Event) { events = append(events, e) })
	defer cancel()

	agg.IgnoreWordOnce(42, "blorf")
	agg.RequestReplaceAll("teh", "the")

	require.Len(t, events, 2)
	assert.Equal(t, IgnoredOnce{Word: "blorf", Start: 42}, events[0])
	assert.Equal(t, ReplaceAll{Word: "teh", Replacement: "the"}, events[1])
}

func TestCandidateRetryForms(t *testing.T) {
	r := newTestRegistry(t, "etc.\n")
	agg := aggregate(t, r, "en-US", "en-GB")

	// Abbreviation: "etc" fails alone but "etc." is known.
	abbrev := wordsplit.Candidate{Word: "etc", Checkable: true, TrailingPeriod: true}
	assert.True(t, agg.IsCandidateCorrect(abbrev))

	noPeriod := wordsplit.Candidate{Word: "etc", Checkable: true}
	assert.False(t, agg.IsCandidateCorrect(noPeriod))

	// Possessive: "cat's" passes because "cat" is known.
	possessive := wordsplit.Candidate{Word: "cat's", Checkable: true}
	assert.True(t, agg.IsCandidateCorrect(possessive))

	nonCheckable := wordsplit.Candidate{Word: "0x2f", Checkable: false}
	assert.True(t, agg.IsCandidateCorrect(nonCheckable))
}
