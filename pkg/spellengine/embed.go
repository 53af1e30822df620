package spellengine

import (
	_ "embed"
	"strings"
)

//go:embed data/en-US.dic
var embeddedWordList string

// openEmbeddedDefault builds the pure-Go engine from the bundled word list.
func openEmbeddedDefault() (Engine, error) {
	var words []string
	for _, line := range strings.Split(embeddedWordList, "\n") {
		word := strings.TrimSpace(line)
		if word != "" && !strings.HasPrefix(word, "#") {
			words = append(words, word)
		}
	}
	if len(words) == 0 {
		return nil, errNoDictionary
	}
	return newFuzzyEngine(words), nil
}
