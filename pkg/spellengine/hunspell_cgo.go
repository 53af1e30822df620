//go:build cgo && !windows

package spellengine

import (
	"github.com/kortschak/hunspell"
)

// nativeEngine wraps a hunspell handle loaded from an affix/dictionary pair.
type nativeEngine struct {
	spell *hunspell.Spell
}

func newNativeEngine(aff, dic string) (Engine, error) {
	sp, err := hunspell.NewSpellPaths(aff, dic)
	if err != nil {
		return nil, err
	}
	return &nativeEngine{spell: sp}, nil
}

func (e *nativeEngine) Check(word string) bool {
	return e.spell.IsCorrect(word)
}

func (e *nativeEngine) Suggest(word string) []string {
	return e.spell.Suggest(word)
}

func (e *nativeEngine) AddRuntimeWord(word string) {
	e.spell.Add(word)
}

func (e *nativeEngine) RemoveRuntimeWord(word string) {
	e.spell.Remove(word)
}

func (e *nativeEngine) Close() error { return nil }
