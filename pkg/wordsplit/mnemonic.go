package wordsplit

import "strings"

// StripMnemonic removes the first occurrence of the mnemonic marker from a
// raw token. It returns the cleaned word and the byte index, within the raw
// token, of the letter the marker preceded (-1 when the token carries no
// marker or marker handling is disabled). Trailing markers strip without
// recording a letter position.
func StripMnemonic(raw string, marker rune) (word string, letterIndex int) {
	if marker == 0 {
		return raw, -1
	}
	idx := strings.IndexRune(raw, marker)
	if idx < 0 {
		return raw, -1
	}
	markerLen := len(string(marker))
	word = raw[:idx] + raw[idx+markerLen:]
	if idx+markerLen >= len(raw) {
		return word, -1
	}
	return word, idx + markerLen
}

// ReinsertMnemonic places the marker back into a suggestion at the position
// the original word carried it, so "&Foo" corrected to "Food" renders as
// "F&ood". The position is clamped to the suggestion's length; a suggestion
// shorter than the original keeps the marker before its final character.
func ReinsertMnemonic(suggestion string, letterIndex int, marker rune) string {
	if marker == 0 || letterIndex < 0 {
		return suggestion
	}
	if letterIndex > len(suggestion) {
		letterIndex = len(suggestion)
	}
	return suggestion[:letterIndex] + string(marker) + suggestion[letterIndex:]
}
