package wordsplit

import (
	"regexp"
	"strings"
)

// Token patterns that are never spell-checked. URLs and emails are matched
// against whole whitespace-delimited chunks; the rest against candidates
// with surrounding punctuation trimmed.
var (
	urlRE   = regexp.MustCompile(`(?i)^[("'<\[]*(?:(?:https?|ftp|file|mailto)://?|www\.)\S+`)
	emailRE = regexp.MustCompile(`^[("'<\[]*[\w.+-]+@[\w-]+(?:\.[\w-]+)+[)"'>\].,;:!?]*$`)
	guidRE  = regexp.MustCompile(`(?i)^\{?[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\}?$`)
	hexRE   = regexp.MustCompile(`(?i)^(?:0x[0-9a-f]+|#?[0-9a-f]*\d[0-9a-f]{3,})$`)
	verRE   = regexp.MustCompile(`^[vV]?\d+(?:\.\d+)+$`)

	// Escape sequences and format specifiers excised from candidates:
	// C-style escapes (\n, \t, \x41, \u00e9), printf verbs (%d, %-8.2f)
	// and .NET-style placeholders ({0}, {1:N2}).
	escapeRE = regexp.MustCompile(`\\(?:[abfnrtv0'"\\?]|x[0-9A-Fa-f]{1,4}|u[0-9A-Fa-f]{4}|U[0-9A-Fa-f]{8})|%[-+#0]*\d*(?:\.\d+)?[a-zA-Z]|\{\d+(?::[^{}]*)?\}`)
)

func isURL(chunk string) bool {
	return urlRE.MatchString(chunk)
}

func isEmail(chunk string) bool {
	return emailRE.MatchString(chunk)
}

func isGUID(tok string) bool {
	return guidRE.MatchString(tok)
}

func isHexConstant(tok string) bool {
	return hexRE.MatchString(tok)
}

func isVersionNumber(tok string) bool {
	return verRE.MatchString(tok)
}

// maskEscapes blanks out escape sequences and format specifiers so the
// tokenizer treats them as separators. The result has the same length as the
// input, keeping every surviving byte at its original offset. A chunk that
// was nothing but escapes masks to all spaces and yields no candidates;
// letters flanking an excised escape become independent candidates.
func maskEscapes(chunk string) string {
	locs := escapeRE.FindAllStringIndex(chunk, -1)
	if locs == nil {
		return chunk
	}
	b := []byte(chunk)
	for _, loc := range locs {
		for i := loc[0]; i < loc[1]; i++ {
			b[i] = ' '
		}
	}
	return string(b)
}

// MatchCase adjusts the casing of replacement to follow the original word:
// all-caps stays all-caps, a capitalized original capitalizes the
// replacement, anything else lowers it.
func MatchCase(original, replacement string) string {
	if original == "" || replacement == "" {
		return replacement
	}
	switch {
	case original == strings.ToUpper(original) && len(original) > 1:
		return strings.ToUpper(replacement)
	case isCapitalized(original):
		return strings.ToUpper(replacement[:1]) + replacement[1:]
	default:
		return strings.ToLower(replacement)
	}
}

func isCapitalized(s string) bool {
	if s == "" {
		return false
	}
	first := s[:1]
	return first == strings.ToUpper(first) && first != strings.ToLower(first)
}
