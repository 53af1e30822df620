package classify

import (
	"path/filepath"
	"strings"
)

// LanguageSpec ties a language name and its file extensions to the lexical
// configuration used to classify it. Markup languages are classified by the
// DOM-aware Markup classifier instead of a CLike state machine.
type LanguageSpec struct {
	Name       string
	Extensions []string
	Markup     bool
	Config     Config
}

// NewClassifier returns a line classifier for the language. For markup
// languages this is the classifier used inside script blocks; whole-document
// markup classification goes through NewMarkup.
func (ls LanguageSpec) NewClassifier() *CLike {
	return NewCLike(ls.Config)
}

// Languages returns the supported language table.
func Languages() []LanguageSpec {
	return []LanguageSpec{
		{
			Name:       "Go",
			Extensions: []string{".go"},
			Config: Config{
				Name:              "Go",
				LineComment:       "//",
				BlockCommentStart: "/*",
				BlockCommentEnd:   "*/",
				StringDelims:      []byte{'"'},
				RawStringDelim:    '`',
				CharLiteral:       true,
			},
		},
		{
			Name:       "C#",
			Extensions: []string{".cs"},
			Config: Config{
				Name:                 "C#",
				LineComment:          "//",
				DocLineComment:       "///",
				BlockCommentStart:    "/*",
				BlockCommentEnd:      "*/",
				DocBlockCommentStart: "/**",
				StringDelims:         []byte{'"'},
				VerbatimPrefix:       `@"`,
				CharLiteral:          true,
				RegionDirective:      "#region",
				EndRegion:            "#endregion",
			},
		},
		{
			Name:       "C/C++",
			Extensions: []string{".c", ".h", ".cpp", ".hpp", ".cc", ".hh", ".cxx"},
			Config: Config{
				Name:                 "C/C++",
				LineComment:          "//",
				DocLineComment:       "///",
				BlockCommentStart:    "/*",
				BlockCommentEnd:      "*/",
				DocBlockCommentStart: "/**",
				StringDelims:         []byte{'"'},
				CharLiteral:          true,
			},
		},
		{
			Name:       "Java",
			Extensions: []string{".java"},
			Config: Config{
				Name:                 "Java",
				LineComment:          "//",
				BlockCommentStart:    "/*",
				BlockCommentEnd:      "*/",
				DocBlockCommentStart: "/**",
				StringDelims:         []byte{'"'},
				CharLiteral:          true,
			},
		},
		{
			Name:       "JavaScript",
			Extensions: []string{".js", ".jsx", ".ts", ".tsx", ".mjs"},
			Config: Config{
				Name:                 "JavaScript",
				LineComment:          "//",
				BlockCommentStart:    "/*",
				BlockCommentEnd:      "*/",
				DocBlockCommentStart: "/**",
				StringDelims:         []byte{'"', '\''},
				RawStringDelim:       '`',
			},
		},
		{
			Name:       "Python",
			Extensions: []string{".py"},
			Config: Config{
				Name:                 "Python",
				LineComment:          "#",
				DocBlockCommentStart: `"""`,
				BlockCommentEnd:      `"""`,
				StringDelims:         []byte{'"', '\''},
			},
		},
		{
			Name:       "HTML",
			Extensions: []string{".html", ".htm", ".xhtml"},
			Markup:     true,
			Config: Config{
				// Script block contents are classified as JavaScript.
				Name:                 "JavaScript",
				LineComment:          "//",
				BlockCommentStart:    "/*",
				BlockCommentEnd:      "*/",
				DocBlockCommentStart: "/**",
				StringDelims:         []byte{'"', '\''},
				RawStringDelim:       '`',
			},
		},
		{
			Name:       "XML",
			Extensions: []string{".xml", ".xaml", ".config", ".csproj", ".resx"},
			Markup:     true,
			Config:     Config{Name: "XML"},
		},
	}
}

// ByName finds a language by case-insensitive name.
func ByName(name string) (LanguageSpec, bool) {
	for _, ls := range Languages() {
		if strings.EqualFold(ls.Name, name) {
			return ls, true
		}
	}
	return LanguageSpec{}, false
}

// ByExtension finds a language by file extension (with or without the
// leading dot).
func ByExtension(ext string) (LanguageSpec, bool) {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	for _, ls := range Languages() {
		for _, e := range ls.Extensions {
			if strings.EqualFold(e, ext) {
				return ls, true
			}
		}
	}
	return LanguageSpec{}, false
}

// ForFile picks the language for a path by its extension.
func ForFile(path string) (LanguageSpec, bool) {
	return ByExtension(filepath.Ext(path))
}
