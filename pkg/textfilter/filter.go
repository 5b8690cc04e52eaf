// Package textfilter cleans player-supplied names before they reach the
// game log.
package textfilter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// MaxNameLength is the longest name kept, in runes.
	MaxNameLength = 24
	// DefaultName replaces names that are empty after cleaning.
	DefaultName = "Survivor"
)

// replacements maps blocked words to wasteland-flavoured stand-ins.
var replacements = map[string]string{
	"fuck":     "frag",
	"shit":     "scrap",
	"damn":     "dang",
	"hell":     "heck",
	"ass":      "mule",
	"bitch":    "raider",
	"bastard":  "raider",
	"crap":     "rust",
	"piss":     "rad",
	"cock":     "rooster",
	"dick":     "dusty",
	"asshole":  "scav",
	"dumbass":  "drifter",
	"jackass":  "mule",
	"bullshit": "baloney",
	"prick":    "thorn",
	"douche":   "ghoul",
	"whore":    "wanderer",
	"slut":     "wanderer",
	"retard":   "wanderer",
}

// NameFilter normalises and censors player names.
type NameFilter struct {
	regexes map[string]*regexp.Regexp
}

// NewNameFilter compiles the blocked word patterns.
func NewNameFilter() *NameFilter {
	f := &NameFilter{regexes: make(map[string]*regexp.Regexp, len(replacements))}
	for word := range replacements {
		f.regexes[word] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	}
	return f
}

// Clean strips control characters, collapses whitespace, censors blocked
// words and truncates to MaxNameLength. changed reports whether the result
// differs from the trimmed input.
func (f *NameFilter) Clean(name string) (cleaned string, changed bool) {
	trimmed := strings.TrimSpace(name)
	out := strings.Join(strings.Fields(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, trimmed)), " ")

	for word, re := range f.regexes {
		replacement := replacements[word]
		out = re.ReplaceAllStringFunc(out, func(match string) string {
			return preserveCase(match, replacement)
		})
	}

	if runes := []rune(out); len(runes) > MaxNameLength {
		out = strings.TrimSpace(string(runes[:MaxNameLength]))
	}
	if out == "" {
		out = DefaultName
	}
	return out, out != trimmed
}

// ContainsBlocked reports whether text has any blocked word.
func (f *NameFilter) ContainsBlocked(text string) bool {
	for _, re := range f.regexes {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// preserveCase applies the case pattern of the original word to the replacement
func preserveCase(original, replacement string) string {
	if original == "" {
		return replacement
	}
	if strings.ToUpper(original) == original {
		return strings.ToUpper(replacement)
	}
	if strings.ToLower(original) == original {
		return strings.ToLower(replacement)
	}
	titleCaser := cases.Title(language.English)
	if titleCaser.String(strings.ToLower(original)) == original {
		return titleCaser.String(replacement)
	}
	return strings.ToLower(replacement)
}
