package reference

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// apostrophes folds typographic apostrophe variants into ASCII '.
var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "ʼ", "'", "`", "'")

// Tokenize normalizes s into its set of comparable words.
//
// The string is lower-cased, decomposed (NFD) with combining marks dropped,
// apostrophe variants collapsed, and every rune outside [a-z0-9'] (plus the
// Italian accented vowels) replaced by a space before splitting. So
// "Possibilità" and "possibilita" produce the same token.
func Tokenize(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, w := range strings.Fields(normalize(s)) {
		tokens[w] = true
	}
	return tokens
}

// normalize applies the folding used by Tokenize and returns a string of
// space-separated words.
func normalize(s string) string {
	s = strings.ToLower(s)
	s = FoldDiacritics(s)
	s = apostrophes.Replace(s)
	return strings.Map(func(r rune) rune {
		if isTokenRune(r) {
			return r
		}
		return ' '
	}, s)
}

func isTokenRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '\'':
		return true
	case r == 'à', r == 'è', r == 'ì', r == 'ò', r == 'ù':
		return true
	}
	return false
}

// FoldDiacritics removes combining marks after canonical decomposition, so
// "Attività" becomes "Attivita". On a transform error s is returned as is.
func FoldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// ShareWord reports whether a and b have at least one token in common.
// A string with no tokens never matches.
func ShareWord(a, b string) bool {
	ta, tb := Tokenize(a), Tokenize(b)
	if len(ta) == 0 || len(tb) == 0 {
		return false
	}
	for w := range ta {
		if tb[w] {
			return true
		}
	}
	return false
}

// Jaccard returns |A∩B| / |A∪B| over the token sets of a and b.
// Two token-less strings score 1; one token-less string scores 0.
func Jaccard(a, b string) float64 {
	return jaccardSets(Tokenize(a), Tokenize(b))
}

func jaccardSets(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	inter := 0
	for w := range a {
		if b[w] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
