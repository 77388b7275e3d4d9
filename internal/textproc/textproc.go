// Package textproc holds the tokenizer shared by the embedder, the lexical
// fallback ranking and the preview summarizer.
package textproc

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var wordRe = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

// Fold lowercases s and strips combining marks, so "Análisis" and
// "analisis" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(folded)
}

// Tokenize returns the folded words of s in order, stopwords included.
func Tokenize(s string) []string {
	return wordRe.FindAllString(Fold(s), -1)
}

// Terms returns the folded words of s with stopwords removed.
func Terms(s string) []string {
	toks := Tokenize(s)
	out := toks[:0]
	for _, t := range toks {
		if !IsStopword(t) {
			out = append(out, t)
		}
	}
	return out
}

// IsStopword reports whether a folded token is an English or Spanish
// function word.
func IsStopword(tok string) bool {
	_, ok := stopwords[tok]
	return ok
}

var stopwords = func() map[string]struct{} {
	words := []string{
		// english
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at",
		"by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that",
		"these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so",
		"such", "into", "about", "between", "through", "during", "before", "after", "above", "below",
		"out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
		// spanish
		"el", "la", "los", "las", "un", "una", "unos", "unas", "y", "o", "de", "del", "al", "en",
		"con", "por", "para", "que", "se", "es", "son", "su", "sus", "lo", "le", "les", "como", "más",
		"pero", "sin", "sobre", "este", "esta", "estos", "estas", "ese", "esa", "entre", "cuando",
		"también", "hay", "fue", "ser", "ha", "han", "muy", "ya", "sí",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[Fold(w)] = struct{}{}
	}
	return m
}()
