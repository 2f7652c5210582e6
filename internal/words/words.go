package words

import (
	"strings"
)

// punctuation is stripped from a token before it is used as a key
const punctuation = ".,!?;:"

// Token is one tappable word of an article
type Token struct {
	Index   int    // Position in the article
	Surface string // Text as written, punctuation included
	Key     string // Normalized form used for saving and lookups
}

// Normalize lowercases a word and strips trailing or embedded punctuation.
// Normalize(Normalize(w)) == Normalize(w).
func Normalize(raw string) string {
	stripped := strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return -1
		}
		return r
	}, raw)
	return strings.ToLower(stripped)
}

// Tokenize splits text on whitespace into tokens
func Tokenize(text string) []Token {
	fields := strings.Fields(text)
	tokens := make([]Token, 0, len(fields))
	for i, f := range fields {
		tokens = append(tokens, Token{
			Index:   i,
			Surface: f,
			Key:     Normalize(f),
		})
	}
	return tokens
}
