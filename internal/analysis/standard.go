package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// StandardTokenizer splits on Unicode word boundaries and lowercases tokens.
type StandardTokenizer struct{}

// NewStandardTokenizer creates a new StandardTokenizer.
func NewStandardTokenizer() *StandardTokenizer {
	return &StandardTokenizer{}
}

// TokenStream implements Tokenizer.
func (StandardTokenizer) TokenStream(text string) TokenStream {
	var tokens []Token
	pos := 0
	i := 0

	for i < len(text) {
		// Skip non-word characters.
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isWordRune(r) {
			i += size
			continue
		}

		start := i
		for i < len(text) {
			r, size = utf8.DecodeRuneInString(text[i:])
			if !isWordRune(r) {
				break
			}
			i += size
		}

		tokens = append(tokens, Token{
			OffsetFrom:     start,
			OffsetTo:       i,
			Position:       pos,
			PositionLength: 1,
			Text:           strings.ToLower(text[start:i]),
		})
		pos++
	}

	return newSliceTokenStream(tokens)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
