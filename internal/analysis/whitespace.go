package analysis

import "unicode"

// WhitespaceTokenizer splits text on whitespace without any normalization.
type WhitespaceTokenizer struct{}

// NewWhitespaceTokenizer creates a new WhitespaceTokenizer.
func NewWhitespaceTokenizer() *WhitespaceTokenizer {
	return &WhitespaceTokenizer{}
}

// TokenStream implements Tokenizer.
func (WhitespaceTokenizer) TokenStream(text string) TokenStream {
	var tokens []Token
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = appendField(tokens, text, start, i)
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = appendField(tokens, text, start, len(text))
	}
	return newSliceTokenStream(tokens)
}

func appendField(tokens []Token, text string, start, end int) []Token {
	return append(tokens, Token{
		OffsetFrom:     start,
		OffsetTo:       end,
		Position:       len(tokens),
		PositionLength: 1,
		Text:           text[start:end],
	})
}
