package analysis

// KeywordTokenizer emits the entire input as a single token.
type KeywordTokenizer struct{}

// NewKeywordTokenizer creates a new KeywordTokenizer.
func NewKeywordTokenizer() *KeywordTokenizer {
	return &KeywordTokenizer{}
}

// TokenStream implements Tokenizer.
func (KeywordTokenizer) TokenStream(text string) TokenStream {
	if text == "" {
		return newSliceTokenStream(nil)
	}
	return newSliceTokenStream([]Token{{
		OffsetFrom:     0,
		OffsetTo:       len(text),
		Position:       0,
		PositionLength: 1,
		Text:           text,
	}})
}
