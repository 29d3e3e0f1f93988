package analysis

// sliceTokenStream iterates tokens computed up front.
type sliceTokenStream struct {
	tokens []Token
	index  int
	token  Token
}

func newSliceTokenStream(tokens []Token) *sliceTokenStream {
	ts := &sliceTokenStream{tokens: tokens}
	if len(tokens) > 0 {
		ts.token = tokens[0]
	}
	return ts
}

func (ts *sliceTokenStream) Advance() bool {
	if ts.index >= len(ts.tokens) {
		return false
	}
	ts.token = ts.tokens[ts.index]
	ts.index++
	return true
}

func (ts *sliceTokenStream) Token() Token {
	return ts.token
}

func (ts *sliceTokenStream) TokenMut() *Token {
	return &ts.token
}

// Collect drains ts into a slice.
func Collect(ts TokenStream) []Token {
	var tokens []Token
	for ts.Advance() {
		tokens = append(tokens, ts.Token())
	}
	return tokens
}
