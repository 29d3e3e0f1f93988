package analysis

// Token is a single token produced by a tokenizer.
// OffsetFrom and OffsetTo are byte offsets into the analyzed text.
// PositionLength is the number of atomic positions the token spans.
type Token struct {
	OffsetFrom     int
	OffsetTo       int
	Position       int
	PositionLength int
	Text           string
}

// TokenStream is a single-pass, pull-based sequence of tokens.
// A stream is owned by one caller and is not safe for concurrent use.
type TokenStream interface {
	// Advance moves to the next token. Once it returns false it keeps
	// returning false and the current token is left unchanged.
	Advance() bool

	// Token returns the current token.
	Token() Token

	// TokenMut returns the current token for in-place rewriting.
	// Changes are visible to later Token calls.
	TokenMut() *Token
}

// Tokenizer creates token streams. Implementations must be safe for
// concurrent use; the streams they return are not.
type Tokenizer interface {
	TokenStream(text string) TokenStream
}
