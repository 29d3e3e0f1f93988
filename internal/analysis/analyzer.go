package analysis

import "io"

// Analyzer chains a tokenizer with token filters. It is itself a Tokenizer,
// so analyzers can be registered and composed wherever a tokenizer fits.
type Analyzer struct {
	tokenizer Tokenizer
	filters   []TokenFilter
}

var _ Tokenizer = (*Analyzer)(nil)

// NewAnalyzer creates an analyzer applying filters in order.
func NewAnalyzer(tokenizer Tokenizer, filters ...TokenFilter) *Analyzer {
	return &Analyzer{tokenizer: tokenizer, filters: filters}
}

// TokenStream implements Tokenizer.
func (a *Analyzer) TokenStream(text string) TokenStream {
	ts := a.tokenizer.TokenStream(text)
	for _, f := range a.filters {
		ts = f.Filter(ts)
	}
	return ts
}

// Analyze returns every token of text.
func (a *Analyzer) Analyze(text string) []Token {
	return Collect(a.TokenStream(text))
}

// Close releases the tokenizer's resources when it holds any.
func (a *Analyzer) Close() error {
	if c, ok := a.tokenizer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ownsEngine reports whether Close releases anything.
func (a *Analyzer) ownsEngine() bool {
	if jt, ok := a.tokenizer.(*JiebaTokenizer); ok {
		return jt.ownsEngine()
	}
	_, ok := a.tokenizer.(io.Closer)
	return ok
}
