package analysis

import (
	"io"

	"JiebaSearch/internal/segment"
)

// JiebaTokenizer tokenizes Chinese text with a segmentation engine in search
// mode. Overlapping words are emitted in engine order; compound words carry
// the position span of the atomic words they contain.
type JiebaTokenizer struct {
	seg segment.Segmenter
}

var _ Tokenizer = (*JiebaTokenizer)(nil)

// NewJiebaTokenizer uses the process-wide engine, loaded on first use.
func NewJiebaTokenizer() *JiebaTokenizer {
	return &JiebaTokenizer{seg: segment.Shared{}}
}

// NewJiebaTokenizerWith uses the given segmenter, typically a
// *segment.Custom wrapping a caller-owned engine.
func NewJiebaTokenizerWith(seg segment.Segmenter) *JiebaTokenizer {
	return &JiebaTokenizer{seg: seg}
}

// TokenStream segments text once and returns a stream over the result.
// The current token is primed with the first word, or the zero token when
// text has no words.
func (t *JiebaTokenizer) TokenStream(text string) TokenStream {
	words := t.seg.Segment(text)
	ts := &jiebaTokenStream{words: words}
	if len(words) > 0 {
		ts.fill(words[0])
	}
	return ts
}

// Close releases a caller-owned engine: the binding is severed and the
// engine closed when it is an io.Closer. It is a no-op for the shared engine.
func (t *JiebaTokenizer) Close() error {
	c, ok := t.seg.(*segment.Custom)
	if !ok {
		return nil
	}
	if closer, ok := c.Into().(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (t *JiebaTokenizer) ownsEngine() bool {
	_, ok := t.seg.(*segment.Custom)
	return ok
}

type jiebaTokenStream struct {
	words []segment.Word
	index int
	token Token
}

func (ts *jiebaTokenStream) Advance() bool {
	if ts.index >= len(ts.words) {
		return false
	}
	ts.fill(ts.words[ts.index])
	ts.index++
	return true
}

func (ts *jiebaTokenStream) fill(w segment.Word) {
	ts.token.OffsetFrom = w.Start
	ts.token.OffsetTo = w.End
	ts.token.Position = w.StartPos
	ts.token.PositionLength = w.EndPos - w.StartPos
	ts.token.Text = w.Text
}

func (ts *jiebaTokenStream) Token() Token {
	return ts.token
}

func (ts *jiebaTokenStream) TokenMut() *Token {
	return &ts.token
}
