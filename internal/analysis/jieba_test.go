package analysis

import (
	"fmt"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yanyiwu/gojieba"

	"JiebaSearch/internal/segment"
)

const sentence = "张华考上了北京大学；李萍进了中等技术学校；我在百货公司当售货员：我们都有光明的前途"

func tokenByText(t *testing.T, tokens []Token, text string) Token {
	t.Helper()
	for _, tk := range tokens {
		if tk.Text == text {
			return tk
		}
	}
	t.Fatalf("token %q not found in %v", text, texts(tokens))
	return Token{}
}

func assertTokensValid(t *testing.T, text string, tokens []Token) {
	t.Helper()
	for _, tk := range tokens {
		require.True(t, 0 <= tk.OffsetFrom && tk.OffsetFrom < tk.OffsetTo && tk.OffsetTo <= len(text), "bad offsets %+v", tk)
		assert.Equal(t, text[tk.OffsetFrom:tk.OffsetTo], tk.Text)
		assert.GreaterOrEqual(t, tk.PositionLength, 1)
		assert.GreaterOrEqual(t, tk.Position, 0)
	}
}

func TestJiebaTokenizer_SingleWord(t *testing.T) {
	ts := NewJiebaTokenizer().TokenStream("测试")

	require.True(t, ts.Advance())
	assert.Equal(t, Token{OffsetFrom: 0, OffsetTo: 6, Position: 0, PositionLength: 1, Text: "测试"}, ts.Token())
	assert.False(t, ts.Advance())
}

func TestJiebaTokenizer_Empty(t *testing.T) {
	ts := NewJiebaTokenizer().TokenStream("")
	assert.Equal(t, Token{}, ts.Token())
	assert.False(t, ts.Advance())
	assert.False(t, ts.Advance())
}

func TestJiebaTokenizer_PrimedAndIdempotentExhaustion(t *testing.T) {
	ts := NewJiebaTokenizer().TokenStream("测试")
	assert.Equal(t, "测试", ts.Token().Text, "current token is primed before Advance")

	require.True(t, ts.Advance())
	last := ts.Token()
	for i := 0; i < 3; i++ {
		assert.False(t, ts.Advance())
		assert.Equal(t, last, ts.Token())
	}
}

func TestJiebaTokenizer_CompoundSpansItsParts(t *testing.T) {
	tokens := Collect(NewJiebaTokenizer().TokenStream("北京大学"))
	assertTokensValid(t, "北京大学", tokens)

	beijing := tokenByText(t, tokens, "北京")
	daxue := tokenByText(t, tokens, "大学")
	compound := tokenByText(t, tokens, "北京大学")

	assert.Equal(t, Token{OffsetFrom: 0, OffsetTo: 6, Position: 0, PositionLength: 1, Text: "北京"}, beijing)
	assert.Equal(t, Token{OffsetFrom: 6, OffsetTo: 12, Position: 1, PositionLength: 1, Text: "大学"}, daxue)
	assert.Equal(t, Token{OffsetFrom: 0, OffsetTo: 12, Position: 0, PositionLength: 2, Text: "北京大学"}, compound)
}

func TestJiebaTokenizer_Sentence(t *testing.T) {
	tokens := Collect(NewJiebaTokenizer().TokenStream(sentence))
	require.NotEmpty(t, tokens)
	assertTokensValid(t, sentence, tokens)

	assert.Equal(t, "张华", tokens[0].Text)
	assert.Equal(t, 0, tokens[0].OffsetFrom)
	assert.Contains(t, texts(tokens), "售货员")

	// Atomic words advance one position at a time.
	seen := map[int]bool{}
	maxPos := 0
	for _, tk := range tokens {
		for p := tk.Position; p < tk.Position+tk.PositionLength; p++ {
			seen[p] = true
			maxPos = max(maxPos, p)
		}
	}
	for p := 0; p <= maxPos; p++ {
		assert.True(t, seen[p], "position %d is not covered", p)
	}
}

func TestJiebaTokenizer_TokenMutIsVisible(t *testing.T) {
	ts := NewJiebaTokenizer().TokenStream("测试")
	require.True(t, ts.Advance())

	ts.TokenMut().Text = "rewritten"
	assert.Equal(t, "rewritten", ts.Token().Text)
	assert.Equal(t, 6, ts.Token().OffsetTo)
}

func TestJiebaTokenizer_MixedScript(t *testing.T) {
	text := "Hello 世界, 中华人民共和国"
	tokens := Collect(NewJiebaTokenizer().TokenStream(text))
	assertTokensValid(t, text, tokens)
	for _, tk := range tokens {
		assert.True(t, utf8.ValidString(tk.Text))
	}
	assert.Contains(t, texts(tokens), "Hello")
}

func TestJiebaTokenizer_CustomMatchesShared(t *testing.T) {
	e, err := segment.NewJiebaEngine(segment.DictPaths{})
	require.NoError(t, err)
	custom := NewJiebaTokenizerWith(segment.NewCustom(e))
	defer func() { assert.NoError(t, custom.Close()) }()

	shared := NewJiebaTokenizer()
	for _, text := range []string{"", "测试", "北京大学", sentence} {
		assert.Equal(t, Collect(shared.TokenStream(text)), Collect(custom.TokenStream(text)), "text %q", text)
	}
}

func TestJiebaTokenizer_CloseReleasesCustomEngine(t *testing.T) {
	e, err := segment.NewJiebaEngine(segment.DictPaths{})
	require.NoError(t, err)
	tok := NewJiebaTokenizerWith(segment.NewCustom(e))

	require.NoError(t, tok.Close())
	assert.Panics(t, func() { tok.TokenStream("测试") })

	assert.NoError(t, NewJiebaTokenizer().Close(), "closing the shared tokenizer is a no-op")
}

func TestJiebaTokenizer_FromParams(t *testing.T) {
	params := fmt.Sprintf(`{"tokenizer": {"type": "jieba", "dict_path": %q}}`, gojieba.DICT_PATH)
	a, err := NewAnalyzerFromParams(params)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, []string{"测试"}, texts(a.Analyze("测试")))
}
