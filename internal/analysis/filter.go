package analysis

import (
	"unicode"

	"github.com/cockroachdb/errors"
	"github.com/kljensen/snowball"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// TokenFilter wraps a token stream. Filters rewrite tokens in place through
// TokenMut or drop them; they never reorder.
type TokenFilter interface {
	Filter(ts TokenStream) TokenStream
}

// rewriteStream applies fn to the text of every token pulled through it.
type rewriteStream struct {
	TokenStream
	fn func(string) string
}

func (s *rewriteStream) Advance() bool {
	if !s.TokenStream.Advance() {
		return false
	}
	tok := s.TokenStream.TokenMut()
	tok.Text = s.fn(tok.Text)
	return true
}

// LowerCaser lowercases token text.
type LowerCaser struct{}

// Filter implements TokenFilter.
func (LowerCaser) Filter(ts TokenStream) TokenStream {
	// A Caser keeps state, so each stream gets its own.
	return &rewriteStream{TokenStream: ts, fn: cases.Lower(language.Und).String}
}

// WidthFolder applies NFKC normalization, folding full-width Latin letters,
// digits and punctuation to their ASCII forms. Offsets are left unchanged.
type WidthFolder struct{}

// Filter implements TokenFilter.
func (WidthFolder) Filter(ts TokenStream) TokenStream {
	return &rewriteStream{TokenStream: ts, fn: norm.NFKC.String}
}

// Stemmer reduces Latin-script tokens to their snowball stem. Tokens with
// any non-Latin letter, such as Chinese words, pass through unchanged.
type Stemmer struct {
	language string
}

// DefaultStemmerLanguage is used when no language is configured.
const DefaultStemmerLanguage = "english"

// NewStemmer returns a stemmer for a snowball language.
func NewStemmer(lang string) (*Stemmer, error) {
	if lang == "" {
		lang = DefaultStemmerLanguage
	}
	if _, err := snowball.Stem("test", lang, true); err != nil {
		return nil, errors.Wrapf(ErrInvalidParams, "stemmer language %q", lang)
	}
	return &Stemmer{language: lang}, nil
}

// Filter implements TokenFilter.
func (s *Stemmer) Filter(ts TokenStream) TokenStream {
	return &rewriteStream{TokenStream: ts, fn: s.stem}
}

func (s *Stemmer) stem(text string) string {
	for _, r := range text {
		if r > unicode.MaxLatin1 || !unicode.IsLetter(r) {
			return text
		}
	}
	stemmed, err := snowball.Stem(text, s.language, true)
	if err != nil || stemmed == "" {
		return text
	}
	return stemmed
}

// RemoveLongFilter drops tokens whose text is Limit bytes or longer.
type RemoveLongFilter struct {
	Limit int
}

// Filter implements TokenFilter.
func (f RemoveLongFilter) Filter(ts TokenStream) TokenStream {
	return &removeLongStream{TokenStream: ts, limit: f.Limit}
}

type removeLongStream struct {
	TokenStream
	limit int
}

func (s *removeLongStream) Advance() bool {
	for s.TokenStream.Advance() {
		if len(s.TokenStream.TokenMut().Text) < s.limit {
			return true
		}
	}
	return false
}
