package segment

import (
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/go-ego/gse"
)

// EngineGse is the name of the gse-backed engine.
const EngineGse = "gse"

// GseEngine segments text with the pure-Go gse segmenter.
type GseEngine struct {
	seg gse.Segmenter
}

var _ Engine = (*GseEngine)(nil)

// NewGseEngine loads dictPath, or gse's embedded Chinese dictionary when
// dictPath is empty, together with the default HMM model.
func NewGseEngine(dictPath string) (*GseEngine, error) {
	e := &GseEngine{}
	var err error
	if dictPath == "" {
		err = e.seg.LoadDictEmbed()
	} else {
		err = e.seg.LoadDict(dictPath)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load gse dictionary %q", dictPath)
	}
	e.seg.LoadModel()
	return e, nil
}

// Name implements Engine.
func (e *GseEngine) Name() string {
	return EngineGse
}

// Cut implements Engine. gse returns lower-cased copies covering the whole
// input, so each word is matched back onto text by rune count, ignoring
// case. Words that cannot be placed are dropped.
// Search mode follows jieba: dictionary 2-grams, then 3-grams, then the word.
func (e *GseEngine) Cut(text string, mode Mode, hmm bool) []Piece {
	if text == "" {
		return nil
	}
	var pieces []Piece
	cursor := 0
	for _, w := range e.seg.Cut(text, hmm) {
		if w == "" {
			continue
		}
		start, end, ok := locate(text, cursor, w)
		if !ok {
			continue
		}
		cursor = end
		if mode == ModeSearch {
			pieces = e.appendGrams(pieces, text, start, end, 2)
			pieces = e.appendGrams(pieces, text, start, end, 3)
		}
		pieces = append(pieces, Piece{Text: text[start:end], Start: start, End: end})
	}
	return pieces
}

// locate finds the first span of text at or after cursor that equals w
// under Unicode case folding and has as many runes as w.
func locate(text string, cursor int, w string) (int, int, bool) {
	n := utf8.RuneCountInString(w)
	for start := cursor; start < len(text); {
		end := start
		for i := 0; i < n && end < len(text); i++ {
			_, size := utf8.DecodeRuneInString(text[end:])
			end += size
		}
		if strings.EqualFold(text[start:end], w) {
			return start, end, true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		start += size
	}
	return 0, 0, false
}

// appendGrams appends the n-rune windows of text[start:end] that are
// dictionary words, when the word is longer than n runes.
func (e *GseEngine) appendGrams(pieces []Piece, text string, start, end, n int) []Piece {
	word := text[start:end]
	if utf8.RuneCountInString(word) <= n {
		return pieces
	}
	bounds := make([]int, 0, len(word)+1)
	for i := range word {
		bounds = append(bounds, i)
	}
	bounds = append(bounds, len(word))
	for i := 0; i+n < len(bounds); i++ {
		gram := word[bounds[i]:bounds[i+n]]
		if freq, _, ok := e.seg.Find(strings.ToLower(gram)); ok && freq > 0 {
			pieces = append(pieces, Piece{Text: gram, Start: start + bounds[i], End: start + bounds[i+n]})
		}
	}
	return pieces
}
