package segment

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/yanyiwu/gojieba"
)

// EngineJieba is the name of the gojieba-backed engine.
const EngineJieba = "jieba"

// DictPaths locates the dictionaries of a JiebaEngine. Empty entries fall
// back to the dictionaries bundled with gojieba.
type DictPaths struct {
	Dict      string
	HMM       string
	UserDict  string
	IDF       string
	StopWords string
}

func (p DictPaths) resolve() []string {
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	return []string{
		pick(p.Dict, gojieba.DICT_PATH),
		pick(p.HMM, gojieba.HMM_PATH),
		pick(p.UserDict, gojieba.USER_DICT_PATH),
		pick(p.IDF, gojieba.IDF_PATH),
		pick(p.StopWords, gojieba.STOP_WORDS_PATH),
	}
}

// JiebaEngine segments text with cppjieba through gojieba.
type JiebaEngine struct {
	jieba *gojieba.Jieba
}

var _ Engine = (*JiebaEngine)(nil)

// NewJiebaEngine loads the dictionaries and builds the engine.
// The native engine aborts the process on unreadable files, so every path
// is checked first.
func NewJiebaEngine(paths DictPaths) (*JiebaEngine, error) {
	resolved := paths.resolve()
	for _, p := range resolved {
		st, err := os.Stat(p)
		if err != nil {
			return nil, errors.Wrapf(err, "jieba dictionary %q", p)
		}
		if st.IsDir() {
			return nil, errors.Newf("jieba dictionary %q is a directory", p)
		}
	}
	return &JiebaEngine{jieba: gojieba.NewJieba(resolved...)}, nil
}

// Name implements Engine.
func (e *JiebaEngine) Name() string {
	return EngineJieba
}

// Cut implements Engine. gojieba reports byte offsets, so each piece is
// re-sliced from text rather than taken from the engine's copy. The native
// engine stops at a NUL byte, so text is cut one NUL-free chunk at a time.
func (e *JiebaEngine) Cut(text string, mode Mode, hmm bool) []Piece {
	if text == "" {
		return nil
	}
	m := gojieba.DefaultMode
	if mode == ModeSearch {
		m = gojieba.SearchMode
	}
	var pieces []Piece
	offset := 0
	for _, chunk := range strings.Split(text, "\x00") {
		if chunk != "" {
			for _, w := range e.jieba.Tokenize(chunk, m, hmm) {
				if w.Start < 0 || w.End > len(chunk) || w.Start >= w.End {
					continue
				}
				start, end := offset+w.Start, offset+w.End
				pieces = append(pieces, Piece{Text: text[start:end], Start: start, End: end})
			}
		}
		offset += len(chunk) + 1
	}
	return pieces
}

// Close releases the native engine.
func (e *JiebaEngine) Close() error {
	e.jieba.Free()
	return nil
}
