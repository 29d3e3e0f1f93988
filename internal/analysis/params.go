package analysis

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cast"
	"github.com/tidwall/gjson"

	"JiebaSearch/internal/segment"
)

// Tokenizer names accepted in analyzer params.
const (
	TokenizerStandard   = "standard"
	TokenizerWhitespace = "whitespace"
	TokenizerKeyword    = "keyword"
	TokenizerJieba      = "jieba"
)

// NewAnalyzerFromParams builds an analyzer from a JSON definition such as
//
//	{"tokenizer": "jieba", "filter": ["lowercase", {"type": "length", "max": 40}]}
//
// The tokenizer is a name or an object with a "type". A jieba tokenizer
// object may select "engine" ("jieba" or "gse") and dictionary paths
// ("dict_path", "hmm_path", "user_dict_path", "idf_path", "stop_words_path");
// without them it uses the shared engine. Filters are "lowercase", "nfkc",
// {"type": "length", "max": N} and {"type": "stemmer", "language": L}.
// Empty params yield the standard tokenizer with no filters.
func NewAnalyzerFromParams(params string) (*Analyzer, error) {
	params = strings.TrimSpace(params)
	if params == "" {
		return NewAnalyzer(NewStandardTokenizer()), nil
	}
	if !gjson.Valid(params) {
		return nil, errors.Wrap(ErrInvalidParams, "malformed json")
	}
	root := gjson.Parse(params)
	if !root.IsObject() {
		return nil, errors.Wrap(ErrInvalidParams, "params must be a json object")
	}

	filters, err := filtersFromParams(root.Get("filter"))
	if err != nil {
		return nil, err
	}
	tokenizer, err := tokenizerFromParams(root.Get("tokenizer"))
	if err != nil {
		return nil, err
	}
	return NewAnalyzer(tokenizer, filters...), nil
}

func typeOf(v gjson.Result) (string, error) {
	switch {
	case v.Type == gjson.String:
		return v.String(), nil
	case v.IsObject():
		typ := v.Get("type")
		if typ.Type != gjson.String {
			return "", errors.Wrapf(ErrInvalidParams, "missing type in %s", v.Raw)
		}
		return typ.String(), nil
	default:
		return "", errors.Wrapf(ErrInvalidParams, "expected a name or an object, got %s", v.Raw)
	}
}

func tokenizerFromParams(v gjson.Result) (Tokenizer, error) {
	if !v.Exists() {
		return NewStandardTokenizer(), nil
	}
	typ, err := typeOf(v)
	if err != nil {
		return nil, errors.Wrap(err, "tokenizer")
	}
	switch typ {
	case TokenizerStandard:
		return NewStandardTokenizer(), nil
	case TokenizerWhitespace:
		return NewWhitespaceTokenizer(), nil
	case TokenizerKeyword:
		return NewKeywordTokenizer(), nil
	case TokenizerJieba:
		return jiebaFromParams(v)
	default:
		return nil, errors.Wrapf(ErrInvalidParams, "unknown tokenizer %q", typ)
	}
}

func jiebaFromParams(v gjson.Result) (Tokenizer, error) {
	if !v.IsObject() {
		return NewJiebaTokenizer(), nil
	}
	paths := segment.DictPaths{
		Dict:      v.Get("dict_path").String(),
		HMM:       v.Get("hmm_path").String(),
		UserDict:  v.Get("user_dict_path").String(),
		IDF:       v.Get("idf_path").String(),
		StopWords: v.Get("stop_words_path").String(),
	}

	switch engine := v.Get("engine").String(); engine {
	case "", segment.EngineJieba:
		if paths == (segment.DictPaths{}) {
			return NewJiebaTokenizer(), nil
		}
		e, err := segment.NewJiebaEngine(paths)
		if err != nil {
			return nil, errors.Wrap(err, "jieba tokenizer")
		}
		return NewJiebaTokenizerWith(segment.NewCustom(e)), nil
	case segment.EngineGse:
		e, err := segment.NewGseEngine(paths.Dict)
		if err != nil {
			return nil, errors.Wrap(err, "jieba tokenizer")
		}
		return NewJiebaTokenizerWith(segment.NewCustom(e)), nil
	default:
		return nil, errors.Wrapf(ErrInvalidParams, "unknown segmentation engine %q", engine)
	}
}

func filtersFromParams(v gjson.Result) ([]TokenFilter, error) {
	if !v.Exists() {
		return nil, nil
	}
	if !v.IsArray() {
		return nil, errors.Wrap(ErrInvalidParams, "filter must be an array")
	}
	var filters []TokenFilter
	for _, item := range v.Array() {
		f, err := filterFromParams(item)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

func filterFromParams(v gjson.Result) (TokenFilter, error) {
	typ, err := typeOf(v)
	if err != nil {
		return nil, errors.Wrap(err, "filter")
	}
	switch typ {
	case "lowercase":
		return LowerCaser{}, nil
	case "nfkc":
		return WidthFolder{}, nil
	case "length":
		limit, err := cast.ToIntE(v.Get("max").Value())
		if err != nil || limit <= 0 {
			return nil, errors.Wrapf(ErrInvalidParams, "length filter needs a positive max, got %q", v.Get("max").Raw)
		}
		return RemoveLongFilter{Limit: limit}, nil
	case "stemmer":
		return NewStemmer(v.Get("language").String())
	default:
		return nil, errors.Wrapf(ErrInvalidParams, "unknown filter %q", typ)
	}
}
