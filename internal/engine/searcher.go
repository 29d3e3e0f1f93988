package engine

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"JiebaSearch/internal/index"
	"JiebaSearch/internal/indexing"
	"JiebaSearch/internal/scoring"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrFieldNotText = errors.New("field is not an indexed text field")
	ErrNoPositions  = errors.New("phrase query on a field without positions")
)

// Hit is a document matching a phrase.
type Hit struct {
	DocID uint32
	ID    string
	// Matches counts the distinct positions the phrase starts at, or the
	// term frequency for a single-token query.
	Matches int
	// Score is the BM25 score; only Top sets it.
	Score float32
}

// Searcher runs phrase queries over a writer's buffer. It must not be used
// while documents are being added.
type Searcher struct {
	writer *indexing.Writer

	Timeout        time.Duration
	MaxDocsVisited int
}

// NewSearcher creates a searcher with the default limits.
func NewSearcher(w *indexing.Writer) *Searcher {
	return &Searcher{
		writer:         w,
		Timeout:        DefaultTimeout,
		MaxDocsVisited: DefaultMaxDocsVisited,
	}
}

// queryTerm is a query token reduced to its text and its position relative
// to the first token of the query.
type queryTerm struct {
	text string
	rel  uint32
}

// Phrase returns the live documents whose field contains text as a phrase:
// text is analyzed with the field's analyzer and every (term, relative
// position) pair must occur at base+rel for one common base. A query of a
// single token is a term query. Hits are in DocID order.
func (s *Searcher) Phrase(field, text string) ([]Hit, error) {
	schema := s.writer.Schema()
	def, ok := schema.Field(field)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownField, "%q", field)
	}
	if def.Type != index.FieldTypeText || !def.Indexed {
		return nil, errors.Wrapf(ErrFieldNotText, "%q", field)
	}

	terms, err := s.analyzeQuery(schema.AnalyzerFor(def), text)
	if err != nil {
		return nil, err
	}
	if len(terms) == 0 {
		return nil, nil
	}

	byTerm := lo.GroupBy(terms, func(t queryTerm) string { return t.text })
	distinct := lo.Uniq(lo.Map(terms, func(t queryTerm, _ int) string { return t.text }))
	if len(terms) > 1 && !def.Positions {
		return nil, errors.Wrapf(ErrNoPositions, "%q", field)
	}

	buf := s.writer.Buffer()
	children := make([]PostingsIterator, 0, len(distinct))
	for _, term := range distinct {
		pl := buf.Postings(field, term)
		if pl == nil {
			return nil, nil
		}
		children = append(children, NewEntryIterator(pl.Entries))
	}

	ctx := NewExecutionContext(s.Timeout, s.MaxDocsVisited)
	conj := NewConjunctionIterator(children)
	var hits []Hit
	for conj.Next() {
		if err := ctx.Visit(); err != nil {
			return hits, err
		}
		docID := conj.DocID()
		if buf.IsDeleted(docID) {
			continue
		}

		matches := int(conj.Child(0).Freq())
		if len(terms) > 1 {
			matches = phraseMatches(conj, distinct, byTerm)
		}
		if matches > 0 {
			hits = append(hits, Hit{DocID: docID, ID: buf.ExternalID(docID), Matches: matches})
		}
	}
	return hits, nil
}

// Count returns the number of documents Phrase would return.
func (s *Searcher) Count(field, text string) (int, error) {
	hits, err := s.Phrase(field, text)
	return len(hits), err
}

// Top returns the k best phrase hits ranked by BM25, best first.
func (s *Searcher) Top(field, text string, k int) ([]Hit, error) {
	hits, err := s.Phrase(field, text)
	if err != nil || len(hits) == 0 {
		return nil, err
	}

	buf := s.writer.Buffer()
	scorer := scoring.NewBM25Scorer(int64(buf.LiveDocs()), buf.AvgFieldLength(field))
	idf := scorer.IDF(int64(len(hits)))

	collector := NewTopKCollector(k)
	for _, h := range hits {
		h.Score = scorer.Score(uint32(h.Matches), buf.FieldLength(field, h.DocID), idf)
		collector.Collect(h)
	}
	return collector.Results(), nil
}

// Stored returns the stored fields of a document as strings.
func (s *Searcher) Stored(docID uint32) map[string]string {
	fields := s.writer.Buffer().StoredFields[docID]
	if fields == nil {
		return nil
	}
	return lo.MapValues(fields, func(v []byte, _ string) string { return string(v) })
}

func (s *Searcher) analyzeQuery(analyzerName, text string) ([]queryTerm, error) {
	analyzer, err := s.writer.Registry().Get(analyzerName)
	if err != nil {
		return nil, err
	}

	type positioned struct {
		text string
		pos  int
	}
	var tokens []positioned
	ts := analyzer.TokenStream(text)
	for ts.Advance() {
		tok := ts.Token()
		if tok.Text != "" {
			tokens = append(tokens, positioned{tok.Text, tok.Position})
		}
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	base := lo.MinBy(tokens, func(a, b positioned) bool { return a.pos < b.pos }).pos
	terms := lo.Map(tokens, func(t positioned, _ int) queryTerm {
		return queryTerm{text: t.text, rel: uint32(t.pos - base)}
	})
	return lo.Uniq(terms), nil
}

// phraseMatches counts the bases at which every query term occurs in the
// document conj is positioned on. distinct[0] drives candidate bases.
func phraseMatches(conj *ConjunctionIterator, distinct []string, byTerm map[string][]queryTerm) int {
	positions := make(map[string][]uint32, len(distinct))
	for i, term := range distinct {
		positions[term] = conj.Child(i).Positions()
	}

	lead := byTerm[distinct[0]][0]
	matches := 0
	var last uint32
	for _, p := range positions[lead.text] {
		if p < lead.rel {
			continue
		}
		base := p - lead.rel
		if matches > 0 && base == last {
			continue
		}
		if allAt(base, byTerm, positions) {
			matches++
			last = base
		}
	}
	return matches
}

func allAt(base uint32, byTerm map[string][]queryTerm, positions map[string][]uint32) bool {
	for term, occurrences := range byTerm {
		for _, qt := range occurrences {
			if !containsPosition(positions[term], base+qt.rel) {
				return false
			}
		}
	}
	return true
}
