package scoring

import (
	"fmt"
	"math"
)

// Default BM25 parameters.
const (
	DefaultK1 = 1.2
	DefaultB  = 0.75
)

// BM25Scorer computes BM25 relevance scores. A phrase is scored as a single
// term: its frequency is the number of positions it matches at and its
// document frequency the number of documents it matches.
type BM25Scorer struct {
	K1 float32
	B  float32

	DocCount  int64
	AvgDocLen float32
}

// NewBM25Scorer creates a scorer with default parameters and the given field stats.
func NewBM25Scorer(docCount int64, avgDocLen float32) *BM25Scorer {
	return &BM25Scorer{
		K1:        DefaultK1,
		B:         DefaultB,
		DocCount:  docCount,
		AvgDocLen: avgDocLen,
	}
}

// IDF computes the inverse document frequency.
//
//	IDF(q) = ln(1 + (N - n(q) + 0.5) / (n(q) + 0.5))
func (s *BM25Scorer) IDF(docFreq int64) float32 {
	n := float64(docFreq)
	N := float64(s.DocCount)
	return float32(math.Log(1 + (N-n+0.5)/(n+0.5)))
}

// Score computes the BM25 score of one document.
//
//	score = IDF × (tf × (k1 + 1)) / (tf + k1 × (1 - b + b × dl / avgdl))
//
// Without an average length the length normalization is skipped.
func (s *BM25Scorer) Score(freq uint32, docLen uint32, idf float32) float32 {
	tf := float32(freq)
	norm := float32(1)
	if s.AvgDocLen > 0 {
		norm = 1 - s.B + s.B*float32(docLen)/s.AvgDocLen
	}

	denominator := tf + s.K1*norm
	if denominator == 0 {
		return 0
	}
	return idf * tf * (s.K1 + 1) / denominator
}

// Explanation provides a human-readable breakdown of a score.
type Explanation struct {
	Description string        `json:"description"`
	Value       float32       `json:"value"`
	Details     []Explanation `json:"details,omitempty"`
}

// Explain breaks down the score of a phrase in one document.
func (s *BM25Scorer) Explain(field, phrase string, freq uint32, docLen uint32, docFreq int64) Explanation {
	idf := s.IDF(docFreq)
	return Explanation{
		Description: fmt.Sprintf("weight(%s:%q) [BM25]", field, phrase),
		Value:       s.Score(freq, docLen, idf),
		Details: []Explanation{
			{Description: fmt.Sprintf("idf(docFreq=%d, N=%d)", docFreq, s.DocCount), Value: idf},
			{Description: fmt.Sprintf("tf(freq=%d)", freq), Value: float32(freq)},
			{Description: fmt.Sprintf("dl=%d, avgdl=%.1f", docLen, s.AvgDocLen), Value: float32(docLen)},
		},
	}
}
