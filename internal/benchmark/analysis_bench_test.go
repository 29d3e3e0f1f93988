package benchmark

import (
	"strings"
	"testing"

	"JiebaSearch/internal/analysis"
	"JiebaSearch/internal/segment"
	"JiebaSearch/internal/testutil"
)

var longText = strings.Repeat(testutil.Sentence+"\n", 200)

func drainStream(ts analysis.TokenStream) int {
	n := 0
	for ts.Advance() {
		_ = ts.Token()
		n++
	}
	return n
}

func BenchmarkJieba_Tokenize(b *testing.B) {
	tok := analysis.NewJiebaTokenizer()
	drainStream(tok.TokenStream("测试")) // load the shared engine
	b.SetBytes(int64(len(longText)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		drainStream(tok.TokenStream(longText))
	}
}

func BenchmarkJieba_TokenizeShort(b *testing.B) {
	tok := analysis.NewJiebaTokenizer()
	drainStream(tok.TokenStream("测试"))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		drainStream(tok.TokenStream("北京大学"))
	}
}

func BenchmarkGse_Tokenize(b *testing.B) {
	e, err := segment.NewGseEngine("")
	if err != nil {
		b.Fatal(err)
	}
	tok := analysis.NewJiebaTokenizerWith(segment.NewCustom(e))
	b.SetBytes(int64(len(longText)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		drainStream(tok.TokenStream(longText))
	}
}

func BenchmarkAnalyzer_SearchFilters(b *testing.B) {
	a, err := analysis.NewAnalyzerFromParams(testutil.SearchAnalyzerParams)
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(longText)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		drainStream(a.TokenStream(longText))
	}
}

func BenchmarkAnalysis_Standard(b *testing.B) {
	tok := analysis.NewStandardTokenizer()
	text := "Full-text search is a technique for searching documents stored in a database. " +
		"It involves indexing the content of documents and building inverted indexes that map " +
		"terms to the documents containing them."
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		drainStream(tok.TokenStream(text))
	}
}
