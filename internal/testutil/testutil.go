package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"JiebaSearch/internal/analysis"
	"JiebaSearch/internal/index"
	"JiebaSearch/internal/indexing"
)

// SearchAnalyzer is a jieba analyzer with the usual search filters.
const SearchAnalyzer = "jieba_search"

// SearchAnalyzerParams defines SearchAnalyzer.
const SearchAnalyzerParams = `{
	"tokenizer": "jieba",
	"filter": [{"type": "length", "max": 40}, "lowercase", {"type": "stemmer", "language": "english"}]
}`

// Sentence is a classic segmentation sample with compound words.
const Sentence = "张华考上了北京大学；李萍进了中等技术学校；我在百货公司当售货员：我们都有光明的前途"

// NewRegistry returns a registry with SearchAnalyzer registered.
func NewRegistry(t testing.TB) *analysis.Registry {
	t.Helper()
	r := analysis.NewRegistry()
	require.NoError(t, r.RegisterParams(SearchAnalyzer, SearchAnalyzerParams))
	return r
}

// ChineseSchema returns a schema whose text fields use SearchAnalyzer.
func ChineseSchema() *index.Schema {
	return &index.Schema{
		DefaultAnalyzer: SearchAnalyzer,
		Fields: []index.FieldDef{
			{Name: "id", Type: index.FieldTypeKeyword, Stored: true, Indexed: true},
			{Name: "name", Type: index.FieldTypeText, Stored: true, Indexed: true, Positions: true},
			{Name: "body", Type: index.FieldTypeText, Indexed: true, Positions: true},
			{Name: "tags", Type: index.FieldTypeKeyword, Stored: true, Indexed: true, MultiValued: true},
		},
	}
}

// SampleDocuments returns a small set of Chinese test documents.
func SampleDocuments() []indexing.Document {
	return []indexing.Document{
		{Fields: map[string]interface{}{
			"id":   "doc-1",
			"name": "中华人民共和国人民大会堂",
			"body": "人民大会堂位于北京天安门广场西侧",
			"tags": []interface{}{"北京", "建筑"},
		}},
		{Fields: map[string]interface{}{
			"id":   "doc-2",
			"name": "北京大学",
			"body": "张华考上了北京大学",
			"tags": []interface{}{"北京", "大学"},
		}},
		{Fields: map[string]interface{}{
			"id":   "doc-3",
			"name": "中等技术学校",
			"body": "李萍进了中等技术学校",
			"tags": []interface{}{"学校"},
		}},
		{Fields: map[string]interface{}{
			"id":   "doc-4",
			"name": "百货公司",
			"body": "我在百货公司当售货员",
			"tags": []interface{}{"商店"},
		}},
		{Fields: map[string]interface{}{
			"id":   "doc-5",
			"name": "Search Engines 搜索引擎",
			"body": "Running search engines over Chinese text needs word segmentation",
			"tags": []interface{}{"search"},
		}},
	}
}

// IngestDocuments indexes a set of documents into a writer.
func IngestDocuments(t testing.TB, w *indexing.Writer, docs []indexing.Document) {
	t.Helper()
	for _, doc := range docs {
		require.NoError(t, w.AddDocument(doc), "AddDocument(%v)", doc.Fields["id"])
	}
}

// CreatePopulatedWriter creates a writer over ChineseSchema with the
// sample documents already ingested.
func CreatePopulatedWriter(t testing.TB) *indexing.Writer {
	t.Helper()
	schema := ChineseSchema()
	registry := NewRegistry(t)
	require.NoError(t, schema.Validate(registry.Has))

	w := indexing.NewWriter(schema, registry)
	IngestDocuments(t, w, SampleDocuments())
	return w
}
