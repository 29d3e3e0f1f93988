package indexing

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"JiebaSearch/internal/analysis"
	"JiebaSearch/internal/index"
)

func testSchema() *index.Schema {
	return &index.Schema{
		Fields: []index.FieldDef{
			{Name: "id", Type: index.FieldTypeKeyword, Stored: true, Indexed: true},
			{Name: "title", Type: index.FieldTypeText, Analyzer: index.AnalyzerJieba, Stored: true, Indexed: true, Positions: true},
			{Name: "body", Type: index.FieldTypeText, Indexed: true, Positions: true},
			{Name: "aliases", Type: index.FieldTypeText, Analyzer: index.AnalyzerJieba, Indexed: true, Positions: true, MultiValued: true},
			{Name: "tags", Type: index.FieldTypeKeyword, Stored: true, Indexed: true, MultiValued: true},
			{Name: "metadata", Type: index.FieldTypeStoredOnly, Stored: true},
		},
		DefaultAnalyzer: index.AnalyzerStandard,
	}
}

func newTestWriter(t *testing.T) *Writer {
	t.Helper()
	s := testSchema()
	r := analysis.NewRegistry()
	require.NoError(t, s.Validate(r.Has))
	return NewWriter(s, r)
}

func doc(fields map[string]interface{}) Document {
	return Document{Fields: fields}
}

func TestWriteBuffer_AllocateDocID(t *testing.T) {
	buf := NewWriteBuffer()

	id1, err := buf.AllocateDocID("doc-1")
	require.NoError(t, err)
	id2, err := buf.AllocateDocID("doc-2")
	require.NoError(t, err)

	assert.Equal(t, uint32(0), id1)
	assert.Equal(t, uint32(1), id2)
	assert.Equal(t, 2, buf.DocCount)
	assert.Equal(t, "doc-2", buf.ExternalID(1))
	assert.Equal(t, "", buf.ExternalID(7))

	_, err = buf.AllocateDocID("doc-1")
	assert.True(t, errors.Is(err, ErrDuplicateDoc))
}

func TestWriteBuffer_AddPostingSortsOccurrences(t *testing.T) {
	buf := NewWriteBuffer()

	buf.AddPosting("title", "北京", 0, 3, []uint32{4, 0, 2}, []uint32{1, 2, 1})
	buf.AddPosting("title", "大学", 0, 1, []uint32{1}, []uint32{1})
	buf.AddPosting("title", "北京", 1, 1, []uint32{0}, []uint32{1})

	assert.Equal(t, 2, buf.TermCount)
	pl := buf.Postings("title", "北京")
	require.Len(t, pl.Entries, 2)
	assert.Equal(t, []uint32{0, 2, 4}, pl.Entries[0].Positions)
	assert.Equal(t, []uint32{2, 1, 1}, pl.Entries[0].PositionLengths)
	assert.Nil(t, buf.Postings("title", "上海"))
	assert.Nil(t, buf.Postings("body", "北京"))
}

func TestWriteBuffer_LimitsAndReset(t *testing.T) {
	buf := NewWriteBuffer()
	buf.MaxDocs = 2

	_, err := buf.AllocateDocID("doc-1")
	require.NoError(t, err)
	assert.False(t, buf.IsFull())
	_, err = buf.AllocateDocID("doc-2")
	require.NoError(t, err)
	assert.True(t, buf.IsFull())

	buf.AddPosting("title", "hello", 0, 1, nil, nil)
	buf.StoreField(0, "title", []byte("test"))
	assert.Greater(t, buf.MemoryUsed(), int64(0))

	buf.Reset()
	assert.Equal(t, 0, buf.DocCount)
	assert.Equal(t, 0, buf.TermCount)
	assert.Empty(t, buf.InvertedIndex)
	assert.Equal(t, int64(0), buf.MemoryUsed())
}

func TestWriter_AddDocument(t *testing.T) {
	w := newTestWriter(t)

	err := w.AddDocument(doc(map[string]interface{}{
		"id":       "doc-1",
		"title":    "北京大学",
		"body":     "Full-text search is a technique",
		"tags":     []interface{}{"search", 2024},
		"metadata": map[string]interface{}{"source": "wiki"},
	}))
	require.NoError(t, err)

	buf := w.Buffer()
	assert.Equal(t, 1, buf.DocCount)

	for _, term := range []string{"北京", "大学", "北京大学"} {
		assert.NotNil(t, buf.Postings("title", term), term)
	}
	assert.NotNil(t, buf.Postings("body", "technique"))
	assert.NotNil(t, buf.Postings("tags", "search"))
	assert.NotNil(t, buf.Postings("tags", "2024"))
	assert.Nil(t, buf.Postings("metadata", "wiki"))

	stored := buf.StoredFields[0]
	assert.Equal(t, "北京大学", string(stored["title"]))
	assert.JSONEq(t, `{"source": "wiki"}`, string(stored["metadata"]))
	_, ok := stored["body"]
	assert.False(t, ok, "body is not stored")
}

func TestWriter_CompoundPositions(t *testing.T) {
	w := newTestWriter(t)
	require.NoError(t, w.AddDocument(doc(map[string]interface{}{"id": "1", "title": "北京大学"})))

	buf := w.Buffer()
	entry := func(term string) PostingEntry {
		pl := buf.Postings("title", term)
		require.NotNil(t, pl, term)
		require.Len(t, pl.Entries, 1)
		return pl.Entries[0]
	}

	assert.Equal(t, []uint32{0}, entry("北京").Positions)
	assert.Equal(t, []uint32{1}, entry("大学").Positions)
	compound := entry("北京大学")
	assert.Equal(t, []uint32{0}, compound.Positions)
	assert.Equal(t, []uint32{2}, compound.PositionLengths)
}

func TestWriter_MultiValuedPositionGap(t *testing.T) {
	w := newTestWriter(t)
	require.NoError(t, w.AddDocument(doc(map[string]interface{}{
		"id":      "1",
		"aliases": []interface{}{"测试", "测试"},
	})))

	pl := w.Buffer().Postings("aliases", "测试")
	require.NotNil(t, pl)
	assert.Equal(t, uint32(2), pl.Entries[0].Freq)
	assert.Equal(t, []uint32{0, 1 + PositionGap}, pl.Entries[0].Positions)
}

func TestWriter_AddDocument_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want error
	}{
		{"missing id", doc(map[string]interface{}{"title": "No ID"}), ErrInvalidDocument},
		{"numeric id", doc(map[string]interface{}{"id": 7}), ErrInvalidDocument},
		{"unknown field", doc(map[string]interface{}{"id": "1", "author": "x"}), ErrUnknownField},
		{"text not string", doc(map[string]interface{}{"id": "1", "title": 3}), ErrInvalidDocument},
		{"array on single-valued", doc(map[string]interface{}{"id": "1", "title": []interface{}{"a"}}), ErrInvalidDocument},
		{"non-string text array", doc(map[string]interface{}{"id": "1", "aliases": []interface{}{1}}), ErrInvalidDocument},
		{"keyword object", doc(map[string]interface{}{"id": "1", "tags": map[string]interface{}{}}), ErrInvalidDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWriter(t)
			err := w.AddDocument(tt.doc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, 0, w.DocCount(), "failed document leaves the buffer unchanged")
		})
	}
}

func TestWriter_AddDocument_DuplicateID(t *testing.T) {
	w := newTestWriter(t)
	d := doc(map[string]interface{}{"id": "doc-1", "title": "First"})

	require.NoError(t, w.AddDocument(d))
	assert.True(t, errors.Is(w.AddDocument(d), ErrDuplicateDoc))
}

func TestWriter_BufferFull(t *testing.T) {
	w := newTestWriter(t)
	w.Buffer().MaxDocs = 1

	require.NoError(t, w.AddDocument(doc(map[string]interface{}{"id": "1"})))
	assert.True(t, w.IsFull())
	assert.True(t, errors.Is(w.AddDocument(doc(map[string]interface{}{"id": "2"})), ErrBufferFull))
}

func TestWriter_DeleteDocument(t *testing.T) {
	w := newTestWriter(t)
	require.NoError(t, w.AddDocuments([]Document{
		doc(map[string]interface{}{"id": "1", "title": "测试"}),
		doc(map[string]interface{}{"id": "2", "title": "测试"}),
	}))

	require.NoError(t, w.DeleteDocument("1"))
	assert.Error(t, w.DeleteDocument("missing"))
	assert.True(t, w.Buffer().IsDeleted(0))
	assert.False(t, w.Buffer().IsDeleted(1))
	assert.Equal(t, 1, w.Buffer().LiveDocs())
}

func TestWriter_AbortAndRelease(t *testing.T) {
	w := newTestWriter(t)
	_ = w.AddDocument(doc(map[string]interface{}{"id": "doc-1", "title": "Test"}))
	w.Abort()
	assert.Equal(t, 0, w.DocCount())

	w.Release()
	assert.True(t, errors.Is(w.AddDocument(doc(map[string]interface{}{"id": "doc-2"})), ErrWriterNotActive))
	assert.True(t, errors.Is(w.DeleteDocument("doc-2"), ErrWriterNotActive))
}

func TestWriter_AddDocuments_WrapsIndex(t *testing.T) {
	w := newTestWriter(t)
	err := w.AddDocuments([]Document{
		doc(map[string]interface{}{"id": "1"}),
		doc(map[string]interface{}{"title": "no id"}),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document 1")
	assert.Equal(t, 1, w.DocCount())
}

func TestWriteBuffer_FieldLengths(t *testing.T) {
	buf := NewWriteBuffer()
	assert.Equal(t, float32(0), buf.AvgFieldLength("body"))

	buf.SetFieldLength("body", 0, 3)
	buf.SetFieldLength("body", 1, 5)
	assert.Equal(t, uint32(5), buf.FieldLength("body", 1))
	assert.Equal(t, uint32(0), buf.FieldLength("title", 1))
	assert.Equal(t, float32(4), buf.AvgFieldLength("body"))

	buf.SetFieldLength("body", 1, 1)
	assert.Equal(t, float32(2), buf.AvgFieldLength("body"))
}

func TestWriter_RecordsFieldLengths(t *testing.T) {
	w := newTestWriter(t)
	require.NoError(t, w.AddDocument(doc(map[string]interface{}{"id": "a", "body": "Hello hello world"})))
	require.NoError(t, w.AddDocument(doc(map[string]interface{}{"id": "b", "body": "world"})))

	buf := w.Buffer()
	assert.Equal(t, uint32(3), buf.FieldLength("body", 0))
	assert.Equal(t, uint32(1), buf.FieldLength("body", 1))
	assert.Equal(t, float32(2), buf.AvgFieldLength("body"))
}

func TestWriter_RepeatedKeywordValues(t *testing.T) {
	w := newTestWriter(t)
	require.NoError(t, w.AddDocument(doc(map[string]interface{}{
		"id":   "a",
		"tags": []interface{}{"go", "search", "go"},
	})))

	pl := w.Buffer().Postings("tags", "go")
	require.NotNil(t, pl)
	require.Len(t, pl.Entries, 1)
	assert.Equal(t, uint32(0), pl.Entries[0].DocID)
	assert.Equal(t, uint32(2), pl.Entries[0].Freq)

	require.Len(t, w.Buffer().Postings("tags", "search").Entries, 1)
	assert.Equal(t, uint32(1), w.Buffer().Postings("tags", "search").Entries[0].Freq)
}
