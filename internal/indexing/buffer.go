package indexing

import (
	"sort"
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

// Buffer limits.
const (
	DefaultBufferMemoryLimit = 64 * 1024 * 1024 // 64MB
	DefaultMaxDocs           = 100_000
)

var (
	ErrBufferFull      = errors.New("write buffer is full")
	ErrDuplicateDoc    = errors.New("duplicate document ID in buffer")
	ErrUnknownField    = errors.New("unknown field in document")
	ErrWriterNotActive = errors.New("writer is not active")
	ErrInvalidDocument = errors.New("invalid document")
)

// PostingEntry represents a single posting for a term in a field.
// Positions are ascending; PositionLengths[i] is the number of positions
// the occurrence at Positions[i] spans.
type PostingEntry struct {
	DocID           uint32
	Freq            uint32
	Positions       []uint32
	PositionLengths []uint32
}

// PostingsList accumulates postings for a single term in a single field,
// in ascending DocID order.
type PostingsList struct {
	Entries []PostingEntry
}

// WriteBuffer is an in-memory inverted index with stored fields.
type WriteBuffer struct {
	// InvertedIndex: field → term → postings list
	InvertedIndex map[string]map[string]*PostingsList

	// StoredFields: docID → field → value
	StoredFields map[uint32]map[string][]byte

	// FieldLengths: field → docID → token count
	FieldLengths map[string]map[uint32]uint32
	// totalLengths: field → sum of FieldLengths
	totalLengths map[string]uint64

	ExternalToInternal map[string]uint32
	InternalToExternal []string

	// Deletions holds internal IDs of deleted documents.
	Deletions map[uint32]bool

	NextDocID uint32
	DocCount  int
	TermCount int

	memoryUsed  atomic.Int64
	MemoryLimit int64
	MaxDocs     int
}

// NewWriteBuffer creates a new empty write buffer.
func NewWriteBuffer() *WriteBuffer {
	return &WriteBuffer{
		InvertedIndex:      make(map[string]map[string]*PostingsList),
		StoredFields:       make(map[uint32]map[string][]byte),
		FieldLengths:       make(map[string]map[uint32]uint32),
		totalLengths:       make(map[string]uint64),
		ExternalToInternal: make(map[string]uint32),
		Deletions:          make(map[uint32]bool),
		MemoryLimit:        DefaultBufferMemoryLimit,
		MaxDocs:            DefaultMaxDocs,
	}
}

// AddPosting adds a posting entry for the given field and term. Occurrences
// are sorted by position; positionLengths may be nil when positions is.
func (b *WriteBuffer) AddPosting(field, term string, docID uint32, freq uint32, positions, positionLengths []uint32) {
	fieldMap, ok := b.InvertedIndex[field]
	if !ok {
		fieldMap = make(map[string]*PostingsList)
		b.InvertedIndex[field] = fieldMap
	}

	pl, ok := fieldMap[term]
	if !ok {
		pl = &PostingsList{}
		fieldMap[term] = pl
		b.TermCount++
		b.memoryUsed.Add(int64(len(term)))
	}

	if len(positions) > 1 {
		sort.Sort(occurrences{positions, positionLengths})
	}
	pl.Entries = append(pl.Entries, PostingEntry{
		DocID:           docID,
		Freq:            freq,
		Positions:       positions,
		PositionLengths: positionLengths,
	})

	// Approximate memory tracking.
	b.memoryUsed.Add(int64(16 + len(positions)*8))
}

// Postings returns the postings of term in field, or nil.
func (b *WriteBuffer) Postings(field, term string) *PostingsList {
	return b.InvertedIndex[field][term]
}

// SetFieldLength records the number of tokens of a document field.
func (b *WriteBuffer) SetFieldLength(field string, docID uint32, length uint32) {
	lengths, ok := b.FieldLengths[field]
	if !ok {
		lengths = make(map[uint32]uint32)
		b.FieldLengths[field] = lengths
	}
	b.totalLengths[field] += uint64(length) - uint64(lengths[docID])
	lengths[docID] = length
	b.memoryUsed.Add(8)
}

// FieldLength returns the number of tokens of a document field.
func (b *WriteBuffer) FieldLength(field string, docID uint32) uint32 {
	return b.FieldLengths[field][docID]
}

// AvgFieldLength returns the mean token count of field over the documents
// that have it, or 0.
func (b *WriteBuffer) AvgFieldLength(field string) float32 {
	n := len(b.FieldLengths[field])
	if n == 0 {
		return 0
	}
	return float32(b.totalLengths[field]) / float32(n)
}

// StoreField stores a field value for a document.
func (b *WriteBuffer) StoreField(docID uint32, field string, value []byte) {
	fields, ok := b.StoredFields[docID]
	if !ok {
		fields = make(map[string][]byte)
		b.StoredFields[docID] = fields
	}
	fields[field] = value
	b.memoryUsed.Add(int64(len(value) + len(field)))
}

// AllocateDocID assigns an internal doc ID for an external ID.
// Returns an error if the external ID is already in the buffer.
func (b *WriteBuffer) AllocateDocID(externalID string) (uint32, error) {
	if _, exists := b.ExternalToInternal[externalID]; exists {
		return 0, errors.Wrapf(ErrDuplicateDoc, "%q", externalID)
	}

	docID := b.NextDocID
	b.NextDocID++
	b.DocCount++
	b.ExternalToInternal[externalID] = docID
	b.InternalToExternal = append(b.InternalToExternal, externalID)
	return docID, nil
}

// ExternalID returns the external ID of an internal doc ID.
func (b *WriteBuffer) ExternalID(docID uint32) string {
	if int(docID) >= len(b.InternalToExternal) {
		return ""
	}
	return b.InternalToExternal[docID]
}

// MemoryUsed returns the approximate memory used by the buffer.
func (b *WriteBuffer) MemoryUsed() int64 {
	return b.memoryUsed.Load()
}

// IsFull returns true if the buffer has reached its memory or document limit.
func (b *WriteBuffer) IsFull() bool {
	return b.DocCount >= b.MaxDocs || b.memoryUsed.Load() >= b.MemoryLimit
}

// MarkDeleted hides a document from searches. It reports whether the
// external ID was present.
func (b *WriteBuffer) MarkDeleted(externalID string) bool {
	docID, ok := b.ExternalToInternal[externalID]
	if !ok {
		return false
	}
	b.Deletions[docID] = true
	return true
}

// IsDeleted reports whether docID was deleted.
func (b *WriteBuffer) IsDeleted(docID uint32) bool {
	return b.Deletions[docID]
}

// LiveDocs returns the number of documents not deleted.
func (b *WriteBuffer) LiveDocs() int {
	return b.DocCount - len(b.Deletions)
}

// Reset clears the buffer for reuse.
func (b *WriteBuffer) Reset() {
	b.InvertedIndex = make(map[string]map[string]*PostingsList)
	b.StoredFields = make(map[uint32]map[string][]byte)
	b.FieldLengths = make(map[string]map[uint32]uint32)
	b.totalLengths = make(map[string]uint64)
	b.ExternalToInternal = make(map[string]uint32)
	b.InternalToExternal = nil
	b.Deletions = make(map[uint32]bool)
	b.NextDocID = 0
	b.DocCount = 0
	b.TermCount = 0
	b.memoryUsed.Store(0)
}

// occurrences sorts positions together with their lengths.
type occurrences struct {
	positions []uint32
	lengths   []uint32
}

func (o occurrences) Len() int { return len(o.positions) }

func (o occurrences) Less(i, j int) bool {
	if o.positions[i] != o.positions[j] {
		return o.positions[i] < o.positions[j]
	}
	return o.lengths != nil && o.lengths[i] < o.lengths[j]
}

func (o occurrences) Swap(i, j int) {
	o.positions[i], o.positions[j] = o.positions[j], o.positions[i]
	if o.lengths != nil {
		o.lengths[i], o.lengths[j] = o.lengths[j], o.lengths[i]
	}
}
