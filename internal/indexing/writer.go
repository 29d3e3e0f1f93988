package indexing

import (
	"encoding/json"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/spf13/cast"

	"JiebaSearch/internal/analysis"
	"JiebaSearch/internal/index"
)

// IDField is the document field holding the external document ID.
const IDField = "id"

// PositionGap separates the positions of consecutive values of a
// multi-valued text field so phrases never match across values.
const PositionGap = 100

// Document represents a JSON document to be indexed.
type Document struct {
	Fields map[string]interface{}
}

// Writer is the exclusive writer for a single index.
type Writer struct {
	schema   *index.Schema
	registry *analysis.Registry
	buffer   *WriteBuffer

	mu     sync.Mutex
	active bool
}

// NewWriter creates a new Writer for the given schema and analyzer registry.
func NewWriter(schema *index.Schema, registry *analysis.Registry) *Writer {
	return &Writer{
		schema:   schema,
		registry: registry,
		buffer:   NewWriteBuffer(),
		active:   true,
	}
}

// preparedField is a document field checked against the schema.
type preparedField struct {
	def      index.FieldDef
	analyzer *analysis.Analyzer
	values   []string
	raw      interface{}
}

// AddDocument validates and indexes a single document into the write buffer.
// A document that fails validation leaves the buffer unchanged.
func (w *Writer) AddDocument(doc Document) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.active {
		return ErrWriterNotActive
	}
	if w.buffer.IsFull() {
		return ErrBufferFull
	}

	externalID, err := extractExternalID(doc)
	if err != nil {
		return err
	}
	fields, err := w.prepare(doc)
	if err != nil {
		return err
	}

	docID, err := w.buffer.AllocateDocID(externalID)
	if err != nil {
		return err
	}

	for _, f := range fields {
		switch f.def.Type {
		case index.FieldTypeText:
			if f.def.Indexed {
				w.indexTextField(f, docID)
			}
		case index.FieldTypeKeyword:
			if f.def.Indexed {
				w.indexKeywordField(f, docID)
			}
		}

		if f.def.Stored {
			data, err := marshalFieldValue(f.raw)
			if err != nil {
				return errors.Wrapf(err, "store field %q", f.def.Name)
			}
			w.buffer.StoreField(docID, f.def.Name, data)
		}
	}

	return nil
}

// AddDocuments validates and indexes multiple documents into the write buffer.
func (w *Writer) AddDocuments(docs []Document) error {
	for i, doc := range docs {
		if err := w.AddDocument(doc); err != nil {
			return errors.Wrapf(err, "document %d", i)
		}
	}
	return nil
}

// DeleteDocument hides a document from searches by external ID.
func (w *Writer) DeleteDocument(externalID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.active {
		return ErrWriterNotActive
	}
	if !w.buffer.MarkDeleted(externalID) {
		return errors.Newf("document %q not found", externalID)
	}
	return nil
}

// DocCount returns the number of documents currently in the write buffer.
func (w *Writer) DocCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buffer.DocCount
}

// IsFull returns true if the write buffer has reached its memory or document limit.
func (w *Writer) IsFull() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buffer.IsFull()
}

// Buffer returns the current write buffer. Readers must not use it while
// documents are being added.
func (w *Writer) Buffer() *WriteBuffer {
	return w.buffer
}

// Schema returns the schema documents are checked against.
func (w *Writer) Schema() *index.Schema {
	return w.schema
}

// Registry returns the analyzers used for text fields.
func (w *Writer) Registry() *analysis.Registry {
	return w.registry
}

// Abort discards all buffered changes.
func (w *Writer) Abort() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buffer.Reset()
}

// Release deactivates the writer; later writes fail with ErrWriterNotActive.
func (w *Writer) Release() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = false
}

func (w *Writer) prepare(doc Document) ([]preparedField, error) {
	for name := range doc.Fields {
		if name != IDField && w.schema.FieldID(name) < 0 {
			return nil, errors.Wrapf(ErrUnknownField, "%q", name)
		}
	}

	var fields []preparedField
	for _, def := range w.schema.Fields {
		val, exists := doc.Fields[def.Name]
		if !exists || val == nil {
			continue
		}
		f := preparedField{def: def, raw: val}

		var err error
		switch def.Type {
		case index.FieldTypeText:
			f.values, err = textValues(def, val)
			if err == nil && def.Indexed {
				f.analyzer, err = w.registry.Get(w.schema.AnalyzerFor(def))
			}
		case index.FieldTypeKeyword:
			f.values, err = keywordValues(def, val)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "field %q", def.Name)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

type termOccurrences struct {
	freq      uint32
	positions []uint32
	lengths   []uint32
}

// indexTextField pulls tokens from the field analyzer one at a time and
// groups them by term.
func (w *Writer) indexTextField(f preparedField, docID uint32) {
	terms := make(map[string]*termOccurrences)
	base := 0
	var length uint32
	for _, text := range f.values {
		ts := f.analyzer.TokenStream(text)
		end := base
		for ts.Advance() {
			tok := ts.Token()
			if tok.Text == "" {
				continue
			}
			occ, ok := terms[tok.Text]
			if !ok {
				occ = &termOccurrences{}
				terms[tok.Text] = occ
			}
			occ.freq++
			length++
			if f.def.Positions {
				occ.positions = append(occ.positions, uint32(base+tok.Position))
				occ.lengths = append(occ.lengths, uint32(tok.PositionLength))
			}
			end = max(end, base+tok.Position+tok.PositionLength)
		}
		base = end + PositionGap
	}

	for term, occ := range terms {
		w.buffer.AddPosting(f.def.Name, term, docID, occ.freq, occ.positions, occ.lengths)
	}
	w.buffer.SetFieldLength(f.def.Name, docID, length)
}

// indexKeywordField adds one posting per distinct value; repeats count
// towards its frequency.
func (w *Writer) indexKeywordField(f preparedField, docID uint32) {
	freqs := lo.CountValues(f.values)
	for _, v := range lo.Uniq(f.values) {
		w.buffer.AddPosting(f.def.Name, v, docID, uint32(freqs[v]), nil, nil)
	}
}

func textValues(def index.FieldDef, val interface{}) ([]string, error) {
	switch v := val.(type) {
	case string:
		return []string{v}, nil
	case []string:
		if !def.MultiValued {
			return nil, errors.Wrap(ErrInvalidDocument, "field is not multi-valued but received array")
		}
		return v, nil
	case []interface{}:
		if !def.MultiValued {
			return nil, errors.Wrap(ErrInvalidDocument, "field is not multi-valued but received array")
		}
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, errors.Wrap(ErrInvalidDocument, "text array values must be strings")
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, errors.Wrap(ErrInvalidDocument, "text field value must be a string")
	}
}

// keywordValues accepts scalars, rendering numbers and booleans as strings.
func keywordValues(def index.FieldDef, val interface{}) ([]string, error) {
	switch v := val.(type) {
	case []string, []interface{}:
		if !def.MultiValued {
			return nil, errors.Wrap(ErrInvalidDocument, "field is not multi-valued but received array")
		}
		out, err := cast.ToStringSliceE(v)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidDocument, err.Error())
		}
		return out, nil
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidDocument, "keyword field value must be a scalar or array")
		}
		return []string{s}, nil
	}
}

func extractExternalID(doc Document) (string, error) {
	idVal, ok := doc.Fields[IDField]
	if !ok {
		return "", errors.Wrap(ErrInvalidDocument, "document missing 'id' field")
	}
	id, ok := idVal.(string)
	if !ok || id == "" {
		return "", errors.Wrap(ErrInvalidDocument, "document 'id' must be a non-empty string")
	}
	return id, nil
}

func marshalFieldValue(val interface{}) ([]byte, error) {
	switch v := val.(type) {
	case string:
		return []byte(v), nil
	default:
		return json.Marshal(v)
	}
}
