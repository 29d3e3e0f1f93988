package index

import (
	"github.com/cockroachdb/errors"
)

// Field type constants.
const (
	FieldTypeText       = "text"
	FieldTypeKeyword    = "keyword"
	FieldTypeStoredOnly = "stored_only"
)

// Built-in analyzer names.
const (
	AnalyzerStandard   = "standard"
	AnalyzerWhitespace = "whitespace"
	AnalyzerKeyword    = "keyword"
	AnalyzerJieba      = "jieba"
)

// Schema limits.
const (
	MaxFieldsPerSchema = 256
	MaxFieldNameLength = 255
)

// Reserved field names that cannot be used in user schemas.
var reservedFieldNames = map[string]bool{
	"_id":     true,
	"_score":  true,
	"_source": true,
}

var (
	ErrSchemaFieldLimit       = errors.New("schema exceeds maximum field count")
	ErrSchemaReservedField    = errors.New("field name is reserved")
	ErrSchemaDuplicateField   = errors.New("duplicate field name")
	ErrSchemaInvalidType      = errors.New("invalid field type")
	ErrSchemaInvalidAnalyzer  = errors.New("invalid analyzer")
	ErrSchemaFieldNameTooLong = errors.New("field name exceeds maximum length")
	ErrSchemaMissingAnalyzer  = errors.New("text field requires an analyzer")
	ErrSchemaInvalidField     = errors.New("invalid field definition")
)

// Schema describes the fields of an index.
type Schema struct {
	Fields          []FieldDef `json:"fields" mapstructure:"fields"`
	DefaultAnalyzer string     `json:"default_analyzer" mapstructure:"default_analyzer"`
}

// FieldDef defines a single field in the schema. A text field without an
// analyzer uses the schema's default analyzer.
type FieldDef struct {
	Name        string `json:"name" mapstructure:"name"`
	Type        string `json:"type" mapstructure:"type"`
	Analyzer    string `json:"analyzer,omitempty" mapstructure:"analyzer"`
	Stored      bool   `json:"stored" mapstructure:"stored"`
	Indexed     bool   `json:"indexed" mapstructure:"indexed"`
	Positions   bool   `json:"positions,omitempty" mapstructure:"positions"`
	MultiValued bool   `json:"multi_valued,omitempty" mapstructure:"multi_valued"`
}

// FieldID returns the index of the named field, or -1 if not found.
func (s *Schema) FieldID(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Field returns the named field definition.
func (s *Schema) Field(name string) (FieldDef, bool) {
	if id := s.FieldID(name); id >= 0 {
		return s.Fields[id], true
	}
	return FieldDef{}, false
}

// AnalyzerFor returns the analyzer name used for f.
func (s *Schema) AnalyzerFor(f FieldDef) string {
	if f.Analyzer != "" {
		return f.Analyzer
	}
	return s.DefaultAnalyzer
}

// IsBuiltinAnalyzer reports whether name is one of the built-in analyzers.
func IsBuiltinAnalyzer(name string) bool {
	switch name {
	case AnalyzerStandard, AnalyzerWhitespace, AnalyzerKeyword, AnalyzerJieba:
		return true
	default:
		return false
	}
}

// Validate checks the schema for correctness. known reports whether an
// analyzer name is available; nil accepts only the built-in analyzers.
func (s *Schema) Validate(known func(string) bool) error {
	if known == nil {
		known = IsBuiltinAnalyzer
	}
	if len(s.Fields) > MaxFieldsPerSchema {
		return errors.Wrapf(ErrSchemaFieldLimit, "%d fields (max %d)", len(s.Fields), MaxFieldsPerSchema)
	}
	if s.DefaultAnalyzer != "" && !known(s.DefaultAnalyzer) {
		return errors.Wrapf(ErrSchemaInvalidAnalyzer, "default_analyzer %q", s.DefaultAnalyzer)
	}

	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if reservedFieldNames[f.Name] {
			return errors.Wrapf(ErrSchemaReservedField, "%q", f.Name)
		}
		if f.Name == "" {
			return errors.Wrap(ErrSchemaInvalidField, "empty field name")
		}
		if seen[f.Name] {
			return errors.Wrapf(ErrSchemaDuplicateField, "%q", f.Name)
		}
		seen[f.Name] = true

		if len(f.Name) > MaxFieldNameLength {
			return errors.Wrapf(ErrSchemaFieldNameTooLong, "%q (%d bytes, max %d)", f.Name, len(f.Name), MaxFieldNameLength)
		}
		if err := s.validateField(f, known); err != nil {
			return errors.Wrapf(err, "field %q", f.Name)
		}
	}
	return nil
}

func (s *Schema) validateField(f FieldDef, known func(string) bool) error {
	switch f.Type {
	case FieldTypeText:
		name := s.AnalyzerFor(f)
		if name == "" {
			return ErrSchemaMissingAnalyzer
		}
		if !known(name) {
			return errors.Wrapf(ErrSchemaInvalidAnalyzer, "%q", name)
		}
	case FieldTypeKeyword:
		if f.Analyzer != "" {
			return errors.Wrap(ErrSchemaInvalidField, "keyword fields take no analyzer")
		}
		if f.Positions {
			return errors.Wrap(ErrSchemaInvalidField, "positions only allowed on text fields")
		}
	case FieldTypeStoredOnly:
		if f.Indexed {
			return errors.Wrap(ErrSchemaInvalidField, "stored_only fields cannot be indexed")
		}
		if !f.Stored {
			return errors.Wrap(ErrSchemaInvalidField, "stored_only fields must be stored")
		}
		if f.Positions {
			return errors.Wrap(ErrSchemaInvalidField, "positions only allowed on text fields")
		}
	default:
		return errors.Wrapf(ErrSchemaInvalidType, "%q", f.Type)
	}
	return nil
}
