package analysis

import (
	"io"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

var (
	// ErrUnknownAnalyzer is returned when no analyzer has the requested name.
	ErrUnknownAnalyzer = errors.New("unknown analyzer")
	// ErrAnalyzerExists is returned when registering a taken name.
	ErrAnalyzerExists = errors.New("analyzer already registered")
	// ErrInvalidParams is returned for malformed analyzer definitions.
	ErrInvalidParams = errors.New("invalid analyzer params")
)

// Registry manages analyzers by name. The built-in "standard",
// "whitespace", "keyword" and "jieba" analyzers are always present;
// the jieba engine itself is only loaded when first used.
type Registry struct {
	analyzers map[string]*Analyzer
	mu        sync.RWMutex
}

// NewRegistry creates a Registry with the built-in analyzers registered.
func NewRegistry() *Registry {
	return &Registry{
		analyzers: map[string]*Analyzer{
			TokenizerStandard:   NewAnalyzer(NewStandardTokenizer()),
			TokenizerWhitespace: NewAnalyzer(NewWhitespaceTokenizer()),
			TokenizerKeyword:    NewAnalyzer(NewKeywordTokenizer()),
			TokenizerJieba:      NewAnalyzer(NewJiebaTokenizer()),
		},
	}
}

// Get returns the analyzer registered under the given name.
func (r *Registry) Get(name string) (*Analyzer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.analyzers[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownAnalyzer, "%q", name)
	}
	return a, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.analyzers[name]
	return ok
}

// Register adds a custom analyzer to the registry.
func (r *Registry) Register(name string, a *Analyzer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.analyzers[name]; exists {
		return errors.Wrapf(ErrAnalyzerExists, "%q", name)
	}
	r.analyzers[name] = a
	return nil
}

// RegisterParams builds an analyzer from a JSON definition and registers it.
// See NewAnalyzerFromParams for the accepted format.
func (r *Registry) RegisterParams(name, params string) error {
	if r.Has(name) {
		return errors.Wrapf(ErrAnalyzerExists, "%q", name)
	}
	a, err := NewAnalyzerFromParams(params)
	if err != nil {
		return errors.Wrapf(err, "analyzer %q", name)
	}
	if err := r.Register(name, a); err != nil {
		_ = a.Close()
		return err
	}
	return nil
}

// Names returns the names of all registered analyzers in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := lo.Keys(r.analyzers)
	sort.Strings(names)
	return names
}

// Close releases every analyzer that owns a segmentation engine and
// unregisters them; later lookups of those names fail with
// ErrUnknownAnalyzer.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for name, a := range r.analyzers {
		if !a.ownsEngine() {
			continue
		}
		if err := a.Close(); err != nil {
			errs = append(errs, errors.Wrapf(err, "close analyzer %q", name))
		}
		delete(r.analyzers, name)
	}
	return errors.Join(errs...)
}

var _ io.Closer = (*Registry)(nil)
