// Package config loads the jiebasearch configuration from defaults, an
// optional YAML file and JIEBASEARCH_ environment variables.
package config

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"JiebaSearch/internal/analysis"
	"JiebaSearch/internal/index"
	"JiebaSearch/internal/indexing"
	"JiebaSearch/internal/log"
)

// EnvPrefix prefixes environment overrides, e.g. JIEBASEARCH_LOG_LEVEL.
const EnvPrefix = "JIEBASEARCH"

// DefaultAnalyzer is the analyzer configured when none are given.
const DefaultAnalyzer = "jieba_search"

// DefaultSentence is indexed when no documents are configured.
const DefaultSentence = "张华考上了北京大学；李萍进了中等技术学校；我在百货公司当售货员：我们都有光明的前途"

// SearchConfig selects what the demo queries.
type SearchConfig struct {
	Field   string   `mapstructure:"field"`
	Queries []string `mapstructure:"queries"`
	Limit   int      `mapstructure:"limit"`
}

// Config is the complete jiebasearch configuration.
type Config struct {
	Log log.Config `mapstructure:"log"`

	// Analyzers maps a name to analysis params, given either as a nested
	// map or as a JSON string.
	Analyzers map[string]interface{} `mapstructure:"analyzers"`

	Schema    index.Schema             `mapstructure:"schema"`
	Documents []map[string]interface{} `mapstructure:"documents"`
	Search    SearchConfig             `mapstructure:"search"`

	// Metrics logs the segmentation metrics on exit.
	Metrics bool `mapstructure:"metrics"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.disable_timestamp", false)
	v.SetDefault("log.file.filename", "")
	v.SetDefault("log.file.max_size", 300)
	v.SetDefault("log.file.max_days", 0)
	v.SetDefault("log.file.max_backups", 0)

	v.SetDefault("analyzers", map[string]interface{}{
		DefaultAnalyzer: map[string]interface{}{
			"tokenizer": "jieba",
			"filter": []interface{}{
				map[string]interface{}{"type": "length", "max": 40},
				"lowercase",
				map[string]interface{}{"type": "stemmer", "language": "english"},
			},
		},
	})
	v.SetDefault("schema", map[string]interface{}{
		"default_analyzer": DefaultAnalyzer,
		"fields": []interface{}{
			map[string]interface{}{"name": "name", "type": index.FieldTypeText, "stored": true, "indexed": true, "positions": true},
		},
	})
	v.SetDefault("documents", []interface{}{
		map[string]interface{}{"id": "1", "name": DefaultSentence},
	})
	v.SetDefault("search.field", "name")
	v.SetDefault("search.queries", []string{"售货员"})
	v.SetDefault("search.limit", 10)
	v.SetDefault("metrics", false)
}

// Load reads the configuration. An empty path looks for jiebasearch.yaml
// in the working directory and ./configs; a missing file is not an error
// unless path was given explicitly.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %q", path)
		}
	} else {
		v.SetConfigName("jiebasearch")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "read config")
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	// Env overrides arrive as a single string.
	if raw := v.Get("search.queries"); raw != nil {
		if s, ok := raw.(string); ok {
			cfg.Search.Queries = strings.Fields(s)
		}
	}
	return &cfg, nil
}

// AnalyzerParams returns the JSON params of every configured analyzer.
func (c *Config) AnalyzerParams() (map[string]string, error) {
	out := make(map[string]string, len(c.Analyzers))
	for name, raw := range c.Analyzers {
		if s, ok := raw.(string); ok {
			out[name] = s
			continue
		}
		data, err := json.Marshal(normalize(raw))
		if err != nil {
			return nil, errors.Wrapf(err, "analyzer %q", name)
		}
		out[name] = string(data)
	}
	return out, nil
}

// RegisterAnalyzers registers every configured analyzer with r.
func (c *Config) RegisterAnalyzers(r *analysis.Registry) error {
	params, err := c.AnalyzerParams()
	if err != nil {
		return err
	}
	for name, p := range params {
		if err := r.RegisterParams(name, p); err != nil {
			return err
		}
	}
	return nil
}

// IndexDocuments converts the configured documents. Scalar ids, which YAML
// may decode as numbers, are turned into strings.
func (c *Config) IndexDocuments() []indexing.Document {
	docs := make([]indexing.Document, 0, len(c.Documents))
	for _, fields := range c.Documents {
		doc := indexing.Document{Fields: make(map[string]interface{}, len(fields))}
		for k, v := range fields {
			doc.Fields[k] = normalize(v)
		}
		if id, ok := doc.Fields[indexing.IDField]; ok {
			if s, err := cast.ToStringE(id); err == nil {
				doc.Fields[indexing.IDField] = s
			}
		}
		docs = append(docs, doc)
	}
	return docs
}

// normalize converts map[interface{}]interface{} values, which some YAML
// decoders produce, into JSON-compatible maps.
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			m[cast.ToString(k)] = normalize(val)
		}
		return m
	case map[string]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			m[k] = normalize(val)
		}
		return m
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}
