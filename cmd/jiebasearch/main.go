package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"JiebaSearch/internal/analysis"
	"JiebaSearch/internal/config"
	"JiebaSearch/internal/engine"
	"JiebaSearch/internal/indexing"
	"JiebaSearch/internal/log"
	"JiebaSearch/internal/segment"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "jiebasearch: %+v\n", err)
		os.Exit(1)
	}
}

// run indexes the configured documents and prints the stored fields of
// every hit for each query. Command-line arguments replace the configured
// queries.
func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("jiebasearch", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if queries := fs.Args(); len(queries) > 0 {
		cfg.Search.Queries = queries
	}

	logger, err := log.InitLogger(&cfg.Log)
	if err != nil {
		return errors.Wrap(err, "init logger")
	}
	log.ReplaceGlobals(logger)
	defer func() { _ = logger.Sync() }()

	logger.Info("starting jiebasearch",
		zap.String("version", Version),
		zap.String("config", *configPath))

	reg := prometheus.NewRegistry()
	if err := segment.RegisterMetrics(reg); err != nil {
		return errors.Wrap(err, "register metrics")
	}

	registry := analysis.NewRegistry()
	defer func() {
		if err := registry.Close(); err != nil {
			logger.Warn("failed to release analyzers", zap.Error(err))
		}
	}()
	if err := cfg.RegisterAnalyzers(registry); err != nil {
		return err
	}
	if err := cfg.Schema.Validate(registry.Has); err != nil {
		return errors.Wrap(err, "schema")
	}

	w := indexing.NewWriter(&cfg.Schema, registry)
	docs := cfg.IndexDocuments()
	if err := w.AddDocuments(docs); err != nil {
		return err
	}
	logger.Info("indexed documents",
		zap.Int("docs", w.DocCount()),
		zap.Int("terms", w.Buffer().TermCount),
		zap.Int64("memory_bytes", w.Buffer().MemoryUsed()))

	s := engine.NewSearcher(w)
	for _, q := range cfg.Search.Queries {
		hits, err := search(s, cfg.Search, q)
		if err != nil {
			return errors.Wrapf(err, "query %q", q)
		}
		logger.Info("query finished", zap.String("query", q), zap.Int("hits", len(hits)))

		fmt.Fprintf(stdout, "Search Result for %q:\n", q)
		for _, h := range hits {
			fmt.Fprintln(stdout, s.Stored(h.DocID)[cfg.Search.Field])
		}
	}

	if cfg.Metrics {
		logMetrics(logger, reg)
	}
	return nil
}

// search returns the best Limit hits by score, or every hit in document
// order when no limit is set.
func search(s *engine.Searcher, cfg config.SearchConfig, q string) ([]engine.Hit, error) {
	if cfg.Limit > 0 {
		return s.Top(cfg.Field, q, cfg.Limit)
	}
	return s.Phrase(cfg.Field, q)
}

func logMetrics(logger *zap.Logger, g prometheus.Gatherer) {
	families, err := g.Gather()
	if err != nil {
		logger.Warn("failed to gather metrics", zap.Error(err))
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fields := []zap.Field{zap.String("metric", mf.GetName())}
			for _, lp := range m.GetLabel() {
				fields = append(fields, zap.String(lp.GetName(), lp.GetValue()))
			}
			switch {
			case m.GetCounter() != nil:
				fields = append(fields, zap.Float64("value", m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				fields = append(fields,
					zap.Uint64("count", m.GetHistogram().GetSampleCount()),
					zap.Float64("sum", m.GetHistogram().GetSampleSum()))
			}
			logger.Info("metric", fields...)
		}
	}
}
