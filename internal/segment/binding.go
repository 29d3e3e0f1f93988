package segment

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"JiebaSearch/internal/log"
)

// segmentWith runs e in search mode with HMM new-word detection.
func segmentWith(e Engine, text string) []Word {
	start := time.Now()
	words := assignPositions(e.Cut(text, ModeSearch, true))
	observe(e.Name(), start, len(words))
	return words
}

// lazyEngine builds an engine on first use. Concurrent first callers block
// until the build finishes. A failed build panics in every caller.
type lazyEngine struct {
	once   sync.Once
	build  func() (Engine, error)
	engine Engine
	err    error
}

func (l *lazyEngine) get() Engine {
	l.once.Do(func() {
		start := time.Now()
		l.engine, l.err = l.build()
		if l.err != nil {
			log.L().Error("failed to load default segmentation engine", zap.Error(l.err))
			return
		}
		log.L().Debug("default segmentation engine loaded",
			zap.String("engine", l.engine.Name()),
			zap.Duration("elapsed", time.Since(start)))
	})
	if l.err != nil {
		panic(l.err)
	}
	return l.engine
}

var shared = &lazyEngine{
	build: func() (Engine, error) {
		return NewJiebaEngine(DictPaths{})
	},
}

// Default returns the process-wide engine, loading gojieba's bundled
// dictionaries on first call. It panics when they cannot be loaded.
func Default() Engine {
	return shared.get()
}

// Shared segments with the process-wide default engine. The zero value is
// ready to use and every Shared value uses the same engine.
type Shared struct{}

var _ Segmenter = Shared{}

// Segment implements Segmenter.
func (Shared) Segment(text string) []Word {
	return segmentWith(Default(), text)
}

// Custom segments with a caller-owned engine.
type Custom struct {
	engine Engine
}

var _ Segmenter = (*Custom)(nil)

// NewCustom binds engine.
func NewCustom(engine Engine) *Custom {
	return &Custom{engine: engine}
}

// Segment implements Segmenter. It panics after Into.
func (c *Custom) Segment(text string) []Word {
	if c.engine == nil {
		panic("segment: Segment called on a released binding")
	}
	return segmentWith(c.engine, text)
}

// Into returns the engine to the caller and releases the binding.
func (c *Custom) Into() Engine {
	e := c.engine
	c.engine = nil
	return e
}
