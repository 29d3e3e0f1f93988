package engine

import (
	"time"

	"github.com/cockroachdb/errors"
)

var (
	ErrQueryTimeout     = errors.New("query execution timeout")
	ErrDocLimitExceeded = errors.New("candidate document limit exceeded")
)

// Default search limits.
const (
	DefaultTimeout        = 5 * time.Second
	DefaultMaxDocsVisited = 1_000_000
)

// ExecutionContext tracks execution limits and timeout for a query.
type ExecutionContext struct {
	Deadline       time.Time
	MaxDocsVisited int
	DocsVisited    int

	// checkCounter amortizes time checks.
	checkCounter  int
	checkInterval int

	TimedOut      bool
	LimitExceeded bool
}

// NewExecutionContext creates a context with the given timeout and limit.
func NewExecutionContext(timeout time.Duration, maxDocs int) *ExecutionContext {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxDocs <= 0 {
		maxDocs = DefaultMaxDocsVisited
	}
	return &ExecutionContext{
		Deadline:       time.Now().Add(timeout),
		MaxDocsVisited: maxDocs,
		checkInterval:  128,
	}
}

// Visit counts one candidate document and checks the limits.
// Time checks are amortized to avoid calling time.Now() on every document.
func (ctx *ExecutionContext) Visit() error {
	ctx.DocsVisited++
	if ctx.DocsVisited > ctx.MaxDocsVisited {
		ctx.LimitExceeded = true
		return ErrDocLimitExceeded
	}

	ctx.checkCounter++
	if ctx.checkCounter%ctx.checkInterval == 0 && time.Now().After(ctx.Deadline) {
		ctx.TimedOut = true
		return ErrQueryTimeout
	}
	return nil
}
