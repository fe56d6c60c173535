package engine

import (
	"time"

	"github.com/dshills/inkwell/internal/engine/history"
	"github.com/dshills/inkwell/internal/engine/lines"
	"github.com/dshills/inkwell/internal/engine/model"
)

// Default configuration values.
const (
	DefaultHistoryDepth     = history.DefaultMaxEntries
	DefaultSelectAllTimeout = lines.DefaultSelectAllTimeout
	DefaultFrameInterval    = 16 * time.Millisecond
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial note markup. Markup that cannot be parsed
// is replaced by an empty document.
func WithContent(markup string) Option {
	return func(e *Engine) {
		e.initContent = markup
	}
}

// WithSchema sets the document vocabulary. Commands whose node or mark
// types are missing from it are not registered.
func WithSchema(s *model.Schema) Option {
	return func(e *Engine) {
		if s != nil {
			e.schema = s
		}
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics sets the metrics the engine records to.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithScheduler sets the scheduler that runs deferred persistence.
func WithScheduler(s FrameScheduler) Option {
	return func(e *Engine) {
		if s != nil {
			e.scheduler = s
		}
	}
}

// WithSelectAllTimeout sets the idle timeout of progressive select-all.
func WithSelectAllTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.selectAllTimeout = d
		}
	}
}

// WithHistoryDepth sets the maximum number of undo entries.
func WithHistoryDepth(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.historyDepth = n
		}
	}
}

// WithClock sets the time source for transactions and select-all timing.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithMinify compacts persisted markup.
func WithMinify(enabled bool) Option {
	return func(e *Engine) {
		e.minify = enabled
	}
}

// WithReadOnly creates a read-only engine.
// Commands that change the document return ErrReadOnly.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}
