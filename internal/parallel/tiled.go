// Package parallel runs the two blur passes of a buffer on a worker pool.
//
// A pass is split into contiguous spans of lines (rows for the horizontal
// pass, columns for the vertical pass). Spans never overlap and each one is
// written by exactly one work unit. All horizontal spans finish before the
// first vertical span starts.
package parallel

// MinSpan is the smallest number of lines handed to one work unit.
// Shorter spans cost more in scheduling than they save.
const MinSpan = 16

// Span is the half-open line range [Lo, Hi).
type Span struct {
	Lo, Hi int
}

// Len returns the number of lines in the span.
func (s Span) Len() int {
	return s.Hi - s.Lo
}

// Split partitions [0, n) into at most parts contiguous spans of at least
// minSpan lines (the last span absorbs the remainder). It returns nil when
// n <= 0.
func Split(n, parts, minSpan int) []Span {
	if n <= 0 {
		return nil
	}
	if minSpan < 1 {
		minSpan = 1
	}
	if parts < 1 {
		parts = 1
	}
	if maxParts := n / minSpan; parts > maxParts {
		parts = maxParts
	}
	if parts < 1 {
		parts = 1
	}

	spans := make([]Span, parts)
	base, extra := n/parts, n%parts
	lo := 0
	for i := range spans {
		size := base
		if i < extra {
			size++
		}
		spans[i] = Span{Lo: lo, Hi: lo + size}
		lo += size
	}
	return spans
}

// LineFunc processes the lines [lo, hi) of one pass.
type LineFunc func(lo, hi int)

// TiledExecutor runs a horizontal and a vertical pass over a buffer,
// splitting each pass across a WorkerPool.
//
// A nil pool, or a pool with a single worker, runs both passes directly on
// the calling goroutine. Because every line is computed independently, the
// result is identical whichever way the passes are split.
type TiledExecutor struct {
	pool    *WorkerPool
	minSpan int
}

// NewTiledExecutor creates an executor backed by pool (which may be nil).
func NewTiledExecutor(pool *WorkerPool) *TiledExecutor {
	return &TiledExecutor{pool: pool, minSpan: MinSpan}
}

// SetMinSpan overrides the minimum number of lines per work unit.
func (e *TiledExecutor) SetMinSpan(n int) {
	if n < 1 {
		n = 1
	}
	e.minSpan = n
}

// Workers returns how many goroutines can run spans concurrently.
func (e *TiledExecutor) Workers() int {
	if e.pool == nil || !e.pool.IsRunning() {
		return 1
	}
	return e.pool.Workers()
}

// Run calls horizontal over all rows, waits for it to complete, then calls
// vertical over all columns. Nothing is dispatched when either dimension is
// zero.
func (e *TiledExecutor) Run(rows int, horizontal LineFunc, cols int, vertical LineFunc) {
	if rows <= 0 || cols <= 0 {
		return
	}

	workers := e.Workers()
	if workers == 1 {
		horizontal(0, rows)
		vertical(0, cols)
		return
	}

	e.runPass(Split(rows, workers, e.minSpan), horizontal)
	e.runPass(Split(cols, workers, e.minSpan), vertical)
}

// runPass dispatches one unit per span and returns when all are done.
func (e *TiledExecutor) runPass(spans []Span, fn LineFunc) {
	if len(spans) == 1 {
		fn(spans[0].Lo, spans[0].Hi)
		return
	}
	work := make([]func(), len(spans))
	for i, s := range spans {
		work[i] = func() { fn(s.Lo, s.Hi) }
	}
	e.pool.ExecuteAll(work)
}
