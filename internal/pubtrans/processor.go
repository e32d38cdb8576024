package pubtrans

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Stats counts the outcome of one extraction. The three counters are
// independent: rows can be read but not published (parse or lookup failure)
// and published but not confirmed (non-OK cache reply).
type Stats struct {
	RowsRead      int
	RowsPublished int
	RowsConfirmed int
}

// Transformer is the per-domain extraction variant (journey, stop, metro).
// Consume buffers the full result set from the cursor and reports the number
// of rows read; Publish then writes the buffered records to the cache. The
// split guarantees the cursor is closed before the first cache write happens.
type Transformer interface {
	// Name identifies the variant in logs and metrics.
	Name() string
	// BuildQuery returns the SQL text for the given date window.
	BuildQuery(w DateWindow) string
	// Consume reads the cursor exactly once, forward-only. Row-level parse
	// failures are logged and skipped; only a cursor-level failure is returned.
	Consume(cur Cursor) (int, error)
	// Publish writes the records consumed by the previous Consume call and
	// returns the counters. An error means the cache became unreachable and
	// the remainder of the cycle should be abandoned.
	Publish(ctx context.Context) (Stats, error)
}

// QueryProcessor runs one extraction end to end: build query, execute, hand
// the cursor to the transformer, release the cursor on every exit path, then
// publish.
type QueryProcessor struct {
	source Source
	logger *slog.Logger
}

// NewQueryProcessor creates a QueryProcessor on the shared source.
func NewQueryProcessor(source Source, logger *slog.Logger) *QueryProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryProcessor{source: source, logger: logger}
}

// Execute runs the transformer's query for the given window and publishes the
// result. A failure to obtain the cursor is a source error and is returned;
// cursor close failures are logged only, never escalated. Elapsed wall time
// for the whole extraction is logged for observability; no retry happens here.
func (p *QueryProcessor) Execute(ctx context.Context, window DateWindow, t Transformer) (Stats, error) {
	start := time.Now()
	log := p.logger.With("transformer", t.Name())
	log.Info("starting query")

	cur, err := p.source.Query(ctx, t.BuildQuery(window))
	if err != nil {
		return Stats{}, fmt.Errorf("executing %s query: %w", t.Name(), err)
	}

	read, consumeErr := t.Consume(cur)
	if closeErr := cur.Close(); closeErr != nil {
		// Best-effort cleanup; must not mask the consume outcome.
		log.Error("failed to close cursor", "error", closeErr)
	}
	if consumeErr != nil {
		return Stats{RowsRead: read}, fmt.Errorf("reading %s result set: %w", t.Name(), consumeErr)
	}

	stats, pubErr := t.Publish(ctx)
	log.Info("query processed",
		"rows_read", stats.RowsRead,
		"rows_published", stats.RowsPublished,
		"rows_confirmed", stats.RowsConfirmed,
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)
	if pubErr != nil {
		return stats, fmt.Errorf("publishing %s records: %w", t.Name(), pubErr)
	}
	return stats, nil
}
