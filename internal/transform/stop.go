package transform

import (
	"context"
	"fmt"
	"log/slog"

	"pubtransconnect/internal/cache"
	"pubtransconnect/internal/pubtrans"
)

// StopRecord maps a journey pattern point Gid to its stop number. The source
// query deduplicates points with a GROUP BY, so one record per Gid.
type StopRecord struct {
	Gid    string
	Number string
}

// Stop publishes journey pattern points as jpp: scalar keys. There is no
// dependent key; the TTL rides on the write itself.
type Stop struct {
	writer CacheWriter
	logger *slog.Logger

	rowsRead int
	records  []StopRecord
}

// NewStop creates the stop transformer.
func NewStop(writer CacheWriter, logger *slog.Logger) *Stop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stop{writer: writer, logger: logger.With("transformer", "stop")}
}

func (t *Stop) Name() string { return "stop" }

func (t *Stop) BuildQuery(pubtrans.DateWindow) string { return pubtrans.StopQuery() }

func (t *Stop) Consume(cur pubtrans.Cursor) (int, error) {
	t.rowsRead = 0
	t.records = t.records[:0]
	for cur.Next() {
		t.rowsRead++
		var rec StopRecord
		if err := cur.Scan(&rec.Gid, &rec.Number); err != nil {
			t.logger.Error("failed to scan stop row", "error", err)
			continue
		}
		t.records = append(t.records, rec)
	}
	return t.rowsRead, cur.Err()
}

func (t *Stop) Publish(ctx context.Context) (pubtrans.Stats, error) {
	stats := pubtrans.Stats{RowsRead: t.rowsRead}

	for _, rec := range t.records {
		key := cache.PrefixJpp + rec.Gid
		resp, err := t.writer.SetScalar(ctx, key, rec.Number)
		if err != nil {
			return stats, fmt.Errorf("writing key %s: %w", key, err)
		}
		stats.RowsPublished++
		if !cache.IsSuccess(resp) {
			t.logger.Error("failed to set stop key", "key", key, "response", resp)
			continue
		}
		stats.RowsConfirmed++
	}

	t.logger.Info("stop keys written",
		"stop_keys", stats.RowsConfirmed,
		"db_rows", t.rowsRead,
	)
	return stats, nil
}
