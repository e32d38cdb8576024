package transform

import (
	"context"
	"fmt"
	"log/slog"

	"pubtransconnect/internal/cache"
	"pubtransconnect/internal/pubtrans"
)

// JourneyRecord is one dated vehicle journey occurrence within the window.
type JourneyRecord struct {
	DvjID        string
	RouteName    string
	Direction    string
	OperatingDay string
	StartTime    string
}

// Journey publishes dated vehicle journeys as dvj: hashes plus a jore
// composite reverse-lookup key per journey. The reverse-lookup write is only
// attempted once the cache has confirmed the direct write, so the reverse key
// can never point at a record that was not stored.
type Journey struct {
	writer CacheWriter
	logger *slog.Logger

	rowsRead int
	records  []JourneyRecord
}

// NewJourney creates the journey transformer.
func NewJourney(writer CacheWriter, logger *slog.Logger) *Journey {
	if logger == nil {
		logger = slog.Default()
	}
	return &Journey{writer: writer, logger: logger.With("transformer", "journey")}
}

func (t *Journey) Name() string { return "journey" }

func (t *Journey) BuildQuery(w pubtrans.DateWindow) string { return pubtrans.JourneyQuery(w) }

// Consume buffers the journey rows. A row that fails to scan is logged and
// skipped; the rest of the result set is still read.
func (t *Journey) Consume(cur pubtrans.Cursor) (int, error) {
	t.rowsRead = 0
	t.records = t.records[:0]
	for cur.Next() {
		t.rowsRead++
		var rec JourneyRecord
		if err := cur.Scan(&rec.DvjID, &rec.RouteName, &rec.Direction, &rec.OperatingDay, &rec.StartTime); err != nil {
			t.logger.Error("failed to scan journey row", "error", err)
			continue
		}
		t.records = append(t.records, rec)
	}
	return t.rowsRead, cur.Err()
}

// Publish writes each buffered journey. A non-OK reply skips that row's
// dependent write and moves on; a connectivity error aborts the remainder.
func (t *Journey) Publish(ctx context.Context) (pubtrans.Stats, error) {
	stats := pubtrans.Stats{RowsRead: t.rowsRead}
	lookupKeys := 0

	for _, rec := range t.records {
		key := cache.PrefixDvj + rec.DvjID
		fields := map[string]string{
			cache.FieldRouteName:    rec.RouteName,
			cache.FieldDirection:    rec.Direction,
			cache.FieldStartTime:    rec.StartTime,
			cache.FieldOperatingDay: rec.OperatingDay,
		}

		resp, err := t.writer.SetRecord(ctx, key, fields)
		if err != nil {
			return stats, fmt.Errorf("writing key %s: %w", key, err)
		}
		stats.RowsPublished++
		if !cache.IsSuccess(resp) {
			t.logger.Error("failed to set trip details", "key", key, "response", resp)
			continue
		}
		if err := t.writer.SetExpire(ctx, key); err != nil {
			return stats, fmt.Errorf("expiring key %s: %w", key, err)
		}
		stats.RowsConfirmed++

		joreKey := cache.FormatJoreKey(rec.RouteName, rec.Direction, rec.OperatingDay, rec.StartTime)
		resp, err = t.writer.SetScalar(ctx, joreKey, rec.DvjID)
		if err != nil {
			return stats, fmt.Errorf("writing key %s: %w", joreKey, err)
		}
		if !cache.IsSuccess(resp) {
			t.logger.Error("failed to set reverse-lookup key", "key", joreKey, "response", resp)
			continue
		}
		lookupKeys++
	}

	t.logger.Info("journey keys written",
		"trip_info_keys", stats.RowsConfirmed,
		"reverse_lookup_keys", lookupKeys,
		"db_rows", t.rowsRead,
	)
	return stats, nil
}
