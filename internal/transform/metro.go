package transform

import (
	"context"
	"fmt"
	"log/slog"

	"pubtransconnect/internal/cache"
	"pubtransconnect/internal/pubtrans"
)

// MetroJourneyRecord is a metro journey keyed by its start platform and
// absolute start instant, so downstream consumers can match departures seen
// on the station systems back to the scheduled journey.
type MetroJourneyRecord struct {
	DvjID              string
	RouteName          string
	Direction          string
	OperatingDay       string
	StartTime          string
	StartStopNumber    string
	StartDatetime      string
	StartStopShortName string
}

// Metro publishes metro journeys as metro: hashes keyed by station short name
// and start datetime. Rows whose start stop has no short name in the lookup
// table are skipped with a warning rather than written incomplete.
type Metro struct {
	writer CacheWriter
	lookup StopLookupFunc
	logger *slog.Logger

	rowsRead int
	records  []MetroJourneyRecord
}

// NewMetro creates the metro transformer with the given short-name lookup.
func NewMetro(writer CacheWriter, lookup StopLookupFunc, logger *slog.Logger) *Metro {
	if logger == nil {
		logger = slog.Default()
	}
	return &Metro{writer: writer, lookup: lookup, logger: logger.With("transformer", "metro")}
}

func (t *Metro) Name() string { return "metro" }

func (t *Metro) BuildQuery(w pubtrans.DateWindow) string { return pubtrans.MetroJourneyQuery(w) }

// Consume buffers metro rows, deriving the absolute start instant and
// resolving the start platform short name. Per-row failures of either step
// skip only that row; the skips stay visible as the gap between rows read
// and rows published.
func (t *Metro) Consume(cur pubtrans.Cursor) (int, error) {
	t.rowsRead = 0
	t.records = t.records[:0]
	for cur.Next() {
		t.rowsRead++
		var rec MetroJourneyRecord
		if err := cur.Scan(&rec.DvjID, &rec.RouteName, &rec.Direction, &rec.OperatingDay, &rec.StartTime, &rec.StartStopNumber); err != nil {
			t.logger.Error("failed to scan metro row", "error", err)
			continue
		}

		dateTime, err := startDateTime(rec.OperatingDay, rec.StartTime)
		if err != nil {
			t.logger.Error("failed to derive start datetime", "dvj_id", rec.DvjID, "error", err)
			continue
		}
		rec.StartDatetime = dateTime

		shortName, ok := t.lookup(rec.StartStopNumber)
		if !ok {
			t.logger.Warn("no short name for stop number, skipping row", "stop_number", rec.StartStopNumber)
			continue
		}
		rec.StartStopShortName = shortName

		t.records = append(t.records, rec)
	}
	return t.rowsRead, cur.Err()
}

func (t *Metro) Publish(ctx context.Context) (pubtrans.Stats, error) {
	stats := pubtrans.Stats{RowsRead: t.rowsRead}

	for _, rec := range t.records {
		key := cache.FormatMetroKey(rec.StartStopShortName, rec.StartDatetime)
		fields := map[string]string{
			cache.FieldDvjID:              rec.DvjID,
			cache.FieldRouteName:          rec.RouteName,
			cache.FieldDirection:          rec.Direction,
			cache.FieldStartTime:          rec.StartTime,
			cache.FieldOperatingDay:       rec.OperatingDay,
			cache.FieldStartDatetime:      rec.StartDatetime,
			cache.FieldStartStopNumber:    rec.StartStopNumber,
			cache.FieldStartStopShortName: rec.StartStopShortName,
		}

		resp, err := t.writer.SetRecord(ctx, key, fields)
		if err != nil {
			return stats, fmt.Errorf("writing key %s: %w", key, err)
		}
		stats.RowsPublished++
		if !cache.IsSuccess(resp) {
			t.logger.Error("failed to set metro key", "key", key, "response", resp)
			continue
		}
		if err := t.writer.SetExpire(ctx, key); err != nil {
			return stats, fmt.Errorf("expiring key %s: %w", key, err)
		}
		stats.RowsConfirmed++
	}

	t.logger.Info("metro keys written",
		"metro_keys", stats.RowsConfirmed,
		"db_rows", t.rowsRead,
	)
	return stats, nil
}
