package transform

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pubtransconnect/internal/cache"
)

func consumeJourneys(t *testing.T, tr *Journey, rows [][]string) {
	t.Helper()
	read, err := tr.Consume(&fakeCursor{rows: rows})
	require.NoError(t, err)
	require.Equal(t, len(rows), read)
}

func TestJourneyPublishWritesKeyPair(t *testing.T) {
	w := newMockWriter()
	tr := NewJourney(w, testLogger())
	consumeJourneys(t, tr, [][]string{
		{"J1", "550", "1", "20240610", "08:15:00"},
	})

	stats, err := tr.Publish(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, stats.RowsRead)
	assert.Equal(t, 1, stats.RowsPublished)
	assert.Equal(t, 1, stats.RowsConfirmed)

	assert.Equal(t, map[string]string{
		cache.FieldRouteName:    "550",
		cache.FieldDirection:    "1",
		cache.FieldStartTime:    "08:15:00",
		cache.FieldOperatingDay: "20240610",
	}, w.records["dvj:J1"])
	assert.Contains(t, w.expired, "dvj:J1")
	assert.Equal(t, "J1", w.scalars["jore-550-1-20240610-08:15:00"])

	// The direct key must be written (and confirmed) before the reverse key.
	assert.Equal(t, []string{"dvj:J1", "jore-550-1-20240610-08:15:00"}, w.order)
}

func TestJourneyPublishSkipsReverseKeyOnUnconfirmedWrite(t *testing.T) {
	w := newMockWriter()
	w.responses["dvj:J1"] = "ERR wrong type"
	tr := NewJourney(w, testLogger())
	consumeJourneys(t, tr, [][]string{
		{"J1", "550", "1", "20240610", "08:15:00"},
		{"J2", "551", "2", "20240610", "09:00:00"},
	})

	stats, err := tr.Publish(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, stats.RowsPublished)
	assert.Equal(t, 1, stats.RowsConfirmed)

	_, reverseForJ1 := w.scalars["jore-550-1-20240610-08:15:00"]
	assert.False(t, reverseForJ1, "unconfirmed direct write must skip the reverse-lookup write")
	assert.Equal(t, "J2", w.scalars["jore-551-2-20240610-09:00:00"])
	assert.NotContains(t, w.expired, "dvj:J1")
}

func TestJourneyPublishConnectivityFailureAborts(t *testing.T) {
	w := newMockWriter()
	w.errKeys["dvj:J2"] = errors.New("connection refused")
	tr := NewJourney(w, testLogger())
	consumeJourneys(t, tr, [][]string{
		{"J1", "550", "1", "20240610", "08:15:00"},
		{"J2", "551", "2", "20240610", "09:00:00"},
		{"J3", "552", "1", "20240610", "10:00:00"},
	})

	stats, err := tr.Publish(context.Background())

	require.Error(t, err)
	assert.Equal(t, 1, stats.RowsPublished)
	assert.Equal(t, 1, stats.RowsConfirmed)
	_, wroteJ3 := w.records["dvj:J3"]
	assert.False(t, wroteJ3, "rows after a connectivity failure must not be attempted")
}

func TestJourneyConsumeSkipsBadRow(t *testing.T) {
	w := newMockWriter()
	tr := NewJourney(w, testLogger())

	read, err := tr.Consume(&fakeCursor{
		rows: [][]string{
			{"J1", "550", "1", "20240610", "08:15:00"},
			{"J2", "551", "2", "20240610", "09:00:00"},
		},
		scanErrAt: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, read)

	stats, err := tr.Publish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.RowsRead)
	assert.Equal(t, 1, stats.RowsPublished, "the bad row is skipped, the rest survives")
}

func TestJourneyConsumeCursorErrorPropagates(t *testing.T) {
	tr := NewJourney(newMockWriter(), testLogger())

	_, err := tr.Consume(&fakeCursor{
		rows:    [][]string{{"J1", "550", "1", "20240610", "08:15:00"}},
		iterErr: errors.New("connection reset"),
	})

	assert.Error(t, err, "a broken cursor is a source error, not a row error")
}

func TestJourneyPublishIsIdempotent(t *testing.T) {
	w := newMockWriter()
	tr := NewJourney(w, testLogger())
	rows := [][]string{{"J1", "550", "1", "20240610", "08:15:00"}}

	consumeJourneys(t, tr, rows)
	_, err := tr.Publish(context.Background())
	require.NoError(t, err)

	consumeJourneys(t, tr, rows)
	_, err = tr.Publish(context.Background())
	require.NoError(t, err)

	assert.Len(t, w.records, 1, "republishing overwrites, never accumulates")
	assert.Len(t, w.scalars, 1)
}
