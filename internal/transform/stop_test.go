package transform

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopPublishWritesScalarKeys(t *testing.T) {
	w := newMockWriter()
	tr := NewStop(w, testLogger())

	read, err := tr.Consume(&fakeCursor{rows: [][]string{
		{"9025301000100101", "1234567"},
		{"9025301000100102", "1234568"},
	}})
	require.NoError(t, err)
	require.Equal(t, 2, read)

	stats, err := tr.Publish(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, stats.RowsConfirmed)
	assert.Equal(t, "1234567", w.scalars["jpp:9025301000100101"])
	assert.Equal(t, "1234568", w.scalars["jpp:9025301000100102"])
	assert.Empty(t, w.expired, "scalar writes carry their TTL atomically")
}

func TestStopPublishCountsUnconfirmedWrites(t *testing.T) {
	w := newMockWriter()
	w.responses["jpp:G1"] = "ERR loading"
	tr := NewStop(w, testLogger())

	_, err := tr.Consume(&fakeCursor{rows: [][]string{{"G1", "1"}, {"G2", "2"}}})
	require.NoError(t, err)

	stats, err := tr.Publish(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, stats.RowsPublished)
	assert.Equal(t, 1, stats.RowsConfirmed)
}

func TestStopPublishConnectivityFailureAborts(t *testing.T) {
	w := newMockWriter()
	w.errKeys["jpp:G1"] = errors.New("broken pipe")
	tr := NewStop(w, testLogger())

	_, err := tr.Consume(&fakeCursor{rows: [][]string{{"G1", "1"}, {"G2", "2"}}})
	require.NoError(t, err)

	stats, err := tr.Publish(context.Background())

	require.Error(t, err)
	assert.Equal(t, 0, stats.RowsPublished)
	assert.NotContains(t, w.scalars, "jpp:G2")
}
