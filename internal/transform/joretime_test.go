package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeStringToSeconds(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00:00:00", 0},
		{"08:15:00", 8*3600 + 15*60},
		{"23:59:59", 23*3600 + 59*60 + 59},
		// Next-day services keep counting past 24 hours.
		{"25:30:00", 25*3600 + 30*60},
		{"28:00:30", 28*3600 + 30},
	}
	for _, tc := range cases {
		got, err := timeStringToSeconds(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestTimeStringToSecondsRejectsMalformedInput(t *testing.T) {
	for _, in := range []string{"", "08:15", "8:15:00:00", "ab:cd:ef", "08:61:00", "08:15:-1"} {
		_, err := timeStringToSeconds(in)
		assert.Error(t, err, in)
	}
}

func TestStartDateTime(t *testing.T) {
	got, err := startDateTime("20240610", "08:15:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-10T08:15:00Z", got)
}

func TestStartDateTimeCrossesMidnight(t *testing.T) {
	got, err := startDateTime("20240101", "25:30:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02T01:30:00Z", got)
}

func TestStartDateTimeRejectsBadOperatingDay(t *testing.T) {
	_, err := startDateTime("2024-06-10", "08:15:00")
	assert.Error(t, err)
}
