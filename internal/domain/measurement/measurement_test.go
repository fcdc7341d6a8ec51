package measurement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCheckTime(t *testing.T) {
	got, err := ParseCheckTime("2023-05-01 14:30:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 5, 1, 14, 30, 0, 0, time.UTC), got)

	got, err = ParseCheckTime("2023-05-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestParseCheckTime_Rejects(t *testing.T) {
	for _, raw := range []string{"", "01/05/2023", "2023-5-1", "2023-05-01T14:30:00Z", "yesterday"} {
		_, err := ParseCheckTime(raw)
		require.ErrorIs(t, err, ErrBadCheckTime, "input %q", raw)
	}
}

func TestFormatCheckTime(t *testing.T) {
	ts := time.Date(2023, 5, 1, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "2023-05-01 14:30:00", FormatCheckTime(ts))
}
